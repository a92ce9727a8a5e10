package scoring

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// HistoryStorage loads and appends session records.
// This allows for mocking the storage layer during tests.
type HistoryStorage interface {
	// LoadAll loads every stored session record.
	LoadAll() ([]SessionRecord, error)
	// Append adds one record to the persistence layer.
	Append(record SessionRecord) error
}

// JSONFileStorage keeps one JSON object per line in a file.
type JSONFileStorage struct {
	path string
}

// NewJSONFileStorage returns storage backed by path. An empty path selects
// ~/.config/go-ttt/history.jsonl.
func NewJSONFileStorage(path string) (*JSONFileStorage, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not get user home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".config", "go-ttt", "history.jsonl")
	}
	return &JSONFileStorage{path: path}, nil
}

// Path returns the backing file location.
func (jfs *JSONFileStorage) Path() string {
	return jfs.path
}

// LoadAll reads and decodes all session records from the file.
func (jfs *JSONFileStorage) LoadAll() ([]SessionRecord, error) {
	file, err := os.Open(jfs.path)
	// A missing file just means no sessions were played yet.
	if errors.Is(err, os.ErrNotExist) {
		return []SessionRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error opening history file for reading: %w", err)
	}
	defer file.Close()

	records := make([]SessionRecord, 0)
	decoder := json.NewDecoder(file)
	for {
		var record SessionRecord
		if err := decoder.Decode(&record); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("error decoding history record: %w", err)
		}
		records = append(records, record)
	}

	return records, nil
}

// Append encodes record and writes it at the end of the file.
func (jfs *JSONFileStorage) Append(record SessionRecord) error {
	// Ensure the directory exists.
	if err := os.MkdirAll(filepath.Dir(jfs.path), 0o755); err != nil {
		return fmt.Errorf("error creating history directory: %w", err)
	}

	file, err := os.OpenFile(jfs.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("error opening history file for writing: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err := json.NewEncoder(writer).Encode(record); err != nil {
		return fmt.Errorf("error encoding history record: %w", err)
	}

	return writer.Flush()
}
