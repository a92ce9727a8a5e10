package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string  `yaml:"log-level" env:"TTT_LOG_LEVEL" env-default:"info" env-description:"debug, info, warn or error"`
	LogFile  string  `yaml:"log-file" env:"TTT_LOG_FILE" env-description:"write logs to this file, none when empty"`
	Mode     string  `yaml:"mode" env:"TTT_MODE" env-default:"ai" env-description:"starting mode: ai or multiplayer"`
	Seed     int64   `yaml:"seed" env:"TTT_SEED" env-default:"0" env-description:"computer player seed, 0 for random"`
	History  History `yaml:"history"`
	Timing   Timing  `yaml:"timing"`
}

// History controls the session history file. Disabled is negative so that
// a missing key and an explicit false read the same.
type History struct {
	Disabled bool   `yaml:"disabled" env:"TTT_NO_HISTORY" env-description:"do not record finished sessions"`
	Path     string `yaml:"path" env:"TTT_HISTORY_PATH" env-description:"session history file, defaults to ~/.config/go-ttt/history.jsonl"`
}

// Timing holds presentation delays. None of them affect game rules.
type Timing struct {
	WinReset      time.Duration `yaml:"win-reset" env:"TTT_WIN_RESET" env-default:"3s"`
	TieReset      time.Duration `yaml:"tie-reset" env:"TTT_TIE_RESET" env-default:"2s"`
	ComputerDelay time.Duration `yaml:"computer-delay" env:"TTT_COMPUTER_DELAY" env-default:"500ms"`
}

// Load reads the YAML file at path, then applies the environment. An empty
// path reads the environment only.
func Load(path string) (*Config, error) {
	config := &Config{}

	if path == "" {
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to read config from environment: %w", err)
		}
		return config, nil
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

// MustLoad - same as Load but panics on error.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}
	return config
}

// SlogLevel maps LogLevel onto slog. Unknown values mean info.
func (that *Config) SlogLevel() slog.Level {
	switch strings.ToLower(that.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Usage describes the environment variables for -help output.
func Usage() string {
	desc, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return ""
	}
	return desc
}
