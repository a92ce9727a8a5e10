package board

import "strings"

// Mark is the content of a single cell.
type Mark uint8

const (
	Empty Mark = iota
	X
	O
)

// Size is the number of cells on the grid.
const Size = 9

// Center is the index of the middle cell.
const Center = 4

// Corners lists the corner cells in ascending order.
var Corners = [4]int{0, 2, 6, 8}

// Lines holds every row, column and diagonal, in that order.
var Lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return " "
	}
}

// Opponent returns the other player's mark. Empty has no opponent.
func (m Mark) Opponent() Mark {
	switch m {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// Board is a 3x3 grid stored row-major. It is a value type: assigning or
// passing a Board copies it.
type Board [Size]Mark

// InRange reports whether i addresses a cell.
func InRange(i int) bool {
	return i >= 0 && i < Size
}

// IsEmpty reports whether cell i is in range and unoccupied.
func (b Board) IsEmpty(i int) bool {
	return InRange(i) && b[i] == Empty
}

// EmptyCells returns the unoccupied indices in ascending order.
func (b Board) EmptyCells() []int {
	cells := make([]int, 0, Size)
	for i, m := range b {
		if m == Empty {
			cells = append(cells, i)
		}
	}
	return cells
}

// Full reports whether no cell is empty.
func (b Board) Full() bool {
	for _, m := range b {
		if m == Empty {
			return false
		}
	}
	return true
}

// Count returns how many cells hold m.
func (b Board) Count(m Mark) int {
	n := 0
	for _, c := range b {
		if c == m {
			n++
		}
	}
	return n
}

// String renders the board as three lines, using '.' for empty cells.
func (b Board) String() string {
	var sb strings.Builder
	for i, m := range b {
		if m == Empty {
			sb.WriteByte('.')
		} else {
			sb.WriteString(m.String())
		}
		if i%3 == 2 && i != Size-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Parse builds a board from a 9-character string of 'X', 'O' and '.' (or
// space). Whitespace between rows is ignored. It is meant for tests and
// fixtures; ok is false when the layout is not exactly nine cells.
func Parse(s string) (b Board, ok bool) {
	s = strings.NewReplacer("\n", "", "\t", "", "|", "").Replace(s)
	if len(s) != Size {
		return Board{}, false
	}
	for i, r := range s {
		switch r {
		case 'X', 'x':
			b[i] = X
		case 'O', 'o':
			b[i] = O
		case '.', ' ', '_':
			b[i] = Empty
		default:
			return Board{}, false
		}
	}
	return b, true
}
