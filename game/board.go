package game

// Cell is the content of one grid square: Empty or the color index of the
// piece type that was locked into it.
type Cell uint8

const (
	Empty Cell = 0

	// MaxCell is the largest color index a cell can hold.
	MaxCell Cell = 7
)

const (
	DefaultRows = 20
	DefaultCols = 10
)

// Board is the arena of locked-in cells, stored row-major. Its dimensions are
// fixed at construction; only the rules engine mutates its contents.
type Board struct {
	cols  int
	cells [][]Cell
}

// NewBoard creates an empty board with the given number of rows and columns.
func NewBoard(rows, cols int) *Board {
	cells := make([][]Cell, rows)
	for y := range cells {
		cells[y] = make([]Cell, cols)
	}
	return &Board{cols: cols, cells: cells}
}

// Width returns the number of columns.
func (b *Board) Width() int {
	return b.cols
}

// Height returns the number of rows.
func (b *Board) Height() int {
	return len(b.cells)
}

// Contains reports whether (x, y) lies on the board.
func (b *Board) Contains(x, y int) bool {
	return y >= 0 && y < len(b.cells) && x >= 0 && x < b.cols
}

// At returns the cell at column x, row y. Positions off the board read as
// Empty.
func (b *Board) At(x, y int) Cell {
	if !b.Contains(x, y) {
		return Empty
	}
	return b.cells[y][x]
}

// Row returns a copy of row y.
func (b *Board) Row(y int) []Cell {
	row := make([]Cell, b.cols)
	copy(row, b.cells[y])
	return row
}

// Full reports whether every cell of row y is occupied.
func (b *Board) Full(y int) bool {
	for _, c := range b.cells[y] {
		if c == Empty {
			return false
		}
	}
	return true
}

func (b *Board) clear() {
	for _, row := range b.cells {
		clear(row)
	}
}

// removeRow drops row y and inserts an empty row at the top, shifting every
// row above y down by one.
func (b *Board) removeRow(y int) {
	row := b.cells[y]
	copy(b.cells[1:y+1], b.cells[:y])
	clear(row)
	b.cells[0] = row
}
