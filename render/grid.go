package render

import "github.com/plus3/blockfall/game"

// Grid is a cell buffer that implements game.Surface. Cells outside the
// grid are ignored.
type Grid struct {
	cols, rows int
	cells      []game.Cell
}

func NewGrid(cols, rows int) *Grid {
	return &Grid{cols: cols, rows: rows, cells: make([]game.Cell, cols*rows)}
}

func (g *Grid) Width() int  { return g.cols }
func (g *Grid) Height() int { return g.rows }

func (g *Grid) Clear() {
	clear(g.cells)
}

func (g *Grid) FillCell(x, y int, c game.Cell) {
	if x < 0 || y < 0 || x >= g.cols || y >= g.rows {
		return
	}
	g.cells[y*g.cols+x] = c
}

func (g *Grid) At(x, y int) game.Cell {
	if x < 0 || y < 0 || x >= g.cols || y >= g.rows {
		return game.Empty
	}
	return g.cells[y*g.cols+x]
}
