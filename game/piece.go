package game

import (
	"fmt"
	"math/rand/v2"
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=PieceType -trimprefix=Piece

// PieceType identifies one of the seven tetrominoes.
type PieceType int

const (
	PieceT PieceType = iota
	PieceJ
	PieceL
	PieceO
	PieceS
	PieceZ
	PieceI

	pieceTypeCount = 7
)

// AllPieceTypes lists every piece type in catalog order.
var AllPieceTypes = [pieceTypeCount]PieceType{PieceT, PieceJ, PieceL, PieceO, PieceS, PieceZ, PieceI}

const maxShapeSize = 4

// Shape is one rotation state of a piece: a Size×Size window into a fixed
// 4×4 grid indexed [row][col]. Cells outside the window are always Empty.
type Shape struct {
	Type  PieceType
	Size  int
	Cells [maxShapeSize][maxShapeSize]Cell
}

var shapeCatalog = [pieceTypeCount]Shape{
	PieceT: {Size: 3, Cells: [maxShapeSize][maxShapeSize]Cell{
		{0, 1, 0},
		{1, 1, 1},
		{0, 0, 0},
	}},
	PieceJ: {Size: 3, Cells: [maxShapeSize][maxShapeSize]Cell{
		{4, 0, 0},
		{4, 4, 4},
		{0, 0, 0},
	}},
	PieceL: {Size: 3, Cells: [maxShapeSize][maxShapeSize]Cell{
		{0, 0, 3},
		{3, 3, 3},
		{0, 0, 0},
	}},
	PieceO: {Size: 2, Cells: [maxShapeSize][maxShapeSize]Cell{
		{2, 2},
		{2, 2},
	}},
	PieceS: {Size: 3, Cells: [maxShapeSize][maxShapeSize]Cell{
		{0, 6, 6},
		{6, 6, 0},
		{0, 0, 0},
	}},
	PieceZ: {Size: 3, Cells: [maxShapeSize][maxShapeSize]Cell{
		{7, 7, 0},
		{0, 7, 7},
		{0, 0, 0},
	}},
	PieceI: {Size: 4, Cells: [maxShapeSize][maxShapeSize]Cell{
		{0, 0, 0, 0},
		{5, 5, 5, 5},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}},
}

// NewShape returns the spawn orientation of the given piece type. It panics
// on an unknown type.
func NewShape(t PieceType) Shape {
	if t < 0 || t >= pieceTypeCount {
		panic(fmt.Sprintf("game: unknown piece type %d", int(t)))
	}
	s := shapeCatalog[t]
	s.Type = t
	return s
}

// At returns the cell at (row, col) of the shape's window.
func (s Shape) At(row, col int) Cell {
	return s.Cells[row][col]
}

// Color returns the color index shared by every occupied cell.
func (s Shape) Color() Cell {
	for row := 0; row < s.Size; row++ {
		for col := 0; col < s.Size; col++ {
			if c := s.Cells[row][col]; c != Empty {
				return c
			}
		}
	}
	return Empty
}

// rotate turns the shape 90° clockwise: transpose, then reverse each row.
func (s *Shape) rotate() {
	s.transpose()
	s.reverseRows()
}

// unrotate is the exact inverse of rotate.
func (s *Shape) unrotate() {
	s.reverseRows()
	s.transpose()
}

func (s *Shape) transpose() {
	for row := 0; row < s.Size; row++ {
		for col := 0; col < row; col++ {
			s.Cells[row][col], s.Cells[col][row] = s.Cells[col][row], s.Cells[row][col]
		}
	}
}

func (s *Shape) reverseRows() {
	for row := 0; row < s.Size; row++ {
		for l, r := 0, s.Size-1; l < r; l, r = l+1, r-1 {
			s.Cells[row][l], s.Cells[row][r] = s.Cells[row][r], s.Cells[row][l]
		}
	}
}

// Generator produces the sequence of piece types a session plays.
type Generator interface {
	Next() PieceType
}

// RandomType picks one of the seven piece types uniformly.
func RandomType(rng *rand.Rand) PieceType {
	return AllPieceTypes[rng.IntN(pieceTypeCount)]
}

// UniformGenerator draws every piece independently and uniformly.
type UniformGenerator struct {
	rng *rand.Rand
}

func NewUniformGenerator(rng *rand.Rand) *UniformGenerator {
	return &UniformGenerator{rng: rng}
}

func (g *UniformGenerator) Next() PieceType {
	return RandomType(g.rng)
}

// BagGenerator deals shuffled bags of all seven types, so every type appears
// once per seven pieces.
type BagGenerator struct {
	rng *rand.Rand
	bag []PieceType
}

func NewBagGenerator(rng *rand.Rand) *BagGenerator {
	return &BagGenerator{rng: rng}
}

func (g *BagGenerator) Next() PieceType {
	if len(g.bag) == 0 {
		g.bag = append(g.bag[:0], AllPieceTypes[:]...)
		g.rng.Shuffle(len(g.bag), func(i, j int) {
			g.bag[i], g.bag[j] = g.bag[j], g.bag[i]
		})
	}
	t := g.bag[0]
	g.bag = g.bag[1:]
	return t
}
