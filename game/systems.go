package game

import "github.com/plus3/blockfall/loop"

// DropSystem feeds frame time into the session's drop timer.
type DropSystem struct {
	Session *Session
}

func (s *DropSystem) Execute(frame *loop.Frame) {
	s.Session.Advance(frame.DeltaTime)
}

// PreviewSize is the side, in cells, of a preview surface that holds every
// shape at the preview offset.
const PreviewSize = maxShapeSize + 2

// previewOffset is where the lookahead shape is drawn on the preview.
const previewOffset = 1

// RenderSystem redraws the board and the next-piece preview every frame.
type RenderSystem struct {
	Session *Session
	Board   Surface
	Preview Surface
}

func (s *RenderSystem) Execute(frame *loop.Frame) {
	Draw(s.Session, s.Board, s.Preview)
}

// Draw paints the locked cells and the falling piece onto board, and the
// lookahead shape onto preview one cell in from its corner.
func Draw(s *Session, board, preview Surface) {
	board.Clear()
	b := s.Board()
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			if c := b.At(x, y); c != Empty {
				board.FillCell(x, y, c)
			}
		}
	}
	if s.State() != StateIdle {
		p := s.Active()
		drawShape(board, p.Shape, p.X, p.Y)
	}

	preview.Clear()
	drawShape(preview, s.Next(), previewOffset, previewOffset)
}

func drawShape(surface Surface, shape Shape, x, y int) {
	for row := 0; row < shape.Size; row++ {
		for col := 0; col < shape.Size; col++ {
			if c := shape.Cells[row][col]; c != Empty {
				surface.FillCell(x+col, y+row, c)
			}
		}
	}
}
