package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/plus3/blockfall/game"
)

// TerminalSurface draws cells straight to a tcell screen. Each cell is two
// columns wide so blocks look square.
type TerminalSurface struct {
	screen     tcell.Screen
	x, y       int
	cols, rows int
	palette    *Palette
}

func NewTerminalSurface(screen tcell.Screen, x, y, cols, rows int) *TerminalSurface {
	return &TerminalSurface{
		screen:  screen,
		x:       x,
		y:       y,
		cols:    cols,
		rows:    rows,
		palette: &DefaultPalette,
	}
}

// Move repositions the surface, for example after a terminal resize.
func (s *TerminalSurface) Move(x, y int) {
	s.x, s.y = x, y
}

func (s *TerminalSurface) Clear() {
	bg := s.style(game.Empty)
	for y := 0; y < s.rows; y++ {
		for x := 0; x < s.cols; x++ {
			s.set(x, y, '·', bg)
		}
	}
}

func (s *TerminalSurface) FillCell(x, y int, c game.Cell) {
	if x < 0 || y < 0 || x >= s.cols || y >= s.rows {
		return
	}
	s.set(x, y, '█', s.style(c))
}

func (s *TerminalSurface) set(x, y int, r rune, style tcell.Style) {
	sx := s.x + x*2
	sy := s.y + y
	s.screen.SetContent(sx, sy, r, nil, style)
	s.screen.SetContent(sx+1, sy, r, nil, style)
}

func (s *TerminalSurface) style(c game.Cell) tcell.Style {
	if c == game.Empty {
		return tcell.StyleDefault.Foreground(tcell.ColorDimGray)
	}
	rgb := s.palette.Color(c)
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(rgb.R), int32(rgb.G), int32(rgb.B)))
}

// DrawText writes text starting at (x, y) and returns the column after it.
func DrawText(screen tcell.Screen, x, y int, style tcell.Style, text string) int {
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}
