package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// ImageSurface buffers cells during the game update and paints them onto an
// ebiten image during Draw.
type ImageSurface struct {
	*Grid

	CellSize float32
	Palette  *Palette

	// Border outlines each filled cell with a one pixel stroke.
	Border      bool
	BorderColor color.RGBA
}

func NewImageSurface(cols, rows int, cellSize float32) *ImageSurface {
	return &ImageSurface{
		Grid:        NewGrid(cols, rows),
		CellSize:    cellSize,
		Palette:     &DefaultPalette,
		Border:      true,
		BorderColor: color.RGBA{20, 20, 20, 255},
	}
}

// Size returns the surface's extent in pixels.
func (s *ImageSurface) Size() (float32, float32) {
	return float32(s.cols) * s.CellSize, float32(s.rows) * s.CellSize
}

// Paint draws the buffered cells with the surface's top-left corner at
// (ox, oy). Empty cells are left as the background.
func (s *ImageSurface) Paint(dst *ebiten.Image, ox, oy float32) {
	w, h := s.Size()
	vector.DrawFilledRect(dst, ox, oy, w, h, s.Palette.Color(0), false)

	for y := 0; y < s.rows; y++ {
		for x := 0; x < s.cols; x++ {
			c := s.At(x, y)
			if c == 0 {
				continue
			}
			px := ox + float32(x)*s.CellSize
			py := oy + float32(y)*s.CellSize
			vector.DrawFilledRect(dst, px, py, s.CellSize, s.CellSize, s.Palette.Color(c), false)
			if s.Border {
				vector.StrokeRect(dst, px, py, s.CellSize, s.CellSize, 1, s.BorderColor, false)
			}
		}
	}
}
