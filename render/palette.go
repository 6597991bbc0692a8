// Package render draws game surfaces to a window or a terminal.
package render

import (
	"image/color"

	"github.com/plus3/blockfall/game"
)

// Palette maps cell values to colors. Index 0 is the background.
type Palette [game.MaxCell + 1]color.RGBA

var DefaultPalette = Palette{
	{0, 0, 0, 255},
	{0xFF, 0x0D, 0x72, 255},
	{0x0D, 0xC2, 0xFF, 255},
	{0x0D, 0xFF, 0x72, 255},
	{0xF5, 0x38, 0xFF, 255},
	{0xFF, 0x8E, 0x0D, 255},
	{0xFF, 0xE1, 0x38, 255},
	{0x38, 0x77, 0xFF, 255},
}

// Color returns the color for c, or the background for out-of-range values.
func (p *Palette) Color(c game.Cell) color.RGBA {
	if int(c) >= len(p) {
		return p[0]
	}
	return p[c]
}
