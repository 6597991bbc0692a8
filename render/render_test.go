package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/blockfall/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ game.Surface = (*Grid)(nil)
	_ game.Surface = (*ImageSurface)(nil)
	_ game.Surface = (*TerminalSurface)(nil)
)

func TestPaletteMatchesPieceColors(t *testing.T) {
	for _, pt := range game.AllPieceTypes {
		c := game.NewShape(pt).Color()
		assert.NotEqual(t, DefaultPalette[0], DefaultPalette.Color(c), "piece %s", pt)
	}
	assert.Equal(t, DefaultPalette[0], DefaultPalette.Color(game.MaxCell+1))
	assert.Equal(t, uint8(0xFF), DefaultPalette.Color(1).R)
	assert.Equal(t, uint8(0x72), DefaultPalette.Color(1).B)
}

func TestGrid(t *testing.T) {
	g := NewGrid(4, 3)

	g.FillCell(1, 2, 5)
	g.FillCell(-1, 0, 3)
	g.FillCell(4, 0, 3)
	g.FillCell(0, 3, 3)

	assert.Equal(t, game.Cell(5), g.At(1, 2))
	assert.Equal(t, game.Empty, g.At(-1, 0))
	filled := 0
	for y := range 3 {
		for x := range 4 {
			if g.At(x, y) != game.Empty {
				filled++
			}
		}
	}
	assert.Equal(t, 1, filled)

	g.Clear()
	assert.Equal(t, game.Empty, g.At(1, 2))
}

func TestImageSurfaceBuffersSessionFrame(t *testing.T) {
	board := NewImageSurface(game.DefaultCols, game.DefaultRows, 20)
	preview := NewImageSurface(game.PreviewSize, game.PreviewSize, 20)

	session, err := game.NewSession(game.Options{Config: game.DefaultConfig()})
	require.NoError(t, err)
	session.Start()

	game.Draw(session, board, preview)

	active := session.Active()
	filled := 0
	for y := range game.DefaultRows {
		for x := range game.DefaultCols {
			if c := board.At(x, y); c != game.Empty {
				assert.Equal(t, active.Shape.Color(), c)
				filled++
			}
		}
	}
	assert.Equal(t, 4, filled)

	w, h := board.Size()
	assert.Equal(t, float32(200), w)
	assert.Equal(t, float32(400), h)
}

func TestTerminalSurface(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(40, 24)

	surface := NewTerminalSurface(screen, 2, 1, 10, 20)
	surface.Clear()
	surface.FillCell(3, 4, 2)
	surface.FillCell(10, 0, 2)

	r, _, style, _ := screen.GetContent(2+3*2, 1+4)
	assert.Equal(t, '█', r)
	fg, _, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(0x0D, 0xC2, 0xFF), fg)

	r, _, _, _ = screen.GetContent(2+3*2+1, 1+4)
	assert.Equal(t, '█', r)

	r, _, _, _ = screen.GetContent(2, 1)
	assert.Equal(t, '·', r)

	// Out of range cells are not drawn past the surface.
	r, _, _, _ = screen.GetContent(2+10*2, 1)
	assert.Equal(t, ' ', r)

	end := DrawText(screen, 0, 23, tcell.StyleDefault, "score")
	assert.Equal(t, 5, end)
	r, _, _, _ = screen.GetContent(4, 23)
	assert.Equal(t, 'e', r)
}
