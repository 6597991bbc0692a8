package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/leaderboard"
	"github.com/plus3/blockfall/render"
)

var (
	labelStyle  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	valueStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	bannerStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	errorStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// present draws the side panel and shows the frame.
func (g *terminalGame) present() {
	s := g.ctrl.Session()
	y := boardY

	render.DrawText(g.screen, sideX, y, labelStyle, "NEXT")
	y += game.PreviewSize + 2

	for _, row := range []struct {
		label string
		value int
	}{
		{"SCORE", s.Score()},
		{"HIGH ", s.HighScore()},
		{"LEVEL", s.Level()},
		{"LINES", s.Lines()},
	} {
		x := render.DrawText(g.screen, sideX, y, labelStyle, row.label+"  ")
		g.clearLine(render.DrawText(g.screen, x, y, valueStyle, fmt.Sprintf("%d", row.value)), y)
		y++
	}
	if g.adapter != nil {
		if stats := g.adapter.Status().Player; stats != nil {
			x := render.DrawText(g.screen, sideX, y, labelStyle, "YOU    ")
			g.clearLine(render.DrawText(g.screen, x, y, valueStyle, stats.Summary()), y)
		} else {
			g.clearLine(sideX, y)
		}
		y++
	}
	y++

	for _, line := range g.statusLines(s) {
		g.clearLine(render.DrawText(g.screen, sideX, y, line.style, line.text), y)
		y++
	}
	for ; y < boardY+game.PreviewSize+9; y++ {
		g.clearLine(sideX, y)
	}

	if g.adapter != nil {
		g.drawStandings(y + 1)
	}

	g.screen.Show()
}

type styledLine struct {
	text  string
	style tcell.Style
}

func (g *terminalGame) statusLines(s *game.Session) []styledLine {
	var lines []styledLine
	switch s.State() {
	case game.StateIdle:
		lines = append(lines, styledLine{"ENTER to start", bannerStyle})
	case game.StatePaused:
		lines = append(lines, styledLine{"PAUSED (p)", bannerStyle})
	case game.StateGameOver:
		lines = append(lines, styledLine{"GAME OVER", bannerStyle})
		lines = append(lines, g.leaderboardLines()...)
		lines = append(lines, styledLine{"r: play again", labelStyle})
	default:
		lines = append(lines, styledLine{"arrows, space, p, r, q", labelStyle})
	}
	if g.notice != "" {
		lines = append(lines, styledLine{g.notice, errorStyle})
	}
	return lines
}

func (g *terminalGame) leaderboardLines() []styledLine {
	if g.adapter == nil {
		return nil
	}
	status := g.adapter.Status()
	var lines []styledLine
	switch status.Phase {
	case leaderboard.PhaseChecking:
		lines = append(lines, styledLine{"checking leaderboard...", labelStyle})
	case leaderboard.PhaseEligible:
		lines = append(lines,
			styledLine{"Top 10! Name:", bannerStyle},
			styledLine{"> " + string(g.name) + "_", valueStyle},
			styledLine{"enter submit, tab skip", labelStyle})
	case leaderboard.PhaseSubmitting:
		lines = append(lines, styledLine{"submitting...", labelStyle})
	case leaderboard.PhaseSubmitted:
		lines = append(lines, styledLine{status.Message, valueStyle})
	case leaderboard.PhaseUnavailable:
		lines = append(lines, styledLine{"leaderboard unavailable", errorStyle})
	}
	if status.Err != nil && status.Phase != leaderboard.PhaseUnavailable {
		lines = append(lines, styledLine{"submit failed: " + status.Err.Error(), errorStyle})
	}
	return lines
}

func (g *terminalGame) drawStandings(y int) {
	render.DrawText(g.screen, sideX, y, labelStyle, "LEADERBOARD")
	standings := g.adapter.Status().Standings
	for i := 0; i < leaderboard.Size; i++ {
		line := ""
		if i < len(standings) {
			line = fmt.Sprintf("%2d %-20s %7d", i+1, standings[i].Name, standings[i].Score)
		}
		g.clearLine(render.DrawText(g.screen, sideX, y+1+i, valueStyle, line), y+1+i)
	}
}

// clearLine blanks the rest of row y from column x.
func (g *terminalGame) clearLine(x, y int) {
	w, _ := g.screen.Size()
	for ; x < w; x++ {
		g.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
	}
}
