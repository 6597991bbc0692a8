package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/blockfall/audio"
	"github.com/plus3/blockfall/debugui"
	debugui_ebiten "github.com/plus3/blockfall/debugui/ebiten"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/leaderboard"
	"github.com/plus3/blockfall/render"
)

const (
	// Held keys repeat after repeatDelay ticks, every repeatInterval ticks.
	repeatDelay    = 10
	repeatInterval = 3

	boardX   = 20
	boardY   = 20
	previewX = boardX + 10*CellSize + 30
	previewY = 50
)

// App implements ebiten.Game around a game controller.
type App struct {
	ctx       context.Context
	ctrl      *game.Controller
	board     *render.ImageSurface
	preview   *render.ImageSurface
	adapter   *leaderboard.Adapter
	cues      *audio.Cues
	inspector *debugui.Inspector
	imgui     *debugui_ebiten.ImguiBackend

	nameInput []rune
	notice    string
	lastFrame time.Time
}

func (a *App) hooks() game.Hooks {
	return game.Hooks{
		OnStart: func(id uuid.UUID) {
			a.notice = ""
			if a.adapter != nil {
				a.adapter.SessionReset(id)
			}
		},
		OnLinesCleared: a.cues.LinesCleared,
		OnLevelUp:      a.cues.LevelUp,
		OnGameOver: func(r game.Result) {
			a.cues.GameOver()
			if a.adapter != nil {
				a.adapter.GameOver(a.ctx, r)
			}
		},
	}
}

func (a *App) Update() error {
	now := time.Now()
	if !a.lastFrame.IsZero() {
		a.inspector.Record(now.Sub(a.lastFrame))
	}
	a.lastFrame = now

	a.imgui.BeginFrame()
	defer a.imgui.EndFrame()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		a.inspector.Visible = !a.inspector.Visible
	}

	if !debugui.CurrentInputState().WantCaptureKeyboard {
		if a.awaitingName() {
			a.updateNameEntry()
		} else {
			a.updateGameInput()
		}
	}

	a.ctrl.Tick(now)

	var status leaderboard.Status
	if a.adapter != nil {
		a.adapter.Poll()
		status = a.adapter.Status()
	}
	a.inspector.Render(a.ctrl, status)
	return nil
}

func (a *App) awaitingName() bool {
	return a.adapter != nil &&
		a.ctrl.Session().State() == game.StateGameOver &&
		a.adapter.Status().Phase == leaderboard.PhaseEligible
}

func (a *App) updateGameInput() {
	session := a.ctrl.Session()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		a.ctrl.Start()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		a.ctrl.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		a.ctrl.Apply(game.CommandTogglePause)
	}

	if session.State() != game.StateRunning {
		return
	}

	if repeating(ebiten.KeyArrowLeft) {
		a.ctrl.Apply(game.CommandMoveLeft)
	}
	if repeating(ebiten.KeyArrowRight) {
		a.ctrl.Apply(game.CommandMoveRight)
	}
	if repeating(ebiten.KeyArrowDown) {
		a.ctrl.Apply(game.CommandSoftDrop)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) || inpututil.IsKeyJustPressed(ebiten.KeyX) {
		a.ctrl.Apply(game.CommandRotate)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		a.ctrl.Apply(game.CommandHardDrop)
	}
}

func (a *App) updateNameEntry() {
	a.nameInput = ebiten.AppendInputChars(a.nameInput)
	if len(a.nameInput) > leaderboard.MaxNameLength {
		a.nameInput = a.nameInput[:leaderboard.MaxNameLength]
	}
	if repeating(ebiten.KeyBackspace) && len(a.nameInput) > 0 {
		a.nameInput = a.nameInput[:len(a.nameInput)-1]
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		err := a.adapter.Submit(a.ctx, string(a.nameInput))
		switch {
		case errors.Is(err, leaderboard.ErrInvalidName):
			a.notice = fmt.Sprintf("Name must be %d-%d characters", leaderboard.MinNameLength, leaderboard.MaxNameLength)
		case err != nil:
			a.notice = err.Error()
		default:
			a.notice = ""
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		// Skip submitting and start over.
		a.ctrl.Reset()
	}
}

// repeating reports a key press on its first tick and then at the repeat
// rate while held.
func repeating(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	if d == 1 {
		return true
	}
	return d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{30, 30, 36, 255})

	a.board.Paint(screen, boardX, boardY)
	ebitenutil.DebugPrintAt(screen, "NEXT", previewX, previewY-20)
	a.preview.Paint(screen, previewX, previewY)

	session := a.ctrl.Session()
	hud := []string{
		fmt.Sprintf("SCORE  %d", session.Score()),
		fmt.Sprintf("HIGH   %d", session.HighScore()),
		fmt.Sprintf("LEVEL  %d", session.Level()),
		fmt.Sprintf("LINES  %d", session.Lines()),
	}
	if a.adapter != nil {
		if stats := a.adapter.Status().Player; stats != nil {
			hud = append(hud, "YOU    "+stats.Summary())
		}
	}
	for i, line := range hud {
		ebitenutil.DebugPrintAt(screen, line, previewX, previewY+game.PreviewSize*CellSize+20+i*18)
	}

	a.drawStatus(screen, session)
	a.drawStandings(screen)

	a.imgui.Draw(screen)
}

func (a *App) drawStatus(screen *ebiten.Image, session *game.Session) {
	var lines []string
	switch session.State() {
	case game.StateIdle:
		lines = append(lines, "Press ENTER to start")
	case game.StatePaused:
		lines = append(lines, "PAUSED", "Press P to resume")
	case game.StateGameOver:
		lines = append(lines, "GAME OVER", fmt.Sprintf("Final score: %d", session.Score()))
		lines = append(lines, a.leaderboardLines()...)
		lines = append(lines, "Press R or ENTER to play again")
	default:
		return
	}
	if a.notice != "" {
		lines = append(lines, a.notice)
	}

	w, h := a.board.Size()
	vector.DrawFilledRect(screen, boardX, boardY+h/2-60, w, float32(len(lines)*18+20), color.RGBA{0, 0, 0, 200}, false)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, boardX+10, int(boardY+h/2-50)+i*18)
	}
}

func (a *App) leaderboardLines() []string {
	if a.adapter == nil {
		return nil
	}
	status := a.adapter.Status()
	var lines []string
	switch status.Phase {
	case leaderboard.PhaseChecking:
		lines = append(lines, "Checking leaderboard...")
	case leaderboard.PhaseEligible:
		lines = append(lines, "Top 10! Enter your name:", "> "+string(a.nameInput)+"_", "ENTER submit, TAB skip")
	case leaderboard.PhaseSubmitting:
		lines = append(lines, "Submitting...")
	case leaderboard.PhaseSubmitted:
		lines = append(lines, status.Message)
	case leaderboard.PhaseUnavailable:
		lines = append(lines, "Leaderboard unavailable")
	}
	if status.Err != nil && status.Phase != leaderboard.PhaseUnavailable {
		lines = append(lines, "Submit failed: "+status.Err.Error())
	}
	return lines
}

func (a *App) drawStandings(screen *ebiten.Image) {
	if a.adapter == nil {
		return
	}
	standings := a.adapter.Status().Standings
	y := previewY + game.PreviewSize*CellSize + 120
	ebitenutil.DebugPrintAt(screen, "LEADERBOARD", previewX, y)
	for i, e := range standings {
		line := fmt.Sprintf("%2d %-12s %7d", i+1, truncate(e.Name, 12), e.Score)
		ebitenutil.DebugPrintAt(screen, line, previewX, y+20+i*16)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.imgui.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
