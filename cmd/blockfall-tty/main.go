package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/plus3/blockfall/audio"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/highscore"
	"github.com/plus3/blockfall/leaderboard"
	"github.com/plus3/blockfall/loop"
	"github.com/plus3/blockfall/render"
)

const (
	frameInterval = 16 * time.Millisecond
	pollInterval  = 100 * time.Millisecond

	boardX = 2
	boardY = 1
	sideX  = boardX + game.DefaultCols*2 + 4
)

type terminalGame struct {
	ctx     context.Context
	quit    context.CancelFunc
	screen  tcell.Screen
	ctrl    *game.Controller
	adapter *leaderboard.Adapter
	cues    *audio.Cues
	name    []rune
	notice  string
}

func main() {
	server := flag.String("server", "", "Leaderboard service base URL. Empty plays offline.")
	name := flag.String("name", "", "Player name pre-filled for leaderboard submissions.")
	scoreFile := flag.String("highscore", "", "High score file. Defaults to the user config directory.")
	randomizer := flag.String("randomizer", game.RandomizerUniform, "Piece randomizer: uniform or bag.")
	logFile := flag.String("log", "", "Write logs to this file. Logging is off by default since the terminal is in use.")
	sound := flag.Bool("sound", false, "Play sound cues.")
	flag.Parse()

	if err := run(*server, *name, *scoreFile, *randomizer, *logFile, *sound); err != nil {
		fmt.Fprintf(os.Stderr, "blockfall-tty: %v\n", err)
		os.Exit(1)
	}
}

func run(server, name, scoreFile, randomizer, logFile string, sound bool) error {
	logger, closeLog, err := openLogger(logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := openHighScores(scoreFile)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	g := &terminalGame{ctx: ctx, quit: cancel, screen: screen, cues: &audio.Cues{}, name: []rune(name)}
	if sound {
		if g.cues, err = audio.Open(); err != nil {
			logger.Warn("audio unavailable", "error", err)
		}
	}
	defer g.cues.Close()

	if server != "" {
		g.adapter = leaderboard.NewAdapter(leaderboard.NewClient(server, nil), logger)
		g.adapter.Refresh(ctx)
		g.adapter.Follow(ctx, leaderboard.FeedURL(server))
		if name != "" {
			if err := g.adapter.LookupPlayer(ctx, name); err != nil {
				logger.Warn("skipping player lookup", "player", name, "error", err)
			}
		}
	}

	cfg := game.DefaultConfig()
	cfg.Randomizer = randomizer

	g.ctrl, err = game.NewController(game.ControllerOptions{
		Options: game.Options{
			Config: cfg,
			Store:  store,
			Logger: logger,
			Hooks:  g.hooks(),
		},
		Board:   render.NewTerminalSurface(screen, boardX, boardY, cfg.Cols, cfg.Rows),
		Preview: render.NewTerminalSurface(screen, sideX, boardY+1, game.PreviewSize, game.PreviewSize),
		Systems: []loop.System{g},
	})
	if err != nil {
		return err
	}

	inbox := make(chan func(), 16)
	go g.pollEvents(inbox)
	go g.pollLeaderboard(inbox)

	g.ctrl.Render()
	g.present()
	g.ctrl.Run(ctx, frameInterval, inbox)
	return nil
}

func openLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewTextHandler(f, nil)), func() { f.Close() }, nil
}

func openHighScores(path string) (game.HighScoreStore, error) {
	if path == "" {
		var err error
		if path, err = highscore.DefaultPath(); err != nil {
			return highscore.NewMemoryStore(), nil
		}
	}
	return highscore.NewFileStore(path)
}

func (g *terminalGame) hooks() game.Hooks {
	return game.Hooks{
		OnStart: func(id uuid.UUID) {
			g.notice = ""
			if g.adapter != nil {
				g.adapter.SessionReset(id)
			}
		},
		OnLinesCleared: g.cues.LinesCleared,
		OnLevelUp:      g.cues.LevelUp,
		OnGameOver: func(r game.Result) {
			g.cues.GameOver()
			if g.adapter != nil {
				g.adapter.GameOver(g.ctx, r)
			}
		},
	}
}

// Execute runs after the render system on every frame and flushes the
// drawing to the terminal.
func (g *terminalGame) Execute(frame *loop.Frame) {
	g.present()
}

// pollEvents forwards terminal events to the game goroutine.
func (g *terminalGame) pollEvents(inbox chan<- func()) {
	for {
		ev := g.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case inbox <- func() { g.handle(ev) }:
		case <-g.ctx.Done():
			return
		}
	}
}

// pollLeaderboard applies network results even while no frames run.
func (g *terminalGame) pollLeaderboard(inbox chan<- func()) {
	if g.adapter == nil {
		return
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			select {
			case inbox <- func() {
				if g.adapter.Poll() {
					g.present()
				}
			}:
			case <-g.ctx.Done():
				return
			}
		case <-g.ctx.Done():
			return
		}
	}
}

func (g *terminalGame) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		g.screen.Sync()
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape {
			g.quit()
			return
		}
		if g.awaitingName() {
			g.handleNameKey(ev)
		} else {
			g.handleGameKey(ev)
		}
	}
	g.ctrl.Render()
	g.present()
}

func (g *terminalGame) awaitingName() bool {
	return g.adapter != nil &&
		g.ctrl.Session().State() == game.StateGameOver &&
		g.adapter.Status().Phase == leaderboard.PhaseEligible
}

func (g *terminalGame) handleGameKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyLeft:
		g.ctrl.Apply(game.CommandMoveLeft)
	case tcell.KeyRight:
		g.ctrl.Apply(game.CommandMoveRight)
	case tcell.KeyDown:
		g.ctrl.Apply(game.CommandSoftDrop)
	case tcell.KeyUp:
		g.ctrl.Apply(game.CommandRotate)
	case tcell.KeyEnter:
		g.ctrl.Start()
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			g.ctrl.Apply(game.CommandHardDrop)
		case 'x', 'X':
			g.ctrl.Apply(game.CommandRotate)
		case 'p', 'P':
			g.ctrl.Apply(game.CommandTogglePause)
		case 'r', 'R':
			g.ctrl.Reset()
		case 'q', 'Q':
			g.quit()
		}
	}
}

func (g *terminalGame) handleNameKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		err := g.adapter.Submit(g.ctx, string(g.name))
		switch {
		case errors.Is(err, leaderboard.ErrInvalidName):
			g.notice = fmt.Sprintf("Name must be %d-%d characters", leaderboard.MinNameLength, leaderboard.MaxNameLength)
		case err != nil:
			g.notice = err.Error()
		default:
			g.notice = ""
		}
	case tcell.KeyTab:
		g.ctrl.Reset()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(g.name) > 0 {
			g.name = g.name[:len(g.name)-1]
		}
	case tcell.KeyRune:
		if len(g.name) < leaderboard.MaxNameLength {
			g.name = append(g.name, ev.Rune())
		}
	}
}
