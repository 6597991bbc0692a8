package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/blockfall/audio"
	"github.com/plus3/blockfall/debugui"
	debugui_ebiten "github.com/plus3/blockfall/debugui/ebiten"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/highscore"
	"github.com/plus3/blockfall/leaderboard"
	"github.com/plus3/blockfall/render"
)

const (
	ScreenWidth  = 640
	ScreenHeight = 720
	CellSize     = 30
)

func main() {
	server := flag.String("server", "", "Leaderboard service base URL, e.g. http://localhost:5000. Empty plays offline.")
	name := flag.String("name", "", "Player name pre-filled for leaderboard submissions.")
	scoreFile := flag.String("highscore", "", "High score file. Defaults to the user config directory.")
	randomizer := flag.String("randomizer", game.RandomizerUniform, "Piece randomizer: uniform or bag.")
	seed := flag.Uint64("seed", 0, "Random seed. Zero picks one at start-up.")
	mute := flag.Bool("mute", false, "Disable sound cues.")
	debug := flag.Bool("debug", false, "Show the inspector on start-up (toggle with F1).")
	verbose := flag.Bool("v", false, "Enable debug logging.")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	store, err := openHighScores(*scoreFile, logger)
	if err != nil {
		log.Fatalf("Failed to open high score file: %v", err)
	}

	cues := &audio.Cues{}
	if !*mute {
		if cues, err = audio.Open(); err != nil {
			// Non-fatal, the game runs without sound.
			logger.Warn("audio unavailable", "error", err)
		}
	}
	defer cues.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := &App{
		ctx:       ctx,
		cues:      cues,
		inspector: debugui.NewInspector(120),
		nameInput: []rune(*name),
		board:     render.NewImageSurface(game.DefaultCols, game.DefaultRows, CellSize),
		preview:   render.NewImageSurface(game.PreviewSize, game.PreviewSize, CellSize),
	}
	app.inspector.Visible = *debug

	if *server != "" {
		app.adapter = leaderboard.NewAdapter(leaderboard.NewClient(*server, nil), logger)
		app.adapter.Refresh(ctx)
		app.adapter.Follow(ctx, leaderboard.FeedURL(*server))
		if *name != "" {
			if err := app.adapter.LookupPlayer(ctx, *name); err != nil {
				logger.Warn("skipping player lookup", "player", *name, "error", err)
			}
		}
	}

	cfg := game.DefaultConfig()
	cfg.Randomizer = *randomizer
	cfg.Seed = *seed

	app.ctrl, err = game.NewController(game.ControllerOptions{
		Options: game.Options{
			Config: cfg,
			Store:  store,
			Logger: logger,
			Hooks:  app.hooks(),
		},
		Board:   app.board,
		Preview: app.preview,
	})
	if err != nil {
		log.Fatalf("Failed to create game: %v", err)
	}

	app.imgui = debugui_ebiten.NewImguiBackend("Blockfall", ScreenWidth, ScreenHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(app); err != nil {
		log.Fatal(err)
	}
}

func openHighScores(path string, logger *slog.Logger) (game.HighScoreStore, error) {
	if path == "" {
		var err error
		if path, err = highscore.DefaultPath(); err != nil {
			logger.Warn("no config directory, high score kept in memory", "error", err)
			return highscore.NewMemoryStore(), nil
		}
	}
	return highscore.NewFileStore(path)
}
