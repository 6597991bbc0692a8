package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/highscore"
	"github.com/plus3/blockfall/leaderboard"
	"github.com/plus3/blockfall/loop"
	"github.com/plus3/blockfall/render"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the soak test should run for.")
	frameStep := flag.Duration("frame", 16*time.Millisecond, "Simulated time between frames.")
	seed := flag.Uint64("seed", 1, "Seed for both the piece generator and the auto-player.")
	randomizer := flag.String("randomizer", game.RandomizerUniform, "Piece randomizer: uniform or bag.")
	server := flag.String("server", "", "Leaderboard service to submit the best game to. Empty skips submission.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	log.Println("Starting blockfall soak test...")

	report := &Report{
		Duration:       *duration,
		FrameStep:      *frameStep,
		Seed:           *seed,
		Randomizer:     *randomizer,
		GCPauseMetrics: *gcPauseMetrics,
	}

	cfg := game.DefaultConfig()
	cfg.Seed = *seed
	cfg.Randomizer = *randomizer

	player := &AutoPlayer{rng: rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))}
	now := time.Unix(0, 0)

	ctrl, err := game.NewController(game.ControllerOptions{
		Options: game.Options{
			Config: cfg,
			Store:  highscore.NewMemoryStore(),
			Clock:  func() time.Time { return now },
			Hooks: game.Hooks{
				OnGameOver: report.AddGame,
			},
		},
		Board:   render.NewGrid(cfg.Cols, cfg.Rows),
		Preview: render.NewGrid(game.PreviewSize, game.PreviewSize),
		Systems: []loop.System{player},
	})
	if err != nil {
		log.Fatalf("Failed to create controller: %v", err)
	}
	player.Session = ctrl.Session()

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running soak test for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	ctrl.Start()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			now = now.Add(*frameStep)

			updateStart := time.Now()
			ctrl.Tick(now)
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Add(updateDuration)
			report.TotalFrames++

			if ctrl.Session().State() == game.StateGameOver {
				ctrl.Reset()
			}
		}
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	report.Systems = ctrl.Stats().Systems
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Soak test finished.")

	if *server != "" {
		if err := submitBest(*server, report); err != nil {
			log.Printf("Leaderboard submission skipped: %v", err)
		}
	}

	fmt.Println("\n\n--- Soak Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}

// submitBest sends the best game of the run when it would make the
// standings.
func submitBest(baseURL string, report *Report) error {
	if report.Best.Score == 0 {
		return fmt.Errorf("no game scored")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := leaderboard.NewClient(baseURL, nil)
	entries, err := client.Leaderboard(ctx)
	if err != nil {
		return err
	}
	if !leaderboard.Qualifies(entries, report.Best.Score) {
		return fmt.Errorf("best score %d does not qualify", report.Best.Score)
	}

	resp, err := client.Submit(ctx, leaderboard.NewSubmission("soak-bot", report.Best))
	if err != nil {
		return err
	}
	report.SubmittedRank = resp.Rank
	return nil
}
