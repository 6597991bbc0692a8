// Package store keeps recorded games for the leaderboard service.
package store

import (
	"context"
	"errors"
	"math"

	"github.com/plus3/blockfall/leaderboard"
)

// ErrPlayerNotFound is returned by PlayerStats for a name with no games.
var ErrPlayerNotFound = errors.New("store: player has no recorded games")

// Storage defines the interface for leaderboard persistence.
type Storage interface {
	// Top returns at most limit games, best score first. Equal scores keep
	// the order they were recorded in.
	Top(ctx context.Context, limit int) ([]leaderboard.Entry, error)

	// Record stores a game, creating the player on first use, and returns
	// the rank the score held among the games recorded before it: one plus
	// the number of scores greater than or equal to it.
	Record(ctx context.Context, sub leaderboard.Submission) (rank int, err error)

	PlayerStats(ctx context.Context, name string) (*leaderboard.PlayerStats, error)
	Close() error
}

func roundAverage(v float64) float64 {
	return math.Round(v*100) / 100
}
