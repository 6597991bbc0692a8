package game

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNoSurface is returned when a controller is built without its board or
// preview surface.
var ErrNoSurface = errors.New("game: rendering surface is missing")

// Surface is a drawing target addressed in grid cells.
type Surface interface {
	Clear()
	FillCell(x, y int, c Cell)
}

// HighScoreStore persists the best score across sessions.
type HighScoreStore interface {
	Get(key string) (score int, ok bool, err error)
	Set(key string, score int) error
}

// Result is the immutable summary of a finished game.
type Result struct {
	SessionID uuid.UUID
	Score     int
	Level     int
	Lines     int
	Duration  time.Duration
	EndedAt   time.Time
}

// Hooks are optional callbacks fired by a session. They run on the goroutine
// that drives the session, after the triggering operation has completed.
type Hooks struct {
	// OnStart fires whenever a new game begins, including hard resets.
	OnStart func(id uuid.UUID)

	OnLinesCleared func(lines int)
	OnLevelUp      func(level int)

	// OnGameOver fires exactly once per finished game.
	OnGameOver func(Result)
}
