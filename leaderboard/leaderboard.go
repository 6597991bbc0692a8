// Package leaderboard talks to the remote standings service: it fetches the
// top scores, submits finished games and follows the live standings feed.
package leaderboard

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/plus3/blockfall/game"
)

const (
	// Size is the number of entries the service reports.
	Size = 10

	MinNameLength = 2
	MaxNameLength = 20
)

var (
	ErrInvalidName    = fmt.Errorf("leaderboard: player name must be %d-%d characters", MinNameLength, MaxNameLength)
	ErrNoPrompt       = errors.New("leaderboard: no qualifying game awaiting a name")
	ErrSubmitInFlight = errors.New("leaderboard: a submission is already in progress")
)

// Entry is one row of the standings, best first.
type Entry struct {
	Name         string    `json:"name"`
	Score        int       `json:"score"`
	Level        int       `json:"level"`
	LinesCleared int       `json:"lines_cleared"`
	CreatedAt    time.Time `json:"created_at"`
}

// Submission is the body of a score submission. GameDuration is in whole
// seconds.
type Submission struct {
	PlayerName   string `json:"player_name"`
	Score        int    `json:"score"`
	Level        int    `json:"level"`
	LinesCleared int    `json:"lines_cleared"`
	GameDuration int64  `json:"game_duration"`
}

// SubmitResponse is the service's reply to a submission.
type SubmitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Rank    int    `json:"rank,omitempty"`
}

// PlayerStats aggregates every recorded game of one player.
type PlayerStats struct {
	TotalGames   int     `json:"total_games"`
	HighestScore int     `json:"highest_score"`
	AverageScore float64 `json:"average_score"`
	TotalLines   int     `json:"total_lines"`
	HighestLevel int     `json:"highest_level"`
}

// Summary is a one-line rendering for HUDs.
func (s *PlayerStats) Summary() string {
	return fmt.Sprintf("%d games, best %d, avg %.0f", s.TotalGames, s.HighestScore, s.AverageScore)
}

// FeedMessage is pushed over the live standings websocket.
type FeedMessage struct {
	Type    string  `json:"type"`
	Entries []Entry `json:"entries"`
}

const FeedStandings = "standings"

// Qualifies reports whether a finished game with score earns a place in
// entries. The boundary entry must be beaten, not matched.
func Qualifies(entries []Entry, score int) bool {
	if score <= 0 {
		return false
	}
	if len(entries) < Size {
		return true
	}
	return score > entries[Size-1].Score
}

// ValidateName trims name and checks its length in characters.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < MinNameLength || n > MaxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}

// NewSubmission packages a finished game for the service.
func NewSubmission(name string, result game.Result) Submission {
	return Submission{
		PlayerName:   name,
		Score:        result.Score,
		Level:        result.Level,
		LinesCleared: result.Lines,
		GameDuration: int64(result.Duration / time.Second),
	}
}
