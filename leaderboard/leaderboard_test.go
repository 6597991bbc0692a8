package leaderboard

import (
	"strings"
	"testing"
	"time"

	"github.com/plus3/blockfall/game"
	"github.com/stretchr/testify/assert"
)

func standings(scores ...int) []Entry {
	entries := make([]Entry, len(scores))
	for i, s := range scores {
		entries[i] = Entry{Name: "p", Score: s, Level: 1}
	}
	return entries
}

func TestQualifies(t *testing.T) {
	full := standings(1000, 900, 800, 700, 650, 600, 580, 560, 520, 500)

	tests := []struct {
		name    string
		entries []Entry
		score   int
		want    bool
	}{
		{"beats tenth place", full, 501, true},
		{"ties tenth place", full, 500, false},
		{"below tenth place", full, 10, false},
		{"empty board", nil, 1, true},
		{"fewer than ten entries", standings(5000, 4000), 1, true},
		{"zero score never qualifies", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Qualifies(tt.entries, tt.score))
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		err   error
	}{
		{"trimmed", "  ada  ", "ada", nil},
		{"minimum", "ab", "ab", nil},
		{"maximum", strings.Repeat("x", 20), strings.Repeat("x", 20), nil},
		{"counts characters not bytes", "方塊王", "方塊王", nil},
		{"too short", "a", "", ErrInvalidName},
		{"only spaces", "     ", "", ErrInvalidName},
		{"too long", strings.Repeat("x", 21), "", ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateName(tt.input)
			assert.Equal(t, tt.want, got)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestNewSubmission(t *testing.T) {
	result := game.Result{Score: 1200, Level: 3, Lines: 24, Duration: 95*time.Second + 700*time.Millisecond}

	sub := NewSubmission("ada", result)

	assert.Equal(t, Submission{
		PlayerName:   "ada",
		Score:        1200,
		Level:        3,
		LinesCleared: 24,
		GameDuration: 95,
	}, sub)
}

func TestPlayerStatsSummary(t *testing.T) {
	stats := &PlayerStats{TotalGames: 3, HighestScore: 900, AverageScore: 466.67}
	assert.Equal(t, "3 games, best 900, avg 467", stats.Summary())
}
