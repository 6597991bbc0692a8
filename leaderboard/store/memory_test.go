package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/plus3/blockfall/leaderboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Storage = (*MemoryStore)(nil)
	_ Storage = (*PostgresStore)(nil)
)

func submission(name string, score int) leaderboard.Submission {
	return leaderboard.Submission{PlayerName: name, Score: score, Level: 1 + score/1000, LinesCleared: score / 100, GameDuration: 60}
}

func TestMemoryStoreRank(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	rank, err := store.Record(ctx, submission("ada", 500))
	require.NoError(t, err)
	assert.Equal(t, 1, rank)

	rank, _ = store.Record(ctx, submission("bob", 900))
	assert.Equal(t, 1, rank)

	rank, _ = store.Record(ctx, submission("cyd", 500))
	assert.Equal(t, 3, rank, "ties rank behind existing equal scores")

	rank, _ = store.Record(ctx, submission("dee", 100))
	assert.Equal(t, 4, rank)
}

func TestMemoryStoreTop(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for i := range 12 {
		_, err := store.Record(ctx, submission(fmt.Sprintf("p%02d", i), (i%6+1)*100))
		require.NoError(t, err)
	}

	top, err := store.Top(ctx, leaderboard.Size)
	require.NoError(t, err)
	require.Len(t, top, 10)

	assert.Equal(t, 600, top[0].Score)
	assert.Equal(t, "p05", top[0].Name, "earlier game wins a tie")
	assert.Equal(t, "p11", top[1].Name)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Score, top[i].Score)
	}
	assert.Equal(t, 200, top[9].Score)
	assert.Equal(t, base.Add(6*time.Minute), top[0].CreatedAt)
}

func TestMemoryStorePlayerStats(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, sub := range []leaderboard.Submission{
		{PlayerName: "ada", Score: 100, Level: 1, LinesCleared: 1},
		{PlayerName: "ada", Score: 200, Level: 2, LinesCleared: 12},
		{PlayerName: "ada", Score: 201, Level: 1, LinesCleared: 2},
		{PlayerName: "bob", Score: 5000, Level: 9, LinesCleared: 90},
	} {
		_, err := store.Record(ctx, sub)
		require.NoError(t, err)
	}

	stats, err := store.PlayerStats(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, &leaderboard.PlayerStats{
		TotalGames:   3,
		HighestScore: 201,
		AverageScore: 167,
		TotalLines:   15,
		HighestLevel: 2,
	}, stats)

	_, err = store.PlayerStats(ctx, "nobody")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestRoundAverage(t *testing.T) {
	assert.Equal(t, 533.33, roundAverage(1600.0/3))
	assert.Equal(t, 166.67, roundAverage(500.0/3))
	assert.Equal(t, 100.0, roundAverage(100))
}
