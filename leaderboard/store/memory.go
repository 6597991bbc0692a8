package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/kamstrup/intmap"
	"github.com/plus3/blockfall/leaderboard"
)

type player struct {
	id        int64
	name      string
	createdAt time.Time
}

type score struct {
	playerID     int64
	score        int
	level        int
	linesCleared int
	duration     int64
	createdAt    time.Time
}

// MemoryStore keeps every game in process memory. It is used for local play
// and tests; nothing survives a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	players *intmap.Map[int64, *player]
	byName  map[string]int64
	scores  []score
	nextID  int64
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		players: intmap.New[int64, *player](64),
		byName:  make(map[string]int64),
		now:     time.Now,
	}
}

func (m *MemoryStore) Top(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ranked := slices.Clone(m.scores)
	slices.SortStableFunc(ranked, func(a, b score) int {
		return b.score - a.score
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	entries := make([]leaderboard.Entry, 0, len(ranked))
	for _, s := range ranked {
		p, _ := m.players.Get(s.playerID)
		entries = append(entries, leaderboard.Entry{
			Name:         p.name,
			Score:        s.score,
			Level:        s.level,
			LinesCleared: s.linesCleared,
			CreatedAt:    s.createdAt,
		})
	}
	return entries, nil
}

func (m *MemoryStore) Record(ctx context.Context, sub leaderboard.Submission) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rank := 1
	for _, s := range m.scores {
		if s.score >= sub.Score {
			rank++
		}
	}

	now := m.now()
	id, ok := m.byName[sub.PlayerName]
	if !ok {
		m.nextID++
		id = m.nextID
		m.byName[sub.PlayerName] = id
		m.players.Put(id, &player{id: id, name: sub.PlayerName, createdAt: now})
	}

	m.scores = append(m.scores, score{
		playerID:     id,
		score:        sub.Score,
		level:        sub.Level,
		linesCleared: sub.LinesCleared,
		duration:     sub.GameDuration,
		createdAt:    now,
	})
	return rank, nil
}

func (m *MemoryStore) PlayerStats(ctx context.Context, name string) (*leaderboard.PlayerStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byName[name]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	stats := &leaderboard.PlayerStats{}
	total := 0
	for _, s := range m.scores {
		if s.playerID != id {
			continue
		}
		stats.TotalGames++
		total += s.score
		stats.TotalLines += s.linesCleared
		stats.HighestScore = max(stats.HighestScore, s.score)
		stats.HighestLevel = max(stats.HighestLevel, s.level)
	}
	if stats.TotalGames == 0 {
		return nil, ErrPlayerNotFound
	}
	stats.AverageScore = roundAverage(float64(total) / float64(stats.TotalGames))
	return stats, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
