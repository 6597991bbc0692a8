package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/plus3/blockfall/leaderboard"
)

// PostgresStore records games in PostgreSQL.
type PostgresStore struct {
	db  *sql.DB
	log *slog.Logger
}

// NewPostgresStore connects, pings and makes sure the schema exists.
func NewPostgresStore(ctx context.Context, connectionString string, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}

	store := &PostgresStore{db: db, log: logger}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: initialize schema: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id SERIAL PRIMARY KEY,
		name VARCHAR(20) UNIQUE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS scores (
		id SERIAL PRIMARY KEY,
		player_id INTEGER NOT NULL REFERENCES players(id),
		score INTEGER NOT NULL,
		level INTEGER NOT NULL,
		lines_cleared INTEGER NOT NULL,
		game_duration INTEGER NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS scores_score_idx ON scores (score DESC);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *PostgresStore) Top(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	query := `
	SELECT p.name, s.score, s.level, s.lines_cleared, s.created_at
	FROM scores s
	JOIN players p ON s.player_id = p.id
	ORDER BY s.score DESC, s.id ASC
	LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("store: query standings: %w", err)
	}
	defer rows.Close()

	entries := make([]leaderboard.Entry, 0, limit)
	for rows.Next() {
		var e leaderboard.Entry
		if err := rows.Scan(&e.Name, &e.Score, &e.Level, &e.LinesCleared, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan standings: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: read standings: %w", err)
	}
	return entries, nil
}

func (s *PostgresStore) Record(ctx context.Context, sub leaderboard.Submission) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	var better int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM scores WHERE score >= $1`, sub.Score).Scan(&better)
	if err != nil {
		return 0, fmt.Errorf("store: rank score: %w", err)
	}

	var playerID int64
	err = tx.QueryRowContext(ctx, `
	INSERT INTO players (name) VALUES ($1)
	ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
	RETURNING id
	`, sub.PlayerName).Scan(&playerID)
	if err != nil {
		return 0, fmt.Errorf("store: upsert player: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO scores (player_id, score, level, lines_cleared, game_duration)
	VALUES ($1, $2, $3, $4, $5)
	`, playerID, sub.Score, sub.Level, sub.LinesCleared, sub.GameDuration)
	if err != nil {
		return 0, fmt.Errorf("store: insert score: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: commit: %w", err)
	}
	return better + 1, nil
}

func (s *PostgresStore) PlayerStats(ctx context.Context, name string) (*leaderboard.PlayerStats, error) {
	query := `
	SELECT
		COUNT(*),
		COALESCE(MAX(s.score), 0),
		COALESCE(AVG(s.score), 0),
		COALESCE(SUM(s.lines_cleared), 0),
		COALESCE(MAX(s.level), 0)
	FROM scores s
	JOIN players p ON s.player_id = p.id
	WHERE p.name = $1
	`

	var stats leaderboard.PlayerStats
	var average float64
	err := s.db.QueryRowContext(ctx, query, name).Scan(
		&stats.TotalGames, &stats.HighestScore, &average,
		&stats.TotalLines, &stats.HighestLevel,
	)
	if err != nil {
		return nil, fmt.Errorf("store: player stats: %w", err)
	}
	if stats.TotalGames == 0 {
		return nil, ErrPlayerNotFound
	}
	stats.AverageScore = roundAverage(average)
	return &stats, nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	s.log.Info("closing database connection")
	return s.db.Close()
}
