package main

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Score is one leaderboard row.
type Score struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// LeaderboardStore persists player scores across games. Upsert
// overwrites any previous score for the name; List returns every entry
// ordered highest score first, ties broken by name.
type LeaderboardStore interface {
	Upsert(ctx context.Context, name string, score int) error
	List(ctx context.Context) ([]Score, error)
	Close()
}

// newLeaderboardStore picks the Postgres store when a database URL is
// configured and falls back to the in-memory one otherwise.
func newLeaderboardStore(ctx context.Context, cfg *Config) (LeaderboardStore, error) {
	if cfg.databaseURL == "" {
		logf(cfg, "START: Using in-memory leaderboard (no database url configured)")

		return NewMemoryLeaderboard(), nil
	}

	store, err := NewPostgresLeaderboard(ctx, cfg.databaseURL)
	if err != nil {
		return nil, err
	}

	logf(cfg, "START: Using postgres leaderboard")

	return store, nil
}

const leaderboardSchema = `
CREATE TABLE IF NOT EXISTS leaderboard (
	name  text PRIMARY KEY,
	score bigint NOT NULL
)`

// PostgresLeaderboard keeps scores in a single Postgres table. The
// table is created on startup if it does not exist.
type PostgresLeaderboard struct {
	pool *pgxpool.Pool
}

func NewPostgresLeaderboard(ctx context.Context, databaseURL string) (*PostgresLeaderboard, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, leaderboardSchema); err != nil {
		pool.Close()

		return nil, fmt.Errorf("create leaderboard table: %w", err)
	}

	return &PostgresLeaderboard{pool: pool}, nil
}

func (l *PostgresLeaderboard) Upsert(ctx context.Context, name string, score int) error {
	_, err := l.pool.Exec(ctx, `
		INSERT INTO leaderboard (name, score)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET score = EXCLUDED.score
	`, name, score)
	if err != nil {
		return fmt.Errorf("upsert score: %w", err)
	}

	return nil
}

func (l *PostgresLeaderboard) List(ctx context.Context) ([]Score, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT name, score
		FROM leaderboard
		ORDER BY score DESC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	defer rows.Close()

	var scores []Score
	for rows.Next() {
		var s Score
		if err := rows.Scan(&s.Name, &s.Score); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		scores = append(scores, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}

	return scores, nil
}

func (l *PostgresLeaderboard) Close() {
	l.pool.Close()
}

// MemoryLeaderboard keeps scores in process memory. Scores do not
// survive a restart.
type MemoryLeaderboard struct {
	mu     sync.RWMutex
	scores map[string]int
}

func NewMemoryLeaderboard() *MemoryLeaderboard {
	return &MemoryLeaderboard{
		scores: make(map[string]int),
	}
}

func (l *MemoryLeaderboard) Upsert(_ context.Context, name string, score int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.scores[name] = score

	return nil
}

func (l *MemoryLeaderboard) List(_ context.Context) ([]Score, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	scores := make([]Score, 0, len(l.scores))
	for name, score := range l.scores {
		scores = append(scores, Score{Name: name, Score: score})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}

		return scores[i].Name < scores[j].Name
	})

	return scores, nil
}

func (l *MemoryLeaderboard) Close() {}
