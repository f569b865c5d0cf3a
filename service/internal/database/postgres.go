// internal/database/postgres.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/hanabi/service/internal/models"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS game_results (
	game_id     UUID PRIMARY KEY,
	players     TEXT[] NOT NULL,
	score       INTEGER NOT NULL,
	status      TEXT NOT NULL,
	turns       INTEGER NOT NULL,
	board       JSONB,
	finished_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS game_results_finished_at ON game_results (finished_at DESC);
`

// PostgresStore keeps results in PostgreSQL through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn and ensures the results table exists.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create postgres schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) SaveResult(ctx context.Context, r models.GameResult) error {
	var board any
	if len(r.Board) > 0 {
		board = string(r.Board)
	}
	players := r.Players
	if players == nil {
		players = []string{}
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO game_results (game_id, players, score, status, turns, board, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (game_id) DO UPDATE SET
			players = EXCLUDED.players,
			score = EXCLUDED.score,
			status = EXCLUDED.status,
			turns = EXCLUDED.turns,
			board = EXCLUDED.board,
			finished_at = EXCLUDED.finished_at`,
		r.GameID.String(), players, r.Score, r.Status, r.Turns, board, r.FinishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save result %s: %w", r.GameID, err)
	}
	return nil
}

func (s *PostgresStore) RecentResults(ctx context.Context, limit int) ([]models.GameResult, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT game_id::text, players, score, status, turns, board::text, finished_at
		FROM game_results
		ORDER BY finished_at DESC
		LIMIT $1`, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []models.GameResult
	for rows.Next() {
		var (
			r          models.GameResult
			id         string
			board      *string
			finishedAt time.Time
		)
		if err := rows.Scan(&id, &r.Players, &r.Score, &r.Status, &r.Turns, &board, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if r.GameID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse game id %q: %w", id, err)
		}
		if board != nil {
			r.Board = []byte(*board)
		}
		r.FinishedAt = finishedAt.UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Close() error {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
	return nil
}
