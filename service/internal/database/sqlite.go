// internal/database/sqlite.go
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/hanabi/service/internal/models"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS game_results (
	game_id     TEXT PRIMARY KEY,
	players     TEXT NOT NULL,
	score       INTEGER NOT NULL,
	status      TEXT NOT NULL,
	turns       INTEGER NOT NULL,
	board       TEXT,
	finished_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS game_results_finished_at ON game_results (finished_at DESC);
`

// SQLiteStore keeps results in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the SQLite database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection serializes writers and keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) SaveResult(ctx context.Context, r models.GameResult) error {
	players, err := json.Marshal(r.Players)
	if err != nil {
		return fmt.Errorf("encode players: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO game_results (game_id, players, score, status, turns, board, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (game_id) DO UPDATE SET
			players = excluded.players,
			score = excluded.score,
			status = excluded.status,
			turns = excluded.turns,
			board = excluded.board,
			finished_at = excluded.finished_at`,
		r.GameID.String(), string(players), r.Score, r.Status, r.Turns, string(r.Board), r.FinishedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save result %s: %w", r.GameID, err)
	}
	return nil
}

func (s *SQLiteStore) RecentResults(ctx context.Context, limit int) ([]models.GameResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT game_id, players, score, status, turns, board, finished_at
		FROM game_results
		ORDER BY finished_at DESC
		LIMIT ?`, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []models.GameResult
	for rows.Next() {
		var (
			r                models.GameResult
			id, players      string
			board            sql.NullString
			finishedAtMillis int64
		)
		if err := rows.Scan(&id, &players, &r.Score, &r.Status, &r.Turns, &board, &finishedAtMillis); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if r.GameID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse game id %q: %w", id, err)
		}
		if err := json.Unmarshal([]byte(players), &r.Players); err != nil {
			return nil, fmt.Errorf("decode players: %w", err)
		}
		if board.Valid && board.String != "" {
			r.Board = json.RawMessage(board.String)
		}
		r.FinishedAt = time.UnixMilli(finishedAtMillis).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
