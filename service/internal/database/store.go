// internal/database/store.go
package database

import (
	"context"
	"fmt"

	"github.com/jason-s-yu/hanabi/service/internal/models"
)

// ResultStore persists finished games.
type ResultStore interface {
	// SaveResult records one finished game. Saving the same game twice keeps the latest result.
	SaveResult(ctx context.Context, result models.GameResult) error
	// RecentResults returns up to limit results, newest first.
	RecentResults(ctx context.Context, limit int) ([]models.GameResult, error)
	Close() error
}

// DefaultResultLimit caps RecentResults when the caller passes a non-positive limit.
const DefaultResultLimit = 20

// Open connects to the results database for the given driver ("sqlite" or "postgres").
func Open(ctx context.Context, driver, dsn string) (ResultStore, error) {
	switch driver {
	case "sqlite":
		s, err := OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return DefaultResultLimit
	}
	return limit
}
