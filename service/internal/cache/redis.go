// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// BoardKey is the key holding the latest omniscient board snapshot of a game.
func BoardKey(gameID uuid.UUID) string { return fmt.Sprintf("hanabi:game:%s:board", gameID) }

// EventChannel is the pub/sub channel carrying a game's public events.
func EventChannel(gameID uuid.UUID) string { return fmt.Sprintf("hanabi:game:%s:events", gameID) }

// RedisPublisher mirrors game state into Redis for spectators and other processes.
type RedisPublisher struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisPublisher connects to the Redis server at url (redis://...) and
// checks it is reachable.
func NewRedisPublisher(ctx context.Context, url string, ttl time.Duration) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisPublisherFromClient(client, ttl), nil
}

// NewRedisPublisherFromClient wraps an existing client.
func NewRedisPublisherFromClient(client redis.UniversalClient, ttl time.Duration) *RedisPublisher {
	return &RedisPublisher{client: client, ttl: ttl}
}

// PublishSnapshot stores board as JSON under BoardKey, expiring after the configured TTL.
func (p *RedisPublisher) PublishSnapshot(ctx context.Context, gameID uuid.UUID, board any) error {
	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("encode board: %w", err)
	}
	if err := p.client.Set(ctx, BoardKey(gameID), data, p.ttl).Err(); err != nil {
		return fmt.Errorf("store board snapshot: %w", err)
	}
	return nil
}

// PublishEvent publishes event as JSON on EventChannel.
func (p *RedisPublisher) PublishEvent(ctx context.Context, gameID uuid.UUID, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.client.Publish(ctx, EventChannel(gameID), data).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// ErrNoSnapshot is returned by Snapshot when no board is stored for the game.
var ErrNoSnapshot = errors.New("no snapshot stored")

// Snapshot reads back the stored board JSON.
func (p *RedisPublisher) Snapshot(ctx context.Context, gameID uuid.UUID) (json.RawMessage, error) {
	data, err := p.client.Get(ctx, BoardKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read board snapshot: %w", err)
	}
	return data, nil
}

// Close releases the underlying client.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
