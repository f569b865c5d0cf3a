// internal/cache/redis_test.go
package cache

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	id := uuid.MustParse("6f1c1a52-8a62-4d1c-9b51-0b7d1a0c2f11")
	assert.Equal(t, "hanabi:game:6f1c1a52-8a62-4d1c-9b51-0b7d1a0c2f11:board", BoardKey(id))
	assert.Equal(t, "hanabi:game:6f1c1a52-8a62-4d1c-9b51-0b7d1a0c2f11:events", EventChannel(id))
}

func TestNewRedisPublisherBadURL(t *testing.T) {
	_, err := NewRedisPublisher(context.Background(), "not a url", time.Minute)
	assert.ErrorContains(t, err, "parse redis url")
}

func TestPublishRejectsUnencodable(t *testing.T) {
	// Encoding fails before the client is touched.
	p := &RedisPublisher{}
	err := p.PublishSnapshot(context.Background(), uuid.New(), make(chan int))
	assert.ErrorContains(t, err, "encode board")
	err = p.PublishEvent(context.Background(), uuid.New(), func() {})
	assert.ErrorContains(t, err, "encode event")
}

// TestPublishAgainstRedis runs against HANABI_TEST_REDIS_URL when set.
func TestPublishAgainstRedis(t *testing.T) {
	url := os.Getenv("HANABI_TEST_REDIS_URL")
	if url == "" {
		t.Skip("HANABI_TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	p, err := NewRedisPublisher(ctx, url, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	id := uuid.New()
	_, err = p.Snapshot(ctx, id)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	sub := p.client.Subscribe(ctx, EventChannel(id))
	t.Cleanup(func() { _ = sub.Close() })
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, p.PublishSnapshot(ctx, id, map[string]int{"score": 7}))
	board, err := p.Snapshot(ctx, id)
	require.NoError(t, err)
	assert.JSONEq(t, `{"score":7}`, string(board))

	require.NoError(t, p.PublishEvent(ctx, id, map[string]string{"type": "game_end"}))
	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	var ev map[string]string
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
	assert.Equal(t, "game_end", ev["type"])
}
