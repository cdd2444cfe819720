package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCmdable is the subset of the go-redis API the driver needs.
// *redis.Client satisfies it; tests can substitute a stub.
type redisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// redisStore implements Store on Redis, one JSON-encoded history per session
// key. The read-modify-write in Append carries the same same-session race as
// the memory driver.
type redisStore struct {
	client redisCmdable
	ttl    time.Duration
}

func sessionKey(id string) string {
	return "session:" + id
}

// Get implements Store.
func (s *redisStore) Get(ctx context.Context, id string) ([]Message, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return []Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get failed: %w", err)
	}

	var history []Message
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("failed to decode session history: %w", err)
	}
	return history, nil
}

// Append implements Store.
func (s *redisStore) Append(ctx context.Context, id string, msgs ...Message) error {
	if len(msgs) == 0 {
		return nil
	}

	history, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	history = append(history, msgs...)

	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to encode session history: %w", err)
	}

	// TTL refreshes on every append so active sessions stay alive.
	if err := s.client.Set(ctx, sessionKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session append failed: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *redisStore) Close() error {
	return s.client.Close()
}
