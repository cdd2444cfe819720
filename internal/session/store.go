// Package session keeps per-session conversation history.
//
// History grows only by appending one user/assistant message pair per
// completed turn. Concurrent turns on the same session id may interleave
// their read-then-append sequences; appends are applied in arrival order and
// the resulting duplicated context is an accepted limitation rather than a
// reason for per-session locking.
package session

import (
	"context"
	"errors"
	"time"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single conversation message. Immutable once created.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Store is the interface for session history storage.
type Store interface {
	// Get returns the ordered history for a session id. Unknown sessions
	// yield an empty history, not an error.
	Get(ctx context.Context, id string) ([]Message, error)

	// Append adds messages to the end of a session's history, creating the
	// session when needed.
	Append(ctx context.Context, id string, msgs ...Message) error

	// Close releases any resources held by the store.
	Close() error
}

// StoreType selects a session store driver.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

var (
	ErrInvalidStoreType = errors.New("invalid session store type")
	ErrInvalidConfig    = errors.New("invalid session store config")
)

type storeConfig struct {
	redisClient redisCmdable
	redisTTL    time.Duration
}

// StoreOption configures NewStore.
type StoreOption func(*storeConfig)

// WithRedisClient supplies the Redis client used by the redis driver.
func WithRedisClient(client redisCmdable) StoreOption {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// WithRedisTTL sets the session expiry applied on each append.
func WithRedisTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.redisTTL = ttl
	}
}

// NewStore creates a session store for the given driver type.
// The redis driver requires WithRedisClient.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	config := &storeConfig{}
	for _, opt := range opts {
		opt(config)
	}

	switch storeType {
	case StoreTypeMemory:
		return newMemoryStore(), nil

	case StoreTypeRedis:
		if config.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		ttl := config.redisTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		return &redisStore{
			client: config.redisClient,
			ttl:    ttl,
		}, nil

	default:
		return nil, ErrInvalidStoreType
	}
}
