// Package cache provides the short-lived key/value store used for pending
// verification codes and revoked token IDs.
//
// Backends:
//   - memory (in-process, dev/tests)
//   - redis (shared, production)
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get when a key is absent or expired.
var ErrNotFound = errors.New("cache: not found")

// Client is the cache operation set. Set fully replaces the value and TTL of
// a key in one call; callers rely on that for last-write-wins supersession.
type Client interface {
	// Get returns the value or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value with a TTL. ttl == 0 means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping checks the backend connection.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Driver   string // "memory" | "redis"
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// New builds a Client from cfg.
func New(cfg Config) (Client, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemory(cfg.Prefix), nil
	case "redis":
		return NewRedis(cfg)
	default:
		return nil, fmt.Errorf("cache: unknown driver %q", cfg.Driver)
	}
}
