// Package cache provides an optional read-through cache for entity reads.
//
// The cache is a best-effort side channel: every operation must produce a
// correct result when it is absent or cold, and cache failures are logged
// by callers rather than propagated. Keys are typed so each write path can
// enumerate exactly the entries it invalidates.
package cache

import (
	"context"
	"time"
)

// Entity kinds used in cache keys.
const (
	KindPlot = "plot"
)

// Key identifies a cached entry. UserID is part of the key for user-scoped
// entities so one user's cached reads can never be served to another.
type Key struct {
	Kind   string
	ID     string
	UserID string
}

// String renders the key in the "kind:id[:user:uid]" form used on the wire.
func (k Key) String() string {
	s := k.Kind + ":" + k.ID
	if k.UserID != "" {
		s += ":user:" + k.UserID
	}
	return s
}

// PlotKey builds the key for a user-scoped plot read.
func PlotKey(plotID, userID string) Key {
	return Key{Kind: KindPlot, ID: plotID, UserID: userID}
}

// Cache is a key-value store with TTL semantics. A missing key is a normal
// miss, not an error.
type Cache interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key Key) (string, bool, error)
	// Set stores a value with a time-to-live.
	Set(ctx context.Context, key Key, value string, ttl time.Duration) error
	// Delete removes the given keys. Deleting absent keys is not an error.
	Delete(ctx context.Context, keys ...Key) error
}

// Noop is the cache used when no backend is configured. Always misses.
type Noop struct{}

// NewNoop creates a Noop cache.
func NewNoop() *Noop { return &Noop{} }

func (*Noop) Get(ctx context.Context, key Key) (string, bool, error) { return "", false, nil }

func (*Noop) Set(ctx context.Context, key Key, value string, ttl time.Duration) error { return nil }

func (*Noop) Delete(ctx context.Context, keys ...Key) error { return nil }
