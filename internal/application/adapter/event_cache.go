package adapter

import (
	"context"
	"time"
)

// EventCache is a shared short-TTL cache of recently processed external
// event ids. It short-circuits webhook redeliveries before they reach the
// database; the unique reference-id constraint remains the authoritative
// idempotency guard.
type EventCache interface {
	// Seen reports whether the key was marked within its TTL.
	Seen(ctx context.Context, key string) (bool, error)

	// MarkSeen records the key for the given TTL.
	MarkSeen(ctx context.Context, key string, ttl time.Duration) error
}
