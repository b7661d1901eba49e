package cache

import (
	"context"
	"time"
)

// Outcome classifies the result of a single tier read. Unavailable covers
// connection failures and timeouts; the orchestrator collapses it into Miss
// at its boundary, so tier outages degrade to cache misses.
type Outcome int

const (
	Hit Outcome = iota
	Miss
	Unavailable
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// FastTier is the volatile first-lookup store. Entries expire natively after
// the TTL given at Set time. Implementations must be safe for concurrent use.
type FastTier interface {
	Get(ctx context.Context, key string) ([]byte, Outcome)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Document is a durable tier entry as seen by the orchestrator.
type Document struct {
	Payload        []byte
	Classification string
	ExpiresAt      time.Time
}

// DurableTier is the persistent second-lookup store. It has no native expiry;
// documents carry ExpiresAt and the orchestrator deletes stale ones on read.
type DurableTier interface {
	Get(ctx context.Context, key string) (*Document, Outcome)
	Upsert(ctx context.Context, key string, payload []byte, classification string, expiresAt time.Time) error
	Delete(ctx context.Context, key string) error
}

// noopFastTier stands in for an absent fast tier: every read misses and
// writes are discarded.
type noopFastTier struct{}

func (noopFastTier) Get(context.Context, string) ([]byte, Outcome) { return nil, Miss }
func (noopFastTier) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}
func (noopFastTier) Delete(context.Context, string) error { return nil }

// noopDurableTier stands in for an absent durable tier.
type noopDurableTier struct{}

func (noopDurableTier) Get(context.Context, string) (*Document, Outcome) { return nil, Miss }
func (noopDurableTier) Upsert(context.Context, string, []byte, string, time.Time) error {
	return nil
}
func (noopDurableTier) Delete(context.Context, string) error { return nil }
