package cache

import (
	"strings"
	"time"
)

// Decision is the retention policy's verdict for one populate call.
// FastTTL always applies; DurableTTL only when Persist is true.
type Decision struct {
	FastTTL    time.Duration
	DurableTTL time.Duration
	Persist    bool
}

// RetentionPolicy maps a result's classification to how long it is cached.
//
// The fast-tier TTL is fixed regardless of classification, bounding staleness
// for facts that can still change. The durable tier is reserved for terminal
// classifications, where the underlying fact cannot change again, so those
// are kept effectively forever and everything else is not persisted at all.
type RetentionPolicy struct {
	fastTTL    time.Duration
	durableTTL time.Duration
	terminal   map[string]struct{}
}

// NewRetentionPolicy builds a policy. The terminal label set is configuration
// data, not code: it comes from TERMINAL_CLASSIFICATIONS so it can track the
// classifier's actual output vocabulary. Matching is case-insensitive.
func NewRetentionPolicy(fastTTL, durableTTL time.Duration, terminal []string) *RetentionPolicy {
	set := make(map[string]struct{}, len(terminal))
	for _, label := range terminal {
		set[strings.ToLower(strings.TrimSpace(label))] = struct{}{}
	}

	return &RetentionPolicy{
		fastTTL:    fastTTL,
		durableTTL: durableTTL,
		terminal:   set,
	}
}

// Decide returns the retention decision for a classification. An empty or
// unrecognized classification caches fast-tier only.
func (p *RetentionPolicy) Decide(classification string) Decision {
	decision := Decision{FastTTL: p.fastTTL}

	if _, ok := p.terminal[strings.ToLower(strings.TrimSpace(classification))]; ok {
		decision.DurableTTL = p.durableTTL
		decision.Persist = true
	}

	return decision
}

// FastTTL returns the fixed fast-tier TTL.
func (p *RetentionPolicy) FastTTL() time.Duration {
	return p.fastTTL
}
