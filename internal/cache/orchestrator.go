package cache

import (
	"context"
	"time"

	"show-status/internal/common/logging"
)

// LookupStatus is the terminal state of one read-path traversal.
type LookupStatus int

const (
	// LookupHitFast means the fast tier answered.
	LookupHitFast LookupStatus = iota
	// LookupHitDurable means the durable tier answered and the fast tier was warmed.
	LookupHitDurable
	// LookupMiss means neither tier held the key.
	LookupMiss
	// LookupMissExpired means the durable tier held a stale document, which was deleted.
	LookupMissExpired
)

// String returns the string representation of a lookup status
func (s LookupStatus) String() string {
	switch s {
	case LookupHitFast:
		return "hit_fast"
	case LookupHitDurable:
		return "hit_durable_warmed"
	case LookupMiss:
		return "miss"
	case LookupMissExpired:
		return "miss_expired"
	default:
		return "unknown"
	}
}

// Found reports whether the lookup produced a value.
func (s LookupStatus) Found() bool {
	return s == LookupHitFast || s == LookupHitDurable
}

// Orchestrator is the only cache component callers use. It owns the read path
// (fast, then durable, with lazy expiry and warming) and the write path
// (fast always, durable per the retention policy).
//
// Tier failures are swallowed: the worst observable behavior is a miss, so
// the cache stays a pure optimization with no correctness dependency. The
// orchestrator holds no entry state between calls; concurrent populates for
// the same key are safe because both tiers overwrite wholesale.
type Orchestrator struct {
	fast    FastTier
	durable DurableTier
	policy  *RetentionPolicy
	logger  logging.Logger
	now     func() time.Time
}

// NewOrchestrator wires the tiers and policy together. Either tier may be
// nil, meaning absent; a no-op stand-in is substituted so call sites never
// nil-check.
func NewOrchestrator(fast FastTier, durable DurableTier, policy *RetentionPolicy, logger logging.Logger) *Orchestrator {
	if fast == nil {
		fast = noopFastTier{}
	}
	if durable == nil {
		durable = noopDurableTier{}
	}
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	return &Orchestrator{
		fast:    fast,
		durable: durable,
		policy:  policy,
		logger:  logger,
		now:     time.Now,
	}
}

// Lookup returns the cached payload for key, if any tier holds a live copy.
// A durable hit warms the fast tier before returning. An expired durable
// document is deleted and reported as a miss.
func (o *Orchestrator) Lookup(ctx context.Context, key string) ([]byte, LookupStatus) {
	if value, outcome := o.fast.Get(ctx, key); outcome == Hit {
		o.logger.Debug("cache lookup", logging.Field{Key: "key", Value: key}, logging.Field{Key: "status", Value: LookupHitFast.String()})
		return value, LookupHitFast
	}

	doc, outcome := o.durable.Get(ctx, key)
	if outcome != Hit {
		o.logger.Debug("cache lookup", logging.Field{Key: "key", Value: key}, logging.Field{Key: "status", Value: LookupMiss.String()}, logging.Field{Key: "durable", Value: outcome.String()})
		return nil, LookupMiss
	}

	if !doc.ExpiresAt.After(o.now()) {
		if err := o.durable.Delete(ctx, key); err != nil {
			o.logger.Warn("failed to delete expired document", logging.Field{Key: "key", Value: key}, logging.Err(err))
		}
		o.logger.Debug("cache lookup", logging.Field{Key: "key", Value: key}, logging.Field{Key: "status", Value: LookupMissExpired.String()})
		return nil, LookupMissExpired
	}

	o.warm(ctx, key, doc.Payload)
	o.logger.Debug("cache lookup", logging.Field{Key: "key", Value: key}, logging.Field{Key: "status", Value: LookupHitDurable.String()})
	return doc.Payload, LookupHitDurable
}

// Populate stores a freshly computed value. The fast tier is always written
// with the policy's fixed TTL; the durable tier only when the classification
// is terminal. Repeated calls with the same key overwrite. Never fails:
// tier errors are logged and swallowed.
func (o *Orchestrator) Populate(ctx context.Context, key string, payload []byte, classification string) {
	decision := o.policy.Decide(classification)

	if err := o.fast.Set(ctx, key, payload, decision.FastTTL); err != nil {
		o.logger.Warn("fast tier populate failed", logging.Field{Key: "key", Value: key}, logging.Err(err))
	}

	if !decision.Persist {
		return
	}

	expiresAt := o.now().Add(decision.DurableTTL)
	if err := o.durable.Upsert(ctx, key, payload, classification, expiresAt); err != nil {
		o.logger.Warn("durable tier populate failed", logging.Field{Key: "key", Value: key}, logging.Err(err))
	}
}

// Purge removes the key from both tiers, best effort. Used by the admin
// endpoint; the read path never calls it.
func (o *Orchestrator) Purge(ctx context.Context, key string) {
	if err := o.fast.Delete(ctx, key); err != nil {
		o.logger.Warn("fast tier purge failed", logging.Field{Key: "key", Value: key}, logging.Err(err))
	}
	if err := o.durable.Delete(ctx, key); err != nil {
		o.logger.Warn("durable tier purge failed", logging.Field{Key: "key", Value: key}, logging.Err(err))
	}
}

// warm copies a durable hit into the fast tier only. It bypasses the
// retention policy's durable side entirely, so a durable hit can never
// re-persist itself.
func (o *Orchestrator) warm(ctx context.Context, key string, payload []byte) {
	if err := o.fast.Set(ctx, key, payload, o.policy.FastTTL()); err != nil {
		o.logger.Debug("fast tier warm failed", logging.Field{Key: "key", Value: key}, logging.Err(err))
	}
}
