// Package cache implements the two-tier lookup-and-populate cache that fronts
// the search and language-model providers.
//
// The fast tier is a volatile store with native per-key expiry (Redis, or an
// in-process cache for single-node deployments). The durable tier is a
// document store whose documents embed their own expiry timestamp; expiry is
// enforced lazily by the orchestrator on read and by a background sweep.
//
// Read path: fast tier, then durable tier. A valid durable hit warms the fast
// tier before returning. An expired durable document is deleted and treated
// as a miss.
//
// Write path: every populate writes the fast tier with a fixed TTL. The
// retention policy decides from the result's classification whether the
// durable tier is written too: only terminal classifications (facts that will
// never change again, such as a cancelled show) are persisted, with an
// effectively-permanent expiry.
//
// Both tiers are optional accelerators. Any tier error or absence is
// collapsed to a miss at the orchestrator boundary; callers never see a cache
// failure, only slower answers.
package cache
