// Package status implements the two user-facing flows: checking a single
// show or movie's status, and generating a watchlist briefing. Both flows
// front the search and language-model providers with the tiered cache; a
// cache hit never touches a provider.
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"show-status/internal/cache"
	"show-status/internal/common/logging"
	"show-status/internal/llm"
	"show-status/internal/search"
)

// Searcher produces ranked text snippets for a query.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]search.Snippet, error)
}

// LanguageModel classifies snippets and writes short texts.
type LanguageModel interface {
	Classify(ctx context.Context, title, mediaType string, snippets []string) (*llm.Classification, error)
	Complete(ctx context.Context, system, prompt string, maxTokens int, temperature float64) (string, error)
}

// Result is the answer to a status check. It is also the cached payload;
// Cached is set on the way out and never stored.
type Result struct {
	Title     string    `json:"title"`
	MediaType string    `json:"mediaType"`
	Status    string    `json:"status"`
	Summary   string    `json:"summary"`
	CheckedAt time.Time `json:"checkedAt"`
	Cached    bool      `json:"cached"`
}

type Service struct {
	cache    *cache.Orchestrator
	searcher Searcher
	model    LanguageModel
	logger   logging.Logger
	now      func() time.Time
}

func NewService(orchestrator *cache.Orchestrator, searcher Searcher, model LanguageModel, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Service{
		cache:    orchestrator,
		searcher: searcher,
		model:    model,
		logger:   logger,
		now:      time.Now,
	}
}

// CheckStatus answers "what's the status of this title?". The cache is
// consulted first; on a miss the answer is computed from search snippets and
// the classifier, then populated back with the classification so the
// retention policy can decide how long it lives.
func (s *Service) CheckStatus(ctx context.Context, title, mediaType string) (*Result, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if mediaType == "" {
		mediaType = "tv"
	}

	key := cache.DeriveKey(title, mediaType)

	if payload, status := s.cache.Lookup(ctx, key); status.Found() {
		var result Result
		if err := json.Unmarshal(payload, &result); err == nil {
			result.Cached = true
			return &result, nil
		}
		// Unreadable payload is treated as a miss and recomputed.
		s.logger.Warn("discarding unreadable cache payload", logging.Field{Key: "key", Value: key})
	}

	result, err := s.computeStatus(ctx, title, mediaType)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(result); err == nil {
		s.cache.Populate(ctx, key, payload, result.Status)
	}

	return result, nil
}

func (s *Service) computeStatus(ctx context.Context, title, mediaType string) (*Result, error) {
	query := fmt.Sprintf("%s %s renewed cancelled or ended current status", title, mediaType)

	snippets, err := s.searcher.Search(ctx, query, 5)
	if err != nil {
		// The classifier can still answer (as "Unknown") without snippets.
		s.logger.Warn("search provider failed, classifying without snippets",
			logging.Field{Key: "title", Value: title}, logging.Err(err))
		snippets = nil
	}

	texts := make([]string, 0, len(snippets))
	for _, snip := range snippets {
		texts = append(texts, fmt.Sprintf("%s: %s", snip.Title, snip.Content))
	}

	classification, err := s.model.Classify(ctx, title, mediaType, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to classify %q: %w", title, err)
	}

	return &Result{
		Title:     title,
		MediaType: mediaType,
		Status:    classification.Status,
		Summary:   classification.Summary,
		CheckedAt: s.now().UTC(),
	}, nil
}

// PurgeKey removes a cache key from both tiers. Exposed for the admin endpoint.
func (s *Service) PurgeKey(ctx context.Context, key string) {
	s.cache.Purge(ctx, key)
}
