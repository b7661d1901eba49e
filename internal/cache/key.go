package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// DeriveKey returns the cache key for a single lookup subject, such as a show
// title plus its media kind. The subject and discriminator are lower-cased
// and trimmed before hashing, so "The Bear" and " the bear " collide.
// Any input, including the empty string, yields a valid key.
func DeriveKey(subject, discriminator string) string {
	return digest(normalize(subject) + "|" + normalize(discriminator))
}

// DeriveCompositeKey returns the cache key for a multi-item lookup, such as a
// watchlist briefing. Titles are normalized and sorted before joining, so the
// caller's input order never affects the key.
func DeriveCompositeKey(titles []string, referenceDate string) string {
	normalized := make([]string, len(titles))
	for i, title := range titles {
		normalized[i] = normalize(title)
	}
	sort.Strings(normalized)

	return digest(strings.Join(normalized, "|") + "|" + normalize(referenceDate))
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
