package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testPolicy() *RetentionPolicy {
	return NewRetentionPolicy(12*time.Hour, 100*365*24*time.Hour, []string{"cancelled", "concluded", "ended"})
}

func TestRetentionPolicy_Decide(t *testing.T) {
	policy := testPolicy()

	t.Run("terminal classification persists", func(t *testing.T) {
		decision := policy.Decide("Cancelled")
		assert.True(t, decision.Persist)
		assert.Equal(t, 12*time.Hour, decision.FastTTL)
		assert.Equal(t, 100*365*24*time.Hour, decision.DurableTTL)
	})

	t.Run("non-terminal classification does not persist", func(t *testing.T) {
		decision := policy.Decide("Renewed")
		assert.False(t, decision.Persist)
		assert.Equal(t, 12*time.Hour, decision.FastTTL)
	})

	t.Run("unknown classification does not persist", func(t *testing.T) {
		assert.False(t, policy.Decide("unknown").Persist)
		assert.False(t, policy.Decide("").Persist)
	})

	t.Run("case insensitive", func(t *testing.T) {
		assert.Equal(t, policy.Decide("cancelled"), policy.Decide("CANCELLED"))
		assert.True(t, policy.Decide("CANCELLED").Persist)
		assert.True(t, policy.Decide("Ended").Persist)
	})

	t.Run("surrounding whitespace ignored", func(t *testing.T) {
		assert.True(t, policy.Decide(" concluded ").Persist)
	})

	t.Run("fast ttl fixed regardless of classification", func(t *testing.T) {
		for _, label := range []string{"Cancelled", "Renewed", "Returning", "", "garbage"} {
			assert.Equal(t, 12*time.Hour, policy.Decide(label).FastTTL, "label %q", label)
		}
	})
}

func TestRetentionPolicy_ConfiguredTerminalSet(t *testing.T) {
	// The terminal set is data, not code: a narrower configuration narrows
	// what is persisted.
	policy := NewRetentionPolicy(time.Hour, time.Hour*24, []string{"cancelled"})

	assert.True(t, policy.Decide("cancelled").Persist)
	assert.False(t, policy.Decide("concluded").Persist)
	assert.False(t, policy.Decide("ended").Persist)
}
