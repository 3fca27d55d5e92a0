package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextDelayGrowsAndClamps(t *testing.T) {
	policy := RetryPolicy{
		MaxRetries:    5,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      time.Second,
		BackoffFactor: 2,
	}

	assert.Equal(t, 100*time.Millisecond, policy.NextDelay(1))
	assert.Equal(t, 200*time.Millisecond, policy.NextDelay(2))
	assert.Equal(t, 400*time.Millisecond, policy.NextDelay(3))
	assert.Equal(t, time.Second, policy.NextDelay(10), "clamped to max delay")
}

func TestNextDelayDefaults(t *testing.T) {
	var policy RetryPolicy

	assert.Equal(t, time.Second, policy.NextDelay(0))
	assert.Equal(t, 2*time.Second, policy.NextDelay(2))
}
