package ratelimit_test

import (
	"testing"
	"time"

	"github.com/leadscout/linkedin-post-parser/internal/ratelimit"
	"github.com/stretchr/testify/assert"
)

func TestLimiterPerChat(t *testing.T) {
	t.Parallel()

	l := ratelimit.NewInMemoryLimiter(1, time.Minute, 2)

	assert.True(t, l.Allow(1))
	assert.True(t, l.Allow(1))
	assert.False(t, l.Allow(1), "burst exhausted")

	// Other chats have their own bucket.
	assert.True(t, l.Allow(2))
}
