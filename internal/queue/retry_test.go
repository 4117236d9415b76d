package queue

import (
	"math"
	"testing"
	"time"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoff(t *testing.T) {
	base := 10 * time.Second
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 10 * time.Second},
		{1, 10 * time.Second},
		{2, 20 * time.Second},
		{3, 40 * time.Second},
		{6, 320 * time.Second},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Backoff(tc.attempt, base), "attempt %d", tc.attempt)
	}
}

func TestBackoff_SaturatesInsteadOfWrapping(t *testing.T) {
	base := time.Minute
	prev := Backoff(1, base)
	for attempt := 2; attempt <= 80; attempt++ {
		d := Backoff(attempt, base)
		require.Positive(t, d, "attempt %d", attempt)
		require.GreaterOrEqual(t, d, prev, "attempt %d", attempt)
		prev = d
	}
	assert.Equal(t, time.Duration(math.MaxInt64), Backoff(29, base))
	assert.Equal(t, time.Duration(math.MaxInt64), Backoff(1000, time.Nanosecond))
	assert.Equal(t, base<<27, Backoff(28, base))
}

func TestRetryPolicy_Decide_LargeRetryCeilingStaysInFuture(t *testing.T) {
	p := RetryPolicy{MaxRetries: 40, BaseDelay: time.Minute}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for rc := 0; rc < p.MaxRetries-1; rc++ {
		d := p.Decide(rc, now)
		require.False(t, d.Permanent(), "retry_count %d", rc)
		assert.True(t, d.NextRetryAt.After(now), "retry_count %d -> %s", rc+1, d.NextRetryAt)
	}
}

func TestRetryPolicy_Decide(t *testing.T) {
	p := RetryPolicy{MaxRetries: 3, BaseDelay: time.Second}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	d := p.Decide(0, now)
	require.False(t, d.Permanent())
	assert.Equal(t, 1, d.RetryCount)
	assert.Equal(t, now.Add(time.Second), *d.NextRetryAt)

	d = p.Decide(1, now)
	require.False(t, d.Permanent())
	assert.Equal(t, 2, d.RetryCount)
	assert.Equal(t, now.Add(2*time.Second), *d.NextRetryAt)

	d = p.Decide(2, now)
	assert.True(t, d.Permanent())
	assert.Equal(t, 3, d.RetryCount)
	assert.Nil(t, d.NextRetryAt)
}

func TestRetryPolicy_SingleRetryBudget(t *testing.T) {
	p := RetryPolicy{MaxRetries: 1, BaseDelay: time.Minute}
	d := p.Decide(0, time.Now())
	assert.True(t, d.Permanent())
	assert.Equal(t, 1, d.RetryCount)
}

func TestRetryPolicy_Apply(t *testing.T) {
	p := RetryPolicy{MaxRetries: 5, BaseDelay: 2 * time.Second}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	post := &models.Post{ID: "p1", Status: models.PostStatusPosting, RetryCount: 2}

	d := p.Apply(post, "rate limited", now)

	assert.Equal(t, models.PostStatusFailed, post.Status)
	assert.Equal(t, 3, post.RetryCount)
	require.NotNil(t, post.Error)
	assert.Equal(t, "rate limited", *post.Error)
	require.NotNil(t, post.NextRetryAt)
	assert.Equal(t, now.Add(8*time.Second), *post.NextRetryAt)
	assert.Equal(t, d.NextRetryAt, post.NextRetryAt)
}
