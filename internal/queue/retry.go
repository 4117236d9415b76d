package queue

import (
	"math"
	"time"

	"github.com/maheshrc27/postflow/internal/models"
)

// RetryPolicy decides what happens to a post after a failed publish attempt.
// Both outcomes leave the post failed; it stays claimable only while
// retry_count < MaxRetries and next_retry_at is set.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

type RetryDecision struct {
	RetryCount  int
	NextRetryAt *time.Time
}

func (d RetryDecision) Permanent() bool {
	return d.NextRetryAt == nil
}

// Backoff returns base * 2^(attempt-1) for a 1-based attempt, saturating at
// the largest representable duration.
func Backoff(attempt int, base time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if base <= 0 {
		return 0
	}
	shift := attempt - 1
	if shift >= 63 || base > math.MaxInt64>>shift {
		return time.Duration(math.MaxInt64)
	}
	return base << shift
}

func (p RetryPolicy) Decide(retryCount int, now time.Time) RetryDecision {
	next := retryCount + 1
	if next >= p.MaxRetries {
		return RetryDecision{RetryCount: next}
	}
	at := now.Add(Backoff(next, p.BaseDelay))
	return RetryDecision{RetryCount: next, NextRetryAt: &at}
}

// Apply records a failed attempt on post and returns the decision taken.
func (p RetryPolicy) Apply(post *models.Post, reason string, now time.Time) RetryDecision {
	d := p.Decide(post.RetryCount, now)
	post.RetryCount = d.RetryCount
	post.NextRetryAt = d.NextRetryAt
	post.Status = models.PostStatusFailed
	post.Error = &reason
	post.UpdatedAt = now
	return d
}
