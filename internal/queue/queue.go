// Package queue runs the publish worker: it claims due posts from the
// store, publishes them through platform adapters with bounded concurrency
// and applies the retry policy to failures.
package queue

import (
	"sync/atomic"
	"time"

	config "github.com/maheshrc27/postflow/configs"
	"github.com/maheshrc27/postflow/internal/platform"
	"github.com/maheshrc27/postflow/internal/repository"
	"github.com/maheshrc27/postflow/pkg/utils"
)

type Queue struct {
	pr       repository.PostRepository
	ac       repository.AccountRepository
	vault    *utils.Vault
	registry *platform.Registry
	cfg      config.Worker
	retry    RetryPolicy
	now      func() time.Time
	state    atomic.Int32
}

type Option func(*Queue)

// WithClock replaces time.Now, mostly for tests that step through backoff.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) {
		q.now = now
	}
}

func NewQueue(
	cfg config.Worker,
	pr repository.PostRepository,
	ac repository.AccountRepository,
	vault *utils.Vault,
	registry *platform.Registry,
	opts ...Option) *Queue {
	q := &Queue{
		pr:       pr,
		ac:       ac,
		vault:    vault,
		registry: registry,
		cfg:      cfg,
		retry:    RetryPolicy{MaxRetries: cfg.MaxRetries, BaseDelay: cfg.RetryBaseDelay},
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}
