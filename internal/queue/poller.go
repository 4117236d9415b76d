package queue

import (
	"context"
	"log/slog"
	"time"
)

type State int32

const (
	StateIdle State = iota
	StateClaiming
	StateDispatching
	StateShuttingDown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateClaiming:
		return "claiming"
	case StateDispatching:
		return "dispatching"
	case StateShuttingDown:
		return "shutting_down"
	}
	return "unknown"
}

func (q *Queue) State() State {
	return State(q.state.Load())
}

func (q *Queue) setState(s State) {
	q.state.Store(int32(s))
}

// Run polls until ctx is cancelled. Cancellation stops new ticks and cuts the
// idle sleep short, but a batch already being dispatched runs to completion.
func (q *Queue) Run(ctx context.Context) {
	slog.Info("worker started",
		"poll_interval", q.cfg.PollInterval,
		"batch", q.cfg.BatchSize,
		"concurrency", q.cfg.Concurrency,
		"retries", q.cfg.MaxRetries)

	work := context.WithoutCancel(ctx)
	for ctx.Err() == nil {
		q.Tick(work)
		if !q.sleep(ctx) {
			break
		}
	}

	q.setState(StateShuttingDown)
	slog.Info("worker shutting down")
}

// Tick claims one batch and dispatches it. It returns the number of posts
// claimed. A claim failure is logged and ends the tick.
func (q *Queue) Tick(ctx context.Context) int {
	q.setState(StateClaiming)
	defer q.setState(StateIdle)

	posts, err := q.pr.Claim(ctx, q.cfg.BatchSize, q.cfg.MaxRetries, q.now())
	if err != nil {
		slog.Error("failed to claim posts", "error", err)
		return 0
	}
	if len(posts) == 0 {
		return 0
	}

	slog.Info("claimed posts", "count", len(posts))
	q.setState(StateDispatching)
	q.Dispatch(ctx, posts)
	return len(posts)
}

func (q *Queue) sleep(ctx context.Context) bool {
	timer := time.NewTimer(q.cfg.PollInterval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
