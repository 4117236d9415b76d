package queue

import (
	"context"
	"testing"
	"time"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ShutdownInterruptsIdleSleep(t *testing.T) {
	cfg := testConfig()
	cfg.PollInterval = time.Hour
	f := newFixture(t, cfg, succeed("abc"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.q.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return f.posts.ClaimCount() == 1 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop while sleeping")
	}
	assert.Equal(t, StateShuttingDown, f.q.State())
	assert.Equal(t, 1, f.posts.ClaimCount())
}

func TestRun_InFlightBatchFinishesAfterShutdown(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	publish := func(ctx context.Context, content string, mediaURLs []string) (*platform.PostResult, error) {
		close(entered)
		<-release
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return &platform.PostResult{PlatformPostID: "abc"}, nil
	}

	f := newFixture(t, testConfig(), publish)
	acc := f.addAccount("acc-1", "demo", `{"token":"t"}`)
	f.addPost("post-1", acc, "demo", models.PostStatusQueued)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.q.Run(ctx)
		close(done)
	}()

	<-entered
	assert.Equal(t, StateDispatching, f.q.State())
	cancel()
	close(release)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after batch")
	}

	assert.Equal(t, models.PostStatusPosted, f.posts.Get("post-1").Status)
	assert.Equal(t, 1, f.posts.ClaimCount())
}

func TestRun_ExitsWithoutTickWhenAlreadyCancelled(t *testing.T) {
	f := newFixture(t, testConfig(), succeed("abc"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f.q.Run(ctx)
	assert.Equal(t, 0, f.posts.ClaimCount())
	assert.Equal(t, StateShuttingDown, f.q.State())
}

func TestTick_ClaimFailureIsContained(t *testing.T) {
	f := newFixture(t, testConfig(), succeed("abc"))
	acc := f.addAccount("acc-1", "demo", `{"token":"t"}`)
	f.addPost("post-1", acc, "demo", models.PostStatusQueued)

	f.posts.FailClaim = true
	assert.Equal(t, 0, f.q.Tick(context.Background()))
	assert.Equal(t, StateIdle, f.q.State())
	assert.Equal(t, models.PostStatusQueued, f.posts.Get("post-1").Status)

	f.posts.FailClaim = false
	assert.Equal(t, 1, f.q.Tick(context.Background()))
	assert.Equal(t, models.PostStatusPosted, f.posts.Get("post-1").Status)
}

func TestTick_Eligibility(t *testing.T) {
	f := newFixture(t, testConfig(), succeed("abc"))
	acc := f.addAccount("acc-1", "demo", `{"token":"t"}`)
	now := f.clock.Now()
	past, future := now.Add(-time.Minute), now.Add(time.Minute)

	put := func(id, status string, mutate func(p *models.Post)) {
		p := &models.Post{ID: id, EntityID: "entity-1", AccountID: acc, Platform: "demo", Status: status}
		if mutate != nil {
			mutate(p)
		}
		f.posts.Put(p)
	}
	put("queued", models.PostStatusQueued, nil)
	put("scheduled-due", models.PostStatusScheduled, func(p *models.Post) { p.ScheduledFor = &past })
	put("scheduled-later", models.PostStatusScheduled, func(p *models.Post) { p.ScheduledFor = &future })
	put("failed-due", models.PostStatusFailed, func(p *models.Post) { p.RetryCount = 1; p.NextRetryAt = &past })
	put("failed-later", models.PostStatusFailed, func(p *models.Post) { p.RetryCount = 1; p.NextRetryAt = &future })
	put("failed-exhausted", models.PostStatusFailed, func(p *models.Post) { p.RetryCount = 3 })
	put("posting", models.PostStatusPosting, nil)
	put("posted", models.PostStatusPosted, nil)

	require.Equal(t, 3, f.q.Tick(context.Background()))

	for _, id := range []string{"queued", "scheduled-due", "failed-due"} {
		assert.Equal(t, models.PostStatusPosted, f.posts.Get(id).Status, id)
	}
	assert.Equal(t, models.PostStatusScheduled, f.posts.Get("scheduled-later").Status)
	assert.Equal(t, models.PostStatusFailed, f.posts.Get("failed-later").Status)
	assert.Equal(t, models.PostStatusFailed, f.posts.Get("failed-exhausted").Status)
	assert.Equal(t, models.PostStatusPosting, f.posts.Get("posting").Status)
}

func TestTick_ClaimsInCreationOrderUpToBatch(t *testing.T) {
	var order []string
	publish := func(ctx context.Context, content string, mediaURLs []string) (*platform.PostResult, error) {
		order = append(order, content)
		return &platform.PostResult{PlatformPostID: "x"}, nil
	}
	cfg := testConfig()
	cfg.BatchSize = 2
	cfg.Concurrency = 1
	f := newFixture(t, cfg, publish)
	acc := f.addAccount("acc-1", "demo", `{"token":"t"}`)
	f.addPost("first", acc, "demo", models.PostStatusQueued)
	f.addPost("second", acc, "demo", models.PostStatusQueued)
	f.addPost("third", acc, "demo", models.PostStatusQueued)

	require.Equal(t, 2, f.q.Tick(context.Background()))
	assert.Equal(t, models.PostStatusQueued, f.posts.Get("third").Status)
	assert.ElementsMatch(t, []string{"content of first", "content of second"}, order)
}
