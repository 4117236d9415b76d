package queue

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	config "github.com/maheshrc27/postflow/configs"
	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/platform"
	"github.com/maheshrc27/postflow/internal/repository/repotest"
	"github.com/maheshrc27/postflow/pkg/utils"
	"github.com/stretchr/testify/require"
)

type publishFunc func(ctx context.Context, content string, mediaURLs []string) (*platform.PostResult, error)

type stubAdapter struct {
	publish publishFunc
}

func (s stubAdapter) Publish(ctx context.Context, content string, mediaURLs []string) (*platform.PostResult, error) {
	return s.publish(ctx, content, mediaURLs)
}

func (stubAdapter) Delete(ctx context.Context, platformPostID string) (bool, error) {
	return true, nil
}

func (stubAdapter) FetchEngagement(ctx context.Context, platformPostID string) (*platform.Engagement, error) {
	return &platform.Engagement{}, nil
}

func (stubAdapter) VerifyCredentials(ctx context.Context, creds models.Credentials) (bool, error) {
	return true, nil
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	posts    *repotest.PostStore
	accounts *repotest.AccountStore
	clock    *fakeClock
	q        *Queue
}

func testConfig() config.Worker {
	return config.Worker{
		PollInterval:   10 * time.Millisecond,
		BatchSize:      10,
		Concurrency:    4,
		MaxRetries:     3,
		RetryBaseDelay: time.Second,
	}
}

func newFixture(t *testing.T, cfg config.Worker, publish publishFunc) *fixture {
	t.Helper()

	vault, err := utils.NewVault("")
	require.NoError(t, err)

	registry := platform.NewRegistry()
	registry.Register("demo", func(models.Credentials) (platform.Adapter, error) {
		return stubAdapter{publish: publish}, nil
	})

	f := &fixture{
		posts:    repotest.NewPostStore(),
		accounts: repotest.NewAccountStore(),
		clock:    &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
	f.q = NewQueue(cfg, f.posts, f.accounts, vault, registry, WithClock(f.clock.Now))
	return f
}

func (f *fixture) addAccount(id, platformID string, creds string) *string {
	f.accounts.Put(&models.Account{
		ID:          id,
		EntityID:    "entity-1",
		Platform:    platformID,
		Credentials: json.RawMessage(creds),
		Status:      models.AccountStatusActive,
	})
	return &id
}

func (f *fixture) addPost(id string, accountID *string, platformID, status string) {
	f.posts.Put(&models.Post{
		ID:        id,
		EntityID:  "entity-1",
		AccountID: accountID,
		Platform:  platformID,
		Content:   "content of " + id,
		Status:    status,
	})
}

func succeed(id string) publishFunc {
	return func(ctx context.Context, content string, mediaURLs []string) (*platform.PostResult, error) {
		return &platform.PostResult{PlatformPostID: id}, nil
	}
}
