package service

import (
	"context"
	"testing"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/platform"
	"github.com/maheshrc27/postflow/internal/repository/repotest"
	"github.com/stretchr/testify/require"
)

type verifyAdapter struct {
	valid bool
	err   error
}

func (verifyAdapter) Publish(ctx context.Context, content string, mediaURLs []string) (*platform.PostResult, error) {
	return &platform.PostResult{PlatformPostID: "x"}, nil
}

func (verifyAdapter) Delete(ctx context.Context, platformPostID string) (bool, error) {
	return true, nil
}

func (verifyAdapter) FetchEngagement(ctx context.Context, platformPostID string) (*platform.Engagement, error) {
	return &platform.Engagement{}, nil
}

func (a verifyAdapter) VerifyCredentials(ctx context.Context, creds models.Credentials) (bool, error) {
	return a.valid, a.err
}

type stores struct {
	posts    *repotest.PostStore
	accounts *repotest.AccountStore
	entities *repotest.EntityStore
	registry *platform.Registry
}

func newStores(t *testing.T, adapter platform.Adapter) *stores {
	t.Helper()

	s := &stores{
		posts:    repotest.NewPostStore(),
		accounts: repotest.NewAccountStore(),
		entities: repotest.NewEntityStore(),
		registry: platform.NewRegistry(),
	}
	s.registry.Register(platform.Demo, func(models.Credentials) (platform.Adapter, error) {
		return adapter, nil
	})

	_, err := s.entities.Create(context.Background(), &models.Entity{
		ID:   "ent-1",
		Slug: "acme",
		Type: models.EntityTypeProject,
		Name: "Acme",
	})
	require.NoError(t, err)
	return s
}
