package platform

import (
	"context"

	"github.com/maheshrc27/postflow/internal/models"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// demoAdapter accepts every post without leaving the process. It backs local
// runs where no real platform account is wired up.
type demoAdapter struct{}

func NewDemoFactory() Factory {
	return func(models.Credentials) (Adapter, error) {
		return demoAdapter{}, nil
	}
}

func (demoAdapter) Publish(ctx context.Context, content string, mediaURLs []string) (*PostResult, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	return &PostResult{PlatformPostID: id, PlatformPostURL: "https://demo.local/posts/" + id}, nil
}

func (demoAdapter) Delete(ctx context.Context, platformPostID string) (bool, error) {
	return true, nil
}

func (demoAdapter) FetchEngagement(ctx context.Context, platformPostID string) (*Engagement, error) {
	return &Engagement{}, nil
}

func (demoAdapter) VerifyCredentials(ctx context.Context, creds models.Credentials) (bool, error) {
	return true, nil
}
