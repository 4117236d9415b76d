// Package platform holds the publishing contract every social platform
// integration satisfies and the registry the worker resolves them through.
package platform

import (
	"context"
	"encoding/json"

	"github.com/maheshrc27/postflow/internal/models"
)

const (
	Twitter = "twitter"
	Bluesky = "bluesky"
	Demo    = "demo"
)

type PostResult struct {
	PlatformPostID  string          `json:"platform_post_id"`
	PlatformPostURL string          `json:"platform_post_url,omitempty"`
	RawResponse     json.RawMessage `json:"raw_response,omitempty"`
}

type Engagement struct {
	Likes   int            `json:"likes"`
	Reposts int            `json:"reposts"`
	Replies int            `json:"replies"`
	Views   int            `json:"views"`
	Extra   map[string]int `json:"extra,omitempty"`
}

// Adapter is the capability surface of one platform bound to one set of
// credentials. FetchEngagement is not used by the publish loop.
type Adapter interface {
	Publish(ctx context.Context, content string, mediaURLs []string) (*PostResult, error)
	Delete(ctx context.Context, platformPostID string) (bool, error)
	FetchEngagement(ctx context.Context, platformPostID string) (*Engagement, error)
	VerifyCredentials(ctx context.Context, creds models.Credentials) (bool, error)
}

// Factory builds an adapter from decrypted credentials.
type Factory func(creds models.Credentials) (Adapter, error)
