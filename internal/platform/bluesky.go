package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/maheshrc27/postflow/internal/models"
	"golang.org/x/time/rate"
)

const (
	BlueskyPDS       = "https://bsky.social"
	blueskyPostNSID  = "app.bsky.feed.post"
	blueskyWebPrefix = "https://bsky.app/profile/"
)

type blueskySession struct {
	AccessJwt string `json:"accessJwt"`
	DID       string `json:"did"`
	Handle    string `json:"handle"`
}

type blueskyAdapter struct {
	baseURL     string
	handle      string
	appPassword string
	client      *http.Client
	limiter     *rate.Limiter
	session     *blueskySession
}

// NewBlueskyFactory returns a factory for AT protocol accounts logging in
// with a handle and an app password.
func NewBlueskyFactory(baseURL string, limiter *rate.Limiter) Factory {
	if baseURL == "" {
		baseURL = BlueskyPDS
	}
	return func(creds models.Credentials) (Adapter, error) {
		handle, password := creds["handle"], creds["app_password"]
		if handle == "" || password == "" {
			return nil, errors.New("bluesky credentials require handle and app_password")
		}
		return &blueskyAdapter{
			baseURL:     strings.TrimRight(baseURL, "/"),
			handle:      handle,
			appPassword: password,
			client:      &http.Client{Timeout: requestTimeout},
			limiter:     limiter,
		}, nil
	}
}

func (b *blueskyAdapter) xrpc(method string) string {
	return b.baseURL + "/xrpc/" + method
}

func (b *blueskyAdapter) login(ctx context.Context, handle, password string) (*blueskySession, error) {
	var session blueskySession
	body := map[string]string{"identifier": handle, "password": password}
	if _, err := doJSON(ctx, b.client, b.limiter, http.MethodPost, b.xrpc("com.atproto.server.createSession"), "", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (b *blueskyAdapter) ensureSession(ctx context.Context) (*blueskySession, error) {
	if b.session != nil {
		return b.session, nil
	}
	session, err := b.login(ctx, b.handle, b.appPassword)
	if err != nil {
		return nil, fmt.Errorf("bluesky login failed: %w", err)
	}
	b.session = session
	return session, nil
}

// splitPostURI breaks at://<did>/app.bsky.feed.post/<rkey> into did and rkey.
func splitPostURI(uri string) (string, string, error) {
	parts := strings.Split(uri, "/")
	if len(parts) < 5 || parts[0] != "at:" {
		return "", "", fmt.Errorf("malformed post uri %q", uri)
	}
	return parts[2], parts[len(parts)-1], nil
}

func (b *blueskyAdapter) Publish(ctx context.Context, content string, mediaURLs []string) (*PostResult, error) {
	session, err := b.ensureSession(ctx)
	if err != nil {
		return nil, err
	}

	record := map[string]any{
		"$type":     blueskyPostNSID,
		"text":      content,
		"createdAt": time.Now().UTC().Format(time.RFC3339),
	}
	if len(mediaURLs) > 0 {
		record["embed"] = map[string]any{
			"$type": "app.bsky.embed.external",
			"external": map[string]string{
				"uri":         mediaURLs[0],
				"title":       "",
				"description": "",
			},
		}
	}

	var resp struct {
		URI string `json:"uri"`
		CID string `json:"cid"`
	}
	body := map[string]any{"repo": session.DID, "collection": blueskyPostNSID, "record": record}
	raw, err := doJSON(ctx, b.client, b.limiter, http.MethodPost, b.xrpc("com.atproto.repo.createRecord"), session.AccessJwt, body, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to create bluesky post: %w", err)
	}

	did, rkey, err := splitPostURI(resp.URI)
	if err != nil {
		return nil, err
	}

	return &PostResult{
		PlatformPostID:  resp.URI,
		PlatformPostURL: blueskyWebPrefix + did + "/post/" + rkey,
		RawResponse:     raw,
	}, nil
}

func (b *blueskyAdapter) Delete(ctx context.Context, platformPostID string) (bool, error) {
	session, err := b.ensureSession(ctx)
	if err != nil {
		return false, err
	}
	did, rkey, err := splitPostURI(platformPostID)
	if err != nil {
		return false, err
	}

	body := map[string]string{"repo": did, "collection": blueskyPostNSID, "rkey": rkey}
	if _, err := doJSON(ctx, b.client, b.limiter, http.MethodPost, b.xrpc("com.atproto.repo.deleteRecord"), session.AccessJwt, body, nil); err != nil {
		return false, fmt.Errorf("failed to delete bluesky post: %w", err)
	}
	return true, nil
}

func (b *blueskyAdapter) FetchEngagement(ctx context.Context, platformPostID string) (*Engagement, error) {
	session, err := b.ensureSession(ctx)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Thread struct {
			Post struct {
				LikeCount   int `json:"likeCount"`
				RepostCount int `json:"repostCount"`
				ReplyCount  int `json:"replyCount"`
			} `json:"post"`
		} `json:"thread"`
	}
	endpoint := b.xrpc("app.bsky.feed.getPostThread") + "?uri=" + url.QueryEscape(platformPostID)
	if _, err := doJSON(ctx, b.client, b.limiter, http.MethodGet, endpoint, session.AccessJwt, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch bluesky thread: %w", err)
	}

	p := resp.Thread.Post
	return &Engagement{Likes: p.LikeCount, Reposts: p.RepostCount, Replies: p.ReplyCount}, nil
}

func (b *blueskyAdapter) VerifyCredentials(ctx context.Context, creds models.Credentials) (bool, error) {
	handle, password := creds["handle"], creds["app_password"]
	if handle == "" {
		handle = b.handle
	}
	if password == "" {
		password = b.appPassword
	}

	if _, err := b.login(ctx, handle, password); err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
