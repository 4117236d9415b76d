package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/maheshrc27/postflow/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const TwitterAPI = "https://api.twitter.com/2"

type twitterAdapter struct {
	baseURL     string
	bearerToken string
	client      *http.Client
	limiter     *rate.Limiter
}

// NewTwitterFactory returns a factory whose adapters share limiter. An empty
// baseURL targets the public v2 API.
func NewTwitterFactory(baseURL string, limiter *rate.Limiter) Factory {
	if baseURL == "" {
		baseURL = TwitterAPI
	}
	return func(creds models.Credentials) (Adapter, error) {
		token := creds["bearer_token"]
		if token == "" {
			return nil, errors.New("twitter credentials missing bearer_token")
		}
		return &twitterAdapter{
			baseURL:     baseURL,
			bearerToken: token,
			client:      bearerClient(token),
			limiter:     limiter,
		}, nil
	}
}

func bearerClient(token string) *http.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	client := oauth2.NewClient(context.Background(), ts)
	client.Timeout = requestTimeout
	return client
}

func (t *twitterAdapter) Publish(ctx context.Context, content string, mediaURLs []string) (*PostResult, error) {
	if len(mediaURLs) > 0 {
		slog.Warn("twitter adapter does not upload media, sending text only", "media", len(mediaURLs))
	}

	var resp struct {
		Data struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"data"`
	}
	payload := map[string]string{"text": content}
	raw, err := doJSON(ctx, t.client, t.limiter, http.MethodPost, t.baseURL+"/tweets", "", payload, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to create tweet: %w", err)
	}
	if resp.Data.ID == "" {
		return nil, errors.New("twitter response carried no tweet id")
	}

	return &PostResult{
		PlatformPostID:  resp.Data.ID,
		PlatformPostURL: "https://x.com/i/status/" + resp.Data.ID,
		RawResponse:     raw,
	}, nil
}

func (t *twitterAdapter) Delete(ctx context.Context, platformPostID string) (bool, error) {
	var resp struct {
		Data struct {
			Deleted bool `json:"deleted"`
		} `json:"data"`
	}
	endpoint := t.baseURL + "/tweets/" + url.PathEscape(platformPostID)
	if _, err := doJSON(ctx, t.client, t.limiter, http.MethodDelete, endpoint, "", nil, &resp); err != nil {
		return false, fmt.Errorf("failed to delete tweet: %w", err)
	}
	return resp.Data.Deleted, nil
}

func (t *twitterAdapter) FetchEngagement(ctx context.Context, platformPostID string) (*Engagement, error) {
	var resp struct {
		Data struct {
			PublicMetrics struct {
				LikeCount       int `json:"like_count"`
				RetweetCount    int `json:"retweet_count"`
				ReplyCount      int `json:"reply_count"`
				ImpressionCount int `json:"impression_count"`
				QuoteCount      int `json:"quote_count"`
			} `json:"public_metrics"`
		} `json:"data"`
	}
	endpoint := t.baseURL + "/tweets/" + url.PathEscape(platformPostID) + "?tweet.fields=public_metrics"
	if _, err := doJSON(ctx, t.client, t.limiter, http.MethodGet, endpoint, "", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch tweet metrics: %w", err)
	}

	m := resp.Data.PublicMetrics
	return &Engagement{
		Likes:   m.LikeCount,
		Reposts: m.RetweetCount,
		Replies: m.ReplyCount,
		Views:   m.ImpressionCount,
		Extra:   map[string]int{"quote_count": m.QuoteCount},
	}, nil
}

func (t *twitterAdapter) VerifyCredentials(ctx context.Context, creds models.Credentials) (bool, error) {
	client := t.client
	if token := creds["bearer_token"]; token != "" && token != t.bearerToken {
		client = bearerClient(token)
	}

	_, err := doJSON(ctx, client, t.limiter, http.MethodGet, t.baseURL+"/users/me", "", nil, nil)
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
