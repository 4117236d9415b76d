package models

import (
	"encoding/json"
	"time"
)

type Post struct {
	ID              string          `db:"id" json:"id"`
	EntityID        string          `db:"entity_id" json:"entity_id"`
	AccountID       *string         `db:"account_id" json:"account_id"`
	Platform        string          `db:"platform" json:"platform"`
	Content         string          `db:"content" json:"content"`
	MediaURLs       []string        `db:"media_urls" json:"media_urls"`
	Status          string          `db:"status" json:"status"` // queued, scheduled, posting, posted, failed
	ScheduledFor    *time.Time      `db:"scheduled_for" json:"scheduled_for"`
	RetryCount      int             `db:"retry_count" json:"retry_count"`
	NextRetryAt     *time.Time      `db:"next_retry_at" json:"next_retry_at"`
	PlatformPostID  *string         `db:"platform_post_id" json:"platform_post_id"`
	PlatformPostURL *string         `db:"platform_post_url" json:"platform_post_url"`
	PostedAt        *time.Time      `db:"posted_at" json:"posted_at"`
	Error           *string         `db:"error" json:"error"`
	Engagement      json.RawMessage `db:"engagement" json:"engagement,omitempty"`
	Source          *string         `db:"source" json:"source"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

const (
	PostStatusQueued    = "queued"
	PostStatusScheduled = "scheduled"
	PostStatusPosting   = "posting"
	PostStatusPosted    = "posted"
	PostStatusFailed    = "failed"
)

// Cancellable reports whether the post has not been picked up by a worker yet.
func (p *Post) Cancellable() bool {
	return p.Status == PostStatusQueued || p.Status == PostStatusScheduled
}

// PostFilter narrows a post listing. Zero values are ignored.
type PostFilter struct {
	EntityID  string
	AccountID string
	Platform  string
	Status    string
	Limit     int
	Offset    int
}
