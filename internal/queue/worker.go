package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/platform"
)

const errNoCredentials = "no account or credentials linked to post"

// PublishPost runs one publish attempt for a claimed post. Publish failures
// are recorded on the post through the retry policy; only store faults are
// returned.
func (q *Queue) PublishPost(ctx context.Context, postID string) error {
	post, err := q.pr.GetByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("load post %s: %w", postID, err)
	}
	if post == nil {
		slog.Warn("post not found, skipping", "post_id", postID)
		return nil
	}

	var account *models.Account
	if post.AccountID != nil {
		account, err = q.ac.GetByID(ctx, *post.AccountID)
		if err != nil {
			return fmt.Errorf("load account for post %s: %w", postID, err)
		}
	}
	if account == nil || !account.HasCredentials() {
		return q.fail(ctx, post, errNoCredentials)
	}

	result, err := q.publish(ctx, post, account)
	if err != nil {
		slog.Error("failed to publish post", "post_id", post.ID, "platform", post.Platform, "error", err)
		return q.fail(ctx, post, err.Error())
	}

	now := q.now()
	post.Status = models.PostStatusPosted
	post.PlatformPostID = &result.PlatformPostID
	post.PlatformPostURL = nil
	if result.PlatformPostURL != "" {
		post.PlatformPostURL = &result.PlatformPostURL
	}
	post.PostedAt = &now
	post.Error = nil
	post.NextRetryAt = nil
	post.UpdatedAt = now

	if err := q.pr.SaveOutcome(ctx, post); err != nil {
		return fmt.Errorf("save posted state for %s: %w", post.ID, err)
	}
	slog.Info("post published", "post_id", post.ID, "platform", post.Platform, "url", result.PlatformPostURL)
	return nil
}

func (q *Queue) publish(ctx context.Context, post *models.Post, account *models.Account) (*platform.PostResult, error) {
	creds, err := q.vault.DecryptCredentials(account.Credentials)
	if err != nil {
		return nil, err
	}

	adapter, err := q.registry.Resolve(post.Platform, creds)
	if err != nil {
		return nil, err
	}

	result, err := adapter.Publish(ctx, post.Content, post.MediaURLs)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("%s adapter returned no result", post.Platform)
	}
	return result, nil
}

func (q *Queue) fail(ctx context.Context, post *models.Post, reason string) error {
	d := q.retry.Apply(post, reason, q.now())
	if d.Permanent() {
		slog.Warn("post permanently failed", "post_id", post.ID, "retries", d.RetryCount, "error", reason)
	} else {
		slog.Info("post retry scheduled", "post_id", post.ID, "retry", d.RetryCount, "next_retry_at", *d.NextRetryAt)
	}

	if err := q.pr.SaveOutcome(ctx, post); err != nil {
		return fmt.Errorf("save failed state for %s: %w", post.ID, err)
	}
	return nil
}
