package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/platform"
	"github.com/maheshrc27/postflow/internal/repository"
	"github.com/maheshrc27/postflow/internal/transfer"
)

type PostService interface {
	CreatePost(ctx context.Context, pc *transfer.PostCreation) (*models.Post, error)
	PostInfo(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, filter models.PostFilter) ([]*models.Post, error)
	Cancel(ctx context.Context, id string) (*models.Post, error)
}

type postService struct {
	pr       repository.PostRepository
	ar       repository.AccountRepository
	er       repository.EntityRepository
	registry *platform.Registry
}

func NewPostService(
	pr repository.PostRepository,
	ar repository.AccountRepository,
	er repository.EntityRepository,
	registry *platform.Registry) PostService {
	return &postService{
		pr:       pr,
		ar:       ar,
		er:       er,
		registry: registry,
	}
}

// CreatePost queues a post, or schedules it when ScheduledFor is set. The
// worker picks it up from there.
func (s *postService) CreatePost(ctx context.Context, pc *transfer.PostCreation) (*models.Post, error) {
	if pc == nil {
		return nil, invalid("post creation data is nil")
	}
	if strings.TrimSpace(pc.Content) == "" {
		return nil, invalid("content cannot be empty")
	}
	if !s.registry.Has(pc.Platform) {
		return nil, invalid("unsupported platform %q", pc.Platform)
	}

	entity, err := s.er.GetByID(ctx, pc.EntityID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, invalid("entity %q does not exist", pc.EntityID)
	}

	if pc.AccountID != nil {
		account, err := s.ar.GetByID(ctx, *pc.AccountID)
		if err != nil {
			return nil, err
		}
		if account == nil || account.EntityID != pc.EntityID {
			return nil, invalid("account %q does not belong to entity %q", *pc.AccountID, pc.EntityID)
		}
		if account.Platform != pc.Platform {
			return nil, invalid("account %q is a %s account, not %s", *pc.AccountID, account.Platform, pc.Platform)
		}
	}

	status := models.PostStatusQueued
	if pc.ScheduledFor != nil {
		status = models.PostStatusScheduled
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}
	post := &models.Post{
		ID:           id,
		EntityID:     pc.EntityID,
		AccountID:    pc.AccountID,
		Platform:     pc.Platform,
		Content:      pc.Content,
		MediaURLs:    pc.MediaURLs,
		Status:       status,
		ScheduledFor: pc.ScheduledFor,
		Source:       pc.Source,
	}
	if _, err := s.pr.Create(ctx, nil, post); err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	slog.Info("post created", "post_id", post.ID, "platform", post.Platform, "status", post.Status)
	return post, nil
}

func (s *postService) PostInfo(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.pr.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	return post, nil
}

func (s *postService) List(ctx context.Context, filter models.PostFilter) ([]*models.Post, error) {
	filter.Limit, filter.Offset = clampLimit(filter.Limit, filter.Offset)
	return s.pr.List(ctx, filter)
}

// Cancel deletes a post that no worker has claimed yet.
func (s *postService) Cancel(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.PostInfo(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.Cancellable() {
		return nil, fmt.Errorf("%w: status %s", ErrNotCancellable, post.Status)
	}

	removed, err := s.pr.RemoveCancellable(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error removing post: %w", err)
	}
	if !removed {
		// claimed between the read and the delete
		return nil, fmt.Errorf("%w: claimed by a worker", ErrNotCancellable)
	}

	slog.Info("post cancelled", "post_id", id)
	return post, nil
}
