package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/repository"
	"github.com/maheshrc27/postflow/internal/transfer"
)

type EntityService interface {
	Create(ctx context.Context, ec *transfer.EntityCreation) (*models.Entity, error)
	Get(ctx context.Context, id string) (*models.Entity, error)
	List(ctx context.Context, limit, offset int) ([]*models.Entity, error)
	Remove(ctx context.Context, id string) error
}

type entityService struct {
	er repository.EntityRepository
}

func NewEntityService(er repository.EntityRepository) EntityService {
	return &entityService{er: er}
}

func (s *entityService) Create(ctx context.Context, ec *transfer.EntityCreation) (*models.Entity, error) {
	if ec == nil {
		return nil, invalid("entity data is nil")
	}
	slug := strings.TrimSpace(ec.Slug)
	if slug == "" {
		return nil, invalid("slug cannot be empty")
	}
	if strings.TrimSpace(ec.Name) == "" {
		return nil, invalid("name cannot be empty")
	}
	if !models.ValidEntityType(ec.Type) {
		return nil, invalid("unknown entity type %q", ec.Type)
	}

	taken, err := s.er.CheckBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: slug %q already exists", ErrConflict, slug)
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}
	entity := &models.Entity{
		ID:       id,
		Slug:     slug,
		Type:     ec.Type,
		Name:     ec.Name,
		Metadata: ec.Metadata,
	}
	if _, err := s.er.Create(ctx, entity); err != nil {
		return nil, fmt.Errorf("error creating entity: %w", err)
	}
	return entity, nil
}

func (s *entityService) Get(ctx context.Context, id string) (*models.Entity, error) {
	entity, err := s.er.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, fmt.Errorf("entity %s: %w", id, ErrNotFound)
	}
	return entity, nil
}

func (s *entityService) List(ctx context.Context, limit, offset int) ([]*models.Entity, error) {
	limit, offset = clampLimit(limit, offset)
	return s.er.List(ctx, limit, offset)
}

func (s *entityService) Remove(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.er.SoftDelete(ctx, id)
}
