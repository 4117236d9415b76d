package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/postflow/internal/models"
)

type EntityRepository interface {
	Create(ctx context.Context, entity *models.Entity) (string, error)
	GetByID(ctx context.Context, id string) (*models.Entity, error)
	CheckBySlug(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*models.Entity, error)
	SoftDelete(ctx context.Context, id string) error
}

type entityRepository struct {
	db *sql.DB
}

func NewEntityRepository(db *sql.DB) EntityRepository {
	return &entityRepository{db: db}
}

const entityColumns = `id, slug, type, name, metadata, created_at, updated_at, deleted_at`

func scanEntity(row rowScanner) (*models.Entity, error) {
	var entity models.Entity
	var metadata []byte
	err := row.Scan(&entity.ID, &entity.Slug, &entity.Type, &entity.Name, &metadata,
		&entity.CreatedAt, &entity.UpdatedAt, &entity.DeletedAt)
	if err != nil {
		return nil, err
	}
	entity.Metadata = metadata
	return &entity, nil
}

func (r *entityRepository) Create(ctx context.Context, entity *models.Entity) (string, error) {
	query := `
		INSERT INTO entities (id, slug, type, name, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, entity.ID, entity.Slug, entity.Type, entity.Name,
		nullJSON(entity.Metadata)).Scan(&entity.CreatedAt, &entity.UpdatedAt)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	return entity.ID, nil
}

func (r *entityRepository) GetByID(ctx context.Context, id string) (*models.Entity, error) {
	query := `SELECT ` + entityColumns + ` FROM entities WHERE id = $1 AND deleted_at IS NULL`

	entity, err := scanEntity(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return entity, nil
}

func (r *entityRepository) CheckBySlug(ctx context.Context, slug string) (bool, error) {
	query := "SELECT 1 FROM entities WHERE slug = $1"

	var result int
	err := r.db.QueryRowContext(ctx, query, slug).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *entityRepository) List(ctx context.Context, limit, offset int) ([]*models.Entity, error) {
	query := `SELECT ` + entityColumns + ` FROM entities WHERE deleted_at IS NULL ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var entities []*models.Entity
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, rows.Err()
}

func (r *entityRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE entities SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
