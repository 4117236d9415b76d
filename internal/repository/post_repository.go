package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/maheshrc27/postflow/internal/models"
)

type PostRepository interface {
	Create(ctx context.Context, tx *sql.Tx, post *models.Post) (string, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, filter models.PostFilter) ([]*models.Post, error)
	Claim(ctx context.Context, batchSize, maxRetries int, now time.Time) ([]*models.Post, error)
	SaveOutcome(ctx context.Context, post *models.Post) error
	RemoveCancellable(ctx context.Context, id string) (bool, error)
	ListStalePosting(ctx context.Context, before time.Time) ([]*models.Post, error)
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, entity_id, account_id, platform, content, media_urls, status, scheduled_for,
	retry_count, next_retry_at, platform_post_id, platform_post_url, posted_at, error, engagement,
	source, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var post models.Post
	var engagement []byte
	err := row.Scan(&post.ID, &post.EntityID, &post.AccountID, &post.Platform, &post.Content,
		pq.Array(&post.MediaURLs), &post.Status, &post.ScheduledFor, &post.RetryCount, &post.NextRetryAt,
		&post.PlatformPostID, &post.PlatformPostURL, &post.PostedAt, &post.Error, &engagement,
		&post.Source, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	post.Engagement = engagement
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (string, error) {
	query := `
		INSERT INTO posts (id, entity_id, account_id, platform, content, media_urls, status, scheduled_for, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	args := []any{post.ID, post.EntityID, post.AccountID, post.Platform, post.Content,
		pq.Array(post.MediaURLs), post.Status, post.ScheduledFor, post.Source}

	var err error
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, args...).Scan(&post.CreatedAt, &post.UpdatedAt)
	} else {
		err = r.db.QueryRowContext(ctx, query, args...).Scan(&post.CreatedAt, &post.UpdatedAt)
	}
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return post.ID, nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return post, nil
}

func (r *postRepository) List(ctx context.Context, filter models.PostFilter) ([]*models.Post, error) {
	var conds []string
	var args []any

	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("entity_id", filter.EntityID)
	add("account_id", filter.AccountID)
	add("platform", filter.Platform)
	add("status", filter.Status)

	query := `SELECT ` + postColumns + ` FROM posts`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// Claim selects up to batchSize due posts in creation order and marks them as
// posting inside one transaction. Rows locked by a concurrent claim are skipped,
// so two workers never receive the same post.
func (r *postRepository) Claim(ctx context.Context, batchSize, maxRetries int, now time.Time) ([]*models.Post, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer tx.Rollback()

	selectQuery := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE status = 'queued'
		   OR (status = 'scheduled' AND scheduled_for <= $1)
		   OR (status = 'failed' AND retry_count < $2 AND next_retry_at <= $1)
		ORDER BY created_at
		LIMIT $3
		FOR UPDATE SKIP LOCKED
	`
	rows, err := tx.QueryContext(ctx, selectQuery, now, maxRetries, batchSize)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	var posts []*models.Post
	var ids []string
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			rows.Close()
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
		ids = append(ids, post.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	if len(posts) == 0 {
		return nil, tx.Commit()
	}

	updateQuery := `UPDATE posts SET status = $1, next_retry_at = NULL, updated_at = $2 WHERE id = ANY($3)`
	if _, err := tx.ExecContext(ctx, updateQuery, models.PostStatusPosting, now, pq.Array(ids)); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	for _, post := range posts {
		post.Status = models.PostStatusPosting
		post.NextRetryAt = nil
		post.UpdatedAt = now
	}
	return posts, nil
}

func (r *postRepository) SaveOutcome(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts
		SET status = $2,
			retry_count = $3,
			next_retry_at = $4,
			platform_post_id = $5,
			platform_post_url = $6,
			posted_at = $7,
			error = $8,
			updated_at = $9
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, post.ID, post.Status, post.RetryCount, post.NextRetryAt,
		post.PlatformPostID, post.PlatformPostURL, post.PostedAt, post.Error, post.UpdatedAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// RemoveCancellable deletes the post only while it is still queued or scheduled.
// It reports false when the row is missing or has already been claimed.
func (r *postRepository) RemoveCancellable(ctx context.Context, id string) (bool, error) {
	query := `DELETE FROM posts WHERE id = $1 AND status IN ('queued', 'scheduled')`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected == 1, nil
}

func (r *postRepository) ListStalePosting(ctx context.Context, before time.Time) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE status = 'posting' AND updated_at < $1 ORDER BY updated_at`
	rows, err := r.db.QueryContext(ctx, query, before)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}
