package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maheshrc27/postflow/internal/models"
)

type AccountRepository interface {
	Create(ctx context.Context, tx *sql.Tx, account *models.Account) (string, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	List(ctx context.Context, filter models.AccountFilter) ([]*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	Remove(ctx context.Context, id string) error
}

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `id, entity_id, platform, platform_user_id, handle, credentials, status, metadata, created_at, updated_at`

func scanAccount(row rowScanner) (*models.Account, error) {
	var account models.Account
	var credentials, metadata []byte
	err := row.Scan(&account.ID, &account.EntityID, &account.Platform, &account.PlatformUserID,
		&account.Handle, &credentials, &account.Status, &metadata, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, err
	}
	account.Credentials = credentials
	account.Metadata = metadata
	return &account, nil
}

// nullJSON keeps empty raw JSON out of jsonb columns.
func nullJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func (r *accountRepository) Create(ctx context.Context, tx *sql.Tx, account *models.Account) (string, error) {
	query := `
		INSERT INTO accounts (id, entity_id, platform, platform_user_id, handle, credentials, status, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	args := []any{account.ID, account.EntityID, account.Platform, account.PlatformUserID, account.Handle,
		nullJSON(account.Credentials), account.Status, nullJSON(account.Metadata)}

	var err error
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, args...).Scan(&account.CreatedAt, &account.UpdatedAt)
	} else {
		err = r.db.QueryRowContext(ctx, query, args...).Scan(&account.CreatedAt, &account.UpdatedAt)
	}
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return account.ID, nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return account, nil
}

func (r *accountRepository) List(ctx context.Context, filter models.AccountFilter) ([]*models.Account, error) {
	var conds []string
	var args []any

	if filter.EntityID != "" {
		args = append(args, filter.EntityID)
		conds = append(conds, fmt.Sprintf("entity_id = $%d", len(args)))
	}
	if filter.Platform != "" {
		args = append(args, filter.Platform)
		conds = append(conds, fmt.Sprintf("platform = $%d", len(args)))
	}

	query := `SELECT ` + accountColumns + ` FROM accounts`
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

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *accountRepository) Update(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET platform_user_id = $2,
			handle = $3,
			credentials = $4,
			status = $5,
			metadata = $6,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query, account.ID, account.PlatformUserID, account.Handle,
		nullJSON(account.Credentials), account.Status, nullJSON(account.Metadata)).Scan(&account.UpdatedAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *accountRepository) Remove(ctx context.Context, id string) error {
	query := `DELETE FROM accounts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
