package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/platform"
	"github.com/maheshrc27/postflow/internal/repository"
	"github.com/maheshrc27/postflow/internal/transfer"
	"github.com/maheshrc27/postflow/pkg/utils"
)

type AccountService interface {
	Create(ctx context.Context, ac *transfer.AccountCreation) (*models.Account, error)
	Get(ctx context.Context, id string) (*models.Account, error)
	List(ctx context.Context, filter models.AccountFilter) ([]*models.Account, error)
	Update(ctx context.Context, id string, au *transfer.AccountUpdate) (*models.Account, error)
	Remove(ctx context.Context, id string) error
	Verify(ctx context.Context, id string) (*transfer.AccountVerification, error)
}

type accountService struct {
	ar       repository.AccountRepository
	er       repository.EntityRepository
	vault    *utils.Vault
	registry *platform.Registry
}

func NewAccountService(
	ar repository.AccountRepository,
	er repository.EntityRepository,
	vault *utils.Vault,
	registry *platform.Registry) AccountService {
	return &accountService{
		ar:       ar,
		er:       er,
		vault:    vault,
		registry: registry,
	}
}

func (s *accountService) Create(ctx context.Context, ac *transfer.AccountCreation) (*models.Account, error) {
	if ac == nil {
		return nil, invalid("account data is nil")
	}
	if !s.registry.Has(ac.Platform) {
		return nil, invalid("unsupported platform %q", ac.Platform)
	}

	entity, err := s.er.GetByID(ctx, ac.EntityID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, invalid("entity %q does not exist", ac.EntityID)
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}
	account := &models.Account{
		ID:             id,
		EntityID:       ac.EntityID,
		Platform:       ac.Platform,
		PlatformUserID: ac.PlatformUserID,
		Handle:         ac.Handle,
		Status:         models.AccountStatusActive,
		Metadata:       ac.Metadata,
	}
	if len(ac.Credentials) > 0 {
		account.Credentials, err = s.vault.EncryptCredentials(ac.Credentials)
		if err != nil {
			return nil, err
		}
	}

	if _, err := s.ar.Create(ctx, nil, account); err != nil {
		return nil, fmt.Errorf("error creating account: %w", err)
	}
	return account, nil
}

func (s *accountService) Get(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.ar.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	return account, nil
}

func (s *accountService) List(ctx context.Context, filter models.AccountFilter) ([]*models.Account, error) {
	filter.Limit, filter.Offset = clampLimit(filter.Limit, filter.Offset)
	return s.ar.List(ctx, filter)
}

func (s *accountService) Update(ctx context.Context, id string, au *transfer.AccountUpdate) (*models.Account, error) {
	if au == nil {
		return nil, invalid("account update is nil")
	}
	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if au.PlatformUserID != nil {
		account.PlatformUserID = au.PlatformUserID
	}
	if au.Handle != nil {
		account.Handle = au.Handle
	}
	if au.Status != nil {
		switch *au.Status {
		case models.AccountStatusActive, models.AccountStatusExpired, models.AccountStatusRevoked, models.AccountStatusError:
			account.Status = *au.Status
		default:
			return nil, invalid("unknown account status %q", *au.Status)
		}
	}
	if au.Metadata != nil {
		account.Metadata = au.Metadata
	}
	if au.Credentials != nil {
		account.Credentials, err = s.vault.EncryptCredentials(au.Credentials)
		if err != nil {
			return nil, err
		}
	}

	if err := s.ar.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("error updating account: %w", err)
	}
	return account, nil
}

func (s *accountService) Remove(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.ar.Remove(ctx, id)
}

// Verify asks the platform whether the stored credentials still work. Problems
// with the credentials are reported in the result; only lookup failures are
// returned as errors.
func (s *accountService) Verify(ctx context.Context, id string) (*transfer.AccountVerification, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !account.HasCredentials() {
		return &transfer.AccountVerification{Status: "error", Message: "No credentials stored for this account"}, nil
	}

	creds, err := s.vault.DecryptCredentials(account.Credentials)
	if err != nil {
		return &transfer.AccountVerification{Status: "error", Message: err.Error()}, nil
	}

	adapter, err := s.registry.Resolve(account.Platform, creds)
	if err != nil {
		return &transfer.AccountVerification{Status: "error", Message: err.Error()}, nil
	}

	valid, err := adapter.VerifyCredentials(ctx, creds)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		slog.Error("credential verification error", "account_id", id, "error", err)
		return &transfer.AccountVerification{Status: "error", Message: fmt.Sprintf("Verification failed: %v", err)}, nil
	}
	if !valid {
		return &transfer.AccountVerification{Status: "error", Message: account.Platform + " credential verification failed"}, nil
	}
	return &transfer.AccountVerification{Status: "ok", Message: account.Platform + " credentials verified"}, nil
}
