package models

import (
	"encoding/json"
	"time"
)

// Credentials is the decrypted credential map handed to platform adapters.
type Credentials map[string]string

type Account struct {
	ID             string          `db:"id" json:"id"`
	EntityID       string          `db:"entity_id" json:"entity_id"`
	Platform       string          `db:"platform" json:"platform"`
	PlatformUserID *string         `db:"platform_user_id" json:"platform_user_id"`
	Handle         *string         `db:"handle" json:"handle"`
	Credentials    json.RawMessage `db:"credentials" json:"-"`
	Status         string          `db:"status" json:"status"`
	Metadata       json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// HasCredentials reports whether a non-empty credential blob is stored.
func (a *Account) HasCredentials() bool {
	s := string(a.Credentials)
	return s != "" && s != "null" && s != "{}"
}

const (
	AccountStatusActive  = "active"
	AccountStatusExpired = "expired"
	AccountStatusRevoked = "revoked"
	AccountStatusError   = "error"
)

type AccountFilter struct {
	EntityID string
	Platform string
	Limit    int
	Offset   int
}
