package transfer

import (
	"encoding/json"

	"github.com/maheshrc27/postflow/internal/models"
)

type AccountCreation struct {
	EntityID       string             `json:"entity_id"`
	Platform       string             `json:"platform"`
	PlatformUserID *string            `json:"platform_user_id"`
	Handle         *string            `json:"handle"`
	Credentials    models.Credentials `json:"credentials"`
	Metadata       json.RawMessage    `json:"metadata"`
}

// AccountUpdate carries only the fields that were sent; nil means unchanged.
type AccountUpdate struct {
	PlatformUserID *string            `json:"platform_user_id"`
	Handle         *string            `json:"handle"`
	Credentials    models.Credentials `json:"credentials"`
	Status         *string            `json:"status"`
	Metadata       json.RawMessage    `json:"metadata"`
}

type AccountVerification struct {
	Status  string `json:"status"` // ok, error
	Message string `json:"message"`
}
