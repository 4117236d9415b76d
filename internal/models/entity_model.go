package models

import (
	"encoding/json"
	"time"
)

type Entity struct {
	ID        string          `db:"id" json:"id"`
	Slug      string          `db:"slug" json:"slug"`
	Type      string          `db:"type" json:"type"`
	Name      string          `db:"name" json:"name"`
	Metadata  json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time      `db:"deleted_at" json:"-"`
}

const (
	EntityTypeAgent   = "agent"
	EntityTypeProject = "project"
	EntityTypeUser    = "user"
)

func ValidEntityType(t string) bool {
	switch t {
	case EntityTypeAgent, EntityTypeProject, EntityTypeUser:
		return true
	}
	return false
}
