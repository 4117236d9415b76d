package transfer

import "encoding/json"

type EntityCreation struct {
	Slug     string          `json:"slug"`
	Type     string          `json:"type"`
	Name     string          `json:"name"`
	Metadata json.RawMessage `json:"metadata"`
}
