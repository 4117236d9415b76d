package transfer

import "time"

type PostCreation struct {
	EntityID     string     `json:"entity_id"`
	AccountID    *string    `json:"account_id"`
	Platform     string     `json:"platform"`
	Content      string     `json:"content"`
	MediaURLs    []string   `json:"media_urls"`
	ScheduledFor *time.Time `json:"scheduled_for"`
	Source       *string    `json:"source"`
}
