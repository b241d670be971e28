// internal/model/logs.go
package model

import "time"

// JobLog and SystemEventLog are append-only audit entries. The engine
// only ever writes them; the observability UI reads them.

type JobLog struct {
	ID         int64     `db:"id" json:"id"`
	JobID      int64     `db:"job_id" json:"job_id"`
	LogMessage string    `db:"log_message" json:"log_message"`
	Details    string    `db:"details" json:"details"` // JSON blob
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type SystemEventLog struct {
	ID         int64     `db:"id" json:"id"`
	EventType  string    `db:"event_type" json:"event_type"`
	Message    string    `db:"message" json:"message"`
	Details    string    `db:"details" json:"details"` // JSON blob
	CampaignID *string   `db:"campaign_id" json:"campaign_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
