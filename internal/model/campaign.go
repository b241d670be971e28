// internal/model/campaign.go
package model

import "time"

// Campaign-definition statuses, distinct from the engine run state.
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusPaused    = "paused"
	CampaignStatusCompleted = "completed"
	CampaignStatusArchived  = "archived"
)

type Campaign struct {
	ID              string     `db:"id" json:"id"`
	Name            string     `db:"name" json:"name"`
	Status          string     `db:"status" json:"status"`
	SubjectTemplate string     `db:"subject_template" json:"subject_template"`
	DailyLimit      int        `db:"daily_limit" json:"daily_limit"`
	MinIntervalSecs int        `db:"min_interval_seconds" json:"min_interval_seconds"`
	MaxIntervalSecs int        `db:"max_interval_seconds" json:"max_interval_seconds"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
