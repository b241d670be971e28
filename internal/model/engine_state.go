// internal/model/engine_state.go
package model

import "time"

// Engine run states. Invariant: status == paused <=> PausedAt non-nil.
const (
	EngineStatusRunning = "running"
	EngineStatusPaused  = "paused"
)

// CampaignEngineState is the live run-state row for a campaign, mutated
// exclusively by the engine service's conditional updates.
type CampaignEngineState struct {
	CampaignID string     `db:"campaign_id" json:"campaign_id"`
	Status     string     `db:"status" json:"status"`
	PausedAt   *time.Time `db:"paused_at" json:"paused_at,omitempty"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}
