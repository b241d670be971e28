// internal/repository/engine_state_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"

	appErrors "github.com/truesoul/offerengine-backend/internal/errors"
	"github.com/truesoul/offerengine-backend/internal/model"
)

type EngineStateRepositoryInterface interface {
	Pause(ctx context.Context, campaignID string) (*model.CampaignEngineState, error)
	Resume(ctx context.Context, campaignID string) (*model.CampaignEngineState, error)
	AdjustScheduleOnResume(ctx context.Context, campaignID string) (string, error)
	Ensure(ctx context.Context, campaignID string) error
	Get(ctx context.Context, campaignID string) (*model.CampaignEngineState, error)
}

type EngineStateRepository struct {
	DB *sql.DB
}

// Pause flips a running campaign to paused. The status guard in the
// WHERE clause is the optimistic lock: zero rows matched means the
// campaign was not running, which callers report as not-found.
func (r *EngineStateRepository) Pause(ctx context.Context, campaignID string) (*model.CampaignEngineState, error) {
	query := `
        UPDATE campaign_engine_state
        SET status='paused', paused_at=NOW(), updated_at=NOW()
        WHERE campaign_id=$1 AND status='running'
        RETURNING campaign_id, status, paused_at, updated_at
    `
	st := &model.CampaignEngineState{}
	err := r.DB.QueryRowContext(ctx, query, campaignID).Scan(
		&st.CampaignID, &st.Status, &st.PausedAt, &st.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrCampaignNotRunning
		}
		return nil, fmt.Errorf("pause campaign %s: %w", campaignID, err)
	}
	return st, nil
}

// Resume flips a paused campaign back to running and clears paused_at.
// Safe to call twice: the second call misses the guard and reports
// not-paused.
func (r *EngineStateRepository) Resume(ctx context.Context, campaignID string) (*model.CampaignEngineState, error) {
	query := `
        UPDATE campaign_engine_state
        SET status='running', paused_at=NULL, updated_at=NOW()
        WHERE campaign_id=$1 AND status='paused'
        RETURNING campaign_id, status, paused_at, updated_at
    `
	st := &model.CampaignEngineState{}
	err := r.DB.QueryRowContext(ctx, query, campaignID).Scan(
		&st.CampaignID, &st.Status, &st.PausedAt, &st.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrCampaignNotPaused
		}
		return nil, fmt.Errorf("resume campaign %s: %w", campaignID, err)
	}
	return st, nil
}

// AdjustScheduleOnResume invokes the database-side schedule repair. The
// procedure shifts every pending job's next_processing_time forward by
// the elapsed paused duration; it is idempotent and only touches pending
// jobs of this campaign.
func (r *EngineStateRepository) AdjustScheduleOnResume(ctx context.Context, campaignID string) (string, error) {
	var result string
	err := r.DB.QueryRowContext(ctx,
		`SELECT adjust_schedule_on_resume($1)`, campaignID,
	).Scan(&result)
	if err != nil {
		return "", fmt.Errorf("adjust_schedule_on_resume for campaign %s: %w", campaignID, err)
	}
	return result, nil
}

// Ensure creates the engine-state row in the running state if the
// campaign does not have one yet.
func (r *EngineStateRepository) Ensure(ctx context.Context, campaignID string) error {
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO campaign_engine_state (campaign_id, status, updated_at)
        VALUES ($1, 'running', NOW())
        ON CONFLICT (campaign_id) DO NOTHING
    `, campaignID)
	if err != nil {
		return fmt.Errorf("ensure engine state for campaign %s: %w", campaignID, err)
	}
	return nil
}

func (r *EngineStateRepository) Get(ctx context.Context, campaignID string) (*model.CampaignEngineState, error) {
	st := &model.CampaignEngineState{}
	err := r.DB.QueryRowContext(ctx, `
        SELECT campaign_id, status, paused_at, updated_at
        FROM campaign_engine_state WHERE campaign_id=$1
    `, campaignID).Scan(&st.CampaignID, &st.Status, &st.PausedAt, &st.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return st, nil
}

var _ EngineStateRepositoryInterface = (*EngineStateRepository)(nil)
