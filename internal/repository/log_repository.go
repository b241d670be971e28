// internal/repository/log_repository.go
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
)

type LogRepositoryInterface interface {
	AppendJobLog(ctx context.Context, jobID int64, message string, details map[string]any) error
	AppendSystemEvent(ctx context.Context, eventType, message string, campaignID string, details map[string]any) error
}

// LogRepository writes the append-only audit tables. These are
// write-only sinks: a log failure must never fail the operation being
// logged, so callers ignore the returned error after reporting it.
type LogRepository struct {
	DB *sql.DB
}

func (r *LogRepository) AppendJobLog(ctx context.Context, jobID int64, message string, details map[string]any) error {
	blob := marshalDetails(details)
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO job_logs (job_id, log_message, details, created_at)
        VALUES ($1, $2, $3, NOW())
    `, jobID, message, blob)
	return err
}

func (r *LogRepository) AppendSystemEvent(ctx context.Context, eventType, message string, campaignID string, details map[string]any) error {
	blob := marshalDetails(details)
	var cid any
	if campaignID != "" {
		cid = campaignID
	}
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO system_event_logs (event_type, message, details, campaign_id, created_at)
        VALUES ($1, $2, $3, $4, NOW())
    `, eventType, message, blob, cid)
	return err
}

func marshalDetails(details map[string]any) string {
	if details == nil {
		return "{}"
	}
	b, err := json.Marshal(details)
	if err != nil {
		return "{}"
	}
	return string(b)
}

var _ LogRepositoryInterface = (*LogRepository)(nil)
