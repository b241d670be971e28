// internal/repository/job_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	appErrors "github.com/truesoul/offerengine-backend/internal/errors"
	"github.com/truesoul/offerengine-backend/internal/model"
)

type JobRepositoryInterface interface {
	// Scheduler side
	FetchDue(ctx context.Context, limit int, horizon time.Duration) ([]*model.CampaignJob, error)
	MarkFailedPermanently(ctx context.Context, jobID int64) error

	// Dispatcher side
	GetByID(ctx context.Context, jobID int64) (*model.CampaignJob, error)
	GetJobBundle(ctx context.Context, jobID int64) (*model.JobBundle, error)
	ClaimProcessing(ctx context.Context, jobID int64) error
	MarkCompleted(ctx context.Context, jobID int64, messageID string) error
	MarkFailed(ctx context.Context, jobID int64, errMsg string) error

	// Launch side
	InsertJobs(ctx context.Context, jobs []*model.CampaignJob) error
	CampaignJobStats(ctx context.Context, campaignID string) (map[string]int, error)
}

type JobRepository struct {
	DB *sql.DB
}

const jobColumns = `id, campaign_id, lead_id, assigned_sender_id, status,
       next_processing_time, retries, error_message, email_message_id,
       processed_at, created_at, updated_at`

// FetchDue returns pending jobs whose send time falls before now+horizon,
// ordered soonest first. Jobs belonging to a paused campaign are excluded
// here rather than trusting the resume RPC to have pushed their times
// forward.
func (r *JobRepository) FetchDue(ctx context.Context, limit int, horizon time.Duration) ([]*model.CampaignJob, error) {
	query := `
        SELECT j.id, j.campaign_id, j.lead_id, j.assigned_sender_id, j.status,
               j.next_processing_time, j.retries, j.error_message, j.email_message_id,
               j.processed_at, j.created_at, j.updated_at
        FROM campaign_jobs j
        LEFT JOIN campaign_engine_state es ON es.campaign_id = j.campaign_id
        WHERE j.status = 'pending'
          AND j.next_processing_time <= NOW() + $1 * INTERVAL '1 second'
          AND (es.status IS NULL OR es.status <> 'paused')
        ORDER BY j.next_processing_time ASC
        LIMIT $2
    `
	rows, err := r.DB.QueryContext(ctx, query, int64(horizon.Seconds()), limit)
	if err != nil {
		return nil, fmt.Errorf("fetch due jobs: %w", err)
	}
	defer rows.Close()

	jobs := []*model.CampaignJob{}
	for rows.Next() {
		j := &model.CampaignJob{}
		if err := scanJob(rows, j); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (r *JobRepository) GetByID(ctx context.Context, jobID int64) (*model.CampaignJob, error) {
	query := `SELECT ` + jobColumns + ` FROM campaign_jobs WHERE id=$1`
	j := &model.CampaignJob{}
	err := scanJob(r.DB.QueryRowContext(ctx, query, jobID), j)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewJobNotFound(jobID)
		}
		return nil, err
	}
	return j, nil
}

// GetJobBundle loads the job joined with its lead and campaign. A
// missing joined entity comes back as a nil member; the dispatcher
// decides what to do about it.
func (r *JobRepository) GetJobBundle(ctx context.Context, jobID int64) (*model.JobBundle, error) {
	job, err := r.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	bundle := &model.JobBundle{Job: *job}

	leadQuery := `
        SELECT id, contact_name, contact_email, property_address, property_city,
               property_state, property_postal_code, property_type, square_footage,
               beds, baths, year_built, assessed_total, market_region
        FROM normalized_leads WHERE id=$1
    `
	lead := &model.Lead{}
	err = r.DB.QueryRowContext(ctx, leadQuery, job.LeadID).Scan(
		&lead.ID, &lead.ContactName, &lead.ContactEmail, &lead.PropertyAddress,
		&lead.PropertyCity, &lead.PropertyState, &lead.PropertyPostalCode,
		&lead.PropertyType, &lead.SquareFootage, &lead.Beds, &lead.Baths,
		&lead.YearBuilt, &lead.AssessedTotal, &lead.MarketRegion,
	)
	switch err {
	case nil:
		bundle.Lead = lead
	case sql.ErrNoRows:
		// leave nil
	default:
		return nil, fmt.Errorf("load lead %s: %w", job.LeadID, err)
	}

	campaignQuery := `
        SELECT id, name, status, subject_template, daily_limit,
               min_interval_seconds, max_interval_seconds, created_at, updated_at
        FROM campaigns WHERE id=$1
    `
	c := &model.Campaign{}
	err = r.DB.QueryRowContext(ctx, campaignQuery, job.CampaignID).Scan(
		&c.ID, &c.Name, &c.Status, &c.SubjectTemplate, &c.DailyLimit,
		&c.MinIntervalSecs, &c.MaxIntervalSecs, &c.CreatedAt, &c.UpdatedAt,
	)
	switch err {
	case nil:
		bundle.Campaign = c
	case sql.ErrNoRows:
	default:
		return nil, fmt.Errorf("load campaign %s: %w", job.CampaignID, err)
	}

	return bundle, nil
}

// ClaimProcessing is the compare-and-swap into 'processing'. The status
// guard keeps two concurrent dispatch attempts for the same job from
// both sending. Failed rows are claimable again so the scheduler's
// retry chain can re-run them.
func (r *JobRepository) ClaimProcessing(ctx context.Context, jobID int64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE campaign_jobs SET status='processing', updated_at=NOW() WHERE id=$1 AND status IN ('pending', 'failed')`,
		jobID,
	)
	if err != nil {
		return fmt.Errorf("claim job %d: %w", jobID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return appErrors.ErrJobAlreadyClaimed
	}
	return nil
}

// MarkCompleted finalizes a sent job. Guarded on 'processing' so only the
// claiming attempt can complete it.
func (r *JobRepository) MarkCompleted(ctx context.Context, jobID int64, messageID string) error {
	_, err := r.DB.ExecContext(ctx, `
        UPDATE campaign_jobs
        SET status='completed', email_message_id=$1, error_message=NULL,
            processed_at=NOW(), updated_at=NOW()
        WHERE id=$2 AND status='processing'
    `, messageID, jobID)
	if err != nil {
		return fmt.Errorf("mark job %d completed: %w", jobID, err)
	}
	return nil
}

// MarkFailed records a failed attempt and bumps the retry count.
func (r *JobRepository) MarkFailed(ctx context.Context, jobID int64, errMsg string) error {
	_, err := r.DB.ExecContext(ctx, `
        UPDATE campaign_jobs
        SET status='failed', error_message=$1, retries=retries+1,
            processed_at=NOW(), updated_at=NOW()
        WHERE id=$2 AND status='processing'
    `, errMsg, jobID)
	if err != nil {
		return fmt.Errorf("mark job %d failed: %w", jobID, err)
	}
	return nil
}

// MarkFailedPermanently is the scheduler's retries-exhausted write. No
// status guard: whatever state the dispatcher left the row in, the job
// is done.
func (r *JobRepository) MarkFailedPermanently(ctx context.Context, jobID int64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE campaign_jobs SET status='failed_permanent', updated_at=NOW() WHERE id=$1`,
		jobID,
	)
	if err != nil {
		return fmt.Errorf("mark job %d permanently failed: %w", jobID, err)
	}
	return nil
}

// InsertJobs creates pending jobs in one transaction during campaign
// launch.
func (r *JobRepository) InsertJobs(ctx context.Context, jobs []*model.CampaignJob) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
        INSERT INTO campaign_jobs
            (campaign_id, lead_id, assigned_sender_id, status, next_processing_time,
             retries, created_at, updated_at)
        VALUES ($1, $2, $3, 'pending', $4, 0, NOW(), NOW())
        RETURNING id
    `
	for _, j := range jobs {
		if err := tx.QueryRowContext(ctx, query,
			j.CampaignID, j.LeadID, j.AssignedSenderID, j.NextProcessingTime,
		).Scan(&j.ID); err != nil {
			return fmt.Errorf("insert job for lead %s: %w", j.LeadID, err)
		}
		j.Status = model.JobStatusPending
	}
	return tx.Commit()
}

func (r *JobRepository) CampaignJobStats(ctx context.Context, campaignID string) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM campaign_jobs WHERE campaign_id=$1 GROUP BY status`,
		campaignID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := map[string]int{"pending": 0, "processing": 0, "completed": 0, "failed": 0, "failed_permanent": 0}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner, j *model.CampaignJob) error {
	return row.Scan(
		&j.ID, &j.CampaignID, &j.LeadID, &j.AssignedSenderID, &j.Status,
		&j.NextProcessingTime, &j.Retries, &j.ErrorMessage, &j.EmailMessageID,
		&j.ProcessedAt, &j.CreatedAt, &j.UpdatedAt,
	)
}

var _ JobRepositoryInterface = (*JobRepository)(nil)
