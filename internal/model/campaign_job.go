// internal/model/campaign_job.go
package model

import "time"

// Campaign job statuses. A job moves pending -> processing -> completed
// or failed; failed jobs are re-claimable and keep getting re-attempted
// until the scheduler's retry ceiling is hit, which writes the final
// failed_permanent.
const (
	JobStatusPending         = "pending"
	JobStatusProcessing      = "processing"
	JobStatusCompleted       = "completed"
	JobStatusFailed          = "failed"
	JobStatusFailedPermanent = "failed_permanent"
)

type CampaignJob struct {
	ID                 int64      `db:"id" json:"id"`
	CampaignID         string     `db:"campaign_id" json:"campaign_id"`
	LeadID             string     `db:"lead_id" json:"lead_id"`
	AssignedSenderID   string     `db:"assigned_sender_id" json:"assigned_sender_id"`
	Status             string     `db:"status" json:"status"`
	NextProcessingTime time.Time  `db:"next_processing_time" json:"next_processing_time"`
	Retries            int        `db:"retries" json:"retries"`
	ErrorMessage       *string    `db:"error_message" json:"error_message,omitempty"`
	EmailMessageID     *string    `db:"email_message_id" json:"email_message_id,omitempty"`
	ProcessedAt        *time.Time `db:"processed_at" json:"processed_at,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// Terminal reports whether the job already reached a final status. A
// plain failed job is not terminal: it stays claimable for the next
// retry attempt.
func (j *CampaignJob) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailedPermanent
}

// JobBundle is a job row joined with its lead and campaign. The sender
// is loaded separately through the sender repository. Any nil member is
// a data-integrity problem upstream, not a transient error.
type JobBundle struct {
	Job      CampaignJob
	Lead     *Lead
	Campaign *Campaign
}
