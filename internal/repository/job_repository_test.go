package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/truesoul/offerengine-backend/internal/errors"
	"github.com/truesoul/offerengine-backend/internal/model"
)

func jobRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "campaign_id", "lead_id", "assigned_sender_id", "status",
		"next_processing_time", "retries", "error_message", "email_message_id",
		"processed_at", "created_at", "updated_at",
	})
}

func TestFetchDueExcludesPausedCampaigns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`LEFT JOIN campaign_engine_state`).
		WithArgs(int64(300), 500).
		WillReturnRows(jobRows().
			AddRow(int64(1), "camp-1", "lead-1", "sender-1", "pending",
				now.Add(time.Minute), 0, nil, nil, nil, now, now).
			AddRow(int64(2), "camp-1", "lead-2", "sender-1", "pending",
				now.Add(2*time.Minute), 0, nil, nil, nil, now, now))

	repo := &JobRepository{DB: db}
	jobs, err := repo.FetchDue(context.Background(), 500, 5*time.Minute)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, int64(1), jobs[0].ID)
	assert.Equal(t, model.JobStatusPending, jobs[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimProcessing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// pending and failed rows are both claimable: a failed job must stay
	// reachable for the scheduler's next retry attempt
	mock.ExpectExec(`UPDATE campaign_jobs SET status='processing', updated_at=NOW\(\) WHERE id=\$1 AND status IN \('pending', 'failed'\)`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &JobRepository{DB: db}
	assert.NoError(t, repo.ClaimProcessing(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimProcessingAlreadyClaimed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// the status guard matched nothing: someone else owns the job
	mock.ExpectExec(`UPDATE campaign_jobs SET status='processing'`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &JobRepository{DB: db}
	err = repo.ClaimProcessing(context.Background(), 7)
	assert.ErrorIs(t, err, appErrors.ErrJobAlreadyClaimed)
}

func TestGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM campaign_jobs WHERE id`).
		WithArgs(int64(99)).
		WillReturnRows(jobRows())

	repo := &JobRepository{DB: db}
	_, err = repo.GetByID(context.Background(), 99)
	var notFound *appErrors.ErrJobNotFound
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(99), notFound.JobID)
}

func TestMarkFailedPermanently(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE campaign_jobs SET status='failed_permanent'`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &JobRepository{DB: db}
	assert.NoError(t, repo.MarkFailedPermanently(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertJobs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	when := time.Now().Add(time.Hour)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO campaign_jobs`).
		WithArgs("camp-1", "lead-1", "sender-1", when).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectCommit()

	repo := &JobRepository{DB: db}
	jobs := []*model.CampaignJob{{
		CampaignID:         "camp-1",
		LeadID:             "lead-1",
		AssignedSenderID:   "sender-1",
		NextProcessingTime: when,
	}}
	require.NoError(t, repo.InsertJobs(context.Background(), jobs))
	assert.Equal(t, int64(42), jobs[0].ID)
}

func TestCampaignJobStats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`GROUP BY status`).
		WithArgs("camp-1").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("completed", 10).
			AddRow("failed", 2))

	repo := &JobRepository{DB: db}
	stats, err := repo.CampaignJobStats(context.Background(), "camp-1")
	require.NoError(t, err)
	assert.Equal(t, 10, stats["completed"])
	assert.Equal(t, 2, stats["failed"])
	assert.Equal(t, 0, stats["pending"])
}
