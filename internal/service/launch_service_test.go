package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truesoul/offerengine-backend/internal/logger"
	"github.com/truesoul/offerengine-backend/internal/model"
)

type fakeCampaignRepo struct {
	campaign      *model.Campaign
	leads         []model.Lead
	updatedStatus string
}

func (f *fakeCampaignRepo) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	return f.campaign, nil
}

func (f *fakeCampaignRepo) UpdateStatus(ctx context.Context, id, status string) error {
	f.updatedStatus = status
	return nil
}

func (f *fakeCampaignRepo) LeadsWithoutJobs(ctx context.Context, campaignID string, limit int) ([]model.Lead, error) {
	return f.leads, nil
}

type fakeSenderRepo struct {
	sender *model.Sender
}

func (f *fakeSenderRepo) OldestActive(ctx context.Context) (*model.Sender, error) {
	return f.sender, nil
}

func (f *fakeSenderRepo) GetActive(ctx context.Context, id string) (*model.Sender, error) {
	return f.sender, nil
}

func (f *fakeSenderRepo) List(ctx context.Context) ([]model.Sender, error) {
	return []model.Sender{*f.sender}, nil
}

func leadsN(n int) []model.Lead {
	leads := make([]model.Lead, n)
	for i := range leads {
		leads[i] = model.Lead{ID: string(rune('a' + i))}
	}
	return leads
}

func newLaunchService(t *testing.T, campaign *model.Campaign, leads []model.Lead) (*LaunchService, *fakeCampaignRepo, *fakeJobRepo) {
	t.Helper()
	campaigns := &fakeCampaignRepo{campaign: campaign, leads: leads}
	jobs := &fakeJobRepo{}
	svc := NewLaunchService(campaigns, jobs,
		&fakeSenderRepo{sender: &model.Sender{ID: "sender-1", IsActive: true}},
		&fakeEngineStateRepo{}, &fakeLogRepo{}, logger.Nop())
	svc.now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }
	svc.rand = rand.New(rand.NewSource(1))
	return svc, campaigns, jobs
}

func TestLaunchQueuesJobsAndActivatesCampaign(t *testing.T) {
	campaign := &model.Campaign{
		ID:              "camp-1",
		Status:          model.CampaignStatusDraft,
		DailyLimit:      10,
		MinIntervalSecs: 60,
		MaxIntervalSecs: 120,
	}
	svc, campaigns, jobs := newLaunchService(t, campaign, leadsN(3))

	result, err := svc.Launch(context.Background(), "camp-1")
	require.NoError(t, err)
	assert.Equal(t, 3, result.JobsQueued)
	assert.Equal(t, "sender-1", result.SenderID)
	assert.Equal(t, model.CampaignStatusActive, campaigns.updatedStatus)

	require.Len(t, jobs.inserted, 3)
	prev := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	for _, job := range jobs.inserted {
		assert.Equal(t, model.JobStatusPending, job.Status)
		assert.Equal(t, "sender-1", job.AssignedSenderID)
		gap := job.NextProcessingTime.Sub(prev)
		assert.GreaterOrEqual(t, gap, 60*time.Second)
		assert.LessOrEqual(t, gap, 120*time.Second)
		prev = job.NextProcessingTime
	}
}

func TestLaunchRollsScheduleAtDailyLimit(t *testing.T) {
	campaign := &model.Campaign{
		ID:              "camp-1",
		Status:          model.CampaignStatusDraft,
		DailyLimit:      2,
		MinIntervalSecs: 60,
		MaxIntervalSecs: 60,
	}
	svc, _, jobs := newLaunchService(t, campaign, leadsN(5))

	_, err := svc.Launch(context.Background(), "camp-1")
	require.NoError(t, err)
	require.Len(t, jobs.inserted, 5)

	// jobs 3 and 4 land a calendar day after jobs 1 and 2
	day0 := jobs.inserted[0].NextProcessingTime.Day()
	assert.Equal(t, day0, jobs.inserted[1].NextProcessingTime.Day())
	assert.Equal(t, day0+1, jobs.inserted[2].NextProcessingTime.Day())
	assert.Equal(t, day0+1, jobs.inserted[3].NextProcessingTime.Day())
	assert.Equal(t, day0+2, jobs.inserted[4].NextProcessingTime.Day())
}

func TestLaunchRejectsCompletedCampaign(t *testing.T) {
	campaign := &model.Campaign{ID: "camp-1", Status: model.CampaignStatusCompleted}
	svc, _, jobs := newLaunchService(t, campaign, leadsN(2))

	_, err := svc.Launch(context.Background(), "camp-1")
	require.Error(t, err)
	assert.Empty(t, jobs.inserted)
}

func TestLaunchWithNoNewLeadsIsNoop(t *testing.T) {
	campaign := &model.Campaign{ID: "camp-1", Status: model.CampaignStatusActive, DailyLimit: 10}
	svc, campaigns, jobs := newLaunchService(t, campaign, nil)

	result, err := svc.Launch(context.Background(), "camp-1")
	require.NoError(t, err)
	assert.Equal(t, 0, result.JobsQueued)
	assert.Empty(t, jobs.inserted)
	// already active, status untouched
	assert.Empty(t, campaigns.updatedStatus)
}
