// internal/service/launch_service.go
package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/truesoul/offerengine-backend/internal/logger"
	"github.com/truesoul/offerengine-backend/internal/model"
	"github.com/truesoul/offerengine-backend/internal/repository"
)

const defaultLaunchBatch = 1000

// LaunchResult summarizes a campaign launch.
type LaunchResult struct {
	CampaignID string `json:"campaign_id"`
	JobsQueued int    `json:"jobs_queued"`
	SenderID   string `json:"sender_id"`
}

// LaunchService queues per-lead email jobs for a campaign with computed
// send times: sends are spread with a random interval between the
// campaign's min and max, rolling to the next day once the daily limit
// is reached.
type LaunchService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	JobRepo      repository.JobRepositoryInterface
	SenderRepo   repository.SenderRepositoryInterface
	EngineRepo   repository.EngineStateRepositoryInterface
	LogRepo      repository.LogRepositoryInterface
	Logger       logger.Interface

	// test seams
	now  func() time.Time
	rand *rand.Rand
}

func NewLaunchService(
	campaignRepo repository.CampaignRepositoryInterface,
	jobRepo repository.JobRepositoryInterface,
	senderRepo repository.SenderRepositoryInterface,
	engineRepo repository.EngineStateRepositoryInterface,
	logRepo repository.LogRepositoryInterface,
	log logger.Interface,
) *LaunchService {
	return &LaunchService{
		CampaignRepo: campaignRepo,
		JobRepo:      jobRepo,
		SenderRepo:   senderRepo,
		EngineRepo:   engineRepo,
		LogRepo:      logRepo,
		Logger:       log,
		now:          time.Now,
		rand:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Launch creates pending jobs for every lead that does not have one yet,
// ensures a running engine-state row, and marks the campaign active.
func (s *LaunchService) Launch(ctx context.Context, campaignID string) (*LaunchResult, error) {
	if campaignID == "" {
		return nil, fmt.Errorf("campaign_id is required")
	}

	campaign, err := s.CampaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, fmt.Errorf("campaign %s not found", campaignID)
	}
	if campaign.Status != model.CampaignStatusDraft && campaign.Status != model.CampaignStatusActive {
		return nil, fmt.Errorf("campaign cannot be launched in status: %s", campaign.Status)
	}

	sender, err := s.SenderRepo.OldestActive(ctx)
	if err != nil {
		return nil, err
	}

	leads, err := s.CampaignRepo.LeadsWithoutJobs(ctx, campaignID, defaultLaunchBatch)
	if err != nil {
		return nil, err
	}

	jobs := s.buildSchedule(campaign, sender.ID, leads)
	if len(jobs) > 0 {
		if err := s.JobRepo.InsertJobs(ctx, jobs); err != nil {
			return nil, err
		}
	}

	if err := s.EngineRepo.Ensure(ctx, campaignID); err != nil {
		return nil, err
	}
	if campaign.Status != model.CampaignStatusActive {
		if err := s.CampaignRepo.UpdateStatus(ctx, campaignID, model.CampaignStatusActive); err != nil {
			return nil, err
		}
	}

	s.Logger.Info("campaign launched",
		zap.String("campaign_id", campaignID),
		zap.Int("jobs_queued", len(jobs)),
		zap.String("sender_id", sender.ID),
	)
	if err := s.LogRepo.AppendSystemEvent(ctx, "CAMPAIGN_LAUNCHED", "Campaign jobs queued.", campaignID,
		map[string]any{"jobs_queued": len(jobs)}); err != nil {
		s.Logger.Warn("failed to append system event", zap.Error(err))
	}

	return &LaunchResult{CampaignID: campaignID, JobsQueued: len(jobs), SenderID: sender.ID}, nil
}

// buildSchedule computes send times for each lead. Intervals are drawn
// uniformly from [min,max] seconds; after daily_limit jobs the schedule
// rolls forward to the next day's first slot.
func (s *LaunchService) buildSchedule(campaign *model.Campaign, senderID string, leads []model.Lead) []*model.CampaignJob {
	minSecs := campaign.MinIntervalSecs
	maxSecs := campaign.MaxIntervalSecs
	if minSecs <= 0 {
		minSecs = 60
	}
	if maxSecs < minSecs {
		maxSecs = minSecs
	}
	dailyLimit := campaign.DailyLimit
	if dailyLimit <= 0 {
		dailyLimit = len(leads)
	}

	next := s.now()
	sentToday := 0
	jobs := make([]*model.CampaignJob, 0, len(leads))
	for _, lead := range leads {
		if sentToday >= dailyLimit && dailyLimit > 0 {
			// next day, same starting hour
			next = next.AddDate(0, 0, 1)
			sentToday = 0
		}
		interval := minSecs
		if maxSecs > minSecs {
			interval += s.rand.Intn(maxSecs - minSecs + 1)
		}
		next = next.Add(time.Duration(interval) * time.Second)
		jobs = append(jobs, &model.CampaignJob{
			CampaignID:         campaign.ID,
			LeadID:             lead.ID,
			AssignedSenderID:   senderID,
			Status:             model.JobStatusPending,
			NextProcessingTime: next,
		})
		sentToday++
	}
	return jobs
}
