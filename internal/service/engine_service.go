// internal/service/engine_service.go
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/truesoul/offerengine-backend/internal/logger"
	"github.com/truesoul/offerengine-backend/internal/model"
	"github.com/truesoul/offerengine-backend/internal/repository"
)

// EngineService toggles a campaign's live run state. Both operations are
// conditional updates at the store layer, so invoking either one twice
// is a clean no-op reported as not-found the second time.
type EngineService struct {
	EngineStateRepo repository.EngineStateRepositoryInterface
	LogRepo         repository.LogRepositoryInterface
	Logger          logger.Interface
}

// Stop pauses a running campaign. It does not touch job rows: the
// scheduler's fetch excludes paused campaigns, and resume repairs the
// outstanding schedule.
func (s *EngineService) Stop(ctx context.Context, campaignID string) (*model.CampaignEngineState, error) {
	if campaignID == "" {
		return nil, fmt.Errorf("campaign_id is required")
	}

	st, err := s.EngineStateRepo.Pause(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	s.Logger.Info("campaign paused", zap.String("campaign_id", campaignID))
	if err := s.LogRepo.AppendSystemEvent(ctx, "CAMPAIGN_PAUSED", "Campaign has been paused.", campaignID, nil); err != nil {
		s.Logger.Warn("failed to append system event", zap.Error(err))
	}
	return st, nil
}

// Resume restarts a paused campaign. The schedule-repair RPC runs first;
// only if it succeeds is the engine state flipped back to running. The
// two steps are sequential, not transactional; a crash in between
// leaves the RPC applied and the state paused, which a retried Resume
// repairs (the RPC is idempotent).
func (s *EngineService) Resume(ctx context.Context, campaignID string) (*model.CampaignEngineState, error) {
	if campaignID == "" {
		return nil, fmt.Errorf("campaign_id is required")
	}

	rpcResult, err := s.EngineStateRepo.AdjustScheduleOnResume(ctx, campaignID)
	if err != nil {
		s.Logger.Error("schedule adjustment failed", zap.String("campaign_id", campaignID), zap.Error(err))
		return nil, err
	}

	st, err := s.EngineStateRepo.Resume(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	s.Logger.Info("campaign resumed",
		zap.String("campaign_id", campaignID),
		zap.String("rpc_result", rpcResult),
	)
	if err := s.LogRepo.AppendSystemEvent(ctx, "CAMPAIGN_RESUMED", "Campaign resumed.", campaignID,
		map[string]any{"schedule_adjustment": rpcResult}); err != nil {
		s.Logger.Warn("failed to append system event", zap.Error(err))
	}
	return st, nil
}
