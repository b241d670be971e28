// internal/controller/campaign_controller.go
package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/truesoul/offerengine-backend/internal/logger"
	"github.com/truesoul/offerengine-backend/internal/repository"
	"github.com/truesoul/offerengine-backend/internal/service"
)

// Launcher queues jobs for a campaign.
type Launcher interface {
	Launch(ctx context.Context, campaignID string) (*service.LaunchResult, error)
}

type CampaignController struct {
	CampaignRepo repository.CampaignRepositoryInterface
	JobRepo      repository.JobRepositoryInterface
	SenderRepo   repository.SenderRepositoryInterface
	Launcher     Launcher
	Logger       logger.Interface
}

// LaunchCampaign handles POST /campaigns/{id}/launch.
func (c *CampaignController) LaunchCampaign(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "id")
	if campaignID == "" {
		writeError(w, http.StatusBadRequest, "campaign id is required")
		return
	}

	result, err := c.Launcher.Launch(r.Context(), campaignID)
	if err != nil {
		c.Logger.Error("launch failed", zap.String("campaign_id", campaignID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Campaign launched.",
		"data":    result,
	})
}

// GetCampaign handles GET /campaigns/{id}: definition plus job stats.
func (c *CampaignController) GetCampaign(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "id")

	campaign, err := c.CampaignRepo.GetByID(r.Context(), campaignID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if campaign == nil {
		writeError(w, http.StatusNotFound, "campaign not found")
		return
	}

	stats, err := c.JobRepo.CampaignJobStats(r.Context(), campaignID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"campaign": campaign,
			"stats":    stats,
		},
	})
}

// ListSenders handles GET /senders.
func (c *CampaignController) ListSenders(w http.ResponseWriter, r *http.Request) {
	senders, err := c.SenderRepo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": senders})
}
