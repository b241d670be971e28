// internal/controller/engine_controller.go
package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	appErrors "github.com/truesoul/offerengine-backend/internal/errors"
	"github.com/truesoul/offerengine-backend/internal/logger"
	"github.com/truesoul/offerengine-backend/internal/model"
	"github.com/truesoul/offerengine-backend/internal/service"
)

// EngineStateService is the pause/resume surface the controller needs.
type EngineStateService interface {
	Stop(ctx context.Context, campaignID string) (*model.CampaignEngineState, error)
	Resume(ctx context.Context, campaignID string) (*model.CampaignEngineState, error)
}

// Dispatcher is the single-job dispatch surface.
type Dispatcher interface {
	Dispatch(ctx context.Context, jobID int64) (*service.DispatchResult, error)
}

// Publisher hands a job id to the queue transport for the worker to
// pick up.
type Publisher interface {
	Publish(jobID int64) error
}

type EngineController struct {
	Engine     EngineStateService
	Dispatcher Dispatcher
	Queue      Publisher
	Logger     logger.Interface
}

type campaignRequest struct {
	CampaignID string `json:"campaign_id"`
}

type jobRequest struct {
	JobID int64 `json:"job_id"`
}

// StopCampaign handles POST /campaigns/stop.
func (c *EngineController) StopCampaign(w http.ResponseWriter, r *http.Request) {
	var body campaignRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.CampaignID == "" {
		writeError(w, http.StatusBadRequest, "campaign_id is required")
		return
	}

	state, err := c.Engine.Stop(r.Context(), body.CampaignID)
	if err != nil {
		if errors.Is(err, appErrors.ErrCampaignNotRunning) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		c.Logger.Error("stop campaign failed", zap.String("campaign_id", body.CampaignID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Campaign " + body.CampaignID + " has been paused.",
		"data":    state,
	})
}

// ResumeCampaign handles POST /campaigns/resume.
func (c *EngineController) ResumeCampaign(w http.ResponseWriter, r *http.Request) {
	var body campaignRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.CampaignID == "" {
		writeError(w, http.StatusBadRequest, "campaign_id is required")
		return
	}

	state, err := c.Engine.Resume(r.Context(), body.CampaignID)
	if err != nil {
		if errors.Is(err, appErrors.ErrCampaignNotPaused) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		c.Logger.Error("resume campaign failed", zap.String("campaign_id", body.CampaignID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Campaign " + body.CampaignID + " resumed successfully.",
		"data":    state,
	})
}

// SendEmail handles POST /engine/send-email, the dispatcher entry point.
func (c *EngineController) SendEmail(w http.ResponseWriter, r *http.Request) {
	var body jobRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.JobID == 0 {
		writeError(w, http.StatusBadRequest, "job_id is required")
		return
	}

	result, err := c.Dispatcher.Dispatch(r.Context(), body.JobID)
	if err != nil {
		// The terminal status and job log are already written; the
		// caller only needs the failure signal for its retry policy.
		msg := err.Error()
		if result != nil {
			msg = result.Message
		}
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": result.Message,
	})
}

// QueueEmail handles POST /engine/queue-email: instead of dispatching
// inline it places the job id on the durable queue for cmd/worker, so
// an operator can re-drive a job without holding the HTTP connection
// through the send.
func (c *EngineController) QueueEmail(w http.ResponseWriter, r *http.Request) {
	var body jobRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.JobID == 0 {
		writeError(w, http.StatusBadRequest, "job_id is required")
		return
	}

	if err := c.Queue.Publish(body.JobID); err != nil {
		c.Logger.Error("failed to queue job", zap.Int64("job_id", body.JobID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"success": true,
		"message": fmt.Sprintf("job %d queued for dispatch", body.JobID),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}
