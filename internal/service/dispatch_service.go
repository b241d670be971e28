// internal/service/dispatch_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/truesoul/offerengine-backend/internal/content"
	appErrors "github.com/truesoul/offerengine-backend/internal/errors"
	"github.com/truesoul/offerengine-backend/internal/logger"
	"github.com/truesoul/offerengine-backend/internal/mailer"
	"github.com/truesoul/offerengine-backend/internal/repository"
)

// DispatchResult is what the dispatcher reports back to its caller.
type DispatchResult struct {
	JobID   int64  `json:"job_id"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DispatchService processes one campaign job end to end: claim, load,
// render, send, record the terminal status. It never lets an error
// escape with the job stuck in processing.
type DispatchService struct {
	JobRepo      repository.JobRepositoryInterface
	SenderRepo   repository.SenderRepositoryInterface
	SettingsRepo repository.SettingsRepositoryInterface
	LogRepo      repository.LogRepositoryInterface
	Renderer     *content.Renderer
	Mailer       mailer.Sender
	Logger       logger.Interface
}

// Dispatch sends the email for one job. A job in a terminal state, or
// one another attempt already claimed, short-circuits with success so
// the scheduler does not keep retrying it.
func (s *DispatchService) Dispatch(ctx context.Context, jobID int64) (*DispatchResult, error) {
	job, err := s.JobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Terminal() {
		s.Logger.Warn("job already in terminal status, skipping",
			zap.Int64("job_id", jobID), zap.String("status", job.Status))
		return &DispatchResult{JobID: jobID, Success: true,
			Message: fmt.Sprintf("job %d already processed with status: %s", jobID, job.Status)}, nil
	}

	if err := s.JobRepo.ClaimProcessing(ctx, jobID); err != nil {
		if errors.Is(err, appErrors.ErrJobAlreadyClaimed) {
			return &DispatchResult{JobID: jobID, Success: true,
				Message: fmt.Sprintf("job %d already claimed by another attempt", jobID)}, nil
		}
		return nil, err
	}

	messageID, err := s.process(ctx, jobID)
	if err != nil {
		s.fail(ctx, jobID, err)
		return &DispatchResult{JobID: jobID, Success: false, Message: err.Error()},
			fmt.Errorf("dispatch job %d: %w", jobID, err)
	}

	if err := s.JobRepo.MarkCompleted(ctx, jobID, messageID); err != nil {
		s.Logger.Error("failed to mark job completed", zap.Int64("job_id", jobID), zap.Error(err))
	}
	if err := s.LogRepo.AppendJobLog(ctx, jobID, "Email sent successfully.",
		map[string]any{"message_id": messageID}); err != nil {
		s.Logger.Warn("failed to append job log", zap.Error(err))
	}

	s.Logger.Info("job dispatched", zap.Int64("job_id", jobID), zap.String("message_id", messageID))
	return &DispatchResult{JobID: jobID, Success: true,
		Message: fmt.Sprintf("email for job %d sent successfully, message id %s", jobID, messageID)}, nil
}

// process runs steps 2-6 of the dispatch sequence and returns the mail
// provider's message id.
func (s *DispatchService) process(ctx context.Context, jobID int64) (string, error) {
	bundle, err := s.JobRepo.GetJobBundle(ctx, jobID)
	if err != nil {
		return "", err
	}
	// Missing joined entities indicate a data-integrity problem
	// upstream, not a transient error.
	switch {
	case bundle.Lead == nil:
		return "", appErrors.NewJobDataIncomplete(jobID, "lead")
	case bundle.Campaign == nil:
		return "", appErrors.NewJobDataIncomplete(jobID, "campaign")
	}

	sender, err := s.SenderRepo.GetActive(ctx, bundle.Job.AssignedSenderID)
	if err != nil {
		return "", fmt.Errorf("load sender %s: %w", bundle.Job.AssignedSenderID, err)
	}
	if sender == nil {
		return "", appErrors.NewJobDataIncomplete(jobID, "sender")
	}

	templateDir, err := s.SettingsRepo.TemplateDir(ctx)
	if err != nil {
		return "", err
	}

	tc, err := s.Renderer.BuildContext(bundle.Lead, sender)
	if err != nil {
		return "", err
	}

	assets, err := s.Renderer.RenderEmail(templateDir, bundle.Campaign.SubjectTemplate, tc)
	if err != nil {
		return "", err
	}

	pdf, err := s.Renderer.RenderPDF(tc)
	if err != nil {
		return "", fmt.Errorf("generate pdf: %w", err)
	}

	result, err := s.Mailer.Send(ctx, mailer.Message{
		From:     sender.SenderEmail,
		To:       bundle.Lead.ContactEmail,
		Subject:  assets.Subject,
		HTMLBody: assets.HTMLBody,
		Attachments: []mailer.Attachment{
			{Filename: assets.AttachmentFilename, Content: pdf, ContentType: "application/pdf"},
		},
	})
	if err != nil {
		return "", fmt.Errorf("send email: %w", err)
	}
	return result.MessageID, nil
}

// fail writes the failure bookkeeping: status, retry count, error text,
// job log. The row stays claimable so the scheduler's next attempt can
// re-run it.
func (s *DispatchService) fail(ctx context.Context, jobID int64, cause error) {
	s.Logger.Error("job dispatch failed", zap.Int64("job_id", jobID), zap.Error(cause))

	if err := s.JobRepo.MarkFailed(ctx, jobID, cause.Error()); err != nil {
		s.Logger.Error("failed to mark job failed", zap.Int64("job_id", jobID), zap.Error(err))
	}
	if err := s.LogRepo.AppendJobLog(ctx, jobID, "Email send failed.",
		map[string]any{"error": cause.Error()}); err != nil {
		s.Logger.Warn("failed to append job log", zap.Error(err))
	}
}
