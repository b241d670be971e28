// Package scheduler implements the standalone polling loop that loads
// due campaign jobs and fires them against the dispatcher endpoint with
// bounded exponential-backoff retry.
package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/truesoul/offerengine-backend/internal/logger"
	"github.com/truesoul/offerengine-backend/internal/repository"
)

// MaxRetries is the backoff ceiling: a job failing this many re-attempts
// is marked permanently failed.
const MaxRetries = 5

const defaultFetchLimit = 500

// Scheduler runs one poll pass at a time: fetch due jobs, arm a one-shot
// timer per job, and attempt each over HTTP when its timer fires. Retry
// chains for different jobs are independent; within one job's chain,
// attempts are strictly sequential.
type Scheduler struct {
	JobRepo repository.JobRepositoryInterface
	Logger  logger.Interface

	// APIBaseURL is the root of the web app exposing the dispatcher
	// endpoint, e.g. http://localhost:8080.
	APIBaseURL string
	Client     *http.Client

	// FetchHorizon bounds how far ahead a poll pass will arm timers.
	FetchHorizon time.Duration

	// backoffBase is 1s in production; tests shrink it.
	backoffBase time.Duration

	mu    sync.Mutex
	armed map[int64]struct{}
	wg    sync.WaitGroup
}

func New(jobRepo repository.JobRepositoryInterface, log logger.Interface, apiBaseURL string, dispatchTimeout, fetchHorizon time.Duration) *Scheduler {
	return &Scheduler{
		JobRepo:      jobRepo,
		Logger:       log,
		APIBaseURL:   apiBaseURL,
		Client:       &http.Client{Timeout: dispatchTimeout},
		FetchHorizon: fetchHorizon,
		backoffBase:  time.Second,
		armed:        make(map[int64]struct{}),
	}
}

// RunOnce performs a single fetch-and-schedule pass. Timers armed by the
// pass keep running after it returns; Wait blocks until they settle.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	jobs, err := s.JobRepo.FetchDue(ctx, defaultFetchLimit, s.FetchHorizon)
	if err != nil {
		return fmt.Errorf("load scheduled jobs: %w", err)
	}
	if len(jobs) == 0 {
		s.Logger.Debug("no pending jobs found")
		return nil
	}

	now := time.Now()
	scheduled := 0
	for _, job := range jobs {
		s.mu.Lock()
		if _, ok := s.armed[job.ID]; ok {
			s.mu.Unlock()
			continue // already armed by an earlier pass
		}
		s.armed[job.ID] = struct{}{}
		s.mu.Unlock()

		delay := job.NextProcessingTime.Sub(now)
		if delay < 0 {
			// overdue jobs fire immediately
			delay = 0
		}

		jobID := job.ID
		s.Logger.Info("scheduled job",
			zap.Int64("job_id", jobID),
			zap.Duration("delay", delay),
		)
		s.wg.Add(1)
		time.AfterFunc(delay, func() {
			defer s.wg.Done()
			defer s.disarm(jobID)
			s.Attempt(context.Background(), jobID, 0)
		})
		scheduled++
	}

	s.Logger.Info("poll pass complete", zap.Int("jobs_scheduled", scheduled))
	return nil
}

func (s *Scheduler) disarm(jobID int64) {
	s.mu.Lock()
	delete(s.armed, jobID)
	s.mu.Unlock()
}

// Attempt fires one dispatch call and drives the retry chain. On
// failure it sleeps 2^retryCount seconds (1,2,4,8,16, no jitter) and
// recurses until the ceiling, then marks the job permanently failed.
func (s *Scheduler) Attempt(ctx context.Context, jobID int64, retryCount int) {
	err := s.dispatch(ctx, jobID)
	if err == nil {
		s.Logger.Info("job completed successfully", zap.Int64("job_id", jobID))
		return
	}

	s.Logger.Warn("job attempt failed",
		zap.Int64("job_id", jobID),
		zap.Int("attempt", retryCount),
		zap.Error(err),
	)

	if retryCount >= MaxRetries {
		s.Logger.Error("job permanently failed",
			zap.Int64("job_id", jobID),
			zap.Int("attempts", MaxRetries),
		)
		if markErr := s.JobRepo.MarkFailedPermanently(ctx, jobID); markErr != nil {
			s.Logger.Error("failed to mark job permanently failed",
				zap.Int64("job_id", jobID), zap.Error(markErr))
		}
		return
	}

	delay := s.backoffBase * (1 << retryCount)
	s.Logger.Info("retrying job",
		zap.Int64("job_id", jobID),
		zap.Duration("delay", delay),
	)

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return
	}
	s.Attempt(ctx, jobID, retryCount+1)
}

// dispatch POSTs the job id to the dispatcher endpoint. Any transport
// error or status >= 400 counts as a failed attempt.
func (s *Scheduler) dispatch(ctx context.Context, jobID int64) error {
	payload, _ := json.Marshal(map[string]int64{"job_id": jobID})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.APIBaseURL+"/engine/send-email", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("dispatcher returned %d", resp.StatusCode)
	}
	return nil
}

// Wait blocks until every armed timer and its retry chain has settled.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
