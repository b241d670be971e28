// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// Conditional-update misses. Handlers map these to 404 so "nothing to
// do" stays distinguishable from "something broke".
var (
	ErrCampaignNotRunning = errors.New("campaign not found or not currently running")
	ErrCampaignNotPaused  = errors.New("campaign not found or not in a paused state")
	ErrJobAlreadyClaimed  = errors.New("job already claimed or in a terminal state")
)

// ErrJobNotFound is a sentinel error for a missing campaign job row.
type ErrJobNotFound struct {
	JobID int64
}

func (e *ErrJobNotFound) Error() string {
	return fmt.Sprintf("campaign job with ID %d not found", e.JobID)
}

// Helper constructor
func NewJobNotFound(id int64) error {
	return &ErrJobNotFound{JobID: id}
}

// ErrJobDataIncomplete marks a data-integrity failure: the job row loaded
// but one of its joined entities (lead, campaign, sender) is missing.
// Fatal per-job; the dispatcher never retries it itself.
type ErrJobDataIncomplete struct {
	JobID   int64
	Missing string
}

func (e *ErrJobDataIncomplete) Error() string {
	return fmt.Sprintf("job %d is missing critical data: %s", e.JobID, e.Missing)
}

func NewJobDataIncomplete(id int64, missing string) error {
	return &ErrJobDataIncomplete{JobID: id, Missing: missing}
}
