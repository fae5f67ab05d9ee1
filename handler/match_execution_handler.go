package handler

import (
	"context"
	"errors"
)

// MatchExecution is the cron worker entry point: claim a pending run, process
// one batch, release the claim.
func (h *MatchingHandler) MatchExecution(ctx context.Context) error {
	acquired, runID, err := h.Usecase.TryAcquireRun(ctx)
	if err != nil {
		return err
	}

	if !acquired {
		return errors.New("no run handled")
	}

	defer h.Usecase.ReleaseRun(ctx, runID)

	if err := h.Usecase.ProcessMatchJob(ctx, runID); err != nil {
		return err
	}

	return nil
}
