package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/danurs/registration-matcher/consts"
	"github.com/danurs/registration-matcher/entity"
	"github.com/danurs/registration-matcher/infra/db/model"

	"github.com/labstack/gommon/log"
)

// ProcessMatchJob processes one bounded batch of unmatched payments for a
// claimed run: janitor pre-pass first, then the per-payment pipeline. A
// failure on one payment never aborts the batch; it is counted in the run
// summary. Cancellation stops between payments, leaving the run re-claimable.
func (u *matchingUsecase) ProcessMatchJob(ctx context.Context, runID int64) error {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("[MatchJob] Panic recovered for RunID %d: %v", runID, r)
		}
	}()

	log.Infof("[MatchJob] Starting job for RunID: %d", runID)

	logEntry, err := u.dao.GetMatchRunLogByID(runID)
	if err != nil {
		log.Errorf("[MatchJob] Could not fetch run log %d: %v", runID, err)
		return err
	}
	if logEntry.Status == consts.StatusFinished {
		return nil
	}

	if logEntry.Status == consts.StatusInit {
		total, err := u.dao.CountUnmatchedPayments()
		if err != nil {
			return err
		}
		logEntry.TotalPayments = total
	}

	// Stale error/duplicate markers must be reconciled before any
	// reprocessing sweep.
	if _, err := u.RunJanitor(ctx); err != nil {
		log.Errorf("[MatchJob] Janitor pre-pass failed for RunID %d: %v", runID, err)
		return err
	}

	payments, err := u.dao.GetUnmatchedPaymentsAfter(logEntry.CurrentCursor, u.batchSize)
	if err != nil {
		log.Errorf("[MatchJob] Could not fetch batch for RunID %d: %v", runID, err)
		return err
	}

	log.Infof("[MatchJob] Resolving batch (cursor: %d, size: %d)", logEntry.CurrentCursor, len(payments))

	summary := decodeRunSummary(logEntry.Result)
	canceled := false

	for _, payment := range payments {
		if ctx.Err() != nil {
			canceled = true
			break
		}

		outcome, err := u.ResolvePayment(ctx, payment)
		summary.Processed++
		if err != nil {
			summary.Failed++
			log.Errorf("[MatchJob] Resolution failed for payment %d: %v", payment.ID, err)
		} else {
			switch outcome {
			case OutcomeCommitted:
				summary.AutoMatched++
			case OutcomeQueued:
				summary.Queued++
			case OutcomeErrored:
				summary.Errored++
			case OutcomeSkipped:
				summary.Skipped++
			}
		}
		logEntry.CurrentCursor = payment.ID
	}

	if canceled || len(payments) == u.batchSize {
		logEntry.Status = consts.StatusRunning
	} else {
		logEntry.Status = consts.StatusFinished
	}

	resultJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}
	logEntry.Result = string(resultJSON)
	logEntry.UpdateTime = time.Now().Unix()
	logEntry.UpdateBy = "system"

	if err := u.dao.UpdateMatchRunLog(logEntry); err != nil {
		log.Errorf("[MatchJob] Failed to update run log %d: %v", runID, err)
		return err
	}

	log.Infof("[MatchJob] Batch done for RunID %d: processed=%d auto=%d queued=%d errored=%d",
		runID, summary.Processed, summary.AutoMatched, summary.Queued, summary.Errored)
	return nil
}

func decodeRunSummary(result string) entity.MatchRunSummary {
	var summary entity.MatchRunSummary
	if result == "" {
		return summary
	}
	if err := json.Unmarshal([]byte(result), &summary); err != nil {
		log.Warnf("[MatchJob] unreadable previous run summary, restarting counts: %v", err)
		return entity.MatchRunSummary{}
	}
	return summary
}

func (u *matchingUsecase) CreateMatchRun(ctx context.Context, operator string) (*model.MatchRunLog, error) {
	timeNowUnix := time.Now().Unix()
	logEntry := &model.MatchRunLog{
		Status:     consts.StatusInit,
		Result:     "",
		CreateTime: timeNowUnix,
		CreateBy:   operator,
		UpdateTime: timeNowUnix,
		UpdateBy:   operator,
	}
	if err := u.dao.CreateMatchRunLog(logEntry); err != nil {
		return nil, err
	}
	return logEntry, nil
}

func (u *matchingUsecase) GetMatchRunResult(ctx context.Context, runID int64) (model.MatchRunLog, error) {
	return u.dao.GetMatchRunLogByID(runID)
}

func (u *matchingUsecase) GetMatchRunResults(ctx context.Context) ([]model.MatchRunLog, error) {
	return u.dao.GetMatchRunLogs()
}

func (u *matchingUsecase) MatchStateCounts(ctx context.Context) (map[string]int64, error) {
	return u.dao.CountPaymentsByMatchState()
}
