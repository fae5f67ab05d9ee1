package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/danurs/registration-matcher/consts"
	"github.com/danurs/registration-matcher/infra/db/model"

	"github.com/labstack/gommon/log"
)

type JanitorSummary struct {
	Examined int64 `json:"examined"`
	Cleared  int64 `json:"cleared"`
	Resolved int64 `json:"resolved"`
}

// RunJanitor retracts stale error markers before a reprocessing sweep. For
// every error record it re-runs candidate generation; when a qualifying match
// now exists the record is deleted and the payment re-enters the resolver.
// DUPLICATE markers are the audit trail and are never deleted. Running the
// janitor twice with no intervening state change produces no side effects.
func (u *matchingUsecase) RunJanitor(ctx context.Context) (JanitorSummary, error) {
	var summary JanitorSummary

	records, err := u.dao.GetErrorRecords()
	if err != nil {
		return summary, err
	}

	for _, rec := range records {
		summary.Examined++

		payment, err := u.dao.GetPaymentRecordByID(rec.PaymentID)
		if err != nil {
			log.Warnf("[Janitor] payment %d missing for error record %d: %v", rec.PaymentID, rec.ID, err)
			continue
		}

		if payment.MatchState == consts.MatchStateDuplicate || rec.ErrorType == consts.ErrorTypeDuplicate {
			continue
		}

		// A queued payment with a pending item is waiting on an operator; its
		// marker documents the mismatch and must survive until the decision.
		if payment.MatchState == consts.MatchStateQueued {
			if _, pending, err := u.dao.GetPendingReviewItemByPayment(payment.ID); err != nil {
				return summary, err
			} else if pending {
				continue
			}
		}

		if payment.MatchState == consts.MatchStateCommitted {
			// The marker no longer reflects current match state.
			if err := u.dao.DeleteErrorRecord(rec.ID); err != nil {
				return summary, err
			}
			summary.Cleared++
			continue
		}

		facts, err := u.generateCandidates(payment)
		if err != nil {
			log.Errorf("[Janitor] candidate generation failed for payment %d: %v", payment.ID, err)
			continue
		}
		if len(facts) == 0 {
			continue
		}

		if err := u.dao.DeleteErrorRecord(rec.ID); err != nil {
			return summary, err
		}
		summary.Cleared++

		if moved, err := u.dao.UpdatePaymentMatchState(payment.ID,
			[]string{consts.MatchStateError}, consts.MatchStateUnmatched); err != nil {
			return summary, err
		} else if moved {
			payment.MatchState = consts.MatchStateUnmatched
		}

		outcome, err := u.ResolvePayment(ctx, payment)
		if err != nil {
			log.Errorf("[Janitor] re-resolution failed for payment %d: %v", payment.ID, err)
			continue
		}
		if outcome == OutcomeCommitted || outcome == OutcomeQueued {
			summary.Resolved++
		}
	}

	log.Infof("[Janitor] examined=%d cleared=%d resolved=%d", summary.Examined, summary.Cleared, summary.Resolved)
	return summary, nil
}

// MarkDuplicate marks a payment explicitly identified as a re-submission or
// failed attempt. Terminal: excluded from all future matching, with an error
// record preserved as the audit trail.
func (u *matchingUsecase) MarkDuplicate(ctx context.Context, paymentID int64, reason string) error {
	payment, err := u.dao.GetPaymentRecordByID(paymentID)
	if err != nil {
		return err
	}
	if payment.MatchState == consts.MatchStateDuplicate {
		return nil
	}
	if payment.MatchState == consts.MatchStateCommitted {
		return fmt.Errorf("payment %d already committed, cannot mark duplicate", paymentID)
	}

	moved, err := u.dao.UpdatePaymentMatchState(paymentID,
		[]string{consts.MatchStateUnmatched, consts.MatchStateQueued, consts.MatchStateError},
		consts.MatchStateDuplicate)
	if err != nil {
		return err
	}
	if !moved {
		return fmt.Errorf("payment %d state changed while marking duplicate", paymentID)
	}

	if _, exists, err := u.dao.GetErrorRecordByPayment(paymentID); err != nil {
		return err
	} else if !exists {
		rec := &model.ErrorRecord{
			PaymentID:  paymentID,
			ErrorType:  consts.ErrorTypeDuplicate,
			Context:    reason,
			CreateTime: time.Now().Unix(),
		}
		if err := u.dao.CreateErrorRecord(rec); err != nil {
			return err
		}
	}
	return nil
}
