package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/danurs/registration-matcher/consts"
	"github.com/danurs/registration-matcher/entity"
	"github.com/danurs/registration-matcher/infra/db/model"

	"github.com/labstack/gommon/log"
)

// Resolution outcomes per payment.
const (
	OutcomeCommitted = "committed"
	OutcomeQueued    = "queued"
	OutcomeErrored   = "errored"
	OutcomeSkipped   = "skipped"
)

// ResolvePayment runs the per-payment state machine: auto-commit the top
// candidate when it is high-confidence and unique, queue for review when
// ambiguous, raise an unmatched error when no candidates exist. Resolving an
// already-committed or duplicate payment is a no-op.
func (u *matchingUsecase) ResolvePayment(ctx context.Context, payment model.PaymentRecord) (string, error) {
	if payment.MatchState == consts.MatchStateCommitted || payment.MatchState == consts.MatchStateDuplicate {
		return OutcomeSkipped, nil
	}

	facts, err := u.generateCandidates(payment)
	if err != nil {
		return "", fmt.Errorf("candidate generation failed for payment %d: %w", payment.ID, err)
	}

	if len(facts) == 0 {
		return u.raiseUnmatched(payment)
	}

	candidates := make([]entity.MatchCandidate, 0, len(facts))
	for _, fact := range facts {
		candidates = append(candidates, scoreCandidate(payment, fact))
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].RegistrationID < candidates[j].RegistrationID
	})

	top := candidates[0]
	unique := len(candidates) == 1 ||
		top.Score-candidates[1].Score >= consts.AutoMatchSeparation

	if top.Band == consts.BandHigh && unique && !top.AmountMismatch {
		committed, err := u.commitMatch(ctx, payment.ID, top.RegistrationID, consts.MatchOriginAuto)
		if err != nil {
			return "", err
		}
		if committed {
			log.Infof("[Resolver] auto-matched payment %d to registration %d (score %d)",
				payment.ID, top.RegistrationID, top.Score)
			return OutcomeCommitted, nil
		}
		// Lost the commit race; fall through and queue for review instead of
		// retrying blindly.
		log.Warnf("[Resolver] lost commit race for payment %d, queueing for review", payment.ID)
	}

	return u.enqueueForReview(payment, candidates, unique)
}

func (u *matchingUsecase) raiseUnmatched(payment model.PaymentRecord) (string, error) {
	moved, err := u.dao.UpdatePaymentMatchState(payment.ID,
		[]string{consts.MatchStateUnmatched}, consts.MatchStateError)
	if err != nil {
		return "", err
	}
	if !moved && payment.MatchState != consts.MatchStateError {
		return OutcomeSkipped, nil
	}

	if _, exists, err := u.dao.GetErrorRecordByPayment(payment.ID); err != nil {
		return "", err
	} else if !exists {
		rec := &model.ErrorRecord{
			PaymentID:  payment.ID,
			ErrorType:  consts.ErrorTypeUnmatched,
			Context:    fmt.Sprintf("no candidate registrations for %s payment %s", payment.Processor, payment.ProcessorPaymentID),
			CreateTime: time.Now().Unix(),
		}
		if err := u.dao.CreateErrorRecord(rec); err != nil {
			return "", err
		}
	}
	return OutcomeErrored, nil
}

func (u *matchingUsecase) enqueueForReview(payment model.PaymentRecord, candidates []entity.MatchCandidate, unique bool) (string, error) {
	top := candidates[0]

	if top.AmountMismatch {
		if _, exists, err := u.dao.GetErrorRecordByPayment(payment.ID); err != nil {
			return "", err
		} else if !exists {
			rec := &model.ErrorRecord{
				PaymentID:  payment.ID,
				ErrorType:  consts.ErrorTypeAmountMismatch,
				Context:    fmt.Sprintf("top candidate %d amount deviates beyond tolerance", top.RegistrationID),
				CreateTime: time.Now().Unix(),
			}
			if err := u.dao.CreateErrorRecord(rec); err != nil {
				return "", err
			}
		}
	}

	if _, err := u.dao.UpdatePaymentMatchState(payment.ID,
		[]string{consts.MatchStateUnmatched, consts.MatchStateError}, consts.MatchStateQueued); err != nil {
		return "", err
	}

	if _, exists, err := u.dao.GetPendingReviewItemByPayment(payment.ID); err != nil {
		return "", err
	} else if exists {
		return OutcomeQueued, nil
	}

	fieldsJSON, _ := json.Marshal(top.MatchedFields)
	item := &model.ReviewQueueItem{
		PaymentID:      payment.ID,
		RegistrationID: top.RegistrationID,
		CandidateScore: top.Score,
		MatchedFields:  string(fieldsJSON),
		Reason:         reviewReason(candidates, unique),
		Decision:       consts.DecisionPending,
		CreateTime:     time.Now().Unix(),
	}
	if err := u.dao.CreateReviewQueueItem(item); err != nil {
		return "", err
	}
	log.Infof("[Resolver] queued payment %d for review (top registration %d, score %d)",
		payment.ID, top.RegistrationID, top.Score)
	return OutcomeQueued, nil
}

// reviewReason explains why a payment landed in the queue so an operator can
// decide without re-deriving the analysis.
func reviewReason(candidates []entity.MatchCandidate, unique bool) string {
	top := candidates[0]
	var parts []string

	if !unique {
		parts = append(parts, fmt.Sprintf("ambiguous: top two scores within %d points", consts.AutoMatchSeparation))
	} else {
		switch top.Band {
		case consts.BandMedium:
			parts = append(parts, "medium confidence")
		case consts.BandLow:
			parts = append(parts, "low confidence")
		default:
			parts = append(parts, "high confidence, not auto-committed")
		}
	}
	if top.AmountMismatch {
		parts = append(parts, "amount mismatch")
	}
	parts = append(parts, fmt.Sprintf("score %d [%s]", top.Score, strings.Join(top.MatchedFields, " ")))
	return strings.Join(parts, "; ")
}

// commitMatch finalizes the association, assigns the confirmation number and
// notifies collaborators. Returns false without error when another worker won
// the conditional write.
func (u *matchingUsecase) commitMatch(ctx context.Context, paymentID, registrationID int64, origin string) (bool, error) {
	committed, err := u.dao.CommitMatch(paymentID, registrationID, origin)
	if err != nil {
		return false, err
	}
	if !committed {
		return false, nil
	}

	code, err := u.assignConfirmation(registrationID)
	if err != nil {
		// The match stands; the confirmation write is retried on the next
		// assignment attempt for this registration.
		log.Errorf("[Resolver] confirmation assignment failed for registration %d: %v", registrationID, err)
	}

	u.notifier.MatchCommitted(ctx, paymentID, registrationID, code)
	return true, nil
}
