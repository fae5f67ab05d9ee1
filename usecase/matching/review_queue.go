package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/danurs/registration-matcher/consts"
	"github.com/danurs/registration-matcher/entity"
	"github.com/danurs/registration-matcher/infra/db/model"

	"github.com/labstack/gommon/log"
)

func (u *matchingUsecase) ListReviewQueue(ctx context.Context, filter entity.ReviewQueueFilter) ([]model.ReviewQueueItem, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return u.dao.ListReviewQueueItems(filter.Decision, filter.Offset, limit)
}

// DecideReview applies an operator decision. Approval commits exactly as an
// auto-match would and is idempotent: a second approval of the same item
// returns ErrStaleDecision instead of overwriting. Rejection returns the
// payment to unmatched so it can be re-evaluated on the next pass.
func (u *matchingUsecase) DecideReview(ctx context.Context, req entity.ReviewDecisionRequest) error {
	item, err := u.dao.GetReviewQueueItemByID(req.QueueID)
	if err != nil {
		return err
	}
	if item.Decision != consts.DecisionPending {
		return fmt.Errorf("queue item %d already %s: %w", item.ID, item.Decision, entity.ErrStaleDecision)
	}

	decidedAt := time.Now().Unix()

	switch req.Decision {
	case consts.DecisionApproved:
		committed, err := u.commitMatch(ctx, item.PaymentID, item.RegistrationID, consts.MatchOriginReview)
		if err != nil {
			return err
		}
		if !committed {
			// The batch pipeline (or another operator) matched the underlying
			// records in the interim.
			return fmt.Errorf("payment %d no longer committable: %w", item.PaymentID, entity.ErrStaleDecision)
		}

		decided, err := u.dao.DecideReviewQueueItem(item.ID, consts.DecisionApproved, req.DecidedBy, decidedAt)
		if err != nil {
			return err
		}
		if !decided {
			return fmt.Errorf("queue item %d decided concurrently: %w", item.ID, entity.ErrStaleDecision)
		}
		log.Infof("[Review] item %d approved by %s (payment %d -> registration %d)",
			item.ID, req.DecidedBy, item.PaymentID, item.RegistrationID)
		return nil

	case consts.DecisionRejected:
		// Payment side first, mirroring the approve path's commit-first order.
		// A lost race here leaves the item pending so the operator re-fetches a
		// consistent view instead of finding a rejected item on a committed
		// payment.
		moved, err := u.dao.UpdatePaymentMatchState(item.PaymentID,
			[]string{consts.MatchStateQueued}, consts.MatchStateUnmatched)
		if err != nil {
			return err
		}
		if !moved {
			return fmt.Errorf("payment %d state changed during rejection: %w", item.PaymentID, entity.ErrStaleDecision)
		}

		decided, err := u.dao.DecideReviewQueueItem(item.ID, consts.DecisionRejected, req.DecidedBy, decidedAt)
		if err != nil {
			return err
		}
		if !decided {
			return fmt.Errorf("queue item %d decided concurrently: %w", item.ID, entity.ErrStaleDecision)
		}
		log.Infof("[Review] item %d rejected by %s, payment %d returned to unmatched",
			item.ID, req.DecidedBy, item.PaymentID)
		return nil

	default:
		return fmt.Errorf("unknown decision %q", req.Decision)
	}
}
