package matching

import (
	"context"

	"github.com/danurs/registration-matcher/consts"
	"github.com/danurs/registration-matcher/entity"
	"github.com/danurs/registration-matcher/infra/db/dao"
	"github.com/danurs/registration-matcher/infra/db/model"
	"github.com/danurs/registration-matcher/infra/locker"

	"github.com/jinzhu/gorm"
	"github.com/labstack/gommon/log"
)

type MatchingUsecase interface {
	IngestPayment(ctx context.Context, raw entity.RawPaymentPayload) (*model.PaymentRecord, error)
	IngestRegistration(ctx context.Context, raw entity.RawRegistrationPayload) (*model.RegistrationRecord, error)

	ResolvePayment(ctx context.Context, payment model.PaymentRecord) (string, error)

	ListReviewQueue(ctx context.Context, filter entity.ReviewQueueFilter) ([]model.ReviewQueueItem, error)
	DecideReview(ctx context.Context, req entity.ReviewDecisionRequest) error

	RunJanitor(ctx context.Context) (JanitorSummary, error)
	MarkDuplicate(ctx context.Context, paymentID int64, reason string) error

	CreateMatchRun(ctx context.Context, operator string) (*model.MatchRunLog, error)
	GetMatchRunResult(ctx context.Context, runID int64) (model.MatchRunLog, error)
	GetMatchRunResults(ctx context.Context) ([]model.MatchRunLog, error)
	MatchStateCounts(ctx context.Context) (map[string]int64, error)

	TryAcquireRun(ctx context.Context) (bool, int64, error)
	ReleaseRun(ctx context.Context, runID int64)
	ProcessMatchJob(ctx context.Context, runID int64) error
}

// MatchNotifier receives committed matches. Invoked only after the two-sided
// commit succeeded; failures here never unwind the match.
type MatchNotifier interface {
	MatchCommitted(ctx context.Context, paymentID, registrationID int64, confirmationNumber string)
}

type logNotifier struct{}

func (logNotifier) MatchCommitted(ctx context.Context, paymentID, registrationID int64, confirmationNumber string) {
	log.Infof("[Notify] match committed payment_id=%d registration_id=%d confirmation=%s",
		paymentID, registrationID, confirmationNumber)
}

type matchingUsecase struct {
	dao       dao.DaoMethod
	locker    *locker.Locker
	notifier  MatchNotifier
	batchSize int
}

func NewMatchingUsecase(db *gorm.DB, lk *locker.Locker) MatchingUsecase {
	return &matchingUsecase{
		dao:       dao.NewDaoMethod(db),
		locker:    lk,
		notifier:  logNotifier{},
		batchSize: consts.DefaultBatchSize,
	}
}

// NewMatchingUsecaseWithNotifier wires a real invoice/notification collaborator.
func NewMatchingUsecaseWithNotifier(db *gorm.DB, lk *locker.Locker, notifier MatchNotifier) MatchingUsecase {
	return &matchingUsecase{
		dao:       dao.NewDaoMethod(db),
		locker:    lk,
		notifier:  notifier,
		batchSize: consts.DefaultBatchSize,
	}
}
