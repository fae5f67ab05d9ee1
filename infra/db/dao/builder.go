package dao

import (
	"github.com/danurs/registration-matcher/infra/db/model"

	"github.com/jinzhu/gorm"
)

type DaoMethod interface {
	CreatePaymentRecord(payment *model.PaymentRecord) error
	GetPaymentRecordByID(paymentID int64) (model.PaymentRecord, error)
	GetPaymentRecordByProcessorID(processor, processorPaymentID string) (model.PaymentRecord, bool, error)
	GetUnmatchedPaymentsAfter(cursor int64, limit int) ([]model.PaymentRecord, error)
	CountUnmatchedPayments() (int64, error)
	CountPaymentsByMatchState() (map[string]int64, error)
	UpdatePaymentMatchState(paymentID int64, fromStates []string, toState string) (bool, error)

	CreateRegistrationRecord(reg *model.RegistrationRecord, externalIDs []string, processor string) error
	GetRegistrationRecordByID(registrationID int64) (model.RegistrationRecord, error)
	GetRegistrationExternalIDs(registrationID int64) ([]model.RegistrationExternalID, error)
	FindRegistrationsByExternalIDs(externalIDs []string) ([]model.RegistrationRecord, map[int64][]model.RegistrationExternalID, error)
	FindRegistrationsInWindow(occurredAt, startTime, endTime, amountMin, amountMax int64, limit int) ([]model.RegistrationRecord, error)
	AssignConfirmationNumber(registrationID int64, code string) (string, error)
	CommitMatch(paymentID, registrationID int64, origin string) (bool, error)

	CreateReviewQueueItem(item *model.ReviewQueueItem) error
	GetReviewQueueItemByID(queueID int64) (model.ReviewQueueItem, error)
	GetPendingReviewItemByPayment(paymentID int64) (model.ReviewQueueItem, bool, error)
	ListReviewQueueItems(decision string, offset, limit int) ([]model.ReviewQueueItem, error)
	DecideReviewQueueItem(queueID int64, decision, decidedBy string, decidedAt int64) (bool, error)

	CreateErrorRecord(rec *model.ErrorRecord) error
	GetErrorRecords() ([]model.ErrorRecord, error)
	GetErrorRecordByPayment(paymentID int64) (model.ErrorRecord, bool, error)
	DeleteErrorRecord(errorID int64) error

	CreateMatchRunLog(logEntry *model.MatchRunLog) error
	GetMatchRunLogByID(logID int64) (model.MatchRunLog, error)
	GetMatchRunLogsByStatusList(statusList []int) ([]model.MatchRunLog, error)
	GetMatchRunLogs() ([]model.MatchRunLog, error)
	UpdateMatchRunLog(logEntry model.MatchRunLog) error
}

type dao struct {
	db *gorm.DB
}

func NewDaoMethod(db *gorm.DB) DaoMethod {
	return &dao{db: db}
}
