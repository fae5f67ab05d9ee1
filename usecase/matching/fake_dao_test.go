package matching

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/danurs/registration-matcher/consts"
	"github.com/danurs/registration-matcher/infra/db/model"
	"github.com/danurs/registration-matcher/infra/locker"
)

// fakeDao is an in-memory DaoMethod with the same conditional-write semantics
// as the real storage layer, so the state machines can be tested without a
// database.
type fakeDao struct {
	mu             sync.Mutex
	payments       map[int64]*model.PaymentRecord
	registrations  map[int64]*model.RegistrationRecord
	regExternalIDs []model.RegistrationExternalID
	reviewItems    map[int64]*model.ReviewQueueItem
	errorRecords   map[int64]*model.ErrorRecord
	runLogs        map[int64]*model.MatchRunLog
	nextID         int64
}

func newFakeDao() *fakeDao {
	return &fakeDao{
		payments:      make(map[int64]*model.PaymentRecord),
		registrations: make(map[int64]*model.RegistrationRecord),
		reviewItems:   make(map[int64]*model.ReviewQueueItem),
		errorRecords:  make(map[int64]*model.ErrorRecord),
		runLogs:       make(map[int64]*model.MatchRunLog),
	}
}

func newTestUsecase() (*matchingUsecase, *fakeDao) {
	fake := newFakeDao()
	uc := &matchingUsecase{
		dao:       fake,
		locker:    locker.New(),
		notifier:  logNotifier{},
		batchSize: consts.DefaultBatchSize,
	}
	return uc, fake
}

func (f *fakeDao) allocID() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeDao) CreatePaymentRecord(payment *model.PaymentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	payment.ID = f.allocID()
	clone := *payment
	f.payments[payment.ID] = &clone
	return nil
}

func (f *fakeDao) GetPaymentRecordByID(paymentID int64) (model.PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[paymentID]
	if !ok {
		return model.PaymentRecord{}, fmt.Errorf("payment not found: %d", paymentID)
	}
	return *p, nil
}

func (f *fakeDao) GetPaymentRecordByProcessorID(processor, processorPaymentID string) (model.PaymentRecord, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.Processor == processor && p.ProcessorPaymentID == processorPaymentID {
			return *p, true, nil
		}
	}
	return model.PaymentRecord{}, false, nil
}

func (f *fakeDao) GetUnmatchedPaymentsAfter(cursor int64, limit int) ([]model.PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.PaymentRecord
	for _, p := range f.payments {
		if p.MatchState == consts.MatchStateUnmatched && p.ID > cursor {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeDao) CountUnmatchedPayments() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, p := range f.payments {
		if p.MatchState == consts.MatchStateUnmatched {
			count++
		}
	}
	return count, nil
}

func (f *fakeDao) CountPaymentsByMatchState() (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int64)
	for _, p := range f.payments {
		counts[p.MatchState]++
	}
	return counts, nil
}

func (f *fakeDao) UpdatePaymentMatchState(paymentID int64, fromStates []string, toState string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[paymentID]
	if !ok {
		return false, nil
	}
	for _, from := range fromStates {
		if p.MatchState == from {
			p.MatchState = toState
			p.UpdateTime = time.Now().Unix()
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDao) CreateRegistrationRecord(reg *model.RegistrationRecord, externalIDs []string, processor string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg.ID = f.allocID()
	clone := *reg
	f.registrations[reg.ID] = &clone
	for _, externalID := range externalIDs {
		f.regExternalIDs = append(f.regExternalIDs, model.RegistrationExternalID{
			ID:             f.allocID(),
			RegistrationID: reg.ID,
			Processor:      processor,
			ExternalID:     externalID,
			CreateTime:     time.Now().Unix(),
		})
	}
	return nil
}

func (f *fakeDao) GetRegistrationRecordByID(registrationID int64) (model.RegistrationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.registrations[registrationID]
	if !ok {
		return model.RegistrationRecord{}, fmt.Errorf("registration not found: %d", registrationID)
	}
	return *r, nil
}

func (f *fakeDao) GetRegistrationExternalIDs(registrationID int64) ([]model.RegistrationExternalID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.RegistrationExternalID
	for _, row := range f.regExternalIDs {
		if row.RegistrationID == registrationID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeDao) FindRegistrationsByExternalIDs(externalIDs []string) ([]model.RegistrationRecord, map[int64][]model.RegistrationExternalID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[string]bool, len(externalIDs))
	for _, id := range externalIDs {
		wanted[id] = true
	}

	idsByReg := make(map[int64][]model.RegistrationExternalID)
	var regIDs []int64
	for _, row := range f.regExternalIDs {
		if !wanted[row.ExternalID] {
			continue
		}
		if _, seen := idsByReg[row.RegistrationID]; !seen {
			regIDs = append(regIDs, row.RegistrationID)
		}
		idsByReg[row.RegistrationID] = append(idsByReg[row.RegistrationID], row)
	}

	var regs []model.RegistrationRecord
	for _, id := range regIDs {
		if r, ok := f.registrations[id]; ok {
			regs = append(regs, *r)
		}
	}
	if len(regs) == 0 {
		return nil, nil, nil
	}
	return regs, idsByReg, nil
}

func (f *fakeDao) FindRegistrationsInWindow(occurredAt, startTime, endTime, amountMin, amountMax int64, limit int) ([]model.RegistrationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.RegistrationRecord
	for _, r := range f.registrations {
		if r.MatchedPaymentID != nil {
			continue
		}
		if r.CreateTime < startTime || r.CreateTime > endTime {
			continue
		}
		if r.TotalAmountMinor < amountMin || r.TotalAmountMinor > amountMax {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		di := abs64(out[i].CreateTime - occurredAt)
		dj := abs64(out[j].CreateTime - occurredAt)
		if di != dj {
			return di < dj
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeDao) AssignConfirmationNumber(registrationID int64, code string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.registrations[registrationID]
	if !ok {
		return "", fmt.Errorf("registration not found: %d", registrationID)
	}
	if r.ConfirmationNumber != "" {
		return r.ConfirmationNumber, nil
	}
	r.ConfirmationNumber = code
	return code, nil
}

func (f *fakeDao) CommitMatch(paymentID, registrationID int64, origin string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[paymentID]
	if !ok {
		return false, fmt.Errorf("payment not found: %d", paymentID)
	}
	r, ok := f.registrations[registrationID]
	if !ok {
		return false, fmt.Errorf("registration not found: %d", registrationID)
	}

	committable := p.MatchState == consts.MatchStateUnmatched ||
		p.MatchState == consts.MatchStateQueued ||
		p.MatchState == consts.MatchStateError
	if !committable || r.MatchedPaymentID != nil {
		return false, nil
	}

	timeNowUnix := time.Now().Unix()
	p.MatchState = consts.MatchStateCommitted
	p.MatchOrigin = origin
	p.MatchedRegistrationID = &registrationID
	p.UpdateTime = timeNowUnix
	r.MatchedPaymentID = &paymentID
	r.UpdateTime = timeNowUnix
	return true, nil
}

func (f *fakeDao) CreateReviewQueueItem(item *model.ReviewQueueItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item.ID = f.allocID()
	clone := *item
	f.reviewItems[item.ID] = &clone
	return nil
}

func (f *fakeDao) GetReviewQueueItemByID(queueID int64) (model.ReviewQueueItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.reviewItems[queueID]
	if !ok {
		return model.ReviewQueueItem{}, fmt.Errorf("review item not found: %d", queueID)
	}
	return *item, nil
}

func (f *fakeDao) GetPendingReviewItemByPayment(paymentID int64) (model.ReviewQueueItem, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.reviewItems {
		if item.PaymentID == paymentID && item.Decision == consts.DecisionPending {
			return *item, true, nil
		}
	}
	return model.ReviewQueueItem{}, false, nil
}

func (f *fakeDao) ListReviewQueueItems(decision string, offset, limit int) ([]model.ReviewQueueItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ReviewQueueItem
	for _, item := range f.reviewItems {
		if decision == "" || item.Decision == decision {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeDao) DecideReviewQueueItem(queueID int64, decision, decidedBy string, decidedAt int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.reviewItems[queueID]
	if !ok || item.Decision != consts.DecisionPending {
		return false, nil
	}
	item.Decision = decision
	item.DecidedBy = decidedBy
	item.DecidedAt = decidedAt
	return true, nil
}

func (f *fakeDao) CreateErrorRecord(rec *model.ErrorRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec.ID = f.allocID()
	clone := *rec
	f.errorRecords[rec.ID] = &clone
	return nil
}

func (f *fakeDao) GetErrorRecords() ([]model.ErrorRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ErrorRecord
	for _, rec := range f.errorRecords {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeDao) GetErrorRecordByPayment(paymentID int64) (model.ErrorRecord, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.errorRecords {
		if rec.PaymentID == paymentID {
			return *rec, true, nil
		}
	}
	return model.ErrorRecord{}, false, nil
}

func (f *fakeDao) DeleteErrorRecord(errorID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.errorRecords, errorID)
	return nil
}

func (f *fakeDao) CreateMatchRunLog(logEntry *model.MatchRunLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	logEntry.ID = f.allocID()
	clone := *logEntry
	f.runLogs[logEntry.ID] = &clone
	return nil
}

func (f *fakeDao) GetMatchRunLogByID(logID int64) (model.MatchRunLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	logEntry, ok := f.runLogs[logID]
	if !ok {
		return model.MatchRunLog{}, fmt.Errorf("run log not found: %d", logID)
	}
	return *logEntry, nil
}

func (f *fakeDao) GetMatchRunLogsByStatusList(statusList []int) ([]model.MatchRunLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.MatchRunLog
	for _, logEntry := range f.runLogs {
		for _, status := range statusList {
			if logEntry.Status == status {
				out = append(out, *logEntry)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreateTime < out[j].CreateTime })
	return out, nil
}

func (f *fakeDao) GetMatchRunLogs() ([]model.MatchRunLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.MatchRunLog
	for _, logEntry := range f.runLogs {
		out = append(out, *logEntry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreateTime > out[j].CreateTime })
	return out, nil
}

func (f *fakeDao) UpdateMatchRunLog(logEntry model.MatchRunLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := logEntry
	f.runLogs[logEntry.ID] = &clone
	return nil
}
