package dao

import (
	"fmt"
	"time"

	"github.com/danurs/registration-matcher/consts"
	"github.com/danurs/registration-matcher/infra/db/model"
	"github.com/jinzhu/gorm"
)

func (d *dao) CreatePaymentRecord(payment *model.PaymentRecord) error {
	if err := d.db.Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment record: %w", err)
	}
	return nil
}

func (d *dao) GetPaymentRecordByID(paymentID int64) (model.PaymentRecord, error) {
	var payment model.PaymentRecord
	if err := d.db.First(&payment, paymentID).Error; err != nil {
		return payment, fmt.Errorf("payment not found: %w", err)
	}
	return payment, nil
}

func (d *dao) GetPaymentRecordByProcessorID(processor, processorPaymentID string) (model.PaymentRecord, bool, error) {
	var payment model.PaymentRecord
	err := d.db.
		Where("processor = ? AND processor_payment_id = ?", processor, processorPaymentID).
		First(&payment).Error
	if gorm.IsRecordNotFoundError(err) {
		return payment, false, nil
	}
	if err != nil {
		return payment, false, fmt.Errorf("failed to fetch payment: %w", err)
	}
	return payment, true, nil
}

func (d *dao) GetUnmatchedPaymentsAfter(cursor int64, limit int) ([]model.PaymentRecord, error) {
	var payments []model.PaymentRecord
	if err := d.db.
		Where("match_state = ? AND id > ?", consts.MatchStateUnmatched, cursor).
		Order("id ASC").
		Limit(limit).
		Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch unmatched payments: %w", err)
	}
	return payments, nil
}

func (d *dao) CountUnmatchedPayments() (int64, error) {
	var count int64
	if err := d.db.Model(&model.PaymentRecord{}).
		Where("match_state = ?", consts.MatchStateUnmatched).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count unmatched payments: %w", err)
	}
	return count, nil
}

func (d *dao) CountPaymentsByMatchState() (map[string]int64, error) {
	type stateCount struct {
		MatchState string
		Total      int64
	}
	var rows []stateCount
	if err := d.db.Model(&model.PaymentRecord{}).
		Select("match_state, COUNT(*) AS total").
		Group("match_state").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count payments by match state: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.MatchState] = row.Total
	}
	return counts, nil
}

// UpdatePaymentMatchState is the conditional-write primitive guarding every
// state transition. Returns false when the payment was no longer in one of
// fromStates, i.e. another worker won the race.
func (d *dao) UpdatePaymentMatchState(paymentID int64, fromStates []string, toState string) (bool, error) {
	res := d.db.Model(&model.PaymentRecord{}).
		Where("id = ? AND match_state IN (?)", paymentID, fromStates).
		Updates(map[string]interface{}{
			"match_state": toState,
			"update_time": time.Now().Unix(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to update payment match state: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
