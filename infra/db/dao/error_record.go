package dao

import (
	"fmt"

	"github.com/danurs/registration-matcher/infra/db/model"
	"github.com/jinzhu/gorm"
)

func (d *dao) CreateErrorRecord(rec *model.ErrorRecord) error {
	if err := d.db.Create(rec).Error; err != nil {
		return fmt.Errorf("failed to create error record: %w", err)
	}
	return nil
}

func (d *dao) GetErrorRecords() ([]model.ErrorRecord, error) {
	var records []model.ErrorRecord
	if err := d.db.Order("create_time ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch error records: %w", err)
	}
	return records, nil
}

func (d *dao) GetErrorRecordByPayment(paymentID int64) (model.ErrorRecord, bool, error) {
	var rec model.ErrorRecord
	err := d.db.Where("payment_id = ?", paymentID).First(&rec).Error
	if gorm.IsRecordNotFoundError(err) {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, fmt.Errorf("failed to fetch error record: %w", err)
	}
	return rec, true, nil
}

func (d *dao) DeleteErrorRecord(errorID int64) error {
	if err := d.db.Delete(&model.ErrorRecord{}, errorID).Error; err != nil {
		return fmt.Errorf("failed to delete error record: %w", err)
	}
	return nil
}
