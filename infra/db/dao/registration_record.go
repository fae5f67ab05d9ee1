package dao

import (
	"fmt"
	"time"

	"github.com/danurs/registration-matcher/consts"
	"github.com/danurs/registration-matcher/infra/db/model"
)

func (d *dao) CreateRegistrationRecord(reg *model.RegistrationRecord, externalIDs []string, processor string) error {
	tx := d.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	if err := tx.Create(reg).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create registration: %w", err)
	}

	timeNowUnix := time.Now().Unix()
	for _, externalID := range externalIDs {
		row := model.RegistrationExternalID{
			RegistrationID: reg.ID,
			Processor:      processor,
			ExternalID:     externalID,
			CreateTime:     timeNowUnix,
		}
		if err := tx.Create(&row).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to create registration external id: %w", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit registration: %w", err)
	}
	return nil
}

func (d *dao) GetRegistrationRecordByID(registrationID int64) (model.RegistrationRecord, error) {
	var reg model.RegistrationRecord
	if err := d.db.First(&reg, registrationID).Error; err != nil {
		return reg, fmt.Errorf("registration not found: %w", err)
	}
	return reg, nil
}

func (d *dao) GetRegistrationExternalIDs(registrationID int64) ([]model.RegistrationExternalID, error) {
	var rows []model.RegistrationExternalID
	if err := d.db.Where("registration_id = ?", registrationID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch registration external ids: %w", err)
	}
	return rows, nil
}

// FindRegistrationsByExternalIDs returns every registration holding any of the
// given identifiers, along with the identifier rows grouped per registration so
// the caller can tell same-processor from cross-processor hits.
func (d *dao) FindRegistrationsByExternalIDs(externalIDs []string) ([]model.RegistrationRecord, map[int64][]model.RegistrationExternalID, error) {
	if len(externalIDs) == 0 {
		return nil, nil, nil
	}

	var idRows []model.RegistrationExternalID
	if err := d.db.Where("external_id IN (?)", externalIDs).Find(&idRows).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to look up external ids: %w", err)
	}
	if len(idRows) == 0 {
		return nil, nil, nil
	}

	idsByReg := make(map[int64][]model.RegistrationExternalID)
	regIDs := make([]int64, 0, len(idRows))
	for _, row := range idRows {
		if _, seen := idsByReg[row.RegistrationID]; !seen {
			regIDs = append(regIDs, row.RegistrationID)
		}
		idsByReg[row.RegistrationID] = append(idsByReg[row.RegistrationID], row)
	}

	var regs []model.RegistrationRecord
	if err := d.db.Where("id IN (?)", regIDs).Find(&regs).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to fetch registrations: %w", err)
	}
	return regs, idsByReg, nil
}

// FindRegistrationsInWindow returns the limit registrations closest in time to
// occurredAt. Proximity ordering must happen before the cap, otherwise the
// nearest candidate can fall outside the returned set.
func (d *dao) FindRegistrationsInWindow(occurredAt, startTime, endTime, amountMin, amountMax int64, limit int) ([]model.RegistrationRecord, error) {
	var regs []model.RegistrationRecord
	if err := d.db.
		Where("create_time BETWEEN ? AND ?", startTime, endTime).
		Where("total_amount_minor BETWEEN ? AND ?", amountMin, amountMax).
		Where("matched_payment_id IS NULL").
		Order(fmt.Sprintf("ABS(create_time - %d) ASC, id ASC", occurredAt)).
		Limit(limit).
		Find(&regs).Error; err != nil {
		return nil, fmt.Errorf("failed to search registrations in window: %w", err)
	}
	return regs, nil
}

// AssignConfirmationNumber sets the code only if none exists yet, so the write
// is safe under concurrent retries. Returns the code actually on the record.
func (d *dao) AssignConfirmationNumber(registrationID int64, code string) (string, error) {
	res := d.db.Model(&model.RegistrationRecord{}).
		Where("id = ? AND (confirmation_number IS NULL OR confirmation_number = '')", registrationID).
		Updates(map[string]interface{}{
			"confirmation_number": code,
			"update_time":         time.Now().Unix(),
		})
	if res.Error != nil {
		return "", fmt.Errorf("failed to assign confirmation number: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return code, nil
	}

	reg, err := d.GetRegistrationRecordByID(registrationID)
	if err != nil {
		return "", err
	}
	return reg.ConfirmationNumber, nil
}

// CommitMatch finalizes a payment-registration association. Both sides are
// updated in one transaction with conditional writes; a lost race on either
// side rolls back and returns false.
func (d *dao) CommitMatch(paymentID, registrationID int64, origin string) (bool, error) {
	tx := d.db.Begin()
	if tx.Error != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	timeNowUnix := time.Now().Unix()

	res := tx.Model(&model.PaymentRecord{}).
		Where("id = ? AND match_state IN (?)", paymentID,
			[]string{consts.MatchStateUnmatched, consts.MatchStateQueued, consts.MatchStateError}).
		Updates(map[string]interface{}{
			"match_state":             consts.MatchStateCommitted,
			"match_origin":            origin,
			"matched_registration_id": registrationID,
			"update_time":             timeNowUnix,
		})
	if res.Error != nil {
		tx.Rollback()
		return false, fmt.Errorf("failed to commit payment side: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return false, nil
	}

	res = tx.Model(&model.RegistrationRecord{}).
		Where("id = ? AND matched_payment_id IS NULL", registrationID).
		Updates(map[string]interface{}{
			"matched_payment_id": paymentID,
			"update_time":        timeNowUnix,
		})
	if res.Error != nil {
		tx.Rollback()
		return false, fmt.Errorf("failed to commit registration side: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return false, nil
	}

	if err := tx.Commit().Error; err != nil {
		return false, fmt.Errorf("failed to commit match transaction: %w", err)
	}
	return true, nil
}
