package dao

import (
	"fmt"

	"github.com/danurs/registration-matcher/consts"
	"github.com/danurs/registration-matcher/infra/db/model"
	"github.com/jinzhu/gorm"
)

func (d *dao) CreateReviewQueueItem(item *model.ReviewQueueItem) error {
	if err := d.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create review queue item: %w", err)
	}
	return nil
}

func (d *dao) GetReviewQueueItemByID(queueID int64) (model.ReviewQueueItem, error) {
	var item model.ReviewQueueItem
	if err := d.db.First(&item, queueID).Error; err != nil {
		return item, fmt.Errorf("review queue item not found: %w", err)
	}
	return item, nil
}

func (d *dao) GetPendingReviewItemByPayment(paymentID int64) (model.ReviewQueueItem, bool, error) {
	var item model.ReviewQueueItem
	err := d.db.
		Where("payment_id = ? AND decision = ?", paymentID, consts.DecisionPending).
		First(&item).Error
	if gorm.IsRecordNotFoundError(err) {
		return item, false, nil
	}
	if err != nil {
		return item, false, fmt.Errorf("failed to fetch pending review item: %w", err)
	}
	return item, true, nil
}

func (d *dao) ListReviewQueueItems(decision string, offset, limit int) ([]model.ReviewQueueItem, error) {
	query := d.db.Order("create_time ASC").Offset(offset).Limit(limit)
	if decision != "" {
		query = query.Where("decision = ?", decision)
	}

	var items []model.ReviewQueueItem
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list review queue items: %w", err)
	}
	return items, nil
}

// DecideReviewQueueItem finalizes an item only while it is still pending.
// Single-writer-wins: the losing decision attempt sees false.
func (d *dao) DecideReviewQueueItem(queueID int64, decision, decidedBy string, decidedAt int64) (bool, error) {
	res := d.db.Model(&model.ReviewQueueItem{}).
		Where("id = ? AND decision = ?", queueID, consts.DecisionPending).
		Updates(map[string]interface{}{
			"decision":   decision,
			"decided_by": decidedBy,
			"decided_at": decidedAt,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to decide review queue item: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
