package dao

import (
	"fmt"

	"github.com/danurs/registration-matcher/infra/db/model"
)

func (d *dao) CreateMatchRunLog(logEntry *model.MatchRunLog) error {
	if err := d.db.Create(logEntry).Error; err != nil {
		return fmt.Errorf("failed to create match run log: %w", err)
	}
	return nil
}

func (d *dao) GetMatchRunLogByID(logID int64) (model.MatchRunLog, error) {
	var logEntry model.MatchRunLog
	if err := d.db.First(&logEntry, logID).Error; err != nil {
		return logEntry, fmt.Errorf("match run log not found: %w", err)
	}
	return logEntry, nil
}

func (d *dao) GetMatchRunLogsByStatusList(statusList []int) ([]model.MatchRunLog, error) {
	var logs []model.MatchRunLog
	if err := d.db.
		Select("id").
		Where("status IN (?)", statusList).
		Order("create_time ASC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch match run logs: %w", err)
	}
	return logs, nil
}

func (d *dao) GetMatchRunLogs() ([]model.MatchRunLog, error) {
	var logs []model.MatchRunLog
	if err := d.db.Order("create_time DESC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch match run logs: %w", err)
	}
	return logs, nil
}

func (d *dao) UpdateMatchRunLog(logEntry model.MatchRunLog) error {
	if err := d.db.Save(&logEntry).Error; err != nil {
		return fmt.Errorf("failed to update match run log: %w", err)
	}
	return nil
}
