package model

// MatchRunLog tracks one batch matching run. A run is claimed by a worker,
// processed in bounded batches with CurrentCursor advancing past payment ids,
// and finished when a batch comes back empty.
type MatchRunLog struct {
	ID            int64  `gorm:"primary_key" json:"id"`
	Status        int    `gorm:"not null;index" json:"status"`
	TotalPayments int64  `gorm:"not null" json:"total_payments"`
	CurrentCursor int64  `gorm:"not null" json:"current_cursor"`
	Result        string `gorm:"type:text;not null" json:"result"`
	CreateTime    int64  `gorm:"not null" json:"create_time"`
	CreateBy      string `gorm:"size:100;not null" json:"create_by"`
	UpdateTime    int64  `gorm:"not null" json:"update_time"`
	UpdateBy      string `gorm:"size:100;not null" json:"update_by"`
}
