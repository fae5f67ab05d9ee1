package model

// ReviewQueueItem holds an ambiguous match awaiting an operator decision.
// Decision transitions only pending -> approved|rejected; terminal is final.
type ReviewQueueItem struct {
	ID             int64  `gorm:"primary_key" json:"id"`
	PaymentID      int64  `gorm:"not null;index" json:"payment_id"`
	RegistrationID int64  `gorm:"not null;index" json:"registration_id"`
	CandidateScore int    `gorm:"not null" json:"candidate_score"`
	MatchedFields  string `gorm:"type:text" json:"matched_fields"` // JSON array
	Reason         string `gorm:"size:255" json:"reason"`
	Decision       string `gorm:"size:20;not null;index" json:"decision"`
	DecidedBy      string `gorm:"size:100" json:"decided_by"`
	DecidedAt      int64  `json:"decided_at"`
	CreateTime     int64  `gorm:"not null" json:"create_time"`
}
