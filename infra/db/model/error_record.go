package model

// ErrorRecord marks a payment that could not be matched. Superseded by the
// janitor once the underlying payment later matches; DUPLICATE records stay
// as the audit trail.
type ErrorRecord struct {
	ID         int64  `gorm:"primary_key" json:"id"`
	PaymentID  int64  `gorm:"not null;index" json:"payment_id"`
	ErrorType  string `gorm:"size:30;not null" json:"error_type"`
	Context    string `gorm:"type:text" json:"context"`
	CreateTime int64  `gorm:"not null" json:"create_time"`
}
