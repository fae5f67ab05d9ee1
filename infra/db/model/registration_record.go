package model

// RegistrationRecord is created by the registration workflow. Many
// registrations never record a processor id; those can only be matched
// heuristically.
type RegistrationRecord struct {
	ID                 int64  `gorm:"primary_key" json:"id"`
	RegistrationType   string `gorm:"size:20;not null" json:"registration_type"`
	TotalAmountMinor   int64  `gorm:"not null;index" json:"total_amount_minor"`
	Status             string `gorm:"size:20;not null" json:"status"`
	ConfirmationNumber string `gorm:"size:20" json:"confirmation_number"`
	MatchedPaymentID   *int64 `gorm:"index" json:"matched_payment_id"`
	CreateTime         int64  `gorm:"not null;index" json:"create_time"`
	UpdateTime         int64  `gorm:"not null" json:"update_time"`
}

// RegistrationExternalID is a processor identifier captured on a registration
// (intent id, charge id, legacy reference). Kept in a side table so identifier
// lookups are indexed point queries instead of JSON scans.
type RegistrationExternalID struct {
	ID             int64  `gorm:"primary_key" json:"id"`
	RegistrationID int64  `gorm:"not null;index" json:"registration_id"`
	Processor      string `gorm:"size:20;not null" json:"processor"`
	ExternalID     string `gorm:"size:100;not null;unique_index:uniq_reg_external_id" json:"external_id"`
	CreateTime     int64  `gorm:"not null" json:"create_time"`
}
