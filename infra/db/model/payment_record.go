package model

import "encoding/json"

// PaymentRecord is the canonical form of a processor payment. Immutable once
// ingested except for the match annotation columns.
type PaymentRecord struct {
	ID                    int64  `gorm:"primary_key" json:"id"`
	Processor             string `gorm:"size:20;not null;unique_index:uniq_processor_payment" json:"processor"`
	ProcessorPaymentID    string `gorm:"size:100;not null;unique_index:uniq_processor_payment" json:"processor_payment_id"`
	AmountMinor           int64  `gorm:"not null" json:"amount_minor"`
	Currency              string `gorm:"size:3;not null" json:"currency"`
	Status                string `gorm:"size:20;not null" json:"status"`
	OccurredAt            int64  `gorm:"not null;index" json:"occurred_at"`
	ExternalIDs           string `gorm:"type:text" json:"external_ids"` // JSON array
	CustomerEmail         string `gorm:"size:200" json:"customer_email"`
	CustomerName          string `gorm:"size:200" json:"customer_name"`
	AuditNote             string `gorm:"size:255" json:"audit_note"`
	MatchState            string `gorm:"size:20;not null;index" json:"match_state"`
	MatchOrigin           string `gorm:"size:20" json:"match_origin"`
	MatchedRegistrationID *int64 `gorm:"index" json:"matched_registration_id"`
	CreateTime            int64  `gorm:"not null" json:"create_time"`
	UpdateTime            int64  `gorm:"not null" json:"update_time"`
}

func (p *PaymentRecord) ExternalIDList() []string {
	if p.ExternalIDs == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(p.ExternalIDs), &ids); err != nil {
		return nil
	}
	return ids
}

func (p *PaymentRecord) SetExternalIDList(ids []string) {
	if len(ids) == 0 {
		p.ExternalIDs = ""
		return
	}
	b, _ := json.Marshal(ids)
	p.ExternalIDs = string(b)
}
