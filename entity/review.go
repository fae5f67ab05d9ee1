package entity

type ReviewDecisionRequest struct {
	QueueID   int64  `json:"queue_id" validate:"required"`
	Decision  string `json:"decision" validate:"required,oneof=approved rejected"`
	DecidedBy string `json:"decided_by" validate:"required"`
}

type ReviewQueueFilter struct {
	Decision string `json:"decision"`
	Offset   int    `json:"offset"`
	Limit    int    `json:"limit"`
}

type CreateMatchRunRequest struct {
	Operator string `json:"operator" validate:"required"`
}

type MarkDuplicateRequest struct {
	PaymentID int64  `json:"payment_id" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
}
