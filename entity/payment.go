package entity

// RawPaymentPayload is what a processor source adapter delivers. Amount shapes
// vary per processor: a string that may carry a currency symbol ("$139.01"),
// a float of major units, or integer minor units in AmountMinor.
type RawPaymentPayload struct {
	ID            string   `json:"id" validate:"required"`
	Processor     string   `json:"processor" validate:"required,oneof=stripe paypal square"`
	Amount        any      `json:"amount"`
	AmountMinor   *int64   `json:"amount_minor"`
	Currency      string   `json:"currency"`
	Status        string   `json:"status" validate:"required"`
	OccurredAt    string   `json:"occurred_at" validate:"required"`
	ExternalIDs   []string `json:"external_ids"`
	CustomerEmail string   `json:"customer_email"`
	CustomerName  string   `json:"customer_name"`
}

// MatchCandidate is a registration considered as a possible match for one
// payment. Transient: only the resolution outcome is persisted.
type MatchCandidate struct {
	PaymentID      int64    `json:"payment_id"`
	RegistrationID int64    `json:"registration_id"`
	Score          int      `json:"score"`
	Band           string   `json:"band"`
	MatchedFields  []string `json:"matched_fields"`
	AmountMismatch bool     `json:"amount_mismatch"`
}

// MatchRunSummary is the cumulative result stored on a match run log.
type MatchRunSummary struct {
	Processed   int64 `json:"processed"`
	AutoMatched int64 `json:"auto_matched"`
	Queued      int64 `json:"queued"`
	Errored     int64 `json:"errored"`
	Skipped     int64 `json:"skipped"`
	Failed      int64 `json:"failed"`
}
