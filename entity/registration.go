package entity

// RawRegistrationPayload is delivered by the registration workflow. External
// ids may be empty: many registrations never capture a processor id and can
// only be matched heuristically.
type RawRegistrationPayload struct {
	RegistrationType string   `json:"registration_type" validate:"required,oneof=individual lodge delegation"`
	TotalAmountMinor int64    `json:"total_amount_minor" validate:"gte=0"`
	Status           string   `json:"status" validate:"required"`
	Processor        string   `json:"processor"`
	ExternalIDs      []string `json:"external_ids"`
	CreatedAt        string   `json:"created_at"`
}
