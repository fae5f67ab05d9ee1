package entity

import (
	"errors"
	"fmt"
)

// ErrStaleDecision is returned when a review decision lands on an item that is
// already terminal, or whose underlying records were matched by the batch
// pipeline in the interim. The operator must re-fetch.
var ErrStaleDecision = errors.New("stale decision")

// ErrDuplicatePayment marks a payment explicitly identified as a re-submission.
// Such payments are terminal and excluded from all matching.
var ErrDuplicatePayment = errors.New("duplicate payment")

// NormalizationError means a raw processor payload could not be converted to a
// canonical payment record. The payload is logged and skipped, never coerced.
type NormalizationError struct {
	Field  string
	Reason string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalization failed on %s: %s", e.Field, e.Reason)
}
