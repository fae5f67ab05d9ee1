package consts

const (
	// Supported payment processors
	ProcessorStripe = "stripe"
	ProcessorPaypal = "paypal"
	ProcessorSquare = "square"

	// Canonical payment status
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"

	// Payment match states
	MatchStateUnmatched = "unmatched"
	MatchStateQueued    = "queued"
	MatchStateCommitted = "committed"
	MatchStateDuplicate = "duplicate"
	MatchStateError     = "error"

	// How a committed match was decided
	MatchOriginAuto   = "auto"
	MatchOriginReview = "review"

	// Review queue decisions
	DecisionPending  = "pending"
	DecisionApproved = "approved"
	DecisionRejected = "rejected"

	// Error record types
	ErrorTypeUnmatched      = "UNMATCHED"
	ErrorTypeAmountMismatch = "AMOUNT_MISMATCH"
	ErrorTypeDuplicate      = "DUPLICATE"

	// Registration types
	RegistrationTypeIndividual = "individual"
	RegistrationTypeLodge      = "lodge"
	RegistrationTypeDelegation = "delegation"

	// Match run status codes
	StatusInit     = 1
	StatusRunning  = 2
	StatusFinished = 3
)

// Confidence scoring weights. An exact-identifier candidate with equal amount,
// a succeeded payment and a registration created within a day sums to 100.
const (
	WeightIdentifierExact = 50
	WeightIdentifierCross = 25
	WeightAmountExact     = 30
	WeightAmountClose     = 20
	WeightAmountLoose     = 10
	WeightTimeNear        = 15
	WeightTimeFar         = 8
	WeightStatusSucceeded = 5

	ScoreMax = 100

	// Confidence bands
	ThresholdHighConfidence   = 70
	ThresholdMediumConfidence = 40

	BandHigh   = "high"
	BandMedium = "medium"
	BandLow    = "low"

	// Minimum score gap between the top two candidates for auto-match
	AutoMatchSeparation = 10
)

// Signal tolerances
const (
	AmountToleranceClosePct = 5
	AmountToleranceLoosePct = 10
	TimeNearHours           = 24
	TimeFarHours            = 72
)

// Candidate generation bounds
const (
	HeuristicWindowHours        = 72
	HeuristicAmountTolerancePct = 10
	MaxHeuristicCandidates      = 5
)

// Default worker config
const (
	DefaultBatchSize     = 500
	DefaultWorkerNumber  = 1
	DefaultIntervalInSec = 2
)

// ConfirmationPrefixes maps a registration type to its confirmation number prefix.
var ConfirmationPrefixes = map[string]string{
	RegistrationTypeIndividual: "IND",
	RegistrationTypeLodge:      "LDG",
	RegistrationTypeDelegation: "DLG",
}

// DefaultConfirmationPrefix is used when the registration type is unrecognized.
const DefaultConfirmationPrefix = "REG"

// DefaultCurrencies maps a processor to the currency assumed when the payload
// omits one.
var DefaultCurrencies = map[string]string{
	ProcessorStripe: "USD",
	ProcessorPaypal: "USD",
	ProcessorSquare: "USD",
}
