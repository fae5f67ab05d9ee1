package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/danurs/registration-matcher/consts"
	"github.com/danurs/registration-matcher/entity"
	"github.com/danurs/registration-matcher/infra/db/model"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
)

// Per-processor status vocabularies mapped into the canonical enum.
var processorStatusTables = map[string]map[string]string{
	consts.ProcessorStripe: {
		"succeeded":               consts.PaymentStatusSucceeded,
		"processing":              consts.PaymentStatusPending,
		"requires_payment_method": consts.PaymentStatusPending,
		"requires_action":         consts.PaymentStatusPending,
		"canceled":                consts.PaymentStatusFailed,
		"refunded":                consts.PaymentStatusRefunded,
	},
	consts.ProcessorPaypal: {
		"COMPLETED":          consts.PaymentStatusSucceeded,
		"PENDING":            consts.PaymentStatusPending,
		"DENIED":             consts.PaymentStatusFailed,
		"FAILED":             consts.PaymentStatusFailed,
		"REFUNDED":           consts.PaymentStatusRefunded,
		"PARTIALLY_REFUNDED": consts.PaymentStatusRefunded,
	},
	consts.ProcessorSquare: {
		"COMPLETED": consts.PaymentStatusSucceeded,
		"APPROVED":  consts.PaymentStatusPending,
		"PENDING":   consts.PaymentStatusPending,
		"FAILED":    consts.PaymentStatusFailed,
		"CANCELED":  consts.PaymentStatusFailed,
	},
}

// NormalizePayment converts a raw processor payload into the canonical record.
// No partial writes: the caller persists the returned record or nothing.
func NormalizePayment(raw entity.RawPaymentPayload) (*model.PaymentRecord, error) {
	if raw.ID == "" {
		return nil, &entity.NormalizationError{Field: "id", Reason: "missing"}
	}
	if _, known := processorStatusTables[raw.Processor]; !known {
		return nil, &entity.NormalizationError{Field: "processor", Reason: fmt.Sprintf("unknown processor %q", raw.Processor)}
	}

	amountMinor, err := parseAmountMinor(raw)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(raw.Currency))
	if currency == "" {
		currency = consts.DefaultCurrencies[raw.Processor]
	}
	if len(currency) != 3 {
		return nil, &entity.NormalizationError{Field: "currency", Reason: fmt.Sprintf("invalid currency %q", raw.Currency)}
	}

	occurredAt, err := time.Parse(time.RFC3339, raw.OccurredAt)
	if err != nil {
		return nil, &entity.NormalizationError{Field: "occurred_at", Reason: fmt.Sprintf("invalid timestamp %q", raw.OccurredAt)}
	}

	status, auditNote := canonicalStatus(raw.Processor, raw.Status)

	timeNowUnix := time.Now().Unix()
	payment := &model.PaymentRecord{
		Processor:          raw.Processor,
		ProcessorPaymentID: raw.ID,
		AmountMinor:        amountMinor,
		Currency:           currency,
		Status:             status,
		OccurredAt:         occurredAt.Unix(),
		CustomerEmail:      strings.TrimSpace(raw.CustomerEmail),
		CustomerName:       strings.TrimSpace(raw.CustomerName),
		AuditNote:          auditNote,
		MatchState:         consts.MatchStateUnmatched,
		CreateTime:         timeNowUnix,
		UpdateTime:         timeNowUnix,
	}
	payment.SetExternalIDList(raw.ExternalIDs)
	return payment, nil
}

// canonicalStatus maps a processor status string into the canonical enum.
// Unrecognized values map to pending and are flagged for audit, not dropped.
func canonicalStatus(processor, rawStatus string) (status, auditNote string) {
	table := processorStatusTables[processor]
	if mapped, ok := table[rawStatus]; ok {
		return mapped, ""
	}
	note := fmt.Sprintf("unrecognized %s status %q mapped to pending", processor, rawStatus)
	log.Warnf("[Normalizer] %s", note)
	return consts.PaymentStatusPending, note
}

// parseAmountMinor accepts the three shapes processors deliver: integer minor
// units, a float of major units, or a string that may carry a currency symbol.
func parseAmountMinor(raw entity.RawPaymentPayload) (int64, error) {
	if raw.AmountMinor != nil {
		return *raw.AmountMinor, nil
	}

	switch v := raw.Amount.(type) {
	case string:
		return parseAmountString(v)
	case json.Number:
		return parseAmountString(v.String())
	case float64:
		shifted := decimal.NewFromFloat(v).Shift(2)
		if !shifted.Equal(shifted.Truncate(0)) {
			return 0, &entity.NormalizationError{Field: "amount", Reason: fmt.Sprintf("amount %v has fractional minor units", v)}
		}
		return shifted.IntPart(), nil
	case nil:
		return 0, &entity.NormalizationError{Field: "amount", Reason: "missing"}
	default:
		return 0, &entity.NormalizationError{Field: "amount", Reason: fmt.Sprintf("unsupported amount type %T", raw.Amount)}
	}
}

func parseAmountString(s string) (int64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.NewReplacer("$", "", "€", "", "£", "", ",", "", " ", "").Replace(cleaned)
	if cleaned == "" {
		return 0, &entity.NormalizationError{Field: "amount", Reason: "empty amount string"}
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, &entity.NormalizationError{Field: "amount", Reason: fmt.Sprintf("unparseable amount %q", s)}
	}

	shifted := d.Shift(2)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, &entity.NormalizationError{Field: "amount", Reason: fmt.Sprintf("amount %q has fractional minor units", s)}
	}
	return shifted.IntPart(), nil
}

func (u *matchingUsecase) IngestPayment(ctx context.Context, raw entity.RawPaymentPayload) (*model.PaymentRecord, error) {
	existing, found, err := u.dao.GetPaymentRecordByProcessorID(raw.Processor, raw.ID)
	if err != nil {
		return nil, err
	}
	if found {
		log.Infof("[Ingest] payment %s/%s already ingested, skipping", raw.Processor, raw.ID)
		return &existing, nil
	}

	payment, err := NormalizePayment(raw)
	if err != nil {
		return nil, err
	}

	if err := u.dao.CreatePaymentRecord(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (u *matchingUsecase) IngestRegistration(ctx context.Context, raw entity.RawRegistrationPayload) (*model.RegistrationRecord, error) {
	createdAt := time.Now()
	if raw.CreatedAt != "" {
		parsed, err := time.Parse(time.RFC3339, raw.CreatedAt)
		if err != nil {
			return nil, &entity.NormalizationError{Field: "created_at", Reason: fmt.Sprintf("invalid timestamp %q", raw.CreatedAt)}
		}
		createdAt = parsed
	}

	reg := &model.RegistrationRecord{
		RegistrationType: raw.RegistrationType,
		TotalAmountMinor: raw.TotalAmountMinor,
		Status:           raw.Status,
		CreateTime:       createdAt.Unix(),
		UpdateTime:       time.Now().Unix(),
	}
	if err := u.dao.CreateRegistrationRecord(reg, raw.ExternalIDs, raw.Processor); err != nil {
		return nil, err
	}
	return reg, nil
}
