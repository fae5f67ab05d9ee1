package matching

import (
	"github.com/danurs/registration-matcher/consts"
	"github.com/danurs/registration-matcher/entity"
	"github.com/danurs/registration-matcher/infra/db/model"
)

// scoreCandidate assigns a confidence score from weighted independent signals:
// identifier match, amount agreement, temporal proximity, status bonus. The
// final score is clamped to [0,100] and bucketed into a confidence band.
func scoreCandidate(payment model.PaymentRecord, fact candidateFact) entity.MatchCandidate {
	reg := fact.Registration
	score := 0
	var fields []string
	amountMismatch := false

	switch fact.IdentifierSignal {
	case identifierSignalExact:
		score += consts.WeightIdentifierExact
		fields = append(fields, "identifier:exact")
	case identifierSignalCross:
		score += consts.WeightIdentifierCross
		fields = append(fields, "identifier:cross")
	}

	switch {
	case payment.AmountMinor == reg.TotalAmountMinor:
		score += consts.WeightAmountExact
		fields = append(fields, "amount:exact")
	case amountWithinPct(payment.AmountMinor, reg.TotalAmountMinor, consts.AmountToleranceClosePct):
		score += consts.WeightAmountClose
		fields = append(fields, "amount:close")
	case amountWithinPct(payment.AmountMinor, reg.TotalAmountMinor, consts.AmountToleranceLoosePct):
		score += consts.WeightAmountLoose
		fields = append(fields, "amount:loose")
	default:
		amountMismatch = true
		fields = append(fields, "amount:mismatch")
	}

	deltaHours := abs64(payment.OccurredAt-reg.CreateTime) / 3600
	switch {
	case deltaHours < consts.TimeNearHours:
		score += consts.WeightTimeNear
		fields = append(fields, "time:near")
	case deltaHours < consts.TimeFarHours:
		score += consts.WeightTimeFar
		fields = append(fields, "time:far")
	}

	if payment.Status == consts.PaymentStatusSucceeded {
		score += consts.WeightStatusSucceeded
		fields = append(fields, "status:succeeded")
	}

	if score > consts.ScoreMax {
		score = consts.ScoreMax
	}
	if score < 0 {
		score = 0
	}

	return entity.MatchCandidate{
		PaymentID:      payment.ID,
		RegistrationID: reg.ID,
		Score:          score,
		Band:           scoreBand(score),
		MatchedFields:  fields,
		AmountMismatch: amountMismatch,
	}
}

func scoreBand(score int) string {
	switch {
	case score >= consts.ThresholdHighConfidence:
		return consts.BandHigh
	case score >= consts.ThresholdMediumConfidence:
		return consts.BandMedium
	default:
		return consts.BandLow
	}
}

// amountWithinPct reports whether two minor-unit amounts agree within pct
// percent of the registration amount. Integer math to avoid float drift.
func amountWithinPct(paymentAmount, registrationAmount int64, pct int64) bool {
	if registrationAmount == 0 {
		return paymentAmount == 0
	}
	delta := abs64(paymentAmount - registrationAmount)
	return delta*100 <= registrationAmount*pct
}
