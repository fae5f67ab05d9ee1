package matching

import (
	"sort"

	"github.com/danurs/registration-matcher/consts"
	"github.com/danurs/registration-matcher/infra/db/model"
)

// Identifier signal strength for a candidate.
const (
	identifierSignalExact = "exact"
	identifierSignalCross = "cross"
	identifierSignalNone  = ""
)

type candidateFact struct {
	Registration     model.RegistrationRecord
	IdentifierSignal string
}

// generateCandidates produces candidate registrations for a payment in
// priority order: exact identifier match short-circuits, then cross-processor
// identifier match, then a bounded heuristic window search. An empty result is
// a valid terminal state, not an error.
func (u *matchingUsecase) generateCandidates(payment model.PaymentRecord) ([]candidateFact, error) {
	lookupIDs := append([]string{payment.ProcessorPaymentID}, payment.ExternalIDList()...)

	regs, idsByReg, err := u.dao.FindRegistrationsByExternalIDs(lookupIDs)
	if err != nil {
		return nil, err
	}

	var exact, cross []candidateFact
	for _, reg := range regs {
		signal := identifierSignalCross
		for _, row := range idsByReg[reg.ID] {
			if row.Processor == payment.Processor {
				signal = identifierSignalExact
				break
			}
		}
		fact := candidateFact{Registration: reg, IdentifierSignal: signal}
		if signal == identifierSignalExact {
			exact = append(exact, fact)
		} else {
			cross = append(cross, fact)
		}
	}

	if len(exact) > 0 {
		return exact, nil
	}
	if len(cross) > 0 {
		return cross, nil
	}
	return u.heuristicCandidates(payment)
}

// heuristicCandidates searches registrations created within a bounded window
// of the payment whose amount is within tolerance, capped and ordered by time
// proximity.
func (u *matchingUsecase) heuristicCandidates(payment model.PaymentRecord) ([]candidateFact, error) {
	window := int64(consts.HeuristicWindowHours) * 3600
	tolerance := payment.AmountMinor * consts.HeuristicAmountTolerancePct / 100

	regs, err := u.dao.FindRegistrationsInWindow(
		payment.OccurredAt,
		payment.OccurredAt-window,
		payment.OccurredAt+window,
		payment.AmountMinor-tolerance,
		payment.AmountMinor+tolerance,
		consts.MaxHeuristicCandidates,
	)
	if err != nil {
		return nil, err
	}

	sort.Slice(regs, func(i, j int) bool {
		di := abs64(regs[i].CreateTime - payment.OccurredAt)
		dj := abs64(regs[j].CreateTime - payment.OccurredAt)
		if di != dj {
			return di < dj
		}
		return regs[i].ID < regs[j].ID
	})

	facts := make([]candidateFact, 0, len(regs))
	for _, reg := range regs {
		facts = append(facts, candidateFact{Registration: reg, IdentifierSignal: identifierSignalNone})
	}
	return facts, nil
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
