package plans

import (
	"fmt"
	"strings"

	dErrors "prooflayer/pkg/domain-errors"
)

// Interval is a billing cadence.
type Interval string

const (
	Monthly Interval = "monthly"
	Annual  Interval = "annual"
)

func ParseInterval(s string) (Interval, error) {
	switch Interval(strings.ToLower(strings.TrimSpace(s))) {
	case Monthly:
		return Monthly, nil
	case Annual:
		return Annual, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown billing interval %q", s))
	}
}

// Quote is a computed price for a plan, interval and seat count.
type Quote struct {
	Plan                   Plan     `json:"plan"`
	Interval               Interval `json:"interval"`
	Seats                  int      `json:"seats"`
	AmountCents            int64    `json:"amount_cents"`
	MonthlyEquivalentCents int64    `json:"monthly_equivalent_cents"`
	SavingsCents           int64    `json:"savings_cents"`
	SavingsPercent         int      `json:"savings_percent"`
}

// QuoteFor prices plan p. Seats below one count as one. Annual quotes
// report savings against twelve monthly payments.
func QuoteFor(p Plan, interval Interval, seats int) (Quote, error) {
	if !p.IsValid() {
		return Quote{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown plan %q", p))
	}
	if seats < 1 {
		seats = 1
	}
	l := LimitsFor(p)
	monthlyTotal := l.PriceMonthlyCents * int64(seats)

	q := Quote{Plan: p, Interval: interval, Seats: seats}
	switch interval {
	case Monthly:
		q.AmountCents = monthlyTotal
		q.MonthlyEquivalentCents = monthlyTotal
	case Annual:
		q.AmountCents = l.PriceAnnualCents * int64(seats)
		q.MonthlyEquivalentCents = q.AmountCents / 12
		yearAtMonthly := monthlyTotal * 12
		q.SavingsCents = yearAtMonthly - q.AmountCents
		if yearAtMonthly > 0 {
			q.SavingsPercent = int(q.SavingsCents * 100 / yearAtMonthly)
		}
	default:
		return Quote{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown billing interval %q", interval))
	}
	return q, nil
}
