// Package ledger implements the interest-bearing debt ledger and the loan
// amortization engine: pure computations over values loaded from storage.
// Handlers do the I/O; nothing in this package touches the database.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack-backend/models"
)

var hundred = decimal.NewFromInt(100)

// dateOnly drops the time-of-day component. Debt and repayment dates carry
// date semantics only.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ElapsedPeriods returns the number of whole interest periods between from
// and asOf. Partial periods count as zero.
func ElapsedPeriods(period models.InterestPeriod, from, asOf time.Time) (int64, error) {
	from = dateOnly(from)
	asOf = dateOnly(asOf)
	if asOf.Before(from) {
		return 0, errValidation("evaluation date %s precedes start date %s",
			asOf.Format("2006-01-02"), from.Format("2006-01-02"))
	}

	switch period {
	case models.PeriodDaily:
		return int64(asOf.Sub(from).Hours() / 24), nil
	case models.PeriodMonthly:
		months := int64(asOf.Year()-from.Year())*12 + int64(asOf.Month()-from.Month())
		if asOf.Day() < from.Day() {
			months--
		}
		return months, nil
	case models.PeriodYearly:
		years := int64(asOf.Year() - from.Year())
		if asOf.Month() < from.Month() ||
			(asOf.Month() == from.Month() && asOf.Day() < from.Day()) {
			years--
		}
		return years, nil
	}
	return 0, errValidation("unknown interest period %q", period)
}

// AccruedInterest computes simple, non-compounding interest on principal
// for the whole periods elapsed between from and asOf:
// principal * rate/100 * periods, rounded to two decimal places.
func AccruedInterest(principal, ratePct decimal.Decimal, period models.InterestPeriod, from, asOf time.Time) (decimal.Decimal, error) {
	if ratePct.IsNegative() {
		return decimal.Zero, errValidation("interest rate must not be negative")
	}
	periods, err := ElapsedPeriods(period, from, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	if ratePct.IsZero() || periods == 0 {
		return decimal.Zero, nil
	}
	return principal.Mul(ratePct).Div(hundred).Mul(decimal.NewFromInt(periods)).Round(2), nil
}
