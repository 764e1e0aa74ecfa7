package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fintrack-backend/models"
)

// DebtState is the position of a debt after replaying its repayments up to
// a point in time.
type DebtState struct {
	RemainingPrincipal decimal.Decimal
	UnpaidInterest     decimal.Decimal

	periods int64 // whole periods already accrued, anchored at the debt date
}

// Outstanding is what the borrower still owes: remaining principal plus
// interest accrued but not yet covered.
func (s DebtState) Outstanding() decimal.Decimal {
	return s.RemainingPrincipal.Add(s.UnpaidInterest)
}

func (s *DebtState) accrueTo(debt models.Debt, at time.Time) error {
	periods, err := ElapsedPeriods(debt.InterestPeriod, debt.Date, at)
	if err != nil {
		return err
	}
	newPeriods := periods - s.periods
	if newPeriods > 0 && debt.InterestRate.IsPositive() && s.RemainingPrincipal.IsPositive() {
		accrued := s.RemainingPrincipal.Mul(debt.InterestRate).Div(hundred).
			Mul(decimal.NewFromInt(newPeriods)).Round(2)
		s.UnpaidInterest = s.UnpaidInterest.Add(accrued)
	}
	s.periods = periods
	return nil
}

// allocate applies an amount interest-first against the state. The caller
// must have checked the amount against Outstanding already.
func (s *DebtState) allocate(amount decimal.Decimal) (interestPaid, principalPaid decimal.Decimal) {
	interestPaid = decimal.Min(amount, s.UnpaidInterest)
	principalPaid = amount.Sub(interestPaid)
	if principalPaid.GreaterThan(s.RemainingPrincipal) {
		principalPaid = s.RemainingPrincipal
	}
	s.UnpaidInterest = s.UnpaidInterest.Sub(interestPaid)
	s.RemainingPrincipal = s.RemainingPrincipal.Sub(principalPaid)
	return interestPaid, principalPaid
}

// Replay folds a debt's repayments, in (date, created_at) order, into a
// DebtState as of asOf. Repayments store only {amount, date, mode}; the
// interest/principal split is re-derived here each time, so the ledger can
// never drift from its own history. Interest accrues per whole period on
// the principal remaining at the time, never on unpaid interest.
func Replay(debt models.Debt, repayments []models.Repayment, asOf time.Time) (DebtState, error) {
	state := DebtState{
		RemainingPrincipal: debt.Principal,
		UnpaidInterest:     decimal.Zero,
	}
	asOf = dateOnly(asOf)

	sorted := make([]models.Repayment, len(repayments))
	copy(sorted, repayments)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	for _, rp := range sorted {
		if dateOnly(rp.Date).After(asOf) {
			continue
		}
		if err := state.accrueTo(debt, rp.Date); err != nil {
			return DebtState{}, err
		}
		if rp.Amount.GreaterThan(state.Outstanding()) {
			return DebtState{}, &OverpaymentError{Amount: rp.Amount, Outstanding: state.Outstanding()}
		}
		state.allocate(rp.Amount)
	}

	if err := state.accrueTo(debt, asOf); err != nil {
		return DebtState{}, err
	}
	return state, nil
}

// Outstanding returns what is still owed on the debt as of asOf.
func Outstanding(debt models.Debt, repayments []models.Repayment, asOf time.Time) (decimal.Decimal, error) {
	state, err := Replay(debt, repayments, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	return state.Outstanding(), nil
}

// ApplyRepayment validates a repayment against the debt's current position
// and allocates it interest-first. It returns the repayment record to
// append and the debt status after the allocation; persisting both is the
// caller's job. Prior repayments are never mutated.
func ApplyRepayment(debt models.Debt, prior []models.Repayment, amount decimal.Decimal, date time.Time, mode string) (models.Repayment, models.DebtStatus, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return models.Repayment{}, debt.Status, errValidation("repayment amount must be positive")
	}
	if debt.Status != models.DebtActive {
		return models.Repayment{}, debt.Status, &ConflictError{Msg: "debt is already settled; nothing to repay"}
	}
	date = dateOnly(date)
	if date.Before(dateOnly(debt.Date)) {
		return models.Repayment{}, debt.Status, errValidation("repayment date precedes the debt date")
	}

	state, err := Replay(debt, prior, date)
	if err != nil {
		return models.Repayment{}, debt.Status, err
	}

	outstanding := state.Outstanding()
	if amount.GreaterThan(outstanding) {
		return models.Repayment{}, debt.Status, &OverpaymentError{Amount: amount, Outstanding: outstanding}
	}

	state.allocate(amount)

	status := models.DebtActive
	if state.RemainingPrincipal.IsZero() && state.UnpaidInterest.IsZero() {
		status = models.DebtPaid
	}

	if mode == "" {
		mode = "Cash"
	}
	repayment := models.Repayment{
		DebtID: debt.ID,
		Amount: amount.Round(2),
		Date:   date,
		Mode:   mode,
	}
	return repayment, status, nil
}

// MarkPaid force-closes a debt by synthesizing a final repayment equal to
// the outstanding amount at date, then running it through the normal
// allocation path. The remainder is recorded, never silently written off.
func MarkPaid(debt models.Debt, prior []models.Repayment, date time.Time) (models.Repayment, models.DebtStatus, error) {
	if debt.Status != models.DebtActive {
		return models.Repayment{}, debt.Status, &ConflictError{Msg: "debt is already settled"}
	}
	outstanding, err := Outstanding(debt, prior, date)
	if err != nil {
		return models.Repayment{}, debt.Status, err
	}
	if outstanding.IsZero() {
		return models.Repayment{}, debt.Status, &ConflictError{Msg: "nothing outstanding on this debt"}
	}
	return ApplyRepayment(debt, prior, outstanding, date, "Cash")
}
