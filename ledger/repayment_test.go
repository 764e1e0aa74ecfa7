package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack-backend/models"
)

func newDebt(principal, rate string, period models.InterestPeriod, date time.Time) models.Debt {
	return models.Debt{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		BorrowerID:     uuid.New(),
		Principal:      dec(principal),
		Date:           date,
		InterestRate:   dec(rate),
		InterestPeriod: period,
		Status:         models.DebtActive,
	}
}

// Lend 5000 at 0% on day 0; repay 2000 on day 10 and 3000 on day 20.
func TestRepaymentLifecycleZeroInterest(t *testing.T) {
	start := day(2024, 1, 1)
	debt := newDebt("5000", "0", models.PeriodMonthly, start)

	first, status, err := ApplyRepayment(debt, nil, dec("2000"), start.AddDate(0, 0, 10), "UPI")
	if err != nil {
		t.Fatalf("first repayment failed: %v", err)
	}
	if status != models.DebtActive {
		t.Errorf("expected status Active after partial repayment, got %s", status)
	}

	outstanding, err := Outstanding(debt, []models.Repayment{first}, start.AddDate(0, 0, 10))
	if err != nil {
		t.Fatal(err)
	}
	if !outstanding.Equal(dec("3000")) {
		t.Errorf("expected balance 3000, got %s", outstanding)
	}

	second, status, err := ApplyRepayment(debt, []models.Repayment{first}, dec("3000"), start.AddDate(0, 0, 20), "Cash")
	if err != nil {
		t.Fatalf("second repayment failed: %v", err)
	}
	if status != models.DebtPaid {
		t.Errorf("expected status Paid after full repayment, got %s", status)
	}

	outstanding, err = Outstanding(debt, []models.Repayment{first, second}, start.AddDate(0, 0, 30))
	if err != nil {
		t.Fatal(err)
	}
	if !outstanding.IsZero() {
		t.Errorf("expected zero balance after payoff, got %s", outstanding)
	}
}

func TestRepaymentAllocatesInterestFirst(t *testing.T) {
	// 1000 at 10% monthly; two whole months -> 200 interest owed.
	debt := newDebt("1000", "10", models.PeriodMonthly, day(2024, 1, 1))
	repayDate := day(2024, 3, 1)

	rp, status, err := ApplyRepayment(debt, nil, dec("250"), repayDate, "UPI")
	if err != nil {
		t.Fatal(err)
	}
	if status != models.DebtActive {
		t.Errorf("expected Active, got %s", status)
	}

	// 200 covers interest, 50 reduces principal -> 950 remains.
	state, err := Replay(debt, []models.Repayment{rp}, repayDate)
	if err != nil {
		t.Fatal(err)
	}
	if !state.RemainingPrincipal.Equal(dec("950")) {
		t.Errorf("expected remaining principal 950, got %s", state.RemainingPrincipal)
	}
	if !state.UnpaidInterest.IsZero() {
		t.Errorf("expected no unpaid interest, got %s", state.UnpaidInterest)
	}
}

func TestInterestAccruesOnReducedPrincipal(t *testing.T) {
	debt := newDebt("1000", "10", models.PeriodMonthly, day(2024, 1, 1))

	// After one month 100 interest is owed; 600 pays it and cuts principal to 500.
	rp, _, err := ApplyRepayment(debt, nil, dec("600"), day(2024, 2, 1), "Cash")
	if err != nil {
		t.Fatal(err)
	}

	// Two further months accrue on 500, not 1000: 500 * 10% * 2 = 100.
	state, err := Replay(debt, []models.Repayment{rp}, day(2024, 4, 1))
	if err != nil {
		t.Fatal(err)
	}
	if !state.UnpaidInterest.Equal(dec("100")) {
		t.Errorf("expected 100 unpaid interest on reduced principal, got %s", state.UnpaidInterest)
	}
	if !state.Outstanding().Equal(dec("600")) {
		t.Errorf("expected outstanding 600, got %s", state.Outstanding())
	}
}

func TestRepaymentRejectsOverpayment(t *testing.T) {
	debt := newDebt("1000", "10", models.PeriodMonthly, day(2024, 1, 1))
	repayDate := day(2024, 3, 1) // outstanding = 1000 + 200

	_, _, err := ApplyRepayment(debt, nil, dec("1200.01"), repayDate, "Cash")
	var overErr *OverpaymentError
	if !errors.As(err, &overErr) {
		t.Fatalf("expected OverpaymentError, got %v", err)
	}
	if !overErr.Outstanding.Equal(dec("1200")) {
		t.Errorf("expected outstanding 1200 in error, got %s", overErr.Outstanding)
	}

	// The ledger is untouched: outstanding unchanged.
	outstanding, err := Outstanding(debt, nil, repayDate)
	if err != nil {
		t.Fatal(err)
	}
	if !outstanding.Equal(dec("1200")) {
		t.Errorf("outstanding changed after rejected repayment: %s", outstanding)
	}
}

func TestRepaymentOfExactOutstandingSettlesDebt(t *testing.T) {
	debt := newDebt("1000", "10", models.PeriodMonthly, day(2024, 1, 1))
	repayDate := day(2024, 3, 1)

	rp, status, err := ApplyRepayment(debt, nil, dec("1200"), repayDate, "Bank Transfer")
	if err != nil {
		t.Fatal(err)
	}
	if status != models.DebtPaid {
		t.Errorf("expected Paid, got %s", status)
	}

	state, err := Replay(debt, []models.Repayment{rp}, repayDate)
	if err != nil {
		t.Fatal(err)
	}
	if !state.Outstanding().IsZero() {
		t.Errorf("expected zero outstanding, got %s", state.Outstanding())
	}
}

func TestRepaymentValidation(t *testing.T) {
	debt := newDebt("1000", "0", models.PeriodMonthly, day(2024, 1, 1))

	_, _, err := ApplyRepayment(debt, nil, decimal.Zero, day(2024, 2, 1), "Cash")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("zero amount: expected ValidationError, got %v", err)
	}

	_, _, err = ApplyRepayment(debt, nil, dec("-5"), day(2024, 2, 1), "Cash")
	if !errors.As(err, &verr) {
		t.Errorf("negative amount: expected ValidationError, got %v", err)
	}

	_, _, err = ApplyRepayment(debt, nil, dec("100"), day(2023, 12, 31), "Cash")
	if !errors.As(err, &verr) {
		t.Errorf("repayment before debt date: expected ValidationError, got %v", err)
	}

	paid := debt
	paid.Status = models.DebtPaid
	_, _, err = ApplyRepayment(paid, nil, dec("100"), day(2024, 2, 1), "Cash")
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Errorf("paid debt: expected ConflictError, got %v", err)
	}
}

func TestMarkPaidSynthesizesClosingRepayment(t *testing.T) {
	debt := newDebt("1000", "10", models.PeriodMonthly, day(2024, 1, 1))

	partial, _, err := ApplyRepayment(debt, nil, dec("300"), day(2024, 2, 1), "UPI")
	if err != nil {
		t.Fatal(err)
	}

	closeDate := day(2024, 3, 1)
	closing, status, err := MarkPaid(debt, []models.Repayment{partial}, closeDate)
	if err != nil {
		t.Fatal(err)
	}
	if status != models.DebtPaid {
		t.Errorf("expected Paid, got %s", status)
	}

	// 2024-02-01: 100 interest accrued, 300 pays it and 200 principal -> 800 left.
	// 2024-03-01: one more month on 800 -> 80 interest; closing = 880.
	if !closing.Amount.Equal(dec("880")) {
		t.Errorf("expected closing repayment 880, got %s", closing.Amount)
	}

	state, err := Replay(debt, []models.Repayment{partial, closing}, closeDate)
	if err != nil {
		t.Fatal(err)
	}
	if !state.Outstanding().IsZero() {
		t.Errorf("expected zero outstanding after mark-paid, got %s", state.Outstanding())
	}
}

func TestMarkPaidOnSettledDebt(t *testing.T) {
	debt := newDebt("1000", "0", models.PeriodMonthly, day(2024, 1, 1))

	rp, status, err := ApplyRepayment(debt, nil, dec("1000"), day(2024, 1, 15), "Cash")
	if err != nil {
		t.Fatal(err)
	}
	debt.Status = status

	_, _, err = MarkPaid(debt, []models.Repayment{rp}, day(2024, 2, 1))
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConflictError for settled debt, got %v", err)
	}
}
