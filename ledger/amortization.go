package ledger

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"fintrack-backend/models"
)

var monthsPerYearPct = decimal.NewFromInt(1200) // annual percent -> monthly rate divisor

// ScheduleRow is one period of an amortization schedule.
type ScheduleRow struct {
	Month     int
	DueDate   time.Time
	Payment   decimal.Decimal
	Interest  decimal.Decimal
	Principal decimal.Decimal
	Balance   decimal.Decimal
}

// LoanProgress is the derived repayment projection for a loan. Progress is
// inferred from elapsed months, not from confirmed payments; loans have no
// explicit repayment ledger, unlike debts.
type LoanProgress struct {
	EMI             decimal.Decimal
	MonthsPaid      int
	AmountPaid      decimal.Decimal
	AmountRemaining decimal.Decimal
	ProgressPct     decimal.Decimal
}

// ComputeEMI returns the equated monthly installment for a fixed-rate,
// fixed-tenure loan using the standard reducing-balance annuity formula:
// P * r * (1+r)^n / ((1+r)^n - 1), with r the monthly rate. A zero rate
// degenerates to an even split.
func ComputeEMI(principal, annualRatePct decimal.Decimal, tenureMonths int) (decimal.Decimal, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, errValidation("loan amount must be positive")
	}
	if tenureMonths <= 0 {
		return decimal.Zero, errValidation("tenure must be a positive number of months")
	}
	if annualRatePct.IsNegative() {
		return decimal.Zero, errValidation("interest rate must not be negative")
	}

	n := decimal.NewFromInt(int64(tenureMonths))
	var emi decimal.Decimal
	if annualRatePct.IsZero() {
		emi = principal.Div(n).Round(2)
	} else {
		// The growth factor (1+r)^n is a pure rate, not money, so float math
		// is fine here; the result goes straight back to fixed-point.
		monthlyRate := annualRatePct.Div(monthsPerYearPct)
		factor := math.Pow(1+monthlyRate.InexactFloat64(), float64(tenureMonths))
		factorDec := decimal.NewFromFloat(factor)

		emi = principal.Mul(monthlyRate).Mul(factorDec).
			Div(factorDec.Sub(decimal.NewFromInt(1))).Round(2)
	}
	// An installment of 0.00 cannot amortize anything; every derived value
	// downstream would divide by it.
	if emi.IsZero() {
		return decimal.Zero, errValidation("loan amount too small to amortize over %d months", tenureMonths)
	}
	return emi, nil
}

// GenerateSchedule computes the full amortization schedule. Each month
// accrues interest on the running balance; the final row clamps the
// balance to zero and absorbs the rounding remainder into its principal
// component, so the principal column always sums exactly to the loan
// amount.
func GenerateSchedule(principal, annualRatePct decimal.Decimal, tenureMonths int, startDate time.Time) ([]ScheduleRow, error) {
	emi, err := ComputeEMI(principal, annualRatePct, tenureMonths)
	if err != nil {
		return nil, err
	}

	monthlyRate := annualRatePct.Div(monthsPerYearPct)
	balance := principal
	startDate = dateOnly(startDate)

	rows := make([]ScheduleRow, 0, tenureMonths)
	for month := 1; month <= tenureMonths; month++ {
		interest := balance.Mul(monthlyRate).Round(2)
		principalPart := emi.Sub(interest)
		payment := emi

		if month == tenureMonths {
			principalPart = balance
			payment = principalPart.Add(interest)
			balance = decimal.Zero
		} else {
			balance = balance.Sub(principalPart)
		}

		rows = append(rows, ScheduleRow{
			Month:     month,
			DueDate:   startDate.AddDate(0, month-1, 0),
			Payment:   payment,
			Interest:  interest,
			Principal: principalPart,
			Balance:   balance,
		})
	}
	return rows, nil
}

// DeriveProgress projects how far along a loan is as of asOf. A schedule
// row counts as paid once its due month has elapsed; the first row falls
// due on the start date itself.
func DeriveProgress(loan models.Loan, asOf time.Time) (LoanProgress, error) {
	emi, err := ComputeEMI(loan.TotalAmount, loan.InterestRate, loan.TenureMonths)
	if err != nil {
		return LoanProgress{}, err
	}

	monthsPaid := 0
	if !dateOnly(asOf).Before(dateOnly(loan.StartDate)) {
		elapsed, err := ElapsedPeriods(models.PeriodMonthly, loan.StartDate, asOf)
		if err != nil {
			return LoanProgress{}, err
		}
		monthsPaid = int(elapsed) + 1
		if monthsPaid > loan.TenureMonths {
			monthsPaid = loan.TenureMonths
		}
	}

	totalPayable := emi.Mul(decimal.NewFromInt(int64(loan.TenureMonths)))
	amountPaid := decimal.Min(emi.Mul(decimal.NewFromInt(int64(monthsPaid))), totalPayable)

	return LoanProgress{
		EMI:             emi,
		MonthsPaid:      monthsPaid,
		AmountPaid:      amountPaid,
		AmountRemaining: totalPayable.Sub(amountPaid),
		ProgressPct:     amountPaid.Mul(hundred).Div(totalPayable).Round(2),
	}, nil
}
