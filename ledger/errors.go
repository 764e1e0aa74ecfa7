package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError reports malformed input: bad amounts, rates, date
// ordering or tenure.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func errValidation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unknown debt, borrower or loan id.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// OverpaymentError reports a repayment that exceeds the outstanding amount.
// The ledger is left unchanged.
type OverpaymentError struct {
	Amount      decimal.Decimal
	Outstanding decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("repayment %s exceeds outstanding %s",
		e.Amount.StringFixed(2), e.Outstanding.StringFixed(2))
}

// ConflictError reports a mutation that lost a race or targets a debt in
// the wrong state, e.g. repaying a debt already marked Paid.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }
