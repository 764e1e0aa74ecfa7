package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InterestPeriod string

const (
	PeriodDaily   InterestPeriod = "Daily"
	PeriodMonthly InterestPeriod = "Monthly"
	PeriodYearly  InterestPeriod = "Yearly"
)

func (p InterestPeriod) Valid() bool {
	switch p {
	case PeriodDaily, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

type DebtStatus string

const (
	DebtActive DebtStatus = "Active"
	DebtPaid   DebtStatus = "Paid"
)

// Debt is money lent to a borrower. Principal and rate are immutable after
// creation; the row only changes through repayment, mark-paid or delete.
type Debt struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID       `gorm:"type:uuid;index;not null" json:"user_id"`
	BorrowerID     uuid.UUID       `gorm:"type:uuid;index;not null" json:"borrower_id"`
	Principal      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"principal"`
	Date           time.Time       `gorm:"type:date;not null" json:"date"`
	DueDate        *time.Time      `gorm:"type:date" json:"due_date,omitempty"`
	InterestRate   decimal.Decimal `gorm:"type:decimal(7,3);not null;default:0" json:"interest_rate"`
	InterestPeriod InterestPeriod  `gorm:"size:10;not null;default:Monthly" json:"interest_period"`
	Reason         string          `gorm:"size:255" json:"reason"`
	Status         DebtStatus      `gorm:"size:10;not null;default:Active;index" json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (d *Debt) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Repayment is append-only: rows are never mutated, only cascade-deleted
// with their parent debt.
type Repayment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	DebtID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"debt_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Date      time.Time       `gorm:"type:date;not null" json:"date"`
	Mode      string          `gorm:"size:30;default:Cash" json:"mode"`
	CreatedAt time.Time       `json:"created_at"`
}

func (r *Repayment) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Request structs

type CreateDebtRequest struct {
	BorrowerID      string          `json:"borrower_id"`
	NewBorrowerName string          `json:"new_borrower_name"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Date            string          `json:"date" binding:"required"` // YYYY-MM-DD
	DueDate         string          `json:"due_date"`
	Reason          string          `json:"reason" binding:"required"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	InterestPeriod  InterestPeriod  `json:"interest_period"`
}

type RepayRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Date   string          `json:"date" binding:"required"`
	Mode   string          `json:"mode"`
}

type MarkPaidRequest struct {
	Date string `json:"date" binding:"required"`
}

// Response structs

type DebtLedgerRow struct {
	ID              uuid.UUID       `json:"id"`
	Principal       decimal.Decimal `json:"principal"`
	Date            time.Time       `json:"date"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	InterestPeriod  InterestPeriod  `json:"interest_period"`
	Reason          string          `json:"reason"`
	Status          DebtStatus      `json:"status"`
	AccruedInterest decimal.Decimal `json:"accrued_interest"`
	TotalDue        decimal.Decimal `json:"total_due"`
	IsOverdue       bool            `json:"is_overdue"`
}

type RepaymentResponse struct {
	ID         uuid.UUID       `json:"id"`
	DebtID     uuid.UUID       `json:"debt_id"`
	DebtReason string          `json:"debt_reason"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Mode       string          `json:"mode"`
}
