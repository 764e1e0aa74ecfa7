package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Loan is a fixed-EMI loan the user is repaying. EMI and progress are pure
// functions of the stored fields and are computed on read, never persisted.
// Edits replace the loan wholesale; there is no partial patch.
type Loan struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID       `gorm:"type:uuid;index;not null" json:"user_id"`
	Name         string          `gorm:"not null;size:100" json:"name"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_amount"`
	InterestRate decimal.Decimal `gorm:"type:decimal(7,3);not null" json:"interest_rate"` // annual percent
	TenureMonths int             `gorm:"not null" json:"tenure_months"`
	StartDate    time.Time       `gorm:"type:date;not null" json:"start_date"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (l *Loan) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Request structs

type LoanRequest struct {
	Name         string          `json:"name" binding:"required"`
	TotalAmount  decimal.Decimal `json:"total_amount" binding:"required"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	TenureMonths int             `json:"tenure_months" binding:"required"`
	StartDate    string          `json:"start_date" binding:"required"` // YYYY-MM-DD
}

// Response structs

type LoanResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	TenureMonths    int             `json:"tenure_months"`
	StartDate       time.Time       `json:"start_date"`
	EMI             decimal.Decimal `json:"emi_amount"`
	MonthsPaid      int             `json:"months_paid"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	AmountRemaining decimal.Decimal `json:"amount_remaining"`
	ProgressPct     decimal.Decimal `json:"progress"`
}

type ScheduleResponse struct {
	LoanID          uuid.UUID         `json:"loan_id"`
	EMI             decimal.Decimal   `json:"emi_amount"`
	Rows            []ScheduleRowJSON `json:"rows"`
	MonthsPaid      int               `json:"months_paid"`
	AmountPaid      decimal.Decimal   `json:"amount_paid"`
	AmountRemaining decimal.Decimal   `json:"amount_remaining"`
	ProgressPct     decimal.Decimal   `json:"progress"`
}

type ScheduleRowJSON struct {
	Month     int             `json:"month"`
	DueDate   time.Time       `json:"due_date"`
	Payment   decimal.Decimal `json:"payment"`
	Interest  decimal.Decimal `json:"interest"`
	Principal decimal.Decimal `json:"principal"`
	Balance   decimal.Decimal `json:"balance"`
}
