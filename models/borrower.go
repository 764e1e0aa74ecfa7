package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Borrower is a counterparty the user has lent money to. Totals are never
// stored on the row; they are folded from the debt ledger on every read.
type Borrower struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Name      string    `gorm:"not null;size:100" json:"name"`
	Phone     string    `gorm:"size:20" json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (b *Borrower) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Response structs

type BorrowerSummaryResponse struct {
	BorrowerID     uuid.UUID       `json:"borrower_id"`
	Name           string          `json:"name"`
	TotalLent      decimal.Decimal `json:"total_lent"`
	TotalRepaid    decimal.Decimal `json:"total_repaid"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	LastActivity   time.Time       `json:"last_activity"`
}

type DebtDashboardResponse struct {
	Stats        DebtDashboardStats        `json:"stats"`
	TopBorrowers []BorrowerSummaryResponse `json:"top_borrowers"`
}

type DebtDashboardStats struct {
	TotalLent   decimal.Decimal `json:"total_lent"`
	TotalRepaid decimal.Decimal `json:"total_repaid"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// LedgerResponse is returned for GET /api/borrowers/:id/ledger
type LedgerResponse struct {
	Borrower      BorrowerSummaryResponse `json:"borrower"`
	Debts         []DebtLedgerRow         `json:"debts"`
	Repayments    []RepaymentResponse     `json:"repayments"`
	TotalInterest decimal.Decimal         `json:"total_interest"`
	Risks         []string                `json:"risks"`
}
