package ledger

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack-backend/models"
)

// Summary is the derived per-borrower position. It is recomputed from the
// full ledger on every read; nothing here is incrementally maintained.
type Summary struct {
	BorrowerID     uuid.UUID
	Name           string
	TotalLent      decimal.Decimal
	TotalRepaid    decimal.Decimal
	CurrentBalance decimal.Decimal
	LastActivity   time.Time
}

// Summarize folds a borrower's debts and repayments into a Summary as of
// asOf. Paid debts still count toward total_lent and total_repaid; only
// active debts contribute to the current balance.
func Summarize(borrower models.Borrower, debts []models.Debt, repaymentsByDebt map[uuid.UUID][]models.Repayment, asOf time.Time) (Summary, error) {
	s := Summary{
		BorrowerID:     borrower.ID,
		Name:           borrower.Name,
		TotalLent:      decimal.Zero,
		TotalRepaid:    decimal.Zero,
		CurrentBalance: decimal.Zero,
	}

	for _, d := range debts {
		s.TotalLent = s.TotalLent.Add(d.Principal)
		if d.Date.After(s.LastActivity) {
			s.LastActivity = d.Date
		}
		for _, rp := range repaymentsByDebt[d.ID] {
			s.TotalRepaid = s.TotalRepaid.Add(rp.Amount)
			if rp.Date.After(s.LastActivity) {
				s.LastActivity = rp.Date
			}
		}
		if d.Status == models.DebtActive {
			// Future-dated debts sit at their full principal with nothing
			// accrued yet.
			effAsOf := asOf
			if dateOnly(d.Date).After(dateOnly(asOf)) {
				effAsOf = d.Date
			}
			outstanding, err := Outstanding(d, repaymentsByDebt[d.ID], effAsOf)
			if err != nil {
				return Summary{}, err
			}
			s.CurrentBalance = s.CurrentBalance.Add(outstanding)
		}
	}
	return s, nil
}

// IsOverdue reports whether an active debt has a due date in the past.
func IsOverdue(debt models.Debt, asOf time.Time) bool {
	return debt.Status == models.DebtActive &&
		debt.DueDate != nil &&
		dateOnly(asOf).After(dateOnly(*debt.DueDate))
}

// RiskFlags derives the risk flags for a borrower's ledger: one
// "Overdue: <reason>" entry per overdue debt plus "High Outstanding
// Balance" when the balance exceeds the threshold.
func RiskFlags(debts []models.Debt, balance, highBalanceThreshold decimal.Decimal, asOf time.Time) []string {
	flags := []string{}
	seen := map[string]bool{}
	for _, d := range debts {
		if IsOverdue(d, asOf) {
			flag := "Overdue: " + d.Reason
			if !seen[flag] {
				seen[flag] = true
				flags = append(flags, flag)
			}
		}
	}
	if balance.GreaterThan(highBalanceThreshold) {
		flags = append(flags, "High Outstanding Balance")
	}
	return flags
}

// TopBorrowers ranks borrowers with a positive balance, highest first,
// ties broken by earliest last activity. At most k entries are returned.
func TopBorrowers(summaries []Summary, k int) []Summary {
	ranked := make([]Summary, 0, len(summaries))
	for _, s := range summaries {
		if s.CurrentBalance.IsPositive() {
			ranked = append(ranked, s)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if !ranked[i].CurrentBalance.Equal(ranked[j].CurrentBalance) {
			return ranked[i].CurrentBalance.GreaterThan(ranked[j].CurrentBalance)
		}
		return ranked[i].LastActivity.Before(ranked[j].LastActivity)
	})
	if k >= 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
