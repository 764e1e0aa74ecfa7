package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"fintrack-backend/models"
)

func newBorrower(name string) models.Borrower {
	return models.Borrower{ID: uuid.New(), UserID: uuid.New(), Name: name}
}

func TestSummarizeFoldsFullLedger(t *testing.T) {
	borrower := newBorrower("Sam")
	asOf := day(2024, 6, 1)

	active := newDebt("5000", "0", models.PeriodMonthly, day(2024, 1, 1))
	active.BorrowerID = borrower.ID
	paid := newDebt("2000", "0", models.PeriodMonthly, day(2024, 2, 1))
	paid.BorrowerID = borrower.ID
	paid.Status = models.DebtPaid

	repayments := map[uuid.UUID][]models.Repayment{
		active.ID: {
			{ID: uuid.New(), DebtID: active.ID, Amount: dec("2000"), Date: day(2024, 1, 11)},
		},
		paid.ID: {
			{ID: uuid.New(), DebtID: paid.ID, Amount: dec("2000"), Date: day(2024, 3, 5)},
		},
	}

	summary, err := Summarize(borrower, []models.Debt{active, paid}, repayments, asOf)
	if err != nil {
		t.Fatal(err)
	}

	if !summary.TotalLent.Equal(dec("7000")) {
		t.Errorf("total lent %s, want 7000", summary.TotalLent)
	}
	if !summary.TotalRepaid.Equal(dec("4000")) {
		t.Errorf("total repaid %s, want 4000", summary.TotalRepaid)
	}
	// Only the active debt contributes to the balance.
	if !summary.CurrentBalance.Equal(dec("3000")) {
		t.Errorf("current balance %s, want 3000", summary.CurrentBalance)
	}
	if !summary.LastActivity.Equal(day(2024, 3, 5)) {
		t.Errorf("last activity %s, want 2024-03-05", summary.LastActivity)
	}
}

func TestSummarizeWithoutDeletedDebt(t *testing.T) {
	borrower := newBorrower("Riya")
	asOf := day(2024, 6, 1)

	kept := newDebt("1000", "0", models.PeriodMonthly, day(2024, 1, 1))
	kept.BorrowerID = borrower.ID
	deleted := newDebt("9000", "0", models.PeriodMonthly, day(2024, 2, 1))
	deleted.BorrowerID = borrower.ID

	repayments := map[uuid.UUID][]models.Repayment{
		deleted.ID: {
			{ID: uuid.New(), DebtID: deleted.ID, Amount: dec("500"), Date: day(2024, 3, 1)},
		},
	}

	before, err := Summarize(borrower, []models.Debt{kept, deleted}, repayments, asOf)
	if err != nil {
		t.Fatal(err)
	}
	if !before.CurrentBalance.Equal(dec("9500")) {
		t.Errorf("balance before delete %s, want 9500", before.CurrentBalance)
	}

	// A cascade delete removes the debt and its repayments; the next fold
	// sees neither.
	delete(repayments, deleted.ID)
	after, err := Summarize(borrower, []models.Debt{kept}, repayments, asOf)
	if err != nil {
		t.Fatal(err)
	}
	if !after.TotalLent.Equal(dec("1000")) {
		t.Errorf("total lent after delete %s, want 1000", after.TotalLent)
	}
	if !after.TotalRepaid.IsZero() {
		t.Errorf("total repaid after delete %s, want 0", after.TotalRepaid)
	}
	if !after.CurrentBalance.Equal(dec("1000")) {
		t.Errorf("balance after delete %s, want 1000", after.CurrentBalance)
	}
}

func TestRiskFlags(t *testing.T) {
	asOf := day(2024, 6, 1)
	pastDue := day(2024, 5, 1)
	futureDue := day(2024, 7, 1)

	overdue := newDebt("1000", "0", models.PeriodMonthly, day(2024, 1, 1))
	overdue.Reason = "Wedding"
	overdue.DueDate = &pastDue

	onTime := newDebt("1000", "0", models.PeriodMonthly, day(2024, 1, 1))
	onTime.Reason = "Rent"
	onTime.DueDate = &futureDue

	settled := newDebt("1000", "0", models.PeriodMonthly, day(2024, 1, 1))
	settled.Reason = "Old"
	settled.DueDate = &pastDue
	settled.Status = models.DebtPaid

	flags := RiskFlags([]models.Debt{overdue, onTime, settled}, dec("500"), dec("10000"), asOf)
	if len(flags) != 1 || flags[0] != "Overdue: Wedding" {
		t.Errorf("expected only the overdue flag, got %v", flags)
	}

	flags = RiskFlags([]models.Debt{onTime}, dec("10000.01"), dec("10000"), asOf)
	if len(flags) != 1 || flags[0] != "High Outstanding Balance" {
		t.Errorf("expected the high balance flag, got %v", flags)
	}

	flags = RiskFlags([]models.Debt{onTime}, dec("10000"), dec("10000"), asOf)
	if len(flags) != 0 {
		t.Errorf("balance at the threshold should not flag, got %v", flags)
	}
}

func TestTopBorrowers(t *testing.T) {
	mk := func(name, balance string, lastActivity time.Time) Summary {
		return Summary{
			BorrowerID:     uuid.New(),
			Name:           name,
			CurrentBalance: dec(balance),
			LastActivity:   lastActivity,
		}
	}

	summaries := []Summary{
		mk("settled", "0", day(2024, 5, 1)),
		mk("small", "200", day(2024, 5, 2)),
		mk("tie-late", "500", day(2024, 5, 20)),
		mk("big", "1500", day(2024, 5, 3)),
		mk("tie-early", "500", day(2024, 5, 10)),
	}

	top := TopBorrowers(summaries, 3)
	if len(top) != 3 {
		t.Fatalf("expected 3 borrowers, got %d", len(top))
	}
	if top[0].Name != "big" {
		t.Errorf("expected big first, got %s", top[0].Name)
	}
	// Equal balances rank by earliest activity.
	if top[1].Name != "tie-early" || top[2].Name != "tie-late" {
		t.Errorf("tie-break wrong: got %s then %s", top[1].Name, top[2].Name)
	}

	all := TopBorrowers(summaries, 10)
	if len(all) != 4 {
		t.Errorf("zero-balance borrowers must be excluded, got %d entries", len(all))
	}
}
