package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack-backend/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestElapsedPeriods(t *testing.T) {
	cases := []struct {
		name   string
		period models.InterestPeriod
		from   time.Time
		asOf   time.Time
		want   int64
	}{
		{"same day daily", models.PeriodDaily, day(2024, 1, 1), day(2024, 1, 1), 0},
		{"ten days", models.PeriodDaily, day(2024, 1, 1), day(2024, 1, 11), 10},
		{"across leap feb", models.PeriodDaily, day(2024, 2, 27), day(2024, 3, 1), 3},
		{"one day short of a month", models.PeriodMonthly, day(2024, 1, 15), day(2024, 2, 14), 0},
		{"exactly one month", models.PeriodMonthly, day(2024, 1, 15), day(2024, 2, 15), 1},
		{"fourteen months", models.PeriodMonthly, day(2023, 1, 10), day(2024, 3, 10), 14},
		{"one day short of a year", models.PeriodYearly, day(2023, 3, 10), day(2024, 3, 9), 0},
		{"exactly one year", models.PeriodYearly, day(2023, 3, 10), day(2024, 3, 10), 1},
		{"two and a half years", models.PeriodYearly, day(2021, 6, 1), day(2023, 12, 25), 2},
	}

	for _, tc := range cases {
		got, err := ElapsedPeriods(tc.period, tc.from, tc.asOf)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s: expected %d periods, got %d", tc.name, tc.want, got)
		}
	}
}

func TestElapsedPeriodsRejectsBackwardsRange(t *testing.T) {
	_, err := ElapsedPeriods(models.PeriodDaily, day(2024, 5, 1), day(2024, 4, 30))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAccruedInterest(t *testing.T) {
	// 1000 at 1% daily for 10 days -> 100.00
	got, err := AccruedInterest(dec("1000"), dec("1"), models.PeriodDaily, day(2024, 1, 1), day(2024, 1, 11))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(dec("100")) {
		t.Errorf("expected 100, got %s", got)
	}

	// 5000 at 2% monthly for 3 whole months -> 300.00
	got, err = AccruedInterest(dec("5000"), dec("2"), models.PeriodMonthly, day(2024, 1, 15), day(2024, 4, 20))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(dec("300")) {
		t.Errorf("expected 300, got %s", got)
	}
}

func TestAccruedInterestZeroRate(t *testing.T) {
	got, err := AccruedInterest(dec("5000"), decimal.Zero, models.PeriodDaily, day(2024, 1, 1), day(2025, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsZero() {
		t.Errorf("zero rate should accrue nothing, got %s", got)
	}
}

func TestAccruedInterestPartialPeriodAccruesNothing(t *testing.T) {
	got, err := AccruedInterest(dec("1000"), dec("5"), models.PeriodMonthly, day(2024, 1, 31), day(2024, 2, 29))
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsZero() {
		t.Errorf("partial month should accrue nothing, got %s", got)
	}
}

func TestAccruedInterestNonDecreasing(t *testing.T) {
	from := day(2024, 1, 1)
	prev := decimal.Zero
	for offset := 0; offset <= 120; offset++ {
		asOf := from.AddDate(0, 0, offset)
		got, err := AccruedInterest(dec("5000"), dec("2"), models.PeriodMonthly, from, asOf)
		if err != nil {
			t.Fatalf("offset %d: %v", offset, err)
		}
		if got.LessThan(prev) {
			t.Fatalf("interest decreased at offset %d: %s < %s", offset, got, prev)
		}
		prev = got
	}
}
