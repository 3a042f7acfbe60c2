package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func tx(t *testing.T, date, amount, category, desc string) Transaction {
	t.Helper()
	return Transaction{
		ID:          date + "/" + amount + "/" + desc,
		Description: desc,
		Amount:      dec(amount),
		Category:    category,
		Date:        day(t, date),
		Status:      StatusCompleted,
	}
}

func mustRange(t *testing.T, start, end string) DateRange {
	t.Helper()
	r, err := NewDateRange(day(t, start), day(t, end), "test")
	if err != nil {
		t.Fatalf("range %s..%s: %v", start, end, err)
	}
	return r
}
