package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction statuses as supplied by the store.
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
)

// Transaction is the read-only input record for every aggregation.
// Amount is signed: positive is income, negative is an expense.
// Date carries calendar-day precision only.
type Transaction struct {
	ID          string
	Description string
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
	Status      string
}

// IsIncome reports whether the transaction is an inflow.
func (t Transaction) IsIncome() bool { return t.Amount.IsPositive() }

// IsExpense reports whether the transaction is an outflow.
func (t Transaction) IsExpense() bool { return t.Amount.IsNegative() }

// ParseDate parses an ISO calendar date from the store. Malformed dates are
// the caller's problem: the error propagates, records are never dropped
// silently.
func ParseDate(s string) (time.Time, error) {
	if d, err := time.ParseInLocation(time.DateOnly, s, time.UTC); err == nil {
		return d, nil
	}
	d, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse transaction date %q: %w", s, err)
	}
	return dateOnly(d), nil
}

// dateOnly truncates to UTC midnight so calendar comparisons are exact.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sortedByDateDesc(txs []Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// daysBetween returns the whole calendar days separating two dates,
// always non-negative.
func daysBetween(a, b time.Time) int {
	d := dateOnly(a).Sub(dateOnly(b))
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}
