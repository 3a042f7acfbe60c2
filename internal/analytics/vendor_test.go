package analytics

import (
	"testing"
	"time"
)

func TestVendorsGroupAndRank(t *testing.T) {
	txs := []Transaction{
		tx(t, "2024-01-01", "-15.50", "Food", "UBER EATS"),
		tx(t, "2024-01-08", "-20.50", "Food", "UBER EATS"),
		tx(t, "2024-01-15", "-24.00", "Food", "UBER EATS"),
		tx(t, "2024-01-03", "-1200", "Rent", "REAL ESTATE CO"),
		tx(t, "2024-01-20", "500", "Salary", "ACME PAYROLL"), // income excluded
	}
	got := Vendors(txs)
	if len(got) != 2 {
		t.Fatalf("got %d vendors, want 2", len(got))
	}
	if got[0].Name != "REAL ESTATE CO" {
		t.Fatalf("top vendor = %s, want REAL ESTATE CO", got[0].Name)
	}

	uber := got[1]
	if !uber.TotalSpent.Equal(dec("60")) {
		t.Fatalf("uber total = %s, want 60", uber.TotalSpent)
	}
	if !uber.AverageAmount.Equal(dec("20")) {
		t.Fatalf("uber average = %s, want 20", uber.AverageAmount)
	}
	if uber.TransactionCount != 3 {
		t.Fatalf("uber count = %d", uber.TransactionCount)
	}
	if got := uber.LastTransaction.Format(time.DateOnly); got != "2024-01-15" {
		t.Fatalf("uber last transaction = %s", got)
	}
	// 14 days across 2 intervals
	if uber.FrequencyDays != 7 {
		t.Fatalf("uber frequency = %v days, want 7", uber.FrequencyDays)
	}
	if uber.FrequencyLabel() != "Weekly" {
		t.Fatalf("uber label = %q, want Weekly", uber.FrequencyLabel())
	}
}

func TestVendorGroupingIsCaseSensitiveAndExact(t *testing.T) {
	txs := []Transaction{
		tx(t, "2024-01-01", "-10", "Food", "Cafe"),
		tx(t, "2024-01-02", "-10", "Food", "CAFE"),
		tx(t, "2024-01-03", "-10", "Food", "Cafe #1042"),
	}
	if got := Vendors(txs); len(got) != 3 {
		t.Fatalf("got %d vendors, want 3 distinct groups", len(got))
	}
}

func TestVendorSingleTransactionIsOneTime(t *testing.T) {
	got := Vendors([]Transaction{tx(t, "2024-01-01", "-35", "Shopping", "BOOKSHOP")})
	if len(got) != 1 {
		t.Fatalf("got %d vendors", len(got))
	}
	v := got[0]
	if v.Recurring {
		t.Fatal("single transaction marked recurring")
	}
	if v.FrequencyLabel() != "One-time" {
		t.Fatalf("label = %q, want One-time", v.FrequencyLabel())
	}
	if !v.AverageAmount.Equal(dec("35")) {
		t.Fatalf("average = %s, want 35", v.AverageAmount)
	}
}

func TestFrequencyLabelThresholds(t *testing.T) {
	cases := []struct {
		days float64
		want string
	}{
		{0.5, "Multiple per day"},
		{1, "Daily"},
		{2, "Weekly"},
		{7.9, "Weekly"},
		{8, "Bi-weekly"},
		{14.9, "Bi-weekly"},
		{15, "Monthly"},
		{34.9, "Monthly"},
		{35, "Quarterly"},
		{94.9, "Quarterly"},
		{95, "Bi-annually"},
		{189.9, "Bi-annually"},
		{190, "Annually"},
		{400, "Annually"},
	}
	for _, tc := range cases {
		v := VendorSummary{Recurring: true, FrequencyDays: tc.days}
		if got := v.FrequencyLabel(); got != tc.want {
			t.Fatalf("label(%v) = %q, want %q", tc.days, got, tc.want)
		}
	}
}

func TestVendorsEmptyInput(t *testing.T) {
	if got := Vendors(nil); got != nil {
		t.Fatalf("nil input produced %+v", got)
	}
	income := []Transaction{tx(t, "2024-01-01", "100", "Salary", "pay")}
	if got := Vendors(income); got != nil {
		t.Fatalf("income-only input produced %+v", got)
	}
}
