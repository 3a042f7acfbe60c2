package analytics

import (
	"testing"
)

func TestScanAnomaliesUnusualAmount(t *testing.T) {
	// mean |amount| = (10+10+10+70)/4 = 25, threshold 50: only the 70 trips it
	txs := []Transaction{
		tx(t, "2024-01-01", "-10", "Food", "cafe"),
		tx(t, "2024-01-02", "-10", "Transport", "train"),
		tx(t, "2024-01-03", "-10", "Entertainment", "cinema"),
		tx(t, "2024-01-04", "-70", "Shopping", "headphones"),
	}
	got := ScanAnomalies(txs, 0)
	if len(got) != 1 {
		t.Fatalf("got %d anomalies, want 1", len(got))
	}
	a := got[0]
	if a.Kind != AnomalyUnusualAmount {
		t.Fatalf("kind = %s", a.Kind)
	}
	if a.Transaction.Description != "headphones" {
		t.Fatalf("flagged %q", a.Transaction.Description)
	}
	if !a.Threshold.Equal(dec("50")) {
		t.Fatalf("threshold = %s, want 50", a.Threshold)
	}
}

func TestScanAnomaliesThresholdIsStrict(t *testing.T) {
	// mean = 20, threshold 40: a 40 transaction is not beyond it
	txs := []Transaction{
		tx(t, "2024-01-01", "-10", "A", "a"),
		tx(t, "2024-01-02", "-10", "B", "b"),
		tx(t, "2024-01-03", "-40", "C", "exactly at threshold"),
	}
	if got := ScanAnomalies(txs, 0); len(got) != 0 {
		t.Fatalf("got %d anomalies, want 0 at the exact threshold", len(got))
	}
}

func TestScanAnomaliesPotentialDuplicate(t *testing.T) {
	txs := []Transaction{
		tx(t, "2024-01-10", "-15.99", "Subscriptions", "SPOTIFY"),
		tx(t, "2024-01-12", "-15.99", "Subscriptions", "SPOTIFY AB"),
		tx(t, "2024-01-20", "-15.99", "Subscriptions", "SPOTIFY"), // outside 3 days
		tx(t, "2024-01-12", "-15.99", "Food", "same amount, other category"),
	}
	got := ScanAnomalies(txs, 0)
	if len(got) != 1 {
		t.Fatalf("got %d anomalies, want 1 duplicate", len(got))
	}
	a := got[0]
	if a.Kind != AnomalyPotentialDuplicate {
		t.Fatalf("kind = %s", a.Kind)
	}
	if a.Similarity <= 0.5 || a.Similarity > 1 {
		t.Fatalf("similarity = %v, want a high score for near-identical descriptions", a.Similarity)
	}
}

func TestDuplicateTripleFlagsExactlyOnce(t *testing.T) {
	txs := []Transaction{
		tx(t, "2024-01-01", "-30", "Food", "PIZZA PLACE"),
		tx(t, "2024-01-02", "-30", "Food", "PIZZA PLACE"),
		tx(t, "2024-01-03", "-30", "Food", "PIZZA PLACE"),
	}
	got := ScanAnomalies(txs, 0)
	dups := 0
	for _, a := range got {
		if a.Kind == AnomalyPotentialDuplicate {
			dups++
		}
	}
	if dups != 1 {
		t.Fatalf("triple flagged %d times, want exactly 1", dups)
	}
}

func TestScanAnomaliesWindowBound(t *testing.T) {
	// the duplicate pair sits outside the 3 most recent transactions
	txs := []Transaction{
		tx(t, "2024-01-01", "-25", "Food", "OLD PAIR"),
		tx(t, "2024-01-02", "-25", "Food", "OLD PAIR"),
		tx(t, "2024-02-01", "-20", "Food", "recent a"),
		tx(t, "2024-02-02", "-21", "Food", "recent b"),
		tx(t, "2024-02-03", "-22", "Food", "recent c"),
	}
	if got := ScanAnomalies(txs, 3); len(got) != 0 {
		t.Fatalf("got %d anomalies from outside the window", len(got))
	}
}

func TestScanAnomaliesEmptyWindow(t *testing.T) {
	if got := ScanAnomalies(nil, 0); got != nil {
		t.Fatalf("empty input produced %+v", got)
	}
}

func TestDescriptionSimilarity(t *testing.T) {
	if got := descriptionSimilarity("SPOTIFY", "SPOTIFY"); got != 1 {
		t.Fatalf("identical = %v, want 1", got)
	}
	if got := descriptionSimilarity("", ""); got != 1 {
		t.Fatalf("both empty = %v, want 1", got)
	}
	if got := descriptionSimilarity("ABCD", "WXYZ"); got != 0 {
		t.Fatalf("disjoint = %v, want 0", got)
	}
}
