package analytics

import (
	"github.com/agnivade/levenshtein"
	"github.com/shopspring/decimal"
)

// DefaultAnomalyWindow bounds both scans to the most recent transactions,
// which keeps the pairwise duplicate pass cheap.
const DefaultAnomalyWindow = 20

// duplicateWindowDays is the maximum gap between two transactions that can
// still read as a duplicate pair.
const duplicateWindowDays = 3

// Anomaly kinds. Both are advisory hints: nothing is raised or mutated.
const (
	AnomalyUnusualAmount      = "unusual_amount"
	AnomalyPotentialDuplicate = "potential_duplicate"
)

// Anomaly tags one transaction with the reason it was flagged. Threshold is
// set for unusual amounts; Similarity (0..1, on descriptions) for potential
// duplicates.
type Anomaly struct {
	Transaction Transaction
	Kind        string
	Threshold   decimal.Decimal
	Similarity  float64
}

// ScanAnomalies runs both checks over the `window` most recent transactions
// (DefaultAnomalyWindow when window <= 0): amounts beyond twice the window's
// mean magnitude, and pairs with equal amount and category within three
// days. An empty window flags nothing.
func ScanAnomalies(txs []Transaction, window int) []Anomaly {
	if window <= 0 {
		window = DefaultAnomalyWindow
	}
	recent := sortedByDateDesc(txs)
	if len(recent) > window {
		recent = recent[:window]
	}
	out := unusualAmounts(recent)
	return append(out, potentialDuplicates(recent)...)
}

func unusualAmounts(txs []Transaction) []Anomaly {
	if len(txs) == 0 {
		return nil
	}
	total := decimal.Zero
	for _, t := range txs {
		total = total.Add(t.Amount.Abs())
	}
	threshold := total.Div(decimal.NewFromInt(int64(len(txs)))).Mul(decimal.NewFromInt(2))

	var out []Anomaly
	for _, t := range txs {
		if t.Amount.Abs().GreaterThan(threshold) {
			out = append(out, Anomaly{Transaction: t, Kind: AnomalyUnusualAmount, Threshold: threshold})
		}
	}
	return out
}

// potentialDuplicates flags the first transaction of each duplicate pair
// exactly once; its partner is consumed so a run of three identical
// transactions produces one flag, not two or three.
func potentialDuplicates(txs []Transaction) []Anomaly {
	var out []Anomaly
	consumed := make(map[int]bool)
	for i := 0; i < len(txs); i++ {
		if consumed[i] {
			continue
		}
		for j := i + 1; j < len(txs); j++ {
			a, b := txs[i], txs[j]
			if !a.Amount.Equal(b.Amount) || a.Category != b.Category {
				continue
			}
			if daysBetween(a.Date, b.Date) > duplicateWindowDays {
				continue
			}
			out = append(out, Anomaly{
				Transaction: a,
				Kind:        AnomalyPotentialDuplicate,
				Similarity:  descriptionSimilarity(a.Description, b.Description),
			})
			consumed[i], consumed[j] = true, true
			break
		}
	}
	return out
}

// descriptionSimilarity is 1 minus the normalised edit distance between two
// descriptions, carried on duplicate flags as review context.
func descriptionSimilarity(a, b string) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}
