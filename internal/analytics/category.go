package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Polarity selects which side of the ledger a category breakdown covers.
type Polarity int

const (
	PolarityExpense Polarity = iota
	PolarityIncome
)

func (p Polarity) matches(t Transaction) bool {
	if p == PolarityIncome {
		return t.IsIncome()
	}
	return t.IsExpense()
}

// DefaultTopCategories is how many named categories a breakdown keeps
// before the remainder collapses into Other.
const DefaultTopCategories = 8

// OtherCategory is the rollup entry for everything past the top N.
const OtherCategory = "Other"

// CategorySummary is one entry in a category breakdown. Value is the
// absolute amount; Percentage is its share of the polarity's total.
type CategorySummary struct {
	Name       string
	Value      decimal.Decimal
	Percentage float64
}

// Categories groups transactions of one polarity by category label, sums
// absolute amounts, and ranks descending. At most topN named entries are
// kept (DefaultTopCategories when topN <= 0); the rest fold into a single
// Other entry carrying the remainder total and the complement percentage.
// No transactions of the requested polarity yields an empty result.
func Categories(txs []Transaction, p Polarity, topN int) []CategorySummary {
	if topN <= 0 {
		topN = DefaultTopCategories
	}

	sums := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, t := range txs {
		if !p.matches(t) {
			continue
		}
		abs := t.Amount.Abs()
		sums[t.Category] = sums[t.Category].Add(abs)
		total = total.Add(abs)
	}
	if len(sums) == 0 {
		return nil
	}

	out := make([]CategorySummary, 0, len(sums))
	for name, value := range sums {
		pct := 0.0
		if !total.IsZero() {
			pct = value.Div(total).InexactFloat64() * 100
		}
		out = append(out, CategorySummary{Name: name, Value: value, Percentage: pct})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Value.Equal(out[j].Value) {
			return out[i].Value.GreaterThan(out[j].Value)
		}
		return out[i].Name < out[j].Name
	})

	if len(out) <= topN {
		return out
	}

	kept := out[:topN]
	otherValue := decimal.Zero
	for _, c := range out[topN:] {
		otherValue = otherValue.Add(c.Value)
	}
	keptPct := 0.0
	for _, c := range kept {
		keptPct += c.Percentage
	}
	otherPct := 100 - keptPct
	if otherPct < 0 {
		otherPct = 0
	}
	return append(kept, CategorySummary{Name: OtherCategory, Value: otherValue, Percentage: otherPct})
}
