package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryCount pairs a category label with its expense transaction count.
type CategoryCount struct {
	Category string
	Count    int
}

// SummaryMetrics are secondary spending indicators for a window: outgoing
// totals against the same-length window immediately before, mean expense
// size, expense counts per category and daily spend velocity.
// TransactionCount counts expenses only, matching the other indicators.
type SummaryMetrics struct {
	TotalOutgoing          decimal.Decimal
	PreviousOutgoing       decimal.Decimal
	OutgoingChange         float64
	AverageTransactionSize decimal.Decimal
	ByCategory             []CategoryCount
	PaymentVelocity        float64
	TransactionCount       int
}

// Metrics computes SummaryMetrics for the given window. The comparison
// window has the same length and ends the day before the current one opens.
func Metrics(txs []Transaction, r DateRange) SummaryMetrics {
	if len(txs) == 0 {
		return SummaryMetrics{
			TotalOutgoing:          decimal.Zero,
			PreviousOutgoing:       decimal.Zero,
			AverageTransactionSize: decimal.Zero,
		}
	}

	days := r.Days()
	prev := DateRange{
		Start: r.Start.AddDate(0, 0, -days),
		End:   r.Start.AddDate(0, 0, -1),
		Label: "Previous Period",
	}

	current := r.Filter(txs)
	outgoing := SumFlows(current).Outflow
	prevOutgoing := SumFlows(prev.Filter(txs)).Outflow

	expenseCount := 0
	counts := make(map[string]int)
	for _, t := range current {
		if !t.IsExpense() {
			continue
		}
		expenseCount++
		counts[t.Category]++
	}

	avg := decimal.Zero
	if expenseCount > 0 {
		avg = outgoing.Div(decimal.NewFromInt(int64(expenseCount)))
	}

	byCategory := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		byCategory = append(byCategory, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(byCategory, func(i, j int) bool {
		if byCategory[i].Count != byCategory[j].Count {
			return byCategory[i].Count > byCategory[j].Count
		}
		return byCategory[i].Category < byCategory[j].Category
	})

	return SummaryMetrics{
		TotalOutgoing:          outgoing,
		PreviousOutgoing:       prevOutgoing,
		OutgoingChange:         PercentChange(outgoing, prevOutgoing),
		AverageTransactionSize: avg,
		ByCategory:             byCategory,
		PaymentVelocity:        outgoing.InexactFloat64() / float64(days),
		TransactionCount:       expenseCount,
	}
}
