package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultComparisonMonths is the observed lookback for period-over-period
// summaries. Callers supply their own window via ComparisonRanges.
const DefaultComparisonMonths = 9

// Flow holds the signed totals for one window or bucket.
type Flow struct {
	Inflow  decimal.Decimal
	Outflow decimal.Decimal
	Net     decimal.Decimal
}

// SumFlows totals a transaction slice: inflow is the sum of positive
// amounts, outflow the absolute sum of negative amounts, net their
// difference.
func SumFlows(txs []Transaction) Flow {
	inflow, outflow := decimal.Zero, decimal.Zero
	for _, t := range txs {
		if t.IsIncome() {
			inflow = inflow.Add(t.Amount)
		} else if t.IsExpense() {
			outflow = outflow.Add(t.Amount.Abs())
		}
	}
	return Flow{Inflow: inflow, Outflow: outflow, Net: inflow.Sub(outflow)}
}

// BucketFlow pairs a calendar bucket with its flow totals.
type BucketFlow struct {
	Bucket
	Flow
}

// FlowSeries sums transactions into the given buckets. Each transaction
// lands in at most one bucket, so bucket totals always reconcile with the
// window total.
func FlowSeries(txs []Transaction, buckets []Bucket) []BucketFlow {
	out := make([]BucketFlow, len(buckets))
	grouped := make([][]Transaction, len(buckets))
	for _, t := range txs {
		for i, b := range buckets {
			if b.Contains(t.Date) {
				grouped[i] = append(grouped[i], t)
				break
			}
		}
	}
	for i, b := range buckets {
		out[i] = BucketFlow{Bucket: b, Flow: SumFlows(grouped[i])}
	}
	return out
}

// PercentChange returns the period-over-period change in percent. A zero
// previous total yields exactly 100: new activity reads as a 100% increase.
// That sentinel is a deliberate convention, kept bit-for-bit from the
// product's observed behaviour.
func PercentChange(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		return 100
	}
	return current.Sub(previous).Div(previous).InexactFloat64() * 100
}

// Summary is the headline income/expense/net totals for a window together
// with changes against a comparison window.
type Summary struct {
	TotalIncome     decimal.Decimal
	TotalExpenses   decimal.Decimal
	NetIncome       decimal.Decimal
	IncomeChange    float64
	ExpensesChange  float64
	NetIncomeChange float64
}

// Summarize computes totals for the current range and percent changes
// against the previous range. Empty input produces the zero Summary.
func Summarize(txs []Transaction, current, previous DateRange) Summary {
	if len(txs) == 0 {
		return Summary{
			TotalIncome:   decimal.Zero,
			TotalExpenses: decimal.Zero,
			NetIncome:     decimal.Zero,
		}
	}
	cur := SumFlows(current.Filter(txs))
	prev := SumFlows(previous.Filter(txs))
	return Summary{
		TotalIncome:     cur.Inflow,
		TotalExpenses:   cur.Outflow,
		NetIncome:       cur.Net,
		IncomeChange:    PercentChange(cur.Inflow, prev.Inflow),
		ExpensesChange:  PercentChange(cur.Outflow, prev.Outflow),
		NetIncomeChange: PercentChange(cur.Net, prev.Net),
	}
}

// ComparisonRanges derives the current window (the last `months` months
// ending now) and the previous window it is compared against (the same
// span immediately preceding it, ending one month before the current
// window opens).
func ComparisonRanges(now time.Time, months int) (current, previous DateRange) {
	current = LastNMonths(now, months)
	previous = DateRange{
		Start: current.Start.AddDate(0, -months, 0),
		End:   current.Start.AddDate(0, -1, 0),
		Label: fmt.Sprintf("Previous %d Months", months),
	}
	return current, previous
}
