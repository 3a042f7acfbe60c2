package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// VendorSummary aggregates expense transactions that share a description.
// Grouping is by exact string: fragmenting vendors whose descriptions vary
// is an accepted simplification, not fuzzy-matching territory.
type VendorSummary struct {
	Name             string
	TotalSpent       decimal.Decimal
	AverageAmount    decimal.Decimal
	TransactionCount int
	LastTransaction  time.Time
	// FrequencyDays is the mean interval between transactions. Only
	// meaningful when Recurring is true.
	FrequencyDays float64
	Recurring     bool
}

// FrequencyLabel maps the mean interval to a coarse human-readable cadence.
func (v VendorSummary) FrequencyLabel() string {
	if !v.Recurring {
		return "One-time"
	}
	switch d := v.FrequencyDays; {
	case d < 1:
		return "Multiple per day"
	case d < 2:
		return "Daily"
	case d < 8:
		return "Weekly"
	case d < 15:
		return "Bi-weekly"
	case d < 35:
		return "Monthly"
	case d < 95:
		return "Quarterly"
	case d < 190:
		return "Bi-annually"
	default:
		return "Annually"
	}
}

// Vendors groups expense transactions by description and computes per-vendor
// spend totals, averages and cadence, sorted by total spent descending.
func Vendors(txs []Transaction) []VendorSummary {
	groups := make(map[string][]Transaction)
	for _, t := range txs {
		if !t.IsExpense() {
			continue
		}
		groups[t.Description] = append(groups[t.Description], t)
	}
	if len(groups) == 0 {
		return nil
	}

	out := make([]VendorSummary, 0, len(groups))
	for name, group := range groups {
		oldest, newest := group[0].Date, group[0].Date
		total := decimal.Zero
		for _, t := range group {
			total = total.Add(t.Amount.Abs())
			if t.Date.Before(oldest) {
				oldest = t.Date
			}
			if t.Date.After(newest) {
				newest = t.Date
			}
		}
		v := VendorSummary{
			Name:             name,
			TotalSpent:       total,
			AverageAmount:    total.Div(decimal.NewFromInt(int64(len(group)))),
			TransactionCount: len(group),
			LastTransaction:  newest,
		}
		if len(group) > 1 {
			v.Recurring = true
			v.FrequencyDays = float64(daysBetween(newest, oldest)) / float64(len(group)-1)
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalSpent.Equal(out[j].TotalSpent) {
			return out[i].TotalSpent.GreaterThan(out[j].TotalSpent)
		}
		return out[i].Name < out[j].Name
	})
	return out
}
