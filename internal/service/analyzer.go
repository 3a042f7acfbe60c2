package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/marlo/ledgerlens/internal/analytics"
	"github.com/marlo/ledgerlens/internal/database/repository"
)

// AnalyzerService loads stored transactions and runs the aggregation layer
// over them. All analytics work on dollar decimals; the store keeps cents.
type AnalyzerService struct {
	Transactions *repository.TransactionRepo
	Accounts     *repository.AccountRepo
	Options      AnalyzerOptions
}

// AnalyzerOptions carries the analytics tunables, usually from config.
type AnalyzerOptions struct {
	TopCategories       int
	AnomalyWindow       int
	ForecastHorizonDays int
	ComparisonMonths    int
}

func (o AnalyzerOptions) withDefaults() AnalyzerOptions {
	if o.TopCategories <= 0 {
		o.TopCategories = analytics.DefaultTopCategories
	}
	if o.AnomalyWindow <= 0 {
		o.AnomalyWindow = analytics.DefaultAnomalyWindow
	}
	if o.ForecastHorizonDays <= 0 {
		o.ForecastHorizonDays = analytics.DefaultForecastHorizonDays
	}
	if o.ComparisonMonths <= 0 {
		o.ComparisonMonths = analytics.DefaultComparisonMonths
	}
	return o
}

// Snapshot bundles every aggregate view for one date range.
type Snapshot struct {
	Range     analytics.DateRange
	Summary   analytics.Summary
	Flows     []analytics.BucketFlow
	Expenses  []analytics.CategorySummary
	Income    []analytics.CategorySummary
	Vendors   []analytics.VendorSummary
	Balance   analytics.BalanceSeries
	Anomalies []analytics.Anomaly
	Metrics   analytics.SummaryMetrics
}

// Load fetches transactions matching filters and converts them for analytics.
func (s *AnalyzerService) Load(ctx context.Context, f repository.TransactionFilters) ([]analytics.Transaction, error) {
	rows, err := s.Transactions.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]analytics.Transaction, 0, len(rows))
	for _, r := range rows {
		out = append(out, analytics.Transaction{
			ID:          r.ID,
			Description: r.Description,
			Amount:      centsToDecimal(r.AmountCents),
			Category:    r.Category,
			Date:        r.Date,
			Status:      r.Status,
		})
	}
	return out, nil
}

// Snapshot computes every aggregate for r. It loads the full history so
// the balance projector sees transactions before the window and the
// summary has its comparison period.
func (s *AnalyzerService) Snapshot(ctx context.Context, r analytics.DateRange, now time.Time) (Snapshot, error) {
	opts := s.Options.withDefaults()

	all, err := s.Load(ctx, repository.TransactionFilters{})
	if err != nil {
		return Snapshot{}, err
	}
	opening, err := s.openingBalance(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	inRange := r.Filter(all)
	current, previous := analytics.ComparisonRanges(now, opts.ComparisonMonths)

	snap := Snapshot{
		Range:     r,
		Summary:   analytics.Summarize(all, current, previous),
		Flows:     analytics.FlowSeries(inRange, analytics.Buckets(r, analytics.SuggestGranularity(r))),
		Expenses:  analytics.Categories(inRange, analytics.PolarityExpense, opts.TopCategories),
		Income:    analytics.Categories(inRange, analytics.PolarityIncome, opts.TopCategories),
		Vendors:   analytics.Vendors(inRange),
		Balance:   analytics.ProjectBalance(all, r, opening, now, opts.ForecastHorizonDays),
		Anomalies: analytics.ScanAnomalies(all, opts.AnomalyWindow),
		Metrics:   analytics.Metrics(all, r),
	}
	log.Debug().
		Int("transactions", len(all)).
		Int("in_range", len(inRange)).
		Int("anomalies", len(snap.Anomalies)).
		Str("range", r.Label).
		Msg("snapshot computed")
	return snap, nil
}

func (s *AnalyzerService) openingBalance(ctx context.Context) (decimal.Decimal, error) {
	accts, err := s.Accounts.List(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	var cents int64
	for _, a := range accts {
		cents += a.OpeningBalanceCents
	}
	return centsToDecimal(cents), nil
}

func centsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
