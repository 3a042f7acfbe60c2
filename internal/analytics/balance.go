package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultForecastHorizonDays is how far the linear projection extends past
// the observed window.
const DefaultForecastHorizonDays = 7

// BalancePoint is one day of the running-balance series. Forecast points
// are linear extrapolation, never historical fact: IsForecast is the
// authoritative marker and their Inflow/Outflow are zero.
type BalancePoint struct {
	Date       time.Time
	Balance    decimal.Decimal
	Inflow     decimal.Decimal
	Outflow    decimal.Decimal
	IsForecast bool
}

// BalanceSeries is the daily balance walk plus its headline figures.
// CurrentBalance is the balance as of the asOf day; ProjectedBalance is the
// final point including the forecast tail.
type BalanceSeries struct {
	Points           []BalancePoint
	CurrentBalance   decimal.Decimal
	ProjectedBalance decimal.Decimal
}

// ProjectBalance walks one point per calendar day across the range,
// accumulating each day's net flow on top of the opening balance plus all
// contributions strictly before the window. The historical portion is exact.
// A forecast tail of `horizon` days (0 disables it) extends the series by
// repeatedly adding the average daily change observed across the window.
func ProjectBalance(txs []Transaction, r DateRange, opening decimal.Decimal, asOf time.Time, horizon int) BalanceSeries {
	if len(txs) == 0 {
		return BalanceSeries{CurrentBalance: opening, ProjectedBalance: opening}
	}

	entering := opening
	daily := make(map[time.Time]Flow)
	for _, t := range txs {
		d := dateOnly(t.Date)
		if d.Before(r.Start) {
			entering = entering.Add(t.Amount)
			continue
		}
		if d.After(r.End) {
			continue
		}
		f := daily[d]
		if t.IsIncome() {
			f.Inflow = f.Inflow.Add(t.Amount)
		} else if t.IsExpense() {
			f.Outflow = f.Outflow.Add(t.Amount.Abs())
		}
		daily[d] = f
	}

	asOf = dateOnly(asOf)
	balance := entering
	current := entering
	var points []BalancePoint
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		f := daily[d]
		balance = balance.Add(f.Inflow).Sub(f.Outflow)
		points = append(points, BalancePoint{Date: d, Balance: balance, Inflow: f.Inflow, Outflow: f.Outflow})
		if !d.After(asOf) {
			current = balance
		}
	}

	projected := balance
	if horizon > 0 && len(points) > 0 {
		avgChange := balance.Sub(entering).Div(decimal.NewFromInt(int64(len(points))))
		last := points[len(points)-1].Date
		for i := 1; i <= horizon; i++ {
			projected = projected.Add(avgChange)
			points = append(points, BalancePoint{
				Date:       last.AddDate(0, 0, i),
				Balance:    projected,
				IsForecast: true,
			})
		}
	}

	return BalanceSeries{Points: points, CurrentBalance: current, ProjectedBalance: projected}
}
