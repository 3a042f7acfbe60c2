package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/marlo/ledgerlens/internal/analytics"
	"github.com/marlo/ledgerlens/internal/config"
	"github.com/marlo/ledgerlens/internal/database/repository"
	"github.com/marlo/ledgerlens/internal/service"
)

// App ties together views.
type App struct {
	ctx      context.Context
	repos    Repos
	services Services
	cfg      config.Config

	state          appState
	snap           *service.Snapshot
	transactions   []analytics.Transaction
	txCursor       int
	vendorCursor   int
	settingsCursor int

	rangeChoice rangeChoice
	granularity analytics.Granularity
	autoGran    bool
	polarity    analytics.Polarity

	status     string
	tz         *time.Location
	modal      modalState
	currency   string
	dateFormat string
	now        func() time.Time

	// import flow
	importPath  string
	lastImport  *service.IngestResult
	defaultAcct string
}

type Repos struct {
	Transactions *repository.TransactionRepo
	Accounts     *repository.AccountRepo
}

type Services struct {
	Analyzer    *service.AnalyzerService
	Ingest      *service.IngestService
	Maintenance *service.MaintenanceService
}

type appState string

const (
	viewDashboard    appState = "dashboard"
	viewCashflow     appState = "cashflow"
	viewCategories   appState = "categories"
	viewVendors      appState = "vendors"
	viewTransactions appState = "transactions"
	viewAnomalies    appState = "anomalies"
	viewImport       appState = "import"
	viewSettings     appState = "settings"
)

type modalState string

const (
	modalNone         modalState = ""
	modalConfirmReset modalState = "confirmReset"
)

type rangeChoice int

const (
	rangeLast30 rangeChoice = iota
	rangeThisMonth
	rangeLastMonth
	rangeLast6Months
)

func New(ctx context.Context, cfg config.Config, repos Repos, services Services, tz *time.Location) *App {
	if tz == nil {
		tz = time.Local
	}
	return &App{
		ctx:         ctx,
		repos:       repos,
		services:    services,
		cfg:         cfg,
		autoGran:    true,
		polarity:    analytics.PolarityExpense,
		tz:          tz,
		importPath:  "transactions.csv",
		defaultAcct: "Everyday",
		currency:    cfg.UI.CurrencySymbol,
		dateFormat:  cfg.UI.DateFormat,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (a *App) currentRange() analytics.DateRange {
	now := a.now()
	switch a.rangeChoice {
	case rangeThisMonth:
		return analytics.ThisMonth(now)
	case rangeLastMonth:
		return analytics.LastMonth(now)
	case rangeLast6Months:
		return analytics.LastNMonths(now, 6)
	default:
		return analytics.LastNDays(now, 30)
	}
}

func (a *App) bucketGranularity() analytics.Granularity {
	if a.autoGran {
		return analytics.SuggestGranularity(a.currentRange())
	}
	return a.granularity
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadSnapshot(), a.loadTransactions())
}

func (a *App) loadSnapshot() tea.Cmd {
	if a.services.Analyzer == nil {
		return nil
	}
	r := a.currentRange()
	return func() tea.Msg {
		snap, err := a.services.Analyzer.Snapshot(a.ctx, r, a.now())
		if err != nil {
			return errMsg{err}
		}
		return snapshotMsg(snap)
	}
}

func (a *App) loadTransactions() tea.Cmd {
	if a.services.Analyzer == nil {
		return nil
	}
	r := a.currentRange()
	return func() tea.Msg {
		txs, err := a.services.Analyzer.Load(a.ctx, repository.TransactionFilters{From: r.Start, To: r.End})
		if err != nil {
			return errMsg{err}
		}
		return transactionsMsg(txs)
	}
}

func (a *App) reload() tea.Cmd {
	return tea.Batch(a.loadSnapshot(), a.loadTransactions())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		if a.state == viewImport {
			return a.handleImportKey(m)
		}
		if a.state == viewSettings {
			return a.handleSettingsKey(m)
		}
		switch m.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "d":
			a.state = viewDashboard
		case "f":
			a.state = viewCashflow
		case "c":
			a.state = viewCategories
		case "v":
			a.state = viewVendors
		case "t":
			a.state = viewTransactions
		case "a":
			a.state = viewAnomalies
		case "i":
			a.state = viewImport
			a.status = ""
		case "s":
			a.state = viewSettings
			a.status = ""
		case "1":
			a.rangeChoice = rangeLast30
			return a, a.reload()
		case "2":
			a.rangeChoice = rangeThisMonth
			return a, a.reload()
		case "3":
			a.rangeChoice = rangeLastMonth
			return a, a.reload()
		case "4":
			a.rangeChoice = rangeLast6Months
			return a, a.reload()
		case "g":
			a.cycleGranularity()
		case "tab":
			if a.state == viewCategories {
				if a.polarity == analytics.PolarityExpense {
					a.polarity = analytics.PolarityIncome
				} else {
					a.polarity = analytics.PolarityExpense
				}
			}
		case "up", "k":
			if a.state == viewTransactions && a.txCursor > 0 {
				a.txCursor--
			}
			if a.state == viewVendors && a.vendorCursor > 0 {
				a.vendorCursor--
			}
		case "down", "j":
			if a.state == viewTransactions && a.txCursor < len(a.transactions)-1 {
				a.txCursor++
			}
			if a.state == viewVendors && a.snap != nil && a.vendorCursor < len(a.snap.Vendors)-1 {
				a.vendorCursor++
			}
		case "x":
			a.modal = modalConfirmReset
		}
	case snapshotMsg:
		snap := service.Snapshot(m)
		a.snap = &snap
		if a.vendorCursor >= len(snap.Vendors) {
			a.vendorCursor = 0
		}
	case transactionsMsg:
		a.transactions = []analytics.Transaction(m)
		if a.txCursor >= len(a.transactions) {
			a.txCursor = 0
		}
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
	case ingestDoneMsg:
		a.lastImport = &m.Result
		summary := fmt.Sprintf("imported %d, skipped %d", m.Result.Imported, m.Result.Skipped)
		if len(m.Result.Errors) > 0 {
			summary += fmt.Sprintf(", errors %d (see import view)", len(m.Result.Errors))
		}
		a.status = summary
		a.state = viewDashboard
		return a, a.reload()
	}
	return a, nil
}

func (a *App) cycleGranularity() {
	if a.autoGran {
		a.autoGran = false
		a.granularity = analytics.GranularityDay
		return
	}
	switch a.granularity {
	case analytics.GranularityDay:
		a.granularity = analytics.GranularityWeek
	case analytics.GranularityWeek:
		a.granularity = analytics.GranularityMonth
	default:
		a.autoGran = true
	}
}

func (a *App) View() string {
	var body string
	switch a.state {
	case viewCashflow:
		body = a.renderCashflow()
	case viewCategories:
		body = a.renderCategories()
	case viewVendors:
		body = a.renderVendors()
	case viewTransactions:
		body = a.renderTransactions()
	case viewAnomalies:
		body = a.renderAnomalies()
	case viewImport:
		body = a.renderImport()
	case viewSettings:
		body = a.renderSettings()
	default:
		body = a.renderDashboard()
	}
	if a.modal != modalNone {
		body += "\n\n" + a.renderModal()
	}
	return body
}

// commands
func (a *App) resetCmd() tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			if a.services.Maintenance == nil {
				return errMsg{fmt.Errorf("maintenance not configured")}
			}
			if err := a.services.Maintenance.Reset(a.ctx); err != nil {
				return errMsg{err}
			}
			a.txCursor, a.vendorCursor = 0, 0
			return statusMsg("database reset (empty) - import to start over")
		},
		a.reload(),
	)
}

func (a *App) ingestCmd(path string) tea.Cmd {
	abs := path
	if !filepath.IsAbs(path) {
		if p, err := filepath.Abs(path); err == nil {
			abs = p
		}
	}
	a.status = "importing..."
	if a.services.Ingest == nil {
		return func() tea.Msg { return errMsg{fmt.Errorf("ingest service not configured")} }
	}
	return func() tea.Msg {
		f, err := os.Open(abs)
		if err != nil {
			return errMsg{fmt.Errorf("open %s: %w", abs, err)}
		}
		defer f.Close()

		res, err := a.services.Ingest.ImportCSV(a.ctx, f, a.tz)
		if err != nil {
			return errMsg{err}
		}
		if len(res.Errors) > 0 {
			for i := range res.Errors {
				res.Errors[i] = fmt.Errorf("%s: %w", filepath.Base(abs), res.Errors[i])
			}
		}
		return ingestDoneMsg{Result: res}
	}
}

func (a *App) handleImportKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	}
	switch m.Type {
	case tea.KeyEsc:
		a.state = viewDashboard
		a.status = ""
	case tea.KeyEnter:
		path := strings.TrimSpace(a.importPath)
		if path == "" {
			a.status = "enter a CSV path"
			return a, nil
		}
		return a, a.ingestCmd(path)
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(a.importPath) > 0 {
			a.importPath = a.importPath[:len(a.importPath)-1]
		}
	case tea.KeySpace:
		a.importPath += " "
	case tea.KeyRunes:
		a.importPath += string(m.Runes)
	}
	return a, nil
}

// settingsFields are the tunables editable from the settings view, in
// display order.
var settingsFields = []string{
	"Top categories",
	"Anomaly window",
	"Forecast horizon (days)",
	"Comparison months",
}

func (a *App) settingValue(i int) *int {
	switch i {
	case 0:
		return &a.cfg.Analytics.TopCategories
	case 1:
		return &a.cfg.Analytics.AnomalyWindow
	case 2:
		return &a.cfg.Analytics.ForecastHorizonDays
	default:
		return &a.cfg.Analytics.ComparisonMonths
	}
}

func (a *App) handleSettingsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "esc", "d":
		a.state = viewDashboard
		a.status = ""
	case "up", "k":
		if a.settingsCursor > 0 {
			a.settingsCursor--
		}
	case "down", "j":
		if a.settingsCursor < len(settingsFields)-1 {
			a.settingsCursor++
		}
	case "left", "-":
		v := a.settingValue(a.settingsCursor)
		if *v > 1 {
			*v--
		}
	case "right", "+":
		v := a.settingValue(a.settingsCursor)
		*v++
	case "enter":
		return a, a.saveSettingsCmd()
	case "x":
		a.modal = modalConfirmReset
	}
	return a, nil
}

func (a *App) saveSettingsCmd() tea.Cmd {
	a.applyAnalyticsOptions()
	return tea.Batch(
		func() tea.Msg {
			if err := config.Save(a.cfg); err != nil {
				return errMsg{err}
			}
			return statusMsg("settings saved")
		},
		a.loadSnapshot(),
	)
}

func (a *App) applyAnalyticsOptions() {
	if a.services.Analyzer == nil {
		return
	}
	a.services.Analyzer.Options = service.AnalyzerOptions{
		TopCategories:       a.cfg.Analytics.TopCategories,
		AnomalyWindow:       a.cfg.Analytics.AnomalyWindow,
		ForecastHorizonDays: a.cfg.Analytics.ForecastHorizonDays,
		ComparisonMonths:    a.cfg.Analytics.ComparisonMonths,
	}
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalConfirmReset:
		switch m.String() {
		case "y", "Y":
			a.modal = modalNone
			return a, a.resetCmd()
		case "n", "N", "esc":
			a.modal = modalNone
		}
	}
	return a, nil
}

// messages
type snapshotMsg service.Snapshot

type transactionsMsg []analytics.Transaction

type statusMsg string

type errMsg struct{ error }

type ingestDoneMsg struct {
	Result service.IngestResult
}

// styles
var titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)

func (a *App) money(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + a.currency + d.Abs().StringFixed(2)
	}
	return a.currency + d.StringFixed(2)
}

func (a *App) keybar() string {
	return "[d] Dashboard  [f] Cashflow  [c] Categories  [v] Vendors  [t] Transactions  [a] Anomalies  [i] Import  [s] Settings  [1-4] Range  [g] Granularity  [q] Quit"
}

func (a *App) renderDashboard() string {
	title := titleStyle.Render("LedgerLens - " + a.currentRange().Label)
	if a.snap == nil {
		return title + "\nloading...\n" + a.keybar()
	}
	s := a.snap.Summary
	out := title + "\n"
	out += fmt.Sprintf("Income:   %12s  (%+.1f%%)\n", a.money(s.TotalIncome), s.IncomeChange)
	out += fmt.Sprintf("Expenses: %12s  (%+.1f%%)\n", a.money(s.TotalExpenses), s.ExpensesChange)
	out += fmt.Sprintf("Net:      %12s  (%+.1f%%)\n", a.money(s.NetIncome), s.NetIncomeChange)
	out += fmt.Sprintf("Balance:  %12s  projected %s\n", a.money(a.snap.Balance.CurrentBalance), a.money(a.snap.Balance.ProjectedBalance))
	m := a.snap.Metrics
	out += fmt.Sprintf("Spend velocity: %s%.2f/day  Avg expense: %s  Expenses: %d\n",
		a.currency, m.PaymentVelocity, a.money(m.AverageTransactionSize), m.TransactionCount)
	if n := len(a.snap.Anomalies); n > 0 {
		out += fmt.Sprintf("Anomalies flagged: %d  ([a] to review)\n", n)
	}
	out += a.keybar()
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderCashflow() string {
	title := titleStyle.Render("Cashflow - " + a.currentRange().Label)
	gran := a.bucketGranularity()
	granLabel := string(gran)
	if a.autoGran {
		granLabel += " (auto)"
	}
	out := title + "\n"
	out += fmt.Sprintf("Granularity: %s\n", granLabel)
	buckets := analytics.Buckets(a.currentRange(), gran)
	flows := analytics.FlowSeries(a.transactions, buckets)
	out += fmt.Sprintf("%-16s %12s %12s %12s\n", "Period", "In", "Out", "Net")
	for _, f := range flows {
		out += fmt.Sprintf("%-16s %12s %12s %12s\n", f.Label, a.money(f.Inflow), a.money(f.Outflow), a.money(f.Net))
	}
	out += a.keybar()
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderCategories() string {
	label := "Spending by Category"
	cats := []analytics.CategorySummary(nil)
	if a.snap != nil {
		cats = a.snap.Expenses
		if a.polarity == analytics.PolarityIncome {
			label = "Income by Category"
			cats = a.snap.Income
		}
	}
	title := titleStyle.Render(label + " - " + a.currentRange().Label)
	out := title + "\n"
	if len(cats) == 0 {
		out += "(no transactions in range)\n"
	}
	for _, c := range cats {
		bar := strings.Repeat("█", int(c.Percentage/5))
		out += fmt.Sprintf("%-24s %12s %5.1f%% %s\n", c.Name, a.money(c.Value), c.Percentage, bar)
	}
	out += "[tab] Toggle income/expenses  " + a.keybar()
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderVendors() string {
	title := titleStyle.Render("Vendors - " + a.currentRange().Label)
	out := title + "\n"
	if a.snap == nil || len(a.snap.Vendors) == 0 {
		return out + "(no expenses in range)\n" + a.keybar()
	}
	out += fmt.Sprintf("  %-32s %12s %10s %6s  %s\n", "Vendor", "Total", "Avg", "Count", "Frequency")
	for i, v := range a.snap.Vendors {
		marker := " "
		if i == a.vendorCursor {
			marker = "▶"
		}
		freq := v.FrequencyLabel()
		if v.Recurring {
			freq += " ↻"
		}
		out += fmt.Sprintf("%s %-32s %12s %10s %6d  %s\n", marker, v.Name, a.money(v.TotalSpent), a.money(v.AverageAmount), v.TransactionCount, freq)
	}
	out += a.keybar()
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderTransactions() string {
	title := titleStyle.Render("Transactions - " + a.currentRange().Label)
	out := title + "\n"
	for i, t := range a.transactions {
		marker := " "
		if i == a.txCursor {
			marker = "▶"
		}
		cat := t.Category
		if cat == "" {
			cat = "[uncategorized]"
		}
		out += fmt.Sprintf("%s %s  %-40s %12s  %s\n", marker, t.Date.Format(a.dateFormat), t.Description, a.money(t.Amount), cat)
	}
	out += a.keybar()
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderAnomalies() string {
	title := titleStyle.Render("Anomalies")
	out := title + "\n"
	if a.snap == nil || len(a.snap.Anomalies) == 0 {
		return out + "Nothing unusual in recent activity.\n" + a.keybar()
	}
	for _, an := range a.snap.Anomalies {
		t := an.Transaction
		switch an.Kind {
		case analytics.AnomalyUnusualAmount:
			out += fmt.Sprintf("! %s  %-40s %12s  unusual amount (threshold %s)\n",
				t.Date.Format(a.dateFormat), t.Description, a.money(t.Amount), a.money(an.Threshold))
		case analytics.AnomalyPotentialDuplicate:
			out += fmt.Sprintf("! %s  %-40s %12s  possible duplicate (similarity %.2f)\n",
				t.Date.Format(a.dateFormat), t.Description, a.money(t.Amount), an.Similarity)
		}
	}
	out += a.keybar()
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderImport() string {
	title := titleStyle.Render("Import CSV")
	body := fmt.Sprintf("CSV path: %s\nColumns: date, description, amount, category, status, account.\nPress Enter to ingest into the database.\n[enter] Import  [esc] Back  [q] Quit", a.importPath)
	if a.lastImport != nil {
		body += fmt.Sprintf("\nLast import: %d imported, %d skipped, %d errors", a.lastImport.Imported, a.lastImport.Skipped, len(a.lastImport.Errors))
		if len(a.lastImport.Errors) > 0 {
			body += "\nFirst error: " + a.lastImport.Errors[0].Error()
			if len(a.lastImport.Errors) > 1 {
				body += fmt.Sprintf(" (+%d more)", len(a.lastImport.Errors)-1)
			}
		}
	}
	if a.status != "" {
		body += "\n" + a.status
	}
	return fmt.Sprintf("%s\n%s", title, body)
}

func (a *App) renderSettings() string {
	title := titleStyle.Render("Settings")
	out := title + "\n"
	out += "Analytics tunables (persisted to config.toml)\n"
	for i, name := range settingsFields {
		marker := " "
		if i == a.settingsCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %-26s %d\n", marker, name, *a.settingValue(i))
	}
	out += "\n[-/+] Adjust  [enter] Save  [x] Reset database  [esc] Back  [q] Quit"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalConfirmReset:
		return titleStyle.Render("Reset database?") + "\nThis will delete all data.\n[y] Yes  [n] No"
	default:
		return ""
	}
}
