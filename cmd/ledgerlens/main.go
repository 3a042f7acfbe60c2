package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/marlo/ledgerlens/internal/config"
	"github.com/marlo/ledgerlens/internal/database"
	"github.com/marlo/ledgerlens/internal/database/repository"
	"github.com/marlo/ledgerlens/internal/service"
	"github.com/marlo/ledgerlens/internal/testdata"
	"github.com/marlo/ledgerlens/internal/tui"
)

func main() {
	seed := flag.Bool("seed", false, "seed sample data into an empty database")
	flag.Parse()

	ctx := context.Background()

	// .env is optional; real overrides come through LEDGERLENS_ vars
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := setupLogging(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatal().Err(err).Msg("mkdir db dir")
	}

	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("open db")
	}
	defer db.Close()

	if err := database.SeedDefaults(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("seed defaults")
	}

	// repositories
	txRepo := repository.NewTransactionRepo(db)
	acctRepo := repository.NewAccountRepo(db)

	if *seed {
		n, err := txRepo.Count(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("count transactions")
		}
		if n == 0 {
			if err := testdata.Seed(ctx, testdata.Repos{Accounts: acctRepo, Transactions: txRepo}); err != nil {
				log.Fatal().Err(err).Msg("seed sample data")
			}
			log.Info().Msg("seeded sample ledger")
		}
	}

	analyzer := &service.AnalyzerService{
		Transactions: txRepo,
		Accounts:     acctRepo,
		Options: service.AnalyzerOptions{
			TopCategories:       cfg.Analytics.TopCategories,
			AnomalyWindow:       cfg.Analytics.AnomalyWindow,
			ForecastHorizonDays: cfg.Analytics.ForecastHorizonDays,
			ComparisonMonths:    cfg.Analytics.ComparisonMonths,
		},
	}
	ingester := &service.IngestService{Transactions: txRepo, Accounts: acctRepo}
	maintenance := &service.MaintenanceService{DB: db}

	loc, err := time.LoadLocation(cfg.UI.Timezone)
	if err != nil {
		log.Warn().Err(err).Msg("using local timezone")
		loc = time.Local
	}

	p := tea.NewProgram(tui.New(ctx, cfg,
		tui.Repos{Transactions: txRepo, Accounts: acctRepo},
		tui.Services{Analyzer: analyzer, Ingest: ingester, Maintenance: maintenance},
		loc,
	), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("tui exited")
		fmt.Printf("error: %v\n", err)
	}
}

// setupLogging sends zerolog to a file; stdout belongs to the TUI.
func setupLogging(cfg config.LoggingConfig) (func(), error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return func() { _ = f.Close() }, nil
}
