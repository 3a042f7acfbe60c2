package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/marlo/ledgerlens/internal/database"
	"github.com/marlo/ledgerlens/internal/database/repository"
)

func setupIngestTest(t *testing.T) (*IngestService, *repository.TransactionRepo, *repository.AccountRepo, context.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	txRepo := repository.NewTransactionRepo(db)
	acctRepo := repository.NewAccountRepo(db)
	return &IngestService{Transactions: txRepo, Accounts: acctRepo}, txRepo, acctRepo, ctx
}

func TestImportCSV_HappyPath(t *testing.T) {
	t.Parallel()
	svc, txRepo, acctRepo, ctx := setupIngestTest(t)

	data := "2026-02-01,WOOLWORTHS 123,-45.67,Groceries,completed,Everyday\n" +
		"2026-02-03,SALARY,2500.00,Income,,Salary"

	res, err := svc.ImportCSV(ctx, strings.NewReader(data), time.UTC)
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	require.Equal(t, 2, res.Imported)
	require.Equal(t, 0, res.Skipped)

	txs, err := txRepo.List(ctx, repository.TransactionFilters{})
	require.NoError(t, err)
	require.Len(t, txs, 2)

	// list is newest first
	require.Equal(t, "SALARY", txs[0].Description)
	require.Equal(t, int64(250000), txs[0].AmountCents)
	require.Equal(t, "completed", txs[0].Status) // blank status defaults
	require.Equal(t, "Groceries", txs[1].Category)
	require.Equal(t, int64(-4567), txs[1].AmountCents)
	require.Equal(t, "2026-02-01", txs[1].Date.Format(time.DateOnly))

	accts, err := acctRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, accts, 2)
}

func TestImportCSV_ErrorsAndSkips(t *testing.T) {
	t.Parallel()
	svc, txRepo, _, ctx := setupIngestTest(t)

	bad := "2026-02-01,WOOLWORTHS 123,-45.67,Groceries,completed,Everyday\n" + // ok
		"not-a-date,BAD,10.00,Misc,completed,Everyday\n" + // bad date
		"2026-02-01,WOOLWORTHS 123,-45.67,Groceries,completed,Everyday" // duplicate

	res, err := svc.ImportCSV(ctx, strings.NewReader(bad), time.UTC)
	require.NoError(t, err)
	require.Equal(t, 1, res.Imported)
	require.Equal(t, 1, res.Skipped) // duplicate source hash
	require.Len(t, res.Errors, 1)    // bad date

	txs, err := txRepo.List(ctx, repository.TransactionFilters{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
}

func TestImportCSV_IntoSeededDefaultAccount(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.SeedDefaults(ctx, db))

	txRepo := repository.NewTransactionRepo(db)
	acctRepo := repository.NewAccountRepo(db)
	svc := &IngestService{Transactions: txRepo, Accounts: acctRepo}

	// rows referencing the pre-seeded account must land in it, not
	// collide with it
	data := "2026-02-01,WOOLWORTHS 123,-45.67,Groceries,completed,Everyday"
	res, err := svc.ImportCSV(ctx, strings.NewReader(data), time.UTC)
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	require.Equal(t, 1, res.Imported)

	accts, err := acctRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, accts, 1)

	txs, err := txRepo.List(ctx, repository.TransactionFilters{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, accts[0].ID, txs[0].AccountID)
}

func TestImportCSV_Timezone(t *testing.T) {
	t.Parallel()
	svc, txRepo, _, ctx := setupIngestTest(t)

	loc, err := time.LoadLocation("Australia/Melbourne")
	require.NoError(t, err)

	data := "2026-02-01,COFFEE,-5.00,Dining,completed,Everyday"
	res, err := svc.ImportCSV(ctx, strings.NewReader(data), loc)
	require.NoError(t, err)
	require.Equal(t, 1, res.Imported)

	txs, err := txRepo.List(ctx, repository.TransactionFilters{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, "2026-02-01", txs[0].Date.In(loc).Format(time.DateOnly))
}
