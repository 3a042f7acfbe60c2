package testdata

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/marlo/ledgerlens/internal/database/repository"
)

// Repos bundles repos used by Seed.
type Repos struct {
	Accounts     *repository.AccountRepo
	Transactions *repository.TransactionRepo
}

type vendor struct {
	desc     string
	category string
	minCents int64
	maxCents int64
}

var expenseVendors = []vendor{
	{"WOOLWORTHS 3127", "Groceries", 3000, 18000},
	{"COLES 0423", "Groceries", 2500, 15000},
	{"UBER EATS* SUSHI", "Dining", 1800, 6500},
	{"SOUL ORIGIN CAFE", "Dining", 400, 1400},
	{"SPOTIFY", "Subscriptions", 1399, 1399},
	{"NETFLIX.COM", "Subscriptions", 2299, 2299},
	{"SHELL COLES EXPRESS", "Transport", 4000, 9000},
	{"MYKI TOP UP", "Transport", 1000, 5000},
	{"CHEMIST WAREHOUSE", "Health", 900, 7000},
	{"AMAZON.COM*XYZ", "Shopping", 1500, 22000},
}

// Seed creates a sample account and ten months of history: monthly salary
// and rent plus randomised day-to-day spending. The generator is seeded so
// repeated runs against a fresh database produce the same ledger.
func Seed(ctx context.Context, repos Repos) error {
	rng := rand.New(rand.NewSource(42))

	acct := repository.Account{
		ID:                  uuid.NewString(),
		Name:                "Sample Checking",
		Institution:         "Sample Bank",
		AccountType:         "checking",
		OpeningBalanceCents: 250000,
	}
	if err := repos.Accounts.Upsert(ctx, acct); err != nil {
		return err
	}

	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -9, 0)

	insert := func(date time.Time, cents int64, desc, category string) error {
		return repos.Transactions.Insert(ctx, repository.Transaction{
			ID:          uuid.NewString(),
			AccountID:   acct.ID,
			Date:        date,
			AmountCents: cents,
			Description: desc,
			Category:    category,
			Status:      "completed",
		})
	}

	for month := start; !month.After(now); month = month.AddDate(0, 1, 0) {
		payday := month.AddDate(0, 0, 14)
		if payday.After(now) {
			break
		}
		if err := insert(payday, 520000, "SALARY ACME PTY LTD", "Income"); err != nil {
			return err
		}
		if err := insert(month.AddDate(0, 0, 1), -180000, "RAY WHITE RENTAL", "Rent"); err != nil {
			return err
		}

		days := daysInMonth(month)
		for i := 0; i < 12; i++ {
			v := expenseVendors[rng.Intn(len(expenseVendors))]
			date := month.AddDate(0, 0, rng.Intn(days))
			if date.After(now) {
				continue
			}
			span := v.maxCents - v.minCents
			cents := v.minCents
			if span > 0 {
				cents += rng.Int63n(span)
			}
			if err := insert(date, -cents, v.desc, v.category); err != nil {
				return fmt.Errorf("seed transaction: %w", err)
			}
		}
	}
	return nil
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
