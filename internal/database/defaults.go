package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/marlo/ledgerlens/internal/database/repository"
)

// SeedDefaults ensures a default account exists for new databases.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	acctRepo := repository.NewAccountRepo(db)
	existing, err := acctRepo.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("acct:Everyday")).String()
	return acctRepo.Upsert(ctx, repository.Account{
		ID:          id,
		Name:        "Everyday",
		Institution: "Manual",
		AccountType: "checking",
	})
}
