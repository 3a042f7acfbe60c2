package repository

import "time"

// Account represents an account row. OpeningBalanceCents is the balance the
// daily projection starts from before any stored transactions apply.
type Account struct {
	ID                  string
	Name                string
	Institution         string
	AccountType         string
	OpeningBalanceCents int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Transaction represents a transaction row. Amounts are integer cents,
// signed: positive inflow, negative outflow. Category is a free-text label
// supplied with the data, not a foreign key.
type Transaction struct {
	ID          string
	AccountID   string
	Date        time.Time
	AmountCents int64
	Description string
	Category    string
	Status      string
	SourceHash  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
