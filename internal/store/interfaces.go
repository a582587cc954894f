package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-finance-tracker/models"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists accounts in the "users" table.
type UserRepository interface {
	// CreateUser inserts a new account and returns it with server-assigned
	// fields populated. Returns [ErrEmailAlreadyExists] on a duplicate email.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByEmail returns the account registered with email or
	// [ErrNoUserWasFound].
	FindUserByEmail(ctx context.Context, email string) (models.User, error)

	// FindUserByID returns the account with the given id or [ErrNoUserWasFound].
	FindUserByID(ctx context.Context, userID int64) (models.User, error)

	// DeletePendingByEmail removes an unactivated account for email, if any.
	// Activated accounts are never touched.
	DeletePendingByEmail(ctx context.Context, email string) error

	// Activate flips the account to activated and clears its code in a single
	// conditional UPDATE guarded by the expected code. Returns
	// [ErrNothingActivated] when no row matched.
	Activate(ctx context.Context, userID int64, code string) error

	// DeleteExpiredPending removes unactivated accounts whose code expired
	// before the given instant and returns how many were removed.
	DeleteExpiredPending(ctx context.Context, before time.Time) (int64, error)
}

// LedgerRepository persists income and expense entries in the
// "ledger_entries" table.
type LedgerRepository interface {
	// SaveEntry inserts entry and returns it with ID and CreatedAt populated.
	SaveEntry(ctx context.Context, entry models.Entry) (models.Entry, error)

	// ListEntries returns the entries matching filter ordered by date, newest first.
	ListEntries(ctx context.Context, filter models.EntryFilter) ([]models.Entry, error)

	// SumEntries returns the total amount of the entries matching filter.
	// Limit is ignored. An empty match sums to zero.
	SumEntries(ctx context.Context, filter models.EntryFilter) (decimal.Decimal, error)

	// DeleteEntry removes one entry of the given kind owned by userID.
	// Returns [ErrEntryNotFound] if nothing matched.
	DeleteEntry(ctx context.Context, userID int64, kind models.EntryKind, entryID int64) error
}
