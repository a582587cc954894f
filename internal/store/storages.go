package store

import "github.com/MKhiriev/go-finance-tracker/internal/logger"

// Storages aggregates every repository the service layer depends on.
type Storages struct {
	UserRepository   UserRepository
	LedgerRepository LedgerRepository
}

// NewStorages builds all Postgres repositories on top of db.
func NewStorages(db *DB, logger *logger.Logger) *Storages {
	return &Storages{
		UserRepository:   NewUserRepository(db, logger),
		LedgerRepository: NewLedgerRepository(db, logger),
	}
}
