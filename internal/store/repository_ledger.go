package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-finance-tracker/internal/logger"
	"github.com/MKhiriev/go-finance-tracker/models"
	"github.com/shopspring/decimal"
)

// ledgerRepository is the PostgreSQL-backed implementation of
// [LedgerRepository]. Queries are assembled with squirrel so that the same
// filter drives listing and summing.
type ledgerRepository struct {
	*DB
	logger *logger.Logger
}

// NewLedgerRepository constructs a [LedgerRepository] backed by db.
func NewLedgerRepository(db *DB, logger *logger.Logger) LedgerRepository {
	logger.Debug().Msg("creating ledger repository")
	return &ledgerRepository{
		DB:     db,
		logger: logger,
	}
}

// SaveEntry inserts entry and fills ID and CreatedAt from the RETURNING clause.
func (l *ledgerRepository) SaveEntry(ctx context.Context, entry models.Entry) (models.Entry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertEntryQuery(ctx, entry)
	if err != nil {
		log.Err(err).Str("func", "*ledgerRepository.SaveEntry").Msg("failed to create query")
		return models.Entry{}, err
	}

	if err = l.DB.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		log.Err(err).
			Str("func", "*ledgerRepository.SaveEntry").
			Int64("user_id", entry.UserID).
			Str("kind", string(entry.Kind)).
			Msg("failed to insert ledger entry")
		return models.Entry{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return entry, nil
}

// ListEntries returns the entries matching filter, newest first.
func (l *ledgerRepository) ListEntries(ctx context.Context, filter models.EntryFilter) ([]models.Entry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectEntriesQuery(ctx, filter)
	if err != nil {
		log.Err(err).Str("func", "*ledgerRepository.ListEntries").Msg("failed to create query")
		return nil, err
	}

	rows, err := l.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*ledgerRepository.ListEntries").
			Int64("user_id", filter.UserID).
			Str("kind", string(filter.Kind)).
			Msg("failed to execute query for listing entries")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.Entry, 0, 16)
	for rows.Next() {
		var (
			entry models.Entry
			kind  string
		)
		if err = rows.Scan(
			&entry.ID,
			&entry.UserID,
			&kind,
			&entry.Label,
			&entry.Amount,
			&entry.Date,
			&entry.Icon,
			&entry.CreatedAt,
		); err != nil {
			log.Err(err).Str("func", "*ledgerRepository.ListEntries").Msg("failed to scan ledger entry")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		entry.Kind = models.EntryKind(kind)
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "*ledgerRepository.ListEntries").Msg("error iterating ledger entries")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return entries, nil
}

// SumEntries returns the total amount of the entries matching filter.
func (l *ledgerRepository) SumEntries(ctx context.Context, filter models.EntryFilter) (decimal.Decimal, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSumEntriesQuery(ctx, filter)
	if err != nil {
		log.Err(err).Str("func", "*ledgerRepository.SumEntries").Msg("failed to create query")
		return decimal.Zero, err
	}

	var total decimal.Decimal
	if err = l.DB.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		log.Err(err).
			Str("func", "*ledgerRepository.SumEntries").
			Int64("user_id", filter.UserID).
			Str("kind", string(filter.Kind)).
			Msg("failed to sum entries")
		return decimal.Zero, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return total, nil
}

// DeleteEntry removes the entry only if it belongs to userID and has the
// given kind.
func (l *ledgerRepository) DeleteEntry(ctx context.Context, userID int64, kind models.EntryKind, entryID int64) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteEntryQuery(ctx, userID, kind, entryID)
	if err != nil {
		log.Err(err).Str("func", "*ledgerRepository.DeleteEntry").Msg("failed to create query")
		return err
	}

	result, err := l.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*ledgerRepository.DeleteEntry").
			Int64("user_id", userID).
			Int64("entry_id", entryID).
			Msg("failed to delete entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrEntryNotFound
	}

	return nil
}
