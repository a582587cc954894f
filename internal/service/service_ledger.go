package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/MKhiriev/go-finance-tracker/internal/logger"
	"github.com/MKhiriev/go-finance-tracker/internal/store"
	"github.com/MKhiriev/go-finance-tracker/models"
)

// exportHeader is the first row of an exported ledger file.
var exportHeader = []string{"Label", "Amount", "Date"}

type ledgerService struct {
	ledgerRepository store.LedgerRepository

	logger *logger.Logger
}

// NewLedgerService returns a LedgerService backed by ledgerRepository.
// It does not validate its input; wrap it with [NewLedgerValidationService].
func NewLedgerService(ledgerRepository store.LedgerRepository, logger *logger.Logger) LedgerService {
	return &ledgerService{
		ledgerRepository: ledgerRepository,
		logger:           logger,
	}
}

func (l *ledgerService) AddEntry(ctx context.Context, entry models.Entry) (models.Entry, error) {
	saved, err := l.ledgerRepository.SaveEntry(ctx, entry)
	if err != nil {
		return models.Entry{}, fmt.Errorf("error saving %s entry: %w", entry.Kind, err)
	}

	return saved, nil
}

func (l *ledgerService) ListEntries(ctx context.Context, userID int64, kind models.EntryKind) ([]models.Entry, error) {
	entries, err := l.ledgerRepository.ListEntries(ctx, models.EntryFilter{UserID: userID, Kind: kind})
	if err != nil {
		return nil, fmt.Errorf("error listing %s entries: %w", kind, err)
	}

	return entries, nil
}

func (l *ledgerService) DeleteEntry(ctx context.Context, userID int64, kind models.EntryKind, entryID int64) error {
	err := l.ledgerRepository.DeleteEntry(ctx, userID, kind, entryID)
	if errors.Is(err, store.ErrEntryNotFound) {
		return ErrEntryNotFound
	}
	if err != nil {
		return fmt.Errorf("error deleting %s entry: %w", kind, err)
	}

	return nil
}

// ExportEntries writes every entry of the given kind as CSV to w, newest
// first, one row per entry under the exportHeader columns.
func (l *ledgerService) ExportEntries(ctx context.Context, userID int64, kind models.EntryKind, w io.Writer) error {
	entries, err := l.ListEntries(ctx, userID, kind)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err = cw.Write(exportHeader); err != nil {
		return fmt.Errorf("error writing export header: %w", err)
	}
	for _, e := range entries {
		if err = cw.Write([]string{e.Label, e.Amount.StringFixed(2), e.Date.Format(time.DateOnly)}); err != nil {
			return fmt.Errorf("error writing export row: %w", err)
		}
	}
	cw.Flush()

	return cw.Error()
}
