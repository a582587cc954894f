package service

import (
	"context"
	"fmt"
	"io"

	"github.com/MKhiriev/go-finance-tracker/internal/validators"
	"github.com/MKhiriev/go-finance-tracker/models"
)

// LedgerValidationService checks and sanitizes ledger input before handing
// it to the wrapped LedgerService.
type LedgerValidationService struct {
	inner     LedgerService
	validator validators.Validator
}

func NewLedgerValidationService() LedgerServiceWrapper {
	return &LedgerValidationService{
		validator: validators.NewEntryValidator(),
	}
}

func (v *LedgerValidationService) AddEntry(ctx context.Context, entry models.Entry) (models.Entry, error) {
	entry.Label = validators.SanitizeText(entry.Label)
	entry.Icon = validators.SanitizeText(entry.Icon)

	if err := v.validator.Validate(ctx, entry); err != nil {
		return models.Entry{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return v.inner.AddEntry(ctx, entry)
}

func (v *LedgerValidationService) ListEntries(ctx context.Context, userID int64, kind models.EntryKind) ([]models.Entry, error) {
	if err := v.validateScope(ctx, userID, kind); err != nil {
		return nil, err
	}

	return v.inner.ListEntries(ctx, userID, kind)
}

func (v *LedgerValidationService) DeleteEntry(ctx context.Context, userID int64, kind models.EntryKind, entryID int64) error {
	if err := v.validateScope(ctx, userID, kind); err != nil {
		return err
	}
	if entryID <= 0 {
		return ErrEntryNotFound
	}

	return v.inner.DeleteEntry(ctx, userID, kind, entryID)
}

func (v *LedgerValidationService) ExportEntries(ctx context.Context, userID int64, kind models.EntryKind, w io.Writer) error {
	if err := v.validateScope(ctx, userID, kind); err != nil {
		return err
	}

	return v.inner.ExportEntries(ctx, userID, kind, w)
}

func (v *LedgerValidationService) Wrap(wrapped LedgerService) LedgerService {
	v.inner = wrapped
	return v
}

func (v *LedgerValidationService) validateScope(ctx context.Context, userID int64, kind models.EntryKind) error {
	scope := models.Entry{UserID: userID, Kind: kind}
	if err := v.validator.Validate(ctx, scope, validators.FieldUserID, validators.FieldKind); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}
