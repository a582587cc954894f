package validators

import (
	"context"

	"github.com/MKhiriev/go-finance-tracker/models"
	"github.com/shopspring/decimal"
)

// Field name constants accepted by [EntryValidator].
const (
	// FieldUserID targets the owner of an entry.
	FieldUserID = "user_id"

	// FieldKind targets the income/expense discriminator.
	FieldKind = "kind"

	// FieldLabel targets the income source or the expense category.
	FieldLabel = "label"

	// FieldAmount targets the entry amount: strictly positive, at most two
	// decimal places and below maxAmount.
	FieldAmount = "amount"

	// FieldDate targets the date the money moved.
	FieldDate = "date"
)

// maxAmount is the exclusive upper bound of a NUMERIC(14, 2) column.
var maxAmount = decimal.New(1, 12)

// EntryValidator implements the Validator interface for ledger entries.
type EntryValidator struct{}

// NewEntryValidator returns an EntryValidator as the Validator interface.
func NewEntryValidator() Validator {
	return &EntryValidator{}
}

// Validate accepts models.Entry or *models.Entry.
// When no fields are given, all of them are checked.
func (v *EntryValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Entry:
		return v.validateEntry(value, fields...)
	case *models.Entry:
		return v.validateEntry(*value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *EntryValidator) validateEntry(entry models.Entry, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldKind, FieldLabel, FieldAmount, FieldDate}
	}

	for _, f := range fields {
		switch f {
		case FieldUserID:
			if entry.UserID <= 0 {
				return ErrInvalidUserID
			}
		case FieldKind:
			if !entry.Kind.Valid() {
				return ErrInvalidKind
			}
		case FieldLabel:
			if entry.Label == "" {
				return ErrEmptyLabel
			}
		case FieldAmount:
			if !entry.Amount.IsPositive() {
				return ErrInvalidAmount
			}
			if !entry.Amount.Equal(entry.Amount.Truncate(2)) {
				return ErrAmountPrecision
			}
			if entry.Amount.GreaterThanOrEqual(maxAmount) {
				return ErrAmountTooLarge
			}
		case FieldDate:
			if entry.Date.IsZero() {
				return ErrEmptyDate
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
