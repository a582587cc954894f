package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyFullName = errors.New("full name is required")
	ErrEmptyEmail    = errors.New("email is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrEmptyOTP      = errors.New("verification code is required")

	ErrInvalidUserID   = errors.New("invalid user ID")
	ErrInvalidKind     = errors.New("invalid entry kind")
	ErrEmptyLabel      = errors.New("label is required")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrAmountPrecision = errors.New("amount has more than two decimal places")
	ErrAmountTooLarge  = errors.New("amount is too large")
	ErrEmptyDate       = errors.New("date is required")
)
