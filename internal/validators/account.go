package validators

import (
	"context"

	"github.com/MKhiriev/go-finance-tracker/models"
)

// Field name constants accepted by [AccountValidator].
const (
	// FieldFullName targets the display name of a registering user.
	FieldFullName = "full_name"

	// FieldEmail targets the account email.
	FieldEmail = "email"

	// FieldPassword targets the plain-text password.
	FieldPassword = "password"

	// FieldOTP targets the submitted verification code.
	FieldOTP = "otp"
)

// AccountValidator implements the Validator interface for the account
// payloads: RegisterRequest, VerifyEmailRequest and LoginRequest.
//
// Every field is checked for presence only; format rules are left to the
// mail delivery and to bcrypt.
type AccountValidator struct{}

// NewAccountValidator returns an AccountValidator as the Validator interface.
func NewAccountValidator() Validator {
	return &AccountValidator{}
}

// Validate dispatches to the type-specific method. Both value and pointer
// forms of the supported requests are accepted. Returns ErrUnsupportedType
// for anything else.
func (v *AccountValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RegisterRequest:
		return v.validateRegister(value, fields...)
	case *models.RegisterRequest:
		return v.validateRegister(*value, fields...)

	case models.VerifyEmailRequest:
		return v.validateVerify(value, fields...)
	case *models.VerifyEmailRequest:
		return v.validateVerify(*value, fields...)

	case models.LoginRequest:
		return v.validateLogin(value, fields...)
	case *models.LoginRequest:
		return v.validateLogin(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *AccountValidator) validateRegister(req models.RegisterRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldFullName, FieldEmail, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldFullName:
			if req.FullName == "" {
				return ErrEmptyFullName
			}
		case FieldEmail:
			if req.Email == "" {
				return ErrEmptyEmail
			}
		case FieldPassword:
			if req.Password == "" {
				return ErrEmptyPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *AccountValidator) validateVerify(req models.VerifyEmailRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldOTP}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if req.Email == "" {
				return ErrEmptyEmail
			}
		case FieldOTP:
			if req.OTP == "" {
				return ErrEmptyOTP
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *AccountValidator) validateLogin(req models.LoginRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if req.Email == "" {
				return ErrEmptyEmail
			}
		case FieldPassword:
			if req.Password == "" {
				return ErrEmptyPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
