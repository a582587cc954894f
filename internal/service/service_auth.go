package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-finance-tracker/internal/config"
	"github.com/MKhiriev/go-finance-tracker/internal/logger"
	"github.com/MKhiriev/go-finance-tracker/internal/metrics"
	"github.com/MKhiriev/go-finance-tracker/internal/notifier"
	"github.com/MKhiriev/go-finance-tracker/internal/store"
	"github.com/MKhiriev/go-finance-tracker/internal/utils"
	"github.com/MKhiriev/go-finance-tracker/internal/validators"
	"github.com/MKhiriev/go-finance-tracker/models"
	"golang.org/x/crypto/bcrypt"
)

const (
	verificationSubject = "Verify your email - Finance Tracker"
	verificationBody    = "Hi %s,\n\nYour OTP is: %s\nIt expires in %d minutes."
)

// authService is the concrete implementation of AuthService.
// It handles registration with an emailed one-time code, code verification,
// credential checks and the JWT token lifecycle.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// notifier delivers verification codes.
	notifier notifier.Notifier

	// validator checks the presence of required request fields.
	validator validators.Validator

	// metrics records verification outcomes and delivery failures.
	metrics metrics.Recorder

	// now and generateOTP are replaced in tests.
	now         func() time.Time
	generateOTP func() (string, error)

	// passwordHashCost is the bcrypt cost used at registration.
	passwordHashCost int

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	// otpTTL is the lifetime of a verification code.
	otpTTL time.Duration

	// exposeOTP echoes issued codes back in the registration result.
	// Never true in production.
	exposeOTP bool

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given repository,
// notifier and metrics recorder and populated with security parameters from
// cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(userRepository store.UserRepository, notifier notifier.Notifier, recorder metrics.Recorder, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository:   userRepository,
		notifier:         notifier,
		validator:        validators.NewAccountValidator(),
		metrics:          recorder,
		now:              time.Now,
		generateOTP:      utils.GenerateOTP,
		passwordHashCost: cfg.PasswordHashCost,
		tokenSignKey:     cfg.TokenSignKey,
		tokenIssuer:      cfg.TokenIssuer,
		tokenDuration:    cfg.TokenDuration,
		otpTTL:           cfg.OTPTTL,
		exposeOTP:        cfg.ExposeOTP && !cfg.IsProduction(),
		logger:           logger,
	}
}

// Register creates a pending account and emails it a fresh verification code.
//
// An activated account with the same email blocks registration. A pending
// one is deleted first, so at most one outstanding code exists per email.
// The code is sent before anything is stored: when delivery fails nothing is
// persisted.
//
// Returns:
//   - ErrValidation if full name, email or password is missing.
//   - ErrDuplicateAccount if the email belongs to an activated account.
//   - ErrNotificationFailed if the code could not be delivered.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (models.Registration, error) {
	log := logger.FromContext(ctx)

	req.FullName = validators.SanitizeText(req.FullName)
	req.Email = validators.NormalizeEmail(req.Email)
	if err := a.validator.Validate(ctx, req); err != nil {
		log.Debug().Err(err).Msg("invalid registration data provided")
		return models.Registration{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	existing, err := a.userRepository.FindUserByEmail(ctx, req.Email)
	switch {
	case err == nil && existing.Activated:
		log.Info().Int64("user_id", existing.UserID).Msg("registration for an activated email")
		return models.Registration{}, ErrDuplicateAccount
	case err == nil:
		if err = a.userRepository.DeletePendingByEmail(ctx, req.Email); err != nil {
			log.Err(err).Int64("user_id", existing.UserID).Msg("failed to delete pending account")
			return models.Registration{}, fmt.Errorf("failed to delete pending account: %w", err)
		}
	case errors.Is(err, store.ErrNoUserWasFound):
	default:
		log.Err(err).Msg("user search by email failed")
		return models.Registration{}, fmt.Errorf("user search by email failed: %w", err)
	}

	code, err := a.generateOTP()
	if err != nil {
		log.Err(err).Msg("failed to generate verification code")
		return models.Registration{}, fmt.Errorf("failed to generate verification code: %w", err)
	}

	body := fmt.Sprintf(verificationBody, req.FullName, code, int(a.otpTTL.Minutes()))
	if err = a.notifier.Send(ctx, req.Email, verificationSubject, body); err != nil {
		a.metrics.RecordNotificationFailure()
		log.Err(err).Msg("failed to deliver verification code")
		return models.Registration{}, fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), a.passwordHashCost)
	if err != nil {
		log.Err(err).Msg("failed to hash password")
		return models.Registration{}, fmt.Errorf("failed to hash password: %w", err)
	}

	expiresAt := a.now().Add(a.otpTTL)
	created, err := a.userRepository.CreateUser(ctx, models.User{
		FullName:        req.FullName,
		Email:           req.Email,
		PasswordHash:    string(passwordHash),
		ProfileImageURL: req.ProfileImageURL,
		OTPCode:         code,
		OTPExpiresAt:    &expiresAt,
	})
	if errors.Is(err, store.ErrEmailAlreadyExists) {
		// a concurrent registration for the same email won the insert
		log.Info().Msg("pending account created concurrently")
		return models.Registration{}, ErrDuplicateAccount
	}
	if err != nil {
		log.Err(err).Msg("user creation ended with error")
		return models.Registration{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	a.metrics.RecordOTPOutcome(metrics.OTPIssued)
	log.Info().Int64("user_id", created.UserID).Msg("verification code issued")

	registration := models.Registration{User: created.Public()}
	if a.exposeOTP {
		registration.DevOTP = code
	}

	return registration, nil
}

// VerifyEmail activates a pending account and issues a token for it.
//
// Checks run in a fixed order and the first failing one wins: account
// exists, not yet activated, code issued, code not expired, code matches.
// A wrong code leaves the stored code and its expiry untouched, so the user
// may retry until it expires.
//
// Activation is one conditional UPDATE; when a concurrent call has already
// activated the account this call reports ErrAlreadyVerified.
func (a *authService) VerifyEmail(ctx context.Context, req models.VerifyEmailRequest) (models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	req.Email = validators.NormalizeEmail(req.Email)
	if err := a.validator.Validate(ctx, req); err != nil {
		return models.User{}, models.Token{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	user, err := a.userRepository.FindUserByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return models.User{}, models.Token{}, ErrAccountNotFound
	}
	if err != nil {
		log.Err(err).Msg("user search by email failed")
		return models.User{}, models.Token{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if user.Activated {
		return models.User{}, models.Token{}, ErrAlreadyVerified
	}

	if !user.HasPendingCode() {
		return models.User{}, models.Token{}, ErrNoCodeIssued
	}

	if user.OTPExpiresAt.Before(a.now()) {
		a.metrics.RecordOTPOutcome(metrics.OTPExpired)
		return models.User{}, models.Token{}, ErrCodeExpired
	}

	if !utils.OTPEqual(req.OTP, user.OTPCode) {
		a.metrics.RecordOTPOutcome(metrics.OTPInvalid)
		log.Info().Int64("user_id", user.UserID).Msg("invalid verification code submitted")
		return models.User{}, models.Token{}, ErrInvalidCode
	}

	if err = a.userRepository.Activate(ctx, user.UserID, user.OTPCode); err != nil {
		if errors.Is(err, store.ErrNothingActivated) {
			return models.User{}, models.Token{}, ErrAlreadyVerified
		}
		log.Err(err).Int64("user_id", user.UserID).Msg("account activation failed")
		return models.User{}, models.Token{}, fmt.Errorf("account activation failed: %w", err)
	}
	a.metrics.RecordOTPOutcome(metrics.OTPVerified)

	user.Activated = true
	user = user.Public()

	token, err := a.CreateToken(ctx, user)
	if err != nil {
		return models.User{}, models.Token{}, err
	}

	return user, token, nil
}

// Login authenticates an existing user.
//
// An unknown email and a wrong password are indistinguishable to the caller.
// The activation check runs only after the password matched.
//
// Returns:
//   - ErrValidation if email or password is missing.
//   - ErrInvalidCredentials if the email is unknown or the password differs.
//   - ErrNotVerified if the account has not been activated yet.
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	req.Email = validators.NormalizeEmail(req.Email)
	if err := a.validator.Validate(ctx, req); err != nil {
		return models.User{}, models.Token{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	user, err := a.userRepository.FindUserByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return models.User{}, models.Token{}, ErrInvalidCredentials
	}
	if err != nil {
		log.Err(err).Msg("user search by email failed")
		return models.User{}, models.Token{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Info().Int64("user_id", user.UserID).Msg("wrong password")
		return models.User{}, models.Token{}, ErrInvalidCredentials
	}

	if !user.Activated {
		return models.User{}, models.Token{}, ErrNotVerified
	}

	user = user.Public()
	token, err := a.CreateToken(ctx, user)
	if err != nil {
		return models.User{}, models.Token{}, err
	}

	return user, token, nil
}

// GetUser returns the account with the given id stripped of its secrets.
func (a *authService) GetUser(ctx context.Context, userID int64) (models.User, error) {
	user, err := a.userRepository.FindUserByID(ctx, userID)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return models.User{}, ErrAccountNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("user search by id failed: %w", err)
	}

	return user.Public(), nil
}

// CreateToken issues a signed JWT for the given user.
//
// The token is signed with the configured tokenSignKey, carries the configured
// tokenIssuer as the "iss" claim, and expires after tokenDuration.
//
// Returns the token model on success or a wrapped error if JWT generation fails.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.UserID, a.tokenDuration, a.tokenSignKey, a.now())
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string.
//
// It delegates to utils.ValidateAndParseJWTToken, verifying the signature and
// the issuer claim. Any validation failure (expired, wrong issuer, malformed)
// is normalised to ErrTokenIsExpiredOrInvalid so that callers do not need to
// inspect low-level JWT errors.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}
