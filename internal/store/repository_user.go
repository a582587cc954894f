package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-finance-tracker/internal/logger"
	"github.com/MKhiriev/go-finance-tracker/models"
	"github.com/jackc/pgerrcode"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles account creation, lookup, activation and pending-account
// cleanup against the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new account and returns it with UserID and
// CreatedAt populated from the RETURNING clause.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrEmailAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser,
		user.FullName,
		user.Email,
		user.PasswordHash,
		user.ProfileImageURL,
		user.Activated,
		user.OTPCode,
		user.OTPExpiresAt,
	)

	if err := row.Scan(&user.UserID, &user.CreatedAt); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error inserting user")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrEmailAlreadyExists
		case "":
			return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return user, nil
}

// FindUserByEmail retrieves the account registered with email.
// An empty result set yields [ErrNoUserWasFound].
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	user, err := r.findUser(ctx, findUserByEmail, email)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*userRepository.FindUserByEmail").Msg("error finding user by email")
		return models.User{}, err
	}
	return user, nil
}

// FindUserByID retrieves the account with the given id.
// An empty result set yields [ErrNoUserWasFound].
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	user, err := r.findUser(ctx, findUserByID, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*userRepository.FindUserByID").Int64("user_id", userID).Msg("error finding user by id")
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) findUser(ctx context.Context, query string, arg any) (models.User, error) {
	var (
		user         models.User
		profileImage sql.NullString
		otpExpiresAt sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.UserID,
		&user.FullName,
		&user.Email,
		&user.PasswordHash,
		&profileImage,
		&user.Activated,
		&user.OTPCode,
		&otpExpiresAt,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNoUserWasFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	if profileImage.Valid {
		user.ProfileImageURL = &profileImage.String
	}
	if otpExpiresAt.Valid {
		user.OTPExpiresAt = &otpExpiresAt.Time
	}

	return user, nil
}

// DeletePendingByEmail removes the unactivated account registered with
// email. It is not an error if there is none.
func (r *userRepository) DeletePendingByEmail(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deletePendingUserByEmail, email)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.DeletePendingByEmail").Msg("error deleting pending user")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if deleted, _ := result.RowsAffected(); deleted > 0 {
		log.Info().Str("func", "*userRepository.DeletePendingByEmail").Int64("deleted", deleted).Msg("stale pending account removed")
	}

	return nil
}

// Activate sets activated=true and clears the code and its expiry in one
// statement. The WHERE clause requires the account to still be pending and
// to still hold code, so of two concurrent calls at most one succeeds.
func (r *userRepository) Activate(ctx context.Context, userID int64, code string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, activateUser, userID, code)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.Activate").Int64("user_id", userID).Msg("error activating user")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.Activate").Int64("user_id", userID).Msg("error reading affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrNothingActivated
	}

	return nil
}

// DeleteExpiredPending removes unactivated accounts whose code expired
// before the given instant.
func (r *userRepository) DeleteExpiredPending(ctx context.Context, before time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteExpiredPendingUsers, before)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteExpiredPending").Msg("error deleting expired pending users")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return deleted, nil
}
