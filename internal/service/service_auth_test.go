package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-finance-tracker/internal/config"
	"github.com/MKhiriev/go-finance-tracker/internal/logger"
	"github.com/MKhiriev/go-finance-tracker/internal/metrics"
	"github.com/MKhiriev/go-finance-tracker/internal/mock"
	"github.com/MKhiriev/go-finance-tracker/internal/store"
	"github.com/MKhiriev/go-finance-tracker/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

const testCode = "123456"

// recordingMetrics keeps what the service reported.
type recordingMetrics struct {
	metrics.Nop
	outcomes []string
	failures int
}

func (r *recordingMetrics) RecordOTPOutcome(outcome string) { r.outcomes = append(r.outcomes, outcome) }
func (r *recordingMetrics) RecordNotificationFailure()      { r.failures++ }

func testAppConfig() config.App {
	return config.App{
		PasswordHashCost: bcrypt.MinCost,
		TokenSignKey:     "test-sign-key",
		TokenIssuer:      "test-issuer",
		TokenDuration:    time.Hour,
		OTPTTL:           10 * time.Minute,
	}
}

// newTestAuthSvc: хелпер для создания authService с моками и фиксированными часами
func newTestAuthSvc(t *testing.T, ctrl *gomock.Controller) (*authService, *mock.MockUserRepository, *mock.MockNotifier, *recordingMetrics) {
	t.Helper()
	repo := mock.NewMockUserRepository(ctrl)
	mailer := mock.NewMockNotifier(ctrl)
	rec := &recordingMetrics{}

	svc := NewAuthService(repo, mailer, rec, testAppConfig(), logger.Nop()).(*authService)
	svc.now = func() time.Time { return fixedNow }
	svc.generateOTP = func() (string, error) { return testCode, nil }

	return svc, repo, mailer, rec
}

func pendingUser(code string, expiresAt time.Time) models.User {
	return models.User{
		UserID:       1,
		FullName:     "Ann",
		Email:        "ann@example.com",
		PasswordHash: "hash",
		OTPCode:      code,
		OTPExpiresAt: &expiresAt,
	}
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

// ── Register ─────────────────────────────────────────────────────────────────

func TestAuthService_Register_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, mailer, rec := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		repo.EXPECT().FindUserByEmail(ctx, "ann@example.com").Return(models.User{}, store.ErrNoUserWasFound),
		mailer.EXPECT().
			Send(ctx, "ann@example.com", "Verify your email - Finance Tracker", "Hi Ann,\n\nYour OTP is: 123456\nIt expires in 10 minutes.").
			Return(nil),
		repo.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, u models.User) (models.User, error) {
				assert.Equal(t, "Ann", u.FullName)
				assert.Equal(t, "ann@example.com", u.Email)
				assert.False(t, u.Activated)
				assert.Equal(t, testCode, u.OTPCode)
				require.NotNil(t, u.OTPExpiresAt)
				assert.True(t, fixedNow.Add(10*time.Minute).Equal(*u.OTPExpiresAt))
				assert.Empty(t, u.Password)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret")))

				u.UserID = 42
				return u, nil
			},
		),
	)

	reg, err := svc.Register(ctx, models.RegisterRequest{FullName: "Ann", Email: "ann@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), reg.User.UserID)
	assert.Empty(t, reg.User.PasswordHash)
	assert.Empty(t, reg.User.OTPCode)
	assert.Empty(t, reg.DevOTP, "code must not be echoed unless enabled")
	assert.Equal(t, []string{metrics.OTPIssued}, rec.outcomes)
}

func TestAuthService_Register_NormalizesInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, mailer, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	repo.EXPECT().FindUserByEmail(ctx, "ann@example.com").Return(models.User{}, store.ErrNoUserWasFound)
	mailer.EXPECT().Send(ctx, "ann@example.com", gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.User) (models.User, error) {
			assert.Equal(t, "Ann", u.FullName)
			return u, nil
		},
	)

	_, err := svc.Register(ctx, models.RegisterRequest{FullName: "<b>Ann</b>", Email: "  Ann@Example.COM ", Password: "secret"})
	require.NoError(t, err)
}

func TestAuthService_Register_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.RegisterRequest
	}{
		{name: "no name", req: models.RegisterRequest{Email: "a@b.c", Password: "pw"}},
		{name: "markup only name", req: models.RegisterRequest{FullName: "<i></i>", Email: "a@b.c", Password: "pw"}},
		{name: "no email", req: models.RegisterRequest{FullName: "Ann", Password: "pw"}},
		{name: "blank email", req: models.RegisterRequest{FullName: "Ann", Email: "   ", Password: "pw"}},
		{name: "no password", req: models.RegisterRequest{FullName: "Ann", Email: "a@b.c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, _, _, _ := newTestAuthSvc(t, ctrl)

			_, err := svc.Register(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_Register_ActivatedEmailBlocked(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	repo.EXPECT().FindUserByEmail(ctx, "ann@example.com").Return(models.User{UserID: 1, Activated: true}, nil)

	_, err := svc.Register(ctx, models.RegisterRequest{FullName: "Ann", Email: "ann@example.com", Password: "secret"})
	assert.ErrorIs(t, err, ErrDuplicateAccount)
}

func TestAuthService_Register_ReplacesPendingAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, mailer, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()
	svc.generateOTP = func() (string, error) { return "654321", nil }

	gomock.InOrder(
		repo.EXPECT().FindUserByEmail(ctx, "ann@example.com").Return(pendingUser(testCode, fixedNow), nil),
		repo.EXPECT().DeletePendingByEmail(ctx, "ann@example.com").Return(nil),
		mailer.EXPECT().Send(ctx, "ann@example.com", gomock.Any(), gomock.Any()).Return(nil),
		repo.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, u models.User) (models.User, error) {
				assert.Equal(t, "654321", u.OTPCode, "a fresh code replaces the old one")
				return u, nil
			},
		),
	)

	_, err := svc.Register(ctx, models.RegisterRequest{FullName: "Ann", Email: "ann@example.com", Password: "secret"})
	require.NoError(t, err)
}

func TestAuthService_Register_NotificationFailureStoresNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, mailer, rec := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	repo.EXPECT().FindUserByEmail(ctx, "ann@example.com").Return(models.User{}, store.ErrNoUserWasFound)
	mailer.EXPECT().Send(ctx, "ann@example.com", gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))
	repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Register(ctx, models.RegisterRequest{FullName: "Ann", Email: "ann@example.com", Password: "secret"})
	assert.ErrorIs(t, err, ErrNotificationFailed)
	assert.Equal(t, 1, rec.failures)
	assert.Empty(t, rec.outcomes)
}

func TestAuthService_Register_ConcurrentInsertIsDuplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, mailer, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	repo.EXPECT().FindUserByEmail(ctx, gomock.Any()).Return(models.User{}, store.ErrNoUserWasFound)
	mailer.EXPECT().Send(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().CreateUser(ctx, gomock.Any()).Return(models.User{}, store.ErrEmailAlreadyExists)

	_, err := svc.Register(ctx, models.RegisterRequest{FullName: "Ann", Email: "ann@example.com", Password: "secret"})
	assert.ErrorIs(t, err, ErrDuplicateAccount)
}

func TestAuthService_Register_LookupFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()
	dbErr := errors.New("connection reset")

	repo.EXPECT().FindUserByEmail(ctx, gomock.Any()).Return(models.User{}, dbErr)

	_, err := svc.Register(ctx, models.RegisterRequest{FullName: "Ann", Email: "ann@example.com", Password: "secret"})
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
}

func TestAuthService_Register_EchoesCodeOutsideProduction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, mailer, _ := newTestAuthSvc(t, ctrl)
	svc.exposeOTP = true
	ctx := context.Background()

	repo.EXPECT().FindUserByEmail(ctx, gomock.Any()).Return(models.User{}, store.ErrNoUserWasFound)
	mailer.EXPECT().Send(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.User) (models.User, error) { return u, nil },
	)

	reg, err := svc.Register(ctx, models.RegisterRequest{FullName: "Ann", Email: "ann@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, testCode, reg.DevOTP)
}

func TestNewAuthService_ExposeOTPNeverInProduction(t *testing.T) {
	cfg := testAppConfig()
	cfg.ExposeOTP = true

	cfg.Environment = "development"
	dev := NewAuthService(nil, nil, metrics.Nop{}, cfg, logger.Nop()).(*authService)
	assert.True(t, dev.exposeOTP)

	cfg.Environment = "production"
	prod := NewAuthService(nil, nil, metrics.Nop{}, cfg, logger.Nop()).(*authService)
	assert.False(t, prod.exposeOTP)
}

// ── VerifyEmail ──────────────────────────────────────────────────────────────

func TestAuthService_VerifyEmail_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, _, rec := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		repo.EXPECT().FindUserByEmail(ctx, "ann@example.com").Return(pendingUser(testCode, fixedNow.Add(5*time.Minute)), nil),
		repo.EXPECT().Activate(ctx, int64(1), testCode).Return(nil),
	)

	user, token, err := svc.VerifyEmail(ctx, models.VerifyEmailRequest{Email: "Ann@example.com", OTP: testCode})
	require.NoError(t, err)
	assert.True(t, user.Activated)
	assert.Empty(t, user.OTPCode)
	assert.Nil(t, user.OTPExpiresAt)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, int64(1), token.UserID)
	assert.NotEmpty(t, token.SignedString)
	assert.Equal(t, []string{metrics.OTPVerified}, rec.outcomes)
}

func TestAuthService_VerifyEmail_ExpiryInstantIsStillValid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	repo.EXPECT().FindUserByEmail(ctx, gomock.Any()).Return(pendingUser(testCode, fixedNow), nil)
	repo.EXPECT().Activate(ctx, int64(1), testCode).Return(nil)

	_, _, err := svc.VerifyEmail(ctx, models.VerifyEmailRequest{Email: "ann@example.com", OTP: testCode})
	require.NoError(t, err)
}

func TestAuthService_VerifyEmail_OrderedChecks(t *testing.T) {
	activated := pendingUser("999999", fixedNow.Add(-time.Hour))
	activated.Activated = true

	noCode := pendingUser("", fixedNow)
	noCode.OTPExpiresAt = nil

	tests := []struct {
		name    string
		found   models.User
		findErr error
		otp     string
		wantErr error
		outcome []string
	}{
		{
			name:    "unknown email",
			findErr: store.ErrNoUserWasFound,
			otp:     testCode,
			wantErr: ErrAccountNotFound,
		},
		{
			name:    "already activated wins over expiry and mismatch",
			found:   activated,
			otp:     testCode,
			wantErr: ErrAlreadyVerified,
		},
		{
			name:    "no code issued",
			found:   noCode,
			otp:     testCode,
			wantErr: ErrNoCodeIssued,
		},
		{
			name:    "expired wins over mismatch",
			found:   pendingUser(testCode, fixedNow.Add(-time.Second)),
			otp:     "000000",
			wantErr: ErrCodeExpired,
			outcome: []string{metrics.OTPExpired},
		},
		{
			name:    "wrong code",
			found:   pendingUser(testCode, fixedNow.Add(time.Minute)),
			otp:     "123457",
			wantErr: ErrInvalidCode,
			outcome: []string{metrics.OTPInvalid},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, repo, _, rec := newTestAuthSvc(t, ctrl)
			ctx := context.Background()

			repo.EXPECT().FindUserByEmail(ctx, "ann@example.com").Return(tt.found, tt.findErr)
			repo.EXPECT().Activate(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			_, _, err := svc.VerifyEmail(ctx, models.VerifyEmailRequest{Email: "ann@example.com", OTP: tt.otp})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.outcome, rec.outcomes)
		})
	}
}

func TestAuthService_VerifyEmail_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _ := newTestAuthSvc(t, ctrl)

	_, _, err := svc.VerifyEmail(context.Background(), models.VerifyEmailRequest{Email: "ann@example.com"})
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.VerifyEmail(context.Background(), models.VerifyEmailRequest{OTP: testCode})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_VerifyEmail_LostRaceIsAlreadyVerified(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	repo.EXPECT().FindUserByEmail(ctx, gomock.Any()).Return(pendingUser(testCode, fixedNow.Add(time.Minute)), nil)
	repo.EXPECT().Activate(ctx, int64(1), testCode).Return(store.ErrNothingActivated)

	_, _, err := svc.VerifyEmail(ctx, models.VerifyEmailRequest{Email: "ann@example.com", OTP: testCode})
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestAuthService_VerifyEmail_CodeIsSingleUse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()
	req := models.VerifyEmailRequest{Email: "ann@example.com", OTP: testCode}

	activated := pendingUser("", fixedNow)
	activated.OTPExpiresAt = nil
	activated.Activated = true

	gomock.InOrder(
		repo.EXPECT().FindUserByEmail(ctx, "ann@example.com").Return(pendingUser(testCode, fixedNow.Add(time.Minute)), nil),
		repo.EXPECT().Activate(ctx, int64(1), testCode).Return(nil),
		repo.EXPECT().FindUserByEmail(ctx, "ann@example.com").Return(activated, nil),
	)

	_, _, err := svc.VerifyEmail(ctx, req)
	require.NoError(t, err)

	_, _, err = svc.VerifyEmail(ctx, req)
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestAuthService_VerifyEmail_ActivationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()
	dbErr := errors.New("deadlock")

	repo.EXPECT().FindUserByEmail(ctx, gomock.Any()).Return(pendingUser(testCode, fixedNow.Add(time.Minute)), nil)
	repo.EXPECT().Activate(ctx, int64(1), testCode).Return(dbErr)

	_, _, err := svc.VerifyEmail(ctx, models.VerifyEmailRequest{Email: "ann@example.com", OTP: testCode})
	assert.ErrorIs(t, err, dbErr)
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name      string
		found     models.User
		findErr   error
		password  string
		wantErr   error
		wantToken bool
	}{
		{
			name:      "success",
			found:     models.User{UserID: 5, Email: "ann@example.com", PasswordHash: hashOf(t, "pw"), Activated: true},
			password:  "pw",
			wantToken: true,
		},
		{
			name:     "unknown email",
			findErr:  store.ErrNoUserWasFound,
			password: "pw",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			found:    models.User{UserID: 5, PasswordHash: hashOf(t, "pw"), Activated: true},
			password: "nope",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "not verified",
			found:    models.User{UserID: 5, PasswordHash: hashOf(t, "pw")},
			password: "pw",
			wantErr:  ErrNotVerified,
		},
		{
			name:     "not verified with wrong password reveals nothing",
			found:    models.User{UserID: 5, PasswordHash: hashOf(t, "pw")},
			password: "nope",
			wantErr:  ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, repo, _, _ := newTestAuthSvc(t, ctrl)
			ctx := context.Background()

			repo.EXPECT().FindUserByEmail(ctx, "ann@example.com").Return(tt.found, tt.findErr)

			user, token, err := svc.Login(ctx, models.LoginRequest{Email: "ann@example.com", Password: tt.password})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, user.PasswordHash)
			assert.Equal(t, tt.found.UserID, token.UserID)
			assert.NotEmpty(t, token.SignedString)
		})
	}
}

func TestAuthService_Login_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _ := newTestAuthSvc(t, ctrl)

	_, _, err := svc.Login(context.Background(), models.LoginRequest{Email: "ann@example.com"})
	assert.ErrorIs(t, err, ErrValidation)
}

// ── GetUser ──────────────────────────────────────────────────────────────────

func TestAuthService_GetUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	repo.EXPECT().FindUserByID(ctx, int64(3)).Return(models.User{UserID: 3, PasswordHash: "hash", Activated: true}, nil)
	repo.EXPECT().FindUserByID(ctx, int64(4)).Return(models.User{}, store.ErrNoUserWasFound)

	user, err := svc.GetUser(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.UserID)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.GetUser(ctx, 4)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

// ── Tokens ───────────────────────────────────────────────────────────────────

func TestAuthService_CreateAndParseToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _ := newTestAuthSvc(t, ctrl)
	svc.now = time.Now
	ctx := context.Background()

	token, err := svc.CreateToken(ctx, models.User{UserID: 77})
	require.NoError(t, err)

	parsed, err := svc.ParseToken(ctx, token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, int64(77), parsed.UserID)

	issuer, err := parsed.GetIssuer()
	require.NoError(t, err)
	assert.Equal(t, "test-issuer", issuer)
}

func TestAuthService_ParseToken_Rejects(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _, _ := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	svc.now = func() time.Time { return time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC) }
	expired, err := svc.CreateToken(ctx, models.User{UserID: 1})
	require.NoError(t, err)

	svc.now = time.Now
	other := NewAuthService(nil, nil, metrics.Nop{}, config.App{TokenSignKey: "other", TokenIssuer: "test-issuer", TokenDuration: time.Hour}, logger.Nop())
	foreign, err := other.CreateToken(ctx, models.User{UserID: 1})
	require.NoError(t, err)

	for _, raw := range []string{"", "garbage", expired.SignedString, foreign.SignedString} {
		_, err = svc.ParseToken(ctx, raw)
		assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
	}
}

func TestAuthService_CreateToken_MisconfiguredKey(t *testing.T) {
	svc := NewAuthService(nil, nil, metrics.Nop{}, config.App{}, logger.Nop())

	_, err := svc.CreateToken(context.Background(), models.User{UserID: 1})
	assert.ErrorIs(t, err, ErrTokenCreationFailed)
}
