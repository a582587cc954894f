package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/go-finance-tracker/internal/config"
	"github.com/MKhiriev/go-finance-tracker/internal/logger"
	"github.com/MKhiriev/go-finance-tracker/internal/metrics"
	"github.com/MKhiriev/go-finance-tracker/internal/service"
	"github.com/MKhiriev/go-finance-tracker/internal/utils"
	"github.com/MKhiriev/go-finance-tracker/models"
	"github.com/prometheus/client_golang/prometheus"
)

// ─────────────────────────────────────────────
// Service mocks
// ─────────────────────────────────────────────

// mockAuthService implements service.AuthService for unit tests.
// Each method field can be overridden per test case.
type mockAuthService struct {
	registerFn    func(ctx context.Context, req models.RegisterRequest) (models.Registration, error)
	verifyEmailFn func(ctx context.Context, req models.VerifyEmailRequest) (models.User, models.Token, error)
	loginFn       func(ctx context.Context, req models.LoginRequest) (models.User, models.Token, error)
	getUserFn     func(ctx context.Context, userID int64) (models.User, error)
	createTokenFn func(ctx context.Context, user models.User) (models.Token, error)
	parseTokenFn  func(ctx context.Context, tokenString string) (models.Token, error)
}

func (m *mockAuthService) Register(ctx context.Context, req models.RegisterRequest) (models.Registration, error) {
	return m.registerFn(ctx, req)
}

func (m *mockAuthService) VerifyEmail(ctx context.Context, req models.VerifyEmailRequest) (models.User, models.Token, error) {
	return m.verifyEmailFn(ctx, req)
}

func (m *mockAuthService) Login(ctx context.Context, req models.LoginRequest) (models.User, models.Token, error) {
	return m.loginFn(ctx, req)
}

func (m *mockAuthService) GetUser(ctx context.Context, userID int64) (models.User, error) {
	return m.getUserFn(ctx, userID)
}

func (m *mockAuthService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	return m.createTokenFn(ctx, user)
}

func (m *mockAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	return m.parseTokenFn(ctx, tokenString)
}

// mockLedgerService implements service.LedgerService.
type mockLedgerService struct {
	addEntryFn      func(ctx context.Context, entry models.Entry) (models.Entry, error)
	listEntriesFn   func(ctx context.Context, userID int64, kind models.EntryKind) ([]models.Entry, error)
	deleteEntryFn   func(ctx context.Context, userID int64, kind models.EntryKind, entryID int64) error
	exportEntriesFn func(ctx context.Context, userID int64, kind models.EntryKind, w io.Writer) error
}

func (m *mockLedgerService) AddEntry(ctx context.Context, entry models.Entry) (models.Entry, error) {
	return m.addEntryFn(ctx, entry)
}

func (m *mockLedgerService) ListEntries(ctx context.Context, userID int64, kind models.EntryKind) ([]models.Entry, error) {
	return m.listEntriesFn(ctx, userID, kind)
}

func (m *mockLedgerService) DeleteEntry(ctx context.Context, userID int64, kind models.EntryKind, entryID int64) error {
	return m.deleteEntryFn(ctx, userID, kind, entryID)
}

func (m *mockLedgerService) ExportEntries(ctx context.Context, userID int64, kind models.EntryKind, w io.Writer) error {
	return m.exportEntriesFn(ctx, userID, kind, w)
}

// mockDashboardService implements service.DashboardService.
type mockDashboardService struct {
	summarizeFn func(ctx context.Context, userID int64) (models.Dashboard, error)
}

func (m *mockDashboardService) Summarize(ctx context.Context, userID int64) (models.Dashboard, error) {
	return m.summarizeFn(ctx, userID)
}

// mockReceiptService implements service.ReceiptService.
type mockReceiptService struct {
	parseReceiptFn func(ctx context.Context, image []byte, mimeType string) (models.ReceiptData, error)
}

func (m *mockReceiptService) ParseReceipt(ctx context.Context, image []byte, mimeType string) (models.ReceiptData, error) {
	return m.parseReceiptFn(ctx, image, mimeType)
}

// mockImageService implements service.ImageService.
type mockImageService struct {
	saveImageFn func(ctx context.Context, contentType string, r io.Reader) (string, error)
}

func (m *mockImageService) SaveImage(ctx context.Context, contentType string, r io.Reader) (string, error) {
	return m.saveImageFn(ctx, contentType, r)
}

// mockAppInfoService implements service.AppInfoService.
type mockAppInfoService struct {
	version string
}

func (m *mockAppInfoService) GetAppVersion(_ context.Context) string {
	return m.version
}

// recordedRequest is one call captured by recordingMetrics.
type recordedRequest struct {
	method string
	route  string
	status int
}

// recordingMetrics captures HTTP request observations.
type recordingMetrics struct {
	metrics.Nop
	requests []recordedRequest
}

func (m *recordingMetrics) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	m.requests = append(m.requests, recordedRequest{method: method, route: route, status: status})
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// testConfig returns the configuration used by handler tests.
func testConfig(t *testing.T) *config.StructuredConfig {
	t.Helper()
	return &config.StructuredConfig{
		Server: config.Server{
			HTTPAddress:       ":0",
			AllowedOrigins:    []string{"http://localhost:5173"},
			AuthRatePerMinute: 600,
			AuthRateBurst:     100,
		},
		Storage: config.Storage{Files: config.Files{UploadsDir: t.TempDir()}},
	}
}

// newTestHandler builds a Handler over svcs with a stub AppInfoService.
func newTestHandler(t *testing.T, svcs *service.Services) *Handler {
	t.Helper()
	if svcs.AppInfoService == nil {
		svcs.AppInfoService = &mockAppInfoService{version: "test-version"}
	}
	h := NewHandler(svcs, metrics.Nop{}, prometheus.NewRegistry(), testConfig(t), logger.Nop())
	t.Cleanup(h.Close)
	return h
}

// withUser returns r carrying userID the way the auth middleware stores it.
func withUser(r *http.Request, userID int64) *http.Request {
	return r.WithContext(utils.WithUserID(r.Context(), userID))
}

// validTokenAuth accepts the token "good" for user 7 and rejects the rest.
func validTokenAuth() *mockAuthService {
	return &mockAuthService{
		parseTokenFn: func(_ context.Context, tokenString string) (models.Token, error) {
			if tokenString == "good" {
				return models.Token{UserID: 7}, nil
			}
			return models.Token{}, service.ErrTokenIsExpiredOrInvalid
		},
	}
}

// serve runs req through the full router of h.
func serve(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, req)
	return rec
}
