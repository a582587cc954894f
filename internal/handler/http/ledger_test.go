package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-finance-tracker/internal/service"
	"github.com/MKhiriev/go-finance-tracker/models"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withEntryID sets the {id} URL parameter the way chi does during routing.
func withEntryID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// ─────────────────────────────────────────────
// addEntry
// ─────────────────────────────────────────────

func TestAddEntry_Income(t *testing.T) {
	var got models.Entry
	ledger := &mockLedgerService{
		addEntryFn: func(_ context.Context, entry models.Entry) (models.Entry, error) {
			got = entry
			entry.ID = 11
			return entry, nil
		},
	}
	h := newTestHandler(t, &service.Services{LedgerService: ledger})

	body := `{"source":"Salary","category":"ignored","amount":1500.5,"date":"2026-05-01","icon":"💰"}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/income/add", strings.NewReader(body)), 7)
	rec := httptest.NewRecorder()

	h.addEntry(incomeLedger)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, models.Income, got.Kind)
	assert.Equal(t, "Salary", got.Label)
	assert.True(t, decimal.RequireFromString("1500.5").Equal(got.Amount))
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), got.Date)

	resp := decodeBody(t, rec)
	assert.Equal(t, float64(11), resp["id"])
	assert.Equal(t, "Salary", resp["source"])
	assert.Equal(t, "income", resp["type"])
}

func TestAddEntry_ExpenseUsesCategory(t *testing.T) {
	var got models.Entry
	ledger := &mockLedgerService{
		addEntryFn: func(_ context.Context, entry models.Entry) (models.Entry, error) {
			got = entry
			return entry, nil
		},
	}
	h := newTestHandler(t, &service.Services{LedgerService: ledger})

	body := `{"category":"Food","amount":12,"date":"2026-05-02T10:00:00Z"}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/expense/add", strings.NewReader(body)), 7)
	rec := httptest.NewRecorder()

	h.addEntry(expenseLedger)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.Expense, got.Kind)
	assert.Equal(t, "Food", got.Label)
	assert.Equal(t, "Food", decodeBody(t, rec)["category"])
}

func TestAddEntry_InvalidDate(t *testing.T) {
	h := newTestHandler(t, &service.Services{LedgerService: &mockLedgerService{}})

	body := `{"source":"Salary","amount":10,"date":"yesterday"}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/income/add", strings.NewReader(body)), 7)
	rec := httptest.NewRecorder()

	h.addEntry(incomeLedger)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid date", decodeBody(t, rec)["message"])
}

func TestAddEntry_InvalidJSON(t *testing.T) {
	h := newTestHandler(t, &service.Services{LedgerService: &mockLedgerService{}})

	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/income/add", strings.NewReader(`[`)), 7)
	rec := httptest.NewRecorder()

	h.addEntry(incomeLedger)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON was passed", decodeBody(t, rec)["message"])
}

func TestAddEntry_ValidationError(t *testing.T) {
	ledger := &mockLedgerService{
		addEntryFn: func(_ context.Context, _ models.Entry) (models.Entry, error) {
			return models.Entry{}, service.ErrValidation
		},
	}
	h := newTestHandler(t, &service.Services{LedgerService: ledger})

	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/income/add", strings.NewReader(`{}`)), 7)
	rec := httptest.NewRecorder()

	h.addEntry(incomeLedger)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "All fields are required", decodeBody(t, rec)["message"])
}

// ─────────────────────────────────────────────
// listEntries
// ─────────────────────────────────────────────

func TestListEntries_Success(t *testing.T) {
	ledger := &mockLedgerService{
		listEntriesFn: func(_ context.Context, userID int64, kind models.EntryKind) ([]models.Entry, error) {
			assert.Equal(t, int64(7), userID)
			assert.Equal(t, models.Expense, kind)
			return []models.Entry{
				{ID: 2, Kind: models.Expense, Label: "Rent", Amount: decimal.NewFromInt(900)},
				{ID: 1, Kind: models.Expense, Label: "Food", Amount: decimal.NewFromInt(20)},
			}, nil
		},
	}
	h := newTestHandler(t, &service.Services{LedgerService: ledger})

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/expense/get", nil), 7)
	rec := httptest.NewRecorder()

	h.listEntries(expenseLedger)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "Rent", entries[0]["category"])
	assert.Equal(t, float64(900), entries[0]["amount"])
}

func TestListEntries_EmptyIsArray(t *testing.T) {
	ledger := &mockLedgerService{
		listEntriesFn: func(_ context.Context, _ int64, _ models.EntryKind) ([]models.Entry, error) {
			return nil, nil
		},
	}
	h := newTestHandler(t, &service.Services{LedgerService: ledger})

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/income/get", nil), 7)
	rec := httptest.NewRecorder()

	h.listEntries(incomeLedger)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListEntries_ServiceError(t *testing.T) {
	ledger := &mockLedgerService{
		listEntriesFn: func(_ context.Context, _ int64, _ models.EntryKind) ([]models.Entry, error) {
			return nil, errors.New("db down")
		},
	}
	h := newTestHandler(t, &service.Services{LedgerService: ledger})

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/income/get", nil), 7)
	rec := httptest.NewRecorder()

	h.listEntries(incomeLedger)(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server Error", decodeBody(t, rec)["message"])
}

// ─────────────────────────────────────────────
// deleteEntry
// ─────────────────────────────────────────────

func TestDeleteEntry_Success(t *testing.T) {
	ledger := &mockLedgerService{
		deleteEntryFn: func(_ context.Context, userID int64, kind models.EntryKind, entryID int64) error {
			assert.Equal(t, int64(7), userID)
			assert.Equal(t, models.Income, kind)
			assert.Equal(t, int64(42), entryID)
			return nil
		},
	}
	h := newTestHandler(t, &service.Services{LedgerService: ledger})

	req := withEntryID(withUser(httptest.NewRequest(http.MethodDelete, "/api/v1/income/42", nil), 7), "42")
	rec := httptest.NewRecorder()

	h.deleteEntry(incomeLedger)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Income deleted successfully", decodeBody(t, rec)["message"])
}

func TestDeleteEntry_InvalidID(t *testing.T) {
	h := newTestHandler(t, &service.Services{LedgerService: &mockLedgerService{}})

	for _, id := range []string{"abc", "0", "-3"} {
		req := withEntryID(withUser(httptest.NewRequest(http.MethodDelete, "/api/v1/expense/x", nil), 7), id)
		rec := httptest.NewRecorder()

		h.deleteEntry(expenseLedger)(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, id)
	}
}

func TestDeleteEntry_NotFound(t *testing.T) {
	ledger := &mockLedgerService{
		deleteEntryFn: func(_ context.Context, _ int64, _ models.EntryKind, _ int64) error {
			return service.ErrEntryNotFound
		},
	}
	h := newTestHandler(t, &service.Services{LedgerService: ledger})

	req := withEntryID(withUser(httptest.NewRequest(http.MethodDelete, "/api/v1/expense/5", nil), 7), "5")
	rec := httptest.NewRecorder()

	h.deleteEntry(expenseLedger)(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ─────────────────────────────────────────────
// downloadEntries
// ─────────────────────────────────────────────

func TestDownloadEntries_Success(t *testing.T) {
	ledger := &mockLedgerService{
		exportEntriesFn: func(_ context.Context, userID int64, kind models.EntryKind, w io.Writer) error {
			assert.Equal(t, models.Expense, kind)
			_, err := io.WriteString(w, "Label,Amount,Date\nFood,12.00,2026-05-02\n")
			return err
		},
	}
	h := newTestHandler(t, &service.Services{LedgerService: ledger})

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/expense/download", nil), 7)
	rec := httptest.NewRecorder()

	h.downloadEntries(expenseLedger)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="expense_details.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Label,Amount,Date\nFood,12.00,2026-05-02\n", rec.Body.String())
}

func TestDownloadEntries_ErrorHasNoPartialBody(t *testing.T) {
	ledger := &mockLedgerService{
		exportEntriesFn: func(_ context.Context, _ int64, _ models.EntryKind, w io.Writer) error {
			io.WriteString(w, "Label,Amount,Date\n")
			return errors.New("connection reset")
		},
	}
	h := newTestHandler(t, &service.Services{LedgerService: ledger})

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/income/download", nil), 7)
	rec := httptest.NewRecorder()

	h.downloadEntries(incomeLedger)(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
	assert.NotContains(t, rec.Body.String(), "Label,Amount,Date")
}
