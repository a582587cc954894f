package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-finance-tracker/internal/logger"
	"github.com/MKhiriev/go-finance-tracker/internal/utils"
	"github.com/MKhiriev/go-finance-tracker/models"
	"github.com/go-chi/chi/v5"
)

// ledgerRoutes parameterizes the handlers shared by /income and /expense.
type ledgerRoutes struct {
	kind           models.EntryKind
	deletedMessage string
	exportFileName string
}

var (
	incomeLedger = ledgerRoutes{
		kind:           models.Income,
		deletedMessage: "Income deleted successfully",
		exportFileName: "income_details.csv",
	}
	expenseLedger = ledgerRoutes{
		kind:           models.Expense,
		deletedMessage: "Expense deleted successfully",
		exportFileName: "expense_details.csv",
	}
)

func (h *Handler) addEntry(lr ledgerRoutes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromRequest(r)

		userID, ok := utils.GetUserIDFromContext(ctx)
		if !ok {
			writeError(w, r, ErrNoUserInContext)
			return
		}

		var req models.EntryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, r, err, http.StatusBadRequest, invalidJSONMessage)
			return
		}

		entry, err := req.ToEntry(userID, lr.kind)
		if err != nil {
			writeError(w, r, err)
			return
		}

		saved, err := h.services.LedgerService.AddEntry(ctx, entry)
		if err != nil {
			writeError(w, r, err)
			return
		}

		log.Debug().Int64("entry_id", saved.ID).Str("kind", string(lr.kind)).Msg("entry added")

		utils.WriteJSON(w, saved, http.StatusOK)
	}
}

func (h *Handler) listEntries(lr ledgerRoutes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, ok := utils.GetUserIDFromContext(ctx)
		if !ok {
			writeError(w, r, ErrNoUserInContext)
			return
		}

		entries, err := h.services.LedgerService.ListEntries(ctx, userID, lr.kind)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if entries == nil {
			entries = []models.Entry{}
		}

		utils.WriteJSON(w, entries, http.StatusOK)
	}
}

func (h *Handler) deleteEntry(lr ledgerRoutes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, ok := utils.GetUserIDFromContext(ctx)
		if !ok {
			writeError(w, r, ErrNoUserInContext)
			return
		}

		entryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || entryID <= 0 {
			writeError(w, r, ErrInvalidEntryID)
			return
		}

		if err = h.services.LedgerService.DeleteEntry(ctx, userID, lr.kind, entryID); err != nil {
			writeError(w, r, err)
			return
		}

		utils.WriteMessage(w, lr.deletedMessage, http.StatusOK)
	}
}

// downloadEntries renders the CSV into memory first so that a failure
// halfway through still produces a proper error response.
func (h *Handler) downloadEntries(lr ledgerRoutes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, ok := utils.GetUserIDFromContext(ctx)
		if !ok {
			writeError(w, r, ErrNoUserInContext)
			return
		}

		var buf bytes.Buffer
		if err := h.services.LedgerService.ExportEntries(ctx, userID, lr.kind, &buf); err != nil {
			writeError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+lr.exportFileName+`"`)
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	}
}
