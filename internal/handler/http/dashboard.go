package http

import (
	"net/http"

	"github.com/MKhiriev/go-finance-tracker/internal/utils"
)

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		writeError(w, r, ErrNoUserInContext)
		return
	}

	dashboard, err := h.services.DashboardService.Summarize(ctx, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, dashboard, http.StatusOK)
}
