package http

import (
	"net/http"

	"github.com/MKhiriev/go-finance-tracker/internal/logger"
	"github.com/MKhiriev/go-finance-tracker/internal/utils"
)

// auth is an HTTP middleware that enforces JWT-based authentication.
//
// It extracts the bearer token from the "Authorization" header, validates it
// via [service.AuthService.ParseToken] and, on success, stores the user id in
// the request context under [utils.UserIDCtxKey]. The request-scoped logger
// is replaced by a child tagged with the same id.
//
// Requests without a usable header get 401 "Not authorized, no token";
// requests whose token fails validation get 401 "Not authorized, token failed".
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := utils.ParseBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			writeMessage(w, r, err, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			writeMessage(w, r, err, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		ctx = utils.WithUserID(ctx, token.UserID)
		ctx = logger.FromContext(ctx).WithUserID(token.UserID).WithContext(ctx)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
