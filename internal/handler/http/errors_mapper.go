package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-finance-tracker/internal/logger"
	"github.com/MKhiriev/go-finance-tracker/internal/service"
	"github.com/MKhiriev/go-finance-tracker/internal/utils"
	"github.com/MKhiriev/go-finance-tracker/models"
)

const serverErrorMessage = "Server Error"

// errorResponse is what a service error looks like on the wire.
type errorResponse struct {
	err     error
	status  int
	message string
}

// errorResponses is matched in order with [errors.Is]; the first hit wins.
var errorResponses = []errorResponse{
	{service.ErrValidation, http.StatusBadRequest, "All fields are required"},
	{models.ErrInvalidEntryDate, http.StatusBadRequest, "Invalid date"},
	{ErrInvalidEntryID, http.StatusBadRequest, "Invalid id"},

	{service.ErrDuplicateAccount, http.StatusBadRequest, "Email already in use"},
	{service.ErrNotificationFailed, http.StatusInternalServerError, "Failed to send OTP. Please try again."},

	{service.ErrAccountNotFound, http.StatusBadRequest, "User not found"},
	{service.ErrAlreadyVerified, http.StatusBadRequest, "Email already verified"},
	{service.ErrNoCodeIssued, http.StatusBadRequest, "OTP not generated"},
	{service.ErrCodeExpired, http.StatusBadRequest, "OTP expired, please request a new one"},
	{service.ErrInvalidCode, http.StatusBadRequest, "Invalid OTP"},

	{service.ErrInvalidCredentials, http.StatusBadRequest, "Invalid credentials"},
	{service.ErrNotVerified, http.StatusUnauthorized, "Please verify your email before logging in."},
	{service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized, "Not authorized, token failed"},
	{ErrNoUserInContext, http.StatusUnauthorized, "Not authorized, no token"},

	{service.ErrEntryNotFound, http.StatusNotFound, "Entry not found"},

	{service.ErrReceiptUnavailable, http.StatusNotImplemented, "Receipt scanning is not configured. (Missing GEMINI_API_KEY on server.)"},
	{service.ErrReceiptUnreadable, http.StatusInternalServerError, "Could not understand receipt. Please fill manually."},

	{service.ErrUnsupportedImageType, http.StatusBadRequest, "Only .jpeg, .jpg and .png formats are allowed"},
}

// responseFromError returns the status code and client-facing message for
// err. Unknown errors become 500 with a generic message.
func responseFromError(err error) (int, string) {
	for _, resp := range errorResponses {
		if errors.Is(err, resp.err) {
			return resp.status, resp.message
		}
	}
	return http.StatusInternalServerError, serverErrorMessage
}

// writeError logs err and writes it as {"message": ..., "success": false}.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := responseFromError(err)
	writeMessage(w, r, err, status, message)
}

// writeMessage writes a failure body with an explicit status and message.
// Server errors are logged at error level, client errors at debug level.
func writeMessage(w http.ResponseWriter, r *http.Request, err error, status int, message string) {
	log := logger.FromRequest(r)
	if status >= http.StatusInternalServerError {
		log.Err(err).Int("status", status).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	success := false
	utils.WriteJSON(w, models.MessageResponse{Message: message, Success: &success}, status)
}
