package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-finance-tracker/internal/logger"
	"github.com/MKhiriev/go-finance-tracker/internal/service"
	"github.com/MKhiriev/go-finance-tracker/internal/utils"
	"github.com/MKhiriev/go-finance-tracker/models"
)

const invalidJSONMessage = "Invalid JSON was passed"

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, r, err, http.StatusBadRequest, invalidJSONMessage)
		return
	}

	registration, err := h.services.AuthService.Register(ctx, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Int64("user_id", registration.User.UserID).Msg("verification code sent")

	utils.WriteJSON(w, models.RegisterResponse{
		Success: true,
		Message: "OTP sent to your email for verification.",
		DevOTP:  registration.DevOTP,
	}, http.StatusCreated)
}

func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, r, err, http.StatusBadRequest, invalidJSONMessage)
		return
	}

	user, token, err := h.services.AuthService.VerifyEmail(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			writeMessage(w, r, err, http.StatusBadRequest, "Email and OTP are required")
			return
		}
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.VerifyEmailResponse{
		Success: true,
		Message: "Email verified successfully",
		Token:   token.SignedString,
		User:    user,
	}, http.StatusOK)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, r, err, http.StatusBadRequest, invalidJSONMessage)
		return
	}

	user, token, err := h.services.AuthService.Login(ctx, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Debug().Int64("user_id", user.UserID).Msg("user successfully logged in")

	utils.WriteJSON(w, models.LoginResponse{
		ID:    user.UserID,
		User:  user,
		Token: token.SignedString,
	}, http.StatusOK)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		writeError(w, r, ErrNoUserInContext)
		return
	}

	user, err := h.services.AuthService.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			writeMessage(w, r, err, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("image")
	if err != nil {
		writeMessage(w, r, err, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	name, err := h.services.ImageService.SaveImage(ctx, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.UploadImageResponse{
		ImageURL: requestScheme(r) + "://" + r.Host + "/uploads/" + name,
	}, http.StatusOK)
}

// requestScheme reports the scheme the client used, honouring a TLS
// terminating proxy.
func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
