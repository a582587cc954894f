package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/MKhiriev/go-finance-tracker/internal/service"
	"github.com/MKhiriev/go-finance-tracker/internal/utils"
	"github.com/MKhiriev/go-finance-tracker/models"
)

func (h *Handler) parseReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("receipt")
	if err != nil {
		writeMessage(w, r, err, http.StatusBadRequest, "No receipt file uploaded.")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		writeMessage(w, r, err, http.StatusBadRequest, "No receipt file uploaded.")
		return
	}

	data, err := h.services.ReceiptService.ParseReceipt(ctx, image, header.Header.Get("Content-Type"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			writeMessage(w, r, err, http.StatusBadRequest, "No receipt file uploaded.")
		case errors.Is(err, service.ErrReceiptUnavailable),
			errors.Is(err, service.ErrReceiptUnreadable):
			writeError(w, r, err)
		default:
			writeMessage(w, r, err, http.StatusInternalServerError, "Server error while scanning receipt.")
		}
		return
	}

	utils.WriteJSON(w, models.ReceiptResponse{Success: true, Data: data}, http.StatusOK)
}
