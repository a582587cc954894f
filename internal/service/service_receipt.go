package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-finance-tracker/internal/logger"
	"github.com/MKhiriev/go-finance-tracker/internal/receipt"
	"github.com/MKhiriev/go-finance-tracker/models"
)

// defaultReceiptMimeType is assumed when the upload carries no content type.
const defaultReceiptMimeType = "image/jpeg"

type receiptService struct {
	parser receipt.Parser

	logger *logger.Logger
}

func NewReceiptService(parser receipt.Parser, logger *logger.Logger) ReceiptService {
	return &receiptService{
		parser: parser,
		logger: logger,
	}
}

// ParseReceipt hands the image to the configured parser. Nothing is stored.
func (r *receiptService) ParseReceipt(ctx context.Context, image []byte, mimeType string) (models.ReceiptData, error) {
	log := logger.FromContext(ctx)

	if len(image) == 0 {
		return models.ReceiptData{}, ErrValidation
	}
	if mimeType == "" {
		mimeType = defaultReceiptMimeType
	}

	data, err := r.parser.Parse(ctx, image, mimeType)
	switch {
	case errors.Is(err, receipt.ErrUnavailable):
		return models.ReceiptData{}, ErrReceiptUnavailable
	case errors.Is(err, receipt.ErrUnreadable):
		log.Warn().Err(err).Msg("receipt parser returned unreadable output")
		return models.ReceiptData{}, ErrReceiptUnreadable
	case err != nil:
		log.Err(err).Msg("receipt parsing failed")
		return models.ReceiptData{}, fmt.Errorf("receipt parsing failed: %w", err)
	}

	return data, nil
}
