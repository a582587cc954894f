// Package receipt reads the total, date, category and note off a receipt
// image using a third-party AI model. The parser is optional: without an
// API key [New] returns a parser that always reports [ErrUnavailable].
package receipt

import (
	"context"

	"github.com/MKhiriev/go-finance-tracker/internal/config"
	"github.com/MKhiriev/go-finance-tracker/internal/logger"
	"github.com/MKhiriev/go-finance-tracker/models"
)

//go:generate mockgen -source=receipt.go -destination=../mock/receipt_mock.go -package=mock

// Parser extracts structured data from a receipt image.
type Parser interface {
	Parse(ctx context.Context, image []byte, mimeType string) (models.ReceiptData, error)
}

// New returns the Gemini parser when cfg carries an API key and the
// unavailable parser otherwise.
func New(cfg config.Receipt, log *logger.Logger) Parser {
	if cfg.APIKey == "" {
		log.Info().Msg("receipt parsing disabled: no API key configured")
		return Unavailable{}
	}
	return NewGeminiParser(cfg, log)
}

// Unavailable is the Parser used when no AI backend is configured.
type Unavailable struct{}

// Parse always fails with [ErrUnavailable].
func (Unavailable) Parse(context.Context, []byte, string) (models.ReceiptData, error) {
	return models.ReceiptData{}, ErrUnavailable
}
