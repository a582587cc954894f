// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package receipt

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-finance-tracker/internal/config"
	"github.com/MKhiriev/go-finance-tracker/internal/logger"
	"github.com/MKhiriev/go-finance-tracker/models"
	"github.com/go-resty/resty/v2"
)

const receiptPrompt = `You are a receipt parser. Extract the following from the receipt image:

- total amount paid (number)
- purchase date in ISO format YYYY-MM-DD
- main category (one of: Food, Groceries, Rent, Travel, Shopping, Bills, Other)
- a short text note/description.

Return ONLY valid JSON in this exact shape:
{
  "amount": number,
  "date": "YYYY-MM-DD",
  "category": "string",
  "note": "string"
}
No extra text, no markdown, no explanation.`

const defaultMimeType = "image/jpeg"

type geminiParser struct {
	client *resty.Client
	model  string
	logger *logger.Logger
}

// NewGeminiParser returns a Parser backed by the Gemini generateContent
// REST endpoint.
func NewGeminiParser(cfg config.Receipt, log *logger.Logger) Parser {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("x-goog-api-key", cfg.APIKey)

	log.Debug().Str("model", cfg.Model).Msg("creating gemini receipt parser")
	return &geminiParser{
		client: client,
		model:  cfg.Model,
		logger: log,
	}
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	InlineData *inlineData `json:"inline_data,omitempty"`
	Text       string      `json:"text,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (g *geminiParser) Parse(ctx context.Context, image []byte, mimeType string) (models.ReceiptData, error) {
	log := logger.FromContext(ctx)

	if mimeType == "" {
		mimeType = defaultMimeType
	}

	body := generateContentRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(image)}},
				{Text: receiptPrompt},
			},
		}},
	}

	var result generateContentResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&result).
		SetPathParam("model", g.model).
		Post("/v1beta/models/{model}:generateContent")
	if err != nil {
		log.Err(err).Str("func", "*geminiParser.Parse").Msg("receipt parser request failed")
		return models.ReceiptData{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if resp.StatusCode() != http.StatusOK {
		log.Error().
			Str("func", "*geminiParser.Parse").
			Int("status", resp.StatusCode()).
			Msg("receipt parser answered with an error")
		return models.ReceiptData{}, fmt.Errorf("%w: http %d", ErrUpstream, resp.StatusCode())
	}

	text := result.text()
	data, err := parseModelOutput(text)
	if err != nil {
		log.Warn().Err(err).Str("func", "*geminiParser.Parse").Str("output", text).Msg("failed to parse receipt parser output")
		return models.ReceiptData{}, err
	}

	return data, nil
}

func (r generateContentResponse) text() string {
	var sb strings.Builder
	for _, c := range r.Candidates {
		for _, p := range c.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	return sb.String()
}
