package receipt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/MKhiriev/go-finance-tracker/models"
	"github.com/shopspring/decimal"
)

var codeFence = regexp.MustCompile("(?i)```(json)?")

type modelOutput struct {
	Amount   json.RawMessage `json:"amount"`
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Note     string          `json:"note"`
}

// parseModelOutput turns the raw model answer into ReceiptData. Markdown
// code fences are stripped and the amount may be a JSON number or a string.
func parseModelOutput(text string) (models.ReceiptData, error) {
	cleaned := strings.TrimSpace(codeFence.ReplaceAllString(strings.TrimSpace(text), ""))
	if cleaned == "" {
		return models.ReceiptData{}, fmt.Errorf("%w: empty answer", ErrUnreadable)
	}

	var out modelOutput
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return models.ReceiptData{}, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	amount, err := parseAmount(out.Amount)
	if err != nil {
		return models.ReceiptData{}, fmt.Errorf("%w: amount: %w", ErrUnreadable, err)
	}

	return models.ReceiptData{
		Amount:   amount,
		Date:     out.Date,
		Category: out.Category,
		Note:     out.Note,
	}, nil
}

func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, err
		}
		s = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(s), "$€£"))
		s = strings.ReplaceAll(s, ",", "")
		return decimal.NewFromString(s)
	}

	return decimal.NewFromString(string(raw))
}
