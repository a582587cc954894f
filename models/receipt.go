package models

import "github.com/shopspring/decimal"

// ReceiptData is what a receipt parser could read off a receipt image.
// The web client uses it to pre-fill the add-expense form; nothing is
// stored on the server.
type ReceiptData struct {
	// Amount is the total paid.
	Amount decimal.Decimal `json:"amount"`

	// Date is the purchase date in YYYY-MM-DD form, empty if unreadable.
	Date string `json:"date"`

	// Category is one of Food, Groceries, Rent, Travel, Shopping, Bills, Other.
	Category string `json:"category"`

	// Note is a short free-text description.
	Note string `json:"note"`
}

// ReceiptResponse is the body returned by the receipt parsing endpoint.
type ReceiptResponse struct {
	Success bool        `json:"success"`
	Data    ReceiptData `json:"data"`
}
