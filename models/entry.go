// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Amounts go over the wire as JSON numbers, the way the web client sends them.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// EntryKind distinguishes the two ledger entry variants.
type EntryKind string

const (
	// Income is money received (salary, freelance, ...). Its label is the source.
	Income EntryKind = "income"
	// Expense is money spent. Its label is the category.
	Expense EntryKind = "expense"
)

// Valid reports whether k is one of the known entry kinds.
func (k EntryKind) Valid() bool {
	return k == Income || k == Expense
}

// LabelField returns the JSON field name used for the label of this kind:
// "source" for income and "category" for expense.
func (k EntryKind) LabelField() string {
	if k == Income {
		return "source"
	}
	return "category"
}

// Entry is a single income or expense record owned by exactly one user.
// Entries are created and deleted, never updated in place.
type Entry struct {
	// ID is the server-assigned identifier of the entry.
	ID int64

	// UserID is the owner of the entry.
	UserID int64

	// Kind tells whether the entry is an income or an expense.
	Kind EntryKind

	// Label is the income source or the expense category.
	Label string

	// Amount is a non-negative magnitude. It contributes to the income or
	// expense total depending on Kind and is never netted in storage.
	Amount decimal.Decimal

	// Date is the day the money moved.
	Date time.Time

	// Icon is an optional emoji or icon URL picked by the user.
	Icon string

	// CreatedAt is the timestamp when the entry was stored.
	CreatedAt time.Time
}

// MarshalJSON renders the label under "source" for income entries and under
// "category" for expense entries, matching the request payloads.
func (e Entry) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"id":        e.ID,
		"userId":    e.UserID,
		"type":      e.Kind,
		"amount":    e.Amount,
		"date":      e.Date,
		"icon":      e.Icon,
		"createdAt": e.CreatedAt,
	}
	out[e.Kind.LabelField()] = e.Label

	return json.Marshal(out)
}

// EntryRequest is the payload of the add-income and add-expense endpoints.
// Source is read for income, Category for expense.
type EntryRequest struct {
	Source   string          `json:"source"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	Icon     string          `json:"icon"`
}

// ErrInvalidEntryDate is returned by [ParseEntryDate] for unrecognized input.
var ErrInvalidEntryDate = errors.New("invalid entry date")

// entryDateLayouts are tried in order. Browsers send either a bare date
// from an <input type="date"> or a full ISO timestamp.
var entryDateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04",
}

// ParseEntryDate parses s into a UTC instant. An empty string yields the zero
// time so that presence can be checked separately.
func ParseEntryDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range entryDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidEntryDate
}

// ToEntry converts the request into an entry of the given kind owned by
// userID. The label is taken from Source for income and from Category for
// expense.
func (r EntryRequest) ToEntry(userID int64, kind EntryKind) (Entry, error) {
	date, err := ParseEntryDate(r.Date)
	if err != nil {
		return Entry{}, err
	}

	label := r.Category
	if kind == Income {
		label = r.Source
	}

	return Entry{
		UserID: userID,
		Kind:   kind,
		Label:  label,
		Amount: r.Amount,
		Date:   date,
		Icon:   r.Icon,
	}, nil
}

// EntryFilter narrows a ledger query. Zero values mean "no restriction".
type EntryFilter struct {
	// UserID is required: every query is scoped to one owner.
	UserID int64

	// Kind selects income or expense entries.
	Kind EntryKind

	// Since keeps entries whose Date is at or after this instant.
	Since *time.Time

	// Limit caps the number of returned entries. Zero means unlimited.
	Limit uint64
}
