// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "github.com/shopspring/decimal"

// WindowSummary is the sum and the full list of entries that fall into a
// trailing time window, newest first.
type WindowSummary struct {
	Total        decimal.Decimal `json:"total"`
	Transactions []Entry         `json:"transactions"`
}

// Dashboard is the aggregate view returned by the dashboard endpoint.
//
// Invariant: TotalBalance == TotalIncome - TotalExpenses.
type Dashboard struct {
	// TotalBalance is TotalIncome minus TotalExpenses.
	TotalBalance decimal.Decimal `json:"totalBalance"`

	// TotalIncome sums every income entry of the user.
	TotalIncome decimal.Decimal `json:"totalIncome"`

	// TotalExpenses sums every expense entry of the user.
	TotalExpenses decimal.Decimal `json:"totalExpenses"`

	// Last30DaysExpenses holds expense entries dated within the last 30 days.
	Last30DaysExpenses WindowSummary `json:"last30DaysExpenses"`

	// Last60DaysIncome holds income entries dated within the last 60 days.
	Last60DaysIncome WindowSummary `json:"last60DaysIncome"`

	// RecentTransactions merges the 5 newest income and 5 newest expense
	// entries, sorted by date descending. At most 10 items.
	RecentTransactions []Entry `json:"recentTransactions"`
}
