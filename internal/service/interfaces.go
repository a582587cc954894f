// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"io"

	"github.com/MKhiriev/go-finance-tracker/models"
)

// AuthService covers the account lifecycle: registration with an emailed
// verification code, verification, login and token handling.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.Registration, error)
	VerifyEmail(ctx context.Context, req models.VerifyEmailRequest) (models.User, models.Token, error)
	Login(ctx context.Context, req models.LoginRequest) (models.User, models.Token, error)
	GetUser(ctx context.Context, userID int64) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// LedgerService manages income and expense entries of one user at a time.
type LedgerService interface {
	AddEntry(ctx context.Context, entry models.Entry) (models.Entry, error)
	ListEntries(ctx context.Context, userID int64, kind models.EntryKind) ([]models.Entry, error)
	DeleteEntry(ctx context.Context, userID int64, kind models.EntryKind, entryID int64) error
	ExportEntries(ctx context.Context, userID int64, kind models.EntryKind, w io.Writer) error
}

// LedgerServiceWrapper defines middleware composition for LedgerService.
// Implementations wrap an existing LedgerService to add behavior such as
// validation.
type LedgerServiceWrapper interface {
	Wrap(LedgerService) LedgerService // returns a decorated LedgerService applying additional behavior
}

// DashboardService builds the aggregate dashboard view.
type DashboardService interface {
	Summarize(ctx context.Context, userID int64) (models.Dashboard, error)
}

// ReceiptService reads expense data off a receipt image.
type ReceiptService interface {
	ParseReceipt(ctx context.Context, image []byte, mimeType string) (models.ReceiptData, error)
}

// ImageService stores uploaded profile images.
type ImageService interface {
	// SaveImage stores the content of r and returns the file name under
	// which it is served.
	SaveImage(ctx context.Context, contentType string, r io.Reader) (string, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
