// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	ErrValidation = errors.New("all fields are required")

	ErrDuplicateAccount   = errors.New("email already in use")
	ErrNotificationFailed = errors.New("failed to send verification code")

	ErrAccountNotFound = errors.New("user not found")
	ErrAlreadyVerified = errors.New("email already verified")
	ErrNoCodeIssued    = errors.New("no verification code was issued")
	ErrCodeExpired     = errors.New("verification code expired")
	ErrInvalidCode     = errors.New("invalid verification code")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("email is not verified")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrEntryNotFound = errors.New("entry not found")

	ErrReceiptUnavailable = errors.New("receipt parsing is not configured")
	ErrReceiptUnreadable  = errors.New("could not understand receipt")

	ErrUnsupportedImageType = errors.New("unsupported image type")

	ErrVersionIsNotSpecified = errors.New("application version is not specified")
)
