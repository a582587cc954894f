// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors produced while reading requests. Callers can match against
// them with [errors.Is].
var (
	// ErrNoUserInContext is returned when a protected handler runs without
	// the auth middleware having stored a user id.
	ErrNoUserInContext = errors.New("no authenticated user in request context")

	// ErrInvalidEntryID is returned when the {id} path parameter is not a
	// positive integer.
	ErrInvalidEntryID = errors.New("invalid entry id")

	errRateLimited = errors.New("rate limit exceeded")
)
