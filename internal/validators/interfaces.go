// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks inbound payloads before they reach the business
// logic.
//
// Core concepts:
//   - Validator: generic interface to validate arbitrary values or structures.
//     Supports optional field-level scoping for targeted validation.
//   - SanitizeText: strips markup from free-text user input before it is
//     stored and echoed back to browsers.
//
// Usage patterns:
//  1. Inject a Validator into a service or a service wrapper.
//  2. Call Validate with context, value, and optional field names.
//
// Validators never touch storage; they only inspect the value they are given.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
// Implementations may perform structural validation, semantic checks,
// cross-field rules.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
