// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package notifier delivers verification emails. The SMTP implementation is
// used in deployments; the log implementation writes messages to the
// application log for local development.
package notifier

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-finance-tracker/internal/config"
	"github.com/MKhiriev/go-finance-tracker/internal/logger"
)

//go:generate mockgen -source=notifier.go -destination=../mock/notifier_mock.go -package=mock

// Notifier sends a plain-text message to a single recipient. Any returned
// error means the message was not dispatched.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New builds the notifier selected by cfg.Kind.
func New(cfg config.Notifier, log *logger.Logger) (Notifier, error) {
	switch cfg.Kind {
	case config.NotifierKindSMTP:
		return NewSMTPNotifier(cfg, log)
	case config.NotifierKindLog, "":
		return NewLogNotifier(log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}
