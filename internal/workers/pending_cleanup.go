// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-finance-tracker/internal/config"
	"github.com/MKhiriev/go-finance-tracker/internal/logger"
	"github.com/MKhiriev/go-finance-tracker/internal/store"
)

// PendingCleanupWorker periodically deletes accounts that never verified
// their email. An account is removed once its code has been expired for
// longer than the retention period, so a late verification attempt still
// gets "OTP expired" instead of "User not found" within that window.
type PendingCleanupWorker struct {
	userRepository store.UserRepository

	interval  time.Duration
	retention time.Duration
	now       func() time.Time

	logger *logger.Logger
}

func NewPendingCleanupWorker(userRepository store.UserRepository, cfg config.Workers, logger *logger.Logger) *PendingCleanupWorker {
	return &PendingCleanupWorker{
		userRepository: userRepository,
		interval:       cfg.CleanupInterval,
		retention:      cfg.PendingRetention,
		now:            time.Now,
		logger:         logger,
	}
}

// Run sweeps once immediately and then every interval until ctx is done.
func (w *PendingCleanupWorker) Run(ctx context.Context) {
	w.logger.Info().
		Dur("interval", w.interval).
		Dur("retention", w.retention).
		Msg("pending account cleanup started")

	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("pending account cleanup stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *PendingCleanupWorker) sweep(ctx context.Context) {
	ctx = w.logger.WithContext(ctx)
	before := w.now().Add(-w.retention)

	deleted, err := w.userRepository.DeleteExpiredPending(ctx, before)
	if err != nil {
		w.logger.Err(err).Time("before", before).Msg("failed to delete expired pending accounts")
		return
	}

	if deleted > 0 {
		w.logger.Info().Int64("deleted", deleted).Time("before", before).Msg("deleted expired pending accounts")
	}
}
