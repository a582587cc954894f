// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// EnvironmentProduction is the App.Environment value of a production deployment.
const EnvironmentProduction = "production"

// Notifier kinds.
const (
	NotifierKindSMTP = "smtp"
	NotifierKindLog  = "log"
)

const (
	defaultEnvironment       = "development"
	defaultPasswordHashCost  = 10
	defaultTokenIssuer       = "go-finance-tracker"
	defaultTokenDuration     = 7 * 24 * time.Hour
	defaultOTPTTL            = 10 * time.Minute
	defaultHTTPAddress       = ":8080"
	defaultRequestTimeout    = 30 * time.Second
	defaultAllowedOrigin     = "http://localhost:5173"
	defaultAuthRatePerMinute = 20
	defaultAuthRateBurst     = 10
	defaultUploadsDir        = "uploads"
	defaultSMTPPort          = 587
	defaultReceiptModel      = "gemini-flash-lite-latest"
	defaultReceiptBaseURL    = "https://generativelanguage.googleapis.com"
	defaultReceiptTimeout    = 30 * time.Second
	defaultCleanupInterval   = time.Hour
	defaultPendingRetention  = 24 * time.Hour
)

// applyDefaults fills every zero-valued optional field of the merged config.
// Secrets and the DSN have no defaults. App.Version stays empty so the
// caller can fall back to the linker-provided build version.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.App.Environment == "" {
		cfg.App.Environment = defaultEnvironment
	}
	if cfg.App.PasswordHashCost == 0 {
		cfg.App.PasswordHashCost = defaultPasswordHashCost
	}
	if cfg.App.TokenIssuer == "" {
		cfg.App.TokenIssuer = defaultTokenIssuer
	}
	if cfg.App.TokenDuration == 0 {
		cfg.App.TokenDuration = defaultTokenDuration
	}
	if cfg.App.OTPTTL == 0 {
		cfg.App.OTPTTL = defaultOTPTTL
	}

	if cfg.Storage.Files.UploadsDir == "" {
		cfg.Storage.Files.UploadsDir = defaultUploadsDir
	}

	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = defaultHTTPAddress
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{defaultAllowedOrigin}
	}
	if cfg.Server.AuthRatePerMinute == 0 {
		cfg.Server.AuthRatePerMinute = defaultAuthRatePerMinute
	}
	if cfg.Server.AuthRateBurst == 0 {
		cfg.Server.AuthRateBurst = defaultAuthRateBurst
	}

	if cfg.Notifier.Kind == "" {
		cfg.Notifier.Kind = NotifierKindLog
	}
	if cfg.Notifier.Port == 0 {
		cfg.Notifier.Port = defaultSMTPPort
	}

	if cfg.Receipt.Model == "" {
		cfg.Receipt.Model = defaultReceiptModel
	}
	if cfg.Receipt.BaseURL == "" {
		cfg.Receipt.BaseURL = defaultReceiptBaseURL
	}
	if cfg.Receipt.Timeout == 0 {
		cfg.Receipt.Timeout = defaultReceiptTimeout
	}

	if cfg.Workers.CleanupInterval == 0 {
		cfg.Workers.CleanupInterval = defaultCleanupInterval
	}
	if cfg.Workers.PendingRetention == 0 {
		cfg.Workers.PendingRetention = defaultPendingRetention
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or one of the ErrInvalid*
// sentinel errors otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.App.TokenSignKey == "" || cfg.App.PasswordHashCost < 4 || cfg.App.PasswordHashCost > 31 {
		return ErrInvalidAppConfigs
	}

	if cfg.Server.RequestTimeout < 0 || cfg.Server.AuthRatePerMinute < 0 || cfg.Server.AuthRateBurst < 0 {
		return ErrInvalidServerConfigs
	}

	switch cfg.Notifier.Kind {
	case NotifierKindLog:
		// codes would only reach the server log
		if cfg.App.IsProduction() {
			return ErrInvalidNotifierConfigs
		}
	case NotifierKindSMTP:
		if cfg.Notifier.Host == "" || cfg.Notifier.From == "" {
			return ErrInvalidNotifierConfigs
		}
	default:
		return ErrInvalidNotifierConfigs
	}

	if cfg.Workers.CleanupInterval < 0 || cfg.Workers.PendingRetention < 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
