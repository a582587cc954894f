package http

import (
	"github.com/MKhiriev/go-finance-tracker/internal/config"
	"github.com/MKhiriev/go-finance-tracker/internal/logger"
	"github.com/MKhiriev/go-finance-tracker/internal/metrics"
	"github.com/MKhiriev/go-finance-tracker/internal/service"
	"github.com/prometheus/client_golang/prometheus"
)

// maxUploadSize bounds multipart bodies of the image and receipt endpoints.
const maxUploadSize = 10 << 20

// Handler owns the REST API routes and their middleware.
type Handler struct {
	services *service.Services

	metrics  metrics.Recorder
	gatherer prometheus.Gatherer

	allowedOrigins []string
	uploadsDir     string
	authLimiter    *rateLimiter

	logger *logger.Logger
}

// NewHandler creates a Handler. The auth rate limiter starts its cleanup
// goroutine here; call [Handler.Close] to stop it.
func NewHandler(services *service.Services, recorder metrics.Recorder, gatherer prometheus.Gatherer, cfg *config.StructuredConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		metrics:        recorder,
		gatherer:       gatherer,
		allowedOrigins: cfg.Server.AllowedOrigins,
		uploadsDir:     cfg.Storage.Files.UploadsDir,
		authLimiter:    newRateLimiter(cfg.Server.AuthRatePerMinute, cfg.Server.AuthRateBurst, defaultLimiterCleanup),
		logger:         logger,
	}
}

// Close releases background resources held by the handler.
func (h *Handler) Close() {
	h.authLimiter.Stop()
}
