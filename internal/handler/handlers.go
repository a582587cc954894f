// Package handler assembles the transport handlers of the server.
package handler

import (
	"github.com/MKhiriev/go-finance-tracker/internal/config"
	"github.com/MKhiriev/go-finance-tracker/internal/handler/http"
	"github.com/MKhiriev/go-finance-tracker/internal/logger"
	"github.com/MKhiriev/go-finance-tracker/internal/metrics"
	"github.com/MKhiriev/go-finance-tracker/internal/service"
	"github.com/prometheus/client_golang/prometheus"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(
	services *service.Services,
	recorder metrics.Recorder,
	gatherer prometheus.Gatherer,
	cfg *config.StructuredConfig,
	logger *logger.Logger,
) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.Server.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{
		HTTP: http.NewHandler(services, recorder, gatherer, cfg, logger),
	}, nil
}

// Close releases resources held by the handlers.
func (h *Handlers) Close() {
	if h.HTTP != nil {
		h.HTTP.Close()
	}
}
