package service

import (
	"fmt"

	"github.com/MKhiriev/go-finance-tracker/internal/config"
	"github.com/MKhiriev/go-finance-tracker/internal/logger"
	"github.com/MKhiriev/go-finance-tracker/internal/metrics"
	"github.com/MKhiriev/go-finance-tracker/internal/notifier"
	"github.com/MKhiriev/go-finance-tracker/internal/receipt"
	"github.com/MKhiriev/go-finance-tracker/internal/store"
)

type Services struct {
	AuthService      AuthService
	LedgerService    LedgerService
	DashboardService DashboardService
	ReceiptService   ReceiptService
	ImageService     ImageService
	AppInfoService   AppInfoService
}

func NewServices(
	storages *store.Storages,
	notifier notifier.Notifier,
	parser receipt.Parser,
	recorder metrics.Recorder,
	cfg *config.StructuredConfig,
	logger *logger.Logger,
) (*Services, error) {
	appInfoService, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	return &Services{
		AuthService:      NewAuthService(storages.UserRepository, notifier, recorder, cfg.App, logger),
		LedgerService:    NewLedgerValidationService().Wrap(NewLedgerService(storages.LedgerRepository, logger)),
		DashboardService: NewDashboardService(storages.LedgerRepository, logger),
		ReceiptService:   NewReceiptService(parser, logger),
		ImageService:     NewImageService(cfg.Storage.Files, logger),
		AppInfoService:   appInfoService,
	}, nil
}
