package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-finance-tracker/internal/config"
	"github.com/MKhiriev/go-finance-tracker/internal/logger"
	"github.com/google/uuid"
)

// imageExtensions maps the accepted upload content types to file extensions.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
}

type imageService struct {
	uploadsDir string

	logger *logger.Logger
}

func NewImageService(cfg config.Files, logger *logger.Logger) ImageService {
	return &imageService{
		uploadsDir: cfg.UploadsDir,
		logger:     logger,
	}
}

// SaveImage writes r under a random name in the uploads directory. Only
// JPEG and PNG content is accepted; the client-supplied file name is never
// used on disk.
func (s *imageService) SaveImage(ctx context.Context, contentType string, r io.Reader) (string, error) {
	log := logger.FromContext(ctx)

	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", ErrUnsupportedImageType
	}

	if err := os.MkdirAll(s.uploadsDir, 0o755); err != nil {
		log.Err(err).Str("dir", s.uploadsDir).Msg("failed to create uploads directory")
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}

	name := uuid.NewString() + ext
	f, err := os.OpenFile(filepath.Join(s.uploadsDir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		log.Err(err).Msg("failed to create image file")
		return "", fmt.Errorf("failed to create image file: %w", err)
	}

	if _, err = io.Copy(f, r); err != nil {
		log.Err(err).Str("file", name).Msg("failed to write image")
		return "", errors.Join(fmt.Errorf("failed to write image: %w", err), f.Close(), os.Remove(f.Name()))
	}
	if err = f.Close(); err != nil {
		return "", fmt.Errorf("failed to close image file: %w", err)
	}

	return name, nil
}
