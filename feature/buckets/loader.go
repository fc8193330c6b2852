package buckets

import (
	"time"

	"upload-agent/core/reconcile"
	"upload-agent/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the buckets feature. ledger may be nil.
func NewFeature(registry *storage.Registry, ledger reconcile.Ledger, cacheTTL time.Duration, logger *zap.Logger) *Feature {
	svc := NewService(registry, ledger, cacheTTL, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "buckets"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
