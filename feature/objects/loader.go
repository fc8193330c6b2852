package objects

import (
	"upload-agent/core/agent"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the objects feature. l may be nil when no database is configured.
func NewFeature(a *agent.Agent, l Ledger, cfg agent.Config, logger *zap.Logger, reg prometheus.Registerer) *Feature {
	svc := NewService(a, l, cfg, logger, reg)
	h := NewHandler(svc, a.Middleware(cfg.Middleware()))
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "objects"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.service.agent.Ready()
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
