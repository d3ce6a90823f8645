package events

import (
	"event-catalog/core/cache"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
	enabled bool
}

// NewFeature creates the events feature. It is disabled when finder is nil,
// which happens when the store is unreachable at startup.
func NewFeature(finder Finder, c *cache.Cache, logger *zap.Logger) *Feature {
	svc := NewService(finder, c, logger)
	return &Feature{service: svc, handler: NewHandler(svc), enabled: finder != nil}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "events"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
