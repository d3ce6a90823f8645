package health

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Status is the body of the health endpoint.
type Status struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database,omitempty" example:"ok"`
}

// Feature exposes the liveness endpoint.
type Feature struct {
	db     Pinger
	logger *zap.Logger
}

// NewFeature creates the health feature. db may be nil when no store is configured.
func NewFeature(db Pinger, logger *zap.Logger) *Feature {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feature{db: db, logger: logger}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "health"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	app.Get("/v1/health", f.HandleHealth)
	return nil
}

// HandleHealth reports service liveness and store reachability.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} Status "Service is up"
// @Failure 503 {object} Status "Store unreachable"
// @Router /v1/health [get]
func (f *Feature) HandleHealth(c *fiber.Ctx) error {
	if f.db == nil {
		return c.JSON(Status{Status: "ok"})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := f.db.PingContext(ctx); err != nil {
		f.logger.Warn("Health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(Status{Status: "degraded", Database: "unreachable"})
	}
	return c.JSON(Status{Status: "ok", Database: "ok"})
}
