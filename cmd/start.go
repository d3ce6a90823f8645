package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"event-catalog/core/cache"
	"event-catalog/core/loader"
	"event-catalog/core/logger"
	"event-catalog/core/middleware/rayid"
	"event-catalog/feature/events"
	"event-catalog/feature/events/models"
	"event-catalog/feature/health"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "event-catalog/docs/swagger"
)

// @title Event Catalog API
// @version 1.0
// @description Search API over events reconciled from provider feeds.
// @host localhost:8080
// @BasePath /

var (
	// Flags for start command
	startMigrate bool
	startNoSync  bool
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the event catalog server",
	Long: `Starts the HTTP server, loads all enabled features and runs the provider
sync on the configured interval.`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().BoolVar(&startMigrate, "migrate", false, "Run schema migrations before serving")
	startCmd.Flags().BoolVar(&startNoSync, "no-sync", false, "Serve only, without the scheduled provider sync")
	RootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	// 1. Configuration and logger
	cfg, logg, err := bootstrap()
	if err != nil {
		return err
	}
	defer logg.Sync()
	zap.ReplaceGlobals(logg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Response cache
	searchCache, err := cache.New(cfg.Cache, logg)
	if err != nil {
		return err
	}

	// 3. Initialize Feature Loader
	mgr := loader.NewManager(logg)

	// 4. Connect to Database (Optional: health stays up without it)
	db, err := connectStore(cfg)
	if err != nil {
		logg.Warn("Database connection failed, search disabled", zap.Error(err))
		mgr.Register(health.NewFeature(nil, logg))
		mgr.Register(events.NewFeature(nil, searchCache, logg))
	} else {
		logg.Info("Connected to event store", zap.String("driver", cfg.Database.Driver))
		if startMigrate {
			if err := models.Migrate(db); err != nil {
				return err
			}
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}

		repo := newRepository(cfg, db, logg)
		mgr.Register(health.NewFeature(sqlDB, logg))
		mgr.Register(events.NewFeature(repo, searchCache, logg))

		// 5. Scheduled sync
		if !startNoSync {
			svc := newSyncService(ctx, cfg, repo, searchCache, logg)
			interval := time.Duration(cfg.Sync.IntervalSeconds) * time.Second
			logg.Info("Scheduling provider sync",
				zap.Int("providers", len(svc.Providers())),
				zap.Duration("interval", interval),
			)
			go svc.Schedule(ctx, interval)
		}
	}

	// 6. Initialize Fiber App
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true, // We will log our own startup message
	})

	// RayID first so every log line can be traced
	app.Use(rayid.New())

	// Request logging with Zap + RayID
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		started := time.Now()
		err := c.Next()
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(started)),
		}
		if err != nil {
			l.Error("Request error", append(fields, zap.Error(err))...)
		} else {
			l.Info("Request handled", fields...)
		}
		return err
	})

	// Swagger Documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// 7. Load Features
	if err := mgr.LoadAll(app); err != nil {
		return err
	}

	// 8. Start Server
	errCh := make(chan error, 1)
	go func() {
		logg.Info("Starting server", zap.String("address", cfg.Server.Address()))
		errCh <- app.Listen(cfg.Server.Address())
	}()

	// 9. Graceful Shutdown
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info("Shutting down server...")
	return app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout())
}
