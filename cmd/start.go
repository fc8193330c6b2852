package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"upload-agent/core/loader"
	"upload-agent/core/logger"
	"upload-agent/core/middleware/auth"
	"upload-agent/core/middleware/metrics"
	"upload-agent/core/middleware/rayid"
	"upload-agent/core/reconcile"
	"upload-agent/feature/buckets"
	"upload-agent/feature/objects"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "upload-agent/docs/swagger"
)

// @title Upload Agent API
// @version 1.0
// @description API for uploading, signing and deleting objects in S3-compatible buckets.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the upload agent server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt, err := bootstrap(ctx, false)
		if err != nil {
			return err
		}
		logg := rt.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             rt.cfg.Server.BodyLimit(),
			JSONEncoder:           json.Marshal,
			JSONDecoder:           json.Unmarshal,
		})

		// RayID first so every log line can be traced
		app.Use(rayid.New())
		app.Use(requestLogger(logg))

		var reg prometheus.Registerer
		if rt.cfg.Server.Metrics {
			builder := metrics.NewBuilder("upload_agent", "http", "requests", "HTTP requests served by the upload agent.")
			app.Use(builder.BuildActiveRequest())
			app.Use(builder.BuildResponseTime())
			app.Get("/metrics", builder.Handler())
			reg = builder.Registerer()
		}

		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{
			ApiKey: rt.cfg.Server.ApiKey,
			Skip:   []string{"/metrics", "/swagger"},
		}))

		var ledger reconcile.Ledger
		if rt.store != nil {
			ledger = rt.store
		}

		mgr := loader.NewManager()
		mgr.Register(objects.NewFeature(rt.agent, rt.objectsLedger(), rt.cfg.Upload, logg, reg))
		mgr.Register(buckets.NewFeature(rt.agent.Registry(), ledger, rt.cfg.Upload.ReconcileCacheTTL(), logg))

		if err := mgr.LoadAll(app); err != nil {
			return fmt.Errorf("failed to load features: %w", err)
		}

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("address", rt.cfg.Server.Address()))
			errCh <- app.Listen(rt.cfg.Server.Address())
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-ctx.Done():
		}

		logg.Info("Shutting down server...")
		return app.ShutdownWithTimeout(10 * time.Second)
	},
}

// requestLogger logs each request with its ray id, status and duration.
func requestLogger(logg *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		l := logger.WithRayID(logg, c)

		err := c.Next()

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			l.Error("Request error", append(fields, zap.Error(err))...)
			return err
		}
		l.Info("Request completed", fields...)
		return nil
	}
}

func init() {
	RootCmd.AddCommand(startCmd)
}
