package FiberConfig

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"Loopless/Config"
	"Loopless/MultiRouteOptimizer"
	"Loopless/middleware"
)

const shutdownTimeout = 10 * time.Second

func SetupRoutes(app *fiber.App, optimizer *MultiRouteOptimizer.Optimizer) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API group
	api := app.Group("/api")
	api.Post("/optimize", MultiRouteOptimizer.OptimizeHandler(optimizer))
}

// NewApp builds the Fiber app with the full middleware stack and routes.
func NewApp(config Config.Config, optimizer *MultiRouteOptimizer.Optimizer) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Loopless",
		ErrorHandler:          middleware.ErrorHandler,
		DisableStartupMessage: !config.IsDevelopment(),
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(middleware.PrometheusMiddleware())
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(config.AllowedOrigins, ","),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       300, // Max age for preflight requests caching (5 minutes)
	}))

	SetupRoutes(app, optimizer)
	return app
}

// FiberConfig serves until ctx is done, then shuts the server down gracefully.
func FiberConfig(ctx context.Context, config Config.Config, optimizer *MultiRouteOptimizer.Optimizer) error {
	app := NewApp(config, optimizer)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info().Str("address", config.HTTPServerAddress).Msg("Server Up...")
		if err := app.Listen(config.HTTPServerAddress); err != nil {
			return fmt.Errorf("listen on %s: %w", config.HTTPServerAddress, err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("graceful shutdown of HTTP server")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		log.Info().Msg("HTTP server is stopped")
		return nil
	})
	return group.Wait()
}
