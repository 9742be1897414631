package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/mkiyohara/weatherboard/internal/api/http"
	"github.com/mkiyohara/weatherboard/internal/config"
	"github.com/mkiyohara/weatherboard/internal/narrative"
	"github.com/mkiyohara/weatherboard/internal/scheduler"
	"github.com/mkiyohara/weatherboard/internal/store"
	"github.com/mkiyohara/weatherboard/internal/weather"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Reading store backed by InfluxDB.
	readingStore := store.NewInfluxStore(
		cfg.InfluxURL,
		cfg.InfluxToken,
		cfg.InfluxOrg,
		cfg.InfluxBucket,
		cfg.InfluxMeasurement,
		cfg.Location,
	)
	defer readingStore.Close()

	// Core service aggregating readings into daily summaries.
	service := weather.NewService(readingStore, cfg.Location)

	// Summary cache kept warm by the refresher.
	cache := store.NewSummaryCache(cfg.CacheMaxHistory, cfg.CacheMaxAge)

	refresher := scheduler.New(service, cache, cfg.Location, cfg.RefreshInterval)
	if err := refresher.Start(); err != nil {
		log.Fatalf("failed to start refresher: %v", err)
	}
	defer refresher.Stop()

	// Optional narrative summarizer client.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	summarizer := narrative.NewClient(httpClient, cfg.SummarizerURL)

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weatherboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  "weatherboard",
			"timezone": cfg.TimezoneID,
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, cache, summarizer)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
