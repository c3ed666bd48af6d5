package server

import (
	"context"

	"stylescraper/internal/core/export"
	"stylescraper/internal/core/scrape"
	"stylescraper/internal/health"
	"stylescraper/internal/platform/metrics"
	"stylescraper/internal/platform/redis"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Dependencies struct {
	Scrape      *scrape.Service
	Metrics     *metrics.Metrics
	Redis       *redis.Service // nil when running without Redis
	RecentLimit int
	AccessLog   bool
}

func RegisterRoutes(app *fiber.App, d Dependencies) *health.HealthHandler {
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	if d.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		}))
	}

	// Health endpoints
	healthHandler := health.NewHealthHandler()
	healthHandler.Register("store", func(ctx context.Context) error {
		_, err := d.Scrape.Store().Statistics(ctx)
		return err
	})
	if d.Redis != nil {
		healthHandler.Register("redis", d.Redis.HealthCheck)
	}
	app.Get("/v1/health", health.HealthLimiter(), healthHandler.HandleHealth)

	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	sessionHandler := scrape.NewHandler(d.Scrape, d.RecentLimit)
	exportHandler := export.NewHandler(d.Scrape.Store())

	for _, prefix := range []string{"/api/scraping-sessions", "/sessions"} {
		g := app.Group(prefix)
		g.Get("/", sessionHandler.HandleList)
		g.Get("/recent", sessionHandler.HandleRecent)
		g.Get("/statistics", sessionHandler.HandleStatistics)
		g.Get("/:id", sessionHandler.HandleGet)
		g.Delete("/:id", sessionHandler.HandleDelete)
		g.Post("/", sessionHandler.HandleCreate)
	}

	app.Post("/api/export", exportHandler.HandleExport)
	app.Post("/export", exportHandler.HandleExport)

	return healthHandler
}
