package main

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"stylescraper/internal/config"
	"stylescraper/internal/core/fetch"
	"stylescraper/internal/core/scrape"
	"stylescraper/internal/core/session"
	"stylescraper/internal/logger"
	"stylescraper/internal/platform/metrics"
	rds "stylescraper/internal/platform/redis"
	tasks "stylescraper/internal/platform/tasks"
	"stylescraper/internal/server"
	"stylescraper/internal/worker"
)

func main() {
	cfg := config.Load()
	log.Printf("[stylescraper] starting at %s (env=%s)\n", cfg.HTTPAddr, cfg.AppEnv)

	// Initialize logger
	logr := logger.New("main")

	store := session.NewStore()
	m := metrics.New()
	fetchOpts := fetch.Options{UserAgent: cfg.FetchUserAgent, HeaderProfile: cfg.FetchHeaderProfile}

	var (
		redisSvc    *rds.Service
		taskClient  *tasks.Client
		asynqServer *worker.Server
		scrapeSvc   *scrape.Service
	)
	if cfg.RedisEnabled() {
		var err error
		redisSvc, err = rds.New(rds.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			logr.LogFatal("redis", err)
		}
		defer redisSvc.Close()

		fetchOpts.Cache = redisSvc
		fetchOpts.CacheTTL = cfg.FetchCacheTTL
		scrapeSvc = scrape.NewService(store, fetch.NewService(fetchOpts), m, redisSvc)

		// Asynq client and server
		taskClient = tasks.New(redisSvc)
		defer taskClient.Close()
		scrapeSvc.UseQueue(taskClient)

		mux := worker.NewMux()
		mux.HandleFunc(tasks.TaskTypeScrapeSession, scrapeSvc.HandleTask)
		asynqServer = worker.NewServer(redisSvc.AsynqRedisOpt(), cfg.WorkerConcurrency)
		go func() {
			if err := asynqServer.Start(mux); err != nil {
				logr.LogErrorf("worker stopped: %v", err)
			}
		}()
	} else {
		logr.LogInfo("REDIS_ADDR not set; running sessions in-process")
		scrapeSvc = scrape.NewService(store, fetch.NewService(fetchOpts), m, nil)
	}

	// HTTP server
	app := fiber.New(fiber.Config{
		AppName: "StyleScraper",
		JSONEncoder: func(v interface{}) ([]byte, error) {
			var buf bytes.Buffer
			encoder := json.NewEncoder(&buf)
			encoder.SetEscapeHTML(false)
			if err := encoder.Encode(v); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	})

	healthHandler := server.RegisterRoutes(app, server.Dependencies{
		Scrape:      scrapeSvc,
		Metrics:     m,
		Redis:       redisSvc,
		RecentLimit: cfg.RecentLimit,
		AccessLog:   cfg.AppEnv != "test",
	})
	healthHandler.SetReady()

	// Graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		logr.LogInfo("Shutting down...")
		if asynqServer != nil {
			asynqServer.Shutdown()
		}
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	if err := app.Listen(cfg.HTTPAddr); err != nil {
		log.Fatalf("server listen: %v", err)
	}
}
