package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpapi "github.com/i474232898/weather-forecast-api/internal/api/http"
	"github.com/i474232898/weather-forecast-api/internal/config"
	applog "github.com/i474232898/weather-forecast-api/internal/logger"
	"github.com/i474232898/weather-forecast-api/internal/metrics"
	"github.com/i474232898/weather-forecast-api/internal/scheduler"
	"github.com/i474232898/weather-forecast-api/internal/store"
	"github.com/i474232898/weather-forecast-api/internal/weather"
	"github.com/i474232898/weather-forecast-api/internal/weather/sources"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := applog.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	loc := cfg.Location()

	// Load the dataset once; nothing is served unless this succeeds.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.DatasetFetchTimeout)
	src := sources.New(cfg.DatasetSource, &http.Client{Timeout: cfg.DatasetFetchTimeout})
	obs, err := sources.Load(loadCtx, src, loc)
	cancelLoad()
	if err != nil {
		log.Error("failed to initialize weather data", "source", src.Name(), "error", err)
		os.Exit(1)
	}

	forecastStore := store.NewMemoryStore(obs, loc)
	sum, th := forecastStore.Summary(), forecastStore.Thresholds()
	log.Info("data loaded successfully",
		"source", src.Name(),
		"observations", sum.Observations,
		"first_event", sum.FirstEvent,
		"last_event", sum.LastEvent,
	)
	log.Info("thresholds",
		"temperature_c", th[weather.SensorTemperature],
		"wind_speed_ms", th[weather.SensorWindSpeed],
		"irradiance_wm2", th[weather.SensorIrradiance],
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	m.SetDataset(sum, th)

	service := weather.NewService(forecastStore, m, log)

	sched := scheduler.New(cfg.ReportInterval, service, m, log)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-forecast-api",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler:          httpapi.ErrorHandler(log),
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New())
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, service, loc)
	httpapi.RegisterMetrics(app, reg)

	go func() {
		log.Info("listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
}
