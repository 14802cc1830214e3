package scheduler

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-forecast-api/internal/weather"
)

// AgeRecorder receives the dataset age on every report.
type AgeRecorder interface {
	SetDatasetAge(seconds float64)
}

// Scheduler periodically reports on the loaded dataset.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	recorder  AgeRecorder
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a new Scheduler.
func New(interval time.Duration, service *weather.Service, recorder AgeRecorder, logger *slog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		recorder:  recorder,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the report job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("scheduler: report interval disabled; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(s.report)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) report() {
	sum := s.service.Summary()
	age := time.Since(sum.LoadedAt)

	if s.recorder != nil {
		s.recorder.SetDatasetAge(age.Seconds())
	}

	s.logger.Info("scheduler: dataset report",
		"observations", sum.Observations,
		"temperature", sum.PerSensor[weather.SensorTemperature],
		"wind_speed", sum.PerSensor[weather.SensorWindSpeed],
		"irradiance", sum.PerSensor[weather.SensorIrradiance],
		"first_event", sum.FirstEvent,
		"last_event", sum.LastEvent,
		"age", age.Round(time.Second),
	)
}
