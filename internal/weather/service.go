package weather

import (
	"errors"
	"log/slog"
	"time"
)

// Query outcomes reported to the Recorder.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Endpoint names reported to the Recorder.
const (
	QueryForecasts = "forecasts"
	QueryTomorrow  = "tomorrow"
)

// Recorder receives per-query instrumentation.
type Recorder interface {
	ObserveQuery(query, outcome string, seconds float64)
}

type nopRecorder struct{}

func (nopRecorder) ObserveQuery(string, string, float64) {}

// Service answers forecast queries against a Store.
type Service struct {
	store    Store
	recorder Recorder
	logger   *slog.Logger
}

// NewService creates a new Service. A nil recorder or logger is replaced by a no-op / the default logger.
func NewService(store Store, recorder Recorder, logger *slog.Logger) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		recorder: recorder,
		logger:   logger,
	}
}

// GetForecasts returns the most recent forecast for then as known at now.
func (s *Service) GetForecasts(now, then time.Time) (PointForecast, error) {
	start := time.Now()
	s.logger.Debug("getting forecasts", "now", now, "then", then)

	pf, err := s.store.PointForecast(now, then)
	s.finish(QueryForecasts, start, err, "now", now, "then", then)
	return pf, err
}

// GetTomorrow returns the conditions for the calendar day after now.
func (s *Service) GetTomorrow(now time.Time) (DailyConditions, error) {
	start := time.Now()
	s.logger.Debug("getting tomorrow's conditions", "now", now)

	dc, err := s.store.DailyConditions(now)
	s.finish(QueryTomorrow, start, err, "now", now)
	return dc, err
}

// Thresholds delegates to the underlying store.
func (s *Service) Thresholds() Thresholds {
	return s.store.Thresholds()
}

// Summary delegates to the underlying store.
func (s *Service) Summary() Summary {
	return s.store.Summary()
}

func (s *Service) finish(query string, start time.Time, err error, attrs ...any) {
	outcome := OutcomeOK
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		outcome = OutcomeNotFound
		s.logger.Warn("no forecasts available", append(attrs, "query", query, "error", err)...)
	default:
		outcome = OutcomeError
		s.logger.Error("forecast query failed", append(attrs, "query", query, "error", err)...)
	}
	s.recorder.ObserveQuery(query, outcome, time.Since(start).Seconds())
}
