package weather

import (
	"context"
	"io"
	"time"
)

// Source abstracts where the dataset comes from (local file, remote URL).
type Source interface {
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Store is the contract the Forecast Store must satisfy. Implementations are
// read-only after construction and safe for concurrent use.
type Store interface {
	PointForecast(now, then time.Time) (PointForecast, error)
	DailyConditions(now time.Time) (DailyConditions, error)
	Thresholds() Thresholds
	Summary() Summary
}
