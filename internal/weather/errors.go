package weather

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a well-formed query matches no forecasts.
var ErrNotFound = errors.New("no forecasts available")

// NotFoundError carries the human readable reason a query found nothing.
type NotFoundError struct {
	Target string
	AsOf   time.Time
}

// NewNotFoundError reports that nothing was known about target as of asOf.
func NewNotFoundError(target string, asOf time.Time) *NotFoundError {
	return &NotFoundError{Target: target, AsOf: asOf}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("No forecasts available for %s based on data available at %s",
		e.Target, e.AsOf.Format(time.RFC3339Nano))
}

// Is makes errors.Is(err, ErrNotFound) hold.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
