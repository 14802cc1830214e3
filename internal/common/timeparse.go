package common

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTimestamp is returned for input that is not a recognised ISO-8601
// timestamp or unix seconds.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// Layouts carrying an explicit UTC offset.
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04Z07:00",
}

// Layouts without an offset; they are interpreted in the caller's location.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.DateOnly,
}

// ParseTimestamp parses an ISO-8601 date-time. Values without an offset are
// read in loc (UTC when nil).
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidTimestamp)
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range zonedLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	for _, layout := range naiveLayouts {
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not an ISO-8601 datetime", ErrInvalidTimestamp, s)
}

// ParseQueryTime accepts everything ParseTimestamp does plus unix seconds.
func ParseQueryTime(s string, loc *time.Location) (time.Time, error) {
	if unix, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return ParseTimestamp(s, loc)
}
