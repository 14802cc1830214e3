package sources

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/weather-forecast-api/internal/common"
	"github.com/i474232898/weather-forecast-api/internal/weather"
)

// ErrInvalidDataset is returned when the dataset is structurally or semantically malformed.
var ErrInvalidDataset = errors.New("invalid dataset")

// Dataset column names.
const (
	ColEventStart    = "event_start"
	ColBeliefHorizon = "belief_horizon_in_sec"
	ColSensor        = "sensor"
	ColEventValue    = "event_value"
)

// maxHorizonSeconds keeps the horizon representable as a time.Duration.
const maxHorizonSeconds = float64(math.MaxInt64 / int64(time.Second))

var requiredColumns = []string{ColEventStart, ColBeliefHorizon, ColSensor, ColEventValue}

// Load reads every observation from src. Naive timestamps are read in loc.
func Load(ctx context.Context, src weather.Source, loc *time.Location) ([]weather.Observation, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	obs, err := ParseCSV(rc, loc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name(), err)
	}
	return obs, nil
}

// ParseCSV decodes a header-prefixed CSV of observations, preserving row order.
func ParseCSV(r io.Reader, loc *time.Location) ([]weather.Observation, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header row", ErrInvalidDataset)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidDataset, name)
		}
	}

	var obs []weather.Observation
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
		}

		line, _ := cr.FieldPos(0)
		o, err := parseRow(rec, cols, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidDataset, line, err)
		}
		obs = append(obs, o)
	}

	return obs, nil
}

func parseRow(rec []string, cols map[string]int, loc *time.Location) (weather.Observation, error) {
	field := func(name string) string {
		return strings.TrimSpace(rec[cols[name]])
	}

	eventStart, err := common.ParseTimestamp(field(ColEventStart), loc)
	if err != nil {
		return weather.Observation{}, fmt.Errorf("%s: %w", ColEventStart, err)
	}

	horizonSec, err := strconv.ParseFloat(field(ColBeliefHorizon), 64)
	if err != nil {
		return weather.Observation{}, fmt.Errorf("%s: %w", ColBeliefHorizon, err)
	}
	if math.IsNaN(horizonSec) || math.IsInf(horizonSec, 0) || horizonSec < 0 || horizonSec > maxHorizonSeconds {
		return weather.Observation{}, fmt.Errorf("%s: must be a non-negative number of seconds, got %v", ColBeliefHorizon, horizonSec)
	}

	sensor, err := weather.ParseSensor(field(ColSensor))
	if err != nil {
		return weather.Observation{}, err
	}

	value, err := strconv.ParseFloat(field(ColEventValue), 64)
	if err != nil {
		return weather.Observation{}, fmt.Errorf("%s: %w", ColEventValue, err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return weather.Observation{}, fmt.Errorf("%s: must be finite", ColEventValue)
	}

	horizon := time.Duration(math.Round(horizonSec * float64(time.Second)))
	return weather.NewObservation(eventStart, horizon, sensor, value), nil
}
