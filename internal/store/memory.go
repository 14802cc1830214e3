package store

import (
	"slices"
	"time"

	"github.com/i474232898/weather-forecast-api/internal/weather"
)

// MemoryStore is the immutable, indexed forecast dataset. It is built once
// and never mutated, so every method is safe for concurrent use without locking.
type MemoryStore struct {
	// one group per distinct event_start, ascending
	events []eventGroup

	thresholds weather.Thresholds
	summary    weather.Summary

	// zone in which calendar days are computed
	loc *time.Location
}

// eventGroup holds the observations sharing an event_start, in load order.
type eventGroup struct {
	start time.Time
	obs   []weather.Observation
}

// NewMemoryStore indexes obs and computes per-sensor thresholds. The slice
// order is the load order used to break belief-time ties. A nil loc means UTC.
func NewMemoryStore(obs []weather.Observation, loc *time.Location) *MemoryStore {
	if loc == nil {
		loc = time.UTC
	}

	s := &MemoryStore{
		thresholds: weather.ComputeThresholds(obs),
		loc:        loc,
		summary: weather.Summary{
			Observations: len(obs),
			PerSensor:    make(map[weather.Sensor]int, len(weather.Sensors)),
			LoadedAt:     time.Now().UTC(),
		},
	}

	// Stable sort keeps load order within an event time.
	sorted := slices.Clone(obs)
	slices.SortStableFunc(sorted, func(a, b weather.Observation) int {
		return a.EventStart.Compare(b.EventStart)
	})

	for _, o := range sorted {
		if n := len(s.events); n > 0 && s.events[n-1].start.Equal(o.EventStart) {
			s.events[n-1].obs = append(s.events[n-1].obs, o)
		} else {
			s.events = append(s.events, eventGroup{start: o.EventStart, obs: []weather.Observation{o}})
		}
		s.summary.PerSensor[o.Sensor]++
	}

	if len(s.events) > 0 {
		s.summary.FirstEvent = s.events[0].start.UTC()
		s.summary.LastEvent = s.events[len(s.events)-1].start.UTC()
	}

	return s
}

// search returns the index of the first group whose event time is not before
// t, and whether that group's event time equals t.
func (s *MemoryStore) search(t time.Time) (int, bool) {
	return slices.BinarySearchFunc(s.events, t, func(g eventGroup, t time.Time) int {
		return g.start.Compare(t)
	})
}

// PointForecast returns, per sensor, the value of the observation for event
// time then with the latest belief time not after now. Sensors without a
// match are left nil. It fails with weather.ErrNotFound when no sensor matches.
func (s *MemoryStore) PointForecast(now, then time.Time) (weather.PointForecast, error) {
	var pf weather.PointForecast

	if i, ok := s.search(then); ok {
		for sensor, o := range latestBySensor(s.events[i].obs, now) {
			pf.Set(sensor, o.Value)
		}
	}

	if pf.Empty() {
		return pf, weather.NewNotFoundError(then.Format(time.RFC3339Nano), now)
	}
	return pf, nil
}

// DailyConditions evaluates the calendar day following now's day. For each
// event time in that window the latest known value per sensor is selected,
// and a condition holds when any selected value exceeds its threshold.
func (s *MemoryStore) DailyConditions(now time.Time) (weather.DailyConditions, error) {
	start, end := tomorrowWindow(now, s.loc)

	values := make(map[weather.Sensor][]float64, len(weather.Sensors))
	found := false

	lo, _ := s.search(start)
	for _, g := range s.events[lo:] {
		if !g.start.Before(end) {
			break
		}
		for sensor, o := range latestBySensor(g.obs, now) {
			values[sensor] = append(values[sensor], o.Value)
			found = true
		}
	}

	if !found {
		return weather.DailyConditions{}, weather.NewNotFoundError("tomorrow", now)
	}
	return weather.DeriveConditions(values, s.thresholds), nil
}

// Thresholds returns a copy of the per-sensor thresholds.
func (s *MemoryStore) Thresholds() weather.Thresholds {
	out := make(weather.Thresholds, len(s.thresholds))
	for k, v := range s.thresholds {
		out[k] = v
	}
	return out
}

// Summary describes the loaded dataset.
func (s *MemoryStore) Summary() weather.Summary {
	sum := s.summary
	sum.PerSensor = make(map[weather.Sensor]int, len(s.summary.PerSensor))
	for k, v := range s.summary.PerSensor {
		sum.PerSensor[k] = v
	}
	return sum
}

// latestBySensor picks, per sensor, the observation with the latest belief
// time not after now. On equal belief times the later-loaded observation wins.
func latestBySensor(obs []weather.Observation, now time.Time) map[weather.Sensor]weather.Observation {
	best := make(map[weather.Sensor]weather.Observation, len(weather.Sensors))
	for _, o := range obs {
		if o.BeliefTime.After(now) {
			continue
		}
		if cur, ok := best[o.Sensor]; ok && o.BeliefTime.Before(cur.BeliefTime) {
			continue
		}
		best[o.Sensor] = o
	}
	return best
}

// tomorrowWindow returns [midnight after now's day, the midnight after that)
// with days computed in loc.
func tomorrowWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
	end := time.Date(local.Year(), local.Month(), local.Day()+2, 0, 0, 0, 0, loc)
	return start, end
}
