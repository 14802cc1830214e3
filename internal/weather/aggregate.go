package weather

import (
	"math"
	"slices"
)

// ThresholdPercentile is the percentile of observed values above which a
// sensor reading counts as "high".
const ThresholdPercentile = 75.0

// Fallback thresholds used when a sensor has no observations.
const (
	DefaultTemperatureThreshold = 15.0
	DefaultWindSpeedThreshold   = 3.0
	DefaultIrradianceThreshold  = 200.0
)

// Thresholds holds the per-sensor cutoffs for DailyConditions.
type Thresholds map[Sensor]float64

// DefaultThresholds returns the fallback cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SensorTemperature: DefaultTemperatureThreshold,
		SensorWindSpeed:   DefaultWindSpeedThreshold,
		SensorIrradiance:  DefaultIrradianceThreshold,
	}
}

// Percentile returns the p-th percentile of values using linear interpolation
// between closest ranks. values is not modified. It returns NaN for an empty input.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(rank-float64(lo))
}

// ComputeThresholds derives the 75th percentile of every sensor's values,
// falling back to the defaults for sensors without data.
func ComputeThresholds(obs []Observation) Thresholds {
	bySensor := make(map[Sensor][]float64, len(Sensors))
	for _, o := range obs {
		bySensor[o.Sensor] = append(bySensor[o.Sensor], o.Value)
	}

	th := DefaultThresholds()
	for _, s := range Sensors {
		if vals := bySensor[s]; len(vals) > 0 {
			th[s] = Percentile(vals, ThresholdPercentile)
		}
	}
	return th
}

// DeriveConditions flags a condition when any selected value of its sensor
// exceeds the sensor threshold. Sensors without values yield false.
func DeriveConditions(values map[Sensor][]float64, th Thresholds) DailyConditions {
	exceeds := func(s Sensor) bool {
		limit := th[s]
		for _, v := range values[s] {
			if v > limit {
				return true
			}
		}
		return false
	}

	return DailyConditions{
		Warm:  exceeds(SensorTemperature),
		Sunny: exceeds(SensorIrradiance),
		Windy: exceeds(SensorWindSpeed),
	}
}
