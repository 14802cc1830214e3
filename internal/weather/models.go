package weather

import (
	"fmt"
	"time"
)

// Sensor identifies the quantity a forecast value describes.
type Sensor string

const (
	SensorTemperature Sensor = "temperature"
	SensorWindSpeed   Sensor = "wind_speed"
	SensorIrradiance  Sensor = "irradiance"
)

// Sensors lists every known sensor in response order.
var Sensors = []Sensor{SensorTemperature, SensorWindSpeed, SensorIrradiance}

// ParseSensor maps a dataset sensor name to a Sensor.
func ParseSensor(s string) (Sensor, error) {
	switch Sensor(s) {
	case SensorTemperature, SensorWindSpeed, SensorIrradiance:
		return Sensor(s), nil
	default:
		return "", fmt.Errorf("unknown sensor %q", s)
	}
}

// Observation is a single forecast value as recorded in the dataset.
// BeliefTime is derived at load time as EventStart minus BeliefHorizon.
type Observation struct {
	EventStart    time.Time
	BeliefHorizon time.Duration
	BeliefTime    time.Time
	Sensor        Sensor
	Value         float64
}

// NewObservation builds an Observation and derives its belief time.
func NewObservation(eventStart time.Time, horizon time.Duration, sensor Sensor, value float64) Observation {
	return Observation{
		EventStart:    eventStart,
		BeliefHorizon: horizon,
		BeliefTime:    eventStart.Add(-horizon),
		Sensor:        sensor,
		Value:         value,
	}
}

// PointForecast holds the most recent known value per sensor for one event time.
// A nil field means no forecast for that sensor was available.
type PointForecast struct {
	Temperature *float64 `json:"temperature"`
	WindSpeed   *float64 `json:"wind_speed"`
	Irradiance  *float64 `json:"irradiance"`
}

// Set stores v for the given sensor.
func (p *PointForecast) Set(s Sensor, v float64) {
	switch s {
	case SensorTemperature:
		p.Temperature = &v
	case SensorWindSpeed:
		p.WindSpeed = &v
	case SensorIrradiance:
		p.Irradiance = &v
	}
}

// Empty reports whether no sensor has a value.
func (p PointForecast) Empty() bool {
	return p.Temperature == nil && p.WindSpeed == nil && p.Irradiance == nil
}

// DailyConditions is the qualitative outlook for a calendar day.
type DailyConditions struct {
	Warm  bool `json:"warm"`
	Sunny bool `json:"sunny"`
	Windy bool `json:"windy"`
}

// Summary describes the loaded dataset.
type Summary struct {
	Observations int
	PerSensor    map[Sensor]int
	FirstEvent   time.Time
	LastEvent    time.Time
	LoadedAt     time.Time
}
