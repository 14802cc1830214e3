// Package metrics provides Prometheus instrumentation for the forecast API.
//
// Metrics exposed:
//   - forecast_api_queries_total: Counter of queries by endpoint and outcome
//   - forecast_api_query_duration_seconds: Histogram of store query latency by endpoint
//   - forecast_api_dataset_observations: Gauge of loaded observations per sensor
//   - forecast_api_sensor_threshold: Gauge of the "high value" threshold per sensor
//   - forecast_api_dataset_age_seconds: Gauge of time since the dataset was loaded
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/i474232898/weather-forecast-api/internal/weather"
)

type Metrics struct {
	QueriesTotal        *prometheus.CounterVec
	QueryDuration       *prometheus.HistogramVec
	DatasetObservations *prometheus.GaugeVec
	SensorThreshold     *prometheus.GaugeVec
	DatasetAge          prometheus.Gauge
}

// New registers all collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		QueriesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "forecast_api_queries_total",
			Help: "Total number of forecast queries by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),

		QueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "forecast_api_query_duration_seconds",
			Help:    "Duration of forecast store queries by endpoint",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		DatasetObservations: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "forecast_api_dataset_observations",
			Help: "Number of loaded observations per sensor",
		}, []string{"sensor"}),

		SensorThreshold: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "forecast_api_sensor_threshold",
			Help: "Threshold above which a sensor value counts as high",
		}, []string{"sensor"}),

		DatasetAge: f.NewGauge(prometheus.GaugeOpts{
			Name: "forecast_api_dataset_age_seconds",
			Help: "Seconds since the dataset was loaded",
		}),
	}
}

// ObserveQuery implements weather.Recorder.
func (m *Metrics) ObserveQuery(endpoint, outcome string, seconds float64) {
	m.QueriesTotal.WithLabelValues(endpoint, outcome).Inc()
	m.QueryDuration.WithLabelValues(endpoint).Observe(seconds)
}

// SetDataset publishes the static dataset gauges.
func (m *Metrics) SetDataset(sum weather.Summary, th weather.Thresholds) {
	for _, s := range weather.Sensors {
		m.DatasetObservations.WithLabelValues(string(s)).Set(float64(sum.PerSensor[s]))
		m.SensorThreshold.WithLabelValues(string(s)).Set(th[s])
	}
}

func (m *Metrics) SetDatasetAge(seconds float64) {
	m.DatasetAge.Set(seconds)
}
