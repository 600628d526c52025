package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registry *prometheus.Registry

	// Weatherbit call count by endpoint and outcome. Watch for: error vs success ratio.
	WeatherbitCallsTotal *prometheus.CounterVec

	// Weatherbit latency per request. Watch for: slow upstream pushing runs past the scheduler interval.
	WeatherbitDuration *prometheus.HistogramVec

	// Completed runs by result (success, failure).
	RunsTotal *prometheus.CounterVec

	// Failed runs by error category. Watch for: unmapped_code means the skycode table needs a new entry.
	RunErrorsTotal *prometheus.CounterVec

	// Wall time of the last run.
	RunDurationSeconds prometheus.Gauge

	// Unix time of the last run that wrote both files. Alert when this stops moving.
	LastSuccessTimestampSeconds prometheus.Gauge

	// Size of each written cache file.
	CacheFileBytes *prometheus.GaugeVec
)

func init() {
	registry = prometheus.NewRegistry()

	WeatherbitCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherbitCallsTotal",
			Help: "Total number of Weatherbit API calls",
		},
		[]string{"endpoint", "status"},
	)
	WeatherbitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weatherbitDurationSeconds",
			Help:    "Weatherbit API latency in seconds (per request)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint", "status"},
	)
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runsTotal",
			Help: "Total number of cache build runs",
		},
		[]string{"result"},
	)
	RunErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runErrorsTotal",
			Help: "Failed cache build runs by error category",
		},
		[]string{"category"},
	)
	RunDurationSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "runDurationSeconds",
			Help: "Duration of the most recent run in seconds",
		},
	)
	LastSuccessTimestampSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lastSuccessTimestampSeconds",
			Help: "Unix time of the last run that wrote both cache files",
		},
	)
	CacheFileBytes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cacheFileBytes",
			Help: "Size in bytes of the last written cache file",
		},
		[]string{"file"},
	)

	registry.MustRegister(
		WeatherbitCallsTotal, WeatherbitDuration,
		RunsTotal, RunErrorsTotal, RunDurationSeconds,
		LastSuccessTimestampSeconds, CacheFileBytes,
	)
}

// WriteTextfile writes the registry in text exposition format for the
// node_exporter textfile collector. The write goes through a temp file and rename.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
