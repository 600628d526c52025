package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// TestMetrics_Usable verifies that all Prometheus metrics can be used without
// panic, ensuring label dimensions match usage in the client and builder packages.
func TestMetrics_Usable(t *testing.T) {
	WeatherbitCallsTotal.WithLabelValues("current", "success").Inc()
	WeatherbitCallsTotal.WithLabelValues("forecast/daily", "error").Inc()
	WeatherbitDuration.WithLabelValues("current", "success").Observe(0.1)
	RunsTotal.WithLabelValues("success").Inc()
	RunErrorsTotal.WithLabelValues("unmapped_code").Inc()
	RunDurationSeconds.Set(0.42)
	LastSuccessTimestampSeconds.SetToCurrentTime()
	CacheFileBytes.WithLabelValues("weather").Set(2048)
	CacheFileBytes.WithLabelValues("cleanup").Set(64)
}

// TestWriteTextfile verifies the textfile holds the exposition format for
// the collector, with our metric names and label values.
func TestWriteTextfile(t *testing.T) {
	RunErrorsTotal.WithLabelValues("date_parse").Inc()
	CacheFileBytes.WithLabelValues("weather").Set(1234)

	path := filepath.Join(t.TempDir(), "weathercache.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	body := string(data)
	for _, want := range []string{
		"# TYPE runErrorsTotal counter",
		`runErrorsTotal{category="date_parse"}`,
		`cacheFileBytes{file="weather"} 1234`,
		"# HELP lastSuccessTimestampSeconds",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("textfile missing %q", want)
		}
	}
}

func TestWriteTextfile_BadDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "weathercache.prom")
	if err := WriteTextfile(path); err == nil {
		t.Fatal("WriteTextfile() expected error for missing directory")
	}
}

func TestFlushTelemetry(t *testing.T) {
	if err := FlushTelemetry(zap.NewNop(), ""); err != nil {
		t.Errorf("FlushTelemetry(no textfile) error = %v", err)
	}
	if err := FlushTelemetry(nil, ""); err != nil {
		t.Errorf("FlushTelemetry(nil logger) error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "weathercache.prom")
	if err := FlushTelemetry(zap.NewNop(), path); err != nil {
		t.Fatalf("FlushTelemetry() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("textfile not written: %v", err)
	}

	bad := filepath.Join(t.TempDir(), "missing", "weathercache.prom")
	if err := FlushTelemetry(zap.NewNop(), bad); err == nil {
		t.Error("FlushTelemetry() expected error for missing directory")
	}
}
