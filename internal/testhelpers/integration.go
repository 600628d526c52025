//go:build integration
// +build integration

package testhelpers

import (
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/kjstillabower/msn-weather-cache/internal/client"
)

// IntegrationTestConfig holds configuration for live Weatherbit tests.
type IntegrationTestConfig struct {
	APIKey    string
	APIURL    string
	Latitude  float64
	Longitude float64
}

// GetIntegrationConfig loads integration test configuration from environment.
// Skips test if API_KEY is not set. Coordinates default to Ottawa.
func GetIntegrationConfig(t *testing.T) IntegrationTestConfig {
	t.Helper()
	apiKey := os.Getenv("API_KEY")
	if apiKey == "" {
		t.Skip("API_KEY not set, skipping integration test")
	}

	apiURL := os.Getenv("WEATHER_API_URL")
	if apiURL == "" {
		apiURL = client.DefaultAPIURL
	}

	return IntegrationTestConfig{
		APIKey:    apiKey,
		APIURL:    apiURL,
		Latitude:  envFloat(t, "LATITUDE", 45.4215),
		Longitude: envFloat(t, "LONGITUDE", -75.6972),
	}
}

// NewIntegrationClient creates a Weatherbit client against the live API using
// the proxy environment variables and system roots.
func NewIntegrationClient(t *testing.T, cfg IntegrationTestConfig) *client.WeatherbitClient {
	t.Helper()
	wc, err := client.NewWeatherbitClient(cfg.APIKey, cfg.APIURL, 10*time.Second, client.TransportOptions{})
	if err != nil {
		t.Fatalf("NewWeatherbitClient() error = %v", err)
	}
	return wc
}

func envFloat(t *testing.T, key string, def float64) float64 {
	t.Helper()
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		t.Fatalf("%s=%q: %v", key, raw, err)
	}
	return v
}
