package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kjstillabower/msn-weather-cache/internal/models"
	"github.com/kjstillabower/msn-weather-cache/internal/observability"
)

const (
	DefaultAPIURL  = "https://api.weatherbit.io/v2.0/"
	DefaultTimeout = 10 * time.Second

	EndpointCurrent       = "current"
	EndpointDailyForecast = "forecast/daily"
)

type WeatherClient interface {
	GetCurrent(ctx context.Context, lat, lon float64) (models.Current, error)
	GetDailyForecast(ctx context.Context, lat, lon float64) ([]models.ForecastDay, error)
}

var (
	ErrInvalidAPIKey     = errors.New("invalid API key")
	ErrUpstreamFailure   = errors.New("upstream failure")
	ErrRateLimited       = errors.New("rate limited")
	ErrMalformedResponse = errors.New("malformed response")
	ErrInvalidTransport  = errors.New("invalid transport settings")
)

// TransportOptions configures proxying and certificate verification.
// Proxies is keyed by request scheme ("http", "https"); a scheme with no entry
// falls back to the standard proxy environment variables.
type TransportOptions struct {
	Proxies            map[string]string
	InsecureSkipVerify bool
	CAFile             string
}

type WeatherbitClient struct {
	apiKey  string
	apiURL  string
	timeout time.Duration
	client  *http.Client
}

func NewWeatherbitClient(apiKey, apiURL string, timeout time.Duration, opts TransportOptions) (*WeatherbitClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidAPIKey)
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if _, err := url.Parse(apiURL); err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}

	transport, err := newTransport(opts)
	if err != nil {
		return nil, err
	}

	return &WeatherbitClient{
		apiKey:  apiKey,
		apiURL:  apiURL,
		timeout: timeout,
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}, nil
}

func newTransport(opts TransportOptions) (*http.Transport, error) {
	proxy, err := proxyFunc(opts.Proxies)
	if err != nil {
		return nil, err
	}

	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
	switch {
	case opts.InsecureSkipVerify:
		tlsConfig.InsecureSkipVerify = true
	case opts.CAFile != "":
		pool, err := loadCertPool(opts.CAFile)
		if err != nil {
			return nil, err
		}
		tlsConfig.RootCAs = pool
	}

	t := http.DefaultTransport.(*http.Transport).Clone()
	t.Proxy = proxy
	t.TLSClientConfig = tlsConfig
	return t, nil
}

func proxyFunc(proxies map[string]string) (func(*http.Request) (*url.URL, error), error) {
	if len(proxies) == 0 {
		return http.ProxyFromEnvironment, nil
	}
	parsed := make(map[string]*url.URL, len(proxies))
	for scheme, raw := range proxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("%w: proxy for %q is not a valid URL", ErrInvalidTransport, scheme)
		}
		parsed[strings.ToLower(scheme)] = u
	}
	return func(req *http.Request) (*url.URL, error) {
		if u, ok := parsed[req.URL.Scheme]; ok {
			return u, nil
		}
		return http.ProxyFromEnvironment(req)
	}, nil
}

// loadCertPool reads a CA bundle in PEM form, or a single DER certificate.
// The resulting pool replaces the system roots.
func loadCertPool(path string) (*x509.CertPool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read CA file: %v", ErrInvalidTransport, err)
	}
	pool := x509.NewCertPool()
	if pool.AppendCertsFromPEM(data) {
		return pool, nil
	}
	cert, err := x509.ParseCertificate(data)
	if err != nil {
		return nil, fmt.Errorf("%w: CA file %s holds no certificates", ErrInvalidTransport, path)
	}
	pool.AddCert(cert)
	return pool, nil
}

type currentResponse struct {
	Data   []models.CurrentConditions `json:"data"`
	Alerts []models.Alert             `json:"alerts"`
}

type forecastResponse struct {
	Data []models.ForecastDay `json:"data"`
}

// GetCurrent fetches the current observation and active alerts for a coordinate.
func (c *WeatherbitClient) GetCurrent(ctx context.Context, lat, lon float64) (models.Current, error) {
	var resp currentResponse
	if err := c.callAPI(ctx, EndpointCurrent, lat, lon, &resp); err != nil {
		return models.Current{}, err
	}
	if len(resp.Data) == 0 {
		return models.Current{}, fmt.Errorf("%w: %s returned no observations", ErrMalformedResponse, EndpointCurrent)
	}
	obs := resp.Data[0]
	if len(obs.Sources) == 0 {
		return models.Current{}, fmt.Errorf("%w: %s observation has no sources", ErrMalformedResponse, EndpointCurrent)
	}
	return models.Current{Conditions: obs, Alerts: resp.Alerts}, nil
}

// GetDailyForecast fetches the daily forecast, first entry being today.
func (c *WeatherbitClient) GetDailyForecast(ctx context.Context, lat, lon float64) ([]models.ForecastDay, error) {
	var resp forecastResponse
	if err := c.callAPI(ctx, EndpointDailyForecast, lat, lon, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: %s returned no days", ErrMalformedResponse, EndpointDailyForecast)
	}
	return resp.Data, nil
}

func (c *WeatherbitClient) callAPI(ctx context.Context, endpoint string, lat, lon float64, out interface{}) error {
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.buildRequest(reqCtx, endpoint, lat, lon)
	if err != nil {
		observability.WeatherbitCallsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("build request: %w", err)
	}

	if runID := observability.RunIDFromContext(ctx); runID != "" {
		req.Header.Set("X-Correlation-ID", runID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		duration := time.Since(start).Seconds()
		observability.WeatherbitCallsTotal.WithLabelValues(endpoint, "error").Inc()
		observability.WeatherbitDuration.WithLabelValues(endpoint, "error").Observe(duration)

		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("%s request timeout: %w", endpoint, err)
		}
		return fmt.Errorf("%s http request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	duration := time.Since(start).Seconds()
	status := statusLabel(resp.StatusCode)
	observability.WeatherbitCallsTotal.WithLabelValues(endpoint, status).Inc()
	observability.WeatherbitDuration.WithLabelValues(endpoint, status).Observe(duration)

	if err := handleErrorResponse(resp); err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s read response body: %w", endpoint, err)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: parse %s response: %v", ErrMalformedResponse, endpoint, err)
	}
	return nil
}

func (c *WeatherbitClient) buildRequest(ctx context.Context, endpoint string, lat, lon float64) (*http.Request, error) {
	base, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	u := base.ResolveReference(&url.URL{Path: endpoint})

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("units", "I")
	params.Set("include", "alerts")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	return req, nil
}

func handleErrorResponse(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: HTTP %d", ErrInvalidAPIKey, resp.StatusCode)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w", ErrRateLimited)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: HTTP %d", ErrUpstreamFailure, resp.StatusCode)
	}

	return nil
}

func statusLabel(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "success"
	}
	if statusCode == 429 {
		return "rate_limited"
	}
	if statusCode >= 400 && statusCode < 500 {
		return "client_error"
	}
	if statusCode >= 500 {
		return "server_error"
	}
	return "error"
}
