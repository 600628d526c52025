package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/kjstillabower/msn-weather-cache/internal/validation"
)

const (
	defaultAPIURL      = "https://api.weatherbit.io/v2.0/"
	defaultAPITimeout  = 10 * time.Second
	defaultCleanupFile = "GlobalCacheCleanup.xml"
)

// Config holds one invocation's settings. Build it with Load or LoadFile and
// pass it down explicitly; nothing in the module reads settings globally.
type Config struct {
	// Gadget cache directory, e.g. %LOCALAPPDATA%\Microsoft\Windows Sidebar\Cache\<gadget id>\.
	Directory    string `envconfig:"MSN_WEATHER_DIRECTORY" validate:"required"`
	LocationCode string `envconfig:"WEATHER_LOCATION_CODE" validate:"required"`
	WeatherFile  string `envconfig:"MSN_WEATHER_FILE"`
	CleanupFile  string `envconfig:"MSN_WEATHER_CACHE_FILE"`

	APIKey     string        `envconfig:"API_KEY" validate:"required"`
	APIURL     string        `envconfig:"WEATHER_API_URL" validate:"required,url"`
	APITimeout time.Duration `envconfig:"WEATHER_API_TIMEOUT" validate:"gt=0"`

	Latitude  float64 `envconfig:"LATITUDE" validate:"min=-90,max=90"`
	Longitude float64 `envconfig:"LONGITUDE" validate:"min=-180,max=180"`

	// Proxies maps a request scheme to a proxy URL, credentials allowed.
	Proxies Proxies `envconfig:"PROXIES" validate:"omitempty,dive,keys,oneof=http https,endkeys,url"`
	Verify  Verify  `envconfig:"VERIFY"`

	MetricsTextfile string `envconfig:"METRICS_TEXTFILE"`
}

// fileConfig mirrors the settings file. Keys match the legacy settings.json,
// so an existing JSON settings file loads unchanged (YAML is a JSON superset).
type fileConfig struct {
	Directory    string            `yaml:"MSN_WEATHER_DIRECTORY"`
	LocationCode string            `yaml:"WEATHER_LOCATION_CODE"`
	WeatherFile  string            `yaml:"MSN_WEATHER_FILE"`
	CleanupFile  string            `yaml:"MSN_WEATHER_CACHE_FILE"`
	APIKey       string            `yaml:"API_KEY"`
	Latitude     *float64          `yaml:"LATITUDE"`
	Longitude    *float64          `yaml:"LONGITUDE"`
	Proxies      map[string]string `yaml:"proxies"`
	Verify       *Verify           `yaml:"verify"`

	WeatherAPI struct {
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"weather_api"`

	Metrics struct {
		Textfile string `yaml:"textfile"`
	} `yaml:"metrics"`
}

var settingsCandidates = []string{"settings.yaml", "settings.yml", "settings.json"}

// ErrNoSettingsFile is returned when no settings file can be found.
var ErrNoSettingsFile = errors.New("settings file not found")

// Load reads a .env file if present, then the settings file named by
// WEATHERCACHE_CONFIG or the first of settings.yaml, settings.yml,
// settings.json in the working directory, then applies environment overrides.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	path := strings.TrimSpace(os.Getenv("WEATHERCACHE_CONFIG"))
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("config: get working directory: %w", err)
		}
		for _, name := range settingsCandidates {
			candidate := filepath.Join(cwd, name)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			return nil, fmt.Errorf("%w in %s (tried %s)", ErrNoSettingsFile, cwd, strings.Join(settingsCandidates, ", "))
		}
	}
	return LoadFile(path)
}

// LoadFile reads the given settings file and applies environment overrides.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoSettingsFile, path)
		}
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse settings file: %w", err)
	}

	cfg := fromFile(fc)

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromFile(fc fileConfig) *Config {
	cfg := &Config{
		Directory:       strings.TrimSpace(fc.Directory),
		LocationCode:    strings.TrimSpace(fc.LocationCode),
		WeatherFile:     strings.TrimSpace(fc.WeatherFile),
		CleanupFile:     strings.TrimSpace(fc.CleanupFile),
		APIKey:          strings.TrimSpace(fc.APIKey),
		APIURL:          strings.TrimSpace(fc.WeatherAPI.URL),
		APITimeout:      parseDuration(fc.WeatherAPI.Timeout, defaultAPITimeout),
		Proxies:         fc.Proxies,
		Verify:          Verify{Enabled: true},
		MetricsTextfile: strings.TrimSpace(fc.Metrics.Textfile),
	}
	if fc.Latitude != nil {
		cfg.Latitude = *fc.Latitude
	}
	if fc.Longitude != nil {
		cfg.Longitude = *fc.Longitude
	}
	if fc.Verify != nil {
		cfg.Verify = *fc.Verify
	}
	return cfg
}

// applyDefaults fills values that depend on other settings, so it runs after
// environment overrides.
func applyDefaults(cfg *Config) {
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.APITimeout <= 0 {
		cfg.APITimeout = defaultAPITimeout
	}
	if cfg.WeatherFile == "" && cfg.LocationCode != "" {
		cfg.WeatherFile = DefaultWeatherFile(cfg.LocationCode)
	}
	if cfg.CleanupFile == "" {
		cfg.CleanupFile = defaultCleanupFile
	}
}

// DefaultWeatherFile is the gadget's cache file name for a location code
// in Fahrenheit, en-US.
func DefaultWeatherFile(locationCode string) string {
	return "_wc-" + locationCode + "Fen-US_.xml"
}

// WeatherFilePath is the full path of the main cache file.
func (c *Config) WeatherFilePath() string {
	return filepath.Join(c.Directory, c.WeatherFile)
}

// CleanupFilePath is the full path of the cache cleanup marker.
func (c *Config) CleanupFilePath() string {
	return filepath.Join(c.Directory, c.CleanupFile)
}

// MarshalLogObject implements zapcore.ObjectMarshaler. The API key is never logged.
func (c *Config) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("directory", c.Directory)
	enc.AddString("location_code", c.LocationCode)
	enc.AddString("weather_file", c.WeatherFile)
	enc.AddString("cleanup_file", c.CleanupFile)
	enc.AddString("api_url", c.APIURL)
	enc.AddDuration("api_timeout", c.APITimeout)
	enc.AddFloat64("latitude", c.Latitude)
	enc.AddFloat64("longitude", c.Longitude)
	enc.AddBool("api_key_set", c.APIKey != "")
	enc.AddInt("proxies", len(c.Proxies))
	enc.AddString("verify", c.Verify.String())
	return nil
}

// parseDuration parses a duration string and returns defaultVal if parsing fails or result is <= 0.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// validate performs post-load validation of configuration values.
func validate(cfg *Config) error {
	if err := structValidator.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", envName(fe.StructField()), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := validation.ValidateLocationCode(cfg.LocationCode); err != nil {
		return fmt.Errorf("invalid configuration: WEATHER_LOCATION_CODE: %w", err)
	}
	if cfg.Verify.CAFile != "" {
		if _, err := os.Stat(cfg.Verify.CAFile); err != nil {
			return fmt.Errorf("invalid configuration: verify CA file: %w", err)
		}
	}
	return nil
}

// envName reports a field by its settings key so errors match what the user wrote.
func envName(field string) string {
	switch field {
	case "Directory":
		return "MSN_WEATHER_DIRECTORY"
	case "LocationCode":
		return "WEATHER_LOCATION_CODE"
	case "APIKey":
		return "API_KEY"
	case "APIURL":
		return "WEATHER_API_URL"
	case "APITimeout":
		return "WEATHER_API_TIMEOUT"
	case "Latitude":
		return "LATITUDE"
	case "Longitude":
		return "LONGITUDE"
	case "Proxies":
		return "proxies"
	default:
		return field
	}
}
