// Package builder turns one Weatherbit fetch into the gadget's cache files.
package builder

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/msn-weather-cache/internal/cachefile"
	"github.com/kjstillabower/msn-weather-cache/internal/client"
	"github.com/kjstillabower/msn-weather-cache/internal/config"
	"github.com/kjstillabower/msn-weather-cache/internal/filetime"
	"github.com/kjstillabower/msn-weather-cache/internal/models"
	"github.com/kjstillabower/msn-weather-cache/internal/observability"
	"github.com/kjstillabower/msn-weather-cache/internal/skycode"
)

const (
	// ForecastDays is the number of forecast elements the gadget renders.
	ForecastDays = 5

	cacheLifetime = 5 * 24 * time.Hour
	cleanupLag    = 2*time.Hour + 30*time.Minute

	mapURLFormat     = "http://a.msn.com/54/en-US/ct%f,%f?ctsrc=Windows7"
	imageRelativeURL = "http://blob.weather.microsoft.com/static/weather4/en-us/"
	providerName     = "WeatherBit"
	attributionURL   = "https://www.weatherbit.io/"
	entityID         = "24773"
)

// encodeData is swapped in tests to exercise the encode failure path.
var encodeData = cachefile.EncodeData

// Builder fetches weather for one location and assembles the cache documents.
type Builder struct {
	client client.WeatherClient
	logger *zap.Logger
	now    func() time.Time
}

// New creates a Builder. A nil logger disables logging.
func New(client client.WeatherClient, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for saved, expiry and cleanup times.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// BuildCache fetches current conditions and the daily forecast and returns
// the weather cache document and the cleanup marker. Nothing is written.
func (b *Builder) BuildCache(ctx context.Context, cfg *config.Config) (cachefile.CacheFile, cachefile.CacheCleanup, error) {
	now := b.now()

	current, err := b.client.GetCurrent(ctx, cfg.Latitude, cfg.Longitude)
	if err != nil {
		return cachefile.CacheFile{}, cachefile.CacheCleanup{}, fmt.Errorf("%w: %w", ErrRemoteFetch, err)
	}
	b.logger.Debug("current conditions fetched",
		zap.String("city", current.Conditions.CityName),
		zap.Int("code", current.Conditions.Weather.Code),
		zap.Int("alerts", len(current.Alerts)))

	days, err := b.client.GetDailyForecast(ctx, cfg.Latitude, cfg.Longitude)
	if err != nil {
		return cachefile.CacheFile{}, cachefile.CacheCleanup{}, fmt.Errorf("%w: %w", ErrRemoteFetch, err)
	}
	if len(days) < ForecastDays {
		return cachefile.CacheFile{}, cachefile.CacheCleanup{}, fmt.Errorf("%w: %w: forecast has %d days, need %d",
			ErrRemoteFetch, client.ErrMalformedResponse, len(days), ForecastDays)
	}
	b.logger.Debug("forecast fetched", zap.Int("days", len(days)))

	weather, err := assembleWeather(cfg.LocationCode, current, days[:ForecastDays], now)
	if err != nil {
		return cachefile.CacheFile{}, cachefile.CacheCleanup{}, err
	}

	data, err := encodeData(cachefile.NewWeatherData(weather))
	if err != nil {
		return cachefile.CacheFile{}, cachefile.CacheCleanup{}, fmt.Errorf("%w: encode weatherdata: %w", ErrFileWrite, err)
	}

	cache := cachefile.CacheFile{
		Version:    cachefile.Version,
		SavedTime:  filetime.FromTime(now),
		ExpiryTime: filetime.FromTime(now.Add(cacheLifetime)),
		Data:       data,
	}
	cleanup := cachefile.CacheCleanup{
		Timestamp: filetime.FromTime(now.Add(-cleanupLag)),
	}
	return cache, cleanup, nil
}

// Run builds both documents and overwrites the configured files, main cache
// file first. Any failure aborts the run; files already written stay written.
func (b *Builder) Run(ctx context.Context, cfg *config.Config) error {
	start := time.Now()
	err := b.run(ctx, cfg)
	observability.RunDurationSeconds.Set(time.Since(start).Seconds())

	if err != nil {
		category := Category(err)
		observability.RunsTotal.WithLabelValues("failure").Inc()
		observability.RunErrorsTotal.WithLabelValues(category).Inc()
		fields := []zap.Field{zap.String("category", category), zap.Error(err)}
		if category == "remote_fetch" {
			fields = append(fields, zap.String("transport_category", string(client.CategorizeError(err))))
		}
		b.logger.Error("cache build failed", fields...)
		return err
	}

	observability.RunsTotal.WithLabelValues("success").Inc()
	observability.LastSuccessTimestampSeconds.SetToCurrentTime()
	b.logger.Info("cache files written",
		zap.String("weather_file", cfg.WeatherFilePath()),
		zap.String("cleanup_file", cfg.CleanupFilePath()),
		zap.Duration("duration", time.Since(start)))
	return nil
}

func (b *Builder) run(ctx context.Context, cfg *config.Config) error {
	cache, cleanup, err := b.BuildCache(ctx, cfg)
	if err != nil {
		return err
	}

	n, err := cachefile.WriteFile(cfg.WeatherFilePath(), cache)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileWrite, err)
	}
	observability.CacheFileBytes.WithLabelValues("weather").Set(float64(n))

	n, err = cachefile.WriteFile(cfg.CleanupFilePath(), cleanup)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileWrite, err)
	}
	observability.CacheFileBytes.WithLabelValues("cleanup").Set(float64(n))
	return nil
}

func assembleWeather(locationCode string, current models.Current, days []models.ForecastDay, now time.Time) (cachefile.Weather, error) {
	obs := current.Conditions
	if len(obs.Sources) == 0 {
		return cachefile.Weather{}, fmt.Errorf("%w: %w: observation has no sources", ErrRemoteFetch, client.ErrMalformedResponse)
	}

	lat, err := obs.Lat.Float64()
	if err != nil {
		return cachefile.Weather{}, fmt.Errorf("%w: %w: lat %q", ErrRemoteFetch, client.ErrMalformedResponse, obs.Lat)
	}
	lon, err := obs.Lon.Float64()
	if err != nil {
		return cachefile.Weather{}, fmt.Errorf("%w: %w: lon %q", ErrRemoteFetch, client.ErrMalformedResponse, obs.Lon)
	}

	offset, err := utcOffset(obs.Timezone, now)
	if err != nil {
		return cachefile.Weather{}, err
	}

	cur, err := assembleCurrent(obs, offset)
	if err != nil {
		return cachefile.Weather{}, err
	}

	forecasts := make([]cachefile.Forecast, 0, len(days))
	for _, day := range days {
		f, err := assembleForecast(day)
		if err != nil {
			return cachefile.Weather{}, err
		}
		forecasts = append(forecasts, f)
	}

	return cachefile.Weather{
		LocationCode:        "wc:" + locationCode,
		LocationName:        obs.CityName,
		URL:                 fmt.Sprintf(mapURLFormat, lat, lon),
		ImageRelativeURL:    imageRelativeURL,
		DegreeType:          temperatureUnit,
		Provider:            providerName,
		Attribution:         attributionURL,
		Attribution2:        obs.Sources[0],
		Lat:                 obs.Lat.String(),
		Long:                obs.Lon.String(),
		Timezone:            offsetHours(offset),
		Alert:               current.AlertTitle(),
		EntityID:            entityID,
		EncodedLocationName: obs.CityName,
		Current:             cur,
		Forecasts:           forecasts,
		Toolbar:             cachefile.DefaultToolbar,
	}, nil
}

func assembleCurrent(obs models.CurrentConditions, offset time.Duration) (cachefile.Current, error) {
	sky, err := skycode.Lookup(obs.Weather.Code)
	if err != nil {
		return cachefile.Current{}, err
	}
	observed, err := localObservationTime(obs.ObTime, offset)
	if err != nil {
		return cachefile.Current{}, err
	}

	return cachefile.Current{
		Temperature:      obs.Temp.String(),
		SkyCode:          strconv.Itoa(int(sky)),
		SkyText:          obs.Weather.Description,
		Date:             observed.Format(dateLayout),
		ObservationTime:  observed.Format("15:04:05"),
		ObservationPoint: obs.CityName,
		FeelsLike:        obs.AppTemp.String(),
		Humidity:         obs.RH.String(),
		WindDisplay:      windDisplay(obs.WindSpeed, obs.WindDirection),
		Day:              observed.Format("Monday"),
		ShortDay:         observed.Format("Mon"),
		WindSpeed:        windSpeed(obs.WindSpeed),
	}, nil
}

func assembleForecast(day models.ForecastDay) (cachefile.Forecast, error) {
	sky, err := skycode.Lookup(day.Weather.Code)
	if err != nil {
		return cachefile.Forecast{}, err
	}
	date, err := parseValidDate(day.ValidDate)
	if err != nil {
		return cachefile.Forecast{}, err
	}

	return cachefile.Forecast{
		Low:        day.MinTemp.String(),
		High:       day.MaxTemp.String(),
		SkyCodeDay: strconv.Itoa(int(sky)),
		SkyTextDay: day.Weather.Description,
		Date:       date.Format(dateLayout),
		Day:        date.Format("Monday"),
		ShortDay:   date.Format("Mon"),
		Precip:     day.Pop.String(),
	}, nil
}
