package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/surf-conditions-service/internal/domain"
	"github.com/couchcryptid/surf-conditions-service/internal/observability"
	"golang.org/x/sync/errgroup"
)

// Upstream labels used in logs and metrics.
const (
	sourceMarine  = "marine"
	sourceWeather = "weather"
)

// MaxForecastDays is the longest daily horizon the upstream serves.
const MaxForecastDays = 16

// Options configures a Client.
type Options struct {
	MarineURL  string
	WeatherURL string
	Timezone   string
	Timeout    time.Duration
}

// Client implements domain.ConditionSource using the Open-Meteo marine and
// forecast APIs. Swell comes from the marine API and wind from the forecast
// API; the two requests run concurrently and either may fail on its own.
type Client struct {
	marineURL  string
	weatherURL string
	timezone   string
	location   *time.Location
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo client. An unknown timezone falls back to UTC.
func NewClient(opts Options, metrics *observability.Metrics, logger *slog.Logger) *Client {
	loc, err := time.LoadLocation(opts.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, using UTC", "timezone", opts.Timezone, "error", err)
		loc = time.UTC
		opts.Timezone = "UTC"
	}
	return &Client{
		marineURL:  opts.MarineURL,
		weatherURL: opts.WeatherURL,
		timezone:   opts.Timezone,
		location:   loc,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Current returns the reading for the present hour.
func (c *Client) Current(ctx context.Context, spot domain.Spot) (domain.RawReading, error) {
	var marine marineResponse
	var weather weatherResponse

	marineErr, weatherErr := c.fetchBoth(ctx,
		func(ctx context.Context) error {
			return c.getJSON(ctx, sourceMarine, c.marineURL, c.params(spot, url.Values{
				"current": {"wave_height,wave_period"},
			}), &marine)
		},
		func(ctx context.Context) error {
			return c.getJSON(ctx, sourceWeather, c.weatherURL, c.params(spot, url.Values{
				"current":         {"wind_speed_10m,wind_gusts_10m"},
				"wind_speed_unit": {"kmh"},
			}), &weather)
		},
	)
	if err := c.joinFailures(spot, marineErr, weatherErr); err != nil {
		return domain.RawReading{}, err
	}

	swell := domain.RawReading{WaveHeightM: marine.Current.WaveHeight, WavePeriodS: marine.Current.WavePeriod}
	wind := domain.RawReading{WindSpeedKmh: weather.Current.WindSpeed, WindGustKmh: weather.Current.WindGusts}
	return swell.Merge(wind), nil
}

// Daily returns one reading per forecast day built from daily maxima, in the
// chronological order the upstream returns them.
func (c *Client) Daily(ctx context.Context, spot domain.Spot, days int) ([]domain.DailyReading, error) {
	if days < 1 || days > MaxForecastDays {
		return nil, fmt.Errorf("days must be between 1 and %d, got %d", MaxForecastDays, days)
	}

	var marine marineResponse
	var weather weatherResponse
	forecastDays := strconv.Itoa(days)

	marineErr, weatherErr := c.fetchBoth(ctx,
		func(ctx context.Context) error {
			return c.getJSON(ctx, sourceMarine, c.marineURL, c.params(spot, url.Values{
				"daily":         {"wave_height_max,wave_period_max"},
				"forecast_days": {forecastDays},
			}), &marine)
		},
		func(ctx context.Context) error {
			return c.getJSON(ctx, sourceWeather, c.weatherURL, c.params(spot, url.Values{
				"daily":           {"wind_speed_10m_max,wind_gusts_10m_max"},
				"wind_speed_unit": {"kmh"},
				"forecast_days":   {forecastDays},
			}), &weather)
		},
	)
	if err := c.joinFailures(spot, marineErr, weatherErr); err != nil {
		return nil, err
	}

	return c.alignDaily(marine.Daily, weather.Daily, days)
}

// fetchBoth runs both requests concurrently and returns their individual
// errors. Neither request cancels the other.
func (c *Client) fetchBoth(ctx context.Context, marine, weather func(context.Context) error) (marineErr, weatherErr error) {
	var g errgroup.Group
	g.Go(func() error {
		marineErr = marine(ctx)
		return nil
	})
	g.Go(func() error {
		weatherErr = weather(ctx)
		return nil
	})
	_ = g.Wait()
	return marineErr, weatherErr
}

func (c *Client) joinFailures(spot domain.Spot, marineErr, weatherErr error) error {
	if marineErr != nil && weatherErr != nil {
		return fmt.Errorf("fetch conditions for %s: %w", spot.Slug, errors.Join(marineErr, weatherErr))
	}
	if marineErr != nil {
		c.logger.Warn("marine upstream failed, returning wind only", "spot", spot.Slug, "error", marineErr)
	}
	if weatherErr != nil {
		c.logger.Warn("weather upstream failed, returning swell only", "spot", spot.Slug, "error", weatherErr)
	}
	return nil
}

// alignDaily joins the two daily series on date. The series that succeeded
// drives the row order; the other fills in by date.
func (c *Client) alignDaily(marine marineDaily, weather weatherDaily, days int) ([]domain.DailyReading, error) {
	dates := marine.Time
	if len(dates) == 0 {
		dates = weather.Time
	}

	windByDate := make(map[string]int, len(weather.Time))
	for i, d := range weather.Time {
		windByDate[d] = i
	}

	out := make([]domain.DailyReading, 0, min(len(dates), days))
	for i, d := range dates {
		if len(out) == days {
			break
		}
		date, err := time.ParseInLocation(time.DateOnly, d, c.location)
		if err != nil {
			return nil, fmt.Errorf("parse forecast date %q: %w", d, err)
		}

		var swell, wind domain.RawReading
		if i < len(marine.Time) && marine.Time[i] == d {
			swell = domain.RawReading{WaveHeightM: at(marine.WaveHeightMax, i), WavePeriodS: at(marine.WavePeriodMax, i)}
		}
		if j, ok := windByDate[d]; ok {
			wind = domain.RawReading{WindSpeedKmh: at(weather.WindSpeedMax, j), WindGustKmh: at(weather.WindGustsMax, j)}
		}
		out = append(out, domain.DailyReading{Date: date, Reading: swell.Merge(wind)})
	}
	return out, nil
}

func (c *Client) params(spot domain.Spot, extra url.Values) url.Values {
	v := url.Values{
		"latitude":  {strconv.FormatFloat(spot.Lat, 'f', 4, 64)},
		"longitude": {strconv.FormatFloat(spot.Lon, 'f', 4, 64)},
		"timezone":  {c.timezone},
	}
	for k, vals := range extra {
		v[k] = vals
	}
	return v
}

func (c *Client) getJSON(ctx context.Context, source, baseURL string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create %s request: %w", source, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(source, "error").Inc()
		return fmt.Errorf("%s request: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues(source, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("open-meteo %s error: status %d: %s", source, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(source, "error").Inc()
		return fmt.Errorf("decode %s response: %w", source, err)
	}
	c.metrics.UpstreamRequests.WithLabelValues(source, "success").Inc()
	return nil
}

func at(vals []*float64, i int) *float64 {
	if i < 0 || i >= len(vals) {
		return nil
	}
	return vals[i]
}

// Open-Meteo response types. Values are pointers because the API reports
// unavailable hours and days as null.

type marineResponse struct {
	Current struct {
		WaveHeight *float64 `json:"wave_height"`
		WavePeriod *float64 `json:"wave_period"`
	} `json:"current"`
	Daily marineDaily `json:"daily"`
}

type marineDaily struct {
	Time          []string   `json:"time"`
	WaveHeightMax []*float64 `json:"wave_height_max"`
	WavePeriodMax []*float64 `json:"wave_period_max"`
}

type weatherResponse struct {
	Current struct {
		WindSpeed *float64 `json:"wind_speed_10m"`
		WindGusts *float64 `json:"wind_gusts_10m"`
	} `json:"current"`
	Daily weatherDaily `json:"daily"`
}

type weatherDaily struct {
	Time         []string   `json:"time"`
	WindSpeedMax []*float64 `json:"wind_speed_10m_max"`
	WindGustsMax []*float64 `json:"wind_gusts_10m_max"`
}
