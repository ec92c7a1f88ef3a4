package openmeteo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/surf-conditions-service/internal/domain"
	"github.com/couchcryptid/surf-conditions-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

var testSpot = domain.Spot{Slug: "la-torche", Name: "La Torche", Lat: 47.837, Lon: -4.359}

func testClient(marineURL, weatherURL string) *Client {
	return NewClient(Options{
		MarineURL:  marineURL,
		WeatherURL: weatherURL,
		Timezone:   "Europe/Paris",
		Timeout:    2 * time.Second,
	}, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func jsonServer(t *testing.T, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func failingServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream unavailable", status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Current_Success(t *testing.T) {
	marine := jsonServer(t, `{"current":{"time":"2025-06-14T09:00","wave_height":1.3,"wave_period":11.5}}`, func(r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "wave_height,wave_period", q.Get("current"))
		assert.Equal(t, "47.8370", q.Get("latitude"))
		assert.Equal(t, "-4.3590", q.Get("longitude"))
		assert.Equal(t, "Europe/Paris", q.Get("timezone"))
	})
	weather := jsonServer(t, `{"current":{"time":"2025-06-14T09:00","wind_speed_10m":9.4,"wind_gusts_10m":17.2}}`, func(r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "wind_speed_10m,wind_gusts_10m", q.Get("current"))
		assert.Equal(t, "kmh", q.Get("wind_speed_unit"))
	})

	c := testClient(marine.URL, weather.URL)
	r, err := c.Current(context.Background(), testSpot)
	require.NoError(t, err)

	require.NotNil(t, r.WaveHeightM)
	assert.Equal(t, 1.3, *r.WaveHeightM)
	assert.Equal(t, 11.5, *r.WavePeriodS)
	assert.Equal(t, 9.4, *r.WindSpeedKmh)
	assert.Equal(t, 17.2, *r.WindGustKmh)
	assert.True(t, r.Complete())
	assert.InDelta(t, 1.0, testutil.ToFloat64(c.metrics.UpstreamRequests.WithLabelValues(sourceMarine, "success")), 0)
	assert.InDelta(t, 1.0, testutil.ToFloat64(c.metrics.UpstreamRequests.WithLabelValues(sourceWeather, "success")), 0)
}

func TestClient_Current_RequestsRunConcurrently(t *testing.T) {
	var inFlight, peak atomic.Int32
	release := make(chan struct{})
	handler := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			if n == 2 {
				close(release)
			}
			select {
			case <-release:
			case <-time.After(time.Second):
			}
			inFlight.Add(-1)
			w.Header().Set(headerContentType, contentTypeJSON)
			_, _ = io.WriteString(w, body)
		}
	}
	marine := httptest.NewServer(handler(`{"current":{"wave_height":1}}`))
	defer marine.Close()
	weather := httptest.NewServer(handler(`{"current":{"wind_speed_10m":5}}`))
	defer weather.Close()

	_, err := testClient(marine.URL, weather.URL).Current(context.Background(), testSpot)
	require.NoError(t, err)
	assert.Equal(t, int32(2), peak.Load())
}

func TestClient_Current_PartialFailure(t *testing.T) {
	t.Run("marine down", func(t *testing.T) {
		marine := failingServer(t, http.StatusBadGateway)
		weather := jsonServer(t, `{"current":{"wind_speed_10m":12,"wind_gusts_10m":20}}`, nil)

		r, err := testClient(marine.URL, weather.URL).Current(context.Background(), testSpot)
		require.NoError(t, err)
		assert.Nil(t, r.WaveHeightM)
		assert.Nil(t, r.WavePeriodS)
		assert.Equal(t, 12.0, *r.WindSpeedKmh)
	})

	t.Run("weather down", func(t *testing.T) {
		marine := jsonServer(t, `{"current":{"wave_height":0.8,"wave_period":9}}`, nil)
		weather := failingServer(t, http.StatusInternalServerError)

		r, err := testClient(marine.URL, weather.URL).Current(context.Background(), testSpot)
		require.NoError(t, err)
		assert.Equal(t, 0.8, *r.WaveHeightM)
		assert.Nil(t, r.WindSpeedKmh)
		assert.Nil(t, r.WindGustKmh)
		assert.False(t, r.Complete())
	})

	t.Run("both down", func(t *testing.T) {
		marine := failingServer(t, http.StatusBadGateway)
		weather := failingServer(t, http.StatusServiceUnavailable)

		c := testClient(marine.URL, weather.URL)
		_, err := c.Current(context.Background(), testSpot)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "la-torche")
		assert.Contains(t, err.Error(), "status 502")
		assert.Contains(t, err.Error(), "status 503")
		assert.InDelta(t, 1.0, testutil.ToFloat64(c.metrics.UpstreamRequests.WithLabelValues(sourceMarine, "error")), 0)
	})
}

func TestClient_Current_NullValues(t *testing.T) {
	marine := jsonServer(t, `{"current":{"wave_height":null,"wave_period":10}}`, nil)
	weather := jsonServer(t, `{"current":{"wind_speed_10m":7}}`, nil)

	r, err := testClient(marine.URL, weather.URL).Current(context.Background(), testSpot)
	require.NoError(t, err)
	assert.Nil(t, r.WaveHeightM)
	assert.Equal(t, 10.0, *r.WavePeriodS)
	assert.Nil(t, r.WindGustKmh)
}

func TestClient_Current_InvalidJSON(t *testing.T) {
	marine := jsonServer(t, `{not json`, nil)
	weather := jsonServer(t, `[]`, nil)

	_, err := testClient(marine.URL, weather.URL).Current(context.Background(), testSpot)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestClient_Current_Timeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	c := NewClient(Options{MarineURL: slow.URL, WeatherURL: slow.URL, Timezone: "UTC", Timeout: 50 * time.Millisecond},
		observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	start := time.Now()
	_, err := c.Current(context.Background(), testSpot)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestClient_Daily_Success(t *testing.T) {
	marine := jsonServer(t, `{"daily":{
		"time":["2025-06-14","2025-06-15","2025-06-16"],
		"wave_height_max":[1.2,2.0,null],
		"wave_period_max":[12,9.5,8]}}`, func(r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "wave_height_max,wave_period_max", q.Get("daily"))
		assert.Equal(t, "3", q.Get("forecast_days"))
	})
	weather := jsonServer(t, `{"daily":{
		"time":["2025-06-14","2025-06-15","2025-06-16"],
		"wind_speed_10m_max":[8,25,40],
		"wind_gusts_10m_max":[15,38,62]}}`, func(r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "wind_speed_10m_max,wind_gusts_10m_max", q.Get("daily"))
		assert.Equal(t, "kmh", q.Get("wind_speed_unit"))
	})

	days, err := testClient(marine.URL, weather.URL).Daily(context.Background(), testSpot, 3)
	require.NoError(t, err)
	require.Len(t, days, 3)

	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 6, 14, 0, 0, 0, 0, paris).Equal(days[0].Date), "midnight in the configured timezone")
	assert.True(t, days[0].Date.Before(days[1].Date))
	assert.Equal(t, 1.2, *days[0].Reading.WaveHeightM)
	assert.Equal(t, 15.0, *days[0].Reading.WindGustKmh)
	assert.Nil(t, days[2].Reading.WaveHeightM)
	assert.Equal(t, 62.0, *days[2].Reading.WindGustKmh)
}

func TestClient_Daily_AlignsByDate(t *testing.T) {
	marine := jsonServer(t, `{"daily":{"time":["2025-06-14","2025-06-15"],"wave_height_max":[1,1.5],"wave_period_max":[10,11]}}`, nil)
	weather := jsonServer(t, `{"daily":{"time":["2025-06-15"],"wind_speed_10m_max":[12],"wind_gusts_10m_max":[20]}}`, nil)

	days, err := testClient(marine.URL, weather.URL).Daily(context.Background(), testSpot, 2)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Nil(t, days[0].Reading.WindSpeedKmh)
	assert.Equal(t, 12.0, *days[1].Reading.WindSpeedKmh)
	assert.Equal(t, 1.5, *days[1].Reading.WaveHeightM)
}

func TestClient_Daily_MarineDown(t *testing.T) {
	marine := failingServer(t, http.StatusBadGateway)
	weather := jsonServer(t, `{"daily":{"time":["2025-06-14","2025-06-15"],"wind_speed_10m_max":[8,9],"wind_gusts_10m_max":[10,11]}}`, nil)

	days, err := testClient(marine.URL, weather.URL).Daily(context.Background(), testSpot, 2)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Nil(t, days[1].Reading.WaveHeightM)
	assert.Equal(t, 9.0, *days[1].Reading.WindSpeedKmh)
}

func TestClient_Daily_TruncatesToRequestedDays(t *testing.T) {
	marine := jsonServer(t, `{"daily":{"time":["2025-06-14","2025-06-15","2025-06-16"],"wave_height_max":[1,1,1],"wave_period_max":[9,9,9]}}`, nil)
	weather := jsonServer(t, `{"daily":{"time":[]}}`, nil)

	days, err := testClient(marine.URL, weather.URL).Daily(context.Background(), testSpot, 2)
	require.NoError(t, err)
	assert.Len(t, days, 2)
}

func TestClient_Daily_InvalidDays(t *testing.T) {
	c := testClient("http://unused", "http://unused")
	for _, n := range []int{0, -1, MaxForecastDays + 1} {
		_, err := c.Daily(context.Background(), testSpot, n)
		assert.Error(t, err, "days=%d", n)
	}
}

func TestClient_Daily_BadDate(t *testing.T) {
	marine := jsonServer(t, `{"daily":{"time":["14/06/2025"],"wave_height_max":[1],"wave_period_max":[9]}}`, nil)
	weather := jsonServer(t, `{"daily":{"time":[]}}`, nil)

	_, err := testClient(marine.URL, weather.URL).Daily(context.Background(), testSpot, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse forecast date")
}
