package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelkurin/multitool/pkg/toolbox"
)

const geocodeBody = `{"results":[
	{"name":"Berlin","country":"Germany","latitude":52.52,"longitude":13.41}
]}`

const forecastBody = `{
	"current":{"temperature_2m":18.4,"wind_speed_10m":11.2,"weather_code":2},
	"daily":{
		"time":["2026-08-31","2026-09-01"],
		"temperature_2m_max":[21.0,24.5],
		"temperature_2m_min":[12.3,14.1],
		"weather_code":[2,61]
	}
}`

func callWeather(t *testing.T, c *Client, args map[string]any) toolbox.Result {
	t.Helper()

	reg := toolbox.NewRegistry()
	require.NoError(t, reg.Register(c.Tools()...))

	return toolbox.NewDispatcher(reg).Dispatch(context.Background(), toolbox.Request{Tool: "weather", Args: args})
}

func TestWeatherReport(t *testing.T) {
	geocode := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Berlin", r.URL.Query().Get("name"))
		_, _ = w.Write([]byte(geocodeBody))
	}))
	defer geocode.Close()

	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "52.52", r.URL.Query().Get("latitude"))
		assert.Equal(t, "13.41", r.URL.Query().Get("longitude"))
		_, _ = w.Write([]byte(forecastBody))
	}))
	defer forecast.Close()

	res := callWeather(t, New(geocode.URL, forecast.URL), map[string]any{"location": "Berlin"})

	require.Equal(t, toolbox.StatusOK, res.Status)
	report := res.Payload.(Report)
	assert.Equal(t, "Berlin", report.Location)
	assert.Equal(t, "Germany", report.Country)
	assert.InDelta(t, 18.4, report.TemperatureC, 0.001)
	assert.InDelta(t, 11.2, report.WindSpeedKmh, 0.001)
	assert.Equal(t, "partly cloudy", report.Conditions)

	require.NotNil(t, report.Tomorrow)
	assert.Equal(t, "2026-09-01", report.Tomorrow.Date)
	assert.InDelta(t, 14.1, report.Tomorrow.MinC, 0.001)
	assert.InDelta(t, 24.5, report.Tomorrow.MaxC, 0.001)
	assert.Equal(t, "slight rain", report.Tomorrow.Conditions)
}

func TestWeatherLocationNotFound(t *testing.T) {
	geocode := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer geocode.Close()

	var forecastCalls atomic.Int32
	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		forecastCalls.Add(1)
		_, _ = w.Write([]byte(forecastBody))
	}))
	defer forecast.Close()

	res := callWeather(t, New(geocode.URL, forecast.URL), map[string]any{"location": "Nonexistent Place"})

	assert.Equal(t, toolbox.StatusExecutionError, res.Status)
	assert.Contains(t, res.Err, "not found")
	assert.Nil(t, res.Payload)
	// The forecast provider must not be contacted with invalid coordinates.
	assert.Zero(t, forecastCalls.Load())
}

func TestWeatherNoTomorrowData(t *testing.T) {
	geocode := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(geocodeBody))
	}))
	defer geocode.Close()

	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"current":{"temperature_2m":5.0,"wind_speed_10m":3.0,"weather_code":0},
			"daily":{"time":["2026-08-31"],"temperature_2m_max":[8.0],"temperature_2m_min":[1.0],"weather_code":[0]}
		}`))
	}))
	defer forecast.Close()

	res := callWeather(t, New(geocode.URL, forecast.URL), map[string]any{"location": "Berlin"})

	require.Equal(t, toolbox.StatusOK, res.Status)
	report := res.Payload.(Report)
	assert.Equal(t, "clear sky", report.Conditions)
	assert.Nil(t, report.Tomorrow)
}

func TestWeatherGeocodeFailure(t *testing.T) {
	geocode := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer geocode.Close()

	res := callWeather(t, New(geocode.URL, "http://127.0.0.1:0"), map[string]any{"location": "Berlin"})

	assert.Equal(t, toolbox.StatusExecutionError, res.Status)
	assert.Contains(t, res.Err, "geocode")
}

func TestWeatherMissingLocation(t *testing.T) {
	res := callWeather(t, New("http://127.0.0.1:0", "http://127.0.0.1:0"), nil)

	assert.Equal(t, toolbox.StatusValidationError, res.Status)
	assert.Contains(t, res.Err, "location")
}

func TestDescribeUnknownCode(t *testing.T) {
	assert.Equal(t, "unknown", describe(1234))
}
