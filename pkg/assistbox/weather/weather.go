// Package weather provides the weather tool. A location name is geocoded to
// coordinates first, then a forecast is fetched for those coordinates. The
// wire shapes follow the Open-Meteo geocoding and forecast APIs, but any
// provider speaking the same shape works.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pavelkurin/multitool/pkg/toolbox"
)

// Report is the payload returned by the weather tool.
type Report struct {
	Location     string       `json:"location"`
	Country      string       `json:"country,omitempty"`
	TemperatureC float64      `json:"temperature_c"`
	WindSpeedKmh float64      `json:"wind_speed_kmh"`
	Conditions   string       `json:"conditions"`
	Tomorrow     *DayForecast `json:"tomorrow,omitempty"`
}

// DayForecast summarizes one daily forecast entry.
type DayForecast struct {
	Date       string  `json:"date"`
	MinC       float64 `json:"min_c"`
	MaxC       float64 `json:"max_c"`
	Conditions string  `json:"conditions"`
}

type geocodeResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Country   string  `json:"country"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

type forecastResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		WindSpeed   float64 `json:"wind_speed_10m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
	Daily struct {
		Time        []string  `json:"time"`
		TempMax     []float64 `json:"temperature_2m_max"`
		TempMin     []float64 `json:"temperature_2m_min"`
		WeatherCode []int     `json:"weather_code"`
	} `json:"daily"`
}

// conditions maps WMO weather interpretation codes to short descriptions.
var conditions = map[int]string{
	0:  "clear sky",
	1:  "mainly clear",
	2:  "partly cloudy",
	3:  "overcast",
	45: "fog",
	48: "depositing rime fog",
	51: "light drizzle",
	53: "moderate drizzle",
	55: "dense drizzle",
	61: "slight rain",
	63: "moderate rain",
	65: "heavy rain",
	66: "freezing rain",
	71: "slight snow",
	73: "moderate snow",
	75: "heavy snow",
	77: "snow grains",
	80: "slight showers",
	81: "moderate showers",
	82: "violent showers",
	85: "slight snow showers",
	86: "heavy snow showers",
	95: "thunderstorm",
	96: "thunderstorm with hail",
	99: "heavy thunderstorm with hail",
}

func describe(code int) string {
	if c, ok := conditions[code]; ok {
		return c
	}

	return "unknown"
}

// Client resolves locations and fetches forecasts.
type Client struct {
	geocodeURL  string
	forecastURL string
	http        *http.Client
}

// New creates a Client for the given geocoding and forecast endpoints.
func New(geocodeURL, forecastURL string) *Client {
	return &Client{
		geocodeURL:  geocodeURL,
		forecastURL: forecastURL,
		http:        &http.Client{Timeout: 15 * time.Second},
	}
}

// Tools returns the weather tool.
func (c *Client) Tools() []toolbox.Tool {
	return []toolbox.Tool{
		{
			Spec: toolbox.Spec{
				Name:        "weather",
				Description: "Get current weather and tomorrow's forecast for a place. The place name is geocoded first; an unknown place is an error.",
				Params: []toolbox.Param{
					{Name: "location", Type: toolbox.TypeString, Required: true, Description: "Place name, e.g. \"Berlin\" or \"Osaka, Japan\""},
				},
			},
			Handler: c.handleWeather,
		},
	}
}

func (c *Client) handleWeather(ctx context.Context, args toolbox.Args) (any, error) {
	location := args.String("location")

	lat, lon, name, country, err := c.geocode(ctx, location)
	if err != nil {
		return nil, err
	}

	fc, err := c.forecast(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	report := Report{
		Location:     name,
		Country:      country,
		TemperatureC: fc.Current.Temperature,
		WindSpeedKmh: fc.Current.WindSpeed,
		Conditions:   describe(fc.Current.WeatherCode),
	}

	// Daily arrays hold today at index 0 and tomorrow at index 1.
	if len(fc.Daily.Time) > 1 && len(fc.Daily.TempMax) > 1 && len(fc.Daily.TempMin) > 1 {
		tomorrow := &DayForecast{
			Date: fc.Daily.Time[1],
			MinC: fc.Daily.TempMin[1],
			MaxC: fc.Daily.TempMax[1],
		}
		if len(fc.Daily.WeatherCode) > 1 {
			tomorrow.Conditions = describe(fc.Daily.WeatherCode[1])
		}
		report.Tomorrow = tomorrow
	}

	return report, nil
}

// geocode resolves a place name to coordinates. An empty result set means the
// place does not exist as far as the provider knows; the forecast call is not
// attempted in that case.
func (c *Client) geocode(ctx context.Context, location string) (lat, lon float64, name, country string, err error) {
	q := url.Values{}
	q.Set("name", location)
	q.Set("count", "1")
	q.Set("language", "en")
	q.Set("format", "json")

	var body geocodeResponse
	if err := c.getJSON(ctx, c.geocodeURL+"?"+q.Encode(), &body); err != nil {
		return 0, 0, "", "", fmt.Errorf("weather: geocode: %w", err)
	}

	if len(body.Results) == 0 {
		return 0, 0, "", "", fmt.Errorf("weather: location %q not found", location)
	}

	r := body.Results[0]

	return r.Latitude, r.Longitude, r.Name, r.Country, nil
}

func (c *Client) forecast(ctx context.Context, lat, lon float64) (*forecastResponse, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("current", "temperature_2m,wind_speed_10m,weather_code")
	q.Set("daily", "temperature_2m_max,temperature_2m_min,weather_code")
	q.Set("timezone", "auto")
	q.Set("forecast_days", "2")

	var body forecastResponse
	if err := c.getJSON(ctx, c.forecastURL+"?"+q.Encode(), &body); err != nil {
		return nil, fmt.Errorf("weather: forecast: %w", err)
	}

	return &body, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close on read

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
