// Package openmeteo implements the forecast provider interface against the
// Open-Meteo forecast API. Open-Meteo requires no API key and returns daily
// aggregates directly in the units the optimizer expects.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripcast/tripcast/internal/forecast"
	"github.com/tripcast/tripcast/internal/provider/resilience"
)

const (
	// ProviderName identifies this forecast provider.
	ProviderName = "openmeteo"

	// DefaultBaseURL is the Open-Meteo forecast API base URL.
	DefaultBaseURL = "https://api.open-meteo.com/v1"

	// dailyFields are the daily aggregates requested from the API.
	dailyFields = "temperature_2m_max,temperature_2m_min,precipitation_probability_max,wind_speed_10m_max"
)

// ClientConfig holds configuration for the Open-Meteo client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional, defaults to the public API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an Open-Meteo API client.
type Client struct {
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new Open-Meteo client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig("openmeteo"))
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetDailyForecast fetches a daily forecast for a location.
func (c *Client) GetDailyForecast(ctx context.Context, lat, lon float64, days int) (*forecast.DailyForecast, error) {
	url := fmt.Sprintf("%s/forecast?latitude=%.6f&longitude=%.6f&daily=%s&forecast_days=%d&timezone=auto",
		c.baseURL, lat, lon, dailyFields, days)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var omResp forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&omResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return c.toDailyForecast(&omResp)
}

// toDailyForecast converts an Open-Meteo response to the domain model.
// The daily arrays are positional; a ragged response is a provider bug and
// is rejected rather than silently truncated.
func (c *Client) toDailyForecast(resp *forecastResponse) (*forecast.DailyForecast, error) {
	n := len(resp.Daily.Time)
	if len(resp.Daily.TempMax) != n || len(resp.Daily.TempMin) != n ||
		len(resp.Daily.PrecipProbMax) != n || len(resp.Daily.WindSpeedMax) != n {
		return nil, fmt.Errorf("ragged daily arrays in response (time=%d tmax=%d tmin=%d precip=%d wind=%d)",
			n, len(resp.Daily.TempMax), len(resp.Daily.TempMin),
			len(resp.Daily.PrecipProbMax), len(resp.Daily.WindSpeedMax))
	}

	result := &forecast.DailyForecast{
		Lat:       resp.Latitude,
		Lon:       resp.Longitude,
		Days:      make([]forecast.DayForecast, 0, n),
		FetchedAt: time.Now(),
	}

	for i := 0; i < n; i++ {
		date, err := time.Parse("2006-01-02", resp.Daily.Time[i])
		if err != nil {
			return nil, fmt.Errorf("parsing daily date %q: %w", resp.Daily.Time[i], err)
		}

		result.Days = append(result.Days, forecast.DayForecast{
			Date:                        date,
			TempMinC:                    resp.Daily.TempMin[i],
			TempMaxC:                    resp.Daily.TempMax[i],
			PrecipitationProbabilityPct: resp.Daily.PrecipProbMax[i],
			WindSpeedKph:                resp.Daily.WindSpeedMax[i],
		})
	}

	return result, nil
}

// Open-Meteo API response structures.

type forecastResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Daily     struct {
		Time          []string  `json:"time"`
		TempMax       []float64 `json:"temperature_2m_max"`
		TempMin       []float64 `json:"temperature_2m_min"`
		PrecipProbMax []int     `json:"precipitation_probability_max"`
		WindSpeedMax  []float64 `json:"wind_speed_10m_max"`
	} `json:"daily"`
}
