package openmeteo_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripcast/tripcast/internal/forecast/openmeteo"
	"github.com/tripcast/tripcast/internal/provider/resilience"
)

func TestClient_GetDailyForecast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("latitude"), "52.370")
		assert.Contains(t, r.URL.Query().Get("longitude"), "4.895")
		assert.Contains(t, r.URL.Query().Get("daily"), "precipitation_probability_max")
		assert.Equal(t, "3", r.URL.Query().Get("forecast_days"))

		response := map[string]interface{}{
			"latitude":  52.370,
			"longitude": 4.895,
			"daily": map[string]interface{}{
				"time":                          []string{"2026-09-01", "2026-09-02", "2026-09-03"},
				"temperature_2m_max":            []float64{22.5, 31.0, 19.0},
				"temperature_2m_min":            []float64{14.0, 18.5, 11.0},
				"precipitation_probability_max": []int{15, 80, 45},
				"wind_speed_10m_max":            []float64{18.0, 25.5, 52.0},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := openmeteo.NewClient(openmeteo.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: resilience.NewClient(resilience.DefaultClientConfig("test")),
	})

	result, err := client.GetDailyForecast(context.Background(), 52.370, 4.895, 3)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 52.370, result.Lat)
	assert.Equal(t, 4.895, result.Lon)
	require.Len(t, result.Days, 3)

	d2 := result.Days[1]
	assert.Equal(t, "2026-09-02", d2.Date.Format("2006-01-02"))
	assert.Equal(t, 31.0, d2.TempMaxC)
	assert.Equal(t, 18.5, d2.TempMinC)
	assert.Equal(t, 80, d2.PrecipitationProbabilityPct)
	assert.Equal(t, 25.5, d2.WindSpeedKph)
}

func TestClient_GetDailyForecast_RaggedArrays(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response := map[string]interface{}{
			"latitude":  52.0,
			"longitude": 4.0,
			"daily": map[string]interface{}{
				"time":                          []string{"2026-09-01", "2026-09-02"},
				"temperature_2m_max":            []float64{22.5},
				"temperature_2m_min":            []float64{14.0, 12.0},
				"precipitation_probability_max": []int{15, 20},
				"wind_speed_10m_max":            []float64{18.0, 19.0},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := openmeteo.NewClient(openmeteo.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: resilience.NewClient(resilience.DefaultClientConfig("test")),
	})

	_, err := client.GetDailyForecast(context.Background(), 52.0, 4.0, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ragged")
}

func TestClient_GetDailyForecast_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	// Use a client with minimal retries for faster tests
	cfg := resilience.DefaultClientConfig("test")
	cfg.MaxRetries = 0

	client := openmeteo.NewClient(openmeteo.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: resilience.NewClient(cfg),
	})

	_, err := client.GetDailyForecast(context.Background(), 52.0, 4.0, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestClient_GetDailyForecast_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := openmeteo.NewClient(openmeteo.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: resilience.NewClient(resilience.DefaultClientConfig("test")),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetDailyForecast(ctx, 52.0, 4.0, 3)
	require.Error(t, err)
}

func TestClient_Name(t *testing.T) {
	client := openmeteo.NewClient(openmeteo.ClientConfig{})
	assert.Equal(t, "openmeteo", client.Name())
}
