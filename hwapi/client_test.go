package hwapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSerialNumber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/solar-tracker/validate/SN-1", r.URL.Path)
		json.NewEncoder(w).Encode(ValidateResult{IsValid: true, Capacity: 3.5})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.ValidateSerialNumber(context.Background(), KindSolarTracker, "SN-1")
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Equal(t, 3.5, result.Capacity)
}

func TestValidateSerialNumberInvalid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ValidateResult{IsValid: false})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.ValidateSerialNumber(context.Background(), KindWeatherStation, "WS-9")
	require.NoError(t, err)
	assert.False(t, result.IsValid)
}

func TestGetSolarTrackersInsights(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/solar-tracker/insights", r.URL.Path)

		var req struct {
			SerialNumbers []string `json:"serialNumbers"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"SN-1", "SN-2"}, req.SerialNumbers)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]SolarTrackerInsights{
				"SN-1": {IsActive: true, Capacity: 2.0},
				"SN-2": {IsActive: false, Capacity: 4.5},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	insights, err := client.GetSolarTrackersInsights(context.Background(), []string{"SN-1", "SN-2"})
	require.NoError(t, err)
	require.Len(t, insights, 2)
	assert.True(t, insights["SN-1"].IsActive)
	assert.Equal(t, 4.5, insights["SN-2"].Capacity)
}

func TestGetWeatherStationInsights(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather-station/insights/WS-1", r.URL.Path)
		json.NewEncoder(w).Encode(WeatherStationInsights{IsActive: true, CurrentTemperature: 21.5})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	insights, err := client.GetWeatherStationInsights(context.Background(), "WS-1")
	require.NoError(t, err)
	assert.True(t, insights.IsActive)
	assert.Equal(t, 21.5, insights.CurrentTemperature)
}

func TestNon200IsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.ValidateSerialNumber(context.Background(), KindSolarTracker, "SN-1")
	require.Error(t, err)

	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestUnreachableHostIsTransportError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")

	_, err := client.GetWeatherStationInsights(context.Background(), "WS-1")
	require.Error(t, err)

	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
}
