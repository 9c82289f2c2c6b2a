package hwapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// TransportError wraps failures to reach the hardware telemetry API.
// It is a distinct class from a negative validation: callers map it to
// a dependency-unavailable response rather than a client error.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("hardware API unavailable (%s): %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Gateway is the hardware telemetry API surface consumed by services.
// Validation calls are idempotent reads with no side effects.
type Gateway interface {
	ValidateSerialNumber(ctx context.Context, kind DeviceKind, serialNumber string) (*ValidateResult, error)
	GetSolarTrackersInsights(ctx context.Context, serialNumbers []string) (map[string]SolarTrackerInsights, error)
	GetWeatherStationInsights(ctx context.Context, serialNumber string) (*WeatherStationInsights, error)
}

// Client is the HTTP implementation of Gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Gateway against the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ValidateSerialNumber asks the hardware API whether the serial number
// identifies a real device. GET {base}/{kind}/validate/{serial}.
func (c *Client) ValidateSerialNumber(ctx context.Context, kind DeviceKind, serialNumber string) (*ValidateResult, error) {
	url := fmt.Sprintf("%s/%s/validate/%s", c.baseURL, kind, serialNumber)

	var result ValidateResult
	if err := c.getJSON(ctx, url, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetSolarTrackersInsights fetches telemetry for a batch of trackers,
// keyed by serial number. POST {base}/solar-tracker/insights.
func (c *Client) GetSolarTrackersInsights(ctx context.Context, serialNumbers []string) (map[string]SolarTrackerInsights, error) {
	url := fmt.Sprintf("%s/%s/insights", c.baseURL, KindSolarTracker)

	payload, err := json.Marshal(map[string][]string{"serialNumbers": serialNumbers})
	if err != nil {
		return nil, fmt.Errorf("encoding insights request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building insights request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "solar tracker insights", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Op: "solar tracker insights", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var body struct {
		Data map[string]SolarTrackerInsights `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding insights response failed: %w", err)
	}
	return body.Data, nil
}

// GetWeatherStationInsights fetches telemetry for a weather station.
// GET {base}/weather-station/insights/{serial}.
func (c *Client) GetWeatherStationInsights(ctx context.Context, serialNumber string) (*WeatherStationInsights, error) {
	url := fmt.Sprintf("%s/%s/insights/%s", c.baseURL, KindWeatherStation, serialNumber)

	var insights WeatherStationInsights
	if err := c.getJSON(ctx, url, &insights); err != nil {
		return nil, err
	}
	return &insights, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &TransportError{Op: url, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response failed: %w", err)
	}
	return nil
}
