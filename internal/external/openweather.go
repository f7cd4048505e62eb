package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"freezewatch/internal/types"
)

// onecallPath is the OpenWeather One Call 3.0 endpoint path.
const onecallPath = "/data/3.0/onecall"

// OpenWeatherConfig holds the configuration for creating an OpenWeatherClient.
type OpenWeatherConfig struct {
	// BaseURL of the provider, e.g. https://api.openweathermap.org.
	BaseURL string
	// APIKey is the OpenWeather appid. Never logged.
	APIKey types.SecretString
	// Logger for fetch operations.
	Logger *slog.Logger
}

// OpenWeatherClient fetches hourly + daily forecasts from the OpenWeather One
// Call 3.0 API and normalizes them into the domain ForecastSnapshot. Requests
// use imperial units so temperatures arrive in °F.
type OpenWeatherClient struct {
	base    *BaseClient
	baseURL string
	apiKey  types.SecretString
	logger  *slog.Logger
}

// NewOpenWeatherClient creates an OpenWeatherClient routed through the given
// BaseClient.
func NewOpenWeatherClient(base *BaseClient, cfg OpenWeatherConfig) *OpenWeatherClient {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &OpenWeatherClient{
		base:    base,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

// onecallResponse mirrors the subset of the One Call 3.0 payload we consume.
type onecallResponse struct {
	Hourly []onecallHour `json:"hourly"`
	Daily  []onecallDay  `json:"daily"`
}

type onecallHour struct {
	Dt   int64    `json:"dt"`
	Temp *float64 `json:"temp"`
}

type onecallDay struct {
	Dt   int64        `json:"dt"`
	Temp *onecallTemp `json:"temp"`
}

type onecallTemp struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// Fetch retrieves the forecast for the coordinate. Hours without a reported
// temperature and days without a reported minimum are dropped during
// normalization; a response with no usable samples yields an empty snapshot,
// which is a valid input for the evaluator, not an error here.
func (c *OpenWeatherClient) Fetch(ctx context.Context, lat, lon float64) (types.ForecastSnapshot, error) {
	reqURL, err := c.buildURL(lat, lon)
	if err != nil {
		return types.ForecastSnapshot{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.ForecastSnapshot{}, types.NewAppError(
			types.ErrCodeInternal,
			"failed to build weather provider request",
			err,
		)
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return types.ForecastSnapshot{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return types.ForecastSnapshot{}, types.NewAppError(
			types.ErrCodeUpstreamWeather,
			fmt.Sprintf("weather provider returned %d: %s", resp.StatusCode, string(body)),
			nil,
		)
	}

	var payload onecallResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return types.ForecastSnapshot{}, types.NewAppError(
			types.ErrCodeUpstreamWeather,
			"failed to decode weather provider response",
			err,
		)
	}

	snapshot := normalizeSnapshot(payload)

	c.logger.InfoContext(ctx, "forecast fetched",
		"hourly_samples", len(snapshot.Hourly),
		"daily_samples", len(snapshot.Daily),
	)

	return snapshot, nil
}

// buildURL assembles the One Call request URL. The API key is added here and
// must never appear in logs.
func (c *OpenWeatherClient) buildURL(lat, lon float64) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", types.NewAppError(
			types.ErrCodeConfig,
			fmt.Sprintf("invalid weather provider base URL %q", c.baseURL),
			err,
		)
	}
	u.Path = onecallPath

	q := u.Query()
	q.Set("lat", strconv64(lat))
	q.Set("lon", strconv64(lon))
	q.Set("exclude", "minutely,alerts,current")
	q.Set("units", "imperial")
	q.Set("appid", c.apiKey.Unmask())
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// strconv64 formats a coordinate without trailing zeros.
func strconv64(f float64) string {
	return fmt.Sprintf("%g", f)
}

// normalizeSnapshot converts the provider payload into domain samples,
// dropping entries with missing temperatures.
func normalizeSnapshot(payload onecallResponse) types.ForecastSnapshot {
	var snapshot types.ForecastSnapshot

	for _, h := range payload.Hourly {
		if h.Temp == nil {
			continue
		}
		snapshot.Hourly = append(snapshot.Hourly, types.HourlySample{
			Time:  time.Unix(h.Dt, 0).UTC(),
			TempF: *h.Temp,
		})
	}

	for _, d := range payload.Daily {
		if d.Temp == nil || d.Temp.Min == nil {
			continue
		}
		sample := types.DailySample{
			Date:     time.Unix(d.Dt, 0).UTC(),
			MinTempF: *d.Temp.Min,
		}
		if d.Temp.Max != nil {
			sample.MaxTempF = *d.Temp.Max
		}
		snapshot.Daily = append(snapshot.Daily, sample)
	}

	return snapshot
}
