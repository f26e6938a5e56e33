// Package openmeteo fetches hourly cloud cover and visibility from the
// Open-Meteo forecast API.
package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/sprite-forecast-service/internal/domain"
	"github.com/couchcryptid/sprite-forecast-service/internal/observability"
	"github.com/sony/gobreaker/v2"
)

// DefaultBaseURL is the public Open-Meteo API host.
const DefaultBaseURL = "https://api.open-meteo.com"

// Client implements domain.WeatherSource using the Open-Meteo forecast API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[domain.HourlySeries]
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo client. Consecutive transport or upstream
// failures open a circuit breaker that fails fast for 30 seconds.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    newBreaker(logger),
		metrics:    metrics,
		logger:     logger,
	}
}

func newBreaker(logger *slog.Logger) *gobreaker.CircuitBreaker[domain.HourlySeries] {
	return gobreaker.NewCircuitBreaker[domain.HourlySeries](gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Only provider outages count against the breaker; a malformed
		// payload says nothing about availability.
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, domain.ErrFetchFailed)
		},
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

// FetchHourly requests yesterday's and today's hourly block for a location.
// Transport failures and non-200 responses wrap domain.ErrFetchFailed; an
// undecodable body or one without hourly timestamps wraps
// domain.ErrDataUnavailable.
func (c *Client) FetchHourly(ctx context.Context, lat, lon float64) (domain.HourlySeries, error) {
	start := time.Now()
	series, err := c.breaker.Execute(func() (domain.HourlySeries, error) {
		return c.fetch(ctx, lat, lon)
	})
	c.metrics.WeatherAPIDuration.Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		c.metrics.WeatherRequests.WithLabelValues("rejected").Inc()
		return domain.HourlySeries{}, fmt.Errorf("%w: open-meteo unavailable: %w", domain.ErrFetchFailed, err)
	case err != nil:
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		c.logger.Warn("open-meteo request failed", "latitude", lat, "longitude", lon, "error", err)
		return domain.HourlySeries{}, err
	}
	c.metrics.WeatherRequests.WithLabelValues("success").Inc()
	return series, nil
}

func (c *Client) fetch(ctx context.Context, lat, lon float64) (domain.HourlySeries, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.forecastURL(lat, lon), nil)
	if err != nil {
		return domain.HourlySeries{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.HourlySeries{}, fmt.Errorf("%w: forecast request: %w", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.HourlySeries{}, fmt.Errorf("%w: open-meteo API error: status %d: %s", domain.ErrFetchFailed, resp.StatusCode, body)
	}

	var fr forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return domain.HourlySeries{}, fmt.Errorf("%w: decode response: %w", domain.ErrDataUnavailable, err)
	}
	if fr.Hourly == nil || fr.Hourly.Time == nil {
		return domain.HourlySeries{}, fmt.Errorf("%w: response has no hourly time series", domain.ErrDataUnavailable)
	}

	return domain.HourlySeries{
		Timestamps:       fr.Hourly.Time,
		CloudCover:       values(fr.Hourly.CloudCover),
		Visibility:       values(fr.Hourly.Visibility),
		Timezone:         fr.Timezone,
		UTCOffsetSeconds: fr.UTCOffsetSeconds,
	}, nil
}

func (c *Client) forecastURL(lat, lon float64) string {
	params := url.Values{
		"latitude":      {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude":     {strconv.FormatFloat(lon, 'f', -1, 64)},
		"hourly":        {"cloudcover,visibility"},
		"past_days":     {"1"},
		"forecast_days": {"1"},
		"timezone":      {"auto"},
	}
	return c.baseURL + "/v1/forecast?" + params.Encode()
}

// values converts a nullable JSON array, mapping nulls to NaN.
func values(in []*float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *v
	}
	return out
}

// Open-Meteo API response types.

type forecastResponse struct {
	Timezone         string        `json:"timezone"`
	UTCOffsetSeconds int           `json:"utc_offset_seconds"`
	Hourly           *hourlyValues `json:"hourly"`
}

type hourlyValues struct {
	Time       []string   `json:"time"`
	CloudCover []*float64 `json:"cloudcover"`
	Visibility []*float64 `json:"visibility"`
}
