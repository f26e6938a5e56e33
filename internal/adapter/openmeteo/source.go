package openmeteo

import (
	"log/slog"
	"time"

	"github.com/couchcryptid/sprite-forecast-service/internal/domain"
	"github.com/couchcryptid/sprite-forecast-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// SourceConfig configures the assembled weather source.
type SourceConfig struct {
	BaseURL   string
	Timeout   time.Duration
	CacheSize int
	RateLimit float64 // requests per second; <= 0 disables limiting
	Burst     int
}

// NewSource assembles the production chain: an LRU cache in front of the rate
// limiter in front of the HTTP client.
func NewSource(cfg SourceConfig, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) domain.WeatherSource {
	var src domain.WeatherSource = NewClient(cfg.BaseURL, cfg.Timeout, metrics, logger)
	if cfg.RateLimit > 0 {
		src = NewRateLimitedSource(src, cfg.RateLimit, cfg.Burst)
	}
	return NewCachedSource(src, cfg.CacheSize, clock, metrics)
}

var (
	_ domain.WeatherSource = (*Client)(nil)
	_ domain.WeatherSource = (*CachedSource)(nil)
	_ domain.WeatherSource = (*RateLimitedSource)(nil)
)
