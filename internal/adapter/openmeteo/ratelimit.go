package openmeteo

import (
	"context"
	"fmt"

	"github.com/couchcryptid/sprite-forecast-service/internal/domain"
	"golang.org/x/time/rate"
)

// RateLimitedSource wraps a WeatherSource with a token bucket so bursts of
// auto-conditions requests stay within the provider's fair-use limits.
type RateLimitedSource struct {
	inner   domain.WeatherSource
	limiter *rate.Limiter
}

// NewRateLimitedSource allows rps requests per second with the given burst.
func NewRateLimitedSource(inner domain.WeatherSource, rps float64, burst int) *RateLimitedSource {
	return &RateLimitedSource{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimitedSource) FetchHourly(ctx context.Context, lat, lon float64) (domain.HourlySeries, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return domain.HourlySeries{}, fmt.Errorf("%w: rate limit wait canceled: %w", domain.ErrFetchFailed, err)
	}
	return r.inner.FetchHourly(ctx, lat, lon)
}
