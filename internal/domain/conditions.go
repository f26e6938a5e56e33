package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// WeatherSource fetches the hourly cloud cover / visibility block covering
// yesterday through today for a location, in the provider's local timezone.
type WeatherSource interface {
	FetchHourly(ctx context.Context, lat, lon float64) (HourlySeries, error)
}

// TargetHour returns today's date in loc at the given hour, minutes zeroed.
func TargetHour(now time.Time, loc *time.Location, hour int) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, loc)
}

// ResolveConditions looks up cloud cover and visibility for today's hour at a
// location and estimates moon brightness for the same moment. Errors carry
// ErrFetchFailed, ErrDataUnavailable or ErrExtractionFailed; there is no
// partial result.
func ResolveConditions(ctx context.Context, src WeatherSource, lat, lon float64, hour int, logger *slog.Logger) (Conditions, error) {
	series, err := src.FetchHourly(ctx, lat, lon)
	if err != nil {
		if !isCollaboratorError(err) {
			err = fmt.Errorf("%w: %w", ErrFetchFailed, err)
		}
		return Conditions{}, err
	}

	target := TargetHour(clock.Now(), series.Location(), hour)
	idx, err := NearestIndex(series, target)
	if err != nil {
		return Conditions{}, err
	}

	cloud, visibility, err := series.ConditionsAt(idx)
	if err != nil {
		return Conditions{}, err
	}

	matched := series.Timestamps[idx]
	if !matchesHour(matched, target) {
		logger.Debug("no exact hour in series, using nearest sample",
			"target", HourKey(target),
			"matched", matched,
		)
	}

	return Conditions{
		Target:                target,
		Timezone:              series.Timezone,
		CloudCoverPercent:     cloud,
		VisibilityKm:          visibility,
		MoonBrightnessPercent: MoonBrightnessPercent(target),
		MatchedTimestamp:      matched,
	}, nil
}

func matchesHour(ts string, target time.Time) bool {
	key := HourKey(target)
	return len(ts) >= len(key) && ts[:len(key)] == key
}

func isCollaboratorError(err error) bool {
	return errors.Is(err, ErrFetchFailed) ||
		errors.Is(err, ErrDataUnavailable) ||
		errors.Is(err, ErrExtractionFailed)
}
