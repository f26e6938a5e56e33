package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// hourKeyLayout truncates a timestamp to its hour, e.g. "2024-05-01T12:00".
const hourKeyLayout = "2006-01-02T15:00"

// seriesLayouts are the timestamp shapes accepted from providers, tried in order.
var seriesLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// HourlySeries is a provider's hourly block: timestamps plus parallel value
// arrays. Missing values are NaN.
type HourlySeries struct {
	Timestamps       []string
	CloudCover       []float64 // percent
	Visibility       []float64 // meters
	Timezone         string
	UTCOffsetSeconds int
}

// Location returns a fixed zone for the provider's resolved timezone.
func (s HourlySeries) Location() *time.Location {
	name := s.Timezone
	if name == "" {
		name = "UTC"
	}
	return time.FixedZone(name, s.UTCOffsetSeconds)
}

// HourKey formats t as its hour-truncated key.
func HourKey(t time.Time) string {
	return t.Format(hourKeyLayout)
}

// NearestIndex returns the index of the sample matching target's hour.
//
// An entry whose timestamp starts with the hour key always wins, even when
// another entry is numerically closer; the first such entry is returned.
// Without one, the entry with the smallest absolute wall-clock delta to the
// truncated target wins, again keeping the first on ties. Offsets in series
// timestamps are ignored for the delta, matching the provider's local times.
func NearestIndex(series HourlySeries, target time.Time) (int, error) {
	if len(series.Timestamps) == 0 {
		return 0, fmt.Errorf("%w: empty hourly series", ErrDataUnavailable)
	}

	key := HourKey(target)
	for i, ts := range series.Timestamps {
		if strings.HasPrefix(ts, key) {
			return i, nil
		}
	}

	want := wallClock(target).Truncate(time.Hour)
	best := -1
	var bestDelta time.Duration
	for i, ts := range series.Timestamps {
		t, ok := parseSeriesTime(ts)
		if !ok {
			continue
		}
		delta := absDuration(t.Sub(want))
		if best < 0 || delta < bestDelta {
			best, bestDelta = i, delta
		}
	}
	if best < 0 {
		return 0, fmt.Errorf("%w: no parseable timestamps in hourly series", ErrDataUnavailable)
	}
	return best, nil
}

// ConditionsAt reads cloud cover (clamped to 0..100 percent) and visibility
// (meters converted to km, clamped to 0..40) at index i.
func (s HourlySeries) ConditionsAt(i int) (cloudPercent, visibilityKm float64, err error) {
	if i < 0 || i >= len(s.CloudCover) || i >= len(s.Visibility) {
		return 0, 0, fmt.Errorf("%w: index %d outside value arrays (cloud=%d, visibility=%d)",
			ErrExtractionFailed, i, len(s.CloudCover), len(s.Visibility))
	}
	cloud, vis := s.CloudCover[i], s.Visibility[i]
	if math.IsNaN(cloud) || math.IsNaN(vis) {
		return 0, 0, fmt.Errorf("%w: missing value at %s", ErrExtractionFailed, s.timestampAt(i))
	}
	return Clamp(cloud, 0, 100), Clamp(vis/1000, 0, maxVisibilityKm), nil
}

func (s HourlySeries) timestampAt(i int) string {
	if i < len(s.Timestamps) {
		return s.Timestamps[i]
	}
	return fmt.Sprintf("index %d", i)
}

// parseSeriesTime parses a provider timestamp and returns its wall clock in UTC.
func parseSeriesTime(s string) (time.Time, bool) {
	for _, layout := range seriesLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return wallClock(t), true
		}
	}
	return time.Time{}, false
}

// wallClock drops the zone, keeping the civil fields.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
