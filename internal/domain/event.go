package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// PredictionRequest is the wire form of a prediction call. Omitted fields take
// the values of DefaultObservation at processing time.
type PredictionRequest struct {
	RequestID             string   `json:"request_id,omitempty" validate:"omitempty,max=128"`
	Latitude              *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude             *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Month                 *int     `json:"month,omitempty" validate:"omitempty,gte=1,lte=12"`
	Hour                  *int     `json:"hour,omitempty" validate:"omitempty,gte=0,lte=23"`
	StormActivity         *float64 `json:"storm_activity,omitempty" validate:"omitempty,gte=0,lte=10"`
	CloudCoverPercent     *float64 `json:"cloud_cover_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	MoonBrightnessPercent *float64 `json:"moon_brightness_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	VisibilityKm          *float64 `json:"visibility_km,omitempty" validate:"omitempty,gte=0,lte=40"`

	// AutoConditions replaces cloud cover, visibility and moon brightness with
	// values resolved from the weather provider and the lunar estimator.
	AutoConditions bool   `json:"auto_conditions,omitempty"`
	Language       string `json:"lang,omitempty" validate:"omitempty,oneof=en ja"`
}

// Observation merges the request over the defaults for now.
func (r PredictionRequest) Observation(now time.Time) ObservationInput {
	in := DefaultObservation(now)
	setFloat(&in.Latitude, r.Latitude)
	setFloat(&in.Longitude, r.Longitude)
	setInt(&in.Month, r.Month)
	setInt(&in.Hour, r.Hour)
	setFloat(&in.StormActivity, r.StormActivity)
	setFloat(&in.CloudCoverPercent, r.CloudCoverPercent)
	setFloat(&in.MoonBrightnessPercent, r.MoonBrightnessPercent)
	setFloat(&in.VisibilityKm, r.VisibilityKm)
	return in
}

// PredictionEvent is the result published for a request.
type PredictionEvent struct {
	RequestID   string           `json:"request_id"`
	Input       ObservationInput `json:"input"`
	Conditions  *Conditions      `json:"conditions,omitempty"`
	Prediction  Prediction       `json:"prediction"`
	Language    string           `json:"lang"`
	ProcessedAt time.Time        `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
