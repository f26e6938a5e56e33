package domain

import "time"

// ObservationInput holds the raw conditions for one prediction. Fields are
// plain numbers in their documented units; the engine does not reject values
// outside those ranges (see PredictionRequest.Validate for boundary checks).
type ObservationInput struct {
	Latitude              float64 `json:"latitude"`                // degrees, -90..90
	Longitude             float64 `json:"longitude"`               // degrees, -180..180 (not scored)
	Month                 int     `json:"month"`                   // 1..12
	Hour                  int     `json:"hour"`                    // local hour 0..23
	StormActivity         float64 `json:"storm_activity"`          // 0 calm .. 10 very active
	CloudCoverPercent     float64 `json:"cloud_cover_percent"`     // 0..100
	MoonBrightnessPercent float64 `json:"moon_brightness_percent"` // 0..100
	VisibilityKm          float64 `json:"visibility_km"`           // 0..40
}

// DefaultObservation returns the starting values offered to a new caller:
// central Japan, moderate storm activity, partly cloudy, and the month/hour of now.
func DefaultObservation(now time.Time) ObservationInput {
	return ObservationInput{
		Latitude:              35.0,
		Longitude:             138.0,
		Month:                 int(now.Month()),
		Hour:                  now.Hour(),
		StormActivity:         6.0,
		CloudCoverPercent:     30.0,
		MoonBrightnessPercent: 40.0,
		VisibilityKm:          20.0,
	}
}

// WithConditions returns a copy of in with the measured conditions applied.
func (in ObservationInput) WithConditions(c Conditions) ObservationInput {
	in.CloudCoverPercent = c.CloudCoverPercent
	in.VisibilityKm = c.VisibilityKm
	in.MoonBrightnessPercent = c.MoonBrightnessPercent
	return in
}

// FactorScores are the per-factor [0,1] scores of one prediction.
type FactorScores struct {
	Latitude     float64 `json:"latitude"`
	Month        float64 `json:"month"`
	Hour         float64 `json:"hour"`
	Storm        float64 `json:"storm"`
	CloudClarity float64 `json:"cloud_clarity"`
	MoonDarkness float64 `json:"moon_darkness"`
	Visibility   float64 `json:"visibility"`
}

// Prediction is the immutable result of Predict.
type Prediction struct {
	Probability float64      `json:"probability"`
	Percent     int          `json:"percent"`
	Scores      FactorScores `json:"scores"`
	Reasons     []string     `json:"reasons"`
	Tiers       []FactorTier `json:"tiers"`
	Level       HintLevel    `json:"hint_level"`
	Hint        string       `json:"hint"`
}

// FactorTier records which qualitative tier a factor landed in.
type FactorTier struct {
	Factor Factor `json:"factor"`
	Tier   Tier   `json:"tier"`
}

// Conditions are the sky conditions resolved from a weather provider and the
// lunar estimator for a single target hour.
type Conditions struct {
	Target                time.Time `json:"target"`
	Timezone              string    `json:"timezone,omitempty"`
	CloudCoverPercent     float64   `json:"cloud_cover_percent"`
	VisibilityKm          float64   `json:"visibility_km"`
	MoonBrightnessPercent float64   `json:"moon_brightness_percent"`
	MatchedTimestamp      string    `json:"matched_timestamp"`
}
