package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Forecaster turns prediction requests into prediction events, optionally
// resolving sky conditions from a weather source first.
type Forecaster struct {
	source   WeatherSource
	language string
	logger   *slog.Logger
}

// NewForecaster creates a Forecaster. source may be nil, in which case
// requests asking for auto conditions fail with ErrFetchFailed. language is the
// catalog used when a request does not pick one.
func NewForecaster(source WeatherSource, language string, logger *slog.Logger) *Forecaster {
	if language == "" {
		language = LanguageEnglish
	}
	return &Forecaster{source: source, language: language, logger: logger}
}

// Forecast validates req, fills defaults, resolves conditions when asked, and
// predicts. Validation failures wrap ErrInvalidRequest.
func (f *Forecaster) Forecast(ctx context.Context, req PredictionRequest) (PredictionEvent, error) {
	if err := req.Validate(); err != nil {
		return PredictionEvent{}, err
	}

	now := clock.Now()
	in := req.Observation(now)

	var conditions *Conditions
	if req.AutoConditions {
		if f.source == nil {
			return PredictionEvent{}, fmt.Errorf("%w: no weather source configured", ErrFetchFailed)
		}
		c, err := ResolveConditions(ctx, f.source, in.Latitude, in.Longitude, in.Hour, f.logger)
		if err != nil {
			return PredictionEvent{}, err
		}
		in = in.WithConditions(c)
		conditions = &c
	}

	lang := req.Language
	if lang == "" {
		lang = f.language
	}
	catalog := CatalogFor(lang)

	id := req.RequestID
	if id == "" {
		id = uuid.NewString()
	}

	return PredictionEvent{
		RequestID:   id,
		Input:       in,
		Conditions:  conditions,
		Prediction:  NewPredictor(catalog).Predict(in),
		Language:    catalog.Language,
		ProcessedAt: now.UTC(),
	}, nil
}

// ParseRequest decodes a source-topic message into a PredictionRequest. When
// the payload carries no request ID the message key is used.
func ParseRequest(raw RawEvent) (PredictionRequest, error) {
	var req PredictionRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return PredictionRequest{}, fmt.Errorf("%w: parse request: %w", ErrInvalidRequest, err)
	}
	if req.RequestID == "" && len(raw.Key) > 0 {
		req.RequestID = string(raw.Key)
	}
	return req, nil
}

// SerializePrediction marshals a PredictionEvent into an OutputEvent keyed by
// request ID.
func SerializePrediction(event PredictionEvent) (OutputEvent, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize prediction: %w", err)
	}
	return OutputEvent{
		Key:   []byte(event.RequestID),
		Value: data,
		Headers: map[string]string{
			"hint_level":   string(event.Prediction.Level),
			"processed_at": event.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
