package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/sprite-forecast-service/internal/domain"
	"github.com/couchcryptid/sprite-forecast-service/internal/observability"
)

// PredictionTransformer implements Transformer by decoding a request message,
// forecasting it, and serializing the resulting PredictionEvent.
type PredictionTransformer struct {
	forecaster *domain.Forecaster
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewTransformer creates a PredictionTransformer backed by forecaster.
func NewTransformer(forecaster *domain.Forecaster, metrics *observability.Metrics, logger *slog.Logger) *PredictionTransformer {
	return &PredictionTransformer{
		forecaster: forecaster,
		metrics:    metrics,
		logger:     logger,
	}
}

func (t *PredictionTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	req, err := domain.ParseRequest(raw)
	if err != nil {
		t.metrics.RecordError(observability.SourceKafka, err)
		return domain.OutputEvent{}, err
	}

	event, err := t.forecaster.Forecast(ctx, req)
	if err != nil {
		t.metrics.RecordError(observability.SourceKafka, err)
		return domain.OutputEvent{}, err
	}

	out, err := domain.SerializePrediction(event)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	t.metrics.RecordPrediction(observability.SourceKafka, event.Prediction)
	t.logger.Debug("prediction ready",
		"request_id", event.RequestID,
		"probability", event.Prediction.Probability,
		"hint", event.Prediction.Level,
	)
	return out, nil
}
