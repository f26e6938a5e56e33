package observability

import (
	"errors"

	"github.com/couchcryptid/sprite-forecast-service/internal/domain"
)

// Prediction sources.
const (
	SourceHTTP  = "http"
	SourceKafka = "kafka"
	SourceCLI   = "cli"
)

// RecordPrediction counts a served prediction and records its probability.
func (m *Metrics) RecordPrediction(source string, p domain.Prediction) {
	m.Predictions.WithLabelValues(source, string(p.Level)).Inc()
	m.PredictionProbability.Observe(p.Probability)
}

// RecordError counts a failed request by its error kind.
func (m *Metrics) RecordError(source string, err error) {
	m.RequestErrors.WithLabelValues(source, ErrorKind(err)).Inc()
}

// ErrorKind classifies err against the domain error taxonomy.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return "invalid"
	case errors.Is(err, domain.ErrFetchFailed):
		return "fetch"
	case errors.Is(err, domain.ErrDataUnavailable):
		return "data"
	case errors.Is(err, domain.ErrExtractionFailed):
		return "extraction"
	default:
		return "internal"
	}
}
