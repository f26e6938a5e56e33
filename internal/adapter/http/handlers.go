package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/sprite-forecast-service/internal/domain"
	"github.com/couchcryptid/sprite-forecast-service/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

const maxRequestBytes = 64 << 10

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type moonResponse struct {
	Time              time.Time `json:"time"`
	JulianDay         float64   `json:"julian_day"`
	Phase             float64   `json:"phase"`
	Illumination      float64   `json:"illumination"`
	BrightnessPercent float64   `json:"brightness_percent"`
}

type guideResponse struct {
	Language        string              `json:"lang"`
	IdealConditions []string            `json:"ideal_conditions"`
	Formula         []string            `json:"formula"`
	Inputs          []domain.InputGuide `json:"inputs"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req domain.PredictionRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	// An empty body is a request for the defaults.
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, r, fmt.Errorf("%w: decode body: %w", domain.ErrInvalidRequest, err))
		return
	}

	event, err := s.api.Forecaster.Forecast(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.api.Metrics.RecordPrediction(observability.SourceHTTP, event.Prediction)
	s.logger.Debug("prediction served",
		"request_id", event.RequestID,
		"probability", event.Prediction.Probability,
		"hint", event.Prediction.Level,
		"auto_conditions", event.Conditions != nil,
	)
	sharedobs.WriteJSON(w, http.StatusOK, event)
}

func (s *Server) handleConditions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := requiredFloat(q.Get("latitude"), "latitude")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	lon, err := requiredFloat(q.Get("longitude"), "longitude")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	hour := domain.Now().Hour()
	if v := q.Get("hour"); v != "" {
		if hour, err = strconv.Atoi(v); err != nil {
			s.writeError(w, r, fmt.Errorf("%w: hour must be an integer", domain.ErrInvalidRequest))
			return
		}
	}

	bounds := domain.PredictionRequest{Latitude: &lat, Longitude: &lon, Hour: &hour}
	if err := bounds.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.api.Weather == nil {
		s.writeError(w, r, fmt.Errorf("%w: no weather source configured", domain.ErrFetchFailed))
		return
	}

	c, err := domain.ResolveConditions(r.Context(), s.api.Weather, lat, lon, hour, s.logger)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, c)
}

func (s *Server) handleMoon(w http.ResponseWriter, r *http.Request) {
	t := domain.Now()
	if v := r.URL.Query().Get("time"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: time must be RFC3339", domain.ErrInvalidRequest))
			return
		}
		t = parsed
	}

	illumination := domain.MoonIllumination(t)
	sharedobs.WriteJSON(w, http.StatusOK, moonResponse{
		Time:              t,
		JulianDay:         domain.JulianDay(t),
		Phase:             domain.MoonPhase(t),
		Illumination:      illumination,
		BrightnessPercent: domain.MoonBrightnessPercent(t),
	})
}

func (s *Server) handleGuide(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = s.api.Language
	}
	if !domain.SupportedLanguage(lang) {
		s.writeError(w, r, fmt.Errorf("%w: unsupported lang %q", domain.ErrInvalidRequest, lang))
		return
	}

	catalog := domain.CatalogFor(lang)
	sharedobs.WriteJSON(w, http.StatusOK, guideResponse{
		Language:        catalog.Language,
		IdealConditions: catalog.IdealConditions(),
		Formula:         catalog.FormulaLines(),
		Inputs:          catalog.InputGuides(),
	})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	s.api.Metrics.RecordError(observability.SourceHTTP, err)
	if status >= http.StatusInternalServerError {
		s.logger.Warn("request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	sharedobs.WriteJSON(w, status, errorResponse{
		Error:   observability.ErrorKind(err),
		Message: err.Error(),
	})
}

// statusFor maps the domain error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrFetchFailed):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrDataUnavailable), errors.Is(err, domain.ErrExtractionFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func requiredFloat(v, name string) (float64, error) {
	if v == "" {
		return 0, fmt.Errorf("%w: %s is required", domain.ErrInvalidRequest, name)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidRequest, name)
	}
	return f, nil
}
