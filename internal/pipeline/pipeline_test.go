package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/sprite-forecast-service/internal/domain"
	"github.com/couchcryptid/sprite-forecast-service/internal/observability"
	"github.com/couchcryptid/sprite-forecast-service/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

// mockExtractor hands out its batches in order, then blocks until the context
// is cancelled to simulate an idle topic.
type mockExtractor struct {
	batches [][]domain.RawEvent
	index   atomic.Int64
	err     error
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]domain.RawEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	i := int(m.index.Add(1) - 1)
	if i >= len(m.batches) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.batches[i], nil
}

type mockTransformer struct {
	failKey string
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	if string(raw.Key) == m.failKey {
		return domain.OutputEvent{}, domain.ErrInvalidRequest
	}
	return domain.OutputEvent{Key: raw.Key, Value: raw.Value}, nil
}

type mockLoader struct {
	mu       sync.Mutex
	loaded   []domain.OutputEvent
	failures int
	calls    int
}

func (m *mockLoader) LoadBatch(_ context.Context, events []domain.OutputEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failures > 0 {
		m.failures--
		return errors.New("broker unavailable")
	}
	m.loaded = append(m.loaded, events...)
	return nil
}

func (m *mockLoader) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, len(m.loaded))
	for i, e := range m.loaded {
		keys[i] = string(e.Key)
	}
	return keys
}

type commitLog struct {
	mu   sync.Mutex
	keys []string
}

func (c *commitLog) raw(key, value string) domain.RawEvent {
	return domain.RawEvent{
		Key:   []byte(key),
		Value: []byte(value),
		Topic: "sprite-prediction-requests",
		Commit: func(context.Context) error {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.keys = append(c.keys, key)
			return nil
		},
	}
}

func (c *commitLog) committed() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.keys...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runUntil(t *testing.T, p *pipeline.Pipeline, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	require.NoError(t, p.Run(ctx))
}

// --- pipeline tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	var commits commitLog
	ext := &mockExtractor{batches: [][]domain.RawEvent{
		{commits.raw("a", "{}"), commits.raw("b", "{}")},
		{commits.raw("c", "{}")},
	}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), metrics, 50)

	require.Error(t, p.CheckReadiness(context.Background()))
	runUntil(t, p, 300*time.Millisecond)

	assert.Equal(t, []string{"a", "b", "c"}, ldr.keys())
	assert.Equal(t, []string{"a", "b", "c"}, commits.committed())
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.MessagesConsumed))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.MessagesProduced))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.PipelineRunning))
	require.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ldr := &mockLoader{}
	p := pipeline.New(&mockExtractor{}, &mockTransformer{}, ldr, discardLogger(), observability.NewMetricsForTesting(), 50)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.keys())
}

func TestPipeline_Run_SkipsAndCommitsFailedRequests(t *testing.T) {
	var commits commitLog
	ext := &mockExtractor{batches: [][]domain.RawEvent{
		{commits.raw("bad", "not-json"), commits.raw("good", "{}")},
	}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(ext, &mockTransformer{failKey: "bad"}, ldr, discardLogger(), metrics, 50)

	runUntil(t, p, 300*time.Millisecond)

	assert.Equal(t, []string{"good"}, ldr.keys())
	assert.Equal(t, []string{"bad", "good"}, commits.committed(), "offsets committed in batch order")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.TransformErrors))
}

func TestPipeline_Run_SkippedRequestNotCommittedBeforeLoad(t *testing.T) {
	var commits commitLog
	ext := &mockExtractor{batches: [][]domain.RawEvent{
		{commits.raw("a", "{}"), commits.raw("b", "not-json")},
	}}
	ldr := &mockLoader{failures: 1000}
	p := pipeline.New(ext, &mockTransformer{failKey: "b"}, ldr, discardLogger(), observability.NewMetricsForTesting(), 50)

	runUntil(t, p, 300*time.Millisecond)

	assert.Empty(t, ldr.keys())
	assert.Empty(t, commits.committed(), "a later offset would cover the unpublished one")
	assert.GreaterOrEqual(t, ldr.calls, 2)
}

func TestPipeline_Run_AllFailedBatchCommitsWithoutLoad(t *testing.T) {
	var commits commitLog
	ext := &mockExtractor{batches: [][]domain.RawEvent{{commits.raw("bad", "not-json")}}}
	ldr := &mockLoader{}
	p := pipeline.New(ext, &mockTransformer{failKey: "bad"}, ldr, discardLogger(), observability.NewMetricsForTesting(), 50)

	runUntil(t, p, 300*time.Millisecond)

	assert.Equal(t, 0, ldr.calls)
	assert.Equal(t, []string{"bad"}, commits.committed())
	require.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_RetriesLoadBeforeCommitting(t *testing.T) {
	var commits commitLog
	ext := &mockExtractor{batches: [][]domain.RawEvent{{commits.raw("a", "{}")}}}
	ldr := &mockLoader{failures: 1}
	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), observability.NewMetricsForTesting(), 50)

	runUntil(t, p, time.Second)

	assert.Equal(t, 2, ldr.calls, "one failure, one success after backoff")
	assert.Equal(t, []string{"a"}, ldr.keys())
	assert.Equal(t, []string{"a"}, commits.committed())
}

func TestPipeline_Run_ExtractErrorBacksOff(t *testing.T) {
	ext := &mockExtractor{err: errors.New("coordinator not available")}
	p := pipeline.New(ext, &mockTransformer{}, &mockLoader{}, discardLogger(), observability.NewMetricsForTesting(), 50)

	runUntil(t, p, 100*time.Millisecond)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

// --- transformer tests ---

func newTransformer(t *testing.T) (*pipeline.PredictionTransformer, *observability.Metrics) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.July, 10, 13, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })

	metrics := observability.NewMetricsForTesting()
	forecaster := domain.NewForecaster(nil, domain.LanguageEnglish, discardLogger())
	return pipeline.NewTransformer(forecaster, metrics, discardLogger()), metrics
}

func TestPredictionTransformer_Transform(t *testing.T) {
	tfm, metrics := newTransformer(t)
	raw := domain.RawEvent{
		Key:   []byte("req-42"),
		Value: []byte(`{"latitude":35,"month":7,"hour":22,"storm_activity":8.5,"cloud_cover_percent":20,"moon_brightness_percent":20,"visibility_km":30}`),
	}

	out, err := tfm.Transform(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, []byte("req-42"), out.Key)
	assert.Equal(t, "favorable", out.Headers["hint_level"])
	assert.Equal(t, "2024-07-10T13:00:00Z", out.Headers["processed_at"])

	var event domain.PredictionEvent
	require.NoError(t, json.Unmarshal(out.Value, &event))

	want := domain.ObservationInput{
		Latitude: 35, Longitude: 138, Month: 7, Hour: 22, StormActivity: 8.5,
		CloudCoverPercent: 20, MoonBrightnessPercent: 20, VisibilityKm: 30,
	}
	if diff := cmp.Diff(want, event.Input); diff != "" {
		t.Fatalf("input mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "req-42", event.RequestID)
	assert.Equal(t, 76, event.Prediction.Percent)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Predictions.WithLabelValues(observability.SourceKafka, "favorable")))
}

func TestPredictionTransformer_Errors(t *testing.T) {
	tfm, metrics := newTransformer(t)

	_, err := tfm.Transform(context.Background(), domain.RawEvent{Value: []byte("not-json{{{")})
	require.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = tfm.Transform(context.Background(), domain.RawEvent{Value: []byte(`{"month":13}`)})
	require.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = tfm.Transform(context.Background(), domain.RawEvent{Value: []byte(`{"auto_conditions":true}`)})
	require.ErrorIs(t, err, domain.ErrFetchFailed)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RequestErrors.WithLabelValues(observability.SourceKafka, "invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RequestErrors.WithLabelValues(observability.SourceKafka, "fetch")))
}
