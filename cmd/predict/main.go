// Command predict prints a one-shot red sprite likelihood estimate.
//
// Usage:
//
//	go run ./cmd/predict -lat 35.6 -lon 139.7 -hour 22 -storm 8 -auto
//	go run ./cmd/predict -cloud 10 -moon 5 -vis 35 -json
//	go run ./cmd/predict -guide -lang ja
//
// Unset inputs take the service defaults for the current month and hour.
// With -auto, cloud cover, visibility and moon brightness come from Open-Meteo
// and the lunar estimator instead of the flags.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/sprite-forecast-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/sprite-forecast-service/internal/domain"
	"github.com/couchcryptid/sprite-forecast-service/internal/observability"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/prometheus/client_golang/prometheus"
)

// newMetrics builds the metrics for one invocation. The CLI never serves
// /metrics, so they live on a private registry.
var newMetrics = func() *observability.Metrics {
	return observability.NewMetricsWith(prometheus.NewRegistry())
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	defaults := domain.DefaultObservation(domain.Now())

	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	fs.SetOutput(stderr)
	lat := fs.Float64("lat", defaults.Latitude, "latitude in degrees (-90..90)")
	lon := fs.Float64("lon", defaults.Longitude, "longitude in degrees (-180..180), used with -auto")
	month := fs.Int("month", defaults.Month, "month (1..12)")
	hour := fs.Int("hour", defaults.Hour, "local hour (0..23)")
	storm := fs.Float64("storm", defaults.StormActivity, "storm activity (0..10)")
	cloud := fs.Float64("cloud", defaults.CloudCoverPercent, "cloud cover percent (0..100)")
	moon := fs.Float64("moon", defaults.MoonBrightnessPercent, "moon brightness percent (0..100)")
	vis := fs.Float64("vis", defaults.VisibilityKm, "visibility in km (0..40)")
	auto := fs.Bool("auto", false, "resolve cloud, visibility and moon from Open-Meteo")
	lang := fs.String("lang", sharedcfg.EnvOrDefault("MESSAGE_LANGUAGE", domain.LanguageEnglish), "message language (en|ja)")
	asJSON := fs.Bool("json", false, "print the prediction event as JSON")
	guide := fs.Bool("guide", false, "print the ideal conditions, input estimation guides and model formula, then exit")
	baseURL := fs.String("base-url", sharedcfg.EnvOrDefault("OPENMETEO_BASE_URL", openmeteo.DefaultBaseURL), "Open-Meteo base URL")
	timeout := fs.Duration("timeout", 10*time.Second, "Open-Meteo request timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *guide {
		if !domain.SupportedLanguage(*lang) {
			return fmt.Errorf("%w: unsupported lang %q", domain.ErrInvalidRequest, *lang)
		}
		printGuide(stdout, domain.CatalogFor(*lang))
		return nil
	}

	logger := observability.NewCLILogger(stderr, "warn")
	metrics := newMetrics()
	var source domain.WeatherSource
	if *auto {
		source = openmeteo.NewClient(*baseURL, *timeout, metrics, logger)
	}

	req := domain.PredictionRequest{
		Latitude:              lat,
		Longitude:             lon,
		Month:                 month,
		Hour:                  hour,
		StormActivity:         storm,
		CloudCoverPercent:     cloud,
		MoonBrightnessPercent: moon,
		VisibilityKm:          vis,
		AutoConditions:        *auto,
		Language:              *lang,
	}
	event, err := domain.NewForecaster(source, *lang, logger).Forecast(ctx, req)
	if err != nil {
		metrics.RecordError(observability.SourceCLI, err)
		return err
	}
	metrics.RecordPrediction(observability.SourceCLI, event.Prediction)

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(event)
	}
	printEvent(stdout, event)
	return nil
}

func printEvent(w io.Writer, event domain.PredictionEvent) {
	p := event.Prediction
	fmt.Fprintf(w, "Probability: %d%% (%.3f)\n", p.Percent, p.Probability)
	fmt.Fprintf(w, "Hint: %s\n", p.Hint)
	if c := event.Conditions; c != nil {
		fmt.Fprintf(w, "Conditions at %s (%s): cloud %.0f%%, visibility %.1f km, moon %.0f%%\n",
			c.MatchedTimestamp, c.Timezone, c.CloudCoverPercent, c.VisibilityKm, c.MoonBrightnessPercent)
	}
	fmt.Fprintln(w, "Reasons:")
	for _, r := range p.Reasons {
		fmt.Fprintf(w, "  - %s\n", r)
	}
}

func printGuide(w io.Writer, c domain.Catalog) {
	for _, line := range c.IdealConditions() {
		fmt.Fprintf(w, "  - %s\n", line)
	}
	for _, g := range c.InputGuides() {
		fmt.Fprintf(w, "\n%s:\n", g.Factor)
		for _, line := range g.Lines {
			fmt.Fprintf(w, "  - %s\n", line)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Join(c.FormulaLines(), "\n"))
}
