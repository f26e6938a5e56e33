package domain

import "math"

// Model weights. Storm activity dominates; moon brightness is the weakest prior.
const (
	bias             = -3.0
	weightLatitude   = 0.6
	weightMonth      = 0.5
	weightHour       = 0.4
	weightStorm      = 2.0
	weightVisibility = 0.6
	weightCloud      = 0.4
	weightMoon       = 0.2

	maxStormActivity = 10.0
	maxVisibilityKm  = 40.0
)

// Hour band scores.
const (
	hourScoreNight    = 1.0
	hourScoreTwilight = 0.6
	hourScoreDay      = 0.1
)

// Hint thresholds are exclusive lower bounds.
const (
	favorableThreshold = 0.7
	moderateThreshold  = 0.4
)

// Predictor runs the scoring model and renders reasons from a Catalog.
// The zero value is not usable; use NewPredictor.
type Predictor struct {
	catalog Catalog
}

// NewPredictor returns a Predictor that words its output with catalog.
func NewPredictor(catalog Catalog) *Predictor {
	return &Predictor{catalog: catalog}
}

var defaultPredictor = NewPredictor(CatalogFor(LanguageEnglish))

// Predict scores in with the English catalog.
func Predict(in ObservationInput) Prediction {
	return defaultPredictor.Predict(in)
}

// Predict converts raw inputs into a probability, seven reasons in fixed factor
// order, and a hint. Tier thresholds per factor score:
//
//	latitude   >=0.9 high, >=0.5 mid, else low
//	month      >=0.9 high, >=0.4 mid, else low
//	hour       1.0 high, 0.6 mid, else low
//	storm      >0.7 high, >0.4 mid, else low
//	cloud      >0.6 high, >0.3 mid, else low
//	moon       >0.7 high, >0.3 mid, else low
//	visibility >=0.5 high, else low
func (p *Predictor) Predict(in ObservationInput) Prediction {
	scores := ScoreFactors(in)
	probability := Logistic(scores.Linear())

	tiers := []FactorTier{
		{FactorLatitude, tierAtLeast(scores.Latitude, 0.9, 0.5)},
		{FactorMonth, tierAtLeast(scores.Month, 0.9, 0.4)},
		{FactorHour, hourTier(scores.Hour)},
		{FactorStorm, tierAbove(scores.Storm, 0.7, 0.4)},
		{FactorCloud, tierAbove(scores.CloudClarity, 0.6, 0.3)},
		{FactorMoon, tierAbove(scores.MoonDarkness, 0.7, 0.3)},
		{FactorVisibility, visibilityTier(scores.Visibility)},
	}

	reasons := make([]string, len(tiers))
	for i, ft := range tiers {
		reasons[i] = p.catalog.Reason(ft.Factor, ft.Tier)
	}

	level := HintFor(probability)
	return Prediction{
		Probability: probability,
		Percent:     int(math.Round(probability * 100)),
		Scores:      scores,
		Reasons:     reasons,
		Tiers:       tiers,
		Level:       level,
		Hint:        p.catalog.Hint(level),
	}
}

// ScoreFactors normalizes every input to its [0,1] factor score.
func ScoreFactors(in ObservationInput) FactorScores {
	return FactorScores{
		Latitude:     latitudeEnvelope.Score(in.Latitude),
		Month:        monthEnvelope.Score(float64(in.Month)),
		Hour:         HourScore(in.Hour),
		Storm:        unit(in.StormActivity / maxStormActivity),
		CloudClarity: unit(1 - in.CloudCoverPercent/100),
		MoonDarkness: unit(1 - in.MoonBrightnessPercent/100),
		Visibility:   unit(in.VisibilityKm / maxVisibilityKm),
	}
}

// Linear returns the logistic model's linear predictor z.
func (s FactorScores) Linear() float64 {
	return bias +
		weightLatitude*s.Latitude +
		weightMonth*s.Month +
		weightHour*s.Hour +
		weightStorm*s.Storm +
		weightVisibility*s.Visibility +
		weightCloud*s.CloudClarity +
		weightMoon*s.MoonDarkness
}

// Logistic squashes z into (0,1).
func Logistic(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// HourScore is 1.0 for 21–02h, 0.6 for 18–20h and 03–05h, and 0.1 for every
// other value, including hours outside 0..23.
func HourScore(hour int) float64 {
	switch {
	case hour >= 21 && hour <= 23, hour >= 0 && hour <= 2:
		return hourScoreNight
	case hour >= 18 && hour <= 20, hour >= 3 && hour <= 5:
		return hourScoreTwilight
	default:
		return hourScoreDay
	}
}

// HintFor maps a probability to a hint level.
func HintFor(probability float64) HintLevel {
	switch {
	case probability > favorableThreshold:
		return HintFavorable
	case probability > moderateThreshold:
		return HintModerate
	default:
		return HintWeak
	}
}

func tierAtLeast(score, high, mid float64) Tier {
	switch {
	case score >= high:
		return TierHigh
	case score >= mid:
		return TierMid
	default:
		return TierLow
	}
}

func tierAbove(score, high, mid float64) Tier {
	switch {
	case score > high:
		return TierHigh
	case score > mid:
		return TierMid
	default:
		return TierLow
	}
}

func hourTier(score float64) Tier {
	switch score {
	case hourScoreNight:
		return TierHigh
	case hourScoreTwilight:
		return TierMid
	default:
		return TierLow
	}
}

func visibilityTier(score float64) Tier {
	if score >= 0.5 {
		return TierHigh
	}
	return TierLow
}
