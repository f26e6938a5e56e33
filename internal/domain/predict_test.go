package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idealInput() ObservationInput {
	return ObservationInput{
		Latitude:              35,
		Longitude:             138,
		Month:                 7,
		Hour:                  22,
		StormActivity:         8.5,
		CloudCoverPercent:     20,
		MoonBrightnessPercent: 20,
		VisibilityKm:          30,
	}
}

func TestPredict_IdealConditions(t *testing.T) {
	p := Predict(idealInput())

	// z = -3 + 0.6 + 0.5 + 0.4 + 1.7 + 0.45 + 0.32 + 0.16 = 1.13
	assert.InDelta(t, 1/(1+math.Exp(-1.13)), p.Probability, 1e-9)
	assert.Greater(t, p.Probability, 0.7)
	assert.Equal(t, HintFavorable, p.Level)
	assert.Equal(t, englishCatalog.Hint(HintFavorable), p.Hint)
	assert.Equal(t, 76, p.Percent)
}

func TestPredict_PoorConditions(t *testing.T) {
	p := Predict(ObservationInput{
		Latitude:              35,
		Month:                 1,
		Hour:                  14,
		StormActivity:         0,
		CloudCoverPercent:     90,
		MoonBrightnessPercent: 90,
		VisibilityKm:          2,
	})

	assert.Less(t, p.Probability, 0.4)
	assert.Equal(t, HintWeak, p.Level)
	assert.Equal(t, []Tier{TierHigh, TierLow, TierLow, TierLow, TierLow, TierLow, TierLow}, tierList(p))
}

func TestPredict_ReasonsInFixedOrder(t *testing.T) {
	p := Predict(idealInput())

	require.Len(t, p.Reasons, 7)
	require.Len(t, p.Tiers, 7)
	wantOrder := []Factor{FactorLatitude, FactorMonth, FactorHour, FactorStorm, FactorCloud, FactorMoon, FactorVisibility}
	for i, f := range wantOrder {
		assert.Equal(t, f, p.Tiers[i].Factor)
		assert.Equal(t, englishCatalog.Reason(f, p.Tiers[i].Tier), p.Reasons[i])
	}
	assert.Equal(t, []Tier{TierHigh, TierHigh, TierHigh, TierHigh, TierHigh, TierHigh, TierHigh}, tierList(p))
}

func TestPredict_ProbabilityStrictlyInsideUnitInterval(t *testing.T) {
	extremes := []ObservationInput{
		{Latitude: 90, Month: 12, Hour: 12, StormActivity: 0, CloudCoverPercent: 100, MoonBrightnessPercent: 100, VisibilityKm: 0},
		{Latitude: 30, Month: 7, Hour: 0, StormActivity: 10, CloudCoverPercent: 0, MoonBrightnessPercent: 0, VisibilityKm: 40},
		{Latitude: -90, Longitude: -180, Month: 1, Hour: 23},
	}
	for _, in := range extremes {
		p := Predict(in)
		assert.Greater(t, p.Probability, 0.0)
		assert.Less(t, p.Probability, 1.0)
		assert.Len(t, p.Reasons, 7)
	}
}

func TestPredict_MidTiers(t *testing.T) {
	p := Predict(ObservationInput{
		Latitude:              52.5, // 0.5 on the falling ramp
		Month:                 4,    // 0.6 on the rising ramp
		Hour:                  19,
		StormActivity:         5,
		CloudCoverPercent:     50,
		MoonBrightnessPercent: 50,
		VisibilityKm:          10,
	})
	assert.Equal(t, []Tier{TierMid, TierMid, TierMid, TierMid, TierMid, TierMid, TierLow}, tierList(p))
}

func TestPredict_TierBoundaries(t *testing.T) {
	// Storm 0.7 exactly is not "> 0.7".
	p := Predict(ObservationInput{Latitude: 35, Month: 7, StormActivity: 7, CloudCoverPercent: 40, MoonBrightnessPercent: 30, VisibilityKm: 20})
	assert.Equal(t, TierMid, p.Tiers[3].Tier, "storm")
	assert.Equal(t, TierMid, p.Tiers[4].Tier, "cloud clarity 0.6")
	assert.Equal(t, TierMid, p.Tiers[5].Tier, "moon darkness 0.7")
	assert.Equal(t, TierHigh, p.Tiers[6].Tier, "visibility 0.5 is >= 0.5")
}

func TestPredict_JapaneseCatalog(t *testing.T) {
	p := NewPredictor(CatalogFor("ja-JP")).Predict(idealInput())
	assert.Equal(t, "緯度は最適帯（10-45度）で有利。", p.Reasons[0])
	assert.Equal(t, "視程良好。", p.Reasons[6])
	assert.Equal(t, "観測条件は良好。雷雲の真上より少し離れた方向を注視し、カメラと双眼鏡を準備。", p.Hint)
}

func TestHourScore(t *testing.T) {
	for _, h := range []int{21, 22, 23, 0, 1, 2} {
		assert.Equal(t, 1.0, HourScore(h), "hour %d", h)
	}
	for _, h := range []int{18, 19, 20, 3, 4, 5} {
		assert.Equal(t, 0.6, HourScore(h), "hour %d", h)
	}
	for _, h := range []int{6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17} {
		assert.Equal(t, 0.1, HourScore(h), "hour %d", h)
	}
}

func TestHourScore_OutOfRangeIsDaytime(t *testing.T) {
	assert.Equal(t, 0.1, HourScore(25))
	assert.Equal(t, 0.1, HourScore(30))
	assert.Equal(t, 0.1, HourScore(-1))
}

func TestHintFor(t *testing.T) {
	assert.Equal(t, HintModerate, HintFor(0.7))
	assert.Equal(t, HintFavorable, HintFor(0.70000001))
	assert.Equal(t, HintWeak, HintFor(0.4))
	assert.Equal(t, HintModerate, HintFor(0.40000001))
	assert.Equal(t, HintWeak, HintFor(0.01))
}

func TestLogistic(t *testing.T) {
	assert.Equal(t, 0.5, Logistic(0))
	assert.InDelta(t, 1-Logistic(2), Logistic(-2), 1e-12)
}

func TestCatalog_VisibilityMidFallsBackToLow(t *testing.T) {
	c := CatalogFor(LanguageEnglish)
	assert.Equal(t, c.Reason(FactorVisibility, TierLow), c.Reason(FactorVisibility, TierMid))
}

func TestCatalogFor_UnknownFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, LanguageEnglish, CatalogFor("fr").Language)
	assert.Equal(t, LanguageJapanese, CatalogFor(" JA ").Language)
	assert.Len(t, CatalogFor("ja").IdealConditions(), 5)
	assert.NotEmpty(t, CatalogFor("en").FormulaLines())
}

func TestCatalog_InputGuides(t *testing.T) {
	want := []Factor{FactorStorm, FactorCloud, FactorMoon, FactorVisibility}
	for _, lang := range []string{LanguageEnglish, LanguageJapanese} {
		guides := CatalogFor(lang).InputGuides()
		require.Len(t, guides, len(want), lang)
		for i, g := range guides {
			assert.Equal(t, want[i], g.Factor, lang)
			assert.NotEmpty(t, g.Lines, lang)
		}
	}

	guides := CatalogFor(LanguageEnglish).InputGuides()
	guides[0].Lines[0] = "changed"
	assert.NotEqual(t, "changed", CatalogFor(LanguageEnglish).InputGuides()[0].Lines[0])
}

func tierList(p Prediction) []Tier {
	out := make([]Tier, len(p.Tiers))
	for i, ft := range p.Tiers {
		out[i] = ft.Tier
	}
	return out
}
