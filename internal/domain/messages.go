package domain

import "strings"

// Factor names a scored input dimension.
type Factor string

const (
	FactorLatitude   Factor = "latitude"
	FactorMonth      Factor = "month"
	FactorHour       Factor = "hour"
	FactorStorm      Factor = "storm"
	FactorCloud      Factor = "cloud"
	FactorMoon       Factor = "moon"
	FactorVisibility Factor = "visibility"
)

// Tier is the qualitative bucket a factor score falls into.
type Tier string

const (
	TierHigh Tier = "high"
	TierMid  Tier = "mid"
	TierLow  Tier = "low"
)

// HintLevel is the coarse recommendation derived from the probability.
type HintLevel string

const (
	HintFavorable HintLevel = "favorable"
	HintModerate  HintLevel = "moderate"
	HintWeak      HintLevel = "weak"
)

// Supported catalog languages.
const (
	LanguageEnglish  = "en"
	LanguageJapanese = "ja"
)

// InputGuide lists rules of thumb for estimating one observation input from
// what an observer can see or look up.
type InputGuide struct {
	Factor Factor   `json:"factor"`
	Lines  []string `json:"lines"`
}

// Catalog holds the display text for reasons, hints, and the guide.
type Catalog struct {
	Language string
	reasons  map[Factor]map[Tier]string
	hints    map[HintLevel]string
	ideal    []string
	formula  []string
	inputs   []InputGuide
}

// CatalogFor returns the catalog for lang ("en", "ja", or a tag such as
// "ja-JP"). Unknown languages fall back to English.
func CatalogFor(lang string) Catalog {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == LanguageJapanese || strings.HasPrefix(lang, LanguageJapanese+"-") {
		return japaneseCatalog
	}
	return englishCatalog
}

// SupportedLanguage reports whether lang selects a catalog of its own.
func SupportedLanguage(lang string) bool {
	switch strings.ToLower(lang) {
	case LanguageEnglish, LanguageJapanese:
		return true
	}
	return false
}

// Reason returns the text for a factor tier. Visibility has no mid tier and
// maps TierMid to its low wording.
func (c Catalog) Reason(f Factor, t Tier) string {
	byTier := c.reasons[f]
	if s, ok := byTier[t]; ok {
		return s
	}
	return byTier[TierLow]
}

// Hint returns the observing advice for a level.
func (c Catalog) Hint(level HintLevel) string {
	return c.hints[level]
}

// IdealConditions returns the best-conditions guide, one line per topic.
func (c Catalog) IdealConditions() []string {
	return append([]string(nil), c.ideal...)
}

// FormulaLines describes the scoring model in prose.
func (c Catalog) FormulaLines() []string {
	return append([]string(nil), c.formula...)
}

// InputGuides returns the estimation guides for storm activity, cloud cover,
// moon brightness and visibility, in that order.
func (c Catalog) InputGuides() []InputGuide {
	out := make([]InputGuide, len(c.inputs))
	for i, g := range c.inputs {
		out[i] = InputGuide{Factor: g.Factor, Lines: append([]string(nil), g.Lines...)}
	}
	return out
}

var englishCatalog = Catalog{
	Language: LanguageEnglish,
	reasons: map[Factor]map[Tier]string{
		FactorLatitude: {
			TierHigh: "Latitude is in the optimal band (10-45°).",
			TierMid:  "Latitude is in the acceptable band (up to 60°).",
			TierLow:  "Latitude is outside the typical band; low contribution.",
		},
		FactorMonth: {
			TierHigh: "Warm season (May-September) favors strong convection.",
			TierMid:  "Shoulder season; moderate contribution.",
			TierLow:  "Cold season; weak seasonal contribution.",
		},
		FactorHour: {
			TierHigh: "Night hours (21-02h) are the easiest to observe.",
			TierMid:  "Dusk or dawn; moderate chance to observe.",
			TierLow:  "Daytime; observation is difficult.",
		},
		FactorStorm: {
			TierHigh: "Lightning activity is very high.",
			TierMid:  "Lightning activity is moderate.",
			TierLow:  "Lightning activity is weak; sprites are unlikely to be triggered.",
		},
		FactorCloud: {
			TierHigh: "Few clouds; the view is unobstructed.",
			TierMid:  "Somewhat cloudy; some attenuation.",
			TierLow:  "Heavy cloud is blocking the sky above.",
		},
		FactorMoon: {
			TierHigh: "Moonlight is weak and the sky is dark.",
			TierMid:  "Moonlight is moderate.",
			TierLow:  "Moonlight is strong; dark adaptation is hard.",
		},
		FactorVisibility: {
			TierHigh: "Visibility is good.",
			TierLow:  "Visibility is short with heavy extinction.",
		},
	},
	hints: map[HintLevel]string{
		HintFavorable: "Conditions are good. Watch the sky a little away from directly above the storm, with camera and binoculars ready.",
		HintModerate:  "Conditions are average. Aim for when lightning counts rise; prepare long exposures.",
		HintWeak:      "Conditions are weak. Wait until lightning activity picks up.",
	},
	ideal: []string{
		"Location: 10-45° latitude, open site with little light pollution, 50-150 km horizontally from the storm, looking at its side or back.",
		"Season/time: warm season (May-September). 21-02h is best, 18-20h and 03-05h next.",
		"Weather: very active lightning (high flash rate or strong echoes), cloud cover 20% or less, visibility 20 km or more. Avoid being under the precipitation core.",
		"Light: new to crescent moon, or a low or hidden moon. Dark site away from street and car lights.",
		"Technique: watch the sky above and slightly beyond the storm top. Wide angle, long exposure on a tripod, burst or interval shooting.",
	},
	formula: []string{
		"Each input is normalized to 0-1 with a trapezoid or ratio, z is a weighted sum, and the probability is the logistic of z.",
		"Latitude: low=-10, optimal=10-45, high=60, weight 0.6",
		"Season: low=2.5, optimal=5-9, high=11.5, weight 0.5",
		"Hour: 21-02h=1.0, 18-20h/03-05h=0.6, otherwise 0.1, weight 0.4",
		"Lightning: (0-10)/10, weight 2.0",
		"Cloud: 1 - cloud%/100, weight 0.4",
		"Moonlight: 1 - brightness%/100, weight 0.2",
		"Visibility: km/40, weight 0.6",
		"z = -3.0 + Σ(weight × score), probability = 1/(1+exp(-z))",
		"Above 70%: good, above 40%: average, otherwise weak.",
	},
	inputs: []InputGuide{
		{FactorStorm, []string{
			"Lightning nowcast: continuous colored strike area = 6-8, widespread and strong = 9-10, scattered = 3-5, none = 0",
			"Strikes in the last hour: 0 = 0, 1-3 = 2-3, 4-10 = 5, 11-30 = 8, over 30 = 9-10",
			"Radar echoes: isolated 35-45 dBZ = 2-5, clusters of 45-55 dBZ = 6-8, above 55 dBZ = 9-10",
			"Lightning detector 10-minute average: 0 = 0, 1-2 = 3, 3-5 = 5, 6-10 = 7, over 10 = 9-10",
			"By ear: occasional distant thunder = 3-4, a few times per 10 minutes = 5-6, almost continuous = 8-10",
		}},
		{FactorCloud, []string{
			"Satellite imagery: thick cloud = 80-100, cumulus bands or clusters = 40-70, nearly clear = 0-20",
			"Oktas: 0/8=0, 1/8=12, 2/8=25, 3/8=37, 4/8=50, 5/8=62, 6/8=75, 7/8=87, 8/8=100",
			"By eye: 7-10 tenths of the sky = 70-100, 4-6 tenths = 40-60, 1-3 tenths = 10-30, clear = 0-5",
			"Stars: faintly visible = 20-40, almost invisible = 60-90",
		}},
		{FactorMoon, []string{
			"Moon age: new to crescent = 0-20, first or last quarter = 40-60, gibbous to full = 80-100",
			"Moon altitude: low = 20-40%, add 20-40% the higher it is",
			"Through cloud: hazy moon = 20-40, blurred by thicker cloud = 40-70, sharp = 70-100",
			"By eye: not visible = 0-10, dim = 30-50, bright enough to cast shadows = 70-100",
		}},
		{FactorVisibility, []string{
			"METAR VIS: 10 km or more means 10-15 km, 9999 means 15 km or more",
			"Landmarks: use the known distance of mountains or landmarks, e.g. 5/10/20 km",
			"Night sky: sharp Milky Way = 15-25 km, faint = 8-15 km, not visible = up to 5 km",
			"Fog or dust: outlines unclear = 2-5 km, shapes break up = 1-2 km, only nearby = 0-1 km",
		}},
	},
}

var japaneseCatalog = Catalog{
	Language: LanguageJapanese,
	reasons: map[Factor]map[Tier]string{
		FactorLatitude: {
			TierHigh: "緯度は最適帯（10-45度）で有利。",
			TierMid:  "緯度は許容帯（〜60度）でやや有利。",
			TierLow:  "緯度が典型帯から外れ、寄与が低い。",
		},
		FactorMonth: {
			TierHigh: "季節は暖候期（5-9月）で対流活動が強まりやすい。",
			TierMid:  "季節は肩シーズンで中程度の寄与。",
			TierLow:  "寒候期で季節寄与が弱い。",
		},
		FactorHour: {
			TierHigh: "夜間（21-02時）で観測しやすい。",
			TierMid:  "薄暮/明け方で観測可能性は中程度。",
			TierLow:  "日中帯で観測困難。",
		},
		FactorStorm: {
			TierHigh: "雷活動が非常に活発。",
			TierMid:  "雷活動は中程度。",
			TierLow:  "雷活動が弱く誘発しづらい。",
		},
		FactorCloud: {
			TierHigh: "雲が少なく視程を阻害しない。",
			TierMid:  "雲がやや多めで減衰あり。",
			TierLow:  "雲が多く上空が遮られている。",
		},
		FactorMoon: {
			TierHigh: "月明かりが弱く空が暗い。",
			TierMid:  "月明かりは中程度。",
			TierLow:  "月明かりが強く暗順応しづらい。",
		},
		FactorVisibility: {
			TierHigh: "視程良好。",
			TierLow:  "視程が短く減光が大きい。",
		},
	},
	hints: map[HintLevel]string{
		HintFavorable: "観測条件は良好。雷雲の真上より少し離れた方向を注視し、カメラと双眼鏡を準備。",
		HintModerate:  "条件は並程度。落雷数が増えれば狙い目。カメラは長秒露光を準備。",
		HintWeak:      "条件は弱め。雷活動が活発化するタイミングまで待機がおすすめ。",
	},
	ideal: []string{
		"場所: 緯度10〜45度帯。都市光害が少ない開けた場所。雷雲から水平距離50〜150km離れて側方〜背後を狙う。",
		"季節/時間: 暖候期(5〜9月)。時刻は21〜02時が最有利、18〜20時/3〜5時が次点。",
		"気象: 雷活動が非常に活発(落雷多いセル/強エコー)。雲量20%以下。視程20km以上。降水域の真下は避ける。",
		"光条件: 新月〜三日月や月が低い/陰るタイミング。街灯や車灯が少ない暗所で暗順応。",
		"観測姿勢: 雷雲の真上ではなく少し離れた上空を注視。広角・長秒露光+三脚、連写/インターバル撮影で記録。",
	},
	formula: []string{
		"台形スコアで0〜1に正規化後、重み付き和で z を計算しロジスティック変換",
		"緯度: low=-10, 最適=10〜45, high=60 → 重み0.6",
		"季節: low=2.5, 最適=5〜9, high=11.5 → 重み0.5",
		"時刻: 21-02時=1.0, 18-20/3-5時=0.6, それ以外=0.1 → 重み0.4",
		"雷活動: (0〜10)/10 → 重み2.0",
		"雲量: (1 - 雲量%/100) → 重み0.4",
		"月明かり: (1 - 明るさ%/100) → 重み0.2",
		"視程: (km/40) → 重み0.6",
		"z = -3.0 + Σ(重み×スコア), 確率 = 1/(1+exp(-z)) を0〜100%表示",
		"70%超: 良好, 40%超: 並, それ以下: 弱め のヒント",
	},
	inputs: []InputGuide{
		{FactorStorm, []string{
			"雷ナウキャスト: 色付き発雷域が連続=6〜8, 広域で強=9〜10, 点在=3〜5, 無=0",
			"落雷回数(直近1h): 0=0, 1-3=2〜3, 4-10=5, 11-30=8, 30+ =9〜10",
			"レーダー強エコー: 35-45dBZ孤立=2〜5, 45-55dBZ群=6〜8, 55dBZ超=9〜10",
			"雷検知器10分平均: 0=0, 1-2=3, 3-5=5, 6-10=7, 10+ =9〜10",
			"体感: 遠雷たまに=3〜4, 10分に数回=5〜6, ほぼ鳴り続く=8〜10",
		}},
		{FactorCloud, []string{
			"衛星画像: 厚い雲=80〜100, 積雲帯/まとまり=40〜70, ほぼ雲なし=0〜20",
			"オクタ換算: 0/8=0,1/8=12,2/8=25,3/8=37,4/8=50,5/8=62,6/8=75,7/8=87,8/8=100",
			"目視: 空の雲が7〜10割=70〜100, 4〜6割=40〜60, 1〜3割=10〜30, 快晴=0〜5",
			"星の見え方: うっすら見える=20〜40, ほぼ見えない=60〜90",
		}},
		{FactorMoon, []string{
			"月齢: 新月〜三日月=0〜20, 上弦/下弦=40〜60, 十三夜〜満月=80〜100",
			"月高度: 低い=20〜40%, 高いほど+20〜40%",
			"雲越し: 朧月=20〜40, 厚めの雲でボヤける=40〜70, くっきり=70〜100",
			"体感: 見えない=0〜10, ぼんやり=30〜50, 眩しく影=70〜100",
		}},
		{FactorVisibility, []string{
			"METAR VIS: 10km+ →10〜15km、9999なら15km以上",
			"地物: 山/ランドマークの距離で 5/10/20km など",
			"星空: 天の川くっきり=15〜25km, ぼんやり=8〜15km, 見えない=〜5km",
			"霧/黄砂: 輪郭不明=2〜5km, 形が崩れる=1〜2km, 直近のみ=0〜1km",
		}},
	},
}
