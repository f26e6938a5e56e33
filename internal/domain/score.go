package domain

// Envelope is a four-point trapezoidal membership shape over a scalar axis.
// Values at or beyond Low/High score 0, values on [OptLow, OptHigh] score 1,
// and the ramps in between are linear. Low < OptLow <= OptHigh < High.
type Envelope struct {
	Low     float64
	OptLow  float64
	OptHigh float64
	High    float64
}

var (
	// latitudeEnvelope favors the 10–45° band, tapering to zero at -10° and 60°.
	latitudeEnvelope = Envelope{Low: -10, OptLow: 10, OptHigh: 45, High: 60}

	// monthEnvelope favors May–September with partial shoulder months.
	monthEnvelope = Envelope{Low: 2.5, OptLow: 5, OptHigh: 9, High: 11.5}
)

// Score evaluates the envelope at value.
func (e Envelope) Score(value float64) float64 {
	return TrapezoidScore(value, e.Low, e.OptLow, e.OptHigh, e.High)
}

// TrapezoidScore converts a raw measurement into a [0,1] suitability score.
// optLow-low and high-optHigh must be non-zero.
func TrapezoidScore(value, low, optLow, optHigh, high float64) float64 {
	if value <= low || value >= high {
		return 0
	}
	if value >= optLow && value <= optHigh {
		return 1
	}
	if value < optLow {
		return Clamp((value-low)/(optLow-low), 0, 1)
	}
	return Clamp((high-value)/(high-optHigh), 0, 1)
}

// Clamp bounds value to [lo, hi].
func Clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// unit clamps to [0,1].
func unit(value float64) float64 {
	return Clamp(value, 0, 1)
}
