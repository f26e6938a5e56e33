package domain

import (
	"math"
	"time"
)

const (
	// referenceNewMoonJD is the new moon of 2000-01-06 00:00.
	referenceNewMoonJD = 2451549.5

	// SynodicMonthDays is the mean period between successive new moons.
	SynodicMonthDays = 29.53058867
)

// MoonIllumination approximates the illuminated fraction of the lunar disk at
// t, from 0 (new) to 1 (full). The civil fields of t are used as given, in
// t's own location.
func MoonIllumination(t time.Time) float64 {
	phase := MoonPhase(t)
	return Clamp((1-math.Cos(2*math.Pi*phase))/2, 0, 1)
}

// MoonBrightnessPercent is MoonIllumination as a whole percentage, the value
// used for ObservationInput.MoonBrightnessPercent when conditions are resolved.
func MoonBrightnessPercent(t time.Time) float64 {
	return math.Round(MoonIllumination(t) * 100)
}

// MoonPhase returns the fraction of the synodic month elapsed at t, in [0,1).
func MoonPhase(t time.Time) float64 {
	days := math.Mod(JulianDay(t)-referenceNewMoonJD, SynodicMonthDays)
	if days < 0 {
		days += SynodicMonthDays
	}
	return days / SynodicMonthDays
}

// JulianDay converts the Gregorian civil date/time of t to a Julian Day,
// shifting January and February to months 13 and 14 of the previous year.
// The day fraction counts minutes, seconds and nanoseconds as well as the
// hour, so 22:30 lands half an hour after 22:00 rather than on it. Results
// therefore differ slightly from an hour-only fraction for times off the hour.
func JulianDay(t time.Time) float64 {
	year := t.Year()
	month := int(t.Month())
	day := float64(t.Day()) + fractionOfDay(t)

	if month < 3 {
		year--
		month += 12
	}

	a := year / 100
	b := 2 - a + a/4

	return math.Floor(365.25*float64(year+4716)) +
		math.Floor(30.6001*float64(month+1)) +
		day + float64(b) - 1524.5
}

func fractionOfDay(t time.Time) float64 {
	elapsed := time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
	return elapsed.Hours() / 24
}
