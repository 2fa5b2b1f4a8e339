package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// j2000 is the Julian Date of the J2000.0 epoch (2000-01-01 12:00:00 TT).
const j2000 = 2451545.0

// OmegaEarth is Earth's rotation rate in rad/s (IAU value).
const OmegaEarth = 7.292115146706979e-5

// JulianDate converts a UTC time to Julian Date.
func JulianDate(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// GMST returns the Greenwich Mean Sidereal Time in radians for a UTC time,
// using the IAU-82 series (Vallado Eq 3-47). This is the Earth-rotation angle
// used to rotate between the inertial and Earth-fixed frames.
func GMST(t time.Time) float64 {
	jd := JulianDate(t)
	tc := (jd - j2000) / 36525.0

	// Series evaluates to seconds of sidereal time. 876600h = 3155760000s.
	sec := 67310.54841 +
		(3155760000.0+8640184.812866)*tc +
		0.093104*tc*tc -
		6.2e-6*tc*tc*tc

	sec = math.Mod(sec, 86400.0)
	if sec < 0 {
		sec += 86400.0
	}
	return sec / 86400.0 * 2 * math.Pi
}
