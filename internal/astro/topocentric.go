package astro

import "math"

// LookAngle is the observer-relative direction and motion of a target at one
// instant.
type LookAngle struct {
	AzimuthDeg   float64 // 0 = North, 90 = East, measured clockwise
	ElevationDeg float64 // 0 = horizon, 90 = zenith, negative below horizon
	RangeKm      float64 // slant range
	RangeRateKmS float64 // signed range rate; negative = approaching
}

// Topocentric projects an Earth-fixed target state into the observer's local
// South-East-Zenith frame and derives azimuth, elevation, range, and range
// rate. The observer's precomputed ECEF position (km) must correspond to obs.
//
// The observer is fixed in the rotating frame, so the relative velocity is
// the target's ECEF velocity and the range rate is its projection onto the
// line of sight.
func Topocentric(obs Geodetic, obsECEF Vec3, target ECEFState) LookAngle {
	rel := target.Pos.Sub(obsECEF)

	lat := degToRad(obs.LatDeg)
	lon := degToRad(obs.LonDeg)
	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	sinLon := math.Sin(lon)
	cosLon := math.Cos(lon)

	// Rotate the ECEF range vector into SEZ (South, East, Zenith).
	south := sinLat*cosLon*rel.X + sinLat*sinLon*rel.Y - cosLat*rel.Z
	east := -sinLon*rel.X + cosLon*rel.Y
	zenith := cosLat*cosLon*rel.X + cosLat*sinLon*rel.Y + sinLat*rel.Z

	rng := math.Sqrt(south*south + east*east + zenith*zenith)

	el := math.Asin(zenith / rng)

	// North is the -South direction, so az = atan2(E, -S), clockwise from N.
	// Straight overhead the azimuth is undefined; report 0 instead of the
	// atan2(+0, -0) = π artifact.
	var az float64
	if south != 0 || east != 0 {
		az = math.Atan2(east, -south)
		if az < 0 {
			az += 2 * math.Pi
		}
	}

	var rate float64
	if rng > 0 {
		rate = rel.Dot(target.Vel) / rng
	}

	return LookAngle{
		AzimuthDeg:   radToDeg(az),
		ElevationDeg: radToDeg(el),
		RangeKm:      rng,
		RangeRateKmS: rate,
	}
}
