package astro

import (
	"errors"
	"math"
)

// WGS-84 ellipsoid parameters, in kilometers.
const (
	wgs84A  = 6378.137               // semi-major axis
	wgs84F  = 1.0 / 298.257223563    // flattening
	wgs84E2 = wgs84F * (2 - wgs84F)  // first eccentricity squared
)

// ErrNearCenter is returned when a Cartesian point is too close to the
// Earth's center for the geodetic conversion to be meaningful.
var ErrNearCenter = errors.New("astro: point within 1 km of Earth's center")

// Geodetic is a position relative to the WGS-84 ellipsoid.
type Geodetic struct {
	LatDeg float64 // latitude in degrees, north positive
	LonDeg float64 // longitude in degrees, east positive
	AltKm  float64 // height above the ellipsoid in km
}

// GeodeticToECEF converts a geodetic position to Earth-fixed Cartesian
// coordinates in kilometers.
func GeodeticToECEF(g Geodetic) Vec3 {
	lat := degToRad(g.LatDeg)
	lon := degToRad(g.LonDeg)

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)

	// Radius of curvature in the prime vertical.
	n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	return Vec3{
		X: (n + g.AltKm) * cosLat * math.Cos(lon),
		Y: (n + g.AltKm) * cosLat * math.Sin(lon),
		Z: (n*(1-wgs84E2) + g.AltKm) * sinLat,
	}
}

// ECEFToGeodetic converts Earth-fixed Cartesian coordinates (km) to a
// geodetic position using a fixed-point latitude iteration seeded with
// Bowring's estimate. Five iterations are enough to reach sub-millimeter
// agreement for any point from the surface out past GEO.
//
// Points within 1 km of the Earth's center have no meaningful geodetic
// representation and return ErrNearCenter.
func ECEFToGeodetic(p Vec3) (Geodetic, error) {
	if p.Norm() < 1.0 {
		return Geodetic{}, ErrNearCenter
	}

	lon := math.Atan2(p.Y, p.X)
	rho := math.Sqrt(p.X*p.X + p.Y*p.Y)

	lat := math.Atan2(p.Z, rho*(1-wgs84E2))
	for i := 0; i < 5; i++ {
		sinLat := math.Sin(lat)
		n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)
		lat = math.Atan2(p.Z+wgs84E2*n*sinLat, rho)
	}

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	var alt float64
	if math.Abs(cosLat) > 1e-10 {
		alt = rho/cosLat - n
	} else {
		// Near the poles rho/cos(lat) blows up; use the polar axis instead.
		alt = math.Abs(p.Z)/math.Abs(sinLat) - n*(1-wgs84E2)
	}

	return Geodetic{
		LatDeg: radToDeg(lat),
		LonDeg: radToDeg(lon),
		AltKm:  alt,
	}, nil
}
