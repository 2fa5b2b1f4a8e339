package track

import (
	"fmt"

	"github.com/litescript/ls-sattrack/internal/astro"
)

// ObserverLocation is a fixed ground station. The Earth-fixed Cartesian
// position is computed once at construction and reused for every look-angle
// query; it only changes if the geodetic coordinates change.
type ObserverLocation struct {
	Name     string
	Geodetic astro.Geodetic
	ECEF     astro.Vec3
}

// NewObserverLocation builds an observer from geodetic coordinates, with
// altitude in meters above the ellipsoid as it appears in configuration.
func NewObserverLocation(name string, latDeg, lonDeg, altM float64) (ObserverLocation, error) {
	if latDeg < -90 || latDeg > 90 {
		return ObserverLocation{}, fmt.Errorf("observer %q: latitude %v out of range", name, latDeg)
	}
	if lonDeg < -180 || lonDeg > 180 {
		return ObserverLocation{}, fmt.Errorf("observer %q: longitude %v out of range", name, lonDeg)
	}

	g := astro.Geodetic{LatDeg: latDeg, LonDeg: lonDeg, AltKm: altM / 1000.0}
	return ObserverLocation{
		Name:     name,
		Geodetic: g,
		ECEF:     astro.GeodeticToECEF(g),
	}, nil
}

// LookAt computes the look angle from the observer to an Earth-fixed target
// state.
func (o ObserverLocation) LookAt(target astro.ECEFState) astro.LookAngle {
	return astro.Topocentric(o.Geodetic, o.ECEF, target)
}
