package track

import (
	"fmt"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/litescript/ls-sattrack/internal/astro"
)

// Position magnitude sanity bounds in km. Below the lower bound the orbit
// has decayed into the atmosphere; above the upper bound the elements are
// being extrapolated past anything SGP4 can model.
const (
	minOrbitRadiusKm = 6200.0
	maxOrbitRadiusKm = 60000.0
)

// StateVector is an inertial (TEME) position/velocity pair, km and km/s,
// valid at Time. Produced fresh per query and never mutated.
type StateVector struct {
	Pos  astro.Vec3
	Vel  astro.Vec3
	Time time.Time
}

// ECI converts the state vector to the astro package's inertial state type.
func (s StateVector) ECI() astro.ECIState {
	return astro.ECIState{Pos: s.Pos, Vel: s.Vel, Time: s.Time}
}

// SpeedKmS returns the magnitude of the velocity vector.
func (s StateVector) SpeedKmS() float64 {
	return s.Vel.Norm()
}

// ErrorKind classifies a propagation failure.
type ErrorKind int

const (
	// KindDegenerate means the model produced a non-physical orbit:
	// SGP4 initialization error, decayed perigee, or a position magnitude
	// outside the plausible range.
	KindDegenerate ErrorKind = iota

	// KindDivergent means the numerical output is non-finite.
	KindDivergent
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindDegenerate:
		return "degenerate"
	case KindDivergent:
		return "divergent"
	default:
		return "?"
	}
}

// PropagationError reports a failed propagation for one satellite at one
// instant. Callers treat the satellite as having no data for that instant;
// the failure never aborts a batch.
type PropagationError struct {
	Kind ErrorKind
	Name string
	Msg  string
}

func (e *PropagationError) Error() string {
	return fmt.Sprintf("propagate %s: %s orbit: %s", e.Name, e.Kind, e.Msg)
}

// Propagator produces an inertial state vector for a time. Implementations
// must be deterministic: identical inputs yield identical outputs.
type Propagator interface {
	Propagate(t time.Time) (StateVector, error)
}

// SGP4Propagator wraps the go-satellite SGP4 implementation for a single
// element set. The zero value is not usable; construct with NewSGP4Propagator.
type SGP4Propagator struct {
	elements OrbitalElements
	sat      satellite.Satellite
}

// NewSGP4Propagator initializes the SGP4 model from an element set. The TLE
// lines must already be validated (ParseTLE does this); initialization still
// fails with a degenerate-orbit error when the model rejects the elements.
func NewSGP4Propagator(el OrbitalElements) (*SGP4Propagator, error) {
	if err := ValidateTLELines(el.Line1, el.Line2); err != nil {
		return nil, fmt.Errorf("sgp4 init %s: %w", el.Name, err)
	}

	sat := satellite.TLEToSat(el.Line1, el.Line2, satellite.GravityWGS84)
	if sat.Error != 0 {
		return nil, &PropagationError{
			Kind: KindDegenerate,
			Name: el.Name,
			Msg:  fmt.Sprintf("sgp4 init code %d: %s", sat.Error, sat.ErrorStr),
		}
	}

	return &SGP4Propagator{elements: el, sat: sat}, nil
}

// Elements returns the element set the propagator was built from.
func (p *SGP4Propagator) Elements() OrbitalElements {
	return p.elements
}

// Propagate computes the TEME state vector at t.
//
// The library propagates by value and does not surface its internal error
// codes, so failures are detected from the output: non-finite components
// are a numerical divergence, and a position magnitude outside the plausible
// orbit range means the elements have gone degenerate (typically decay).
func (p *SGP4Propagator) Propagate(t time.Time) (StateVector, error) {
	t = t.UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	pos, vel := satellite.Propagate(p.sat, year, int(month), day, hour, min, sec)

	sv := StateVector{
		Pos:  astro.Vec3{X: pos.X, Y: pos.Y, Z: pos.Z},
		Vel:  astro.Vec3{X: vel.X, Y: vel.Y, Z: vel.Z},
		Time: t,
	}

	if err := checkStateVector(p.elements.Name, sv); err != nil {
		return StateVector{}, err
	}
	return sv, nil
}

// checkStateVector classifies a raw SGP4 output: non-finite components are a
// numerical divergence; a position magnitude outside the plausible orbit range
// (a decayed perigee, or extrapolation far past the element epoch) is a
// degenerate orbit.
func checkStateVector(name string, sv StateVector) error {
	if !sv.Pos.IsFinite() || !sv.Vel.IsFinite() {
		return &PropagationError{
			Kind: KindDivergent,
			Name: name,
			Msg:  "non-finite output",
		}
	}

	if r := sv.Pos.Norm(); r < minOrbitRadiusKm || r > maxOrbitRadiusKm {
		return &PropagationError{
			Kind: KindDegenerate,
			Name: name,
			Msg:  fmt.Sprintf("position magnitude %.0f km outside %.0f-%.0f km", r, minOrbitRadiusKm, maxOrbitRadiusKm),
		}
	}

	return nil
}
