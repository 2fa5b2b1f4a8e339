package track

import (
	"context"
	"sort"
	"time"

	"github.com/litescript/ls-sattrack/internal/astro"
)

// Satellite bundles an element set with its initialized propagator and an
// optional per-satellite radio override. Long-lived; built once at startup.
type Satellite struct {
	Elements OrbitalElements
	Prop     Propagator
	Radio    *RadioConfig // nil = use the tracker's station config
}

// NewSatellite initializes the SGP4 model for an element set.
func NewSatellite(el OrbitalElements) (*Satellite, error) {
	prop, err := NewSGP4Propagator(el)
	if err != nil {
		return nil, err
	}
	return &Satellite{Elements: el, Prop: prop}, nil
}

// PositionStatus says whether a query produced usable data.
type PositionStatus int

const (
	StatusOK     PositionStatus = iota
	StatusNoData                // propagation or transform failed
)

// String returns the status name.
func (s PositionStatus) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusNoData:
		return "NO DATA"
	default:
		return "?"
	}
}

// SatellitePosition is the full observer-relative picture of one satellite
// at one instant. When Status is StatusNoData only Name, Time, Status, and
// Err are meaningful; stale or zeroed geometry is never reported as current.
type SatellitePosition struct {
	Name   string
	Time   time.Time
	Status PositionStatus
	Err    error

	State    StateVector
	Subpoint astro.Geodetic // ground track point under the satellite
	SpeedKmS float64
	Look     astro.LookAngle
	Visible  bool

	Link *LinkReport // nil when radio evaluation is disabled
}

// Tracker answers position and pass queries for one observer. It holds no
// per-query state: the instant is always an explicit argument, so one
// tracker is safe to use from any single goroutine per call site.
type Tracker struct {
	Observer        ObserverLocation
	MinElevationDeg float64      // visibility threshold for the dashboard
	Radio           *RadioConfig // nil disables link evaluation
	Prediction      PredictionConfig
}

// NewTracker builds a tracker. The prediction config is validated here, once,
// so per-tick queries never re-report a configuration mistake.
func NewTracker(obs ObserverLocation, minElevDeg float64, radio *RadioConfig, pred PredictionConfig) (*Tracker, error) {
	if err := pred.Validate(); err != nil {
		return nil, err
	}
	if radio != nil {
		if err := radio.Validate(); err != nil {
			return nil, err
		}
	}
	return &Tracker{
		Observer:        obs,
		MinElevationDeg: minElevDeg,
		Radio:           radio,
		Prediction:      pred,
	}, nil
}

// Position computes the satellite's geometry at t. Failures are carried in
// the result, not returned, so batch callers can render "no data" rows.
func (tr *Tracker) Position(sat *Satellite, t time.Time) SatellitePosition {
	pos := SatellitePosition{Name: sat.Elements.Name, Time: t}

	sv, err := sat.Prop.Propagate(t)
	if err != nil {
		pos.Status = StatusNoData
		pos.Err = err
		return pos
	}

	ecef := astro.ECIToECEF(sv.ECI())

	sub, err := astro.ECEFToGeodetic(ecef.Pos)
	if err != nil {
		pos.Status = StatusNoData
		pos.Err = err
		return pos
	}

	pos.State = sv
	pos.Subpoint = sub
	pos.SpeedKmS = sv.SpeedKmS()
	pos.Look = tr.Observer.LookAt(ecef)
	pos.Visible = pos.Look.ElevationDeg >= tr.MinElevationDeg

	if cfg := tr.radioFor(sat); cfg != nil {
		rep := EvaluateWindow(pos.Look, *cfg)
		pos.Link = &rep
	}

	return pos
}

func (tr *Tracker) radioFor(sat *Satellite) *RadioConfig {
	if sat.Radio != nil {
		return sat.Radio
	}
	return tr.Radio
}

// Snapshot computes positions for every satellite at one shared instant,
// sorted by descending elevation so visible satellites lead. A satellite
// that cannot be propagated contributes a no-data row instead of failing
// the batch.
func (tr *Tracker) Snapshot(sats []*Satellite, t time.Time) []SatellitePosition {
	out := make([]SatellitePosition, 0, len(sats))
	for _, sat := range sats {
		out = append(out, tr.Position(sat, t))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if (out[i].Status == StatusOK) != (out[j].Status == StatusOK) {
			return out[i].Status == StatusOK
		}
		return out[i].Look.ElevationDeg > out[j].Look.ElevationDeg
	})
	return out
}

// Passes runs the predictor for one satellite starting at t, using the
// tracker's prediction config.
func (tr *Tracker) Passes(ctx context.Context, sat *Satellite, t time.Time) (Prediction, error) {
	return PredictPasses(ctx, sat.Prop, tr.Observer, sat.Elements.Name, t, tr.Prediction)
}

// PassesAll predicts passes for every satellite. Per-satellite propagation
// trouble is folded into each Prediction's diagnostic; only cancellation and
// configuration errors abort the batch.
func (tr *Tracker) PassesAll(ctx context.Context, sats []*Satellite, t time.Time) ([]Prediction, error) {
	out := make([]Prediction, 0, len(sats))
	for _, sat := range sats {
		pred, err := tr.Passes(ctx, sat, t)
		if err != nil {
			return nil, err
		}
		out = append(out, pred)
	}
	return out, nil
}
