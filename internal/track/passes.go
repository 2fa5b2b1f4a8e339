package track

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/litescript/ls-sattrack/internal/astro"
)

// refineTolerance is the time precision for rise/set and culmination
// refinement. Look angles change by well under a tenth of a degree per
// second for anything SGP4 models, so one second is plenty.
const refineTolerance = time.Second

// PredictionConfig bounds a pass-prediction run.
type PredictionConfig struct {
	Horizon         time.Duration // how far ahead to search
	Step            time.Duration // coarse scan sample spacing
	MinElevationDeg float64       // pass threshold; 0 = horizon
	MaxPasses       int           // 0 = unlimited
}

// DefaultPredictionConfig returns the standard 24-hour LEO search. A 30 s
// step resolves any pass longer than a minute, which covers every orbit
// SGP4 is good for.
func DefaultPredictionConfig() PredictionConfig {
	return PredictionConfig{
		Horizon:         24 * time.Hour,
		Step:            30 * time.Second,
		MinElevationDeg: 0,
		MaxPasses:       0,
	}
}

// PredictionError reports an invalid prediction configuration, detected once
// up front rather than per sample.
type PredictionError struct {
	Field string
	Msg   string
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction config: %s: %s", e.Field, e.Msg)
}

// Validate checks the configuration.
func (c PredictionConfig) Validate() error {
	if c.Horizon <= 0 {
		return &PredictionError{Field: "horizon", Msg: "must be positive"}
	}
	if c.Step <= 0 {
		return &PredictionError{Field: "step", Msg: "must be positive"}
	}
	if c.Step > c.Horizon {
		return &PredictionError{Field: "step", Msg: "exceeds horizon"}
	}
	if c.MinElevationDeg < 0 || c.MinElevationDeg >= 90 {
		return &PredictionError{Field: "min_elevation", Msg: "out of [0, 90)"}
	}
	if c.MaxPasses < 0 {
		return &PredictionError{Field: "max_passes", Msg: "must not be negative"}
	}
	return nil
}

// Pass is one visibility interval of a satellite over an observer: the rise
// and set crossings of the elevation threshold and the culmination between
// them. Invariant: Rise < Max < Set.
type Pass struct {
	Satellite string
	Rise      time.Time
	RiseAzDeg float64
	Max       time.Time
	MaxAzDeg  float64
	MaxElDeg  float64
	Set       time.Time
	SetAzDeg  float64
}

// Duration returns the pass length.
func (p Pass) Duration() time.Duration {
	return p.Set.Sub(p.Rise)
}

// Prediction is the result of one prediction run for one satellite.
// A run that could not produce usable passes carries a Diagnostic instead
// of an error so batch callers keep going.
type Prediction struct {
	Satellite     string
	Start         time.Time
	Horizon       time.Duration
	Passes        []Pass
	SamplesTotal  int
	SamplesFailed int
	Diagnostic    string
}

// sample is one coarse-scan point. ok is false when propagation failed; a
// failed sample is "no data" and never fabricates a threshold transition.
type sample struct {
	t  time.Time
	az float64
	el float64
	ok bool
}

// lookAt propagates and transforms down to a look angle in one step.
func lookAt(prop Propagator, obs ObserverLocation, t time.Time) (astro.LookAngle, error) {
	sv, err := prop.Propagate(t)
	if err != nil {
		return astro.LookAngle{}, err
	}
	return obs.LookAt(astro.ECIToECEF(sv.ECI())), nil
}

// PredictPasses scans the horizon for intervals where the satellite's
// elevation is at or above the configured threshold and refines each
// boundary and culmination.
//
// The coarse step must be shorter than half the shortest pass of interest;
// a pass that rises and sets between two consecutive samples is not seen.
// Failed samples are skipped, and when more than half the horizon fails the
// run reports an empty pass list with a diagnostic rather than an error, so
// a decayed satellite never aborts a batch.
//
// The context is checked once per coarse step; on cancellation the partial
// result is discarded and ctx.Err() returned.
func PredictPasses(ctx context.Context, prop Propagator, obs ObserverLocation, satName string, start time.Time, cfg PredictionConfig) (Prediction, error) {
	if err := cfg.Validate(); err != nil {
		return Prediction{}, err
	}

	pred := Prediction{
		Satellite: satName,
		Start:     start,
		Horizon:   cfg.Horizon,
	}
	end := start.Add(cfg.Horizon)

	var (
		prev     sample
		havePrev bool
		inPass   bool
		rise     time.Time
		riseAz   float64
	)

	closePass := func(set time.Time, setAz float64) {
		p, ok := assemblePass(prop, obs, satName, rise, riseAz, set, setAz)
		if ok {
			pred.Passes = append(pred.Passes, p)
		}
		inPass = false
	}

	for t := start; !t.After(end); t = t.Add(cfg.Step) {
		if err := ctx.Err(); err != nil {
			return Prediction{}, err
		}

		pred.SamplesTotal++
		cur := sample{t: t}
		if la, err := lookAt(prop, obs, t); err == nil {
			cur.az = la.AzimuthDeg
			cur.el = la.ElevationDeg
			cur.ok = true
		} else {
			pred.SamplesFailed++
		}

		if !cur.ok {
			// No data: break the sample chain so the gap cannot register
			// as a crossing. An open pass stays open across the gap.
			havePrev = false
			continue
		}

		above := cur.el >= cfg.MinElevationDeg

		switch {
		case !inPass && above:
			inPass = true
			if havePrev && prev.el < cfg.MinElevationDeg {
				rise, riseAz = refineCrossing(prop, obs, prev.t, cur.t, cfg.MinElevationDeg)
			} else {
				// Already above threshold at the first usable sample.
				rise, riseAz = cur.t, cur.az
			}
		case inPass && !above:
			set, setAz := cur.t, cur.az
			if havePrev && prev.el >= cfg.MinElevationDeg {
				set, setAz = refineCrossing(prop, obs, prev.t, cur.t, cfg.MinElevationDeg)
			}
			closePass(set, setAz)
			if cfg.MaxPasses > 0 && len(pred.Passes) >= cfg.MaxPasses {
				sortPasses(pred.Passes)
				return pred, nil
			}
		}

		prev = cur
		havePrev = true
	}

	// A pass still open at the horizon edge is truncated there.
	if inPass && havePrev {
		closePass(prev.t, prev.az)
	}

	if pred.SamplesTotal > 0 && pred.SamplesFailed*2 > pred.SamplesTotal {
		pred.Passes = nil
		pred.Diagnostic = fmt.Sprintf("%d of %d samples failed to propagate; elements likely stale or orbit decayed",
			pred.SamplesFailed, pred.SamplesTotal)
		return pred, nil
	}

	sortPasses(pred.Passes)
	return pred, nil
}

func sortPasses(passes []Pass) {
	sort.Slice(passes, func(i, j int) bool {
		return passes[i].Rise.Before(passes[j].Rise)
	})
}

// assemblePass locates the culmination between refined rise and set and
// rejects degenerate intervals: non-positive duration, or a culmination that
// does not fall strictly inside the interval.
func assemblePass(prop Propagator, obs ObserverLocation, satName string, rise time.Time, riseAz float64, set time.Time, setAz float64) (Pass, bool) {
	if !rise.Before(set) {
		return Pass{}, false
	}

	maxT, maxAz, maxEl, ok := refineMax(prop, obs, rise, set)
	if !ok {
		return Pass{}, false
	}
	if !maxT.After(rise) || !maxT.Before(set) {
		// Clamp culminations pinned to a boundary by the tolerance to the
		// interval midpoint; a shorter interval is degenerate.
		if set.Sub(rise) <= 2*refineTolerance {
			return Pass{}, false
		}
		maxT = rise.Add(set.Sub(rise) / 2)
		if la, err := lookAt(prop, obs, maxT); err == nil {
			maxAz, maxEl = la.AzimuthDeg, la.ElevationDeg
		}
	}

	return Pass{
		Satellite: satName,
		Rise:      rise,
		RiseAzDeg: riseAz,
		Max:       maxT,
		MaxAzDeg:  maxAz,
		MaxElDeg:  maxEl,
		Set:       set,
		SetAzDeg:  setAz,
	}, true
}

// refineCrossing bisects the bracketing interval down to refineTolerance
// and returns the crossing time and the azimuth there. A propagation failure
// mid-bisection stops the refinement at the current bracket midpoint.
func refineCrossing(prop Propagator, obs ObserverLocation, lo, hi time.Time, thresholdDeg float64) (time.Time, float64) {
	loLa, loErr := lookAt(prop, obs, lo)
	if loErr != nil {
		return midpoint(lo, hi), 0
	}
	loAbove := loLa.ElevationDeg >= thresholdDeg

	for hi.Sub(lo) > refineTolerance {
		mid := midpoint(lo, hi)
		la, err := lookAt(prop, obs, mid)
		if err != nil {
			break
		}
		if (la.ElevationDeg >= thresholdDeg) == loAbove {
			lo = mid
		} else {
			hi = mid
		}
	}

	cross := midpoint(lo, hi)
	az := 0.0
	if la, err := lookAt(prop, obs, cross); err == nil {
		az = la.AzimuthDeg
	}
	return cross, az
}

// refineMax ternary-searches the elevation maximum inside [lo, hi].
// Elevation is unimodal within a single pass, which is what makes the
// bracketing search valid.
func refineMax(prop Propagator, obs ObserverLocation, lo, hi time.Time) (time.Time, float64, float64, bool) {
	for hi.Sub(lo) > refineTolerance {
		third := hi.Sub(lo) / 3
		m1 := lo.Add(third)
		m2 := hi.Add(-third)

		la1, err1 := lookAt(prop, obs, m1)
		la2, err2 := lookAt(prop, obs, m2)
		if err1 != nil || err2 != nil {
			break
		}

		if la1.ElevationDeg < la2.ElevationDeg {
			lo = m1
		} else {
			hi = m2
		}
	}

	peak := midpoint(lo, hi)
	la, err := lookAt(prop, obs, peak)
	if err != nil {
		return time.Time{}, 0, 0, false
	}
	return peak, la.AzimuthDeg, la.ElevationDeg, true
}

func midpoint(a, b time.Time) time.Time {
	return a.Add(b.Sub(a) / 2)
}
