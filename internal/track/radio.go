package track

import (
	"fmt"
	"math"

	"github.com/litescript/ls-sattrack/internal/astro"
)

// SpeedOfLight in km/s, matching the km/s range rates from the topocentric
// transform.
const SpeedOfLight = 299792.458

// RadioConfig holds the link thresholds and frequencies for one station (or
// a per-satellite override of it).
type RadioConfig struct {
	DownlinkMHz      float64
	UplinkMHz        float64
	MinElevationDeg  float64 // communication-window threshold, inclusive
	ReferenceRangeKm float64 // range at which quality equals ReferenceQuality
	ReferenceQuality float64 // quality in (0,1] at the reference range
}

// Validate reports threshold errors once at setup.
func (c RadioConfig) Validate() error {
	if c.DownlinkMHz <= 0 {
		return fmt.Errorf("radio: downlink frequency %v MHz must be positive", c.DownlinkMHz)
	}
	if c.UplinkMHz < 0 {
		return fmt.Errorf("radio: uplink frequency %v MHz must not be negative", c.UplinkMHz)
	}
	if c.MinElevationDeg < 0 || c.MinElevationDeg >= 90 {
		return fmt.Errorf("radio: minimum elevation %v out of [0, 90)", c.MinElevationDeg)
	}
	if c.ReferenceRangeKm <= 0 {
		return fmt.Errorf("radio: reference range %v km must be positive", c.ReferenceRangeKm)
	}
	if c.ReferenceQuality <= 0 || c.ReferenceQuality > 1 {
		return fmt.Errorf("radio: reference quality %v out of (0, 1]", c.ReferenceQuality)
	}
	return nil
}

// SignalStrength is a coarse link-quality tier derived from elevation and
// range.
type SignalStrength int

const (
	SignalNone SignalStrength = iota
	SignalPoor
	SignalFair
	SignalGood
	SignalExcellent
)

// String returns the tier name.
func (s SignalStrength) String() string {
	switch s {
	case SignalExcellent:
		return "Excellent"
	case SignalGood:
		return "Good"
	case SignalFair:
		return "Fair"
	case SignalPoor:
		return "Poor"
	default:
		return "No Signal"
	}
}

// DopplerShift holds the downlink and uplink corrections for one instant.
type DopplerShift struct {
	DownlinkShiftHz     float64
	DownlinkObservedMHz float64
	UplinkShiftHz       float64
	UplinkCorrectedMHz  float64
}

// DopplerShiftHz computes the non-relativistic Doppler shift for a carrier:
//
//	Δf = −f₀ · ṙ / c
//
// Sign convention: range rate is negative while the satellite approaches, so
// an approaching satellite produces a positive shift (the received downlink
// is above the nominal frequency) and a receding one a negative shift.
func DopplerShiftHz(baseMHz, rangeRateKmS float64) float64 {
	return -(baseMHz * 1e6) * rangeRateKmS / SpeedOfLight
}

// ComputeDoppler derives the observed downlink frequency and the
// pre-compensated uplink frequency from the range rate. The uplink correction
// has the opposite sign: to be received on-frequency by an approaching
// satellite, the ground station must transmit below nominal.
func ComputeDoppler(downMHz, upMHz, rangeRateKmS float64) DopplerShift {
	downShift := DopplerShiftHz(downMHz, rangeRateKmS)
	upShift := -DopplerShiftHz(upMHz, rangeRateKmS)

	return DopplerShift{
		DownlinkShiftHz:     downShift,
		DownlinkObservedMHz: downMHz + downShift/1e6,
		UplinkShiftHz:       upShift,
		UplinkCorrectedMHz:  upMHz + upShift/1e6,
	}
}

// SignalTier maps elevation and slant range onto a coarse strength tier.
// The table is a rule of thumb for LEO amateur work, not a link budget.
func SignalTier(elevDeg, rangeKm float64) SignalStrength {
	switch {
	case elevDeg >= 45 && rangeKm < 2000:
		return SignalExcellent
	case elevDeg >= 30 && rangeKm < 2500:
		return SignalGood
	case elevDeg >= 15 && rangeKm < 3000:
		return SignalFair
	case elevDeg >= 5:
		return SignalPoor
	default:
		return SignalNone
	}
}

// SignalQuality estimates link quality in [0, 1] as a quantity falling off
// inversely with range, anchored at a configured reference point. An
// approximation with no claim of calibrated accuracy.
func SignalQuality(rangeKm, refRangeKm, refQuality float64) float64 {
	if rangeKm <= 0 {
		return 1
	}
	q := refQuality * refRangeKm / rangeKm
	return math.Max(0, math.Min(1, q))
}

// RecommendedMode suggests an operating mode for the current elevation, or
// "" when no contact is advisable.
func RecommendedMode(elevDeg float64) string {
	switch {
	case elevDeg >= 30:
		return "FM/SSB"
	case elevDeg >= 15:
		return "SSB"
	case elevDeg >= 10:
		return "SSB (difficult)"
	default:
		return ""
	}
}

// LinkReport is the radio evaluation of one look angle: window admissibility,
// Doppler corrections, and the signal heuristics.
type LinkReport struct {
	Open     bool
	Reason   string
	Doppler  DopplerShift
	Strength SignalStrength
	Quality  float64
	Mode     string
}

// EvaluateWindow tests a look angle against the radio thresholds. The window
// is open iff elevation is at or above the configured minimum; a satellite
// sitting exactly on the threshold counts as reachable.
func EvaluateWindow(la astro.LookAngle, cfg RadioConfig) LinkReport {
	rep := LinkReport{
		Doppler:  ComputeDoppler(cfg.DownlinkMHz, cfg.UplinkMHz, la.RangeRateKmS),
		Strength: SignalTier(la.ElevationDeg, la.RangeKm),
		Quality:  SignalQuality(la.RangeKm, cfg.ReferenceRangeKm, cfg.ReferenceQuality),
		Mode:     RecommendedMode(la.ElevationDeg),
	}

	if la.ElevationDeg < 0 {
		rep.Strength = SignalNone
		rep.Quality = 0
		rep.Reason = "below horizon"
		return rep
	}

	if la.ElevationDeg >= cfg.MinElevationDeg {
		rep.Open = true
		rep.Reason = fmt.Sprintf("el %.1f°, range %.0f km", la.ElevationDeg, la.RangeKm)
	} else {
		rep.Reason = fmt.Sprintf("elevation %.1f° below %.1f° threshold", la.ElevationDeg, cfg.MinElevationDeg)
	}
	return rep
}
