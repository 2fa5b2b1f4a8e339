package track

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/litescript/ls-sattrack/internal/astro"
)

func issPropagator(t *testing.T) *SGP4Propagator {
	t.Helper()
	el, err := ParseTLE(issName, issLine1, issLine2)
	if err != nil {
		t.Fatalf("ParseTLE: %v", err)
	}
	prop, err := NewSGP4Propagator(el)
	if err != nil {
		t.Fatalf("NewSGP4Propagator: %v", err)
	}
	return prop
}

func TestSGP4Propagate_NearEpoch(t *testing.T) {
	prop := issPropagator(t)
	at := prop.Elements().Epoch.Add(10 * time.Minute)

	sv, err := prop.Propagate(at)
	if err != nil {
		t.Fatalf("Propagate: %v", err)
	}

	// LEO sanity: ~350-420 km altitude, ~7.7 km/s orbital speed.
	r := sv.Pos.Norm()
	if r < 6700 || r > 6810 {
		t.Errorf("position magnitude = %.1f km, want ISS altitude band", r)
	}
	speed := sv.SpeedKmS()
	if speed < 7.5 || speed > 7.9 {
		t.Errorf("speed = %.3f km/s, want ~7.7", speed)
	}
	if !sv.Time.Equal(at.UTC()) {
		t.Errorf("state time = %v, want %v", sv.Time, at.UTC())
	}
}

func TestSGP4Propagate_Idempotent(t *testing.T) {
	prop := issPropagator(t)
	at := prop.Elements().Epoch.Add(90 * time.Minute)

	a, err := prop.Propagate(at)
	if err != nil {
		t.Fatal(err)
	}
	b, err := prop.Propagate(at)
	if err != nil {
		t.Fatal(err)
	}

	if a.Pos != b.Pos || a.Vel != b.Vel {
		t.Errorf("repeated propagation differs: %+v vs %+v", a, b)
	}
}

func TestNewSGP4Propagator_RejectsBadLines(t *testing.T) {
	el := OrbitalElements{
		Name:  "BAD",
		Line1: "1 garbage",
		Line2: "2 garbage",
	}
	if _, err := NewSGP4Propagator(el); err == nil {
		t.Error("expected error for malformed TLE lines")
	}
}

func TestCheckStateVector(t *testing.T) {
	leo := StateVector{
		Pos: astro.Vec3{X: 6778, Y: 0, Z: 0},
		Vel: astro.Vec3{X: 0, Y: 7.67, Z: 0},
	}

	tests := []struct {
		name     string
		sv       StateVector
		wantKind ErrorKind
		wantErr  bool
	}{
		{"nominal LEO", leo, 0, false},
		{"geostationary radius", StateVector{Pos: astro.Vec3{X: 42164}}, 0, false},
		{
			"NaN position",
			StateVector{Pos: astro.Vec3{X: math.NaN()}, Vel: leo.Vel},
			KindDivergent, true,
		},
		{
			"infinite velocity",
			StateVector{Pos: leo.Pos, Vel: astro.Vec3{Y: math.Inf(1)}},
			KindDivergent, true,
		},
		{
			"decayed below atmosphere",
			StateVector{Pos: astro.Vec3{X: 3000}, Vel: leo.Vel},
			KindDegenerate, true,
		},
		{
			"extrapolated past model range",
			StateVector{Pos: astro.Vec3{X: 80000}, Vel: leo.Vel},
			KindDegenerate, true,
		},
		{
			"zero position",
			StateVector{},
			KindDegenerate, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkStateVector("SAT", tt.sv)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var perr *PropagationError
			if !errors.As(err, &perr) {
				t.Fatalf("error %v is not a PropagationError", err)
			}
			if perr.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", perr.Kind, tt.wantKind)
			}
		})
	}
}

func TestPropagationError(t *testing.T) {
	err := error(&PropagationError{Kind: KindDivergent, Name: "X", Msg: "non-finite output"})

	var perr *PropagationError
	if !errors.As(err, &perr) {
		t.Fatal("errors.As failed")
	}
	if perr.Kind != KindDivergent {
		t.Errorf("kind = %v", perr.Kind)
	}

	if KindDegenerate.String() != "degenerate" || KindDivergent.String() != "divergent" {
		t.Error("kind names wrong")
	}
}
