package astro

import (
	"math"
	"testing"
	"time"
)

func TestECIToECEF_PreservesMagnitudeAndZ(t *testing.T) {
	s := ECIState{
		Pos:  Vec3{X: 5102.5096, Y: 6123.01152, Z: 6378.1363},
		Vel:  Vec3{X: -4.7432196, Y: 0.7905366, Z: 5.53375619},
		Time: time.Date(2026, 8, 29, 3, 17, 2, 0, time.UTC),
	}

	out := ECIToECEF(s)

	if !approxEq(out.Pos.Norm(), s.Pos.Norm(), 1e-9) {
		t.Errorf("position magnitude changed: %v -> %v", s.Pos.Norm(), out.Pos.Norm())
	}
	if !approxEq(out.Pos.Z, s.Pos.Z, 1e-12) {
		t.Errorf("z component changed: %v -> %v", s.Pos.Z, out.Pos.Z)
	}
	if !out.Time.Equal(s.Time) {
		t.Errorf("timestamp not carried through: %v", out.Time)
	}
}

func TestECIToECEF_GeostationaryVelocityCancels(t *testing.T) {
	// A satellite co-rotating with the Earth is stationary in the fixed frame.
	// Build its inertial state from the sidereal angle at the chosen instant
	// and check that the transport term removes the orbital velocity.
	at := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	theta := GMST(at)
	const r = 42164.0

	s := ECIState{
		Pos: Vec3{X: r * math.Cos(theta), Y: r * math.Sin(theta), Z: 0},
		Vel: Vec3{
			X: -r * OmegaEarth * math.Sin(theta),
			Y: r * OmegaEarth * math.Cos(theta),
			Z: 0,
		},
		Time: at,
	}

	out := ECIToECEF(s)

	if !approxEq(out.Pos.X, r, 1e-6) || !approxEq(out.Pos.Y, 0, 1e-6) {
		t.Errorf("geostationary ECEF position = %+v, want (%v, 0, 0)", out.Pos, r)
	}
	if out.Vel.Norm() > 1e-9 {
		t.Errorf("geostationary ECEF velocity = %+v, want ~0", out.Vel)
	}
}

func TestECIToECEF_RotationDirection(t *testing.T) {
	// With a 90 degree sidereal angle the inertial +X axis maps to the fixed
	// frame -Y axis.
	s := ECIState{Pos: Vec3{X: 7000, Y: 0, Z: 0}}
	out := eciToECEFWithGMST(s, math.Pi/2)

	if !approxEq(out.Pos.X, 0, 1e-9) || !approxEq(out.Pos.Y, -7000, 1e-9) {
		t.Errorf("rotated position = %+v, want (0, -7000, 0)", out.Pos)
	}
}
