package astro

import (
	"math"
	"time"
)

// ECIState is a position/velocity pair in the Earth-centered inertial frame,
// in km and km/s, valid at Time.
type ECIState struct {
	Pos  Vec3
	Vel  Vec3
	Time time.Time
}

// ECEFState is a position/velocity pair in the Earth-fixed rotating frame,
// in km and km/s, valid at Time.
type ECEFState struct {
	Pos  Vec3
	Vel  Vec3
	Time time.Time
}

// ECIToECEF rotates an inertial state into the Earth-fixed frame at the
// state's own instant. The rotation is about the polar axis only, by the
// Greenwich sidereal angle; polar motion and nutation are ignored, which
// costs on the order of tens of meters and is irrelevant at look-angle
// accuracy.
func ECIToECEF(s ECIState) ECEFState {
	return eciToECEFWithGMST(s, GMST(s.Time))
}

// eciToECEFWithGMST performs the rotation with a precomputed sidereal angle.
//
//	r_ecef = R3(θ) · r_eci
//	v_ecef = R3(θ) · v_eci − ω × r_ecef
func eciToECEFWithGMST(s ECIState, gmst float64) ECEFState {
	cosG := math.Cos(gmst)
	sinG := math.Sin(gmst)

	pos := Vec3{
		X: s.Pos.X*cosG + s.Pos.Y*sinG,
		Y: -s.Pos.X*sinG + s.Pos.Y*cosG,
		Z: s.Pos.Z,
	}

	vel := Vec3{
		X: s.Vel.X*cosG + s.Vel.Y*sinG + OmegaEarth*pos.Y,
		Y: -s.Vel.X*sinG + s.Vel.Y*cosG - OmegaEarth*pos.X,
		Z: s.Vel.Z,
	}

	return ECEFState{Pos: pos, Vel: vel, Time: s.Time}
}
