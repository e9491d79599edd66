// Copyright 2016 The Gofab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package lin implements the 3D vector and rotation operations needed by the
// FABRIK solver, on top of mathgl's 64-bit types
package lin

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/go-gl/mathgl/mgl64"
)

// Vec is a 3-component vector (or point) with 64-bit components
type Vec = mgl64.Vec3

// EqualityTol is the default tolerance for comparing vector components
const EqualityTol = 0.001

// New returns a new vector
func New(x, y, z float64) Vec {
	return Vec{x, y, z}
}

// Unit returns the unit vector parallel to v. A zero vector is returned
// unchanged; callers with possibly degenerate input must re-check.
func Unit(v Vec) Vec {
	l := v.Len()
	if l > 0 {
		return v.Mul(1.0 / l)
	}
	return v
}

// Dot returns the dot product of the normalised versions of a and b.
// Use the Dot method on Vec for the raw scalar product.
func Dot(a, b Vec) float64 {
	return Unit(a).Dot(Unit(b))
}

// Slice returns the components of v as a newly backed slice
func Slice(v Vec) []float64 {
	return v[:]
}

// Dist returns the distance between points a and b
func Dist(a, b Vec) float64 {
	return b.Sub(a).Len()
}

// Approx tells whether a and b are component-wise equal within tol
func Approx(a, b Vec, tol float64) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

// AngleBetween returns the unsigned angle [rad] between a and b, in [0,π]
func AngleBetween(a, b Vec) (θ float64) {
	d := Dot(a, b)
	if d > 1 {
		d = 1
	} else if d < -1 {
		d = -1
	}
	return math.Acos(d)
}

// AngleBetweenDeg returns the unsigned angle [deg] between a and b, in [0,180]
func AngleBetweenDeg(a, b Vec) (θdeg float64) {
	return mgl64.RadToDeg(AngleBetween(a, b))
}

// SignedAngleDeg returns the signed angle [deg] from ref to other, in
// (-180,180], with the sign taken about the given normal
func SignedAngleDeg(ref, other, normal Vec) (θdeg float64) {
	θdeg = AngleBetweenDeg(ref, other)
	if ref.Cross(other).Dot(normal) < 0 {
		return -θdeg
	}
	return
}

// ProjectOntoPlane returns the unit vector resulting from projecting v onto
// the plane through the origin with the given normal
func ProjectOntoPlane(v, normal Vec) (proj Vec) {
	if !(normal.Len() > 0) {
		chk.Panic("cannot project vector onto plane defined by zero normal")
	}
	n := Unit(normal)
	return Unit(Unit(v).Sub(n.Mul(Dot(v, normal))))
}

// RotateAboutAxis returns v rotated by θ [rad] about axis. The axis need not
// be unit length, but cannot be zero.
func RotateAboutAxis(v Vec, θ float64, axis Vec) (res Vec) {
	if !(axis.Len() > 0) {
		chk.Panic("cannot rotate vector about zero axis")
	}
	return mgl64.QuatRotate(θ, Unit(axis)).Rotate(v)
}

// RotateAboutAxisDeg returns v rotated by θdeg [deg] about axis
func RotateAboutAxisDeg(v Vec, θdeg float64, axis Vec) (res Vec) {
	return RotateAboutAxis(v, mgl64.DegToRad(θdeg), axis)
}

// PerpQuick returns a unit vector perpendicular to u, without trig calls
func PerpQuick(u Vec) (perp Vec) {
	if math.Abs(u.Y()) < 0.99 {
		return Unit(Vec{-u.Z(), 0, u.X()})
	}
	return Unit(Vec{0, u.Z(), -u.Y()})
}

// LimitAngleDeg returns v normalised if the angle between baseline and v does
// not exceed limDeg [deg]; otherwise it returns baseline rotated by exactly
// limDeg towards v, about the axis perpendicular to both
func LimitAngleDeg(v, baseline Vec, limDeg float64) (unit Vec) {
	θdeg := AngleBetweenDeg(baseline, v)
	if θdeg > limDeg {
		axis := Unit(baseline).Cross(Unit(v))
		if !(axis.Len() > 0) {
			// antiparallel input has no unique rotation plane
			axis = PerpQuick(baseline)
		}
		return Unit(RotateAboutAxisDeg(baseline, limDeg, axis))
	}
	return Unit(v)
}
