// Copyright 2016 The Gofab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lin

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_vec01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vec01. basic operations")

	a := New(3, 4, 0)
	u := Unit(a)
	chk.Vector(tst, "unit(a)", 1e-15, u[:], []float64{0.6, 0.8, 0})
	chk.Scalar(tst, "|unit(a)|", 1e-15, u.Len(), 1)

	// zero vector is returned unchanged
	z := Unit(Vec{})
	chk.Vector(tst, "unit(0)", 1e-17, z[:], nil)

	// dot product uses normalised inputs; the method gives the raw product
	chk.Scalar(tst, "dot", 1e-15, Dot(Vec{10, 0, 0}, Vec{0, 5, 0}), 0)
	chk.Scalar(tst, "dot", 1e-15, Dot(Vec{2, 0, 0}, Vec{7, 0, 0}), 1)
	chk.Scalar(tst, "raw dot", 1e-15, Vec{2, 0, 0}.Dot(Vec{7, 0, 0}), 14)

	chk.Scalar(tst, "dist", 1e-15, Dist(Vec{1, 1, 1}, Vec{1, 5, 1}), 4)

	if !Approx(Vec{1, 2, 3}, Vec{1.0005, 2, 3}, EqualityTol) {
		tst.Errorf("vectors within tolerance flagged as different\n")
	}
	if Approx(Vec{1, 2, 3}, Vec{1.1, 2, 3}, EqualityTol) {
		tst.Errorf("vectors outside tolerance flagged as equal\n")
	}
}

func Test_vec02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vec02. angles")

	chk.Scalar(tst, "θ(x,y)", 1e-13, AngleBetweenDeg(Vec{1, 0, 0}, Vec{0, 1, 0}), 90)
	chk.Scalar(tst, "θ(x,x)", 1e-13, AngleBetweenDeg(Vec{2, 0, 0}, Vec{5, 0, 0}), 0)

	// antiparallel input must not produce NaN
	θ := AngleBetweenDeg(Vec{1, 0, 0}, Vec{-1, 0, 0})
	if math.IsNaN(θ) {
		tst.Errorf("angle between antiparallel vectors is NaN\n")
	}
	chk.Scalar(tst, "θ(x,-x)", 1e-13, θ, 180)

	// signed angle takes its sign about the normal
	chk.Scalar(tst, "signed θ", 1e-13, SignedAngleDeg(Vec{1, 0, 0}, Vec{0, 0, 1}, Vec{0, 1, 0}), -90)
	chk.Scalar(tst, "signed θ", 1e-13, SignedAngleDeg(Vec{1, 0, 0}, Vec{0, 1, 0}, Vec{0, 0, 1}), 90)
	io.Pforan("signed θ = %v\n", SignedAngleDeg(Vec{1, 0, 0}, Vec{0, 1, 0}, Vec{0, 0, 1}))
}

func Test_vec03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vec03. projection, rotation, perpendiculars and limiting")

	p := ProjectOntoPlane(Vec{1, 1, 0}, Vec{0, 1, 0})
	chk.Vector(tst, "proj", 1e-15, p[:], []float64{1, 0, 0})

	r := RotateAboutAxisDeg(Vec{1, 0, 0}, 90, Vec{0, 0, 1})
	chk.Vector(tst, "rot", 1e-15, r[:], []float64{0, 1, 0})

	// axis need not be unit length
	r = RotateAboutAxisDeg(Vec{1, 0, 0}, 90, Vec{0, 0, 10})
	chk.Vector(tst, "rot", 1e-15, r[:], []float64{0, 1, 0})

	for _, u := range []Vec{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 2, 3}} {
		perp := PerpQuick(u)
		chk.Scalar(tst, "perp ⊥ u", 1e-15, perp.Dot(u), 0)
		chk.Scalar(tst, "|perp|", 1e-15, perp.Len(), 1)
	}

	// within the limit: input is returned normalised
	l := LimitAngleDeg(Vec{2, 1, 0}, Vec{1, 0, 0}, 60)
	chk.Vector(tst, "limited", 1e-15, l[:], Slice(Unit(Vec{2, 1, 0})))

	// beyond the limit: baseline rotated by exactly the limit
	l = LimitAngleDeg(Vec{0, 1, 0}, Vec{1, 0, 0}, 45)
	s := math.Sqrt2 / 2.0
	chk.Vector(tst, "limited", 1e-15, l[:], []float64{s, s, 0})
	chk.Scalar(tst, "θ(limited,baseline)", 1e-13, AngleBetweenDeg(l, Vec{1, 0, 0}), 45)
}
