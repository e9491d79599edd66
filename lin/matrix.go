// Copyright 2016 The Gofab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lin

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mat is a 3x3 matrix stored column-major; the columns hold the X, Y and Z
// basis vectors of a frame
type Mat = mgl64.Mat3

// MatFromBasis returns the matrix with columns x, y and z
func MatFromBasis(x, y, z Vec) Mat {
	return Mat{
		x[0], x[1], x[2],
		y[0], y[1], y[2],
		z[0], z[1], z[2],
	}
}

// FrameZ returns an orthonormal change-of-basis matrix whose Z basis equals
// refDir. Multiplying by this matrix expresses an axis given in the frame of
// a bone pointing along refDir in world coordinates.
//  Note: refDir within 0.0001 of ±Y hits a singularity; world-X is used as
//  the X basis there.
func FrameZ(refDir Vec) (m Mat) {
	z := Unit(refDir)
	var x, y Vec
	if math.Abs(z.Y()) > 0.9999 {
		x = Vec{1, 0, 0}
		y = Unit(x.Cross(z))
	} else {
		x = Unit(z.Cross(Vec{0, 1, 0}))
		y = Unit(x.Cross(z))
	}
	return MatFromBasis(x, y, z)
}
