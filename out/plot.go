// Copyright 2016 The Gofab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"github.com/cpmech/gofab/ik"
	"github.com/cpmech/gofab/lin"
	"github.com/cpmech/gosl/plt"
	"github.com/cpmech/gosl/utl"
)

// Plot draws all chains of a structure as 3D polylines, with one marker per
// joint and a star per target, and saves the figure to dirout/fnkey
func Plot(st *ik.Structure, targets map[string]lin.Vec, dirout, fnkey string) (err error) {

	plt.Reset(true, &plt.A{WidthPt: 500, Dpi: 150})

	// track the bounding box to set the view
	lo, hi := +1e30, -1e30
	grow := func(vals ...float64) {
		for _, v := range vals {
			lo = utl.Min(lo, v)
			hi = utl.Max(hi, v)
		}
	}

	for i := 0; i < st.NumChains(); i++ {
		c, _ := st.Chain(i)
		n := c.NumBones()
		if n == 0 {
			continue
		}
		X := make([]float64, n+1)
		Y := make([]float64, n+1)
		Z := make([]float64, n+1)
		b, _ := c.Bone(0)
		X[0], Y[0], Z[0] = b.Start().X(), b.Start().Y(), b.Start().Z()
		for k := 0; k < n; k++ {
			b, _ = c.Bone(k)
			X[k+1], Y[k+1], Z[k+1] = b.End().X(), b.End().Y(), b.End().Z()
			grow(X[k+1], Y[k+1], Z[k+1])
		}
		grow(X[0], Y[0], Z[0])
		plt.Plot3dLine(X, Y, Z, &plt.A{C: plt.C(i, 0), M: "o", L: c.Name()})
	}

	if len(targets) > 0 {
		X := make([]float64, 0, len(targets))
		Y := make([]float64, 0, len(targets))
		Z := make([]float64, 0, len(targets))
		for _, t := range targets {
			X = append(X, t.X())
			Y = append(Y, t.Y())
			Z = append(Z, t.Z())
			grow(t.X(), t.Y(), t.Z())
		}
		plt.Plot3dPoints(X, Y, Z, &plt.A{C: "k", M: "*", Ms: 10})
	}

	plt.Default3dView(lo, hi, lo, hi, lo, hi, true)
	return plt.Save(dirout, fnkey)
}
