// Copyright 2016 The Gofab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ik

import (
	"math"
	"testing"

	"github.com/cpmech/gofab/lin"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// newUnitChain returns a chain of nbones bones with unit length stacked from
// the origin along dir, with unconstrained ball joints
func newUnitChain(name string, nbones int, dir lin.Vec) (o *Chain) {
	o = NewChain(name)
	b, err := NewBoneDirLen(lin.Vec{}, dir, 1)
	if err != nil {
		chk.Panic("cannot create basebone: %v", err)
	}
	o.AddBone(b)
	for i := 1; i < nbones; i++ {
		if err := o.AddConsecutiveBone(dir, 1); err != nil {
			chk.Panic("cannot add bone # %d: %v", i, err)
		}
	}
	return
}

// setTightSolve makes a chain iterate until numerical convergence
func setTightSolve(o *Chain, maxIts int) {
	o.SetSolveDistanceThreshold(1e-4)
	o.SetMaxIterationAttempts(maxIts)
	o.SetMinIterationChange(1e-9)
}

// checkLengths verifies that all live bone lengths match the stored lengths
func checkLengths(tst *testing.T, c *Chain, tol float64) {
	for i, b := range c.bones {
		if e := math.Abs(b.LiveLength() - b.Length()); e > tol {
			tst.Errorf("bone # %d: live length drifted from stored length (error = %g)\n", i, e)
		}
	}
}
