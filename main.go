// Copyright 2016 The Gofab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"

	"github.com/cpmech/gofab/inp"
	"github.com/cpmech/gofab/out"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	// message
	io.PfWhite("\nGofab -- FABRIK inverse kinematics\n\n")

	// rig filenamepath
	flag.Parse()
	var fnamepath string
	if len(flag.Args()) > 0 {
		fnamepath = flag.Arg(0)
	} else {
		chk.Panic("Please, provide a filename. Ex.: arm.fab")
	}

	// check extension
	if io.FnExt(fnamepath) == "" {
		fnamepath += ".fab"
	}

	// other options
	doplot := false
	if len(flag.Args()) > 1 {
		doplot = io.Atob(flag.Arg(1))
	}

	// read input and build structure
	rig, err := inp.ReadRig(fnamepath)
	if err != nil {
		chk.Panic("cannot read rig:\n%v", err)
	}
	st, err := rig.BuildStructure()
	if err != nil {
		chk.Panic("cannot build structure:\n%v", err)
	}
	io.Pf("%s: %d chains\n", rig.Desc, st.NumChains())

	// time stepping for moving targets
	nsteps := rig.Nsteps
	if nsteps < 1 {
		nsteps = 1
	}
	T := []float64{0}
	if nsteps > 1 {
		T = utl.LinSpace(0, rig.Tf, nsteps)
	}

	// solve
	for _, t := range T {
		targets, err := rig.TargetsAt(t)
		if err != nil {
			chk.Panic("cannot evaluate targets:\n%v", err)
		}
		if err := st.SolveForTargets(targets); err != nil {
			chk.Panic("solve failed:\n%v", err)
		}
		io.Pf("t=%8.4f:", t)
		for i := 0; i < st.NumChains(); i++ {
			c, _ := st.Chain(i)
			io.Pf("  %s=%.4f", c.Name(), c.SolveDistance())
		}
		io.Pf("\n")
	}

	// report
	io.Pf("\n%v", out.Report(st))

	// plot
	if doplot {
		targets, _ := rig.TargetsAt(rig.Tf)
		if err := out.Plot(st, targets, "/tmp/gofab", rig.FnKey); err != nil {
			chk.Panic("cannot save figure:\n%v", err)
		}
		io.Pf("figure saved to /tmp/gofab/%s.png\n", rig.FnKey)
	}
}
