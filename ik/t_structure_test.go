// Copyright 2016 The Gofab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ik

import (
	"testing"

	"github.com/cpmech/gofab/lin"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_struct01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("struct01. chain registry")

	st := NewStructure("rig")
	chk.IntAssert(st.NumChains(), 0)

	if err := st.AddChain(newUnitChain("arm", 2, lin.Vec{0, 1, 0})); err != nil {
		tst.Errorf("AddChain failed: %v\n", err)
	}
	if err := st.AddChain(newUnitChain("leg", 2, lin.Vec{0, -1, 0})); err != nil {
		tst.Errorf("AddChain failed: %v\n", err)
	}
	chk.IntAssert(st.NumChains(), 2)

	// names are unique
	if err := st.AddChain(newUnitChain("arm", 1, lin.Vec{1, 0, 0})); err == nil {
		tst.Errorf("duplicate chain name must be rejected\n")
	}
	if err := st.AddChain(NewChain("")); err == nil {
		tst.Errorf("empty chain name must be rejected\n")
	}

	// lookups
	c, err := st.ChainByName("leg")
	if err != nil {
		tst.Errorf("ChainByName failed: %v\n", err)
		return
	}
	chk.StrAssert(c.Name(), "leg")
	if _, err := st.ChainByName("tail"); err == nil {
		tst.Errorf("unknown chain name must be rejected\n")
	}
	if _, err := st.Chain(5); err == nil {
		tst.Errorf("out-of-range chain index must be rejected\n")
	}

	// removal shifts indices and stored connections
	if err := st.ConnectChain(newUnitChain("hand", 1, lin.Vec{1, 0, 0}), 1, 1, ConnectionEnd); err != nil {
		tst.Errorf("ConnectChain failed: %v\n", err)
		return
	}
	if err := st.RemoveChain(1); err == nil {
		tst.Errorf("removing a chain with dependents must be rejected\n")
	}
	if err := st.RemoveChain(0); err != nil {
		tst.Errorf("RemoveChain failed: %v\n", err)
		return
	}
	chk.IntAssert(st.NumChains(), 2)
	hand, _ := st.ChainByName("hand")
	chk.IntAssert(hand.ConnectedChainNumber(), 0)
	i, _ := st.ChainIndex("leg")
	chk.IntAssert(i, 0)
}

func Test_struct02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("struct02. connecting clones chains")

	st := NewStructure("rig")
	host := newUnitChain("arm", 3, lin.Vec{0, 1, 0})
	st.AddChain(host)

	orig := newUnitChain("hand", 2, lin.Vec{1, 0, 0})
	if err := st.ConnectChain(orig, 0, 1, ConnectionEnd); err != nil {
		tst.Errorf("ConnectChain failed: %v\n", err)
		return
	}

	// the copy is re-based onto the host bone's end
	hand, _ := st.ChainByName("hand")
	chk.Vector(tst, "hand base", 1e-15, lin.Slice(hand.BasePosition()), []float64{0, 2, 0})
	chk.Vector(tst, "hand tip", 1e-15, lin.Slice(hand.EffectorPosition()), []float64{2, 2, 0})
	if !hand.FixedBaseMode() {
		tst.Errorf("connected chain must have a fixed base\n")
	}
	chk.IntAssert(hand.ConnectedChainNumber(), 0)
	chk.IntAssert(hand.ConnectedBoneNumber(), 1)

	// the host bone records the connection point
	hb, _ := host.Bone(1)
	chk.IntAssert(int(hb.ConnectionPoint()), int(ConnectionEnd))

	// no aliasing: mutating the caller's chain leaves the copy untouched
	ob, _ := orig.Bone(0)
	ob.SetEnd(lin.Vec{9, 9, 9})
	hb0, _ := hand.Bone(0)
	chk.Vector(tst, "clone bone end", 1e-15, lin.Slice(hb0.End()), []float64{1, 2, 0})

	// a connected chain cannot release its base
	if err := hand.SetFixedBaseMode(false); err == nil {
		tst.Errorf("releasing the base of a connected chain must be rejected\n")
	}

	// invalid connection requests
	if err := st.ConnectChain(newUnitChain("x", 1, lin.Vec{1, 0, 0}), 7, 0, ConnectionEnd); err == nil {
		tst.Errorf("out-of-range host chain must be rejected\n")
	}
	if err := st.ConnectChain(newUnitChain("x", 1, lin.Vec{1, 0, 0}), 0, 9, ConnectionStart); err == nil {
		tst.Errorf("out-of-range host bone must be rejected\n")
	}
	if err := st.ConnectChain(NewChain("x"), 0, 0, ConnectionStart); err == nil {
		tst.Errorf("connecting an empty chain must be rejected\n")
	}
}

func Test_struct03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("struct03. connected chain with local rotor basebone")

	st := NewStructure("rig")
	a := newUnitChain("A", 3, lin.Vec{0, 1, 0})
	st.AddChain(a)

	b := newUnitChain("B", 3, lin.Vec{1, 0, 0})
	if err := b.SetRotorBaseboneConstraint(BaseboneLocalRotor, lin.Vec{1, 0, 0}, 30); err != nil {
		tst.Errorf("SetRotorBaseboneConstraint failed: %v\n", err)
		return
	}
	b.SetSolveDistanceThreshold(1e-4)
	b.SetMaxIterationAttempts(100)
	b.SetMinIterationChange(1e-6)
	if err := st.ConnectChain(b, 0, 1, ConnectionEnd); err != nil {
		tst.Errorf("ConnectChain failed: %v\n", err)
		return
	}

	if err := st.SolveForTargets(map[string]lin.Vec{"B": {5, 5, 0}}); err != nil {
		tst.Errorf("SolveForTargets failed: %v\n", err)
		return
	}

	// B's base coincides with the end of A's middle bone
	bc, _ := st.ChainByName("B")
	ab, _ := a.Bone(1)
	chk.Vector(tst, "B base", 1e-15, lin.Slice(bc.BasePosition()), lin.Slice(ab.End()))

	// B's basebone lies within 30 degrees of the host-relative (1,0,0)
	bb, _ := bc.Bone(0)
	m := lin.FrameZ(ab.Direction())
	rel := lin.Unit(m.Mul3x1(lin.Vec{1, 0, 0}))
	θ := lin.AngleBetweenDeg(bb.Direction(), rel)
	io.Pforan("θ = %v, dist = %v\n", θ, bc.SolveDistance())
	if θ > 30.5 {
		tst.Errorf("local rotor basebone constraint violated (θ = %g)\n", θ)
	}
	checkLengths(tst, bc, 1e-10)

	// the host stayed untouched (it had no target)
	chk.Vector(tst, "A tip", 1e-15, lin.Slice(a.EffectorPosition()), []float64{0, 3, 0})
}

func Test_struct04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("struct04. connected chain with local hinge basebone")

	st := NewStructure("rig")
	a := newUnitChain("A", 3, lin.Vec{0, 1, 0})
	st.AddChain(a)

	b := newUnitChain("B", 2, lin.Vec{1, 0, 0})
	if err := b.SetHingeBaseboneConstraint(BaseboneLocalHinge, lin.Vec{0, 1, 0}, 45, 45, lin.Vec{1, 0, 0}); err != nil {
		tst.Errorf("SetHingeBaseboneConstraint failed: %v\n", err)
		return
	}
	b.SetSolveDistanceThreshold(1e-4)
	b.SetMaxIterationAttempts(100)
	b.SetMinIterationChange(1e-6)
	if err := st.ConnectChain(b, 0, 1, ConnectionEnd); err != nil {
		tst.Errorf("ConnectChain failed: %v\n", err)
		return
	}

	// the target sits at +90 degrees in the host-relative hinge frame, so
	// the basebone must stop at the anticlockwise limit
	if err := st.SolveForTargets(map[string]lin.Vec{"B": {0, 9, 0}}); err != nil {
		tst.Errorf("SolveForTargets failed: %v\n", err)
		return
	}
	bc, _ := st.ChainByName("B")
	ab, _ := a.Bone(1)
	chk.Vector(tst, "B base", 1e-15, lin.Slice(bc.BasePosition()), lin.Slice(ab.End()))

	m := lin.FrameZ(ab.Direction())
	relAxis := lin.Unit(m.Mul3x1(lin.Vec{0, 1, 0}))
	relRef := lin.Unit(m.Mul3x1(lin.Vec{1, 0, 0}))
	bb, _ := bc.Bone(0)
	u := bb.Direction()
	chk.Scalar(tst, "off-plane", 1e-12, u.Dot(relAxis), 0)
	chk.Scalar(tst, "signed θ", 1e-6, lin.SignedAngleDeg(relRef, u, relAxis), 45)
	checkLengths(tst, bc, 1e-10)
}

func Test_struct05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("struct05. whole-structure solves")

	st := NewStructure("rig")
	a := newUnitChain("A", 2, lin.Vec{0, 1, 0})
	setTightSolve(a, 100)
	st.AddChain(a)

	e := newUnitChain("E", 2, lin.Vec{1, 0, 0})
	setTightSolve(e, 100)
	e.SetEmbeddedTargetMode(true)
	e.UpdateEmbeddedTarget(lin.Vec{1, 0, 1})
	st.AddChain(e)

	// one target for every chain; the embedded chain prefers its own
	if err := st.SolveForTarget(lin.Vec{1, 1, 0}); err != nil {
		tst.Errorf("SolveForTarget failed: %v\n", err)
		return
	}
	chk.Vector(tst, "A tip", 1e-3, lin.Slice(a.EffectorPosition()), []float64{1, 1, 0})
	chk.Vector(tst, "E tip", 1e-3, lin.Slice(e.EffectorPosition()), []float64{1, 0, 1})

	// per-name targets: missing names are skipped
	before := e.EffectorPosition()
	e.SetEmbeddedTargetMode(false)
	if err := st.SolveForTargets(map[string]lin.Vec{"A": {0, 1, 1}}); err != nil {
		tst.Errorf("SolveForTargets failed: %v\n", err)
		return
	}
	chk.Vector(tst, "A tip", 1e-3, lin.Slice(a.EffectorPosition()), []float64{0, 1, 1})
	chk.Vector(tst, "E tip", 1e-15, lin.Slice(e.EffectorPosition()), lin.Slice(before))
}
