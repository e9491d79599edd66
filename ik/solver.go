// Copyright 2016 The Gofab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ik

import (
	"math"

	"github.com/cpmech/gofab/lin"
	"github.com/cpmech/gosl/chk"
)

// SolveForTarget runs FABRIK passes until the effector is within the solve
// distance threshold of target, the iteration cap is hit, or the per-pass
// improvement stalls. The chain is left in the best configuration found and
// the corresponding effector-to-target distance is returned.
//
// A repeated call with the same target and base position (within the default
// equality tolerance) returns the cached distance without moving any bones.
func (o *Chain) SolveForTarget(target lin.Vec) (dist float64, err error) {

	// preconditions
	if len(o.bones) == 0 {
		return 0, chk.Err("cannot solve chain %q: chain has no bones", o.name)
	}

	// already solved for this target and base; the pinned position counts as
	// the base here so that a moved host always forces a re-solve
	base := o.bones[0].Start()
	if o.fixedBase {
		base = o.fixedBasePos
	}
	if lin.Approx(target, o.lastTarget, lin.EqualityTol) && lin.Approx(base, o.lastBase, lin.EqualityTol) {
		return o.solveDist, nil
	}

	// attempt state
	best := math.MaxFloat64
	bestBones := cloneBones(o.bones)
	lastPass := math.MaxFloat64

	// iterate: forward and backward pass, keep the best configuration
	for it := 0; it < o.maxIts; it++ {
		dist = o.solvePass(target)
		if dist < best {
			best = dist
			bestBones = cloneBones(o.bones)
		}
		if dist <= o.solveDistTol {
			break
		}
		if math.Abs(dist-lastPass) < o.minChange {
			break // stalled
		}
		lastPass = dist
	}

	// restore best configuration and remember this solve
	o.bones = bestBones
	o.solveDist = best
	o.lastTarget = target
	o.lastBase = o.bones[0].Start()
	return best, nil
}

// SolveForEmbeddedTarget solves for the stored target
func (o *Chain) SolveForEmbeddedTarget() (dist float64, err error) {
	if !o.useEmbedded {
		return 0, chk.Err("cannot solve chain %q for embedded target: embedded target mode is disabled", o.name)
	}
	return o.SolveForTarget(o.embeddedTarget)
}

// solvePass runs one forward (tip to base) and one backward (base to tip)
// pass and returns the resulting effector-to-target distance
func (o *Chain) solvePass(target lin.Vec) (dist float64) {
	o.forwardPass(target)
	o.backwardPass()
	return lin.Dist(o.bones[len(o.bones)-1].End(), target)
}

// forwardPass drags the tip onto the target and works towards the base,
// constraining each bone's outer-to-inner direction as it goes
func (o *Chain) forwardPass(target lin.Vec) {
	n := len(o.bones)
	for i := n - 1; i >= 0; i-- {
		b := o.bones[i]
		L := b.Length()
		j := b.Joint()

		// outer-to-inner unit vector for this bone
		var u lin.Vec
		if i == n-1 {
			b.SetEnd(target)
			u = lin.Unit(b.Start().Sub(b.End()))
			switch j.Type() {
			case BallJoint:
				// ball constraints act between successive bones only
			case GlobalHingeJoint:
				u = lin.ProjectOntoPlane(u, j.RotationAxis())
			case LocalHingeJoint:
				u = lin.ProjectOntoPlane(u, o.relativeHingeAxis(i, j))
			}
		} else {
			uOuter := o.bones[i+1].Direction().Mul(-1)
			u = b.Direction().Mul(-1)
			switch j.Type() {
			case BallJoint:
				if lin.AngleBetweenDeg(uOuter, u) > j.RotorDeg() {
					u = lin.LimitAngleDeg(u, uOuter, j.RotorDeg())
				}
			case GlobalHingeJoint:
				// no reference-axis clamping on the forward pass
				u = lin.ProjectOntoPlane(u, j.RotationAxis())
			case LocalHingeJoint:
				u = lin.ProjectOntoPlane(u, o.relativeHingeAxis(i, j))
			}
		}

		b.SetStart(b.End().Add(u.Mul(L)))
		if i > 0 {
			o.bones[i-1].SetEnd(b.Start())
		}
	}
}

// backwardPass re-anchors the base and works towards the tip, constraining
// each bone's inner-to-outer direction as it goes
func (o *Chain) backwardPass() {
	n := len(o.bones)
	for i := 0; i < n; i++ {
		b := o.bones[i]
		L := b.Length()
		j := b.Joint()
		var u lin.Vec

		if i == 0 {

			// anchor the base; the direction is taken after re-anchoring
			if o.fixedBase {
				b.SetStart(o.fixedBasePos)
			} else {
				b.SetStart(b.End().Sub(b.Direction().Mul(L)))
			}
			u = b.Direction()

			// apply the chain-level basebone constraint
			switch o.baseConstraint {
			case BaseboneNone:
				// keep direction
			case BaseboneGlobalRotor:
				u = lin.LimitAngleDeg(u, o.baseConstraintUV, j.RotorDeg())
			case BaseboneLocalRotor:
				u = lin.LimitAngleDeg(u, o.baseRelConstraintUV, j.RotorDeg())
			case BaseboneGlobalHinge:
				u = hingeClamp(u, j.RotationAxis(), j.ReferenceAxis(), j.CwDeg(), j.AcwDeg(), j.freelyRotating())
			case BaseboneLocalHinge:
				u = hingeClamp(u, o.baseRelConstraintUV, o.baseRelRefConstraintUV, j.CwDeg(), j.AcwDeg(), j.freelyRotating())
			}

		} else {

			uPrev := o.bones[i-1].Direction()
			u = b.Direction()
			switch j.Type() {
			case BallJoint:
				if lin.AngleBetweenDeg(uPrev, u) > j.RotorDeg() {
					u = lin.LimitAngleDeg(u, uPrev, j.RotorDeg())
				}
			case GlobalHingeJoint:
				u = hingeClamp(u, j.RotationAxis(), j.ReferenceAxis(), j.CwDeg(), j.AcwDeg(), j.freelyRotating())
			case LocalHingeJoint:
				m := lin.FrameZ(uPrev)
				axis := lin.Unit(m.Mul3x1(j.RotationAxis()))
				ref := lin.Unit(m.Mul3x1(j.ReferenceAxis()))
				u = hingeClamp(u, axis, ref, j.CwDeg(), j.AcwDeg(), j.freelyRotating())
			}
		}

		b.SetEnd(b.Start().Add(u.Mul(L)))
		if i < n-1 {
			o.bones[i+1].SetStart(b.End())
		}
	}
}

// relativeHingeAxis returns the local-hinge rotation axis of bone i expressed
// in world coordinates: via the frame of the previous bone, or, for the
// basebone, via the host-relative constraint direction
func (o *Chain) relativeHingeAxis(i int, j *Joint) lin.Vec {
	if i > 0 {
		m := lin.FrameZ(o.bones[i-1].Direction())
		return lin.Unit(m.Mul3x1(j.RotationAxis()))
	}
	return o.baseRelConstraintUV
}

// hingeClamp projects u onto the hinge plane and, unless the hinge rotates
// freely, clamps the signed angle against the reference axis to [-cw,+acw]
func hingeClamp(u, axis, refAxis lin.Vec, cwDeg, acwDeg float64, free bool) lin.Vec {
	u = lin.ProjectOntoPlane(u, axis)
	if free {
		return u
	}
	θdeg := lin.SignedAngleDeg(refAxis, u, axis)
	if θdeg > acwDeg {
		return lin.Unit(lin.RotateAboutAxisDeg(refAxis, acwDeg, axis))
	}
	if θdeg < -cwDeg {
		return lin.Unit(lin.RotateAboutAxisDeg(refAxis, -cwDeg, axis))
	}
	return u
}
