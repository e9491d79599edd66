// Copyright 2016 The Gofab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ik

import (
	"math"

	"github.com/cpmech/gofab/lin"
	"github.com/cpmech/gosl/chk"
)

// BaseboneConstraint indicates the chain-level constraint applied to the
// first bone during the backward pass
type BaseboneConstraint int

const (
	// BaseboneNone leaves the basebone unconstrained
	BaseboneNone BaseboneConstraint = iota

	// BaseboneGlobalRotor keeps the basebone within a cone about a world-frame axis
	BaseboneGlobalRotor

	// BaseboneLocalRotor keeps the basebone within a cone about an axis
	// expressed in the frame of the host bone of a connected chain
	BaseboneLocalRotor

	// BaseboneGlobalHinge keeps the basebone on a plane fixed in world space
	BaseboneGlobalHinge

	// BaseboneLocalHinge keeps the basebone on a plane expressed in the frame
	// of the host bone of a connected chain
	BaseboneLocalHinge
)

// String returns the identifier of this basebone constraint type
func (o BaseboneConstraint) String() string {
	switch o {
	case BaseboneNone:
		return "none"
	case BaseboneGlobalRotor:
		return "grotor"
	case BaseboneLocalRotor:
		return "lrotor"
	case BaseboneGlobalHinge:
		return "ghinge"
	case BaseboneLocalHinge:
		return "lhinge"
	}
	return "unknown"
}

// Chain is an ordered sequence of bones with chain-level solve policy:
// basebone constraint, fixed-base flag, solve tolerances and iteration
// limits, optional embedded target and connection metadata
type Chain struct {

	// definition
	name  string
	bones []*Bone

	// basebone constraint
	baseConstraint   BaseboneConstraint
	baseConstraintUV lin.Vec            // authored constraint direction (unit)

	// written by Structure before each dependent solve; intra-solve state,
	// not part of the authored configuration
	baseRelConstraintUV    lin.Vec
	baseRelRefConstraintUV lin.Vec

	// solve policy
	fixedBase    bool
	fixedBasePos lin.Vec
	solveDistTol float64
	maxIts       int
	minChange    float64

	// embedded target
	useEmbedded    bool
	embeddedTarget lin.Vec

	// connection metadata (indices resolved through the owning Structure)
	connChain int // -1 means not connected
	connBone  int // -1 means not connected

	// results
	lastTarget  lin.Vec
	lastBase    lin.Vec
	solveDist   float64
	chainLength float64
}

// NewChain returns an empty chain with default solve policy
func NewChain(name string) (o *Chain) {
	far := lin.Vec{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64}
	return &Chain{
		name:         name,
		solveDistTol: 1.0,
		maxIts:       20,
		minChange:    0.01,
		fixedBase:    true,
		connChain:    -1,
		connBone:     -1,
		lastTarget:   far, // so that a first solve never hits the already-solved check
		lastBase:     far,
	}
}

// Name returns the name of this chain
func (o *Chain) Name() string {
	return o.name
}

// NumBones returns the number of bones
func (o *Chain) NumBones() int {
	return len(o.bones)
}

// Bone returns the i-th bone
func (o *Chain) Bone(i int) (b *Bone, err error) {
	if i < 0 || i >= len(o.bones) {
		return nil, chk.Err("bone index %d is outside range [0,%d)", i, len(o.bones))
	}
	return o.bones[i], nil
}

// ChainLength returns the sum of all bone lengths
func (o *Chain) ChainLength() float64 {
	return o.chainLength
}

// LiveChainLength returns the sum of the current endpoint distances; after a
// solve this matches ChainLength within floating-point tolerance
func (o *Chain) LiveChainLength() (sum float64) {
	for _, b := range o.bones {
		sum += b.LiveLength()
	}
	return
}

// EffectorPosition returns the end position of the last bone
func (o *Chain) EffectorPosition() lin.Vec {
	if len(o.bones) == 0 {
		chk.Panic("chain %q has no bones and thus no effector", o.name)
	}
	return o.bones[len(o.bones)-1].End()
}

// BasePosition returns the start position of the first bone
func (o *Chain) BasePosition() lin.Vec {
	if len(o.bones) == 0 {
		chk.Panic("chain %q has no bones and thus no base", o.name)
	}
	return o.bones[0].Start()
}

// SolveDistance returns the distance between effector and target achieved by
// the most recent solve
func (o *Chain) SolveDistance() float64 {
	return o.solveDist
}

// LastTargetPosition returns the target given to the most recent solve
func (o *Chain) LastTargetPosition() lin.Vec {
	return o.lastTarget
}

// FixedBaseMode tells whether the base of this chain is pinned
func (o *Chain) FixedBaseMode() bool {
	return o.fixedBase
}

// BaseboneConstraintType returns the active basebone constraint type
func (o *Chain) BaseboneConstraintType() BaseboneConstraint {
	return o.baseConstraint
}

// BaseboneConstraintUV returns the authored basebone constraint direction
func (o *Chain) BaseboneConstraintUV() lin.Vec {
	if o.baseConstraint == BaseboneNone {
		chk.Panic("chain %q has no basebone constraint", o.name)
	}
	return o.baseConstraintUV
}

// ConnectedChainNumber returns the index of the host chain, or -1
func (o *Chain) ConnectedChainNumber() int {
	return o.connChain
}

// ConnectedBoneNumber returns the index of the host bone, or -1
func (o *Chain) ConnectedBoneNumber() int {
	return o.connBone
}

// AddBone appends a bone. The first bone added becomes the basebone: it
// captures the fixed base position and the default basebone constraint
// direction.
func (o *Chain) AddBone(b *Bone) {
	o.bones = append(o.bones, b)
	if len(o.bones) == 1 {
		o.fixedBasePos = b.Start()
		o.baseConstraintUV = b.Direction()
		o.baseRelConstraintUV = o.baseConstraintUV
	}
	o.updateChainLength()
}

// AddConsecutiveBone appends a bone extending from the tip of the last bone
// by length along dir, with an unconstrained ball joint
func (o *Chain) AddConsecutiveBone(dir lin.Vec, length float64) (err error) {
	return o.addConsecutive(dir, length, nil)
}

// AddConsecutiveRotorConstrainedBone appends a bone with a ball joint limited
// to rotorDeg [deg] relative to the previous bone
func (o *Chain) AddConsecutiveRotorConstrainedBone(dir lin.Vec, length, rotorDeg float64) (err error) {
	j, err := NewBallJoint(rotorDeg)
	if err != nil {
		return
	}
	return o.addConsecutive(dir, length, j)
}

// AddConsecutiveHingedBone appends a bone with a hinge joint
func (o *Chain) AddConsecutiveHingedBone(dir lin.Vec, length float64, jtype JointType, axis lin.Vec, cwDeg, acwDeg float64, refAxis lin.Vec) (err error) {
	var j *Joint
	switch jtype {
	case GlobalHingeJoint:
		j, err = NewGlobalHingeJoint(axis, refAxis, cwDeg, acwDeg)
	case LocalHingeJoint:
		j, err = NewLocalHingeJoint(axis, refAxis, cwDeg, acwDeg)
	default:
		return chk.Err("hinged bone requires a hinge joint type. %v is invalid", jtype)
	}
	if err != nil {
		return
	}
	return o.addConsecutive(dir, length, j)
}

// AddConsecutiveFreelyRotatingHingedBone appends a bone with a hinge joint
// without angular limits; the reference axis is auto-generated
func (o *Chain) AddConsecutiveFreelyRotatingHingedBone(dir lin.Vec, length float64, jtype JointType, axis lin.Vec) (err error) {
	return o.AddConsecutiveHingedBone(dir, length, jtype, axis, 180, 180, lin.PerpQuick(axis))
}

// addConsecutive appends a bone anchored to the current tip. A nil joint
// means the default unconstrained ball joint.
func (o *Chain) addConsecutive(dir lin.Vec, length float64, j *Joint) (err error) {
	if len(o.bones) == 0 {
		return chk.Err("cannot add consecutive bone to chain %q: add a basebone first", o.name)
	}
	b, err := NewBoneDirLen(o.bones[len(o.bones)-1].End(), dir, length)
	if err != nil {
		return
	}
	if j != nil {
		b.SetJoint(j)
	}
	o.bones = append(o.bones, b)
	o.updateChainLength()
	return
}

// RemoveBone removes the i-th bone; downstream indices shift
func (o *Chain) RemoveBone(i int) (err error) {
	if i < 0 || i >= len(o.bones) {
		return chk.Err("bone index %d is outside range [0,%d)", i, len(o.bones))
	}
	o.bones = append(o.bones[:i], o.bones[i+1:]...)
	o.updateChainLength()
	return
}

// SetFixedBaseMode pins (or releases) the base of this chain. Releasing is
// rejected while the chain is connected to another chain, or while it holds
// a global basebone constraint.
func (o *Chain) SetFixedBaseMode(fixed bool) (err error) {
	if !fixed && o.connChain != -1 {
		return chk.Err("chain %q is connected to another chain and must keep a fixed base", o.name)
	}
	if !fixed && (o.baseConstraint == BaseboneGlobalRotor || o.baseConstraint == BaseboneGlobalHinge) {
		return chk.Err("chain %q holds a global basebone constraint, which requires a fixed base", o.name)
	}
	o.fixedBase = fixed
	return
}

// SetBasePosition sets the pinned base position. For connected chains this
// is overwritten by the Structure before every solve.
func (o *Chain) SetBasePosition(p lin.Vec) {
	o.fixedBasePos = p
}

// SetSolveDistanceThreshold sets the effector-to-target distance under which
// a solve counts as successful
func (o *Chain) SetSolveDistanceThreshold(tol float64) (err error) {
	if tol < 0 {
		return chk.Err("solve distance threshold must be non-negative. %g is invalid", tol)
	}
	o.solveDistTol = tol
	return
}

// SetMaxIterationAttempts sets the upper bound on solve passes
func (o *Chain) SetMaxIterationAttempts(n int) (err error) {
	if n < 1 {
		return chk.Err("maximum number of iteration attempts must be at least 1. %d is invalid", n)
	}
	o.maxIts = n
	return
}

// SetMinIterationChange sets the per-pass improvement under which the solve
// loop counts as stalled
func (o *Chain) SetMinIterationChange(dmin float64) (err error) {
	if dmin < 0 {
		return chk.Err("minimum iteration change must be non-negative. %g is invalid", dmin)
	}
	o.minChange = dmin
	return
}

// SetRotorBaseboneConstraint keeps the basebone within rotorDeg [deg] of
// axis. kind selects the frame: BaseboneGlobalRotor for world coordinates or
// BaseboneLocalRotor for host-bone coordinates. The basebone joint becomes a
// ball joint holding the rotor angle.
func (o *Chain) SetRotorBaseboneConstraint(kind BaseboneConstraint, axis lin.Vec, rotorDeg float64) (err error) {
	if len(o.bones) == 0 {
		return chk.Err("cannot set basebone constraint on chain %q: chain has no bones", o.name)
	}
	if kind != BaseboneGlobalRotor && kind != BaseboneLocalRotor {
		return chk.Err("rotor basebone constraint type must be grotor or lrotor. %v is invalid", kind)
	}
	if kind == BaseboneGlobalRotor && !o.fixedBase {
		return chk.Err("chain %q has a non-fixed base, which is incompatible with a global basebone constraint", o.name)
	}
	if !(axis.Len() > 0) {
		return chk.Err("basebone constraint axis cannot be a zero vector")
	}
	j, err := NewBallJoint(rotorDeg)
	if err != nil {
		return
	}
	o.baseConstraint = kind
	o.baseConstraintUV = lin.Unit(axis)
	o.baseRelConstraintUV = o.baseConstraintUV
	o.bones[0].SetJoint(j)
	return
}

// SetHingeBaseboneConstraint keeps the basebone on the hinge plane of axis,
// with the signed angle against refAxis clamped to [-cwDeg,+acwDeg]. kind
// selects the frame: BaseboneGlobalHinge or BaseboneLocalHinge. The basebone
// joint becomes the corresponding hinge joint.
func (o *Chain) SetHingeBaseboneConstraint(kind BaseboneConstraint, axis lin.Vec, cwDeg, acwDeg float64, refAxis lin.Vec) (err error) {
	if len(o.bones) == 0 {
		return chk.Err("cannot set basebone constraint on chain %q: chain has no bones", o.name)
	}
	var j *Joint
	switch kind {
	case BaseboneGlobalHinge:
		if !o.fixedBase {
			return chk.Err("chain %q has a non-fixed base, which is incompatible with a global basebone constraint", o.name)
		}
		j, err = NewGlobalHingeJoint(axis, refAxis, cwDeg, acwDeg)
	case BaseboneLocalHinge:
		j, err = NewLocalHingeJoint(axis, refAxis, cwDeg, acwDeg)
	default:
		return chk.Err("hinge basebone constraint type must be ghinge or lhinge. %v is invalid", kind)
	}
	if err != nil {
		return
	}
	o.baseConstraint = kind
	o.baseConstraintUV = lin.Unit(axis)
	o.baseRelConstraintUV = o.baseConstraintUV
	o.baseRelRefConstraintUV = lin.Unit(refAxis)
	o.bones[0].SetJoint(j)
	return
}

// SetEmbeddedTargetMode makes SolveForEmbeddedTarget usable and tells the
// owning Structure to prefer the stored target over the incoming one
func (o *Chain) SetEmbeddedTargetMode(on bool) {
	o.useEmbedded = on
}

// EmbeddedTargetMode tells whether this chain solves for its stored target
func (o *Chain) EmbeddedTargetMode() bool {
	return o.useEmbedded
}

// UpdateEmbeddedTarget sets the stored target
func (o *Chain) UpdateEmbeddedTarget(t lin.Vec) {
	o.embeddedTarget = t
}

// EmbeddedTarget returns the stored target
func (o *Chain) EmbeddedTarget() lin.Vec {
	return o.embeddedTarget
}

// Clone returns a deep copy of this chain; mutating the copy's bones does
// not mutate the original
func (o *Chain) Clone() (c *Chain) {
	c = new(Chain)
	*c = *o
	c.bones = cloneBones(o.bones)
	return
}

// updateChainLength recomputes the sum of bone lengths
func (o *Chain) updateChainLength() {
	o.chainLength = 0
	for _, b := range o.bones {
		o.chainLength += b.Length()
	}
}
