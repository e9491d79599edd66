// Copyright 2016 The Gofab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ik implements the FABRIK solver core: joints, bones, chains and
// multi-chain structures
package ik

import (
	"math"

	"github.com/cpmech/gofab/lin"
	"github.com/cpmech/gosl/chk"
)

// JointType indicates the kind of constraint carried by a joint
type JointType int

const (
	// BallJoint constrains the angle between a bone and its predecessor to a rotor cone
	BallJoint JointType = iota

	// GlobalHingeJoint constrains a bone to a plane whose normal is fixed in world space
	GlobalHingeJoint

	// LocalHingeJoint constrains a bone to a plane whose normal is expressed
	// in the frame of the previous bone
	LocalHingeJoint
)

// String returns the identifier of this joint type
func (o JointType) String() string {
	switch o {
	case BallJoint:
		return "ball"
	case GlobalHingeJoint:
		return "ghinge"
	case LocalHingeJoint:
		return "lhinge"
	}
	return "unknown"
}

// perpTol is the maximum |axis · ref| for hinge axes to count as perpendicular
const perpTol = 0.01

// Joint holds the constraint of one bone: either a ball rotor angle, or a
// hinge (global or local) with a rotation axis, a reference axis and
// clockwise/anticlockwise angular limits. All angles are in degrees.
type Joint struct {
	jtype    JointType
	rotorDeg float64   // ball: cone half-angle limit
	cwDeg    float64   // hinge: clockwise limit measured from the reference axis
	acwDeg   float64   // hinge: anticlockwise limit measured from the reference axis
	axis     lin.Vec   // hinge: rotation axis (unit)
	refAxis  lin.Vec   // hinge: reference axis (unit, perpendicular to axis)
}

// NewBallJoint returns a ball joint with the given rotor constraint angle [deg]
func NewBallJoint(rotorDeg float64) (o *Joint, err error) {
	if err = checkAngle(rotorDeg); err != nil {
		return
	}
	return &Joint{jtype: BallJoint, rotorDeg: rotorDeg}, nil
}

// NewGlobalHingeJoint returns a hinge joint with axes fixed in world space
func NewGlobalHingeJoint(axis, refAxis lin.Vec, cwDeg, acwDeg float64) (o *Joint, err error) {
	return newHinge(GlobalHingeJoint, axis, refAxis, cwDeg, acwDeg)
}

// NewLocalHingeJoint returns a hinge joint with axes expressed in the frame
// of the previous bone
func NewLocalHingeJoint(axis, refAxis lin.Vec, cwDeg, acwDeg float64) (o *Joint, err error) {
	return newHinge(LocalHingeJoint, axis, refAxis, cwDeg, acwDeg)
}

// newHinge builds and validates a hinge joint
func newHinge(jtype JointType, axis, refAxis lin.Vec, cwDeg, acwDeg float64) (o *Joint, err error) {
	if err = checkAngle(cwDeg); err != nil {
		return
	}
	if err = checkAngle(acwDeg); err != nil {
		return
	}
	if err = checkAxes(axis, refAxis); err != nil {
		return
	}
	return &Joint{
		jtype:   jtype,
		cwDeg:   cwDeg,
		acwDeg:  acwDeg,
		axis:    lin.Unit(axis),
		refAxis: lin.Unit(refAxis),
	}, nil
}

// Type returns the kind of this joint
func (o *Joint) Type() JointType {
	return o.jtype
}

// RotorDeg returns the ball rotor constraint angle [deg]
func (o *Joint) RotorDeg() float64 {
	if o.jtype != BallJoint {
		chk.Panic("rotor constraint angle is only available in ball joints (joint is %v)", o.jtype)
	}
	return o.rotorDeg
}

// SetRotorDeg sets the ball rotor constraint angle [deg]
func (o *Joint) SetRotorDeg(rotorDeg float64) (err error) {
	if o.jtype != BallJoint {
		return chk.Err("cannot set rotor constraint angle on %v joint", o.jtype)
	}
	if err = checkAngle(rotorDeg); err != nil {
		return
	}
	o.rotorDeg = rotorDeg
	return
}

// CwDeg returns the hinge clockwise constraint angle [deg]
func (o *Joint) CwDeg() float64 {
	if o.jtype == BallJoint {
		chk.Panic("clockwise constraint angle is only available in hinge joints")
	}
	return o.cwDeg
}

// AcwDeg returns the hinge anticlockwise constraint angle [deg]
func (o *Joint) AcwDeg() float64 {
	if o.jtype == BallJoint {
		chk.Panic("anticlockwise constraint angle is only available in hinge joints")
	}
	return o.acwDeg
}

// SetHingeLimits sets the hinge clockwise/anticlockwise constraint angles [deg]
func (o *Joint) SetHingeLimits(cwDeg, acwDeg float64) (err error) {
	if o.jtype == BallJoint {
		return chk.Err("cannot set hinge constraint angles on ball joint")
	}
	if err = checkAngle(cwDeg); err != nil {
		return
	}
	if err = checkAngle(acwDeg); err != nil {
		return
	}
	o.cwDeg, o.acwDeg = cwDeg, acwDeg
	return
}

// RotationAxis returns the hinge rotation axis
func (o *Joint) RotationAxis() lin.Vec {
	if o.jtype == BallJoint {
		chk.Panic("rotation axis is only available in hinge joints")
	}
	return o.axis
}

// ReferenceAxis returns the hinge reference axis
func (o *Joint) ReferenceAxis() lin.Vec {
	if o.jtype == BallJoint {
		chk.Panic("reference axis is only available in hinge joints")
	}
	return o.refAxis
}

// SetAxes sets the hinge rotation and reference axes
func (o *Joint) SetAxes(axis, refAxis lin.Vec) (err error) {
	if o.jtype == BallJoint {
		return chk.Err("cannot set hinge axes on ball joint")
	}
	if err = checkAxes(axis, refAxis); err != nil {
		return
	}
	o.axis, o.refAxis = lin.Unit(axis), lin.Unit(refAxis)
	return
}

// Clone returns a copy of this joint
func (o *Joint) Clone() (c *Joint) {
	c = new(Joint)
	*c = *o
	return
}

// freelyRotating tells whether both hinge limits sit at 180 [deg]; such a
// hinge restricts the bone to its plane but never clamps the signed angle
func (o *Joint) freelyRotating() bool {
	return math.Abs(o.cwDeg-180.0) < perpTol && math.Abs(o.acwDeg-180.0) < perpTol
}

// checkAngle validates a constraint angle [deg]
func checkAngle(θdeg float64) (err error) {
	if θdeg < 0 || θdeg > 180 {
		return chk.Err("constraint angle must be within [0,180]. θ=%g is invalid", θdeg)
	}
	return
}

// checkAxes validates hinge axes: both non-zero and mutually perpendicular
func checkAxes(axis, refAxis lin.Vec) (err error) {
	if !(axis.Len() > 0) {
		return chk.Err("hinge rotation axis cannot be a zero vector")
	}
	if !(refAxis.Len() > 0) {
		return chk.Err("hinge reference axis cannot be a zero vector")
	}
	if math.Abs(lin.Dot(axis, refAxis)) > perpTol {
		return chk.Err("hinge reference axis must be perpendicular to the rotation axis (|dot|=%g)", math.Abs(lin.Dot(axis, refAxis)))
	}
	return
}
