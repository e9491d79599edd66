// Copyright 2016 The Gofab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ik

import (
	"github.com/cpmech/gofab/lin"
	"github.com/cpmech/gosl/chk"
)

// ConnectionPoint selects which endpoint of a host bone a dependent chain
// attaches to
type ConnectionPoint int

const (
	// ConnectionStart attaches a dependent chain to the start of the host bone
	ConnectionStart ConnectionPoint = iota

	// ConnectionEnd attaches a dependent chain to the end of the host bone
	ConnectionEnd
)

// String returns the identifier of this connection point
func (o ConnectionPoint) String() string {
	if o == ConnectionStart {
		return "start"
	}
	return "end"
}

// Bone is a pair of 3D positions owning one joint. The length is frozen at
// construction; the solver is responsible for keeping the endpoints
// consistent with it after every pass.
type Bone struct {
	start      lin.Vec
	end        lin.Vec
	length     float64         // original length, fixed at construction
	joint      *Joint
	connection ConnectionPoint
}

// NewBone returns a bone spanning start to end, with a default
// unconstrained ball joint
func NewBone(start, end lin.Vec) (o *Bone, err error) {
	l := lin.Dist(start, end)
	if !(l > 0) {
		return nil, chk.Err("cannot create bone with coincident start and end points @ %v", start)
	}
	j, _ := NewBallJoint(180)
	return &Bone{start: start, end: end, length: l, joint: j, connection: ConnectionEnd}, nil
}

// NewBoneDirLen returns a bone starting at start and extending by length
// along dir, with a default unconstrained ball joint
func NewBoneDirLen(start, dir lin.Vec, length float64) (o *Bone, err error) {
	if !(dir.Len() > 0) {
		return nil, chk.Err("cannot create bone with zero direction vector")
	}
	if !(length > 0) {
		return nil, chk.Err("bone length must be positive. L=%g is invalid", length)
	}
	return NewBone(start, start.Add(lin.Unit(dir).Mul(length)))
}

// Start returns the start position
func (o *Bone) Start() lin.Vec {
	return o.start
}

// End returns the end position
func (o *Bone) End() lin.Vec {
	return o.end
}

// SetStart sets the start position. The stored length does not change.
func (o *Bone) SetStart(p lin.Vec) {
	o.start = p
}

// SetEnd sets the end position. The stored length does not change.
func (o *Bone) SetEnd(p lin.Vec) {
	o.end = p
}

// Length returns the length frozen at construction
func (o *Bone) Length() float64 {
	return o.length
}

// LiveLength returns the current distance between the endpoints
func (o *Bone) LiveLength() float64 {
	return lin.Dist(o.start, o.end)
}

// Direction returns the unit vector from start to end
func (o *Bone) Direction() lin.Vec {
	return lin.Unit(o.end.Sub(o.start))
}

// Joint returns this bone's joint
func (o *Bone) Joint() *Joint {
	return o.joint
}

// SetJoint sets this bone's joint
func (o *Bone) SetJoint(j *Joint) (err error) {
	if j == nil {
		return chk.Err("cannot set nil joint on bone")
	}
	o.joint = j
	return
}

// ConnectionPoint returns where dependent chains attach to this bone
func (o *Bone) ConnectionPoint() ConnectionPoint {
	return o.connection
}

// SetConnectionPoint sets where dependent chains attach to this bone
func (o *Bone) SetConnectionPoint(p ConnectionPoint) {
	o.connection = p
}

// Clone returns a deep copy of this bone
func (o *Bone) Clone() (c *Bone) {
	c = new(Bone)
	*c = *o
	c.joint = o.joint.Clone()
	return
}

// cloneBones returns a deep copy of a set of bones
func cloneBones(bones []*Bone) (c []*Bone) {
	c = make([]*Bone, len(bones))
	for i, b := range bones {
		c[i] = b.Clone()
	}
	return
}
