// Copyright 2016 The Gofab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.fab) JSON file
package inp

import (
	"encoding/json"

	"github.com/cpmech/gofab/ik"
	"github.com/cpmech/gofab/lin"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// JointData holds one joint definition
type JointData struct {
	Type  string    `json:"type"`  // joint type: "ball", "ghinge" or "lhinge"
	Rotor float64   `json:"rotor"` // ball: rotor constraint angle [deg]
	Axis  []float64 `json:"axis"`  // hinge: rotation axis
	Ref   []float64 `json:"ref"`   // hinge: reference axis
	Cw    float64   `json:"cw"`    // hinge: clockwise limit [deg]
	Acw   float64   `json:"acw"`   // hinge: anticlockwise limit [deg]
	Free  bool      `json:"free"`  // hinge: no angular limits; reference axis auto-generated
}

// BoneData holds one bone definition
type BoneData struct {
	Dir   []float64  `json:"dir"`   // direction from the previous tip
	L     float64    `json:"l"`     // length
	Joint *JointData `json:"joint"` // joint; nil means unconstrained ball
}

// BaseData holds the basebone constraint definition of one chain
type BaseData struct {
	Type  string    `json:"type"`  // "grotor", "lrotor", "ghinge" or "lhinge"
	Axis  []float64 `json:"axis"`  // constraint axis
	Angle float64   `json:"angle"` // rotor: constraint angle [deg]
	Cw    float64   `json:"cw"`    // hinge: clockwise limit [deg]
	Acw   float64   `json:"acw"`   // hinge: anticlockwise limit [deg]
	Ref   []float64 `json:"ref"`   // hinge: reference axis
}

// ChainData holds one chain definition
type ChainData struct {

	// input data
	Name      string      `json:"name"`      // unique chain name
	Base      []float64   `json:"base"`      // base position
	Bones     []*BoneData `json:"bones"`     // bones, basebone first
	Basebone  *BaseData   `json:"basebone"`  // basebone constraint; nil means none
	FixedBase *bool       `json:"fixedbase"` // nil means true
	SolveTol  float64     `json:"solvetol"`  // solve distance threshold; 0 means default
	MaxIts    int         `json:"maxits"`    // max iteration attempts; 0 means default
	MinChange float64     `json:"minchange"` // min iteration change; 0 means default
	Embedded  []float64   `json:"embedded"`  // embedded target; empty means disabled
}

// ConnData holds one chain-to-chain connection
type ConnData struct {
	Chain string `json:"chain"` // dependent chain name
	Host  string `json:"host"`  // host chain name
	Bone  int    `json:"bone"`  // host bone index
	Point string `json:"point"` // "start" or "end"
}

// TargetData holds the target of one chain: either fixed or driven by
// functions of time
type TargetData struct {
	Chain string    `json:"chain"` // chain name
	Fixed []float64 `json:"fixed"` // fixed target position
	Fx    string    `json:"fx"`    // function name for the x component
	Fy    string    `json:"fy"`    // function name for the y component
	Fz    string    `json:"fz"`    // function name for the z component
}

// Rig holds the full rig definition read from a (.fab) file
type Rig struct {

	// input data
	Desc    string        `json:"desc"`        // description of rig
	Tf      float64       `json:"tf"`          // final time for moving targets
	Nsteps  int           `json:"nsteps"`      // number of solve steps
	Chains  []*ChainData  `json:"chains"`      // chain definitions
	Conns   []*ConnData   `json:"connections"` // chain-to-chain connections
	Targets []*TargetData `json:"targets"`     // per-chain targets
	Funcs   FuncsData     `json:"functions"`   // functions of time

	// derived
	FnKey string // filename key of the rig file
}

// ReadRig reads a rig definition from a (.fab) JSON file
func ReadRig(fnamepath string) (o *Rig, err error) {
	buf, err := io.ReadFile(fnamepath)
	if err != nil {
		return nil, chk.Err("cannot read rig file %q:\n%v", fnamepath, err)
	}
	o = new(Rig)
	if err = json.Unmarshal(buf, o); err != nil {
		return nil, chk.Err("cannot parse rig file %q:\n%v", fnamepath, err)
	}
	o.FnKey = io.FnKey(fnamepath)
	if len(o.Chains) == 0 {
		return nil, chk.Err("rig file %q defines no chains", fnamepath)
	}
	return
}

// BuildStructure materialises the rig as a solvable structure. Dependent
// chains (those named in connections) are connected, the others are added
// directly, all in file order.
func (o *Rig) BuildStructure() (st *ik.Structure, err error) {

	// build all chains
	built := make(map[string]*ik.Chain)
	dependent := make(map[string]*ConnData)
	for _, cn := range o.Conns {
		dependent[cn.Chain] = cn
	}
	st = ik.NewStructure(o.FnKey)
	for _, cd := range o.Chains {
		c, err := cd.build()
		if err != nil {
			return nil, err
		}
		built[cd.Name] = c
		if _, isdep := dependent[cd.Name]; !isdep {
			if err := st.AddChain(c); err != nil {
				return nil, err
			}
		}
	}

	// connect dependents, in file order; hosts must appear first
	for _, cn := range o.Conns {
		c, ok := built[cn.Chain]
		if !ok {
			return nil, chk.Err("connection refers to undefined chain %q", cn.Chain)
		}
		hostIdx, err := st.ChainIndex(cn.Host)
		if err != nil {
			return nil, chk.Err("connection for chain %q refers to chain %q, which is not in the structure yet:\n%v", cn.Chain, cn.Host, err)
		}
		point := ik.ConnectionEnd
		switch cn.Point {
		case "end", "":
		case "start":
			point = ik.ConnectionStart
		default:
			return nil, chk.Err("connection point must be \"start\" or \"end\". %q is invalid", cn.Point)
		}
		if err := st.ConnectChain(c, hostIdx, cn.Bone, point); err != nil {
			return nil, err
		}
	}
	return
}

// TargetsAt returns the per-chain targets at time t. Fixed targets are
// returned as-is; function-driven targets are evaluated at t.
func (o *Rig) TargetsAt(t float64) (targets map[string]lin.Vec, err error) {
	targets = make(map[string]lin.Vec)
	for _, td := range o.Targets {
		if len(td.Fixed) > 0 {
			v, err := vec3(td.Fixed, io.Sf("fixed target of chain %q", td.Chain))
			if err != nil {
				return nil, err
			}
			targets[td.Chain] = v
			continue
		}
		var xyz [3]float64
		for k, name := range []string{td.Fx, td.Fy, td.Fz} {
			fcn, err := o.Funcs.Get(name)
			if err != nil {
				return nil, chk.Err("cannot evaluate target of chain %q:\n%v", td.Chain, err)
			}
			xyz[k] = fcn.F(t, nil)
		}
		targets[td.Chain] = lin.Vec{xyz[0], xyz[1], xyz[2]}
	}
	return
}

// build materialises one chain definition
func (o *ChainData) build() (c *ik.Chain, err error) {
	if o.Name == "" {
		return nil, chk.Err("chain definitions must be named")
	}
	if len(o.Bones) == 0 {
		return nil, chk.Err("chain %q defines no bones", o.Name)
	}
	base, err := vec3(o.Base, io.Sf("base of chain %q", o.Name))
	if err != nil {
		return
	}

	c = ik.NewChain(o.Name)
	for i, bd := range o.Bones {
		dir, err := vec3(bd.Dir, io.Sf("direction of bone %d in chain %q", i, o.Name))
		if err != nil {
			return nil, err
		}
		if i == 0 {
			b, err := ik.NewBoneDirLen(base, dir, bd.L)
			if err != nil {
				return nil, err
			}
			if bd.Joint != nil {
				j, err := bd.Joint.build()
				if err != nil {
					return nil, err
				}
				b.SetJoint(j)
			}
			c.AddBone(b)
			continue
		}
		if err := addBone(c, dir, bd); err != nil {
			return nil, err
		}
	}

	// basebone constraint
	if o.Basebone != nil {
		if err = o.Basebone.apply(c); err != nil {
			return
		}
	}

	// solve policy
	if o.FixedBase != nil {
		if err = c.SetFixedBaseMode(*o.FixedBase); err != nil {
			return
		}
	}
	if o.SolveTol > 0 {
		c.SetSolveDistanceThreshold(o.SolveTol)
	}
	if o.MaxIts > 0 {
		if err = c.SetMaxIterationAttempts(o.MaxIts); err != nil {
			return
		}
	}
	if o.MinChange > 0 {
		c.SetMinIterationChange(o.MinChange)
	}
	if len(o.Embedded) > 0 {
		v, err := vec3(o.Embedded, io.Sf("embedded target of chain %q", o.Name))
		if err != nil {
			return nil, err
		}
		c.UpdateEmbeddedTarget(v)
		c.SetEmbeddedTargetMode(true)
	}
	return
}

// addBone appends one non-base bone according to its joint definition
func addBone(c *ik.Chain, dir lin.Vec, bd *BoneData) (err error) {
	jd := bd.Joint
	if jd == nil {
		return c.AddConsecutiveBone(dir, bd.L)
	}
	switch jd.Type {
	case "ball", "":
		rotor := jd.Rotor
		if rotor == 0 && jd.Type == "" {
			rotor = 180
		}
		return c.AddConsecutiveRotorConstrainedBone(dir, bd.L, rotor)
	case "ghinge", "lhinge":
		jtype := ik.GlobalHingeJoint
		if jd.Type == "lhinge" {
			jtype = ik.LocalHingeJoint
		}
		axis, err := vec3(jd.Axis, "hinge axis")
		if err != nil {
			return err
		}
		if jd.Free {
			return c.AddConsecutiveFreelyRotatingHingedBone(dir, bd.L, jtype, axis)
		}
		ref, err := vec3(jd.Ref, "hinge reference axis")
		if err != nil {
			return err
		}
		return c.AddConsecutiveHingedBone(dir, bd.L, jtype, axis, jd.Cw, jd.Acw, ref)
	}
	return chk.Err("joint type %q is invalid", jd.Type)
}

// build materialises one joint definition (for baseboned bones)
func (o *JointData) build() (j *ik.Joint, err error) {
	switch o.Type {
	case "ball", "":
		return ik.NewBallJoint(o.Rotor)
	case "ghinge", "lhinge":
		axis, err := vec3(o.Axis, "hinge axis")
		if err != nil {
			return nil, err
		}
		ref := lin.PerpQuick(axis)
		cw, acw := o.Cw, o.Acw
		if o.Free {
			cw, acw = 180, 180
		} else {
			if ref, err = vec3(o.Ref, "hinge reference axis"); err != nil {
				return nil, err
			}
		}
		if o.Type == "ghinge" {
			return ik.NewGlobalHingeJoint(axis, ref, cw, acw)
		}
		return ik.NewLocalHingeJoint(axis, ref, cw, acw)
	}
	return nil, chk.Err("joint type %q is invalid", o.Type)
}

// apply sets the basebone constraint on a built chain
func (o *BaseData) apply(c *ik.Chain) (err error) {
	axis, err := vec3(o.Axis, io.Sf("basebone constraint axis of chain %q", c.Name()))
	if err != nil {
		return
	}
	switch o.Type {
	case "grotor":
		return c.SetRotorBaseboneConstraint(ik.BaseboneGlobalRotor, axis, o.Angle)
	case "lrotor":
		return c.SetRotorBaseboneConstraint(ik.BaseboneLocalRotor, axis, o.Angle)
	case "ghinge", "lhinge":
		ref, err := vec3(o.Ref, io.Sf("basebone reference axis of chain %q", c.Name()))
		if err != nil {
			return err
		}
		kind := ik.BaseboneGlobalHinge
		if o.Type == "lhinge" {
			kind = ik.BaseboneLocalHinge
		}
		return c.SetHingeBaseboneConstraint(kind, axis, o.Cw, o.Acw, ref)
	}
	return chk.Err("basebone constraint type %q is invalid", o.Type)
}

// vec3 converts a JSON triple into a vector
func vec3(a []float64, what string) (v lin.Vec, err error) {
	if len(a) != 3 {
		return v, chk.Err("%s must have 3 components (%d given)", what, len(a))
	}
	return lin.Vec{a[0], a[1], a[2]}, nil
}
