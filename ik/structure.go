// Copyright 2016 The Gofab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ik

import (
	"sort"

	"github.com/cpmech/gofab/lin"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Structure is a collection of uniquely named chains. It resolves
// inter-chain connections: before a dependent chain solves, its base
// position and host-relative basebone constraint directions are updated from
// the current state of the host bone.
type Structure struct {
	name   string
	chains []*Chain
	byName map[string]int
}

// NewStructure returns an empty structure
func NewStructure(name string) (o *Structure) {
	return &Structure{name: name, byName: make(map[string]int)}
}

// Name returns the name of this structure
func (o *Structure) Name() string {
	return o.name
}

// NumChains returns the number of chains
func (o *Structure) NumChains() int {
	return len(o.chains)
}

// Chain returns the i-th chain
func (o *Structure) Chain(i int) (c *Chain, err error) {
	if i < 0 || i >= len(o.chains) {
		return nil, chk.Err("chain index %d is outside range [0,%d)", i, len(o.chains))
	}
	return o.chains[i], nil
}

// ChainByName returns the chain with the given name
func (o *Structure) ChainByName(name string) (c *Chain, err error) {
	i, err := o.ChainIndex(name)
	if err != nil {
		return
	}
	return o.chains[i], nil
}

// ChainIndex returns the index of the chain with the given name
func (o *Structure) ChainIndex(name string) (i int, err error) {
	i, ok := o.byName[name]
	if !ok {
		return -1, chk.Err("cannot find chain named %q in structure %q", name, o.name)
	}
	return
}

// AddChain appends a chain. Chain names must be unique within the structure.
func (o *Structure) AddChain(c *Chain) (err error) {
	if c.Name() == "" {
		return chk.Err("cannot add chain without name to structure %q", o.name)
	}
	if _, ok := o.byName[c.Name()]; ok {
		return chk.Err("structure %q already has a chain named %q", o.name, c.Name())
	}
	o.byName[c.Name()] = len(o.chains)
	o.chains = append(o.chains, c)
	return
}

// RemoveChain removes the i-th chain. Removal is refused while another chain
// is connected to the victim; stored connection indices shift.
func (o *Structure) RemoveChain(i int) (err error) {
	if i < 0 || i >= len(o.chains) {
		return chk.Err("chain index %d is outside range [0,%d)", i, len(o.chains))
	}
	for _, c := range o.chains {
		if c.connChain == i {
			return chk.Err("cannot remove chain %q: chain %q is connected to it", o.chains[i].Name(), c.Name())
		}
	}
	delete(o.byName, o.chains[i].Name())
	o.chains = append(o.chains[:i], o.chains[i+1:]...)
	for k, c := range o.chains {
		o.byName[c.Name()] = k
		if c.connChain > i {
			c.connChain--
		}
	}
	return
}

// ConnectChain deep-copies newChain, attaches the copy to the selected
// endpoint of the host bone and appends it. The copy gets a fixed base and
// its bones are translated so its base sits at the host endpoint; the
// caller's chain stays untouched and unreferenced.
func (o *Structure) ConnectChain(newChain *Chain, hostChain, hostBone int, point ConnectionPoint) (err error) {
	if hostChain < 0 || hostChain >= len(o.chains) {
		return chk.Err("host chain index %d is outside range [0,%d)", hostChain, len(o.chains))
	}
	host := o.chains[hostChain]
	if hostBone < 0 || hostBone >= host.NumBones() {
		return chk.Err("host bone index %d is outside range [0,%d)", hostBone, host.NumBones())
	}
	if newChain.NumBones() == 0 {
		return chk.Err("cannot connect chain %q: chain has no bones", newChain.Name())
	}

	hb := host.bones[hostBone]
	hb.SetConnectionPoint(point)
	loc := hb.Start()
	if point == ConnectionEnd {
		loc = hb.End()
	}

	c := newChain.Clone()
	c.connChain = hostChain
	c.connBone = hostBone
	c.fixedBase = true

	// translate the copy so its base sits at the host endpoint
	offset := loc.Sub(c.bones[0].Start())
	for _, b := range c.bones {
		b.SetStart(b.Start().Add(offset))
		b.SetEnd(b.End().Add(offset))
	}
	c.fixedBasePos = loc

	return o.AddChain(c)
}

// SolveForTarget solves every chain for the same target (or for the chain's
// embedded target where embedded target mode is enabled)
func (o *Structure) SolveForTarget(target lin.Vec) (err error) {
	order, err := o.solveOrder()
	if err != nil {
		return
	}
	for _, i := range order {
		c := o.chains[i]
		o.preSolve(c)
		if c.EmbeddedTargetMode() {
			_, err = c.SolveForEmbeddedTarget()
		} else {
			_, err = c.SolveForTarget(target)
		}
		if err != nil {
			return
		}
	}
	return
}

// SolveForTargets solves chains for per-name targets. Chains whose name has
// no entry are skipped, except that chains in embedded target mode always
// solve for their stored target.
func (o *Structure) SolveForTargets(targets map[string]lin.Vec) (err error) {
	order, err := o.solveOrder()
	if err != nil {
		return
	}
	for _, i := range order {
		c := o.chains[i]
		if c.EmbeddedTargetMode() {
			o.preSolve(c)
			if _, err = c.SolveForEmbeddedTarget(); err != nil {
				return
			}
			continue
		}
		t, ok := targets[c.Name()]
		if !ok {
			continue
		}
		o.preSolve(c)
		if _, err = c.SolveForTarget(t); err != nil {
			return
		}
	}
	return
}

// preSolve updates a dependent chain from the current state of its host
// bone: the base position is clamped to the configured host endpoint and,
// for local basebone constraints, the host-relative constraint directions
// are recomputed in the host bone's frame
func (o *Structure) preSolve(c *Chain) {
	if c.connChain < 0 {
		return
	}
	host := o.chains[c.connChain]
	hb := host.bones[c.connBone]
	loc := hb.Start()
	if hb.ConnectionPoint() == ConnectionEnd {
		loc = hb.End()
	}
	c.SetBasePosition(loc)
	switch c.baseConstraint {
	case BaseboneLocalRotor, BaseboneLocalHinge:
		m := lin.FrameZ(hb.Direction())
		c.baseRelConstraintUV = lin.Unit(m.Mul3x1(c.baseConstraintUV))
		if c.baseConstraint == BaseboneLocalHinge {
			c.baseRelRefConstraintUV = lin.Unit(m.Mul3x1(c.bones[0].Joint().ReferenceAxis()))
		}
	}
}

// solveOrder returns the chain indices in a stabilized topological order of
// the host-to-dependent connection graph, so that hosts always solve before
// their dependents; unconnected chains keep insertion order
func (o *Structure) solveOrder() (order []int, err error) {
	g := simple.NewDirectedGraph()
	for i := range o.chains {
		g.AddNode(simple.Node(i))
	}
	for i, c := range o.chains {
		if c.connChain >= 0 {
			g.SetEdge(g.NewEdge(simple.Node(c.connChain), simple.Node(i)))
		}
	}
	sorted, err := topo.SortStabilized(g, func(nodes []graph.Node) {
		sort.Slice(nodes, func(a, b int) bool { return nodes[a].ID() < nodes[b].ID() })
	})
	if err != nil {
		return nil, chk.Err("chain connections in structure %q form a cycle:\n%v", o.name, err)
	}
	order = make([]int, len(sorted))
	for k, n := range sorted {
		order[k] = int(n.ID())
	}
	return
}
