// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dom implements the domain and the nine-phase step driver of
// spec §4.9 — the state machine that is the core of this module: it
// coordinates extents refresh, time-integration begin, contact
// detection/update, external force resolution, local-system assembly,
// solver invocation, time-integration end and output triggering, in the
// fixed order original_source/sol.c's SOLFEC_Run outer loop imposes.
package dom

import (
	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/solfec/body"
	"github.com/cpmech/solfec/box"
	"github.com/cpmech/solfec/con"
	"github.com/cpmech/solfec/series"
)

// SurfaceMaterial is the per-surface-pair material state a contact
// carries (original_source/dom.h's SURFACE_MATERIAL): a friction
// coefficient and the two restitution-like parameters the penalty/
// Gauss-Seidel solvers read.
type SurfaceMaterial struct {
	Friction    float64
	Restitution float64
	Cohesion    float64
}

// Thresholds are the contact-sparsification configuration of spec §4.9
// phase 3: contacts whose area or proximity to an existing contact on
// the same body pair falls below these bounds are not created, and
// contacts whose gap is smaller (more negative) than PenetrationDepth
// raise the DEPTH_VIOLATED flag.
type Thresholds struct {
	MinArea          float64
	MinDistance      float64
	PenetrationDepth float64
}

// DefaultThresholds mirrors the values original_source/dom.h documents
// as its own defaults for the sparsification gates.
func DefaultThresholds() Thresholds {
	return Thresholds{MinArea: 1e-6, MinDistance: 1e-4, PenetrationDepth: -1e-2}
}

// Domain holds every body and constraint of one simulation, the
// broad-phase index, and the configuration spec §3's "Domain" data
// model describes.
type Domain struct {
	bodyIDs *freelist
	conIDs  *freelist

	Bodies       map[int]*body.Body
	BodyLabels   map[string]*body.Body
	bodyOrder    []int

	Constraints map[int]*con.Constraint
	conOrder    []int

	AABB *box.Index

	SurfacePairs map[[2]int]*SurfaceMaterial

	// Gravity is the three gravity components as time series (Design
	// Notes §9: every gravity component is typed body.TimeFunc so
	// series.Series and any other implementation interoperate).
	Gravity [3]body.TimeFunc

	Thresholds Thresholds

	// Extents is the scene's current axis-aligned bounding box, spec
	// §3's "scene extents".
	Extents [6]float64

	Dynamic bool // false selects quasi-static mode (StaticInit, no inertial term)

	Time    float64
	NSteps  int
	Merit   float64

	Timers *Timers

	// Partition is non-nil in a parallel run (spec §5); nil in the
	// default single-process mode.
	Partition *Partition

	// phase is the domain-wide step lifecycle state (spec §4.9), kept
	// for diagnostics; nextOutput is the next cumulative time at which
	// phase 8 emits a frame; cancelled latches a cooperative
	// cancellation observed at a phase boundary (spec §5).
	phase      Phase
	nextOutput float64
	cancelled  bool

	// onFatal receives non-finite-state and step-instability errors
	// (spec §7.3); the zero value panics via chk.Panic, matching the
	// teacher's top-level recover-and-print convention.
	onFatal func(error)
}

// New returns an empty Domain with default thresholds and zero gravity.
func New() *Domain {
	d := &Domain{
		bodyIDs:      newFreelist(),
		conIDs:       newFreelist(),
		Bodies:       make(map[int]*body.Body),
		BodyLabels:   make(map[string]*body.Body),
		Constraints:  make(map[int]*con.Constraint),
		AABB:         box.NewIndex(),
		SurfacePairs: make(map[[2]int]*SurfaceMaterial),
		Gravity:      [3]body.TimeFunc{series.Constant(0), series.Constant(0), series.Constant(0)},
		Thresholds:   DefaultThresholds(),
		Dynamic:      true,
		Timers:       NewTimers(),
	}
	return d
}

// OnFatal installs a callback invoked instead of panicking on a
// step-instability or non-finite-state error (spec §7.3); useful for a
// caller (package session) that wants to intercept before teardown.
func (d *Domain) OnFatal(fn func(error)) { d.onFatal = fn }

func (d *Domain) fatal(err error) {
	if d.onFatal != nil {
		d.onFatal(err)
		return
	}
	chk.Panic("dom: fatal: %v", err)
}

// AddBody inserts a body, allocating a fresh id, registering its SGPs
// with the broad-phase index, and running its DynamicInit/StaticInit.
func (d *Domain) AddBody(b *body.Body, label string) *body.Body {
	b.ID = d.bodyIDs.Alloc()
	b.Label = label
	if b.Constraints == nil {
		b.Constraints = make(map[int]bool)
	}
	d.Bodies[b.ID] = b
	d.bodyOrder = append(d.bodyOrder, b.ID)
	if label != "" {
		d.BodyLabels[label] = b
	}
	d.registerSGP(b)
	if d.Dynamic {
		b.DynamicInit()
	} else {
		b.StaticInit()
	}
	b.UpdateExtents()
	return b
}

// registerSGP creates one broad-phase box per detectable sub-shape of
// b. A body's Shape is, today, a single geom.Primitive (or a mesh whose
// per-element convex hulls the contact detector reduces to at dispatch
// time), so exactly one SGP/box is created; see DESIGN.md for why a
// compound multi-convex shape is not modeled.
func (d *Domain) registerSGP(b *body.Body) {
	bx := d.AABB.Insert(b.ID, 0)
	bx.SurfID = primarySurface(b)
	b.AddSGP(bx)
	bx.Update(b.Shape.Extents())
}

// RemoveBody deletes a body and every constraint still touching it
// (original_source/dom.h's domain teardown semantics: a removed body
// cannot leave dangling constraint back-references).
func (d *Domain) RemoveBody(id int) {
	b, ok := d.Bodies[id]
	if !ok {
		return
	}
	for cid := range b.Constraints {
		d.RemoveConstraint(cid)
	}
	for _, bx := range b.SGPs {
		d.AABB.Remove(bx)
	}
	delete(d.Bodies, id)
	if b.Label != "" {
		delete(d.BodyLabels, b.Label)
	}
	d.removeFromOrder(&d.bodyOrder, id)
	d.bodyIDs.Free(id)
}

// AddConstraint inserts c, allocating a fresh id and placing it in
// both bodies' con sets (spec §4.6).
func (d *Domain) AddConstraint(c *con.Constraint) *con.Constraint {
	c.ID = d.conIDs.Alloc()
	d.Constraints[c.ID] = c
	d.conOrder = append(d.conOrder, c.ID)
	if c.Master != nil {
		c.Master.Constraints[c.ID] = true
	}
	if c.Slave != nil {
		c.Slave.Constraints[c.ID] = true
	}
	return c
}

// RemoveConstraint deletes constraint id, returning it to the pool
// unless it is id-locked (spec §4.6).
func (d *Domain) RemoveConstraint(id int) {
	c, ok := d.Constraints[id]
	if !ok {
		return
	}
	if c.Master != nil {
		delete(c.Master.Constraints, id)
	}
	if c.Slave != nil {
		delete(c.Slave.Constraints, id)
	}
	delete(d.Constraints, id)
	d.removeFromOrder(&d.conOrder, id)
	if c.State&con.IDLock != 0 {
		d.conIDs.Lock(id)
	}
	d.conIDs.Free(id)
}

func (d *Domain) removeFromOrder(order *[]int, id int) {
	s := *order
	for i, v := range s {
		if v == id {
			*order = append(s[:i], s[i+1:]...)
			return
		}
	}
}

// SetSurfacePair registers the material state for an unordered surface
// id pair, original_source/dom.h's surface-pair set.
func (d *Domain) SetSurfacePair(s1, s2 int, m SurfaceMaterial) {
	d.SurfacePairs[orderedPair(s1, s2)] = &m
}

// surfaceMaterial looks up the material for a surface pair, falling
// back to a zero-friction, zero-restitution default when the pair was
// never registered.
func (d *Domain) surfaceMaterial(s1, s2 int) SurfaceMaterial {
	if m, ok := d.SurfacePairs[orderedPair(s1, s2)]; ok {
		return *m
	}
	return SurfaceMaterial{}
}

func orderedPair(a, b int) [2]int {
	if a <= b {
		return [2]int{a, b}
	}
	return [2]int{b, a}
}

func primarySurface(b *body.Body) int {
	switch s := b.Shape.(type) {
	case interface{ PrimarySurface() int }:
		return s.PrimarySurface()
	default:
		return 0
	}
}

// FixPoint glues a referential point of bod to the fixed spatial
// frame, original_source/dom.h's DOM_Fix_Point.
func (d *Domain) FixPoint(bod *body.Body, point [3]float64, strength float64) *con.Constraint {
	return d.AddConstraint(con.NewFixPoint(0, bod, point, strength))
}

// FixDirection fixes a referential point of bod along a spatial
// direction, optionally relative to bod2, original_source/dom.h's
// DOM_Fix_Direction.
func (d *Domain) FixDirection(bod *body.Body, point, dir [3]float64, bod2 *body.Body, point2 [3]float64) *con.Constraint {
	return d.AddConstraint(con.NewFixDirection(0, bod, point, dir, bod2, point2))
}

// SetVelocity prescribes the velocity of a referential point along a
// spatial direction, original_source/dom.h's DOM_Set_Velocity.
func (d *Domain) SetVelocity(bod *body.Body, point, dir [3]float64, vel body.TimeFunc) *con.Constraint {
	return d.AddConstraint(con.NewVelocity(0, bod, point, dir, vel))
}

// PutRigidLink inserts a rigid link between master and slave (either
// may be nil for a fixed spatial anchor), degenerating to a gluing
// FIXPNT when the two attachment points already coincide (spec §4.6).
func (d *Domain) PutRigidLink(master, slave *body.Body, mpnt, spnt [3]float64, strength float64) *con.Constraint {
	return d.AddConstraint(con.NewRigidLink(0, master, slave, mpnt, spnt, strength))
}

// PutSpring inserts a user spring constraint, original_source/dom.h's
// DOM_Put_Spring.
func (d *Domain) PutSpring(master *body.Body, mpnt [3]float64, slave *body.Body, spnt [3]float64, fn body.TimeFunc, lim [2]float64, dir [3]float64, update con.SpringUpdate) *con.Constraint {
	return d.AddConstraint(con.NewSpring(0, master, mpnt, slave, spnt, fn, lim, dir, update))
}

// ExportMBFCP is a documented no-op extension point: the source's
// *_2_MBFCP export hooks feed an external visualiser (out of scope,
// spec §1); kept so the boundary is explicit rather than silently
// absent (SPEC_FULL.md supplemented feature 8).
func (d *Domain) ExportMBFCP(w interface{ Write([]byte) (int, error) }) error {
	return chk.Err("dom: MBFCP export not implemented (external visualiser is out of scope)")
}
