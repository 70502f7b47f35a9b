// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package con implements the constraint data model of spec §3/§4.6: one
// Constraint struct covering every constraint kind (contact, fixed
// point, fixed direction, prescribed velocity, rigid link, spring), its
// auxiliary storage and state flags, and the rigid-link gluing
// degeneration rule.
package con

import "github.com/cpmech/solfec/body"

// Kind is original_source/dom.h's "enum {CONTACT, FIXPNT, FIXDIR,
// VELODIR, RIGLNK, SPRING}".
type Kind int

const (
	Contact Kind = iota
	FixPoint
	FixDirection
	Velocity
	RigidLink
	Spring
)

func (k Kind) String() string {
	switch k {
	case Contact:
		return "CONTACT"
	case FixPoint:
		return "FIXPNT"
	case FixDirection:
		return "FIXDIR"
	case Velocity:
		return "VELODIR"
	case RigidLink:
		return "RIGLNK"
	case Spring:
		return "SPRING"
	}
	return "UNKNOWN"
}

// State is the bitmask of original_source/dom.h's CON_* flags.
type State int

const (
	Cohesive      State = 0x01
	New           State = 0x02
	IDLock        State = 0x04 // locked id cannot be freed to the pool
	External      State = 0x08 // migrated in from another processor
	Done          State = 0x10 // auxiliary flag used by the step driver
	DepthViolated State = 0x20 // gap exceeded the configured penetration bound, spec §4.9 phase 3
)

// SpringUpdate selects how a spring constraint's direction is
// recomputed each step, original_source/dom.h's SPRING_* enum.
type SpringUpdate int

const (
	SpringFollow      SpringUpdate = iota // direction follows the two attachment points
	SpringFixed                           // direction stays at its initial value
	SpringConvMaster                      // direction converted into the master's local frame
	SpringConvSlave                       // direction converted into the slave's local frame
)

// zSize is the size of the auxiliary Z storage, original_source/dom.h's
// DOM_Z_SIZE.
const zSize = 7

// Constraint is a single constraint between a master body and,
// optionally, a slave body (original_source/dom.h's struct constraint).
type Constraint struct {
	ID    int
	Kind  Kind
	State State

	Master, Slave *body.Body

	// MasterPoint, SlavePoint are referential attachment points.
	MasterPoint [3]float64
	SlavePoint  [3]float64

	// Point is the current spatial contact/attachment point; Base is
	// the local orthonormal frame (3 rows), Normal == Base[0].
	Point [3]float64
	Base  [3][3]float64

	Area float64
	Gap  float64

	// R is the average reaction, U the current relative local velocity,
	// V the relative local velocity recorded at step start.
	R [3]float64
	U [3]float64
	V [3]float64

	// Z is auxiliary storage; use the typed accessors below rather than
	// indexing directly, matching original_source/dom.h's RIGLNK_VEC/
	// RIGLNK_LEN/STRENGTH/VELODIR macros.
	Z [zSize]float64

	// Merit is the constraint-satisfaction residual reported by the
	// solver (spec §4.8).
	Merit float64

	// SurfPair is the (master,slave) surface id pair for a contact.
	SurfPair [2]int

	Friction float64 // Coulomb coefficient, contact only

	SpringUpdate SpringUpdate
	SpringLimit  [2]float64
	SpringFunc   body.TimeFunc

	VelocityFunc body.TimeFunc // VELODIR target velocity time series
}

// RigLnkVec returns the rigid-link direction vector stored in Z[0:3],
// original_source/dom.h's RIGLNK_VEC(Z).
func (c *Constraint) RigLnkVec() [3]float64 { return [3]float64{c.Z[0], c.Z[1], c.Z[2]} }

// SetRigLnkVec stores the rigid-link direction vector.
func (c *Constraint) SetRigLnkVec(v [3]float64) { c.Z[0], c.Z[1], c.Z[2] = v[0], v[1], v[2] }

// RigLnkLen returns the rigid-link rest length, Z[3].
func (c *Constraint) RigLnkLen() float64 { return c.Z[3] }

// SetRigLnkLen stores the rigid-link rest length.
func (c *Constraint) SetRigLnkLen(l float64) { c.Z[3] = l }

// Strength returns the cohesive/tensile strength, Z[4].
func (c *Constraint) Strength() float64 { return c.Z[4] }

// SetStrength stores the cohesive/tensile strength.
func (c *Constraint) SetStrength(s float64) { c.Z[4] = s }

// VelodirTarget returns the prescribed velocity at (t+h), Z[0]
// (original_source/dom.h's VELODIR(Z); VELODIR constraints never also
// carry a rigid-link vector, so the storage is shared).
func (c *Constraint) VelodirTarget() float64 { return c.Z[0] }

// SetVelodirTarget stores the prescribed velocity at (t+h).
func (c *Constraint) SetVelodirTarget(v float64) { c.Z[0] = v }

// TwoSided reports whether both a master and a slave body are present.
func (c *Constraint) TwoSided() bool { return c.Slave != nil }

// OneSidedByObstacle reports whether this constraint should be treated
// as one-sided for inertia purposes, spec §4.6: "a contact whose
// master/slave bodies include an OBSTACLE is treated as one-sided".
func (c *Constraint) OneSidedByObstacle() bool {
	if c.Master != nil && c.Master.Kind == body.Obstacle {
		return true
	}
	if c.Slave != nil && c.Slave.Kind == body.Obstacle {
		return true
	}
	return false
}
