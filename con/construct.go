// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package con

import (
	"math"

	"github.com/cpmech/solfec/body"
)

// GeometricEpsilon bounds how close two rigid-link attachment points
// must be, in the current spatial configuration, before the link
// degenerates into a gluing FIXPNT constraint (spec §4.6,
// original_source/dom.h's DOM_Put_Rigid_Link doc comment).
const GeometricEpsilon = 1e-9

// NewContact builds a CONTACT constraint from a detector result (see
// package contact's Result), with id supplied by the caller's freelist
// (owned by dom.Domain, spec §4.6).
func NewContact(id int, master, slave *body.Body, mpnt, spnt, point, normal, tangent1, tangent2 [3]float64, area, gap, friction float64, surfPair [2]int) *Constraint {
	return &Constraint{
		ID: id, Kind: Contact, State: New,
		Master: master, Slave: slave,
		MasterPoint: mpnt, SlavePoint: spnt,
		Point:    point,
		Base:     [3][3]float64{normal, tangent1, tangent2},
		Area:     area,
		Gap:      gap,
		Friction: friction,
		SurfPair: surfPair,
	}
}

// identityFrame is the orthonormal frame for constraints (FIXPNT) that
// restrain a point along all three world axes at once.
var identityFrame = [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// orthonormalFrame completes dir into a right-handed orthonormal basis,
// Gram-Schmidt against whichever world axis is least parallel to dir
// (mirrors package dom's contact tangentFrame); every row of
// Constraint.Base must be populated or the assembled diagonal block is
// singular and the solver silently drops the constraint (ldy.Build
// sandwiches body.GenToLoc(point, Base) on all 3 rows, slv.solve3
// returns the zero reaction whenever that block's determinant is
// ~zero).
func orthonormalFrame(dir [3]float64) [3][3]float64 {
	seed := [3]float64{1, 0, 0}
	if math.Abs(dir[0]) > 0.9 {
		seed = [3]float64{0, 1, 0}
	}
	t1 := normalize(cross(seed, dir))
	t2 := normalize(cross(dir, t1))
	return [3][3]float64{dir, t1, t2}
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize(v [3]float64) [3]float64 {
	n := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if n < 1e-300 {
		return [3]float64{}
	}
	return [3]float64{v[0] / n, v[1] / n, v[2] / n}
}

// NewFixPoint fixes a referential point of bod along all directions,
// original_source/dom.h's DOM_Fix_Point.
func NewFixPoint(id int, bod *body.Body, point [3]float64, strength float64) *Constraint {
	c := &Constraint{ID: id, Kind: FixPoint, State: New, Master: bod, MasterPoint: point, Base: identityFrame}
	c.SetStrength(strength)
	return c
}

// NewFixDirection fixes a referential point of bod along the spatial
// direction dir; if bod2 is non-nil the direction is fixed relative to
// bod2's referential point point2 instead of the fixed spatial frame,
// original_source/dom.h's DOM_Fix_Direction.
func NewFixDirection(id int, bod *body.Body, point [3]float64, dir [3]float64, bod2 *body.Body, point2 [3]float64) *Constraint {
	return &Constraint{
		ID: id, Kind: FixDirection, State: New,
		Master: bod, MasterPoint: point,
		Slave: bod2, SlavePoint: point2,
		Base: orthonormalFrame(dir),
	}
}

// NewVelocity prescribes the velocity of a referential point along a
// spatial direction, original_source/dom.h's DOM_Set_Velocity.
func NewVelocity(id int, bod *body.Body, point [3]float64, dir [3]float64, vel body.TimeFunc) *Constraint {
	return &Constraint{
		ID: id, Kind: Velocity, State: New,
		Master: bod, MasterPoint: point,
		Base:         orthonormalFrame(dir),
		VelocityFunc: vel,
	}
}

// NewRigidLink inserts a rigid link between two referential points of
// master and slave (either may be nil, indicating a fixed spatial
// anchor). If the two points coincide in the current spatial
// configuration, the link degenerates into a two-body gluing FIXPNT
// constraint instead (spec §4.6, Open Question-free: this behaviour is
// explicit in original_source/dom.h's doc comment, not a design choice
// left open by spec.md).
func NewRigidLink(id int, master, slave *body.Body, mpnt, spnt [3]float64, strength float64) *Constraint {
	mCur := currentPoint(master, mpnt)
	sCur := currentPoint(slave, spnt)
	d := [3]float64{mCur[0] - sCur[0], mCur[1] - sCur[1], mCur[2] - sCur[2]}
	length := math.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
	if length < GeometricEpsilon {
		c := &Constraint{
			ID: id, Kind: FixPoint, State: New,
			Master: master, Slave: slave,
			MasterPoint: mpnt, SlavePoint: spnt,
			Base: identityFrame,
		}
		c.SetStrength(strength)
		return c
	}
	c := &Constraint{
		ID: id, Kind: RigidLink, State: New,
		Master: master, Slave: slave,
		MasterPoint: mpnt, SlavePoint: spnt,
	}
	dir := [3]float64{d[0] / length, d[1] / length, d[2] / length}
	c.SetRigLnkVec(dir)
	c.SetRigLnkLen(length)
	c.SetStrength(strength)
	c.Base = orthonormalFrame(dir)
	return c
}

// NewSpring creates a user spring constraint, original_source/dom.h's
// DOM_Put_Spring.
func NewSpring(id int, master *body.Body, mpnt [3]float64, slave *body.Body, spnt [3]float64, fn body.TimeFunc, lim [2]float64, direction [3]float64, update SpringUpdate) *Constraint {
	return &Constraint{
		ID: id, Kind: Spring, State: New,
		Master: master, MasterPoint: mpnt,
		Slave: slave, SlavePoint: spnt,
		SpringFunc:   fn,
		SpringLimit:  lim,
		SpringUpdate: update,
		Base:         orthonormalFrame(direction),
	}
}

func currentPoint(b *body.Body, refPoint [3]float64) [3]float64 {
	if b == nil {
		return refPoint
	}
	p := b.CurPoint(refPoint[:])
	return [3]float64{p[0], p[1], p[2]}
}
