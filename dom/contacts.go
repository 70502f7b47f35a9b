// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dom

import (
	"math"

	"github.com/cpmech/gosl/io"

	"github.com/cpmech/solfec/body"
	"github.com/cpmech/solfec/box"
	"github.com/cpmech/solfec/con"
	"github.com/cpmech/solfec/contact"
	"github.com/cpmech/solfec/geom"
)

// ContactOptions is forwarded to contact.Detect/Update; exported so a
// caller (package session) can tune the gap strategy (Open Question
// (i)) without reaching into package dom's internals.
var ContactOptions = contact.DefaultOptions()

// detectContacts implements spec §4.9 phase 3: broad phase over the
// current box index, narrow-phase dispatch (update mode for pairs
// already bearing a contact constraint, fresh mode otherwise),
// sparsification against Thresholds, and DEPTH_VIOLATED flagging.
// Geometry sanity failures (contact.ErrDegenerate) drop the offending
// pair with a logged warning, never fatally (spec §7.2).
func (d *Domain) detectContacts() {
	pairs := d.AABB.Query()
	seen := make(map[[2]int]bool, len(pairs))
	for _, p := range pairs {
		if p.A.BodyID == p.B.BodyID {
			a := d.Bodies[p.A.BodyID]
			if a == nil || a.Flags&body.DetectSelfContact == 0 {
				continue
			}
		}
		key := orderedPair(p.A.BodyID, p.B.BodyID)
		if seen[key] {
			continue
		}
		seen[key] = true
		d.detectPair(key, p)
	}
}

func (d *Domain) detectPair(bodyKey [2]int, p box.Pair) {
	a := d.Bodies[p.A.BodyID]
	b := d.Bodies[p.B.BodyID]
	if a == nil || b == nil {
		return
	}
	pa, okA := shapeFor(a)
	pb, okB := shapeFor(b)
	if !okA || !okB {
		return // FINITE_ELEMENT meshes: narrow-phase reduction not wired, see DESIGN.md
	}

	existing := d.existingContact(bodyKey)
	var res contact.Result
	var err error
	if existing != nil {
		res, err = contact.Update(pa, pb, existing.SurfPair, ContactOptions)
	} else {
		res, err = contact.Detect(pa, pb, ContactOptions)
	}
	if err != nil {
		io.Pfyel("dom: dropping contact candidate (bodies %d,%d): %v\n", bodyKey[0], bodyKey[1], err)
		if existing != nil {
			d.RemoveConstraint(existing.ID)
		}
		return
	}
	switch res.Outcome {
	case contact.NoContact:
		if existing != nil {
			d.RemoveConstraint(existing.ID)
		}
	case contact.Rejected:
		io.Pfyel("dom: contact candidate rejected by sanity check (bodies %d,%d)\n", bodyKey[0], bodyKey[1])
		if existing != nil {
			d.RemoveConstraint(existing.ID)
		}
	case contact.NewContact:
		if existing != nil {
			d.updateContact(existing, res)
			return
		}
		d.createContact(a, b, res)
	}
}

// shapeFor returns the single narrow-phase-dispatchable primitive of a
// body, and false for a FINITE_ELEMENT mesh (see DESIGN.md: per-element
// mesh reduction is not wired into the step driver; none of spec §8's
// end-to-end scenarios exercise FEM-body contact).
func shapeFor(b *body.Body) (geom.Primitive, bool) {
	switch b.Shape.(type) {
	case *geom.Mesh:
		return nil, false
	default:
		return b.Shape, true
	}
}

func (d *Domain) existingContact(bodyKey [2]int) *con.Constraint {
	for id := range d.Bodies[bodyKey[0]].Constraints {
		c := d.Constraints[id]
		if c == nil || c.Kind != con.Contact {
			continue
		}
		if bodyPairOf(c) == bodyKey {
			return c
		}
	}
	return nil
}

func bodyPairOf(c *con.Constraint) [2]int {
	m, s := -1, -1
	if c.Master != nil {
		m = c.Master.ID
	}
	if c.Slave != nil {
		s = c.Slave.ID
	}
	return orderedPair(m, s)
}

// createContact applies the sparsification gates of spec §4.9 phase 3
// before inserting a new CONTACT constraint: contacts whose area is
// below MinArea, or whose point falls within MinDistance of another
// contact already on the same body pair, are not created.
func (d *Domain) createContact(a, b *body.Body, res contact.Result) {
	if res.Area < d.Thresholds.MinArea {
		return
	}
	for id := range a.Constraints {
		c := d.Constraints[id]
		if c == nil || c.Kind != con.Contact {
			continue
		}
		if bodyPairOf(c) != orderedPair(a.ID, b.ID) {
			continue
		}
		if pointDistance(c.Point, res.Point) < d.Thresholds.MinDistance {
			return // sparsified: close enough to an existing contact
		}
	}
	mpnt := toArray(a.RefPoint(res.Point))
	spnt := toArray(b.RefPoint(res.Point))
	normal := toArray(res.Normal)
	t1, t2 := tangentFrame(normal)
	mat := d.surfaceMaterial(res.SurfPair[0], res.SurfPair[1])
	c := con.NewContact(0, a, b, mpnt, spnt, toArray(res.Point), normal, t1, t2, res.Area, res.Gap, mat.Friction, res.SurfPair)
	if res.Gap < d.Thresholds.PenetrationDepth {
		c.State |= con.DepthViolated
		io.Pfyel("dom: contact (bodies %d,%d) DEPTH_VIOLATED, gap=%v\n", a.ID, b.ID, res.Gap)
	}
	d.AddConstraint(c)
}

// updateContact refreshes an existing contact's normal, point, area and
// gap; when the detector reports SurfPairChanged (its surface pair
// differs from the stored one on either side) the stored pair is
// replaced by the detector's and the New state bit is set.
func (d *Domain) updateContact(c *con.Constraint, res contact.Result) {
	c.Point = toArray(res.Point)
	normal := toArray(res.Normal)
	t1, t2 := tangentFrame(normal)
	c.Base = [3][3]float64{normal, t1, t2}
	c.Area = res.Area
	c.Gap = res.Gap
	if res.SurfPairChanged {
		c.SurfPair = res.SurfPair
		c.State |= con.New // no step phase reads this bit back
	}
	if res.Gap < d.Thresholds.PenetrationDepth {
		c.State |= con.DepthViolated
		io.Pfyel("dom: contact %d DEPTH_VIOLATED, gap=%v\n", c.ID, res.Gap)
	}
}

func pointDistance(a, b [3]float64) float64 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func toArray(v []float64) [3]float64 { return [3]float64{v[0], v[1], v[2]} }

// tangentFrame completes an outward normal into an orthonormal 3x3
// frame (con.Constraint's Base invariant, spec §8 "Orthonormal bases"),
// picking whichever of the world X/Y axes is least parallel to normal
// as the seed for Gram-Schmidt, to avoid a degenerate cross product.
func tangentFrame(normal [3]float64) (t1, t2 [3]float64) {
	seed := [3]float64{1, 0, 0}
	if math.Abs(normal[0]) > 0.9 {
		seed = [3]float64{0, 1, 0}
	}
	t1raw := cross(seed, normal)
	t1 = normalize(t1raw)
	t2 = normalize(cross(normal, t1))
	return
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
