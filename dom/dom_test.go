// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dom

import (
	"testing"

	"github.com/cpmech/solfec/body"
	"github.com/cpmech/solfec/con"
	"github.com/cpmech/solfec/geom"
)

func cube(half float64, surf int) *geom.Convex {
	v := [][]float64{
		{-half, -half, -half}, {half, -half, -half}, {half, half, -half}, {-half, half, -half},
		{-half, -half, half}, {half, -half, half}, {half, half, half}, {-half, half, half},
	}
	faces := [][]int{
		{0, 3, 2, 1}, {4, 5, 6, 7}, {0, 1, 5, 4}, {1, 2, 6, 5}, {2, 3, 7, 6}, {3, 0, 4, 7},
	}
	return geom.NewConvex(v, faces, []int{surf, surf, surf, surf, surf, surf})
}

func TestFreelistRecyclesUnlessLocked(t *testing.T) {
	f := newFreelist()
	a := f.Alloc()
	b := f.Alloc()
	if a == b {
		t.Fatalf("expected distinct ids, got %d and %d", a, b)
	}
	f.Lock(a)
	f.Free(a)
	if got := f.Alloc(); got == a {
		t.Fatalf("locked id %d was recycled", a)
	}
	f.Unlock(a)
	f.Free(a)
	if got := f.Alloc(); got != a {
		t.Fatalf("expected recycled id %d, got %d", a, got)
	}
}

func TestAddBodyRegistersLabelAndSGP(t *testing.T) {
	d := New()
	b := body.NewRigid(cube(0.5, 1), body.Material{Density: 1000}, "box1", 0, body.SchemeRigidNEW2)
	d.AddBody(b, "box1")
	if d.BodyLabels["box1"] != b {
		t.Fatalf("body not registered under its label")
	}
	if len(b.SGPs) != 1 {
		t.Fatalf("expected one SGP, got %d", len(b.SGPs))
	}
	if b.RefMass <= 0 {
		t.Fatalf("expected DynamicInit to compute a positive mass")
	}
}

func TestRemoveBodyDropsItsConstraints(t *testing.T) {
	d := New()
	b := body.NewRigid(cube(0.5, 1), body.Material{Density: 1000}, "box1", 0, body.SchemeRigidNEW2)
	d.AddBody(b, "box1")
	c := d.FixPoint(b, [3]float64{0, 0, 0.5}, 1e6)
	d.RemoveBody(b.ID)
	if _, ok := d.Constraints[c.ID]; ok {
		t.Fatalf("expected constraint %d to be removed with its body", c.ID)
	}
	if _, ok := d.Bodies[b.ID]; ok {
		t.Fatalf("expected body to be removed")
	}
}

func TestSurfaceMaterialLookupIsOrderIndependent(t *testing.T) {
	d := New()
	d.SetSurfacePair(1, 2, SurfaceMaterial{Friction: 0.3})
	if m := d.surfaceMaterial(1, 2); m.Friction != 0.3 {
		t.Fatalf("surfaceMaterial(1,2) = %v", m)
	}
	if m := d.surfaceMaterial(2, 1); m.Friction != 0.3 {
		t.Fatalf("surfaceMaterial(2,1) = %v", m)
	}
	if m := d.surfaceMaterial(1, 9); m.Friction != 0 {
		t.Fatalf("unregistered pair should default to zero friction, got %v", m.Friction)
	}
}

func TestRigidLinkDegeneratesToFixPointAtCoincidentPoints(t *testing.T) {
	d := New()
	a := d.AddBody(body.NewRigid(cube(0.5, 1), body.Material{Density: 1000}, "a", 0, body.SchemeRigidNEW2), "a")
	b := d.AddBody(body.NewRigid(cube(0.5, 1), body.Material{Density: 1000}, "b", 0, body.SchemeRigidNEW2), "b")
	pnt := [3]float64{0, 0, 0.5}
	c := d.PutRigidLink(a, b, pnt, pnt, 1e6)
	if c.Kind != con.FixPoint {
		t.Fatalf("expected degeneration to FIXPNT, got %v", c.Kind)
	}
}
