// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package con

import (
	"testing"

	"github.com/cpmech/solfec/body"
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

func TestConstraintKindString(t *testing.T) {
	cases := map[Kind]string{
		Contact: "CONTACT", FixPoint: "FIXPNT", FixDirection: "FIXDIR",
		Velocity: "VELODIR", RigidLink: "RIGLNK", Spring: "SPRING",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestRigLnkAndStrengthAccessors(t *testing.T) {
	var c Constraint
	c.SetRigLnkVec([3]float64{1, 2, 3})
	if got := c.RigLnkVec(); got != [3]float64{1, 2, 3} {
		t.Fatalf("RigLnkVec = %v", got)
	}
	c.SetRigLnkLen(5)
	if c.RigLnkLen() != 5 {
		t.Fatalf("RigLnkLen = %v", c.RigLnkLen())
	}
	c.SetStrength(7)
	if c.Strength() != 7 {
		t.Fatalf("Strength = %v", c.Strength())
	}
	c.SetVelodirTarget(2.5)
	if c.VelodirTarget() != 2.5 {
		t.Fatalf("VelodirTarget = %v", c.VelodirTarget())
	}
}

func TestTwoSidedAndOneSidedByObstacle(t *testing.T) {
	rigid := body.NewRigid(cube(0.5, 1), body.Material{Density: 1000}, "b1", 0, body.SchemeRigidNEW2)
	obst := body.NewObstacle(cube(0.5, 2), "obst")

	c1 := &Constraint{Master: rigid}
	if c1.TwoSided() {
		t.Fatalf("expected one-sided constraint")
	}
	if c1.OneSidedByObstacle() {
		t.Fatalf("did not expect obstacle involvement")
	}

	c2 := &Constraint{Master: rigid, Slave: obst}
	if !c2.TwoSided() {
		t.Fatalf("expected two-sided constraint")
	}
	if !c2.OneSidedByObstacle() {
		t.Fatalf("expected obstacle involvement")
	}
}

func TestNewRigidLinkDegeneratesToFixPointWhenPointsCoincide(t *testing.T) {
	a := body.NewRigid(cube(0.5, 1), body.Material{Density: 1000}, "a", 0, body.SchemeRigidNEW2)
	b := body.NewRigid(cube(0.5, 1), body.Material{Density: 1000}, "b", 0, body.SchemeRigidNEW2)
	a.DynamicInit()
	b.DynamicInit()

	same := [3]float64{0, 0, 0}
	c := NewRigidLink(1, a, b, same, same, 1.0)
	if c.Kind != FixPoint {
		t.Fatalf("expected degeneration to FIXPNT, got %v", c.Kind)
	}
	if c.Master != a || c.Slave != b {
		t.Fatalf("expected master/slave to be preserved across degeneration")
	}
}

func TestNewRigidLinkKeepsRigLnkWhenPointsDiffer(t *testing.T) {
	a := body.NewRigid(cube(0.5, 1), body.Material{Density: 1000}, "a", 0, body.SchemeRigidNEW2)
	b := body.NewRigid(cube(0.5, 1), body.Material{Density: 1000}, "b", 0, body.SchemeRigidNEW2)
	a.DynamicInit()
	b.DynamicInit()

	c := NewRigidLink(1, a, b, [3]float64{0, 0, 0}, [3]float64{0, 0, 5}, 1.0)
	if c.Kind != RigidLink {
		t.Fatalf("expected RIGLNK, got %v", c.Kind)
	}
	if c.RigLnkLen() <= 0 {
		t.Fatalf("expected positive rest length, got %v", c.RigLnkLen())
	}
	v := c.RigLnkVec()
	norm := v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
	if norm < 0.99 || norm > 1.01 {
		t.Fatalf("expected unit direction vector, got norm %v", norm)
	}
}

func TestNewFixPointAndNewVelocity(t *testing.T) {
	a := body.NewRigid(cube(0.5, 1), body.Material{Density: 1000}, "a", 0, body.SchemeRigidNEW2)
	fp := NewFixPoint(1, a, [3]float64{0.5, 0, 0}, 10)
	if fp.Kind != FixPoint || fp.Strength() != 10 {
		t.Fatalf("unexpected fix point constraint: %+v", fp)
	}
	vc := NewVelocity(2, a, [3]float64{0, 0, 0}, [3]float64{0, 0, 1}, body.ConstFunc(1.5))
	if vc.Kind != Velocity || vc.VelocityFunc == nil {
		t.Fatalf("unexpected velocity constraint: %+v", vc)
	}
}
