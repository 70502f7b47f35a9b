// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package body

import (
	"math"
	"testing"

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

func TestRigidDynamicInitAndFreeFall(t *testing.T) {
	b := NewRigid(cube(0.5, 1), Material{Density: 1000}, "box1", 0, SchemeRigidNEW2)
	b.DynamicInit()
	if b.RefMass <= 0 {
		t.Fatalf("expected positive mass, got %v", b.RefMass)
	}
	b.ApplyForce(Spatial, [3]float64{0, 0, 0}, [3]float64{0, 0, -1}, ConstFunc(b.RefMass*9.8))
	h := 1e-3
	for i := 0; i < 10; i++ {
		b.StepBegin(float64(i)*h, h)
		b.StepEnd(float64(i)*h, h)
	}
	if b.Velo[2] >= 0 {
		t.Fatalf("expected downward velocity after free fall, got %v", b.Velo[2])
	}
}

func TestRigidInvvec(t *testing.T) {
	b := NewRigid(cube(0.5, 1), Material{Density: 1000}, "box1", 0, SchemeRigidNEW2)
	b.DynamicInit()
	vec := make([]float64, 6)
	vec[0] = b.RefMass
	out := make([]float64, 6)
	b.Invvec(1, vec, 0, out)
	if math.Abs(out[0]-1) > 1e-9 {
		t.Fatalf("expected M^-1 * (mass*e0) = e0, got %v", out[0])
	}
}

func TestRigidKineticEnergy(t *testing.T) {
	b := NewRigid(cube(0.5, 1), Material{Density: 1000}, "box1", 0, SchemeRigidNEW2)
	b.DynamicInit()
	b.Velo[0] = 2
	e := b.KineticEnergy()
	want := 0.5 * b.RefMass * 4
	if math.Abs(e-want) > 1e-6 {
		t.Fatalf("expected kinetic energy %v, got %v", want, e)
	}
}

func TestPseudoRigidStep(t *testing.T) {
	b := NewPseudoRigid(cube(0.5, 1), Material{Density: 1000}, "prb1", 0)
	b.DynamicInit()
	b.Velo[9] = 1 // translation velocity
	h := 1e-3
	b.StepBegin(0, h)
	b.StepEnd(0, h)
	if b.Conf[9] <= 0 {
		t.Fatalf("expected positive translation after step, got %v", b.Conf[9])
	}
}

func TestFiniteElementDofsAndCriticalStep(t *testing.T) {
	nodes := [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	elements := [][]int{{0, 1, 2, 3}}
	faces := [][]int{{0, 2, 1}, {0, 1, 3}, {1, 2, 3}, {0, 3, 2}}
	faceSurf := []int{1, 1, 1, 1}
	mesh := geom.NewMesh(nodes, faces, faceSurf, elements)
	b := NewFiniteElement(mesh, Material{Density: 1000, Young: 1e6}, "fem1", 0)
	b.DynamicInit()
	if len(b.Conf) != 12 {
		t.Fatalf("expected 12 dofs, got %d", len(b.Conf))
	}
	cs := b.CriticalStep()
	if math.IsInf(cs, 1) || cs <= 0 {
		t.Fatalf("expected finite positive critical step, got %v", cs)
	}
}

func TestPermanentFlags(t *testing.T) {
	f := DetectSelfContact | CheckFracture | Parent
	if f.PermanentFlags() != DetectSelfContact|CheckFracture {
		t.Fatalf("expected only detect-self-contact and check-fracture to survive, got %v", f.PermanentFlags())
	}
}
