// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dom

import (
	"math"
	"testing"

	"github.com/cpmech/solfec/body"
	"github.com/cpmech/solfec/series"
	"github.com/cpmech/solfec/slv"
)

func TestStepFreeFallUnderGravityNoConstraints(t *testing.T) {
	d := New()
	b := d.AddBody(body.NewRigid(cube(0.5, 1), body.Material{Density: 1000}, "box1", 0, body.SchemeRigidNEW2), "box1")
	d.Gravity[2] = series.Constant(-9.8)

	solver := slv.NewGaussSeidel(slv.DefaultOptions())
	h := 1e-3
	for i := 0; i < 10; i++ {
		if err := d.Step(h, solver, StepConfig{}); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
	}
	if b.Velo[2] >= 0 {
		t.Fatalf("expected downward velocity after free fall, got %v", b.Velo[2])
	}
	if d.NSteps != 10 {
		t.Fatalf("NSteps = %d, want 10", d.NSteps)
	}
	wantTime := 10 * h
	if d.Time < wantTime-1e-9 || d.Time > wantTime+1e-9 {
		t.Fatalf("Time = %v, want %v", d.Time, wantTime)
	}
}

func TestStepFixPointHoldsBodyNearlyStill(t *testing.T) {
	d := New()
	b := d.AddBody(body.NewRigid(cube(0.5, 1), body.Material{Density: 1000}, "box1", 0, body.SchemeRigidNEW2), "box1")
	d.Gravity[2] = series.Constant(-9.8)
	d.FixPoint(b, [3]float64{0, 0, 0}, 1e8)

	solver := slv.NewGaussSeidel(slv.Options{MaxIter: 200, Tolerance: 1e-10})
	h := 1e-3
	for i := 0; i < 20; i++ {
		if err := d.Step(h, solver, StepConfig{}); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
	}
	if math.Abs(b.Velo[0]) > 1e-2 || math.Abs(b.Velo[1]) > 1e-2 || math.Abs(b.Velo[2]) > 1e-2 {
		t.Fatalf("expected the fixed point to suppress translation, got velo=%v", b.Velo)
	}
}

func TestStepPanicsWithNilSolver(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected Step to panic with a nil solver")
		}
	}()
	d := New()
	d.AddBody(body.NewRigid(cube(0.5, 1), body.Material{Density: 1000}, "box1", 0, body.SchemeRigidNEW2), "box1")
	_ = d.Step(1e-3, nil, StepConfig{})
}
