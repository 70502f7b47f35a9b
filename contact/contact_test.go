// Copyright 2008, 2009 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contact

import (
	"math"
	"testing"

	"github.com/cpmech/solfec/geom"
)

func cube(center []float64, half float64, surf int) *geom.Convex {
	v := [][]float64{
		{-half, -half, -half}, {half, -half, -half}, {half, half, -half}, {-half, half, -half},
		{-half, -half, half}, {half, -half, half}, {half, half, half}, {-half, half, half},
	}
	for _, p := range v {
		p[0] += center[0]
		p[1] += center[1]
		p[2] += center[2]
	}
	faces := [][]int{
		{0, 3, 2, 1}, {4, 5, 6, 7}, {0, 1, 5, 4}, {1, 2, 6, 5}, {2, 3, 7, 6}, {3, 0, 4, 7},
	}
	return geom.NewConvex(v, faces, []int{surf, surf, surf, surf, surf, surf})
}

func TestDetectSphereSphereOverlap(t *testing.T) {
	a := geom.NewSphere([]float64{0, 0, 0}, 1, 1)
	b := geom.NewSphere([]float64{1.5, 0, 0}, 1, 2)
	res, err := Detect(a, b, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != NewContact {
		t.Fatalf("expected contact, got %v", res.Outcome)
	}
	if res.Gap >= 0 {
		t.Fatalf("expected penetration, got gap=%v", res.Gap)
	}
	if math.Abs(res.Normal[0]-1) > 1e-9 {
		t.Fatalf("expected normal (1,0,0), got %v", res.Normal)
	}
}

func TestDetectSphereSphereNoContact(t *testing.T) {
	a := geom.NewSphere([]float64{0, 0, 0}, 1, 0)
	b := geom.NewSphere([]float64{5, 0, 0}, 1, 0)
	res, err := Detect(a, b, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != NoContact {
		t.Fatalf("expected no contact, got %v", res.Outcome)
	}
}

func TestDetectConvexConvexOverlap(t *testing.T) {
	a := cube([]float64{0, 0, 0}, 0.5, 1)
	b := cube([]float64{0.8, 0, 0}, 0.5, 2)
	res, err := Detect(a, b, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != NewContact {
		t.Fatalf("expected contact, got %v outcome", res.Outcome)
	}
	if res.Area <= 0 {
		t.Fatalf("expected positive area, got %v", res.Area)
	}
	if math.Abs(math.Abs(res.Normal[0])-1) > 1e-6 {
		t.Fatalf("expected normal along x, got %v", res.Normal)
	}
}

func TestDetectConvexSphere(t *testing.T) {
	c := cube([]float64{0, 0, 0}, 0.5, 1)
	s := geom.NewSphere([]float64{0.7, 0, 0}, 0.3, 2)
	res, err := Detect(c, s, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != NewContact {
		t.Fatalf("expected contact, got %v", res.Outcome)
	}
}
