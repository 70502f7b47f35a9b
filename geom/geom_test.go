// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"math"
	"testing"
)

func cube(half float64) *Convex {
	v := [][]float64{
		{-half, -half, -half}, {half, -half, -half}, {half, half, -half}, {-half, half, -half},
		{-half, -half, half}, {half, -half, half}, {half, half, half}, {-half, half, half},
	}
	faces := [][]int{
		{0, 3, 2, 1}, // bottom
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4}, // front
		{1, 2, 6, 5}, // right
		{2, 3, 7, 6}, // back
		{3, 0, 4, 7}, // left
	}
	surf := []int{1, 2, 3, 4, 5, 6}
	return NewConvex(v, faces, surf)
}

func TestConvexExtents(t *testing.T) {
	c := cube(0.5)
	e := c.Extents()
	want := [6]float64{-0.5, -0.5, -0.5, 0.5, 0.5, 0.5}
	for i := range e {
		if math.Abs(e[i]-want[i]) > 1e-9 {
			t.Fatalf("extents[%d] = %v, want %v", i, e[i], want[i])
		}
	}
}

func TestConvexContains(t *testing.T) {
	c := cube(0.5)
	if !c.Contains([]float64{0, 0, 0}) {
		t.Fatal("origin should be inside unit cube")
	}
	if c.Contains([]float64{1, 0, 0}) {
		t.Fatal("point outside cube reported as contained")
	}
}

func TestConvexVolume(t *testing.T) {
	c := cube(0.5)
	var chars PartialChars
	c.CharPartial(true, &chars)
	if math.Abs(chars.Volume-1.0) > 1e-6 {
		t.Fatalf("unit cube volume = %v, want 1", chars.Volume)
	}
}

func TestSphereExtentsAndDistance(t *testing.T) {
	s := NewSphere([]float64{1, 2, 3}, 2, 0)
	e := s.Extents()
	want := [6]float64{-1, 0, 1, 3, 4, 5}
	for i := range e {
		if math.Abs(e[i]-want[i]) > 1e-9 {
			t.Fatalf("extents[%d] = %v, want %v", i, e[i], want[i])
		}
	}
	d := s.SpatialPointDistance([]float64{1, 2, 5})
	if math.Abs(d-0) > 1e-9 {
		t.Fatalf("distance = %v, want 0", d)
	}
}

func TestEllipsoidUnitSphereRoundtrip(t *testing.T) {
	e := NewEllipsoid([]float64{0, 0, 0}, []float64{1, 1, 1}, 0)
	// a unit-radii ellipsoid is a unit sphere: containment must match.
	if !e.Contains([]float64{0.5, 0, 0}) {
		t.Fatal("point inside unit sphere reported outside")
	}
	if e.Contains([]float64{2, 0, 0}) {
		t.Fatal("point outside unit sphere reported inside")
	}
	n := e.NormalAt([]float64{1, 0, 0})
	if math.Abs(n[0]-1) > 1e-9 {
		t.Fatalf("normal at (1,0,0) = %v, want (1,0,0)", n)
	}
}

func TestEllipsoidExtents(t *testing.T) {
	e := NewEllipsoid([]float64{0, 0, 0}, []float64{1, 2, 3}, 0)
	ex := e.Extents()
	want := [6]float64{-1, -2, -3, 1, 2, 3}
	for i := range ex {
		if math.Abs(ex[i]-want[i]) > 1e-9 {
			t.Fatalf("extents[%d] = %v, want %v", i, ex[i], want[i])
		}
	}
}
