// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"os"
	"path"
	"testing"

	"github.com/cpmech/solfec/body"
	"github.com/cpmech/solfec/geom"
	"github.com/cpmech/solfec/series"
	"github.com/cpmech/solfec/slv"
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

func TestRunAdvancesToTfUnderGravity(t *testing.T) {
	dir := t.TempDir()
	solver := slv.NewGaussSeidel(slv.DefaultOptions())
	s, err := New(Config{DirOut: dir, Key: "run1", EncType: "gob"}, solver)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	b := s.AddBody(body.NewRigid(cube(0.5, 1), body.Material{Density: 1000}, "box1", 0, body.SchemeRigidNEW2), "box1")
	s.Domain.Gravity[2] = series.Constant(-9.8)

	if err := s.Run(0.01, 1e-3, 0.005); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if s.Domain.Time < 0.01-1e-9 {
		t.Fatalf("Time = %v, want >= 0.01", s.Domain.Time)
	}
	if b.Velo[2] >= 0 {
		t.Fatalf("expected downward velocity, got %v", b.Velo[2])
	}
}

func TestStopFileHaltsRunEarly(t *testing.T) {
	dir := t.TempDir()
	solver := slv.NewGaussSeidel(slv.DefaultOptions())
	s, err := New(Config{DirOut: dir, Key: "run2", EncType: "gob"}, solver)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	s.AddBody(body.NewRigid(cube(0.5, 1), body.Material{Density: 1000}, "box1", 0, body.SchemeRigidNEW2), "box1")

	if err := os.WriteFile(path.Join(dir, "STOP"), nil, 0644); err != nil {
		t.Fatalf("cannot write STOP file: %v", err)
	}
	if err := s.Run(1.0, 1e-3, 0.1); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if s.Domain.Time >= 1.0 {
		t.Fatalf("expected an early stop, but Time = %v", s.Domain.Time)
	}
}
