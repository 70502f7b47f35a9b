// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"testing"

	"github.com/cpmech/solfec/body"
	"github.com/cpmech/solfec/dom"
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

func TestAppendAndSeekRoundTrip(t *testing.T) {
	dir := t.TempDir()
	d := dom.New()
	b := d.AddBody(body.NewRigid(cube(0.5, 1), body.Material{Density: 1000}, "box1", 0, body.SchemeRigidNEW2), "box1")
	b.Velo[2] = -1.5

	s, err := Create(dir, "run", "gob")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	d.Time = 0.1
	if err := s.Append(d, []*body.Body{b}, map[string]float64{"solve": 0.002}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	d.Time = 0.2
	b.Velo[2] = -3.0
	if err := s.Append(d, nil, map[string]float64{"solve": 0.003}); err != nil {
		t.Fatalf("second Append failed: %v", err)
	}
	s.Close()

	reopened, err := Open(dir, "run", "gob")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reopened.Close()

	fr, ok := reopened.Seek(0.15)
	if !ok {
		t.Fatalf("Seek(0.15) found nothing")
	}
	if fr.Time != 0.1 {
		t.Fatalf("Seek(0.15) returned frame at t=%v, want 0.1", fr.Time)
	}
	if len(fr.NewBod) != 1 {
		t.Fatalf("expected 1 new-body record in the first frame, got %d", len(fr.NewBod))
	}
	if len(fr.Bods) != 1 || fr.Bods[0].Velo[2] != -1.5 {
		t.Fatalf("unexpected body record: %+v", fr.Bods)
	}

	fwd, ok := reopened.Forward(0.1)
	if !ok || fwd.Time != 0.2 {
		t.Fatalf("Forward(0.1) = %+v, %v", fwd, ok)
	}
	back, ok := reopened.Backward(0.2)
	if !ok || back.Time != 0.1 {
		t.Fatalf("Backward(0.2) = %+v, %v", back, ok)
	}
}

func TestHistoryExtractsPerFrameScalar(t *testing.T) {
	dir := t.TempDir()
	d := dom.New()
	b := d.AddBody(body.NewRigid(cube(0.5, 1), body.Material{Density: 1000}, "box1", 0, body.SchemeRigidNEW2), "box1")

	s, err := Create(dir, "hist", "json")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for i, v := range []float64{-1, -2, -3} {
		d.Time = float64(i) * 0.1
		b.Velo[2] = v
		if err := s.Append(d, nil, nil); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	defer s.Close()

	times, values := s.History(func(fr Frame) (float64, bool) {
		for _, rec := range fr.Bods {
			if rec.ID == b.ID {
				return rec.Velo[2], true
			}
		}
		return 0, false
	})
	if len(times) != 3 || values[2] != -3 {
		t.Fatalf("History = %v, %v", times, values)
	}
}
