// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ldy

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

func attach(b *body.Body, c *con.Constraint) { b.Constraints[c.ID] = true }

func TestBuildDiagonalBlockIsPositive(t *testing.T) {
	b := body.NewRigid(cube(0.5, 1), body.Material{Density: 1000}, "b1", 0, body.SchemeRigidNEW2)
	b.DynamicInit()

	c := &con.Constraint{
		ID: 1, Kind: con.Contact,
		Master:      b,
		MasterPoint: [3]float64{0, 0, -0.5},
		Base:        [3][3]float64{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	}
	attach(b, c)

	sys := Build([]*con.Constraint{c})
	d := sys.Diagonal(1)
	if d == nil {
		t.Fatalf("expected a diagonal block for constraint 1")
	}
	if d[0][0] <= 0 {
		t.Fatalf("expected positive normal-normal mobility, got %v", d[0][0])
	}
}

func TestBuildOffDiagonalSymmetricAcrossQueryOrder(t *testing.T) {
	b := body.NewRigid(cube(0.5, 1), body.Material{Density: 1000}, "b1", 0, body.SchemeRigidNEW2)
	b.DynamicInit()

	c1 := &con.Constraint{
		ID: 1, Kind: con.Contact, Master: b,
		MasterPoint: [3]float64{0, 0, -0.5},
		Base:        [3][3]float64{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	}
	c2 := &con.Constraint{
		ID: 2, Kind: con.Contact, Master: b,
		MasterPoint: [3]float64{0.5, 0, 0},
		Base:        [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	}
	attach(b, c1)
	attach(b, c2)

	sys := Build([]*con.Constraint{c1, c2})
	off12 := sys.OffDiagonal(1, 2)
	off21 := sys.OffDiagonal(2, 1)
	if off12 == nil || off21 == nil {
		t.Fatalf("expected an off-diagonal block between constraints 1 and 2")
	}
	if *off12 != *off21 {
		t.Fatalf("OffDiagonal should be order-independent: %v vs %v", off12, off21)
	}
}

func TestBuildIgnoresObstacleContribution(t *testing.T) {
	obst := body.NewObstacle(cube(0.5, 2), "ground")
	c := &con.Constraint{
		ID: 1, Kind: con.Contact, Master: obst,
		MasterPoint: [3]float64{0, 0, 0},
		Base:        [3][3]float64{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	}
	attach(obst, c)

	sys := Build([]*con.Constraint{c})
	if d := sys.Diagonal(1); d != nil && (*d != (Block{})) {
		t.Fatalf("expected zero/nil contribution from an obstacle body, got %v", d)
	}
}
