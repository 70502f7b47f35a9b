// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ldy assembles the local dynamical system (spec §4.7): a
// sparse block graph of 3x3 Delassus/mobility blocks connecting every
// constraint to the others sharing a body, built purely through the
// body.GenToLoc / body.Invvec contract (body.Body.Invvec never reads
// the dense inverse operator directly from ldy, it is only called
// through that contract, matching spec §4.8's guarantee (a)).
package ldy

import (
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/solfec/body"
	"github.com/cpmech/solfec/con"
)

// Block is a dense 3x3 local-frame block.
type Block [3][3]float64

// Add accumulates src into dst in place.
func (dst *Block) Add(src Block) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			dst[i][j] += src[i][j]
		}
	}
}

// pairKey orders a pair of constraint ids so (a,b) and (b,a) collide.
type pairKey [2]int

func orderedPair(a, b int) pairKey {
	if a <= b {
		return pairKey{a, b}
	}
	return pairKey{b, a}
}

// System is the assembled local dynamical system for one solver
// invocation: a diagonal block per constraint and an off-diagonal
// block per pair of constraints sharing a body, original_source/
// dom.h's LOCDYN / DIAB.
type System struct {
	Order []int                 // constraint ids in assembly order
	ByID  map[int]*con.Constraint
	Diag  map[int]*Block
	Off   map[pairKey]*Block
}

// Diagonal returns the diagonal block for constraint id, or nil.
func (s *System) Diagonal(id int) *Block { return s.Diag[id] }

// OffDiagonal returns the block between constraints a and b (either
// order), or nil if they do not share a body.
func (s *System) OffDiagonal(a, b int) *Block { return s.Off[orderedPair(a, b)] }

// Build assembles the local dynamical system from the current set of
// constraints, spec §4.7: "for each constraint c with body B, and each
// other constraint c' attached to B, build a 3x3 block base(c)^T ·
// gen_to_loc(c) · M⁻¹(B) · gen_to_loc(c')^T · base(c')". Diagonal
// blocks receive the sum of both bodies' contributions when the
// constraint is two-sided (spec §4.7); an OBSTACLE body contributes
// nothing, since body.Body.GenToLoc/Invvec both treat OBSTACLE as
// having no generalised velocity DOFs.
func Build(constraints []*con.Constraint) *System {
	s := &System{
		ByID: make(map[int]*con.Constraint, len(constraints)),
		Diag: make(map[int]*Block, len(constraints)),
		Off:  make(map[pairKey]*Block),
	}
	for _, c := range constraints {
		s.Order = append(s.Order, c.ID)
		s.ByID[c.ID] = c
	}
	for _, c := range constraints {
		contributeBody(s, c, c.Master, c.MasterPoint)
		contributeBody(s, c, c.Slave, c.SlavePoint)
	}
	return s
}

// contributeBody adds to the system every block involving constraint c
// through body b, iterating over every other constraint attached to b.
func contributeBody(s *System, c *con.Constraint, b *body.Body, point [3]float64) {
	if b == nil || b.Kind == body.Obstacle {
		return
	}
	baseC := rowsOf(c.Base)
	hC := b.GenToLoc(point[:], baseC)
	for otherID := range b.Constraints {
		c2 := s.ByID[otherID]
		if c2 == nil {
			continue
		}
		point2, ok := attachmentPoint(c2, b)
		if !ok {
			continue
		}
		baseC2 := rowsOf(c2.Base)
		hC2 := b.GenToLoc(point2[:], baseC2)
		blk := sandwich(b, hC, hC2)
		if c2.ID == c.ID {
			accumulateDiag(s, c.ID, blk)
		} else if c.ID < c2.ID {
			// each pair is met twice (once from each constraint);
			// accumulate it once, from the lower id.
			accumulateOff(s, c.ID, c2.ID, blk)
		}
	}
}

// attachmentPoint returns the referential point at which constraint c
// touches body b, and whether b is actually one of c's two bodies.
func attachmentPoint(c *con.Constraint, b *body.Body) ([3]float64, bool) {
	if c.Master == b {
		return c.MasterPoint, true
	}
	if c.Slave == b {
		return c.SlavePoint, true
	}
	return [3]float64{}, false
}

// sandwich computes h1 * Minv(b) * h2^T, a 3x3 block, using only the
// body.Invvec contract (never reading b.Inverse directly). The
// intermediate (Dofs x 3) matrix M^-1 * h2^T is held in a gosl/la dense
// matrix, matching how the teacher assembles small dense element
// operators (e.g. ele/solid's stiffness blocks) rather than ad hoc
// nested slices.
func sandwich(b *body.Body, h1, h2 [][]float64) Block {
	n := b.Dofs
	cols := la.MatAlloc(n, 3)
	for j := 0; j < 3; j++ {
		col := make([]float64, n)
		b.Invvec(1, h2[j], 0, col)
		for k := 0; k < n; k++ {
			cols[k][j] = col[k]
		}
	}
	var out Block
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sum := 0.0
			for k := 0; k < n; k++ {
				sum += h1[i][k] * cols[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

func accumulateDiag(s *System, id int, blk Block) {
	d, ok := s.Diag[id]
	if !ok {
		d = &Block{}
		s.Diag[id] = d
	}
	d.Add(blk)
}

func accumulateOff(s *System, a, b int, blk Block) {
	key := orderedPair(a, b)
	d, ok := s.Off[key]
	if !ok {
		d = &Block{}
		s.Off[key] = d
	}
	// blk was built as h(a) * Minv * h(b)^T; when a > b the key swap
	// would store the transpose-indexed block under the wrong rows, so
	// transpose the contribution to match the canonical (min,max) order.
	if a > b {
		blk = transpose(blk)
	}
	d.Add(blk)
}

func transpose(b Block) Block {
	var t Block
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t[i][j] = b[j][i]
		}
	}
	return t
}

func rowsOf(base [3][3]float64) [][]float64 {
	return [][]float64{
		{base[0][0], base[0][1], base[0][2]},
		{base[1][0], base[1][1], base[1][2]},
		{base[2][0], base[2][1], base[2][2]},
	}
}
