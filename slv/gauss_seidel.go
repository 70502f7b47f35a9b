// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slv

import (
	"io"
	"math"

	goslio "github.com/cpmech/gosl/io"

	"github.com/cpmech/solfec/con"
	"github.com/cpmech/solfec/ldy"
)

// GaussSeidel is a projected block Gauss-Seidel solver over the local
// dynamical system, original_source/sol.c's GAUSS_SEIDEL_SOLVER. Each
// constraint's 3x3 diagonal block is inverted exactly and the
// candidate reaction is projected onto the constraint's admissible
// cone (spec §4.8(b)); neighbours already updated this sweep feed
// their latest reaction into the next constraint's right-hand side,
// the classical Gauss-Seidel (as opposed to Jacobi) ordering.
type GaussSeidel struct {
	opts Options
}

// NewGaussSeidel builds a GaussSeidel solver, gofem's ele/factory.go
// naming convention (New<Kind>) applied to solvers.
func NewGaussSeidel(opts Options) *GaussSeidel {
	if opts.MaxIter <= 0 {
		opts = DefaultOptions()
	}
	return &GaussSeidel{opts: opts}
}

// Solve runs the projected Gauss-Seidel sweeps until the merit
// (largest absolute change in any reaction across a sweep, summed over
// its three components) drops below
// opts.Tolerance or opts.MaxIter sweeps are exhausted; on return every
// constraint's R lies in its admissible cone (spec §4.8(b)) and U has
// been recomputed from the final R (spec §4.8(c)).
func (g *GaussSeidel) Solve(sys *ldy.System) (float64, error) {
	neighbors := buildAdjacency(sys)
	merit := math.Inf(1)
	iter := 0
	for iter = 0; iter < g.opts.MaxIter; iter++ {
		merit = 0
		for _, id := range sys.Order {
			c := sys.ByID[id]
			diag := sys.Diagonal(id)
			if diag == nil {
				continue
			}
			rhs := [3]float64{c.V[0], c.V[1], c.V[2]}
			for _, nb := range neighbors[id] {
				blk := sys.OffDiagonal(id, nb)
				if blk == nil {
					continue
				}
				other := sys.ByID[nb]
				for i := 0; i < 3; i++ {
					for j := 0; j < 3; j++ {
						rhs[i] += blk[i][j] * other.R[j]
					}
				}
			}
			prevR := c.R
			candidate := solveLocal(*diag, rhs, c)
			newR := project(c, candidate)
			c.R = newR
			c.U = localVelocity(*diag, newR, rhs)
			d := math.Abs(newR[0]-prevR[0]) + math.Abs(newR[1]-prevR[1]) + math.Abs(newR[2]-prevR[2])
			if d > merit {
				merit = d
			}
		}
		if merit < g.opts.Tolerance {
			break
		}
	}
	if g.opts.Verbose {
		goslio.Pfcyan("slv: gauss-seidel converged in %d sweeps, merit=%v\n", iter+1, merit)
	}
	return merit, nil
}

// WriteState dumps id,kind,R,U for each constraint to w; diagnostic
// only, the authoritative persistent record is frame.Store.
func (g *GaussSeidel) WriteState(sys *ldy.System, w io.Writer) error {
	return writeConstraintStates(sys, w)
}

func buildAdjacency(sys *ldy.System) map[int][]int {
	adj := make(map[int][]int)
	for pair := range sys.Off {
		a, b := pair[0], pair[1]
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}
	return adj
}

// solveLocal solves diag * R = targetLocal - rhs for R, where
// targetLocal is the constraint's desired local relative velocity
// (zero for CONTACT/FIXPNT/RIGLNK, the prescribed value along the
// normal for VELODIR).
func solveLocal(diag ldy.Block, rhs [3]float64, c *con.Constraint) [3]float64 {
	target := [3]float64{}
	if c.Kind == con.Velocity {
		target[0] = c.VelodirTarget()
	}
	b := [3]float64{target[0] - rhs[0], target[1] - rhs[1], target[2] - rhs[2]}
	return solve3(diag, b)
}

// localVelocity recovers the local relative velocity implied by the
// final reaction, U = diag*R + rhs (spec §4.8(c)).
func localVelocity(diag ldy.Block, r, rhs [3]float64) [3]float64 {
	var u [3]float64
	for i := 0; i < 3; i++ {
		s := rhs[i]
		for j := 0; j < 3; j++ {
			s += diag[i][j] * r[j]
		}
		u[i] = s
	}
	return u
}

// project clips the candidate reaction onto the constraint's
// admissible cone, spec §4.8(b): contact gets R_N >= 0 and a Coulomb
// disk on the tangential pair; velodir/fixpnt/riglnk are equality
// constraints so the unconstrained solve already satisfies the cone
// (R unrestricted); spring reactions are prescribed directly by the
// spring's force law rather than solved for.
func project(c *con.Constraint, candidate [3]float64) [3]float64 {
	switch c.Kind {
	case con.Contact:
		if c.Gap > 0 {
			return [3]float64{}
		}
		rn := math.Max(candidate[0], 0)
		rt1, rt2 := candidate[1], candidate[2]
		bound := c.Friction * rn
		norm := math.Hypot(rt1, rt2)
		if norm > bound && norm > 0 {
			scale := bound / norm
			rt1 *= scale
			rt2 *= scale
		}
		return [3]float64{rn, rt1, rt2}
	case con.Spring:
		return springReaction(c)
	default:
		return candidate
	}
}

// springReaction evaluates the spring's scalar force law along its
// stored direction, clipped to SpringLimit, original_source/dom.h's
// SPRING constraint (a prescribed force, not a complementarity
// condition, hence no cone projection).
func springReaction(c *con.Constraint) [3]float64 {
	if c.SpringFunc == nil {
		return [3]float64{}
	}
	force := c.SpringFunc.F(0, []float64{c.Gap})
	if force < c.SpringLimit[0] {
		force = c.SpringLimit[0]
	}
	if c.SpringLimit[1] > c.SpringLimit[0] && force > c.SpringLimit[1] {
		force = c.SpringLimit[1]
	}
	return [3]float64{force, 0, 0}
}

// solve3 solves A*x = b for a general 3x3 A via Cramer's rule; the
// diagonal blocks are symmetric positive (semi-)definite mobility
// operators in normal use, but Cramer's rule needs no such assumption.
func solve3(a ldy.Block, b [3]float64) [3]float64 {
	det := a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
	if math.Abs(det) < 1e-300 {
		return [3]float64{}
	}
	inv := 1 / det
	var x [3]float64
	x[0] = inv * (b[0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(b[1]*a[2][2]-a[1][2]*b[2]) +
		a[0][2]*(b[1]*a[2][1]-a[1][1]*b[2]))
	x[1] = inv * (a[0][0]*(b[1]*a[2][2]-a[1][2]*b[2]) -
		b[0]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*b[2]-b[1]*a[2][0]))
	x[2] = inv * (a[0][0]*(a[1][1]*b[2]-b[1]*a[2][1]) -
		a[0][1]*(a[1][0]*b[2]-b[1]*a[2][0]) +
		b[0]*(a[1][0]*a[2][1]-a[1][1]*a[2][0]))
	return x
}

func writeConstraintStates(sys *ldy.System, w io.Writer) error {
	for _, id := range sys.Order {
		c := sys.ByID[id]
		_, err := goslio.Ff(w, "%d %s R=(%v,%v,%v) U=(%v,%v,%v)\n",
			c.ID, c.Kind.String(), c.R[0], c.R[1], c.R[2], c.U[0], c.U[1], c.U[2])
		if err != nil {
			return err
		}
	}
	return nil
}
