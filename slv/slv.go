// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package slv is the solver facade of spec §4.8: it hides the solver
// kind behind two operations, Solve and WriteState, exactly as
// original_source/sol.c's SOLVE/write_state dispatch over SOLVER_KIND
// (GAUSS_SEIDEL_SOLVER, PENALTY_SOLVER, NEWTON_SOLVER).
package slv

import (
	"io"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/solfec/ldy"
)

// Options configures a solver instance; not every field is meaningful
// to every solver kind (e.g. Stiffness/Damping only apply to penalty).
type Options struct {
	MaxIter   int
	Tolerance float64
	Stiffness float64
	Damping   float64
	Verbose   bool
}

// DefaultOptions mirrors the teacher's convention of a small struct of
// sane defaults (e.g. fem.FEM's zero-value fields), rather than a
// package-level global.
func DefaultOptions() Options {
	return Options{MaxIter: 200, Tolerance: 1e-9}
}

// Solver is the facade spec §4.8 describes: Solve reads the assembled
// local dynamical system and writes reactions back into each
// constraint (guarantee (b): each R ends up in its admissible cone;
// guarantee (c): U is updated consistently); WriteState dumps the
// post-solve constraint state to a writer as a diagnostic (the frame
// store does not use it).
type Solver interface {
	Solve(sys *ldy.System) (merit float64, err error)
	WriteState(sys *ldy.System, w io.Writer) error
}

// Allocator builds a Solver from Options, gofem's ele/factory.go
// AllocatorType pattern applied to solvers instead of elements.
type Allocator func(opts Options) Solver

var allocators = make(map[string]Allocator)

// Register installs an allocator under name, gofem's SetAllocator.
func Register(name string, a Allocator) { allocators[name] = a }

// New builds a solver by registered name, gofem's ele.New.
func New(name string, opts Options) (Solver, error) {
	a, ok := allocators[name]
	if !ok {
		return nil, chk.Err("slv: unknown solver kind %q", name)
	}
	return a(opts), nil
}

func init() {
	Register("gauss-seidel", func(opts Options) Solver { return NewGaussSeidel(opts) })
	Register("penalty", func(opts Options) Solver { return NewPenalty(opts) })
	Register("newton", func(opts Options) Solver { return NewNewton(opts) })
}
