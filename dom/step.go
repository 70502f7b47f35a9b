// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dom

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/solfec/body"
	"github.com/cpmech/solfec/con"
	"github.com/cpmech/solfec/ldy"
	"github.com/cpmech/solfec/slv"
)

// OutputSink receives a completed step (spec §6's persistent frame
// store, phase 8); kept as an interface here, rather than importing
// package frame directly, so package dom never depends on its own
// consumer (package frame imports dom, not the reverse).
type OutputSink interface {
	Emit(d *Domain) error
}

// Phase is the per-body lifecycle state of spec §4.9: "READY ->
// HALF_STEPPED (after step_begin) -> CONSTRAINED (after solver writes
// R) -> STEPPED (after step_end) -> READY". Obstacles stay in READY
// throughout; the driver tracks the domain-wide phase rather than a
// per-body field since all non-obstacle bodies move through the same
// phase together within one Step call.
type Phase int

const (
	PhaseReady Phase = iota
	PhaseHalfStepped
	PhaseConstrained
	PhaseStepped
)

// Solver is the slv.Solver instance this domain's step driver invokes
// in phase 6; callers set it once after constructing the Domain
// (defaulting to nil panics with a clear message on first Step call
// rather than silently skipping the solve).
type Solver = slv.Solver

// StepConfig groups the parts of Step's phase 8 and of its end-of-step
// check that a caller configures once (output cadence, a cancellation check for
// spec §5's cooperative phase-boundary suspension points).
type StepConfig struct {
	Sink           OutputSink
	OutputInterval float64

	// Cancelled is polled at the end of every Step call (spec §5:
	// "Cancellation is cooperative and checked only at phase
	// boundaries"); when it returns true the caller's loop should stop
	// after Step returns (the last committed frame has already been
	// flushed, since phase 8 runs before this check).
	Cancelled func() bool
}

// Step advances the domain by one step of size h at the current time,
// spec §4.9's nine-phase state machine. solver performs phase 6; cfg
// may be the zero value (no output sink, step size observed forever).
func (d *Domain) Step(h float64, solver Solver, cfg StepConfig) error {
	t := d.Time
	d.phase = PhaseReady

	// phase 1: extents refresh
	for _, id := range d.bodyOrder {
		d.Bodies[id].UpdateExtents()
	}

	// phase 2: time-integration begin
	for _, id := range d.bodyOrder {
		b := d.Bodies[id]
		if b.Kind == body.Obstacle || b.Flags&body.Child != 0 {
			continue // a child mirror is integrated by its parent rank only, spec §5
		}
		b.StepBegin(t, h)
		if err := checkFinite(b); err != nil {
			return d.fatalf("step instability at t=%v, body %d: %v", t, b.ID, err)
		}
	}
	d.phase = PhaseHalfStepped

	// phase 3: contact detection/update
	d.detectContacts()

	// phase 4: external force resolution, evaluated at t+h/2
	d.applyGravity(t+h/2, h)

	// phase 5: local system assembly
	constraints := d.constraintSlice()
	d.captureFreeVelocities(constraints)
	sys := ldy.Build(constraints)

	// phase 6: solver invocation
	if solver == nil {
		chk.Panic("dom: Step called with a nil solver")
	}
	merit, err := solver.Solve(sys)
	d.Merit = merit
	if err != nil {
		io.Pfyel("dom: solver did not converge at t=%v: %v (merit=%v)\n", t, err, merit)
	}
	d.phase = PhaseConstrained
	d.ExchangeReactions()

	// phase 7: time-integration end
	for _, id := range d.bodyOrder {
		b := d.Bodies[id]
		if b.Kind == body.Obstacle || b.Flags&body.Child != 0 {
			continue
		}
		d.applyReactions(b, constraints, h)
		b.StepEnd(t, h)
		if err := checkFinite(b); err != nil {
			return d.fatalf("step instability at t=%v, body %d: %v", t, b.ID, err)
		}
	}
	d.phase = PhaseStepped

	// phase 8: output trigger
	if cfg.Sink != nil && t+h >= d.nextOutput {
		if err := cfg.Sink.Emit(d); err != nil {
			return err
		}
		if cfg.OutputInterval > 0 {
			d.nextOutput += cfg.OutputInterval
		} else {
			d.nextOutput = math.Inf(1)
		}
	}

	// phase 9: advance t
	d.Time = t + h
	d.NSteps++
	d.phase = PhaseReady
	d.MaybeRebalance()

	if cfg.Cancelled != nil && cfg.Cancelled() {
		d.cancelled = true
	}
	return nil
}

// Cancelled reports whether a cooperative cancellation was observed at
// the last phase boundary (spec §5).
func (d *Domain) Cancelled() bool { return d.cancelled }

func (d *Domain) fatalf(format string, args ...interface{}) error {
	err := chk.Err(format, args...)
	d.fatal(err)
	return err
}

func checkFinite(b *body.Body) error {
	for _, v := range b.Conf {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return chk.Err("non-finite configuration")
		}
	}
	for _, v := range b.Velo {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return chk.Err("non-finite velocity")
		}
	}
	return nil
}

func (d *Domain) constraintSlice() []*con.Constraint {
	cs := make([]*con.Constraint, 0, len(d.conOrder))
	for _, id := range d.conOrder {
		cs = append(cs, d.Constraints[id])
	}
	return cs
}

// captureFreeVelocities computes each constraint's initial (pre-solve)
// relative local velocity from the bodies' post-step_begin velocity,
// storing it in both V (spec §3: "initial relative velocity") and U
// (overwritten by the solver once reactions are known).
func (d *Domain) captureFreeVelocities(constraints []*con.Constraint) {
	for _, c := range constraints {
		v := freeVelocity(c)
		c.V = v
		c.U = v
	}
}

func freeVelocity(c *con.Constraint) [3]float64 {
	base := [][]float64{c.Base[0][:], c.Base[1][:], c.Base[2][:]}
	var v [3]float64
	if c.Master != nil && c.Master.Kind != body.Obstacle {
		H := c.Master.GenToLoc(c.MasterPoint[:], base)
		add(&v, genMatVec(H, c.Master.Velo))
	}
	if c.Slave != nil && c.Slave.Kind != body.Obstacle {
		H := c.Slave.GenToLoc(c.SlavePoint[:], base)
		sub(&v, genMatVec(H, c.Slave.Velo))
	}
	return v
}

func genMatVec(H [][]float64, v []float64) [3]float64 {
	if H == nil {
		return [3]float64{}
	}
	var out [3]float64
	for i := 0; i < 3; i++ {
		s := 0.0
		for j, vj := range v {
			s += H[i][j] * vj
		}
		out[i] = s
	}
	return out
}

func add(dst *[3]float64, src [3]float64) {
	dst[0] += src[0]
	dst[1] += src[1]
	dst[2] += src[2]
}
func sub(dst *[3]float64, src [3]float64) {
	dst[0] -= src[0]
	dst[1] -= src[1]
	dst[2] -= src[2]
}

// applyReactions folds every constraint touching b's computed reaction
// back into a generalised impulse on b, via gen_to_loc^T and invvec
// (spec §4.9 phase 7: "step_end ... internally converts reactions in
// constraint-local frames into generalised impulses via gen_to_loc^T
// and invvec"). The impulse itself (force * h) is applied here, ahead
// of the kind-specific StepEnd call, which only finishes advancing q.
//
// The kinetic energy this removes is booked into b's EnergyContWork/
// EnergyFricWork counters (spec §3): the total removed is measured
// exactly as the before/after KineticEnergy difference (so it balances
// exactly against applyGravity's EnergyExternal booking), and that
// total is then split between the normal and tangential constraint
// axes in proportion to each axis's R·avgVelocity product, the
// dissipation each axis is actually responsible for.
func (d *Domain) applyReactions(b *body.Body, constraints []*con.Constraint, h float64) {
	if b.Inverse == nil {
		return
	}
	before := b.KineticEnergy()
	impulse := make([]float64, b.Dofs)
	var normalWork, tangentWork float64
	for _, c := range constraints {
		if c.Master != b && c.Slave != b {
			continue
		}
		sign := 1.0
		point := c.MasterPoint
		if c.Slave == b {
			sign = -1.0
			point = c.SlavePoint
		}
		base := [][]float64{c.Base[0][:], c.Base[1][:], c.Base[2][:]}
		H := b.GenToLoc(point[:], base)
		if H == nil {
			continue
		}
		for i := 0; i < b.Dofs; i++ {
			for k := 0; k < 3; k++ {
				impulse[i] += sign * h * H[k][i] * c.R[k]
			}
		}
		avg := [3]float64{0.5 * (c.V[0] + c.U[0]), 0.5 * (c.V[1] + c.U[1]), 0.5 * (c.V[2] + c.U[2])}
		normalWork += c.R[0] * avg[0] * h
		tangentWork += (c.R[1]*avg[1] + c.R[2]*avg[2]) * h
	}
	delta := make([]float64, b.Dofs)
	b.Invvec(1, impulse, 0, delta)
	for i := range b.Velo {
		b.Velo[i] += delta[i]
	}
	dissipated := before - b.KineticEnergy()
	if total := normalWork + tangentWork; total != 0 {
		b.Energy[body.EnergyContWork] += dissipated * normalWork / total
		b.Energy[body.EnergyFricWork] += dissipated * tangentWork / total
	} else {
		b.Energy[body.EnergyContWork] += dissipated
	}
}
