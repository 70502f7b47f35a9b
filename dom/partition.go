// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dom

import (
	"github.com/cpmech/gosl/mpi"

	"github.com/cpmech/solfec/body"
	"github.com/cpmech/solfec/con"
)

// Mirror is one body's parent/child migration record (spec §5:
// "a body straddling a sub-domain boundary is mirrored on every
// processor it touches; the owning processor is its parent, every
// other a child"). Only the parent integrates the body; children hold
// a read-only copy used purely for local contact detection.
type Mirror struct {
	BodyID int
	Parent int // rank owning the body; Rank() itself on the parent's own record
}

// ExternalCon records a constraint whose other body is a child mirror
// living on a different rank: its reaction must be exchanged with that
// rank after the solver completes and before phase 7 folds it back
// into the body's velocity (spec §5, con.External flag).
type ExternalCon struct {
	ConID int
	Peer  int // rank holding the other side of the constraint
}

// Partition is the parallel-mode state of a Domain (spec §5). A nil
// *Partition (the Domain zero value) means single-process mode; every
// method here is a no-op in that case so callers need not branch on
// mpi.IsOn() themselves.
type Partition struct {
	Rank int
	Size int

	Mirrors  map[int]*Mirror
	Externs  []ExternalCon

	// rebalanceEvery is the number of steps between load-rebalancing
	// passes (spec §5: "rebalancing happens only at phase boundaries,
	// never mid-step"); zero disables rebalancing.
	rebalanceEvery int
	sinceRebalance int
}

// NewPartition returns a Partition bound to the current rank, or nil
// if MPI is not active (original_source/dom.h: a sequential run
// carries no DOM_Z partition structure at all). The caller starts MPI
// itself (mpi.Start(false), mirroring the teacher's main.go) before
// constructing a Domain in parallel mode.
func NewPartition() *Partition {
	if !mpi.IsOn() {
		return nil
	}
	return &Partition{
		Rank:    mpi.Rank(),
		Size:    mpi.Size(),
		Mirrors: make(map[int]*Mirror),
	}
}

// SetRebalanceInterval configures how many completed steps elapse
// between rebalancing passes; 0 (the default) disables rebalancing.
func (p *Partition) SetRebalanceInterval(steps int) {
	if p == nil {
		return
	}
	p.rebalanceEvery = steps
}

// Mirror records that bodyID is owned by rank parent, marking it as a
// Child on every non-owning rank (spec §5's parent/child scheme).
func (p *Partition) Mirror(b *body.Body, parent int) {
	if p == nil {
		return
	}
	p.Mirrors[b.ID] = &Mirror{BodyID: b.ID, Parent: parent}
	if parent == p.Rank {
		b.Flags |= body.Parent
		b.Flags &^= body.Child
	} else {
		b.Flags |= body.Child
		b.Flags &^= body.Parent
	}
}

// Owns reports whether bodyID is integrated on this rank (true for a
// body with no mirror record at all, i.e. wholly local).
func (p *Partition) Owns(bodyID int) bool {
	if p == nil {
		return true
	}
	m, ok := p.Mirrors[bodyID]
	return !ok || m.Parent == p.Rank
}

// MarkExternal records c as spanning a partition boundary, so its
// reaction is exchanged with peer after the solver runs (con.External
// flag set on c per spec §4.6).
func (p *Partition) MarkExternal(c *con.Constraint, peer int) {
	if p == nil {
		return
	}
	c.State |= con.External
	p.Externs = append(p.Externs, ExternalCon{ConID: c.ID, Peer: peer})
}

// ExchangeReactions runs between phase 6 and phase 7: every EXTERNAL
// constraint's reaction, computed locally by the solver on whichever
// rank owns it, is sent to every peer rank mirroring the other side,
// and this rank's own mirrored constraints are overwritten with what
// their owner computed (spec §5: "reactions on constraints that span
// a partition boundary are exchanged once per step, before step_end").
func (d *Domain) ExchangeReactions() {
	p := d.Partition
	if p == nil {
		return
	}
	for _, ext := range p.Externs {
		c := d.Constraints[ext.ConID]
		if c == nil {
			continue
		}
		buf := []float64{c.R[0], c.R[1], c.R[2]}
		mpi.SendOne(ext.Peer, buf)
		mpi.RecvOne(ext.Peer, buf)
		c.R = [3]float64{buf[0], buf[1], buf[2]}
	}
}

// MaybeRebalance runs at a phase-9 boundary (spec §5: "load
// rebalancing, when enabled, is attempted only after a step has fully
// committed"); it is a documented extension point rather than an
// implemented migration algorithm — original_source/dom.c's dynamic
// load balancer depends on a domain decomposition strategy
// (orthogonal recursive bisection) this module does not replicate,
// so this only advances the counter and reports when a rebalance would
// fire, leaving the actual body-migration mechanics unimplemented.
func (d *Domain) MaybeRebalance() (due bool) {
	p := d.Partition
	if p == nil || p.rebalanceEvery <= 0 {
		return false
	}
	p.sinceRebalance++
	if p.sinceRebalance < p.rebalanceEvery {
		return false
	}
	p.sinceRebalance = 0
	return true
}

// Shutdown stops MPI; callers defer it once at program exit, mirroring
// the teacher's main.go "defer mpi.Stop(false)" convention (cleanup
// must run regardless of recover, so this takes no error argument).
func Shutdown(p *Partition) {
	if p == nil {
		return
	}
	mpi.Stop(false)
}
