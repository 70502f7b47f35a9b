// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package session is the one programmatic construction surface spec §1
// leaves to an external front-end (the scripting layer that builds
// inputs is explicitly out of scope): a typed Go API that owns a
// dom.Domain and a series.Registry, drives dom.Step in a time loop,
// triggers frame.Store output, and implements the CLI-facing behaviour
// of spec §6 — exit codes, cooperative STOP-file polling at phase
// boundaries, and an output-subdir environment variable.
package session

import (
	"os"
	"path"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"

	"github.com/cpmech/solfec/body"
	"github.com/cpmech/solfec/dom"
	"github.com/cpmech/solfec/frame"
	"github.com/cpmech/solfec/series"
)

// outSubdirEnv is the output-subdir environment variable of spec §6.
const outSubdirEnv = "SOLFEC_OUTDIR"

// Config groups everything a caller supplies once, up front, mirroring
// gofem fem.FEM's constructor arguments.
type Config struct {
	DirOut   string // base output directory; nested under $SOLFEC_OUTDIR if set
	Key      string // simulation key, used as the frame store's file name
	EncType  string // "gob" (lossless, default) or "json" (portable)
	Verbose  bool
	EraseOld bool // truncate/replace any pre-existing store at Key
}

// Session owns one Domain, its time-series registry, its frame store
// and the bookkeeping a CLI driver needs (spec §6).
type Session struct {
	cfg Config

	Domain *dom.Domain
	Series *series.Registry
	Solver dom.Solver
	Store  *frame.Store
	Timers *dom.Timers

	proc  int
	nproc int

	newSinceFrame []*body.Body
}

// New builds a Session: starts the domain's partition (if MPI is on),
// opens the output directory (creating it if absent) and creates a
// fresh frame store there.
func New(cfg Config, solver dom.Solver) (*Session, error) {
	if sub := os.Getenv(outSubdirEnv); sub != "" {
		cfg.DirOut = path.Join(cfg.DirOut, sub)
	}
	if err := os.MkdirAll(cfg.DirOut, 0755); err != nil {
		return nil, chk.Err("session: cannot create output directory %q: %v", cfg.DirOut, err)
	}
	proc, nproc := 0, 1
	if mpi.IsOn() {
		proc, nproc = mpi.Rank(), mpi.Size()
	}
	d := dom.New()
	if mpi.IsOn() && nproc > 1 {
		d.Partition = dom.NewPartition()
	}
	store, err := openOrCreateStore(cfg)
	if err != nil {
		return nil, err
	}
	s := &Session{
		cfg:    cfg,
		Domain: d,
		Series: &series.Registry{},
		Solver: solver,
		Store:  store,
		Timers: d.Timers,
		proc:   proc,
		nproc:  nproc,
	}
	return s, nil
}

// AddBody adds a body to the domain and records it as pending for the
// next frame's NEWBOD block (spec §6).
func (s *Session) AddBody(b *body.Body, label string) *body.Body {
	s.Domain.AddBody(b, label)
	s.newSinceFrame = append(s.newSinceFrame, b)
	return b
}

// openOrCreateStore truncates and starts a fresh store when cfg asks
// to erase old results (EraseOld, gofem main.go's erasePrev flag),
// otherwise (the zero-value default) reopens an existing store to keep
// appending to it, falling back to a fresh one if none exists yet.
func openOrCreateStore(cfg Config) (*frame.Store, error) {
	if !cfg.EraseOld {
		if s, err := frame.Open(cfg.DirOut, cfg.Key, cfg.EncType); err == nil {
			return s, nil
		}
	}
	return frame.Create(cfg.DirOut, cfg.Key, cfg.EncType)
}

// stopPath is the file spec §6 says cleanly terminates a run when
// discovered in the output directory, original_source/sol.c's
// stopfile(): "%s/STOP" under the output path.
func (s *Session) stopPath() string { return path.Join(s.cfg.DirOut, "STOP") }

func (s *Session) stopRequested() bool {
	_, err := os.Stat(s.stopPath())
	return err == nil
}

// Run drives the domain from its current time to tf with fixed step h,
// writing a frame every outputInterval seconds of simulated time
// (spec §4.9 phase 8) and polling the STOP file at every phase
// boundary (i.e. once per completed Step, since Step's nine phases run
// without internal suspension). It returns nil on a clean stop — either
// reaching tf or discovering STOP — and a non-nil error on any fatal
// geometry or I/O failure (spec §6 exit codes: 0 success, non-zero on
// fatal error).
func (s *Session) Run(tf, h, outputInterval float64) (err error) {
	start := time.Now()
	defer func() {
		err = s.onExit(start, err)
	}()

	cfg := dom.StepConfig{
		Sink:           s,
		OutputInterval: outputInterval,
		Cancelled:      s.stopRequested,
	}

	if s.showMsg() {
		io.Pf("> solfec: running to t=%v, h=%v\n", tf, h)
	}

	for s.Domain.Time < tf {
		step := h
		if s.Domain.Time+step > tf {
			step = tf - s.Domain.Time
		}
		if stepErr := s.Domain.Step(step, s.Solver, cfg); stepErr != nil {
			return stepErr
		}
		if s.Domain.Cancelled() {
			if s.showMsg() {
				io.Pfyel("> solfec: STOP file detected, terminating at t=%v\n", s.Domain.Time)
			}
			break
		}
	}
	return nil
}

// Emit implements dom.OutputSink: writes one frame and clears the
// pending new-bodies list.
func (s *Session) Emit(d *dom.Domain) error {
	if s.proc != 0 {
		return nil // only the root rank owns the store, gofem Domain.SaveSol's convention
	}
	if err := s.Store.Append(d, s.newSinceFrame, s.Timers.Snapshot()); err != nil {
		return err
	}
	s.newSinceFrame = nil
	return nil
}

func (s *Session) showMsg() bool { return s.cfg.Verbose && s.proc == 0 }

// onExit mirrors gofem fem.FEM.onexit: closes the store, reports
// success/failure and elapsed CPU time, and passes the original error
// through unchanged.
func (s *Session) onExit(start time.Time, prevErr error) error {
	closeErr := s.Store.Close()
	if s.showMsg() {
		if prevErr == nil {
			io.PfGreen("> solfec: success\n")
			io.Pf("> solfec: CPU time = %v\n", time.Since(start))
		} else {
			io.PfRed("> solfec: failed: %v\n", prevErr)
		}
	}
	if prevErr != nil {
		return prevErr
	}
	return closeErr
}
