// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package series implements the labeled time-series registry of Design
// Notes §9: original_source/tms.c keeps a process-wide label->series
// map; here the registry is owned explicitly by a front-end session
// (package session) instead of living as package-level global state.
package series

import (
	"sort"

	"github.com/cpmech/gosl/chk"
)

// Series is a piecewise-linear scalar time series, original_source/
// tms.c's TMS: an ordered list of (time, value) points with linear
// interpolation between them and constant extrapolation beyond the
// first/last point. It satisfies body.TimeFunc / gosl/fun.Func's
// F(t float64, x []float64) float64 contract, so it can be used
// anywhere a gravity component, VELODIR target or force magnitude is
// expected, and interoperates with any other fun.Func implementation
// (e.g. a gosl constant function).
type Series struct {
	t []float64
	v []float64
}

// New builds a Series from parallel time/value slices, which must
// already be sorted by time (original_source/tms.c's TMS_Create
// assumes the same); points at repeated times are kept in order and
// resolved by nearest-preceding lookup.
func New(t, v []float64) *Series {
	if len(t) != len(v) {
		chk.Panic("series: time and value slices must have equal length, got %d and %d", len(t), len(v))
	}
	if len(t) == 0 {
		chk.Panic("series: at least one point is required")
	}
	if !sort.Float64sAreSorted(t) {
		chk.Panic("series: time values must be sorted ascending")
	}
	return &Series{t: append([]float64(nil), t...), v: append([]float64(nil), v...)}
}

// Constant builds a single-valued Series, useful as a default gravity
// component or a VELODIR target that never changes.
func Constant(value float64) *Series {
	return &Series{t: []float64{0}, v: []float64{value}}
}

// F evaluates the series at time t by linear interpolation; x is
// ignored (the series contract is a pure function of time), matching
// gosl/fun.Func's signature so a *Series satisfies body.TimeFunc
// directly.
func (s *Series) F(t float64, x []float64) float64 {
	n := len(s.t)
	if t <= s.t[0] {
		return s.v[0]
	}
	if t >= s.t[n-1] {
		return s.v[n-1]
	}
	i := sort.SearchFloat64s(s.t, t)
	if i < n && s.t[i] == t {
		return s.v[i]
	}
	// i is the first index with s.t[i] > t; interpolate between i-1, i.
	t0, t1 := s.t[i-1], s.t[i]
	v0, v1 := s.v[i-1], s.v[i]
	frac := (t - t0) / (t1 - t0)
	return v0 + frac*(v1-v0)
}

// Last returns the series' final time and value (past that time F
// extrapolates the last value as a constant, without any warning).
func (s *Series) Last() (t, v float64) {
	n := len(s.t)
	return s.t[n-1], s.v[n-1]
}

// Registry is a named series table owned by a single front-end
// session (original_source/tms.c's implicit global replaced by
// explicit, owned state per Design Notes §9). Zero value is usable.
type Registry struct {
	entries map[string]*Series
}

// Put registers s under label, overwriting any previous entry with
// the same label.
func (r *Registry) Put(label string, s *Series) {
	if r.entries == nil {
		r.entries = make(map[string]*Series)
	}
	r.entries[label] = s
}

// Get looks up a series by label; ok is false when no such label was
// registered.
func (r *Registry) Get(label string) (s *Series, ok bool) {
	s, ok = r.entries[label]
	return
}

// Labels returns every registered label, in no particular order.
func (r *Registry) Labels() []string {
	labels := make([]string, 0, len(r.entries))
	for l := range r.entries {
		labels = append(labels, l)
	}
	return labels
}

// Teardown releases every entry, the explicit counterpart to
// original_source/tms.c's lack of any teardown for its process-wide
// table (Design Notes §9 calls for "explicit teardown").
func (r *Registry) Teardown() {
	r.entries = nil
}
