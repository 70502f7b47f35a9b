// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dom

import "time"

// Timers is a named timer registry, original_source/sol.c's
// SOLFEC_Timer_Start/End/Timing (SPEC_FULL.md supplemented feature 5);
// the persistent frame store's "timers" block (spec §6) is read
// straight from Elapsed.
type Timers struct {
	running map[string]time.Time
	elapsed map[string]float64
	order   []string
}

// NewTimers returns an empty timer registry.
func NewTimers() *Timers {
	return &Timers{running: make(map[string]time.Time), elapsed: make(map[string]float64)}
}

// Start begins (or resumes) timing name.
func (t *Timers) Start(name string) {
	if _, ok := t.elapsed[name]; !ok {
		t.order = append(t.order, name)
	}
	t.running[name] = time.Now()
}

// End stops timing name, adding the elapsed interval to its running
// total; a no-op if name was never started.
func (t *Timers) End(name string) {
	start, ok := t.running[name]
	if !ok {
		return
	}
	t.elapsed[name] += time.Since(start).Seconds()
	delete(t.running, name)
}

// Timing returns the accumulated seconds for name.
func (t *Timers) Timing(name string) float64 { return t.elapsed[name] }

// Names returns every timer name ever started, in first-start order.
func (t *Timers) Names() []string { return append([]string(nil), t.order...) }

// Snapshot returns every timer's accumulated seconds, keyed by name,
// for the persistent frame store's "timers" block (spec §6).
func (t *Timers) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(t.elapsed))
	for k, v := range t.elapsed {
		out[k] = v
	}
	return out
}
