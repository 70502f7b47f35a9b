// Copyright 2008 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package contact implements the distance and intersection kernel of
// spec §4.2: closest-point distance (GJK) and convex-volume intersection
// between pairs of geometric primitives, plus the contact
// point/normal/surface-pair/area/gap routine built on top of them.
package contact

import (
	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/solfec/geom"
)

// GeometricEpsilon bounds the sanity checks of §4.2 (contact-point
// inside-hull check) and the Contains tolerance used throughout.
const GeometricEpsilon = 1e-10

// Outcome is the result kind returned by Detect/Update.
type Outcome int

// detector outcomes, spec §4.4
const (
	NoContact Outcome = iota
	NewContact
	Rejected
)

// GapStrategy selects which gap-computation method canonical §4.2 uses;
// see SPEC_FULL.md Open Question (i).
type GapStrategy int

// gap strategies
const (
	GapMinMaxProjection GapStrategy = iota // canonical, robustness-preferring
	GapLinePlane                           // fallback, kept for reference/testing
)

// Options tunes detection behaviour.
type Options struct {
	GapStrategy    GapStrategy
	PenetrationBound float64 // magnitude beyond which the GJK corrector kicks in
}

// DefaultOptions returns the spec-mandated default: min-max projection
// gap with a 1e-3 penetration-bound trigger for the GJK corrector.
func DefaultOptions() Options {
	return Options{GapStrategy: GapMinMaxProjection, PenetrationBound: 1e-3}
}

// Result is the outcome of a single pair's contact detection.
type Result struct {
	Outcome  Outcome
	Point    []float64
	Normal   []float64 // outward from the master (first) primitive
	Gap      float64
	Area     float64
	SurfPair [2]int
	// SurfPairChanged is only meaningful when Update was called: it
	// signals that the detector could not confirm the existing surface
	// pair and a fresh (non-update) detection should be requested by the
	// caller (spec §4.4).
	SurfPairChanged bool
}

// ErrDegenerate is returned by Detect/Update for a primitive pair that
// has no narrow-phase routine. A contact point falling outside either
// input hull by more than GeometricEpsilon is reported as Outcome
// Rejected instead, and non-finite clipping output as ErrNonFinite.
var ErrDegenerate = chk.Err("contact: degenerate or non-finite geometry")

// ErrNonFinite is returned by the lower-level distance/clip routines
// when an intermediate result is not finite.
var ErrNonFinite = chk.Err("contact: non-finite result")

// Pair identifies the primitive kinds of a detectable pair, used to
// index the narrow-phase dispatch table (spec §4.2's "ordered pair code
// (element, convex, sphere, ellipsoid) x (...)"; MESH primitives are
// reduced to per-element Convex values by the caller before reaching
// this package, so only three kinds are distinguished here).
type Pair struct {
	A, B geom.Kind
}
