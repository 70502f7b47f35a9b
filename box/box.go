// Copyright 2008 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package box implements the broad-phase box-overlap index of spec
// §4.3: each SGP owns a box refreshed from current shape extents before
// every step; boxes belonging to excluded surface pairs or excluded body
// pairs never report overlap.
package box

// Box is the axis-aligned bounding box of one SGP.
type Box struct {
	Lo, Hi [3]float64

	// BodyID and SurfID identify the owning body and the nearest surface
	// of the primitive this box tracks, consulted by the exclusion
	// filters before a pair is reported.
	BodyID int
	SurfID int
	SGP    int // index of the owning SGP within its body's shape

	// index bookkeeping
	id int
}

// Update resets the box extents from a primitive's current
// axis-aligned extents, as returned by geom.Primitive.Extents.
func (b *Box) Update(extents [6]float64) {
	b.Lo = [3]float64{extents[0], extents[1], extents[2]}
	b.Hi = [3]float64{extents[3], extents[4], extents[5]}
}

// Overlaps reports whether two boxes' extents intersect.
func (b *Box) Overlaps(o *Box) bool {
	for i := 0; i < 3; i++ {
		if b.Hi[i] < o.Lo[i] || o.Hi[i] < b.Lo[i] {
			return false
		}
	}
	return true
}
