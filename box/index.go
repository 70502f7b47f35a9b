// Copyright 2008 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package box

import (
	"sort"

	"github.com/cpmech/gosl/utl"
)

// Pair is a candidate pair of boxes reported by the broad phase.
type Pair struct {
	A, B *Box
}

// Index is the broad-phase box-overlap engine (original_source/dom.h's
// AABB). It keeps every inserted box and produces, on Query, the
// ordered set of candidate pairs via a sweep-and-prune pass along the
// x-axis, filtered by the two disjoint exclusion sets of spec §4.3 and
// Design Notes "Broad-phase exclusion".
type Index struct {
	boxes  []*Box
	nextID int

	// ExcludedSurfacePairs disallows a candidate pair when both boxes'
	// surfaces match one of these (unordered) pairs.
	ExcludedSurfacePairs map[[2]int]bool

	// ExcludedBodyPairs disallows a candidate pair when both boxes'
	// owning bodies match one of these (unordered) pairs.
	ExcludedBodyPairs map[[2]int]bool
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{
		ExcludedSurfacePairs: make(map[[2]int]bool),
		ExcludedBodyPairs:    make(map[[2]int]bool),
	}
}

// Insert adds a new box, returning it so the caller (an SGP) can keep a
// pointer for later Update calls, matching spec §3's "carries a pointer
// to the box in the broad phase".
func (ix *Index) Insert(bodyID, sgp int) *Box {
	b := &Box{BodyID: bodyID, SGP: sgp, id: ix.nextID}
	ix.nextID++
	ix.boxes = append(ix.boxes, b)
	return b
}

// Remove deletes a box from the index (e.g. the owning body was removed
// from the domain).
func (ix *Index) Remove(b *Box) {
	for i, x := range ix.boxes {
		if x == b {
			ix.boxes = append(ix.boxes[:i], ix.boxes[i+1:]...)
			return
		}
	}
}

// ExcludeSurfacePair registers a surface pair that must never report a
// broad-phase candidate (spec §4.3 domain-level exclusion set).
func (ix *Index) ExcludeSurfacePair(s1, s2 int) {
	ix.ExcludedSurfacePairs[orderedPair(s1, s2)] = true
}

// ExcludeBodyPair registers a body pair that must never report a
// broad-phase candidate.
func (ix *Index) ExcludeBodyPair(b1, b2 int) {
	ix.ExcludedBodyPairs[orderedPair(b1, b2)] = true
}

func orderedPair(a, b int) [2]int {
	if a <= b {
		return [2]int{a, b}
	}
	return [2]int{b, a}
}

// Query runs one sweep-and-prune broad-phase pass and returns the
// ordered set of candidate pairs for the current box extents, with both
// exclusion filters applied before a candidate is ever handed to narrow
// phase (spec §4.3, §5: the index is mutated only in phase 1 and
// read-only from phase 3 onward — Query itself never mutates boxes).
func (ix *Index) Query() []Pair {
	order := utl.IntRange(len(ix.boxes))
	sort.SliceStable(order, func(i, j int) bool {
		return ix.boxes[order[i]].Lo[0] < ix.boxes[order[j]].Lo[0]
	})

	var pairs []Pair
	active := order[:0:0]
	for _, idx := range order {
		b := ix.boxes[idx]
		var kept []int
		for _, aIdx := range active {
			a := ix.boxes[aIdx]
			if a.Hi[0] < b.Lo[0] {
				continue // a has swept out of range on the x axis
			}
			kept = append(kept, aIdx)
			if a.Overlaps(b) && ix.allowed(a, b) {
				pairs = append(pairs, Pair{A: a, B: b})
			}
		}
		kept = append(kept, idx)
		active = kept
	}
	return pairs
}

func (ix *Index) allowed(a, b *Box) bool {
	if ix.ExcludedBodyPairs[orderedPair(a.BodyID, b.BodyID)] {
		return false
	}
	if ix.ExcludedSurfacePairs[orderedPair(a.SurfID, b.SurfID)] {
		return false
	}
	return true
}
