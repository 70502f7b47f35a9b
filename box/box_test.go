// Copyright 2008 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package box

import "testing"

func TestOverlaps(t *testing.T) {
	a := &Box{Lo: [3]float64{0, 0, 0}, Hi: [3]float64{1, 1, 1}}
	b := &Box{Lo: [3]float64{0.5, 0.5, 0.5}, Hi: [3]float64{1.5, 1.5, 1.5}}
	if !a.Overlaps(b) {
		t.Fatal("expected overlap")
	}
	c := &Box{Lo: [3]float64{2, 0, 0}, Hi: [3]float64{3, 1, 1}}
	if a.Overlaps(c) {
		t.Fatal("expected no overlap")
	}
}

func TestIndexQueryFindsOverlaps(t *testing.T) {
	ix := NewIndex()
	b1 := ix.Insert(1, 0)
	b1.Update([6]float64{0, 0, 0, 1, 1, 1})
	b2 := ix.Insert(2, 0)
	b2.Update([6]float64{0.5, 0, 0, 1.5, 1, 1})
	b3 := ix.Insert(3, 0)
	b3.Update([6]float64{10, 10, 10, 11, 11, 11})

	pairs := ix.Query()
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if !((pairs[0].A == b1 && pairs[0].B == b2) || (pairs[0].A == b2 && pairs[0].B == b1)) {
		t.Fatalf("expected pair (b1,b2), got %+v", pairs[0])
	}
}

func TestIndexExcludedBodyPair(t *testing.T) {
	ix := NewIndex()
	b1 := ix.Insert(1, 0)
	b1.Update([6]float64{0, 0, 0, 1, 1, 1})
	b2 := ix.Insert(2, 0)
	b2.Update([6]float64{0.5, 0, 0, 1.5, 1, 1})
	ix.ExcludeBodyPair(1, 2)

	pairs := ix.Query()
	if len(pairs) != 0 {
		t.Fatalf("expected exclusion to drop the pair, got %d", len(pairs))
	}
}

func TestIndexExcludedSurfacePair(t *testing.T) {
	ix := NewIndex()
	b1 := ix.Insert(1, 0)
	b1.SurfID = 10
	b1.Update([6]float64{0, 0, 0, 1, 1, 1})
	b2 := ix.Insert(2, 0)
	b2.SurfID = 20
	b2.Update([6]float64{0.5, 0, 0, 1.5, 1, 1})
	ix.ExcludeSurfacePair(10, 20)

	pairs := ix.Query()
	if len(pairs) != 0 {
		t.Fatalf("expected surface-pair exclusion to drop the pair, got %d", len(pairs))
	}
}

func TestIndexRemove(t *testing.T) {
	ix := NewIndex()
	b1 := ix.Insert(1, 0)
	b1.Update([6]float64{0, 0, 0, 1, 1, 1})
	b2 := ix.Insert(2, 0)
	b2.Update([6]float64{0.5, 0, 0, 1.5, 1, 1})
	ix.Remove(b1)
	if len(ix.boxes) != 1 {
		t.Fatalf("expected 1 box after remove, got %d", len(ix.boxes))
	}
	pairs := ix.Query()
	if len(pairs) != 0 {
		t.Fatalf("expected no pairs with one box left, got %d", len(pairs))
	}
}
