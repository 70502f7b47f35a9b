// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dom

// freelist allocates monotonically increasing integer ids, recycling
// released ones (spec §3 Domain invariant: "body and constraint ids
// monotonically assigned from freelist").
type freelist struct {
	next   int
	freed  []int
	locked map[int]bool
}

func newFreelist() *freelist {
	return &freelist{locked: make(map[int]bool)}
}

// Alloc returns the next available id: a previously freed one if any
// is pending reuse, otherwise a fresh monotonically increasing value.
func (f *freelist) Alloc() int {
	if n := len(f.freed); n > 0 {
		id := f.freed[n-1]
		f.freed = f.freed[:n-1]
		return id
	}
	id := f.next
	f.next++
	return id
}

// Free returns id to the pool unless it is locked (spec §4.6:
// "Removal returns the id to the pool unless the id is locked").
func (f *freelist) Free(id int) {
	if f.locked[id] {
		return
	}
	f.freed = append(f.freed, id)
}

// Lock marks id as id-locked: Free becomes a no-op for it until Unlock.
func (f *freelist) Lock(id int)   { f.locked[id] = true }
func (f *freelist) Unlock(id int) { delete(f.locked, id) }
