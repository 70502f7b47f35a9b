// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"math"

	"github.com/cpmech/gosl/gm"
)

// Mesh is a finite-element background mesh: a node list, a boundary
// face list (triangle/quad, surface-tagged) and an element list
// (tetra/pyramid/wedge/hex, referencing nodes). It is primarily used as
// the shape of FINITE_ELEMENT bodies; for contact detection each element
// is treated as its own convex primitive (the detector's "element" pair
// code, spec §4.2), obtained via Element.
type Mesh struct {
	RefNodes [][]float64
	CurNodes [][]float64
	Faces    [][]int // boundary faces, CCW outward, 3 or 4 node indices
	FaceSurf []int
	Elements [][]int // each entry: node indices of one tetra/pyramid/wedge/hex

	nodeBins    *gm.Bins // lazily built spatial index over CurNodes, see NearestNode
	nodeBinsLen int      // node count the bins were built for
}

// NewMesh builds a Mesh.
func NewMesh(nodes [][]float64, faces [][]int, faceSurf []int, elements [][]int) *Mesh {
	return &Mesh{
		RefNodes: cloneMat(nodes),
		CurNodes: cloneMat(nodes),
		Faces:    faces,
		FaceSurf: faceSurf,
		Elements: elements,
	}
}

// NearestNode returns the index of the mesh node closest to point, using
// a gm.Bins spatial index built lazily over CurNodes and rebuilt whenever
// the node count changes. This backs the FINITE_ELEMENT force-application
// path (spec §4.5): a contact point on a mesh element is snapped to its
// nearest node before the applied force is lumped there.
func (m *Mesh) NearestNode(point []float64) int {
	if m.nodeBins == nil || m.nodeBinsLen != len(m.CurNodes) {
		m.rebuildNodeBins()
	}
	if m.nodeBins != nil {
		if id := m.nodeBins.Find(point); id >= 0 {
			return id
		}
	}
	return m.bruteNearest(point)
}

func (m *Mesh) rebuildNodeBins() {
	ext := extentsOf(m.CurNodes)
	const pad = 1e-6
	xi := []float64{ext[0] - pad, ext[1] - pad, ext[2] - pad}
	xf := []float64{ext[3] + pad, ext[4] + pad, ext[5] + pad}
	bins := new(gm.Bins)
	if err := bins.Init(xi, xf, 20); err != nil {
		m.nodeBins = nil
		return
	}
	for id, p := range m.CurNodes {
		if err := bins.Append(p, id); err != nil {
			m.nodeBins = nil
			return
		}
	}
	m.nodeBins = bins
	m.nodeBinsLen = len(m.CurNodes)
}

func (m *Mesh) bruteNearest(point []float64) int {
	best, bestD := 0, math.Inf(1)
	for i, p := range m.CurNodes {
		d := dot(sub(p, point), sub(p, point))
		if d < bestD {
			bestD, best = d, i
		}
	}
	return best
}

// Kind implements Primitive.
func (m *Mesh) Kind() Kind { return KindMesh }

// Copy implements Primitive.
func (m *Mesh) Copy() Primitive {
	faces := make([][]int, len(m.Faces))
	for i, f := range m.Faces {
		faces[i] = append([]int(nil), f...)
	}
	elems := make([][]int, len(m.Elements))
	for i, el := range m.Elements {
		elems[i] = append([]int(nil), el...)
	}
	return &Mesh{
		RefNodes: cloneMat(m.RefNodes), CurNodes: cloneMat(m.CurNodes),
		Faces: faces, FaceSurf: append([]int(nil), m.FaceSurf...), Elements: elems,
	}
}

// Scale implements Primitive.
func (m *Mesh) Scale(factor []float64) {
	for _, v := range m.RefNodes {
		v[0] *= factor[0]
		v[1] *= factor[1]
		v[2] *= factor[2]
	}
	m.CurNodes = cloneMat(m.RefNodes)
}

// Translate implements Primitive.
func (m *Mesh) Translate(vector []float64) {
	for _, v := range m.RefNodes {
		v[0] += vector[0]
		v[1] += vector[1]
		v[2] += vector[2]
	}
	m.CurNodes = cloneMat(m.RefNodes)
}

// Rotate implements Primitive.
func (m *Mesh) Rotate(point, axis []float64, angle float64) {
	r := rotationMatrix(axis, angle)
	for _, v := range m.RefNodes {
		rel := sub(v, point)
		rv := add(matVec(r, rel), point)
		copy(v, rv)
	}
	m.CurNodes = cloneMat(m.RefNodes)
}

// Extents implements Primitive.
func (m *Mesh) Extents() [6]float64 { return extentsOf(m.CurNodes) }

// OrientedExtents implements Primitive.
func (m *Mesh) OrientedExtents(vx, vy, vz []float64) [6]float64 {
	return orientedExtentsOf(m.CurNodes, vx, vy, vz)
}

// Contains implements Primitive by checking membership in any one
// element's convex hull.
func (m *Mesh) Contains(point []float64) bool {
	for i := range m.Elements {
		if m.Element(i).Contains(point) {
			return true
		}
	}
	return false
}

// SpatialPointDistance implements Primitive as the minimum distance to
// any element.
func (m *Mesh) SpatialPointDistance(point []float64) float64 {
	best := 1e300
	for i := range m.Elements {
		d := m.Element(i).SpatialPointDistance(point)
		if d < best {
			best = d
		}
	}
	return best
}

// Update implements Primitive.
func (m *Mesh) Update(motion Motion) {
	for i, X := range m.RefNodes {
		copy(m.CurNodes[i], motion.Point(X))
	}
}

// CharPartial implements Primitive, summing each element's convex
// contribution.
func (m *Mesh) CharPartial(ref bool, chars *PartialChars) {
	for i := range m.Elements {
		m.Element(i).CharPartial(ref, chars)
	}
}

// Element returns the i-th mesh element as a Convex primitive, treating
// its node set as a convex polyhedron with a single outward face per
// exposed boundary face belonging to it; internal (shared) faces are
// omitted since they never participate in contact detection.
func (m *Mesh) Element(i int) *Convex {
	idx := m.Elements[i]
	verts := make([][]float64, len(idx))
	cur := make([][]float64, len(idx))
	local := make(map[int]int, len(idx))
	for j, n := range idx {
		verts[j] = m.RefNodes[n]
		cur[j] = m.CurNodes[n]
		local[n] = j
	}
	var faces [][]int
	var surfs []int
	for fi, f := range m.Faces {
		lf, ok := localize(f, local)
		if !ok {
			continue
		}
		faces = append(faces, lf)
		surfs = append(surfs, m.FaceSurf[fi])
	}
	c := NewConvex(verts, faces, surfs)
	c.CurVerts = cur
	for k, f := range faces {
		c.CurPlanes[k].Point = clone(cur[f[0]])
		c.CurPlanes[k].Normal = faceNormal(cur, f)
	}
	return c
}

func localize(face []int, local map[int]int) ([]int, bool) {
	out := make([]int, len(face))
	for i, n := range face {
		li, ok := local[n]
		if !ok {
			return nil, false
		}
		out[i] = li
	}
	return out, true
}
