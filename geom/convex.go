// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

// Plane is an outward-pointing face plane of a Convex: points x on the
// boundary satisfy Dot(Normal, x-Point) == 0, and Dot(Normal, x-Point) > 0
// outside the body.
type Plane struct {
	Normal []float64
	Point  []float64
	Surf   int
}

// Convex is a convex polyhedron: a vertex cloud plus its outward face
// planes. FaceVerts lists, for each entry in Planes, the ordered (CCW as
// seen from outside) indices into the vertex slice bounding that face;
// it is the adjacency information the intersection kernel (package
// contact) needs to clip face polygons against another convex's planes,
// and is filled in at construction alongside Planes.
type Convex struct {
	RefVerts  [][]float64
	CurVerts  [][]float64
	RefPlanes []Plane
	CurPlanes []Plane
	FaceVerts [][]int
}

// NewConvex builds a Convex from a vertex cloud, face vertex index lists
// (CCW, outward-facing) and a parallel surface-id slice.
func NewConvex(verts [][]float64, faces [][]int, surfIDs []int) *Convex {
	c := &Convex{FaceVerts: faces}
	c.RefVerts = cloneMat(verts)
	c.RefPlanes = make([]Plane, len(faces))
	for i, f := range faces {
		n := faceNormal(verts, f)
		p := verts[f[0]]
		surf := 0
		if i < len(surfIDs) {
			surf = surfIDs[i]
		}
		c.RefPlanes[i] = Plane{Normal: n, Point: clone(p), Surf: surf}
	}
	c.CurVerts = cloneMat(c.RefVerts)
	c.CurPlanes = clonePlanes(c.RefPlanes)
	return c
}

func faceNormal(verts [][]float64, f []int) []float64 {
	if len(f) < 3 {
		return []float64{0, 0, 1}
	}
	a, b, c := verts[f[0]], verts[f[1]], verts[f[2]]
	return normalize(cross(sub(b, a), sub(c, a)))
}

func cloneMat(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, r := range m {
		out[i] = clone(r)
	}
	return out
}

func clonePlanes(p []Plane) []Plane {
	out := make([]Plane, len(p))
	for i, pl := range p {
		out[i] = Plane{Normal: clone(pl.Normal), Point: clone(pl.Point), Surf: pl.Surf}
	}
	return out
}

// Kind implements Primitive.
func (c *Convex) Kind() Kind { return KindConvex }

// Copy implements Primitive.
func (c *Convex) Copy() Primitive {
	faces := make([][]int, len(c.FaceVerts))
	for i, f := range c.FaceVerts {
		faces[i] = append([]int(nil), f...)
	}
	return &Convex{
		RefVerts:  cloneMat(c.RefVerts),
		CurVerts:  cloneMat(c.CurVerts),
		RefPlanes: clonePlanes(c.RefPlanes),
		CurPlanes: clonePlanes(c.CurPlanes),
		FaceVerts: faces,
	}
}

// Scale implements Primitive; factor is a per-axis scaling triplet
// applied about the origin, after which referential == current.
func (c *Convex) Scale(factor []float64) {
	for _, v := range c.RefVerts {
		v[0] *= factor[0]
		v[1] *= factor[1]
		v[2] *= factor[2]
	}
	c.rebuildPlanes()
	c.resetCurrent()
}

// Translate implements Primitive.
func (c *Convex) Translate(vector []float64) {
	for _, v := range c.RefVerts {
		v[0] += vector[0]
		v[1] += vector[1]
		v[2] += vector[2]
	}
	c.rebuildPlanes()
	c.resetCurrent()
}

// Rotate implements Primitive: rotates by angle (radians) around axis
// through point.
func (c *Convex) Rotate(point, axis []float64, angle float64) {
	r := rotationMatrix(axis, angle)
	for _, v := range c.RefVerts {
		rel := sub(v, point)
		rv := add(matVec(r, rel), point)
		copy(v, rv)
	}
	c.rebuildPlanes()
	c.resetCurrent()
}

func (c *Convex) rebuildPlanes() {
	for i, f := range c.FaceVerts {
		n := faceNormal(c.RefVerts, f)
		c.RefPlanes[i].Normal = n
		c.RefPlanes[i].Point = clone(c.RefVerts[f[0]])
	}
}

func (c *Convex) resetCurrent() {
	c.CurVerts = cloneMat(c.RefVerts)
	c.CurPlanes = clonePlanes(c.RefPlanes)
}

// Extents implements Primitive.
func (c *Convex) Extents() [6]float64 { return extentsOf(c.CurVerts) }

// OrientedExtents implements Primitive.
func (c *Convex) OrientedExtents(vx, vy, vz []float64) [6]float64 {
	return orientedExtentsOf(c.CurVerts, vx, vy, vz)
}

// Contains implements Primitive: true when the point is on the inward
// side of every current face plane.
func (c *Convex) Contains(point []float64) bool {
	for _, p := range c.CurPlanes {
		if dot(p.Normal, sub(point, p.Point)) > 0 {
			return false
		}
	}
	return true
}

// SpatialPointDistance implements Primitive: the maximum signed plane
// distance (positive outside, via the supporting-plane bound; exact for
// the boundary, a conservative estimate for interior points far from any
// face).
func (c *Convex) SpatialPointDistance(point []float64) float64 {
	max := -1e300
	for _, p := range c.CurPlanes {
		d := dot(p.Normal, sub(point, p.Point))
		if d > max {
			max = d
		}
	}
	return max
}

// Update implements Primitive.
func (c *Convex) Update(motion Motion) {
	for i, X := range c.RefVerts {
		copy(c.CurVerts[i], motion.Point(X))
	}
	for i, p := range c.RefPlanes {
		x := motion.Point(p.Point)
		n := normalize(motion.Vector(p.Point, p.Normal))
		c.CurPlanes[i].Point = x
		c.CurPlanes[i].Normal = n
		c.CurPlanes[i].Surf = p.Surf
	}
}

// CharPartial implements Primitive using the divergence-theorem
// tetrahedral decomposition (fan from the vertex centroid), summing
// volume, static moments and Euler tensor contributions componentwise.
func (c *Convex) CharPartial(ref bool, chars *PartialChars) {
	verts := c.CurVerts
	if ref {
		verts = c.RefVerts
	}
	if len(verts) == 0 {
		return
	}
	origin := verts[0]
	for _, f := range c.FaceVerts {
		for i := 1; i+1 < len(f); i++ {
			a, b, cc := verts[f[0]], verts[f[i]], verts[f[i+1]]
			addTetChars(origin, a, b, cc, chars)
		}
	}
}

// addTetChars adds the partial characteristics of the tetrahedron
// (o,a,b,c) to chars, using signed volume so that fan triangulation
// about an arbitrary interior origin still integrates to the true total.
func addTetChars(o, a, b, c []float64, chars *PartialChars) {
	ao, bo, co := sub(a, o), sub(b, o), sub(c, o)
	vol6 := dot(ao, cross(bo, co))
	vol := vol6 / 6
	cx := (o[0] + a[0] + b[0] + c[0]) / 4
	cy := (o[1] + a[1] + b[1] + c[1]) / 4
	cz := (o[2] + a[2] + b[2] + c[2]) / 4
	chars.Volume += vol
	chars.Sx += vol * cx
	chars.Sy += vol * cy
	chars.Sz += vol * cz
	// crude second-moment accumulation about the centroid of this tet;
	// adequate for the Euler tensor partial-sum contract (§4.1).
	pts := [][]float64{o, a, b, c}
	for i := 0; i < 4; i++ {
		dx, dy, dz := pts[i][0]-cx, pts[i][1]-cy, pts[i][2]-cz
		w := vol / 4
		chars.Euler[0] += w * dx * dx
		chars.Euler[1] += w * dy * dy
		chars.Euler[2] += w * dz * dz
		chars.Euler[3] += w * dx * dy
		chars.Euler[4] += w * dy * dz
		chars.Euler[5] += w * dz * dx
	}
}
