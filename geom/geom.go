// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geom implements the geometric primitives making up a body's
// shape: convex polyhedra, spheres, ellipsoids and background meshes.
package geom

import "math"

// Kind identifies the concrete primitive behind a Primitive value.
type Kind int

// primitive kinds
const (
	KindMesh Kind = iota
	KindConvex
	KindSphere
	KindEllipsoid
)

// Motion maps a referential point (and, optionally, a referential
// tangent vector at that point) to its current-configuration image. A
// body supplies its own Motion when updating its shape's current copy
// from its configuration q.
type Motion interface {
	// Point returns the current-configuration image of a referential point.
	Point(X []float64) []float64
	// Vector pulls forward a referential tangent vector V attached at X.
	Vector(X, V []float64) []float64
}

// Primitive is implemented by every concrete shape primitive (Convex,
// Sphere, Ellipsoid, Mesh). Operations separate referential ("ref")
// data, fixed for the body's lifetime, from current ("cur") data, which
// tracks the body's configuration through Update.
type Primitive interface {
	Kind() Kind
	Copy() Primitive

	// Scale, Translate and Rotate are affine edits applied at
	// construction time; each also resets current == referential.
	Scale(factor []float64)
	Translate(vector []float64)
	Rotate(point, axis []float64, angle float64)

	// Extents returns the current axis-aligned bounding box as
	// [xmin,ymin,zmin,xmax,ymax,zmax].
	Extents() [6]float64

	// OrientedExtents returns extents along three (not necessarily
	// orthogonal) given directions, in the same layout as Extents.
	OrientedExtents(vx, vy, vz []float64) [6]float64

	// Contains reports whether the current shape contains a spatial point.
	Contains(point []float64) bool

	// SpatialPointDistance returns the distance from a spatial point to
	// the current shape's boundary (zero or negative when inside).
	SpatialPointDistance(point []float64) float64

	// Update recomputes the current copy from the referential copy
	// through the given motion.
	Update(motion Motion)

	// CharPartial accumulates this primitive's partial volume, static
	// moments and Euler tensor contribution into chars. When ref is
	// true the referential copy is used, otherwise the current one.
	CharPartial(ref bool, chars *PartialChars)
}

// PartialChars accumulates volume, static moments (Sx,Sy,Sz) and the
// Euler tensor (6 independent entries, xx,yy,zz,xy,yz,zx) across the
// primitives making up a shape; componentwise summation as per spec §4.1.
type PartialChars struct {
	Volume float64
	Sx, Sy, Sz float64
	Euler [6]float64
}

// Add accumulates another partial-characteristics block.
func (c *PartialChars) Add(o PartialChars) {
	c.Volume += o.Volume
	c.Sx += o.Sx
	c.Sy += o.Sy
	c.Sz += o.Sz
	for i := range c.Euler {
		c.Euler[i] += o.Euler[i]
	}
}

// Center returns the mass center implied by the accumulated moments.
func (c *PartialChars) Center() []float64 {
	if c.Volume == 0 {
		return []float64{0, 0, 0}
	}
	return []float64{c.Sx / c.Volume, c.Sy / c.Volume, c.Sz / c.Volume}
}

// small vector helpers (kept local and tiny, matching the teacher's own
// low-level shp/ routines rather than reaching for a generic linear
// algebra package for 3-vectors).

func sub(a, b []float64) []float64 { return []float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }
func add(a, b []float64) []float64 { return []float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
func dot(a, b []float64) float64   { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }
func scale(a []float64, s float64) []float64 {
	return []float64{a[0] * s, a[1] * s, a[2] * s}
}
func norm(a []float64) float64 { return math.Sqrt(dot(a, a)) }
func normalize(a []float64) []float64 {
	n := norm(a)
	if n < 1e-300 {
		return []float64{0, 0, 0}
	}
	return scale(a, 1/n)
}
func cross(a, b []float64) []float64 {
	return []float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
func clone(a []float64) []float64 {
	b := make([]float64, len(a))
	copy(b, a)
	return b
}

// matVec multiplies a 3x3 matrix (row-major [][]float64) by a 3-vector.
func matVec(m [][]float64, v []float64) []float64 {
	return []float64{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// matTVec multiplies the transpose of a 3x3 matrix by a 3-vector.
func matTVec(m [][]float64, v []float64) []float64 {
	return []float64{
		m[0][0]*v[0] + m[1][0]*v[1] + m[2][0]*v[2],
		m[0][1]*v[0] + m[1][1]*v[1] + m[2][1]*v[2],
		m[0][2]*v[0] + m[1][2]*v[1] + m[2][2]*v[2],
	}
}

// identity3 returns a fresh 3x3 identity matrix.
func identity3() [][]float64 {
	return [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// rotationMatrix builds the rotation matrix for an angle (radians)
// around a unit axis, by Rodrigues' formula.
func rotationMatrix(axis []float64, angle float64) [][]float64 {
	a := normalize(axis)
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	x, y, z := a[0], a[1], a[2]
	return [][]float64{
		{t*x*x + c, t*x*y - s*z, t*x*z + s*y},
		{t*x*y + s*z, t*y*y + c, t*y*z - s*x},
		{t*x*z - s*y, t*y*z + s*x, t*z*z + c},
	}
}

func extentsOf(points [][]float64) [6]float64 {
	e := [6]float64{math.Inf(1), math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range points {
		for i := 0; i < 3; i++ {
			if p[i] < e[i] {
				e[i] = p[i]
			}
			if p[i] > e[3+i] {
				e[3+i] = p[i]
			}
		}
	}
	return e
}

func orientedExtentsOf(points [][]float64, vx, vy, vz []float64) [6]float64 {
	ux, uy, uz := normalize(vx), normalize(vy), normalize(vz)
	e := [6]float64{math.Inf(1), math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range points {
		c := []float64{dot(p, ux), dot(p, uy), dot(p, uz)}
		for i := 0; i < 3; i++ {
			if c[i] < e[i] {
				e[i] = c[i]
			}
			if c[i] > e[3+i] {
				e[3+i] = c[i]
			}
		}
	}
	return e
}
