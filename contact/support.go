// Copyright 2008 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contact

import (
	"math"

	"github.com/cpmech/solfec/geom"
)

// Supporter exposes an implicit support function: the farthest point of
// a convex body along a given direction. GJK (gjk.go) is expressed
// purely in terms of this interface so the same iteration serves convex
// polyhedra, spheres and ellipsoids alike (spec §4.2: "a variant with
// implicit support functions" for convex-ellipsoid and ellipsoid-
// ellipsoid pairs).
type Supporter interface {
	Support(dir []float64) []float64
}

type convexSupport struct{ verts [][]float64 }

func (s convexSupport) Support(dir []float64) []float64 {
	best := s.verts[0]
	bestDot := dot3(best, dir)
	for _, v := range s.verts[1:] {
		d := dot3(v, dir)
		if d > bestDot {
			bestDot = d
			best = v
		}
	}
	return best
}

type sphereSupport struct {
	center []float64
	radius float64
}

func (s sphereSupport) Support(dir []float64) []float64 {
	u := normalize3(dir)
	return []float64{
		s.center[0] + s.radius*u[0],
		s.center[1] + s.radius*u[1],
		s.center[2] + s.radius*u[2],
	}
}

type ellipsoidSupport struct{ e *geom.Ellipsoid }

func (s ellipsoidSupport) Support(dir []float64) []float64 {
	// map direction into the unrotated unit-sphere frame, scaled by the
	// ellipsoid's own radii (support function of an affine image of the
	// unit ball), then map the unit-sphere support point back out.
	g := matTVecLocal(s.e.CurRot, dir)
	scaled := []float64{g[0] * s.e.CurScale[0], g[1] * s.e.CurScale[1], g[2] * s.e.CurScale[2]}
	u := normalize3(scaled)
	local := []float64{u[0] * s.e.CurScale[0], u[1] * s.e.CurScale[1], u[2] * s.e.CurScale[2]}
	world := matVecLocal(s.e.CurRot, local)
	return []float64{
		s.e.CurCenter[0] + world[0],
		s.e.CurCenter[1] + world[1],
		s.e.CurCenter[2] + world[2],
	}
}

// SupporterOf adapts a geom.Primitive to a Supporter; Mesh primitives
// must be reduced to a per-element Convex by the caller first.
func SupporterOf(p geom.Primitive) Supporter {
	switch v := p.(type) {
	case *geom.Convex:
		return convexSupport{verts: v.CurVerts}
	case *geom.Sphere:
		return sphereSupport{center: v.CurCenter, radius: v.Radius}
	case *geom.Ellipsoid:
		return ellipsoidSupport{e: v}
	}
	return nil
}

func dot3(a, b []float64) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }
func sub3(a, b []float64) []float64 {
	return []float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}
func normalize3(a []float64) []float64 {
	n := dot3(a, a)
	if n < 1e-300 {
		return []float64{0, 0, 0}
	}
	inv := 1 / math.Sqrt(n)
	return []float64{a[0] * inv, a[1] * inv, a[2] * inv}
}

func matVecLocal(m [][]float64, v []float64) []float64 {
	return []float64{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

func matTVecLocal(m [][]float64, v []float64) []float64 {
	return []float64{
		m[0][0]*v[0] + m[1][0]*v[1] + m[2][0]*v[2],
		m[0][1]*v[0] + m[1][1]*v[1] + m[2][1]*v[2],
		m[0][2]*v[0] + m[1][2]*v[1] + m[2][2]*v[2],
	}
}
