// Copyright 2008, 2009 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contact

import (
	"math"

	"github.com/cpmech/solfec/geom"
)

// detectConvexConvex implements spec §4.2's convex-convex contact point,
// normal, surface pair, area and gap computation on top of
// ClipConvexConvex, following original_source/goc.c's
// point_normal_spair_area_gap almost verbatim.
func detectConvexConvex(a, b *geom.Convex, spair [2]int, update bool, opts Options) (Result, error) {
	tri, overlapVerts, err := ClipConvexConvex(a, b)
	if err != nil {
		return Result{}, err
	}
	if len(tri) == 0 {
		return Result{Outcome: NoContact}, nil
	}

	var normal, point [3]float64
	var area float64
	for _, t := range tri {
		ta := triangleArea(t.V[0], t.V[1], t.V[2])
		w := ta * ta // squared-area weighting damps sliver triangles
		sign := 1.0
		if t.Flag < 0 {
			sign = -1.0
		}
		for i := 0; i < 3; i++ {
			normal[i] += sign * w * t.Out[i]
		}
		mid := [3]float64{
			(t.V[0][0] + t.V[1][0] + t.V[2][0]) / 3,
			(t.V[0][1] + t.V[1][1] + t.V[2][1]) / 3,
			(t.V[0][2] + t.V[1][2] + t.V[2][2]) / 3,
		}
		for i := 0; i < 3; i++ {
			point[i] += ta * mid[i]
		}
		area += ta
	}
	if area < 1e-300 {
		return Result{Outcome: Rejected}, nil
	}
	for i := 0; i < 3; i++ {
		point[i] /= area
	}
	nrm := normalize3(normal[:])
	if dot3(nrm, nrm) < 1e-300 {
		return Result{Outcome: Rejected}, nil
	}
	pointSlice := point[:]

	// sanity: the contact point must lie inside both hulls (§4.2).
	if cv := a.SpatialPointDistance(pointSlice); cv > GeometricEpsilon {
		return Result{Outcome: Rejected}, nil
	}
	if cv := b.SpatialPointDistance(pointSlice); cv > GeometricEpsilon {
		return Result{Outcome: Rejected}, nil
	}

	spNew := [2]int{nearestSurface(pointSlice, a.CurPlanes), nearestSurface(pointSlice, b.CurPlanes)}
	changed := false
	if update {
		if spNew[0] != spair[0] || spNew[1] != spair[1] {
			changed = true
		}
	}

	gap := gapMinMaxProjection(overlapVerts, nrm)
	if opts.GapStrategy == GapLinePlane {
		gap = gapLinePlaneFallback(tri, pointSlice, nrm)
	}
	if math.Abs(gap) > opts.PenetrationBound {
		gap = gapGJKCorrector(a, b, nrm, gap)
	}

	return Result{
		Outcome:         NewContact,
		Point:           pointSlice,
		Normal:          nrm,
		Gap:             math.Min(gap, 0),
		Area:            area / 2, // intersection surface is double-counted
		SurfPair:        spNew,
		SurfPairChanged: changed,
	}, nil
}

func triangleArea(a, b, c []float64) float64 {
	ab := sub3(b, a)
	ac := sub3(c, a)
	cr := []float64{
		ab[1]*ac[2] - ab[2]*ac[1],
		ab[2]*ac[0] - ab[0]*ac[2],
		ab[0]*ac[1] - ab[1]*ac[0],
	}
	return 0.5 * math.Sqrt(dot3(cr, cr))
}

// gapMinMaxProjection implements the canonical (Open Question (i))
// strategy: project all overlap-polytope vertices along the normal and
// take (min - max) as a signed-penetration candidate.
func gapMinMaxProjection(verts [][]float64, normal []float64) float64 {
	if len(verts) == 0 {
		return 0
	}
	neg, pos := math.Inf(1), math.Inf(-1)
	for _, v := range verts {
		a := dot3(normal, v)
		if a > pos {
			pos = a
		}
		if a < neg {
			neg = a
		}
	}
	return neg - pos
}

// gapLinePlaneFallback implements the first (non-canonical) gap
// strategy, kept only for reference and testing (Open Question (i)).
func gapLinePlaneFallback(tri []Triangle, point, normal []float64) float64 {
	pos, neg := math.Inf(1), math.Inf(-1)
	for _, t := range tri {
		d := dot3(t.Out, normal)
		if math.Abs(d) < 1e-12 {
			continue
		}
		planeD := -dot3(t.Out, t.V[0])
		a := -(dot3(t.Out, point) + planeD) / d
		if a >= 0 && a < pos {
			pos = a
		} else if a <= 0 && a > neg {
			neg = a
		}
	}
	if math.IsInf(pos, 1) || math.IsInf(neg, -1) {
		return 0
	}
	return neg - pos
}

// gapGJKCorrector implements the robustness corrector of §4.2: when the
// candidate gap magnitude exceeds the penetration bound, the overlap is
// rigidly translated apart along the normal by the candidate depth and a
// fresh GJK distance is taken as the corrected value.
func gapGJKCorrector(a, b *geom.Convex, normal []float64, candidate float64) float64 {
	depth := -candidate
	shiftA := geom.NewConvex(translated(a.CurVerts, normal, -depth), a.FaceVerts, surfIDs(a))
	shiftB := geom.NewConvex(translated(b.CurVerts, normal, depth), b.FaceVerts, surfIDs(b))
	dist, _, _, err := GJK(SupporterOf(shiftA), SupporterOf(shiftB))
	if err != nil {
		return candidate
	}
	corrected := dist - 2*depth
	return math.Min(corrected, 0)
}

func translated(verts [][]float64, dir []float64, amount float64) [][]float64 {
	out := make([][]float64, len(verts))
	for i, v := range verts {
		out[i] = []float64{v[0] + amount*dir[0], v[1] + amount*dir[1], v[2] + amount*dir[2]}
	}
	return out
}

func surfIDs(c *geom.Convex) []int {
	ids := make([]int, len(c.CurPlanes))
	for i, p := range c.CurPlanes {
		ids[i] = p.Surf
	}
	return ids
}

// Detect runs narrow-phase detection between two primitives in "fresh"
// mode (no pre-existing constraint), following spec §4.4. Mesh
// primitives must already be reduced to a per-element Convex by the
// caller (the broad phase operates on SGPs, each indexing a single
// detectable primitive, spec §3).
func Detect(a, b geom.Primitive, opts Options) (Result, error) {
	return dispatch(a, b, [2]int{}, false, opts)
}

// Update re-runs detection for a pair that already bears a contact
// constraint, keeping the normal convention and signalling a surface-
// pair change when the nearest-plane queries disagree with spair.
func Update(a, b geom.Primitive, spair [2]int, opts Options) (Result, error) {
	return dispatch(a, b, spair, true, opts)
}

func dispatch(a, b geom.Primitive, spair [2]int, update bool, opts Options) (Result, error) {
	switch av := a.(type) {
	case *geom.Convex:
		switch bv := b.(type) {
		case *geom.Convex:
			return detectConvexConvex(av, bv, spair, update, opts)
		case *geom.Sphere:
			return detectConvexSphere(av, bv, spair, update)
		case *geom.Ellipsoid:
			return detectConvexEllipsoid(av, bv, spair, update)
		}
	case *geom.Sphere:
		switch bv := b.(type) {
		case *geom.Convex:
			r, err := detectConvexSphere(bv, av, [2]int{spair[1], spair[0]}, update)
			return swapResult(r), err
		case *geom.Sphere:
			return detectSphereSphere(av, bv, spair, update)
		case *geom.Ellipsoid:
			return detectSphereEllipsoid(av, bv, spair, update)
		}
	case *geom.Ellipsoid:
		switch bv := b.(type) {
		case *geom.Convex:
			r, err := detectConvexEllipsoid(bv, av, [2]int{spair[1], spair[0]}, update)
			return swapResult(r), err
		case *geom.Sphere:
			r, err := detectSphereEllipsoid(bv, av, [2]int{spair[1], spair[0]}, update)
			return swapResult(r), err
		case *geom.Ellipsoid:
			return detectEllipsoidEllipsoid(av, bv, spair, update)
		}
	}
	return Result{}, ErrDegenerate
}

// swapResult flips a result computed for (b,a) back into the (a,b)
// orientation the caller asked for: the normal must point outward from
// the first (master) argument, so it is negated, and the surface pair
// is swapped back.
func swapResult(r Result) Result {
	if r.Outcome != NewContact {
		return r
	}
	if r.Normal != nil {
		r.Normal = []float64{-r.Normal[0], -r.Normal[1], -r.Normal[2]}
	}
	r.SurfPair = [2]int{r.SurfPair[1], r.SurfPair[0]}
	return r
}
