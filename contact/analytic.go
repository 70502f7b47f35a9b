// Copyright 2008, 2009 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contact

import (
	"math"

	"github.com/cpmech/solfec/geom"
)

// sphereSphereGap computes the semi-negative sphere-sphere gap along a
// given normal, following original_source/goc.c's sphere_sphere_gap.
func sphereSphereGap(ca []float64, ra float64, cb []float64, rb float64, normal []float64) float64 {
	x := sub3(cb, ca)
	d := dot3(x, normal)
	e := ra + rb
	if e > d {
		return d - e
	}
	return 0
}

func sphereNormal(center []float64, point []float64) []float64 {
	return normalize3(sub3(point, center))
}

// detectSphereSphere implements spec §4.2's analytic sphere-sphere case.
func detectSphereSphere(a, b *geom.Sphere, spair [2]int, update bool) (Result, error) {
	normal := normalize3(sub3(b.CurCenter, a.CurCenter))
	if dot3(normal, normal) < 1e-300 {
		normal = []float64{0, 0, 1}
	}
	gap := sphereSphereGap(a.CurCenter, a.Radius, b.CurCenter, b.Radius, normal)
	if gap >= 0 {
		return Result{Outcome: NoContact}, nil
	}
	pa := []float64{a.CurCenter[0] + a.Radius*normal[0], a.CurCenter[1] + a.Radius*normal[1], a.CurCenter[2] + a.Radius*normal[2]}
	pb := []float64{b.CurCenter[0] - b.Radius*normal[0], b.CurCenter[1] - b.Radius*normal[1], b.CurCenter[2] - b.Radius*normal[2]}
	point := []float64{(pa[0] + pb[0]) / 2, (pa[1] + pb[1]) / 2, (pa[2] + pb[2]) / 2}
	r := math.Min(a.Radius, b.Radius)
	area := math.Pi * r * r
	sp := [2]int{a.Surf, b.Surf}
	changed := update && sp != spair
	return Result{Outcome: NewContact, Point: point, Normal: normal, Gap: gap, Area: area, SurfPair: sp, SurfPairChanged: changed}, nil
}

// detectSphereEllipsoid implements the sphere-ellipsoid analytic case.
func detectSphereEllipsoid(s *geom.Sphere, e *geom.Ellipsoid, spair [2]int, update bool) (Result, error) {
	dist, pa, pb, err := GJK(SupporterOf(s), SupporterOf(e))
	if err != nil {
		return Result{}, err
	}
	// outward from the sphere (master): the reverse of the ellipsoid's
	// outward normal at its witness point.
	n := e.NormalAt(pb)
	normal := []float64{-n[0], -n[1], -n[2]}
	gap := dist
	if e.Contains(s.CurCenter) || s.Contains(pb) {
		gap = -gap
		if gap == 0 {
			gap = -1e-12
		}
	} else if dist < 1e-9 {
		gap = -1e-12
	} else {
		return Result{Outcome: NoContact}, nil
	}
	point := []float64{(pa[0] + pb[0]) / 2, (pa[1] + pb[1]) / 2, (pa[2] + pb[2]) / 2}
	sp := [2]int{s.Surf, e.Surf}
	changed := update && sp != spair
	return Result{Outcome: NewContact, Point: point, Normal: normal, Gap: gap, Area: math.Pi * s.Radius * s.Radius * 0.25, SurfPair: sp, SurfPairChanged: changed}, nil
}

// detectEllipsoidEllipsoid implements the ellipsoid-ellipsoid analytic case.
func detectEllipsoidEllipsoid(a, b *geom.Ellipsoid, spair [2]int, update bool) (Result, error) {
	dist, pa, pb, err := GJK(SupporterOf(a), SupporterOf(b))
	if err != nil {
		return Result{}, err
	}
	if !(a.Contains(b.CurCenter) || b.Contains(a.CurCenter) || dist < 1e-9) {
		return Result{Outcome: NoContact}, nil
	}
	mid := []float64{(pa[0] + pb[0]) / 2, (pa[1] + pb[1]) / 2, (pa[2] + pb[2]) / 2}
	normal := a.NormalAt(mid)
	gap := -math.Abs(dist)
	if gap == 0 {
		gap = -1e-12
	}
	sp := [2]int{a.Surf, b.Surf}
	changed := update && sp != spair
	return Result{Outcome: NewContact, Point: mid, Normal: normal, Gap: gap, Area: 0, SurfPair: sp, SurfPairChanged: changed}, nil
}

// detectConvexSphere implements the convex-sphere case via GJK against
// the convex's vertex cloud, with the analytic sphere normal at the
// closest point (spec §4.2: "analytical gradients at the closest point
// of the smooth body").
func detectConvexSphere(cv *geom.Convex, s *geom.Sphere, spair [2]int, update bool) (Result, error) {
	dist, pa, pb, err := GJK(SupporterOf(cv), SupporterOf(s))
	if err != nil {
		return Result{}, err
	}
	inside := cv.Contains(s.CurCenter)
	if !inside && dist > 1e-9 {
		return Result{Outcome: NoContact}, nil
	}
	normal := sphereNormal(s.CurCenter, pb)
	// normal should point outward from the convex (master); flip if the
	// sphere center is inside the convex along this normal's sense.
	if dot3(normal, sub3(s.CurCenter, pa)) < 0 {
		normal = []float64{-normal[0], -normal[1], -normal[2]}
	}
	gap := -math.Abs(dist)
	if gap == 0 {
		gap = -1e-12
	}
	point := []float64{(pa[0] + pb[0]) / 2, (pa[1] + pb[1]) / 2, (pa[2] + pb[2]) / 2}
	surf := nearestSurface(point, cv.CurPlanes)
	sp := [2]int{surf, s.Surf}
	changed := update && sp != spair
	return Result{Outcome: NewContact, Point: point, Normal: normal, Gap: gap, Area: math.Pi * s.Radius * s.Radius * 0.25, SurfPair: sp, SurfPairChanged: changed}, nil
}

// detectConvexEllipsoid implements the convex-ellipsoid case.
func detectConvexEllipsoid(cv *geom.Convex, e *geom.Ellipsoid, spair [2]int, update bool) (Result, error) {
	dist, pa, pb, err := GJK(SupporterOf(cv), SupporterOf(e))
	if err != nil {
		return Result{}, err
	}
	inside := cv.Contains(e.CurCenter)
	if !inside && dist > 1e-9 {
		return Result{Outcome: NoContact}, nil
	}
	normal := e.NormalAt(pb)
	if dot3(normal, sub3(e.CurCenter, pa)) < 0 {
		normal = []float64{-normal[0], -normal[1], -normal[2]}
	}
	gap := -math.Abs(dist)
	if gap == 0 {
		gap = -1e-12
	}
	point := []float64{(pa[0] + pb[0]) / 2, (pa[1] + pb[1]) / 2, (pa[2] + pb[2]) / 2}
	surf := nearestSurface(point, cv.CurPlanes)
	sp := [2]int{surf, e.Surf}
	changed := update && sp != spair
	return Result{Outcome: NewContact, Point: point, Normal: normal, Gap: gap, Area: 0, SurfPair: sp, SurfPairChanged: changed}, nil
}

// nearestSurface returns the surface id of the plane nearest to point,
// ties broken by minimum absolute signed distance (spec §4.2).
func nearestSurface(point []float64, planes []geom.Plane) int {
	best := 0
	bestD := math.Inf(1)
	for _, pl := range planes {
		d := math.Abs(planeSide(pl, point))
		if d < bestD {
			bestD = d
			best = pl.Surf
		}
	}
	return best
}
