// Copyright 2008 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contact

import "math"

// gjkMaxIter bounds the Gilbert-Johnson-Keerthi iteration (spec §4.2).
const gjkMaxIter = 64

// gjkTol is the squared-distance convergence tolerance.
const gjkTol = 1e-14

// GJK computes the closest-point distance between two convex bodies
// exposed through their support functions, returning the distance and
// the witness points on each body. A zero distance is returned when
// GJK detects overlap is likely (callers needing exact overlap volumes
// should use ClipConvexConvex instead; GJK here serves as the
// closest-point/distance oracle of §4.2, and as the separating-overlap
// case detector and robustness corrector for the gap computation).
func GJK(a, b Supporter) (dist float64, pa, pb []float64, err error) {
	// simplex of (pointOnA - pointOnB) "Minkowski difference" support
	// points, with parallel witness points on A and B.
	type vert = struct{ w, a, b []float64 }
	dir := []float64{1, 0, 1}
	verts := make([]vert, 0, 4)

	support := func(d []float64) vert {
		sa := a.Support(d)
		nd := []float64{-d[0], -d[1], -d[2]}
		sb := b.Support(nd)
		return vert{w: sub3(sa, sb), a: sa, b: sb}
	}

	v0 := support(dir)
	verts = append(verts, v0)

	closestOrigin := func(simplex []vert) (closest []float64, next []vert, finished bool) {
		switch len(simplex) {
		case 1:
			return simplex[0].w, simplex, false
		case 2:
			return closestOnSegment(simplex[0].w, simplex[1].w), simplex, false
		case 3:
			return closestOnTriangle(simplex[0].w, simplex[1].w, simplex[2].w), simplex, false
		default:
			// tetrahedron case: fall back to nearest face/edge/vertex by
			// brute enumeration, adequate for this engine's needs.
			best := simplex[0].w
			bestD := dot3(best, best)
			combos := [][]int{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}}
			for _, c := range combos {
				p := closestOnTriangle(simplex[c[0]].w, simplex[c[1]].w, simplex[c[2]].w)
				d := dot3(p, p)
				if d < bestD {
					bestD = d
					best = p
				}
			}
			return best, simplex, false
		}
	}

	prevDist := math.Inf(1)
	for iter := 0; iter < gjkMaxIter; iter++ {
		closest, _, _ := closestOrigin(verts)
		d2 := dot3(closest, closest)
		if d2 < gjkTol {
			// origin inside the Minkowski difference: overlapping.
			p, q := witnessAt(verts, closest)
			return 0, p, q, nil
		}
		if math.Abs(prevDist-d2) < gjkTol {
			p, q := witnessAt(verts, closest)
			return math.Sqrt(d2), p, q, nil
		}
		prevDist = d2
		searchDir := []float64{-closest[0], -closest[1], -closest[2]}
		nv := support(searchDir)
		// convergence: the new support point does not improve past the
		// current closest-point estimate.
		if dot3(nv.w, searchDir)-dot3(closest, searchDir) < 1e-12 {
			p, q := witnessAt(verts, closest)
			return math.Sqrt(d2), p, q, nil
		}
		verts = append(verts, nv)
		if len(verts) > 4 {
			verts = verts[len(verts)-4:]
		}
	}
	closest, _, _ := closestOrigin(verts)
	d2 := dot3(closest, closest)
	p, q := witnessAt(verts, closest)
	if math.IsNaN(d2) || math.IsInf(d2, 0) {
		return 0, nil, nil, ErrNonFinite
	}
	return math.Sqrt(d2), p, q, nil
}

// witnessAt recovers approximate witness points on A and B for a
// closest point expressed in Minkowski-difference space, via nearest
// simplex vertex (sufficient precision for contact-point seeding; the
// caller refines with the contact-point-in-hull sanity check of §4.2).
func witnessAt(verts []struct{ w, a, b []float64 }, closest []float64) (pa, pb []float64) {
	best := 0
	bestD := math.Inf(1)
	for i, v := range verts {
		d := dot3(sub3(v.w, closest), sub3(v.w, closest))
		if d < bestD {
			bestD = d
			best = i
		}
	}
	return verts[best].a, verts[best].b
}

func closestOnSegment(a, b []float64) []float64 {
	ab := sub3(b, a)
	t := -dot3(a, ab) / math.Max(dot3(ab, ab), 1e-300)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return []float64{a[0] + t*ab[0], a[1] + t*ab[1], a[2] + t*ab[2]}
}

func closestOnTriangle(a, b, c []float64) []float64 {
	// barycentric projection of the origin onto triangle (a,b,c),
	// clamped to the triangle's edges/vertices when outside.
	ab := sub3(b, a)
	ac := sub3(c, a)
	ap := []float64{-a[0], -a[1], -a[2]}
	d1 := dot3(ab, ap)
	d2 := dot3(ac, ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}
	bp := []float64{-b[0], -b[1], -b[2]}
	d3 := dot3(ab, bp)
	d4 := dot3(ac, bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}
	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return []float64{a[0] + v*ab[0], a[1] + v*ab[1], a[2] + v*ab[2]}
	}
	cp := []float64{-c[0], -c[1], -c[2]}
	d5 := dot3(ab, cp)
	d6 := dot3(ac, cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}
	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return []float64{a[0] + w*ac[0], a[1] + w*ac[1], a[2] + w*ac[2]}
	}
	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return []float64{b[0] + w*(c[0]-b[0]), b[1] + w*(c[1]-b[1]), b[2] + w*(c[2]-b[2])}
	}
	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return []float64{a[0] + v*ab[0] + w*ac[0], a[1] + v*ab[1] + w*ac[1], a[2] + v*ab[2] + w*ac[2]}
}
