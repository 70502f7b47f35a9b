// Copyright 2008, 2009 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contact

import (
	"math"

	"github.com/cpmech/solfec/geom"
)

// Triangle is one triangle of a clipped overlap boundary. Flag encodes
// ownership following original_source/goc.c's convention: positive
// (faceIndexA+1) when the triangle comes from a face of body A clipped
// by B, negative (-(faceIndexB+1)) when it comes from a face of B
// clipped by A.
type Triangle struct {
	V   [3][]float64
	Out []float64 // outward normal of the owning face
	Flag int
}

// ClipConvexConvex computes the triangulated boundary of the overlap
// polytope A∩B by clipping each face polygon of A against all planes of
// B, and each face polygon of B against all planes of A (polytope
// clipping / half-space intersection, spec §4.2). It also returns the
// vertex cloud of the overlap region (the union of all clipped polygon
// vertices), used by the gap computation.
func ClipConvexConvex(a, b *geom.Convex) (tri []Triangle, overlapVerts [][]float64, err error) {
	addFrom := func(owner *geom.Convex, clipper *geom.Convex, sign int) error {
		for fi, f := range owner.FaceVerts {
			poly := make([][]float64, len(f))
			for i, vi := range f {
				poly[i] = owner.CurVerts[vi]
			}
			poly = clipPolygon(poly, clipper.CurPlanes)
			if len(poly) < 3 {
				continue
			}
			for _, p := range poly {
				for _, c := range p {
					if math.IsNaN(c) || math.IsInf(c, 0) {
						return ErrNonFinite
					}
				}
			}
			overlapVerts = append(overlapVerts, poly...)
			nrm := owner.CurPlanes[fi].Normal
			for i := 1; i+1 < len(poly); i++ {
				tri = append(tri, Triangle{
					V:    [3][]float64{poly[0], poly[i], poly[i+1]},
					Out:  nrm,
					Flag: sign * (fi + 1),
				})
			}
		}
		return nil
	}
	if err = addFrom(a, b, 1); err != nil {
		return nil, nil, err
	}
	if err = addFrom(b, a, -1); err != nil {
		return nil, nil, err
	}
	return tri, overlapVerts, nil
}

// clipPolygon clips a convex polygon (CCW) against a set of outward
// half-spaces (Sutherland-Hodgman), returning the remaining sub-polygon.
func clipPolygon(poly [][]float64, planes []geom.Plane) [][]float64 {
	out := poly
	for _, pl := range planes {
		if len(out) == 0 {
			break
		}
		out = clipAgainstPlane(out, pl)
	}
	return out
}

func clipAgainstPlane(poly [][]float64, pl geom.Plane) [][]float64 {
	var res [][]float64
	n := len(poly)
	for i := 0; i < n; i++ {
		cur := poly[i]
		nxt := poly[(i+1)%n]
		curIn := planeSide(pl, cur) <= 0
		nxtIn := planeSide(pl, nxt) <= 0
		if curIn {
			res = append(res, cur)
		}
		if curIn != nxtIn {
			t := intersectEdgePlane(cur, nxt, pl)
			if t != nil {
				res = append(res, t)
			}
		}
	}
	return res
}

func planeSide(pl geom.Plane, p []float64) float64 {
	return dot3(pl.Normal, sub3(p, pl.Point))
}

func intersectEdgePlane(a, b []float64, pl geom.Plane) []float64 {
	da := planeSide(pl, a)
	db := planeSide(pl, b)
	denom := da - db
	if math.Abs(denom) < 1e-300 {
		return nil
	}
	t := da / denom
	return []float64{
		a[0] + t*(b[0]-a[0]),
		a[1] + t*(b[1]-a[1]),
		a[2] + t*(b[2]-a[2]),
	}
}
