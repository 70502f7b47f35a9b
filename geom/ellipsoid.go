// Copyright 2011 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import "math"

// Ellipsoid is represented, following original_source/eli.h, as a unit
// sphere mapped through a scaling triplet and a rotation matrix; the
// referential rotation/scale and current rotation/scale are kept
// separately so that repeated deformations do not accumulate rounding
// error (the referential copy is always the one directly derived from
// the body's reference configuration).
type Ellipsoid struct {
	RefCenter []float64
	RefScale  []float64
	RefRot    [][]float64

	CurCenter []float64
	CurScale  []float64
	CurRot    [][]float64

	Surf int
}

// NewEllipsoid builds an Ellipsoid whose principal semi-axes (radii)
// are initially axis-aligned.
func NewEllipsoid(center, radii []float64, surf int) *Ellipsoid {
	e := &Ellipsoid{
		RefCenter: clone(center),
		RefScale:  clone(radii),
		RefRot:    identity3(),
		Surf:      surf,
	}
	e.resetCurrent()
	return e
}

func (e *Ellipsoid) resetCurrent() {
	e.CurCenter = clone(e.RefCenter)
	e.CurScale = clone(e.RefScale)
	e.CurRot = cloneMat(e.RefRot)
}

// Kind implements Primitive.
func (e *Ellipsoid) Kind() Kind { return KindEllipsoid }

// Copy implements Primitive.
func (e *Ellipsoid) Copy() Primitive {
	return &Ellipsoid{
		RefCenter: clone(e.RefCenter), RefScale: clone(e.RefScale), RefRot: cloneMat(e.RefRot),
		CurCenter: clone(e.CurCenter), CurScale: clone(e.CurScale), CurRot: cloneMat(e.CurRot),
		Surf: e.Surf,
	}
}

// Scale implements Primitive: per-axis scaling of the referential radii.
func (e *Ellipsoid) Scale(factor []float64) {
	for i := 0; i < 3; i++ {
		e.RefScale[i] *= factor[i]
	}
	e.resetCurrent()
}

// Translate implements Primitive.
func (e *Ellipsoid) Translate(vector []float64) {
	e.RefCenter = add(e.RefCenter, vector)
	e.resetCurrent()
}

// Rotate implements Primitive.
func (e *Ellipsoid) Rotate(point, axis []float64, angle float64) {
	r := rotationMatrix(axis, angle)
	rel := sub(e.RefCenter, point)
	e.RefCenter = add(matVec(r, rel), point)
	e.RefRot = matMul(r, e.RefRot)
	e.resetCurrent()
}

func matMul(a, b [][]float64) [][]float64 {
	out := identity3()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[i][0]*b[0][j] + a[i][1]*b[1][j] + a[i][2]*b[2][j]
		}
	}
	return out
}

// toUnitSphere maps a current-configuration spatial point into the
// ellipsoid's unrotated, unscaled unit-sphere reference frame.
func (e *Ellipsoid) toUnitSphere(point []float64) []float64 {
	q := sub(point, e.CurCenter)
	p := matTVec(e.CurRot, q)
	return []float64{p[0] / e.CurScale[0], p[1] / e.CurScale[1], p[2] / e.CurScale[2]}
}

// fromUnitSphere is the inverse of toUnitSphere.
func (e *Ellipsoid) fromUnitSphere(u []float64) []float64 {
	p := []float64{u[0] * e.CurScale[0], u[1] * e.CurScale[1], u[2] * e.CurScale[2]}
	return add(matVec(e.CurRot, p), e.CurCenter)
}

// Extents implements Primitive via a closed-form bound on each axis:
// the extreme point of an ellipsoid along axis i has offset
// sqrt(sum_k (R_ik * scale_k)^2).
func (e *Ellipsoid) Extents() [6]float64 {
	var ext [6]float64
	for i := 0; i < 3; i++ {
		var s float64
		for k := 0; k < 3; k++ {
			v := e.CurRot[i][k] * e.CurScale[k]
			s += v * v
		}
		d := math.Sqrt(s)
		ext[i] = e.CurCenter[i] - d
		ext[3+i] = e.CurCenter[i] + d
	}
	return ext
}

// OrientedExtents implements Primitive.
func (e *Ellipsoid) OrientedExtents(vx, vy, vz []float64) [6]float64 {
	dirs := [][]float64{normalize(vx), normalize(vy), normalize(vz)}
	var ext [6]float64
	for i, d := range dirs {
		g := matTVec(e.CurRot, d)
		var s float64
		for k := 0; k < 3; k++ {
			v := g[k] * e.CurScale[k]
			s += v * v
		}
		r := math.Sqrt(s)
		c := dot(e.CurCenter, d)
		ext[i] = c - r
		ext[3+i] = c + r
	}
	return ext
}

// Contains implements Primitive.
func (e *Ellipsoid) Contains(point []float64) bool {
	u := e.toUnitSphere(point)
	return dot(u, u) <= 1
}

// SpatialPointDistance implements Primitive: approximated by scaling the
// unit-sphere distance back by the local radius along the point
// direction (exact on the principal axes, a good estimate elsewhere).
func (e *Ellipsoid) SpatialPointDistance(point []float64) float64 {
	u := e.toUnitSphere(point)
	un := norm(u)
	if un < 1e-300 {
		return -minAxis(e.CurScale)
	}
	surf := e.fromUnitSphere(scale(u, 1/un))
	d := norm(sub(point, surf))
	if un < 1 {
		return -d
	}
	return d
}

func minAxis(s []float64) float64 {
	m := s[0]
	for _, v := range s[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// NormalAt returns the outward unit normal of the ellipsoid's surface at
// the nearest point to a given spatial point (analytic gradient, per
// spec §4.2's "analytical gradients" for smooth bodies).
func (e *Ellipsoid) NormalAt(point []float64) []float64 {
	q := sub(point, e.CurCenter)
	p := matTVec(e.CurRot, q)
	g := []float64{
		p[0] / (e.CurScale[0] * e.CurScale[0]),
		p[1] / (e.CurScale[1] * e.CurScale[1]),
		p[2] / (e.CurScale[2] * e.CurScale[2]),
	}
	return normalize(matVec(e.CurRot, g))
}

// Update implements Primitive.
func (e *Ellipsoid) Update(motion Motion) {
	e.CurCenter = motion.Point(e.RefCenter)
	for i := 0; i < 3; i++ {
		axis := motion.Vector(e.RefCenter, e.RefRot[i])
		for k := 0; k < 3; k++ {
			e.CurRot[k][i] = axis[k]
		}
	}
	e.CurScale = clone(e.RefScale)
}

// CharPartial implements Primitive.
func (e *Ellipsoid) CharPartial(ref bool, chars *PartialChars) {
	c, s := e.CurCenter, e.CurScale
	if ref {
		c, s = e.RefCenter, e.RefScale
	}
	vol := 4.0 / 3.0 * math.Pi * s[0] * s[1] * s[2]
	chars.Volume += vol
	chars.Sx += vol * c[0]
	chars.Sy += vol * c[1]
	chars.Sz += vol * c[2]
	chars.Euler[0] += 0.2 * vol * s[0] * s[0]
	chars.Euler[1] += 0.2 * vol * s[1] * s[1]
	chars.Euler[2] += 0.2 * vol * s[2] * s[2]
}
