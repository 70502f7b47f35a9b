// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import "math"

// Sphere is a solid sphere primitive.
type Sphere struct {
	RefCenter []float64
	CurCenter []float64
	Radius    float64
	Surf      int
}

// NewSphere builds a Sphere.
func NewSphere(center []float64, radius float64, surf int) *Sphere {
	return &Sphere{RefCenter: clone(center), CurCenter: clone(center), Radius: radius, Surf: surf}
}

// Kind implements Primitive.
func (s *Sphere) Kind() Kind { return KindSphere }

// Copy implements Primitive.
func (s *Sphere) Copy() Primitive {
	return &Sphere{RefCenter: clone(s.RefCenter), CurCenter: clone(s.CurCenter), Radius: s.Radius, Surf: s.Surf}
}

// Scale implements Primitive; factor[0] scales the radius (per bod.h
// convention: "scale radius: r *= vector[0]").
func (s *Sphere) Scale(factor []float64) {
	s.Radius *= factor[0]
	s.CurCenter = clone(s.RefCenter)
}

// Translate implements Primitive.
func (s *Sphere) Translate(vector []float64) {
	s.RefCenter = add(s.RefCenter, vector)
	s.CurCenter = clone(s.RefCenter)
}

// Rotate implements Primitive.
func (s *Sphere) Rotate(point, axis []float64, angle float64) {
	r := rotationMatrix(axis, angle)
	rel := sub(s.RefCenter, point)
	s.RefCenter = add(matVec(r, rel), point)
	s.CurCenter = clone(s.RefCenter)
}

// Extents implements Primitive.
func (s *Sphere) Extents() [6]float64 {
	c, r := s.CurCenter, s.Radius
	return [6]float64{c[0] - r, c[1] - r, c[2] - r, c[0] + r, c[1] + r, c[2] + r}
}

// OrientedExtents implements Primitive: a sphere's projection along any
// unit direction spans [center.dir - r, center.dir + r].
func (s *Sphere) OrientedExtents(vx, vy, vz []float64) [6]float64 {
	ux, uy, uz := normalize(vx), normalize(vy), normalize(vz)
	cx, cy, cz := dot(s.CurCenter, ux), dot(s.CurCenter, uy), dot(s.CurCenter, uz)
	r := s.Radius
	return [6]float64{cx - r, cy - r, cz - r, cx + r, cy + r, cz + r}
}

// Contains implements Primitive.
func (s *Sphere) Contains(point []float64) bool {
	return norm(sub(point, s.CurCenter)) <= s.Radius
}

// SpatialPointDistance implements Primitive.
func (s *Sphere) SpatialPointDistance(point []float64) float64 {
	return norm(sub(point, s.CurCenter)) - s.Radius
}

// Update implements Primitive.
func (s *Sphere) Update(motion Motion) {
	s.CurCenter = motion.Point(s.RefCenter)
}

// CharPartial implements Primitive.
func (s *Sphere) CharPartial(ref bool, chars *PartialChars) {
	c := s.CurCenter
	if ref {
		c = s.RefCenter
	}
	vol := 4.0 / 3.0 * math.Pi * s.Radius * s.Radius * s.Radius
	chars.Volume += vol
	chars.Sx += vol * c[0]
	chars.Sy += vol * c[1]
	chars.Sz += vol * c[2]
	// Euler tensor of a solid sphere about its own center: (1/5) V r^2 on
	// the diagonal (its inertia tensor is (2/5) V r^2 per unit density;
	// the body scales by bulk density when assembling the final tensor).
	i := 0.2 * vol * s.Radius * s.Radius
	chars.Euler[0] += i
	chars.Euler[1] += i
	chars.Euler[2] += i
}
