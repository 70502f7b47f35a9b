// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scenario

import (
	"github.com/cpmech/solfec/body"
	"github.com/cpmech/solfec/dom"
	"github.com/cpmech/solfec/geom"
	"github.com/cpmech/solfec/series"
	"github.com/cpmech/solfec/session"
)

func box(cx, cy, cz, hx, hy, hz float64, surf int) *geom.Convex {
	v := [][]float64{
		{cx - hx, cy - hy, cz - hz}, {cx + hx, cy - hy, cz - hz}, {cx + hx, cy + hy, cz - hz}, {cx - hx, cy + hy, cz - hz},
		{cx - hx, cy - hy, cz + hz}, {cx + hx, cy - hy, cz + hz}, {cx + hx, cy + hy, cz + hz}, {cx - hx, cy + hy, cz + hz},
	}
	faces := [][]int{
		{0, 3, 2, 1}, {4, 5, 6, 7}, {0, 1, 5, 4}, {1, 2, 6, 5}, {2, 3, 7, 6}, {3, 0, 4, 7},
	}
	return geom.NewConvex(v, faces, []int{surf, surf, surf, surf, surf, surf})
}

func withGravity(s *session.Session, gz float64) {
	s.Domain.Gravity[2] = series.Constant(gz)
}

// TwoSpheresFreeFall is spec §8 scenario 1: two unit-mass, radius-0.5
// spheres drop onto a fixed plane (a thin flat obstacle box) under
// gravity (0,0,-9.81) with Coulomb friction 0.3.
func TwoSpheresFreeFall(s *session.Session) {
	withGravity(s, -9.81)
	floorSurf, sphereSurf := 1, 2
	s.AddBody(body.NewObstacle(box(0, 0, -0.1, 5, 5, 0.1, floorSurf), "floor"), "floor")
	s.Domain.SetSurfacePair(floorSurf, sphereSurf, dom.SurfaceMaterial{Friction: 0.3})
	s.AddBody(body.NewRigid(geom.NewSphere([]float64{-1, 0, 2.5}, 0.5, sphereSurf), body.Material{Density: 1.0 / ((4.0 / 3.0) * 3.141592653589793 * 0.125)}, "sphere1", 0, body.SchemeRigidNEW2), "sphere1")
	s.AddBody(body.NewRigid(geom.NewSphere([]float64{1, 0, 2.0}, 0.5, sphereSurf), body.Material{Density: 1.0 / ((4.0 / 3.0) * 3.141592653589793 * 0.125)}, "sphere2", 0, body.SchemeRigidNEW2), "sphere2")
}

// RigidPendulum is spec §8 scenario 2: a mass centred at (1.05,0,0)
// linked by a rigid link of length 1 to the fixed origin, under
// gravity. The link attaches at the bob's near face (1,0,0), not its
// mass centre, so gravity exerts a torque about the pivot and the bob
// actually swings rather than just spinning in place.
func RigidPendulum(s *session.Session) {
	withGravity(s, -9.81)
	bob := s.AddBody(body.NewRigid(box(1.05, 0, 0, 0.05, 0.05, 0.05, 1), body.Material{Density: 8000}, "bob", 0, body.SchemeRigidNEW3), "bob")
	s.Domain.PutRigidLink(nil, bob, [3]float64{0, 0, 0}, [3]float64{1, 0, 0}, 1e9)
}

// VelodirSlider is spec §8 scenario 3: a cube with a VELODIR
// constraint holding u_z = 0.1 for t in [0,2].
func VelodirSlider(s *session.Session) {
	cube := s.AddBody(body.NewRigid(box(0, 0, 0, 0.5, 0.5, 0.5, 1), body.Material{Density: 1000}, "slider", 0, body.SchemeRigidNEW2), "slider")
	s.Domain.SetVelocity(cube, [3]float64{0, 0, 0}, [3]float64{0, 0, 1}, series.New([]float64{0, 2}, []float64{0.1, 0.1}))
}

// SphereEllipsoidGlance is spec §8 scenario 4: a radius-0.2 sphere
// moving at (1,0,0) glances off an ellipsoid of scales (0.5,0.3,0.3)
// at rest.
func SphereEllipsoidGlance(s *session.Session) {
	sph := s.AddBody(body.NewRigid(geom.NewSphere([]float64{-1, 0.3, 0}, 0.2, 1), body.Material{Density: 1000}, "sphere", 0, body.SchemeRigidNEW2), "sphere")
	sph.Velo[0] = 1
	s.AddBody(body.NewObstacle(geom.NewEllipsoid([]float64{0, 0, 0}, []float64{0.5, 0.3, 0.3}, 2), "ellipsoid"), "ellipsoid")
}

// StackedCubes is spec §8 scenario 5: 10 unit cubes stacked under
// gravity, resting on a fixed floor.
func StackedCubes(s *session.Session) {
	withGravity(s, -9.81)
	s.AddBody(body.NewObstacle(box(0, 0, -0.1, 5, 5, 0.1, 1), "floor"), "floor")
	for i := 0; i < 10; i++ {
		z := 0.5 + float64(i)
		label := "cube" + string(rune('0'+i))
		s.AddBody(body.NewRigid(box(0, 0, z, 0.5, 0.5, 0.5, 2), body.Material{Density: 1000}, label, 0, body.SchemeRigidNEW2), label)
	}
}
