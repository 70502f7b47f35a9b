// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scenario

import (
	"math"
	"testing"

	"github.com/cpmech/solfec/body"
	"github.com/cpmech/solfec/con"
	"github.com/cpmech/solfec/session"
	"github.com/cpmech/solfec/slv"
)

func TestRegistryListsAllScenarios(t *testing.T) {
	want := []string{"rigid-pendulum", "sphere-ellipsoid-glance", "stacked-cubes", "two-spheres-free-fall", "velodir-slider"}
	got := Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i, n := range want {
		if got[i] != n {
			t.Fatalf("Names()[%d] = %q, want %q", i, got[i], n)
		}
	}
}

func TestEachScenarioBuildsWithoutPanicking(t *testing.T) {
	for _, name := range Names() {
		name := name
		t.Run(name, func(t *testing.T) {
			s, build := newScenarioSession(t, name)
			defer s.Store.Close()
			build(s)
			if len(s.Domain.Bodies) == 0 {
				t.Fatalf("scenario %q registered no bodies", name)
			}
		})
	}
}

// newScenarioSession opens a fresh session for scenario name and
// returns its builder, so each end-to-end test below can run it
// through session.Run to spec §8's tolerances.
func newScenarioSession(t *testing.T, name string) (*session.Session, Builder) {
	t.Helper()
	dir := t.TempDir()
	solver := slv.NewGaussSeidel(slv.DefaultOptions())
	s, err := session.New(session.Config{DirOut: dir, Key: name, EncType: "gob", EraseOld: true}, solver)
	if err != nil {
		t.Fatalf("session.New failed: %v", err)
	}
	build, ok := Lookup(name)
	if !ok {
		t.Fatalf("Lookup(%q) not found", name)
	}
	return s, build
}

func distance3(a, b []float64) float64 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// TestTwoSpheresFreeFallSettlesUnderGravity is spec §8 scenario 1.
func TestTwoSpheresFreeFallSettlesUnderGravity(t *testing.T) {
	s, build := newScenarioSession(t, "two-spheres-free-fall")
	defer s.Store.Close()
	build(s)

	if err := s.Run(1.0, 1e-3, 0.1); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var totalExternal, totalDissipated float64
	for _, label := range []string{"sphere1", "sphere2"} {
		b := s.Domain.BodyLabels[label]
		if b == nil {
			t.Fatalf("scenario did not register body %q", label)
		}
		if math.Abs(b.Velo[2]) > 1e-2 {
			t.Fatalf("%s: vertical velocity %v exceeds 1e-2 after settling", label, b.Velo[2])
		}
		totalExternal += b.Energy[body.EnergyExternal]
		totalDissipated += b.Energy[body.EnergyContWork] + b.Energy[body.EnergyFricWork]
	}

	foundContact := false
	for _, c := range s.Domain.Constraints {
		if c.Kind != con.Contact {
			continue
		}
		foundContact = true
		if c.Gap < -1e-6 {
			t.Fatalf("contact gap %v is below the -1e-6 floor", c.Gap)
		}
	}
	if !foundContact {
		t.Fatalf("expected at least one settled sphere-floor contact after 1.0s")
	}
	if totalExternal == 0 {
		t.Fatalf("no external work recorded; gravity bookkeeping did not run")
	}
	if rel := math.Abs(totalDissipated-totalExternal) / totalExternal; rel > 0.01 {
		t.Fatalf("contact-work %v does not match external work %v within 1%% (rel err %v)", totalDissipated, totalExternal, rel)
	}
}

// TestRigidPendulumLinkLengthStaysRigid is spec §8 scenario 2: the link
// length must stay within 1e-6 of 1 throughout the whole 10s run, so the
// run is advanced in increments and checked after each one.
func TestRigidPendulumLinkLengthStaysRigid(t *testing.T) {
	s, build := newScenarioSession(t, "rigid-pendulum")
	defer s.Store.Close()
	build(s)

	bob := s.Domain.BodyLabels["bob"]
	if bob == nil {
		t.Fatalf("scenario did not register body %q", "bob")
	}
	anchor := []float64{0, 0, 0}
	attach := []float64{1, 0, 0}

	const dt = 0.5
	for tf := dt; tf <= 10.0+1e-9; tf += dt {
		if err := s.Run(tf, 1e-3, 1.0); err != nil {
			t.Fatalf("Run to t=%v failed: %v", tf, err)
		}
		length := distance3(bob.CurPoint(attach), anchor)
		if length < 1-1e-6 || length > 1+1e-6 {
			t.Fatalf("link length at t=%v is %v, want within 1e-6 of 1", tf, length)
		}
	}
}

// TestVelodirSliderReachesPrescribedPosition is spec §8 scenario 3.
func TestVelodirSliderReachesPrescribedPosition(t *testing.T) {
	s, build := newScenarioSession(t, "velodir-slider")
	defer s.Store.Close()
	build(s)

	cube := s.Domain.BodyLabels["slider"]
	if cube == nil {
		t.Fatalf("scenario did not register body %q", "slider")
	}

	if err := s.Run(2.0, 1e-3, 1.0); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	z := cube.CurPoint([]float64{0, 0, 0})[2]
	if math.Abs(z-0.2) > 1e-6 {
		t.Fatalf("slider master-point z=%v, want 0.2 +/- 1e-6", z)
	}
}

// TestSphereEllipsoidGlanceProducesUnitNormalWithPositiveGap is spec §8
// scenario 4: the run is sampled in increments so the contact interval
// (which opens and closes as the sphere passes) is actually observed.
func TestSphereEllipsoidGlanceProducesUnitNormalWithNonPositiveGap(t *testing.T) {
	s, build := newScenarioSession(t, "sphere-ellipsoid-glance")
	defer s.Store.Close()
	build(s)

	const dt = 0.05
	sawContact := false
	for tf := dt; tf <= 2.0+1e-9; tf += dt {
		if err := s.Run(tf, 1e-3, dt); err != nil {
			t.Fatalf("Run to t=%v failed: %v", tf, err)
		}
		for _, c := range s.Domain.Constraints {
			if c.Kind != con.Contact {
				continue
			}
			sawContact = true
			n := c.Base[0]
			if n[0] <= 0 {
				t.Fatalf("contact normal at t=%v has non-positive x-component: %v", tf, n)
			}
			if nrm := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2]); math.Abs(nrm-1) > 1e-6 {
				t.Fatalf("contact normal at t=%v is not unit length: %v", tf, nrm)
			}
			if c.Gap > 0 {
				t.Fatalf("contact gap at t=%v is positive: %v", tf, c.Gap)
			}
		}
	}
	if !sawContact {
		t.Fatalf("sphere and ellipsoid never made contact over the run")
	}
}

// TestStackedCubesLowestCubeStaysPut is spec §8 scenario 5.
func TestStackedCubesLowestCubeStaysPut(t *testing.T) {
	s, build := newScenarioSession(t, "stacked-cubes")
	defer s.Store.Close()
	build(s)

	lowest := s.Domain.BodyLabels["cube0"]
	if lowest == nil {
		t.Fatalf("scenario did not register body %q", "cube0")
	}
	initialZ := lowest.Conf[11]

	if err := s.Run(5.0, 1e-3, 0.5); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if disp := math.Abs(lowest.Conf[11] - initialZ); disp >= 1e-3 {
		t.Fatalf("lowest cube vertical displacement %v, want < 1e-3", disp)
	}
}
