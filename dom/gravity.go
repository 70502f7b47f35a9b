// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dom

import "github.com/cpmech/solfec/body"

// applyGravity adds the gravitational acceleration (evaluated at
// t+h/2, spec §4.9 phase 4) directly to each non-obstacle body's
// translational velocity DOFs. Gravity is a uniform acceleration field,
// not a generalised force, so it bypasses body.Invvec: every mass
// element of a rigid, pseudo-rigid or finite-element body accelerates
// by the same g regardless of the body's mass or inertia distribution.
// The kinetic energy this adds is booked into the body's EnergyExternal
// counter (spec §3's per-body energy counters), measured directly as
// the before/after KineticEnergy difference rather than an independent
// force-times-velocity estimate, so it stays exact against whatever
// StepEnd/applyReactions later removes.
func (d *Domain) applyGravity(tMid, h float64) {
	g := [3]float64{
		d.Gravity[0].F(tMid, nil),
		d.Gravity[1].F(tMid, nil),
		d.Gravity[2].F(tMid, nil),
	}
	if g[0] == 0 && g[1] == 0 && g[2] == 0 {
		return
	}
	for _, id := range d.bodyOrder {
		b := d.Bodies[id]
		if b.Kind == body.Obstacle {
			continue
		}
		before := b.KineticEnergy()
		switch b.Kind {
		case body.Rigid:
			for i := 0; i < 3; i++ {
				b.Velo[i] += h * g[i]
			}
		case body.PseudoRigid:
			for i := 0; i < 3; i++ {
				b.Velo[9+i] += h * g[i]
			}
		case body.FiniteElement:
			n := b.Dofs / 3
			for node := 0; node < n; node++ {
				for i := 0; i < 3; i++ {
					b.Velo[3*node+i] += h * g[i]
				}
			}
		}
		b.Energy[body.EnergyExternal] += b.KineticEnergy() - before
	}
}
