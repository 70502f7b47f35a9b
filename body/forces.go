// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package body

import "github.com/cpmech/gosl/fun"

// TimeFunc is the scalar time-series contract applied forces, gravity
// components and constraint targets are expressed against; it is an
// alias of gosl/fun.Func so a series.Series or any other gosl/fun.Func
// value can be plugged in directly without an adapter.
type TimeFunc = fun.Func

// ConstFunc is a TimeFunc with a constant value, for callers that don't
// need a real time series.
type ConstFunc float64

func (c ConstFunc) F(t float64, x []float64) float64 { return float64(c) }

// ForceKind is the bitmask of original_source/bod.h's general_force.kind.
type ForceKind int

const (
	Spatial   ForceKind = 0x01
	Convected ForceKind = 0x02
	Torque    ForceKind = 0x04 // rigid bodies only
	Pressure  ForceKind = 0x08
)

// ForceFunc is a user callback force, matching original_source/bod.h's
// FORCE_FUNC: given the body's configuration and velocity at time t
// with step h, it fills f (spatial force + spatial torque + referential
// torque for RIGID bodies, or the full generalised force otherwise).
type ForceFunc func(conf, velo []float64, t, h float64, f []float64)

// Force is one applied-force record in a body's force list
// (original_source/bod.h's struct general_force, a singly linked list;
// here a plain slice entry on Body.Forces).
type Force struct {
	Kind      ForceKind
	RefPoint  [3]float64
	Direction [3]float64
	Data      TimeFunc // magnitude time series, nil if Func is set
	Func      ForceFunc
	SurfID    int // pressure surface id, only meaningful for Kind==Pressure
}

// ApplyForce appends a new applied force, original_source/bod.h's
// BODY_Apply_Force.
func (b *Body) ApplyForce(kind ForceKind, refPoint, direction [3]float64, data TimeFunc) {
	b.Forces = append(b.Forces, &Force{Kind: kind, RefPoint: refPoint, Direction: direction, Data: data})
}

// ApplyForceFunc appends a user-callback force.
func (b *Body) ApplyForceFunc(kind ForceKind, fn ForceFunc) {
	b.Forces = append(b.Forces, &Force{Kind: kind, Func: fn})
}

// ClearForces removes every applied force, original_source/bod.h's
// BODY_Clear_Forces.
func (b *Body) ClearForces() { b.Forces = nil }

// evalForces accumulates every applied force's contribution into the
// generalised force vector fext (length Dofs), at time t.
func (b *Body) evalForces(t, h float64, fext []float64) {
	for _, f := range b.Forces {
		if f.Func != nil {
			if b.Kind == Rigid {
				// spatial force, spatial torque, referential torque; the
				// spatial torque is pulled back into the body frame.
				tmp := make([]float64, 9)
				f.Func(b.Conf, b.Velo, t, h, tmp)
				torque := matTVec(b.rotation, tmp[3:6])
				for i := 0; i < 3; i++ {
					fext[i] += tmp[i]
					fext[3+i] += torque[i] + tmp[6+i]
				}
				continue
			}
			tmp := make([]float64, b.Dofs)
			f.Func(b.Conf, b.Velo, t, h, tmp)
			for i := range fext {
				fext[i] += tmp[i]
			}
			continue
		}
		mag := 1.0
		if f.Data != nil {
			mag = f.Data.F(t, nil)
		}
		b.accumulatePointForce(f, mag, fext)
	}
}
