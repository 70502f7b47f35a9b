// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package body

import "github.com/cpmech/gosl/la"

// PSEUDO_RIGID configuration layout: Conf[0:9] is the current
// deformation gradient F (row-major, F[i][j] = Conf[3*i+j]), Conf[9:12]
// is the mass-center position xc. Velo mirrors the same layout with
// dF/dt and the mass-center velocity (original_source/bod.h's PRB
// kind keeps an Euler tensor in ref_tensor rather than an inertia
// tensor, reflecting this richer, F-parametrised configuration).

func prbF(conf []float64) [][]float64 {
	return [][]float64{
		{conf[0], conf[1], conf[2]},
		{conf[3], conf[4], conf[5]},
		{conf[6], conf[7], conf[8]},
	}
}

func prbXc(conf []float64) []float64 { return conf[9:12] }

// prbBuildInverse assembles the 12x12 generalised mass operator from
// the Euler tensor (stored in RefTensor) following the PRB kinetic
// energy form T = 1/2 * tr(Fdot * J * Fdot^T) + 1/2 * m * vc.vc, where
// J is the reference Euler tensor; the corresponding mass operator on
// the 9 F-rate components is block-diagonal in i with each 3x3 block
// equal to J (since the kinetic energy is separable by row i of Fdot).
func (b *Body) prbBuildInverse() {
	n := 12
	b.M = la.MatAlloc(n, n)
	b.Inverse = la.MatAlloc(n, n)
	Jinv := invert3(b.RefTensor)
	for row := 0; row < 3; row++ {
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				b.M[3*row+i][3*row+j] = b.RefTensor[i][j]
				b.Inverse[3*row+i][3*row+j] = Jinv[i][j]
			}
		}
	}
	for i := 0; i < 3; i++ {
		b.M[9+i][9+i] = b.RefMass
		b.Inverse[9+i][9+i] = 1 / b.RefMass
	}
}

func (b *Body) prbCurPoint(X []float64) []float64 {
	relX := sub3(X, b.RefCenter[:])
	return add3(matVec(prbF(b.Conf), relX), prbXc(b.Conf))
}

func (b *Body) prbRefPoint(x []float64) []float64 {
	rel := sub3(x, prbXc(b.Conf))
	Finv := invert3(prbF(b.Conf))
	return add3(matVec(Finv, rel), b.RefCenter[:])
}

func (b *Body) prbCurVector(V []float64) []float64 { return matVec(prbF(b.Conf), V) }
func (b *Body) prbRefVector(v []float64) []float64 { return matVec(invert3(prbF(b.Conf)), v) }

func (b *Body) prbLocalVelo(point []float64, base [][]float64, prevVelo, curVelo []float64) {
	X := b.RefPoint(point)
	relX := sub3(X, b.RefCenter[:])
	Fdot := prbF(b.Velo)
	vc := prbXc(b.Velo)
	spatial := add3(matVec(Fdot, relX), vc)
	for i := 0; i < 3; i++ {
		v := dot3(base[i], spatial)
		curVelo[i] = v
		prevVelo[i] = v
	}
}

func (b *Body) prbGenToLoc(point []float64, base [][]float64) [][]float64 {
	X := b.RefPoint(point)
	relX := sub3(X, b.RefCenter[:])
	H := la.MatAlloc(3, 12)
	for k := 0; k < 3; k++ {
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				H[k][3*i+j] = base[k][i] * relX[j]
			}
		}
		for j := 0; j < 3; j++ {
			H[k][9+j] = base[k][j]
		}
	}
	return H
}

func (b *Body) prbStepBegin(t, h float64) {
	half := h / 2
	for i := 0; i < 12; i++ {
		b.Conf[i] += half * b.Velo[i]
	}
	fext := make([]float64, 12)
	b.evalForces(t, h, fext)
	dv := make([]float64, 12)
	b.Invvec(1, fext, 0, dv)
	for i := 0; i < 12; i++ {
		b.Velo[i] += h * dv[i]
	}
}

func (b *Body) prbStepEnd(t, h float64) {
	half := h / 2
	for i := 0; i < 12; i++ {
		b.Conf[i] += half * b.Velo[i]
	}
}

// accumulatePointForceDeformable lumps a point force's generalised
// contribution. For PSEUDO_RIGID, d(x)/d(F_ij) = relX_j e_i and
// d(x)/d(xc) = I, giving the virtual-work generalised force directly.
// For FINITE_ELEMENT it is lumped onto the nearest mesh node.
func (b *Body) accumulatePointForceDeformable(f *Force, mag float64, fext []float64) {
	dir := scale3(f.Direction[:], mag)
	switch b.Kind {
	case PseudoRigid:
		relX := sub3(f.RefPoint[:], b.RefCenter[:])
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				fext[3*i+j] += dir[i] * relX[j]
			}
		}
		for j := 0; j < 3; j++ {
			fext[9+j] += dir[j]
		}
	case FiniteElement:
		node := b.femNearestNodeIdx(f.RefPoint[:])
		for c := 0; c < 3; c++ {
			fext[3*node+c] += dir[c]
		}
	}
}
