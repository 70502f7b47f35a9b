// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package body

import (
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/solfec/geom"
)

// FINITE_ELEMENT configuration layout: Conf and Velo are the flattened
// (3*nnode) nodal positions and velocities of the background mesh
// (original_source/bod.h's "FEM field variables at mesh nodes").
// Motion queries at an arbitrary referential point use a nearest-node,
// locally-rigid approximation (spec's explicit scheme, §4.5, does not
// require full shape-function interpolation at contact points; the
// mesh's own element convex hulls already carry the exact boundary
// geometry for detection).

// femBuildInverse assembles a lumped-mass generalised inverse operator:
// each node carries mass/nnode of the body's reference mass along its
// three translational DOFs (a standard row-sum lumping, matching the
// explicit scheme's need for a trivially invertible mass operator).
func (b *Body) femBuildInverse() {
	n := b.Dofs
	nnode := n / 3
	b.M = la.MatAlloc(n, n)
	b.Inverse = la.MatAlloc(n, n)
	if nnode == 0 || b.RefMass <= 0 {
		return
	}
	nodalMass := b.RefMass / float64(nnode)
	for i := 0; i < n; i++ {
		b.M[i][i] = nodalMass
		b.Inverse[i][i] = 1 / nodalMass
	}
}

func (b *Body) femNearestNodeIdx(X []float64) int {
	mesh, ok := b.Shape.(interface {
		NearestNode(point []float64) int
	})
	if !ok {
		return 0
	}
	return mesh.NearestNode(X)
}

func (b *Body) femRefNodes() [][]float64 {
	if mesh, ok := b.Shape.(*geom.Mesh); ok {
		return mesh.RefNodes
	}
	return nil
}

func (b *Body) femCurPoint(X []float64) []float64 {
	i := b.femNearestNodeIdx(X)
	refNode := []float64{X[0], X[1], X[2]} // fallback if reference lookup unavailable
	if rn := b.femRefNodes(); rn != nil && i < len(rn) {
		refNode = rn[i]
	}
	curNode := []float64{b.Conf[3*i], b.Conf[3*i+1], b.Conf[3*i+2]}
	disp := sub3(refNode, X)
	return sub3(curNode, disp) // curNode - (refNode - X) = curNode + (X - refNode)
}

func (b *Body) femRefPoint(x []float64) []float64 {
	i := b.femNearestNodeIdx(x)
	curNode := []float64{b.Conf[3*i], b.Conf[3*i+1], b.Conf[3*i+2]}
	disp := sub3(x, curNode)
	refNode := []float64{x[0], x[1], x[2]}
	if rn := b.femRefNodes(); rn != nil && i < len(rn) {
		refNode = rn[i]
	}
	return add3(refNode, disp)
}

func (b *Body) femLocalVelo(point []float64, base [][]float64, prevVelo, curVelo []float64) {
	i := b.femNearestNodeIdx(point)
	v := []float64{b.Velo[3*i], b.Velo[3*i+1], b.Velo[3*i+2]}
	for k := 0; k < 3; k++ {
		curVelo[k] = dot3(base[k], v)
		prevVelo[k] = curVelo[k]
	}
}

func (b *Body) femGenToLoc(point []float64, base [][]float64) [][]float64 {
	i := b.femNearestNodeIdx(point)
	H := la.MatAlloc(3, b.Dofs)
	for k := 0; k < 3; k++ {
		for j := 0; j < 3; j++ {
			H[k][3*i+j] = base[k][j]
		}
	}
	return H
}

func (b *Body) femStepBegin(t, h float64) {
	half := h / 2
	for i := range b.Conf {
		b.Conf[i] += half * b.Velo[i]
	}
	fext := make([]float64, b.Dofs)
	b.evalForces(t, h, fext)
	dv := make([]float64, b.Dofs)
	b.Invvec(1, fext, 0, dv)
	for i := range b.Velo {
		b.Velo[i] += h * dv[i]
	}
}

func (b *Body) femStepEnd(t, h float64) {
	half := h / 2
	for i := range b.Conf {
		b.Conf[i] += half * b.Velo[i]
	}
}
