// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package body implements the four kinds of body (obstacle, rigid,
// pseudo-rigid, finite-element) that make up a domain, and the
// per-kind step operators of spec §4.5: initialisation, the two
// half-step updates, motion queries and the generalised-inverse
// contract a constraint solver needs (invvec, gen_to_loc, local_velo).
package body

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/solfec/box"
	"github.com/cpmech/solfec/geom"
)

// Kind identifies the four body kinds of original_source/bod.h's
// "enum {OBS, RIG, PRB, FEM}".
type Kind int

const (
	Obstacle Kind = iota
	Rigid
	PseudoRigid
	FiniteElement
)

func (k Kind) String() string {
	switch k {
	case Obstacle:
		return "OBSTACLE"
	case Rigid:
		return "RIGID"
	case PseudoRigid:
		return "PSEUDO_RIGID"
	case FiniteElement:
		return "FINITE_ELEMENT"
	}
	return "UNKNOWN"
}

// Scheme selects the per-kind time-integration scheme (spec §4.5;
// original_source/bod.h's SCHEME enum, SCH_RIG_POS/NEG/IMP and
// SCH_DEF_EXP/LIM).
type Scheme int

const (
	// SchemeRigidNEW1 favours accuracy with a positive energy drift.
	SchemeRigidNEW1 Scheme = iota
	// SchemeRigidNEW2 is the default: exact momentum conservation, a
	// small negative energy drift.
	SchemeRigidNEW2
	// SchemeRigidNEW3 is semi-implicit: no energy drift, exact momentum
	// conservation, the Koziara-Bicanic rotation integrator.
	SchemeRigidNEW3
	// SchemeDeformableExplicit is the default PRB/FEM scheme.
	SchemeDeformableExplicit
	// SchemeDeformableLinImp is the Zhang-Skeel cheap implicit symplectic
	// scheme for PRB/FEM bodies.
	SchemeDeformableLinImp
)

// Flags is the bitmask of original_source/bod.h's BODY_FLAGS.
type Flags uint32

const (
	DetectSelfContact Flags = 0x0001
	CheckFracture     Flags = 0x0002
	Parent            Flags = 0x0010
	Child             Flags = 0x0020
	ChildUpdated      Flags = 0x0040
	Absent            Flags = 0x0080

	// PermanentFlagMask is the subset of Flags migrated across a domain
	// partition boundary (spec §5); the rest is filtered out, matching
	// BODY_PERMANENT_FLAGS.
	PermanentFlagMask = DetectSelfContact | CheckFracture
)

// PermanentFlags returns the flags surviving a parent/child migration.
func (f Flags) PermanentFlags() Flags { return f & PermanentFlagMask }

// energy accumulator indices, original_source/bod.h's KINETIC/EXTERNAL/
// CONTWORK/FRICWORK/INTERNAL.
const (
	EnergyKinetic = iota
	EnergyExternal
	EnergyContWork
	EnergyFricWork
	EnergyInternal
	energySize
)

// Material carries the few bulk properties the step operators need;
// richer constitutive behaviour (PRB/FEM stress response) is out of
// scope (spec §1 Non-goals: "new material model design").
type Material struct {
	Density     float64
	Young       float64
	Poisson     float64
	FrictionMax float64 // default Coulomb coefficient for surfaces of this body
}

// Body is a single rigid, pseudo-rigid, finite-element or obstacle
// body, mirroring original_source/bod.h's struct general_body.
type Body struct {
	ID    int
	Kind  Kind
	Label string
	Flags Flags

	Material Material

	RefMass   float64
	RefVolume float64
	RefCenter [3]float64
	// RefTensor is the inertia tensor (RIGID) or Euler tensor
	// (PSEUDO_RIGID), stored dense 3x3; unused by FINITE_ELEMENT, whose
	// mass operator M is assembled from the mesh.
	RefTensor [][]float64

	// Conf and Velo are the generalised configuration and velocity;
	// their length is Dofs.
	Conf []float64
	Velo []float64
	Dofs int

	Shape geom.Primitive
	SGPs  []*box.Box // one broad-phase box per detectable sub-shape

	Extents [6]float64

	Scheme  Scheme
	Inverse [][]float64 // generalised inverse inertia operator M⁻¹
	M       [][]float64 // generalised mass/inertia operator
	Damping float64

	Forces []*Force

	// Constraints is the set of constraint ids currently touching this
	// body (original_source/bod.h's SET *con), owned by dom.Domain and
	// mirrored here for local queries.
	Constraints map[int]bool

	Energy [energySize]float64

	CritStep0 float64

	// rotation is the current orientation of a RIGID body (a 3x3 matrix);
	// Conf[0:9] holds a row-major copy of it, refreshed at the end of
	// every step (see rigid.go).
	rotation [][]float64

	// prevOmega is the referential angular velocity at the previous
	// step_begin call, used by the NEW2 mid-point rotation update.
	prevOmega []float64

	// prbF is not read by the step operators: the PSEUDO_RIGID
	// deformation gradient lives in Conf[0:9]; see prb.go.
	prbF [][]float64
}

// NewObstacle creates a fixed OBSTACLE body: it never integrates, but
// still participates in contact detection and the box index.
func NewObstacle(shape geom.Primitive, label string) *Body {
	return &Body{
		Kind:        Obstacle,
		Label:       label,
		Shape:       shape,
		Dofs:        0,
		Constraints: make(map[int]bool),
	}
}

// NewRigid creates a RIGID body: Dofs = 6 (linear velocity + angular
// velocity, expressed about the mass center, following
// original_source/bod.h's rigid configuration layout).
func NewRigid(shape geom.Primitive, mat Material, label string, flags Flags, scheme Scheme) *Body {
	b := &Body{
		Kind:        Rigid,
		Label:       label,
		Flags:       flags,
		Material:    mat,
		Shape:       shape,
		Dofs:        6,
		Scheme:      scheme,
		Conf:        make([]float64, 12), // rotation(9) + position(3)
		Velo:        make([]float64, 6),
		Constraints: make(map[int]bool),
		rotation:    identity3(),
		prevOmega:   []float64{0, 0, 0},
	}
	b.Conf[0], b.Conf[4], b.Conf[8] = 1, 1, 1 // identity rotation
	b.computeChars()
	return b
}

// NewPseudoRigid creates a PSEUDO_RIGID body: Dofs = 12 (a general
// linear deformation gradient plus translation), following
// original_source/bod.h's PRB configuration layout.
func NewPseudoRigid(shape geom.Primitive, mat Material, label string, flags Flags) *Body {
	b := &Body{
		Kind:        PseudoRigid,
		Label:       label,
		Flags:       flags,
		Material:    mat,
		Shape:       shape,
		Dofs:        12,
		Scheme:      SchemeDeformableExplicit,
		Conf:        make([]float64, 12),
		Velo:        make([]float64, 12),
		Constraints: make(map[int]bool),
	}
	b.Conf[0], b.Conf[4], b.Conf[8] = 1, 1, 1 // identity deformation gradient
	b.computeChars()
	return b
}

// NewFiniteElement creates a FINITE_ELEMENT body over a background
// mesh; Dofs = 3 * number of nodes.
func NewFiniteElement(mesh *geom.Mesh, mat Material, label string, flags Flags) *Body {
	n := len(mesh.RefNodes)
	b := &Body{
		Kind:        FiniteElement,
		Label:       label,
		Flags:       flags,
		Material:    mat,
		Shape:       mesh,
		Dofs:        3 * n,
		Scheme:      SchemeDeformableExplicit,
		Conf:        make([]float64, 3*n),
		Velo:        make([]float64, 3*n),
		Constraints: make(map[int]bool),
	}
	for i, p := range mesh.RefNodes {
		b.Conf[3*i], b.Conf[3*i+1], b.Conf[3*i+2] = p[0], p[1], p[2]
	}
	b.computeChars()
	return b
}

// computeChars derives RefMass/RefVolume/RefCenter/RefTensor from the
// shape's accumulated partial characteristics (spec §4.1/§4.5),
// following original_source/bod.h's "overwrite mass and volume
// characteristics" contract, but computed rather than overwritten by
// default.
func (b *Body) computeChars() {
	var chars geom.PartialChars
	b.Shape.CharPartial(true, &chars)
	b.RefVolume = chars.Volume
	b.RefMass = chars.Volume * b.Material.Density
	c := chars.Center()
	b.RefCenter = [3]float64{c[0], c[1], c[2]}
	b.RefTensor = eulerToInertia(chars.Euler, b.Material.Density, b.Kind)
	if b.Kind == Rigid || b.Kind == PseudoRigid {
		// Conf[9:12] is the mass-center position slot (rigid.go/prb.go);
		// it must start at the shape's actual placement, not the zero
		// value, or CurPoint/Shape.Update would place the body at the
		// origin regardless of where its geometry was actually built.
		b.Conf[9], b.Conf[10], b.Conf[11] = c[0], c[1], c[2]
	}
}

// eulerToInertia converts the six accumulated Euler-tensor entries
// (xx,yy,zz,xy,yz,zx, already volume-integrated) into a dense 3x3
// tensor, scaled by density for RIGID (a true inertia tensor) and left
// as a pure geometric Euler tensor for PSEUDO_RIGID (original_source/
// bod.h: "RIG => Inertia tensor, PRB => Euler tensor").
func eulerToInertia(e [6]float64, density float64, k Kind) [][]float64 {
	xx, yy, zz, xy, yz, zx := e[0], e[1], e[2], e[3], e[4], e[5]
	t := la.MatAlloc(3, 3)
	if k == Rigid {
		t[0][0], t[1][1], t[2][2] = yy+zz, xx+zz, xx+yy
		t[0][1], t[1][0] = -xy, -xy
		t[1][2], t[2][1] = -yz, -yz
		t[2][0], t[0][2] = -zx, -zx
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				t[i][j] *= density
			}
		}
	} else {
		t[0][0], t[1][1], t[2][2] = xx, yy, zz
		t[0][1], t[1][0] = xy, xy
		t[1][2], t[2][1] = yz, yz
		t[2][0], t[0][2] = zx, zx
	}
	return t
}

func identity3() [][]float64 {
	m := la.MatAlloc(3, 3)
	m[0][0], m[1][1], m[2][2] = 1, 1, 1
	return m
}

// ConfSize returns the number of generalised coordinates.
func (b *Body) ConfSize() int { return len(b.Conf) }

// AddSGP registers a broad-phase box for one detectable sub-shape of
// this body (an element of a FINITE_ELEMENT mesh, or the whole shape
// for the other kinds).
func (b *Body) AddSGP(bx *box.Box) { b.SGPs = append(b.SGPs, bx) }

// UpdateExtents pulls the shape's current copy forward through the
// body's motion (geom.Primitive.Update, implemented here via CurPoint/
// CurVector so body.Body satisfies geom.Motion without either package
// importing the other's concrete type), then refreshes Extents and
// every SGP's box from the moved shape (original_source/bod.h's
// BODY_Update_Extents).
func (b *Body) UpdateExtents() {
	b.Shape.Update(bodyMotion{b})
	b.Extents = b.Shape.Extents()
	for _, bx := range b.SGPs {
		bx.Update(b.Extents)
	}
}

// bodyMotion adapts Body's CurPoint/CurVector to geom.Motion's Point/
// Vector method names.
type bodyMotion struct{ b *Body }

func (m bodyMotion) Point(X []float64) []float64     { return m.b.CurPoint(X) }
func (m bodyMotion) Vector(X, V []float64) []float64 { return m.b.CurVector(X, V) }

// OverwriteChars lets a caller (e.g. a material-calibration front end)
// replace the computed mass/volume/center/tensor directly,
// original_source/bod.h's BODY_Overwrite_Chars.
func (b *Body) OverwriteChars(mass, volume float64, center [3]float64, tensor [][]float64) {
	if mass <= 0 {
		chk.Panic("body: overwrite mass must be positive, got %v", mass)
	}
	b.RefMass, b.RefVolume, b.RefCenter, b.RefTensor = mass, volume, center, tensor
}
