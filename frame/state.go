// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"regexp"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/solfec/body"
	"github.com/cpmech/solfec/dom"
)

// ApplyOptions configures ApplyState's body-matching and remap rules
// (spec §6 "State initialisation from an existing store").
type ApplyOptions struct {
	// LabelPatterns additionally matches live bodies by label against
	// these regular expressions, on top of the default id match.
	LabelPatterns []*regexp.Regexp

	// AllowRigidToFEMRemap permits a RIGID record to initialise a
	// FINITE_ELEMENT body: the record's 12-element rotation+position
	// and 6-element velocity are mapped through remap rather than
	// copied verbatim (spec §6: "via the body's initial-rigid-motion
	// operator").
	AllowRigidToFEMRemap bool

	// Remap performs that rigid->FEM basis change; required whenever
	// AllowRigidToFEMRemap is set and such a mismatch is encountered.
	Remap func(target *body.Body, rigidConf, rigidVelo []float64) (conf, velo []float64)
}

// ApplyState overwrites every body in d found in fr.Bods — matched by
// id, or by label against opts.LabelPatterns — with that record's
// configuration, velocity and energy (spec §6). A record whose body is
// not present in d is silently skipped (the store itself already holds
// the full frame in memory, so unlike original_source/dio.c's PBF
// stream there is no byte-offset bookkeeping to advance past it).
// A Kind or Dofs mismatch is an error unless it is exactly the
// RIGID-record-into-FINITE_ELEMENT-body case and opts allows the remap.
func ApplyState(d *dom.Domain, fr Frame, opts ApplyOptions) error {
	for _, rec := range fr.Bods {
		target := matchBody(d, rec, opts.LabelPatterns)
		if target == nil {
			continue
		}
		if rec.Kind != target.Kind || len(rec.Conf) != target.Dofs {
			if rec.Kind == body.Rigid && target.Kind == body.FiniteElement && opts.AllowRigidToFEMRemap {
				if opts.Remap == nil {
					return chk.Err("frame: rigid-to-FEM remap requested for body %d but no Remap function was given", target.ID)
				}
				conf, velo := opts.Remap(target, rec.Conf, rec.Velo)
				copy(target.Conf, conf)
				copy(target.Velo, velo)
				copyEnergy(target, rec.Energy)
				continue
			}
			return chk.Err("frame: body %d kind/dof mismatch: record is %v/%d dofs, live body is %v/%d dofs",
				target.ID, rec.Kind, len(rec.Conf), target.Kind, target.Dofs)
		}
		copy(target.Conf, rec.Conf)
		copy(target.Velo, rec.Velo)
		copyEnergy(target, rec.Energy)
	}
	return nil
}

func matchBody(d *dom.Domain, rec BodyRecord, patterns []*regexp.Regexp) *body.Body {
	if b, ok := d.Bodies[rec.ID]; ok {
		return b
	}
	if rec.Label == "" {
		return nil
	}
	for _, pat := range patterns {
		if pat.MatchString(rec.Label) {
			if b, ok := d.BodyLabels[rec.Label]; ok {
				return b
			}
		}
	}
	return nil
}

func copyEnergy(b *body.Body, energy []float64) {
	n := len(energy)
	if n > len(b.Energy) {
		n = len(b.Energy)
	}
	for i := 0; i < n; i++ {
		b.Energy[i] = energy[i]
	}
}
