// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scenario is a small named registry of end-to-end scenes
// (spec §8's worked scenarios), grounded in the factory/registry
// pattern gofem's ele/factory.go establishes (package-level map,
// Register at init, Lookup by name) and reused for package slv. It
// exists purely so cmd/solfec has something concrete to run: building
// a scene from an arbitrary input file is the out-of-scope scripting
// front-end (spec §1 Non-goals).
package scenario

import (
	"sort"

	"github.com/cpmech/solfec/session"
)

// Builder populates a freshly constructed Session with bodies,
// constraints and gravity, ready for Session.Run.
type Builder func(s *session.Session)

var registry = make(map[string]Builder)

// Register adds name to the registry; a duplicate name panics at
// init time, matching ele/factory.go's RegisterEleKind.
func Register(name string, b Builder) {
	if _, ok := registry[name]; ok {
		panic("scenario: duplicate registration of " + name)
	}
	registry[name] = b
}

// Lookup returns the builder registered under name.
func Lookup(name string) (Builder, bool) {
	b, ok := registry[name]
	return b, ok
}

// Names returns every registered scenario name, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register("two-spheres-free-fall", TwoSpheresFreeFall)
	Register("rigid-pendulum", RigidPendulum)
	Register("velodir-slider", VelodirSlider)
	Register("sphere-ellipsoid-glance", SphereEllipsoidGlance)
	Register("stacked-cubes", StackedCubes)
}
