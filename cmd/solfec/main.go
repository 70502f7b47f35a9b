// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command solfec is the CLI driver harness of spec §6. Building the
// domain itself — the scripting front-end that turns an input file
// into bodies and constraints — is explicitly out of scope (spec §1
// Non-goals); this command instead drives one of a small set of named
// scenarios built directly with package dom/session, mirroring the
// role gofem's main.go plays for a .sim file without inventing an
// input-file format this module does not own.
package main

import (
	"flag"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"

	"github.com/cpmech/solfec/scenario"
	"github.com/cpmech/solfec/session"
	"github.com/cpmech/solfec/slv"
)

func main() {
	failed := false
	defer func() {
		if err := recover(); err != nil {
			failed = true
			if mpi.Rank() == 0 {
				chk.Verbose = true
				for i := 8; i > 3; i-- {
					chk.CallerInfo(i)
				}
				io.PfRed("ERROR: %v\n", err)
			}
		}
		mpi.Stop(false)
		if failed {
			os.Exit(1)
		}
	}()
	mpi.Start(false)

	flag.Parse()
	name := flag.Arg(0)
	if name == "" {
		chk.Panic("please provide a scenario name; available: %v", scenario.Names())
	}
	dirout := io.ArgToString(1, ".")
	key := io.ArgToString(2, name)
	enctype := io.ArgToString(3, "gob")
	tf := 1.0
	if s := io.ArgToString(4, ""); s != "" {
		tf = io.Atof(s)
	}
	h := 1e-3
	if s := io.ArgToString(5, ""); s != "" {
		h = io.Atof(s)
	}
	outInterval := 10 * h
	if s := io.ArgToString(6, ""); s != "" {
		outInterval = io.Atof(s)
	}
	verbose := io.ArgToBool(7, true)

	build, ok := scenario.Lookup(name)
	if !ok {
		chk.Panic("unknown scenario %q; available: %v", name, scenario.Names())
	}

	if mpi.Rank() == 0 && verbose {
		io.PfWhite("\nsolfec -- a multi-body non-smooth contact dynamics engine\n\n")
		io.Pf("running scenario %q to t=%v, h=%v, output every %v\n", name, tf, h, outInterval)
	}

	solver := slv.NewGaussSeidel(slv.DefaultOptions())
	s, err := session.New(session.Config{DirOut: dirout, Key: key, EncType: enctype, Verbose: verbose, EraseOld: true}, solver)
	if err != nil {
		chk.Panic("cannot start session: %v", err)
	}
	build(s)

	if err := s.Run(tf, h, outInterval); err != nil {
		chk.Panic("run failed: %v", err)
	}
}
