// Copyright 2026 The Gofd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pdelog provides the driver's progress reporting. It mirrors the
// teacher's fem.Main.Run convention of terse, colour-coded progress lines
// printed through gosl/io rather than the standard library's log package.
package pdelog

import "github.com/cpmech/gosl/io"

// Logger receives progress notifications from the time-stepping driver.
// The zero value of Noop satisfies Logger and prints nothing.
type Logger interface {
	Step(stepIdx int, t, dt float64)
	Done(steps int, t float64)
	Failed(err error)
}

// Noop is a Logger that discards everything; it is the Config default.
type Noop struct{}

func (Noop) Step(int, float64, float64) {}
func (Noop) Done(int, float64)          {}
func (Noop) Failed(error)               {}

// Console prints one line per step, coloured the way the teacher's FEM
// driver colours success/failure, at a density appropriate for a solver
// that may take thousands of steps: one line on completion or failure,
// only per-step when Verbose is set.
type Console struct {
	Verbose bool
}

func (c Console) Step(stepIdx int, t, dt float64) {
	if c.Verbose {
		io.Pf("> step %4d  t=%12.6f  dt=%12.6e\n", stepIdx, t, dt)
	}
}

func (c Console) Done(steps int, t float64) {
	io.PfGreen("> done: %d steps, final t=%.6f\n", steps, t)
}

func (c Console) Failed(err error) {
	io.PfRed("> failed: %v\n", err)
}
