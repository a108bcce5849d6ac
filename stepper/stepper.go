// Copyright 2026 The Gofd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stepper implements layer L4: the backward time loop that
// dispatches one step at a time to a pluggable Scheme under an arbitrary
// step-size policy, per spec.md §4.7. It also defines the Scheme
// extension point (Design Note "Scheme extension") that scheme1d and
// schemend implement.
package stepper

import (
	"math"

	"github.com/cpmech/gofd/boundary"
	"github.com/cpmech/gofd/coeff"
	"github.com/cpmech/gofd/grid"
	"github.com/cpmech/gofd/pdeerr"
	"github.com/cpmech/gofd/pdelog"
	"github.com/cpmech/gofd/pdetensor"
)

// Evaluators bundles the three coefficient callables; any may be nil,
// meaning that whole term is absent (zero).
type Evaluators struct {
	Second coeff.SecondOrderFn
	First  coeff.FirstOrderFn
	Zeroth coeff.ZerothOrderFn
}

// Scheme is the single extension point every time-marching scheme
// implements: given the current (t, dt, grid, V) plus the coefficient
// evaluators and boundary conditions, advance one step and return the new
// (t', grid', V'). The driver treats it as a black box.
type Scheme interface {
	Step(t, dt float64, g grid.Grid, v *pdetensor.Tensor, ev Evaluators, bcs []boundary.Condition) (tNext float64, gNext grid.Grid, vNext *pdetensor.Tensor, err error)
}

// TimeStep collapses the three mutually exclusive step-size specifiers of
// spec.md §4.7/§6 into one internal primitive. Exactly one of NumSteps,
// Fixed or Func should be set; NumSteps takes priority if >0, else Fixed
// if >0, else Func.
type TimeStep struct {
	NumSteps int
	Fixed    float64
	Func     func(t float64) float64
}

func (ts TimeStep) next(t, start, end float64) float64 {
	switch {
	case ts.NumSteps > 0:
		return math.Abs((end - start) / float64(ts.NumSteps))
	case ts.Fixed > 0:
		return ts.Fixed
	case ts.Func != nil:
		return math.Abs(ts.Func(t))
	default:
		return 0
	}
}

// Config bundles everything StepBack needs to run the backward time loop.
type Config struct {
	StartTime, EndTime float64
	Grid               grid.Grid
	Values             *pdetensor.Tensor
	Evaluators         Evaluators
	Boundary           []boundary.Condition // one per axis
	TimeStep           TimeStep
	Scheme             Scheme
	Logger             pdelog.Logger // optional; defaults to pdelog.Noop{}
	CheckFinite        bool          // optional NumericalInstability diagnostic
	Tolerance          float64       // optional; defaults to 1e-9*max(1, |EndTime-StartTime|)
}

// Result is what StepBack returns: the final value grid, the (possibly
// evolved) coordinate grid, the final time reached, and the step count.
type Result struct {
	Values *pdetensor.Tensor
	Grid   grid.Grid
	Time   float64
	Steps  int
}

// StepBack runs the backward (or forward, if EndTime>StartTime) time loop
// of spec.md §4.7, dispatching cfg.Scheme one step at a time until the end
// time is reached to within tolerance. It guarantees forward progress: a
// step-size policy that yields a zero-magnitude delta is a fatal
// NoProgress error.
func StepBack(cfg Config) (Result, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = pdelog.Noop{}
	}
	tol := cfg.Tolerance
	if tol == 0 {
		tol = 1e-9 * math.Max(1, math.Abs(cfg.EndTime-cfg.StartTime))
	}

	sign := 1.0
	if cfg.EndTime < cfg.StartTime {
		sign = -1.0
	}

	t := cfg.StartTime
	g := cfg.Grid
	v := cfg.Values
	steps := 0

	for {
		if math.Abs(t-cfg.EndTime) <= tol {
			break
		}
		remaining := cfg.EndTime - t
		raw := cfg.TimeStep.next(t, cfg.StartTime, cfg.EndTime)
		dt := sign * math.Abs(raw)
		if math.Abs(dt) > math.Abs(remaining) {
			dt = remaining
		}
		if dt == 0 {
			err := pdeerr.New(pdeerr.NoProgress, "step-size policy returned zero or sign-inconsistent delta at t=%v", t)
			logger.Failed(err)
			return Result{}, err
		}

		tNext, gNext, vNext, err := cfg.Scheme.Step(t, dt, g, v, cfg.Evaluators, cfg.Boundary)
		if err != nil {
			logger.Failed(err)
			return Result{}, err
		}

		if cfg.CheckFinite && !vNext.AllFinite() {
			err := pdeerr.New(pdeerr.NumericalInstability, "non-finite values detected after step at t=%v", tNext)
			logger.Failed(err)
			return Result{}, err
		}

		t, g, v = tNext, gNext, vNext
		steps++
		logger.Step(steps, t, dt)
	}

	logger.Done(steps, t)
	return Result{Values: v, Grid: g, Time: t, Steps: steps}, nil
}
