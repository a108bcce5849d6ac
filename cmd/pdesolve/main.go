// Copyright 2026 The Gofd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command pdesolve runs one of the worked scenarios of spec.md §8 end to
// end and prints the result, mirroring the teacher's flag-driven,
// io.Pf-reporting main.go.
package main

import (
	"flag"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/gofd/boundary"
	"github.com/cpmech/gofd/grid"
	"github.com/cpmech/gofd/payoff"
	"github.com/cpmech/gofd/pdelog"
	"github.com/cpmech/gofd/scheme1d"
	"github.com/cpmech/gofd/stepper"
)

func main() {
	scenario := flag.String("scenario", "heat", "scenario to run: heat | call")
	steps := flag.Int("steps", 100, "number of time steps")
	verbose := flag.Bool("verbose", false, "print per-step progress")
	flag.Parse()

	io.PfWhite("\npdesolve -- finite-difference parabolic PDE solver core\n\n")

	switch *scenario {
	case "heat":
		runHeat(*steps, *verbose)
	case "call":
		runCall(*steps, *verbose)
	default:
		chk.Panic("unknown scenario %q (want heat or call)", *scenario)
	}
}

func runHeat(steps int, verbose bool) {
	g := grid.Grid{Axes: []grid.Axis{grid.Uniform(0, math.Pi, 101)}}
	second, first, zeroth := payoff.HeatCoefficients()
	v := payoff.HeatSineInitial(g)

	res, err := stepper.StepBack(stepper.Config{
		StartTime:  0,
		EndTime:    0.1,
		Grid:       g,
		Values:     v,
		Evaluators: stepper.Evaluators{Second: second, First: first, Zeroth: zeroth},
		Boundary:   []boundary.Condition{payoff.ZeroDirichlet()},
		TimeStep:   stepper.TimeStep{NumSteps: steps},
		Scheme:     scheme1d.CrankNicolson{},
		Logger:     pdelog.Console{Verbose: verbose},
	})
	if err != nil {
		chk.Panic("heat scenario failed: %v", err)
	}

	axis := res.Grid.Axes[0]
	maxErr := 0.0
	for i, x := range axis.X {
		got := res.Values.At(i)
		want := payoff.HeatExact(x, res.Time)
		if d := math.Abs(got - want); d > maxErr {
			maxErr = d
		}
	}
	io.Pf("heat equation: %d steps, t=%.4f, max-abs-error=%.3e\n", res.Steps, res.Time, maxErr)
}

func runCall(steps int, verbose bool) {
	const (
		strike   = 100.0
		r        = 0.05
		sigma    = 0.2
		maturity = 1.0
	)
	g := grid.Grid{Axes: []grid.Axis{grid.Uniform(0, 300, 301)}}
	second, first, zeroth := payoff.BlackScholesCoefficients(sigma, r)
	v := payoff.EuropeanCallTerminal(g, strike)

	res, err := stepper.StepBack(stepper.Config{
		StartTime:  maturity,
		EndTime:    0,
		Grid:       g,
		Values:     v,
		Evaluators: stepper.Evaluators{Second: second, First: first, Zeroth: zeroth},
		Boundary:   []boundary.Condition{payoff.EuropeanCallBoundary(strike, r, maturity)},
		TimeStep:   stepper.TimeStep{NumSteps: steps},
		Scheme:     &scheme1d.OscillationDampedCN{},
		Logger:     pdelog.Console{Verbose: verbose},
	})
	if err != nil {
		chk.Panic("call scenario failed: %v", err)
	}

	axis := res.Grid.Axes[0]
	at100 := 0
	for i, s := range axis.X {
		if math.Abs(s-strike) < math.Abs(axis.X[at100]-strike) {
			at100 = i
		}
	}
	price := res.Values.At(at100)
	exact := payoff.BlackScholesCall(strike, strike, r, sigma, maturity)
	io.Pf("european call: %d steps, price(S=100)=%.4f, closed-form=%.4f\n", res.Steps, price, exact)
}
