// Copyright 2026 The Gofd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package payoff

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/gofd/boundary"
	"github.com/cpmech/gofd/grid"
	"github.com/cpmech/gofd/scheme1d"
	"github.com/cpmech/gofd/schemend"
	"github.com/cpmech/gofd/stepper"
)

func TestHeatEquationEndToEnd(tst *testing.T) {
	chk.PrintTitle("HeatEquationEndToEnd. Crank-Nicolson tracks the closed-form e^-t sin(x) solution")
	g := grid.Grid{Axes: []grid.Axis{grid.Uniform(0, math.Pi, 81)}}
	second, first, zeroth := HeatCoefficients()
	v := HeatSineInitial(g)

	res, err := stepper.StepBack(stepper.Config{
		StartTime: 0, EndTime: 0.1,
		Grid:       g,
		Values:     v,
		Evaluators: stepper.Evaluators{Second: second, First: first, Zeroth: zeroth},
		Boundary:   []boundary.Condition{ZeroDirichlet()},
		TimeStep:   stepper.TimeStep{NumSteps: 200},
		Scheme:     scheme1d.CrankNicolson{},
	})
	if err != nil {
		tst.Fatal(err)
	}
	var maxErr float64
	for i, x := range res.Grid.Axes[0].X {
		if d := math.Abs(res.Values.At(i) - HeatExact(x, res.Time)); d > maxErr {
			maxErr = d
		}
	}
	if maxErr > 1e-3 {
		tst.Fatalf("max-abs-error %v exceeds Crank-Nicolson's expected accuracy", maxErr)
	}
}

func TestEuropeanCallEndToEnd(tst *testing.T) {
	chk.PrintTitle("EuropeanCallEndToEnd. the oscillation-damped scheme recovers the Black-Scholes closed form")
	const (
		strike   = 100.0
		r        = 0.05
		sigma    = 0.2
		maturity = 1.0
	)
	g := grid.Grid{Axes: []grid.Axis{grid.Concentrated(0, 400, strike, 161, 50)}}
	second, first, zeroth := BlackScholesCoefficients(sigma, r)
	v := EuropeanCallTerminal(g, strike)

	res, err := stepper.StepBack(stepper.Config{
		StartTime: maturity, EndTime: 0,
		Grid:       g,
		Values:     v,
		Evaluators: stepper.Evaluators{Second: second, First: first, Zeroth: zeroth},
		Boundary:   []boundary.Condition{EuropeanCallBoundary(strike, r, maturity)},
		TimeStep:   stepper.TimeStep{NumSteps: 200},
		Scheme:     &scheme1d.OscillationDampedCN{NumExtrapSteps: 4},
	})
	if err != nil {
		tst.Fatal(err)
	}
	at100 := 0
	for i, s := range res.Grid.Axes[0].X {
		if math.Abs(s-strike) < math.Abs(res.Grid.Axes[0].X[at100]-strike) {
			at100 = i
		}
	}
	got := res.Values.At(at100)
	want := BlackScholesCall(strike, strike, r, sigma, maturity)
	if math.Abs(got-want) > 0.5 {
		tst.Fatalf("price %v too far from closed form %v", got, want)
	}
}

func TestBlackScholesCallMatchesIntrinsicAtMaturity(tst *testing.T) {
	chk.PrintTitle("BlackScholesCallMatchesIntrinsicAtMaturity. tau=0 collapses to the intrinsic payoff")
	chk.Scalar(tst, "itm", 1e-9, BlackScholesCall(120, 100, 0.05, 0.2, 0), 20)
	chk.Scalar(tst, "otm", 1e-9, BlackScholesCall(80, 100, 0.05, 0.2, 0), 0)
}

func TestAnisotropicDiffusion2DEndToEnd(tst *testing.T) {
	chk.PrintTitle("AnisotropicDiffusion2DEndToEnd. Douglas ADI decays a Gaussian bump under zero-Neumann reflecting boundaries")
	n := 25
	g := grid.Grid{Axes: []grid.Axis{grid.Uniform(0, 1, n), grid.Uniform(0, 1, n)}}
	v := GaussianInitial2D(g, 0.5, 0.5, 0.1)
	second := AnisotropicDiffusion2D(0.01, 0.01)
	bcs := ZeroNeumannND(2)

	var before float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			before += v.At(i, j)
		}
	}

	res, err := stepper.StepBack(stepper.Config{
		StartTime: 0, EndTime: 0.01,
		Grid:       g,
		Values:     v,
		Evaluators: stepper.Evaluators{Second: second},
		Boundary:   bcs,
		TimeStep:   stepper.TimeStep{NumSteps: 20},
		Scheme:     schemend.DouglasADI{Theta: 0.5},
	})
	if err != nil {
		tst.Fatal(err)
	}
	var after float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			after += res.Values.At(i, j)
		}
	}
	rel := math.Abs(after-before) / before
	if rel > 0.05 {
		tst.Fatalf("mass drifted by %v%%, expected approximate conservation under reflecting boundaries", rel*100)
	}
	peak := res.Values.At(n/2, n/2)
	if peak >= v.At(n/2, n/2) {
		tst.Fatal("expected diffusion to lower the central peak over time")
	}
}

func TestMixedDiffusion3DZeroRhoDropsTheCrossTerm(tst *testing.T) {
	chk.PrintTitle("MixedDiffusion3DZeroRhoDropsTheCrossTerm. rho=0 yields a nil cross entry")
	g := grid.Grid{Axes: []grid.Axis{grid.Uniform(0, 1, 3), grid.Uniform(0, 1, 3), grid.Uniform(0, 1, 3)}}
	d2 := MixedDiffusion3D(1, 1, 1, 0)(0, g)
	if d2[0][1] != nil {
		tst.Fatal("expected a nil cross-term entry when rho=0")
	}
}
