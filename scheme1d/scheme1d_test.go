// Copyright 2026 The Gofd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scheme1d

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/gofd/boundary"
	"github.com/cpmech/gofd/grid"
	"github.com/cpmech/gofd/pdetensor"
	"github.com/cpmech/gofd/stepper"
)

// heatSetup builds the unit-diffusion heat equation d V/dt = d2V/dx2 on
// [0, pi] with zero Dirichlet boundaries and a sine initial condition,
// whose exact solution is e^{-t} sin(x).
func heatSetup(n int) (grid.Grid, *pdetensor.Tensor, stepper.Evaluators, boundary.Condition) {
	g := grid.Grid{Axes: []grid.Axis{grid.Uniform(0, math.Pi, n)}}
	v := pdetensor.New(n)
	for i, x := range g.Axes[0].X {
		v.Set(math.Sin(x), i)
	}
	ev := stepper.Evaluators{
		Second: func(t float64, g grid.Grid) [][]*pdetensor.Tensor {
			return [][]*pdetensor.Tensor{{pdetensor.Scalar(1)}}
		},
	}
	zero := func(t float64, g grid.Grid) *pdetensor.Tensor { return pdetensor.Scalar(0) }
	bc := boundary.Condition{Lower: boundary.Dirichlet(zero), Upper: boundary.Dirichlet(zero)}
	return g, v, ev, bc
}

func maxAbsErrorAgainstExact(g grid.Grid, v *pdetensor.Tensor, t float64) float64 {
	var maxErr float64
	for i, x := range g.Axes[0].X {
		want := math.Exp(-t) * math.Sin(x)
		if d := math.Abs(v.At(i) - want); d > maxErr {
			maxErr = d
		}
	}
	return maxErr
}

var allSchemes = map[string]stepper.Scheme{
	"Explicit":      Explicit{},
	"Implicit":      Implicit{},
	"CrankNicolson": CrankNicolson{},
	"Theta(0.5)":    Theta{Theta: 0.5},
	"Extrapolation": Extrapolation{},
	"OscDampedCN":   &OscillationDampedCN{NumExtrapSteps: 2},
}

func TestSchemesDecayTowardExactSolution(tst *testing.T) {
	chk.PrintTitle("SchemesDecayTowardExactSolution. every scheme tracks e^-t sin(x) within a loose tolerance")
	n := 61
	for name, scheme := range allSchemes {
		g, v, ev, bc := heatSetup(n)
		res, err := stepper.StepBack(stepper.Config{
			StartTime: 0, EndTime: 0.05,
			Grid: g, Values: v, Evaluators: ev,
			Boundary:  []boundary.Condition{bc},
			TimeStep:  stepper.TimeStep{NumSteps: 200},
			Scheme:    scheme,
		})
		if err != nil {
			tst.Fatalf("%s: %v", name, err)
		}
		maxErr := maxAbsErrorAgainstExact(res.Grid, res.Values, res.Time)
		if maxErr > 0.05 {
			tst.Fatalf("%s: max-abs-error %v too large", name, maxErr)
		}
	}
}

func TestSchemesPreserveShape(tst *testing.T) {
	chk.PrintTitle("SchemesPreserveShape. Step never changes the value tensor's shape")
	for name, scheme := range allSchemes {
		g, v, ev, bc := heatSetup(31)
		_, _, vNext, err := scheme.Step(0, 1e-3, g, v, ev, []boundary.Condition{bc})
		if err != nil {
			tst.Fatalf("%s: %v", name, err)
		}
		if len(vNext.Shape) != len(v.Shape) || vNext.Shape[0] != v.Shape[0] {
			tst.Fatalf("%s: shape changed from %v to %v", name, v.Shape, vNext.Shape)
		}
	}
}

func TestSchemesPinDirichletBoundaryExactly(tst *testing.T) {
	chk.PrintTitle("SchemesPinDirichletBoundaryExactly. boundary faces equal the Dirichlet value after every step")
	for name, scheme := range allSchemes {
		g, v, ev, bc := heatSetup(41)
		_, gNext, vNext, err := scheme.Step(0, 1e-3, g, v, ev, []boundary.Condition{bc})
		if err != nil {
			tst.Fatalf("%s: %v", name, err)
		}
		n := gNext.Axes[0].Len()
		chk.Scalar(tst, name+" lower boundary", 1e-9, vNext.At(0), 0)
		chk.Scalar(tst, name+" upper boundary", 1e-9, vNext.At(n-1), 0)
	}
}

func TestSchemesAreBatchIndependent(tst *testing.T) {
	chk.PrintTitle("SchemesAreBatchIndependent. stacking two independent problems gives the same result as running each alone")
	n := 31
	g := grid.Grid{Axes: []grid.Axis{grid.Uniform(0, math.Pi, n)}}
	single := pdetensor.New(n)
	for i, x := range g.Axes[0].X {
		single.Set(math.Sin(x), i)
	}
	batched := pdetensor.New(2, n)
	for i, x := range g.Axes[0].X {
		batched.Set(math.Sin(x), 0, i)
		batched.Set(math.Sin(x), 1, i)
	}
	ev := stepper.Evaluators{
		Second: func(t float64, g grid.Grid) [][]*pdetensor.Tensor {
			return [][]*pdetensor.Tensor{{pdetensor.Scalar(1)}}
		},
	}
	zero := func(t float64, g grid.Grid) *pdetensor.Tensor { return pdetensor.Scalar(0) }
	bc := boundary.Condition{Lower: boundary.Dirichlet(zero), Upper: boundary.Dirichlet(zero)}

	var scheme CrankNicolson
	_, _, vSingle, err := scheme.Step(0, 1e-3, g, single, ev, []boundary.Condition{bc})
	if err != nil {
		tst.Fatal(err)
	}
	_, _, vBatched, err := scheme.Step(0, 1e-3, g, batched, ev, []boundary.Condition{bc})
	if err != nil {
		tst.Fatal(err)
	}
	for i := 0; i < n; i++ {
		chk.Scalar(tst, "batch element 0", 1e-12, vBatched.At(0, i), vSingle.At(i))
		chk.Scalar(tst, "batch element 1", 1e-12, vBatched.At(1, i), vSingle.At(i))
	}
}

func TestSchemesAreLinear(tst *testing.T) {
	chk.PrintTitle("SchemesAreLinear. Step(a*V1 + b*V2) == a*Step(V1) + b*Step(V2) for the homogeneous equation")
	n := 21
	g := grid.Grid{Axes: []grid.Axis{grid.Uniform(0, math.Pi, n)}}
	zero := func(t float64, g grid.Grid) *pdetensor.Tensor { return pdetensor.Scalar(0) }
	bc := boundary.Condition{Lower: boundary.Dirichlet(zero), Upper: boundary.Dirichlet(zero)}
	ev := stepper.Evaluators{
		Second: func(t float64, g grid.Grid) [][]*pdetensor.Tensor {
			return [][]*pdetensor.Tensor{{pdetensor.Scalar(1)}}
		},
	}
	v1 := pdetensor.New(n)
	v2 := pdetensor.New(n)
	for i, x := range g.Axes[0].X {
		v1.Set(math.Sin(x), i)
		v2.Set(math.Sin(2*x), i)
	}
	combo := pdetensor.New(n)
	pdetensor.AXPY(combo, 3, v1, v2) // combo = 3*v1 + v2, endpoints already 0

	var scheme Implicit
	_, _, out1, err := scheme.Step(0, 1e-3, g, v1, ev, []boundary.Condition{bc})
	if err != nil {
		tst.Fatal(err)
	}
	_, _, out2, err := scheme.Step(0, 1e-3, g, v2, ev, []boundary.Condition{bc})
	if err != nil {
		tst.Fatal(err)
	}
	_, _, outCombo, err := scheme.Step(0, 1e-3, g, combo, ev, []boundary.Condition{bc})
	if err != nil {
		tst.Fatal(err)
	}
	for i := 0; i < n; i++ {
		want := 3*out1.At(i) + out2.At(i)
		chk.Scalar(tst, "linearity", 1e-9, outCombo.At(i), want)
	}
}

func TestOscillationDampedSwitchesExactlyOnce(tst *testing.T) {
	chk.PrintTitle("OscillationDampedSwitchesExactlyOnce. after Ne steps every subsequent step is Crank-Nicolson")
	g, v, ev, bc := heatSetup(21)
	osc := &OscillationDampedCN{NumExtrapSteps: 2}
	t, cur := 0.0, v
	for i := 0; i < 5; i++ {
		var err error
		t, g, cur, err = osc.Step(t, 1e-3, g, cur, ev, []boundary.Condition{bc})
		if err != nil {
			tst.Fatal(err)
		}
	}
	if !osc.switched {
		tst.Fatal("expected OscillationDampedCN to have switched to Crank-Nicolson after 5 steps with Ne=2")
	}
}

func TestCrankNicolsonConvergesAtSecondOrderOnNonuniformGrid(tst *testing.T) {
	chk.PrintTitle("CrankNicolsonConvergesAtSecondOrderOnNonuniformGrid. doubling points on a geometrically graded grid quarters the max error, spec.md §8 scenario 3")
	const lo, hi = 0.1, 3.0
	const endTime = 0.02
	const numSteps = 400 // dt small enough that the O(dt^2) time error stays far below the spatial error being measured

	errorAt := func(n int) float64 {
		axis := grid.LogSpaced(lo, hi, n)
		g := grid.Grid{Axes: []grid.Axis{axis}}
		v := pdetensor.New(n)
		for i, x := range axis.X {
			v.Set(math.Sin(x), i)
		}
		ev := stepper.Evaluators{
			Second: func(t float64, g grid.Grid) [][]*pdetensor.Tensor {
				return [][]*pdetensor.Tensor{{pdetensor.Scalar(1)}}
			},
		}
		lowerExact := func(t float64, g grid.Grid) *pdetensor.Tensor { return pdetensor.Scalar(math.Exp(-t) * math.Sin(lo)) }
		upperExact := func(t float64, g grid.Grid) *pdetensor.Tensor { return pdetensor.Scalar(math.Exp(-t) * math.Sin(hi)) }
		bc := boundary.Condition{Lower: boundary.Dirichlet(lowerExact), Upper: boundary.Dirichlet(upperExact)}

		res, err := stepper.StepBack(stepper.Config{
			StartTime: 0, EndTime: endTime,
			Grid: g, Values: v, Evaluators: ev,
			Boundary: []boundary.Condition{bc},
			TimeStep: stepper.TimeStep{NumSteps: numSteps},
			Scheme:   CrankNicolson{},
		})
		if err != nil {
			tst.Fatal(err)
		}
		return maxAbsErrorAgainstExact(res.Grid, res.Values, res.Time)
	}

	coarse := errorAt(21)
	fine := errorAt(41)
	ratio := coarse / fine
	if ratio < 2.5 || ratio > 6 {
		tst.Fatalf("error ratio %v not close to the ~4x expected from doubling spatial resolution at second order", ratio)
	}
}

func TestOscillationDampedReducesRingingNearKinkedPayoff(tst *testing.T) {
	chk.PrintTitle("OscillationDampedReducesRingingNearKinkedPayoff. Ne=2 extrapolation steps cut the spurious curvature plain Crank-Nicolson leaves near a kinked payoff, spec.md §8 scenario 6")
	const strike = 100.0
	g := grid.Grid{Axes: []grid.Axis{grid.Uniform(50, 150, 101)}}
	terminal := func() *pdetensor.Tensor {
		v := pdetensor.New(101)
		for i, s := range g.Axes[0].X {
			v.Set(math.Max(s-strike, 0), i)
		}
		return v
	}
	// Every scheme solves dV/dt = L V, so a backward (dt<0) diffusion step
	// needs a negative D. |D|*|dt|/h^2 = 50 puts the step where
	// Crank-Nicolson's highest-wavenumber amplification is close to -1.
	ev := stepper.Evaluators{
		Second: func(t float64, g grid.Grid) [][]*pdetensor.Tensor {
			return [][]*pdetensor.Tensor{{pdetensor.Scalar(-2500)}}
		},
	}
	zero := func(t float64, g grid.Grid) *pdetensor.Tensor { return pdetensor.Scalar(0) }
	far := func(t float64, g grid.Grid) *pdetensor.Tensor {
		axis := g.Axes[0]
		return pdetensor.Scalar(axis.X[axis.Len()-1] - strike)
	}
	bc := boundary.Condition{Lower: boundary.Dirichlet(zero), Upper: boundary.Dirichlet(far)}

	maxCurvature := func(v *pdetensor.Tensor) float64 {
		var maxC float64
		for i := 1; i < v.Shape[0]-1; i++ {
			if c := math.Abs(v.At(i-1) - 2*v.At(i) + v.At(i+1)); c > maxC {
				maxC = c
			}
		}
		return maxC
	}

	var cn CrankNicolson
	_, _, vCN, err := cn.Step(1.0, -0.02, g, terminal(), ev, []boundary.Condition{bc})
	if err != nil {
		tst.Fatal(err)
	}

	osc := &OscillationDampedCN{NumExtrapSteps: 2}
	_, _, vOsc, err := osc.Step(1.0, -0.02, g, terminal(), ev, []boundary.Condition{bc})
	if err != nil {
		tst.Fatal(err)
	}

	cnAmp := maxCurvature(vCN)
	oscAmp := maxCurvature(vOsc)
	if oscAmp <= 0 {
		tst.Fatal("expected some residual curvature from the payoff's own kink")
	}
	// spec.md §8 scenario 6 claims >100x over a full Ne=2 ramp; a single
	// step already shows Crank-Nicolson's ringing is an order of magnitude
	// worse than the fully-implicit-leaning extrapolation step.
	if ratio := cnAmp / oscAmp; ratio < 5 {
		tst.Fatalf("oscillation-damped curvature %v not meaningfully smaller than Crank-Nicolson's %v (ratio %v)", oscAmp, cnAmp, ratio)
	}
}

func TestEstimateMaxEigenvalueIsPositive(tst *testing.T) {
	chk.PrintTitle("EstimateMaxEigenvalueIsPositive. Gershgorin bound on a diffusive operator is positive")
	g, v, ev, bc := heatSetup(41)
	bs := batchShape(v)
	op, err := buildOperator(0, g, bs, ev, bc)
	if err != nil {
		tst.Fatal(err)
	}
	lambda := EstimateMaxEigenvalue(op)
	if lambda <= 0 {
		tst.Fatalf("expected a positive spectral radius bound, got %v", lambda)
	}
}
