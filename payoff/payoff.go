// Copyright 2026 The Gofd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package payoff supplies the terminal conditions, coefficient evaluators,
// and boundary conditions for the concrete scenarios of spec.md §8 -- the
// heat equation and Black-Scholes cases that make the solver runnable end
// to end, the way the teacher's analysis packages (ana/) supply concrete
// problem setups around the generic FEM core.
package payoff

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cpmech/gofd/boundary"
	"github.com/cpmech/gofd/coeff"
	"github.com/cpmech/gofd/grid"
	"github.com/cpmech/gofd/pdetensor"
)

// HeatSineInitial returns V(x,0) = sin(x) on g, the initial condition of
// spec.md §8 scenario 1.
func HeatSineInitial(g grid.Grid) *pdetensor.Tensor {
	axis := g.Axes[0]
	v := pdetensor.New(axis.Len())
	for i, x := range axis.X {
		v.Set(math.Sin(x), i)
	}
	return v
}

// HeatExact evaluates the closed-form solution e^{-t} sin(x) of the
// constant-coefficient heat equation with zero Dirichlet boundaries.
func HeatExact(x, t float64) float64 {
	return math.Exp(-t) * math.Sin(x)
}

// HeatCoefficients returns the coefficient evaluators for the unit-
// diffusion heat equation d V/dt = D d2V/dx2 with D=1, mu=r=0.
func HeatCoefficients() (coeff.SecondOrderFn, coeff.FirstOrderFn, coeff.ZerothOrderFn) {
	second := func(t float64, g grid.Grid) [][]*pdetensor.Tensor {
		return [][]*pdetensor.Tensor{{pdetensor.Scalar(1)}}
	}
	return second, nil, nil
}

// ZeroDirichlet builds a Condition pinning V=0 on both faces, the boundary
// of spec.md §8 scenario 1.
func ZeroDirichlet() boundary.Condition {
	zero := func(t float64, g grid.Grid) *pdetensor.Tensor { return pdetensor.Scalar(0) }
	return boundary.Condition{Lower: boundary.Dirichlet(zero), Upper: boundary.Dirichlet(zero)}
}

// EuropeanCallTerminal returns the terminal payoff max(S-K, 0) on g's
// single axis, spec.md §8 scenario 2.
func EuropeanCallTerminal(g grid.Grid, strike float64) *pdetensor.Tensor {
	axis := g.Axes[0]
	v := pdetensor.New(axis.Len())
	for i, s := range axis.X {
		v.Set(math.Max(s-strike, 0), i)
	}
	return v
}

// BlackScholesCoefficients returns the coefficient evaluators of the
// backward Black-Scholes PDE in the underlying asset price S:
//
//	dV/dt + (1/2) sigma^2 S^2 d2V/dS2 + r S dV/dS - r V = 0
//
// Every scheme in scheme1d/schemend solves dV/dt = L V, so L must be the
// negative of the PDE's own operator: second-order D = -(1/2) sigma^2 S^2,
// first-order mu = -r S, zeroth-order coefficient = +r.
func BlackScholesCoefficients(sigma, r float64) (coeff.SecondOrderFn, coeff.FirstOrderFn, coeff.ZerothOrderFn) {
	second := func(t float64, g grid.Grid) [][]*pdetensor.Tensor {
		axis := g.Axes[0]
		d := pdetensor.New(axis.Len())
		for i, s := range axis.X {
			d.Set(-0.5*sigma*sigma*s*s, i)
		}
		return [][]*pdetensor.Tensor{{d}}
	}
	first := func(t float64, g grid.Grid) []*pdetensor.Tensor {
		axis := g.Axes[0]
		mu := pdetensor.New(axis.Len())
		for i, s := range axis.X {
			mu.Set(-r*s, i)
		}
		return []*pdetensor.Tensor{mu}
	}
	zeroth := func(t float64, g grid.Grid) *pdetensor.Tensor {
		return pdetensor.Scalar(r)
	}
	return second, first, zeroth
}

// EuropeanCallBoundary returns the standard linear-growth boundary
// condition for a European call: V=0 at S=0, and at the far face V grows
// like the forward value S - K e^{-r(T-t)}, consistent with the terminal
// payoff max(S-K,0).
func EuropeanCallBoundary(strike, r, maturity float64) boundary.Condition {
	zero := func(t float64, g grid.Grid) *pdetensor.Tensor { return pdetensor.Scalar(0) }
	far := func(t float64, g grid.Grid) *pdetensor.Tensor {
		axis := g.Axes[0]
		sMax := axis.X[axis.Len()-1]
		return pdetensor.Scalar(sMax - strike*math.Exp(-r*(maturity-t)))
	}
	return boundary.Condition{Lower: boundary.Dirichlet(zero), Upper: boundary.Dirichlet(far)}
}

// BlackScholesCall evaluates the closed-form Black-Scholes price of a
// European call, used as the reference for spec.md §8 scenario 2.
func BlackScholesCall(spot, strike, r, sigma, tau float64) float64 {
	if tau <= 0 {
		return math.Max(spot-strike, 0)
	}
	n := distuv.Normal{Mu: 0, Sigma: 1}
	d1 := (math.Log(spot/strike) + (r+0.5*sigma*sigma)*tau) / (sigma * math.Sqrt(tau))
	d2 := d1 - sigma*math.Sqrt(tau)
	return spot*n.CDF(d1) - strike*math.Exp(-r*tau)*n.CDF(d2)
}

// GaussianInitial2D returns a Gaussian bump centered at (cx, cy) with
// standard deviation sigma on a 2-D grid, spec.md §8 scenario 4.
func GaussianInitial2D(g grid.Grid, cx, cy, sigma float64) *pdetensor.Tensor {
	xAxis, yAxis := g.Axes[0], g.Axes[1]
	v := pdetensor.New(xAxis.Len(), yAxis.Len())
	for i, x := range xAxis.X {
		for j, y := range yAxis.X {
			dx, dy := x-cx, y-cy
			v.Set(math.Exp(-(dx*dx+dy*dy)/(2*sigma*sigma)), i, j)
		}
	}
	return v
}

// AnisotropicDiffusion2D returns coefficient evaluators for an axis-aligned
// anisotropic diffusion d V/dt = Dxx d2V/dx2 + Dyy d2V/dy2, no cross terms
// and no drift, spec.md §8 scenario 4.
func AnisotropicDiffusion2D(dxx, dyy float64) coeff.SecondOrderFn {
	return func(t float64, g grid.Grid) [][]*pdetensor.Tensor {
		return [][]*pdetensor.Tensor{
			{pdetensor.Scalar(dxx), nil},
			{nil, pdetensor.Scalar(dyy)},
		}
	}
}

// ZeroNeumannND builds a Condition pinning the outward-normal derivative to
// zero on both faces of every axis of a dim-dimensional grid -- reflecting,
// mass-conserving boundaries for scenario 4.
func ZeroNeumannND(dim int) []boundary.Condition {
	zero := func(t float64, g grid.Grid) *pdetensor.Tensor { return pdetensor.Scalar(0) }
	bcs := make([]boundary.Condition, dim)
	for i := range bcs {
		bcs[i] = boundary.Condition{Lower: boundary.Neumann(zero), Upper: boundary.Neumann(zero)}
	}
	return bcs
}

// MixedDiffusion3D returns coefficient evaluators for a 3-D diffusion with
// a single cross term between axes 0 and 1, scaled by rho -- a minimal
// stand-in for the cross-variance term of a Heston/Hull-White-style model
// used in spec.md §8 scenario 5 to exercise discnd.Mixed and verify Douglas
// ADI's convergence order with and without it.
func MixedDiffusion3D(d0, d1, d2, rho float64) coeff.SecondOrderFn {
	return func(t float64, g grid.Grid) [][]*pdetensor.Tensor {
		cross := pdetensor.Scalar(rho * math.Sqrt(d0*d1))
		if rho == 0 {
			cross = nil
		}
		return [][]*pdetensor.Tensor{
			{pdetensor.Scalar(d0), cross, nil},
			{nil, pdetensor.Scalar(d1), nil},
			{nil, nil, pdetensor.Scalar(d2)},
		}
	}
}
