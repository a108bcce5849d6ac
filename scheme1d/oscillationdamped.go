// Copyright 2026 The Gofd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scheme1d

import (
	"math"

	"github.com/cpmech/gofd/boundary"
	"github.com/cpmech/gofd/disc1d"
	"github.com/cpmech/gofd/grid"
	"github.com/cpmech/gofd/pdetensor"
	"github.com/cpmech/gofd/stepper"
)

// OscillationDampedCN implements the Rannacher/extrapolation hybrid of
// spec.md §4.5: applies Extrapolation for the first Ne steps to damp
// oscillations from nonsmooth terminal data, then switches permanently to
// CrankNicolson. The switch is one-shot and never reverts.
//
// If NumExtrapSteps is 0, Ne is estimated from a Gershgorin bound on the
// discretized operator's spectral radius (EstimateMaxEigenvalue) so that
// (dt*lambdaMax)^-Ne reaches TargetDamping (default 1e-6).
//
// OscillationDampedCN carries state across steps and must be used by
// pointer, one instance per StepBack run.
type OscillationDampedCN struct {
	NumExtrapSteps int
	TargetDamping  float64

	stepsDone int
	resolved  bool
	switched  bool
	ne        int
}

// EstimateMaxEigenvalue bounds the spectral radius of the discretized
// operator L by the Gershgorin row-sum bound: max_i |Main[i]| + |Sub[i]| +
// |Super[i]|, taken over every batch element too.
func EstimateMaxEigenvalue(op disc1d.Operator) float64 {
	var maxVal float64
	pdetensor.Walk(op.Main.Shape, func(idx []int) {
		v := math.Abs(op.Main.At(idx...)) + math.Abs(op.Sub.At(idx...)) + math.Abs(op.Super.At(idx...))
		if v > maxVal {
			maxVal = v
		}
	})
	return maxVal
}

func (o *OscillationDampedCN) Step(t, dt float64, g grid.Grid, v *pdetensor.Tensor, ev stepper.Evaluators, bcs []boundary.Condition) (float64, grid.Grid, *pdetensor.Tensor, error) {
	if !o.switched {
		if !o.resolved {
			bs := batchShape(v)
			ne, err := o.computeNe(t, dt, g, bs, ev, bcs[0])
			if err != nil {
				return 0, grid.Grid{}, nil, err
			}
			o.ne = ne
			o.resolved = true
		}
		if o.stepsDone >= o.ne {
			o.switched = true
		}
	}

	if o.switched {
		var cn CrankNicolson
		return cn.Step(t, dt, g, v, ev, bcs)
	}

	var ext Extrapolation
	tNext, gNext, vNext, err := ext.Step(t, dt, g, v, ev, bcs)
	if err != nil {
		return 0, grid.Grid{}, nil, err
	}
	o.stepsDone++
	if o.stepsDone >= o.ne {
		o.switched = true
	}
	return tNext, gNext, vNext, nil
}

// computeNe resolves Ne either from NumExtrapSteps or from the Gershgorin
// damping estimate.
func (o *OscillationDampedCN) computeNe(t, dt float64, g grid.Grid, bs []int, ev stepper.Evaluators, bc boundary.Condition) (int, error) {
	if o.NumExtrapSteps > 0 {
		return o.NumExtrapSteps, nil
	}
	op, err := buildOperator(t, g, bs, ev, bc)
	if err != nil {
		return 0, err
	}
	lambdaMax := EstimateMaxEigenvalue(op)
	damping := o.TargetDamping
	if damping == 0 {
		damping = 1e-6
	}
	x := math.Abs(dt) * lambdaMax
	if x <= 1 {
		return 1, nil
	}
	ne := int(math.Ceil(math.Log(damping) / -math.Log(x)))
	if ne < 1 {
		ne = 1
	}
	return ne, nil
}
