// Copyright 2026 The Gofd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package boundary

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/gofd/pdetensor"
)

func TestComputeDirichletCollapses(tst *testing.T) {
	chk.PrintTitle("ComputeDirichletCollapses. beta=0 forces xi1=xi2=0, eta=gamma")
	alpha, beta, gamma := pdetensor.Scalar(1), pdetensor.Scalar(0), pdetensor.Scalar(7)
	c, err := Compute(alpha, beta, gamma, 0.1, 0.1)
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "xi1", 1e-17, c.Xi1.At(), 0)
	chk.Scalar(tst, "xi2", 1e-17, c.Xi2.At(), 0)
	chk.Scalar(tst, "eta", 1e-17, c.Eta.At(), 7)
}

func TestComputeNeumannExactOnQuadratic(tst *testing.T) {
	chk.PrintTitle("ComputeNeumannExactOnQuadratic. ghost closure reproduces f(x)=x^2 at the origin from f'(0)=0")
	h := 0.37
	alpha, beta := pdetensor.Scalar(0), pdetensor.Scalar(1)
	gamma := pdetensor.Scalar(0) // f'(0) = 0 for f(x)=x^2
	c, err := Compute(alpha, beta, gamma, h, h)
	if err != nil {
		tst.Fatal(err)
	}
	v1, v2 := h*h, (2*h)*(2*h)
	v0 := c.Xi1.At()*v1 + c.Xi2.At()*v2 + c.Eta.At()
	chk.Scalar(tst, "reconstructed f(0)", 1e-12, v0, 0)
}

func TestComputeMalformedBoundary(tst *testing.T) {
	chk.PrintTitle("ComputeMalformedBoundary. alpha=beta=0 is rejected")
	zero := pdetensor.Scalar(0)
	if _, err := Compute(zero, zero, zero, 0.1, 0.1); err == nil {
		tst.Fatal("expected MalformedBoundary error")
	}
}

func TestFoldLastZeroesCoupling(tst *testing.T) {
	chk.PrintTitle("FoldLastZeroesCoupling. Sub[0] and Super[m-1] vanish after folding")
	m := 4
	sub, main, super, b := pdetensor.New(m), pdetensor.New(m), pdetensor.New(m), pdetensor.New(m)
	for i := 0; i < m; i++ {
		sub.Set(-1, i)
		main.Set(2, i)
		super.Set(-1, i)
	}
	lower := Closure{Xi1: pdetensor.Scalar(0.5), Xi2: pdetensor.Scalar(0), Eta: pdetensor.Scalar(1)}
	upper := Closure{Xi1: pdetensor.Scalar(0.5), Xi2: pdetensor.Scalar(0), Eta: pdetensor.Scalar(2)}
	FoldLast(sub, main, super, b, lower, upper)
	chk.Scalar(tst, "sub[0]", 1e-17, sub.At(0), 0)
	chk.Scalar(tst, "super[m-1]", 1e-17, super.At(m-1), 0)
	chk.Scalar(tst, "b[0]", 1e-17, b.At(0), -1*1)
	chk.Scalar(tst, "b[m-1]", 1e-17, b.At(m-1), -1*2)
}
