// Copyright 2026 The Gofd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tridiag implements the two batched primitives every time-marching
// scheme is built from: tridiagonal_matmul and tridiagonal_solve. Both
// treat every dimension except the last as a batch dimension that may be
// evaluated independently and, here, concurrently across a bounded worker
// pool sized to the host's core count -- the solver core's only point of
// intra-step parallelism (spec.md §5).
package tridiag

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/cpmech/gofd/pdeerr"
	"github.com/cpmech/gofd/pdetensor"
)

// Diagonals holds the three bands of a batched tridiagonal operator, each
// shaped outer... + [m] where outer is the batch shape (every non-axis
// dimension) and m is the extent along the active axis. Sub[...,0] and
// Super[...,m-1] are never read.
type Diagonals struct {
	Sub, Main, Super *pdetensor.Tensor
}

// batchIndices enumerates every multi-index of shape (the leading Rank-1
// dims of a Diagonals tensor), i.e. every independent tridiagonal system.
func batchIndices(outer []int) [][]int {
	var out [][]int
	pdetensor.Walk(outer, func(idx []int) {
		out = append(out, append([]int(nil), idx...))
	})
	return out
}

func runBatched(outer []int, work func(idx []int)) {
	batches := batchIndices(outer)
	workers := runtime.GOMAXPROCS(0)
	if workers > len(batches) {
		workers = len(batches)
	}
	if workers <= 1 {
		for _, idx := range batches {
			work(idx)
		}
		return
	}
	jobs := make(chan []int, len(batches))
	for _, idx := range batches {
		jobs <- idx
	}
	close(jobs)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				work(idx)
			}
		}()
	}
	wg.Wait()
}

func newMat(d Diagonals, idx []int) *mat.Tridiag {
	n := len(d.Main.Shape) - 1
	m := d.Main.Shape[n]
	dl := make([]float64, m-1)
	du := make([]float64, m-1)
	dd := make([]float64, m)
	for i := 0; i < m; i++ {
		dd[i] = d.Main.At(append(append([]int(nil), idx...), i)...)
	}
	for i := 0; i < m-1; i++ {
		// Sub[i+1] is the coefficient of row i+1 acting on row i: lower
		// band entry i in LAPACK's DL convention.
		dl[i] = d.Sub.At(append(append([]int(nil), idx...), i+1)...)
		du[i] = d.Super.At(append(append([]int(nil), idx...), i)...)
	}
	return mat.NewTridiag(m, dl, dd, du)
}

// BatchMul computes y = A*x for every batch index, where A is exactly the
// tridiagonal matrix held in diag (no identity term is added here) and x
// shares diag's shape.
func BatchMul(diag Diagonals, x *pdetensor.Tensor) *pdetensor.Tensor {
	out := pdetensor.New(x.Shape...)
	n := len(diag.Main.Shape) - 1
	outer := diag.Main.Shape[:n]
	m := diag.Main.Shape[n]
	runBatched(outer, func(idx []int) {
		a := newMat(diag, idx)
		xv := mat.NewVecDense(m, x.Row(idx...))
		var yv mat.VecDense
		yv.MulVec(a, xv)
		out.SetRow(yv.RawVector().Data, idx...)
	})
	return out
}

// BatchSolve solves A*y = rhs for every batch index, returning y. A
// singular system (e.g. a degenerate operator) surfaces as a
// NumericalInstability error wrapping the underlying LAPACK failure.
func BatchSolve(diag Diagonals, rhs *pdetensor.Tensor) (*pdetensor.Tensor, error) {
	out := pdetensor.New(rhs.Shape...)
	n := len(diag.Main.Shape) - 1
	outer := diag.Main.Shape[:n]
	m := diag.Main.Shape[n]
	var mu sync.Mutex
	var firstErr error
	runBatched(outer, func(idx []int) {
		a := newMat(diag, idx)
		b := mat.NewVecDense(m, rhs.Row(idx...))
		y := mat.NewVecDense(m, nil)
		if err := a.SolveVecTo(y, false, b); err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = pdeerr.Wrap(pdeerr.NumericalInstability, err, "tridiagonal solve failed at batch index %v", idx)
			}
			mu.Unlock()
			return
		}
		out.SetRow(y.RawVector().Data, idx...)
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
