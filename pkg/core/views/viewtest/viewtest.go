// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package viewtest holds test utilities for packages that build lazy view graphs.
package viewtest

import (
	"fmt"
	"testing"

	"github.com/gomlx/lazyview/pkg/core/eval"
	"github.com/gomlx/lazyview/pkg/core/graph"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

// Iota returns a float64 tensor with the given dimensions and values 0, 1, 2, ... in row-major order.
func Iota(dims ...int) *tensor.Dense {
	size := 1
	for _, dim := range dims {
		size *= dim
	}
	values := make([]float64, size)
	for ii := range values {
		values[ii] = float64(ii)
	}
	if len(dims) == 0 {
		return tensor.New(tensor.FromScalar(values[0]))
	}
	return tensor.New(tensor.WithShape(dims...), tensor.WithBacking(values))
}

// Vector returns a rank-1 float64 tensor with the given values.
func Vector(values ...float64) *tensor.Dense {
	return tensor.New(tensor.WithShape(len(values)), tensor.WithBacking(values))
}

// Feeds is a shortcut to build the parameter values given to eval.Evaluate, from pairs (name, value).
func Feeds(pairs ...any) map[string]*tensor.Dense {
	if len(pairs)%2 != 0 {
		panic(fmt.Sprintf("viewtest.Feeds requires (name, value) pairs, got %d arguments", len(pairs)))
	}
	feeds := make(map[string]*tensor.Dense, len(pairs)/2)
	for ii := 0; ii < len(pairs); ii += 2 {
		feeds[pairs[ii].(string)] = pairs[ii+1].(*tensor.Dense)
	}
	return feeds
}

// RequireValue evaluates node with the given feeds and requires its flat (row-major) value to be want.
func RequireValue(t *testing.T, node *graph.Node, feeds map[string]*tensor.Dense, want []float64) {
	t.Helper()
	got, err := eval.EvaluateFlat(node, feeds)
	require.NoErrorf(t, err, "failed to evaluate %s", node)
	require.Equalf(t, want, got, "value of node %s", node)
}

// RequireSameValue evaluates both nodes with the given feeds and requires them to be equal.
func RequireSameValue(t *testing.T, want, got *graph.Node, feeds map[string]*tensor.Dense) {
	t.Helper()
	require.Truef(t, want.Shape().Equal(got.Shape()), "shapes differ: want %s, got %s", want.Shape(), got.Shape())
	wantFlat, err := eval.EvaluateFlat(want, feeds)
	require.NoErrorf(t, err, "failed to evaluate %s", want)
	gotFlat, err := eval.EvaluateFlat(got, feeds)
	require.NoErrorf(t, err, "failed to evaluate %s", got)
	require.Equal(t, wantFlat, gotFlat)
}
