// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package views

import (
	"testing"

	"github.com/gomlx/lazyview/pkg/core/graph"
	"github.com/gomlx/lazyview/pkg/core/views/viewtest"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	g := graph.New("TestApply")
	x := graph.Parameter(g, "x", F64(3, 4))
	feeds := viewtest.Feeds("x", viewtest.Iota(3, 4))

	// NoOp returns the value itself.
	require.Same(t, x, Apply(x, NewNoOp(x.Shape())))
	require.Same(t, x, ApplyChain(x, nil))

	chain := []*Descriptor{NewSelect(x.Shape(), 0, 1, 3, 1)}
	chain = append(chain, NewPermute(chain[0].Shape(), 1, 0))
	chain = append(chain, NewDiagonal(chain[1].Shape(), -1, 0, 1))
	y := ApplyChain(x, chain)
	viewtest.RequireValue(t, y, feeds, []float64{5, 10})

	// Node construction is idempotent.
	numNodes := g.NumNodes()
	require.Same(t, y, ApplyChain(x, chain))
	require.Equal(t, numNodes, g.NumNodes())

	// Value must have the descriptor source shape.
	require.Panics(t, func() { Apply(x, NewSelect(F64(4, 3), 0, 0, 1, 1)) })

	// Unknown kinds are reported.
	bogus := &Descriptor{kind: Kind(99), shape: x.Shape(), sourceShape: x.Shape()}
	require.Panics(t, func() { Apply(x, bogus) })
	require.Panics(t, func() { applyInverse(bogus, x, x) })
}

// TestApplyUpdate writes through a view of each kind, and checks the resulting root value.
func TestApplyUpdate(t *testing.T) {
	testCases := []struct {
		name     string
		rootDims []int
		d        func(root *graph.Node) *Descriptor
		want     []float64
	}{
		{"Select", []int{10}, func(root *graph.Node) *Descriptor { return NewSelect(root.Shape(), 0, 2, 5, 1) },
			[]float64{0, 1, 0, 1, 2, 5, 6, 7, 8, 9}},
		{"Select-strided", []int{10}, func(root *graph.Node) *Descriptor { return NewSelect(root.Shape(), 0, 1, 10, 4) },
			[]float64{0, 0, 2, 3, 4, 1, 6, 7, 8, 2}},
		{"Narrow", []int{3, 4}, func(root *graph.Node) *Descriptor {
			return NewNarrow(root.Shape(), []int{1, 1}, []int{2, 2})
		}, []float64{0, 1, 2, 3, 4, 0, 1, 7, 8, 2, 3, 11}},
		{"NoOp", []int{4}, func(root *graph.Node) *Descriptor { return NewNoOp(root.Shape()) },
			[]float64{0, 1, 2, 3}},
		{"Permute", []int{2, 3}, func(root *graph.Node) *Descriptor { return NewPermute(root.Shape(), 1, 0) },
			[]float64{0, 2, 4, 1, 3, 5}},
		{"Reshape", []int{2, 3}, func(root *graph.Node) *Descriptor { return NewReshape(root.Shape(), 3, 2) },
			[]float64{0, 1, 2, 3, 4, 5}},
		{"Resize", []int{4}, func(root *graph.Node) *Descriptor { return NewResize(root.Shape(), 2) },
			[]float64{0, 1, 0, 0}},
		{"Squeeze", []int{3, 1}, func(root *graph.Node) *Descriptor { return NewSqueeze(root.Shape(), 1) },
			[]float64{0, 1, 2}},
		{"Unsqueeze", []int{3}, func(root *graph.Node) *Descriptor { return NewUnsqueeze(root.Shape(), 0) },
			[]float64{0, 1, 2}},
		{"AsStrided", []int{6}, func(root *graph.Node) *Descriptor {
			return NewAsStrided(root.Shape(), []int{2, 2}, []int{1, 2}, 1)
		}, []float64{0, 0, 2, 1, 3, 5}},
		{"Diagonal", []int{3, 3}, func(root *graph.Node) *Descriptor { return NewDiagonal(root.Shape(), 0, 0, 1) },
			[]float64{0, 1, 2, 3, 1, 5, 6, 7, 2}},
		{"Diagonal-upper", []int{3, 3}, func(root *graph.Node) *Descriptor { return NewDiagonal(root.Shape(), 1, 0, 1) },
			[]float64{0, 0, 2, 3, 4, 1, 6, 7, 8}},
		// Writing through empty views leaves the root unchanged.
		{"Select-empty", []int{10}, func(root *graph.Node) *Descriptor { return NewSelect(root.Shape(), 0, 4, 4, 1) },
			[]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{"Diagonal-empty", []int{3, 3}, func(root *graph.Node) *Descriptor { return NewDiagonal(root.Shape(), 5, 0, 1) },
			[]float64{0, 1, 2, 3, 4, 5, 6, 7, 8}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := graph.New(tc.name)
			root := graph.Parameter(g, "root", F64(tc.rootDims...))
			d := tc.d(root)
			// The update value has values 0, 1, 2, ... in the shape of the view.
			value := graph.Parameter(g, "value", d.Shape())
			feeds := viewtest.Feeds("root", viewtest.Iota(tc.rootDims...), "value", viewtest.Iota(d.Shape().Dimensions...))
			updated := applyUpdate(root, UpdateData{Value: value, Chain: []*Descriptor{d}})
			require.True(t, updated.Shape().Equal(root.Shape()))
			viewtest.RequireValue(t, updated, feeds, tc.want)

			// Reading back through the view yields the written value.
			viewtest.RequireSameValue(t, value, Apply(updated, d), feeds)
		})
	}
}

func TestApplyUpdateChain(t *testing.T) {
	g := graph.New("TestApplyUpdateChain")
	root := graph.Parameter(g, "root", F64(4, 3))
	sel := NewSelect(root.Shape(), 0, 1, 3, 1)
	perm := NewPermute(sel.Shape(), 1, 0)
	value := graph.Parameter(g, "value", perm.Shape())
	feeds := viewtest.Feeds("root", viewtest.Iota(4, 3), "value", viewtest.Iota(3, 2))

	updated := applyUpdate(root, UpdateData{Value: value, Chain: []*Descriptor{sel, perm}})
	require.Equal(t, graph.NodeTypeSelectViewUpdate, updated.Type())
	require.Same(t, root, updated.Inputs()[0])
	viewtest.RequireValue(t, updated, feeds, []float64{0, 1, 2, 0, 2, 4, 1, 3, 5, 9, 10, 11})

	// An empty chain replaces the whole value.
	other := graph.Parameter(g, "other", root.Shape())
	require.Same(t, other, applyUpdate(root, UpdateData{Value: other}))
}
