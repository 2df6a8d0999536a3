// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package views

import (
	"sync"
	"testing"

	"github.com/gomlx/lazyview/pkg/core/graph"
	"github.com/gomlx/lazyview/pkg/core/views/viewtest"
	"github.com/stretchr/testify/require"
)

func TestViewResolve(t *testing.T) {
	g := graph.New("TestViewResolve")
	x := graph.Parameter(g, "x", F64(10))
	alias := NewAlias(x)
	d := NewSelect(x.Shape(), 0, 2, 5, 1)
	view := NewView(d.Shape(), alias, d)
	require.False(t, view.IsUpToDate(), "views start stale")

	value, changed := view.Resolve()
	require.True(t, changed)
	require.True(t, view.IsUpToDate())
	viewtest.RequireValue(t, value, viewtest.Feeds("x", viewtest.Iota(10)), []float64{2, 3, 4})

	// Resolve is idempotent.
	numNodes := g.NumNodes()
	value2, changed := view.Resolve()
	require.False(t, changed)
	require.Same(t, value, value2)
	require.Equal(t, numNodes, g.NumNodes())

	// Write and read back.
	v := graph.Parameter(g, "v", d.Shape())
	view.Update(v)
	require.False(t, view.IsUpToDate())
	require.Equal(t, 1, alias.NumPendingUpdates())
	value, changed = view.Resolve()
	require.True(t, changed)
	require.Equal(t, 0, alias.NumPendingUpdates())
	feeds := viewtest.Feeds("x", viewtest.Iota(10), "v", viewtest.Vector(-1, -2, -3))
	viewtest.RequireValue(t, value, feeds, []float64{-1, -2, -3})
	viewtest.RequireValue(t, alias.Root(), feeds, []float64{0, 1, -1, -2, -3, 5, 6, 7, 8, 9})
}

func TestViewMultipleViews(t *testing.T) {
	g := graph.New("TestViewMultipleViews")
	x := graph.Parameter(g, "x", F64(10))
	alias := NewAlias(x)
	dA := NewSelect(x.Shape(), 0, 0, 5, 1)
	dB := NewSelect(x.Shape(), 0, 5, 10, 1)
	viewA := NewView(dA.Shape(), alias, dA)
	viewB := NewView(dB.Shape(), alias, dB)
	whole := NewViewWithChain(x.Shape(), alias, nil)
	_, _ = viewA.Resolve()

	viewA.Update(graph.Scalar(g, -1, F64(5)))
	viewB.Update(graph.Scalar(g, -2, F64(5)))
	require.Equal(t, 2, alias.NumPendingUpdates())
	require.Equal(t, 2, alias.Generation())

	valueA, changed := viewA.Resolve()
	require.True(t, changed)
	// A is re-derived from the synced root.
	require.Same(t, alias.Root(), valueA.Inputs()[0])
	feeds := viewtest.Feeds("x", viewtest.Iota(10))
	viewtest.RequireValue(t, valueA, feeds, []float64{-1, -1, -1, -1, -1})

	valueB, changed := viewB.Resolve()
	require.True(t, changed)
	viewtest.RequireValue(t, valueB, feeds, []float64{-2, -2, -2, -2, -2})

	value, changed := whole.Resolve()
	require.True(t, changed)
	require.Same(t, alias.Root(), value)
	viewtest.RequireValue(t, value, feeds, []float64{-1, -1, -1, -1, -1, -2, -2, -2, -2, -2})
}

func TestViewStaleness(t *testing.T) {
	g := graph.New("TestViewStaleness")
	x := graph.Parameter(g, "x", F64(4, 4))
	alias := NewAlias(x)
	dA := NewDiagonal(x.Shape(), 0, 0, 1)
	dB := NewNarrow(x.Shape(), []int{2, 2}, []int{2, 2})
	viewA := NewView(dA.Shape(), alias, dA)
	viewB := NewView(dB.Shape(), alias, dB)

	_, _ = viewB.Resolve()
	require.True(t, viewB.IsUpToDate())

	// B never writes, but it becomes stale when A does.
	viewA.Update(graph.Scalar(g, 7, dA.Shape()))
	require.False(t, viewB.IsUpToDate())
	valueB, changed := viewB.Resolve()
	require.True(t, changed)
	require.True(t, viewB.IsUpToDate())
	require.False(t, viewA.IsUpToDate())
	viewtest.RequireValue(t, valueB, viewtest.Feeds("x", viewtest.Iota(4, 4)), []float64{7, 11, 14, 7})

	// A was synced by B, so A only needs to apply its own chain.
	require.Equal(t, 0, alias.NumPendingUpdates())
	_, changed = viewA.Resolve()
	require.True(t, changed)
	_, changed = viewA.Resolve()
	require.False(t, changed)
}

func TestViewCreateSubView(t *testing.T) {
	g := graph.New("TestViewCreateSubView")
	x := graph.Parameter(g, "x", F64(10))
	alias := NewAlias(x)
	p1 := NewSelect(x.Shape(), 0, 2, 8, 1)
	p2 := NewSelect(p1.Shape(), 0, 1, 6, 2)
	parent := NewView(p1.Shape(), alias, p1)

	sub := parent.CreateSubView(p2.Shape(), p2)
	require.Same(t, alias, sub.Alias())
	require.True(t, EqualChains([]*Descriptor{p1, p2}, sub.Chain()))
	require.Len(t, parent.Chain(), 1)
	require.False(t, sub.IsUpToDate())

	direct := NewViewWithChain(p2.Shape(), alias, []*Descriptor{p1, p2})
	subValue, _ := sub.Resolve()
	directValue, _ := direct.Resolve()
	require.Same(t, directValue, subValue)
	feeds := viewtest.Feeds("x", viewtest.Iota(10))
	viewtest.RequireValue(t, subValue, feeds, []float64{3, 5, 7})

	// Writing through the sub-view is visible through the parent.
	sub.Update(graph.Scalar(g, -1, p2.Shape()))
	parentValue, changed := parent.Resolve()
	require.True(t, changed)
	viewtest.RequireValue(t, parentValue, feeds, []float64{2, -1, 4, -1, 6, -1})

	// Sub-view descriptors must start at the view shape.
	require.Panics(t, func() { parent.CreateSubView(p1.Shape(), p1) })
}

func TestViewDeduplication(t *testing.T) {
	g := graph.New("TestViewDeduplication")
	x := graph.Parameter(g, "x", F64(6, 6))
	v := graph.Parameter(g, "v", F64(6))
	chain := []*Descriptor{NewPermute(x.Shape(), 1, 0), NewDiagonal(F64(6, 6), 1, 0, 1)}
	value := graph.Scalar(g, 1, chain[1].Shape())

	resolveOnce := func() *graph.Node {
		alias := NewAlias(x)
		view := NewViewWithChain(chain[1].Shape(), alias, chain)
		view.Update(value)
		row := NewSelect(x.Shape(), 0, 2, 3, 1)
		NewViewWithChain(v.Shape(), alias, []*Descriptor{row, NewSqueeze(row.Shape(), 0)}).Update(v)
		resolved, _ := view.Resolve()
		return resolved
	}
	first := resolveOnce()
	numNodes := g.NumNodes()
	for range 3 {
		require.Same(t, first, resolveOnce())
	}
	require.Equal(t, numNodes, g.NumNodes())
	require.Positive(t, g.DedupHits())
}

func TestViewErrors(t *testing.T) {
	g := graph.New("TestViewErrors")
	x := graph.Parameter(g, "x", F64(10))
	alias := NewAlias(x)
	d := NewSelect(x.Shape(), 0, 2, 5, 1)

	require.Panics(t, func() { NewView(F64(4), alias, d) })
	require.Panics(t, func() { NewView(d.Shape(), nil, d) })
	require.Panics(t, func() { NewView(d.Shape(), alias, nil) })
	require.Panics(t, func() { NewViewWithChain(F64(3), alias, nil) })
	require.Panics(t, func() { NewViewWithChain(F64(2), alias, []*Descriptor{d, NewSelect(F64(10), 0, 0, 2, 1)}) })

	view := NewView(d.Shape(), alias, d)
	require.Panics(t, func() { view.Update(graph.Scalar(g, 0, F64(4))) })
	require.Equal(t, 0, alias.Generation())
}

func TestViewConcurrency(t *testing.T) {
	g := graph.New("TestViewConcurrency")
	x := graph.Parameter(g, "x", F64(8))
	alias := NewAlias(x)
	const numViews, numUpdates = 8, 10
	var wg sync.WaitGroup
	for ii := range numViews {
		d := NewSelect(x.Shape(), 0, ii, ii+1, 1)
		view := NewView(d.Shape(), alias, d)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for jj := range numUpdates {
				view.Update(graph.Scalar(g, float64(ii*100+jj), d.Shape()))
				_, _ = view.Resolve()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, numViews*numUpdates, alias.Generation())
	root := alias.SyncUpdateOperations()
	want := make([]float64, numViews)
	for ii := range want {
		want[ii] = float64(ii*100 + numUpdates - 1)
	}
	viewtest.RequireValue(t, root, viewtest.Feeds("x", viewtest.Iota(8)), want)
}
