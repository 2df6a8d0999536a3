// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package lazytensor is a thin tensor layer on top of the lazy views: a Tensor is either a plain value
// (a graph node), or a view of the storage of another tensor.
//
// View operations (Select, Narrow, Permute, ...) return tensors that share storage with their operand,
// and in-place operations (Fill, AddInPlace, CopyFrom) on any of them are visible through all others.
// Nothing is materialized until Value is called, and even then the result is only a symbolic graph
// node: see package eval to compute it.
package lazytensor

import (
	"fmt"
	"sync"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/lazyview/pkg/core/graph"
	"github.com/gomlx/lazyview/pkg/core/shapes"
	"github.com/gomlx/lazyview/pkg/core/views"
)

// Tensor is a lazily evaluated tensor.
//
// A tensor starts as a plain value. The first time a view of it is taken, its value becomes the root of a
// new views.Alias, and the tensor itself becomes a view (with an empty chain) of that Alias: from then on
// its updates are recorded in the Alias.
type Tensor struct {
	mu    sync.Mutex
	shape shapes.Shape
	value *graph.Node // Only used while view is nil.
	view  *views.View
}

// FromNode creates a plain Tensor holding value.
func FromNode(value *graph.Node) *Tensor {
	value.AssertValid()
	return &Tensor{shape: value.Shape(), value: value}
}

// Parameter creates a Tensor holding a new graph parameter with the given name and shape.
func Parameter(g *graph.Graph, name string, shape shapes.Shape) *Tensor {
	return FromNode(graph.Parameter(g, name, shape))
}

// Full creates a Tensor with the given shape, where all elements are set to value.
func Full(g *graph.Graph, value float64, shape shapes.Shape) *Tensor {
	return FromNode(graph.Scalar(g, value, shape))
}

// Shape of the tensor.
func (t *Tensor) Shape() shapes.Shape { return t.shape.Clone() }

// IsView returns whether the tensor shares its storage with other tensors.
func (t *Tensor) IsView() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view != nil
}

// Alias returns the storage shared by the tensor, or nil if it is a plain value.
func (t *Tensor) Alias() *views.Alias {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.view == nil {
		return nil
	}
	return t.view.Alias()
}

// Value returns the current value of the tensor, including all the in-place updates made to it and to
// the tensors it shares storage with.
func (t *Tensor) Value() *graph.Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.view == nil {
		return t.value
	}
	value, _ := t.view.Resolve()
	return value
}

// Graph where the tensor value lives.
func (t *Tensor) Graph() *graph.Graph {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.view == nil {
		return t.value.Graph()
	}
	return t.view.Alias().Graph()
}

// String implements fmt.Stringer.
func (t *Tensor) String() string {
	if t.IsView() {
		return fmt.Sprintf("Tensor(view, %s)", t.shape)
	}
	return fmt.Sprintf("Tensor(%s)", t.shape)
}

// baseView returns the view of the tensor, first converting a plain tensor into a view of a new Alias.
func (t *Tensor) baseView() *views.View {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.view == nil {
		alias := views.NewAlias(t.value)
		t.view = views.NewViewWithChain(t.shape, alias, nil)
		t.value = nil
	}
	return t.view
}

// assign sets the new content of the tensor.
func (t *Tensor) assign(value *graph.Node) {
	if !value.Shape().Equal(t.shape) {
		exceptions.Panicf("cannot assign value of shape %s to tensor of shape %s", value.Shape(), t.shape)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.view == nil {
		t.value = value
		return
	}
	t.view.Update(value)
}

// newView returns a tensor viewing t through d.
func (t *Tensor) newView(d *views.Descriptor) *Tensor {
	view := t.baseView().CreateSubView(d.Shape(), d)
	return &Tensor{shape: d.Shape(), view: view}
}

// Select returns a view of the range [start, end), with the given stride, of axis dim.
func (t *Tensor) Select(dim, start, end, stride int) *Tensor {
	return t.newView(views.NewSelect(t.shape, dim, start, end, stride))
}

// Narrow returns a view of the window of the given sizes, starting at starts.
func (t *Tensor) Narrow(starts, sizes []int) *Tensor {
	return t.newView(views.NewNarrow(t.shape, starts, sizes))
}

// Permute returns a view with the axes permuted: output axis i is axis permutation[i] of t.
func (t *Tensor) Permute(permutation ...int) *Tensor {
	return t.newView(views.NewPermute(t.shape, permutation...))
}

// Reshape returns a view with the given dimensions, with the same number of elements.
func (t *Tensor) Reshape(dimensions ...int) *Tensor {
	return t.newView(views.NewReshape(t.shape, dimensions...))
}

// Resize returns a view of the flat storage, truncated or padded with zeros to the given dimensions.
func (t *Tensor) Resize(dimensions ...int) *Tensor {
	return t.newView(views.NewResize(t.shape, dimensions...))
}

// Squeeze returns a view without the given axis, which must have dimension 1.
func (t *Tensor) Squeeze(axis int) *Tensor {
	return t.newView(views.NewSqueeze(t.shape, axis))
}

// Unsqueeze returns a view with a new axis of dimension 1 at the given position.
func (t *Tensor) Unsqueeze(axis int) *Tensor {
	return t.newView(views.NewUnsqueeze(t.shape, axis))
}

// AsStrided returns a strided view of the row-major storage of t.
func (t *Tensor) AsStrided(size, stride []int, offset int) *Tensor {
	return t.newView(views.NewAsStrided(t.shape, size, stride, offset))
}

// Diagonal returns a view of the diagonal of the plane formed by dim1 and dim2.
func (t *Tensor) Diagonal(offset, dim1, dim2 int) *Tensor {
	return t.newView(views.NewDiagonal(t.shape, offset, dim1, dim2))
}

// Fill sets all elements of the tensor to value, in-place.
func (t *Tensor) Fill(value float64) {
	t.assign(graph.Scalar(t.Graph(), value, t.shape))
}

// AddInPlace adds other to the tensor, in-place. other must have the same shape, or be a scalar.
func (t *Tensor) AddInPlace(other *Tensor) {
	t.assign(graph.Add(t.Value(), other.Value()))
}

// AddScalarInPlace adds value to all elements of the tensor, in-place.
func (t *Tensor) AddScalarInPlace(value float64) {
	scalar := graph.Scalar(t.Graph(), value, shapes.Make(t.shape.DType))
	t.assign(graph.Add(t.Value(), scalar))
}

// CopyFrom sets the content of the tensor to the one of src, in-place. src must have the same shape.
func (t *Tensor) CopyFrom(src *Tensor) {
	t.assign(src.Value())
}
