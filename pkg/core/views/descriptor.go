// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package views implements deferred mutation tracking for tensor views.
//
// A view is a shape-transformed alias into the storage of another tensor (a slice, a reshape, a
// transposition, ...), described by a chain of Descriptor objects starting at the storage root.
// In-place writes to a View are not materialized: they are recorded as pending updates in the
// shared Alias, and only replayed, as graph nodes, when a value is read:
//
//   - Alias owns the current root value of the storage and the queue of pending updates, written
//     through any of its views.
//   - View holds a transformation chain from the Alias root to itself, and lazily resolves its value,
//     caching it until another update happens anywhere on the Alias (detected with a generation counter).
//
// All the values are symbolic graph nodes (see package graph), and graph nodes are de-duplicated, so
// resolving the same views repeatedly doesn't grow the graph.
//
// Contract violations (wrong shapes, mismatched kinds and parameters, unknown kinds) are programming
// errors and panic with github.com/gomlx/exceptions.
package views

import (
	"fmt"
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/lazyview/pkg/core/shapeinference"
	"github.com/gomlx/lazyview/pkg/core/shapes"
)

// Descriptor describes one view transformation: its kind, the shape of the source it is applied to,
// the resulting shape and the kind-specific parameters.
//
// It is immutable once created: use New or one of the NewSelect, NewNarrow, ... constructors.
type Descriptor struct {
	kind        Kind
	shape       shapes.Shape
	sourceShape shapes.Shape
	params      Params
}

// New creates a Descriptor of the given kind, applied to a source with sourceShape.
//
// params must be of the type matching kind (e.g. *SelectParams for KindSelect), or nil for KindNoOp.
// The resulting shape is derived from sourceShape and params, and negative axes are normalized.
// It panics if kind and params don't match, or if the parameters are not valid for sourceShape.
func New(kind Kind, sourceShape shapes.Shape, params Params) *Descriptor {
	if !sourceShape.Ok() {
		exceptions.Panicf("views.New(%s): invalid source shape %s", kind, sourceShape)
	}
	if kind == KindNoOp {
		if params != nil {
			exceptions.Panicf("views.New(%s): expected no parameters, got %T", kind, params)
		}
		return &Descriptor{kind: kind, shape: sourceShape.Clone(), sourceShape: sourceShape.Clone()}
	}
	if params == nil {
		exceptions.Panicf("views.New(%s): missing parameters", kind)
	}
	if params.Kind() != kind {
		exceptions.Panicf("views.New(%s): parameters %T are for kind %s", kind, params, params.Kind())
	}
	params = params.clone()
	var shape shapes.Shape
	var err error
	switch p := params.(type) {
	case *SelectParams:
		shape, err = shapeinference.SelectOp(sourceShape, p.Dim, p.Start, p.End, p.Stride)
		p.Dim = shapes.NormalizeAxis(p.Dim, sourceShape.Rank())
	case *NarrowParams:
		shape, err = shapeinference.NarrowOp(sourceShape, p.Starts, p.Sizes)
	case *PermuteParams:
		shape, err = shapeinference.PermuteOp(sourceShape, p.Permutation)
	case *ReshapeParams:
		shape, err = shapeinference.ReshapeOp(sourceShape, p.Dimensions)
	case *ResizeParams:
		shape, err = shapeinference.ResizeOp(sourceShape, p.Dimensions)
	case *SqueezeParams:
		shape, err = shapeinference.SqueezeOp(sourceShape, p.Axis)
		p.Axis = shapes.NormalizeAxis(p.Axis, sourceShape.Rank())
	case *UnsqueezeParams:
		shape, err = shapeinference.UnsqueezeOp(sourceShape, p.Axis)
		p.Axis = shapes.NormalizeAxis(p.Axis, sourceShape.Rank()+1)
	case *AsStridedParams:
		shape, err = shapeinference.AsStridedOp(sourceShape, p.Size, p.Stride, p.Offset)
	case *DiagonalParams:
		shape, err = shapeinference.DiagonalOp(sourceShape, p.Offset, p.Dim1, p.Dim2)
		if err == nil {
			p.Dim1, p.Dim2, err = shapeinference.DiagonalAxes(sourceShape, p.Dim1, p.Dim2)
		}
	default:
		exceptions.Panicf("views.New(%s): unsupported parameters type %T", kind, params)
	}
	if err != nil {
		panic(err)
	}
	return &Descriptor{kind: kind, shape: shape, sourceShape: sourceShape.Clone(), params: params}
}

// NewSelect returns a descriptor selecting the range [start, end) with the given stride on axis dim.
func NewSelect(sourceShape shapes.Shape, dim, start, end, stride int) *Descriptor {
	return New(KindSelect, sourceShape, &SelectParams{Dim: dim, Start: start, End: end, Stride: stride})
}

// NewNarrow returns a descriptor of the window of the given sizes starting at starts.
func NewNarrow(sourceShape shapes.Shape, starts, sizes []int) *Descriptor {
	return New(KindNarrow, sourceShape, &NarrowParams{Starts: starts, Sizes: sizes})
}

// NewNoOp returns the identity descriptor.
func NewNoOp(sourceShape shapes.Shape) *Descriptor {
	return New(KindNoOp, sourceShape, nil)
}

// NewPermute returns a descriptor permuting the axes of the source.
func NewPermute(sourceShape shapes.Shape, permutation ...int) *Descriptor {
	return New(KindPermute, sourceShape, &PermuteParams{Permutation: permutation})
}

// NewReshape returns a descriptor reshaping the source to dimensions.
func NewReshape(sourceShape shapes.Shape, dimensions ...int) *Descriptor {
	return New(KindReshape, sourceShape, &ReshapeParams{Dimensions: dimensions})
}

// NewResize returns a descriptor resizing the source to dimensions.
func NewResize(sourceShape shapes.Shape, dimensions ...int) *Descriptor {
	return New(KindResize, sourceShape, &ResizeParams{Dimensions: dimensions})
}

// NewSqueeze returns a descriptor removing the given axis.
func NewSqueeze(sourceShape shapes.Shape, axis int) *Descriptor {
	return New(KindSqueeze, sourceShape, &SqueezeParams{Axis: axis})
}

// NewUnsqueeze returns a descriptor inserting a new axis at the given position.
func NewUnsqueeze(sourceShape shapes.Shape, axis int) *Descriptor {
	return New(KindUnsqueeze, sourceShape, &UnsqueezeParams{Axis: axis})
}

// NewAsStrided returns a strided descriptor over the row-major storage of the source.
func NewAsStrided(sourceShape shapes.Shape, size, stride []int, offset int) *Descriptor {
	return New(KindAsStrided, sourceShape, &AsStridedParams{Size: size, Stride: stride, Offset: offset})
}

// NewDiagonal returns a descriptor of a diagonal of the plane formed by dim1 and dim2.
func NewDiagonal(sourceShape shapes.Shape, offset, dim1, dim2 int) *Descriptor {
	return New(KindDiagonal, sourceShape, &DiagonalParams{Offset: offset, Dim1: dim1, Dim2: dim2})
}

// Kind of the view transformation.
func (d *Descriptor) Kind() Kind { return d.kind }

// Shape resulting from the transformation.
func (d *Descriptor) Shape() shapes.Shape { return d.shape.Clone() }

// SourceShape is the shape the transformation is applied to.
func (d *Descriptor) SourceShape() shapes.Shape { return d.sourceShape.Clone() }

// Params returns a copy of the kind-specific parameters, nil for KindNoOp.
func (d *Descriptor) Params() Params {
	if d.params == nil {
		return nil
	}
	return d.params.clone()
}

// paramsAs returns the parameters of the descriptor, checking that it is of the expected kind.
func paramsAs[P Params](d *Descriptor, kind Kind) P {
	if d.kind != kind {
		exceptions.Panicf("requested %s parameters of a %s view descriptor", kind, d.kind)
	}
	return d.params.clone().(P)
}

// Select returns the parameters of a KindSelect descriptor. It panics for other kinds.
func (d *Descriptor) Select() *SelectParams { return paramsAs[*SelectParams](d, KindSelect) }

// Narrow returns the parameters of a KindNarrow descriptor. It panics for other kinds.
func (d *Descriptor) Narrow() *NarrowParams { return paramsAs[*NarrowParams](d, KindNarrow) }

// Permute returns the parameters of a KindPermute descriptor. It panics for other kinds.
func (d *Descriptor) Permute() *PermuteParams { return paramsAs[*PermuteParams](d, KindPermute) }

// Reshape returns the parameters of a KindReshape descriptor. It panics for other kinds.
func (d *Descriptor) Reshape() *ReshapeParams { return paramsAs[*ReshapeParams](d, KindReshape) }

// Resize returns the parameters of a KindResize descriptor. It panics for other kinds.
func (d *Descriptor) Resize() *ResizeParams { return paramsAs[*ResizeParams](d, KindResize) }

// Squeeze returns the parameters of a KindSqueeze descriptor. It panics for other kinds.
func (d *Descriptor) Squeeze() *SqueezeParams { return paramsAs[*SqueezeParams](d, KindSqueeze) }

// Unsqueeze returns the parameters of a KindUnsqueeze descriptor. It panics for other kinds.
func (d *Descriptor) Unsqueeze() *UnsqueezeParams { return paramsAs[*UnsqueezeParams](d, KindUnsqueeze) }

// AsStrided returns the parameters of a KindAsStrided descriptor. It panics for other kinds.
func (d *Descriptor) AsStrided() *AsStridedParams { return paramsAs[*AsStridedParams](d, KindAsStrided) }

// Diagonal returns the parameters of a KindDiagonal descriptor. It panics for other kinds.
func (d *Descriptor) Diagonal() *DiagonalParams { return paramsAs[*DiagonalParams](d, KindDiagonal) }

// Equal returns whether d and other describe the same transformation: same kind, shapes and parameters.
func (d *Descriptor) Equal(other *Descriptor) bool {
	if d == other {
		return true
	}
	if d == nil || other == nil {
		return false
	}
	if d.kind != other.kind || !d.sourceShape.Equal(other.sourceShape) || !d.shape.Equal(other.shape) {
		return false
	}
	if d.params == nil || other.params == nil {
		return d.params == nil && other.params == nil
	}
	return d.params.equal(other.params)
}

// String implements fmt.Stringer.
func (d *Descriptor) String() string {
	if d == nil {
		return "Descriptor(nil)"
	}
	var params string
	if d.params != nil {
		params = d.params.String()
	}
	return fmt.Sprintf("%s(%s): %s -> %s", d.kind, params, d.sourceShape, d.shape)
}

// EqualChains returns whether both chains have the same length and pairwise equal descriptors.
func EqualChains(a, b []*Descriptor) bool {
	return slices.EqualFunc(a, b, (*Descriptor).Equal)
}

// checkChain panics if the descriptors of chain don't connect, starting at rootShape.
// It returns the shape at the end of the chain.
func checkChain(rootShape shapes.Shape, chain []*Descriptor) shapes.Shape {
	shape := rootShape
	for ii, d := range chain {
		if d == nil {
			exceptions.Panicf("view chain element #%d is nil", ii)
		}
		if !d.sourceShape.Equal(shape) {
			exceptions.Panicf("view chain element #%d (%s) expects source shape %s, but the chain got to shape %s",
				ii, d, d.sourceShape, shape)
		}
		shape = d.shape
	}
	return shape
}
