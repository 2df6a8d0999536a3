// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package views

import (
	"fmt"
	"slices"
)

// Params is the kind-specific payload of a Descriptor. It is implemented only by the *Params types of this
// package, one per Kind (KindNoOp takes no parameters, so it uses nil).
type Params interface {
	// Kind the parameters are meant for.
	Kind() Kind

	// String prints the parameters, used by Descriptor.String.
	String() string

	equal(other Params) bool
	clone() Params
}

// SelectParams selects the range [Start, End) with the given Stride on axis Dim.
type SelectParams struct {
	Dim, Start, End, Stride int
}

// Kind implements Params.
func (p *SelectParams) Kind() Kind { return KindSelect }

// String implements Params.
func (p *SelectParams) String() string {
	return fmt.Sprintf("dim=%d, start=%d, end=%d, stride=%d", p.Dim, p.Start, p.End, p.Stride)
}

func (p *SelectParams) equal(other Params) bool { return *p == *other.(*SelectParams) }
func (p *SelectParams) clone() Params          { c := *p; return &c }

// NarrowParams takes a window of Sizes starting at the per-axis offsets Starts.
type NarrowParams struct {
	Starts, Sizes []int
}

// Kind implements Params.
func (p *NarrowParams) Kind() Kind { return KindNarrow }

// String implements Params.
func (p *NarrowParams) String() string {
	return fmt.Sprintf("starts=%v, sizes=%v", p.Starts, p.Sizes)
}

func (p *NarrowParams) equal(other Params) bool {
	o := other.(*NarrowParams)
	return slices.Equal(p.Starts, o.Starts) && slices.Equal(p.Sizes, o.Sizes)
}

func (p *NarrowParams) clone() Params {
	return &NarrowParams{Starts: slices.Clone(p.Starts), Sizes: slices.Clone(p.Sizes)}
}

// PermuteParams reorders the axes: output axis i is source axis Permutation[i].
type PermuteParams struct {
	Permutation []int
}

// Kind implements Params.
func (p *PermuteParams) Kind() Kind { return KindPermute }

// String implements Params.
func (p *PermuteParams) String() string { return fmt.Sprintf("permutation=%v", p.Permutation) }

func (p *PermuteParams) equal(other Params) bool {
	return slices.Equal(p.Permutation, other.(*PermuteParams).Permutation)
}

func (p *PermuteParams) clone() Params {
	return &PermuteParams{Permutation: slices.Clone(p.Permutation)}
}

// ReshapeParams reshapes to Dimensions, which must have the same size as the source.
type ReshapeParams struct {
	Dimensions []int
}

// Kind implements Params.
func (p *ReshapeParams) Kind() Kind { return KindReshape }

// String implements Params.
func (p *ReshapeParams) String() string { return fmt.Sprintf("dimensions=%v", p.Dimensions) }

func (p *ReshapeParams) equal(other Params) bool {
	return slices.Equal(p.Dimensions, other.(*ReshapeParams).Dimensions)
}

func (p *ReshapeParams) clone() Params {
	return &ReshapeParams{Dimensions: slices.Clone(p.Dimensions)}
}

// ResizeParams resizes the flat storage to Dimensions, truncating or padding with zeros.
type ResizeParams struct {
	Dimensions []int
}

// Kind implements Params.
func (p *ResizeParams) Kind() Kind { return KindResize }

// String implements Params.
func (p *ResizeParams) String() string { return fmt.Sprintf("dimensions=%v", p.Dimensions) }

func (p *ResizeParams) equal(other Params) bool {
	return slices.Equal(p.Dimensions, other.(*ResizeParams).Dimensions)
}

func (p *ResizeParams) clone() Params {
	return &ResizeParams{Dimensions: slices.Clone(p.Dimensions)}
}

// SqueezeParams removes Axis, which must have dimension 1.
type SqueezeParams struct {
	Axis int
}

// Kind implements Params.
func (p *SqueezeParams) Kind() Kind { return KindSqueeze }

// String implements Params.
func (p *SqueezeParams) String() string { return fmt.Sprintf("axis=%d", p.Axis) }

func (p *SqueezeParams) equal(other Params) bool { return *p == *other.(*SqueezeParams) }
func (p *SqueezeParams) clone() Params          { c := *p; return &c }

// UnsqueezeParams inserts a new axis of dimension 1 at position Axis.
type UnsqueezeParams struct {
	Axis int
}

// Kind implements Params.
func (p *UnsqueezeParams) Kind() Kind { return KindUnsqueeze }

// String implements Params.
func (p *UnsqueezeParams) String() string { return fmt.Sprintf("axis=%d", p.Axis) }

func (p *UnsqueezeParams) equal(other Params) bool { return *p == *other.(*UnsqueezeParams) }
func (p *UnsqueezeParams) clone() Params          { c := *p; return &c }

// AsStridedParams reinterprets the row-major source storage as a tensor of the given Size, where
// element (i_0, ..., i_k) is storage[Offset + sum(i_j * Stride_j)].
type AsStridedParams struct {
	Size, Stride []int
	Offset       int
}

// Kind implements Params.
func (p *AsStridedParams) Kind() Kind { return KindAsStrided }

// String implements Params.
func (p *AsStridedParams) String() string {
	return fmt.Sprintf("size=%v, stride=%v, offset=%d", p.Size, p.Stride, p.Offset)
}

func (p *AsStridedParams) equal(other Params) bool {
	o := other.(*AsStridedParams)
	return p.Offset == o.Offset && slices.Equal(p.Size, o.Size) && slices.Equal(p.Stride, o.Stride)
}

func (p *AsStridedParams) clone() Params {
	return &AsStridedParams{Size: slices.Clone(p.Size), Stride: slices.Clone(p.Stride), Offset: p.Offset}
}

// DiagonalParams takes the diagonal with the given Offset of the plane formed by axes Dim1 and Dim2.
// Positive offsets select diagonals above the main one.
type DiagonalParams struct {
	Offset, Dim1, Dim2 int
}

// Kind implements Params.
func (p *DiagonalParams) Kind() Kind { return KindDiagonal }

// String implements Params.
func (p *DiagonalParams) String() string {
	return fmt.Sprintf("offset=%d, dim1=%d, dim2=%d", p.Offset, p.Dim1, p.Dim2)
}

func (p *DiagonalParams) equal(other Params) bool { return *p == *other.(*DiagonalParams) }
func (p *DiagonalParams) clone() Params          { c := *p; return &c }
