// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"fmt"
	"slices"

	"github.com/gomlx/lazyview/pkg/core/shapeinference"
	"github.com/gomlx/lazyview/pkg/core/shapes"
)

// SelectInputs holds the static inputs of Select. Axis is always normalized to be >= 0.
type SelectInputs struct {
	Axis, Start, End, Stride int
}

// Type implements the interface NodeInputs.
func (ni *SelectInputs) Type() NodeType {
	return NodeTypeSelect
}

// String implements the interface NodeInputs.
func (ni *SelectInputs) String() string {
	return fmt.Sprintf("%s(axis=%d, start=%d, end=%d, stride=%d)", ni.Type(), ni.Axis, ni.Start, ni.End, ni.Stride)
}

// EqualNodeData implements nodeDataComparable.
func (ni *SelectInputs) EqualNodeData(other nodeDataComparable) bool {
	return *ni == *other.(*SelectInputs)
}

// Select returns the view of the range [start, end) with the given stride over the given axis of operand.
// The axis keeps existing in the output, with dimension ceil((end-start)/stride).
func Select(operand *Node, axis, start, end, stride int) *Node {
	operand.AssertValid()
	shape := mustNoError(shapeinference.SelectOp(operand.Shape(), axis, start, end, stride))
	inputs := &SelectInputs{
		Axis:   shapes.NormalizeAxis(axis, operand.Rank()),
		Start:  start,
		End:    end,
		Stride: stride,
	}
	node, _ := operand.Graph().getOrCreateNode(inputs, shape, operand)
	return node
}

// NarrowInputs holds the static inputs of Narrow. The sizes of the window are given by the output shape.
type NarrowInputs struct {
	Starts []int
}

// Type implements the interface NodeInputs.
func (ni *NarrowInputs) Type() NodeType {
	return NodeTypeNarrow
}

// String implements the interface NodeInputs.
func (ni *NarrowInputs) String() string {
	return fmt.Sprintf("%s(starts=%v)", ni.Type(), ni.Starts)
}

// EqualNodeData implements nodeDataComparable.
func (ni *NarrowInputs) EqualNodeData(other nodeDataComparable) bool {
	return slices.Equal(ni.Starts, other.(*NarrowInputs).Starts)
}

// Narrow returns the window of operand starting at the per-axis offsets starts, with the given sizes.
func Narrow(operand *Node, starts, sizes []int) *Node {
	operand.AssertValid()
	shape := mustNoError(shapeinference.NarrowOp(operand.Shape(), starts, sizes))
	node, _ := operand.Graph().getOrCreateNode(&NarrowInputs{Starts: slices.Clone(starts)}, shape, operand)
	return node
}

// PermuteInputs holds the static inputs of Permute.
type PermuteInputs struct {
	Permutation []int
}

// Type implements the interface NodeInputs.
func (ni *PermuteInputs) Type() NodeType {
	return NodeTypePermute
}

// String implements the interface NodeInputs.
func (ni *PermuteInputs) String() string {
	return fmt.Sprintf("%s(permutation=%v)", ni.Type(), ni.Permutation)
}

// EqualNodeData implements nodeDataComparable.
func (ni *PermuteInputs) EqualNodeData(other nodeDataComparable) bool {
	return slices.Equal(ni.Permutation, other.(*PermuteInputs).Permutation)
}

// Permute the axes of operand: output axis i is operand axis permutation[i].
func Permute(operand *Node, permutation ...int) *Node {
	operand.AssertValid()
	shape := mustNoError(shapeinference.PermuteOp(operand.Shape(), permutation))
	node, _ := operand.Graph().getOrCreateNode(&PermuteInputs{Permutation: slices.Clone(permutation)}, shape, operand)
	return node
}

// ReshapeInputs holds the static inputs of Reshape.
type ReshapeInputs struct {
	Dimensions []int
}

// Type implements the interface NodeInputs.
func (ni *ReshapeInputs) Type() NodeType {
	return NodeTypeReshape
}

// String implements the interface NodeInputs.
func (ni *ReshapeInputs) String() string {
	return fmt.Sprintf("%s(dimensions=%v)", ni.Type(), ni.Dimensions)
}

// EqualNodeData implements nodeDataComparable.
func (ni *ReshapeInputs) EqualNodeData(other nodeDataComparable) bool {
	return slices.Equal(ni.Dimensions, other.(*ReshapeInputs).Dimensions)
}

// Reshape operand to the given dimensions, which must have the same total size.
func Reshape(operand *Node, dimensions ...int) *Node {
	operand.AssertValid()
	shape := mustNoError(shapeinference.ReshapeOp(operand.Shape(), dimensions))
	node, _ := operand.Graph().getOrCreateNode(&ReshapeInputs{Dimensions: slices.Clone(dimensions)}, shape, operand)
	return node
}

// ResizeInputs holds the static inputs of Resize.
type ResizeInputs struct {
	Dimensions []int
}

// Type implements the interface NodeInputs.
func (ni *ResizeInputs) Type() NodeType {
	return NodeTypeResize
}

// String implements the interface NodeInputs.
func (ni *ResizeInputs) String() string {
	return fmt.Sprintf("%s(dimensions=%v)", ni.Type(), ni.Dimensions)
}

// EqualNodeData implements nodeDataComparable.
func (ni *ResizeInputs) EqualNodeData(other nodeDataComparable) bool {
	return slices.Equal(ni.Dimensions, other.(*ResizeInputs).Dimensions)
}

// Resize operand to the given dimensions, interpreting its row-major storage as flat: it is truncated if the
// new size is smaller, or padded with zeros if it is larger.
func Resize(operand *Node, dimensions ...int) *Node {
	operand.AssertValid()
	shape := mustNoError(shapeinference.ResizeOp(operand.Shape(), dimensions))
	node, _ := operand.Graph().getOrCreateNode(&ResizeInputs{Dimensions: slices.Clone(dimensions)}, shape, operand)
	return node
}

// SqueezeInputs holds the static inputs of Squeeze. Axis is always normalized to be >= 0.
type SqueezeInputs struct {
	Axis int
}

// Type implements the interface NodeInputs.
func (ni *SqueezeInputs) Type() NodeType {
	return NodeTypeSqueeze
}

// String implements the interface NodeInputs.
func (ni *SqueezeInputs) String() string {
	return fmt.Sprintf("%s(axis=%d)", ni.Type(), ni.Axis)
}

// EqualNodeData implements nodeDataComparable.
func (ni *SqueezeInputs) EqualNodeData(other nodeDataComparable) bool {
	return *ni == *other.(*SqueezeInputs)
}

// Squeeze removes the given axis of operand, which must have dimension 1.
func Squeeze(operand *Node, axis int) *Node {
	operand.AssertValid()
	shape := mustNoError(shapeinference.SqueezeOp(operand.Shape(), axis))
	inputs := &SqueezeInputs{Axis: shapes.NormalizeAxis(axis, operand.Rank())}
	node, _ := operand.Graph().getOrCreateNode(inputs, shape, operand)
	return node
}

// UnsqueezeInputs holds the static inputs of Unsqueeze. Axis is always normalized to be >= 0.
type UnsqueezeInputs struct {
	Axis int
}

// Type implements the interface NodeInputs.
func (ni *UnsqueezeInputs) Type() NodeType {
	return NodeTypeUnsqueeze
}

// String implements the interface NodeInputs.
func (ni *UnsqueezeInputs) String() string {
	return fmt.Sprintf("%s(axis=%d)", ni.Type(), ni.Axis)
}

// EqualNodeData implements nodeDataComparable.
func (ni *UnsqueezeInputs) EqualNodeData(other nodeDataComparable) bool {
	return *ni == *other.(*UnsqueezeInputs)
}

// Unsqueeze inserts a new axis of dimension 1 at the given position of operand.
func Unsqueeze(operand *Node, axis int) *Node {
	operand.AssertValid()
	shape := mustNoError(shapeinference.UnsqueezeOp(operand.Shape(), axis))
	inputs := &UnsqueezeInputs{Axis: shapes.NormalizeAxis(axis, operand.Rank()+1)}
	node, _ := operand.Graph().getOrCreateNode(inputs, shape, operand)
	return node
}

// AsStridedInputs holds the static inputs of AsStrided. The size is given by the output shape.
type AsStridedInputs struct {
	Stride []int
	Offset int
}

// Type implements the interface NodeInputs.
func (ni *AsStridedInputs) Type() NodeType {
	return NodeTypeAsStrided
}

// String implements the interface NodeInputs.
func (ni *AsStridedInputs) String() string {
	return fmt.Sprintf("%s(stride=%v, offset=%d)", ni.Type(), ni.Stride, ni.Offset)
}

// EqualNodeData implements nodeDataComparable.
func (ni *AsStridedInputs) EqualNodeData(other nodeDataComparable) bool {
	o := other.(*AsStridedInputs)
	return ni.Offset == o.Offset && slices.Equal(ni.Stride, o.Stride)
}

// AsStrided reinterprets the row-major storage of operand as a tensor of the given size, where element
// at indices (i_0, ..., i_k) is storage[offset + sum(i_j * stride_j)].
func AsStrided(operand *Node, size, stride []int, offset int) *Node {
	operand.AssertValid()
	shape := mustNoError(shapeinference.AsStridedOp(operand.Shape(), size, stride, offset))
	inputs := &AsStridedInputs{Stride: slices.Clone(stride), Offset: offset}
	node, _ := operand.Graph().getOrCreateNode(inputs, shape, operand)
	return node
}

// DiagonalInputs holds the static inputs of Diagonal. Axes are always normalized to be >= 0.
type DiagonalInputs struct {
	Offset, Axis1, Axis2 int
}

// Type implements the interface NodeInputs.
func (ni *DiagonalInputs) Type() NodeType {
	return NodeTypeDiagonal
}

// String implements the interface NodeInputs.
func (ni *DiagonalInputs) String() string {
	return fmt.Sprintf("%s(offset=%d, axis1=%d, axis2=%d)", ni.Type(), ni.Offset, ni.Axis1, ni.Axis2)
}

// EqualNodeData implements nodeDataComparable.
func (ni *DiagonalInputs) EqualNodeData(other nodeDataComparable) bool {
	return *ni == *other.(*DiagonalInputs)
}

// Diagonal returns the diagonal (with the given offset) of the plane formed by axis1 and axis2 of operand.
// Both axes are removed and the diagonal is appended as the last axis of the output.
func Diagonal(operand *Node, offset, axis1, axis2 int) *Node {
	operand.AssertValid()
	shape := mustNoError(shapeinference.DiagonalOp(operand.Shape(), offset, axis1, axis2))
	a1, a2 := mustNoError2(shapeinference.DiagonalAxes(operand.Shape(), axis1, axis2))
	node, _ := operand.Graph().getOrCreateNode(&DiagonalInputs{Offset: offset, Axis1: a1, Axis2: a2}, shape, operand)
	return node
}

// mustNoError2 converts an error to a panic, for functions returning two values.
func mustNoError2[T1, T2 any](v1 T1, v2 T2, err error) (T1, T2) {
	if err != nil {
		panic(err)
	}
	return v1, v2
}
