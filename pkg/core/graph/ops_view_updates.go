// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"fmt"
	"slices"

	"github.com/gomlx/lazyview/pkg/core/shapeinference"
	"github.com/gomlx/lazyview/pkg/core/shapes"
)

// View updates are the inverse of views that select a subset of the elements of their operand: they take
// a target (the value before the update) and a source (the new content of the viewed region), and return
// the target with the viewed region replaced by source. The output always has the target's shape.
//
// All of them take the inputs (target, source), in this order.

// SelectViewUpdateInputs holds the static inputs of SelectViewUpdate. Axis is always normalized to be >= 0.
type SelectViewUpdateInputs struct {
	Axis, Start, End, Stride int
}

// Type implements the interface NodeInputs.
func (ni *SelectViewUpdateInputs) Type() NodeType {
	return NodeTypeSelectViewUpdate
}

// String implements the interface NodeInputs.
func (ni *SelectViewUpdateInputs) String() string {
	return fmt.Sprintf("%s(axis=%d, start=%d, end=%d, stride=%d)", ni.Type(), ni.Axis, ni.Start, ni.End, ni.Stride)
}

// EqualNodeData implements nodeDataComparable.
func (ni *SelectViewUpdateInputs) EqualNodeData(other nodeDataComparable) bool {
	return *ni == *other.(*SelectViewUpdateInputs)
}

// SelectViewUpdate writes source into the strided range [start, end) of the given axis of target.
// It is the inverse of Select.
func SelectViewUpdate(target, source *Node, axis, start, end, stride int) *Node {
	target.AssertValid()
	source.AssertValid()
	shape := mustNoError(shapeinference.SelectUpdateOp(target.Shape(), source.Shape(), axis, start, end, stride))
	inputs := &SelectViewUpdateInputs{
		Axis:   shapes.NormalizeAxis(axis, target.Rank()),
		Start:  start,
		End:    end,
		Stride: stride,
	}
	node, _ := target.Graph().getOrCreateNode(inputs, shape, target, source)
	return node
}

// NarrowViewUpdateInputs holds the static inputs of NarrowViewUpdate.
type NarrowViewUpdateInputs struct {
	Starts []int
}

// Type implements the interface NodeInputs.
func (ni *NarrowViewUpdateInputs) Type() NodeType {
	return NodeTypeNarrowViewUpdate
}

// String implements the interface NodeInputs.
func (ni *NarrowViewUpdateInputs) String() string {
	return fmt.Sprintf("%s(starts=%v)", ni.Type(), ni.Starts)
}

// EqualNodeData implements nodeDataComparable.
func (ni *NarrowViewUpdateInputs) EqualNodeData(other nodeDataComparable) bool {
	return slices.Equal(ni.Starts, other.(*NarrowViewUpdateInputs).Starts)
}

// NarrowViewUpdate writes source into target, at the per-axis offsets given by starts.
// It is the inverse of Narrow.
func NarrowViewUpdate(target, source *Node, starts []int) *Node {
	target.AssertValid()
	source.AssertValid()
	shape := mustNoError(shapeinference.NarrowUpdateOp(target.Shape(), source.Shape(), starts))
	node, _ := target.Graph().getOrCreateNode(&NarrowViewUpdateInputs{Starts: slices.Clone(starts)}, shape, target, source)
	return node
}

// AsStridedViewUpdateInputs holds the static inputs of AsStridedViewUpdate. The size of the strided
// window is given by the source shape.
type AsStridedViewUpdateInputs struct {
	Stride []int
	Offset int
}

// Type implements the interface NodeInputs.
func (ni *AsStridedViewUpdateInputs) Type() NodeType {
	return NodeTypeAsStridedViewUpdate
}

// String implements the interface NodeInputs.
func (ni *AsStridedViewUpdateInputs) String() string {
	return fmt.Sprintf("%s(stride=%v, offset=%d)", ni.Type(), ni.Stride, ni.Offset)
}

// EqualNodeData implements nodeDataComparable.
func (ni *AsStridedViewUpdateInputs) EqualNodeData(other nodeDataComparable) bool {
	o := other.(*AsStridedViewUpdateInputs)
	return ni.Offset == o.Offset && slices.Equal(ni.Stride, o.Stride)
}

// AsStridedViewUpdate scatters source into the row-major storage of target: element (i_0, ..., i_k) of
// source is written at storage position offset + sum(i_j * stride_j).
// It is the inverse of AsStrided. If the strided window overlaps itself, the last write (in row-major
// order of source) wins.
func AsStridedViewUpdate(target, source *Node, stride []int, offset int) *Node {
	target.AssertValid()
	source.AssertValid()
	shape := mustNoError(shapeinference.AsStridedUpdateOp(target.Shape(), source.Shape(), stride, offset))
	inputs := &AsStridedViewUpdateInputs{Stride: slices.Clone(stride), Offset: offset}
	node, _ := target.Graph().getOrCreateNode(inputs, shape, target, source)
	return node
}

// DiagonalViewUpdateInputs holds the static inputs of DiagonalViewUpdate. Axes are always normalized to be >= 0.
type DiagonalViewUpdateInputs struct {
	Offset, Axis1, Axis2 int
}

// Type implements the interface NodeInputs.
func (ni *DiagonalViewUpdateInputs) Type() NodeType {
	return NodeTypeDiagonalViewUpdate
}

// String implements the interface NodeInputs.
func (ni *DiagonalViewUpdateInputs) String() string {
	return fmt.Sprintf("%s(offset=%d, axis1=%d, axis2=%d)", ni.Type(), ni.Offset, ni.Axis1, ni.Axis2)
}

// EqualNodeData implements nodeDataComparable.
func (ni *DiagonalViewUpdateInputs) EqualNodeData(other nodeDataComparable) bool {
	return *ni == *other.(*DiagonalViewUpdateInputs)
}

// DiagonalViewUpdate writes source into the diagonal (with the given offset) of the plane formed by axis1
// and axis2 of target. It is the inverse of Diagonal.
func DiagonalViewUpdate(target, source *Node, offset, axis1, axis2 int) *Node {
	target.AssertValid()
	source.AssertValid()
	shape := mustNoError(shapeinference.DiagonalUpdateOp(target.Shape(), source.Shape(), offset, axis1, axis2))
	a1, a2 := mustNoError2(shapeinference.DiagonalAxes(target.Shape(), axis1, axis2))
	inputs := &DiagonalViewUpdateInputs{Offset: offset, Axis1: a1, Axis2: a2}
	node, _ := target.Graph().getOrCreateNode(inputs, shape, target, source)
	return node
}
