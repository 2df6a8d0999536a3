// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package eval

import (
	"slices"

	"github.com/gomlx/lazyview/pkg/core/graph"
	"github.com/gomlx/lazyview/pkg/core/shapes"
)

func init() {
	nodeExecutors[graph.NodeTypeScalar] = execScalar
	nodeExecutors[graph.NodeTypeAdd] = execAdd
	nodeExecutors[graph.NodeTypeSelect] = execSelect
	nodeExecutors[graph.NodeTypeNarrow] = execNarrow
	nodeExecutors[graph.NodeTypePermute] = execPermute
	nodeExecutors[graph.NodeTypeReshape] = execFlatCopy
	nodeExecutors[graph.NodeTypeSqueeze] = execFlatCopy
	nodeExecutors[graph.NodeTypeUnsqueeze] = execFlatCopy
	nodeExecutors[graph.NodeTypeResize] = execFlatCopy
	nodeExecutors[graph.NodeTypeAsStrided] = execAsStrided
	nodeExecutors[graph.NodeTypeDiagonal] = execDiagonal
	nodeExecutors[graph.NodeTypeSelectViewUpdate] = execSelectViewUpdate
	nodeExecutors[graph.NodeTypeNarrowViewUpdate] = execNarrowViewUpdate
	nodeExecutors[graph.NodeTypeAsStridedViewUpdate] = execAsStridedViewUpdate
	nodeExecutors[graph.NodeTypeDiagonalViewUpdate] = execDiagonalViewUpdate
}

// execScalar fills the output with the scalar value.
func execScalar(node *graph.Node, _ []*buffer) *buffer {
	output := newBuffer(node.Shape())
	value := node.StaticInputs().(*graph.ScalarInputs).Value
	for ii := range output.flat {
		output.flat[ii] = value
	}
	return output
}

// execAdd adds both inputs, broadcasting the rhs if it is a scalar.
func execAdd(node *graph.Node, inputs []*buffer) *buffer {
	lhs, rhs := inputs[0], inputs[1]
	output := newBuffer(node.Shape())
	for ii, v := range lhs.flat {
		if rhs.shape.IsScalar() {
			output.flat[ii] = v + rhs.flat[0]
		} else {
			output.flat[ii] = v + rhs.flat[ii]
		}
	}
	return output
}

// execFlatCopy implements the ops that keep the row-major storage (Reshape, Squeeze, Unsqueeze) or
// truncate/pad it with zeros (Resize).
func execFlatCopy(node *graph.Node, inputs []*buffer) *buffer {
	output := newBuffer(node.Shape())
	copy(output.flat, inputs[0].flat)
	return output
}

// gather sets each element of the output (with outputShape) from the operand element whose flat
// index is returned by operandIndex.
func gather(outputShape shapes.Shape, operand *buffer, operandIndex func(outputIndices []int) int) *buffer {
	output := newBuffer(outputShape)
	for flatIdx, indices := range outputShape.Iter() {
		output.flat[flatIdx] = operand.flat[operandIndex(indices)]
	}
	return output
}

// scatter returns a copy of target where each element of source is written at the flat index returned
// by targetIndex. Later elements (in row-major order of source) overwrite earlier ones.
func scatter(target, source *buffer, targetIndex func(sourceIndices []int) int) *buffer {
	output := &buffer{shape: target.shape, flat: slices.Clone(target.flat)}
	for flatIdx, indices := range source.shape.Iter() {
		output.flat[targetIndex(indices)] = source.flat[flatIdx]
	}
	return output
}

// selectIndex returns a function mapping indices of the selected view to the flat index in operand.
func selectIndex(operandShape shapes.Shape, axis, start, stride int) func([]int) int {
	strides := operandShape.Strides()
	return func(indices []int) int {
		flat := 0
		for ii, idx := range indices {
			if ii == axis {
				idx = start + idx*stride
			}
			flat += idx * strides[ii]
		}
		return flat
	}
}

func execSelect(node *graph.Node, inputs []*buffer) *buffer {
	p := node.StaticInputs().(*graph.SelectInputs)
	return gather(node.Shape(), inputs[0], selectIndex(inputs[0].shape, p.Axis, p.Start, p.Stride))
}

func execSelectViewUpdate(node *graph.Node, inputs []*buffer) *buffer {
	p := node.StaticInputs().(*graph.SelectViewUpdateInputs)
	target, source := inputs[0], inputs[1]
	return scatter(target, source, selectIndex(target.shape, p.Axis, p.Start, p.Stride))
}

// narrowIndex returns a function mapping indices of the narrowed window to the flat index in operand.
func narrowIndex(operandShape shapes.Shape, starts []int) func([]int) int {
	strides := operandShape.Strides()
	return func(indices []int) int {
		flat := 0
		for ii, idx := range indices {
			flat += (starts[ii] + idx) * strides[ii]
		}
		return flat
	}
}

func execNarrow(node *graph.Node, inputs []*buffer) *buffer {
	p := node.StaticInputs().(*graph.NarrowInputs)
	return gather(node.Shape(), inputs[0], narrowIndex(inputs[0].shape, p.Starts))
}

func execNarrowViewUpdate(node *graph.Node, inputs []*buffer) *buffer {
	p := node.StaticInputs().(*graph.NarrowViewUpdateInputs)
	target, source := inputs[0], inputs[1]
	return scatter(target, source, narrowIndex(target.shape, p.Starts))
}

func execPermute(node *graph.Node, inputs []*buffer) *buffer {
	permutation := node.StaticInputs().(*graph.PermuteInputs).Permutation
	strides := inputs[0].shape.Strides()
	return gather(node.Shape(), inputs[0], func(indices []int) int {
		flat := 0
		for ii, idx := range indices {
			flat += idx * strides[permutation[ii]]
		}
		return flat
	})
}

func execAsStrided(node *graph.Node, inputs []*buffer) *buffer {
	p := node.StaticInputs().(*graph.AsStridedInputs)
	return gather(node.Shape(), inputs[0], func(indices []int) int {
		return shapes.FlatIndex(p.Offset, indices, p.Stride)
	})
}

func execAsStridedViewUpdate(node *graph.Node, inputs []*buffer) *buffer {
	p := node.StaticInputs().(*graph.AsStridedViewUpdateInputs)
	return scatter(inputs[0], inputs[1], func(indices []int) int {
		return shapes.FlatIndex(p.Offset, indices, p.Stride)
	})
}

// diagonalIndex returns a function mapping indices of the diagonal view (the other axes in order, followed
// by the position in the diagonal) to the flat index in operand.
func diagonalIndex(operandShape shapes.Shape, offset, axis1, axis2 int) func([]int) int {
	strides := operandShape.Strides()
	rank := operandShape.Rank()
	row0, col0 := 0, offset
	if offset < 0 {
		row0, col0 = -offset, 0
	}
	return func(indices []int) int {
		k := indices[len(indices)-1]
		flat := (row0+k)*strides[axis1] + (col0+k)*strides[axis2]
		viewAxis := 0
		for axis := range rank {
			if axis == axis1 || axis == axis2 {
				continue
			}
			flat += indices[viewAxis] * strides[axis]
			viewAxis++
		}
		return flat
	}
}

func execDiagonal(node *graph.Node, inputs []*buffer) *buffer {
	p := node.StaticInputs().(*graph.DiagonalInputs)
	return gather(node.Shape(), inputs[0], diagonalIndex(inputs[0].shape, p.Offset, p.Axis1, p.Axis2))
}

func execDiagonalViewUpdate(node *graph.Node, inputs []*buffer) *buffer {
	p := node.StaticInputs().(*graph.DiagonalViewUpdateInputs)
	target, source := inputs[0], inputs[1]
	return scatter(target, source, diagonalIndex(target.shape, p.Offset, p.Axis1, p.Axis2))
}
