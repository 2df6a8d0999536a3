// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package shapeinference calculates the shape resulting from view operations and validates its inputs.
//
// There is one function per view operation (the forward transform) and one per view update (the
// inverse "scatter into the target" transform). Update ops always return the shape of their target,
// after validating that the source has the shape the corresponding forward op would produce.
//
// Functions here return errors; callers building graphs convert them to panics.
package shapeinference

import (
	"math"
	"slices"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/lazyview/pkg/core/shapes"
	"github.com/pkg/errors"
)

func checkOperand(opName string, operand shapes.Shape) error {
	if operand.DType == dtypes.InvalidDType {
		return errors.Errorf("%s: invalid operand shape %s", opName, operand)
	}
	return nil
}

// normalizeAxis adjusts negative axes and checks that the axis is within [0, rank).
func normalizeAxis(opName string, operand shapes.Shape, axis int) (int, error) {
	rank := operand.Rank()
	adjusted := shapes.NormalizeAxis(axis, rank)
	if adjusted < 0 || adjusted >= rank {
		return 0, errors.Errorf("%s: axis %d out-of-bounds for operand shape %s", opName, axis, operand)
	}
	return adjusted, nil
}

// SelectOp calculates the output shape of selecting the range [start, end) with the given stride
// on axis dim.
//
// The selected axis gets dimension ceil((end-start)/stride). Notice start can be equal to end, which yields
// an empty axis.
func SelectOp(operand shapes.Shape, dim, start, end, stride int) (output shapes.Shape, err error) {
	opName := "SelectOp"
	if err = checkOperand(opName, operand); err != nil {
		return shapes.Invalid(), err
	}
	axis, err := normalizeAxis(opName, operand, dim)
	if err != nil {
		return shapes.Invalid(), err
	}
	if stride <= 0 {
		return shapes.Invalid(), errors.Errorf("%s: stride must be positive, got %d for operand shape %s",
			opName, stride, operand)
	}
	dimSize := operand.Dimensions[axis]
	if start < 0 || start > dimSize {
		return shapes.Invalid(), errors.Errorf("%s: start index %d is out of bounds for axis %d with size %d (operand shape %s)",
			opName, start, axis, dimSize, operand)
	}
	if end < start || end > dimSize {
		return shapes.Invalid(), errors.Errorf("%s: end index %d is out of bounds for axis %d (start=%d, size=%d, operand shape %s)",
			opName, end, axis, start, dimSize, operand)
	}
	output = operand.Clone()
	output.Dimensions[axis] = 0
	if end > start {
		// Ceiling of the division, without overflowing for large strides.
		output.Dimensions[axis] = (end-start-1)/stride + 1
	}
	return output, nil
}

// NarrowOp calculates the output shape of taking a window of the given sizes starting at the
// given per-axis offsets.
func NarrowOp(operand shapes.Shape, starts, sizes []int) (output shapes.Shape, err error) {
	opName := "NarrowOp"
	if err = checkOperand(opName, operand); err != nil {
		return shapes.Invalid(), err
	}
	rank := operand.Rank()
	if len(starts) != rank || len(sizes) != rank {
		return shapes.Invalid(), errors.Errorf("%s: len(starts)=%d and len(sizes)=%d must match the operand rank %d",
			opName, len(starts), len(sizes), rank)
	}
	for axis := range rank {
		start, size, dimSize := starts[axis], sizes[axis], operand.Dimensions[axis]
		if start < 0 || size < 0 || start+size > dimSize {
			return shapes.Invalid(), errors.Errorf("%s: window [%d, %d) out of bounds for axis %d of operand shape %s",
				opName, start, start+size, axis, operand)
		}
	}
	return shapes.Make(operand.DType, sizes...), nil
}

// PermuteOp permutes all axes of the operand.
// There must be one value in permutation for each axis in the operand.
// The output will have: output.Dimensions[ii] = operand.Dimensions[permutation[ii]].
func PermuteOp(operand shapes.Shape, permutation []int) (output shapes.Shape, err error) {
	opName := "PermuteOp"
	if err = checkOperand(opName, operand); err != nil {
		return shapes.Invalid(), err
	}
	rank := operand.Rank()
	if len(permutation) != rank {
		return shapes.Invalid(), errors.Errorf(
			"%s requires all axes permutations to be defined, operand has shape %s, but %d permutations were given",
			opName, operand, len(permutation))
	}
	if rank == 0 {
		return operand, nil
	}

	// Check permutation axes are within range and unique.
	axesSet := slices.Clone(permutation)
	slices.Sort(axesSet)
	for ii, srcAxis := range axesSet {
		if srcAxis < 0 || srcAxis >= rank {
			return shapes.Invalid(), errors.Errorf(
				"invalid permutation axis %d given to %s(%s), it must be within the range of its rank",
				srcAxis, opName, operand)
		}
		if ii > 0 && srcAxis == axesSet[ii-1] {
			return shapes.Invalid(), errors.Errorf(
				"invalid permutation given to %s(%s, %v), there cannot be any repeated axis, each must appear exactly once",
				opName, operand, permutation)
		}
	}

	output = operand.Clone()
	for axis := range output.Dimensions {
		output.Dimensions[axis] = operand.Dimensions[permutation[axis]]
	}
	return
}

// InversePermutation returns the permutation that undoes the given one.
// It assumes permutation is valid (see PermuteOp).
func InversePermutation(permutation []int) []int {
	inverse := make([]int, len(permutation))
	for axis, srcAxis := range permutation {
		inverse[srcAxis] = axis
	}
	return inverse
}

// ReshapeOp to the given dimensions: trivial output shape, but this function also checks
// that the sizes are the same.
func ReshapeOp(operand shapes.Shape, dims []int) (output shapes.Shape, err error) {
	opName := "ReshapeOp"
	if err = checkOperand(opName, operand); err != nil {
		return shapes.Invalid(), err
	}
	if slices.ContainsFunc(dims, func(d int) bool { return d < 0 }) {
		return shapes.Invalid(), errors.Errorf("%s: cannot reshape %s to negative dimensions %v", opName, operand, dims)
	}
	output = shapes.Make(operand.DType, dims...)
	if operand.Size() != output.Size() {
		return shapes.Invalid(), errors.Errorf("%s: cannot reshape %s to dimensions %v, their size don't match",
			opName, operand, dims)
	}
	return
}

// ResizeOp to the given dimensions. Differently from ReshapeOp the total size can change: the storage is
// truncated or extended.
func ResizeOp(operand shapes.Shape, dims []int) (output shapes.Shape, err error) {
	opName := "ResizeOp"
	if err = checkOperand(opName, operand); err != nil {
		return shapes.Invalid(), err
	}
	if slices.ContainsFunc(dims, func(d int) bool { return d < 0 }) {
		return shapes.Invalid(), errors.Errorf("%s: cannot resize %s to negative dimensions %v", opName, operand, dims)
	}
	return shapes.Make(operand.DType, dims...), nil
}

// SqueezeOp removes the given axis, which must have dimension 1.
func SqueezeOp(operand shapes.Shape, axis int) (output shapes.Shape, err error) {
	opName := "SqueezeOp"
	if err = checkOperand(opName, operand); err != nil {
		return shapes.Invalid(), err
	}
	adjusted, err := normalizeAxis(opName, operand, axis)
	if err != nil {
		return shapes.Invalid(), err
	}
	if operand.Dimensions[adjusted] != 1 {
		return shapes.Invalid(), errors.Errorf("%s: axis %d of %s has dimension %d, only axes of dimension 1 can be squeezed",
			opName, axis, operand, operand.Dimensions[adjusted])
	}
	output = shapes.Make(operand.DType, slices.Delete(slices.Clone(operand.Dimensions), adjusted, adjusted+1)...)
	return
}

// UnsqueezeOp inserts a new axis of dimension 1 at the given position. axis can be in the range [-(rank+1), rank].
func UnsqueezeOp(operand shapes.Shape, axis int) (output shapes.Shape, err error) {
	opName := "UnsqueezeOp"
	if err = checkOperand(opName, operand); err != nil {
		return shapes.Invalid(), err
	}
	rank := operand.Rank()
	adjusted := shapes.NormalizeAxis(axis, rank+1)
	if adjusted < 0 || adjusted > rank {
		return shapes.Invalid(), errors.Errorf("%s: axis %d out-of-bounds for operand shape %s", opName, axis, operand)
	}
	output = shapes.Make(operand.DType, slices.Insert(slices.Clone(operand.Dimensions), adjusted, 1)...)
	return
}

// AsStridedOp reinterprets the row-major storage of operand as a tensor with the given size, strides and
// storage offset. It checks that every addressed element is within the operand storage.
func AsStridedOp(operand shapes.Shape, size, stride []int, offset int) (output shapes.Shape, err error) {
	opName := "AsStridedOp"
	if err = checkOperand(opName, operand); err != nil {
		return shapes.Invalid(), err
	}
	if len(size) != len(stride) {
		return shapes.Invalid(), errors.Errorf("%s: len(size)=%d must match len(stride)=%d", opName, len(size), len(stride))
	}
	if offset < 0 {
		return shapes.Invalid(), errors.Errorf("%s: storage offset must be >= 0, got %d", opName, offset)
	}
	for axis := range size {
		if size[axis] < 0 || stride[axis] < 0 {
			return shapes.Invalid(), errors.Errorf("%s: size %v and stride %v must be non-negative", opName, size, stride)
		}
	}
	output = shapes.Make(operand.DType, size...)
	if output.IsZeroSize() {
		return output, nil
	}
	maxIndex := offset
	for axis := range size {
		if size[axis] > 1 && stride[axis] > (math.MaxInt-maxIndex)/(size[axis]-1) {
			return shapes.Invalid(), errors.Errorf(
				"%s: size=%v, stride=%v, offset=%d address elements beyond the int range, out of bounds of operand storage %s",
				opName, size, stride, offset, operand)
		}
		maxIndex += (size[axis] - 1) * stride[axis]
	}
	if maxIndex >= operand.Size() {
		return shapes.Invalid(), errors.Errorf(
			"%s: size=%v, stride=%v, offset=%d address element %d, out of bounds of operand storage %s",
			opName, size, stride, offset, maxIndex, operand)
	}
	return output, nil
}

// DiagonalAxes returns the normalized (dim1, dim2) axes of a diagonal, or an error if they are invalid.
func DiagonalAxes(operand shapes.Shape, dim1, dim2 int) (axis1, axis2 int, err error) {
	opName := "DiagonalOp"
	if operand.Rank() < 2 {
		return 0, 0, errors.Errorf("%s: operand must have rank >= 2, got %s", opName, operand)
	}
	if axis1, err = normalizeAxis(opName, operand, dim1); err != nil {
		return
	}
	if axis2, err = normalizeAxis(opName, operand, dim2); err != nil {
		return
	}
	if axis1 == axis2 {
		err = errors.Errorf("%s: dim1=%d and dim2=%d refer to the same axis of %s", opName, dim1, dim2, operand)
	}
	return
}

// DiagonalLength returns the number of elements in the diagonal with the given offset of a matrix
// with dimensions (rows, cols). A positive offset selects diagonals above the main one.
func DiagonalLength(rows, cols, offset int) int {
	var length int
	if offset >= 0 {
		length = min(rows, cols-offset)
	} else {
		length = min(rows+offset, cols)
	}
	return max(length, 0)
}

// DiagonalOp calculates the output shape of taking the diagonal (with the given offset) of the plane
// formed by axes dim1 and dim2. Both axes are removed, and a new last axis with the diagonal is appended.
func DiagonalOp(operand shapes.Shape, offset, dim1, dim2 int) (output shapes.Shape, err error) {
	if err = checkOperand("DiagonalOp", operand); err != nil {
		return shapes.Invalid(), err
	}
	axis1, axis2, err := DiagonalAxes(operand, dim1, dim2)
	if err != nil {
		return shapes.Invalid(), err
	}
	dims := make([]int, 0, operand.Rank()-1)
	for axis, dim := range operand.Dimensions {
		if axis != axis1 && axis != axis2 {
			dims = append(dims, dim)
		}
	}
	dims = append(dims, DiagonalLength(operand.Dimensions[axis1], operand.Dimensions[axis2], offset))
	return shapes.Make(operand.DType, dims...), nil
}

// checkUpdate validates that source has the shape expected (as computed by the forward op on target),
// and returns the target shape.
func checkUpdate(opName string, target, source, expected shapes.Shape, forwardErr error) (shapes.Shape, error) {
	if forwardErr != nil {
		return shapes.Invalid(), errors.WithMessagef(forwardErr, "%s", opName)
	}
	if !source.Equal(expected) {
		return shapes.Invalid(), errors.Errorf("%s: source shape %s doesn't match the viewed shape %s of target %s",
			opName, source, expected, target)
	}
	return target.Clone(), nil
}

// SelectUpdateOp validates writing source into the [start, end) strided range of axis dim of target.
func SelectUpdateOp(target, source shapes.Shape, dim, start, end, stride int) (shapes.Shape, error) {
	expected, err := SelectOp(target, dim, start, end, stride)
	return checkUpdate("SelectUpdateOp", target, source, expected, err)
}

// NarrowUpdateOp validates writing source into target at the given per-axis offsets.
func NarrowUpdateOp(target, source shapes.Shape, starts []int) (shapes.Shape, error) {
	expected, err := NarrowOp(target, starts, source.Dimensions)
	return checkUpdate("NarrowUpdateOp", target, source, expected, err)
}

// AsStridedUpdateOp validates scattering source into the storage of target using source's dimensions
// as the size and the given strides and storage offset.
func AsStridedUpdateOp(target, source shapes.Shape, stride []int, offset int) (shapes.Shape, error) {
	expected, err := AsStridedOp(target, source.Dimensions, stride, offset)
	return checkUpdate("AsStridedUpdateOp", target, source, expected, err)
}

// DiagonalUpdateOp validates writing source into the diagonal of target.
func DiagonalUpdateOp(target, source shapes.Shape, offset, dim1, dim2 int) (shapes.Shape, error) {
	expected, err := DiagonalOp(target, offset, dim1, dim2)
	return checkUpdate("DiagonalUpdateOp", target, source, expected, err)
}

// BinaryOp returns the output shape of an element-wise binary operation: both operands must have the same
// dtype, and either the same dimensions or the rhs must be a scalar (broadcast).
func BinaryOp(lhsShape, rhsShape shapes.Shape) (output shapes.Shape, err error) {
	if lhsShape.DType == dtypes.InvalidDType || rhsShape.DType == dtypes.InvalidDType {
		return shapes.Invalid(), errors.Errorf("invalid shape for operands of BinaryOp: lhs=%s, rhs=%s", lhsShape, rhsShape)
	}
	if lhsShape.DType != rhsShape.DType {
		return shapes.Invalid(), errors.Errorf("data types (DType) for BinaryOp must match, got lhs=%s and rhs=%s",
			lhsShape, rhsShape)
	}
	if !rhsShape.IsScalar() && !lhsShape.EqualDimensions(rhsShape) {
		return shapes.Invalid(), errors.Errorf("BinaryOp requires equal dimensions (or a scalar rhs), got lhs=%s and rhs=%s",
			lhsShape, rhsShape)
	}
	return lhsShape.Clone(), nil
}
