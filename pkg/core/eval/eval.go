// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package eval is a reference evaluator for lazy view graphs: it computes the numeric value of a graph.Node,
// given the values of its parameters as gorgonia.org/tensor dense tensors.
//
// It is a straightforward sequential interpreter, meant for testing and debugging: values are computed
// in float64, and converted to the DType of the node only at the output. Float16 outputs are rounded
// to float16 precision and returned as float32, since gorgonia tensors have no half-precision type.
package eval

import (
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/lazyview/pkg/core/graph"
	"github.com/gomlx/lazyview/pkg/core/shapes"
	"github.com/pkg/errors"
	"github.com/x448/float16"
	"gorgonia.org/tensor"
	"k8s.io/klog/v2"
)

// buffer holds the value of a node during evaluation.
type buffer struct {
	shape shapes.Shape
	flat  []float64
}

func newBuffer(shape shapes.Shape) *buffer {
	return &buffer{shape: shape, flat: make([]float64, shape.Size())}
}

// nodeExecutor computes the value of node given the values of its inputs.
type nodeExecutor func(node *graph.Node, inputs []*buffer) *buffer

// nodeExecutors is populated during initialization (`init` functions) for the node types implemented.
var nodeExecutors = make(map[graph.NodeType]nodeExecutor)

// Evaluate computes the value of node. feeds holds the value of each parameter the node depends on,
// indexed by parameter name.
//
// Graph nodes are evaluated in creation order, each one once, so shared sub-expressions are computed
// only once.
func Evaluate(node *graph.Node, feeds map[string]*tensor.Dense) (result *tensor.Dense, err error) {
	var output *buffer
	err = exceptions.TryCatch[error](func() { output = evaluate(node, feeds) })
	if err != nil {
		return nil, errors.WithMessagef(err, "while evaluating node %s", node)
	}
	return toDense(output), nil
}

// EvaluateFlat is like Evaluate, but it returns the flat values (row-major) as float64, without converting
// to the node DType.
func EvaluateFlat(node *graph.Node, feeds map[string]*tensor.Dense) (flat []float64, err error) {
	var output *buffer
	err = exceptions.TryCatch[error](func() { output = evaluate(node, feeds) })
	if err != nil {
		return nil, errors.WithMessagef(err, "while evaluating node %s", node)
	}
	return output.flat, nil
}

// evaluate panics with an error on failure.
func evaluate(node *graph.Node, feeds map[string]*tensor.Dense) *buffer {
	node.AssertValid()

	// Collect nodes node depends on: node ids are in topological order.
	visited := make(map[graph.NodeId]*graph.Node)
	var visit func(n *graph.Node)
	visit = func(n *graph.Node) {
		if _, found := visited[n.Id()]; found {
			return
		}
		visited[n.Id()] = n
		for _, input := range n.Inputs() {
			visit(input)
		}
	}
	visit(node)
	order := make([]*graph.Node, 0, len(visited))
	for _, n := range visited {
		order = append(order, n)
	}
	slices.SortFunc(order, func(a, b *graph.Node) int { return int(a.Id()) - int(b.Id()) })
	klog.V(2).Infof("eval: evaluating %d nodes of graph %q", len(order), node.Graph().Name())

	results := make(map[graph.NodeId]*buffer, len(order))
	for _, n := range order {
		var output *buffer
		if n.Type() == graph.NodeTypeParameter {
			output = feedBuffer(n, feeds)
		} else {
			executor, found := nodeExecutors[n.Type()]
			if !found {
				exceptions.Panicf("eval: node type %s not implemented", n.Type())
			}
			inputs := make([]*buffer, len(n.Inputs()))
			for ii, input := range n.Inputs() {
				inputs[ii] = results[input.Id()]
			}
			output = executor(n, inputs)
		}
		if len(output.flat) != n.Shape().Size() {
			exceptions.Panicf("eval: node %s produced %d values, expected %d", n, len(output.flat), n.Shape().Size())
		}
		results[n.Id()] = output
	}
	return results[node.Id()]
}

// feedBuffer converts the feed for the parameter node to a buffer.
func feedBuffer(node *graph.Node, feeds map[string]*tensor.Dense) *buffer {
	name := node.ParameterName()
	dense, found := feeds[name]
	if !found || dense == nil {
		exceptions.Panicf("eval: missing value for parameter %q", name)
	}
	shape := node.Shape()
	if !slices.Equal([]int(dense.Shape()), shape.Dimensions) && !(shape.Rank() == 0 && dense.IsScalar()) {
		exceptions.Panicf("eval: value for parameter %q has dimensions %v, but parameter has shape %s",
			name, dense.Shape(), shape)
	}
	var flat []float64
	switch data := dense.Data().(type) {
	case []float64:
		flat = slices.Clone(data)
	case []float32:
		flat = toFloat64(data)
	case []int:
		flat = toFloat64(data)
	case []int64:
		flat = toFloat64(data)
	case []int32:
		flat = toFloat64(data)
	case float64:
		flat = []float64{data}
	case float32:
		flat = []float64{float64(data)}
	case int:
		flat = []float64{float64(data)}
	case int64:
		flat = []float64{float64(data)}
	case int32:
		flat = []float64{float64(data)}
	default:
		exceptions.Panicf("eval: parameter %q given with unsupported data type %T", name, data)
	}
	if len(flat) != shape.Size() {
		exceptions.Panicf("eval: value for parameter %q has %d elements, but shape %s requires %d",
			name, len(flat), shape, shape.Size())
	}
	return &buffer{shape: shape, flat: flat}
}

func toFloat64[T float32 | float64 | int | int64 | int32](values []T) []float64 {
	flat := make([]float64, len(values))
	for ii, v := range values {
		flat[ii] = float64(v)
	}
	return flat
}

func convertFlat[T float32 | float64 | int64 | int32](flat []float64) []T {
	values := make([]T, len(flat))
	for ii, v := range flat {
		values[ii] = T(v)
	}
	return values
}

// toDense converts the buffer to a tensor with the Go type matching its DType.
func toDense(buf *buffer) *tensor.Dense {
	var backing any
	switch buf.shape.DType {
	case dtypes.Float32:
		backing = convertFlat[float32](buf.flat)
	case dtypes.Float16:
		values := make([]float32, len(buf.flat))
		for ii, v := range buf.flat {
			values[ii] = float16.Fromfloat32(float32(v)).Float32()
		}
		backing = values
	case dtypes.Int64:
		backing = convertFlat[int64](buf.flat)
	case dtypes.Int32:
		backing = convertFlat[int32](buf.flat)
	default:
		backing = slices.Clone(buf.flat)
	}
	if buf.shape.IsScalar() {
		return tensor.New(tensor.FromScalar(scalarOf(backing)))
	}
	return tensor.New(tensor.WithShape(buf.shape.Dimensions...), tensor.WithBacking(backing))
}

// scalarOf returns the only element of a flat slice.
func scalarOf(backing any) any {
	switch values := backing.(type) {
	case []float64:
		return values[0]
	case []float32:
		return values[0]
	case []int64:
		return values[0]
	case []int32:
		return values[0]
	}
	exceptions.Panicf("eval: unexpected backing type %T", backing)
	return nil
}
