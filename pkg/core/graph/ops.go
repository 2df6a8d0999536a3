// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"fmt"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/lazyview/pkg/core/shapeinference"
	"github.com/gomlx/lazyview/pkg/core/shapes"
)

// mustNoError converts an error to a panic.
func mustNoError[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// ParameterInputs holds the inputs used for the call to Parameter.
type ParameterInputs struct {
	Name   string
	Handle ParameterHandle
}

// Type implements the interface NodeInputs.
func (ni *ParameterInputs) Type() NodeType {
	return NodeTypeParameter
}

// String implements the interface NodeInputs.
func (ni *ParameterInputs) String() string {
	return fmt.Sprintf("%s(name=%q)", ni.Type(), ni.Name)
}

// Parameter registers an input parameter for the Graph: typically the original (root) storage of a
// tensor, before any lazy update is applied to it.
//
// Parameters are never de-duplicated, and it panics if a parameter with the same name already exists.
// If name is empty, a unique one is generated.
func Parameter(g *Graph, name string, shape shapes.Shape) *Node {
	g.AssertValid()
	if !shape.Ok() {
		exceptions.Panicf("invalid shape %s for Parameter %q", shape, name)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	handle := ParameterHandle(len(g.parameters))
	if name == "" {
		name = fmt.Sprintf("parameter_#%d", handle)
	}
	if _, ok := g.parameterNameToHandle[name]; ok {
		exceptions.Panicf("requested parameter with name %q for graph %q already exists", name, g.name)
	}
	node := g.newNode(&ParameterInputs{Name: name, Handle: handle}, shape.Clone())
	g.parameters = append(g.parameters, node)
	g.parameterNameToHandle[name] = handle
	return node
}

// ParameterName returns the name of the parameter node. It panics if node is not a parameter.
func (n *Node) ParameterName() string {
	n.AssertValid()
	if n.Type() != NodeTypeParameter {
		exceptions.Panicf("trying to get ParameterName of a non-parameter node %q", n.Type())
	}
	return n.inputs.(*ParameterInputs).Name
}

// ScalarInputs holds the inputs used for the call to Scalar.
type ScalarInputs struct {
	Value float64
}

// Type implements the interface NodeInputs.
func (ni *ScalarInputs) Type() NodeType {
	return NodeTypeScalar
}

// String implements the interface NodeInputs.
func (ni *ScalarInputs) String() string {
	return fmt.Sprintf("%s(value=%g)", ni.Type(), ni.Value)
}

// Scalar returns a node with the given value broadcast to the given shape.
//
// Differently from a constant tensor, it doesn't materialize the broadcast value in the graph.
// Scalar nodes are never re-used.
func Scalar(g *Graph, value float64, shape shapes.Shape) *Node {
	g.AssertValid()
	if !shape.Ok() {
		exceptions.Panicf("invalid shape %s for Scalar(%g)", shape, value)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.newNode(&ScalarInputs{Value: value}, shape.Clone())
}

// AddInputs holds the inputs used for the call to Add. There are no static inputs.
type AddInputs struct{}

// Type implements the interface NodeInputs.
func (ni *AddInputs) Type() NodeType {
	return NodeTypeAdd
}

// String implements the interface NodeInputs.
func (ni *AddInputs) String() string {
	return ni.Type().String()
}

// EqualNodeData implements nodeDataComparable.
func (ni *AddInputs) EqualNodeData(_ nodeDataComparable) bool { return true }

// Add returns the element-wise sum of lhs and rhs. rhs can also be a scalar, in which case it is broadcast.
func Add(lhs, rhs *Node) *Node {
	lhs.AssertValid()
	g := lhs.Graph()
	shape := mustNoError(shapeinference.BinaryOp(lhs.Shape(), rhs.Shape()))
	node, _ := g.getOrCreateNode(&AddInputs{}, shape, lhs, rhs)
	return node
}
