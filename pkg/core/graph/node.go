// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"fmt"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/lazyview/pkg/core/shapes"
)

// Node represents the result of an operation in the lazy graph, and can be used as input to further operations.
//
// Nodes are immutable once created, and two nodes can be compared by identity: the Graph de-duplicates
// nodes, so structurally equal operations over the same operands are the same *Node.
type Node struct {
	graph *Graph
	id    NodeId // id within graph.
	shape shapes.Shape

	// inputNodes are the edges of the computation graph.
	// Notice that other static inputs to the node are registered in inputs.
	inputNodes []*Node

	// inputs holds the static parameters of the operation, and identifies its type.
	inputs NodeInputs

	trace error // Stack-trace error of where Node was created. Stored if graph.traced is true.
}

// NodeInputs represents the static inputs to node. The common interface is to return the type of the node.
// For the parameters themselves, it needs to be cast to the corresponding type, named <NodeType>Inputs,
// e.g.: *SelectInputs.
type NodeInputs interface {
	Type() NodeType

	// String prints a descriptive representation of the node, using its parameters.
	String() string
}

// Type identify the operation performed by the node.
func (n *Node) Type() NodeType {
	if n == nil || n.inputs == nil {
		return NodeTypeInvalid
	}
	return n.inputs.Type()
}

// Graph that holds this Node.
func (n *Node) Graph() *Graph {
	if n == nil {
		return nil
	}
	return n.graph
}

// Shape of the Node's output.
func (n *Node) Shape() shapes.Shape {
	if n == nil {
		return shapes.Invalid()
	}
	return n.shape
}

// DType returns the DType of the node's shape.
func (n *Node) DType() dtypes.DType {
	return n.shape.DType
}

// Rank returns the rank of the node's shape.
func (n *Node) Rank() int {
	return n.shape.Rank()
}

// Id is the unique id of this node within the Graph.
func (n *Node) Id() NodeId {
	return n.id
}

// Inputs are the other nodes that are direct inputs to the node.
// This doesn't include static inputs, see StaticInputs.
func (n *Node) Inputs() []*Node { return n.inputNodes }

// StaticInputs returns the static parameters of the node. Cast it to the concrete type given
// by the node type, e.g.: node.StaticInputs().(*graph.SelectInputs).
func (n *Node) StaticInputs() NodeInputs { return n.inputs }

// AssertValid panics if `n` is nil, or if it is in an invalid state.
func (n *Node) AssertValid() {
	if n == nil {
		exceptions.Panicf("Node is nil")
	}
	if n.inputs == nil {
		exceptions.Panicf("Node in an invalid state")
	}
	n.graph.AssertValid()
}

// Trace returns stack-trace in form of an error, of when the node was created.
// Only available if enabled by `Graph.SetTraced(true)`.
func (n *Node) Trace() error {
	return n.trace
}

// String implements the `fmt.Stringer` interface.
func (n *Node) String() string {
	if n == nil {
		return "Node(nil)"
	}
	str := "Invalid(?)"
	if n.inputs != nil {
		str = n.inputs.String()
	}
	if len(n.inputNodes) > 0 {
		ids := make([]string, 0, len(n.inputNodes))
		for _, input := range n.inputNodes {
			ids = append(ids, fmt.Sprintf("#%d", input.id))
		}
		str = fmt.Sprintf("%s <- [%s]", str, strings.Join(ids, ", "))
	}
	return fmt.Sprintf("#%d %s -> %s", n.id, str, n.shape)
}
