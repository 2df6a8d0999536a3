// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package graph is the symbolic graph-node factory used by the lazy views: every operation
// (a view, a view update, a parameter, ...) becomes a Node in a Graph, and no numeric computation
// happens while building it.
//
// The main elements in the package are:
//
//   - Graph: holds the nodes, in creation (and hence topological) order. It de-duplicates nodes on
//     creation ("hash-consing", or common subexpression elimination): asking twice for the same op,
//     with the same operands and the same static parameters, returns the very same *Node.
//
//   - Node: represents the result of an operation. Each node has a fixed shape that is known in
//     graph building time.
//
// ## Error Handling
//
// Errors during graph building are programming errors (wrong shapes, invalid axes, operands from
// a different graph), and they are reported with a panic carrying a stack trace, see
// github.com/gomlx/exceptions.
package graph

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/lazyview/pkg/core/shapes"
	"github.com/pkg/errors"
)

// Graph with the operations and dependencies of a lazy computation.
//
// It is safe for concurrent use: node creation is serialized.
type Graph struct {
	mu   sync.Mutex
	name string

	// nodes are all nodes created, in DAG order. Each node's id is its index in this slice.
	nodes []*Node

	parameters            []*Node
	parameterNameToHandle map[string]ParameterHandle

	traced bool

	// deduplicate enables nodeDedup.
	deduplicate bool
	nodeDedup   map[nodeDedupKey][]*Node
	dedupHits   int
}

// NodeId is a unique NodeId within a Graph
type NodeId int

// InvalidNodeId indicates a node that failed to be created.
const InvalidNodeId = NodeId(-1)

// ParameterHandle is a key to be used by Graph implementations to refer to its
// internal parameters.
type ParameterHandle int

// InvalidParameterHandle represents an invalid (or non-existent) parameter.
const InvalidParameterHandle = ParameterHandle(-1)

// New creates an empty Graph with the given name. De-duplication of nodes is enabled by default.
func New(name string) *Graph {
	return &Graph{
		name:                  name,
		parameterNameToHandle: make(map[string]ParameterHandle),
		deduplicate:           true,
		nodeDedup:             make(map[nodeDedupKey][]*Node),
	}
}

// Name of the graph, given at creation.
func (g *Graph) Name() string { return g.name }

// AssertValid panics if graph is nil.
func (g *Graph) AssertValid() {
	if g == nil {
		exceptions.Panicf("the Graph is nil")
	}
}

// SetTraced defines whether each node created will also keep a stack-trace of where it was created,
// available with Node.Trace. It is useful for debugging, but it makes node creation slower.
//
// It returns the graph itself, so calls can be cascaded.
func (g *Graph) SetTraced(traced bool) *Graph {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.traced = traced
	return g
}

// SetDeduplication enables or disables re-using structurally equal nodes. It is enabled by default.
//
// It returns the graph itself, so calls can be cascaded.
func (g *Graph) SetDeduplication(enabled bool) *Graph {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deduplicate = enabled
	return g
}

// NumNodes returns the number of nodes created so far.
func (g *Graph) NumNodes() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}

// Nodes returns a copy of the list of nodes, in creation order.
func (g *Graph) Nodes() []*Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*Node(nil), g.nodes...)
}

// DedupHits returns how many times a node creation was served by an existing node.
func (g *Graph) DedupHits() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dedupHits
}

// Parameters returns the parameter nodes, in the order of their handles.
func (g *Graph) Parameters() []*Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*Node(nil), g.parameters...)
}

// GetParameterByName returns the parameter registered with the given name, or nil if it doesn't exist.
func (g *Graph) GetParameterByName(name string) *Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	handle, ok := g.parameterNameToHandle[name]
	if !ok {
		return nil
	}
	return g.parameters[handle]
}

// newNode adds a new node of the given inputs and shape to the graph. Callers must hold g.mu.
//
// Use getOrCreateNode instead for most operations.
func (g *Graph) newNode(inputs NodeInputs, shape shapes.Shape, inputNodes ...*Node) *Node {
	n := &Node{
		graph:      g,
		id:         NodeId(len(g.nodes)),
		shape:      shape,
		inputNodes: append([]*Node(nil), inputNodes...),
		inputs:     inputs,
	}
	if g.traced {
		n.trace = errors.New("Stack-trace")
	}
	g.nodes = append(g.nodes, n)
	return n
}

// checkInputs panics if any of the input nodes is nil or from a different graph.
func (g *Graph) checkInputs(nodeType NodeType, inputNodes []*Node) {
	for ii, node := range inputNodes {
		if node == nil {
			exceptions.Panicf("%s: input node #%d is nil", nodeType, ii)
		}
		if node.graph != g {
			exceptions.Panicf("%s: input node #%d is from graph %q, not from graph %q",
				nodeType, ii, node.graph.Name(), g.name)
		}
	}
}

// String pretty-prints all the nodes of the graph, one per line.
func (g *Graph) String() string {
	nodes := g.Nodes()
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "Graph %q: %d nodes\n", g.name, len(nodes))
	for _, node := range nodes {
		_, _ = fmt.Fprintf(&sb, "\t%s\n", node)
	}
	return sb.String()
}
