// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"reflect"
	"slices"

	"github.com/gomlx/lazyview/pkg/core/shapes"
)

// Dedup implementation: remove duplicated expressions, also known as "common subexpression elimination"
// or hash-consing. Re-resolving the same view chain over the same root must not grow the graph.

// nodeDataComparable is implemented by NodeInputs types that support de-duplication.
// Types that don't implement it (Parameter, Scalar) are never de-duplicated.
type nodeDataComparable interface {
	// EqualNodeData returns true if this data is semantically equivalent to other.
	// The other parameter is guaranteed to be the same concrete type.
	EqualNodeData(other nodeDataComparable) bool
}

// nodeDedupKey is used to index into the de-duplication map.
// It provides fast lookup for candidate nodes with the same operation type
// and input structure.
type nodeDedupKey struct {
	nodeType   NodeType
	inputCount int
	firstInput *Node // nil if there are no inputs.
}

// makeNodeDedupKey creates a de-duplication key for a node with the given nodeType and inputs.
func makeNodeDedupKey(nodeType NodeType, inputNodes []*Node) nodeDedupKey {
	key := nodeDedupKey{
		nodeType:   nodeType,
		inputCount: len(inputNodes),
	}
	if len(inputNodes) > 0 {
		key.firstInput = inputNodes[0]
	}
	return key
}

// getOrCreateNode attempts to find a node with the content (inputs type, shape, input nodes, static inputs).
// If found, it returns the node and found=true.
// If not, it creates a new node with the filled fields, and returns found=false.
//
// It also validates that all input nodes belong to this graph.
func (g *Graph) getOrCreateNode(inputs NodeInputs, shape shapes.Shape, inputNodes ...*Node) (n *Node, found bool) {
	g.AssertValid()
	nodeType := inputs.Type()
	g.checkInputs(nodeType, inputNodes)

	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.deduplicate {
		return g.newNode(inputs, shape, inputNodes...), false
	}
	key := makeNodeDedupKey(nodeType, inputNodes)
	for _, candidate := range g.nodeDedup[key] {
		if !slices.Equal(candidate.inputNodes, inputNodes) {
			continue
		}
		if !candidate.shape.Equal(shape) {
			continue
		}
		if !dataEqual(candidate.inputs, inputs) {
			continue
		}
		g.dedupHits++
		return candidate, true
	}

	n = g.newNode(inputs, shape, inputNodes...)
	g.nodeDedup[key] = append(g.nodeDedup[key], n)
	return n, false
}

// dataEqual compares node static inputs for equality.
// Both must be the same concrete type and implement nodeDataComparable, otherwise they are never equal.
func dataEqual(a, b NodeInputs) bool {
	if a == nil || b == nil {
		return false
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	comparable, ok := a.(nodeDataComparable)
	if !ok {
		return false
	}
	return comparable.EqualNodeData(b.(nodeDataComparable))
}
