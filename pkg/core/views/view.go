// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package views

import (
	"fmt"
	"slices"
	"sync"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/lazyview/pkg/core/graph"
	"github.com/gomlx/lazyview/pkg/core/shapes"
	"k8s.io/klog/v2"
)

// View is a tensor that aliases the storage of an Alias through a chain of view transformations.
//
// Writes (Update) are recorded in the Alias, and reads (Resolve) replay the pending updates of the
// Alias before applying the chain. The resolved value is cached until the Alias generation changes.
type View struct {
	shape shapes.Shape
	alias *Alias
	chain []*Descriptor

	mu         sync.Mutex
	value      *graph.Node
	generation int
}

// NewView creates a View of alias through the single transformation d.
func NewView(shape shapes.Shape, alias *Alias, d *Descriptor) *View {
	return NewViewWithChain(shape, alias, []*Descriptor{d})
}

// NewViewWithChain creates a View of alias through the given chain of transformations. An empty chain
// creates a View of the whole Alias.
//
// It panics if the chain doesn't start at the Alias shape, or if shape is not the shape at its end.
func NewViewWithChain(shape shapes.Shape, alias *Alias, chain []*Descriptor) *View {
	if alias == nil {
		exceptions.Panicf("NewView: alias is nil")
	}
	chainShape := checkChain(alias.Shape(), chain)
	if !shape.Equal(chainShape) {
		exceptions.Panicf("NewView: view shape %s doesn't match the shape %s at the end of the chain", shape, chainShape)
	}
	return &View{
		shape: shape.Clone(),
		alias: alias,
		chain: slices.Clone(chain),
	}
}

// Shape of the View.
func (v *View) Shape() shapes.Shape { return v.shape.Clone() }

// Alias whose storage the View refers to.
func (v *View) Alias() *Alias { return v.alias }

// Chain returns a copy of the transformations from the Alias root to the View.
func (v *View) Chain() []*Descriptor { return slices.Clone(v.chain) }

// IsUpToDate returns whether the cached value reflects all updates of the Alias.
// It is false before the first Resolve.
func (v *View) IsUpToDate() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value != nil && v.generation == v.alias.Generation()
}

// CreateSubView returns a new View on the same Alias, whose chain is the one of v followed by d.
// Nothing is resolved.
func (v *View) CreateSubView(shape shapes.Shape, d *Descriptor) *View {
	chain := make([]*Descriptor, 0, len(v.chain)+1)
	chain = append(chain, v.chain...)
	chain = append(chain, d)
	return NewViewWithChain(shape, v.alias, chain)
}

// Update records value as the new content of the View. It is only applied when some view of the
// Alias is resolved.
func (v *View) Update(value *graph.Node) {
	v.alias.Update(value, v.chain)
}

// Resolve returns the current value of the View, and whether it changed since the last call.
//
// If no update happened on the Alias since the last call, the cached value is returned. Otherwise all
// pending updates of the Alias are synced, and the View chain is applied to the new root.
func (v *View) Resolve() (value *graph.Node, changed bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.value != nil && v.generation == v.alias.Generation() {
		return v.value, false
	}
	root, generation := v.alias.sync()
	v.value = ApplyChain(root, v.chain)
	v.generation = generation
	klog.V(2).Infof("View of alias %s resolved at generation %d -> %s", v.alias.ID(), generation, v.value)
	return v.value, true
}

// String implements fmt.Stringer.
func (v *View) String() string {
	return fmt.Sprintf("View(alias=%s, shape=%s, chain=%v)", v.alias.ID(), v.shape, v.chain)
}
