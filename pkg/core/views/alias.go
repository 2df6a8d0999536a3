// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package views

import (
	"slices"
	"sync"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/lazyview/pkg/core/graph"
	"github.com/gomlx/lazyview/pkg/core/shapes"
	"github.com/google/uuid"
	"k8s.io/klog/v2"
)

// Alias represents the storage of one tensor, shared by all the views derived from it.
//
// It holds the current root value (a graph node with the fully resolved content) and the queue of
// updates written through any of its views since the last sync. It is safe for concurrent use.
type Alias struct {
	id    uuid.UUID
	shape shapes.Shape
	graph *graph.Graph

	mu         sync.Mutex
	root       *graph.Node
	updates    []UpdateData
	generation int
}

// NewAlias creates an Alias whose storage initially holds root.
func NewAlias(root *graph.Node) *Alias {
	root.AssertValid()
	return &Alias{id: uuid.New(), shape: root.Shape(), graph: root.Graph(), root: root}
}

// ID uniquely identifies the Alias, used when logging.
func (a *Alias) ID() uuid.UUID { return a.id }

// Shape of the storage. It never changes, since updates preserve the root shape.
func (a *Alias) Shape() shapes.Shape { return a.shape.Clone() }

// Graph where the Alias values live.
func (a *Alias) Graph() *graph.Graph { return a.graph }

// Root returns the root value as of the last SyncUpdateOperations: pending updates are not included.
func (a *Alias) Root() *graph.Node {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.root
}

// Generation returns the number of updates recorded so far. Views use it to detect they are stale.
func (a *Alias) Generation() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.generation
}

// NumPendingUpdates returns the number of updates waiting to be synced.
func (a *Alias) NumPendingUpdates() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.updates)
}

// PendingUpdates returns a copy of the updates waiting to be synced, oldest first.
func (a *Alias) PendingUpdates() []UpdateData {
	a.mu.Lock()
	defer a.mu.Unlock()
	updates := make([]UpdateData, len(a.updates))
	for ii, update := range a.updates {
		updates[ii] = UpdateData{Value: update.Value, Chain: slices.Clone(update.Chain)}
	}
	return updates
}

// Update records that value was written to the position reached by chain, starting at the root.
// An empty chain replaces the whole content.
//
// If the last pending update was written through an equal chain, its value is replaced, since the new
// write supersedes it. Only the last update is checked: writes through a different chain in between
// are kept in order. The generation is always incremented.
//
// It panics if chain doesn't start at the Alias shape, or if value doesn't have the shape at its end.
func (a *Alias) Update(value *graph.Node, chain []*Descriptor) {
	value.AssertValid()
	if value.Graph() != a.Graph() {
		exceptions.Panicf("Alias.Update: value is from graph %q, but alias is on graph %q",
			value.Graph().Name(), a.Graph().Name())
	}
	shape := checkChain(a.Shape(), chain)
	if !value.Shape().Equal(shape) {
		exceptions.Panicf("Alias.Update: value shape %s doesn't match the shape %s at the end of the view chain",
			value.Shape(), shape)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.generation++
	if last := len(a.updates) - 1; last >= 0 && EqualChains(a.updates[last].Chain, chain) {
		a.updates[last].Value = value
		klog.V(2).Infof("Alias %s: update coalesced with previous one (generation %d)", a.id, a.generation)
		return
	}
	a.updates = append(a.updates, UpdateData{Value: value, Chain: slices.Clone(chain)})
	klog.V(2).Infof("Alias %s: update #%d queued (generation %d)", a.id, len(a.updates), a.generation)
}

// SyncUpdateOperations replays all pending updates on the root value, oldest first, clears the queue and
// returns the new root value. Each update sees the effect of the previous ones.
//
// Without pending updates it returns the current root value.
func (a *Alias) SyncUpdateOperations() *graph.Node {
	root, _ := a.sync()
	return root
}

// sync is SyncUpdateOperations, also returning the generation the root value corresponds to.
func (a *Alias) sync() (root *graph.Node, generation int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.updates) == 0 {
		return a.root, a.generation
	}
	numUpdates := len(a.updates)
	for _, update := range a.updates {
		a.root = applyUpdate(a.root, update)
	}
	a.updates = nil
	klog.V(1).Infof("Alias %s: synced %d updates (generation %d) -> %s", a.id, numUpdates, a.generation, a.root)
	return a.root, a.generation
}
