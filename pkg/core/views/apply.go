// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package views

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/lazyview/pkg/core/graph"
	"github.com/gomlx/lazyview/pkg/core/shapeinference"
	"k8s.io/klog/v2"
)

// Apply the forward transformation described by d to value, returning the node with the viewed content.
//
// value must have d's source shape. Graph nodes are de-duplicated, so applying the same descriptor
// to the same value twice returns the same node.
func Apply(value *graph.Node, d *Descriptor) *graph.Node {
	value.AssertValid()
	if !value.Shape().Equal(d.sourceShape) {
		exceptions.Panicf("views.Apply(%s): value shape %s doesn't match descriptor source shape %s",
			d.kind, value.Shape(), d.sourceShape)
	}
	switch d.kind {
	case KindSelect:
		p := d.params.(*SelectParams)
		return graph.Select(value, p.Dim, p.Start, p.End, p.Stride)
	case KindNarrow:
		p := d.params.(*NarrowParams)
		return graph.Narrow(value, p.Starts, p.Sizes)
	case KindNoOp:
		return value
	case KindPermute:
		return graph.Permute(value, d.params.(*PermuteParams).Permutation...)
	case KindReshape:
		return graph.Reshape(value, d.params.(*ReshapeParams).Dimensions...)
	case KindResize:
		return graph.Resize(value, d.params.(*ResizeParams).Dimensions...)
	case KindSqueeze:
		return graph.Squeeze(value, d.params.(*SqueezeParams).Axis)
	case KindUnsqueeze:
		return graph.Unsqueeze(value, d.params.(*UnsqueezeParams).Axis)
	case KindAsStrided:
		p := d.params.(*AsStridedParams)
		return graph.AsStrided(value, p.Size, p.Stride, p.Offset)
	case KindDiagonal:
		p := d.params.(*DiagonalParams)
		return graph.Diagonal(value, p.Offset, p.Dim1, p.Dim2)
	default:
		exceptions.Panicf("views.Apply: unsupported view kind %s", d.kind)
		return nil
	}
}

// ApplyChain applies the forward transformation of each descriptor of chain, in order, starting at value.
// An empty chain returns value itself.
func ApplyChain(value *graph.Node, chain []*Descriptor) *graph.Node {
	for _, d := range chain {
		value = Apply(value, d)
	}
	return value
}

// applyInverse writes source into target, at the position described by d: source has d's shape, and the
// result has target's shape (d's source shape).
//
// For kinds that are a re-arrangement of all elements (Permute, Reshape, Squeeze, ...) target is not
// used, and the inverse transformation is applied to source.
func applyInverse(d *Descriptor, target, source *graph.Node) *graph.Node {
	switch d.kind {
	case KindSelect:
		p := d.params.(*SelectParams)
		return graph.SelectViewUpdate(target, source, p.Dim, p.Start, p.End, p.Stride)
	case KindNarrow:
		return graph.NarrowViewUpdate(target, source, d.params.(*NarrowParams).Starts)
	case KindNoOp:
		return source
	case KindPermute:
		inverse := shapeinference.InversePermutation(d.params.(*PermuteParams).Permutation)
		return graph.Permute(source, inverse...)
	case KindReshape:
		return graph.Reshape(source, d.sourceShape.Dimensions...)
	case KindResize:
		return graph.Resize(source, d.sourceShape.Dimensions...)
	case KindSqueeze:
		return graph.Unsqueeze(source, d.params.(*SqueezeParams).Axis)
	case KindUnsqueeze:
		return graph.Squeeze(source, d.params.(*UnsqueezeParams).Axis)
	case KindAsStrided:
		p := d.params.(*AsStridedParams)
		return graph.AsStridedViewUpdate(target, source, p.Stride, p.Offset)
	case KindDiagonal:
		p := d.params.(*DiagonalParams)
		return graph.DiagonalViewUpdate(target, source, p.Offset, p.Dim1, p.Dim2)
	default:
		exceptions.Panicf("views: unsupported view kind %s for inverse update", d.kind)
		return nil
	}
}

// UpdateData is one pending update of an Alias: the new Value of the position reached by Chain,
// starting at the Alias root.
type UpdateData struct {
	Value *graph.Node
	Chain []*Descriptor
}

// applyUpdate returns the new root value after writing update.Value through update.Chain.
//
// It first walks the chain forward from root, keeping each intermediate value. Then it walks the chain
// backwards, writing the running result into the intermediate value before each transformation.
func applyUpdate(root *graph.Node, update UpdateData) *graph.Node {
	chain := update.Chain
	intermediate := make([]*graph.Node, len(chain)+1)
	intermediate[0] = root
	for ii, d := range chain {
		intermediate[ii+1] = Apply(intermediate[ii], d)
	}
	result := update.Value
	for ii := len(chain); ii > 0; ii-- {
		result = applyInverse(chain[ii-1], intermediate[ii-1], result)
	}
	if klog.V(2).Enabled() {
		klog.Infof("views: applied update of %d-long chain -> %s", len(chain), result)
	}
	return result
}
