// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

// NodeType is an enum of all operations a lazy graph Node can represent.
type NodeType int

//go:generate go tool enumer -type=NodeType -trimprefix=NodeType -output=gen_nodetype_enumer.go nodetype.go

const (
	NodeTypeInvalid NodeType = iota
	NodeTypeParameter
	NodeTypeScalar
	NodeTypeAdd

	// View (forward) ops.

	NodeTypeSelect
	NodeTypeNarrow
	NodeTypePermute
	NodeTypeReshape
	NodeTypeResize
	NodeTypeSqueeze
	NodeTypeUnsqueeze
	NodeTypeAsStrided
	NodeTypeDiagonal

	// View update (inverse) ops: they write a source into the viewed region of a target.

	NodeTypeSelectViewUpdate
	NodeTypeNarrowViewUpdate
	NodeTypeAsStridedViewUpdate
	NodeTypeDiagonalViewUpdate
)
