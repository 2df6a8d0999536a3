// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package views

// Kind of view transformation described by a Descriptor.
type Kind int

//go:generate go tool enumer -type=Kind -trimprefix=Kind -output=gen_kind_enumer.go kind.go

const (
	KindInvalid Kind = iota
	KindSelect
	KindNarrow
	KindNoOp
	KindPermute
	KindReshape
	KindResize
	KindSqueeze
	KindUnsqueeze
	KindAsStrided
	KindDiagonal
)
