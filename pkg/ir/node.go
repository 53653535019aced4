// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package ir

import (
	"github.com/oklog/ulid/v2"
)

// Node is implemented by every entity stored in an Arena. The method set is
// sealed: only types in this package can be nodes.
type Node interface {
	// ID returns the node's persistent identity.
	ID() ulid.ULID
	// Kind returns the node's concrete kind.
	Kind() Kind
	// Arena returns the arena that owns the node.
	Arena() *Arena

	base() *nodeBase
}

// CFGNode is the category of nodes that can appear in a control-flow graph.
type CFGNode interface {
	Node
	cfgNode()
}

// nodeBase is embedded in every concrete node type.
type nodeBase struct {
	id    ulid.ULID
	kind  Kind
	arena *Arena
}

func (b *nodeBase) ID() ulid.ULID   { return b.id }
func (b *nodeBase) Kind() Kind      { return b.kind }
func (b *nodeBase) Arena() *Arena   { return b.arena }
func (b *nodeBase) base() *nodeBase { return b }

// RefInfo describes one outgoing reference held by a node.
type RefInfo struct {
	Field  string
	ID     ulid.ULID
	Target Kind
}

// Referrer is implemented by nodes that hold references to other nodes.
type Referrer interface {
	Node
	Refs() []RefInfo
}

// Resolve looks id up in a and converts the result to T. It reports false
// when the arena is nil or closed, the identity is not registered, or the
// registered node is not a T.
func Resolve[T Node](a *Arena, id ulid.ULID) (T, bool) {
	n, _ := a.Lookup(id)
	return TryCastOrNil[T](n)
}
