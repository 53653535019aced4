// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package ir

import (
	"fmt"
	"reflect"

	"github.com/samber/oops"
)

// Kind identifies the concrete type of a node. Values are written to IR
// files and must never be renumbered.
type Kind uint16

// Node kinds. Abstract kinds name categories and are never carried by a
// constructed node.
const (
	KindInvalid    Kind = 0
	KindNode       Kind = 1
	KindModule     Kind = 2
	KindSection    Kind = 3
	KindSymbol     Kind = 4
	KindCFGNode    Kind = 5
	KindBasicBlock Kind = 6
	KindProxyBlock Kind = 7
	KindDataObject Kind = 8
)

type kindInfo struct {
	name     string
	parent   Kind
	abstract bool
}

// hierarchy is the closed type hierarchy. Every category predicate is
// derived from the parent links declared here.
var hierarchy = map[Kind]kindInfo{
	KindNode:       {name: "Node", abstract: true},
	KindModule:     {name: "Module", parent: KindNode},
	KindSection:    {name: "Section", parent: KindNode},
	KindSymbol:     {name: "Symbol", parent: KindNode},
	KindCFGNode:    {name: "CFGNode", parent: KindNode, abstract: true},
	KindBasicBlock: {name: "BasicBlock", parent: KindCFGNode},
	KindProxyBlock: {name: "ProxyBlock", parent: KindCFGNode},
	KindDataObject: {name: "DataObject", parent: KindNode},
}

// String returns the kind's name.
func (k Kind) String() string {
	if info, ok := hierarchy[k]; ok {
		return info.name
	}
	return "Invalid"
}

// Valid reports whether k is declared in the hierarchy.
func (k Kind) Valid() bool {
	_, ok := hierarchy[k]
	return ok
}

// Abstract reports whether k is a category rather than a concrete type.
func (k Kind) Abstract() bool {
	return hierarchy[k].abstract
}

// Parent returns the category directly above k, or KindInvalid for the root.
func (k Kind) Parent() Kind {
	return hierarchy[k].parent
}

// Classifies reports whether a node of kind other is an instance of k:
// true when other is k or lies anywhere beneath k in the hierarchy.
func (k Kind) Classifies(other Kind) bool {
	if k == KindInvalid {
		return false
	}
	for cur := other; cur != KindInvalid; cur = cur.Parent() {
		if cur == k {
			return true
		}
	}
	return false
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, oops.Code("IR_UNKNOWN_KIND").With("kind", uint16(k)).Wrap(ErrUnknownKind)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, error) {
	for k, info := range hierarchy {
		if info.name == name {
			return k, nil
		}
	}
	return KindInvalid, oops.Code("IR_UNKNOWN_KIND").With("kind", name).Wrap(ErrUnknownKind)
}

// ConcreteKinds returns every kind a node can carry, in ascending order.
func ConcreteKinds() []Kind {
	kinds := make([]Kind, 0, len(hierarchy))
	for k := KindNode; k.Valid(); k++ {
		if !k.Abstract() {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// classOf maps a Go type in the hierarchy to its kind. The set is closed;
// an unlisted type is a programming error.
func classOf[X Node]() Kind {
	switch any((*X)(nil)).(type) {
	case *Node:
		return KindNode
	case *CFGNode:
		return KindCFGNode
	case **Module:
		return KindModule
	case **Section:
		return KindSection
	case **Symbol:
		return KindSymbol
	case **BasicBlock:
		return KindBasicBlock
	case **ProxyBlock:
		return KindProxyBlock
	case **DataObject:
		return KindDataObject
	}
	panic(fmt.Sprintf("ir.classOf: type %v is not part of the node hierarchy", reflect.TypeFor[X]()))
}
