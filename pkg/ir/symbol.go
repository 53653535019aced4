// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package ir

// StorageKind describes a symbol's linkage.
type StorageKind uint8

// Storage kinds.
const (
	StorageUndefined StorageKind = iota
	StorageNormal
	StorageStatic
	StorageLocal
	StorageExtern
)

// Symbol names an address or a node.
type Symbol struct {
	nodeBase `yaml:"-"`

	Name    string      `yaml:"name"`
	Storage StorageKind `yaml:"storage,omitempty"`
	Address Addr        `yaml:"address,omitempty"`

	// Referent is the node the symbol names, if any.
	Referent Ref[Node] `yaml:"referent,omitempty"`
}

// NewSymbol constructs a symbol in a.
func NewSymbol(a *Arena, name string, addr Addr) *Symbol {
	return construct(a, func(s *Symbol) {
		s.Name = name
		s.Address = addr
		s.Storage = StorageNormal
	})
}

// SetReferent points the symbol at n.
func (s *Symbol) SetReferent(n Node) {
	s.Referent = RefTo(n)
}

// Refs implements Referrer.
func (s *Symbol) Refs() []RefInfo {
	if s.Referent.IsZero() {
		return nil
	}
	return []RefInfo{s.Referent.info("referent")}
}

// String returns the storage kind's name.
func (s StorageKind) String() string {
	switch s {
	case StorageNormal:
		return "normal"
	case StorageStatic:
		return "static"
	case StorageLocal:
		return "local"
	case StorageExtern:
		return "extern"
	}
	return "undefined"
}
