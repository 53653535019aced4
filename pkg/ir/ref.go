// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package ir

import (
	"github.com/oklog/ulid/v2"
)

// Ref is a non-owning reference to a node of type T, held as an identity.
// It survives serialization and is resolved against an arena on each use.
// The zero Ref points at nothing.
type Ref[T Node] struct {
	id ulid.ULID
}

// RefByID returns a reference to the node with the given identity.
func RefByID[T Node](id ulid.ULID) Ref[T] {
	return Ref[T]{id: id}
}

// RefTo returns a reference to n's current identity. A nil n yields the
// zero Ref.
func RefTo[T Node](n T) Ref[T] {
	if isNil(n) {
		return Ref[T]{}
	}
	return Ref[T]{id: n.ID()}
}

// ID returns the referenced identity, whether or not it resolves.
func (r Ref[T]) ID() ulid.ULID {
	return r.id
}

// IsZero reports whether r points at nothing.
func (r Ref[T]) IsZero() bool {
	return r.id == NilID
}

// Get resolves r in a. It reports false if a is nil or closed, the
// identity is not registered there, or the node is not a T.
func (r Ref[T]) Get(a *Arena) (T, bool) {
	if r.IsZero() {
		var zero T
		return zero, false
	}
	return Resolve[T](a, r.id)
}

// Compare orders references by identity.
func (r Ref[T]) Compare(other Ref[T]) int {
	return r.id.Compare(other.id)
}

// String returns the referenced identity in ULID text form.
func (r Ref[T]) String() string {
	return r.id.String()
}

// MarshalText implements encoding.TextMarshaler.
func (r Ref[T]) MarshalText() ([]byte, error) {
	return r.id.MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler. Both ULID and UUID
// text forms are accepted.
func (r *Ref[T]) UnmarshalText(text []byte) error {
	id, err := ParseID(string(text))
	if err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r Ref[T]) info(field string) RefInfo {
	return RefInfo{Field: field, ID: r.id, Target: classOf[T]()}
}

func refInfos[T Node](field string, refs []Ref[T]) []RefInfo {
	infos := make([]RefInfo, 0, len(refs))
	for _, r := range refs {
		infos = append(infos, r.info(field))
	}
	return infos
}
