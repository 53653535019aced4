// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package ir

import (
	"iter"
	"slices"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// registry maps identities to the nodes of one arena.
// It is not safe for concurrent use.
type registry struct {
	nodes map[ulid.ULID]Node
	// sorted caches the identity order between mutations.
	sorted []ulid.ULID
}

func newRegistry() *registry {
	return &registry{nodes: make(map[ulid.ULID]Node)}
}

// insert records n under its identity.
// Returns ErrDuplicateID if the identity is already present.
func (r *registry) insert(n Node) error {
	id := n.ID()
	if _, exists := r.nodes[id]; exists {
		return oops.Code("IR_DUPLICATE_ID").With("id", id.String()).Wrap(ErrDuplicateID)
	}
	r.nodes[id] = n
	r.sorted = nil
	return nil
}

func (r *registry) contains(id ulid.ULID) bool {
	_, ok := r.nodes[id]
	return ok
}

func (r *registry) lookup(id ulid.ULID) (Node, bool) {
	n, ok := r.nodes[id]
	return n, ok
}

func (r *registry) len() int {
	return len(r.nodes)
}

// all yields nodes in identity order. The order is stable as long as the
// registry is not modified.
func (r *registry) all() iter.Seq[Node] {
	if r.sorted == nil {
		r.sorted = make([]ulid.ULID, 0, len(r.nodes))
		for id := range r.nodes {
			r.sorted = append(r.sorted, id)
		}
		slices.SortFunc(r.sorted, ulid.ULID.Compare)
	}
	ids := r.sorted
	return func(yield func(Node) bool) {
		for _, id := range ids {
			n, ok := r.nodes[id]
			if !ok {
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}

func (r *registry) clear() {
	clear(r.nodes)
	r.sorted = nil
}
