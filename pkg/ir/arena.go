// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package ir

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// DefaultChunkSize is the number of nodes per slab chunk.
const DefaultChunkSize = 256

// Arena owns the storage of every node constructed in it. Nodes are never
// freed individually; Close releases all of them at once.
//
// An Arena is not safe for concurrent use. Callers sharing one across
// goroutines must serialize construction, lookup and Close.
type Arena struct {
	chunkSize  int
	slabs      map[Kind]chunker
	registry   *registry
	constructs uint64
	closed     bool
	logger     *slog.Logger
}

// Option configures an Arena.
type Option func(*Arena)

// WithChunkSize sets how many nodes of one kind share a storage chunk.
func WithChunkSize(n int) Option {
	return func(a *Arena) {
		if n > 0 {
			a.chunkSize = n
		}
	}
}

// WithLogger sets the logger used for arena lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Arena) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewArena creates an empty arena.
func NewArena(opts ...Option) *Arena {
	a := &Arena{
		chunkSize: DefaultChunkSize,
		slabs:     make(map[Kind]chunker),
		registry:  newRegistry(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Lookup returns the node registered under id. It reports false for a nil
// or closed arena and for identities that are not registered.
func (a *Arena) Lookup(id ulid.ULID) (Node, bool) {
	if a == nil || a.closed {
		return nil, false
	}
	return a.registry.lookup(id)
}

// Len returns the number of live nodes.
func (a *Arena) Len() int {
	if a == nil || a.closed {
		return 0
	}
	return a.registry.len()
}

// Nodes iterates over all live nodes in identity order.
func (a *Arena) Nodes() iter.Seq[Node] {
	if a == nil || a.closed {
		return func(func(Node) bool) {}
	}
	return a.registry.all()
}

// Closed reports whether Close has been called.
func (a *Arena) Closed() bool {
	return a == nil || a.closed
}

// Close releases every node owned by the arena. References into the arena
// stop resolving. Calling Close more than once is a no-op.
func (a *Arena) Close() {
	if a == nil || a.closed {
		return
	}
	stats := a.Stats()
	a.registry.clear()
	clear(a.slabs)
	a.closed = true
	a.logger.Debug("arena closed",
		"nodes", stats.Nodes,
		"chunks", stats.Chunks,
	)
}

// Restore constructs a node of the given concrete kind with a known
// identity and an empty payload. It is the entry point for decoders, which
// fill in the payload afterwards.
func (a *Arena) Restore(kind Kind, id ulid.ULID) (Node, error) {
	if a == nil || a.closed {
		return nil, oops.Code("IR_ARENA_CLOSED").Wrap(ErrArenaClosed)
	}
	if !kind.Valid() {
		return nil, oops.Code("IR_UNKNOWN_KIND").With("kind", uint16(kind)).Wrap(ErrUnknownKind)
	}
	if kind.Abstract() {
		return nil, oops.Code("IR_ABSTRACT_KIND").With("kind", kind.String()).Wrap(ErrAbstractKind)
	}
	if id == NilID {
		return nil, oops.Code("IR_ZERO_ID").With("kind", kind.String()).Wrap(ErrZeroID)
	}
	if a.registry.contains(id) {
		return nil, oops.Code("IR_DUPLICATE_ID").With("id", id.String()).Wrap(ErrDuplicateID)
	}

	switch kind {
	case KindModule:
		return place[Module](a, id, nil), nil
	case KindSection:
		return place[Section](a, id, nil), nil
	case KindSymbol:
		return place[Symbol](a, id, nil), nil
	case KindBasicBlock:
		return place[BasicBlock](a, id, nil), nil
	case KindProxyBlock:
		return place[ProxyBlock](a, id, nil), nil
	case KindDataObject:
		return place[DataObject](a, id, nil), nil
	}
	panic(fmt.Sprintf("ir.Arena.Restore: no constructor for kind %s", kind))
}

// construct allocates a node with a fresh identity, runs init on it and
// registers it. Every New* constructor goes through here.
func construct[T any, PT interface {
	*T
	Node
}](a *Arena, init func(PT)) PT {
	if a == nil {
		panic("ir.construct: nil arena")
	}
	if a.closed {
		panic("ir.construct: arena is closed")
	}
	return place[T, PT](a, NewID(), init)
}

func place[T any, PT interface {
	*T
	Node
}](a *Arena, id ulid.ULID, init func(PT)) PT {
	kind := classOf[PT]()
	p := PT(slabFor[T](a, kind).alloc())
	b := p.base()
	b.id = id
	b.kind = kind
	b.arena = a
	if init != nil {
		init(p)
	}
	if err := a.registry.insert(p); err != nil {
		panic(fmt.Sprintf("ir.Arena: %v", err))
	}
	a.constructs++
	return p
}

// Stats describes an arena's storage.
type Stats struct {
	Nodes      int
	ByKind     map[Kind]int
	Chunks     int
	Constructs uint64
	Closed     bool
}

// Stats returns a snapshot of the arena's storage counters. A nil arena
// reports as closed and empty.
func (a *Arena) Stats() Stats {
	if a == nil {
		return Stats{ByKind: map[Kind]int{}, Closed: true}
	}
	s := Stats{
		ByKind:     make(map[Kind]int),
		Constructs: a.constructs,
		Closed:     a.closed,
	}
	for kind, sl := range a.slabs {
		s.Chunks += sl.chunks()
		if n := sl.used(); n > 0 {
			s.ByKind[kind] = n
		}
		s.Nodes += sl.used()
	}
	return s
}

type chunker interface {
	chunks() int
	used() int
}

// slab hands out stable pointers into fixed-size chunks of T.
type slab[T any] struct {
	size  int
	data  [][]T
	next  int
	count int
}

func slabFor[T any](a *Arena, kind Kind) *slab[T] {
	if s, ok := a.slabs[kind]; ok {
		return s.(*slab[T])
	}
	s := &slab[T]{size: a.chunkSize}
	a.slabs[kind] = s
	return s
}

func (s *slab[T]) alloc() *T {
	if len(s.data) == 0 || s.next == s.size {
		s.data = append(s.data, make([]T, s.size))
		s.next = 0
	}
	p := &s.data[len(s.data)-1][s.next]
	s.next++
	s.count++
	return p
}

func (s *slab[T]) chunks() int { return len(s.data) }
func (s *slab[T]) used() int   { return s.count }
