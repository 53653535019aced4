// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package ir_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/irgraph/pkg/errutil"
	"github.com/holomush/irgraph/pkg/ir"
)

func TestArena_ConstructRegistersBeforeReturn(t *testing.T) {
	a := ir.NewArena()
	defer a.Close()

	m := ir.NewModule(a, "hello")
	assert.Equal(t, ir.KindModule, m.Kind())
	assert.NotEqual(t, ir.NilID, m.ID())
	assert.Same(t, a, m.Arena())

	got, ok := a.Lookup(m.ID())
	require.True(t, ok)
	assert.Same(t, m, got)
	assert.Equal(t, 1, a.Len())
}

func TestArena_DistinctIdentities(t *testing.T) {
	a := ir.NewArena()
	defer a.Close()

	const n = 10000
	seen := make(map[ulid.ULID]struct{}, n)
	for i := range n {
		b := ir.NewBasicBlock(a, ir.Addr(i), 1)
		seen[b.ID()] = struct{}{}
	}
	assert.Len(t, seen, n)
	assert.Equal(t, n, a.Len())
}

func TestArena_PointersStableAcrossChunks(t *testing.T) {
	a := ir.NewArena(ir.WithChunkSize(4))
	defer a.Close()

	first := ir.NewDataObject(a, 0x10, 1)
	for i := range 20 {
		ir.NewDataObject(a, ir.Addr(0x20+i), 1)
	}
	got, ok := a.Lookup(first.ID())
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, ir.Addr(0x10), first.Address)

	stats := a.Stats()
	assert.Equal(t, 21, stats.Nodes)
	assert.Equal(t, 6, stats.Chunks)
	assert.Equal(t, map[ir.Kind]int{ir.KindDataObject: 21}, stats.ByKind)
	assert.Equal(t, uint64(21), stats.Constructs)
}

func TestArena_NodesIterationIsStable(t *testing.T) {
	a := ir.NewArena()
	defer a.Close()
	sampleNodes(a)

	collect := func() []ulid.ULID {
		var ids []ulid.ULID
		for n := range a.Nodes() {
			ids = append(ids, n.ID())
		}
		return ids
	}
	first := collect()
	assert.Len(t, first, 6)
	assert.Equal(t, first, collect())
	for i := 1; i < len(first); i++ {
		assert.Negative(t, first[i-1].Compare(first[i]))
	}
}

func TestArena_Close(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	a := ir.NewArena(ir.WithLogger(logger))
	m := ir.NewModule(a, "m")
	ref := ir.RefTo(m)

	a.Close()
	a.Close()

	assert.True(t, a.Closed())
	assert.Zero(t, a.Len())
	_, ok := a.Lookup(m.ID())
	assert.False(t, ok)
	_, ok = ref.Get(a)
	assert.False(t, ok)
	assert.Contains(t, logs.String(), "arena closed")
	assert.Equal(t, 1, bytes.Count(logs.Bytes(), []byte("arena closed")))

	for range a.Nodes() {
		t.Fatal("closed arena yielded a node")
	}

	assert.PanicsWithValue(t, "ir.construct: arena is closed", func() {
		ir.NewModule(a, "late")
	})
}

func TestArena_NilIsEmpty(t *testing.T) {
	var a *ir.Arena
	_, ok := a.Lookup(ir.NewID())
	assert.False(t, ok)
	assert.Zero(t, a.Len())
	assert.True(t, a.Closed())
	assert.NotPanics(t, a.Close)
	assert.Panics(t, func() { ir.NewProxyBlock(a) })

	n, err := a.Restore(ir.KindProxyBlock, ir.NewID())
	assert.Nil(t, n)
	assert.ErrorIs(t, err, ir.ErrArenaClosed)
	errutil.AssertErrorCode(t, err, "IR_ARENA_CLOSED")

	stats := a.Stats()
	assert.True(t, stats.Closed)
	assert.Zero(t, stats.Nodes)
	assert.Zero(t, stats.Chunks)
	assert.NotNil(t, stats.ByKind)
	assert.Empty(t, stats.ByKind)
}

func TestArena_Restore(t *testing.T) {
	a := ir.NewArena()
	defer a.Close()

	for _, kind := range ir.ConcreteKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			id := ir.NewID()
			n, err := a.Restore(kind, id)
			require.NoError(t, err)
			assert.Equal(t, kind, n.Kind())
			assert.Equal(t, id, n.ID())
			assert.Same(t, a, n.Arena())

			got, ok := a.Lookup(id)
			require.True(t, ok)
			assert.Equal(t, n, got)
		})
	}
}

func TestArena_Restore_Errors(t *testing.T) {
	a := ir.NewArena()
	existing := ir.NewSection(a, ".data", 0, 0)

	tests := []struct {
		name    string
		kind    ir.Kind
		id      ulid.ULID
		wantErr error
		code    string
	}{
		{"unknown kind", ir.Kind(500), ir.NewID(), ir.ErrUnknownKind, "IR_UNKNOWN_KIND"},
		{"abstract kind", ir.KindCFGNode, ir.NewID(), ir.ErrAbstractKind, "IR_ABSTRACT_KIND"},
		{"zero identity", ir.KindSection, ir.NilID, ir.ErrZeroID, "IR_ZERO_ID"},
		{"duplicate identity", ir.KindSymbol, existing.ID(), ir.ErrDuplicateID, "IR_DUPLICATE_ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Restore(tt.kind, tt.id)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			errutil.AssertErrorCode(t, err, tt.code)
		})
	}

	// A failed restore leaves the existing node untouched.
	got, ok := a.Lookup(existing.ID())
	require.True(t, ok)
	assert.Equal(t, ir.KindSection, got.Kind())

	a.Close()
	_, err := a.Restore(ir.KindModule, ir.NewID())
	assert.ErrorIs(t, err, ir.ErrArenaClosed)
}
