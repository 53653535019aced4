// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package ir models a disassembled executable as a graph of typed nodes.
//
// Every node lives in an [Arena], which owns its storage and keeps an
// identity registry. Nodes refer to each other through [Ref] values that
// carry only an identity, so the graph can be written out and read back
// into a different arena without losing its edges:
//
//	a := ir.NewArena()
//	defer a.Close()
//
//	b := ir.NewBasicBlock(a, 0x401000, 16)
//	d := ir.NewDataObject(a, 0x602000, 8)
//	b.AddDataRef(d)
//
//	if got, ok := b.DataRefs[0].Get(a); ok {
//		fmt.Println(got.Address)
//	}
//
// # Kinds and casts
//
// Each node carries a [Kind] drawn from a closed hierarchy. Categories such
// as CFGNode cover several concrete kinds. [IsA], [Cast], [CastOrNil],
// [TryCast] and [TryCastOrNil] recover concrete types from a [Node] using
// the kind, which is the same value written to IR files.
//
// # Lifetime
//
// Nodes cannot be freed individually. [Arena.Close] releases all of them
// at once; afterwards every reference into the arena resolves to absent.
// An arena is not safe for concurrent use.
package ir
