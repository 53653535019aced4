// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package sample builds a small, fully linked IR graph. It backs the
// demo command and serves as a fixture for tests.
package sample

import (
	"github.com/holomush/irgraph/pkg/ir"
)

// Graph holds the nodes Build creates, by role.
type Graph struct {
	Module  *ir.Module
	Text    *ir.Section
	Data    *ir.Section
	Entry   *ir.BasicBlock
	Loop    *ir.BasicBlock
	Exit    *ir.BasicBlock
	Puts    *ir.ProxyBlock
	Message *ir.DataObject
	Counter *ir.DataObject
	Symbols []*ir.Symbol
}

// NodeCount is the number of nodes Build creates.
const NodeCount = 12

// EdgeCount is the number of non-zero references Build creates.
const EdgeCount = 22

// Build constructs a module for a tiny x86-64 ELF executable in a.
func Build(a *ir.Arena) *Graph {
	g := &Graph{}

	g.Module = ir.NewModule(a, "hello")
	g.Module.BinaryPath = "/usr/local/bin/hello"
	g.Module.FileFormat = ir.FileFormatELF
	g.Module.ISA = ir.ISAX64
	g.Module.PreferredAddr = 0x400000
	// Bounds are constants; the error path cannot trigger.
	_ = g.Module.SetAddrRange(0x400000, 0x604000)

	g.Text = ir.NewSection(a, ".text", 0x401000, 0x1000)
	g.Data = ir.NewSection(a, ".data", 0x603000, 0x1000)

	g.Entry = ir.NewBasicBlock(a, 0x401000, 0x12)
	g.Loop = ir.NewBasicBlock(a, 0x401012, 0x0c)
	g.Exit = ir.NewBasicBlock(a, 0x40101e, 0x04)
	g.Puts = ir.NewProxyBlock(a)

	g.Message = ir.NewDataObject(a, 0x603000, 6)
	g.Message.Bytes = ir.Bytes("hello\x00")
	g.Counter = ir.NewDataObject(a, 0x603008, 8)

	g.Entry.AddSuccessor(g.Loop)
	g.Entry.AddDataRef(g.Counter)
	g.Loop.AddSuccessor(g.Puts)
	g.Loop.AddSuccessor(g.Loop)
	g.Loop.AddSuccessor(g.Exit)
	g.Loop.AddDataRef(g.Message)
	g.Loop.AddDataRef(g.Counter)

	entry := ir.NewSymbol(a, "main", g.Entry.Address)
	entry.SetReferent(g.Entry)
	puts := ir.NewSymbol(a, "puts", 0)
	puts.Storage = ir.StorageExtern
	puts.SetReferent(g.Puts)
	message := ir.NewSymbol(a, "message", g.Message.Address)
	message.Storage = ir.StorageStatic
	message.SetReferent(g.Message)
	g.Symbols = []*ir.Symbol{entry, puts, message}

	m := g.Module
	m.EntryPoint = ir.RefTo(g.Entry)
	m.AddSection(g.Text)
	m.AddSection(g.Data)
	for _, b := range []ir.CFGNode{g.Entry, g.Loop, g.Exit, g.Puts} {
		m.AddBlock(b)
	}
	for _, s := range g.Symbols {
		m.AddSymbol(s)
	}
	m.AddData(g.Message)
	m.AddData(g.Counter)

	return g
}
