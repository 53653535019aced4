// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package ir

// BasicBlock is a straight-line run of instructions.
type BasicBlock struct {
	nodeBase `yaml:"-"`

	Address    Addr   `yaml:"address"`
	Size       uint64 `yaml:"size"`
	DecodeMode uint64 `yaml:"decode_mode,omitempty"`

	Successors []Ref[CFGNode]     `yaml:"successors,omitempty"`
	DataRefs   []Ref[*DataObject] `yaml:"data_refs,omitempty"`
}

// NewBasicBlock constructs a block of size bytes at addr in a.
func NewBasicBlock(a *Arena, addr Addr, size uint64) *BasicBlock {
	return construct(a, func(b *BasicBlock) {
		b.Address = addr
		b.Size = size
	})
}

func (*BasicBlock) cfgNode() {}

// AddSuccessor records a control-flow edge from b to to.
func (b *BasicBlock) AddSuccessor(to CFGNode) {
	b.Successors = append(b.Successors, RefTo(to))
}

// AddDataRef records that b references d.
func (b *BasicBlock) AddDataRef(d *DataObject) {
	b.DataRefs = append(b.DataRefs, RefTo(d))
}

// Refs implements Referrer.
func (b *BasicBlock) Refs() []RefInfo {
	infos := refInfos("successors", b.Successors)
	return append(infos, refInfos("data_refs", b.DataRefs)...)
}

// ProxyBlock stands in for a control-flow target whose code is not part
// of the IR, such as an indirect jump target or an external function.
type ProxyBlock struct {
	nodeBase `yaml:"-"`
}

// NewProxyBlock constructs a proxy block in a.
func NewProxyBlock(a *Arena) *ProxyBlock {
	return construct[ProxyBlock](a, nil)
}

func (*ProxyBlock) cfgNode() {}
