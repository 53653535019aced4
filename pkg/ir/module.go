// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package ir

import (
	"github.com/samber/oops"
)

// FileFormat identifies the container format of the analyzed binary.
type FileFormat uint8

// File formats.
const (
	FileFormatUndefined FileFormat = iota
	FileFormatCOFF
	FileFormatELF
	FileFormatPE
	FileFormatIdaProDb32
	FileFormatIdaProDb64
	FileFormatXCOFF
	FileFormatMACHO
	FileFormatRAW
)

var fileFormatNames = [...]string{
	FileFormatUndefined:  "undefined",
	FileFormatCOFF:       "coff",
	FileFormatELF:        "elf",
	FileFormatPE:         "pe",
	FileFormatIdaProDb32: "idb32",
	FileFormatIdaProDb64: "idb64",
	FileFormatXCOFF:      "xcoff",
	FileFormatMACHO:      "macho",
	FileFormatRAW:        "raw",
}

// String returns the format's short name.
func (f FileFormat) String() string {
	if int(f) < len(fileFormatNames) {
		return fileFormatNames[f]
	}
	return "undefined"
}

// ISA identifies the instruction set of the analyzed binary.
type ISA uint8

// Instruction sets.
const (
	ISAUndefined ISA = iota
	ISAIA32
	ISAPPC32
	ISAX64
	ISAARM
	ISAValidButUnsupported
)

var isaNames = [...]string{
	ISAUndefined:           "undefined",
	ISAIA32:                "ia32",
	ISAPPC32:               "ppc32",
	ISAX64:                 "x64",
	ISAARM:                 "arm",
	ISAValidButUnsupported: "unsupported",
}

// String returns the instruction set's short name.
func (i ISA) String() string {
	if int(i) < len(isaNames) {
		return isaNames[i]
	}
	return "undefined"
}

// Module is the root of one analyzed binary. It refers to the sections,
// symbols, blocks and data objects that make it up.
type Module struct {
	nodeBase `yaml:"-"`

	Name          string     `yaml:"name,omitempty"`
	BinaryPath    string     `yaml:"binary_path,omitempty"`
	FileFormat    FileFormat `yaml:"file_format,omitempty"`
	ISA           ISA        `yaml:"isa,omitempty"`
	PreferredAddr Addr       `yaml:"preferred_addr,omitempty"`
	RebaseDelta   int64      `yaml:"rebase_delta,omitempty"`
	AddrRange     AddrRange  `yaml:"addr_range"`

	EntryPoint Ref[*BasicBlock]   `yaml:"entry_point,omitempty"`
	Sections   []Ref[*Section]    `yaml:"sections,omitempty"`
	Symbols    []Ref[*Symbol]     `yaml:"symbols,omitempty"`
	Blocks     []Ref[CFGNode]     `yaml:"blocks,omitempty"`
	Data       []Ref[*DataObject] `yaml:"data,omitempty"`
}

// NewModule constructs a module named name in a.
func NewModule(a *Arena, name string) *Module {
	return construct(a, func(m *Module) {
		m.Name = name
	})
}

// SetAddrRange sets the module's address bounds. A range with min > max
// is rejected and resets the bounds to zero.
func (m *Module) SetAddrRange(lo, hi Addr) error {
	if lo > hi {
		m.AddrRange = AddrRange{}
		return oops.Code("IR_INVALID_ADDR_RANGE").
			With("min", lo.String()).
			With("max", hi.String()).
			Wrap(ErrInvalidAddrRange)
	}
	m.AddrRange = AddrRange{Min: lo, Max: hi}
	return nil
}

// AddSection appends a reference to s.
func (m *Module) AddSection(s *Section) {
	m.Sections = append(m.Sections, RefTo(s))
}

// AddSymbol appends a reference to s.
func (m *Module) AddSymbol(s *Symbol) {
	m.Symbols = append(m.Symbols, RefTo(s))
}

// AddBlock appends a reference to b.
func (m *Module) AddBlock(b CFGNode) {
	m.Blocks = append(m.Blocks, RefTo(b))
}

// AddData appends a reference to d.
func (m *Module) AddData(d *DataObject) {
	m.Data = append(m.Data, RefTo(d))
}

// SectionNodes resolves the module's section references in its own arena.
// Unresolvable references are skipped and counted.
func (m *Module) SectionNodes() ([]*Section, int) {
	return resolveAll(m.Arena(), m.Sections)
}

// SymbolNodes resolves the module's symbol references.
func (m *Module) SymbolNodes() ([]*Symbol, int) {
	return resolveAll(m.Arena(), m.Symbols)
}

// BlockNodes resolves the module's block references.
func (m *Module) BlockNodes() ([]CFGNode, int) {
	return resolveAll(m.Arena(), m.Blocks)
}

// DataNodes resolves the module's data object references.
func (m *Module) DataNodes() ([]*DataObject, int) {
	return resolveAll(m.Arena(), m.Data)
}

// SectionAt returns the first resolvable section containing addr.
func (m *Module) SectionAt(addr Addr) (*Section, bool) {
	sections, _ := m.SectionNodes()
	for _, s := range sections {
		if s.Contains(addr) {
			return s, true
		}
	}
	return nil, false
}

// Refs implements Referrer.
func (m *Module) Refs() []RefInfo {
	var infos []RefInfo
	if !m.EntryPoint.IsZero() {
		infos = append(infos, m.EntryPoint.info("entry_point"))
	}
	infos = append(infos, refInfos("sections", m.Sections)...)
	infos = append(infos, refInfos("symbols", m.Symbols)...)
	infos = append(infos, refInfos("blocks", m.Blocks)...)
	infos = append(infos, refInfos("data", m.Data)...)
	return infos
}

func resolveAll[T Node](a *Arena, refs []Ref[T]) ([]T, int) {
	out := make([]T, 0, len(refs))
	missing := 0
	for _, r := range refs {
		n, ok := r.Get(a)
		if !ok {
			missing++
			continue
		}
		out = append(out, n)
	}
	return out, missing
}
