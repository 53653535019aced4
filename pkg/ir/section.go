// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package ir

// Section is a named, contiguous address region of the image.
type Section struct {
	nodeBase `yaml:"-"`

	Name    string `yaml:"name"`
	Address Addr   `yaml:"address"`
	Size    uint64 `yaml:"size"`
}

// NewSection constructs a section in a.
func NewSection(a *Arena, name string, addr Addr, size uint64) *Section {
	return construct(a, func(s *Section) {
		s.Name = name
		s.Address = addr
		s.Size = size
	})
}

// Contains reports whether addr falls inside the section.
func (s *Section) Contains(addr Addr) bool {
	return addr >= s.Address && uint64(addr-s.Address) < s.Size
}
