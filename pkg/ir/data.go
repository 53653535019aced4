// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package ir

// DataObject is a region of initialized or uninitialized data.
type DataObject struct {
	nodeBase `yaml:"-"`

	Address Addr   `yaml:"address"`
	Size    uint64 `yaml:"size"`
	Bytes   Bytes  `yaml:"bytes,omitempty"`
}

// NewDataObject constructs a data object of size bytes at addr in a.
func NewDataObject(a *Arena, addr Addr, size uint64) *DataObject {
	return construct(a, func(d *DataObject) {
		d.Address = addr
		d.Size = size
	})
}
