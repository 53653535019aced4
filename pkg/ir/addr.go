// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package ir

import (
	"strconv"
	"strings"

	"github.com/samber/oops"
)

// Addr is an effective address in the analyzed image.
type Addr uint64

// String returns the address in 0x-prefixed hexadecimal.
func (a Addr) String() string {
	return "0x" + strconv.FormatUint(uint64(a), 16)
}

// MarshalText implements encoding.TextMarshaler.
func (a Addr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Decimal input and
// 0x-prefixed hexadecimal are accepted.
func (a *Addr) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return oops.Code("IR_INVALID_ADDR").With("addr", s).Wrap(err)
	}
	*a = Addr(v)
	return nil
}

// AddrRange is a closed [Min, Max] address interval.
type AddrRange struct {
	Min Addr `yaml:"min"`
	Max Addr `yaml:"max"`
}

// Contains reports whether addr lies within r.
func (r AddrRange) Contains(addr Addr) bool {
	return addr >= r.Min && addr <= r.Max
}
