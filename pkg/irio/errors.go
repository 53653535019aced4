// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package irio

import "errors"

var (
	// ErrBadMagic is returned when input does not start with the IR file magic.
	ErrBadMagic = errors.New("not an IR file")

	// ErrUnsupportedVersion is returned for files written by an incompatible format version.
	ErrUnsupportedVersion = errors.New("unsupported IR format version")

	// ErrChecksum is returned when the body checksum does not match.
	ErrChecksum = errors.New("IR body checksum mismatch")

	// ErrMalformed is returned when the input cannot be parsed.
	ErrMalformed = errors.New("malformed IR input")

	// ErrUnknownCompression is returned for an unrecognized compression method.
	ErrUnknownCompression = errors.New("unknown compression")

	// ErrUnknownFormat is returned for an unrecognized file format name.
	ErrUnknownFormat = errors.New("unknown file format")
)
