// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package ir

import "errors"

var (
	// ErrDuplicateID is returned when an identity is already registered in an arena.
	ErrDuplicateID = errors.New("identity already registered")

	// ErrZeroID is returned when a node would be registered under the nil identity.
	ErrZeroID = errors.New("identity must not be zero")

	// ErrUnknownKind is returned for a kind outside the node hierarchy.
	ErrUnknownKind = errors.New("unknown node kind")

	// ErrAbstractKind is returned when a category kind is used where a concrete kind is required.
	ErrAbstractKind = errors.New("kind is abstract")

	// ErrArenaClosed is returned when an arena is used after Close.
	ErrArenaClosed = errors.New("arena closed")

	// ErrInvalidAddrRange is returned when an address range has min > max.
	ErrInvalidAddrRange = errors.New("address range minimum exceeds maximum")

	// ErrMalformedPayload is returned when an encoded payload cannot be decoded.
	ErrMalformedPayload = errors.New("malformed node payload")
)
