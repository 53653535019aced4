// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package ir

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// NilID is the identity carried by references that point at nothing.
var NilID = ulid.ULID{}

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// NewID generates a fresh node identity.
func NewID() ulid.ULID {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
}

// ParseID parses an identity in either ULID or canonical UUID text form.
// Both encode the same 16 bytes, so a UUID written by other tooling
// round-trips to the same identity.
func ParseID(s string) (ulid.ULID, error) {
	id, err := ulid.ParseStrict(s)
	if err == nil {
		return id, nil
	}
	u, uerr := uuid.Parse(s)
	if uerr != nil {
		return ulid.ULID{}, oops.Code("IR_INVALID_ID").With("id", s).Wrapf(err, "invalid identity %q", s)
	}
	return IDFromUUID(u), nil
}

// IDFromUUID reinterprets the bytes of a UUID as an identity.
func IDFromUUID(u uuid.UUID) ulid.ULID {
	return ulid.ULID(u)
}

// UUIDOf reinterprets the bytes of an identity as a UUID.
func UUIDOf(id ulid.ULID) uuid.UUID {
	return uuid.UUID(id)
}
