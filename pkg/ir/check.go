// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package ir

import (
	"github.com/oklog/ulid/v2"
)

// DanglingReason explains why a reference does not resolve.
type DanglingReason string

// Dangling reasons.
const (
	DanglingMissing      DanglingReason = "missing"
	DanglingKindMismatch DanglingReason = "kind_mismatch"
)

// DanglingRef is a reference that does not resolve in its arena.
type DanglingRef struct {
	From     ulid.ULID
	FromKind Kind
	Ref      RefInfo
	Reason   DanglingReason
	// Found is the kind actually registered under the identity, for
	// DanglingKindMismatch.
	Found Kind
}

// Check walks every node in a and reports the references that do not
// resolve there. Zero references are not reported.
func Check(a *Arena) []DanglingRef {
	var dangling []DanglingRef
	for n := range a.Nodes() {
		r, ok := n.(Referrer)
		if !ok {
			continue
		}
		for _, info := range r.Refs() {
			if info.ID == NilID {
				continue
			}
			target, found := a.Lookup(info.ID)
			switch {
			case !found:
				dangling = append(dangling, DanglingRef{
					From: n.ID(), FromKind: n.Kind(), Ref: info, Reason: DanglingMissing,
				})
			case !info.Target.Classifies(target.Kind()):
				dangling = append(dangling, DanglingRef{
					From: n.ID(), FromKind: n.Kind(), Ref: info, Reason: DanglingKindMismatch,
					Found: target.Kind(),
				})
			}
		}
	}
	return dangling
}
