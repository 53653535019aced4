// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package ir

import (
	"fmt"
	"reflect"
)

// The functions in this file recover concrete node types from a Node (or
// a category such as CFGNode) using the node's Kind rather than Go's
// dynamic type. Upcasts need no helper: a *BasicBlock is assignable to
// CFGNode and Node, and the compiler checks it.
//
//	IsA           nil panics      mismatch -> false
//	Cast          nil panics      mismatch panics
//	CastOrNil     nil -> nil      mismatch panics
//	TryCast       nil panics      mismatch -> (zero, false)
//	TryCastOrNil  nil -> (zero, false)

// IsA reports whether v is an instance of X. v must not be nil.
func IsA[X, Y Node](v Y) bool {
	if isNil(v) {
		panic("ir.IsA: called on a nil node")
	}
	return classOf[X]().Classifies(v.Kind())
}

// Cast converts v to X. v must be non-nil and an instance of X.
func Cast[X, Y Node](v Y) X {
	if !IsA[X](v) {
		panic(fmt.Sprintf("ir.Cast: %s %s is not a %s", v.Kind(), v.ID(), classOf[X]()))
	}
	return convert[X](v)
}

// CastOrNil is like Cast but returns the zero X for a nil v.
func CastOrNil[X, Y Node](v Y) X {
	if isNil(v) {
		var zero X
		return zero
	}
	return Cast[X](v)
}

// TryCast converts v to X if v is an instance of X. v must not be nil.
func TryCast[X, Y Node](v Y) (X, bool) {
	if !IsA[X](v) {
		var zero X
		return zero, false
	}
	return convert[X](v), true
}

// TryCastOrNil is like TryCast but also reports false for a nil v.
func TryCastOrNil[X, Y Node](v Y) (X, bool) {
	if isNil(v) {
		var zero X
		return zero, false
	}
	return TryCast[X](v)
}

// convert performs the Go conversion once the kind check has passed. A
// failure here means a node carries a kind that does not match its type.
func convert[X, Y Node](v Y) X {
	x, ok := any(v).(X)
	if !ok {
		panic(fmt.Sprintf("ir: node %s has kind %s but Go type %T", v.ID(), v.Kind(), v))
	}
	return x
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
