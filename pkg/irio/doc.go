// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package irio reads and writes IR arenas.
//
// Two formats are supported. The binary format is a small header followed
// by the nodes in protobuf wire format, optionally zstd-compressed and
// always checksummed. The YAML format is a human-readable document that can
// be validated against a generated JSON Schema.
//
// Decoding is two-phase: every node is first restored into a fresh arena
// with its recorded identity and kind, then payloads are decoded. Every
// reference therefore resolves once decoding returns, whatever order the
// nodes were written in.
package irio
