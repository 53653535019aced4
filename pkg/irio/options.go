// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package irio

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/samber/oops"

	"github.com/holomush/irgraph/pkg/ir"
)

// Format names an on-disk representation.
type Format string

// Supported formats.
const (
	FormatBinary Format = "binary"
	FormatYAML   Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatBinary, FormatYAML:
		return f, nil
	}
	return "", oops.Code("IRIO_UNKNOWN_FORMAT").With("format", s).Wrap(ErrUnknownFormat)
}

// FormatForPath picks the format from a file extension. Anything that is
// not .yaml or .yml is binary.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatBinary
}

// Compression selects how the binary body is stored.
type Compression uint8

// Compression methods. Values are written to file headers.
const (
	CompressionNone Compression = 0
	CompressionZstd Compression = 1
)

// String returns the compression method's name.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	}
	return "unknown"
}

// ParseCompression returns the compression method with the given name.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	}
	return 0, oops.Code("IRIO_UNKNOWN_COMPRESSION").With("compression", s).Wrap(ErrUnknownCompression)
}

// Options controls encoding and decoding.
type Options struct {
	// Format overrides the extension-derived format in Save and Load.
	Format Format
	// Compression applies to binary output.
	Compression Compression
	// Validate checks YAML input against the document schema before decoding.
	Validate bool
	// ArenaOptions are passed to the arena created by decoding.
	ArenaOptions []ir.Option
	// Logger receives save/load events. Defaults to slog.Default().
	Logger *slog.Logger
}

// FormatFor returns o.Format, or the format path's extension implies when
// that is empty.
func (o Options) FormatFor(path string) Format {
	if o.Format != "" {
		return o.Format
	}
	return FormatForPath(path)
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
