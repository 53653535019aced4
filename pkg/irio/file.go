// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package irio

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/oops"

	"github.com/holomush/irgraph/pkg/ir"
)

// Encode writes a to w in the given format.
func Encode(w io.Writer, a *ir.Arena, format Format, opts Options) error {
	switch format {
	case FormatBinary:
		return EncodeBinary(w, a, opts)
	case FormatYAML:
		return EncodeYAML(w, a, opts)
	}
	return oops.Code("IRIO_UNKNOWN_FORMAT").With("format", string(format)).Wrap(ErrUnknownFormat)
}

// Decode reads an arena from r in the given format.
func Decode(r io.Reader, format Format, opts Options) (*ir.Arena, error) {
	switch format {
	case FormatBinary:
		return DecodeBinary(r, opts)
	case FormatYAML:
		return DecodeYAML(r, opts)
	}
	return nil, oops.Code("IRIO_UNKNOWN_FORMAT").With("format", string(format)).Wrap(ErrUnknownFormat)
}

// Save writes a to path in opts.Format, or the format the extension
// implies when that is empty. The file is written to a temporary name in
// the same directory and renamed into place, so a failed save leaves any
// previous file intact.
func Save(ctx context.Context, path string, a *ir.Arena, opts Options) (err error) {
	if err := ctx.Err(); err != nil {
		return oops.Code("IRIO_CANCELED").Wrap(err)
	}
	format := opts.FormatFor(path)
	start := time.Now()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return oops.Code("IRIO_WRITE_FAILED").With("path", path).Wrap(err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if err := Encode(w, a, format, opts); err != nil {
		return oops.With("path", path).Wrap(err)
	}
	if err := w.Flush(); err != nil {
		return oops.Code("IRIO_WRITE_FAILED").With("path", path).Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		return oops.Code("IRIO_WRITE_FAILED").With("path", path).Wrap(err)
	}
	if err := ctx.Err(); err != nil {
		return oops.Code("IRIO_CANCELED").Wrap(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return oops.Code("IRIO_WRITE_FAILED").With("path", path).Wrap(err)
	}

	opts.logger().InfoContext(ctx, "saved IR",
		slog.String("path", path),
		slog.String("format", string(format)),
		slog.String("compression", opts.Compression.String()),
		slog.Int("nodes", a.Len()),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

// Load reads the arena stored at path. The format is chosen as in Save.
func Load(ctx context.Context, path string, opts Options) (*ir.Arena, error) {
	if err := ctx.Err(); err != nil {
		return nil, oops.Code("IRIO_CANCELED").Wrap(err)
	}
	format := opts.FormatFor(path)
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, oops.Code("IRIO_READ_FAILED").With("path", path).Wrap(err)
	}
	defer func() { _ = f.Close() }()

	a, err := Decode(bufio.NewReader(f), format, opts)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	if err := ctx.Err(); err != nil {
		a.Close()
		return nil, oops.Code("IRIO_CANCELED").Wrap(err)
	}

	opts.logger().InfoContext(ctx, "loaded IR",
		slog.String("path", path),
		slog.String("format", string(format)),
		slog.Int("nodes", a.Len()),
		slog.Duration("elapsed", time.Since(start)))
	return a, nil
}
