// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package errutil logs and asserts on oops errors.
package errutil

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs err at error level on logger, or on slog.Default() when
// logger is nil. A nil err logs nothing.
func LogError(logger *slog.Logger, msg string, err error) {
	LogErrorContext(context.Background(), logger, msg, err)
}

// LogErrorContext is LogError with a context, so trace-aware handlers can
// attach span identifiers.
func LogErrorContext(ctx context.Context, logger *slog.Logger, msg string, err error) {
	if err == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.LogAttrs(ctx, slog.LevelError, msg, Attrs(err)...)
}

// Attrs describes err as log attributes. Oops errors add their code and
// context to the error text.
func Attrs(err error) []slog.Attr {
	attrs := []slog.Attr{slog.String("error", err.Error())}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return attrs
	}
	if code := oopsErr.Code(); code != nil {
		attrs = append(attrs, slog.Any("code", code))
	}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		attrs = append(attrs, slog.Any("context", ctx))
	}
	return attrs
}
