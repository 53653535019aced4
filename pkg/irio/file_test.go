// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package irio_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/irgraph/pkg/ir"
	"github.com/holomush/irgraph/pkg/irio"
)

func TestSaveLoad(t *testing.T) {
	tests := []struct {
		file  string
		magic string
	}{
		{"graph.irg", "IRG1"},
		{"graph.yaml", "version"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			src, _ := newSample(t)
			path := filepath.Join(t.TempDir(), tt.file)

			var logs bytes.Buffer
			opts := irio.Options{
				Compression: irio.CompressionZstd,
				Validate:    true,
				Logger:      slog.New(slog.NewJSONHandler(&logs, nil)),
			}
			require.NoError(t, irio.Save(context.Background(), path, src, opts))

			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(raw, []byte(tt.magic)))

			dst, err := irio.Load(context.Background(), path, opts)
			require.NoError(t, err)
			defer dst.Close()
			assertSameGraph(t, src, dst)

			assert.Contains(t, logs.String(), `"msg":"saved IR"`)
			assert.Contains(t, logs.String(), `"msg":"loaded IR"`)
		})
	}
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	src, _ := newSample(t)
	dir := t.TempDir()
	require.NoError(t, irio.Save(context.Background(), filepath.Join(dir, "g.irg"), src, irio.Options{}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "g.irg", entries[0].Name())
}

func TestSave_Canceled(t *testing.T) {
	src, _ := newSample(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "g.irg")
	err := irio.Save(ctx, path, src, irio.Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, path)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := irio.Load(context.Background(), filepath.Join(dir, "missing.irg"), irio.Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)

	garbage := filepath.Join(dir, "garbage.irg")
	require.NoError(t, os.WriteFile(garbage, []byte("not an ir file"), 0o600))
	_, err = irio.Load(context.Background(), garbage, irio.Options{})
	assert.ErrorIs(t, err, irio.ErrBadMagic)
}

func TestLoad_ArenaOptions(t *testing.T) {
	src, _ := newSample(t)
	path := filepath.Join(t.TempDir(), "g.irg")
	require.NoError(t, irio.Save(context.Background(), path, src, irio.Options{}))

	dst, err := irio.Load(context.Background(), path, irio.Options{ArenaOptions: []ir.Option{ir.WithChunkSize(2)}})
	require.NoError(t, err)
	defer dst.Close()
	assert.Greater(t, dst.Stats().Chunks, src.Stats().Chunks)
}

func TestEncode_UnknownFormat(t *testing.T) {
	src, _ := newSample(t)
	err := irio.Encode(&bytes.Buffer{}, src, irio.Format("xml"), irio.Options{})
	assert.ErrorIs(t, err, irio.ErrUnknownFormat)

	_, err = irio.Decode(&bytes.Buffer{}, irio.Format("xml"), irio.Options{})
	assert.ErrorIs(t, err, irio.ErrUnknownFormat)
}

func TestSaveLoad_FormatOverride(t *testing.T) {
	src, _ := newSample(t)
	path := filepath.Join(t.TempDir(), "graph.irg")
	opts := irio.Options{Format: irio.FormatYAML}
	require.NoError(t, irio.Save(context.Background(), path, src, opts))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("version:")))

	_, err = irio.Load(context.Background(), path, irio.Options{})
	assert.ErrorIs(t, err, irio.ErrBadMagic)

	dst, err := irio.Load(context.Background(), path, opts)
	require.NoError(t, err)
	defer dst.Close()
	assertSameGraph(t, src, dst)
}
