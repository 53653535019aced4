// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/irgraph/internal/config"
	"github.com/holomush/irgraph/pkg/errutil"
	"github.com/holomush/irgraph/pkg/irio"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.BindFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := config.Load(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "zstd", cfg.Output.Compression)
	assert.Empty(t, cfg.Output.Format)
	assert.False(t, cfg.Input.Validate)
	assert.Empty(t, cfg.Metrics.File)
}

func TestLoad_NilFlags(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := config.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "zstd", cfg.Output.Compression)
}

func TestLoad_DefaultFileFromXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)
	dir := filepath.Join(base, "irgraph")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	writeConfig(t, dir, "log:\n  format: json\ninput:\n  validate: true\n")

	cfg, err := config.Load(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Input.Validate)
	assert.Equal(t, "zstd", cfg.Output.Compression, "unset keys keep defaults")
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := writeConfig(t, t.TempDir(), "output:\n  compression: none\n  format: yaml\nmetrics:\n  file: /tmp/a.prom\n")

	cfg, err := config.Load(newFlags(t, "--config", path, "--compression", "zstd", "--log-level", "debug"))
	require.NoError(t, err)
	assert.Equal(t, "zstd", cfg.Output.Compression)
	assert.Equal(t, "yaml", cfg.Output.Format, "file value survives unset flag")
	assert.Equal(t, "/tmp/a.prom", cfg.Metrics.File)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := config.Load(newFlags(t, "--config", filepath.Join(t.TempDir(), "nope.yaml")))
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_FILE_FAILED")
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	tests := []struct {
		name string
		args []string
		key  string
	}{
		{"compression", []string{"--compression", "lz4"}, "output.compression"},
		{"output format", []string{"--format", "xml"}, "output.format"},
		{"log format", []string{"--log-format", "logfmt"}, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(newFlags(t, tt.args...))
			require.Error(t, err)
			errutil.AssertErrorContext(t, err, "key", tt.key)
		})
	}
}

func TestConfig_OutputFormat(t *testing.T) {
	cfg := &config.Config{}
	assert.Equal(t, irio.FormatYAML, cfg.OutputFormat("a.yml"))
	assert.Equal(t, irio.FormatBinary, cfg.OutputFormat("a.irg"))

	cfg.Output.Format = "yaml"
	assert.Equal(t, irio.FormatYAML, cfg.OutputFormat("a.irg"))
}

func TestConfig_IOOptions(t *testing.T) {
	cfg := &config.Config{
		Output: config.OutputConfig{Compression: "none"},
		Input:  config.InputConfig{Validate: true},
	}
	opts := cfg.IOOptions(nil)
	assert.Equal(t, irio.CompressionNone, opts.Compression)
	assert.True(t, opts.Validate)
}
