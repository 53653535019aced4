// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package config loads irgraph settings from defaults, a YAML file and
// command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/holomush/irgraph/internal/xdg"
	"github.com/holomush/irgraph/pkg/irio"
)

// Config is the resolved irgraph configuration.
type Config struct {
	Log     LogConfig     `koanf:"log"`
	Output  OutputConfig  `koanf:"output"`
	Input   InputConfig   `koanf:"input"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// LogConfig controls logging.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// OutputConfig controls how IR files are written.
type OutputConfig struct {
	// Format forces the output format. Empty picks it from the extension.
	Format      string `koanf:"format"`
	Compression string `koanf:"compression"`
}

// InputConfig controls how IR files are read.
type InputConfig struct {
	Validate bool `koanf:"validate"`
}

// MetricsConfig controls the metrics textfile.
type MetricsConfig struct {
	// File receives metrics in Prometheus text format after each command.
	// Empty disables it.
	File string `koanf:"file"`
}

// ConfigFlag is the name of the flag that overrides the config file path.
const ConfigFlag = "config"

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"log-format":   "log.format",
	"log-level":    "log.level",
	"format":       "output.format",
	"compression":  "output.compression",
	"validate":     "input.validate",
	"metrics-file": "metrics.file",
}

var defaults = map[string]any{
	"log.format":         "text",
	"log.level":          "info",
	"output.format":      "",
	"output.compression": "zstd",
	"input.validate":     false,
	"metrics.file":       "",
}

// BindFlags registers the configuration flags on flags.
func BindFlags(flags *pflag.FlagSet) {
	flags.String(ConfigFlag, "", "config file (default $XDG_CONFIG_HOME/irgraph/config.yaml)")
	flags.String("log-format", "text", "log format (json, text)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("format", "", "output format (binary, yaml); default from file extension")
	flags.String("compression", "zstd", "binary output compression (none, zstd)")
	flags.Bool("validate", false, "validate YAML input against the document schema")
	flags.String("metrics-file", "", "write Prometheus metrics to this file")
}

// Load resolves the configuration. Flags in flags that the user set override
// the file, which overrides the defaults. A missing file is only an error
// when its path was given explicitly.
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	for key, val := range defaults {
		if err := k.Set(key, val); err != nil {
			return nil, oops.Code("CONFIG_DEFAULTS_FAILED").With("key", key).Wrap(err)
		}
	}

	path, explicit := configPath(flags)
	if err := loadFile(k, path, explicit); err != nil {
		return nil, err
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// configPath returns the config file to read and whether the user named
// it. Without a home directory there is no default file.
func configPath(flags *pflag.FlagSet) (string, bool) {
	if flags != nil {
		if f := flags.Lookup(ConfigFlag); f != nil && f.Value.String() != "" {
			return f.Value.String(), true
		}
	}
	path, err := xdg.ConfigFile()
	if err != nil {
		return "", false
	}
	return path, false
}

func loadFile(k *koanf.Koanf, path string, explicit bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return oops.Code("CONFIG_FILE_FAILED").With("path", path).Wrap(err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return oops.Code("CONFIG_FILE_FAILED").With("path", path).Wrap(err)
	}
	return nil
}

// Validate checks that enumerated settings hold known values.
func (c *Config) Validate() error {
	if c.Output.Format != "" {
		if _, err := irio.ParseFormat(c.Output.Format); err != nil {
			return oops.Code("CONFIG_INVALID").With("key", "output.format").Wrap(err)
		}
	}
	if _, err := irio.ParseCompression(c.Output.Compression); err != nil {
		return oops.Code("CONFIG_INVALID").With("key", "output.compression").Wrap(err)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return oops.Code("CONFIG_INVALID").
			With("key", "log.format").
			With("value", c.Log.Format).
			Errorf("log.format must be json or text")
	}
	return nil
}

// OutputFormat returns the format to write path in.
func (c *Config) OutputFormat(path string) irio.Format {
	if c.Output.Format != "" {
		if f, err := irio.ParseFormat(c.Output.Format); err == nil {
			return f
		}
	}
	return irio.FormatForPath(path)
}

// IOOptions returns the irio options the configuration describes.
func (c *Config) IOOptions(logger *slog.Logger) irio.Options {
	// Validate has already rejected unknown compression names.
	compression, _ := irio.ParseCompression(c.Output.Compression)
	return irio.Options{
		Compression: compression,
		Validate:    c.Input.Validate,
		Logger:      logger,
	}
}
