// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/holomush/irgraph/internal/config"
	"github.com/holomush/irgraph/internal/logging"
	"github.com/holomush/irgraph/internal/observability"
	"github.com/holomush/irgraph/internal/xdg"
	"github.com/holomush/irgraph/pkg/ir"
	"github.com/holomush/irgraph/pkg/irio"
)

// app holds state shared by subcommands for one invocation.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *observability.Metrics
	arenas   []trackedArena
}

// trackedArena is an arena opened by the current command, keyed by the
// name it is reported under in metrics.
type trackedArena struct {
	name  string
	arena *ir.Arena
}

// NewRootCmd creates the root command for the irgraph CLI.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "irgraph",
		Short: "Inspect and convert binary-analysis IR files",
		Long: `irgraph reads and writes IR graphs of disassembled executables.
Files ending in .yaml or .yml are YAML documents; anything else is the
checksummed binary format.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.finish()
		},
	}

	config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(newStatsCmd(a))
	cmd.AddCommand(newCheckCmd(a))
	cmd.AddCommand(newConvertCmd(a))
	cmd.AddCommand(newSymbolsCmd(a))
	cmd.AddCommand(newDemoCmd(a))

	return cmd
}

// setup loads configuration and installs the logger and metrics.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	logger, err := logging.SetDefault(logging.Options{
		Service: "irgraph",
		Version: version,
		Format:  cfg.Log.Format,
		Level:   cfg.Log.Level,
		Output:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.registry, a.metrics = observability.NewRegistry()
	return nil
}

// finish writes the metrics file, if configured, then closes every arena
// the command opened. The dump runs first so it reports the arenas the
// command worked on.
func (a *app) finish() error {
	defer a.closeAll()
	if a.cfg == nil || a.cfg.Metrics.File == "" {
		return nil
	}
	if err := observability.WriteTextfile(a.cfg.Metrics.File, a.registry); err != nil {
		return err
	}
	a.logger.Debug("wrote metrics", "path", a.cfg.Metrics.File)
	return nil
}

// closeAll closes the command's arenas and stops reporting them.
func (a *app) closeAll() {
	for _, t := range a.arenas {
		if a.metrics != nil {
			a.metrics.Arenas.Untrack(t.name)
		}
		t.arena.Close()
	}
	a.arenas = nil
}

func (a *app) ioOptions() irio.Options {
	opts := a.cfg.IOOptions(a.logger)
	opts.ArenaOptions = []ir.Option{ir.WithLogger(a.logger)}
	return opts
}

// load reads path and tracks the resulting arena for metrics and cleanup.
func (a *app) load(ctx context.Context, path string) (*ir.Arena, error) {
	ctx = logging.WithFile(ctx, path)
	opts := a.ioOptions()
	start := time.Now()
	arena, err := irio.Load(ctx, path, opts)
	a.metrics.ObserveIO("load", string(opts.FormatFor(path)), start, err)
	if err != nil {
		return nil, err
	}
	a.track(path, arena)
	return arena, nil
}

// newArena creates an empty arena tracked like a loaded one.
func (a *app) newArena(name string) *ir.Arena {
	arena := ir.NewArena(ir.WithLogger(a.logger))
	a.track(name, arena)
	return arena
}

func (a *app) track(name string, arena *ir.Arena) {
	a.arenas = append(a.arenas, trackedArena{name: name, arena: arena})
	a.metrics.Arenas.Track(name, arena)
}

// save writes arena to path, creating the parent directory if needed.
func (a *app) save(ctx context.Context, path string, arena *ir.Arena) error {
	if err := xdg.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	ctx = logging.WithFile(ctx, path)
	opts := a.ioOptions()
	opts.Format = a.cfg.OutputFormat(path)
	start := time.Now()
	err := irio.Save(ctx, path, arena, opts)
	a.metrics.ObserveIO("save", string(opts.Format), start, err)
	return err
}
