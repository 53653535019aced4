// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/holomush/irgraph/pkg/ir"
)

// KindCount is the number of nodes of one kind.
type KindCount struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// ModuleSummary describes one module node.
type ModuleSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	FileFormat string `json:"file_format"`
	ISA        string `json:"isa"`
	EntryPoint string `json:"entry_point,omitempty"`
	Sections   int    `json:"sections"`
	Blocks     int    `json:"blocks"`
	Symbols    int    `json:"symbols"`
}

// Stats summarizes an IR file.
type Stats struct {
	Path    string          `json:"path"`
	Nodes   int             `json:"nodes"`
	Edges   int             `json:"edges"`
	Chunks  int             `json:"chunks"`
	Kinds   []KindCount     `json:"kinds"`
	Modules []ModuleSummary `json:"modules"`
}

type statsConfig struct {
	jsonOutput bool
}

func newStatsCmd(a *app) *cobra.Command {
	cfg := &statsConfig{}

	cmd := &cobra.Command{
		Use:   "stats FILE",
		Short: "Show node counts and module summaries for an IR file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arena, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			stats := computeStats(args[0], arena)
			if cfg.jsonOutput {
				return writeStatsJSON(cmd.OutOrStdout(), stats)
			}
			return writeStatsTable(cmd.OutOrStdout(), stats)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output stats as JSON")

	return cmd
}

func computeStats(path string, arena *ir.Arena) Stats {
	nodes := slices.Collect(arena.Nodes())

	byKind := lo.CountValuesBy(nodes, func(n ir.Node) ir.Kind { return n.Kind() })
	kinds := lo.FilterMap(ir.ConcreteKinds(), func(k ir.Kind, _ int) (KindCount, bool) {
		return KindCount{Kind: k.String(), Count: byKind[k]}, byKind[k] > 0
	})

	edges := lo.SumBy(nodes, func(n ir.Node) int {
		if r, ok := n.(ir.Referrer); ok {
			return len(r.Refs())
		}
		return 0
	})

	modules := lo.FilterMap(nodes, func(n ir.Node, _ int) (ModuleSummary, bool) {
		m, ok := ir.TryCast[*ir.Module](n)
		if !ok {
			return ModuleSummary{}, false
		}
		summary := ModuleSummary{
			ID:         m.ID().String(),
			Name:       m.Name,
			FileFormat: m.FileFormat.String(),
			ISA:        m.ISA.String(),
			Sections:   len(m.Sections),
			Blocks:     len(m.Blocks),
			Symbols:    len(m.Symbols),
		}
		if !m.EntryPoint.IsZero() {
			if entry, ok := m.EntryPoint.Get(arena); ok {
				summary.EntryPoint = entry.Address.String()
			}
		}
		return summary, true
	})

	return Stats{
		Path:    path,
		Nodes:   len(nodes),
		Edges:   edges,
		Chunks:  arena.Stats().Chunks,
		Kinds:   kinds,
		Modules: modules,
	}
}

func writeStatsJSON(w io.Writer, stats Stats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(stats); err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}
	return nil
}

func writeStatsTable(w io.Writer, stats Stats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "FILE\t%s\n", stats.Path)
	_, _ = fmt.Fprintf(tw, "NODES\t%d\n", stats.Nodes)
	_, _ = fmt.Fprintf(tw, "EDGES\t%d\n", stats.Edges)
	_, _ = fmt.Fprintf(tw, "CHUNKS\t%d\n", stats.Chunks)
	_, _ = fmt.Fprintln(tw)
	_, _ = fmt.Fprintln(tw, "KIND\tCOUNT")
	for _, k := range stats.Kinds {
		_, _ = fmt.Fprintf(tw, "%s\t%d\n", k.Kind, k.Count)
	}
	for _, m := range stats.Modules {
		_, _ = fmt.Fprintln(tw)
		_, _ = fmt.Fprintf(tw, "MODULE\t%s (%s/%s)\n", m.Name, m.FileFormat, m.ISA)
		if m.EntryPoint != "" {
			_, _ = fmt.Fprintf(tw, "ENTRY\t%s\n", m.EntryPoint)
		}
		_, _ = fmt.Fprintf(tw, "SECTIONS\t%d\n", m.Sections)
		_, _ = fmt.Fprintf(tw, "BLOCKS\t%d\n", m.Blocks)
		_, _ = fmt.Fprintf(tw, "SYMBOLS\t%d\n", m.Symbols)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write stats: %w", err)
	}
	return nil
}
