// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/irgraph/pkg/ir"
)

type symbolsConfig struct {
	match string
}

func newSymbolsCmd(a *app) *cobra.Command {
	cfg := &symbolsConfig{}

	cmd := &cobra.Command{
		Use:   "symbols FILE",
		Short: "List symbols, optionally filtered by a glob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := glob.Compile(cfg.match)
			if err != nil {
				return oops.Code("INVALID_GLOB").With("pattern", cfg.match).Wrap(err)
			}
			arena, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeSymbols(cmd.OutOrStdout(), arena, matchSymbols(arena, g))
		},
	}

	cmd.Flags().StringVar(&cfg.match, "match", "*", "glob matched against symbol names")

	return cmd
}

// matchSymbols returns the symbols whose names match g, sorted by name
// then address.
func matchSymbols(arena *ir.Arena, g glob.Glob) []*ir.Symbol {
	var out []*ir.Symbol
	for n := range arena.Nodes() {
		if s, ok := ir.TryCast[*ir.Symbol](n); ok && g.Match(s.Name) {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(x, y *ir.Symbol) int {
		return cmp.Or(cmp.Compare(x.Name, y.Name), cmp.Compare(x.Address, y.Address))
	})
	return out
}

func writeSymbols(w io.Writer, arena *ir.Arena, symbols []*ir.Symbol) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tADDRESS\tSTORAGE\tREFERENT")
	for _, s := range symbols {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Name, s.Address, s.Storage, describeReferent(arena, s))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write symbols: %w", err)
	}
	return nil
}

func describeReferent(arena *ir.Arena, s *ir.Symbol) string {
	if s.Referent.IsZero() {
		return "-"
	}
	n, ok := s.Referent.Get(arena)
	if !ok {
		return "dangling " + s.Referent.String()
	}
	switch v := n.(type) {
	case *ir.BasicBlock:
		return "BasicBlock@" + v.Address.String()
	case *ir.DataObject:
		return "DataObject@" + v.Address.String()
	}
	return n.Kind().String()
}
