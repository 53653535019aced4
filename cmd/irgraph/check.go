// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/irgraph/pkg/ir"
)

// ErrDanglingRefs is returned by check when references do not resolve.
var ErrDanglingRefs = errors.New("dangling references")

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Report references that do not resolve",
		Long: `Load an IR file and report every reference whose target is missing
or has a kind the reference does not accept. Exits non-zero if any are found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arena, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			dangling := ir.Check(arena)
			writeDangling(cmd.OutOrStdout(), dangling)
			if len(dangling) > 0 {
				return oops.Code("CHECK_DANGLING").
					With("path", args[0]).
					With("count", len(dangling)).
					Wrap(ErrDanglingRefs)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d nodes, no dangling references\n", args[0], arena.Len())
			return nil
		},
	}
}

func writeDangling(w io.Writer, dangling []ir.DanglingRef) {
	for _, d := range dangling {
		switch d.Reason {
		case ir.DanglingKindMismatch:
			_, _ = fmt.Fprintf(w, "%s %s: %s -> %s: is %s, want %s\n",
				d.FromKind, d.From, d.Ref.Field, d.Ref.ID, d.Found, d.Ref.Target)
		default:
			_, _ = fmt.Fprintf(w, "%s %s: %s -> %s: %s\n",
				d.FromKind, d.From, d.Ref.Field, d.Ref.ID, d.Reason)
		}
	}
}
