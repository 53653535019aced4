// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/spf13/cobra"
)

func newConvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Convert an IR file between formats",
		Long: `Read IN and write it to OUT. Formats follow the file extensions unless
--format is given; identities and references are preserved exactly.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			arena, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.save(cmd.Context(), args[1], arena); err != nil {
				return err
			}
			cmd.Printf("wrote %d nodes to %s\n", arena.Len(), args[1])
			return nil
		},
	}
}
