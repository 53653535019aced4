// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/holomush/irgraph/internal/sample"
)

func newDemoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo OUT",
		Short: "Write a small sample IR file",
		Long: `Build a sample module (sections, blocks, an external call through a
proxy block, data objects and symbols) and write it to OUT.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arena := a.newArena("demo")
			g := sample.Build(arena)
			if err := a.save(cmd.Context(), args[0], arena); err != nil {
				return err
			}
			cmd.Printf("wrote module %s (%d nodes) to %s\n", g.Module.Name, arena.Len(), args[0])
			return nil
		},
	}
}
