// LECO Coordinator - control-plane message router for laboratory components
// License: MIT
//
// Copyright (c) 2026 LECO Coordinator contributors

// Command coordinator runs a LECO coordinator process: it binds a
// multiplexed router socket, accepts sign-ins from Components, and relays
// control-plane messages between them until stopped.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/leco-dev/coordinator/cmd/coordinator/internal/run"
	"github.com/leco-dev/coordinator/cmd/coordinator/internal/version"
)

// NewCoordinatorCommand assembles the root command and its subcommands.
func NewCoordinatorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "coordinator",
		Short:   "LECO coordinator - control-plane message router",
		Example: "coordinator run",
	}

	cmd.AddCommand(
		run.NewRunCommand(),
		version.NewVersionCommand(),
	)

	return cmd
}

func main() {
	cmd := NewCoordinatorCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
