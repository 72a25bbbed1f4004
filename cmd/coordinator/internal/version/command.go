// Package version implements the `coordinator version` subcommand.
package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leco-dev/coordinator/cmd/coordinator/internal"
)

// NewVersionCommand builds the `version` subcommand.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the coordinator version",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Println(internal.FormatVersion())
			if buildTime, goVer := internal.FormatBuildInfo(); buildTime != "" {
				fmt.Printf("built %s with %s\n", buildTime, goVer)
			}
			return nil
		},
	}
}
