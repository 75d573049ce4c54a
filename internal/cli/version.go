package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toyz/pystubgen/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display the version of pystubgen",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pystubgen %s\n", version.GetBuilderVersion())
		},
	}
}
