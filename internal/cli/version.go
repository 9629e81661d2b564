package cli

import (
	"fmt"

	"github.com/fmueller/srt2vtt/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "srt2vtt v%s\n", version.Describe())
			return nil
		},
	}
}
