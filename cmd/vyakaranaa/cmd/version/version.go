package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X github.com/ManojKumarRabidas/Vyakaranaa/cmd/vyakaranaa/cmd/version.version=..."
var version = "v0.1.0"

// Cmd represents the version command
var Cmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of vyakaranaa",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), version)
		return nil
	},
}
