package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ManojKumarRabidas/Vyakaranaa/cmd/vyakaranaa/cmd/analyze"
	"github.com/ManojKumarRabidas/Vyakaranaa/cmd/vyakaranaa/cmd/cmdutil"
	"github.com/ManojKumarRabidas/Vyakaranaa/cmd/vyakaranaa/cmd/serve"
	"github.com/ManojKumarRabidas/Vyakaranaa/cmd/vyakaranaa/cmd/transcribe"
	"github.com/ManojKumarRabidas/Vyakaranaa/cmd/vyakaranaa/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vyakaranaa",
	Short: "Spoken English coaching: transcribe a short recording and get grammar feedback",
	Long: `Vyakaranaa accepts a short spoken recording, transcribes it with a local or
hosted speech-to-text engine and asks a language model for English coaching feedback.
- serve runs the HTTP API
- analyze runs one recording from the local disk through the same pipeline
- transcribe checks the configured speech-to-text backend on its own`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(analyze.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().String(cmdutil.FlagConfig, "", "YAML config file (default $VYAKARANAA_CONFIG)")
	rootCmd.PersistentFlags().BoolP(cmdutil.FlagVerbose, "V", false, "verbose output (debug logging)")
}
