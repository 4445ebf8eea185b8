// Package cmdutil holds helpers shared by the subcommands.
package cmdutil

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ManojKumarRabidas/Vyakaranaa/internal/config"
)

const (
	FlagConfig  = "config"
	FlagVerbose = "verbose"
)

// LoadConfig reads .env, then builds and validates the configuration using
// the persistent --config and --verbose flags.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	if envFile != "" {
		cmd.PrintErrf("loaded environment from %s\n", envFile)
	}

	path, _ := cmd.Flags().GetString(FlagConfig)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if verbose, _ := cmd.Flags().GetBool(FlagVerbose); verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}
