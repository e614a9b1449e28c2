package main

import (
	"fmt"
	"os"

	"github.com/aretw0/tictac/internal/cli"
	"github.com/aretw0/tictac/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tictac",
	Short: "Play tic-tac-toe against a board on a serial port",
	Long: `tictac talks to a microcontroller running a tic-tac-toe game over a serial line.
Run without a subcommand to start an interactive game.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./tictac.yaml, ~/.tictac/tictac.yaml or Config/config.json)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log debug output to stderr")
}

// loadConfig resolves the configuration for cmd. overrides are dotted keys
// set from flags the user changed.
func loadConfig(cmd *cobra.Command, overrides map[string]any) (config.Config, string, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, used, err := config.Load(config.Options{Path: path, Overrides: overrides})
	if err != nil {
		return cfg, used, &cli.ExitError{Code: cli.ExitConnection, Err: err}
	}
	return cfg, used, nil
}
