package main

import (
	"log/slog"

	"github.com/aretw0/tictac/internal/cli"
	"github.com/aretw0/tictac/internal/logging"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Serve an emulated board over TCP",
	Long: `Runs the game firmware's wire protocol on a TCP socket so the client can be
tried without hardware: tictac play --port tcp://127.0.0.1:5555`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("listen")
		level := slog.LevelInfo
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			level = slog.LevelDebug
		}
		return cli.Simulate(cmd.Context(), addr, logging.New(level), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringP("listen", "l", "127.0.0.1:5555", "Address to listen on")
}
