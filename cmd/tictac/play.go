package main

import (
	"github.com/aretw0/tictac/internal/cli"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play an interactive game",
	Long: `Connects to the board, starts a game and prompts for the mode and moves.
Exit codes: 1 when the board cannot be reached, 2 when the game fails midway.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides := map[string]any{}
		flagOverride(cmd, overrides, "port", "connection.port")
		flagOverride(cmd, overrides, "baud", "connection.baudRate")
		flagOverride(cmd, overrides, "settle", "connection.settle")
		flagOverride(cmd, overrides, "mode", "game.mode")
		flagOverride(cmd, overrides, "metrics-addr", "metrics.addr")

		cfg, _, err := loadConfig(cmd, overrides)
		if err != nil {
			return err
		}
		debug, _ := cmd.Flags().GetBool("debug")
		return cli.RunPlay(cmd.Context(), cli.PlayOptions{
			Config: cfg,
			Debug:  debug,
			In:     cmd.InOrStdin(),
			Out:    cmd.OutOrStdout(),
		})
	},
}

// flagOverride copies a changed flag into overrides under key.
func flagOverride(cmd *cobra.Command, overrides map[string]any, flag, key string) {
	f := cmd.Flags().Lookup(flag)
	if f == nil || !f.Changed {
		return
	}
	overrides[key] = f.Value.String()
}

func addConnectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("port", "p", "", "Serial port (COM5, /dev/ttyACM0) or tcp://host:port")
	cmd.Flags().IntP("baud", "b", 0, "Baud rate")
	cmd.Flags().Duration("settle", 0, "Wait after opening the port for the board to boot")
}

func init() {
	rootCmd.AddCommand(playCmd)

	addConnectionFlags(playCmd)
	playCmd.Flags().IntP("mode", "m", 0, "Game mode, skipping the prompt (1 Man vs Man, 2 Man vs AI, 3 AI vs AI)")
	playCmd.Flags().String("metrics-addr", "", "Serve /metrics, /healthz and /state on this address")

	rootCmd.Flags().AddFlagSet(playCmd.Flags())
	rootCmd.RunE = playCmd.RunE
}
