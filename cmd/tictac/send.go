package main

import (
	"strings"

	"github.com/aretw0/tictac"
	"github.com/aretw0/tictac/internal/cli"
	"github.com/aretw0/tictac/internal/logging"
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <command>...",
	Short: "Send one raw command and print the reply",
	Long:  `Performs a single round trip, e.g. "tictac send StartGame" or "tictac send Move 5".`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides := map[string]any{}
		flagOverride(cmd, overrides, "port", "connection.port")
		flagOverride(cmd, overrides, "baud", "connection.baudRate")
		flagOverride(cmd, overrides, "settle", "connection.settle")

		cfg, _, err := loadConfig(cmd, overrides)
		if err != nil {
			return err
		}
		var opts []tictac.Option
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			opts = append(opts, tictac.WithLogger(logging.NewWithOptions(debugLogOptions(cfg))))
		}
		return cli.Send(cmd.Context(), cfg, strings.Join(args, " "), cmd.OutOrStdout(), opts...)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	addConnectionFlags(sendCmd)
}
