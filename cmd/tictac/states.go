package main

import (
	"github.com/aretw0/tictac/internal/cli"
	"github.com/spf13/cobra"
)

var statesCmd = &cobra.Command{
	Use:   "states",
	Short: "Print the session state machine as a Mermaid graph",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.WriteStates(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(statesCmd)
}
