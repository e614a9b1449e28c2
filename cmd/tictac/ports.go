package main

import (
	"github.com/aretw0/tictac/internal/cli"
	"github.com/spf13/cobra"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ListPorts(cmd.OutOrStdout(), nil)
	},
}

func init() {
	rootCmd.AddCommand(portsCmd)
}
