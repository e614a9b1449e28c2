package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/tictac"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tictac",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tictac version %s\n", strings.TrimSpace(tictac.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
