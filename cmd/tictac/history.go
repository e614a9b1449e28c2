package main

import (
	"fmt"

	"github.com/aretw0/tictac/internal/cli"
	"github.com/aretw0/tictac/internal/config"
	"github.com/aretw0/tictac/internal/logging"
	"github.com/aretw0/tictac/pkg/history"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded games",
	Long:  `List, show and delete games recorded by the configured history backend (memory, file or redis).`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded games, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(cmd, func(store history.Store) error {
			return cli.ListHistory(cmd.Context(), store, cmd.OutOrStdout())
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <game-id>",
	Short: "Show one recorded game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(cmd, func(store history.Store) error {
			return cli.ShowHistory(cmd.Context(), store, args[0], cmd.OutOrStdout())
		})
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:     "delete <game-id>...",
	Aliases: []string{"rm"},
	Short:   "Delete recorded games",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(cmd, func(store history.Store) error {
			return cli.DeleteHistory(cmd.Context(), store, args, cmd.OutOrStdout())
		})
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
}

func withHistory(cmd *cobra.Command, fn func(history.Store) error) error {
	cfg, _, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	if cfg.History.Backend == config.BackendMemory {
		fmt.Fprintln(cmd.ErrOrStderr(), "history.backend is memory: games are not kept between runs.")
	}
	logger := logging.NewNop()
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logger = logging.NewWithOptions(debugLogOptions(cfg))
	}
	store, closeStore, err := cli.OpenHistory(cmd.Context(), cfg.History, logger)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(store)
}

func debugLogOptions(cfg config.Config) logging.Options {
	opts := cfg.LogOptions()
	opts.Level = logging.ParseLevel("debug")
	return opts
}
