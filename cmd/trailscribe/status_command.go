package main

import (
	"fmt"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon state and ledger summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			store, err := ctx.openLedger()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			daemonState := "stopped"
			lock := flock.New(cfg.LockPath())
			if ok, err := lock.TryLock(); err == nil {
				if ok {
					_ = lock.Unlock()
				} else {
					daemonState = "running"
				}
			}

			combinations, err := store.Combinations(cmd.Context())
			if err != nil {
				return err
			}
			completions, err := store.AllCompletions(cmd.Context())
			if err != nil {
				return err
			}

			proc, err := ctx.newProcessor(store, logger)
			if err != nil {
				return err
			}
			pending, err := proc.Check(cmd.Context())
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Watch root", cfg.Paths.WatchRoot},
				{"Output directory", cfg.Paths.OutputDir},
				{"Ledger", store.Path()},
				{"Daemon", daemonState},
				{"Locations combined", formatCount(len(combinations))},
				{"Pipeline completions", formatCount(len(completions))},
				{"Pending locations", formatCount(len(pending))},
			}
			fmt.Fprint(cmd.OutOrStdout(), renderRows([]string{"Field", "Value"}, rows, stdoutIsTTY()))
			return nil
		},
	}
}
