package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"trailscribe/internal/daemon"
	"trailscribe/internal/preflight"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var rootFlag string
	var outputFlag string
	var delayFlag int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the transcript tree and process changed locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if root := strings.TrimSpace(rootFlag); root != "" {
				cfg.Paths.WatchRoot = root
			}
			if output := strings.TrimSpace(outputFlag); output != "" {
				cfg.Paths.OutputDir = output
			}
			if delayFlag > 0 {
				cfg.Watcher.DebounceDelay = delayFlag
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			logger, err := ctx.newLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, result := range preflight.RunAll(cfg) {
				marker := "ok"
				if !result.Passed {
					marker = "FAIL"
				}
				fmt.Fprintf(out, "[%s] %s: %s\n", marker, result.Name, result.Detail)
			}

			store, err := ctx.openLedger()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			proc, err := ctx.newProcessor(store, logger)
			if err != nil {
				return err
			}

			d, err := daemon.New(cfg, store, proc, logger)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := d.Start(runCtx); err != nil {
				return err
			}
			fmt.Fprintf(out, "Watching %s (debounce %ds). Ctrl-C to stop.\n",
				cfg.Paths.WatchRoot, cfg.Watcher.DebounceDelay)

			<-runCtx.Done()
			d.Stop()
			return nil
		},
	}

	cmd.Flags().StringVar(&rootFlag, "root", "", "Override the watch root directory")
	cmd.Flags().StringVar(&outputFlag, "output", "", "Override the output directory")
	cmd.Flags().IntVar(&delayFlag, "delay", 0, "Debounce delay in seconds")
	return cmd
}
