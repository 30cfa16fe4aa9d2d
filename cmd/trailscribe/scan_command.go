package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var rootFlag string
	var outputFlag string
	var checkOnly bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Process every stale location once and exit",
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
			if err := cfg.EnsureDirectories(); err != nil {
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

			proc, err := ctx.newProcessor(store, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if checkOnly {
				return runCheck(cmd, proc)
			}

			outcomes, err := proc.ScanAll(cmd.Context())
			if err != nil {
				return err
			}
			processed := 0
			for _, outcome := range outcomes {
				if outcome.Processed {
					processed++
					fmt.Fprintf(out, "processed %s (%d files) -> %s\n",
						outcome.Location, outcome.FileCount, outcome.ArtifactPath)
				}
			}
			fmt.Fprintf(out, "Scan complete: %d location(s), %d processed\n", len(outcomes), processed)
			return nil
		},
	}

	cmd.Flags().StringVar(&rootFlag, "root", "", "Override the watch root directory")
	cmd.Flags().StringVar(&outputFlag, "output", "", "Override the output directory")
	cmd.Flags().BoolVar(&checkOnly, "check-only", false, "Report stale locations without processing")
	return cmd
}
