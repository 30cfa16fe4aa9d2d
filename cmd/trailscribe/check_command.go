package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trailscribe/internal/processor"
	"trailscribe/internal/textutil"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "List locations the next scan would process",
		RunE: func(cmd *cobra.Command, args []string) error {
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
			return runCheck(cmd, proc)
		},
	}
}

func runCheck(cmd *cobra.Command, proc *processor.Processor) error {
	pending, err := proc.Check(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(pending) == 0 {
		fmt.Fprintln(out, "All locations up to date")
		return nil
	}

	rows := make([][]string, 0, len(pending))
	for _, entry := range pending {
		rows = append(rows, []string{textutil.DisplayLocationName(entry.Location), formatCount(entry.FileCount), entry.Reason})
	}
	fmt.Fprint(out, renderRows([]string{"Location", "Files", "Reason"}, rows, stdoutIsTTY()))
	fmt.Fprintf(out, "%d location(s) pending\n", len(pending))
	return nil
}
