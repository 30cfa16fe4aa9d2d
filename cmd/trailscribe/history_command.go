package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"trailscribe/internal/textutil"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var showCompletions bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show processed locations and pipeline outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openLedger()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			out := cmd.OutOrStdout()

			if showCompletions {
				completions, err := store.AllCompletions(cmd.Context())
				if err != nil {
					return err
				}
				if len(completions) == 0 {
					fmt.Fprintln(out, "No pipeline completions recorded")
					return nil
				}
				rows := make([][]string, 0, len(completions))
				for _, c := range completions {
					status := "ok"
					if !c.Success {
						status = "failed"
					}
					rows = append(rows, []string{
						c.ProcessedAt.Format("2006-01-02 15:04:05"),
						textutil.DisplayLocationName(c.Location),
						filepath.Base(c.Artifact),
						status,
						c.DocURL,
					})
				}
				fmt.Fprint(out, renderRows(
					[]string{"Processed", "Location", "Artifact", "Status", "Doc"},
					rows, stdoutIsTTY()))
				return nil
			}

			combinations, err := store.Combinations(cmd.Context())
			if err != nil {
				return err
			}
			if len(combinations) == 0 {
				fmt.Fprintln(out, "No locations combined yet")
				return nil
			}
			rows := make([][]string, 0, len(combinations))
			for _, c := range combinations {
				rows = append(rows, []string{
					c.CombinedAt.Format("2006-01-02 15:04:05"),
					textutil.DisplayLocationName(c.Location),
					formatCount(c.FileCount),
					filepath.Base(c.ArtifactPath),
				})
			}
			fmt.Fprint(out, renderRows(
				[]string{"Combined", "Location", "Files", "Artifact"},
				rows, stdoutIsTTY()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showCompletions, "completions", false, "Show the pipeline completion log instead")
	return cmd
}
