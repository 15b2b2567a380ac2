package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelpool/internal/api"
)

func newPublishCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <video-id>...",
		Short: "Write ready videos into their slots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				report, err := svc.PublishVideos(cmd.Context(), args)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, report)
				}
				out := cmd.OutOrStdout()
				rows := make([][]string, 0, len(report.Details))
				for _, d := range report.Details {
					rows = append(rows, []string{d.VideoID, dash(d.SlotID), colorOutcome(out, d.Outcome), d.Reason})
				}
				fmt.Fprint(out, renderTable(out, []string{"Video", "Slot", "Outcome", "Reason"}, rows, nil))
				fmt.Fprintf(out, "Published %d, failed %d, skipped %d\n", report.Published, report.Failed, report.Skipped)
				return nil
			})
		},
	}
}
