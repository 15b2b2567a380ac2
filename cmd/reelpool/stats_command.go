package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reelpool/internal/api"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var campaign string
	var groupBy string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show campaign slot counts by lifecycle bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(campaign) == "" {
				return errors.New("--campaign is required")
			}
			return ctx.withService(func(svc *api.Service) error {
				resp, err := svc.Stats(cmd.Context(), campaign, groupBy)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				out := cmd.OutOrStdout()
				if len(resp.Buckets) == 0 {
					fmt.Fprintf(out, "Campaign %s has no slots\n", resp.CampaignID)
					return nil
				}
				first := "Date"
				if resp.GroupBy == api.GroupByCategory {
					first = "Category"
				}
				rows := make([][]string, 0, len(resp.Buckets)+1)
				for _, b := range append(resp.Buckets, resp.Totals) {
					rows = append(rows, bucketRow(b))
				}
				fmt.Fprint(out, renderTable(out,
					[]string{first, "Needed", "Processing", "Ready", "Scheduled", "Published", "Total"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&campaign, "campaign", "", "Campaign id")
	cmd.Flags().StringVar(&groupBy, "by", api.GroupByDate, "Group by date or category")
	return cmd
}

func bucketRow(b api.Bucket) []string {
	return []string{
		b.Label,
		strconv.Itoa(b.Needed),
		strconv.Itoa(b.Processing),
		strconv.Itoa(b.Ready),
		strconv.Itoa(b.Scheduled),
		strconv.Itoa(b.Published),
		strconv.Itoa(b.Total),
	}
}
