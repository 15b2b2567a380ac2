package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelpool/internal/api"
)

func newReclaimCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reclaim",
		Short: "Return videos from abandoned claims to their folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				count, err := svc.ReclaimStaleClaims(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]int64{"reclaimed": count})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reclaimed %d video(s)\n", count)
				return nil
			})
		},
	}
}

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check pool database health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				health, err := svc.Health(cmd.Context())
				if ctx.jsonOutput() {
					if encErr := writeJSON(cmd, health); encErr != nil {
						return encErr
					}
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Database: %s\n", health.DatabasePath)
				fmt.Fprintf(out, "Schema version: %d\n", health.SchemaVersion)
				fmt.Fprintf(out, "Integrity check: %s\n", yesNo(health.IntegrityOK))
				fmt.Fprintf(out, "Content store: %s\n", dash(health.ContentStoreURL))
				if err != nil {
					return err
				}
				rows := [][]string{
					{"Unassigned", fmt.Sprint(health.Unassigned)},
					{"Claimed", fmt.Sprint(health.Claimed)},
					{"Processing", fmt.Sprint(health.Processing)},
					{"Ready", fmt.Sprint(health.Ready)},
					{"Published", fmt.Sprint(health.Published)},
					{"Total", fmt.Sprint(health.Total)},
				}
				fmt.Fprint(out, renderTable(out, []string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
				return nil
			})
		},
	}
}
