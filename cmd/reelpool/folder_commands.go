package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"reelpool/internal/api"
)

func newFoldersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "folders",
		Short: "List video folders with their available counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				folders, err := svc.Folders(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, folders)
				}
				out := cmd.OutOrStdout()
				if len(folders) == 0 {
					fmt.Fprintln(out, "No folders")
					return nil
				}
				rows := make([][]string, 0, len(folders))
				for _, f := range folders {
					rows = append(rows, []string{
						f.ID,
						f.Name,
						strconv.Itoa(f.AvailableVideoCount),
						strconv.Itoa(f.TotalVideoCount),
					})
				}
				fmt.Fprint(out, renderTable(out,
					[]string{"ID", "Name", "Available", "Total"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
				))
				return nil
			})
		},
	}
}
