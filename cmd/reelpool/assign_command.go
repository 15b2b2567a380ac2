package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reelpool/internal/api"
)

func newAssignCommand(ctx *commandContext) *cobra.Command {
	var req api.AssignRequest

	cmd := &cobra.Command{
		Use:   "assign [slot-id...]",
		Short: "Bind random videos from a folder to content slots",
		Long: "Claims one unassigned video per requested slot from the folder and binds it.\n" +
			"Slots that cannot be served (folder ran out, slot already bound, unknown slot)\n" +
			"are reported as unfulfilled.",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.SlotIDs = append(req.SlotIDs, args...)
			if strings.TrimSpace(req.FolderID) == "" {
				return errors.New("--folder is required")
			}
			if len(req.SlotIDs) == 0 {
				return errors.New("at least one slot id is required")
			}
			return ctx.withService(func(svc *api.Service) error {
				result, err := svc.AssignVideos(cmd.Context(), req)
				if err != nil {
					if result.AssignedCount > 0 {
						fmt.Fprintf(cmd.ErrOrStderr(), "Bound %d slot(s) before failing\n", result.AssignedCount)
					}
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, result)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Assigned %d of %d slot(s)\n", result.AssignedCount, result.AssignedCount+len(result.UnfulfilledSlotIDs))
				if len(result.BoundPairs) > 0 {
					rows := make([][]string, 0, len(result.BoundPairs))
					for _, p := range result.BoundPairs {
						rows = append(rows, []string{p.SlotID, p.VideoID})
					}
					fmt.Fprint(out, renderTable(out, []string{"Slot", "Video"}, rows, nil))
				}
				if len(result.UnfulfilledSlotIDs) > 0 {
					fmt.Fprintf(out, "Unfulfilled: %s\n", strings.Join(result.UnfulfilledSlotIDs, ", "))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&req.FolderID, "folder", "f", "", "Folder to draw videos from")
	cmd.Flags().StringSliceVarP(&req.SlotIDs, "slot", "s", nil, "Slot id to fill (repeatable)")
	cmd.Flags().StringVar(&req.OverlayStyle, "overlay", "", "Overlay style passed to the render pipeline")
	cmd.Flags().StringVar(&req.RenderType, "render", "", "Render type passed to the render pipeline")
	return cmd
}
