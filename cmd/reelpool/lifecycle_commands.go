package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"reelpool/internal/api"
)

func newUnassignCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <video-id>...",
		Short: "Return bound videos to their folder",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				var (
					videos []api.Video
					errs   []error
				)
				out := cmd.OutOrStdout()
				for _, id := range args {
					video, err := svc.Unassign(cmd.Context(), id)
					if err != nil {
						errs = append(errs, fmt.Errorf("%s: %w", id, err))
						continue
					}
					videos = append(videos, video)
					if !ctx.jsonOutput() {
						fmt.Fprintf(out, "Unassigned %s\n", id)
					}
				}
				if ctx.jsonOutput() {
					if err := writeJSON(cmd, videos); err != nil {
						return err
					}
				}
				return errors.Join(errs...)
			})
		},
	}
}

func newReadyCommand(ctx *commandContext) *cobra.Command {
	var processedURL string
	var thumbnailURL string

	cmd := &cobra.Command{
		Use:   "ready <video-id>",
		Short: "Record render output for a processing video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				video, err := svc.MarkReady(cmd.Context(), args[0], processedURL, thumbnailURL)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, video)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Video %s is ready for slot %s\n", video.ID, video.BoundSlotID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&processedURL, "url", "", "Processed video URL")
	cmd.Flags().StringVar(&thumbnailURL, "thumbnail", "", "Thumbnail URL")
	return cmd
}
