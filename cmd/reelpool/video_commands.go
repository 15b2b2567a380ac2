package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reelpool/internal/api"
	"reelpool/internal/pool"
)

func newVideosCommand(ctx *commandContext) *cobra.Command {
	videosCmd := &cobra.Command{
		Use:   "videos",
		Short: "Inspect and ingest pool videos",
	}
	videosCmd.AddCommand(newVideosListCommand(ctx))
	videosCmd.AddCommand(newVideosAddCommand(ctx))
	return videosCmd
}

func newVideosListCommand(ctx *commandContext) *cobra.Command {
	var folder string
	var statuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pool videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *api.Service) error {
				videos, err := svc.Videos(cmd.Context(), api.VideoFilter{FolderID: folder, Statuses: statuses})
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, videos)
				}
				out := cmd.OutOrStdout()
				if len(videos) == 0 {
					fmt.Fprintln(out, "No videos")
					return nil
				}
				fmt.Fprint(out, renderTable(out,
					[]string{"ID", "Folder", "Status", "Slot", "Date", "Claimed", "Published"},
					buildVideoRows(videos),
					nil,
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&folder, "folder", "f", "", "Only list videos in this folder")
	cmd.Flags().StringSliceVarP(&statuses, "status", "s", nil, "Filter by status: "+statusNames()+" (repeatable)")
	return cmd
}

func newVideosAddCommand(ctx *commandContext) *cobra.Command {
	var req api.IngestRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a rendered video as unassigned inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(req.FolderID) == "" {
				return errors.New("--folder is required")
			}
			if strings.TrimSpace(req.VideoURL) == "" {
				return errors.New("--url is required")
			}
			return ctx.withService(func(svc *api.Service) error {
				video, err := svc.Ingest(cmd.Context(), req)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, video)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added video %s to folder %s\n", video.ID, video.FolderID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&req.FolderID, "folder", "f", "", "Folder id")
	cmd.Flags().StringVar(&req.FolderName, "folder-name", "", "Folder display name (set on first use)")
	cmd.Flags().StringVar(&req.VideoURL, "url", "", "Source video URL")
	cmd.Flags().StringVar(&req.ThumbnailURL, "thumbnail", "", "Thumbnail URL")
	cmd.Flags().StringVar(&req.ID, "id", "", "Video id (generated when empty)")
	return cmd
}

func buildVideoRows(videos []api.Video) [][]string {
	rows := make([][]string, 0, len(videos))
	for _, v := range videos {
		rows = append(rows, []string{
			v.ID,
			v.FolderID,
			v.Status,
			dash(v.BoundSlotID),
			dash(v.ScheduledDate),
			yesNo(v.Claimed),
			yesNo(v.PublishedAt != ""),
		})
	}
	return rows
}

func statusNames() string {
	statuses := pool.AllStatuses()
	names := make([]string, 0, len(statuses))
	for _, status := range statuses {
		names = append(names, string(status))
	}
	return strings.Join(names, ", ")
}

func dash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
