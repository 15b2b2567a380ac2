package api

import (
	"time"

	"reelpool/internal/assignment"
	"reelpool/internal/pool"
	"reelpool/internal/publish"
	"reelpool/internal/stats"
)

// FromVideo converts a pool video into its API representation.
func FromVideo(v *pool.Video) Video {
	if v == nil {
		return Video{}
	}
	return Video{
		ID:                v.ID,
		FolderID:          v.FolderID,
		Status:            string(v.Status),
		BoundSlotID:       v.BoundSlotID,
		VideoURL:          v.VideoURL,
		ProcessedVideoURL: v.ProcessedVideoURL,
		ThumbnailURL:      v.ThumbnailURL,
		OverlayStyle:      v.OverlayStyle,
		RenderType:        v.RenderType,
		ScheduledDate:     v.ScheduledDate,
		Claimed:           v.IsClaimed(),
		PublishedAt:       formatTimePtr(v.PublishedAt),
		CreatedAt:         formatTime(v.CreatedAt),
		UpdatedAt:         formatTime(v.UpdatedAt),
	}
}

// FromVideos converts a slice of pool videos.
func FromVideos(videos []*pool.Video) []Video {
	if len(videos) == 0 {
		return nil
	}
	out := make([]Video, 0, len(videos))
	for _, v := range videos {
		if v == nil {
			continue
		}
		out = append(out, FromVideo(v))
	}
	return out
}

// FromFolders converts pool folders.
func FromFolders(folders []pool.Folder) []Folder {
	out := make([]Folder, 0, len(folders))
	for _, f := range folders {
		out = append(out, Folder{
			ID:                  f.ID,
			Name:                f.Name,
			AvailableVideoCount: f.AvailableCount,
			TotalVideoCount:     f.TotalCount,
		})
	}
	return out
}

// FromAssignResult converts an assignment result.
func FromAssignResult(r assignment.Result) AssignResult {
	out := AssignResult{
		AssignedCount:      r.AssignedCount,
		UnfulfilledSlotIDs: append([]string{}, r.UnfulfilledSlotIDs...),
		BoundPairs:         make([]BoundPair, 0, len(r.BoundPairs)),
	}
	for _, p := range r.BoundPairs {
		out.BoundPairs = append(out.BoundPairs, BoundPair{VideoID: p.VideoID, SlotID: p.SlotID})
	}
	return out
}

// FromPublishReport converts a publish report.
func FromPublishReport(r publish.Report) PublishReport {
	out := PublishReport{
		Published: r.Published,
		Failed:    r.Failed,
		Skipped:   r.Skipped,
		Details:   make([]PublishDetail, 0, len(r.Details)),
	}
	for _, d := range r.Details {
		out.Details = append(out.Details, PublishDetail{
			VideoID: d.VideoID,
			SlotID:  d.SlotID,
			Outcome: string(d.Outcome),
			Reason:  d.Reason,
		})
	}
	return out
}

// FromBuckets orders buckets for display. label renders a key; nil keeps it as is.
func FromBuckets(buckets map[string]stats.BucketCounts, label func(string) string) ([]Bucket, Bucket) {
	if label == nil {
		label = func(key string) string { return key }
	}
	keys := stats.SortedKeys(buckets)
	out := make([]Bucket, 0, len(keys))
	for _, key := range keys {
		out = append(out, toBucket(key, label(key), buckets[key]))
	}
	return out, toBucket("total", "Total", stats.Totals(buckets))
}

func toBucket(key, label string, c stats.BucketCounts) Bucket {
	return Bucket{
		Key:        key,
		Label:      label,
		Total:      c.Total,
		Needed:     c.Needed,
		Processing: c.Processing,
		Ready:      c.Ready,
		Scheduled:  c.Scheduled,
		Published:  c.Published,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}
