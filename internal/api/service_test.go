package api_test

import (
	"context"
	"errors"
	"testing"

	"reelpool/internal/api"
	"reelpool/internal/inventory"
	"reelpool/internal/services"
	"reelpool/internal/slots"
	"reelpool/internal/testsupport"
)

func newService(t *testing.T, slotStore slots.Store) *api.Service {
	t.Helper()
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	svc, err := api.NewService(api.Deps{
		Store:    store,
		Slots:    slotStore,
		Strategy: inventory.NewSeeded(5),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestServiceEndToEnd(t *testing.T) {
	slotStore := testsupport.NewSlotStore(
		slots.Slot{ID: "s1", CampaignID: "c1", Category: "Food", ScheduledDate: "2024-01-01"},
		slots.Slot{ID: "s2", CampaignID: "c1", Category: "food", ScheduledDate: "2024-01-01"},
		slots.Slot{ID: "s3", CampaignID: "c1", Category: "Travel", ScheduledDate: "2024-01-02", VideoURL: "https://x/old.mp4"},
	)
	svc := newService(t, slotStore)
	ctx := context.Background()

	for i, url := range []string{"https://cdn.test/1.mp4", "https://cdn.test/2.mp4"} {
		video, err := svc.Ingest(ctx, api.IngestRequest{FolderID: "f1", FolderName: "Batch", VideoURL: url})
		if err != nil {
			t.Fatalf("Ingest %d: %v", i, err)
		}
		if video.Status != "unassigned" {
			t.Fatalf("unexpected ingested status %q", video.Status)
		}
	}
	folders, err := svc.Folders(ctx)
	if err != nil || len(folders) != 1 || folders[0].AvailableVideoCount != 2 || folders[0].Name != "Batch" {
		t.Fatalf("unexpected folders: %+v (%v)", folders, err)
	}

	assigned, err := svc.AssignVideos(ctx, api.AssignRequest{FolderID: "f1", SlotIDs: []string{"s1"}, OverlayStyle: "Blend", RenderType: "Both"})
	if err != nil {
		t.Fatalf("AssignVideos: %v", err)
	}
	if assigned.AssignedCount != 1 || len(assigned.UnfulfilledSlotIDs) != 0 {
		t.Fatalf("unexpected assign result: %+v", assigned)
	}
	videoID := assigned.BoundPairs[0].VideoID

	byDate, err := svc.BucketStats(ctx, "c1")
	if err != nil {
		t.Fatalf("BucketStats: %v", err)
	}
	if len(byDate.Buckets) != 2 || byDate.Buckets[0].Key != "2024-01-01" {
		t.Fatalf("unexpected buckets: %+v", byDate.Buckets)
	}
	if got := byDate.Buckets[0]; got.Processing != 1 || got.Needed != 1 || got.Total != 2 {
		t.Fatalf("unexpected 2024-01-01 bucket: %+v", got)
	}
	if byDate.Totals.Total != 3 || byDate.Totals.Scheduled != 1 {
		t.Fatalf("unexpected totals: %+v", byDate.Totals)
	}

	if _, err := svc.MarkReady(ctx, videoID, "https://cdn.test/out.mp4", ""); err != nil {
		t.Fatalf("MarkReady: %v", err)
	}
	report, err := svc.PublishVideos(ctx, []string{videoID})
	if err != nil {
		t.Fatalf("PublishVideos: %v", err)
	}
	if report.Published != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if slot, _ := slotStore.Get("s1"); slot.VideoURL != "https://cdn.test/out.mp4" {
		t.Fatalf("expected slot written, got %+v", slot)
	}

	byCategory, err := svc.CategoryStats(ctx, "c1")
	if err != nil {
		t.Fatalf("CategoryStats: %v", err)
	}
	if len(byCategory.Buckets) != 2 || byCategory.Buckets[0].Label != "Food" {
		t.Fatalf("unexpected category buckets: %+v", byCategory.Buckets)
	}
	if food := byCategory.Buckets[0]; food.Ready != 1 || food.Needed != 1 {
		t.Fatalf("unexpected food bucket: %+v", food)
	}

	video, err := svc.Unassign(ctx, videoID)
	if err != nil {
		t.Fatalf("Unassign: %v", err)
	}
	if video.Status != "unassigned" || video.BoundSlotID != "" || video.PublishedAt != "" {
		t.Fatalf("unexpected unassigned video: %+v", video)
	}

	ready, err := svc.Videos(ctx, api.VideoFilter{FolderID: "f1", Statuses: []string{"unassigned"}})
	if err != nil || len(ready) != 2 {
		t.Fatalf("expected 2 unassigned videos, got %d (%v)", len(ready), err)
	}
	if _, err := svc.Videos(ctx, api.VideoFilter{Statuses: []string{"bogus"}}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for bogus status, got %v", err)
	}

	health, err := svc.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if !health.IntegrityOK || health.Total != 2 || health.Unassigned != 2 {
		t.Fatalf("unexpected health: %+v", health)
	}
}

func TestServiceWithoutContentStore(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	if _, err := svc.AssignVideos(ctx, api.AssignRequest{FolderID: "f1", SlotIDs: []string{"s1"}}); !errors.Is(err, api.ErrContentStoreUnavailable) {
		t.Fatalf("expected content store unavailable, got %v", err)
	}
	if _, err := svc.PublishVideos(ctx, []string{"v1"}); !errors.Is(err, api.ErrContentStoreUnavailable) {
		t.Fatalf("expected content store unavailable, got %v", err)
	}
	if _, err := svc.BucketStats(ctx, "c1"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// Local operations keep working.
	if _, err := svc.Ingest(ctx, api.IngestRequest{FolderID: "f1", VideoURL: "https://cdn.test/a.mp4"}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if _, err := svc.Ingest(ctx, api.IngestRequest{FolderID: "f1", VideoURL: "not-a-url"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for bad url, got %v", err)
	}
	if videos, err := svc.Videos(ctx, api.VideoFilter{FolderID: "f1"}); err != nil || len(videos) != 1 {
		t.Fatalf("Videos: %+v %v", videos, err)
	}
	if _, err := svc.Videos(ctx, api.VideoFilter{FolderID: "nope"}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for unknown folder, got %v", err)
	}
	if _, err := svc.Unassign(ctx, "missing"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if n, err := svc.ReclaimStaleClaims(ctx); err != nil || n != 0 {
		t.Fatalf("ReclaimStaleClaims: %d %v", n, err)
	}
}

func TestServiceStatsRejectsUnknownGrouping(t *testing.T) {
	svc := newService(t, testsupport.NewSlotStore())
	if _, err := svc.Stats(context.Background(), "c1", "week"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOpenFromConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPublishConcurrency(2))
	svc, err := api.Open(cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer svc.Close()
	health, err := svc.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if health.DatabasePath != cfg.DatabasePath() {
		t.Fatalf("unexpected database path %q", health.DatabasePath)
	}
}
