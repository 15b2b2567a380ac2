package testsupport

import (
	"context"
	"fmt"
	"testing"

	"reelpool/internal/config"
	"reelpool/internal/pool"
)

// MustOpenStore opens a pool.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *pool.Store {
	t.Helper()

	store, err := pool.Open(cfg)
	if err != nil {
		t.Fatalf("pool.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedFolder inserts count Unassigned videos into folderID and returns their
// ids in insertion order.
func SeedFolder(t testing.TB, store *pool.Store, folderID string, count int) []string {
	t.Helper()

	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		video, err := store.InsertVideo(context.Background(), pool.NewVideo{
			ID:       fmt.Sprintf("%s-v%02d", folderID, i+1),
			FolderID: folderID,
			VideoURL: fmt.Sprintf("https://cdn.test/%s/%02d.mp4", folderID, i+1),
		})
		if err != nil {
			t.Fatalf("store.InsertVideo: %v", err)
		}
		ids = append(ids, video.ID)
	}
	return ids
}

// MustGet fetches a video that the test expects to exist.
func MustGet(t testing.TB, store *pool.Store, id string) *pool.Video {
	t.Helper()

	video, err := store.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("store.GetByID: %v", err)
	}
	if video == nil {
		t.Fatalf("video %s not found", id)
	}
	return video
}
