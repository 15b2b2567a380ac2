package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"reelpool/internal/inventory"
	"reelpool/internal/services"
	"reelpool/internal/testsupport"
)

func TestClaimRandomTakesAtMostN(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	testsupport.SeedFolder(t, store, "f1", 5)
	inv := inventory.New(store, nil, inventory.WithStrategy(inventory.NewSeeded(3)))

	claim, err := inv.ClaimRandom(ctx, "f1", 3)
	if err != nil {
		t.Fatalf("ClaimRandom: %v", err)
	}
	if len(claim.VideoIDs) != 3 || claim.Token == "" {
		t.Fatalf("unexpected claim: %+v", claim)
	}
	count, _ := inv.AvailableCount(ctx, "f1")
	if count != 2 {
		t.Fatalf("expected 2 left, got %d", count)
	}

	more, err := inv.ClaimRandom(ctx, "f1", 10)
	if err != nil {
		t.Fatalf("ClaimRandom: %v", err)
	}
	if len(more.VideoIDs) != 2 {
		t.Fatalf("expected remaining 2, got %d", len(more.VideoIDs))
	}

	if _, err := inv.ClaimRandom(ctx, "f1", 1); !errors.Is(err, inventory.ErrNoVideosAvailable) {
		t.Fatalf("expected no videos available, got %v", err)
	}
	if !errors.Is(inventory.ErrNoVideosAvailable, services.ErrValidation) {
		t.Fatal("expected ErrNoVideosAvailable to be a validation error")
	}
}

func TestClaimRandomValidatesInput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	inv := inventory.New(store, nil)
	if _, err := inv.ClaimRandom(context.Background(), "", 1); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := inv.ClaimRandom(context.Background(), "f1", 0); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestConcurrentClaimRandomIsDisjoint(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	testsupport.SeedFolder(t, store, "f1", 12)
	inv := inventory.New(store, nil)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		claims []inventory.Claim
	)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claim, err := inv.ClaimRandom(ctx, "f1", 3)
			if err != nil && !errors.Is(err, inventory.ErrNoVideosAvailable) {
				t.Errorf("ClaimRandom: %v", err)
				return
			}
			mu.Lock()
			claims = append(claims, claim)
			mu.Unlock()
		}()
	}
	wg.Wait()

	seen := map[string]string{}
	total := 0
	for _, claim := range claims {
		if len(claim.VideoIDs) > 3 {
			t.Fatalf("claim exceeded request: %+v", claim)
		}
		for _, id := range claim.VideoIDs {
			if other, ok := seen[id]; ok {
				t.Fatalf("video %s in claims %s and %s", id, other, claim.Token)
			}
			seen[id] = claim.Token
			total++
		}
	}
	if total != 12 {
		t.Fatalf("expected all 12 videos claimed exactly once, got %d", total)
	}
}

func TestReleaseAndReclaim(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	testsupport.SeedFolder(t, store, "f1", 2)

	inv := inventory.New(store, nil)
	claim, err := inv.ClaimRandom(ctx, "f1", 2)
	if err != nil {
		t.Fatalf("ClaimRandom: %v", err)
	}
	if err := inv.Release(ctx, claim, claim.VideoIDs[0]); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if count, _ := inv.AvailableCount(ctx, "f1"); count != 1 {
		t.Fatalf("expected 1 available after release, got %d", count)
	}

	later := inventory.New(store, nil, inventory.WithClock(func() time.Time { return time.Now().Add(time.Hour) }))
	reclaimed, err := later.ReclaimStale(ctx, 30*time.Minute)
	if err != nil {
		t.Fatalf("ReclaimStale: %v", err)
	}
	if reclaimed != 1 {
		t.Fatalf("expected 1 reclaimed, got %d", reclaimed)
	}
	if count, _ := inv.AvailableCount(ctx, "f1"); count != 2 {
		t.Fatalf("expected 2 available after reclaim, got %d", count)
	}
	if _, err := inv.ReclaimStale(ctx, 0); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type racingStore struct {
	inventory.Store
	lose map[string]bool
}

func (s racingStore) TryClaim(ctx context.Context, id, token string) (bool, error) {
	if s.lose[id] {
		return false, nil
	}
	return s.Store.TryClaim(ctx, id, token)
}

func TestClaimRandomSkipsLostRaces(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ids := testsupport.SeedFolder(t, store, "f1", 4)

	inv := inventory.New(racingStore{Store: store, lose: map[string]bool{ids[0]: true, ids[1]: true}}, nil,
		inventory.WithStrategy(inventory.Oldest{}))
	claim, err := inv.ClaimRandom(context.Background(), "f1", 2)
	if err != nil {
		t.Fatalf("ClaimRandom: %v", err)
	}
	if len(claim.VideoIDs) != 2 || claim.VideoIDs[0] != ids[2] || claim.VideoIDs[1] != ids[3] {
		t.Fatalf("expected fallthrough to later candidates, got %v", claim.VideoIDs)
	}
	folders, err := inv.ListFolders(context.Background())
	if err != nil || len(folders) != 1 || folders[0].AvailableCount != 2 {
		t.Fatalf("unexpected folders: %+v (%v)", folders, err)
	}
}
