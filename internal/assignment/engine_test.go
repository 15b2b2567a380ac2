package assignment_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"reelpool/internal/assignment"
	"reelpool/internal/inventory"
	"reelpool/internal/pool"
	"reelpool/internal/services"
	"reelpool/internal/slots"
	"reelpool/internal/testsupport"
)

type fixture struct {
	store  *pool.Store
	slots  *testsupport.SlotStore
	inv    *inventory.Inventory
	engine *assignment.Engine
}

func newFixture(t *testing.T, videos int, slotIDs ...string) fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	if videos > 0 {
		testsupport.SeedFolder(t, store, "f1", videos)
	}
	seed := make([]slots.Slot, 0, len(slotIDs))
	for i, id := range slotIDs {
		seed = append(seed, slots.Slot{ID: id, CampaignID: "c1", ScheduledDate: "2024-01-0" + string(rune('1'+i))})
	}
	slotStore := testsupport.NewSlotStore(seed...)
	inv := inventory.New(store, nil, inventory.WithStrategy(inventory.NewSeeded(11)))
	return fixture{
		store:  store,
		slots:  slotStore,
		inv:    inv,
		engine: assignment.NewEngine(inv, store, slotStore, nil),
	}
}

func TestAssignMoreSlotsThanVideos(t *testing.T) {
	f := newFixture(t, 3, "s1", "s2", "s3", "s4")
	ctx := context.Background()

	result, err := f.engine.AssignVideos(ctx, "f1", []string{"s1", "s2", "s3", "s4"}, "Blend", "Both")
	if err != nil {
		t.Fatalf("AssignVideos: %v", err)
	}
	if result.AssignedCount != 3 || len(result.BoundPairs) != 3 {
		t.Fatalf("expected 3 assigned, got %+v", result)
	}
	if len(result.UnfulfilledSlotIDs) != 1 {
		t.Fatalf("expected one unfulfilled slot, got %v", result.UnfulfilledSlotIDs)
	}
	if count, _ := f.inv.AvailableCount(ctx, "f1"); count != 0 {
		t.Fatalf("expected folder drained, got %d available", count)
	}

	for _, pair := range result.BoundPairs {
		video := testsupport.MustGet(t, f.store, pair.VideoID)
		if video.Status != pool.StatusProcessing || video.BoundSlotID != pair.SlotID {
			t.Fatalf("unexpected bound video: %+v", video)
		}
		if video.OverlayStyle != "Blend" || video.RenderType != "Both" {
			t.Fatalf("expected render metadata, got %+v", video)
		}
		slot, _ := f.slots.Get(pair.SlotID)
		if video.ScheduledDate != slot.ScheduledDate {
			t.Fatalf("expected scheduled date %q, got %q", slot.ScheduledDate, video.ScheduledDate)
		}
	}
}

func TestAssignProperties(t *testing.T) {
	cases := []struct {
		name   string
		videos int
		slots  []string
	}{
		{name: "fewer slots", videos: 5, slots: []string{"a", "b"}},
		{name: "equal", videos: 3, slots: []string{"a", "b", "c"}},
		{name: "more slots", videos: 1, slots: []string{"a", "b", "c"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, tc.videos, tc.slots...)
			result, err := f.engine.AssignVideos(context.Background(), "f1", tc.slots, "", "")
			if err != nil {
				t.Fatalf("AssignVideos: %v", err)
			}
			want := min(tc.videos, len(tc.slots))
			if result.AssignedCount != want {
				t.Fatalf("assigned %d, want %d", result.AssignedCount, want)
			}
			if result.AssignedCount+len(result.UnfulfilledSlotIDs) != len(tc.slots) {
				t.Fatalf("assigned + unfulfilled != requested: %+v", result)
			}
			seenVideos := map[string]bool{}
			seenSlots := map[string]bool{}
			for _, pair := range result.BoundPairs {
				if seenVideos[pair.VideoID] || seenSlots[pair.SlotID] {
					t.Fatalf("duplicate pair member: %+v", result.BoundPairs)
				}
				seenVideos[pair.VideoID] = true
				seenSlots[pair.SlotID] = true
			}
			for _, id := range result.UnfulfilledSlotIDs {
				if seenSlots[id] {
					t.Fatalf("slot %s both bound and unfulfilled", id)
				}
			}
			if !slices.IsSortedFunc(result.UnfulfilledSlotIDs, func(a, b string) int {
				return slices.Index(tc.slots, a) - slices.Index(tc.slots, b)
			}) {
				t.Fatalf("unfulfilled not in request order: %v", result.UnfulfilledSlotIDs)
			}
		})
	}
}

func TestAssignValidation(t *testing.T) {
	f := newFixture(t, 0, "s1")
	ctx := context.Background()

	if _, err := f.engine.AssignVideos(ctx, "f1", nil, "", ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty slots, got %v", err)
	}
	if _, err := f.engine.AssignVideos(ctx, "", []string{"s1"}, "", ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty folder, got %v", err)
	}
	_, err := f.engine.AssignVideos(ctx, "f1", []string{"s1"}, "", "")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected no videos validation error, got %v", err)
	}
}

func TestAssignCollapsesDuplicatesAndSkipsUnknownSlots(t *testing.T) {
	f := newFixture(t, 4, "s1", "s2")
	ctx := context.Background()

	result, err := f.engine.AssignVideos(ctx, "f1", []string{"s1", "ghost", "s1", "s2"}, "", "")
	if err != nil {
		t.Fatalf("AssignVideos: %v", err)
	}
	if result.AssignedCount != 2 {
		t.Fatalf("expected 2 assigned, got %+v", result)
	}
	if !slices.Equal(result.UnfulfilledSlotIDs, []string{"ghost"}) {
		t.Fatalf("expected ghost unfulfilled, got %v", result.UnfulfilledSlotIDs)
	}
	if count, _ := f.inv.AvailableCount(ctx, "f1"); count != 2 {
		t.Fatalf("expected no video spent on unknown slot, got %d available", count)
	}
}

func TestAssignAlreadyBoundSlotGoesUnfulfilled(t *testing.T) {
	f := newFixture(t, 3, "s1", "s2")
	ctx := context.Background()

	if _, err := f.engine.AssignVideos(ctx, "f1", []string{"s1"}, "", ""); err != nil {
		t.Fatalf("first AssignVideos: %v", err)
	}
	result, err := f.engine.AssignVideos(ctx, "f1", []string{"s1", "s2"}, "", "")
	if err != nil {
		t.Fatalf("second AssignVideos: %v", err)
	}
	if result.AssignedCount != 1 || result.BoundPairs[0].SlotID != "s2" {
		t.Fatalf("expected only s2 bound, got %+v", result)
	}
	if !slices.Equal(result.UnfulfilledSlotIDs, []string{"s1"}) {
		t.Fatalf("expected s1 unfulfilled, got %v", result.UnfulfilledSlotIDs)
	}
	if count, _ := f.inv.AvailableCount(ctx, "f1"); count != 1 {
		t.Fatalf("expected rejected video released, got %d available", count)
	}
	health, err := f.store.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if health.Claimed != 0 {
		t.Fatalf("expected no dangling claims, got %d", health.Claimed)
	}
}

type failingBinder struct {
	store  *pool.Store
	failOn int
	calls  int
}

func (b *failingBinder) Bind(ctx context.Context, id, token string, binding pool.Binding) error {
	b.calls++
	if b.calls == b.failOn {
		return errors.New("disk full")
	}
	return b.store.Bind(ctx, id, token, binding)
}

func TestAssignStoreFailureReleasesClaims(t *testing.T) {
	f := newFixture(t, 3, "s1", "s2", "s3")
	ctx := context.Background()
	binder := &failingBinder{store: f.store, failOn: 2}
	engine := assignment.NewEngine(f.inv, binder, f.slots, nil)

	result, err := engine.AssignVideos(ctx, "f1", []string{"s1", "s2", "s3"}, "", "")
	if err == nil {
		t.Fatal("expected store failure")
	}
	if result.AssignedCount != 1 {
		t.Fatalf("expected the first bind to stand, got %+v", result)
	}
	if count, _ := f.inv.AvailableCount(ctx, "f1"); count != 2 {
		t.Fatalf("expected unbound claims released, got %d available", count)
	}
}

func TestConcurrentAssignBindsEachSlotOnce(t *testing.T) {
	slotIDs := []string{"s1", "s2", "s3", "s4", "s5"}
	f := newFixture(t, 60, slotIDs...)
	ctx := context.Background()

	const callers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		pairs   []assignment.Pair
		callErr []error
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := f.engine.AssignVideos(ctx, "f1", slotIDs, "Blend", "Both")
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				callErr = append(callErr, err)
				return
			}
			pairs = append(pairs, result.BoundPairs...)
		}()
	}
	wg.Wait()

	if len(callErr) > 0 {
		t.Fatalf("expected every caller to succeed, got %v", callErr)
	}
	if len(pairs) != len(slotIDs) {
		t.Fatalf("expected %d bound pairs across callers, got %d: %+v", len(slotIDs), len(pairs), pairs)
	}
	boundSlots := make(map[string]struct{}, len(pairs))
	boundVideos := make(map[string]struct{}, len(pairs))
	for _, pair := range pairs {
		boundSlots[pair.SlotID] = struct{}{}
		boundVideos[pair.VideoID] = struct{}{}
	}
	if len(boundSlots) != len(slotIDs) || len(boundVideos) != len(slotIDs) {
		t.Fatalf("expected distinct slots and videos, got %+v", pairs)
	}

	if count, err := f.inv.AvailableCount(ctx, "f1"); err != nil || count != 60-len(slotIDs) {
		t.Fatalf("expected %d available, got %d (%v)", 60-len(slotIDs), count, err)
	}
	health, err := f.store.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if health.Claimed != 0 || health.Processing != len(slotIDs) {
		t.Fatalf("unexpected health after concurrent assign: %+v", health)
	}
}
