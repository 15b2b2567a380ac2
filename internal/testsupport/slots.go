package testsupport

import (
	"context"
	"sort"
	"sync"
	"time"

	"reelpool/internal/services"
	"reelpool/internal/slots"
)

// SlotStore is an in-memory slots.Store with failure injection.
type SlotStore struct {
	mu     sync.Mutex
	slots  map[string]slots.Slot
	fail   map[string]error
	delay  map[string]time.Duration
	writes map[string]int
	calls  int
}

// NewSlotStore seeds an in-memory slot store.
func NewSlotStore(seed ...slots.Slot) *SlotStore {
	s := &SlotStore{
		slots:  make(map[string]slots.Slot, len(seed)),
		fail:   make(map[string]error),
		delay:  make(map[string]time.Duration),
		writes: make(map[string]int),
	}
	for _, slot := range seed {
		s.slots[slot.ID] = slot
	}
	return s
}

// Put inserts or replaces a slot.
func (s *SlotStore) Put(slot slots.Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[slot.ID] = slot
}

// Get returns the stored slot.
func (s *SlotStore) Get(id string) (slots.Slot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[id]
	return slot, ok
}

// FailWrites makes every Apply on slotID return err.
func (s *SlotStore) FailWrites(slotID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[slotID] = err
}

// DelayWrites makes Apply on slotID block for d or until ctx is done.
func (s *SlotStore) DelayWrites(slotID string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay[slotID] = d
}

// Writes returns how many successful writes slotID received.
func (s *SlotStore) Writes(slotID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes[slotID]
}

// Calls returns the number of Apply attempts, including failed ones.
func (s *SlotStore) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// ListSlots implements slots.Source.
func (s *SlotStore) ListSlots(_ context.Context, campaignID string) ([]slots.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []slots.Slot
	for _, slot := range s.slots {
		if campaignID == "" || slot.CampaignID == campaignID {
			result = append(result, slot)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// GetSlots implements slots.Source.
func (s *SlotStore) GetSlots(_ context.Context, ids []string) (map[string]slots.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make(map[string]slots.Slot, len(ids))
	for _, id := range ids {
		if slot, ok := s.slots[id]; ok {
			result[id] = slot
		}
	}
	return result, nil
}

// Apply implements slots.Writer.
func (s *SlotStore) Apply(ctx context.Context, slotID string, updates ...slots.Update) error {
	fields, err := slots.Fields(updates...)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.calls++
	failErr := s.fail[slotID]
	delay := s.delay[slotID]
	s.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
	if failErr != nil {
		return failErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[slotID]
	if !ok {
		return services.Wrap(services.ErrNotFound, "slots", "apply", "slot "+slotID+" not found", nil)
	}
	for column, value := range fields {
		text, _ := value.(string)
		switch column {
		case slots.ColumnVideoURL:
			slot.VideoURL = text
		case slots.ColumnExternalPostID:
			slot.ExternalPostID = text
		case slots.ColumnScheduledDate:
			slot.ScheduledDate = text
		}
	}
	s.slots[slotID] = slot
	s.writes[slotID]++
	return nil
}
