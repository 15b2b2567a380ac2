package slots

import "strings"

// StatusKind names a slot status variant.
type StatusKind string

const (
	KindNeeded    StatusKind = "needed"
	KindScheduled StatusKind = "scheduled"
	KindPublished StatusKind = "published"
)

// Status is the closed set of states a slot can be in from the store's point
// of view. Use a type switch over Needed, Scheduled and Published.
type Status interface {
	Kind() StatusKind
	isStatus()
}

// Needed is a slot with no video yet.
type Needed struct{}

// Scheduled is a slot holding a video that has not been posted.
type Scheduled struct {
	URL string
}

// Published is a slot whose video has a downstream post.
type Published struct {
	URL    string
	PostID string
}

func (Needed) Kind() StatusKind    { return KindNeeded }
func (Scheduled) Kind() StatusKind { return KindScheduled }
func (Published) Kind() StatusKind { return KindPublished }

func (Needed) isStatus()    {}
func (Scheduled) isStatus() {}
func (Published) isStatus() {}

// Classify derives the status of a slot. A post id wins over a video URL.
func Classify(slot Slot) Status {
	postID := strings.TrimSpace(slot.ExternalPostID)
	url := strings.TrimSpace(slot.VideoURL)
	switch {
	case postID != "":
		return Published{URL: url, PostID: postID}
	case url != "":
		return Scheduled{URL: url}
	default:
		return Needed{}
	}
}

// Snapshot is a point-in-time view of slots with their statuses computed once.
type Snapshot struct {
	slots    []Slot
	statuses map[string]Status
}

// NewSnapshot classifies every slot. Later duplicates of an id replace earlier ones.
func NewSnapshot(slots []Slot) *Snapshot {
	snap := &Snapshot{
		slots:    make([]Slot, 0, len(slots)),
		statuses: make(map[string]Status, len(slots)),
	}
	index := make(map[string]int, len(slots))
	for _, slot := range slots {
		if i, ok := index[slot.ID]; ok {
			snap.slots[i] = slot
		} else {
			index[slot.ID] = len(snap.slots)
			snap.slots = append(snap.slots, slot)
		}
		snap.statuses[slot.ID] = Classify(slot)
	}
	return snap
}

// Slots returns the snapshot's slots in input order.
func (s *Snapshot) Slots() []Slot {
	if s == nil {
		return nil
	}
	return s.slots
}

// Status returns the precomputed status of a slot.
func (s *Snapshot) Status(id string) (Status, bool) {
	if s == nil {
		return nil, false
	}
	status, ok := s.statuses[id]
	return status, ok
}

// Len returns the number of distinct slots.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.slots)
}
