package slots

import "context"

// Slot is a content placeholder read from the content-planning store.
// ScheduledDate uses the YYYY-MM-DD layout; empty means unscheduled.
type Slot struct {
	ID             string
	CampaignID     string
	Category       string
	Niche          string
	ScheduledDate  string
	VideoURL       string
	ExternalPostID string
}

// Source reads slot snapshots from the content-planning store.
type Source interface {
	// ListSlots returns every slot of a campaign.
	ListSlots(ctx context.Context, campaignID string) ([]Slot, error)
	// GetSlots returns the requested slots keyed by id; unknown ids are absent.
	GetSlots(ctx context.Context, ids []string) (map[string]Slot, error)
}

// Writer applies validated field updates to a slot record. Implementations
// must make field writes idempotent: applying the same value twice leaves the
// record unchanged.
type Writer interface {
	Apply(ctx context.Context, slotID string, updates ...Update) error
}

// Store is a content-planning store that can be both read and written.
type Store interface {
	Source
	Writer
}

// WriteVideoURL stores a rendered video URL on a slot record.
func WriteVideoURL(ctx context.Context, w Writer, slotID, url string) error {
	return w.Apply(ctx, slotID, VideoURL{URL: url})
}
