package stats

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"reelpool/internal/pool"
	"reelpool/internal/slots"
)

// Unscheduled keys slots and videos without a scheduled date.
const Unscheduled = "unscheduled"

// Uncategorized keys slots without a category.
const Uncategorized = "uncategorized"

// BucketCounts holds lifecycle counts for one bucket.
type BucketCounts struct {
	Total      int `json:"total"`
	Needed     int `json:"needed"`
	Processing int `json:"processing"`
	Ready      int `json:"ready"`
	Scheduled  int `json:"scheduled"`
	Published  int `json:"published"`
}

// ComputeBucketStats counts slots and bound videos per scheduled date.
func ComputeBucketStats(slotList []slots.Slot, videos []*pool.Video) map[string]BucketCounts {
	return aggregate(slots.NewSnapshot(slotList), videos,
		func(slot slots.Slot) string { return dateKey(slot.ScheduledDate) },
		func(video *pool.Video, _ slots.Slot, _ bool) string { return dateKey(video.ScheduledDate) },
	)
}

// ComputeCategoryStats counts slots and bound videos per case-folded slot
// category. A bound video takes the category of its slot; videos bound to
// slots missing from slotList count as uncategorized.
func ComputeCategoryStats(slotList []slots.Slot, videos []*pool.Video) map[string]BucketCounts {
	return aggregate(slots.NewSnapshot(slotList), videos,
		func(slot slots.Slot) string { return categoryKey(slot.Category) },
		func(_ *pool.Video, slot slots.Slot, ok bool) string {
			if !ok {
				return Uncategorized
			}
			return categoryKey(slot.Category)
		},
	)
}

func aggregate(
	snap *slots.Snapshot,
	videos []*pool.Video,
	slotKey func(slots.Slot) string,
	videoKey func(*pool.Video, slots.Slot, bool) string,
) map[string]BucketCounts {
	out := make(map[string]BucketCounts)
	slotByID := make(map[string]slots.Slot, snap.Len())
	for _, slot := range snap.Slots() {
		slotByID[slot.ID] = slot
	}

	boundSlots := make(map[string]struct{}, len(videos))
	for _, video := range videos {
		if video != nil && video.IsBound() {
			boundSlots[video.BoundSlotID] = struct{}{}
		}
	}

	for _, slot := range snap.Slots() {
		if _, bound := boundSlots[slot.ID]; bound {
			continue
		}
		status, _ := snap.Status(slot.ID)
		key := slotKey(slot)
		counts := out[key]
		counts.Total++
		switch status.(type) {
		case slots.Published:
			counts.Published++
		case slots.Scheduled:
			counts.Scheduled++
		default:
			counts.Needed++
		}
		out[key] = counts
	}

	seen := make(map[string]struct{}, len(videos))
	for _, video := range videos {
		if video == nil || !video.IsBound() {
			continue
		}
		if _, dup := seen[video.ID]; dup {
			continue
		}
		seen[video.ID] = struct{}{}
		var field func(*BucketCounts)
		switch video.Status {
		case pool.StatusProcessing:
			field = func(c *BucketCounts) { c.Processing++ }
		case pool.StatusReady:
			field = func(c *BucketCounts) { c.Ready++ }
		default:
			continue
		}
		slot, ok := slotByID[video.BoundSlotID]
		key := videoKey(video, slot, ok)
		counts := out[key]
		counts.Total++
		field(&counts)
		out[key] = counts
	}
	return out
}

// Totals sums every bucket.
func Totals(buckets map[string]BucketCounts) BucketCounts {
	var sum BucketCounts
	for _, c := range buckets {
		sum.Total += c.Total
		sum.Needed += c.Needed
		sum.Processing += c.Processing
		sum.Ready += c.Ready
		sum.Scheduled += c.Scheduled
		sum.Published += c.Published
	}
	return sum
}

// SortedKeys returns bucket keys in ascending order with Unscheduled and
// Uncategorized last.
func SortedKeys(buckets map[string]BucketCounts) []string {
	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		ti, tj := isTrailing(keys[i]), isTrailing(keys[j])
		if ti != tj {
			return tj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// CategoryLabel renders a folded category key for display.
func CategoryLabel(key string) string {
	return cases.Title(language.Und).String(key)
}

func isTrailing(key string) bool {
	return key == Unscheduled || key == Uncategorized
}

func dateKey(date string) string {
	if date = strings.TrimSpace(date); date != "" {
		return date
	}
	return Unscheduled
}

func categoryKey(category string) string {
	category = strings.Join(strings.Fields(category), " ")
	if category == "" {
		return Uncategorized
	}
	return cases.Fold().String(category)
}
