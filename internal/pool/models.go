package pool

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a pool video. States beyond Ready
// (scheduled, published) belong to the slot record, not the video.
type Status string

const (
	StatusUnassigned Status = "unassigned"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
)

var allStatuses = []Status{
	StatusUnassigned,
	StatusProcessing,
	StatusReady,
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range allStatuses {
		if status == normalized {
			return normalized, true
		}
	}
	return "", false
}

// Video is a rendered asset tracked through the pool lifecycle.
type Video struct {
	ID                string
	FolderID          string
	Status            Status
	BoundSlotID       string
	VideoURL          string
	ProcessedVideoURL string
	ThumbnailURL      string
	OverlayStyle      string
	RenderType        string
	ScheduledDate     string
	ClaimToken        string
	ClaimedAt         *time.Time
	PublishedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsBound reports whether the video currently holds a slot.
func (v Video) IsBound() bool {
	return v.BoundSlotID != ""
}

// IsClaimed reports whether an assignment is holding the video between claim and bind.
func (v Video) IsClaimed() bool {
	return v.ClaimToken != ""
}

// Folder is a named grouping of pool videos.
type Folder struct {
	ID             string
	Name           string
	AvailableCount int
	TotalCount     int
	CreatedAt      time.Time
}

// NewVideo describes a render-pipeline delivery. ID is generated when empty and
// the folder row is created on first use.
type NewVideo struct {
	ID           string
	FolderID     string
	FolderName   string
	VideoURL     string
	ThumbnailURL string
}

// Binding carries the fields written when a claimed video is bound to a slot.
type Binding struct {
	SlotID        string
	OverlayStyle  string
	RenderType    string
	ScheduledDate string
}

// ListFilter narrows List results. Zero values match everything.
type ListFilter struct {
	FolderID  string
	Statuses  []Status
	BoundOnly bool
}

// HealthSummary describes aggregated pool counts per lifecycle state.
type HealthSummary struct {
	Total      int
	Unassigned int
	Claimed    int
	Processing int
	Ready      int
	Published  int
}

// DatabaseHealth captures diagnostic information about the pool database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	SchemaVersion    int
	IntegrityCheck   bool
	TotalVideos      int
	Error            string
}
