package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Video describes a pool video in a transport-friendly format.
type Video struct {
	ID                string `json:"id"`
	FolderID          string `json:"folderId"`
	Status            string `json:"status"`
	BoundSlotID       string `json:"boundSlotId,omitempty"`
	VideoURL          string `json:"videoUrl,omitempty"`
	ProcessedVideoURL string `json:"processedVideoUrl,omitempty"`
	ThumbnailURL      string `json:"thumbnailUrl,omitempty"`
	OverlayStyle      string `json:"overlayStyle,omitempty"`
	RenderType        string `json:"renderType,omitempty"`
	ScheduledDate     string `json:"scheduledDate,omitempty"`
	Claimed           bool   `json:"claimed"`
	PublishedAt       string `json:"publishedAt,omitempty"`
	CreatedAt         string `json:"createdAt,omitempty"`
	UpdatedAt         string `json:"updatedAt,omitempty"`
}

// Folder describes a video folder with its claimable count.
type Folder struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	AvailableVideoCount int    `json:"availableVideoCount"`
	TotalVideoCount     int    `json:"totalVideoCount"`
}

// AssignRequest asks for videos from a folder to be bound to slots.
type AssignRequest struct {
	FolderID     string   `json:"folderId"`
	SlotIDs      []string `json:"slotIds"`
	OverlayStyle string   `json:"overlayStyle,omitempty"`
	RenderType   string   `json:"renderType,omitempty"`
}

// BoundPair is one video bound to one slot.
type BoundPair struct {
	VideoID string `json:"videoId"`
	SlotID  string `json:"slotId"`
}

// AssignResult summarizes an assignment batch.
type AssignResult struct {
	AssignedCount      int         `json:"assignedCount"`
	UnfulfilledSlotIDs []string    `json:"unfulfilledSlotIds"`
	BoundPairs         []BoundPair `json:"boundPairs"`
}

// PublishDetail is one video's publish outcome.
type PublishDetail struct {
	VideoID string `json:"videoId"`
	SlotID  string `json:"slotId,omitempty"`
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`
}

// PublishReport summarizes a publish batch.
type PublishReport struct {
	Published int             `json:"published"`
	Failed    int             `json:"failed"`
	Skipped   int             `json:"skipped"`
	Details   []PublishDetail `json:"details"`
}

// Bucket is one row of a stats table.
type Bucket struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	Total      int    `json:"total"`
	Needed     int    `json:"needed"`
	Processing int    `json:"processing"`
	Ready      int    `json:"ready"`
	Scheduled  int    `json:"scheduled"`
	Published  int    `json:"published"`
}

// StatsResponse carries ordered buckets and their totals.
type StatsResponse struct {
	CampaignID string   `json:"campaignId"`
	GroupBy    string   `json:"groupBy"`
	Buckets    []Bucket `json:"buckets"`
	Totals     Bucket   `json:"totals"`
}

// IngestRequest records a render-pipeline delivery.
type IngestRequest struct {
	ID           string `json:"id,omitempty"`
	FolderID     string `json:"folderId"`
	FolderName   string `json:"folderName,omitempty"`
	VideoURL     string `json:"videoUrl"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// VideoFilter narrows a video listing.
type VideoFilter struct {
	FolderID string   `json:"folderId,omitempty"`
	Statuses []string `json:"statuses,omitempty"`
}

// HealthResponse reports pool database state.
type HealthResponse struct {
	DatabasePath    string `json:"databasePath"`
	SchemaVersion   int    `json:"schemaVersion"`
	IntegrityOK     bool   `json:"integrityOk"`
	ContentStoreURL string `json:"contentStoreUrl,omitempty"`
	Total           int    `json:"total"`
	Unassigned      int    `json:"unassigned"`
	Claimed         int    `json:"claimed"`
	Processing      int    `json:"processing"`
	Ready           int    `json:"ready"`
	Published       int    `json:"published"`
	Error           string `json:"error,omitempty"`
}
