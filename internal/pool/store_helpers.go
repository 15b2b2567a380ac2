package pool

import (
	"database/sql"
	"errors"
	"time"
)

const videoColumns = "id, folder_id, status, bound_slot_id, video_url, processed_video_url, thumbnail_url, overlay_style, render_type, scheduled_date, claim_token, claimed_at, published_at, created_at, updated_at"

func scanVideo(scanner interface{ Scan(dest ...any) error }) (*Video, error) {
	var (
		id           string
		folderID     string
		statusStr    string
		boundSlot    sql.NullString
		videoURL     sql.NullString
		processedURL sql.NullString
		thumbnailURL sql.NullString
		overlay      sql.NullString
		renderType   sql.NullString
		scheduled    sql.NullString
		claimToken   sql.NullString
		claimedRaw   sql.NullString
		publishedRaw sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&folderID,
		&statusStr,
		&boundSlot,
		&videoURL,
		&processedURL,
		&thumbnailURL,
		&overlay,
		&renderType,
		&scheduled,
		&claimToken,
		&claimedRaw,
		&publishedRaw,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	video := &Video{
		ID:                id,
		FolderID:          folderID,
		Status:            Status(statusStr),
		BoundSlotID:       boundSlot.String,
		VideoURL:          videoURL.String,
		ProcessedVideoURL: processedURL.String,
		ThumbnailURL:      thumbnailURL.String,
		OverlayStyle:      overlay.String,
		RenderType:        renderType.String,
		ScheduledDate:     scheduled.String,
		ClaimToken:        claimToken.String,
		ClaimedAt:         parseNullableTime(claimedRaw),
		PublishedAt:       parseNullableTime(publishedRaw),
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		video.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		video.UpdatedAt = updated
	}
	return video, nil
}

func scanVideos(rows *sql.Rows) ([]*Video, error) {
	defer rows.Close()
	var videos []*Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	return videos, rows.Err()
}

// timeLayout is fixed width so stored timestamps compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return formatTime(*value)
}

func parseNullableTime(raw sql.NullString) *time.Time {
	if !raw.Valid {
		return nil
	}
	t, err := parseTimeString(raw.String)
	if err != nil {
		return nil
	}
	return &t
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}

func stringArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
