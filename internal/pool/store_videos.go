package pool

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"reelpool/internal/services"
)

// EnsureFolder creates the folder row when it does not exist. An existing
// folder keeps its name unless name is non-empty.
func (s *Store) EnsureFolder(ctx context.Context, id, name string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return services.Wrap(services.ErrValidation, "pool", "ensure folder", "folder id is required", nil)
	}
	name = strings.TrimSpace(name)
	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO folders (id, name, created_at) VALUES (?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET name = CASE WHEN excluded.name <> '' THEN excluded.name ELSE folders.name END`,
		id,
		name,
		s.timestamp(),
	); err != nil {
		return fmt.Errorf("ensure folder: %w", err)
	}
	return nil
}

// InsertVideo records a render-pipeline delivery as an Unassigned video.
func (s *Store) InsertVideo(ctx context.Context, nv NewVideo) (*Video, error) {
	if strings.TrimSpace(nv.FolderID) == "" {
		return nil, services.Wrap(services.ErrValidation, "pool", "insert video", "folder id is required", nil)
	}
	if err := s.EnsureFolder(ctx, nv.FolderID, nv.FolderName); err != nil {
		return nil, err
	}
	id := strings.TrimSpace(nv.ID)
	if id == "" {
		id = uuid.NewString()
	}
	timestamp := s.timestamp()
	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO videos (id, folder_id, status, video_url, thumbnail_url, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		strings.TrimSpace(nv.FolderID),
		StatusUnassigned,
		nullableString(strings.TrimSpace(nv.VideoURL)),
		nullableString(strings.TrimSpace(nv.ThumbnailURL)),
		timestamp,
		timestamp,
	); err != nil {
		if isUniqueViolation(err) {
			return nil, services.Wrap(services.ErrConflict, "pool", "insert video", "video "+id+" already exists", err)
		}
		return nil, fmt.Errorf("insert video: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a video by identifier. A missing video yields (nil, nil).
func (s *Store) GetByID(ctx context.Context, id string) (*Video, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+videoColumns+` FROM videos WHERE id = ?`, id)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	return video, nil
}

// GetMany fetches the listed videos keyed by id; unknown ids are absent from the map.
func (s *Store) GetMany(ctx context.Context, ids []string) (map[string]*Video, error) {
	result := make(map[string]*Video, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT `+videoColumns+` FROM videos WHERE id IN (`+makePlaceholders(len(ids))+`)`,
		stringArgs(ids)...,
	)
	if err != nil {
		return nil, fmt.Errorf("get videos: %w", err)
	}
	videos, err := scanVideos(rows)
	if err != nil {
		return nil, err
	}
	for _, video := range videos {
		result[video.ID] = video
	}
	return result, nil
}

// List returns videos matching the filter ordered by creation time.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]*Video, error) {
	var (
		clauses []string
		args    []any
	)
	if folder := strings.TrimSpace(filter.FolderID); folder != "" {
		clauses = append(clauses, "folder_id = ?")
		args = append(args, folder)
	}
	if len(filter.Statuses) > 0 {
		clauses = append(clauses, "status IN ("+makePlaceholders(len(filter.Statuses))+")")
		for _, status := range filter.Statuses {
			args = append(args, status)
		}
	}
	if filter.BoundOnly {
		clauses = append(clauses, "bound_slot_id IS NOT NULL")
	}

	query := `SELECT ` + videoColumns + ` FROM videos`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return scanVideos(rows)
}

// BoundToSlot returns the video holding slotID, or nil when the slot is free.
func (s *Store) BoundToSlot(ctx context.Context, slotID string) (*Video, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+videoColumns+` FROM videos WHERE bound_slot_id = ?`, slotID)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("video bound to slot: %w", err)
	}
	return video, nil
}

// AvailableIDs lists the folder's Unassigned, unclaimed video ids.
func (s *Store) AvailableIDs(ctx context.Context, folderID string) ([]string, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT id FROM videos WHERE folder_id = ? AND status = ? AND claim_token IS NULL ORDER BY created_at, id`,
		folderID,
		StatusUnassigned,
	)
	if err != nil {
		return nil, fmt.Errorf("available videos: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AvailableCount counts the folder's Unassigned, unclaimed videos.
func (s *Store) AvailableCount(ctx context.Context, folderID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT COUNT(1) FROM videos WHERE folder_id = ? AND status = ? AND claim_token IS NULL`,
		folderID,
		StatusUnassigned,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("available count: %w", err)
	}
	return count, nil
}

// FolderExists reports whether a folder row is present.
func (s *Store) FolderExists(ctx context.Context, id string) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ensureContext(ctx), `SELECT COUNT(1) FROM folders WHERE id = ?`, id).Scan(&count); err != nil {
		return false, fmt.Errorf("folder exists: %w", err)
	}
	return count > 0, nil
}

// ListFolders returns every folder with its available and total video counts.
func (s *Store) ListFolders(ctx context.Context) ([]Folder, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT f.id, f.name, f.created_at,
                COALESCE(SUM(CASE WHEN v.status = ? AND v.claim_token IS NULL THEN 1 ELSE 0 END), 0),
                COUNT(v.id)
         FROM folders f
         LEFT JOIN videos v ON v.folder_id = f.id
         GROUP BY f.id, f.name, f.created_at
         ORDER BY f.name, f.id`,
		StatusUnassigned,
	)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []Folder
	for rows.Next() {
		var (
			folder     Folder
			createdRaw string
		)
		if err := rows.Scan(&folder.ID, &folder.Name, &createdRaw, &folder.AvailableCount, &folder.TotalCount); err != nil {
			return nil, err
		}
		if created, err := parseTimeString(createdRaw); err == nil {
			folder.CreatedAt = created
		}
		folders = append(folders, folder)
	}
	return folders, rows.Err()
}
