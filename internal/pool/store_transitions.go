package pool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"reelpool/internal/services"
)

// TryClaim marks an Unassigned, unclaimed video as held by token. It returns
// false when another caller claimed or bound the video first.
func (s *Store) TryClaim(ctx context.Context, id, token string) (bool, error) {
	timestamp := s.timestamp()
	ok, err := s.execCAS(
		ctx,
		`UPDATE videos SET claim_token = ?, claimed_at = ?, updated_at = ?
         WHERE id = ? AND status = ? AND claim_token IS NULL`,
		token,
		timestamp,
		timestamp,
		id,
		StatusUnassigned,
	)
	if err != nil {
		return false, fmt.Errorf("claim video: %w", err)
	}
	return ok, nil
}

// ReleaseClaim returns a claimed but unbound video to its folder's pool.
func (s *Store) ReleaseClaim(ctx context.Context, id, token string) (bool, error) {
	ok, err := s.execCAS(
		ctx,
		`UPDATE videos SET claim_token = NULL, claimed_at = NULL, updated_at = ?
         WHERE id = ? AND status = ? AND claim_token = ?`,
		s.timestamp(),
		id,
		StatusUnassigned,
		token,
	)
	if err != nil {
		return false, fmt.Errorf("release claim: %w", err)
	}
	return ok, nil
}

// Bind moves a video claimed under token to Processing and attaches it to the
// binding's slot. ErrSlotTaken reports that another video holds the slot;
// ErrClaimLost reports that the claim expired or was reclaimed.
func (s *Store) Bind(ctx context.Context, id, token string, binding Binding) error {
	slotID := strings.TrimSpace(binding.SlotID)
	if slotID == "" {
		return services.Wrap(services.ErrValidation, "pool", "bind", "slot id is required", nil)
	}
	ok, err := s.execCAS(
		ctx,
		`UPDATE videos
         SET status = ?, bound_slot_id = ?, overlay_style = ?, render_type = ?, scheduled_date = ?,
             claim_token = NULL, claimed_at = NULL, published_at = NULL, updated_at = ?
         WHERE id = ? AND status = ? AND claim_token = ?`,
		StatusProcessing,
		slotID,
		nullableString(binding.OverlayStyle),
		nullableString(binding.RenderType),
		nullableString(binding.ScheduledDate),
		s.timestamp(),
		id,
		StatusUnassigned,
		token,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("bind video %s to slot %s: %w", id, slotID, ErrSlotTaken)
		}
		return fmt.Errorf("bind video: %w", err)
	}
	if !ok {
		return fmt.Errorf("bind video %s: %w", id, ErrClaimLost)
	}
	return nil
}

// MarkReady moves a Processing video to Ready with its rendered output. An
// empty thumbnailURL keeps the existing thumbnail. It returns false when the
// video is not Processing.
func (s *Store) MarkReady(ctx context.Context, id, processedURL, thumbnailURL string) (bool, error) {
	ok, err := s.execCAS(
		ctx,
		`UPDATE videos
         SET status = ?, processed_video_url = ?, thumbnail_url = COALESCE(?, thumbnail_url), updated_at = ?
         WHERE id = ? AND status = ?`,
		StatusReady,
		processedURL,
		nullableString(thumbnailURL),
		s.timestamp(),
		id,
		StatusProcessing,
	)
	if err != nil {
		return false, fmt.Errorf("mark ready: %w", err)
	}
	return ok, nil
}

// Unassign returns a video currently in status from back to Unassigned,
// clearing its binding and render metadata. It returns false when the video
// is no longer in status from.
func (s *Store) Unassign(ctx context.Context, id string, from Status) (bool, error) {
	ok, err := s.execCAS(
		ctx,
		`UPDATE videos
         SET status = ?, bound_slot_id = NULL, processed_video_url = NULL, scheduled_date = NULL,
             overlay_style = NULL, render_type = NULL, published_at = NULL,
             claim_token = NULL, claimed_at = NULL, updated_at = ?
         WHERE id = ? AND status = ?`,
		StatusUnassigned,
		s.timestamp(),
		id,
		from,
	)
	if err != nil {
		return false, fmt.Errorf("unassign video: %w", err)
	}
	return ok, nil
}

// MarkPublished records a successful external write for a Ready video that is
// still bound to slotID.
func (s *Store) MarkPublished(ctx context.Context, id, slotID string) (bool, error) {
	timestamp := s.timestamp()
	ok, err := s.execCAS(
		ctx,
		`UPDATE videos SET published_at = ?, updated_at = ?
         WHERE id = ? AND bound_slot_id = ? AND status = ?`,
		timestamp,
		timestamp,
		id,
		slotID,
		StatusReady,
	)
	if err != nil {
		return false, fmt.Errorf("mark published: %w", err)
	}
	return ok, nil
}

// ReclaimStaleClaims releases claims taken before cutoff that were never bound,
// returning those videos to their folders.
func (s *Store) ReclaimStaleClaims(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE videos SET claim_token = NULL, claimed_at = NULL, updated_at = ?
         WHERE status = ? AND claim_token IS NOT NULL AND claimed_at < ?`,
		s.timestamp(),
		StatusUnassigned,
		nullableTime(&cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("reclaim stale claims: %w", err)
	}
	return res.RowsAffected()
}
