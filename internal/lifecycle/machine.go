package lifecycle

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"reelpool/internal/logging"
	"reelpool/internal/pool"
	"reelpool/internal/services"
)

// Store is the subset of pool.Store the machine drives.
type Store interface {
	GetByID(ctx context.Context, id string) (*pool.Video, error)
	MarkReady(ctx context.Context, id, processedURL, thumbnailURL string) (bool, error)
	Unassign(ctx context.Context, id string, from pool.Status) (bool, error)
}

// maxUnassignAttempts bounds retries when the video changes status mid-unassign.
const maxUnassignAttempts = 3

type readyRequest struct {
	VideoID      string `validate:"required"`
	ProcessedURL string `validate:"required,http_url"`
	ThumbnailURL string `validate:"omitempty,http_url"`
}

// Machine applies lifecycle transitions to stored videos.
type Machine struct {
	store    Store
	validate *validator.Validate
	logger   *slog.Logger
}

// NewMachine builds a state machine over store.
func NewMachine(store Store, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Machine{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logging.NewComponentLogger(logger, "lifecycle"),
	}
}

// MarkReady records the rendered output of a Processing video.
func (m *Machine) MarkReady(ctx context.Context, videoID, processedURL, thumbnailURL string) (*pool.Video, error) {
	req := readyRequest{
		VideoID:      strings.TrimSpace(videoID),
		ProcessedURL: strings.TrimSpace(processedURL),
		ThumbnailURL: strings.TrimSpace(thumbnailURL),
	}
	if err := m.validate.Struct(req); err != nil {
		return nil, services.Wrap(services.ErrValidation, "lifecycle", "mark ready", "invalid ready request", err)
	}

	video, err := m.load(ctx, req.VideoID, "mark ready")
	if err != nil {
		return nil, err
	}
	if _, err := Next(video.Status, EventReady); err != nil {
		return nil, err
	}
	ok, err := m.store.MarkReady(ctx, req.VideoID, req.ProcessedURL, req.ThumbnailURL)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Status changed between the read and the swap.
		current, loadErr := m.load(ctx, req.VideoID, "mark ready")
		if loadErr != nil {
			return nil, loadErr
		}
		_, nextErr := Next(current.Status, EventReady)
		if nextErr == nil {
			nextErr = services.Wrap(services.ErrConflict, "lifecycle", "mark ready", "concurrent update", nil)
		}
		return nil, nextErr
	}

	updated, err := m.load(ctx, req.VideoID, "mark ready")
	if err != nil {
		return nil, err
	}
	logging.WithContext(ctx, m.logger).Info("video ready",
		logging.String(logging.FieldVideoID, updated.ID),
		logging.String(logging.FieldSlotID, updated.BoundSlotID),
		logging.String("event_type", "video_ready"),
	)
	return updated, nil
}

// Unassign returns a bound video to its folder's pool. Unassigning an
// Unassigned video is a no-op.
func (m *Machine) Unassign(ctx context.Context, videoID string) (*pool.Video, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, services.Wrap(services.ErrValidation, "lifecycle", "unassign", "video id is required", nil)
	}
	for attempt := 0; attempt < maxUnassignAttempts; attempt++ {
		video, err := m.load(ctx, videoID, "unassign")
		if err != nil {
			return nil, err
		}
		if video.Status == pool.StatusUnassigned {
			return video, nil
		}
		if !Can(video.Status, EventUnassign) {
			_, err := Next(video.Status, EventUnassign)
			return nil, err
		}
		ok, err := m.store.Unassign(ctx, videoID, video.Status)
		if err != nil {
			return nil, err
		}
		if ok {
			logging.WithContext(ctx, m.logger).Info("video unassigned",
				logging.String(logging.FieldVideoID, videoID),
				logging.String(logging.FieldSlotID, video.BoundSlotID),
				logging.String("previous_status", string(video.Status)),
				logging.String("event_type", "video_unassigned"),
			)
			return m.load(ctx, videoID, "unassign")
		}
	}
	return nil, services.Wrap(services.ErrConflict, "lifecycle", "unassign", "video "+videoID+" kept changing status", nil)
}

func (m *Machine) load(ctx context.Context, videoID, op string) (*pool.Video, error) {
	video, err := m.store.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, services.Wrap(services.ErrNotFound, "lifecycle", op, "video "+videoID+" not found", nil)
	}
	return video, nil
}
