package publish

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"reelpool/internal/logging"
	"reelpool/internal/pool"
	"reelpool/internal/services"
	"reelpool/internal/slots"
)

// Outcome is the per-video result of a publish batch.
type Outcome string

const (
	OutcomePublished Outcome = "published"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
)

// Skip and failure reasons that do not come from an error.
const (
	ReasonNotFound = "not found"
	ReasonNotBound = "not bound"
	ReasonNotReady = "not ready"
)

const (
	defaultConcurrency  = 5
	defaultWriteTimeout = 30 * time.Second
)

// Store is the subset of pool.Store the coordinator reads and updates.
type Store interface {
	GetMany(ctx context.Context, ids []string) (map[string]*pool.Video, error)
	MarkPublished(ctx context.Context, id, slotID string) (bool, error)
}

// Detail is one video's outcome.
type Detail struct {
	VideoID string
	SlotID  string
	Outcome Outcome
	Reason  string
}

// Report summarizes a publish batch.
type Report struct {
	Published int
	Failed    int
	Skipped   int
	Details   []Detail
}

// Options tunes the worker pool.
type Options struct {
	Concurrency  int
	WriteTimeout time.Duration
}

// Coordinator publishes videos to their slots.
type Coordinator struct {
	store  Store
	writer slots.Writer
	opts   Options
	logger *slog.Logger
}

// NewCoordinator wires a publish coordinator. Zero options take defaults.
func NewCoordinator(store Store, writer slots.Writer, opts Options, logger *slog.Logger) *Coordinator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Coordinator{
		store:  store,
		writer: writer,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "publish"),
	}
}

// PublishVideos writes the processed URL of each Ready, bound video into its
// slot. Duplicate ids are collapsed. Once ctx is canceled no new writes start
// and every remaining video is reported failed with the context error. The
// returned error is non-nil only when the videos could not be loaded.
func (c *Coordinator) PublishVideos(ctx context.Context, videoIDs []string) (Report, error) {
	ids := services.UniqueIDs(videoIDs)
	if len(ids) == 0 {
		return Report{}, nil
	}
	logger := logging.WithContext(ctx, c.logger)

	videos, err := c.store.GetMany(ctx, ids)
	if err != nil {
		return Report{}, err
	}

	details := make([]Detail, len(ids))
	var g errgroup.Group
	g.SetLimit(c.opts.Concurrency)

	for i, id := range ids {
		video := videos[id]
		detail, ok := classify(id, video)
		if !ok {
			details[i] = detail
			continue
		}
		if err := ctx.Err(); err != nil {
			details[i] = failed(detail, err)
			continue
		}
		url := video.ProcessedVideoURL
		g.Go(func() error {
			details[i] = c.publishOne(ctx, logger, detail, url)
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Details: details}
	for _, d := range details {
		switch d.Outcome {
		case OutcomePublished:
			report.Published++
		case OutcomeFailed:
			report.Failed++
		case OutcomeSkipped:
			report.Skipped++
		}
	}
	logger.Info("publish batch complete",
		logging.Int("requested", len(ids)),
		logging.Int("published", report.Published),
		logging.Int("failed", report.Failed),
		logging.Int("skipped", report.Skipped),
		logging.String("event_type", "publish_complete"),
	)
	return report, nil
}

func (c *Coordinator) publishOne(ctx context.Context, logger *slog.Logger, detail Detail, url string) Detail {
	if err := ctx.Err(); err != nil {
		return failed(detail, err)
	}
	writeCtx, cancel := context.WithTimeout(ctx, c.opts.WriteTimeout)
	err := slots.WriteVideoURL(writeCtx, c.writer, detail.SlotID, url)
	cancel()
	if err != nil {
		logger.Warn("slot write failed",
			logging.String(logging.FieldVideoID, detail.VideoID),
			logging.String(logging.FieldSlotID, detail.SlotID),
			logging.String("error_kind", services.Kind(err)),
			logging.Error(err),
		)
		return failed(detail, err)
	}

	detail.Outcome = OutcomePublished
	ok, markErr := c.store.MarkPublished(context.WithoutCancel(ctx), detail.VideoID, detail.SlotID)
	switch {
	case markErr != nil:
		logger.Warn("record published time failed",
			logging.String(logging.FieldVideoID, detail.VideoID),
			logging.Error(markErr),
		)
	case !ok:
		logger.Warn("video changed during publish",
			logging.String(logging.FieldVideoID, detail.VideoID),
			logging.String(logging.FieldSlotID, detail.SlotID),
		)
	}
	logger.Debug("video published",
		logging.String(logging.FieldVideoID, detail.VideoID),
		logging.String(logging.FieldSlotID, detail.SlotID),
		logging.String(logging.FieldOutcome, string(detail.Outcome)),
	)
	return detail
}

// classify decides outcomes that need no write. ok reports that the video
// should be written.
func classify(id string, video *pool.Video) (Detail, bool) {
	detail := Detail{VideoID: id}
	switch {
	case video == nil:
		detail.Outcome, detail.Reason = OutcomeFailed, ReasonNotFound
		return detail, false
	case !video.IsBound():
		detail.Outcome, detail.Reason = OutcomeSkipped, ReasonNotBound
		return detail, false
	}
	detail.SlotID = video.BoundSlotID
	if video.Status != pool.StatusReady || strings.TrimSpace(video.ProcessedVideoURL) == "" {
		detail.Outcome, detail.Reason = OutcomeSkipped, ReasonNotReady
		return detail, false
	}
	return detail, true
}

func failed(detail Detail, err error) Detail {
	detail.Outcome = OutcomeFailed
	detail.Reason = err.Error()
	return detail
}
