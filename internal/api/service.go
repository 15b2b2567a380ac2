package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"reelpool/internal/assignment"
	"reelpool/internal/config"
	"reelpool/internal/inventory"
	"reelpool/internal/lifecycle"
	"reelpool/internal/logging"
	"reelpool/internal/pool"
	"reelpool/internal/publish"
	"reelpool/internal/services"
	"reelpool/internal/slots"
	"reelpool/internal/stats"
)

// Group-by values accepted by Stats.
const (
	GroupByDate     = "date"
	GroupByCategory = "category"
)

// ErrContentStoreUnavailable reports that no content-planning store is configured.
var ErrContentStoreUnavailable = fmt.Errorf("%w: content store is not configured", services.ErrValidation)

// Deps are the collaborators a Service is built from.
type Deps struct {
	Store        *pool.Store
	Slots        slots.Store
	Strategy     inventory.SelectionStrategy
	Publish      publish.Options
	ClaimTimeout time.Duration
	Logger       *slog.Logger
}

// Service exposes reelpool operations.
type Service struct {
	store        *pool.Store
	slots        slots.Store
	inventory    *inventory.Inventory
	engine       *assignment.Engine
	machine      *lifecycle.Machine
	publisher    *publish.Coordinator
	claimTimeout time.Duration
	contentURL   string
	logger       *slog.Logger
	closeStore   bool
}

// NewService wires a Service from explicit collaborators. Slots may be nil,
// in which case slot-backed operations return ErrContentStoreUnavailable.
func NewService(deps Deps) (*Service, error) {
	if deps.Store == nil {
		return nil, errors.New("pool store is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	var invOpts []inventory.Option
	if deps.Strategy != nil {
		invOpts = append(invOpts, inventory.WithStrategy(deps.Strategy))
	}
	inv := inventory.New(deps.Store, logger, invOpts...)

	svc := &Service{
		store:        deps.Store,
		slots:        deps.Slots,
		inventory:    inv,
		machine:      lifecycle.NewMachine(deps.Store, logger),
		claimTimeout: deps.ClaimTimeout,
		logger:       logging.NewComponentLogger(logger, "api"),
	}
	if deps.Slots != nil {
		svc.engine = assignment.NewEngine(inv, deps.Store, deps.Slots, logger)
		svc.publisher = publish.NewCoordinator(deps.Store, deps.Slots, deps.Publish, logger)
	}
	return svc, nil
}

// Open builds a Service from configuration, opening the pool database and,
// when configured, the content-planning store.
func Open(cfg *config.Config, logger *slog.Logger) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	store, err := pool.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool store: %w", err)
	}
	var slotStore slots.Store
	if cfg.ContentStoreConfigured() {
		pg, err := slots.NewPostgrestStore(slots.PostgrestConfig{
			URL:     cfg.ContentStore.URL,
			APIKey:  cfg.ContentStore.APIKey,
			Schema:  cfg.ContentStore.Schema,
			Table:   cfg.ContentStore.Table,
			Timeout: cfg.ContentStoreTimeout(),
		}, logger)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		slotStore = pg
	}
	svc, err := NewService(Deps{
		Store: store,
		Slots: slotStore,
		Publish: publish.Options{
			Concurrency:  cfg.Publish.Concurrency,
			WriteTimeout: cfg.PublishWriteTimeout(),
		},
		ClaimTimeout: cfg.ClaimTimeout(),
		Logger:       logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	svc.closeStore = true
	svc.contentURL = cfg.ContentStore.URL
	return svc, nil
}

// Close releases the pool store when the Service opened it.
func (s *Service) Close() error {
	if s == nil || !s.closeStore {
		return nil
	}
	return s.store.Close()
}

// AssignVideos binds videos from a folder to the requested slots.
func (s *Service) AssignVideos(ctx context.Context, req AssignRequest) (AssignResult, error) {
	ctx = withRequestID(ctx)
	if s.engine == nil {
		return AssignResult{}, ErrContentStoreUnavailable
	}
	result, err := s.engine.AssignVideos(ctx, req.FolderID, req.SlotIDs, req.OverlayStyle, req.RenderType)
	if err != nil {
		s.logFailure(ctx, "assign", err)
	}
	return FromAssignResult(result), err
}

// Unassign returns a video to its folder's pool.
func (s *Service) Unassign(ctx context.Context, videoID string) (Video, error) {
	ctx = services.WithVideoID(withRequestID(ctx), videoID)
	video, err := s.machine.Unassign(ctx, videoID)
	if err != nil {
		s.logFailure(ctx, "unassign", err)
		return Video{}, err
	}
	return FromVideo(video), nil
}

// MarkReady records render output for a Processing video.
func (s *Service) MarkReady(ctx context.Context, videoID, processedURL, thumbnailURL string) (Video, error) {
	ctx = services.WithVideoID(withRequestID(ctx), videoID)
	video, err := s.machine.MarkReady(ctx, videoID, processedURL, thumbnailURL)
	if err != nil {
		s.logFailure(ctx, "mark ready", err)
		return Video{}, err
	}
	return FromVideo(video), nil
}

// PublishVideos writes Ready videos into their slots.
func (s *Service) PublishVideos(ctx context.Context, videoIDs []string) (PublishReport, error) {
	ctx = withRequestID(ctx)
	if s.publisher == nil {
		return PublishReport{}, ErrContentStoreUnavailable
	}
	report, err := s.publisher.PublishVideos(ctx, videoIDs)
	if err != nil {
		s.logFailure(ctx, "publish", err)
		return PublishReport{}, err
	}
	return FromPublishReport(report), nil
}

// BucketStats computes per-date counts for a campaign.
func (s *Service) BucketStats(ctx context.Context, campaignID string) (StatsResponse, error) {
	return s.Stats(ctx, campaignID, GroupByDate)
}

// CategoryStats computes per-category counts for a campaign.
func (s *Service) CategoryStats(ctx context.Context, campaignID string) (StatsResponse, error) {
	return s.Stats(ctx, campaignID, GroupByCategory)
}

// Stats computes campaign counts grouped by date or category.
func (s *Service) Stats(ctx context.Context, campaignID, groupBy string) (StatsResponse, error) {
	ctx = withRequestID(ctx)
	if s.slots == nil {
		return StatsResponse{}, ErrContentStoreUnavailable
	}
	groupBy = strings.ToLower(strings.TrimSpace(groupBy))
	if groupBy == "" {
		groupBy = GroupByDate
	}
	if groupBy != GroupByDate && groupBy != GroupByCategory {
		return StatsResponse{}, services.Wrap(services.ErrValidation, "api", "stats", "group by must be date or category", nil)
	}

	slotList, err := s.slots.ListSlots(ctx, campaignID)
	if err != nil {
		return StatsResponse{}, err
	}
	bound, err := s.store.List(ctx, pool.ListFilter{BoundOnly: true})
	if err != nil {
		return StatsResponse{}, err
	}
	inCampaign := make(map[string]struct{}, len(slotList))
	for _, slot := range slotList {
		inCampaign[slot.ID] = struct{}{}
	}
	videos := make([]*pool.Video, 0, len(bound))
	for _, video := range bound {
		if _, ok := inCampaign[video.BoundSlotID]; ok {
			videos = append(videos, video)
		}
	}

	resp := StatsResponse{CampaignID: strings.TrimSpace(campaignID), GroupBy: groupBy}
	if groupBy == GroupByCategory {
		resp.Buckets, resp.Totals = FromBuckets(stats.ComputeCategoryStats(slotList, videos), stats.CategoryLabel)
	} else {
		resp.Buckets, resp.Totals = FromBuckets(stats.ComputeBucketStats(slotList, videos), nil)
	}
	return resp, nil
}

// Folders lists folders with their available video counts.
func (s *Service) Folders(ctx context.Context) ([]Folder, error) {
	folders, err := s.inventory.ListFolders(withRequestID(ctx))
	if err != nil {
		return nil, err
	}
	return FromFolders(folders), nil
}

// Videos lists pool videos.
func (s *Service) Videos(ctx context.Context, filter VideoFilter) ([]Video, error) {
	ctx = withRequestID(ctx)
	listFilter := pool.ListFilter{FolderID: strings.TrimSpace(filter.FolderID)}
	if listFilter.FolderID != "" {
		exists, err := s.store.FolderExists(ctx, listFilter.FolderID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, services.Wrap(services.ErrNotFound, "api", "videos", fmt.Sprintf("folder %q not found", listFilter.FolderID), nil)
		}
	}
	for _, raw := range filter.Statuses {
		status, ok := pool.ParseStatus(raw)
		if !ok {
			return nil, services.Wrap(services.ErrValidation, "api", "videos", fmt.Sprintf("unknown status %q", raw), nil)
		}
		listFilter.Statuses = append(listFilter.Statuses, status)
	}
	videos, err := s.store.List(ctx, listFilter)
	if err != nil {
		return nil, err
	}
	return FromVideos(videos), nil
}

// Ingest records a new Unassigned video delivered by the render pipeline.
func (s *Service) Ingest(ctx context.Context, req IngestRequest) (Video, error) {
	ctx = services.WithFolderID(withRequestID(ctx), req.FolderID)
	if strings.TrimSpace(req.VideoURL) == "" || !slots.ValidURL(req.VideoURL) {
		return Video{}, services.Wrap(services.ErrValidation, "api", "ingest", "video url must be an http(s) url", nil)
	}
	if req.ThumbnailURL != "" && !slots.ValidURL(req.ThumbnailURL) {
		return Video{}, services.Wrap(services.ErrValidation, "api", "ingest", "thumbnail url must be an http(s) url", nil)
	}
	video, err := s.store.InsertVideo(ctx, pool.NewVideo{
		ID:           req.ID,
		FolderID:     req.FolderID,
		FolderName:   req.FolderName,
		VideoURL:     req.VideoURL,
		ThumbnailURL: req.ThumbnailURL,
	})
	if err != nil {
		s.logFailure(ctx, "ingest", err)
		return Video{}, err
	}
	logging.WithContext(ctx, s.logger).Info("video ingested",
		logging.String(logging.FieldVideoID, video.ID),
		logging.String("event_type", "video_ingested"),
	)
	return FromVideo(video), nil
}

// ReclaimStaleClaims releases claims older than the configured claim timeout.
func (s *Service) ReclaimStaleClaims(ctx context.Context) (int64, error) {
	timeout := s.claimTimeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return s.inventory.ReclaimStale(withRequestID(ctx), timeout)
}

// Health reports pool database state and lifecycle counts.
func (s *Service) Health(ctx context.Context) (HealthResponse, error) {
	ctx = withRequestID(ctx)
	db, err := s.store.CheckHealth(ctx)
	resp := HealthResponse{
		DatabasePath:    db.DBPath,
		SchemaVersion:   db.SchemaVersion,
		IntegrityOK:     db.IntegrityCheck,
		ContentStoreURL: s.contentURL,
		Error:           db.Error,
	}
	if err != nil {
		return resp, err
	}
	summary, err := s.store.Health(ctx)
	if err != nil {
		return resp, err
	}
	resp.Total = summary.Total
	resp.Unassigned = summary.Unassigned
	resp.Claimed = summary.Claimed
	resp.Processing = summary.Processing
	resp.Ready = summary.Ready
	resp.Published = summary.Published
	return resp, nil
}

func (s *Service) logFailure(ctx context.Context, op string, err error) {
	logging.WithContext(ctx, s.logger).Warn(op+" failed",
		logging.String("error_kind", services.Kind(err)),
		logging.Error(err),
	)
}

func withRequestID(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := services.RequestIDFromContext(ctx); ok {
		return ctx
	}
	return services.WithRequestID(ctx, uuid.NewString())
}
