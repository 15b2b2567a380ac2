package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"reelpool/internal/logging"
	"reelpool/internal/pool"
	"reelpool/internal/services"
)

// ErrNoVideosAvailable reports that a folder has no Unassigned, unclaimed videos.
var ErrNoVideosAvailable = fmt.Errorf("%w: no videos available", services.ErrValidation)

// Store is the subset of pool.Store used by the inventory.
type Store interface {
	AvailableIDs(ctx context.Context, folderID string) ([]string, error)
	AvailableCount(ctx context.Context, folderID string) (int, error)
	TryClaim(ctx context.Context, id, token string) (bool, error)
	ReleaseClaim(ctx context.Context, id, token string) (bool, error)
	ReclaimStaleClaims(ctx context.Context, cutoff time.Time) (int64, error)
	ListFolders(ctx context.Context) ([]pool.Folder, error)
}

// Claim is a set of videos held for one caller until bound or released.
type Claim struct {
	Token    string
	FolderID string
	VideoIDs []string
}

// Inventory hands out videos from folders.
type Inventory struct {
	store    Store
	strategy SelectionStrategy
	logger   *slog.Logger
	now      func() time.Time
}

// Option customizes an Inventory.
type Option func(*Inventory)

// WithStrategy overrides the default Fisher-Yates selection.
func WithStrategy(strategy SelectionStrategy) Option {
	return func(i *Inventory) {
		if strategy != nil {
			i.strategy = strategy
		}
	}
}

// WithClock overrides the clock used for stale claim cutoffs.
func WithClock(now func() time.Time) Option {
	return func(i *Inventory) {
		if now != nil {
			i.now = now
		}
	}
}

// New builds an inventory over store.
func New(store Store, logger *slog.Logger, opts ...Option) *Inventory {
	if logger == nil {
		logger = logging.NewNop()
	}
	inv := &Inventory{
		store:    store,
		strategy: NewFisherYates(nil),
		logger:   logging.NewComponentLogger(logger, "inventory"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// AvailableCount returns the number of claimable videos in a folder.
func (i *Inventory) AvailableCount(ctx context.Context, folderID string) (int, error) {
	return i.store.AvailableCount(ctx, strings.TrimSpace(folderID))
}

// ClaimRandom claims up to n videos from folderID. Fewer than n are returned
// when the folder runs out; ErrNoVideosAvailable is returned only when nothing
// is available at all.
func (i *Inventory) ClaimRandom(ctx context.Context, folderID string, n int) (Claim, error) {
	folderID = strings.TrimSpace(folderID)
	if folderID == "" {
		return Claim{}, services.Wrap(services.ErrValidation, "inventory", "claim", "folder id is required", nil)
	}
	if n <= 0 {
		return Claim{}, services.Wrap(services.ErrValidation, "inventory", "claim", "claim size must be positive", nil)
	}

	candidates, err := i.store.AvailableIDs(ctx, folderID)
	if err != nil {
		return Claim{}, err
	}
	if len(candidates) == 0 {
		return Claim{}, ErrNoVideosAvailable
	}

	claim := Claim{Token: uuid.NewString(), FolderID: folderID}
	lost := 0
	for _, id := range i.strategy.Select(candidates, n) {
		if len(claim.VideoIDs) == n {
			break
		}
		if err := ctx.Err(); err != nil {
			i.ReleaseAll(claim)
			return Claim{}, err
		}
		ok, err := i.store.TryClaim(ctx, id, claim.Token)
		if err != nil {
			i.ReleaseAll(claim)
			return Claim{}, err
		}
		if !ok {
			lost++
			continue
		}
		claim.VideoIDs = append(claim.VideoIDs, id)
	}

	i.logger.Debug("videos claimed",
		logging.String(logging.FieldFolderID, folderID),
		logging.Int("requested", n),
		logging.Int("claimed", len(claim.VideoIDs)),
		logging.Int("lost_races", lost),
	)
	return claim, nil
}

// Release returns one claimed video to the pool. Releasing a video that was
// already bound or reclaimed is a no-op.
func (i *Inventory) Release(ctx context.Context, claim Claim, videoID string) error {
	if _, err := i.store.ReleaseClaim(ctx, videoID, claim.Token); err != nil {
		return fmt.Errorf("release %s: %w", videoID, err)
	}
	return nil
}

// ReclaimStale releases claims older than olderThan.
func (i *Inventory) ReclaimStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, services.Wrap(services.ErrValidation, "inventory", "reclaim", "claim timeout must be positive", nil)
	}
	count, err := i.store.ReclaimStaleClaims(ctx, i.now().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	if count > 0 {
		i.logger.Warn("reclaimed stale claims",
			logging.Int64("count", count),
			logging.String("event_type", "claims_reclaimed"),
			logging.String("impact", "videos returned to their folders"),
		)
	}
	return count, nil
}

// ListFolders returns every folder with its available video count.
func (i *Inventory) ListFolders(ctx context.Context) ([]pool.Folder, error) {
	return i.store.ListFolders(ctx)
}

// ReleaseAll returns every video in claim to the pool. It uses a fresh
// context so a canceled caller does not strand its claims.
func (i *Inventory) ReleaseAll(claim Claim) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, id := range claim.VideoIDs {
		if _, err := i.store.ReleaseClaim(ctx, id, claim.Token); err != nil {
			i.logger.Warn("release claim failed",
				logging.String(logging.FieldVideoID, id),
				logging.Error(err),
			)
		}
	}
}
