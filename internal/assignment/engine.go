package assignment

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"reelpool/internal/inventory"
	"reelpool/internal/logging"
	"reelpool/internal/pool"
	"reelpool/internal/services"
	"reelpool/internal/slots"
)

// SlotLookup resolves slot ids to their current records.
type SlotLookup interface {
	GetSlots(ctx context.Context, ids []string) (map[string]slots.Slot, error)
}

// Binder attaches a claimed video to a slot.
type Binder interface {
	Bind(ctx context.Context, id, token string, binding pool.Binding) error
}

// Inventory is the claim surface used by the engine.
type Inventory interface {
	AvailableCount(ctx context.Context, folderID string) (int, error)
	ClaimRandom(ctx context.Context, folderID string, n int) (inventory.Claim, error)
	Release(ctx context.Context, claim inventory.Claim, videoID string) error
	ReleaseAll(claim inventory.Claim)
}

// Request describes one assignment batch.
type Request struct {
	FolderID     string   `validate:"required"`
	SlotIDs      []string `validate:"required,min=1,dive,required"`
	OverlayStyle string   `validate:"max=64"`
	RenderType   string   `validate:"max=64"`
}

// Pair is one video bound to one slot.
type Pair struct {
	VideoID string
	SlotID  string
}

// Result summarizes an assignment batch.
type Result struct {
	AssignedCount      int
	UnfulfilledSlotIDs []string
	BoundPairs         []Pair
}

// Engine binds videos to slots.
type Engine struct {
	inventory Inventory
	binder    Binder
	lookup    SlotLookup
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewEngine wires an assignment engine.
func NewEngine(inv Inventory, binder Binder, lookup SlotLookup, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		inventory: inv,
		binder:    binder,
		lookup:    lookup,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    logging.NewComponentLogger(logger, "assignment"),
	}
}

// AssignVideos binds up to len(slotIDs) random videos from folderID to the
// requested slots. After input validation the batch never fails as a whole:
// slots that could not be served are listed in UnfulfilledSlotIDs in request
// order. A store failure aborts the batch, releases unbound claims and returns
// the pairs bound so far together with the error.
func (e *Engine) AssignVideos(ctx context.Context, folderID string, slotIDs []string, overlayStyle, renderType string) (Result, error) {
	req := Request{
		FolderID:     strings.TrimSpace(folderID),
		SlotIDs:      services.UniqueIDs(slotIDs),
		OverlayStyle: strings.TrimSpace(overlayStyle),
		RenderType:   strings.TrimSpace(renderType),
	}
	if err := e.validate.Struct(req); err != nil {
		return Result{}, services.Wrap(services.ErrValidation, "assignment", "assign", "invalid request", err)
	}

	ctx = services.WithFolderID(ctx, req.FolderID)
	logger := logging.WithContext(ctx, e.logger)

	available, err := e.inventory.AvailableCount(ctx, req.FolderID)
	if err != nil {
		return Result{}, err
	}
	if available == 0 {
		return Result{}, services.Wrap(services.ErrValidation, "assignment", "assign", "no videos", nil)
	}

	known, err := e.lookup.GetSlots(ctx, req.SlotIDs)
	if err != nil {
		return Result{}, err
	}
	targets := make([]slots.Slot, 0, len(req.SlotIDs))
	for _, id := range req.SlotIDs {
		if slot, ok := known[id]; ok {
			targets = append(targets, slot)
		} else {
			logger.Warn("slot not found, skipping", logging.String(logging.FieldSlotID, id))
		}
	}

	result := Result{}
	if len(targets) > 0 {
		pairs, err := e.bind(ctx, logger, req, targets)
		result.BoundPairs = pairs
		result.AssignedCount = len(pairs)
		if err != nil {
			result.UnfulfilledSlotIDs = unfulfilled(req.SlotIDs, pairs)
			return result, err
		}
	}
	result.UnfulfilledSlotIDs = unfulfilled(req.SlotIDs, result.BoundPairs)

	logger.Info("assignment complete",
		logging.Int("requested", len(req.SlotIDs)),
		logging.Int("assigned", result.AssignedCount),
		logging.Int("unfulfilled", len(result.UnfulfilledSlotIDs)),
		logging.String("event_type", "assignment_complete"),
	)
	return result, nil
}

func (e *Engine) bind(ctx context.Context, logger *slog.Logger, req Request, targets []slots.Slot) ([]Pair, error) {
	claim, err := e.inventory.ClaimRandom(ctx, req.FolderID, len(targets))
	if errors.Is(err, inventory.ErrNoVideosAvailable) {
		// Another caller drained the folder after the availability check.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	pairs := make([]Pair, 0, len(claim.VideoIDs))
	next := 0
	for _, slot := range targets {
		if next >= len(claim.VideoIDs) {
			break
		}
		videoID := claim.VideoIDs[next]
		next++
		binding := pool.Binding{
			SlotID:        slot.ID,
			OverlayStyle:  req.OverlayStyle,
			RenderType:    req.RenderType,
			ScheduledDate: slot.ScheduledDate,
		}
		err := e.binder.Bind(ctx, videoID, claim.Token, binding)
		switch {
		case err == nil:
			pairs = append(pairs, Pair{VideoID: videoID, SlotID: slot.ID})
			logger.Debug("video bound",
				logging.String(logging.FieldVideoID, videoID),
				logging.String(logging.FieldSlotID, slot.ID),
			)
		case errors.Is(err, pool.ErrSlotTaken):
			logger.Info("slot already bound, dropping pair",
				logging.String(logging.FieldVideoID, videoID),
				logging.String(logging.FieldSlotID, slot.ID),
			)
			if relErr := e.inventory.Release(ctx, claim, videoID); relErr != nil {
				e.releaseRest(claim, next)
				return pairs, relErr
			}
		case errors.Is(err, pool.ErrClaimLost):
			logger.Warn("claim lost before bind",
				logging.String(logging.FieldVideoID, videoID),
				logging.String(logging.FieldSlotID, slot.ID),
			)
		default:
			e.releaseRest(claim, next-1)
			return pairs, err
		}
	}
	e.releaseRest(claim, next)
	return pairs, nil
}

// releaseRest returns claimed videos from index from onward.
func (e *Engine) releaseRest(claim inventory.Claim, from int) {
	if from >= len(claim.VideoIDs) {
		return
	}
	rest := claim
	rest.VideoIDs = claim.VideoIDs[from:]
	e.inventory.ReleaseAll(rest)
}

func unfulfilled(requested []string, pairs []Pair) []string {
	bound := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		bound[p.SlotID] = struct{}{}
	}
	out := make([]string, 0, len(requested)-len(pairs))
	for _, id := range requested {
		if _, ok := bound[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
