package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Perentie01/fitflow/internal/ingest/plan"
	"github.com/Perentie01/fitflow/internal/models"
	"github.com/Perentie01/fitflow/internal/storage"
	"github.com/google/uuid"
)

var (
	// ErrValidationFailed means the plan still has validation errors and
	// cannot be confirmed. Import is all-or-nothing, never partial.
	ErrValidationFailed = errors.New("plan has validation errors")

	// ErrUnknownPlan means the confirmation token does not match a pending plan.
	ErrUnknownPlan = errors.New("unknown or expired import plan")

	// ErrBusy means a confirmed import is already running.
	ErrBusy = errors.New("an import is already in progress")
)

// pendingTTL is how long an unconfirmed plan is kept before it is pruned.
const pendingTTL = time.Hour

// Plan is a parsed and validated import awaiting explicit confirmation.
// Nothing is written to the store until Confirm is called with its token.
type Plan struct {
	Token     uuid.UUID        `json:"token"`
	Rows      int              `json:"rows"`
	BlockIDs  []string         `json:"block_ids"`
	Errors    []string         `json:"errors,omitempty"`
	Preview   []plan.Candidate `json:"preview"`
	CreatedAt time.Time        `json:"created_at"`

	candidates []plan.Candidate
}

// CanConfirm reports whether the plan is eligible for confirmation.
func (p *Plan) CanConfirm() bool {
	return len(p.Errors) == 0
}

// Stats summarizes a confirmed import.
type Stats struct {
	WorkoutsImported int64  `json:"workouts_imported"`
	BlocksCreated    int    `json:"blocks_created"`
	ActiveBlock      string `json:"active_block"`
}

// Store is the storage surface the coordinator drives. *storage.DB
// satisfies it; tests substitute failing wrappers to exercise the
// rollback paths.
type Store interface {
	TakeSnapshot(ctx context.Context) (*storage.Snapshot, error)
	ClearAll(ctx context.Context) error
	Restore(ctx context.Context, snap *storage.Snapshot) error
	GetBlock(ctx context.Context, blockID string) (*models.Block, error)
	CreateBlock(ctx context.Context, blockID, blockName string, isActive bool) (int64, error)
	InsertWorkouts(ctx context.Context, workouts []models.Workout) (int64, error)
	ActiveBlock(ctx context.Context) (*models.Block, error)
	ListBlocks(ctx context.Context) ([]models.Block, error)
	SetActiveBlock(ctx context.Context, blockID string) error
}

var _ Store = (*storage.DB)(nil)

// Coordinator orchestrates the replace-all import: parse and validate into a
// pending plan, then on confirmation snapshot, clear, repopulate, and refresh
// the active block. One import runs at a time.
type Coordinator struct {
	db  Store
	log *slog.Logger

	mu           sync.Mutex
	pending      map[uuid.UUID]*Plan
	busy         bool
	inconsistent bool
}

// New creates a Coordinator.
func New(db Store, log *slog.Logger) *Coordinator {
	return &Coordinator{
		db:      db,
		log:     log,
		pending: make(map[uuid.UUID]*Plan),
	}
}

// Preview parses and validates raw plan text and registers the result as a
// pending plan. The store is not touched. The returned plan carries the
// first five candidates and all validation errors so the caller can show a
// confirmation view.
func (c *Coordinator) Preview(text string) (*Plan, error) {
	parsed, err := plan.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parsing plan: %w", err)
	}

	errs, preview := plan.Validate(parsed.Candidates)

	p := &Plan{
		Token:      uuid.New(),
		Rows:       len(parsed.Candidates),
		BlockIDs:   parsed.BlockIDs,
		Errors:     errs,
		Preview:    preview,
		CreatedAt:  time.Now().UTC(),
		candidates: parsed.Candidates,
	}

	c.mu.Lock()
	c.prunePendingLocked()
	c.pending[p.Token] = p
	c.mu.Unlock()

	c.log.Info("import plan created",
		"token", p.Token, "rows", p.Rows, "blocks", len(p.BlockIDs), "errors", len(errs))
	return p, nil
}

// Pending returns the pending plan for a token, if it exists.
func (c *Coordinator) Pending(token uuid.UUID) (*Plan, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pending[token]
	return p, ok
}

// Confirm executes a pending plan. Confirmation is refused while the plan
// has validation errors or another import is running. The import replaces
// the whole store: existing blocks, workouts, and progress are deleted, the
// referenced blocks are created, candidates are bulk-inserted, and the
// active block is refreshed. On failure after the clear, the pre-import
// snapshot is restored; if even that fails the store is flagged inconsistent.
func (c *Coordinator) Confirm(ctx context.Context, token uuid.UUID) (*Stats, error) {
	c.mu.Lock()
	p, ok := c.pending[token]
	if !ok {
		c.mu.Unlock()
		return nil, ErrUnknownPlan
	}
	if len(p.Errors) > 0 {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %d errors", ErrValidationFailed, len(p.Errors))
	}
	if c.busy {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.busy = true
	c.mu.Unlock()

	// The busy flag is released on every exit path.
	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	snap, err := c.db.TakeSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshotting store: %w", err)
	}

	if err := c.db.ClearAll(ctx); err != nil {
		return nil, fmt.Errorf("clearing store: %w", err)
	}

	stats, err := c.populate(ctx, p)
	if err != nil {
		c.log.Error("import failed, rolling back", "error", err)
		if rerr := c.db.Restore(ctx, snap); rerr != nil {
			c.mu.Lock()
			c.inconsistent = true
			c.mu.Unlock()
			c.log.Error("rollback failed, store is inconsistent", "error", rerr)
			return nil, fmt.Errorf("import failed (%v) and rollback failed: %w", err, rerr)
		}
		return nil, fmt.Errorf("import failed, previous data restored: %w", err)
	}

	c.mu.Lock()
	delete(c.pending, token)
	c.mu.Unlock()

	c.log.Info("import complete",
		"workouts", stats.WorkoutsImported,
		"blocks_created", stats.BlocksCreated,
		"active_block", stats.ActiveBlock)
	return stats, nil
}

// populate runs the post-clear steps: create referenced blocks, bulk-insert
// workouts, refresh the active block.
func (c *Coordinator) populate(ctx context.Context, p *Plan) (*Stats, error) {
	stats := &Stats{}

	for _, blockID := range p.BlockIDs {
		// Check-before-create: the store has no uniqueness constraint on block_id.
		_, err := c.db.GetBlock(ctx, blockID)
		if err == nil {
			continue
		}
		if !errors.Is(err, storage.ErrBlockNotFound) {
			return nil, fmt.Errorf("checking block %q: %w", blockID, err)
		}
		if _, err := c.db.CreateBlock(ctx, blockID, blockID, false); err != nil {
			return nil, fmt.Errorf("creating block %q: %w", blockID, err)
		}
		stats.BlocksCreated++
	}

	workouts := make([]models.Workout, 0, len(p.candidates))
	for _, cand := range p.candidates {
		workouts = append(workouts, cand.Workout)
	}
	inserted, err := c.db.InsertWorkouts(ctx, workouts)
	if err != nil {
		return nil, fmt.Errorf("inserting workouts: %w", err)
	}
	stats.WorkoutsImported = inserted

	active, err := c.refreshActiveBlock(ctx)
	if err != nil {
		return nil, err
	}
	stats.ActiveBlock = active
	return stats, nil
}

// refreshActiveBlock keeps the active selection valid after a replace-all:
// if no block is active, the first block by name becomes active.
func (c *Coordinator) refreshActiveBlock(ctx context.Context) (string, error) {
	active, err := c.db.ActiveBlock(ctx)
	if err != nil {
		return "", err
	}
	if active != nil {
		return active.BlockID, nil
	}

	blocks, err := c.db.ListBlocks(ctx)
	if err != nil {
		return "", err
	}
	if len(blocks) == 0 {
		return "", nil
	}
	if err := c.db.SetActiveBlock(ctx, blocks[0].BlockID); err != nil {
		return "", fmt.Errorf("activating block %q: %w", blocks[0].BlockID, err)
	}
	return blocks[0].BlockID, nil
}

// Consistent reports whether the store is in a known-good state. It flips
// to false only when an import failed and the rollback also failed.
func (c *Coordinator) Consistent() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.inconsistent
}

func (c *Coordinator) prunePendingLocked() {
	cutoff := time.Now().Add(-pendingTTL)
	for token, p := range c.pending {
		if p.CreatedAt.Before(cutoff) {
			delete(c.pending, token)
		}
	}
}
