package storage

import (
	"context"
	"errors"
	"testing"
)

// TestEnsureDefaultBlock verifies an empty store is bootstrapped with a
// single active default block, and that a second call leaves it alone.
func TestEnsureDefaultBlock(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	b, err := db.EnsureDefaultBlock(ctx)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if b.BlockID != DefaultBlockID || !b.IsActive {
		t.Fatalf("bootstrap block = %+v, want active %q", b, DefaultBlockID)
	}

	if _, err := db.EnsureDefaultBlock(ctx); err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}
	blocks, err := db.ListBlocks(ctx)
	if err != nil {
		t.Fatalf("listing blocks: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("blocks = %d, want 1 after repeated bootstrap", len(blocks))
	}
}

// TestEnsureDefaultBlockPrefersActive verifies bootstrap on a populated
// store returns the active block rather than creating anything.
func TestEnsureDefaultBlockPrefersActive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.CreateBlock(ctx, "Week 1", "Week 1", false); err != nil {
		t.Fatalf("creating block: %v", err)
	}
	if _, err := db.CreateBlock(ctx, "Week 2", "Week 2", true); err != nil {
		t.Fatalf("creating block: %v", err)
	}

	b, err := db.EnsureDefaultBlock(ctx)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if b.BlockID != "Week 2" {
		t.Errorf("bootstrap block = %q, want Week 2", b.BlockID)
	}
}

// TestSetActiveBlock verifies activation is exclusive: activating one block
// deactivates whichever was active before.
func TestSetActiveBlock(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.CreateBlock(ctx, "Week 1", "Week 1", true); err != nil {
		t.Fatalf("creating block: %v", err)
	}
	if _, err := db.CreateBlock(ctx, "Week 2", "Week 2", false); err != nil {
		t.Fatalf("creating block: %v", err)
	}

	if err := db.SetActiveBlock(ctx, "Week 2"); err != nil {
		t.Fatalf("activating Week 2: %v", err)
	}

	blocks, err := db.ListBlocks(ctx)
	if err != nil {
		t.Fatalf("listing blocks: %v", err)
	}
	var activeCount int
	for _, b := range blocks {
		if b.IsActive {
			activeCount++
			if b.BlockID != "Week 2" {
				t.Errorf("active block = %q, want Week 2", b.BlockID)
			}
		}
	}
	if activeCount != 1 {
		t.Errorf("active blocks = %d, want exactly 1", activeCount)
	}
}

// TestSetActiveBlockUnknown verifies activating a missing block is an error
// and does not deactivate the current one.
func TestSetActiveBlockUnknown(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.CreateBlock(ctx, "Week 1", "Week 1", true); err != nil {
		t.Fatalf("creating block: %v", err)
	}

	err := db.SetActiveBlock(ctx, "no-such-block")
	if !errors.Is(err, ErrBlockNotFound) {
		t.Fatalf("error = %v, want ErrBlockNotFound", err)
	}

	active, err := db.ActiveBlock(ctx)
	if err != nil {
		t.Fatalf("querying active block: %v", err)
	}
	if active == nil || active.BlockID != "Week 1" {
		t.Errorf("active block = %v, want Week 1 untouched", active)
	}
}

// TestGetBlockNotFound verifies the sentinel for missing block ids.
func TestGetBlockNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetBlock(context.Background(), "missing")
	if !errors.Is(err, ErrBlockNotFound) {
		t.Fatalf("error = %v, want ErrBlockNotFound", err)
	}
}

// TestListBlocksOrder verifies case-insensitive name ordering.
func TestListBlocksOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, id := range []string{"charlie", "Alpha", "bravo"} {
		if _, err := db.CreateBlock(ctx, id, id, false); err != nil {
			t.Fatalf("creating block %q: %v", id, err)
		}
	}

	blocks, err := db.ListBlocks(ctx)
	if err != nil {
		t.Fatalf("listing blocks: %v", err)
	}
	want := []string{"Alpha", "bravo", "charlie"}
	for i, b := range blocks {
		if b.BlockID != want[i] {
			t.Errorf("blocks[%d] = %q, want %q", i, b.BlockID, want[i])
		}
	}
}

// TestActiveBlockEmpty verifies an empty store reports no active block
// without error.
func TestActiveBlockEmpty(t *testing.T) {
	db := newTestDB(t)

	active, err := db.ActiveBlock(context.Background())
	if err != nil {
		t.Fatalf("querying active block: %v", err)
	}
	if active != nil {
		t.Errorf("active block = %+v, want nil", active)
	}
}
