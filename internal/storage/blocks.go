package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Perentie01/fitflow/internal/models"
)

// DefaultBlockID is the block created on first run of an empty store.
const DefaultBlockID = "Block 1"

// CreateBlock inserts a block and returns its surrogate id. The store does
// not enforce uniqueness of block_id; callers check before creating.
func (db *DB) CreateBlock(ctx context.Context, blockID, blockName string, isActive bool) (int64, error) {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO blocks (block_id, block_name, is_active, created_at) VALUES (?, ?, ?, ?)`,
		blockID, blockName, boolToInt(isActive), time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("inserting block: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading block id: %w", err)
	}
	return id, nil
}

// GetBlock fetches a block by its externally visible block_id.
// Returns ErrBlockNotFound if no such block exists.
func (db *DB) GetBlock(ctx context.Context, blockID string) (*models.Block, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, block_id, block_name, is_active, created_at FROM blocks WHERE block_id = ?`,
		blockID)
	b, err := scanBlock(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying block %q: %w", blockID, err)
	}
	return b, nil
}

// ListBlocks returns all blocks ordered by name, case-insensitively.
func (db *DB) ListBlocks(ctx context.Context) ([]models.Block, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, block_id, block_name, is_active, created_at
		 FROM blocks ORDER BY block_name COLLATE NOCASE ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying blocks: %w", err)
	}
	defer rows.Close()

	var result []models.Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning block: %w", err)
		}
		result = append(result, *b)
	}
	return result, rows.Err()
}

// ActiveBlock returns the block with is_active set, or nil if no block is
// active (which includes the empty store).
func (db *DB) ActiveBlock(ctx context.Context) (*models.Block, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, block_id, block_name, is_active, created_at FROM blocks WHERE is_active = 1 LIMIT 1`)
	b, err := scanBlock(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying active block: %w", err)
	}
	return b, nil
}

// SetActiveBlock deactivates the current active block and activates the
// block with the given block_id, in one transaction.
func (db *DB) SetActiveBlock(ctx context.Context, blockID string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE blocks SET is_active = 0 WHERE is_active = 1`); err != nil {
		return fmt.Errorf("deactivating blocks: %w", err)
	}
	res, err := tx.ExecContext(ctx, `UPDATE blocks SET is_active = 1 WHERE block_id = ?`, blockID)
	if err != nil {
		return fmt.Errorf("activating block %q: %w", blockID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking activation: %w", err)
	}
	if n == 0 {
		return ErrBlockNotFound
	}
	return tx.Commit()
}

// EnsureDefaultBlock bootstraps an empty store with an active default block,
// mirroring the app's first-run behavior. Returns the block the UI should
// start on: the active block, or the first block if none is active.
func (db *DB) EnsureDefaultBlock(ctx context.Context) (*models.Block, error) {
	blocks, err := db.ListBlocks(ctx)
	if err != nil {
		return nil, err
	}

	if len(blocks) == 0 {
		if _, err := db.CreateBlock(ctx, DefaultBlockID, DefaultBlockID, true); err != nil {
			return nil, fmt.Errorf("creating default block: %w", err)
		}
		return db.GetBlock(ctx, DefaultBlockID)
	}

	active, err := db.ActiveBlock(ctx)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return active, nil
	}
	return &blocks[0], nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlock(row rowScanner) (*models.Block, error) {
	var b models.Block
	var active int
	var created int64
	if err := row.Scan(&b.ID, &b.BlockID, &b.BlockName, &active, &created); err != nil {
		return nil, err
	}
	b.IsActive = active != 0
	b.CreatedAt = time.Unix(created, 0).UTC()
	return &b, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
