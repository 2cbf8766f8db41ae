package storage

import (
	"context"
	"fmt"

	"github.com/Perentie01/fitflow/internal/models"
)

// Snapshot is a full copy of the store's contents, taken before a
// replace-all import so a failed import can be rolled back.
type Snapshot struct {
	Blocks   []models.Block
	Workouts []models.Workout
	Progress []models.Progress
}

// TakeSnapshot reads every row of every collection.
func (db *DB) TakeSnapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	blocks, err := db.ListBlocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshotting blocks: %w", err)
	}
	snap.Blocks = blocks

	rows, err := db.conn.QueryContext(ctx, `SELECT `+workoutColumns+` FROM workouts ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("snapshotting workouts: %w", err)
	}
	defer rows.Close()
	snap.Workouts, err = scanWorkouts(rows)
	if err != nil {
		return nil, fmt.Errorf("snapshotting workouts: %w", err)
	}

	prows, err := db.conn.QueryContext(ctx,
		`SELECT id, workout_id, set_number, completed_reps, completed_weight,
		 completed_duration, completed_at, notes FROM progress ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("snapshotting progress: %w", err)
	}
	defer prows.Close()
	snap.Progress, err = scanProgress(prows)
	if err != nil {
		return nil, fmt.Errorf("snapshotting progress: %w", err)
	}

	return snap, nil
}

// ClearAll deletes every block, workout, and progress row in one
// transaction. Surrogate id sequences are not reset, so ids issued after a
// clear never collide with ids issued before it.
func (db *DB) ClearAll(ctx context.Context) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"progress", "workouts", "blocks"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// Restore writes a snapshot back, preserving the original surrogate ids so
// progress rows keep pointing at their workouts. Existing contents are
// removed first; the whole restore is one transaction.
func (db *DB) Restore(ctx context.Context, snap *Snapshot) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"progress", "workouts", "blocks"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clearing %s for restore: %w", table, err)
		}
	}

	for _, b := range snap.Blocks {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO blocks (id, block_id, block_name, is_active, created_at) VALUES (?, ?, ?, ?, ?)`,
			b.ID, b.BlockID, b.BlockName, boolToInt(b.IsActive), b.CreatedAt.Unix()); err != nil {
			return fmt.Errorf("restoring block %q: %w", b.BlockID, err)
		}
	}
	for _, w := range snap.Workouts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO workouts (id, block_id, day, exercise_name, category, type,
			 sets, reps, weight, duration, rest, cues, guidance, resistance, description)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			w.ID, w.BlockID, w.Day, w.ExerciseName, string(w.Category), string(w.Type),
			w.Sets, w.Reps, w.Weight, w.Duration, w.Rest, w.Cues,
			w.Guidance, w.Resistance, w.Description); err != nil {
			return fmt.Errorf("restoring workout %d: %w", w.ID, err)
		}
	}
	for _, p := range snap.Progress {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO progress (id, workout_id, set_number, completed_reps, completed_weight,
			 completed_duration, completed_at, notes) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.WorkoutID, p.SetNumber, p.CompletedReps, p.CompletedWeight,
			p.CompletedDuration, p.CompletedAt.Unix(), p.Notes); err != nil {
			return fmt.Errorf("restoring progress %d: %w", p.ID, err)
		}
	}

	return tx.Commit()
}
