package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Perentie01/fitflow/internal/models"
)

// SaveProgress appends one logged set. completed_at is assigned by the store
// at write time; logging the same (workout, set) again adds a new row rather
// than replacing the old one. Returns the stored row.
func (db *DB) SaveProgress(ctx context.Context, p models.Progress) (*models.Progress, error) {
	p.CompletedAt = time.Now().UTC().Truncate(time.Second)
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO progress (workout_id, set_number, completed_reps, completed_weight,
		 completed_duration, completed_at, notes) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.WorkoutID, p.SetNumber, p.CompletedReps, p.CompletedWeight,
		p.CompletedDuration, p.CompletedAt.Unix(), p.Notes)
	if err != nil {
		return nil, fmt.Errorf("inserting progress: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading progress id: %w", err)
	}
	p.ID = id
	return &p, nil
}

// ProgressByWorkout returns all logged sets for one workout, oldest first.
func (db *DB) ProgressByWorkout(ctx context.Context, workoutID int64) ([]models.Progress, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, workout_id, set_number, completed_reps, completed_weight,
		 completed_duration, completed_at, notes
		 FROM progress WHERE workout_id = ? ORDER BY completed_at ASC, id ASC`,
		workoutID)
	if err != nil {
		return nil, fmt.Errorf("querying progress for workout %d: %w", workoutID, err)
	}
	defer rows.Close()
	return scanProgress(rows)
}

// ProgressByBlock returns all progress for a block's workouts. The join is
// two-step: workouts by block first, then progress by the resulting id set,
// batched to stay under SQLite's variable limit. Workout ids arrive in
// ascending order, so per-batch ordering yields a globally ordered result.
func (db *DB) ProgressByBlock(ctx context.Context, blockID string) ([]models.Progress, error) {
	workouts, err := db.WorkoutsByBlock(ctx, blockID)
	if err != nil {
		return nil, err
	}
	if len(workouts) == 0 {
		return nil, nil
	}

	const batchSize = 500
	var result []models.Progress

	for i := 0; i < len(workouts); i += batchSize {
		end := i + batchSize
		if end > len(workouts) {
			end = len(workouts)
		}

		batch := workouts[i:end]
		placeholders := make([]string, len(batch))
		args := make([]any, len(batch))
		for j, w := range batch {
			placeholders[j] = "?"
			args[j] = w.ID
		}

		rows, err := db.conn.QueryContext(ctx,
			`SELECT id, workout_id, set_number, completed_reps, completed_weight,
			 completed_duration, completed_at, notes
			 FROM progress WHERE workout_id IN (`+strings.Join(placeholders, ",")+`)
			 ORDER BY workout_id ASC, completed_at ASC, id ASC`,
			args...)
		if err != nil {
			return nil, fmt.Errorf("querying progress for block %q: %w", blockID, err)
		}
		entries, err := scanProgress(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}
		result = append(result, entries...)
	}

	return result, nil
}

// ProgressHistory returns a block's progress denormalized with workout
// metadata, newest first, for history views.
func (db *DB) ProgressHistory(ctx context.Context, blockID string) ([]models.ProgressDetail, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT p.id, p.workout_id, p.set_number, p.completed_reps, p.completed_weight,
		 p.completed_duration, p.completed_at, p.notes,
		 w.block_id, w.day, w.exercise_name, w.category, w.type
		 FROM progress p
		 JOIN workouts w ON w.id = p.workout_id
		 WHERE w.block_id = ?
		 ORDER BY p.completed_at DESC, p.id DESC`,
		blockID)
	if err != nil {
		return nil, fmt.Errorf("querying progress history for block %q: %w", blockID, err)
	}
	defer rows.Close()

	var result []models.ProgressDetail
	for rows.Next() {
		var d models.ProgressDetail
		var completed int64
		if err := rows.Scan(&d.ID, &d.WorkoutID, &d.SetNumber, &d.CompletedReps, &d.CompletedWeight,
			&d.CompletedDuration, &completed, &d.Notes,
			&d.BlockID, &d.Day, &d.ExerciseName, &d.Category, &d.Type); err != nil {
			return nil, fmt.Errorf("scanning progress history: %w", err)
		}
		d.CompletedAt = time.Unix(completed, 0).UTC()
		result = append(result, d)
	}
	return result, rows.Err()
}

func scanProgress(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]models.Progress, error) {
	var result []models.Progress
	for rows.Next() {
		var p models.Progress
		var completed int64
		if err := rows.Scan(&p.ID, &p.WorkoutID, &p.SetNumber, &p.CompletedReps,
			&p.CompletedWeight, &p.CompletedDuration, &completed, &p.Notes); err != nil {
			return nil, fmt.Errorf("scanning progress: %w", err)
		}
		p.CompletedAt = time.Unix(completed, 0).UTC()
		result = append(result, p)
	}
	return result, rows.Err()
}
