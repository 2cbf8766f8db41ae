package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/Perentie01/fitflow/internal/models"
)

const workoutColumns = `id, block_id, day, exercise_name, category, type,
	sets, reps, weight, duration, rest, cues, guidance, resistance, description`

// InsertWorkouts bulk-inserts workouts in file order. Surrogate ids are
// assigned by the store and never reused. Returns the number inserted.
func (db *DB) InsertWorkouts(ctx context.Context, workouts []models.Workout) (int64, error) {
	if len(workouts) == 0 {
		return 0, nil
	}

	// 14 params per row; stay well under SQLite's variable limit.
	const batchSize = 60
	var total int64

	for i := 0; i < len(workouts); i += batchSize {
		end := i + batchSize
		if end > len(workouts) {
			end = len(workouts)
		}
		n, err := db.insertWorkoutBatch(ctx, workouts[i:end])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (db *DB) insertWorkoutBatch(ctx context.Context, workouts []models.Workout) (int64, error) {
	query := `INSERT INTO workouts (block_id, day, exercise_name, category, type,
		sets, reps, weight, duration, rest, cues, guidance, resistance, description) VALUES `
	args := make([]any, 0, len(workouts)*14)
	valueStrings := make([]string, 0, len(workouts))

	for _, w := range workouts {
		valueStrings = append(valueStrings, "(?,?,?,?,?,?,?,?,?,?,?,?,?,?)")
		args = append(args, w.BlockID, w.Day, w.ExerciseName, string(w.Category), string(w.Type),
			w.Sets, w.Reps, w.Weight, w.Duration, w.Rest, w.Cues,
			w.Guidance, w.Resistance, w.Description)
	}

	query += strings.Join(valueStrings, ",")

	res, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting workouts: %w", err)
	}
	return res.RowsAffected()
}

// WorkoutsByBlock returns all workouts for a block in insertion order.
func (db *DB) WorkoutsByBlock(ctx context.Context, blockID string) ([]models.Workout, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE block_id = ? ORDER BY id ASC`, blockID)
	if err != nil {
		return nil, fmt.Errorf("querying workouts for block %q: %w", blockID, err)
	}
	defer rows.Close()
	return scanWorkouts(rows)
}

// WorkoutsByBlockAndDay returns the workouts for one day of a block.
func (db *DB) WorkoutsByBlockAndDay(ctx context.Context, blockID, day string) ([]models.Workout, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE block_id = ? AND day = ? ORDER BY id ASC`,
		blockID, day)
	if err != nil {
		return nil, fmt.Errorf("querying workouts for block %q day %q: %w", blockID, day, err)
	}
	defer rows.Close()
	return scanWorkouts(rows)
}

// DaysForBlock returns the distinct day labels of a block, sorted.
func (db *DB) DaysForBlock(ctx context.Context, blockID string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT DISTINCT day FROM workouts WHERE block_id = ? ORDER BY day ASC`, blockID)
	if err != nil {
		return nil, fmt.Errorf("querying days for block %q: %w", blockID, err)
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning day: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// DeleteWorkoutsByBlock removes all workouts for a block. Progress rows
// referencing them are left behind; only ClearAll removes everything.
func (db *DB) DeleteWorkoutsByBlock(ctx context.Context, blockID string) (int64, error) {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM workouts WHERE block_id = ?`, blockID)
	if err != nil {
		return 0, fmt.Errorf("deleting workouts for block %q: %w", blockID, err)
	}
	return res.RowsAffected()
}

func scanWorkouts(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]models.Workout, error) {
	var result []models.Workout
	for rows.Next() {
		var w models.Workout
		if err := rows.Scan(&w.ID, &w.BlockID, &w.Day, &w.ExerciseName, &w.Category, &w.Type,
			&w.Sets, &w.Reps, &w.Weight, &w.Duration, &w.Rest, &w.Cues,
			&w.Guidance, &w.Resistance, &w.Description); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}
