package storage

import (
	"path/filepath"
	"testing"

	"github.com/Perentie01/fitflow/internal/models"
)

// newTestDB opens a fresh store in a temp dir and migrates it to the
// current schema.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "fitflow.db"))
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return db
}

// testWorkout returns a minimal valid workout for the given block.
func testWorkout(blockID, day, name string) models.Workout {
	return models.Workout{
		BlockID:      blockID,
		Day:          day,
		ExerciseName: name,
		Category:     models.CategoryPrimary,
		Type:         models.TypeWeights,
		Sets:         3,
		Rest:         90,
	}
}

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }
