package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Perentie01/fitflow/internal/models"
)

// TestMigrateFresh verifies a new store migrates to the latest schema and
// accepts rows that use the newest columns.
func TestMigrateFresh(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.CreateBlock(ctx, "Block 1", "Block 1", true); err != nil {
		t.Fatalf("creating block: %v", err)
	}

	w := testWorkout("Block 1", "Day 1", "Squats")
	w.Guidance = strPtr("70% 1RM")
	w.Resistance = strPtr("Red band")
	w.Description = strPtr("Barbell back squat")
	if _, err := db.InsertWorkouts(ctx, []models.Workout{w}); err != nil {
		t.Fatalf("inserting workout: %v", err)
	}

	got, err := db.WorkoutsByBlock(ctx, "Block 1")
	if err != nil {
		t.Fatalf("querying workouts: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("workouts = %d, want 1", len(got))
	}
	if got[0].Guidance == nil || *got[0].Guidance != "70% 1RM" {
		t.Errorf("guidance = %v, want 70%% 1RM", got[0].Guidance)
	}
}

// TestMigrateWeeksToBlocks verifies the version 1 to version 2 upgrade:
// every week row becomes a block with block_id = block_name = week_id, the
// active flag carries over, and workouts reference block_id afterwards.
func TestMigrateWeeksToBlocks(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "fitflow.db"))
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.MigrateTo(1); err != nil {
		t.Fatalf("migrating to version 1: %v", err)
	}

	// Seed the historical schema directly.
	seed := []string{
		`INSERT INTO weeks (week_id, week_number, year, is_active) VALUES ('2024-W01', 1, 2024, 0)`,
		`INSERT INTO weeks (week_id, week_number, year, is_active) VALUES ('2024-W02', 2, 2024, 1)`,
		`INSERT INTO workouts (week_id, day, exercise_name, category, type, sets, rest, cues)
		 VALUES ('2024-W01', 'Day 1', 'Squats', 'Primary', 'weights', 3, 90, '')`,
		`INSERT INTO workouts (week_id, day, exercise_name, category, type, sets, rest, cues)
		 VALUES ('2024-W02', 'Day 1', 'Deadlifts', 'Primary', 'weights', 3, 120, '')`,
	}
	for _, stmt := range seed {
		if _, err := db.conn.Exec(stmt); err != nil {
			t.Fatalf("seeding version 1 schema: %v", err)
		}
	}

	if err := db.Migrate(); err != nil {
		t.Fatalf("migrating to latest: %v", err)
	}

	ctx := context.Background()
	blocks, err := db.ListBlocks(ctx)
	if err != nil {
		t.Fatalf("listing blocks: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(blocks))
	}
	for _, b := range blocks {
		if b.BlockName != b.BlockID {
			t.Errorf("block %q: name = %q, want same as id", b.BlockID, b.BlockName)
		}
		if b.CreatedAt.IsZero() {
			t.Errorf("block %q: created_at not set by upgrade", b.BlockID)
		}
	}

	active, err := db.ActiveBlock(ctx)
	if err != nil {
		t.Fatalf("querying active block: %v", err)
	}
	if active == nil || active.BlockID != "2024-W02" {
		t.Fatalf("active block = %v, want 2024-W02", active)
	}

	// Workouts must be reachable through the renamed column.
	workouts, err := db.WorkoutsByBlock(ctx, "2024-W01")
	if err != nil {
		t.Fatalf("querying migrated workouts: %v", err)
	}
	if len(workouts) != 1 || workouts[0].ExerciseName != "Squats" {
		t.Fatalf("migrated workouts = %+v, want one Squats row", workouts)
	}

	// The weeks table must be gone.
	var name string
	err = db.conn.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'weeks'`).Scan(&name)
	if err == nil {
		t.Error("weeks table still exists after migration")
	}
}

// TestOpenAppliesPragmas verifies the connection pragmas actually take
// effect: the store must run in WAL mode with a busy timeout, not silently
// fall back to the rollback journal.
func TestOpenAppliesPragmas(t *testing.T) {
	db := newTestDB(t)

	var mode string
	if err := db.conn.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("querying journal_mode: %v", err)
	}
	if !strings.EqualFold(mode, "wal") {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	var timeout int
	if err := db.conn.QueryRow(`PRAGMA busy_timeout`).Scan(&timeout); err != nil {
		t.Fatalf("querying busy_timeout: %v", err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", timeout)
	}
}

// TestMigrateIdempotent verifies running Migrate on an up-to-date store is
// a no-op rather than an error.
func TestMigrateIdempotent(t *testing.T) {
	db := newTestDB(t)
	if err := db.Migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}
