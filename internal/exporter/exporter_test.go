package exporter

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Perentie01/fitflow/internal/ingest/plan"
	"github.com/Perentie01/fitflow/internal/models"
	"github.com/Perentie01/fitflow/internal/storage"
)

func newTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "fitflow.db"))
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return db
}

func ptr[T any](v T) *T { return &v }

// seedBlock creates one block with two workouts and returns their ids.
func seedBlock(t *testing.T, db *storage.DB) []int64 {
	t.Helper()
	ctx := context.Background()
	if _, err := db.CreateBlock(ctx, "Week 1", "Week 1", true); err != nil {
		t.Fatalf("creating block: %v", err)
	}
	workouts := []models.Workout{
		{
			BlockID: "Week 1", Day: "Day 1", ExerciseName: "Squats",
			Category: models.CategoryPrimary, Type: models.TypeWeights,
			Sets: 3, Reps: ptr(10), Weight: ptr(102.5), Rest: 90,
			Cues: "Keep chest up", Guidance: ptr("70% 1RM"),
		},
		{
			BlockID: "Week 1", Day: "Day 1", ExerciseName: "Plank",
			Category: models.CategoryAdditional, Type: models.TypeTime,
			Sets: 1, Duration: ptr(1.5), Rest: 60,
		},
	}
	if _, err := db.InsertWorkouts(ctx, workouts); err != nil {
		t.Fatalf("inserting workouts: %v", err)
	}
	got, err := db.WorkoutsByBlock(ctx, "Week 1")
	if err != nil {
		t.Fatalf("querying workouts: %v", err)
	}
	ids := make([]int64, len(got))
	for i, w := range got {
		ids[i] = w.ID
	}
	return ids
}

// TestExportRowShape verifies the row-per-pair rule: a workout with two
// logged sets exports two rows, a workout with none exports one row with
// empty progress columns.
func TestExportRowShape(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ids := seedBlock(t, db)

	for set := 1; set <= 2; set++ {
		if _, err := db.SaveProgress(ctx, models.Progress{
			WorkoutID:     ids[0],
			SetNumber:     set,
			CompletedReps: ptr(10),
		}); err != nil {
			t.Fatalf("saving set %d: %v", set, err)
		}
	}

	file, err := Export(ctx, db, "Week 1")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if file.Name != "fitflow-Week 1.tsv" {
		t.Errorf("file name = %q", file.Name)
	}

	lines := strings.Split(strings.TrimRight(string(file.Data), "\n"), "\n")
	// Header, two Squats rows, one Plank row.
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4:\n%s", len(lines), file.Data)
	}

	cols := strings.Split(lines[0], "\t")
	if len(cols) != 20 {
		t.Fatalf("header columns = %d, want 20", len(cols))
	}
	if cols[0] != "block_id" || cols[13] != "description" || cols[14] != "set_number" {
		t.Errorf("unexpected header layout: %v", cols)
	}

	squats1 := strings.Split(lines[1], "\t")
	if squats1[2] != "Squats" || squats1[14] != "1" || squats1[15] != "10" {
		t.Errorf("first progress row = %v", squats1)
	}
	if squats1[7] != "102.5" {
		t.Errorf("weight = %q, want 102.5", squats1[7])
	}

	plank := strings.Split(lines[3], "\t")
	if plank[2] != "Plank" {
		t.Fatalf("last row = %v, want the Plank workout", plank)
	}
	for i := 14; i < 20; i++ {
		if plank[i] != "" {
			t.Errorf("progress column %d = %q, want empty for unlogged workout", i, plank[i])
		}
	}
	if plank[8] != "1.5" {
		t.Errorf("duration = %q, want 1.5", plank[8])
	}
	// Absent reps and weight must export as empty, not zero.
	if plank[6] != "" || plank[7] != "" {
		t.Errorf("absent metrics exported as %q/%q, want empty", plank[6], plank[7])
	}
}

// TestExportTimestampFormat verifies completed_at is RFC 3339 in UTC.
func TestExportTimestampFormat(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ids := seedBlock(t, db)

	if _, err := db.SaveProgress(ctx, models.Progress{WorkoutID: ids[0], SetNumber: 1}); err != nil {
		t.Fatalf("saving progress: %v", err)
	}

	file, err := Export(ctx, db, "Week 1")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(file.Data), "\n"), "\n")
	stamp := strings.Split(lines[1], "\t")[18]

	parsed, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		t.Fatalf("completed_at %q is not RFC 3339: %v", stamp, err)
	}
	if parsed.Location() != time.UTC {
		t.Errorf("completed_at %q not in UTC", stamp)
	}
}

// TestExportReimports verifies an export with no logged progress parses
// back into the same workouts: same fields, progress columns ignored.
func TestExportReimports(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedBlock(t, db)

	file, err := Export(ctx, db, "Week 1")
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	result, err := plan.Parse(bytes.NewReader(file.Data))
	if err != nil {
		t.Fatalf("parsing export: %v", err)
	}
	if len(result.Candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(result.Candidates))
	}
	errs, _ := plan.Validate(result.Candidates)
	if len(errs) != 0 {
		t.Fatalf("export does not validate: %v", errs)
	}

	squats := result.Candidates[0].Workout
	if squats.ExerciseName != "Squats" || squats.Reps == nil || *squats.Reps != 10 {
		t.Errorf("round-tripped workout = %+v", squats)
	}
	if squats.Weight == nil || *squats.Weight != 102.5 {
		t.Errorf("round-tripped weight = %v, want 102.5", squats.Weight)
	}
	if squats.Guidance == nil || *squats.Guidance != "70% 1RM" {
		t.Errorf("round-tripped guidance = %v", squats.Guidance)
	}

	plank := result.Candidates[1].Workout
	if plank.Weight != nil || plank.Reps != nil {
		t.Errorf("absent metrics reappeared: %+v", plank)
	}
}

// TestExportSanitizesFreeText verifies tabs and line breaks inside text
// fields cannot shift columns: the exported row still parses back with the
// right field count and content.
func TestExportSanitizesFreeText(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	if _, err := db.CreateBlock(ctx, "Week 1", "Week 1", true); err != nil {
		t.Fatalf("creating block: %v", err)
	}
	w := models.Workout{
		BlockID: "Week 1", Day: "Day 1", ExerciseName: "Squats",
		Category: models.CategoryPrimary, Type: models.TypeWeights,
		Sets: 3, Rest: 90,
		Cues:     "Brace\thard",
		Guidance: ptr("week 1: light\nweek 2: heavy"),
	}
	if _, err := db.InsertWorkouts(ctx, []models.Workout{w}); err != nil {
		t.Fatalf("inserting workout: %v", err)
	}

	file, err := Export(ctx, db, "Week 1")
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(file.Data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2 (embedded newline leaked)", len(lines))
	}
	cols := strings.Split(lines[1], "\t")
	if len(cols) != 20 {
		t.Fatalf("columns = %d, want 20 (embedded tab shifted fields)", len(cols))
	}

	result, err := plan.Parse(bytes.NewReader(file.Data))
	if err != nil {
		t.Fatalf("parsing export: %v", err)
	}
	got := result.Candidates[0].Workout
	if got.Cues != "Brace hard" {
		t.Errorf("cues = %q, want tab collapsed to space", got.Cues)
	}
	if got.Guidance == nil || *got.Guidance != "week 1: light week 2: heavy" {
		t.Errorf("guidance = %v, want newline collapsed to space", got.Guidance)
	}
}

// TestExportUnknownBlock verifies exporting a missing block is an error.
func TestExportUnknownBlock(t *testing.T) {
	db := newTestDB(t)

	_, err := Export(context.Background(), db, "missing")
	if !errors.Is(err, storage.ErrBlockNotFound) {
		t.Fatalf("error = %v, want ErrBlockNotFound", err)
	}
}

// TestExportEmptyBlock verifies a block with no workouts exports just the
// header.
func TestExportEmptyBlock(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	if _, err := db.CreateBlock(ctx, "Empty", "Empty", false); err != nil {
		t.Fatalf("creating block: %v", err)
	}

	file, err := Export(ctx, db, "Empty")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(file.Data), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want header only", len(lines))
	}
}
