package exporter

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Perentie01/fitflow/internal/models"
	"github.com/Perentie01/fitflow/internal/storage"
)

// header is the fixed export column order. The first fourteen columns match
// the import vocabulary so an export re-imports cleanly; the progress
// columns are ignored on import.
var header = []string{
	"block_id", "day", "exercise_name", "category", "type",
	"sets", "reps", "weight", "duration", "rest", "cues",
	"guidance", "resistance", "description",
	"set_number", "completed_reps", "completed_weight", "completed_duration",
	"completed_at", "notes",
}

// File is a named downloadable export.
type File struct {
	Name string
	Data []byte
}

// Export serializes one block's workouts and their logged progress as
// tab-delimited text: one row per (workout, progress) pair, and a single
// row with empty progress columns for a workout that has no progress.
// TSV is the interchange format so commas in cues and descriptions survive.
func Export(ctx context.Context, db *storage.DB, blockID string) (*File, error) {
	if _, err := db.GetBlock(ctx, blockID); err != nil {
		return nil, err
	}

	workouts, err := db.WorkoutsByBlock(ctx, blockID)
	if err != nil {
		return nil, err
	}
	progress, err := db.ProgressByBlock(ctx, blockID)
	if err != nil {
		return nil, err
	}

	byWorkout := make(map[int64][]models.Progress)
	for _, p := range progress {
		byWorkout[p.WorkoutID] = append(byWorkout[p.WorkoutID], p)
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(header, "\t"))
	sb.WriteByte('\n')

	for _, w := range workouts {
		entries := byWorkout[w.ID]
		if len(entries) == 0 {
			writeRow(&sb, w, nil)
			continue
		}
		for i := range entries {
			writeRow(&sb, w, &entries[i])
		}
	}

	return &File{
		Name: fmt.Sprintf("fitflow-%s.tsv", blockID),
		Data: []byte(sb.String()),
	}, nil
}

// sanitizer keeps free-text values inside their column: a literal tab or
// line break would shift every following field on re-import.
var sanitizer = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

func writeRow(sb *strings.Builder, w models.Workout, p *models.Progress) {
	fields := []string{
		w.BlockID, w.Day, w.ExerciseName, string(w.Category), string(w.Type),
		strconv.Itoa(w.Sets), intPtr(w.Reps), floatPtr(w.Weight), floatPtr(w.Duration),
		strconv.Itoa(w.Rest), w.Cues,
		strPtr(w.Guidance), strPtr(w.Resistance), strPtr(w.Description),
	}

	if p == nil {
		fields = append(fields, "", "", "", "", "", "")
	} else {
		fields = append(fields,
			strconv.Itoa(p.SetNumber),
			intPtr(p.CompletedReps), floatPtr(p.CompletedWeight), floatPtr(p.CompletedDuration),
			p.CompletedAt.UTC().Format(time.RFC3339),
			strPtr(p.Notes),
		)
	}

	for i, f := range fields {
		fields[i] = sanitizer.Replace(f)
	}

	sb.WriteString(strings.Join(fields, "\t"))
	sb.WriteByte('\n')
}

func intPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func strPtr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
