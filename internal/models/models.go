package models

import "time"

// Category classifies a workout's role within a training day.
type Category string

const (
	CategoryIntent     Category = "Intent"
	CategoryWarmup     Category = "Warm-up"
	CategoryPrimary    Category = "Primary"
	CategorySecondary  Category = "Secondary"
	CategoryAdditional Category = "Additional"
	CategoryCooldown   Category = "Cool-down"
)

// Valid reports whether the category is one of the known values.
// Imports accept unknown categories; this exists so callers can warn.
func (c Category) Valid() bool {
	switch c {
	case CategoryIntent, CategoryWarmup, CategoryPrimary,
		CategorySecondary, CategoryAdditional, CategoryCooldown:
		return true
	}
	return false
}

// ExerciseType describes how a workout is performed and logged.
type ExerciseType string

const (
	TypeWeights ExerciseType = "weights"
	TypeTime    ExerciseType = "time"
	TypeMindset ExerciseType = "mindset"
)

// Valid reports whether the exercise type is one of the known values.
func (t ExerciseType) Valid() bool {
	switch t {
	case TypeWeights, TypeTime, TypeMindset:
		return true
	}
	return false
}

// Block is a named training program segment (formerly "week") grouping workouts.
// At most one block is active at a time.
type Block struct {
	ID        int64     `json:"id"`
	BlockID   string    `json:"block_id"`
	BlockName string    `json:"block_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Workout is one exercise prescription within a block and day. Optional
// columns are pointers so that absent values stay absent through the
// store and the export (nil, never zero).
type Workout struct {
	ID           int64        `json:"id"`
	BlockID      string       `json:"block_id"`
	Day          string       `json:"day"`
	ExerciseName string       `json:"exercise_name"`
	Category     Category     `json:"category"`
	Type         ExerciseType `json:"type"`
	Sets         int          `json:"sets"`
	Reps         *int         `json:"reps,omitempty"`
	Weight       *float64     `json:"weight,omitempty"`
	Duration     *float64     `json:"duration,omitempty"`
	Rest         int          `json:"rest"`
	Cues         string       `json:"cues"`
	Guidance     *string      `json:"guidance,omitempty"`
	Resistance   *string      `json:"resistance,omitempty"`
	Description  *string      `json:"description,omitempty"`
}

// Progress is one logged performance for one set of one workout. Logging
// appends; multiple rows per (workout_id, set_number) are expected and kept.
type Progress struct {
	ID                int64     `json:"id"`
	WorkoutID         int64     `json:"workout_id"`
	SetNumber         int       `json:"set_number"`
	CompletedReps     *int      `json:"completed_reps,omitempty"`
	CompletedWeight   *float64  `json:"completed_weight,omitempty"`
	CompletedDuration *float64  `json:"completed_duration,omitempty"`
	CompletedAt       time.Time `json:"completed_at"`
	Notes             *string   `json:"notes,omitempty"`
}

// ProgressDetail is a progress row denormalized with its workout's
// metadata, used by history views.
type ProgressDetail struct {
	Progress
	BlockID      string       `json:"block_id"`
	Day          string       `json:"day"`
	ExerciseName string       `json:"exercise_name"`
	Category     Category     `json:"category"`
	Type         ExerciseType `json:"type"`
}
