package plan

import (
	"fmt"

	"github.com/Perentie01/fitflow/internal/models"
)

// previewSize is how many candidates the confirmation view shows.
const previewSize = 5

// requiredFields are the columns every row must fill, checked in this order.
var requiredFields = []struct {
	name string
	get  func(models.Workout) string
}{
	{"block_id", func(w models.Workout) string { return w.BlockID }},
	{"day", func(w models.Workout) string { return w.Day }},
	{"exercise_name", func(w models.Workout) string { return w.ExerciseName }},
	{"category", func(w models.Workout) string { return string(w.Category) }},
	{"type", func(w models.Workout) string { return string(w.Type) }},
}

// Validate checks each candidate for required-field presence and returns one
// error string per missing field, keyed to the candidate's source row number.
// The preview (first 5 candidates) is returned unconditionally so callers can
// show it alongside the errors. Only presence is checked: category and type
// values outside the known enums pass through unchanged.
func Validate(candidates []Candidate) (errs []string, preview []Candidate) {
	for _, c := range candidates {
		for _, f := range requiredFields {
			if f.get(c.Workout) == "" {
				errs = append(errs, fmt.Sprintf("Row %d: Missing %s", c.Row, f.name))
			}
		}
	}

	preview = candidates
	if len(preview) > previewSize {
		preview = preview[:previewSize]
	}
	return errs, preview
}
