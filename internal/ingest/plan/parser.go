package plan

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Perentie01/fitflow/internal/models"
)

// Candidate is a parsed-but-not-yet-persisted workout awaiting validation
// and user confirmation. Row is the 1-based source row number; the header
// counts as row 1, so the first data row is row 2.
type Candidate struct {
	Row     int            `json:"row"`
	Workout models.Workout `json:"workout"`
}

// ParseResult holds the candidates in file order plus the distinct block
// ids they reference, in order of first appearance.
type ParseResult struct {
	Candidates []Candidate `json:"candidates"`
	BlockIDs   []string    `json:"block_ids"`
}

// Parse turns raw plan text into candidates. The delimiter is decided once
// for the whole file: tab if the header line contains one, comma otherwise.
// Header names are matched case-insensitively; week_id is a legacy alias for
// block_id kept so pre-migration exports still import, and unknown columns
// are ignored. Data rows with fewer values than the header has columns are
// dropped silently. Parse performs no I/O beyond reading r and never touches
// the store.
func Parse(r io.Reader) (*ParseResult, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			lines = append(lines, scanner.Text())
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading plan text: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("plan file has no header row")
	}

	delim := ","
	if strings.Contains(lines[0], "\t") {
		delim = "\t"
	}

	headers := strings.Split(lines[0], delim)
	for i, h := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	result := &ParseResult{}
	seenBlocks := map[string]bool{}

	for i := 1; i < len(lines); i++ {
		values := strings.Split(lines[i], delim)
		if len(values) < len(headers) {
			continue
		}

		var w models.Workout
		w.Sets = 1
		for col, header := range headers {
			v := strings.TrimSpace(values[col])
			switch header {
			case "block_id", "week_id":
				w.BlockID = v
				if v != "" && !seenBlocks[v] {
					seenBlocks[v] = true
					result.BlockIDs = append(result.BlockIDs, v)
				}
			case "day":
				w.Day = v
			case "exercise_name":
				w.ExerciseName = v
			case "category":
				w.Category = models.Category(v)
			case "type":
				w.Type = models.ExerciseType(v)
			case "sets":
				if n, err := strconv.Atoi(v); err == nil && n >= 1 {
					w.Sets = n
				}
			case "reps":
				if n, err := strconv.Atoi(v); err == nil {
					w.Reps = &n
				}
			case "weight":
				// Free text like "Bodyweight" must stay absent, not become NaN or 0.
				if f, err := strconv.ParseFloat(v, 64); err == nil {
					w.Weight = &f
				}
			case "duration":
				if f, err := strconv.ParseFloat(v, 64); err == nil {
					w.Duration = &f
				}
			case "rest":
				if n, err := strconv.Atoi(v); err == nil && n >= 0 {
					w.Rest = n
				}
			case "cues":
				w.Cues = v
			case "guidance":
				if v != "" {
					w.Guidance = &v
				}
			case "resistance":
				if v != "" {
					w.Resistance = &v
				}
			case "description":
				if v != "" {
					w.Description = &v
				}
			}
			// Unrecognized headers fall through: their data is dropped.
		}

		result.Candidates = append(result.Candidates, Candidate{Row: i + 1, Workout: w})
	}

	return result, nil
}
