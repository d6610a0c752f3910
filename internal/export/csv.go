package export

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/MarcoPoloResearchLab/gripmetrics/internal/training"
)

var (
	// ErrNoWorkouts is returned when a CSV export is requested with nothing to export.
	ErrNoWorkouts = errors.New("export: no workouts to export")
	// ErrInvalidDocument wraps JSON import parse failures.
	ErrInvalidDocument = errors.New("export: invalid document")
)

var csvHeader = []string{
	"workout_id", "date", "athlete", "goal", "block_id", "category",
	"qty", "intensity_type", "intensity_value", "minutes", "notes",
}

// EncodeCSV flattens workouts to one row per block. A workout without blocks
// still gets one row with the block columns left empty.
func EncodeCSV(workouts []training.Workout) ([]byte, error) {
	if len(workouts) == 0 {
		return nil, ErrNoWorkouts
	}
	rows := make([]string, 0, len(workouts)+1)
	rows = append(rows, joinRow(csvHeader))
	for _, workout := range workouts {
		prefix := []string{workout.ID, workout.Date, workout.Athlete, workout.Goal}
		if len(workout.Blocks) == 0 {
			rows = append(rows, joinRow(slices.Concat(prefix, make([]string, 7))))
			continue
		}
		for _, block := range workout.Blocks {
			rows = append(rows, joinRow(slices.Concat(prefix, []string{
				block.ID,
				string(block.Category),
				strconv.Itoa(block.Qty),
				string(block.IntensityType),
				block.IntensityValue,
				formatNumber(block.Minutes),
				block.Notes,
			})))
		}
	}
	return []byte(strings.Join(rows, "\n")), nil
}

func joinRow(fields []string) string {
	escaped := make([]string, len(fields))
	for i, field := range fields {
		escaped[i] = escapeField(field)
	}
	return strings.Join(escaped, ",")
}

// escapeField quotes only fields containing a comma, a quote or a newline.
func escapeField(field string) string {
	if !strings.ContainsAny(field, ",\"\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
