// Package aggregate summarizes stored workouts, feedbacks and evaluations.
package aggregate

import (
	"fmt"
	"sort"

	"github.com/MarcoPoloResearchLab/gripmetrics/internal/metrics"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/training"
)

// Field selects what CountByCategory adds up per block.
type Field string

const (
	// FieldCount adds one per block.
	FieldCount Field = "count"
	// FieldMinutes adds each block's minutes.
	FieldMinutes Field = "minutes"
)

// ParseField validates a raw field selector.
func ParseField(raw string) (Field, error) {
	switch Field(raw) {
	case FieldCount, FieldMinutes:
		return Field(raw), nil
	default:
		return "", fmt.Errorf("aggregate: unknown field %q", raw)
	}
}

// Entry is one category's total.
type Entry struct {
	Category training.Category `json:"category"`
	Value    float64           `json:"value"`
	// Share is Value as a percentage of the largest value, rounded to one decimal.
	Share float64 `json:"share"`
}

// Distribution holds per-category totals and remembers the order in which
// categories were first seen.
type Distribution struct {
	order  []training.Category
	values map[training.Category]float64
}

// CountByCategory totals every block of every workout by category. Categories
// that never occur are absent. Labels are treated as opaque strings.
func CountByCategory(workouts []training.Workout, field Field) Distribution {
	distribution := Distribution{values: make(map[training.Category]float64)}
	for _, workout := range workouts {
		for _, block := range workout.Blocks {
			amount := 1.0
			if field == FieldMinutes {
				amount = block.Minutes
			}
			if _, seen := distribution.values[block.Category]; !seen {
				distribution.order = append(distribution.order, block.Category)
			}
			distribution.values[block.Category] += amount
		}
	}
	return distribution
}

// Values returns a copy of the category to total mapping.
func (d Distribution) Values() map[training.Category]float64 {
	values := make(map[training.Category]float64, len(d.values))
	for category, value := range d.values {
		values[category] = value
	}
	return values
}

// Len reports the number of distinct categories.
func (d Distribution) Len() int {
	return len(d.order)
}

// Total sums every category's value.
func (d Distribution) Total() float64 {
	total := 0.0
	for _, category := range d.order {
		total += d.values[category]
	}
	return total
}

// Sorted returns entries by descending value. Equal values keep first-seen order.
func (d Distribution) Sorted() []Entry {
	entries := make([]Entry, 0, len(d.order))
	for _, category := range d.order {
		entries = append(entries, Entry{Category: category, Value: d.values[category]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})
	if len(entries) == 0 {
		return entries
	}
	largest := entries[0].Value
	if largest == 0 {
		largest = 1
	}
	for index := range entries {
		entries[index].Share = metrics.Round1(entries[index].Value / largest * 100)
	}
	return entries
}

// Summary is the headline numbers shown on the data view.
type Summary struct {
	TotalWorkouts   int      `json:"totalWorkouts"`
	TotalBlocks     int      `json:"totalBlocks"`
	AveragePain     *float64 `json:"averagePain"`
	AverageRPE      *float64 `json:"averageRpe"`
	FeedbackCount   int      `json:"feedbackCount"`
	EvaluationCount int      `json:"evaluationCount"`
}

// Summarize counts records and averages feedback pain and RPE.
// The averages are nil when there is no feedback.
func Summarize(workouts []training.Workout, feedbacks []training.Feedback, evaluations []training.Evaluation) Summary {
	summary := Summary{
		TotalWorkouts:   len(workouts),
		FeedbackCount:   len(feedbacks),
		EvaluationCount: len(evaluations),
	}
	for _, workout := range workouts {
		summary.TotalBlocks += len(workout.Blocks)
	}
	if len(feedbacks) > 0 {
		var painSum, rpeSum float64
		for _, feedback := range feedbacks {
			painSum += feedback.Pain
			rpeSum += feedback.RPE
		}
		count := float64(len(feedbacks))
		averagePain := metrics.Round1(painSum / count)
		averageRPE := metrics.Round1(rpeSum / count)
		summary.AveragePain = &averagePain
		summary.AverageRPE = &averageRPE
	}
	return summary
}
