package aggregate

import (
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/MarcoPoloResearchLab/gripmetrics/internal/training"
)

func blocks(pairs ...any) []training.Block {
	var result []training.Block
	for index := 0; index < len(pairs); index += 2 {
		result = append(result, training.Block{
			Category: pairs[index].(training.Category),
			Minutes:  pairs[index+1].(float64),
			Qty:      1,
		})
	}
	return result
}

func TestCountByCategoryCountsBlocks(t *testing.T) {
	workouts := []training.Workout{
		{ID: "w1", Blocks: blocks(training.CategoryCrimp, 10.0, training.CategoryPinch, 5.0, training.CategoryCrimp, 15.0)},
		{ID: "w2"},
		{ID: "w3", Blocks: blocks(training.CategorySloper, 12.5)},
	}

	counts := CountByCategory(workouts, FieldCount)
	wantCounts := map[training.Category]float64{
		training.CategoryCrimp:  2,
		training.CategoryPinch:  1,
		training.CategorySloper: 1,
	}
	if !reflect.DeepEqual(counts.Values(), wantCounts) {
		t.Fatalf("unexpected counts %v", counts.Values())
	}

	minutes := CountByCategory(workouts, FieldMinutes)
	wantMinutes := map[training.Category]float64{
		training.CategoryCrimp:  25,
		training.CategoryPinch:  5,
		training.CategorySloper: 12.5,
	}
	if !reflect.DeepEqual(minutes.Values(), wantMinutes) {
		t.Fatalf("unexpected minutes %v", minutes.Values())
	}
}

func TestCountByCategoryOmitsUnseenCategories(t *testing.T) {
	distribution := CountByCategory([]training.Workout{{ID: "w1", Blocks: blocks(training.CategoryWarmup, 0.0)}}, FieldMinutes)
	values := distribution.Values()
	if len(values) != 1 {
		t.Fatalf("expected only observed categories, got %v", values)
	}
	if value, ok := values[training.CategoryWarmup]; !ok || value != 0 {
		t.Fatalf("expected warmup with zero minutes, got %v", values)
	}
	if empty := CountByCategory(nil, FieldCount); empty.Len() != 0 || len(empty.Sorted()) != 0 {
		t.Fatalf("expected empty distribution for no workouts")
	}
}

func TestCountByCategoryTreatsLabelsAsOpaque(t *testing.T) {
	workouts := []training.Workout{{ID: "legacy", Blocks: []training.Block{{Category: "Preensão"}, {Category: "Preensão"}}}}
	values := CountByCategory(workouts, FieldCount).Values()
	if values["Preensão"] != 2 {
		t.Fatalf("expected unknown label to be counted, got %v", values)
	}
}

func TestSortedBreaksTiesByFirstSeen(t *testing.T) {
	workouts := []training.Workout{
		{ID: "w1", Blocks: blocks(training.CategoryPinch, 10.0, training.CategoryCrimp, 10.0)},
		{ID: "w2", Blocks: blocks(training.CategoryMobility, 30.0, training.CategorySloper, 10.0)},
	}

	got := CountByCategory(workouts, FieldMinutes).Sorted()
	want := []Entry{
		{Category: training.CategoryMobility, Value: 30, Share: 100},
		{Category: training.CategoryPinch, Value: 10, Share: 33.3},
		{Category: training.CategoryCrimp, Value: 10, Share: 33.3},
		{Category: training.CategorySloper, Value: 10, Share: 33.3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected sorted entries:\n got %+v\nwant %+v", got, want)
	}

	counts := CountByCategory(workouts, FieldCount).Sorted()
	order := make([]training.Category, 0, len(counts))
	for _, entry := range counts {
		order = append(order, entry.Category)
	}
	wantOrder := []training.Category{
		training.CategoryPinch, training.CategoryCrimp, training.CategoryMobility, training.CategorySloper,
	}
	if !reflect.DeepEqual(order, wantOrder) {
		t.Fatalf("expected all-equal counts in first-seen order, got %v", order)
	}
}

func TestSortedHandlesAllZeroValues(t *testing.T) {
	entries := CountByCategory([]training.Workout{{Blocks: blocks(training.CategoryWarmup, 0.0)}}, FieldMinutes).Sorted()
	if len(entries) != 1 || entries[0].Share != 0 {
		t.Fatalf("expected zero share without dividing by zero, got %+v", entries)
	}
}

func TestCountByCategoryTotalsMatchBlocks(t *testing.T) {
	source := rand.New(rand.NewPCG(1, 2))
	for trial := range 50 {
		var workouts []training.Workout
		blockCount := 0
		minuteSum := 0.0
		for range source.IntN(8) {
			workout := training.Workout{}
			for range source.IntN(6) {
				minutes := float64(source.IntN(120))
				workout.Blocks = append(workout.Blocks, training.Block{
					Category: training.Categories[source.IntN(len(training.Categories))],
					Minutes:  minutes,
				})
				blockCount++
				minuteSum += minutes
			}
			workouts = append(workouts, workout)
		}

		if got := CountByCategory(workouts, FieldCount).Total(); got != float64(blockCount) {
			t.Fatalf("trial %d: count total %v, want %d", trial, got, blockCount)
		}
		if got := CountByCategory(workouts, FieldMinutes).Total(); got != minuteSum {
			t.Fatalf("trial %d: minutes total %v, want %v", trial, got, minuteSum)
		}
	}
}

func TestParseField(t *testing.T) {
	if field, err := ParseField("minutes"); err != nil || field != FieldMinutes {
		t.Fatalf("expected minutes field, got %q %v", field, err)
	}
	if _, err := ParseField("qty"); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestSummarize(t *testing.T) {
	workouts := []training.Workout{
		{ID: "w1", Blocks: blocks(training.CategoryCrimp, 10.0, training.CategoryPinch, 5.0)},
		{ID: "w2", Blocks: blocks(training.CategorySloper, 10.0)},
	}
	feedbacks := []training.Feedback{
		{ID: "f1", Pain: 2, RPE: 7},
		{ID: "f2", Pain: 3, RPE: 8},
		{ID: "f3", Pain: 3, RPE: 8},
	}
	evaluations := []training.Evaluation{{ID: "e1"}}

	summary := Summarize(workouts, feedbacks, evaluations)
	if summary.TotalWorkouts != 2 || summary.TotalBlocks != 3 {
		t.Fatalf("unexpected totals %+v", summary)
	}
	if summary.FeedbackCount != 3 || summary.EvaluationCount != 1 {
		t.Fatalf("unexpected counts %+v", summary)
	}
	if summary.AveragePain == nil || *summary.AveragePain != 2.7 {
		t.Fatalf("expected average pain 2.7, got %v", summary.AveragePain)
	}
	if summary.AverageRPE == nil || *summary.AverageRPE != 7.7 {
		t.Fatalf("expected average rpe 7.7, got %v", summary.AverageRPE)
	}

	empty := Summarize(nil, nil, nil)
	if empty.AveragePain != nil || empty.AverageRPE != nil {
		t.Fatalf("expected no averages without feedback, got %+v", empty)
	}
}
