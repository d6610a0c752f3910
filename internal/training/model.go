package training

import (
	"time"

	"github.com/MarcoPoloResearchLab/gripmetrics/internal/metrics"
)

// TimestampLayout renders createdAt values as UTC ISO-8601 with milliseconds.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Block is one exercise unit inside a workout.
type Block struct {
	ID             string        `json:"id"`
	Category       Category      `json:"category"`
	Qty            int           `json:"qty"`
	IntensityType  IntensityType `json:"intensityType"`
	IntensityValue string        `json:"intensityValue"`
	Minutes        float64       `json:"minutes"`
	Notes          string        `json:"notes"`
}

// Workout is a coach-authored session plan.
type Workout struct {
	ID        string  `json:"id"`
	CreatedAt string  `json:"createdAt"`
	Date      string  `json:"date"`
	Athlete   string  `json:"athlete"`
	Goal      string  `json:"goal"`
	Blocks    []Block `json:"blocks"`
}

// Feedback is an athlete response to a workout. WorkoutID is not checked
// against stored workouts; dangling references are expected.
type Feedback struct {
	ID        string         `json:"id"`
	CreatedAt string         `json:"createdAt"`
	WorkoutID string         `json:"workoutId"`
	Status    FeedbackStatus `json:"status"`
	Pain      float64        `json:"pain"`
	RPE       float64        `json:"rpe"`
	Comment   string         `json:"comment"`
}

// Evaluation is a scored assessment session. The embedded scores are
// computed once at save time and are never recomputed afterwards.
type Evaluation struct {
	ID          string  `json:"id"`
	CreatedAt   string  `json:"createdAt"`
	Date        string  `json:"date"`
	Athlete     string  `json:"athlete"`
	Duration    float64 `json:"duration"`
	Attempts    float64 `json:"attempts"`
	Conclusions string  `json:"conclusions"`
	RPE         float64 `json:"rpe"`
	Technique   float64 `json:"technique"`
	Focus       float64 `json:"focus"`
	Confidence  float64 `json:"confidence"`
	Stress      float64 `json:"stress"`
	Motivation  float64 `json:"motivation"`
	metrics.Scores
}

// MetricsInput returns the raw values the scores were derived from.
func (e Evaluation) MetricsInput() metrics.Input {
	return metrics.Input{
		RPE:        e.RPE,
		Duration:   e.Duration,
		Technique:  e.Technique,
		Focus:      e.Focus,
		Confidence: e.Confidence,
		Stress:     e.Stress,
		Motivation: e.Motivation,
		Attempts:   e.Attempts,
	}
}
