package training

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type sequenceIDProvider struct {
	next int
	err  error
}

func (p *sequenceIDProvider) NewID() (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.next++
	return fmt.Sprintf("id-%03d", p.next), nil
}

type memoryStore struct {
	workouts    []Workout
	feedbacks   []Feedback
	evaluations []Evaluation
	failWrites  bool
}

var errStoreUnavailable = errors.New("store unavailable")

func (m *memoryStore) Workouts(context.Context) []Workout {
	return append([]Workout{}, m.workouts...)
}

func (m *memoryStore) FindWorkout(_ context.Context, id string) (Workout, bool) {
	for _, workout := range m.workouts {
		if workout.ID == id {
			return workout, true
		}
	}
	return Workout{}, false
}

func (m *memoryStore) AppendWorkout(_ context.Context, workout Workout) error {
	if m.failWrites {
		return errStoreUnavailable
	}
	m.workouts = append(m.workouts, workout)
	return nil
}

func (m *memoryStore) DeleteWorkout(_ context.Context, id string) (bool, error) {
	if m.failWrites {
		return false, errStoreUnavailable
	}
	kept := m.workouts[:0:0]
	for _, workout := range m.workouts {
		if workout.ID != id {
			kept = append(kept, workout)
		}
	}
	removed := len(kept) != len(m.workouts)
	m.workouts = kept
	return removed, nil
}

func (m *memoryStore) Feedbacks(context.Context) []Feedback {
	return append([]Feedback{}, m.feedbacks...)
}

func (m *memoryStore) AppendFeedback(_ context.Context, feedback Feedback) error {
	if m.failWrites {
		return errStoreUnavailable
	}
	m.feedbacks = append(m.feedbacks, feedback)
	return nil
}

func (m *memoryStore) Evaluations(context.Context) []Evaluation {
	return append([]Evaluation{}, m.evaluations...)
}

func (m *memoryStore) AppendEvaluation(_ context.Context, evaluation Evaluation) error {
	if m.failWrites {
		return errStoreUnavailable
	}
	m.evaluations = append(m.evaluations, evaluation)
	return nil
}

var fixedNow = time.Date(2026, 10, 14, 9, 30, 0, 125_000_000, time.UTC)

func newTestService(t *testing.T, store *memoryStore) *Service {
	t.Helper()
	service, err := NewService(ServiceConfig{
		Store:      store,
		Clock:      func() time.Time { return fixedNow },
		IDProvider: &sequenceIDProvider{},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service
}
