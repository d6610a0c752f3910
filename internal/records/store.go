// Package records persists the workout, feedback and evaluation collections.
//
// Each collection is a JSON array stored under its own substrate key. Every
// read re-parses the stored bytes; nothing is cached between calls. Writes
// overwrite the whole collection and nothing spans more than one key, so a
// second writer silently replaces the first.
package records

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/MarcoPoloResearchLab/gripmetrics/internal/kvstore"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/training"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Substrate keys, one per collection.
const (
	KeyWorkouts    = "gm_workouts"
	KeyFeedbacks   = "gm_feedbacks"
	KeyEvaluations = "gm_evaluations"
)

// Keys lists every collection key.
var Keys = []string{KeyWorkouts, KeyFeedbacks, KeyEvaluations}

var errMissingSubstrate = errors.New("records: substrate is required")

// Store reads and writes the three collections over a key-value substrate.
type Store struct {
	substrate kvstore.Substrate
	logger    *zap.Logger
}

// NewStore builds a Store. A nil logger disables logging.
func NewStore(substrate kvstore.Substrate, logger *zap.Logger) (*Store, error) {
	if substrate == nil {
		return nil, errMissingSubstrate
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{substrate: substrate, logger: logger}, nil
}

var _ training.RecordStore = (*Store)(nil)

// Workouts loads the workout collection. It never fails: absent or unreadable data yields an empty slice.
func (s *Store) Workouts(ctx context.Context) []training.Workout {
	return load[training.Workout](ctx, s, KeyWorkouts)
}

// SaveWorkouts replaces the workout collection.
func (s *Store) SaveWorkouts(ctx context.Context, workouts []training.Workout) error {
	return save(ctx, s, KeyWorkouts, workouts)
}

// Feedbacks loads the feedback collection.
func (s *Store) Feedbacks(ctx context.Context) []training.Feedback {
	return load[training.Feedback](ctx, s, KeyFeedbacks)
}

// SaveFeedbacks replaces the feedback collection.
func (s *Store) SaveFeedbacks(ctx context.Context, feedbacks []training.Feedback) error {
	return save(ctx, s, KeyFeedbacks, feedbacks)
}

// Evaluations loads the evaluation collection.
func (s *Store) Evaluations(ctx context.Context) []training.Evaluation {
	return load[training.Evaluation](ctx, s, KeyEvaluations)
}

// SaveEvaluations replaces the evaluation collection.
func (s *Store) SaveEvaluations(ctx context.Context, evaluations []training.Evaluation) error {
	return save(ctx, s, KeyEvaluations, evaluations)
}

// ClearAll removes every collection. It is irreversible; confirmation belongs to the caller.
func (s *Store) ClearAll(ctx context.Context) error {
	var err error
	for _, key := range Keys {
		err = multierr.Append(err, s.substrate.Delete(ctx, key))
	}
	if err != nil {
		s.logger.Error("clearing collections failed", zap.Error(err))
		return err
	}
	s.logger.Info("all collections cleared")
	return nil
}

// AppendWorkout adds a fully formed workout to the end of the collection.
func (s *Store) AppendWorkout(ctx context.Context, workout training.Workout) error {
	return s.SaveWorkouts(ctx, append(s.Workouts(ctx), workout))
}

// FindWorkout returns the workout with id.
func (s *Store) FindWorkout(ctx context.Context, id string) (training.Workout, bool) {
	for _, workout := range s.Workouts(ctx) {
		if workout.ID == id {
			return workout, true
		}
	}
	return training.Workout{}, false
}

// DeleteWorkout filters out the workout with id and re-saves the rest in order.
// The collection is re-saved even when nothing matched.
func (s *Store) DeleteWorkout(ctx context.Context, id string) (bool, error) {
	workouts := s.Workouts(ctx)
	kept := make([]training.Workout, 0, len(workouts))
	for _, workout := range workouts {
		if workout.ID != id {
			kept = append(kept, workout)
		}
	}
	if err := s.SaveWorkouts(ctx, kept); err != nil {
		return false, err
	}
	return len(kept) != len(workouts), nil
}

// AppendFeedback adds feedback to the end of the collection.
func (s *Store) AppendFeedback(ctx context.Context, feedback training.Feedback) error {
	return s.SaveFeedbacks(ctx, append(s.Feedbacks(ctx), feedback))
}

// AppendEvaluation adds an evaluation to the end of the collection.
func (s *Store) AppendEvaluation(ctx context.Context, evaluation training.Evaluation) error {
	return s.SaveEvaluations(ctx, append(s.Evaluations(ctx), evaluation))
}

func load[T any](ctx context.Context, s *Store, key string) []T {
	raw, found, err := s.substrate.Get(ctx, key)
	if err != nil {
		s.logger.Warn("collection read failed, treating as empty", zap.String("key", key), zap.Error(err))
		return []T{}
	}
	if !found || raw == "" {
		return []T{}
	}
	var records []T
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		s.logger.Warn("collection is malformed, treating as empty", zap.String("key", key), zap.Error(err))
		return []T{}
	}
	if records == nil {
		return []T{}
	}
	return records
}

func save[T any](ctx context.Context, s *Store, key string, records []T) error {
	if records == nil {
		records = []T{}
	}
	encoded, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return s.substrate.Set(ctx, key, string(encoded))
}
