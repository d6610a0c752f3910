package training

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MarcoPoloResearchLab/gripmetrics/internal/ids"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/metrics"
	"go.uber.org/zap"
)

var (
	errMissingStore      = errors.New("record store is required")
	errMissingIDProvider = errors.New("id provider is required")
	errInvalidLimits     = errors.New("slider range minimum must be below maximum")
	noOpLogger           = zap.NewNop()
)

type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

func (e *ServiceError) Code() string {
	return e.code
}

const (
	opServiceNew      = "training.service.new"
	opSaveWorkout     = "training.save_workout"
	opDeleteWorkout   = "training.delete_workout"
	opSubmitFeedback  = "training.submit_feedback"
	opSaveEvaluation  = "training.save_evaluation"
	reasonStoreFailed = "store_failed"
	reasonIDFailed    = "id_generation_failed"
)

func newServiceError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &ServiceError{code: code, err: cause}
}

// RecordStore is the persistence the service appends to and reads from.
type RecordStore interface {
	Workouts(ctx context.Context) []Workout
	FindWorkout(ctx context.Context, id string) (Workout, bool)
	AppendWorkout(ctx context.Context, workout Workout) error
	DeleteWorkout(ctx context.Context, id string) (bool, error)
	Feedbacks(ctx context.Context) []Feedback
	AppendFeedback(ctx context.Context, feedback Feedback) error
	Evaluations(ctx context.Context) []Evaluation
	AppendEvaluation(ctx context.Context, evaluation Evaluation) error
}

type ServiceConfig struct {
	Store      RecordStore
	Clock      func() time.Time
	IDProvider ids.Provider
	Limits     SliderRange
	Logger     *zap.Logger
}

// Service validates presentation input and turns it into stored records.
type Service struct {
	store      RecordStore
	clock      func() time.Time
	idProvider ids.Provider
	limits     SliderRange
	logger     *zap.Logger
}

func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, newServiceError(opServiceNew, "missing_store", errMissingStore)
	}
	if cfg.IDProvider == nil {
		return nil, newServiceError(opServiceNew, "missing_id_provider", errMissingIDProvider)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	limits := cfg.Limits
	if limits == (SliderRange{}) {
		limits = DefaultSliderRange
	}
	if limits.Min >= limits.Max {
		return nil, newServiceError(opServiceNew, "invalid_limits", errInvalidLimits)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Service{
		store:      cfg.Store,
		clock:      clock,
		idProvider: cfg.IDProvider,
		limits:     limits,
		logger:     logger,
	}, nil
}

// Limits returns the slider range enforced on rated inputs.
func (s *Service) Limits() SliderRange {
	return s.limits
}

// NewDraft starts a workout draft whose blocks get ids from the service provider.
func (s *Service) NewDraft() *Draft {
	return NewDraft(s.idProvider)
}

// WorkoutHeader carries the workout-level form fields.
type WorkoutHeader struct {
	Date    string
	Athlete string
	Goal    string
}

// SaveWorkout appends a complete workout built from header and the draft's blocks,
// then resets the draft. Nothing is written when validation fails.
func (s *Service) SaveWorkout(ctx context.Context, header WorkoutHeader, draft *Draft) (Workout, error) {
	date := strings.TrimSpace(header.Date)
	athlete := strings.TrimSpace(header.Athlete)
	goal := strings.TrimSpace(header.Goal)
	if date == "" || athlete == "" || goal == "" {
		return Workout{}, newValidationError(CodeMissingFields, "Fill in date, athlete and goal!")
	}
	date, err := validateDate(date)
	if err != nil {
		return Workout{}, err
	}
	if draft == nil || draft.Len() == 0 {
		return Workout{}, newValidationError(CodeNoBlocks, "Add at least one block!")
	}

	id, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opSaveWorkout, reasonIDFailed, err)
		return Workout{}, newServiceError(opSaveWorkout, reasonIDFailed, err)
	}

	workout := Workout{
		ID:        id,
		CreatedAt: FormatTimestamp(s.clock()),
		Date:      date,
		Athlete:   athlete,
		Goal:      goal,
		Blocks:    draft.Blocks(),
	}
	if err := s.store.AppendWorkout(ctx, workout); err != nil {
		s.logError(opSaveWorkout, reasonStoreFailed, err, zap.String("workout_id", id))
		return Workout{}, newServiceError(opSaveWorkout, reasonStoreFailed, err)
	}

	draft.Reset()
	s.logger.Info("workout saved",
		zap.String("workout_id", id),
		zap.Int("blocks", len(workout.Blocks)))
	return workout, nil
}

// Workouts lists every stored workout in insertion order.
func (s *Service) Workouts(ctx context.Context) []Workout {
	return s.store.Workouts(ctx)
}

// Workout looks up one workout by id.
func (s *Service) Workout(ctx context.Context, id string) (Workout, bool) {
	return s.store.FindWorkout(ctx, strings.TrimSpace(id))
}

// DeleteWorkout removes the workout with id and reports whether it existed.
// Feedbacks that reference it are left in place.
func (s *Service) DeleteWorkout(ctx context.Context, id string) (bool, error) {
	removed, err := s.store.DeleteWorkout(ctx, strings.TrimSpace(id))
	if err != nil {
		s.logError(opDeleteWorkout, reasonStoreFailed, err, zap.String("workout_id", id))
		return false, newServiceError(opDeleteWorkout, reasonStoreFailed, err)
	}
	return removed, nil
}

// FeedbackInput is the raw athlete feedback form.
type FeedbackInput struct {
	WorkoutID string
	Status    string
	Pain      float64
	RPE       float64
	Comment   string
}

// SubmitFeedback validates and appends athlete feedback.
// The referenced workout does not have to exist.
func (s *Service) SubmitFeedback(ctx context.Context, input FeedbackInput) (Feedback, error) {
	workoutID := strings.TrimSpace(input.WorkoutID)
	if workoutID == "" {
		return Feedback{}, newValidationError(CodeMissingWorkout, "Select a workout!")
	}
	status, err := ParseFeedbackStatus(input.Status)
	if err != nil {
		return Feedback{}, err
	}
	if err := s.limits.check("pain", input.Pain); err != nil {
		return Feedback{}, err
	}
	if err := s.limits.check("rpe", input.RPE); err != nil {
		return Feedback{}, err
	}

	id, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opSubmitFeedback, reasonIDFailed, err)
		return Feedback{}, newServiceError(opSubmitFeedback, reasonIDFailed, err)
	}

	feedback := Feedback{
		ID:        id,
		CreatedAt: FormatTimestamp(s.clock()),
		WorkoutID: workoutID,
		Status:    status,
		Pain:      input.Pain,
		RPE:       input.RPE,
		Comment:   strings.TrimSpace(input.Comment),
	}
	if err := s.store.AppendFeedback(ctx, feedback); err != nil {
		s.logError(opSubmitFeedback, reasonStoreFailed, err, zap.String("workout_id", workoutID))
		return Feedback{}, newServiceError(opSubmitFeedback, reasonStoreFailed, err)
	}
	return feedback, nil
}

// Feedbacks lists every stored feedback in insertion order.
func (s *Service) Feedbacks(ctx context.Context) []Feedback {
	return s.store.Feedbacks(ctx)
}

// EvaluationInput is the raw evaluation form.
type EvaluationInput struct {
	Date        string
	Athlete     string
	Duration    float64
	Attempts    float64
	Conclusions string
	RPE         float64
	Technique   float64
	Focus       float64
	Confidence  float64
	Stress      float64
	Motivation  float64
}

// ValidateEvaluation checks input the way SaveEvaluation does, without writing anything.
func (s *Service) ValidateEvaluation(input EvaluationInput) error {
	if strings.TrimSpace(input.Date) == "" {
		return newValidationError(CodeMissingDate, "Enter the session date!")
	}
	if _, err := validateDate(input.Date); err != nil {
		return err
	}
	if !(input.Duration > 0) {
		return newValidationError(CodeInvalidDuration, "Enter the duration!")
	}
	if !(input.Attempts >= 0) {
		return newValidationError(CodeInvalidAttempts, "Attempts cannot be negative.")
	}
	sliders := []struct {
		name  string
		value float64
	}{
		{"rpe", input.RPE},
		{"technique", input.Technique},
		{"focus", input.Focus},
		{"confidence", input.Confidence},
		{"stress", input.Stress},
		{"motivation", input.Motivation},
	}
	for _, slider := range sliders {
		if err := s.limits.check(slider.name, slider.value); err != nil {
			return err
		}
	}
	return nil
}

// SaveEvaluation validates input, snapshots the derived scores and appends the evaluation.
func (s *Service) SaveEvaluation(ctx context.Context, input EvaluationInput) (Evaluation, error) {
	if err := s.ValidateEvaluation(input); err != nil {
		return Evaluation{}, err
	}

	id, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opSaveEvaluation, reasonIDFailed, err)
		return Evaluation{}, newServiceError(opSaveEvaluation, reasonIDFailed, err)
	}

	evaluation := Evaluation{
		ID:          id,
		CreatedAt:   FormatTimestamp(s.clock()),
		Date:        strings.TrimSpace(input.Date),
		Athlete:     strings.TrimSpace(input.Athlete),
		Duration:    input.Duration,
		Attempts:    input.Attempts,
		Conclusions: strings.TrimSpace(input.Conclusions),
		RPE:         input.RPE,
		Technique:   input.Technique,
		Focus:       input.Focus,
		Confidence:  input.Confidence,
		Stress:      input.Stress,
		Motivation:  input.Motivation,
	}
	evaluation.Scores = metrics.Calculate(evaluation.MetricsInput())
	if err := s.store.AppendEvaluation(ctx, evaluation); err != nil {
		s.logError(opSaveEvaluation, reasonStoreFailed, err, zap.String("evaluation_id", id))
		return Evaluation{}, newServiceError(opSaveEvaluation, reasonStoreFailed, err)
	}
	return evaluation, nil
}

// Evaluations lists every stored evaluation in insertion order.
func (s *Service) Evaluations(ctx context.Context) []Evaluation {
	return s.store.Evaluations(ctx)
}

func (s *Service) loggerOrDefault() *zap.Logger {
	if s == nil || s.logger == nil {
		return noOpLogger
	}
	return s.logger
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.loggerOrDefault().Error("training service error", attrs...)
}
