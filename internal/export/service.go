package export

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/MarcoPoloResearchLab/gripmetrics/internal/notices"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/training"
	"go.uber.org/zap"
)

// Notice texts reported after each export.
const (
	MessageJSONExported = "JSON exported!"
	MessageCSVExported  = "CSV exported!"
	MessageNoWorkouts   = "No workouts to export."
	MessageImported     = "Data imported!"
)

// Collections is the store surface the exporter reads and the importer replaces.
type Collections interface {
	Workouts(ctx context.Context) []training.Workout
	Feedbacks(ctx context.Context) []training.Feedback
	Evaluations(ctx context.Context) []training.Evaluation
	SaveWorkouts(ctx context.Context, workouts []training.Workout) error
	SaveFeedbacks(ctx context.Context, feedbacks []training.Feedback) error
	SaveEvaluations(ctx context.Context, evaluations []training.Evaluation) error
}

type ServiceConfig struct {
	Store    Collections
	Clock    func() time.Time
	Notifier notices.Notifier
	Logger   *zap.Logger
}

// Service builds artifacts from the current store contents on every call.
type Service struct {
	store    Collections
	clock    func() time.Time
	notifier notices.Notifier
	logger   *zap.Logger
}

var errMissingStore = errors.New("export: store is required")

func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errMissingStore
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notices.Discard
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: cfg.Store, clock: clock, notifier: notifier, logger: logger}, nil
}

// Snapshot reads every collection into an export document stamped with the current time.
func (s *Service) Snapshot(ctx context.Context) Document {
	return Document{
		Exported:    training.FormatTimestamp(s.clock()),
		Workouts:    s.store.Workouts(ctx),
		Feedbacks:   s.store.Feedbacks(ctx),
		Evaluations: s.store.Evaluations(ctx),
	}
}

// JSONArtifact builds the full JSON export. It never refuses an empty store.
func (s *Service) JSONArtifact(ctx context.Context) (Artifact, error) {
	content, err := EncodeJSON(s.Snapshot(ctx))
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Filename: JSONFilename, MIMEType: JSONMIMEType, Content: content}, nil
}

// CSVArtifact builds the workout CSV, or returns ErrNoWorkouts.
func (s *Service) CSVArtifact(ctx context.Context) (Artifact, error) {
	content, err := EncodeCSV(s.store.Workouts(ctx))
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Filename: CSVFilename, MIMEType: CSVMIMEType, Content: content}, nil
}

// ExportJSON builds and delivers the JSON export, then reports the outcome.
func (s *Service) ExportJSON(ctx context.Context, sink Sink) error {
	artifact, err := s.JSONArtifact(ctx)
	if err != nil {
		return s.fail("json", err)
	}
	return s.deliver(ctx, sink, artifact, MessageJSONExported)
}

// ExportCSV builds and delivers the CSV export. With no workouts nothing is delivered.
func (s *Service) ExportCSV(ctx context.Context, sink Sink) error {
	artifact, err := s.CSVArtifact(ctx)
	if errors.Is(err, ErrNoWorkouts) {
		s.notifier.Notify(MessageNoWorkouts, notices.KindError)
		return err
	}
	if err != nil {
		return s.fail("csv", err)
	}
	return s.deliver(ctx, sink, artifact, MessageCSVExported)
}

// Import replaces all three collections with the contents of a JSON export.
func (s *Service) Import(ctx context.Context, r io.Reader) (Document, error) {
	document, err := DecodeDocument(r)
	if err != nil {
		s.logger.Warn("import rejected", zap.Error(err))
		s.notifier.Notify("Import failed: the file is not a GripMetrics export.", notices.KindError)
		return Document{}, err
	}
	if err := s.store.SaveWorkouts(ctx, document.Workouts); err != nil {
		return Document{}, s.fail("import", err)
	}
	if err := s.store.SaveFeedbacks(ctx, document.Feedbacks); err != nil {
		return Document{}, s.fail("import", err)
	}
	if err := s.store.SaveEvaluations(ctx, document.Evaluations); err != nil {
		return Document{}, s.fail("import", err)
	}
	s.logger.Info("export document imported",
		zap.Int("workouts", len(document.Workouts)),
		zap.Int("feedbacks", len(document.Feedbacks)),
		zap.Int("evaluations", len(document.Evaluations)))
	s.notifier.Notify(MessageImported, notices.KindSuccess)
	return document, nil
}

func (s *Service) deliver(ctx context.Context, sink Sink, artifact Artifact, message string) error {
	if sink == nil {
		return s.fail("deliver", errors.New("export: sink is required"))
	}
	if err := sink.Deliver(ctx, artifact); err != nil {
		return s.fail("deliver", err)
	}
	s.logger.Info("artifact delivered",
		zap.String("filename", artifact.Filename),
		zap.Int("bytes", len(artifact.Content)))
	s.notifier.Notify(message, notices.KindSuccess)
	return nil
}

func (s *Service) fail(stage string, err error) error {
	s.logger.Error("export failed", zap.String("stage", stage), zap.Error(err))
	label := "Export"
	if stage == "import" {
		label = "Import"
	}
	s.notifier.Notify(label+" failed: "+err.Error(), notices.KindError)
	return err
}
