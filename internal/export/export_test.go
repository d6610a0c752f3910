package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/MarcoPoloResearchLab/gripmetrics/internal/kvstore"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/metrics"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/notices"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/records"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/training"
)

var exportInstant = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

type recordedNotice struct {
	message string
	kind    notices.Kind
}

type recordingNotifier struct {
	received []recordedNotice
}

func (r *recordingNotifier) Notify(message string, kind notices.Kind) {
	r.received = append(r.received, recordedNotice{message: message, kind: kind})
}

type memorySink struct {
	delivered []Artifact
	err       error
}

func (m *memorySink) Deliver(_ context.Context, artifact Artifact) error {
	if m.err != nil {
		return m.err
	}
	m.delivered = append(m.delivered, artifact)
	return nil
}

func newTestExporter(t *testing.T) (*Service, *records.Store, *recordingNotifier) {
	t.Helper()
	store, err := records.NewStore(kvstore.NewMemory(), nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	notifier := &recordingNotifier{}
	service, err := NewService(ServiceConfig{
		Store:    store,
		Clock:    func() time.Time { return exportInstant },
		Notifier: notifier,
	})
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	return service, store, notifier
}

func sampleWorkouts() []training.Workout {
	return []training.Workout{
		{
			ID:        "w1",
			CreatedAt: "2026-10-13T18:00:00.000Z",
			Date:      "2026-10-13",
			Athlete:   "Ana",
			Goal:      "Finger strength",
			Blocks: []training.Block{
				{ID: "b1", Category: training.CategoryWarmup, Qty: 1, IntensityType: training.IntensityRPE, IntensityValue: "4", Minutes: 10, Notes: "easy, jugs"},
				{ID: "b2", Category: training.CategoryMaxHang, Qty: 6, IntensityType: training.IntensityAddedKg, IntensityValue: "15", Minutes: 7.5, Notes: "said \"brutal\"\nstopped early"},
			},
		},
		{
			ID:        "w2",
			CreatedAt: "2026-10-14T08:00:00.000Z",
			Date:      "2026-10-14",
			Athlete:   "Bo",
			Goal:      "Rest day check-in",
			Blocks:    []training.Block{},
		},
	}
}

func TestEncodeCSVLayout(t *testing.T) {
	content, err := EncodeCSV(sampleWorkouts())
	if err != nil {
		t.Fatalf("encode csv: %v", err)
	}
	expected := strings.Join([]string{
		"workout_id,date,athlete,goal,block_id,category,qty,intensity_type,intensity_value,minutes,notes",
		`w1,2026-10-13,Ana,Finger strength,b1,warmup,1,rpe,4,10,"easy, jugs"`,
		"w1,2026-10-13,Ana,Finger strength,b2,max_hang,6,added_kg,15,7.5,\"said \"\"brutal\"\"\nstopped early\"",
		"w2,2026-10-14,Bo,Rest day check-in,,,,,,,",
	}, "\n")
	if string(content) != expected {
		t.Fatalf("unexpected csv:\n%s\nwant:\n%s", content, expected)
	}
}

func TestEncodeCSVRoundTripsThroughStandardParser(t *testing.T) {
	workouts := sampleWorkouts()
	content, err := EncodeCSV(workouts)
	if err != nil {
		t.Fatalf("encode csv: %v", err)
	}
	rows, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(rows))
	}
	for index, block := range workouts[0].Blocks {
		if got := rows[index+1][10]; got != block.Notes {
			t.Fatalf("row %d notes mismatch: %q vs %q", index+1, got, block.Notes)
		}
	}
}

func TestEscapeFieldQuotesOnlySeparators(t *testing.T) {
	testCases := map[string]string{
		"plain":         "plain",
		" leading":      " leading",
		"carriage\rret": "carriage\rret",
		"a,b":           `"a,b"`,
		`say "hi"`:      `"say ""hi"""`,
		"line\nbreak":   "\"line\nbreak\"",
		"":              "",
	}
	for input, expected := range testCases {
		if got := escapeField(input); got != expected {
			t.Fatalf("escapeField(%q) = %q, want %q", input, got, expected)
		}
	}
}

func TestEncodeCSVRejectsEmpty(t *testing.T) {
	if _, err := EncodeCSV(nil); !errors.Is(err, ErrNoWorkouts) {
		t.Fatalf("expected ErrNoWorkouts, got %v", err)
	}
}

func TestExportCSVWithNoWorkoutsDeliversNothing(t *testing.T) {
	service, _, notifier := newTestExporter(t)
	sink := &memorySink{}

	err := service.ExportCSV(context.Background(), sink)
	if !errors.Is(err, ErrNoWorkouts) {
		t.Fatalf("expected ErrNoWorkouts, got %v", err)
	}
	if len(sink.delivered) != 0 {
		t.Fatalf("expected no delivery, got %d", len(sink.delivered))
	}
	if len(notifier.received) != 1 || notifier.received[0] != (recordedNotice{MessageNoWorkouts, notices.KindError}) {
		t.Fatalf("unexpected notices %+v", notifier.received)
	}
}

func TestExportCSVDelivers(t *testing.T) {
	service, store, notifier := newTestExporter(t)
	if err := store.SaveWorkouts(context.Background(), sampleWorkouts()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	sink := &memorySink{}

	if err := service.ExportCSV(context.Background(), sink); err != nil {
		t.Fatalf("export csv: %v", err)
	}
	if len(sink.delivered) != 1 || sink.delivered[0].Filename != CSVFilename || sink.delivered[0].MIMEType != CSVMIMEType {
		t.Fatalf("unexpected delivery %+v", sink.delivered)
	}
	if notifier.received[0] != (recordedNotice{MessageCSVExported, notices.KindSuccess}) {
		t.Fatalf("unexpected notice %+v", notifier.received)
	}
}

func TestExportJSONEmptyStore(t *testing.T) {
	service, _, notifier := newTestExporter(t)
	sink := &memorySink{}

	if err := service.ExportJSON(context.Background(), sink); err != nil {
		t.Fatalf("export json: %v", err)
	}
	expected := "{\n" +
		"  \"exported\": \"2026-10-14T09:30:00.000Z\",\n" +
		"  \"workouts\": [],\n" +
		"  \"feedbacks\": [],\n" +
		"  \"evaluations\": []\n" +
		"}"
	if got := string(sink.delivered[0].Content); got != expected {
		t.Fatalf("unexpected json:\n%s", got)
	}
	if sink.delivered[0].Filename != JSONFilename || sink.delivered[0].MIMEType != JSONMIMEType {
		t.Fatalf("unexpected artifact metadata %+v", sink.delivered[0])
	}
	if notifier.received[0] != (recordedNotice{MessageJSONExported, notices.KindSuccess}) {
		t.Fatalf("unexpected notice %+v", notifier.received)
	}
}

func TestExportJSONIsReproducible(t *testing.T) {
	service, store, _ := newTestExporter(t)
	if err := store.SaveWorkouts(context.Background(), sampleWorkouts()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	first, err := service.JSONArtifact(context.Background())
	if err != nil {
		t.Fatalf("first export: %v", err)
	}
	second, err := service.JSONArtifact(context.Background())
	if err != nil {
		t.Fatalf("second export: %v", err)
	}
	if !bytes.Equal(first.Content, second.Content) {
		t.Fatalf("expected identical bytes")
	}
	if bytes.HasSuffix(first.Content, []byte("\n")) {
		t.Fatalf("expected no trailing newline")
	}
	if !bytes.Contains(first.Content, []byte(`"goal": "Finger strength"`)) {
		t.Fatalf("expected two-space pretty printing, got %s", first.Content)
	}
}

func TestJSONExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	source, sourceStore, _ := newTestExporter(t)
	workouts := sampleWorkouts()
	feedbacks := []training.Feedback{
		{ID: "f1", CreatedAt: "2026-10-14T10:00:00.000Z", WorkoutID: "w1", Status: training.StatusPartial, Pain: 3, RPE: 8, Comment: "<skin> & tips"},
	}
	evaluations := []training.Evaluation{
		{
			ID: "e1", CreatedAt: "2026-10-14T11:00:00.000Z", Date: "2026-10-14", Athlete: "Ana",
			Duration: 60, Attempts: 12, RPE: 7, Technique: 8, Focus: 9, Confidence: 8, Stress: 3, Motivation: 9,
			Scores: metrics.Scores{PhysicalLoad: 42, TechScore: 80, MentalScore: 68.3, SessionVolume: 72},
		},
	}
	if err := sourceStore.SaveWorkouts(ctx, workouts); err != nil {
		t.Fatalf("seed workouts: %v", err)
	}
	if err := sourceStore.SaveFeedbacks(ctx, feedbacks); err != nil {
		t.Fatalf("seed feedbacks: %v", err)
	}
	if err := sourceStore.SaveEvaluations(ctx, evaluations); err != nil {
		t.Fatalf("seed evaluations: %v", err)
	}

	artifact, err := source.JSONArtifact(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !bytes.Contains(artifact.Content, []byte("<skin> & tips")) {
		t.Fatalf("expected html characters to stay unescaped")
	}

	target, targetStore, notifier := newTestExporter(t)
	if _, err := target.Import(ctx, bytes.NewReader(artifact.Content)); err != nil {
		t.Fatalf("import: %v", err)
	}
	if !reflect.DeepEqual(targetStore.Workouts(ctx), workouts) {
		t.Fatalf("workouts differ after round trip: %+v", targetStore.Workouts(ctx))
	}
	if !reflect.DeepEqual(targetStore.Feedbacks(ctx), feedbacks) {
		t.Fatalf("feedbacks differ after round trip: %+v", targetStore.Feedbacks(ctx))
	}
	// Stored scores are carried through even when they disagree with a fresh calculation.
	if !reflect.DeepEqual(targetStore.Evaluations(ctx), evaluations) {
		t.Fatalf("evaluations differ after round trip: %+v", targetStore.Evaluations(ctx))
	}
	if notifier.received[0] != (recordedNotice{MessageImported, notices.KindSuccess}) {
		t.Fatalf("unexpected notice %+v", notifier.received)
	}
}

func TestImportRejectsMalformedDocument(t *testing.T) {
	service, store, notifier := newTestExporter(t)
	if err := store.SaveWorkouts(context.Background(), sampleWorkouts()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, err := service.Import(context.Background(), strings.NewReader("{not json"))
	if !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
	if len(store.Workouts(context.Background())) != 2 {
		t.Fatalf("expected existing data untouched")
	}
	if len(notifier.received) != 1 || notifier.received[0].kind != notices.KindError {
		t.Fatalf("expected error notice, got %+v", notifier.received)
	}
}

func TestDecodeDocumentFillsMissingCollections(t *testing.T) {
	document, err := DecodeDocument(strings.NewReader(`{"exported":"x","workouts":[{"id":"w9"}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(document.Workouts) != 1 || document.Feedbacks == nil || document.Evaluations == nil {
		t.Fatalf("unexpected document %+v", document)
	}
}

func TestDeliveryFailureIsReported(t *testing.T) {
	service, _, notifier := newTestExporter(t)
	sinkErr := errors.New("disk full")

	err := service.ExportJSON(context.Background(), &memorySink{err: sinkErr})
	if !errors.Is(err, sinkErr) {
		t.Fatalf("expected sink error, got %v", err)
	}
	if len(notifier.received) != 1 || notifier.received[0].kind != notices.KindError {
		t.Fatalf("expected error notice, got %+v", notifier.received)
	}
}

func TestDirectorySinkWritesFile(t *testing.T) {
	directory := filepath.Join(t.TempDir(), "exports")
	sink := DirectorySink{Directory: directory}
	artifact := Artifact{Filename: CSVFilename, MIMEType: CSVMIMEType, Content: []byte("a,b")}

	if err := sink.Deliver(context.Background(), artifact); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	written, err := os.ReadFile(sink.Path(CSVFilename))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(written) != "a,b" {
		t.Fatalf("unexpected file content %q", written)
	}

	if err := (DirectorySink{}).Deliver(context.Background(), artifact); err == nil {
		t.Fatalf("expected error without directory")
	}
}
