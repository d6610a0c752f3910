package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact file names and media types.
const (
	JSONFilename = "gripmetrics-data.json"
	JSONMIMEType = "application/json"
	CSVFilename  = "gripmetrics-workouts.csv"
	CSVMIMEType  = "text/csv"
)

// Artifact is a finished export ready for delivery.
type Artifact struct {
	Filename string
	MIMEType string
	Content  []byte
}

// Sink delivers an artifact to the user.
type Sink interface {
	Deliver(ctx context.Context, artifact Artifact) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, artifact Artifact) error

func (f SinkFunc) Deliver(ctx context.Context, artifact Artifact) error {
	return f(ctx, artifact)
}

var errMissingDirectory = errors.New("export: directory is required")

// DirectorySink writes artifacts as files into Directory.
type DirectorySink struct {
	Directory string
}

// Deliver writes the artifact, replacing any file with the same name.
func (s DirectorySink) Deliver(ctx context.Context, artifact Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Directory == "" {
		return errMissingDirectory
	}
	if err := os.MkdirAll(s.Directory, 0o755); err != nil {
		return fmt.Errorf("export: create directory: %w", err)
	}
	target := filepath.Join(s.Directory, filepath.Base(artifact.Filename))
	if err := os.WriteFile(target, artifact.Content, 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", target, err)
	}
	return nil
}

// Path returns where an artifact with filename lands.
func (s DirectorySink) Path(filename string) string {
	return filepath.Join(s.Directory, filepath.Base(filename))
}
