// Package vizfile exports the normalized yearly series consumed by the
// terrain visualization.
package vizfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/climate-anomaly-etl/internal/domain"
)

// Writer writes a domain.VizFrame as JSON. It implements pipeline.BatchLoader.
type Writer struct {
	path string
}

// NewWriter creates a writer targeting path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Name identifies the sink in logs and metrics.
func (w *Writer) Name() string { return "viz" }

// LoadBatch normalizes the batch records and replaces the file atomically.
func (w *Writer) LoadBatch(_ context.Context, batch domain.YearlyBatch) error {
	frame := domain.BuildVizFrame(batch.Records)
	data, err := json.MarshalIndent(frame, "", "  ")
	if err != nil {
		return fmt.Errorf("encode viz frame: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(w.path), "."+filepath.Base(w.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", w.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), w.path)
}
