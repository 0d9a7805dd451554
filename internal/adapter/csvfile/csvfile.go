// Package csvfile reads and writes the monthly and yearly tables as
// comma-separated files with a header row.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/couchcryptid/climate-anomaly-etl/internal/domain"
)

// writeAtomic writes to a temp file beside path and renames it into place
// only when fn succeeds, so a failed run never leaves a partial file.
func writeAtomic(path string, fn func(w *csv.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := fn(w); err != nil {
		tmp.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}

// openInput opens path, mapping a missing file to domain.ErrMissingInput.
func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %w", domain.ErrMissingInput, err)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// table is a decoded CSV body with its header resolved to column indexes.
type table struct {
	source string
	cols   map[string]int
	rows   [][]string
	lines  []int // file line of each row
}

// readTable reads every record and checks that the header names each of
// required. Column order in the file does not matter.
func readTable(r io.Reader, source string, required []string) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	t := &table{source: source}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, &domain.ParseError{Source: source, Line: perr.Line, Err: perr.Err}
			}
			return nil, fmt.Errorf("read %s: %w", source, err)
		}
		line, _ := cr.FieldPos(0)

		if t.cols == nil {
			t.cols = make(map[string]int, len(record))
			for i, name := range record {
				t.cols[strings.TrimSpace(name)] = i
			}
			continue
		}
		t.rows = append(t.rows, record)
		t.lines = append(t.lines, line)
	}

	if t.cols == nil {
		return nil, &domain.ParseError{Source: source, Line: 1, Err: errors.New("missing header")}
	}
	for _, name := range required {
		if _, ok := t.cols[name]; !ok {
			return nil, &domain.ParseError{Source: source, Line: 1, Field: name, Err: errors.New("missing column")}
		}
	}
	return t, nil
}

func (t *table) text(i int, name string) (string, error) {
	row := t.rows[i]
	idx := t.cols[name]
	if idx >= len(row) || strings.TrimSpace(row[idx]) == "" {
		return "", &domain.ParseError{Source: t.source, Line: t.lines[i], Field: name, Err: errors.New("missing value")}
	}
	return strings.TrimSpace(row[idx]), nil
}

func (t *table) float(i int, name string) (float64, error) {
	s, err := t.text(i, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &domain.ParseError{Source: t.source, Line: t.lines[i], Field: name, Value: s, Err: err}
	}
	return v, nil
}

// optionalFloat is float for a nullable column: a blank cell or a short row
// yields nil.
func (t *table) optionalFloat(i int, name string) (*float64, error) {
	row := t.rows[i]
	idx := t.cols[name]
	if idx >= len(row) {
		return nil, nil
	}
	s := strings.TrimSpace(row[idx])
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &domain.ParseError{Source: t.source, Line: t.lines[i], Field: name, Value: s, Err: err}
	}
	return &v, nil
}

func (t *table) integer(i int, name string) (int, error) {
	s, err := t.text(i, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &domain.ParseError{Source: t.source, Line: t.lines[i], Field: name, Value: s, Err: err}
	}
	return v, nil
}

// FormatFloat renders v in the shortest form that parses back to the same
// value, always keeping a decimal point ("13.0", not "13").
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
