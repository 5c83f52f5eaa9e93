package perflog

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrEmptyHeader is returned when a file has no header row.
	ErrEmptyHeader = errors.New("capture log has no header row")
	// ErrNoFiles is returned when a load is requested with no files.
	ErrNoFiles = errors.New("no capture files selected")
)

// Separator is the field delimiter used by capture logs.
const Separator = ';'

const utf8BOM = "\ufeff"

// File is an uploaded or on-disk capture log kept verbatim so it can be
// re-exported later.
type File struct {
	Name string
	Data []byte
}

// Parse reads a capture log and returns its column-oriented dataset.
func Parse(name string, r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.Comma = Separator
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", name, ErrEmptyHeader)
		}
		return nil, fmt.Errorf("unable to read header of %s: %w", name, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	columns := make(map[Metric]int, len(metricDefs))
	present := make(map[Metric]bool, len(metricDefs))
	for _, def := range metricDefs {
		idx := columnIndex(header, def.header)
		columns[def.metric] = idx
		present[def.metric] = idx >= 0
	}

	series := make(map[Metric][]Value, len(metricDefs))
	rows := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to parse %s: %w", name, err)
		}
		for _, def := range metricDefs {
			idx := columns[def.metric]
			value := Value{}
			if idx >= 0 && idx < len(record) {
				value = Value{Text: record[idx], Defined: true}
			}
			series[def.metric] = append(series[def.metric], value)
		}
		rows++
	}

	// Keep every known metric at exactly rows entries, even for an empty body.
	for _, def := range metricDefs {
		if series[def.metric] == nil {
			series[def.metric] = make([]Value, 0)
		}
	}

	return &Dataset{
		name:    name,
		rows:    rows,
		series:  series,
		present: present,
	}, nil
}

// columnIndex finds the header position, preferring an exact match and
// falling back to a whitespace-insensitive one.
func columnIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	trimmed := strings.TrimSpace(name)
	for i, h := range header {
		if strings.TrimSpace(h) == trimmed {
			return i
		}
	}
	return -1
}

// Load parses every file in order and collects the results. Files are
// processed one at a time; the context is checked between files.
func Load(ctx context.Context, files []File) (*Collection, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	collection := NewCollection()
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ds, err := Parse(f.Name, bytes.NewReader(f.Data))
		if err != nil {
			return nil, err
		}
		collection.Add(ds)
	}
	return collection, nil
}

// ReadFiles reads capture logs from disk, naming each by its base file name.
func ReadFiles(paths []string) ([]File, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}
	files := make([]File, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read capture log %s: %w", path, err)
		}
		files = append(files, File{Name: filepath.Base(path), Data: data})
	}
	return files, nil
}
