// Package export packages an annotated comparison into a zip archive: the
// source capture logs renamed after their legend labels, the chart image,
// the comment, the summary table and a manifest describing the lot.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/mwiater/perfview/internal/perflog"
	"github.com/mwiater/perfview/internal/summary"
	"go.yaml.in/yaml/v3"
)

const (
	// DefaultArchiveName is used when the report has no name.
	DefaultArchiveName = "perfview-report.zip"

	ScreenshotEntry = "screenshot.png"
	CommentEntry    = "comment.txt"
	SummaryEntry    = "summary.csv"
	ManifestEntry   = "manifest.yaml"
)

// Bundle is everything that goes into one archive.
type Bundle struct {
	Files       []perflog.File
	LegendNames map[string]string
	ReportName  string
	Comment     string
	Metric      perflog.Metric
	Screenshot  []byte
	Summary     summary.Table
	Labels      summary.Labels
	CreatedAt   time.Time
}

// Manifest describes the archive contents.
type Manifest struct {
	ReportName string         `yaml:"reportName,omitempty"`
	CreatedAt  time.Time      `yaml:"createdAt"`
	Metric     string         `yaml:"metric,omitempty"`
	Files      []ManifestFile `yaml:"files"`
	Screenshot bool           `yaml:"screenshot"`
}

// ManifestFile maps an archived capture log back to its upload.
type ManifestFile struct {
	Source string `yaml:"source"`
	Entry  string `yaml:"entry"`
	Label  string `yaml:"label,omitempty"`
}

// ArchiveName returns the download name for a report.
func ArchiveName(reportName string) string {
	name := SanitizeName(reportName)
	if name == "" {
		return DefaultArchiveName
	}
	return name + ".zip"
}

// SanitizeName makes s safe to use as a file name on common file systems.
// It returns "" when nothing usable remains.
func SanitizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r < 0x20 || r == 0x7f:
			continue
		case strings.ContainsRune(`<>:"/\|?*`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), " .")
}

// EntryNames returns the archive name of every file, in order. A file with a
// legend label is renamed to "<label>.csv"; the rest keep their name.
// Collisions get a " (n)" suffix.
func EntryNames(files []perflog.File, legend map[string]string) []string {
	used := make(map[string]bool, len(files))
	reserved := map[string]bool{ScreenshotEntry: true, CommentEntry: true, SummaryEntry: true, ManifestEntry: true}
	out := make([]string, 0, len(files))
	for _, f := range files {
		name := SanitizeName(filepath.Base(f.Name))
		if label := SanitizeName(legend[f.Name]); label != "" {
			name = label + ".csv"
		}
		if name == "" {
			name = "capture.csv"
		}
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		candidate := name
		for n := 2; used[strings.ToLower(candidate)] || reserved[strings.ToLower(candidate)]; n++ {
			candidate = fmt.Sprintf("%s (%d)%s", stem, n, ext)
		}
		used[strings.ToLower(candidate)] = true
		out = append(out, candidate)
	}
	return out
}

// Write streams the archive for b to w and returns its manifest.
func Write(w io.Writer, b Bundle) (Manifest, error) {
	created := b.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	created = created.UTC().Truncate(time.Second)

	manifest := Manifest{
		ReportName: strings.TrimSpace(b.ReportName),
		CreatedAt:  created,
		Metric:     string(b.Metric),
		Screenshot: len(b.Screenshot) > 0,
	}

	zw := zip.NewWriter(w)
	add := func(name string, data []byte) error {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: created})
		if err != nil {
			return fmt.Errorf("unable to add %s to archive: %w", name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("unable to write %s to archive: %w", name, err)
		}
		return nil
	}

	entries := EntryNames(b.Files, b.LegendNames)
	for i, f := range b.Files {
		if err := add(entries[i], f.Data); err != nil {
			return Manifest{}, err
		}
		manifest.Files = append(manifest.Files, ManifestFile{
			Source: f.Name,
			Entry:  entries[i],
			Label:  strings.TrimSpace(b.LegendNames[f.Name]),
		})
	}

	if manifest.Screenshot {
		if err := add(ScreenshotEntry, b.Screenshot); err != nil {
			return Manifest{}, err
		}
	}
	if err := add(CommentEntry, []byte(b.Comment)); err != nil {
		return Manifest{}, err
	}

	var table bytes.Buffer
	if err := summary.WriteCSV(&table, b.Summary, b.Labels); err != nil {
		return Manifest{}, fmt.Errorf("unable to encode summary: %w", err)
	}
	if err := add(SummaryEntry, table.Bytes()); err != nil {
		return Manifest{}, err
	}

	meta, err := yaml.Marshal(manifest)
	if err != nil {
		return Manifest{}, fmt.Errorf("unable to encode manifest: %w", err)
	}
	if err := add(ManifestEntry, meta); err != nil {
		return Manifest{}, err
	}

	if err := zw.Close(); err != nil {
		return Manifest{}, fmt.Errorf("unable to finish archive: %w", err)
	}
	return manifest, nil
}

// WriteFile writes the archive into dir and returns its path.
func WriteFile(dir string, b Bundle) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("unable to create export directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, ArchiveName(b.ReportName))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("unable to create archive %s: %w", path, err)
	}
	if _, err := Write(file, b); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("unable to close archive %s: %w", path, err)
	}
	return path, nil
}
