package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"curator/internal/classify"
	"curator/internal/fileutil"
	"curator/internal/metadata"
)

// Output file names written by WriteManifest.
const (
	ManifestCSV  = "manifest.csv"
	ManifestJSON = "manifest.json"
	StatsJSON    = "stats.json"
)

var csvHeader = []string{
	"filename", "title", "year", "director", "language", "country", "user_tag",
	"tier", "decade", "subdirectory", "destination", "confidence", "reason", "error",
}

// OutputPaths are the files produced for one manifest.
type OutputPaths struct {
	CSV   string `json:"csv"`
	JSON  string `json:"json"`
	Stats string `json:"stats"`
}

// WriteManifest writes the CSV, JSON, and stats files into dir. Each file is
// replaced atomically.
func WriteManifest(dir string, m *Manifest) (OutputPaths, error) {
	paths := OutputPaths{
		CSV:   filepath.Join(dir, ManifestCSV),
		JSON:  filepath.Join(dir, ManifestJSON),
		Stats: filepath.Join(dir, StatsJSON),
	}
	if err := fileutil.WriteAtomic(paths.CSV, 0o644, m.WriteCSV); err != nil {
		return OutputPaths{}, fmt.Errorf("write %s: %w", ManifestCSV, err)
	}
	if err := writeJSON(paths.JSON, m); err != nil {
		return OutputPaths{}, fmt.Errorf("write %s: %w", ManifestJSON, err)
	}
	stats := struct {
		RunID   string                `json:"run_id"`
		Stats   classify.Snapshot     `json:"stats"`
		Sources []metadata.CacheStats `json:"sources,omitempty"`
	}{RunID: m.RunID, Stats: m.Stats, Sources: m.Sources}
	if err := writeJSON(paths.Stats, stats); err != nil {
		return OutputPaths{}, fmt.Errorf("write %s: %w", StatsJSON, err)
	}
	return paths, nil
}

func writeJSON(path string, v any) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	})
}

// WriteCSV renders one row per result in input order.
func (m *Manifest) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range m.Results {
		year := ""
		if r.Year > 0 {
			year = strconv.Itoa(r.Year)
		}
		row := []string{
			r.Filename, r.Title, year, r.Director, r.Language, r.Country, r.UserTag,
			string(r.Tier), r.Decade, r.Subdir, r.Destination,
			strconv.FormatFloat(r.Confidence, 'f', 2, 64), string(r.Reason), r.Error,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
