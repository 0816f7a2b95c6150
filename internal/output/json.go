// Package output renders resolution results as JSON reports or
// terminal tables.
package output

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/benchscan/benchscan/internal/model"
	"github.com/benchscan/benchscan/internal/resolve"
)

// Metadata describes the run that produced a report.
type Metadata struct {
	Username       string  `json:"username"`
	Mode           string  `json:"mode"`
	AnalyzedAt     string  `json:"analyzed_at"`
	Entries        int     `json:"entries"`
	Matches        int     `json:"matches"`
	Skipped        int     `json:"skipped,omitempty"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	CacheHits      int     `json:"cache_hits"`
	CacheMisses    int     `json:"cache_misses"`
	CacheHitRate   float64 `json:"cache_hit_rate"`
}

// Report is the self-contained output of a resolution run.
type Report struct {
	Metadata Metadata                   `json:"metadata"`
	Results  []model.ContributionRecord `json:"results"`
}

// NewReport assembles a report from run output.
func NewReport(username string, records []model.ContributionRecord, stats *resolve.RunStats) Report {
	return Report{
		Metadata: Metadata{
			Username:       username,
			Mode:           stats.Mode,
			AnalyzedAt:     time.Now().Format(time.RFC3339),
			Entries:        stats.Entries,
			Matches:        stats.Matches,
			Skipped:        stats.Skipped,
			ElapsedSeconds: stats.Elapsed.Seconds(),
			CacheHits:      stats.CacheHits,
			CacheMisses:    stats.CacheMisses,
			CacheHitRate:   stats.HitRate(),
		},
		Results: records,
	}
}

// Formatter renders a report to a writer.
type Formatter interface {
	Format(report Report, w io.Writer) error
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Pretty bool
}

// Format outputs the report as JSON.
func (f *JSONFormatter) Format(report Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(report)
}

// WriteFile saves a report to path as indented JSON. The write goes
// through a temp file and rename so a crash never leaves a truncated
// report behind.
func WriteFile(path string, report Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
