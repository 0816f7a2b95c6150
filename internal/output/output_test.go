package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benchscan/benchscan/internal/model"
	"github.com/benchscan/benchscan/internal/resolve"
)

func sampleReport() Report {
	stats := &resolve.RunStats{
		Mode:        "online",
		Entries:     3,
		Matches:     2,
		CacheHits:   1,
		CacheMisses: 2,
		Elapsed:     1500 * time.Millisecond,
	}
	records := []model.ContributionRecord{
		{
			InstanceID: "acme__widget-42",
			Repo:       "acme/widget",
			Categories: []model.Category{model.CategoryAuthor, model.CategoryPRAuthor},
			Title:      "Fix widget crash",
			URL:        "https://github.com/acme/widget/pull/42",
			CreatedAt:  "2024-01-02T15:04:05Z",
			Dataset:    "swe-bench",
		},
		{
			InstanceID: "acme__widget-7",
			Repo:       "acme/widget",
			Categories: []model.Category{model.CategoryMentionedInHints},
			Title:      "widget crashes on empty input",
			URL:        "https://github.com/acme/widget/issues/7",
			CreatedAt:  "2023-11-20T08:00:00Z",
			Dataset:    "swe-bench",
		},
	}
	return NewReport("alice", records, stats)
}

func TestNewReportMetadata(t *testing.T) {
	report := sampleReport()
	m := report.Metadata

	if m.Username != "alice" || m.Mode != "online" {
		t.Errorf("metadata = %+v", m)
	}
	if m.Entries != 3 || m.Matches != 2 {
		t.Errorf("metadata counts = %+v", m)
	}
	if m.CacheHitRate < 33.2 || m.CacheHitRate > 33.4 {
		t.Errorf("hit rate = %v, want ~33.3", m.CacheHitRate)
	}
	if m.ElapsedSeconds != 1.5 {
		t.Errorf("elapsed = %v, want 1.5", m.ElapsedSeconds)
	}
	if m.AnalyzedAt == "" {
		t.Error("analyzed_at is empty")
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &JSONFormatter{Pretty: true}
	if err := f.Format(sampleReport(), &buf); err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Results) != 2 {
		t.Errorf("decoded %d results, want 2", len(decoded.Results))
	}
	if decoded.Results[0].Categories[0] != model.CategoryAuthor {
		t.Errorf("results[0].Categories = %v", decoded.Results[0].Categories)
	}
	if !strings.Contains(buf.String(), `"contribution_types"`) {
		t.Error("output missing contribution_types field")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	if err := WriteFile(path, sampleReport()); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("file is not valid JSON: %v", err)
	}
	if decoded.Metadata.Username != "alice" {
		t.Errorf("decoded metadata = %+v", decoded.Metadata)
	}

	// No temp file left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("output dir has %d files, want 1", len(entries))
	}
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}
	if err := f.Format(sampleReport(), &buf); err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Repository", "acme/widget", "#42", "Fix widget crash", "2024-01-02"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestTableFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	report := NewReport("alice", nil, &resolve.RunStats{Mode: "online"})
	if err := (&TableFormatter{}).Format(report, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No contributions found") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestSummaryFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &SummaryFormatter{}
	if err := f.Format(sampleReport(), &buf); err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Contribution summary for alice",
		"Contributions found: 2",
		"By contribution type:",
		"PR Author",
		"Mentioned in Hints",
		"By repository:",
		"1. acme/widget - Author, PR Author",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary output missing %q:\n%s", want, out)
		}
	}
}

func TestTruncateToWidth(t *testing.T) {
	s, w := truncateToWidth("short", 10)
	if s != "short" || w != 5 {
		t.Errorf("truncateToWidth(short) = (%q, %d)", s, w)
	}

	long := strings.Repeat("x", 50)
	s, w = truncateToWidth(long, 10)
	if w != 10 || !strings.HasSuffix(s, "...") {
		t.Errorf("truncateToWidth(long) = (%q, %d)", s, w)
	}
	if displayWidth(s) > 10 {
		t.Errorf("truncated width = %d, want <= 10", displayWidth(s))
	}
}

func TestDisplayWidthStripsAnsi(t *testing.T) {
	if got := displayWidth("\x1b[31mred\x1b[0m"); got != 3 {
		t.Errorf("displayWidth = %d, want 3", got)
	}
}
