package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/benchscan/benchscan/internal/output"
)

func TestNew(t *testing.T) {
	cmd := New()
	if cmd == nil {
		t.Fatal("New() returned nil")
	}
	if cmd.Use != "benchscan" {
		t.Errorf("expected Use to be 'benchscan', got %q", cmd.Use)
	}
}

func TestNewCmdAnalyze(t *testing.T) {
	opts := &Options{}
	cmd := NewCmdAnalyze(opts)
	if cmd == nil {
		t.Fatal("NewCmdAnalyze() returned nil")
	}
	if cmd.Use != "analyze" {
		t.Errorf("expected Use to be 'analyze', got %q", cmd.Use)
	}
	for _, flag := range []string{"username", "dataset", "output", "format", "offline", "no-cache", "cache-expiry", "retries"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("analyze is missing the --%s flag", flag)
		}
	}
}

func TestNewCmdConfig(t *testing.T) {
	cmd := NewCmdConfig()
	if cmd == nil {
		t.Fatal("NewCmdConfig() returned nil")
	}
	if cmd.Use != "config" {
		t.Errorf("expected Use to be 'config', got %q", cmd.Use)
	}
}

func TestNewCmdCache(t *testing.T) {
	cmd := NewCmdCache()
	if cmd == nil {
		t.Fatal("NewCmdCache() returned nil")
	}
	if cmd.Use != "cache" {
		t.Errorf("expected Use to be 'cache', got %q", cmd.Use)
	}
}

func TestNewCmdVersion(t *testing.T) {
	cmd := NewCmdVersion()
	if cmd == nil {
		t.Fatal("NewCmdVersion() returned nil")
	}
	if cmd.Use != "version" {
		t.Errorf("expected Use to be 'version', got %q", cmd.Use)
	}
}

func TestSetVersionInfo(t *testing.T) {
	SetVersionInfo("1.0.0", "abc123", "2024-01-01")
	// Just verify it doesn't panic - version info is in package vars
}

func TestNewOptions(t *testing.T) {
	opts := NewOptions(
		WithUsername("alice"),
		WithFormat("json"),
		WithOffline(true),
		WithVerbosity(2),
		WithDatasets([]string{"a.json"}),
	)
	if opts.Username != "alice" || opts.Format != "json" || !opts.Offline {
		t.Errorf("opts = %+v", opts)
	}
	if opts.Verbosity != 2 || len(opts.Datasets) != 1 {
		t.Errorf("opts = %+v", opts)
	}
}

func TestNewFormatter(t *testing.T) {
	for _, format := range []string{"", "table", "json", "summary"} {
		if _, err := newFormatter(format); err != nil {
			t.Errorf("newFormatter(%q) returned error: %v", format, err)
		}
	}
	if _, err := newFormatter("xml"); err == nil {
		t.Error("newFormatter(xml) expected error")
	}
}

func TestAnalyzeOfflineEndToEnd(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	workDir := t.TempDir()
	chdir(t, workDir)

	datasetPath := filepath.Join(workDir, "swe-bench.json")
	content := `[{"instance_id": "acme__widget-42", "hints_text": "Thanks @carol for the fix"}]`
	if err := os.WriteFile(datasetPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	reportPath := filepath.Join(workDir, "report.json")

	cmd := New()
	cmd.SetArgs([]string{
		"analyze",
		"--offline",
		"--username", "carol",
		"--dataset", datasetPath,
		"--output", reportPath,
	})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	var report output.Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if report.Metadata.Username != "carol" || report.Metadata.Mode != "offline" {
		t.Errorf("metadata = %+v", report.Metadata)
	}
	if len(report.Results) != 1 || report.Results[0].InstanceID != "acme__widget-42" {
		t.Errorf("results = %+v", report.Results)
	}
}

func TestAnalyzeRequiresDataset(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	chdir(t, t.TempDir())

	cmd := New()
	cmd.SetArgs([]string{"analyze", "--offline", "--username", "carol"})
	if err := cmd.Execute(); err == nil {
		t.Error("Execute without datasets expected error")
	}
}

// chdir changes the working directory for the test and restores it on
// cleanup. testing.T.Chdir requires Go 1.24+, which this toolchain lacks.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}
