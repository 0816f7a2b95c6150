package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benchscan/benchscan/internal/constants"
)

func TestDefaults(t *testing.T) {
	cfg := &Config{}

	if !cfg.CacheEnabled() {
		t.Error("CacheEnabled = false, want true by default")
	}
	if cfg.CacheDir() != "" {
		t.Errorf("CacheDir = %q, want empty", cfg.CacheDir())
	}
	if got, err := cfg.CacheExpiry(); err != nil || got != constants.DefaultCacheExpiry {
		t.Errorf("CacheExpiry = (%v, %v)", got, err)
	}
	if got, err := cfg.RequestTimeout(); err != nil || got != constants.DefaultRequestTimeout {
		t.Errorf("RequestTimeout = (%v, %v)", got, err)
	}
	if cfg.Retries() != constants.DefaultRetries {
		t.Errorf("Retries = %d", cfg.Retries())
	}
}

func TestOverrides(t *testing.T) {
	off := false
	retries := 5
	cfg := &Config{
		Cache:  &CacheOverrides{Enabled: &off, Dir: "/tmp/c", Expiry: "2d"},
		GitHub: &GitHubOverrides{Timeout: "30s", Retries: &retries},
	}

	if cfg.CacheEnabled() {
		t.Error("CacheEnabled = true, want false")
	}
	if cfg.CacheDir() != "/tmp/c" {
		t.Errorf("CacheDir = %q", cfg.CacheDir())
	}
	if got, err := cfg.CacheExpiry(); err != nil || got != 48*time.Hour {
		t.Errorf("CacheExpiry = (%v, %v), want 48h", got, err)
	}
	if got, err := cfg.RequestTimeout(); err != nil || got != 30*time.Second {
		t.Errorf("RequestTimeout = (%v, %v), want 30s", got, err)
	}
	if cfg.Retries() != 5 {
		t.Errorf("Retries = %d, want 5", cfg.Retries())
	}
}

func TestInvalidDurations(t *testing.T) {
	cfg := &Config{
		Cache:  &CacheOverrides{Expiry: "soon"},
		GitHub: &GitHubOverrides{Timeout: "fast"},
	}
	if _, err := cfg.CacheExpiry(); err == nil {
		t.Error("CacheExpiry with invalid value expected error")
	}
	if _, err := cfg.RequestTimeout(); err == nil {
		t.Error("RequestTimeout with invalid value expected error")
	}
}

func TestMergeConfig(t *testing.T) {
	on := true
	off := false
	three := 3
	global := &Config{
		Username:      "alice",
		DefaultFormat: "json",
		Datasets:      []string{"global.json"},
		Cache:         &CacheOverrides{Enabled: &on, Expiry: "7d"},
		GitHub:        &GitHubOverrides{Retries: &three},
	}
	local := &Config{
		DefaultFormat: "summary",
		Cache:         &CacheOverrides{Enabled: &off},
	}

	merged := mergeConfig(global, local)

	if merged.Username != "alice" {
		t.Errorf("Username = %q, want global value preserved", merged.Username)
	}
	if merged.DefaultFormat != "summary" {
		t.Errorf("DefaultFormat = %q, want local value", merged.DefaultFormat)
	}
	if len(merged.Datasets) != 1 || merged.Datasets[0] != "global.json" {
		t.Errorf("Datasets = %v", merged.Datasets)
	}
	if merged.CacheEnabled() {
		t.Error("CacheEnabled = true, want local override to win")
	}
	if merged.Cache.Expiry != "7d" {
		t.Errorf("Cache.Expiry = %q, want global value preserved", merged.Cache.Expiry)
	}
	if merged.Retries() != 3 {
		t.Errorf("Retries = %d", merged.Retries())
	}
}

func TestLoadMergesGlobalAndLocal(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	globalDir := filepath.Join(configHome, "benchscan")
	if err := os.MkdirAll(globalDir, 0700); err != nil {
		t.Fatal(err)
	}
	global := "username: alice\ndefault_format: json\n"
	if err := os.WriteFile(filepath.Join(globalDir, "config.yaml"), []byte(global), 0600); err != nil {
		t.Fatal(err)
	}

	workDir := t.TempDir()
	local := "default_format: summary\n"
	if err := os.WriteFile(filepath.Join(workDir, ".benchscan.yaml"), []byte(local), 0600); err != nil {
		t.Fatal(err)
	}
	chdir(t, workDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Username != "alice" {
		t.Errorf("Username = %q, want alice from global", cfg.Username)
	}
	if cfg.DefaultFormat != "summary" {
		t.Errorf("DefaultFormat = %q, want summary from local", cfg.DefaultFormat)
	}
}

func TestLoadWithoutFiles(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DefaultFormat != "table" {
		t.Errorf("DefaultFormat = %q, want table", cfg.DefaultFormat)
	}
}

func TestGetGitHubToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	cfg := &Config{}
	if got := cfg.GetGitHubToken(); got != "ghp_test" {
		t.Errorf("GetGitHubToken = %q", got)
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
