package stats

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benchscan/benchscan/internal/resolve"
)

func TestAppendAndRecent(t *testing.T) {
	store := NewStoreWithPath(filepath.Join(t.TempDir(), "runs.jsonl"))

	for i := 0; i < 3; i++ {
		snap := NewSnapshot("alice", &resolve.RunStats{
			Mode:    "online",
			Entries: 10 + i,
			Matches: i,
			Elapsed: time.Second,
		})
		if err := store.Append(snap); err != nil {
			t.Fatalf("Append returned error: %v", err)
		}
	}

	recent := store.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("Recent(2) returned %d snapshots", len(recent))
	}
	if recent[0].Entries != 11 || recent[1].Entries != 12 {
		t.Errorf("Recent = %+v", recent)
	}
	if recent[1].Username != "alice" || recent[1].Mode != "online" {
		t.Errorf("snapshot fields = %+v", recent[1])
	}
	if recent[1].ElapsedSeconds != 1 {
		t.Errorf("elapsed = %v, want 1", recent[1].ElapsedSeconds)
	}
}

func TestRecentOnMissingFile(t *testing.T) {
	store := NewStoreWithPath(filepath.Join(t.TempDir(), "runs.jsonl"))
	if got := store.Recent(5); got != nil {
		t.Errorf("Recent on missing file = %v, want nil", got)
	}
}

func TestAppendSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	content := `{"username":"alice","entries":5}
not json at all
{"username":"alice","entries":6}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewStoreWithPath(path)
	if err := store.Append(NewSnapshot("alice", &resolve.RunStats{Entries: 7})); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	recent := store.Recent(10)
	if len(recent) != 3 {
		t.Fatalf("Recent returned %d snapshots, want 3 (malformed line dropped)", len(recent))
	}
	if recent[2].Entries != 7 {
		t.Errorf("last snapshot = %+v", recent[2])
	}
}
