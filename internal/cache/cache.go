// Package cache provides an expiring disk cache for GitHub API responses,
// one JSON file per (repository, number) key.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/benchscan/benchscan/internal/log"
	"github.com/benchscan/benchscan/internal/model"
)

// Store defines the caching operations the resolver depends on.
// This interface enables mocking the cache in unit tests; a nil Store
// means caching is disabled.
type Store interface {
	Get(repo string, number int) (*model.CachedPayload, bool)
	Put(repo string, number int, payload *model.CachedPayload) error
	Clear() error
	Stats() (*Stats, error)
}

// Stats summarizes the state of the on-disk cache.
type Stats struct {
	Total int // all entries on disk
	Valid int // entries within the expiry window
}

// Ensure DiskStore implements Store.
var _ Store = (*DiskStore)(nil)

// DiskStore persists fetched issue/PR payloads under a directory.
// Expiry is evaluated at read time; stale entries are ignored and
// overwritten by the next successful fetch, never actively evicted.
type DiskStore struct {
	dir    string
	expiry time.Duration
}

// entry is the on-disk record wrapping a cached payload.
type entry struct {
	CachedAt time.Time            `json:"cached_at"`
	Repo     string               `json:"repo"`
	Number   int                  `json:"number"`
	Payload  *model.CachedPayload `json:"payload"`
}

// DefaultDir returns the default cache directory.
func DefaultDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "benchscan", "github"), nil
}

// NewDiskStore creates a disk store rooted at dir with the given expiry
// window. A zero expiry means entries never expire.
func NewDiskStore(dir string, expiry time.Duration) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &DiskStore{dir: dir, expiry: expiry}, nil
}

// Key derives the cache key for a (repository, number) pair. It is a
// pure function: identical inputs always yield the identical key, and
// distinct pairs collide only with cryptographic improbability.
func Key(repo string, number int) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s_%d", repo, number))
	return hex.EncodeToString(sum[:])
}

func (s *DiskStore) path(repo string, number int) string {
	return filepath.Join(s.dir, Key(repo, number)+".json")
}

// Get retrieves the cached payload for a (repository, number) pair.
// Missing, corrupt, and expired entries are all reported as a miss;
// corruption is never a fatal error.
func (s *DiskStore) Get(repo string, number int) (*model.CachedPayload, bool) {
	data, err := os.ReadFile(s.path(repo, number))
	if err != nil {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		log.Debug("ignoring corrupt cache entry", "repo", repo, "number", number, "error", err)
		return nil, false
	}

	if s.expiry > 0 && time.Since(e.CachedAt) > s.expiry {
		return nil, false
	}

	if e.Payload == nil {
		return nil, false
	}
	return e.Payload, true
}

// Put persists a payload with the current timestamp. An empty payload
// is a no-op: "not found" results are deliberately not cached so the
// item is re-attempted on a later run.
func (s *DiskStore) Put(repo string, number int, payload *model.CachedPayload) error {
	if payload.Empty() {
		return nil
	}

	data, err := json.Marshal(entry{
		CachedAt: time.Now(),
		Repo:     repo,
		Number:   number,
		Payload:  payload,
	})
	if err != nil {
		return err
	}

	return os.WriteFile(s.path(repo, number), data, 0600)
}

// Clear removes all cached entries.
func (s *DiskStore) Clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, de := range entries {
		if err := os.Remove(filepath.Join(s.dir, de.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns cache entry counts, distinguishing entries still within
// the expiry window.
func (s *DiskStore) Stats() (*Stats, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	stats := &Stats{}
	now := time.Now()

	for _, de := range entries {
		data, err := os.ReadFile(filepath.Join(s.dir, de.Name()))
		if err != nil {
			continue
		}
		stats.Total++

		var e entry
		if err := json.Unmarshal(data, &e); err != nil {
			continue
		}
		if s.expiry <= 0 || now.Sub(e.CachedAt) <= s.expiry {
			stats.Valid++
		}
	}

	return stats, nil
}
