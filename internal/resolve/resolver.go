// Package resolve walks benchmark datasets and determines, entry by
// entry, whether a GitHub identity's activity would surface in them.
package resolve

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/benchscan/benchscan/internal/cache"
	"github.com/benchscan/benchscan/internal/classify"
	"github.com/benchscan/benchscan/internal/constants"
	"github.com/benchscan/benchscan/internal/dataset"
	"github.com/benchscan/benchscan/internal/log"
	"github.com/benchscan/benchscan/internal/model"
)

// Fetcher retrieves an item and its comments from GitHub. Satisfied by
// *ghclient.Client; mocked in tests.
type Fetcher interface {
	Fetch(ctx context.Context, repo string, number int) (*model.Item, []model.Comment, error)
}

// Options configures a resolution run.
type Options struct {
	// Username is the GitHub login to resolve.
	Username string

	// Offline skips all API access and classifies from dataset text only.
	Offline bool

	// Pause is the courtesy delay after each real API fetch. Cache hits
	// never pause. Defaults to constants.FetchCourtesyPause.
	Pause time.Duration
}

// RunStats summarizes a resolution run.
type RunStats struct {
	Mode        string        `json:"mode"`
	Entries     int           `json:"entries"`
	Skipped     int           `json:"skipped"`
	Matches     int           `json:"matches"`
	CacheHits   int           `json:"cache_hits"`
	CacheMisses int           `json:"cache_misses"`
	Fetched     int           `json:"fetched"`
	NotFound    int           `json:"not_found"`
	Elapsed     time.Duration `json:"elapsed"`
}

// HitRate returns the cache hit percentage for the run.
func (s *RunStats) HitRate() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total) * 100
}

// Resolver processes dataset entries sequentially. Entries are
// independent, but sequential processing keeps API usage predictable
// and rate-limit handling simple.
type Resolver struct {
	store      cache.Store // nil disables caching
	fetcher    Fetcher     // nil when offline
	classifier *classify.Classifier
	opts       Options

	// sleep is replaced in tests to avoid real waits.
	sleep func(ctx context.Context, d time.Duration)
}

// New creates a resolver. A nil store disables caching; a nil fetcher
// forces offline resolution regardless of opts.Offline.
func New(store cache.Store, fetcher Fetcher, opts Options) *Resolver {
	if fetcher == nil {
		opts.Offline = true
	}
	if opts.Pause <= 0 {
		opts.Pause = constants.FetchCourtesyPause
	}
	return &Resolver{
		store:      store,
		fetcher:    fetcher,
		classifier: classify.New(opts.Username),
		opts:       opts,
		sleep: func(ctx context.Context, d time.Duration) {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
			case <-timer.C:
			}
		},
	}
}

// Run resolves the identity against every entry of every dataset and
// returns the records where at least one category matched. Entries
// whose instance id cannot be parsed are skipped with a warning, never
// a run failure.
func (r *Resolver) Run(ctx context.Context, datasets []dataset.Dataset) ([]model.ContributionRecord, *RunStats, error) {
	stats := &RunStats{Mode: "online"}
	if r.opts.Offline {
		stats.Mode = "offline"
	}
	start := time.Now()

	var records []model.ContributionRecord
	for _, ds := range datasets {
		log.Info("analyzing dataset", "name", ds.Name, "entries", len(ds.Entries), "mode", stats.Mode)

		for i, entry := range ds.Entries {
			if err := ctx.Err(); err != nil {
				stats.Elapsed = time.Since(start)
				return records, stats, err
			}
			log.Progress("%s: %d/%d %s", ds.Name, i+1, len(ds.Entries), entry.InstanceID)
			stats.Entries++

			record, ok := r.resolveEntry(ctx, ds.Name, entry, stats)
			if ok {
				records = append(records, record)
				stats.Matches++
			}
		}
		log.ProgressDone()
	}

	stats.Elapsed = time.Since(start)
	return records, stats, nil
}

func (r *Resolver) resolveEntry(ctx context.Context, datasetName string, entry dataset.Entry, stats *RunStats) (model.ContributionRecord, bool) {
	repo, number, err := dataset.ParseInstanceID(entry.InstanceID, entry.Repo)
	if err != nil {
		log.Warn("skipping unparseable instance", "instance", entry.InstanceID, "error", err)
		stats.Skipped++
		return model.ContributionRecord{}, false
	}

	snapshot := model.DatasetSnapshot{
		ProblemStatement: entry.ProblemStatement,
		HintsText:        entry.HintsText,
	}

	var (
		item      *model.Item
		comments  []model.Comment
		fromCache bool
	)

	if !r.opts.Offline {
		if r.store != nil {
			if payload, ok := r.store.Get(repo, number); ok {
				item, comments = payload.Item, payload.Comments
				fromCache = true
				stats.CacheHits++
			}
		}

		if !fromCache {
			stats.CacheMisses++
			item, comments, err = r.fetcher.Fetch(ctx, repo, number)
			stats.Fetched++
			switch {
			case err != nil:
				// Continue with dataset-only signals.
				log.Warn("fetch failed", "repo", repo, "number", number, "error", err)
				item, comments = nil, nil
			case item == nil:
				stats.NotFound++
			default:
				if r.store != nil {
					payload := &model.CachedPayload{Item: item, Comments: comments}
					if err := r.store.Put(repo, number, payload); err != nil {
						log.Warn("failed to cache payload", "repo", repo, "number", number, "error", err)
					}
				}
			}
			r.sleep(ctx, r.opts.Pause)
		}
	}

	categories := r.classifier.Classify(item, comments, snapshot)
	if categories.Len() == 0 {
		return model.ContributionRecord{}, false
	}

	record := model.ContributionRecord{
		InstanceID:  entry.InstanceID,
		Repo:        repo,
		Categories:  categories.Slice(),
		Title:       recordTitle(item, entry.ProblemStatement),
		URL:         recordURL(item, repo, number),
		CreatedAt:   recordCreatedAt(item, entry.CreatedAt),
		Dataset:     datasetName,
		DatasetInfo: snapshot,
	}
	if !r.opts.Offline {
		record.GitHubInfo = &model.FetchInfo{
			IssueFound:   item != nil,
			CommentCount: len(comments),
			FromCache:    fromCache,
		}
	}
	return record, true
}

// recordTitle prefers the fetched title and falls back to the first
// non-empty line of the problem statement, minus any "Title:" prefix.
func recordTitle(item *model.Item, problemStatement string) string {
	if item != nil && item.Title != "" {
		return item.Title
	}
	for _, line := range strings.Split(problemStatement, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "Title:"); ok {
			return strings.TrimSpace(rest)
		}
		return line
	}
	return "Unknown"
}

func recordURL(item *model.Item, repo string, number int) string {
	if item != nil && item.HTMLURL != "" {
		return item.HTMLURL
	}
	return fmt.Sprintf("https://github.com/%s/issues/%d", repo, number)
}

func recordCreatedAt(item *model.Item, datasetCreatedAt string) string {
	if item != nil && item.CreatedAt != "" {
		return item.CreatedAt
	}
	if datasetCreatedAt != "" {
		return datasetCreatedAt
	}
	return "Unknown"
}
