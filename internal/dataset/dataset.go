// Package dataset loads benchmark dataset entries and resolves their
// originating repository and issue/PR number.
package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Entry is one benchmark instance: a reference to an originating issue
// or PR plus the free-text fields derived from it.
type Entry struct {
	InstanceID       string `json:"instance_id"`
	Repo             string `json:"repo,omitempty"`
	ProblemStatement string `json:"problem_statement,omitempty"`
	HintsText        string `json:"hints_text,omitempty"`
	CreatedAt        string `json:"created_at,omitempty"`
}

// Dataset is a named, ordered collection of entries.
type Dataset struct {
	Name    string
	Entries []Entry
}

// Load reads dataset entries from a file. Accepted formats: a JSON
// array of entries, a JSON object with an "instances" array, a JSON
// object keyed by instance id, or JSON Lines.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("dataset %s is empty", path)
	}

	switch trimmed[0] {
	case '[':
		var entries []Entry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
		}
		return entries, nil
	case '{':
		return parseObject(trimmed, path)
	default:
		return parseLines(trimmed, path)
	}
}

// parseObject handles the two object forms: {"instances": [...]} and a
// map keyed by instance id.
func parseObject(data []byte, path string) ([]Entry, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}

	if instances, ok := raw["instances"]; ok {
		var entries []Entry
		if err := json.Unmarshal(instances, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse instances in %s: %w", path, err)
		}
		return entries, nil
	}

	// Keyed form: each key is an instance id. Sort keys so the entry
	// order is stable across runs.
	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	entries := make([]Entry, 0, len(raw))
	for _, id := range ids {
		var entry Entry
		if err := json.Unmarshal(raw[id], &entry); err != nil {
			return nil, fmt.Errorf("failed to parse instance %s in %s: %w", id, path, err)
		}
		entry.InstanceID = id
		entries = append(entries, entry)
	}
	return entries, nil
}

// parseLines handles JSON Lines input, skipping blank lines.
func parseLines(data []byte, path string) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("failed to parse line %d of %s: %w", lineNo, path, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	return entries, nil
}

// LoadAll loads multiple dataset files concurrently, preserving the
// input order. Only file reading is parallel; API fetching elsewhere
// stays strictly sequential.
func LoadAll(ctx context.Context, paths []string) ([]Dataset, error) {
	datasets := make([]Dataset, len(paths))

	g, _ := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			entries, err := Load(path)
			if err != nil {
				return err
			}
			datasets[i] = Dataset{Name: datasetName(path), Entries: entries}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return datasets, nil
}

// datasetName derives a short dataset label from its file path.
func datasetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
