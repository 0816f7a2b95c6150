package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/benchscan/benchscan/internal/model"
)

// SummaryFormatter prints an aggregate view of the run: totals per
// category and per repository, then a numbered list of matches.
type SummaryFormatter struct{}

// Format outputs the summary.
func (f *SummaryFormatter) Format(report Report, w io.Writer) error {
	m := report.Metadata

	fmt.Fprintf(w, "Contribution summary for %s (%s)\n\n", m.Username, m.Mode)
	fmt.Fprintf(w, "Entries analyzed:    %d\n", m.Entries)
	fmt.Fprintf(w, "Contributions found: %d\n", m.Matches)
	if m.Skipped > 0 {
		fmt.Fprintf(w, "Entries skipped:     %d\n", m.Skipped)
	}
	if m.Mode == "online" {
		fmt.Fprintf(w, "Cache:               %d hits, %d misses (%.1f%%)\n",
			m.CacheHits, m.CacheMisses, m.CacheHitRate)
	}

	if len(report.Results) == 0 {
		return nil
	}

	fmt.Fprintln(w, "\nBy contribution type:")
	for _, line := range countByCategory(report.Results) {
		fmt.Fprintf(w, "  %-22s %d\n", line.label, line.count)
	}

	fmt.Fprintln(w, "\nBy repository:")
	for _, line := range countByRepo(report.Results) {
		fmt.Fprintf(w, "  %-30s %d\n", line.label, line.count)
	}

	fmt.Fprintln(w, "\nMatches:")
	for i, rec := range report.Results {
		labels := make([]string, 0, len(rec.Categories))
		for _, c := range rec.Categories {
			labels = append(labels, c.Display())
		}
		fmt.Fprintf(w, "  %d. %s - %s\n     %s\n",
			i+1, rec.Repo, strings.Join(labels, ", "), rec.Title)
	}

	return nil
}

type countLine struct {
	label string
	count int
}

// countByCategory tallies categories in first-seen order.
func countByCategory(records []model.ContributionRecord) []countLine {
	counts := make(map[model.Category]int)
	var order []model.Category
	for _, rec := range records {
		for _, c := range rec.Categories {
			if counts[c] == 0 {
				order = append(order, c)
			}
			counts[c]++
		}
	}

	lines := make([]countLine, 0, len(order))
	for _, c := range order {
		lines = append(lines, countLine{c.Display(), counts[c]})
	}
	return lines
}

// countByRepo tallies records per repository, most matches first.
func countByRepo(records []model.ContributionRecord) []countLine {
	counts := make(map[string]int)
	for _, rec := range records {
		counts[rec.Repo]++
	}

	lines := make([]countLine, 0, len(counts))
	for repo, n := range counts {
		lines = append(lines, countLine{repo, n})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].count != lines[j].count {
			return lines[i].count > lines[j].count
		}
		return lines[i].label < lines[j].label
	})
	return lines
}
