package output

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/benchscan/benchscan/internal/model"
)

// ansiRegex matches ANSI escape sequences
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// TableFormatter formats output as a terminal table
type TableFormatter struct{}

// hyperlink creates a clickable terminal hyperlink using OSC 8
// Format: \033]8;;URL\033\\TEXT\033]8;;\033\\
func hyperlink(text, url string) string {
	// Only use hyperlinks if stdout is a terminal
	if url == "" || !term.IsTerminal(int(os.Stdout.Fd())) {
		return text
	}
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

// stripAnsi removes ANSI escape sequences from a string
func stripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// displayWidth returns the visible width of a string in terminal columns
// accounting for wide characters and stripping ANSI escape sequences
func displayWidth(s string) int {
	return runewidth.StringWidth(stripAnsi(s))
}

// truncateToWidth truncates a string to fit within maxWidth display columns
func truncateToWidth(s string, maxWidth int) (string, int) {
	plain := stripAnsi(s)
	width := runewidth.StringWidth(plain)
	if width <= maxWidth {
		return s, width
	}

	cutWidth := 0
	cutIndex := 0
	for i, r := range plain {
		rw := runewidth.RuneWidth(r)
		if cutWidth+rw > maxWidth-3 { // Leave room for "..."
			cutIndex = i
			break
		}
		cutWidth += rw
	}

	if cutIndex > 0 && cutIndex < len(plain) {
		return plain[:cutIndex] + "...", maxWidth
	}
	return plain[:maxWidth-3] + "...", maxWidth
}

// padRight pads a string with spaces to reach the target visible width
func padRight(s string, visibleWidth, targetWidth int) string {
	if visibleWidth >= targetWidth {
		return s
	}
	return s + strings.Repeat(" ", targetWidth-visibleWidth)
}

// Format outputs contribution records as a table
func (f *TableFormatter) Format(report Report, w io.Writer) error {
	if len(report.Results) == 0 {
		fmt.Fprintf(w, "No contributions found for %s.\n", report.Metadata.Username)
		return nil
	}

	// Column widths
	const (
		colRepo       = 26
		colNumber     = 7
		colTitle      = 44
		colCategories = 34
		colDate       = 10
	)

	fmt.Fprintf(w, "%-*s  %-*s  %-*s  %-*s  %s\n",
		colRepo, "Repository",
		colNumber, "Number",
		colTitle, "Title",
		colCategories, "Contribution",
		"Date")
	fmt.Fprintln(w, strings.Repeat("-", colRepo+colNumber+colTitle+colCategories+colDate+8))

	for _, rec := range report.Results {
		repo, _ := truncateToWidth(rec.Repo, colRepo)

		title, visibleTitleLen := truncateToWidth(rec.Title, colTitle)
		linkedTitle := hyperlink(title, rec.URL)
		linkedTitle = padRight(linkedTitle, visibleTitleLen, colTitle)

		categories := formatCategories(rec.Categories)
		catText := categories.colored
		catWidth := categories.visibleWidth
		if catWidth > colCategories {
			catText, catWidth = truncateToWidth(catText, colCategories)
		}
		catText = padRight(catText, catWidth, colCategories)

		fmt.Fprintf(w, "%s  %-*s  %s  %s  %s\n",
			padRight(repo, displayWidth(repo), colRepo),
			colNumber, numberFromID(rec.InstanceID),
			linkedTitle,
			catText,
			formatDate(rec.CreatedAt),
		)
	}

	printFooter(report, w)
	return nil
}

// categoriesResult holds both the display string and its visible width
type categoriesResult struct {
	colored      string
	visibleWidth int
}

// formatCategories joins categories into a colored, comma-separated list
func formatCategories(categories []model.Category) categoriesResult {
	colored := make([]string, 0, len(categories))
	plain := make([]string, 0, len(categories))
	for _, c := range categories {
		colored = append(colored, colorCategory(c))
		plain = append(plain, c.Display())
	}
	return categoriesResult{
		colored:      strings.Join(colored, ", "),
		visibleWidth: runewidth.StringWidth(strings.Join(plain, ", ")),
	}
}

func colorCategory(c model.Category) string {
	switch c {
	case model.CategoryAuthor, model.CategoryPRAuthor:
		return color.GreenString(c.Display())
	case model.CategoryCommenter:
		return color.CyanString(c.Display())
	case model.CategoryAssignee:
		return color.MagentaString(c.Display())
	default:
		return color.YellowString(c.Display())
	}
}

// numberFromID extracts the trailing issue/PR number for display.
func numberFromID(instanceID string) string {
	if i := strings.LastIndex(instanceID, "-"); i >= 0 && i < len(instanceID)-1 {
		return "#" + instanceID[i+1:]
	}
	return instanceID
}

// formatDate shows just the date portion of an RFC 3339 timestamp.
func formatDate(createdAt string) string {
	if len(createdAt) >= 10 && createdAt[4] == '-' {
		return createdAt[:10]
	}
	return createdAt
}

func printFooter(report Report, w io.Writer) {
	m := report.Metadata

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("━", 60))
	fmt.Fprintf(w, "  %s contributions across %d entries for %s\n",
		color.GreenString("%d", m.Matches), m.Entries, m.Username)
	if m.Mode == "online" {
		fmt.Fprintf(w, "  cache: %d hits, %d misses (%.1f%% hit rate)\n",
			m.CacheHits, m.CacheMisses, m.CacheHitRate)
	}
	if m.Skipped > 0 {
		fmt.Fprintf(w, "  %s %d entries skipped\n", color.YellowString("!"), m.Skipped)
	}
}
