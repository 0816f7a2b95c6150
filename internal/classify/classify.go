// Package classify decides how a GitHub identity shows up in a benchmark
// instance: as the author, a commenter, an assignee, or via textual
// mentions in the dataset's problem statement and hints.
package classify

import (
	"fmt"
	"strings"

	"github.com/benchscan/benchscan/internal/model"
)

// Classifier matches a single identity against fetched items and
// dataset text. It holds no mutable state and is safe for reuse.
type Classifier struct {
	username string
}

// New creates a classifier for the given GitHub login.
func New(username string) *Classifier {
	return &Classifier{username: username}
}

// Classify returns the categories under which the identity appears.
// The item may be nil when the fetch failed or ran offline; dataset
// text signals still apply in that case. Structured fields (author,
// commenter, assignee) match the login exactly, since API logins are
// canonical. Free-text mentions go through the looser Mentions check.
func (c *Classifier) Classify(item *model.Item, comments []model.Comment, snap model.DatasetSnapshot) *model.CategorySet {
	set := model.NewCategorySet()
	if c.username == "" {
		return set
	}

	if item != nil {
		if item.Author == c.username {
			set.Add(model.CategoryAuthor)
			if item.IsPullRequest {
				set.Add(model.CategoryPRAuthor)
			}
		}

		for _, comment := range comments {
			if comment.Author == c.username {
				set.Add(model.CategoryCommenter)
				break
			}
		}

		for _, assignee := range item.Assignees {
			if assignee == c.username {
				set.Add(model.CategoryAssignee)
				break
			}
		}

		if Mentions(item.Body, c.username) {
			set.Add(model.CategoryMentionedInBody)
		}

		for _, comment := range comments {
			if Mentions(comment.Body, c.username) {
				set.Add(model.CategoryMentionedInComment)
				break
			}
		}
	}

	if Mentions(snap.HintsText, c.username) {
		set.Add(model.CategoryMentionedInHints)
	}
	if Mentions(snap.ProblemStatement, c.username) {
		set.Add(model.CategoryMentionedInProblem)
	}

	return set
}

// Mentions reports whether free text refers to the identity. Matching
// is case-insensitive and recognizes the forms mentions commonly take
// in issue threads: "@user", "user:", "by user", "from user", and
// "author: user". Empty text or an empty identity never match.
func Mentions(text, identity string) bool {
	if text == "" || identity == "" {
		return false
	}

	textLower := strings.ToLower(text)
	identityLower := strings.ToLower(identity)

	patterns := []string{
		fmt.Sprintf("@%s", identityLower),
		fmt.Sprintf("%s:", identityLower),
		fmt.Sprintf("by %s", identityLower),
		fmt.Sprintf("from %s", identityLower),
		fmt.Sprintf("author: %s", identityLower),
	}

	for _, pattern := range patterns {
		if strings.Contains(textLower, pattern) {
			return true
		}
	}
	return false
}
