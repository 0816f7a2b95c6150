package model

// Category is a contribution-category label: one way an identity's
// involvement could surface in a derived benchmark dataset.
type Category string

const (
	// CategoryAuthor indicates the identity created the issue or PR.
	CategoryAuthor Category = "author"

	// CategoryPRAuthor indicates the item is a pull request and the
	// identity authored it. Always co-occurs with CategoryAuthor.
	CategoryPRAuthor Category = "pr_author"

	// CategoryCommenter indicates the identity commented on the item.
	CategoryCommenter Category = "commenter"

	// CategoryMentionedInHints indicates the identity appears in the
	// dataset entry's hints text.
	CategoryMentionedInHints Category = "mentioned_in_hints"

	// CategoryMentionedInProblem indicates the identity appears in the
	// dataset entry's problem statement.
	CategoryMentionedInProblem Category = "mentioned_in_problem"

	// CategoryMentionedInBody indicates the identity appears in the
	// fetched item's body text.
	CategoryMentionedInBody Category = "mentioned_in_body"

	// CategoryMentionedInComment indicates the identity appears in a
	// comment body.
	CategoryMentionedInComment Category = "mentioned_in_comment"

	// CategoryAssignee indicates the identity is assigned to the item.
	CategoryAssignee Category = "assignee"
)

// Display returns a human-readable label for the category.
func (c Category) Display() string {
	switch c {
	case CategoryAuthor:
		return "Author"
	case CategoryPRAuthor:
		return "PR Author"
	case CategoryCommenter:
		return "Commenter"
	case CategoryMentionedInHints:
		return "Mentioned in Hints"
	case CategoryMentionedInProblem:
		return "Mentioned in Problem"
	case CategoryMentionedInBody:
		return "Mentioned in Body"
	case CategoryMentionedInComment:
		return "Mentioned in Comment"
	case CategoryAssignee:
		return "Assignee"
	default:
		return string(c)
	}
}

// CategorySet is an ordered, deduplicating collection of categories.
// Insertion order is preserved; adding an existing category is a no-op.
type CategorySet struct {
	order []Category
	seen  map[Category]bool
}

// NewCategorySet creates an empty CategorySet.
func NewCategorySet() *CategorySet {
	return &CategorySet{seen: make(map[Category]bool)}
}

// Add inserts a category if not already present.
func (s *CategorySet) Add(c Category) {
	if s.seen[c] {
		return
	}
	s.seen[c] = true
	s.order = append(s.order, c)
}

// Contains reports whether the category is in the set.
func (s *CategorySet) Contains(c Category) bool {
	return s.seen[c]
}

// Len returns the number of categories in the set.
func (s *CategorySet) Len() int {
	return len(s.order)
}

// Slice returns the categories in insertion order. The returned slice
// is a copy; mutating it does not affect the set.
func (s *CategorySet) Slice() []Category {
	out := make([]Category, len(s.order))
	copy(out, s.order)
	return out
}
