// Package model contains domain types for the benchscan application.
// These types are independent of any external GitHub library.
package model

// Item represents a fetched GitHub issue or pull request.
// Immutable once fetched within a run; the cache may refresh it on a
// later run after expiry. CreatedAt is kept as the RFC 3339 string the
// API returned since it is only ever displayed, never computed with.
type Item struct {
	Number             int      `json:"number"`
	Title              string   `json:"title"`
	Body               string   `json:"body,omitempty"`
	Author             string   `json:"author"`
	State              string   `json:"state,omitempty"`
	HTMLURL            string   `json:"htmlUrl,omitempty"`
	CreatedAt          string   `json:"createdAt,omitempty"`
	CommentCount       int      `json:"commentCount,omitempty"`
	ReviewCommentCount int      `json:"reviewCommentCount,omitempty"`
	IsPullRequest      bool     `json:"isPullRequest"`
	Assignees          []string `json:"assignees,omitempty"`
}

// Comment is a single discussion or review comment on an item.
// Author is empty for deleted/ghost accounts.
type Comment struct {
	Author string `json:"author,omitempty"`
	Body   string `json:"body,omitempty"`
}

// CachedPayload is the unit stored in the GitHub response cache: the
// fetched item together with its flattened comment stream. Discussion
// and review comments are one unordered collection; classification
// does not depend on order.
type CachedPayload struct {
	Item     *Item     `json:"item"`
	Comments []Comment `json:"comments"`
}

// Empty reports whether the payload carries nothing worth caching.
func (p *CachedPayload) Empty() bool {
	return p == nil || (p.Item == nil && len(p.Comments) == 0)
}
