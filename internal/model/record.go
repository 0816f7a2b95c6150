package model

// DatasetSnapshot is the slice of dataset text embedded in each result
// so reports are self-contained.
type DatasetSnapshot struct {
	ProblemStatement string `json:"problem_statement"`
	HintsText        string `json:"hints_text"`
}

// FetchInfo carries fetch/cache diagnostics for a resolved entry.
type FetchInfo struct {
	IssueFound   bool `json:"issue_found"`
	CommentCount int  `json:"comment_count"`
	FromCache    bool `json:"from_cache"`
}

// ContributionRecord is the per-entry output: a dataset instance the
// target identity contributed to, with the matched categories. Created
// once per entry with a non-empty category set; never mutated after.
type ContributionRecord struct {
	InstanceID  string          `json:"instance_id"`
	Repo        string          `json:"repo"`
	Categories  []Category      `json:"contribution_types"`
	Title       string          `json:"title"`
	URL         string          `json:"url"`
	CreatedAt   string          `json:"created_at"`
	Dataset     string          `json:"dataset,omitempty"`
	DatasetInfo DatasetSnapshot `json:"dataset_info"`
	GitHubInfo  *FetchInfo      `json:"github_info,omitempty"`
}
