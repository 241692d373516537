package model

// SearchResult is one repository returned by the repository search capability.
type SearchResult struct {
	ID              int64
	FullName        string
	Description     string
	Owner           Owner
	StargazersCount int
}

// Owner is the account a search result belongs to.
type Owner struct {
	Login     string
	AvatarURL string
}

// IssueSearchQuery is one page of an issue/pull request search. Expression
// carries the full qualifier string, e.g. "repo:o/r is:issue is:open crash".
type IssueSearchQuery struct {
	Expression string
	Page       int
	PerPage    int
	Sort       string // "created", "updated" or "comments"; empty for best match.
	Order      string // "asc" or "desc".
}

// IssueSearchPage is one page of issue search hits. TotalCount counts every
// match, not just Items.
type IssueSearchPage struct {
	Items      []Issue
	TotalCount int
}
