package model

import "time"

// PullRequest represents a GitHub pull request as shown in lists and detail views.
// List rows sourced from issue search only carry the Issue-shaped fields.
type PullRequest struct {
	Number         int
	Title          string
	State          string // "open" or "closed".
	Body           string
	HTMLURL        string
	User           *User
	Labels         []Label
	Comments       int
	ReviewComments int
	Draft          bool
	Merged         bool
	MergedAt       time.Time
	HeadRef        string
	BaseRef        string
	Additions      int
	Deletions      int
	ChangedFiles   int
	MergeableState string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsMerged reports whether the pull request has been merged.
func (pr PullRequest) IsMerged() bool {
	return pr.Merged || !pr.MergedAt.IsZero()
}

// PRFile is one changed file of a pull request.
type PRFile struct {
	SHA       string
	Filename  string
	Status    string // added, removed, modified, renamed, ...
	Additions int
	Deletions int
	Changes   int
	Patch     string // Empty for binary or oversized files.
}
