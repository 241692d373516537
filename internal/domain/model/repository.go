package model

import "time"

// Repository represents GitHub repository metadata shown on the overview page.
type Repository struct {
	Name             string
	FullName         string
	Owner            User
	Description      string
	Homepage         string
	HTMLURL          string
	Private          bool
	DefaultBranch    string
	License          string // License display name; empty when the repo has none.
	StargazersCount  int
	ForksCount       int
	WatchersCount    int
	SubscribersCount int
	OpenIssuesCount  int
	UpdatedAt        time.Time
}

// User is the minimal account data needed to attribute content.
type User struct {
	Login     string
	AvatarURL string
	HTMLURL   string
}

// TreeEntryType classifies an entry of a recursive git tree listing.
type TreeEntryType string

const (
	TreeEntryBlob TreeEntryType = "blob"
	TreeEntryTree TreeEntryType = "tree"
)

// TreeEntry is one flat (path, kind) row of a recursive tree listing.
type TreeEntry struct {
	Path string
	Type TreeEntryType
	SHA  string
}

// Tree is a recursive tree listing for one ref.
type Tree struct {
	SHA       string
	Truncated bool // GitHub stops listing past its size limit.
	Entries   []TreeEntry
}

// CommitSummary is the display data of a single commit.
type CommitSummary struct {
	SHA        string
	Message    string
	AuthorName string    // Git author name from the commit itself.
	AuthoredAt time.Time // Zero when the commit carries no author date.
	Author     *User     // GitHub account linked to the commit; nil when unlinked.
}

// Headline returns the first line of the commit message.
func (c CommitSummary) Headline() string {
	return firstLine(c.Message)
}

// ShortSHA returns the abbreviated commit id used for display.
func (c CommitSummary) ShortSHA() string {
	return ShortSHA(c.SHA)
}

const shortSHALength = 7

// ShortSHA truncates a commit id to its 7-character display form.
func ShortSHA(sha string) string {
	if len(sha) > shortSHALength {
		return sha[:shortSHALength]
	}
	return sha
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
