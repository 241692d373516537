// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// RepoHeaderViewModel is the repository title bar and tab strip shared by
// every repository page.
type RepoHeaderViewModel struct {
	Owner      string
	Name       string
	Href       string
	IssuesHref string
	PullsHref  string
	Active     string // "code", "issues" or "pulls".
	OpenPulls  int    // Zero hides the counter.
}

// AboutViewModel holds the overview sidebar.
type AboutViewModel struct {
	Description   string
	Homepage      string
	HomepageLabel string // Homepage without the scheme.
	License       string
	Stars         string
	Watchers      string
	Forks         string
}

// LinkSegmentViewModel is a run of text that links when Href is set.
type LinkSegmentViewModel struct {
	Text string
	Href string
}

// CommitViewModel holds one commit line.
type CommitViewModel struct {
	Headline []LinkSegmentViewModel
	Author   string
	When     string
	ShortSHA string
}

// TreeRowViewModel is one entry of a folder listing.
type TreeRowViewModel struct {
	Name           string
	Href           string
	IsFile         bool
	CommitHeadline string // Empty when no commit is known.
	CommitWhen     string
}

// OverviewViewModel holds the repository landing page.
type OverviewViewModel struct {
	Header        RepoHeaderViewModel
	About         AboutViewModel
	DefaultBranch string
	LatestCommit  *CommitViewModel
	Rows          []TreeRowViewModel
	Truncated     bool
	ReadmeHTML    string
}

// BreadcrumbViewModel is one path segment of the blob view.
type BreadcrumbViewModel struct {
	Name string
	Href string // Empty for the current segment.
}

// LineViewModel is one numbered source line.
type LineViewModel struct {
	Number int
	Text   string
}

// BlobViewModel holds the file (or folder) view.
type BlobViewModel struct {
	Header      RepoHeaderViewModel
	Ref         string
	Path        string
	Breadcrumbs []BreadcrumbViewModel
	IsFolder    bool
	Folder      []TreeRowViewModel
	IsMarkdown  bool
	HTML        string
	Lines       []LineViewModel
}

// LabelViewModel is a colored label chip.
type LabelViewModel struct {
	Name  string
	Color string // CSS color, e.g. "#d73a4a".
}

// StateBadgeViewModel is the open/closed/merged/draft indicator.
type StateBadgeViewModel struct {
	Label string
	Class string
}

// ListRowViewModel is one issue or pull request of a list page.
type ListRowViewModel struct {
	Number   int
	Title    string
	Href     string
	State    StateBadgeViewModel
	Labels   []LabelViewModel
	Meta     string // "#12 opened 3 days ago by alice".
	Comments int
}

// StateLinkViewModel is one state filter tab of a list page.
type StateLinkViewModel struct {
	Label  string
	Href   string
	Active bool
}

// PaginationViewModel is the pager of a list page.
type PaginationViewModel struct {
	Visible    bool
	Page       int
	TotalPages int
	PrevHref   string // Empty when disabled.
	NextHref   string // Empty when disabled.
}

// ListViewModel holds an issues or pull requests list page.
type ListViewModel struct {
	Header     RepoHeaderViewModel
	Noun       string // "issues" or "pull requests".
	Action     string // Form target.
	Query      string
	State      string
	StateLinks []StateLinkViewModel
	TotalLabel string
	Rows       []ListRowViewModel
	EmptyTitle string
	EmptyHint  string
	Pager      PaginationViewModel
}

// PartViewModel is one styled fragment of a compact timeline item.
type PartViewModel struct {
	Text  string
	Class string
	Color string
	Href  string
}

// TimelineItemViewModel is a comment card or a compact event line.
type TimelineItemViewModel struct {
	IsComment   bool
	Author      string
	AvatarURL   string
	Association string // Badge text; empty for NONE.
	When        string
	BodyHTML    string
	Icon        string
	Parts       []PartViewModel
}

// TabViewModel is one pull request sub-view link.
type TabViewModel struct {
	Label  string
	Href   string
	Active bool
	Count  int
}

// FileViewModel is one changed file of a pull request.
type FileViewModel struct {
	Filename  string
	Status    string
	Additions int
	Deletions int
	PatchHTML string // Empty for binary or oversized files.
}

// ConversationViewModel holds an issue or pull request detail page.
type ConversationViewModel struct {
	Header       RepoHeaderViewModel
	IsPull       bool
	Number       int
	Title        string
	State        StateBadgeViewModel
	Author       string
	OpenedLine   string
	MergeBase    string
	MergeHead    string
	BackHref     string
	BackLabel    string
	Labels       []LabelViewModel
	Participants []string
	Tabs         []TabViewModel
	Tab          string
	Timeline     []TimelineItemViewModel
	Empty        bool
	Commits      []CommitViewModel
	FilesSummary string
	Files        []FileViewModel
}

// SearchResultViewModel is one repository search hit.
type SearchResultViewModel struct {
	FullName    string
	Href        string
	Description string
	AvatarURL   string
	Stars       string
}

// RepoLinkViewModel links one allow-listed repository.
type RepoLinkViewModel struct {
	FullName string
	Href     string
}

// HomeViewModel holds the landing page.
type HomeViewModel struct {
	Demo      bool
	DemoRepos []RepoLinkViewModel
	Query     string
	Searched  bool
	Results   []SearchResultViewModel
}

// ErrorViewModel holds the not-found, rate-limit and failure pages.
type ErrorViewModel struct {
	Status    int
	Title     string
	Message   string
	RateLimit bool
	Countdown string // Empty when no reset time is known or it passed.
	ResetUnix int64
	RetryHref string
}
