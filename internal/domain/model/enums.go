package model

// ListState is the state filter of an issue or pull request listing.
type ListState string

const (
	ListStateOpen   ListState = "open"
	ListStateClosed ListState = "closed"
	ListStateAll    ListState = "all"
)

// ParseListState returns the matching state, falling back to open for
// empty or unknown values.
func ParseListState(s string) ListState {
	switch ListState(s) {
	case ListStateClosed:
		return ListStateClosed
	case ListStateAll:
		return ListStateAll
	default:
		return ListStateOpen
	}
}

// ItemKind distinguishes issue listings from pull request listings.
type ItemKind string

const (
	ItemIssue       ItemKind = "issue"
	ItemPullRequest ItemKind = "pr"
)
