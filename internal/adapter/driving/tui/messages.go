package tui

import "github.com/ericfisherdev/ghmirror/internal/domain/model"

// debounceMsg fires once typing has paused for the debounce delay.
type debounceMsg struct {
	seq int
}

// resultsMsg carries a finished repository search.
type resultsMsg struct {
	seq     int
	results []model.SearchResult
	err     error
}

// prefetchedMsg reports that a cache warm-up finished.
type prefetchedMsg struct {
	fullName string
}
