// Package searchbox implements the search-as-you-type state machine shared
// by the browser search box and the terminal finder. The controller never
// starts timers or requests itself: hosts own the clock and the network and
// feed the outcomes back in.
package searchbox

import (
	"strings"
	"time"

	"github.com/ericfisherdev/ghmirror/internal/domain/model"
)

// DebounceDelay is the quiet period after the last keystroke before a search
// is issued.
const DebounceDelay = 300 * time.Millisecond

// NoSelection is the active index when no result is highlighted.
const NoSelection = -1

// Key is a navigation key the controller reacts to.
type Key string

const (
	KeyDown   Key = "ArrowDown"
	KeyUp     Key = "ArrowUp"
	KeyEnter  Key = "Enter"
	KeyEscape Key = "Escape"
)

// Schedule asks the host to call DebounceElapsed(Seq) after Delay.
type Schedule struct {
	Seq   int
	Delay time.Duration
}

// Fetch asks the host to run the repository search and report back with
// Resolve(Seq, ...).
type Fetch struct {
	Seq   int
	Query string
}

// Prefetch names the destination the host should warm.
type Prefetch struct {
	FullName string
	Href     string
}

// KeyOutcome reports what a key press did.
type KeyOutcome struct {
	PreventDefault bool
	Handled        bool
	Blur           bool   // The input should lose focus.
	Navigate       string // Destination path when a result was chosen.
}

// Controller holds the state of one search box. It is not safe for
// concurrent use; hosts drive it from a single event loop.
type Controller struct {
	query   string
	results []model.SearchResult
	open    bool
	loading bool
	active  int

	debounceSeq int
	requestSeq  int
	// requestQuery is the query text the latest dispatched request was for.
	requestQuery string
	prefetched   string
}

// New returns an idle, closed controller.
func New() *Controller {
	return &Controller{active: NoSelection}
}

// Query returns the current input text.
func (c *Controller) Query() string { return c.query }

// Results returns the current result set.
func (c *Controller) Results() []model.SearchResult { return c.results }

// Open reports whether the dropdown is shown.
func (c *Controller) Open() bool { return c.open }

// Loading reports whether a dispatched search has not resolved yet.
func (c *Controller) Loading() bool { return c.loading }

// Active returns the highlighted result index, or NoSelection.
func (c *Controller) Active() int { return c.active }

// Input records new text and restarts the debounce. Any schedule returned
// earlier becomes stale.
func (c *Controller) Input(text string) Schedule {
	c.query = text
	c.debounceSeq++
	return Schedule{Seq: c.debounceSeq, Delay: DebounceDelay}
}

// DebounceElapsed is called when a scheduled delay fires. Stale schedules
// are ignored. A blank query clears and closes without a search.
func (c *Controller) DebounceElapsed(seq int) (Fetch, bool) {
	if seq != c.debounceSeq {
		return Fetch{}, false
	}

	query := strings.TrimSpace(c.query)
	if query == "" {
		c.requestSeq++ // Outstanding responses are now stale.
		c.requestQuery = ""
		c.results = nil
		c.open = false
		c.loading = false
		c.active = NoSelection
		return Fetch{}, false
	}

	c.requestSeq++
	c.requestQuery = c.query
	c.loading = true
	return Fetch{Seq: c.requestSeq, Query: query}, true
}

// Current reports whether a response for seq would be applied by Resolve:
// it answers the latest request and the text has not changed since.
func (c *Controller) Current(seq int) bool {
	return seq == c.requestSeq && c.query == c.requestQuery
}

// Resolve applies the outcome of a dispatched search. Responses to anything
// but the latest request, or for text the user has since changed, are
// discarded. On success the top result is offered for prefetch once per
// distinct top result.
func (c *Controller) Resolve(seq int, results []model.SearchResult, err error) (Prefetch, bool) {
	if !c.Current(seq) {
		return Prefetch{}, false
	}
	c.loading = false
	c.active = NoSelection

	if err != nil {
		c.results = nil
		c.open = false
		return Prefetch{}, false
	}

	c.results = results
	c.open = len(results) > 0
	if !c.open {
		return Prefetch{}, false
	}

	top := results[0].FullName
	if top == c.prefetched {
		return Prefetch{}, false
	}
	c.prefetched = top
	return Prefetch{FullName: top, Href: Href(top)}, true
}

// Key handles a navigation key. Keys do nothing while the dropdown is closed
// or empty.
func (c *Controller) Key(k Key) KeyOutcome {
	if !c.open || len(c.results) == 0 {
		return KeyOutcome{}
	}

	n := len(c.results)
	switch k {
	case KeyDown:
		c.active = (c.active + 1) % n
	case KeyUp:
		if c.active <= 0 {
			c.active = n - 1
		} else {
			c.active--
		}
	case KeyEnter:
		i := c.active
		if i < 0 {
			i = 0
		}
		return KeyOutcome{PreventDefault: true, Handled: true, Navigate: c.Select(i)}
	case KeyEscape:
		c.open = false
		return KeyOutcome{PreventDefault: true, Handled: true, Blur: true}
	default:
		return KeyOutcome{}
	}
	return KeyOutcome{PreventDefault: true, Handled: true}
}

// Focus reopens the dropdown over the existing results.
func (c *Controller) Focus() {
	if len(c.results) > 0 {
		c.open = true
	}
}

// ClickOutside closes the dropdown. The query text is kept.
func (c *Controller) ClickOutside() {
	c.open = false
}

// Select chooses result i: the dropdown closes, the text clears and the
// destination path is returned. An out-of-range index returns "".
func (c *Controller) Select(i int) string {
	if i < 0 || i >= len(c.results) {
		return ""
	}
	dest := Href(c.results[i].FullName)
	c.open = false
	c.query = ""
	c.active = NoSelection
	return dest
}

// Href is the repository page of a search result.
func Href(fullName string) string {
	return "/" + fullName
}
