package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/ghmirror/internal/domain/model"
)

type fakeSearcher struct {
	mu         sync.Mutex
	results    map[string][]model.SearchResult
	err        error
	queries    []string
	prefetched []string
}

func (f *fakeSearcher) Search(_ context.Context, query string) ([]model.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.results[query], f.err
}

func (f *fakeSearcher) Prefetch(_ context.Context, fullName string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefetched = append(f.prefetched, fullName)
}

var reactResults = []model.SearchResult{
	{FullName: "facebook/react", Description: "UI library", StargazersCount: 230000},
	{FullName: "preactjs/preact", StargazersCount: 37000},
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, collect(c)...)
	}
	return out
}

func findMsg[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// search types text, fires the latest debounce and feeds back the results.
func search(t *testing.T, m Model, text string) (Model, tea.Cmd) {
	t.Helper()
	m = typeText(t, m, text)
	m, cmd := update(t, m, debounceMsg{seq: len([]rune(text))})
	require.True(t, m.ctrl.Loading())

	res, ok := findMsg[resultsMsg](collect(cmd))
	require.True(t, ok, "debounce should dispatch a search")
	return update(t, m, res)
}

func newTestModel(f *fakeSearcher) Model {
	m := NewModel(context.Background(), f)
	m.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	return m
}

func TestFinder_SearchesAfterDebounce(t *testing.T) {
	f := &fakeSearcher{results: map[string][]model.SearchResult{"react": reactResults}}
	m := newTestModel(f)

	m = typeText(t, m, "react")
	assert.Empty(t, f.queries, "typing alone must not search")

	// Only the last keystroke's debounce counts.
	m, cmd := update(t, m, debounceMsg{seq: 2})
	assert.Nil(t, cmd)

	m, cmd = update(t, m, debounceMsg{seq: 5})
	res, ok := findMsg[resultsMsg](collect(cmd))
	require.True(t, ok)
	m, _ = update(t, m, res)

	assert.Equal(t, []string{"react"}, f.queries)
	assert.True(t, m.ctrl.Open())
	assert.Len(t, m.ctrl.Results(), 2)
	assert.Contains(t, m.View(), "facebook/react")
	assert.Contains(t, m.View(), "230.0k")
}

func TestFinder_PrefetchesTopResult(t *testing.T) {
	f := &fakeSearcher{results: map[string][]model.SearchResult{"react": reactResults}}
	m, cmd := search(t, newTestModel(f), "react")

	msg, ok := findMsg[prefetchedMsg](collect(cmd))
	require.True(t, ok)
	assert.Equal(t, "facebook/react", msg.fullName)
	assert.Equal(t, []string{"facebook/react"}, f.prefetched)

	_, cmd = update(t, m, msg)
	assert.Nil(t, cmd)
}

func TestFinder_EnterChoosesActiveResult(t *testing.T) {
	f := &fakeSearcher{results: map[string][]model.SearchResult{"react": reactResults}}
	m, _ := search(t, newTestModel(f), "react")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.ctrl.Active())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "/preactjs/preact", m.Chosen())
	assert.Empty(t, m.input.Value())
	_, quit := findMsg[tea.QuitMsg](collect(cmd))
	assert.True(t, quit)
}

func TestFinder_EnterWithoutSelectionTakesTop(t *testing.T) {
	f := &fakeSearcher{results: map[string][]model.SearchResult{"react": reactResults}}
	m, _ := search(t, newTestModel(f), "react")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "/facebook/react", m.Chosen())
}

func TestFinder_UpWrapsToLast(t *testing.T) {
	f := &fakeSearcher{results: map[string][]model.SearchResult{"react": reactResults}}
	m, _ := search(t, newTestModel(f), "react")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, m.ctrl.Active())
	assert.Contains(t, m.View(), "▸ ")
}

func TestFinder_EscapeClosesThenQuits(t *testing.T) {
	f := &fakeSearcher{results: map[string][]model.SearchResult{"react": reactResults}}
	m, _ := search(t, newTestModel(f), "react")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, m.ctrl.Open())
	assert.False(t, m.input.Focused())
	assert.Equal(t, "react", m.input.Value())

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	_, quit := findMsg[tea.QuitMsg](collect(cmd))
	assert.True(t, quit)
	assert.Empty(t, m.Chosen())
}

func TestFinder_BlurAndFocus(t *testing.T) {
	f := &fakeSearcher{results: map[string][]model.SearchResult{"react": reactResults}}
	m, _ := search(t, newTestModel(f), "react")

	m, _ = update(t, m, tea.BlurMsg{})
	assert.False(t, m.ctrl.Open())
	assert.Equal(t, "react", m.ctrl.Query())

	m, _ = update(t, m, tea.FocusMsg{})
	assert.True(t, m.ctrl.Open())
}

func TestFinder_ClearingTextClosesDropdown(t *testing.T) {
	f := &fakeSearcher{results: map[string][]model.SearchResult{"r": reactResults}}
	m, _ := search(t, newTestModel(f), "r")
	require.True(t, m.ctrl.Open())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m, cmd := update(t, m, debounceMsg{seq: 2})
	assert.Nil(t, cmd)
	assert.False(t, m.ctrl.Open())
	assert.Equal(t, []string{"r"}, f.queries)
}

func TestFinder_RateLimitStatus(t *testing.T) {
	reset := time.Unix(1_700_000_000, 0).Add(65 * time.Second).Unix()
	f := &fakeSearcher{err: model.NewRateLimitError(reset)}
	m, _ := search(t, newTestModel(f), "react")

	assert.False(t, m.ctrl.Open())
	assert.Contains(t, m.View(), "Resets in 1m 5s.")
}

func TestFinder_StaleFailureLeavesStatusAlone(t *testing.T) {
	f := &fakeSearcher{results: map[string][]model.SearchResult{"react": reactResults}}
	m, _ := search(t, newTestModel(f), "react")

	m = typeText(t, m, "x")
	m, _ = update(t, m, debounceMsg{seq: 6})
	require.True(t, m.ctrl.Loading())

	// The failure answers the first request, which "reactx" superseded.
	m, cmd := update(t, m, resultsMsg{seq: 1, err: model.NewRateLimitError(0)})

	assert.Nil(t, cmd)
	assert.Empty(t, m.status)
	assert.NotContains(t, m.View(), "rate limit")
	assert.True(t, m.ctrl.Loading(), "the newer request is still outstanding")
}

func TestStatusFor(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	assert.Empty(t, statusFor(nil, now))
	assert.Equal(t, "Search failed.", statusFor(errors.New("boom"), now))
	assert.Equal(t, "GitHub API rate limit exceeded.", statusFor(model.NewRateLimitError(0), now))
	assert.Equal(t, "GitHub API rate limit exceeded.",
		statusFor(model.NewRateLimitError(now.Add(-time.Second).Unix()), now))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 0))
	assert.Equal(t, "hello", truncate("hello", 5))
	assert.Equal(t, "hel…", truncate("hello", 4))
	assert.Equal(t, "h", truncate("hello", 1))
}
