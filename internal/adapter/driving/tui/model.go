// Package tui is a terminal driving adapter: an interactive repository
// finder that hosts the search box controller in a bubbletea program.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ericfisherdev/ghmirror/internal/application"
	"github.com/ericfisherdev/ghmirror/internal/domain/model"
	"github.com/ericfisherdev/ghmirror/internal/searchbox"
)

// Searcher is the repository search capability the finder drives.
// *application.SearchService satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string) ([]model.SearchResult, error)
	Prefetch(ctx context.Context, fullName string)
}

// Model is the bubbletea model of the repository finder.
type Model struct {
	ctx      context.Context
	searcher Searcher
	ctrl     *searchbox.Controller
	input    textinput.Model
	spinner  spinner.Model
	now      func() time.Time

	status string
	chosen string
	width  int
}

// NewModel creates a finder backed by searcher. Blocking calls run under ctx.
func NewModel(ctx context.Context, searcher Searcher) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = promptStyle
	ti.Placeholder = "Search repositories..."
	ti.PlaceholderStyle = placeholderStyle
	ti.CharLimit = 256
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:      ctx,
		searcher: searcher,
		ctrl:     searchbox.New(),
		input:    ti,
		spinner:  sp,
		now:      time.Now,
	}
}

// Chosen is the repository path picked by the user, or "" when the finder
// was dismissed.
func (m Model) Chosen() string {
	return m.chosen
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses, focus changes and search round trips.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case tea.FocusMsg:
		m.ctrl.Focus()
		return m, m.input.Focus()

	case tea.BlurMsg:
		m.ctrl.ClickOutside()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case debounceMsg:
		fetch, ok := m.ctrl.DebounceElapsed(msg.seq)
		if !ok {
			return m, nil
		}
		return m, tea.Batch(m.fetchCmd(fetch), m.spinner.Tick)

	case resultsMsg:
		if !m.ctrl.Current(msg.seq) {
			return m, nil
		}
		m.status = statusFor(msg.err, m.now())
		prefetch, ok := m.ctrl.Resolve(msg.seq, msg.results, msg.err)
		if !ok {
			return m, nil
		}
		return m, m.prefetchCmd(prefetch)

	case prefetchedMsg:
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var key searchbox.Key
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyDown:
		key = searchbox.KeyDown
	case tea.KeyUp:
		key = searchbox.KeyUp
	case tea.KeyEnter:
		key = searchbox.KeyEnter
	case tea.KeyEsc:
		key = searchbox.KeyEscape
	}

	if key != "" {
		out := m.ctrl.Key(key)
		switch {
		case out.Navigate != "":
			m.chosen = out.Navigate
			m.input.SetValue("")
			return m, tea.Quit
		case out.Blur:
			m.input.Blur()
			return m, nil
		case out.Handled:
			return m, nil
		case key == searchbox.KeyEscape:
			// Escape with nothing to close dismisses the finder.
			return m, tea.Quit
		}
	}

	var focusCmd tea.Cmd
	if !m.input.Focused() {
		m.ctrl.Focus()
		focusCmd = m.input.Focus()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == m.ctrl.Query() {
		return m, tea.Batch(focusCmd, cmd)
	}

	sched := m.ctrl.Input(m.input.Value())
	return m, tea.Batch(focusCmd, cmd, tea.Tick(sched.Delay, func(time.Time) tea.Msg {
		return debounceMsg{seq: sched.Seq}
	}))
}

func (m Model) fetchCmd(f searchbox.Fetch) tea.Cmd {
	ctx, searcher := m.ctx, m.searcher
	return func() tea.Msg {
		results, err := searcher.Search(ctx, f.Query)
		return resultsMsg{seq: f.Seq, results: results, err: err}
	}
}

func (m Model) prefetchCmd(p searchbox.Prefetch) tea.Cmd {
	ctx, searcher := m.ctx, m.searcher
	return func() tea.Msg {
		searcher.Prefetch(ctx, p.FullName)
		return prefetchedMsg{fullName: p.FullName}
	}
}

// statusFor renders the status line for a finished search.
func statusFor(err error, now time.Time) string {
	if err == nil {
		return ""
	}
	var rl *model.RateLimitError
	if errors.As(err, &rl) {
		if rl.ResetAt != nil {
			if left := application.Countdown(*rl.ResetAt, now); left != "" {
				return "GitHub API rate limit exceeded. Resets in " + left + "."
			}
		}
		return "GitHub API rate limit exceeded."
	}
	return "Search failed."
}

// View renders the input line, the dropdown and the status line.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.input.View())
	if m.ctrl.Loading() {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n")

	if m.ctrl.Open() {
		b.WriteString(dropdownStyle.Render(m.renderResults()))
		b.WriteString("\n")
	}

	switch {
	case m.status != "":
		b.WriteString(errorStyle.Render(m.status))
	case m.ctrl.Open():
		b.WriteString(hintStyle.Render("↑/↓ move · enter open · esc close"))
	default:
		b.WriteString(hintStyle.Render("type to search · esc quit"))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderResults() string {
	results := m.ctrl.Results()
	rows := make([]string, 0, len(results))
	for i, r := range results {
		style := rowStyle
		marker := "  "
		if i == m.ctrl.Active() {
			style = activeRowStyle
			marker = "▸ "
		}
		row := marker + style.Render(r.FullName) + " " +
			starsStyle.Render(fmt.Sprintf("★ %s", application.CompactCount(r.StargazersCount)))
		if r.Description != "" {
			row += "\n    " + descriptionStyle.Render(truncate(r.Description, m.width-8))
		}
		rows = append(rows, row)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// truncate shortens s to width runes. A non-positive width keeps s whole.
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
