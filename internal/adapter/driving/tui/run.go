package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the finder on the given terminal streams and returns the chosen
// repository path, or "" when the user dismissed it.
func Run(ctx context.Context, searcher Searcher, in io.Reader, out io.Writer) (string, error) {
	p := tea.NewProgram(
		NewModel(ctx, searcher),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithReportFocus(),
	)

	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("running finder: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return "", fmt.Errorf("unexpected finder model %T", final)
	}
	return m.Chosen(), nil
}
