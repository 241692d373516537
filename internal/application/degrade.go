package application

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ericfisherdev/ghmirror/internal/domain/model"
)

// degrade returns err when it is a rate-limit condition and nil otherwise,
// logging the dropped failure. Callers use it at every point where a failed
// gateway call turns the field into "absent".
func degrade(logger *slog.Logger, err error, field, repo string) error {
	if model.IsRateLimited(err) {
		return err
	}
	logger.Warn("gateway call degraded", "field", field, "repo", repo, "error", err)
	return nil
}

// required is degrade for fields the page cannot render without: any
// non-rate-limit failure becomes model.ErrNotFound.
func required(logger *slog.Logger, err error, field, repo string) error {
	if err := degrade(logger, err, field, repo); err != nil {
		return err
	}
	return fmt.Errorf("%s %s: %w", field, repo, model.ErrNotFound)
}

// ParseNumber parses an issue or pull request number from a URL segment.
func ParseNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("number %q: %w", s, model.ErrNotFound)
	}
	return n, nil
}
