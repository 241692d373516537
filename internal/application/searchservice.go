package application

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/ghmirror/internal/domain/model"
	"github.com/ericfisherdev/ghmirror/internal/domain/port/driven"
)

// SearchService answers repository keyword searches for the search box and
// the home page.
type SearchService struct {
	gh        driven.GitHubClient
	allowList AllowList
	logger    *slog.Logger
}

// NewSearchService creates a SearchService. In demo mode every search is empty.
func NewSearchService(gh driven.GitHubClient, allowList AllowList, logger *slog.Logger) *SearchService {
	return &SearchService{gh: gh, allowList: allowList, logger: logger}
}

// Search returns matching repositories. Blank queries and demo mode yield an
// empty list without calling the gateway; failures other than rate limits
// also yield an empty list.
func (s *SearchService) Search(ctx context.Context, query string) ([]model.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" || s.allowList.Enabled() {
		return []model.SearchResult{}, nil
	}

	results, err := s.gh.SearchRepositories(ctx, query)
	if err != nil {
		if model.IsRateLimited(err) {
			return nil, err
		}
		s.logger.Warn("repository search failed", "query", query, "error", err)
		return []model.SearchResult{}, nil
	}
	return results, nil
}

// Prefetch warms the response cache for a repository page the user is
// likely to open next. Failures are only logged.
func (s *SearchService) Prefetch(ctx context.Context, fullName string) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok {
		return
	}
	if _, err := s.gh.GetRepository(ctx, owner, name); err != nil {
		s.logger.Debug("prefetch failed", "repo", fullName, "error", err)
	}
}
