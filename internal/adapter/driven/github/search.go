package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/ghmirror/internal/domain/model"
)

// repoSearchLimit caps repository search results shown in the search box.
const repoSearchLimit = 8

// SearchRepositories runs a repository keyword search.
func (c *Client) SearchRepositories(ctx context.Context, query string) ([]model.SearchResult, error) {
	opts := &gh.SearchOptions{ListOptions: gh.ListOptions{PerPage: repoSearchLimit}}

	result, resp, err := c.gh.Search.Repositories(ctx, query, opts)
	if err != nil {
		return nil, wrapError(fmt.Sprintf("searching repositories for %q", query), err)
	}

	c.logRateLimit(resp, "search/repositories", 0, len(result.Repositories))

	out := make([]model.SearchResult, 0, len(result.Repositories))
	for _, r := range result.Repositories {
		out = append(out, model.SearchResult{
			ID:          r.GetID(),
			FullName:    r.GetFullName(),
			Description: r.GetDescription(),
			Owner: model.Owner{
				Login:     r.GetOwner().GetLogin(),
				AvatarURL: r.GetOwner().GetAvatarURL(),
			},
			StargazersCount: r.GetStargazersCount(),
		})
	}
	return out, nil
}

// SearchIssues runs an issue/pull request search expression.
func (c *Client) SearchIssues(ctx context.Context, q model.IssueSearchQuery) (*model.IssueSearchPage, error) {
	opts := &gh.SearchOptions{
		Sort:        q.Sort,
		Order:       q.Order,
		ListOptions: gh.ListOptions{Page: q.Page, PerPage: q.PerPage},
	}

	result, resp, err := c.gh.Search.Issues(ctx, q.Expression, opts)
	if err != nil {
		return nil, wrapError(fmt.Sprintf("searching issues for %q", q.Expression), err)
	}

	c.logRateLimit(resp, "search/issues", q.Page, len(result.Issues))

	items := make([]model.Issue, 0, len(result.Issues))
	for _, issue := range result.Issues {
		items = append(items, mapIssue(issue))
	}

	return &model.IssueSearchPage{Items: items, TotalCount: result.GetTotal()}, nil
}
