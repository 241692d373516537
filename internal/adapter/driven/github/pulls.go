package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/ghmirror/internal/domain/model"
)

// ListPullRequests returns one page of pull requests in the given state.
func (c *Client) ListPullRequests(ctx context.Context, owner, name string, state model.ListState, page, perPage int) ([]model.PullRequest, error) {
	opts := &gh.PullRequestListOptions{
		State:       string(state),
		Sort:        "created",
		Direction:   "desc",
		ListOptions: gh.ListOptions{Page: page, PerPage: perPage},
	}

	prs, resp, err := c.gh.PullRequests.List(ctx, owner, name, opts)
	if err != nil {
		return nil, wrapError(fmt.Sprintf("listing pull requests for %s/%s", owner, name), err)
	}

	c.logRateLimit(resp, owner+"/"+name+"/pulls", page, len(prs))

	out := make([]model.PullRequest, 0, len(prs))
	for _, pr := range prs {
		out = append(out, mapPullRequest(pr))
	}
	return out, nil
}

// GetPullRequest returns a single pull request with its diff statistics.
func (c *Client) GetPullRequest(ctx context.Context, owner, name string, number int) (*model.PullRequest, error) {
	pr, resp, err := c.gh.PullRequests.Get(ctx, owner, name, number)
	if err != nil {
		return nil, wrapError(fmt.Sprintf("getting pull request %s/%s#%d", owner, name, number), err)
	}

	c.logRateLimit(resp, owner+"/"+name+"/pulls", 0, 1)

	out := mapPullRequest(pr)
	return &out, nil
}

// ListPullRequestCommits returns all commits of a pull request.
func (c *Client) ListPullRequestCommits(ctx context.Context, owner, name string, number int) ([]model.CommitSummary, error) {
	var all []model.CommitSummary
	opts := &gh.ListOptions{PerPage: maxPerPage}

	for {
		commits, resp, err := c.gh.PullRequests.ListCommits(ctx, owner, name, number, opts)
		if err != nil {
			return nil, wrapError(fmt.Sprintf("listing commits for %s/%s#%d", owner, name, number), err)
		}

		c.logRateLimit(resp, owner+"/"+name+"/pulls/commits", opts.Page, len(commits))

		for _, commit := range commits {
			all = append(all, mapRepositoryCommit(commit))
		}

		if opts.Page = nextPage(resp); opts.Page == 0 {
			break
		}
	}

	return all, nil
}

// ListPullRequestFiles returns all changed files of a pull request.
func (c *Client) ListPullRequestFiles(ctx context.Context, owner, name string, number int) ([]model.PRFile, error) {
	var all []model.PRFile
	opts := &gh.ListOptions{PerPage: maxPerPage}

	for {
		files, resp, err := c.gh.PullRequests.ListFiles(ctx, owner, name, number, opts)
		if err != nil {
			return nil, wrapError(fmt.Sprintf("listing files for %s/%s#%d", owner, name, number), err)
		}

		c.logRateLimit(resp, owner+"/"+name+"/pulls/files", opts.Page, len(files))

		for _, f := range files {
			all = append(all, mapPRFile(f))
		}

		if opts.Page = nextPage(resp); opts.Page == 0 {
			break
		}
	}

	return all, nil
}
