// Package driven declares the ports the application drives.
package driven

import (
	"context"

	"github.com/ericfisherdev/ghmirror/internal/domain/model"
)

// GitHubClient defines the driven port for the remote data gateway.
//
// Every method returns model.ErrNotFound (wrapped) when the entity is absent
// and a *model.RateLimitError when the API refused the call for rate
// limiting. Any other failure is returned as a plain wrapped error.
type GitHubClient interface {
	// Repository reads

	GetRepository(ctx context.Context, owner, name string) (*model.Repository, error)
	// GetTree returns the recursive tree listing of ref.
	GetTree(ctx context.Context, owner, name, ref string) (*model.Tree, error)
	// GetLatestCommit returns the most recent commit touching path, or the
	// most recent commit of the default branch when path is empty. It
	// returns nil, nil when no commit matches.
	GetLatestCommit(ctx context.Context, owner, name, path string) (*model.CommitSummary, error)
	// GetReadme returns the raw README markdown.
	GetReadme(ctx context.Context, owner, name string) (string, error)
	// GetFileContent returns the decoded content of path at ref.
	GetFileContent(ctx context.Context, owner, name, path, ref string) (string, error)

	// Search

	SearchRepositories(ctx context.Context, query string) ([]model.SearchResult, error)
	SearchIssues(ctx context.Context, q model.IssueSearchQuery) (*model.IssueSearchPage, error)

	// Issues

	ListIssues(ctx context.Context, owner, name string, state model.ListState, page, perPage int) ([]model.Issue, error)
	GetIssue(ctx context.Context, owner, name string, number int) (*model.Issue, error)
	ListIssueComments(ctx context.Context, owner, name string, number int) ([]model.Comment, error)
	ListTimelineEvents(ctx context.Context, owner, name string, number int) ([]model.TimelineEvent, error)

	// Pull requests

	ListPullRequests(ctx context.Context, owner, name string, state model.ListState, page, perPage int) ([]model.PullRequest, error)
	GetPullRequest(ctx context.Context, owner, name string, number int) (*model.PullRequest, error)
	ListPullRequestCommits(ctx context.Context, owner, name string, number int) ([]model.CommitSummary, error)
	ListPullRequestFiles(ctx context.Context, owner, name string, number int) ([]model.PRFile, error)
}
