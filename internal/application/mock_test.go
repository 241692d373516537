package application_test

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/ericfisherdev/ghmirror/internal/domain/model"
	"github.com/ericfisherdev/ghmirror/internal/domain/port/driven"
)

var _ driven.GitHubClient = (*mockGitHubClient)(nil)

// --- Mock implementations ---

var errBoom = errors.New("boom")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockGitHubClient implements driven.GitHubClient. Unset funcs return zero
// values so each test only wires the calls it cares about.
type mockGitHubClient struct {
	getRepository      func(ctx context.Context, owner, name string) (*model.Repository, error)
	getTree            func(ctx context.Context, owner, name, ref string) (*model.Tree, error)
	getLatestCommit    func(ctx context.Context, owner, name, path string) (*model.CommitSummary, error)
	getReadme          func(ctx context.Context, owner, name string) (string, error)
	getFileContent     func(ctx context.Context, owner, name, path, ref string) (string, error)
	searchRepositories func(ctx context.Context, query string) ([]model.SearchResult, error)
	searchIssues       func(ctx context.Context, q model.IssueSearchQuery) (*model.IssueSearchPage, error)
	listIssues         func(ctx context.Context, owner, name string, state model.ListState, page, perPage int) ([]model.Issue, error)
	getIssue           func(ctx context.Context, owner, name string, number int) (*model.Issue, error)
	listIssueComments  func(ctx context.Context, owner, name string, number int) ([]model.Comment, error)
	listTimelineEvents func(ctx context.Context, owner, name string, number int) ([]model.TimelineEvent, error)
	listPullRequests   func(ctx context.Context, owner, name string, state model.ListState, page, perPage int) ([]model.PullRequest, error)
	getPullRequest     func(ctx context.Context, owner, name string, number int) (*model.PullRequest, error)
	listPRCommits      func(ctx context.Context, owner, name string, number int) ([]model.CommitSummary, error)
	listPRFiles        func(ctx context.Context, owner, name string, number int) ([]model.PRFile, error)
}

func (m *mockGitHubClient) GetRepository(ctx context.Context, owner, name string) (*model.Repository, error) {
	if m.getRepository == nil {
		return &model.Repository{Name: name, FullName: owner + "/" + name, DefaultBranch: "main"}, nil
	}
	return m.getRepository(ctx, owner, name)
}

func (m *mockGitHubClient) GetTree(ctx context.Context, owner, name, ref string) (*model.Tree, error) {
	if m.getTree == nil {
		return &model.Tree{}, nil
	}
	return m.getTree(ctx, owner, name, ref)
}

func (m *mockGitHubClient) GetLatestCommit(ctx context.Context, owner, name, path string) (*model.CommitSummary, error) {
	if m.getLatestCommit == nil {
		return nil, nil
	}
	return m.getLatestCommit(ctx, owner, name, path)
}

func (m *mockGitHubClient) GetReadme(ctx context.Context, owner, name string) (string, error) {
	if m.getReadme == nil {
		return "", nil
	}
	return m.getReadme(ctx, owner, name)
}

func (m *mockGitHubClient) GetFileContent(ctx context.Context, owner, name, path, ref string) (string, error) {
	if m.getFileContent == nil {
		return "", model.ErrNotFound
	}
	return m.getFileContent(ctx, owner, name, path, ref)
}

func (m *mockGitHubClient) SearchRepositories(ctx context.Context, query string) ([]model.SearchResult, error) {
	if m.searchRepositories == nil {
		return nil, nil
	}
	return m.searchRepositories(ctx, query)
}

func (m *mockGitHubClient) SearchIssues(ctx context.Context, q model.IssueSearchQuery) (*model.IssueSearchPage, error) {
	if m.searchIssues == nil {
		return &model.IssueSearchPage{}, nil
	}
	return m.searchIssues(ctx, q)
}

func (m *mockGitHubClient) ListIssues(ctx context.Context, owner, name string, state model.ListState, page, perPage int) ([]model.Issue, error) {
	if m.listIssues == nil {
		return nil, nil
	}
	return m.listIssues(ctx, owner, name, state, page, perPage)
}

func (m *mockGitHubClient) GetIssue(ctx context.Context, owner, name string, number int) (*model.Issue, error) {
	if m.getIssue == nil {
		return nil, model.ErrNotFound
	}
	return m.getIssue(ctx, owner, name, number)
}

func (m *mockGitHubClient) ListIssueComments(ctx context.Context, owner, name string, number int) ([]model.Comment, error) {
	if m.listIssueComments == nil {
		return nil, nil
	}
	return m.listIssueComments(ctx, owner, name, number)
}

func (m *mockGitHubClient) ListTimelineEvents(ctx context.Context, owner, name string, number int) ([]model.TimelineEvent, error) {
	if m.listTimelineEvents == nil {
		return nil, nil
	}
	return m.listTimelineEvents(ctx, owner, name, number)
}

func (m *mockGitHubClient) ListPullRequests(ctx context.Context, owner, name string, state model.ListState, page, perPage int) ([]model.PullRequest, error) {
	if m.listPullRequests == nil {
		return nil, nil
	}
	return m.listPullRequests(ctx, owner, name, state, page, perPage)
}

func (m *mockGitHubClient) GetPullRequest(ctx context.Context, owner, name string, number int) (*model.PullRequest, error) {
	if m.getPullRequest == nil {
		return nil, model.ErrNotFound
	}
	return m.getPullRequest(ctx, owner, name, number)
}

func (m *mockGitHubClient) ListPullRequestCommits(ctx context.Context, owner, name string, number int) ([]model.CommitSummary, error) {
	if m.listPRCommits == nil {
		return nil, nil
	}
	return m.listPRCommits(ctx, owner, name, number)
}

func (m *mockGitHubClient) ListPullRequestFiles(ctx context.Context, owner, name string, number int) ([]model.PRFile, error) {
	if m.listPRFiles == nil {
		return nil, nil
	}
	return m.listPRFiles(ctx, owner, name, number)
}
