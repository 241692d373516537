package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/ghmirror/internal/application"
	"github.com/ericfisherdev/ghmirror/internal/domain/model"
)

func TestRepoService_Overview(t *testing.T) {
	gh := &mockGitHubClient{
		getRepository: func(context.Context, string, string) (*model.Repository, error) {
			return &model.Repository{FullName: "octo/hello", DefaultBranch: "trunk"}, nil
		},
		getTree: func(_ context.Context, _, _, ref string) (*model.Tree, error) {
			assert.Equal(t, "trunk", ref)
			return &model.Tree{Truncated: true, Entries: []model.TreeEntry{blob("src/a.go"), blob("README.md")}}, nil
		},
		getLatestCommit: func(_ context.Context, _, _, path string) (*model.CommitSummary, error) {
			return &model.CommitSummary{SHA: "sha-" + path}, nil
		},
		searchIssues: func(_ context.Context, q model.IssueSearchQuery) (*model.IssueSearchPage, error) {
			assert.Equal(t, "repo:octo/hello is:pr is:open", q.Expression)
			return &model.IssueSearchPage{TotalCount: 4}, nil
		},
		getReadme: func(context.Context, string, string) (string, error) {
			return "# Hello", nil
		},
	}

	ov, err := application.NewRepoService(gh, discardLogger()).Overview(context.Background(), "octo", "hello")

	require.NoError(t, err)
	assert.Equal(t, "octo/hello", ov.Repo.FullName)
	assert.Equal(t, "sha-", ov.LatestCommit.SHA)
	assert.True(t, ov.TreeTruncated)
	assert.Equal(t, 4, ov.OpenPulls)
	assert.Equal(t, "# Hello", ov.Readme)

	require.Len(t, ov.TopLevel, 2)
	assert.Equal(t, "src", ov.TopLevel[0].Node.Name)
	assert.Equal(t, "sha-src", ov.TopLevel[0].Commit.SHA)
	assert.Equal(t, "sha-README.md", ov.TopLevel[1].Commit.SHA)
}

func TestRepoService_OverviewMissingRepo(t *testing.T) {
	gh := &mockGitHubClient{
		getRepository: func(context.Context, string, string) (*model.Repository, error) {
			return nil, errBoom
		},
	}

	_, err := application.NewRepoService(gh, discardLogger()).Overview(context.Background(), "octo", "nope")

	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRepoService_OverviewDegradesOptionalFields(t *testing.T) {
	gh := &mockGitHubClient{
		getTree: func(context.Context, string, string, string) (*model.Tree, error) {
			return nil, errBoom
		},
		getReadme: func(context.Context, string, string) (string, error) {
			return "", model.ErrNotFound
		},
		searchIssues: func(context.Context, model.IssueSearchQuery) (*model.IssueSearchPage, error) {
			return nil, errBoom
		},
	}

	ov, err := application.NewRepoService(gh, discardLogger()).Overview(context.Background(), "octo", "hello")

	require.NoError(t, err)
	assert.Nil(t, ov.Tree)
	assert.Empty(t, ov.TopLevel)
	assert.Empty(t, ov.Readme)
	assert.Zero(t, ov.OpenPulls)
}

func TestRepoService_OverviewRateLimitIsRaised(t *testing.T) {
	gh := &mockGitHubClient{
		getReadme: func(context.Context, string, string) (string, error) {
			return "", model.NewRateLimitError(0)
		},
	}

	_, err := application.NewRepoService(gh, discardLogger()).Overview(context.Background(), "octo", "hello")

	assert.True(t, model.IsRateLimited(err))
}

func TestRepoService_Blob(t *testing.T) {
	gh := &mockGitHubClient{
		getFileContent: func(_ context.Context, _, _, path, ref string) (string, error) {
			assert.Equal(t, "docs/guide/intro.md", path)
			assert.Equal(t, "v1.0", ref)
			return "# Intro\n", nil
		},
	}

	b, err := application.NewRepoService(gh, discardLogger()).Blob(context.Background(), "octo", "hello", "v1.0", "/docs/guide/intro.md")

	require.NoError(t, err)
	assert.Equal(t, "# Intro\n", b.Content)
	assert.True(t, b.IsMarkdown())
	assert.Nil(t, b.Folder)
	assert.Equal(t, []application.Breadcrumb{
		{Name: "docs", Href: "/octo/hello/blob/main/docs"},
		{Name: "guide", Href: "/octo/hello/blob/main/docs/guide"},
		{Name: "intro.md"},
	}, b.Breadcrumbs)
}

func TestRepoService_BlobRepoFailureFallsBackToRef(t *testing.T) {
	gh := &mockGitHubClient{
		getRepository: func(context.Context, string, string) (*model.Repository, error) {
			return nil, errBoom
		},
		getFileContent: func(context.Context, string, string, string, string) (string, error) {
			return "x", nil
		},
	}

	b, err := application.NewRepoService(gh, discardLogger()).Blob(context.Background(), "octo", "hello", "dev", "a/b.go")

	require.NoError(t, err)
	assert.Equal(t, "/octo/hello/blob/dev/a", b.Breadcrumbs[0].Href)
	assert.False(t, b.IsMarkdown())
	assert.Equal(t, []string{"x"}, b.Lines())
}

func TestRepoService_BlobFolder(t *testing.T) {
	gh := &mockGitHubClient{
		getTree: func(context.Context, string, string, string) (*model.Tree, error) {
			return &model.Tree{Entries: []model.TreeEntry{blob("docs/guide/intro.md"), blob("docs/faq.md")}}, nil
		},
	}

	b, err := application.NewRepoService(gh, discardLogger()).Blob(context.Background(), "octo", "hello", "main", "docs")

	require.NoError(t, err)
	require.NotNil(t, b.Folder)
	assert.Equal(t, []string{"guide", "faq.md"}, names(b.Folder.Children))
}

func TestRepoService_BlobMissing(t *testing.T) {
	gh := &mockGitHubClient{
		getTree: func(context.Context, string, string, string) (*model.Tree, error) {
			return &model.Tree{Entries: []model.TreeEntry{blob("docs/faq.md")}}, nil
		},
	}
	svc := application.NewRepoService(gh, discardLogger())

	_, err := svc.Blob(context.Background(), "octo", "hello", "main", "nope.txt")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = svc.Blob(context.Background(), "octo", "hello", "main", "docs/faq.md/deeper")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = svc.Blob(context.Background(), "octo", "hello", "main", "/")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRepoService_BlobRateLimit(t *testing.T) {
	gh := &mockGitHubClient{
		getFileContent: func(context.Context, string, string, string, string) (string, error) {
			return "", model.NewRateLimitError(0)
		},
	}

	_, err := application.NewRepoService(gh, discardLogger()).Blob(context.Background(), "octo", "hello", "main", "a.go")

	assert.True(t, model.IsRateLimited(err))
}
