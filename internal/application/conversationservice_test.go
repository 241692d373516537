package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/ghmirror/internal/application"
	"github.com/ericfisherdev/ghmirror/internal/domain/model"
)

func TestParseNumber(t *testing.T) {
	n, err := application.ParseNumber("42")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	for _, bad := range []string{"", "abc", "0", "-3", "4x"} {
		_, err := application.ParseNumber(bad)
		assert.ErrorIs(t, err, model.ErrNotFound, "input %q", bad)
	}
}

func TestParsePullTab(t *testing.T) {
	assert.Equal(t, application.TabCommits, application.ParsePullTab("commits"))
	assert.Equal(t, application.TabFiles, application.ParsePullTab("files"))
	assert.Equal(t, application.TabConversation, application.ParsePullTab(""))
	assert.Equal(t, application.TabConversation, application.ParsePullTab("checks"))
}

func TestConversationService_Issue(t *testing.T) {
	gh := &mockGitHubClient{
		getIssue: func(_ context.Context, _, _ string, number int) (*model.Issue, error) {
			return &model.Issue{Number: number, Body: "It crashes", User: bob, AuthorAssociation: model.AssociationNone}, nil
		},
		listTimelineEvents: func(context.Context, string, string, int) ([]model.TimelineEvent, error) {
			return []model.TimelineEvent{
				{Kind: model.EventCommented, Body: "Same here", User: alice, AuthorAssociation: model.AssociationContributor},
				{Kind: model.EventClosed, Actor: carol},
			}, nil
		},
	}

	detail, err := application.NewConversationService(gh, discardLogger()).Issue(context.Background(), "octo", "hello", 5)

	require.NoError(t, err)
	assert.Equal(t, 5, detail.Issue.Number)
	require.Len(t, detail.Timeline.Entries, 3)
	assert.Equal(t, model.AssociationOwner, detail.Timeline.Entries[0].Comment.Association)
	assert.Equal(t, []model.User{*bob, *alice, *carol}, detail.Timeline.Participants)
}

func TestConversationService_IssueTimelineFallsBackToComments(t *testing.T) {
	gh := &mockGitHubClient{
		getIssue: func(context.Context, string, string, int) (*model.Issue, error) {
			return &model.Issue{User: bob}, nil
		},
		listTimelineEvents: func(context.Context, string, string, int) ([]model.TimelineEvent, error) {
			return nil, errBoom
		},
		listIssueComments: func(context.Context, string, string, int) ([]model.Comment, error) {
			return []model.Comment{{Author: alice, Body: "hello"}}, nil
		},
	}

	detail, err := application.NewConversationService(gh, discardLogger()).Issue(context.Background(), "octo", "hello", 1)

	require.NoError(t, err)
	require.Len(t, detail.Timeline.Entries, 1)
	assert.Equal(t, application.EntryComment, detail.Timeline.Entries[0].Kind)
	assert.Equal(t, model.AssociationNone, detail.Timeline.Entries[0].Comment.Association)
}

func TestConversationService_IssueNotFound(t *testing.T) {
	_, err := application.NewConversationService(&mockGitHubClient{}, discardLogger()).Issue(context.Background(), "octo", "hello", 404)

	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestConversationService_IssueRateLimit(t *testing.T) {
	gh := &mockGitHubClient{
		getIssue: func(context.Context, string, string, int) (*model.Issue, error) {
			return &model.Issue{}, nil
		},
		listTimelineEvents: func(context.Context, string, string, int) ([]model.TimelineEvent, error) {
			return nil, model.NewRateLimitError(0)
		},
	}

	_, err := application.NewConversationService(gh, discardLogger()).Issue(context.Background(), "octo", "hello", 1)

	assert.True(t, model.IsRateLimited(err))
}

func TestConversationService_PullTabs(t *testing.T) {
	gh := &mockGitHubClient{
		getPullRequest: func(_ context.Context, _, _ string, number int) (*model.PullRequest, error) {
			return &model.PullRequest{Number: number, User: bob, Body: "Adds X"}, nil
		},
		listTimelineEvents: func(context.Context, string, string, int) ([]model.TimelineEvent, error) {
			return []model.TimelineEvent{{Kind: model.EventMerged, Actor: alice, CommitID: "abcdef123"}}, nil
		},
		listPRCommits: func(context.Context, string, string, int) ([]model.CommitSummary, error) {
			return []model.CommitSummary{{SHA: "c1"}}, nil
		},
		listPRFiles: func(context.Context, string, string, int) ([]model.PRFile, error) {
			return []model.PRFile{{Filename: "a.go"}}, nil
		},
	}
	svc := application.NewConversationService(gh, discardLogger())

	conv, err := svc.Pull(context.Background(), "octo", "hello", 3, application.TabConversation)
	require.NoError(t, err)
	assert.Len(t, conv.Timeline.Entries, 2)
	assert.Nil(t, conv.Commits)
	assert.Nil(t, conv.Files)

	commits, err := svc.Pull(context.Background(), "octo", "hello", 3, application.TabCommits)
	require.NoError(t, err)
	assert.Equal(t, []model.CommitSummary{{SHA: "c1"}}, commits.Commits)
	assert.Empty(t, commits.Timeline.Entries)

	files, err := svc.Pull(context.Background(), "octo", "hello", 3, application.TabFiles)
	require.NoError(t, err)
	assert.Equal(t, "a.go", files.Files[0].Filename)
	assert.Equal(t, 3, files.Pull.Number)
}

func TestConversationService_PullNotFound(t *testing.T) {
	_, err := application.NewConversationService(&mockGitHubClient{}, discardLogger()).Pull(context.Background(), "octo", "hello", 9, application.TabFiles)

	assert.ErrorIs(t, err, model.ErrNotFound)
}
