package application

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/ghmirror/internal/domain/model"
	"github.com/ericfisherdev/ghmirror/internal/domain/port/driven"
)

// PullTab selects the sub-view of a pull request page.
type PullTab string

const (
	TabConversation PullTab = "conversation"
	TabCommits      PullTab = "commits"
	TabFiles        PullTab = "files"
)

// ParsePullTab maps the tab query parameter to a tab; unknown values show
// the conversation.
func ParsePullTab(s string) PullTab {
	switch PullTab(s) {
	case TabCommits:
		return TabCommits
	case TabFiles:
		return TabFiles
	default:
		return TabConversation
	}
}

// IssueDetail is an issue with its merged conversation.
type IssueDetail struct {
	Issue    *model.Issue
	Timeline Timeline
}

// PullDetail is a pull request with the data of the selected tab.
type PullDetail struct {
	Pull     *model.PullRequest
	Tab      PullTab
	Timeline Timeline
	Commits  []model.CommitSummary
	Files    []model.PRFile
}

// ConversationService assembles issue and pull request detail pages.
type ConversationService struct {
	gh     driven.GitHubClient
	logger *slog.Logger
}

// NewConversationService creates a ConversationService backed by the gateway.
func NewConversationService(gh driven.GitHubClient, logger *slog.Logger) *ConversationService {
	return &ConversationService{gh: gh, logger: logger}
}

// Issue loads an issue and its timeline concurrently. A missing issue is
// model.ErrNotFound; a failed timeline degrades to the plain comment list.
func (s *ConversationService) Issue(ctx context.Context, owner, name string, number int) (*IssueDetail, error) {
	full := fmt.Sprintf("%s/%s#%d", owner, name, number)

	var (
		issue  *model.Issue
		events []model.TimelineEvent
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		issue, err = s.gh.GetIssue(gctx, owner, name, number)
		if err != nil {
			return required(s.logger, err, "issue", full)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		events, err = s.events(gctx, owner, name, number)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	post := OpeningPost{Author: issue.User, Body: issue.Body, CreatedAt: issue.CreatedAt}
	return &IssueDetail{
		Issue:    issue,
		Timeline: MergeTimeline(post, events, fmt.Sprintf("/%s/%s/issues", owner, name)),
	}, nil
}

// Pull loads a pull request and, concurrently, the data its tab shows.
func (s *ConversationService) Pull(ctx context.Context, owner, name string, number int, tab PullTab) (*PullDetail, error) {
	full := fmt.Sprintf("%s/%s#%d", owner, name, number)
	detail := &PullDetail{Tab: tab}

	var events []model.TimelineEvent

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pr, err := s.gh.GetPullRequest(gctx, owner, name, number)
		if err != nil {
			return required(s.logger, err, "pull request", full)
		}
		detail.Pull = pr
		return nil
	})
	g.Go(func() error {
		switch tab {
		case TabCommits:
			commits, err := s.gh.ListPullRequestCommits(gctx, owner, name, number)
			if err != nil {
				return degrade(s.logger, err, "commits", full)
			}
			detail.Commits = commits
		case TabFiles:
			files, err := s.gh.ListPullRequestFiles(gctx, owner, name, number)
			if err != nil {
				return degrade(s.logger, err, "files", full)
			}
			detail.Files = files
		default:
			var err error
			events, err = s.events(gctx, owner, name, number)
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if tab == TabConversation {
		pr := detail.Pull
		post := OpeningPost{Author: pr.User, Body: pr.Body, CreatedAt: pr.CreatedAt}
		detail.Timeline = MergeTimeline(post, events, fmt.Sprintf("/%s/%s/pulls", owner, name))
	}
	return detail, nil
}

// events returns the timeline of an issue or pull request, falling back to
// its conversation comments when the timeline cannot be loaded.
func (s *ConversationService) events(ctx context.Context, owner, name string, number int) ([]model.TimelineEvent, error) {
	full := fmt.Sprintf("%s/%s#%d", owner, name, number)

	events, err := s.gh.ListTimelineEvents(ctx, owner, name, number)
	if err == nil {
		return events, nil
	}
	if err := degrade(s.logger, err, "timeline", full); err != nil {
		return nil, err
	}

	comments, err := s.gh.ListIssueComments(ctx, owner, name, number)
	if err != nil {
		return nil, degrade(s.logger, err, "comments", full)
	}
	return CommentsAsEvents(comments), nil
}
