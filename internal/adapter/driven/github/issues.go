package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/ghmirror/internal/domain/model"
)

const maxPerPage = 100

// ListIssues returns one page of issues. GitHub's issue listing includes pull
// requests; those are kept and marked so the caller can drop them.
func (c *Client) ListIssues(ctx context.Context, owner, name string, state model.ListState, page, perPage int) ([]model.Issue, error) {
	opts := &gh.IssueListByRepoOptions{
		State:       string(state),
		Sort:        "created",
		Direction:   "desc",
		ListOptions: gh.ListOptions{Page: page, PerPage: perPage},
	}

	issues, resp, err := c.gh.Issues.ListByRepo(ctx, owner, name, opts)
	if err != nil {
		return nil, wrapError(fmt.Sprintf("listing issues for %s/%s", owner, name), err)
	}

	c.logRateLimit(resp, owner+"/"+name+"/issues", page, len(issues))

	out := make([]model.Issue, 0, len(issues))
	for _, issue := range issues {
		out = append(out, mapIssue(issue))
	}
	return out, nil
}

// GetIssue returns a single issue.
func (c *Client) GetIssue(ctx context.Context, owner, name string, number int) (*model.Issue, error) {
	issue, resp, err := c.gh.Issues.Get(ctx, owner, name, number)
	if err != nil {
		return nil, wrapError(fmt.Sprintf("getting issue %s/%s#%d", owner, name, number), err)
	}

	c.logRateLimit(resp, owner+"/"+name+"/issues", 0, 1)

	out := mapIssue(issue)
	return &out, nil
}

// ListIssueComments returns all conversation comments of an issue or pull request.
func (c *Client) ListIssueComments(ctx context.Context, owner, name string, number int) ([]model.Comment, error) {
	var all []model.Comment
	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: maxPerPage},
	}

	for {
		comments, resp, err := c.gh.Issues.ListComments(ctx, owner, name, number, opts)
		if err != nil {
			return nil, wrapError(fmt.Sprintf("listing comments for %s/%s#%d", owner, name, number), err)
		}

		c.logRateLimit(resp, owner+"/"+name+"/comments", opts.Page, len(comments))

		for _, comment := range comments {
			all = append(all, mapComment(comment))
		}

		if opts.Page = nextPage(resp); opts.Page == 0 {
			break
		}
	}

	return all, nil
}

// timelineUser is the subset of a GitHub account used by timeline events.
type timelineUser struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

// timelineEvent is the wire shape of one issue timeline record. It is decoded
// directly because the typed go-github struct omits fields rendered here.
type timelineEvent struct {
	ID                int64         `json:"id"`
	Event             string        `json:"event"`
	Actor             *timelineUser `json:"actor"`
	User              *timelineUser `json:"user"`
	CreatedAt         *time.Time    `json:"created_at"`
	Body              string        `json:"body"`
	AuthorAssociation string        `json:"author_association"`
	Label             *struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	} `json:"label"`
	Milestone *struct {
		Title string `json:"title"`
	} `json:"milestone"`
	Rename *struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"rename"`
	Assignee          *timelineUser `json:"assignee"`
	RequestedReviewer *timelineUser `json:"requested_reviewer"`
	LockReason        string        `json:"lock_reason"`
	CommitID          string        `json:"commit_id"`
	SHA               string        `json:"sha"`
	Message           string        `json:"message"`
	Source            *struct {
		Issue *struct {
			Number int `json:"number"`
		} `json:"issue"`
	} `json:"source"`
	// Committed events carry git author data instead of created_at.
	Author *struct {
		Date *time.Time `json:"date"`
	} `json:"author"`
}

// ListTimelineEvents returns the full timeline of an issue or pull request.
func (c *Client) ListTimelineEvents(ctx context.Context, owner, name string, number int) ([]model.TimelineEvent, error) {
	var all []model.TimelineEvent
	page := 1

	for page != 0 {
		u := fmt.Sprintf("repos/%v/%v/issues/%d/timeline?per_page=%d&page=%d", owner, name, number, maxPerPage, page)
		req, err := c.gh.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("building timeline request: %w", err)
		}

		var events []timelineEvent
		resp, err := c.gh.Do(ctx, req, &events)
		if err != nil {
			return nil, wrapError(fmt.Sprintf("listing timeline for %s/%s#%d", owner, name, number), err)
		}

		c.logRateLimit(resp, owner+"/"+name+"/timeline", page, len(events))

		for _, e := range events {
			all = append(all, mapTimelineEvent(e))
		}
		page = nextPage(resp)
	}

	return all, nil
}

func mapTimelineUser(u *timelineUser) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{Login: u.Login, AvatarURL: u.AvatarURL, HTMLURL: u.HTMLURL}
}

func mapTimelineEvent(e timelineEvent) model.TimelineEvent {
	out := model.TimelineEvent{
		ID:                e.ID,
		Kind:              model.EventKind(e.Event),
		Actor:             mapTimelineUser(e.Actor),
		User:              mapTimelineUser(e.User),
		Body:              e.Body,
		AuthorAssociation: model.AuthorAssociation(e.AuthorAssociation),
		Assignee:          mapTimelineUser(e.Assignee),
		RequestedReviewer: mapTimelineUser(e.RequestedReviewer),
		LockReason:        e.LockReason,
		CommitID:          e.CommitID,
		SHA:               e.SHA,
		Message:           e.Message,
	}

	switch {
	case e.CreatedAt != nil:
		out.CreatedAt = *e.CreatedAt
	case e.Author != nil && e.Author.Date != nil:
		out.CreatedAt = *e.Author.Date
	}
	if e.Label != nil {
		out.Label = &model.Label{Name: e.Label.Name, Color: e.Label.Color}
	}
	if e.Milestone != nil {
		out.MilestoneTitle = e.Milestone.Title
	}
	if e.Rename != nil {
		out.Rename = &model.Rename{From: e.Rename.From, To: e.Rename.To}
	}
	if e.Source != nil && e.Source.Issue != nil {
		out.SourceIssue = e.Source.Issue.Number
	}
	return out
}
