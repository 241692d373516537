package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/ghmirror/internal/domain/model"
	"github.com/ericfisherdev/ghmirror/internal/domain/port/driven"
)

// ListQuery is the page/state/keyword state of an issue or pull request list.
type ListQuery struct {
	Page    int
	PerPage int
	State   model.ListState
	Query   string
}

// ParseListQuery reads a list state from URL query parameters. Missing,
// non-numeric or non-positive pages read as 1; unknown states read as open.
func ParseListQuery(values url.Values, perPage int) ListQuery {
	page, err := strconv.Atoi(values.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	return ListQuery{
		Page:    page,
		PerPage: perPage,
		State:   model.ParseListState(values.Get("state")),
		Query:   strings.TrimSpace(values.Get("q")),
	}
}

// SearchExpression builds the repository-scoped search expression for kind,
// omitting the state term for "all" and the keywords when blank.
func (q ListQuery) SearchExpression(owner, repo string, kind model.ItemKind) string {
	var b strings.Builder
	fmt.Fprintf(&b, "repo:%s/%s is:%s", owner, repo, kind)
	if q.State != model.ListStateAll {
		fmt.Fprintf(&b, " is:%s", q.State)
	}
	if q.Query != "" {
		b.WriteString(" ")
		b.WriteString(q.Query)
	}
	return b.String()
}

// Href returns the canonical URL of basePath for this query with overrides
// applied. page=1 and state=open are dropped however they were set, so the
// result is stable under re-parsing.
func (q ListQuery) Href(basePath string, overrides url.Values) string {
	values := url.Values{}
	if q.Query != "" {
		values.Set("q", q.Query)
	}
	if q.State != model.ListStateOpen && q.State != "" {
		values.Set("state", string(q.State))
	}
	for k, v := range overrides {
		values[k] = v
	}
	if values.Get("page") == "1" {
		values.Del("page")
	}
	if values.Get("state") == string(model.ListStateOpen) {
		values.Del("state")
	}

	if encoded := values.Encode(); encoded != "" {
		return basePath + "?" + encoded
	}
	return basePath
}

// Canonical returns the canonical URL of exactly this query, page included.
func (q ListQuery) Canonical(basePath string) string {
	return q.Href(basePath, url.Values{"page": {strconv.Itoa(q.Page)}})
}

// PageHref returns the canonical URL of page n of this query.
func (q ListQuery) PageHref(basePath string, n int) string {
	return q.Href(basePath, url.Values{"page": {strconv.Itoa(n)}})
}

// Pagination is the pager state of one list page.
type Pagination struct {
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevHref   string
	NextHref   string
}

// Visible reports whether there is more than one page to navigate.
func (p Pagination) Visible() bool {
	return p.TotalPages > 1
}

// Paginate computes pager links. Out-of-range pages are left as requested;
// only the previous/next links are disabled at the ends.
func Paginate(q ListQuery, totalCount int, basePath string) Pagination {
	totalPages := 0
	if q.PerPage > 0 {
		totalPages = (totalCount + q.PerPage - 1) / q.PerPage
	}

	p := Pagination{
		Page:       q.Page,
		TotalPages: totalPages,
		HasPrev:    q.Page > 1,
		HasNext:    q.Page < totalPages,
	}
	if p.HasPrev {
		p.PrevHref = q.PageHref(basePath, q.Page-1)
	}
	if p.HasNext {
		p.NextHref = q.PageHref(basePath, q.Page+1)
	}
	return p
}

// ListPage is one page of issues or pull requests with its total count.
type ListPage[T any] struct {
	Items      []T
	TotalCount int
}

// ListService answers issue and pull request list queries.
type ListService struct {
	gh     driven.GitHubClient
	logger *slog.Logger
}

// NewListService creates a ListService backed by the given gateway.
func NewListService(gh driven.GitHubClient, logger *slog.Logger) *ListService {
	return &ListService{gh: gh, logger: logger}
}

// Issues returns one page of plain issues. A keyword query goes through the
// search capability; otherwise the direct listing is used and the total is
// counted separately, with pull requests dropped from the listing.
func (s *ListService) Issues(ctx context.Context, owner, repo string, q ListQuery) (*ListPage[model.Issue], error) {
	if q.Query != "" {
		page, err := s.search(ctx, owner, repo, q, model.ItemIssue)
		if err != nil {
			return absorbList[model.Issue](s.logger, err, "issue search", owner, repo)
		}
		return &ListPage[model.Issue]{Items: page.Items, TotalCount: page.TotalCount}, nil
	}

	var (
		issues []model.Issue
		total  int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		listed, err := s.gh.ListIssues(gctx, owner, repo, q.State, q.Page, q.PerPage)
		if err != nil {
			return err
		}
		issues = make([]model.Issue, 0, len(listed))
		for _, issue := range listed {
			if !issue.IsPullRequest {
				issues = append(issues, issue)
			}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = s.count(gctx, owner, repo, q, model.ItemIssue)
		return err
	})

	if err := g.Wait(); err != nil {
		return absorbList[model.Issue](s.logger, err, "issues", owner, repo)
	}
	return &ListPage[model.Issue]{Items: issues, TotalCount: total}, nil
}

// Pulls returns one page of pull requests, using the same routing as Issues.
// Search hits carry only the issue-shaped fields of a pull request.
func (s *ListService) Pulls(ctx context.Context, owner, repo string, q ListQuery) (*ListPage[model.PullRequest], error) {
	if q.Query != "" {
		page, err := s.search(ctx, owner, repo, q, model.ItemPullRequest)
		if err != nil {
			return absorbList[model.PullRequest](s.logger, err, "pull search", owner, repo)
		}
		pulls := make([]model.PullRequest, 0, len(page.Items))
		for _, issue := range page.Items {
			pulls = append(pulls, pullFromIssue(issue))
		}
		return &ListPage[model.PullRequest]{Items: pulls, TotalCount: page.TotalCount}, nil
	}

	var (
		pulls []model.PullRequest
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pulls, err = s.gh.ListPullRequests(gctx, owner, repo, q.State, q.Page, q.PerPage)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.count(gctx, owner, repo, q, model.ItemPullRequest)
		return err
	})

	if err := g.Wait(); err != nil {
		return absorbList[model.PullRequest](s.logger, err, "pulls", owner, repo)
	}
	return &ListPage[model.PullRequest]{Items: pulls, TotalCount: total}, nil
}

func (s *ListService) search(ctx context.Context, owner, repo string, q ListQuery, kind model.ItemKind) (*model.IssueSearchPage, error) {
	return s.gh.SearchIssues(ctx, model.IssueSearchQuery{
		Expression: q.SearchExpression(owner, repo, kind),
		Page:       q.Page,
		PerPage:    q.PerPage,
		Sort:       "created",
		Order:      "desc",
	})
}

func (s *ListService) count(ctx context.Context, owner, repo string, q ListQuery, kind model.ItemKind) (int, error) {
	counted := q
	counted.Query = ""
	page, err := s.gh.SearchIssues(ctx, model.IssueSearchQuery{
		Expression: counted.SearchExpression(owner, repo, kind),
		Page:       1,
		PerPage:    1,
	})
	if err != nil {
		return 0, err
	}
	return page.TotalCount, nil
}

// absorbList passes rate-limit errors through and degrades every other
// failure to an empty page.
func absorbList[T any](logger *slog.Logger, err error, what, owner, repo string) (*ListPage[T], error) {
	if model.IsRateLimited(err) {
		return nil, err
	}
	logger.Warn("list query failed", "what", what, "repo", owner+"/"+repo, "error", err)
	return &ListPage[T]{}, nil
}

func pullFromIssue(issue model.Issue) model.PullRequest {
	return model.PullRequest{
		Number:    issue.Number,
		Title:     issue.Title,
		State:     issue.State,
		Body:      issue.Body,
		HTMLURL:   issue.HTMLURL,
		User:      issue.User,
		Labels:    issue.Labels,
		Comments:  issue.Comments,
		CreatedAt: issue.CreatedAt,
		UpdatedAt: issue.UpdatedAt,
	}
}
