// Package github implements the GitHubClient port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit/github_primary_ratelimit"
	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit/github_secondary_ratelimit"

	"github.com/ericfisherdev/ghmirror/internal/domain/model"
	"github.com/ericfisherdev/ghmirror/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// Client implements the driven.GitHubClient port using the go-github library.
type Client struct {
	gh     *gh.Client
	logger *slog.Logger
}

// Options configures NewClient.
type Options struct {
	// Token is an optional personal access token; empty means anonymous access.
	Token string
	// BaseURL overrides the REST API root (GitHub Enterprise, test doubles).
	BaseURL string
	// CacheTTL is the fixed validity window of cached GET responses. Zero
	// keeps GitHub's own caching headers (ETag revalidation only).
	CacheTTL time.Duration
	Logger   *slog.Logger
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (in-memory response cache, fresh for CacheTTL, then ETag-revalidated)
//  2. go-github-ratelimit (primary and secondary limit detection, never sleeps)
//  3. go-github (GitHub REST API client with optional PAT auth)
//
// A rate-limited request fails immediately with *model.RateLimitError so the
// page can tell the user when to retry instead of hanging on a sleep.
func NewClient(opts Options) (*Client, error) {
	logger := loggerOrDefault(opts.Logger)

	cacheTransport := httpcache.NewMemoryCacheTransport()
	cacheTransport.Transport = &maxAgeTransport{base: http.DefaultTransport, maxAge: opts.CacheTTL}
	rateLimitClient := github_ratelimit.NewClient(cacheTransport,
		github_primary_ratelimit.WithLimitDetectedCallback(func(cb *github_primary_ratelimit.CallbackContext) {
			logger.Warn("github primary rate limit reached", "category", cb.Category, "reset", cb.ResetTime)
		}),
		// WithNoSleep drops its own setting in v2.0.2; a zero single-sleep
		// limit is the same thing and passes the 403/429 straight through.
		github_secondary_ratelimit.WithSingleSleepLimit(0, func(cb *github_secondary_ratelimit.CallbackContext) {
			logger.Warn("github secondary rate limit hit", "reset", cb.ResetTime)
		}),
	)

	client := gh.NewClient(rateLimitClient)
	if opts.Token != "" {
		client = client.WithAuthToken(opts.Token)
	}
	if opts.BaseURL != "" {
		u, err := parseBaseURL(opts.BaseURL)
		if err != nil {
			return nil, err
		}
		client.BaseURL = u
	}

	return &Client{gh: client, logger: logger}, nil
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	client.BaseURL = u

	return &Client{gh: client, logger: slog.Default()}, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	return u, nil
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

// maxAgeTransport rewrites the caching headers of successful GET responses so
// httpcache serves them for a fixed window regardless of what GitHub sent.
type maxAgeTransport struct {
	base   http.RoundTripper
	maxAge time.Duration
}

func (t *maxAgeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || t.maxAge <= 0 {
		return resp, err
	}
	if req.Method == http.MethodGet && resp.StatusCode == http.StatusOK {
		resp.Header.Set("Cache-Control", fmt.Sprintf("max-age=%d", int(t.maxAge.Seconds())))
	}
	return resp, nil
}

// GetRepository returns repository metadata.
func (c *Client) GetRepository(ctx context.Context, owner, name string) (*model.Repository, error) {
	repo, resp, err := c.gh.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, wrapError(fmt.Sprintf("getting repository %s/%s", owner, name), err)
	}

	c.logRateLimit(resp, owner+"/"+name, 0, 1)

	return mapRepository(repo), nil
}

// GetTree returns the recursive tree listing of ref.
func (c *Client) GetTree(ctx context.Context, owner, name, ref string) (*model.Tree, error) {
	tree, resp, err := c.gh.Git.GetTree(ctx, owner, name, ref, true)
	if err != nil {
		return nil, wrapError(fmt.Sprintf("getting tree %s/%s@%s", owner, name, ref), err)
	}

	c.logRateLimit(resp, owner+"/"+name+"/tree", 0, len(tree.Entries))

	entries := make([]model.TreeEntry, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		entries = append(entries, model.TreeEntry{
			Path: e.GetPath(),
			Type: model.TreeEntryType(e.GetType()),
			SHA:  e.GetSHA(),
		})
	}

	return &model.Tree{
		SHA:       tree.GetSHA(),
		Truncated: tree.GetTruncated(),
		Entries:   entries,
	}, nil
}

// GetLatestCommit returns the newest commit touching path (whole repository
// when path is empty), or nil when there is none.
func (c *Client) GetLatestCommit(ctx context.Context, owner, name, path string) (*model.CommitSummary, error) {
	opts := &gh.CommitsListOptions{
		Path:        path,
		ListOptions: gh.ListOptions{PerPage: 1},
	}

	commits, resp, err := c.gh.Repositories.ListCommits(ctx, owner, name, opts)
	if err != nil {
		return nil, wrapError(fmt.Sprintf("listing commits for %s/%s path %q", owner, name, path), err)
	}

	c.logRateLimit(resp, owner+"/"+name+"/commits", 0, len(commits))

	if len(commits) == 0 {
		return nil, nil
	}
	summary := mapRepositoryCommit(commits[0])
	return &summary, nil
}

// GetReadme returns the README as raw markdown rather than rendered HTML.
func (c *Client) GetReadme(ctx context.Context, owner, name string) (string, error) {
	req, err := c.gh.NewRequest(http.MethodGet, fmt.Sprintf("repos/%v/%v/readme", owner, name), nil)
	if err != nil {
		return "", fmt.Errorf("building readme request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.raw+json")

	var buf strings.Builder
	resp, err := c.gh.Do(ctx, req, &buf)
	if err != nil {
		return "", wrapError(fmt.Sprintf("getting readme for %s/%s", owner, name), err)
	}

	c.logRateLimit(resp, owner+"/"+name+"/readme", 0, 1)

	return buf.String(), nil
}

// GetFileContent returns the decoded content of a single file at ref.
// Directories resolve to model.ErrNotFound.
func (c *Client) GetFileContent(ctx context.Context, owner, name, path, ref string) (string, error) {
	opts := &gh.RepositoryContentGetOptions{Ref: ref}
	file, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, name, path, opts)
	if err != nil {
		return "", wrapError(fmt.Sprintf("getting contents %s/%s/%s@%s", owner, name, path, ref), err)
	}

	c.logRateLimit(resp, owner+"/"+name+"/contents", 0, 1)

	if file == nil {
		return "", fmt.Errorf("%s is a directory: %w", path, model.ErrNotFound)
	}
	content, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return content, nil
}

// logRateLimit logs the GitHub API rate limit status after each call.
func (c *Client) logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	c.logger.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"cached", resp.Header.Get(httpcache.XFromCache) == "1",
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	// Cached responses replay stale rate headers.
	if resp.Header.Get(httpcache.XFromCache) == "" && resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		c.logger.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// nextPage returns the follow-up page number, or 0 when pagination is done.
func nextPage(resp *gh.Response) int {
	if resp == nil {
		return 0
	}
	return resp.NextPage
}

