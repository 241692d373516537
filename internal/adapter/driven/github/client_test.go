package github_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ghAdapter "github.com/ericfisherdev/ghmirror/internal/adapter/driven/github"
	"github.com/ericfisherdev/ghmirror/internal/domain/model"
)

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler) (*ghAdapter.Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := ghAdapter.NewClientWithHTTPClient(server.Client(), server.URL+"/")
	require.NoError(t, err)

	return client, server
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestGetRepository_MapsMetadata(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/hello", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"name":              "hello",
			"full_name":         "octo/hello",
			"description":       "Hello world",
			"homepage":          "https://hello.dev",
			"default_branch":    "trunk",
			"stargazers_count":  1234,
			"forks_count":       56,
			"subscribers_count": 7,
			"open_issues_count": 3,
			"owner":             map[string]any{"login": "octo", "avatar_url": "https://avatars/octo"},
			"license":           map[string]any{"spdx_id": "MIT", "name": "MIT License"},
		})
	})

	client, _ := newTestClient(t, mux)
	repo, err := client.GetRepository(context.Background(), "octo", "hello")

	require.NoError(t, err)
	assert.Equal(t, "octo/hello", repo.FullName)
	assert.Equal(t, "trunk", repo.DefaultBranch)
	assert.Equal(t, "octo", repo.Owner.Login)
	assert.Equal(t, "https://avatars/octo", repo.Owner.AvatarURL)
	assert.Equal(t, 1234, repo.StargazersCount)
	assert.Equal(t, 56, repo.ForksCount)
	assert.Equal(t, 7, repo.SubscribersCount)
	assert.Equal(t, "MIT License", repo.License)
}

func TestGetRepository_NotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(t, w, map[string]string{"message": "Not Found"})
	})

	client, _ := newTestClient(t, handler)
	_, err := client.GetRepository(context.Background(), "octo", "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.False(t, model.IsRateLimited(err))
}

func TestErrors_RateLimitClassification(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		message     string
		headers     map[string]string
		wantLimited bool
		wantReset   int64
	}{
		{
			name:        "429 without message",
			status:      http.StatusTooManyRequests,
			wantLimited: true,
		},
		{
			name:        "403 with rate limit message and reset header",
			status:      http.StatusForbidden,
			message:     "API rate limit exceeded for 1.2.3.4.",
			headers:     map[string]string{"X-RateLimit-Reset": "1767225600"},
			wantLimited: true,
			wantReset:   1767225600,
		},
		{
			name:        "403 with exhausted quota header",
			status:      http.StatusForbidden,
			message:     "API rate limit exceeded",
			headers:     map[string]string{"X-RateLimit-Remaining": "0", "X-RateLimit-Reset": "1767225600"},
			wantLimited: true,
			wantReset:   1767225600,
		},
		{
			name:    "403 bad credentials",
			status:  http.StatusForbidden,
			message: "Bad credentials",
		},
		{
			name:    "403 bad credentials with exhausted quota header",
			status:  http.StatusForbidden,
			message: "Bad credentials",
			headers: map[string]string{"X-RateLimit-Remaining": "0", "X-RateLimit-Reset": "1767225600"},
		},
		{
			name:    "500 mentioning rate limit",
			status:  http.StatusInternalServerError,
			message: "rate limit backend unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.headers {
					w.Header().Set(k, v)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				if tt.message != "" {
					fmt.Fprintf(w, `{"message":%q}`, tt.message)
				}
			})

			client, _ := newTestClient(t, handler)
			_, err := client.GetRepository(context.Background(), "octo", "hello")

			require.Error(t, err)
			assert.Equal(t, tt.wantLimited, model.IsRateLimited(err))

			if tt.wantReset != 0 {
				var rl *model.RateLimitError
				require.ErrorAs(t, err, &rl)
				require.NotNil(t, rl.ResetAt)
				assert.Equal(t, tt.wantReset, rl.ResetAt.Unix())
			}
		})
	}
}

func TestClassifyRateLimit(t *testing.T) {
	header := http.Header{}
	header.Set("X-RateLimit-Reset", "1700000000")

	rl := ghAdapter.ClassifyRateLimit(http.StatusTooManyRequests, "", nil)
	require.NotNil(t, rl)
	assert.Nil(t, rl.ResetAt)

	rl = ghAdapter.ClassifyRateLimit(http.StatusForbidden, "You have exceeded a secondary RATE LIMIT", header)
	require.NotNil(t, rl)
	require.NotNil(t, rl.ResetAt)
	assert.Equal(t, int64(1700000000), rl.ResetAt.Unix())

	assert.Nil(t, ghAdapter.ClassifyRateLimit(http.StatusForbidden, "Resource not accessible by integration", header))
	assert.Nil(t, ghAdapter.ClassifyRateLimit(http.StatusNotFound, "rate limit", header))
}

func TestGetTree_RequestsRecursiveListing(t *testing.T) {
	var gotRecursive string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/hello/git/trees/main", func(w http.ResponseWriter, r *http.Request) {
		gotRecursive = r.URL.Query().Get("recursive")
		writeJSON(t, w, map[string]any{
			"sha":       "abc",
			"truncated": true,
			"tree": []map[string]string{
				{"path": "src", "type": "tree", "sha": "1"},
				{"path": "src/main.go", "type": "blob", "sha": "2"},
			},
		})
	})

	client, _ := newTestClient(t, mux)
	tree, err := client.GetTree(context.Background(), "octo", "hello", "main")

	require.NoError(t, err)
	assert.NotEmpty(t, gotRecursive)
	assert.True(t, tree.Truncated)
	require.Len(t, tree.Entries, 2)
	assert.Equal(t, model.TreeEntry{Path: "src", Type: model.TreeEntryTree, SHA: "1"}, tree.Entries[0])
	assert.Equal(t, model.TreeEntryBlob, tree.Entries[1].Type)
}

func TestGetLatestCommit(t *testing.T) {
	var gotPath, gotPerPage string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/hello/commits", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Query().Get("path")
		gotPerPage = r.URL.Query().Get("per_page")
		if gotPath == "empty" {
			writeJSON(t, w, []any{})
			return
		}
		writeJSON(t, w, []map[string]any{{
			"sha": "0123456789abcdef",
			"commit": map[string]any{
				"message": "Fix parser\n\nLonger body",
				"author":  map[string]any{"name": "Alice", "date": "2026-01-02T03:04:05Z"},
			},
			"author": map[string]any{"login": "alice"},
		}})
	})

	client, _ := newTestClient(t, mux)

	commit, err := client.GetLatestCommit(context.Background(), "octo", "hello", "src/parser.go")
	require.NoError(t, err)
	require.NotNil(t, commit)
	assert.Equal(t, "src/parser.go", gotPath)
	assert.Equal(t, "1", gotPerPage)
	assert.Equal(t, "Fix parser", commit.Headline())
	assert.Equal(t, "0123456", commit.ShortSHA())
	assert.Equal(t, "Alice", commit.AuthorName)
	require.NotNil(t, commit.Author)
	assert.Equal(t, "alice", commit.Author.Login)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), commit.AuthoredAt.UTC())

	commit, err = client.GetLatestCommit(context.Background(), "octo", "hello", "empty")
	require.NoError(t, err)
	assert.Nil(t, commit)
}

func TestGetReadme_RequestsRawMarkdown(t *testing.T) {
	var gotAccept string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/hello/readme", func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/vnd.github.raw")
		fmt.Fprint(w, "# Hello\n\nWorld")
	})

	client, _ := newTestClient(t, mux)
	readme, err := client.GetReadme(context.Background(), "octo", "hello")

	require.NoError(t, err)
	assert.Equal(t, "application/vnd.github.raw+json", gotAccept)
	assert.Equal(t, "# Hello\n\nWorld", readme)
}

func TestGetFileContent(t *testing.T) {
	var gotRef string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/hello/contents/src/main.go", func(w http.ResponseWriter, r *http.Request) {
		gotRef = r.URL.Query().Get("ref")
		writeJSON(t, w, map[string]any{
			"type":     "file",
			"encoding": "base64",
			"path":     "src/main.go",
			"content":  base64.StdEncoding.EncodeToString([]byte("package main\n")),
		})
	})
	mux.HandleFunc("GET /repos/octo/hello/contents/src", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []map[string]any{{"type": "file", "path": "src/main.go"}})
	})

	client, _ := newTestClient(t, mux)

	content, err := client.GetFileContent(context.Background(), "octo", "hello", "src/main.go", "v1.0")
	require.NoError(t, err)
	assert.Equal(t, "v1.0", gotRef)
	assert.Equal(t, "package main\n", content)

	_, err = client.GetFileContent(context.Background(), "octo", "hello", "src", "v1.0")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSearchRepositories(t *testing.T) {
	var gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search/repositories", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		writeJSON(t, w, map[string]any{
			"total_count": 1,
			"items": []map[string]any{{
				"id":               10270250,
				"full_name":        "facebook/react",
				"description":      "The library for web and native user interfaces.",
				"stargazers_count": 230000,
				"owner":            map[string]any{"login": "facebook", "avatar_url": "https://avatars/fb"},
			}},
		})
	})

	client, _ := newTestClient(t, mux)
	results, err := client.SearchRepositories(context.Background(), "react")

	require.NoError(t, err)
	assert.Equal(t, "react", gotQuery)
	require.Len(t, results, 1)
	assert.Equal(t, model.SearchResult{
		ID:              10270250,
		FullName:        "facebook/react",
		Description:     "The library for web and native user interfaces.",
		Owner:           model.Owner{Login: "facebook", AvatarURL: "https://avatars/fb"},
		StargazersCount: 230000,
	}, results[0])
}

func TestSearchIssues_PassesSortAndPaging(t *testing.T) {
	var got map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search/issues", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		got = map[string]string{
			"q":        q.Get("q"),
			"sort":     q.Get("sort"),
			"order":    q.Get("order"),
			"page":     q.Get("page"),
			"per_page": q.Get("per_page"),
		}
		writeJSON(t, w, map[string]any{
			"total_count": 42,
			"items": []map[string]any{
				{"number": 7, "title": "Crash on start", "state": "open", "comments": 3},
			},
		})
	})

	client, _ := newTestClient(t, mux)
	page, err := client.SearchIssues(context.Background(), model.IssueSearchQuery{
		Expression: "repo:octo/hello is:issue is:open crash",
		Page:       2,
		PerPage:    25,
		Sort:       "created",
		Order:      "desc",
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"q":        "repo:octo/hello is:issue is:open crash",
		"sort":     "created",
		"order":    "desc",
		"page":     "2",
		"per_page": "25",
	}, got)
	assert.Equal(t, 42, page.TotalCount)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 7, page.Items[0].Number)
	assert.Equal(t, 3, page.Items[0].Comments)
}

func TestListIssues_MarksPullRequests(t *testing.T) {
	var gotState string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/hello/issues", func(w http.ResponseWriter, r *http.Request) {
		gotState = r.URL.Query().Get("state")
		writeJSON(t, w, []map[string]any{
			{"number": 1, "title": "Real issue", "state": "closed", "labels": []map[string]string{{"name": "bug", "color": "d73a4a"}}},
			{"number": 2, "title": "Actually a PR", "state": "closed", "pull_request": map[string]string{"url": "https://api/pulls/2"}},
		})
	})

	client, _ := newTestClient(t, mux)
	issues, err := client.ListIssues(context.Background(), "octo", "hello", model.ListStateClosed, 1, 25)

	require.NoError(t, err)
	assert.Equal(t, "closed", gotState)
	require.Len(t, issues, 2)
	assert.False(t, issues[0].IsPullRequest)
	assert.Equal(t, []model.Label{{Name: "bug", Color: "d73a4a"}}, issues[0].Labels)
	assert.True(t, issues[1].IsPullRequest)
}

func TestListTimelineEvents_DecodesKinds(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/hello/issues/5/timeline", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []map[string]any{
			{
				"id": 1, "event": "commented", "body": "Looks good",
				"user": map[string]any{"login": "bob"}, "author_association": "MEMBER",
				"created_at": "2026-01-01T00:00:00Z",
			},
			{
				"id": 2, "event": "labeled", "actor": map[string]any{"login": "alice"},
				"label": map[string]any{"name": "bug", "color": "d73a4a"},
			},
			{"id": 3, "event": "renamed", "rename": map[string]any{"from": "Old", "to": "New"}},
			{"id": 4, "event": "locked", "lock_reason": "spam"},
			{"id": 5, "event": "cross-referenced", "source": map[string]any{"issue": map[string]any{"number": 9}}},
			{
				"event": "committed", "sha": "fedcba9876543210", "message": "Fix #5",
				"author": map[string]any{"name": "Alice", "date": "2026-01-03T00:00:00Z"},
			},
			{"id": 6, "event": "milestoned", "milestone": map[string]any{"title": "v2"}},
		})
	})

	client, _ := newTestClient(t, mux)
	events, err := client.ListTimelineEvents(context.Background(), "octo", "hello", 5)

	require.NoError(t, err)
	require.Len(t, events, 7)

	assert.Equal(t, model.EventCommented, events[0].Kind)
	assert.Equal(t, "bob", events[0].Participant().Login)
	assert.Equal(t, model.AssociationMember, events[0].AuthorAssociation)

	require.NotNil(t, events[1].Label)
	assert.Equal(t, "bug", events[1].Label.Name)
	assert.Equal(t, "alice", events[1].Participant().Login)

	assert.Equal(t, &model.Rename{From: "Old", To: "New"}, events[2].Rename)
	assert.Equal(t, "spam", events[3].LockReason)
	assert.Equal(t, 9, events[4].SourceIssue)

	assert.Equal(t, model.EventCommitted, events[5].Kind)
	assert.Equal(t, "fedcba9876543210", events[5].SHA)
	assert.Equal(t, time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC), events[5].CreatedAt.UTC())

	assert.Equal(t, "v2", events[6].MilestoneTitle)
}

func TestListPullRequestFiles_Pagination(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/hello/pulls/3/files", func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		if page == "" || page == "1" {
			// Page 1: include Link header pointing to page 2
			w.Header().Set("Link", fmt.Sprintf(`<%s?page=2>; rel="next"`, "http://"+r.Host+r.URL.Path))
			writeJSON(t, w, []map[string]any{
				{"filename": "a.go", "status": "modified", "additions": 2, "deletions": 1, "patch": "@@ -1 +1,2 @@"},
			})
			return
		}
		// Page 2: no Link header (last page)
		writeJSON(t, w, []map[string]any{
			{"filename": "logo.png", "status": "added"},
		})
	})

	client, _ := newTestClient(t, mux)
	files, err := client.ListPullRequestFiles(context.Background(), "octo", "hello", 3)

	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.go", files[0].Filename)
	assert.Equal(t, 2, files[0].Additions)
	assert.Equal(t, "@@ -1 +1,2 @@", files[0].Patch)
	assert.Equal(t, "logo.png", files[1].Filename)
	assert.Empty(t, files[1].Patch)
}

func TestGetPullRequest_MapsBranchesAndMerge(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/hello/pulls/3", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"number":        3,
			"title":         "Add feature",
			"state":         "closed",
			"merged":        true,
			"merged_at":     "2026-02-01T00:00:00Z",
			"head":          map[string]any{"ref": "feature"},
			"base":          map[string]any{"ref": "main"},
			"additions":     10,
			"deletions":     4,
			"changed_files": 2,
			"user":          map[string]any{"login": "carol"},
		})
	})

	client, _ := newTestClient(t, mux)
	pr, err := client.GetPullRequest(context.Background(), "octo", "hello", 3)

	require.NoError(t, err)
	assert.True(t, pr.IsMerged())
	assert.Equal(t, "feature", pr.HeadRef)
	assert.Equal(t, "main", pr.BaseRef)
	assert.Equal(t, 10, pr.Additions)
	assert.Equal(t, 2, pr.ChangedFiles)
	assert.Equal(t, "carol", pr.User.Login)
}

func TestNewClient_CachesWithinTTL(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(t, w, map[string]any{"full_name": "octo/hello"})
	}))
	t.Cleanup(server.Close)

	client, err := ghAdapter.NewClient(ghAdapter.Options{BaseURL: server.URL, CacheTTL: time.Minute})
	require.NoError(t, err)

	for range 3 {
		repo, err := client.GetRepository(context.Background(), "octo", "hello")
		require.NoError(t, err)
		assert.Equal(t, "octo/hello", repo.FullName)
	}

	assert.Equal(t, int32(1), hits.Load(), "repeat reads inside the window are served from cache")
}

func TestNewClient_ZeroTTLAlwaysFetches(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(t, w, map[string]any{"full_name": "octo/hello"})
	}))
	t.Cleanup(server.Close)

	client, err := ghAdapter.NewClient(ghAdapter.Options{BaseURL: server.URL})
	require.NoError(t, err)

	for range 2 {
		_, err := client.GetRepository(context.Background(), "octo", "hello")
		require.NoError(t, err)
	}

	assert.Equal(t, int32(2), hits.Load())
}

func TestNewClient_SecondaryRateLimitFailsFast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "5")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"You have exceeded a secondary rate limit","documentation_url":"https://docs.github.com/rest/overview/rate-limits-for-the-rest-api#about-secondary-rate-limits"}`)
	}))
	t.Cleanup(server.Close)

	client, err := ghAdapter.NewClient(ghAdapter.Options{BaseURL: server.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	start := time.Now()
	_, err = client.GetRepository(ctx, "octo", "hello")
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, elapsed, time.Second, "the limiter must not sleep out the Retry-After window")
	require.True(t, model.IsRateLimited(err))

	var rl *model.RateLimitError
	require.ErrorAs(t, err, &rl)
	require.NotNil(t, rl.ResetAt)
	assert.WithinDuration(t, start.Add(5*time.Second), *rl.ResetAt, 2*time.Second)
}

func TestNewClient_PrimaryRateLimitBlocksUntilReset(t *testing.T) {
	reset := time.Now().Add(time.Hour).Unix()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Resource", "core")
		w.Header().Set("X-RateLimit-Reset", fmt.Sprint(reset))
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"API rate limit exceeded for 1.2.3.4."}`)
	}))
	t.Cleanup(server.Close)

	client, err := ghAdapter.NewClient(ghAdapter.Options{BaseURL: server.URL})
	require.NoError(t, err)

	for range 2 {
		_, err := client.GetRepository(context.Background(), "octo", "hello")
		require.Error(t, err)
		require.True(t, model.IsRateLimited(err), "got %v", err)

		var rl *model.RateLimitError
		require.ErrorAs(t, err, &rl)
		require.NotNil(t, rl.ResetAt)
		assert.Equal(t, reset, rl.ResetAt.Unix())
	}

	assert.Equal(t, int32(1), hits.Load(), "requests before the reset are refused locally")
}

func TestNewClient_BadCredentialsWithExhaustedQuotaIsNotRateLimited(t *testing.T) {
	tests := []struct {
		name     string
		resource string
	}{
		{name: "known resource category", resource: "core"},
		{name: "no resource header"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", fmt.Sprint(time.Now().Add(time.Hour).Unix()))
				if tt.resource != "" {
					w.Header().Set("X-RateLimit-Resource", tt.resource)
				}
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprint(w, `{"message":"Bad credentials"}`)
			}))
			t.Cleanup(server.Close)

			client, err := ghAdapter.NewClient(ghAdapter.Options{BaseURL: server.URL, Token: "expired"})
			require.NoError(t, err)

			_, err = client.GetRepository(context.Background(), "octo", "hello")

			require.Error(t, err)
			assert.False(t, model.IsRateLimited(err))
			assert.Contains(t, err.Error(), "Bad credentials")
		})
	}
}
