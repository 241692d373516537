// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/ghmirror/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/ghmirror/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/ghmirror/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/ghmirror/internal/application"
	"github.com/ericfisherdev/ghmirror/internal/domain/model"
)

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	repos         *application.RepoService
	lists         *application.ListService
	conversations *application.ConversationService
	search        *application.SearchService
	allowList     application.AllowList
	perPage       int
	logger        *slog.Logger
	now           func() time.Time
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	repos *application.RepoService,
	lists *application.ListService,
	conversations *application.ConversationService,
	search *application.SearchService,
	allowList application.AllowList,
	perPage int,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		repos:         repos,
		lists:         lists,
		conversations: conversations,
		search:        search,
		allowList:     allowList,
		perPage:       perPage,
		logger:        logger,
		now:           time.Now,
	}
}

// Home renders the landing page.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	v := vm.HomeViewModel{Demo: h.allowList.Enabled()}
	if v.Demo {
		v.DemoRepos = toRepoLinkViewModels(h.allowList.Repos())
	}
	h.page(w, r, http.StatusOK, "", pages.Home(v))
}

// Search renders server-side repository search results on the landing page.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if h.allowList.Enabled() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	results, err := h.search.Search(r.Context(), query)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	v := vm.HomeViewModel{
		Query:    query,
		Searched: query != "",
		Results:  toSearchResultViewModels(results),
	}
	h.page(w, r, http.StatusOK, "Search", pages.Home(v))
}

// Overview renders the repository landing page.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	owner, name := r.PathValue("owner"), r.PathValue("repo")

	ov, err := h.repos.Overview(r.Context(), owner, name)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.page(w, r, http.StatusOK, owner+"/"+name, pages.Overview(toOverviewViewModel(owner, name, ov, h.now())))
}

// Blob renders a file, or a folder listing when the path names a folder.
func (h *Handler) Blob(w http.ResponseWriter, r *http.Request) {
	owner, name := r.PathValue("owner"), r.PathValue("repo")
	ref, filePath := r.PathValue("ref"), r.PathValue("path")

	blob, err := h.repos.Blob(r.Context(), owner, name, ref, filePath)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	title := fmt.Sprintf("%s at %s · %s/%s", blob.Path, ref, owner, name)
	h.page(w, r, http.StatusOK, title, pages.Blob(toBlobViewModel(owner, name, blob, h.now())))
}

// Issues renders the issue list.
func (h *Handler) Issues(w http.ResponseWriter, r *http.Request) {
	owner, name := r.PathValue("owner"), r.PathValue("repo")
	q := application.ParseListQuery(r.URL.Query(), h.perPage)

	page, err := h.lists.Issues(r.Context(), owner, name, q)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.page(w, r, http.StatusOK, "Issues · "+owner+"/"+name, pages.List(toIssueListViewModel(owner, name, q, page, h.now())))
}

// Pulls renders the pull request list.
func (h *Handler) Pulls(w http.ResponseWriter, r *http.Request) {
	owner, name := r.PathValue("owner"), r.PathValue("repo")
	q := application.ParseListQuery(r.URL.Query(), h.perPage)

	page, err := h.lists.Pulls(r.Context(), owner, name, q)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.page(w, r, http.StatusOK, "Pull requests · "+owner+"/"+name, pages.List(toPullListViewModel(owner, name, q, page, h.now())))
}

// Issue renders one issue with its conversation.
func (h *Handler) Issue(w http.ResponseWriter, r *http.Request) {
	owner, name := r.PathValue("owner"), r.PathValue("repo")

	number, err := application.ParseNumber(r.PathValue("number"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	detail, err := h.conversations.Issue(r.Context(), owner, name, number)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	title := fmt.Sprintf("%s · Issue #%d · %s/%s", detail.Issue.Title, number, owner, name)
	h.page(w, r, http.StatusOK, title, pages.Conversation(toIssueViewModel(owner, name, detail, h.now())))
}

// Pull renders one pull request tab.
func (h *Handler) Pull(w http.ResponseWriter, r *http.Request) {
	owner, name := r.PathValue("owner"), r.PathValue("repo")

	number, err := application.ParseNumber(r.PathValue("number"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	tab := application.ParsePullTab(r.URL.Query().Get("tab"))

	detail, err := h.conversations.Pull(r.Context(), owner, name, number, tab)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	title := fmt.Sprintf("%s · Pull Request #%d · %s/%s", detail.Pull.Title, number, owner, name)
	h.page(w, r, http.StatusOK, title, pages.Conversation(toPullViewModel(owner, name, detail, h.now())))
}

// NotFound renders the not-found page for unmatched paths.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.fail(w, r, model.ErrNotFound)
}

// allowed wraps a repository route so that repositories outside the
// allow-list behave as not found.
func (h *Handler) allowed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.allowList.Allows(r.PathValue("owner"), r.PathValue("repo")) {
			h.NotFound(w, r)
			return
		}
		next(w, r)
	}
}

// fail is the page-level error boundary: not found, rate limited, or a
// generic failure page.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	v := vm.ErrorViewModel{
		Status:  http.StatusInternalServerError,
		Title:   "Something went wrong",
		Message: "An unexpected error occurred while loading this page.",
	}

	var rateErr *model.RateLimitError
	switch {
	case errors.As(err, &rateErr):
		v.Status = http.StatusTooManyRequests
		v.Title = "Rate limit exceeded"
		v.Message = "GitHub's API rate limit has been reached. Please wait before trying again."
		v.RateLimit = true
		v.RetryHref = r.URL.RequestURI()
		if rateErr.ResetAt != nil {
			now := h.now()
			v.ResetUnix = rateErr.ResetAt.Unix()
			v.Countdown = application.Countdown(*rateErr.ResetAt, now)
			if secs := math.Ceil(rateErr.ResetAt.Sub(now).Seconds()); secs > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(secs)))
			}
		}
		h.logger.Warn("rate limited", "path", r.URL.Path, "error", err)
	case errors.Is(err, model.ErrNotFound):
		v.Status = http.StatusNotFound
		v.Title = "Page not found"
		v.Message = "The page you are looking for does not exist or is not available here."
	default:
		h.logger.Error("page failed", "path", r.URL.Path, "error", err)
	}

	h.page(w, r, v.Status, v.Title, pages.Error(v))
}

// page renders body inside the layout with the given status.
func (h *Handler) page(w http.ResponseWriter, r *http.Request, status int, title string, body templ.Component) {
	layout := templates.Layout(title, !h.allowList.Enabled(), body)

	templ.Handler(layout,
		templ.WithStatus(status),
		templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
			h.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "internal server error", http.StatusInternalServerError)
			})
		}),
	).ServeHTTP(w, r)
}
