package pages

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vm "github.com/ericfisherdev/ghmirror/internal/adapter/driving/web/viewmodel"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, c.Render(context.Background(), &b))
	return b.String()
}

func header() vm.RepoHeaderViewModel {
	return vm.RepoHeaderViewModel{
		Owner:      "octo",
		Name:       "hello",
		Href:       "/octo/hello",
		IssuesHref: "/octo/hello/issues",
		PullsHref:  "/octo/hello/pulls",
		Active:     "pulls",
		OpenPulls:  3,
	}
}

func TestLabelChip_Color(t *testing.T) {
	t.Parallel()

	out := render(t, labelChip(vm.LabelViewModel{Name: "bug", Color: "#d73a4a"}))
	assert.Contains(t, out, `style="--label-color:#d73a4a`)
	assert.Contains(t, out, ">bug</span>")

	out = render(t, labelChip(vm.LabelViewModel{Name: "plain"}))
	assert.Equal(t, `<span class="label">plain</span>`, out)
}

func TestRepoHeader_ActiveTabAndCounter(t *testing.T) {
	t.Parallel()

	out := render(t, repoHeader(header()))

	assert.Contains(t, out, `<span class="owner">octo</span>`)
	assert.Contains(t, out, `href="/octo/hello/pulls" class="tab active"`)
	assert.Contains(t, out, `href="/octo/hello/issues" class="tab"`)
	assert.Contains(t, out, `<span class="counter">3</span>`)
	assert.Equal(t, 1, strings.Count(out, `class="counter"`))
}

func TestBlob_CodeLinesAreEscaped(t *testing.T) {
	t.Parallel()

	out := render(t, Blob(vm.BlobViewModel{
		Header:      header(),
		Breadcrumbs: []vm.BreadcrumbViewModel{{Name: "cmd", Href: "/octo/hello/tree/main/cmd"}, {Name: "main.go"}},
		Lines:       []vm.LineViewModel{{Number: 1, Text: "package main"}, {Number: 2, Text: "// <b>"}},
	}))

	assert.Contains(t, out, `<a href="/octo/hello/tree/main/cmd">cmd</a>`)
	assert.Contains(t, out, "<strong>main.go</strong>")
	assert.Contains(t, out, `id="L2"`)
	assert.Contains(t, out, "<pre>// &lt;b&gt;</pre>")
	assert.NotContains(t, out, "<b>")
}

func TestError_CountdownOnlyWhenRateLimited(t *testing.T) {
	t.Parallel()

	limited := render(t, Error(vm.ErrorViewModel{
		Status:    429,
		Title:     "Rate limited",
		RateLimit: true,
		Countdown: "2m 5s",
		ResetUnix: 1700000125,
		RetryHref: "/octo/hello",
	}))
	assert.Contains(t, limited, `data-reset="1700000125"`)
	assert.Contains(t, limited, "<strong data-countdown>2m 5s</strong>")
	assert.Contains(t, limited, "<script>")
	assert.Contains(t, limited, `href="/octo/hello">Try again</a>`)

	missing := render(t, Error(vm.ErrorViewModel{Status: 404, Title: "Page not found"}))
	assert.Contains(t, missing, `<p class="status">404</p>`)
	assert.NotContains(t, missing, "data-reset")
	assert.NotContains(t, missing, "Try again")
}

func TestHome_EmptySearch(t *testing.T) {
	t.Parallel()

	out := render(t, Home(vm.HomeViewModel{Query: "zzz", Searched: true}))

	assert.Contains(t, out, `value="zzz"`)
	assert.Contains(t, out, "No repositories found.")
}
