package web

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	vm "github.com/ericfisherdev/ghmirror/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/ghmirror/internal/application"
	"github.com/ericfisherdev/ghmirror/internal/domain/model"
)

func repoPath(owner, name string) string {
	return "/" + owner + "/" + name
}

func blobPath(owner, name, ref, filePath string) string {
	return fmt.Sprintf("/%s/%s/blob/%s/%s", owner, name, ref, filePath)
}

func toRepoHeaderViewModel(owner, name, active string, openPulls int) vm.RepoHeaderViewModel {
	base := repoPath(owner, name)
	return vm.RepoHeaderViewModel{
		Owner:      owner,
		Name:       name,
		Href:       base,
		IssuesHref: base + "/issues",
		PullsHref:  base + "/pulls",
		Active:     active,
		OpenPulls:  openPulls,
	}
}

func toAboutViewModel(repo *model.Repository) vm.AboutViewModel {
	license := "No license"
	if repo.License != "" {
		license = strings.Replace(repo.License, "License", "license", 1)
	}

	return vm.AboutViewModel{
		Description:   repo.Description,
		Homepage:      repo.Homepage,
		HomepageLabel: strings.TrimPrefix(strings.TrimPrefix(repo.Homepage, "https://"), "http://"),
		License:       license,
		Stars:         application.CompactCount(repo.StargazersCount),
		Watchers:      application.CompactCount(repo.SubscribersCount),
		Forks:         application.CompactCount(repo.ForksCount),
	}
}

func toSegments(text, refBase string) []vm.LinkSegmentViewModel {
	segments := application.LinkifyRefs(text, refBase)
	out := make([]vm.LinkSegmentViewModel, 0, len(segments))
	for _, s := range segments {
		out = append(out, vm.LinkSegmentViewModel{Text: s.Text, Href: s.Href})
	}
	return out
}

// commitAuthor prefers the linked account, then the git author name.
func commitAuthor(c model.CommitSummary) string {
	if c.Author != nil && c.Author.Login != "" {
		return c.Author.Login
	}
	if c.AuthorName != "" {
		return c.AuthorName
	}
	return "Unknown"
}

func toCommitViewModel(c model.CommitSummary, refBase string, now time.Time) vm.CommitViewModel {
	when := ""
	if !c.AuthoredAt.IsZero() {
		when = application.RelativeDate(c.AuthoredAt, now)
	}
	return vm.CommitViewModel{
		Headline: toSegments(c.Headline(), refBase),
		Author:   commitAuthor(c),
		When:     when,
		ShortSHA: c.ShortSHA(),
	}
}

func toTreeRowViewModels(owner, name, ref string, nodes []*application.TreeNode, commits map[string]*model.CommitSummary, now time.Time) []vm.TreeRowViewModel {
	rows := make([]vm.TreeRowViewModel, 0, len(nodes))
	for _, n := range nodes {
		row := vm.TreeRowViewModel{
			Name:   n.Name,
			Href:   blobPath(owner, name, ref, n.Path),
			IsFile: n.IsFile,
		}
		if c := commits[n.Name]; c != nil {
			row.CommitHeadline = c.Headline()
			if !c.AuthoredAt.IsZero() {
				row.CommitWhen = application.RelativeDate(c.AuthoredAt, now)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func toOverviewViewModel(owner, name string, ov *application.Overview, now time.Time) vm.OverviewViewModel {
	out := vm.OverviewViewModel{
		Header:        toRepoHeaderViewModel(owner, name, "code", ov.OpenPulls),
		About:         toAboutViewModel(ov.Repo),
		DefaultBranch: ov.Repo.DefaultBranch,
		Truncated:     ov.TreeTruncated,
		ReadmeHTML:    RenderMarkdown(ov.Readme),
	}
	refBase := repoPath(owner, name) + "/pulls"
	if ov.LatestCommit != nil {
		c := toCommitViewModel(*ov.LatestCommit, refBase, now)
		out.LatestCommit = &c
	}

	nodes := make([]*application.TreeNode, 0, len(ov.TopLevel))
	commits := make(map[string]*model.CommitSummary, len(ov.TopLevel))
	for _, e := range ov.TopLevel {
		nodes = append(nodes, e.Node)
		commits[e.Node.Name] = e.Commit
	}
	out.Rows = toTreeRowViewModels(owner, name, ov.Repo.DefaultBranch, nodes, commits, now)
	return out
}

func toBlobViewModel(owner, name string, b *application.Blob, now time.Time) vm.BlobViewModel {
	out := vm.BlobViewModel{
		Header: toRepoHeaderViewModel(owner, name, "code", 0),
		Ref:    b.Ref,
		Path:   b.Path,
	}
	for _, c := range b.Breadcrumbs {
		out.Breadcrumbs = append(out.Breadcrumbs, vm.BreadcrumbViewModel{Name: c.Name, Href: c.Href})
	}

	switch {
	case b.Folder != nil:
		out.IsFolder = true
		out.Folder = toTreeRowViewModels(owner, name, b.Ref, b.Folder.Children, nil, now)
	case b.IsMarkdown():
		out.IsMarkdown = true
		out.HTML = RenderMarkdown(b.Content)
	default:
		for i, line := range b.Lines() {
			out.Lines = append(out.Lines, vm.LineViewModel{Number: i + 1, Text: line})
		}
	}
	return out
}

func toLabelViewModels(labels []model.Label) []vm.LabelViewModel {
	out := make([]vm.LabelViewModel, 0, len(labels))
	for _, l := range labels {
		out = append(out, vm.LabelViewModel{Name: l.Name, Color: labelColor(l.Color)})
	}
	return out
}

func labelColor(hex string) string {
	if hex == "" {
		return ""
	}
	return "#" + hex
}

func issueStateBadge(state string) vm.StateBadgeViewModel {
	if state == "closed" {
		return vm.StateBadgeViewModel{Label: "Closed", Class: "state-closed"}
	}
	return vm.StateBadgeViewModel{Label: "Open", Class: "state-open"}
}

func pullStateBadge(pr model.PullRequest) vm.StateBadgeViewModel {
	switch {
	case pr.IsMerged():
		return vm.StateBadgeViewModel{Label: "Merged", Class: "state-merged"}
	case pr.State == "closed":
		return vm.StateBadgeViewModel{Label: "Closed", Class: "state-closed"}
	case pr.Draft:
		return vm.StateBadgeViewModel{Label: "Draft", Class: "state-draft"}
	default:
		return vm.StateBadgeViewModel{Label: "Open", Class: "state-open"}
	}
}

func openedMeta(number int, created time.Time, author *model.User, now time.Time) string {
	meta := fmt.Sprintf("#%d opened %s", number, application.RelativeDate(created, now))
	if author != nil && author.Login != "" {
		meta += " by " + author.Login
	}
	return meta
}

func stateLinks(q application.ListQuery, base string) []vm.StateLinkViewModel {
	states := []struct {
		label string
		state model.ListState
	}{
		{"Open", model.ListStateOpen},
		{"Closed", model.ListStateClosed},
		{"All", model.ListStateAll},
	}

	out := make([]vm.StateLinkViewModel, 0, len(states))
	for _, s := range states {
		out = append(out, vm.StateLinkViewModel{
			Label:  s.label,
			Href:   q.Href(base, url.Values{"state": {string(s.state)}}),
			Active: q.State == s.state,
		})
	}
	return out
}

func toPaginationViewModel(p application.Pagination) vm.PaginationViewModel {
	return vm.PaginationViewModel{
		Visible:    p.Visible(),
		Page:       p.Page,
		TotalPages: p.TotalPages,
		PrevHref:   p.PrevHref,
		NextHref:   p.NextHref,
	}
}

func newListViewModel(owner, name, active, noun string, q application.ListQuery, total int) vm.ListViewModel {
	base := repoPath(owner, name) + "/" + active
	out := vm.ListViewModel{
		Header:     toRepoHeaderViewModel(owner, name, active, 0),
		Noun:       noun,
		Action:     base,
		Query:      q.Query,
		State:      string(q.State),
		StateLinks: stateLinks(q, base),
		TotalLabel: application.Plural(total, strings.TrimSuffix(noun, "s")),
		EmptyTitle: "No " + noun + " found",
		EmptyHint:  "There are no " + noun + " matching this filter.",
		Pager:      toPaginationViewModel(application.Paginate(q, total, base)),
	}
	if q.Query != "" {
		out.EmptyHint = "Try a different search term."
	}
	return out
}

func toIssueListViewModel(owner, name string, q application.ListQuery, page *application.ListPage[model.Issue], now time.Time) vm.ListViewModel {
	out := newListViewModel(owner, name, "issues", "issues", q, page.TotalCount)
	for _, issue := range page.Items {
		out.Rows = append(out.Rows, vm.ListRowViewModel{
			Number:   issue.Number,
			Title:    issue.Title,
			Href:     fmt.Sprintf("%s/issues/%d", repoPath(owner, name), issue.Number),
			State:    issueStateBadge(issue.State),
			Labels:   toLabelViewModels(issue.Labels),
			Meta:     openedMeta(issue.Number, issue.CreatedAt, issue.User, now),
			Comments: issue.Comments,
		})
	}
	return out
}

func toPullListViewModel(owner, name string, q application.ListQuery, page *application.ListPage[model.PullRequest], now time.Time) vm.ListViewModel {
	out := newListViewModel(owner, name, "pulls", "pull requests", q, page.TotalCount)
	out.TotalLabel = application.Plural(page.TotalCount, "pull request")
	for _, pr := range page.Items {
		out.Rows = append(out.Rows, vm.ListRowViewModel{
			Number:   pr.Number,
			Title:    pr.Title,
			Href:     fmt.Sprintf("%s/pulls/%d", repoPath(owner, name), pr.Number),
			State:    pullStateBadge(pr),
			Labels:   toLabelViewModels(pr.Labels),
			Meta:     openedMeta(pr.Number, pr.CreatedAt, pr.User, now),
			Comments: pr.Comments + pr.ReviewComments,
		})
	}
	return out
}

var partClasses = map[application.PartStyle]string{
	application.PartMuted:  "muted",
	application.PartStrong: "strong",
	application.PartStrike: "strike",
	application.PartCode:   "sha",
	application.PartLabel:  "label",
	application.PartLink:   "ref",
}

func associationBadge(a model.AuthorAssociation) string {
	switch a {
	case "", model.AssociationNone:
		return ""
	default:
		return strings.ToLower(string(a))
	}
}

func toTimelineViewModels(tl application.Timeline, now time.Time) []vm.TimelineItemViewModel {
	out := make([]vm.TimelineItemViewModel, 0, len(tl.Entries))
	for _, e := range tl.Entries {
		if e.Comment != nil {
			c := e.Comment
			item := vm.TimelineItemViewModel{
				IsComment:   true,
				Author:      "Unknown",
				Association: associationBadge(c.Association),
				When:        application.RelativeDate(c.CreatedAt, now),
				BodyHTML:    RenderMarkdown(c.Body),
			}
			if c.Author != nil {
				item.Author = c.Author.Login
				item.AvatarURL = c.Author.AvatarURL
			}
			out = append(out, item)
			continue
		}

		ev := e.Event
		item := vm.TimelineItemViewModel{
			Icon: string(ev.Icon),
			When: application.RelativeDate(ev.CreatedAt, now),
		}
		if ev.Actor != nil {
			item.AvatarURL = ev.Actor.AvatarURL
		}
		for _, p := range ev.Parts {
			item.Parts = append(item.Parts, vm.PartViewModel{
				Text:  p.Text,
				Class: partClasses[p.Style],
				Color: labelColor(p.Color),
				Href:  p.Href,
			})
		}
		out = append(out, item)
	}
	return out
}

func participantLogins(users []model.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Login)
	}
	return out
}

func toIssueViewModel(owner, name string, d *application.IssueDetail, now time.Time) vm.ConversationViewModel {
	issue := d.Issue
	author := "Unknown"
	if issue.User != nil {
		author = issue.User.Login
	}
	return vm.ConversationViewModel{
		Header:       toRepoHeaderViewModel(owner, name, "issues", 0),
		Number:       issue.Number,
		Title:        issue.Title,
		State:        issueStateBadge(issue.State),
		Author:       author,
		OpenedLine:   fmt.Sprintf("opened this issue %s · %s", issue.CreatedAt.Format(application.FullDateLayout), application.Plural(issue.Comments, "comment")),
		BackHref:     repoPath(owner, name) + "/issues",
		BackLabel:    "Back to issues",
		Labels:       toLabelViewModels(issue.Labels),
		Participants: participantLogins(d.Timeline.Participants),
		Timeline:     toTimelineViewModels(d.Timeline, now),
		Empty:        d.Timeline.Empty,
	}
}

func toPullViewModel(owner, name string, d *application.PullDetail, now time.Time) vm.ConversationViewModel {
	pr := d.Pull
	base := fmt.Sprintf("%s/pulls/%d", repoPath(owner, name), pr.Number)
	refBase := repoPath(owner, name) + "/pulls"

	out := vm.ConversationViewModel{
		Header:    toRepoHeaderViewModel(owner, name, "pulls", 0),
		IsPull:    true,
		Number:    pr.Number,
		Title:     pr.Title,
		State:     pullStateBadge(*pr),
		MergeBase: pr.BaseRef,
		MergeHead: pr.HeadRef,
		BackHref:  refBase,
		BackLabel: "Back to pull requests",
		Labels:    toLabelViewModels(pr.Labels),
		Tab:       string(d.Tab),
		Tabs: []vm.TabViewModel{
			{Label: "Conversation", Href: base, Active: d.Tab == application.TabConversation, Count: pr.Comments},
			{Label: "Commits", Href: base + "?tab=commits", Active: d.Tab == application.TabCommits},
			{Label: "Files changed", Href: base + "?tab=files", Active: d.Tab == application.TabFiles, Count: pr.ChangedFiles},
		},
	}
	if pr.User != nil {
		out.Author = pr.User.Login
	}

	switch d.Tab {
	case application.TabCommits:
		for _, c := range d.Commits {
			out.Commits = append(out.Commits, toCommitViewModel(c, refBase, now))
		}
	case application.TabFiles:
		out.FilesSummary = fmt.Sprintf("Showing %s changed with %s and %s",
			application.Plural(pr.ChangedFiles, "file"),
			application.Plural(pr.Additions, "addition"),
			application.Plural(pr.Deletions, "deletion"),
		)
		for _, f := range d.Files {
			out.Files = append(out.Files, vm.FileViewModel{
				Filename:  f.Filename,
				Status:    f.Status,
				Additions: f.Additions,
				Deletions: f.Deletions,
				PatchHTML: RenderDiffHunk(f.Patch),
			})
		}
	default:
		out.Participants = participantLogins(d.Timeline.Participants)
		out.Timeline = toTimelineViewModels(d.Timeline, now)
		out.Empty = d.Timeline.Empty
	}
	return out
}

func toSearchResultViewModels(results []model.SearchResult) []vm.SearchResultViewModel {
	out := make([]vm.SearchResultViewModel, 0, len(results))
	for _, r := range results {
		out = append(out, vm.SearchResultViewModel{
			FullName:    r.FullName,
			Href:        "/" + r.FullName,
			Description: r.Description,
			AvatarURL:   r.Owner.AvatarURL,
			Stars:       application.CompactCount(r.StargazersCount),
		})
	}
	return out
}

func toRepoLinkViewModels(refs []application.RepoRef) []vm.RepoLinkViewModel {
	out := make([]vm.RepoLinkViewModel, 0, len(refs))
	for _, r := range refs {
		out = append(out, vm.RepoLinkViewModel{FullName: r.FullName(), Href: repoPath(r.Owner, r.Name)})
	}
	return out
}
