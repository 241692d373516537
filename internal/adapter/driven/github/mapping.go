package github

import (
	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/ghmirror/internal/domain/model"
)

func mapUser(u *gh.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Login:     u.GetLogin(),
		AvatarURL: u.GetAvatarURL(),
		HTMLURL:   u.GetHTMLURL(),
	}
}

func mapRepository(r *gh.Repository) *model.Repository {
	repo := &model.Repository{
		Name:             r.GetName(),
		FullName:         r.GetFullName(),
		Description:      r.GetDescription(),
		Homepage:         r.GetHomepage(),
		HTMLURL:          r.GetHTMLURL(),
		Private:          r.GetPrivate(),
		DefaultBranch:    r.GetDefaultBranch(),
		StargazersCount:  r.GetStargazersCount(),
		ForksCount:       r.GetForksCount(),
		WatchersCount:    r.GetWatchersCount(),
		SubscribersCount: r.GetSubscribersCount(),
		OpenIssuesCount:  r.GetOpenIssuesCount(),
		UpdatedAt:        r.GetUpdatedAt().Time,
	}
	if owner := mapUser(r.GetOwner()); owner != nil {
		repo.Owner = *owner
	}
	if r.License != nil {
		repo.License = r.GetLicense().GetName()
		if repo.License == "" {
			repo.License = r.GetLicense().GetSPDXID()
		}
	}
	return repo
}

func mapRepositoryCommit(c *gh.RepositoryCommit) model.CommitSummary {
	commit := c.GetCommit()
	return model.CommitSummary{
		SHA:        c.GetSHA(),
		Message:    commit.GetMessage(),
		AuthorName: commit.GetAuthor().GetName(),
		AuthoredAt: commit.GetAuthor().GetDate().Time,
		Author:     mapUser(c.GetAuthor()),
	}
}

func mapLabels(labels []*gh.Label) []model.Label {
	out := make([]model.Label, 0, len(labels))
	for _, l := range labels {
		out = append(out, model.Label{
			ID:          l.GetID(),
			Name:        l.GetName(),
			Color:       l.GetColor(),
			Description: l.GetDescription(),
		})
	}
	return out
}

func mapIssue(i *gh.Issue) model.Issue {
	return model.Issue{
		Number:            i.GetNumber(),
		Title:             i.GetTitle(),
		State:             i.GetState(),
		Body:              i.GetBody(),
		HTMLURL:           i.GetHTMLURL(),
		User:              mapUser(i.GetUser()),
		Labels:            mapLabels(i.Labels),
		Comments:          i.GetComments(),
		AuthorAssociation: model.AuthorAssociation(i.GetAuthorAssociation()),
		IsPullRequest:     i.IsPullRequest(),
		CreatedAt:         i.GetCreatedAt().Time,
		UpdatedAt:         i.GetUpdatedAt().Time,
	}
}

func mapComment(c *gh.IssueComment) model.Comment {
	return model.Comment{
		ID:                c.GetID(),
		Author:            mapUser(c.GetUser()),
		Body:              c.GetBody(),
		AuthorAssociation: model.AuthorAssociation(c.GetAuthorAssociation()),
		CreatedAt:         c.GetCreatedAt().Time,
	}
}

func mapPullRequest(pr *gh.PullRequest) model.PullRequest {
	return model.PullRequest{
		Number:         pr.GetNumber(),
		Title:          pr.GetTitle(),
		State:          pr.GetState(),
		Body:           pr.GetBody(),
		HTMLURL:        pr.GetHTMLURL(),
		User:           mapUser(pr.GetUser()),
		Labels:         mapLabels(pr.Labels),
		Comments:       pr.GetComments(),
		ReviewComments: pr.GetReviewComments(),
		Draft:          pr.GetDraft(),
		Merged:         pr.GetMerged(),
		MergedAt:       pr.GetMergedAt().Time,
		HeadRef:        pr.GetHead().GetRef(),
		BaseRef:        pr.GetBase().GetRef(),
		Additions:      pr.GetAdditions(),
		Deletions:      pr.GetDeletions(),
		ChangedFiles:   pr.GetChangedFiles(),
		MergeableState: pr.GetMergeableState(),
		CreatedAt:      pr.GetCreatedAt().Time,
		UpdatedAt:      pr.GetUpdatedAt().Time,
	}
}

func mapPRFile(f *gh.CommitFile) model.PRFile {
	return model.PRFile{
		SHA:       f.GetSHA(),
		Filename:  f.GetFilename(),
		Status:    f.GetStatus(),
		Additions: f.GetAdditions(),
		Deletions: f.GetDeletions(),
		Changes:   f.GetChanges(),
		Patch:     f.GetPatch(),
	}
}
