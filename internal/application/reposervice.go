package application

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/ghmirror/internal/domain/model"
	"github.com/ericfisherdev/ghmirror/internal/domain/port/driven"
)

// TopLevelEntry is one row of the overview file listing.
type TopLevelEntry struct {
	Node   *TreeNode
	Commit *model.CommitSummary // nil when the lookup failed or found nothing.
}

// Overview is everything the repository landing page shows.
type Overview struct {
	Repo          *model.Repository
	LatestCommit  *model.CommitSummary
	Tree          *TreeNode
	TreeTruncated bool
	TopLevel      []TopLevelEntry
	OpenPulls     int
	Readme        string
}

// Breadcrumb is one linked segment of a file path.
type Breadcrumb struct {
	Name string
	Href string // Empty for the current (last) segment.
}

// Blob is a single file view.
type Blob struct {
	Repo        *model.Repository
	Ref         string
	Path        string
	Content     string
	Folder      *TreeNode // Set instead of Content when Path names a folder.
	Breadcrumbs []Breadcrumb
}

// IsMarkdown reports whether the file renders as markdown instead of code.
func (b Blob) IsMarkdown() bool {
	switch strings.ToLower(path.Ext(b.Path)) {
	case ".md", ".markdown", ".mdx":
		return true
	}
	return false
}

// Lines splits the content for numbered display.
func (b Blob) Lines() []string {
	return strings.Split(strings.TrimSuffix(b.Content, "\n"), "\n")
}

// RepoService assembles the repository overview and file views.
type RepoService struct {
	gh        driven.GitHubClient
	annotator *CommitAnnotator
	logger    *slog.Logger
}

// NewRepoService creates a RepoService backed by the given gateway.
func NewRepoService(gh driven.GitHubClient, logger *slog.Logger) *RepoService {
	return &RepoService{
		gh:        gh,
		annotator: NewCommitAnnotator(gh, logger),
		logger:    logger,
	}
}

// Overview loads repository metadata first, then the tree, latest commit,
// open pull request count and README in parallel. Only the repository itself
// is required; the other fields degrade to absent.
func (s *RepoService) Overview(ctx context.Context, owner, name string) (*Overview, error) {
	full := owner + "/" + name

	repo, err := s.gh.GetRepository(ctx, owner, name)
	if err != nil {
		return nil, required(s.logger, err, "repository", full)
	}

	ov := &Overview{Repo: repo}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tree, err := s.gh.GetTree(gctx, owner, name, repo.DefaultBranch)
		if err != nil {
			return degrade(s.logger, err, "tree", full)
		}
		ov.Tree = BuildTree(tree.Entries)
		ov.TreeTruncated = tree.Truncated

		commits, err := s.annotator.Annotate(gctx, owner, name, ov.Tree)
		if err != nil {
			return err
		}
		for _, child := range ov.Tree.Children {
			ov.TopLevel = append(ov.TopLevel, TopLevelEntry{Node: child, Commit: commits[child.Name]})
		}
		return nil
	})
	g.Go(func() error {
		commit, err := s.gh.GetLatestCommit(gctx, owner, name, "")
		if err != nil {
			return degrade(s.logger, err, "latest commit", full)
		}
		ov.LatestCommit = commit
		return nil
	})
	g.Go(func() error {
		page, err := s.gh.SearchIssues(gctx, model.IssueSearchQuery{
			Expression: fmt.Sprintf("repo:%s is:pr is:open", full),
			Page:       1,
			PerPage:    1,
		})
		if err != nil {
			return degrade(s.logger, err, "open pulls", full)
		}
		ov.OpenPulls = page.TotalCount
		return nil
	})
	g.Go(func() error {
		readme, err := s.gh.GetReadme(gctx, owner, name)
		if err != nil {
			return degrade(s.logger, err, "readme", full)
		}
		ov.Readme = readme
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ov, nil
}

// Blob loads repository metadata and one file's content concurrently. The
// repository is optional and only supplies the default branch for breadcrumb
// links. A path naming a folder resolves to its tree listing; anything else
// without content is model.ErrNotFound.
func (s *RepoService) Blob(ctx context.Context, owner, name, ref, filePath string) (*Blob, error) {
	full := owner + "/" + name
	blob := &Blob{Ref: ref, Path: strings.Join(splitPath(filePath), "/")}
	if blob.Path == "" {
		return nil, fmt.Errorf("empty path in %s: %w", full, model.ErrNotFound)
	}

	var contentErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		repo, err := s.gh.GetRepository(gctx, owner, name)
		if err != nil {
			return degrade(s.logger, err, "repository", full)
		}
		blob.Repo = repo
		return nil
	})
	g.Go(func() error {
		content, err := s.gh.GetFileContent(gctx, owner, name, blob.Path, ref)
		if err != nil {
			if model.IsRateLimited(err) {
				return err
			}
			contentErr = err
			return nil
		}
		blob.Content = content
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if contentErr != nil {
		folder, err := s.folder(ctx, owner, name, ref, blob.Path)
		if err != nil {
			return nil, err
		}
		if folder == nil {
			return nil, required(s.logger, contentErr, "file "+blob.Path, full)
		}
		blob.Folder = folder
	}

	defaultBranch := ref
	if blob.Repo != nil && blob.Repo.DefaultBranch != "" {
		defaultBranch = blob.Repo.DefaultBranch
	}
	blob.Breadcrumbs = Breadcrumbs(owner, name, defaultBranch, blob.Path)
	return blob, nil
}

// folder returns the tree node of dirPath at ref when it names a folder.
func (s *RepoService) folder(ctx context.Context, owner, name, ref, dirPath string) (*TreeNode, error) {
	tree, err := s.gh.GetTree(ctx, owner, name, ref)
	if err != nil {
		return nil, degrade(s.logger, err, "tree", owner+"/"+name)
	}

	node := BuildTree(tree.Entries)
	for _, seg := range splitPath(dirPath) {
		if node = node.Child(seg); node == nil {
			return nil, nil
		}
	}
	if node.IsFile {
		return nil, nil
	}
	return node, nil
}

// Breadcrumbs links every path segment but the last to its folder view on
// the default branch.
func Breadcrumbs(owner, name, defaultBranch, filePath string) []Breadcrumb {
	segments := splitPath(filePath)
	crumbs := make([]Breadcrumb, 0, len(segments))

	for i, seg := range segments {
		crumb := Breadcrumb{Name: seg}
		if i < len(segments)-1 {
			crumb.Href = fmt.Sprintf("/%s/%s/blob/%s/%s", owner, name, defaultBranch, strings.Join(segments[:i+1], "/"))
		}
		crumbs = append(crumbs, crumb)
	}
	return crumbs
}
