package application

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/ghmirror/internal/domain/model"
	"github.com/ericfisherdev/ghmirror/internal/domain/port/driven"
)

// maxConcurrentCommitLookups bounds the per-path commit queries of one page.
const maxConcurrentCommitLookups = 8

// CommitAnnotator looks up the most recent commit of each top-level entry.
type CommitAnnotator struct {
	gh     driven.GitHubClient
	logger *slog.Logger
}

// NewCommitAnnotator creates a CommitAnnotator backed by the given gateway.
func NewCommitAnnotator(gh driven.GitHubClient, logger *slog.Logger) *CommitAnnotator {
	return &CommitAnnotator{gh: gh, logger: logger}
}

// Annotate returns the latest commit for every immediate child of root, keyed
// by child name. A failed lookup leaves that name mapped to nil; only a rate
// limit condition aborts the whole operation.
func (a *CommitAnnotator) Annotate(ctx context.Context, owner, repo string, root *TreeNode) (map[string]*model.CommitSummary, error) {
	result := make(map[string]*model.CommitSummary, len(root.Children))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentCommitLookups)

	for _, child := range root.Children {
		g.Go(func() error {
			commit, err := a.gh.GetLatestCommit(gctx, owner, repo, child.Path)
			if err != nil {
				if model.IsRateLimited(err) {
					return err
				}
				a.logger.Warn("latest commit lookup failed",
					"repo", owner+"/"+repo,
					"path", child.Path,
					"error", err,
				)
				commit = nil
			}

			mu.Lock()
			result[child.Name] = commit
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
