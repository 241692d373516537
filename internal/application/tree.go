package application

import (
	"strings"

	"github.com/ericfisherdev/ghmirror/internal/domain/model"
)

// TreeNode is one file or folder of a repository tree reconstructed from a
// flat path listing. Children keep the order in which names were first seen.
type TreeNode struct {
	Name     string
	Path     string
	IsFile   bool
	Children []*TreeNode

	index map[string]*TreeNode
}

// BuildTree reconstructs the folder hierarchy implied by a flat tree listing.
// Folders are synthesized for every intermediate path segment whether or not
// the listing names them, a node keeps the classification it was created
// with, and entries whose path has no non-empty segment are skipped.
func BuildTree(entries []model.TreeEntry) *TreeNode {
	root := &TreeNode{}

	for _, entry := range entries {
		segments := splitPath(entry.Path)
		node := root
		for i, name := range segments {
			child, ok := node.index[name]
			if !ok {
				child = &TreeNode{
					Name:   name,
					Path:   strings.Join(segments[:i+1], "/"),
					IsFile: i == len(segments)-1 && entry.Type == model.TreeEntryBlob,
				}
				node.addChild(child)
			}
			node = child
		}
	}

	return root
}

func (n *TreeNode) addChild(child *TreeNode) {
	if n.index == nil {
		n.index = make(map[string]*TreeNode)
	}
	n.index[child.Name] = child
	n.Children = append(n.Children, child)
}

// Child returns the direct child with the given name, or nil.
func (n *TreeNode) Child(name string) *TreeNode {
	return n.index[name]
}

// FilePaths returns the root-relative path of every file below n in
// depth-first, insertion order.
func (n *TreeNode) FilePaths() []string {
	var paths []string
	n.walk(func(node *TreeNode) {
		if node.IsFile {
			paths = append(paths, node.Path)
		}
	})
	return paths
}

// FolderPaths returns the root-relative path of every folder below n.
func (n *TreeNode) FolderPaths() []string {
	var paths []string
	n.walk(func(node *TreeNode) {
		if !node.IsFile {
			paths = append(paths, node.Path)
		}
	})
	return paths
}

func (n *TreeNode) walk(fn func(*TreeNode)) {
	for _, child := range n.Children {
		fn(child)
		child.walk(fn)
	}
}

func splitPath(p string) []string {
	parts := strings.Split(p, "/")
	segments := parts[:0]
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
