package application_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/ghmirror/internal/application"
	"github.com/ericfisherdev/ghmirror/internal/domain/model"
)

func blob(path string) model.TreeEntry {
	return model.TreeEntry{Path: path, Type: model.TreeEntryBlob}
}

func dir(path string) model.TreeEntry {
	return model.TreeEntry{Path: path, Type: model.TreeEntryTree}
}

func names(nodes []*application.TreeNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Name)
	}
	return out
}

func TestBuildTree_InsertionOrder(t *testing.T) {
	root := application.BuildTree([]model.TreeEntry{
		blob("src/a.ts"),
		blob("src/b.ts"),
		blob("README.md"),
	})

	require.Len(t, root.Children, 2)
	assert.Equal(t, "", root.Name)

	src := root.Children[0]
	assert.Equal(t, "src", src.Name)
	assert.Equal(t, "src", src.Path)
	assert.False(t, src.IsFile)
	assert.Equal(t, []string{"a.ts", "b.ts"}, names(src.Children))
	assert.Equal(t, "src/b.ts", src.Children[1].Path)
	assert.True(t, src.Children[0].IsFile)

	readme := root.Children[1]
	assert.Equal(t, "README.md", readme.Name)
	assert.True(t, readme.IsFile)
	assert.Empty(t, readme.Children)
}

func TestBuildTree_SynthesizesIntermediateFolders(t *testing.T) {
	root := application.BuildTree([]model.TreeEntry{
		blob("a/b/c/deep.go"),
		blob("a/top.go"),
	})

	assert.Equal(t, []string{"a", "a/b", "a/b/c"}, root.FolderPaths())
	assert.Equal(t, []string{"a/b/c/deep.go", "a/top.go"}, root.FilePaths())
}

func TestBuildTree_ReflattensToInputFiles(t *testing.T) {
	entries := []model.TreeEntry{
		dir("cmd"),
		blob("cmd/main.go"),
		blob("internal/app/app.go"),
		dir("internal"),
		blob("internal/app/app_test.go"),
		blob("go.mod"),
		blob("docs/guide/intro.md"),
	}

	root := application.BuildTree(entries)

	var want []string
	for _, e := range entries {
		if e.Type == model.TreeEntryBlob {
			want = append(want, e.Path)
		}
	}
	got := root.FilePaths()
	sort.Strings(want)
	sort.Strings(got)
	assert.Equal(t, want, got)

	folders := root.FolderPaths()
	assert.ElementsMatch(t, []string{"cmd", "internal", "internal/app", "docs", "docs/guide"}, folders)
}

func TestBuildTree_DuplicatesAreIdempotent(t *testing.T) {
	entries := []model.TreeEntry{blob("src/a.ts"), blob("src/b.ts"), blob("README.md")}
	doubled := append(append([]model.TreeEntry{}, entries...), entries...)

	once := application.BuildTree(entries)
	twice := application.BuildTree(doubled)

	assert.Equal(t, once.FilePaths(), twice.FilePaths())
	assert.Equal(t, once.FolderPaths(), twice.FolderPaths())
	assert.Equal(t, names(once.Children), names(twice.Children))
}

func TestBuildTree_SkipsEmptyAndNormalizesSlashes(t *testing.T) {
	root := application.BuildTree([]model.TreeEntry{
		blob(""),
		blob("///"),
		blob("/lead/file.txt"),
		blob("trail//x.txt/"),
	})

	assert.Equal(t, []string{"lead", "trail"}, names(root.Children))
	assert.Equal(t, []string{"lead/file.txt", "trail/x.txt"}, root.FilePaths())
}

func TestBuildTree_FirstClassificationWins(t *testing.T) {
	root := application.BuildTree([]model.TreeEntry{
		dir("pkg"),
		blob("pkg"),
		blob("pkg/x.go"),
	})

	pkg := root.Child("pkg")
	require.NotNil(t, pkg)
	assert.False(t, pkg.IsFile)
	assert.Equal(t, []string{"x.go"}, names(pkg.Children))
}

func TestBuildTree_ExplicitTreeEntryWithoutChildren(t *testing.T) {
	root := application.BuildTree([]model.TreeEntry{dir("empty")})

	empty := root.Child("empty")
	require.NotNil(t, empty)
	assert.False(t, empty.IsFile)
	assert.Empty(t, root.FilePaths())
}
