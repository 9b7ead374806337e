package gitinfo

import (
	"os"
	"path/filepath"
	"testing"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initRepo creates a repository with one commit so HEAD resolves.
func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0644))

	wt, err := repo.Worktree()
	require.NoError(t, err)

	_, err = wt.Add("README.md")
	require.NoError(t, err)

	_, err = wt.Commit("initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com"},
	})
	require.NoError(t, err)

	return dir, repo
}

func TestCurrentBranchDefault(t *testing.T) {
	dir, _ := initRepo(t)

	branch, ok, err := CurrentBranch(dir)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "master", branch)
}

func TestCurrentBranchFeature(t *testing.T) {
	dir, repo := initRepo(t)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	err = wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName("feature/ABC-123-add-login"),
		Create: true,
	})
	require.NoError(t, err)

	branch, ok, err := CurrentBranch(dir)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "feature/ABC-123-add-login", branch)
}

func TestCurrentBranchDetachedHead(t *testing.T) {
	dir, repo := initRepo(t)

	head, err := repo.Head()
	require.NoError(t, err)

	err = repo.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, head.Hash()))
	require.NoError(t, err)

	branch, ok, err := CurrentBranch(dir)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, branch)
}

func TestCurrentBranchNotARepository(t *testing.T) {
	_, _, err := CurrentBranch(t.TempDir())
	assert.Error(t, err)
}
