// Package gitinfo reads branch information from a local git repository,
// used when a context request does not carry a branch name of its own.
package gitinfo

import (
	"fmt"

	git "github.com/go-git/go-git/v5"
)

// CurrentBranch returns the branch checked out at path. The boolean is
// false on a detached HEAD, which is a valid no-branch state rather than
// an error.
func CurrentBranch(path string) (string, bool, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return "", false, fmt.Errorf("failed to open repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", false, fmt.Errorf("failed to read HEAD: %w", err)
	}

	if !head.Name().IsBranch() {
		return "", false, nil
	}

	return head.Name().Short(), true, nil
}
