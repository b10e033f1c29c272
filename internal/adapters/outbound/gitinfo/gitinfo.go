package gitinfo

import (
	"fmt"

	"github.com/go-git/go-git/v5"
)

// GitInfoAdapter implements domain.GitInfo using go-git.
type GitInfoAdapter struct{}

func New() *GitInfoAdapter {
	return &GitInfoAdapter{}
}

var openOptions = &git.PlainOpenOptions{DetectDotGit: true}

// CommitHash returns the HEAD commit of the repository containing path.
// Results directories are often nested inside a larger project repository.
func (g *GitInfoAdapter) CommitHash(path string) (string, error) {
	repo, err := git.PlainOpenWithOptions(path, openOptions)
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}

	return head.Hash().String(), nil
}
