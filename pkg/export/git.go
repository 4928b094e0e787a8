package export

import (
	"fmt"
	"os"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// GitBackup commits the export directory and pushes when a remote is
// configured.
type GitBackup struct {
	RepoPath string
}

// NewGitBackup creates a GitBackup for the repository at repoPath.
func NewGitBackup(repoPath string) *GitBackup {
	return &GitBackup{RepoPath: repoPath}
}

// Sync stages everything, commits with message, and pushes to the first
// configured remote. A clean worktree and an up-to-date remote are both
// no-ops, not errors.
func (g *GitBackup) Sync(message string) error {
	r, err := git.PlainOpen(g.RepoPath)
	if err != nil {
		return fmt.Errorf("failed to open repo: %w", err)
	}

	w, err := r.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	if _, err := w.Add("."); err != nil {
		return fmt.Errorf("failed to add changes: %w", err)
	}

	status, err := w.Status()
	if err != nil {
		return fmt.Errorf("failed to read status: %w", err)
	}
	if status.IsClean() {
		return nil
	}

	if message == "" {
		message = fmt.Sprintf("notesync backup: %s", time.Now().Format(time.RFC3339))
	}
	_, err = w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "notesync",
			Email: "notesync@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	remotes, err := r.Remotes()
	if err != nil {
		return fmt.Errorf("failed to list remotes: %w", err)
	}
	if len(remotes) == 0 {
		return nil
	}

	// Default SSH key when available; otherwise let go-git try whatever
	// the remote URL supports.
	var pushOpts git.PushOptions
	home, _ := os.UserHomeDir()
	if keys, err := ssh.NewPublicKeysFromFile("git", home+"/.ssh/id_rsa", ""); err == nil {
		pushOpts.Auth = keys
	}

	if err := r.Push(&pushOpts); err != nil {
		if err == git.NoErrAlreadyUpToDate {
			return nil
		}
		return fmt.Errorf("failed to push: %w", err)
	}
	return nil
}
