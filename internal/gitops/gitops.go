// Package gitops records changes to a CSV ledger directory as git commits.
package gitops

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Init initializes a new git repository at dir.
func Init(dir string) error {
	cmd := exec.Command("git", "init", "--quiet")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Committer commits ledger files under one identity, used for both author
// and committer so commits work without a global git config.
type Committer struct {
	Dir   string
	Name  string
	Email string
}

func (c Committer) git(args ...string) *exec.Cmd {
	cmd := exec.Command("git", args...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME="+c.Name,
		"GIT_AUTHOR_EMAIL="+c.Email,
		"GIT_COMMITTER_NAME="+c.Name,
		"GIT_COMMITTER_EMAIL="+c.Email,
	)
	return cmd
}

// Commit stages paths (everything when none are given) and commits them.
// It returns the short hash of the new commit, or "" if nothing changed.
func (c Committer) Commit(message string, paths ...string) (string, error) {
	add := c.git(append([]string{"add", "-A", "--"}, paths...)...)
	if out, err := add.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	// diff --cached --quiet exits 0 when the index matches HEAD.
	if c.hasHead() {
		if err := c.git("diff", "--cached", "--quiet").Run(); err == nil {
			return "", nil
		}
	}

	if out, err := c.git("commit", "--quiet", "-m", message).CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	out, err := c.git("rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (c Committer) hasHead() bool {
	return c.git("rev-parse", "--verify", "--quiet", "HEAD").Run() == nil
}
