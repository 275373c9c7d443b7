// Package gitops versions a books directory with the git CLI.
package gitops

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNothingToCommit is returned by Commit when the working tree is clean.
var ErrNothingToCommit = errors.New("nothing to commit")

// Books is a git repository rooted at a books directory.
type Books struct {
	Dir         string
	AuthorName  string
	AuthorEmail string
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Init creates the repository.
func (b Books) Init(ctx context.Context) error {
	_, err := b.git(ctx, "init", "--quiet")
	return err
}

// Commit stages every change under the books directory and commits it.
// It returns the short hash of the new commit.
func (b Books) Commit(ctx context.Context, message string) (string, error) {
	if _, err := b.git(ctx, "add", "-A"); err != nil {
		return "", err
	}
	status, err := b.git(ctx, "status", "--porcelain")
	if err != nil {
		return "", err
	}
	if status == "" {
		return "", ErrNothingToCommit
	}

	author := fmt.Sprintf("%s <%s>", b.AuthorName, b.AuthorEmail)
	if _, err := b.git(ctx, "commit", "--quiet", "-m", message, "--author", author); err != nil {
		return "", err
	}
	return b.git(ctx, "rev-parse", "--short", "HEAD")
}

// ImportMessage builds the commit message for a set of imported statements.
func ImportMessage(files []string, transactions int) string {
	return fmt.Sprintf("import: %s (%d transactions)", strings.Join(files, ", "), transactions)
}

func (b Books) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = b.Dir
	// Commits need an identity even when the user has none configured.
	cmd.Env = append(os.Environ(),
		"GIT_COMMITTER_NAME="+b.AuthorName,
		"GIT_COMMITTER_EMAIL="+b.AuthorEmail,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(stderr.String()), err)
	}
	return strings.TrimSpace(string(out)), nil
}
