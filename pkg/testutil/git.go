// Package testutil provides git test helpers
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// SkipIfNoGit skips the test if the git executable is not available
func SkipIfNoGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available:", err)
	}
}

// GitRepo is a throwaway repository rooted in a test temp dir
type GitRepo struct {
	Dir string
}

// NewGitRepo initializes a repository on master with one commit
func NewGitRepo(t *testing.T) *GitRepo {
	t.Helper()
	SkipIfNoGit(t)

	IsolateGitEnv(t)

	repo := &GitRepo{Dir: t.TempDir()}
	repo.Git(t, "init")

	repo.WriteFile(t, "README.md", "# Test Project\n")
	repo.Git(t, "add", ".")
	repo.Git(t, "commit", "-m", "Initial commit")

	return repo
}

// NewBareRepo creates an empty bare repository usable as a push remote
func NewBareRepo(t *testing.T) string {
	t.Helper()
	SkipIfNoGit(t)

	dir := t.TempDir()
	cmd := exec.Command("git", "init", "--bare")
	cmd.Dir = dir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to init bare repo: %v\nOutput: %s", err, output)
	}
	return dir
}

// Git runs a git command in the repository and returns trimmed stdout
func (r *GitRepo) Git(t *testing.T, args ...string) string {
	t.Helper()
	return GitIn(t, r.Dir, args...)
}

// GitIn runs a git command in dir and returns trimmed stdout
func GitIn(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		stderr := ""
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = string(exitErr.Stderr)
		}
		t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, stderr)
	}
	return strings.TrimSpace(string(output))
}

// WriteFile writes content relative to the repository root
func (r *GitRepo) WriteFile(t *testing.T, name, content string) {
	t.Helper()
	path := filepath.Join(r.Dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

// IsolateGitEnv pins the identity, default branch and signing settings of
// every git process started by the test, including repositories the code
// under test initializes itself
func IsolateGitEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GIT_AUTHOR_NAME", "Test User")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Test User")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")
	t.Setenv("GIT_CONFIG_COUNT", "2")
	t.Setenv("GIT_CONFIG_KEY_0", "init.defaultBranch")
	t.Setenv("GIT_CONFIG_VALUE_0", "master")
	t.Setenv("GIT_CONFIG_KEY_1", "commit.gpgsign")
	t.Setenv("GIT_CONFIG_VALUE_1", "false")
}
