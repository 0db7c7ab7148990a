package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"ghpages/internal/runner"
)

// ErrInvalidUTF8 is returned when git prints output that is not valid text.
var ErrInvalidUTF8 = errors.New("git output is not valid UTF-8")

// Repo issues git commands through a runner. Commands that take a dir run
// inside it; relative dirs are resolved against the repository root.
type Repo struct {
	runner   *runner.Runner
	repoRoot string
}

func NewRepo(r *runner.Runner) *Repo {
	repoRoot, _ := os.Getwd()
	return &Repo{runner: r, repoRoot: repoRoot}
}

func NewRepoWithRoot(r *runner.Runner, repoRoot string) *Repo {
	return &Repo{runner: r, repoRoot: repoRoot}
}

// workDir resolves dir against the repository root for real runs. Dry-run
// output keeps the path as given.
func (g *Repo) workDir(dir string, dryRun bool) string {
	if dryRun || dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(g.repoRoot, dir)
}

// StatusClean reports whether the working tree has no staged, unstaged or
// untracked changes. It always runs, dry-run or not.
func (g *Repo) StatusClean() (bool, error) {
	output, err := g.runner.Output([]string{"git", "status", "--porcelain"}, g.repoRoot)
	if err != nil {
		return false, fmt.Errorf("failed to get git status: %w", err)
	}
	return len(output) == 0, nil
}

// RemoteURL returns the raw output of `git remote get-url <remote>`. It
// always runs, even in dry-run mode, because the push preview needs the URL.
func (g *Repo) RemoteURL(remote string) (string, error) {
	output, err := g.runner.Output([]string{"git", "remote", "get-url", remote}, g.repoRoot)
	if err != nil {
		return "", fmt.Errorf("failed to get url of remote %q: %w", remote, err)
	}
	if !utf8.Valid(output) {
		return "", ErrInvalidUTF8
	}
	return string(output), nil
}

func (g *Repo) Init(dir string, dryRun bool) (bool, error) {
	return g.runner.Run([]string{"git", "init"}, g.workDir(dir, dryRun), dryRun)
}

func (g *Repo) AddAll(dir string, dryRun bool) (bool, error) {
	return g.runner.Run([]string{"git", "add", "."}, g.workDir(dir, dryRun), dryRun)
}

func (g *Repo) CommitAll(dir, msg string, sign, dryRun bool) (bool, error) {
	return g.runner.Run(CommitArgs(msg, sign), g.workDir(dir, dryRun), dryRun)
}

func (g *Repo) ForcePush(dir, remote, refspec string, dryRun bool) (bool, error) {
	return g.runner.Run([]string{"git", "push", "-f", remote, refspec}, g.workDir(dir, dryRun), dryRun)
}

// CommitArgs builds the commit command line; -S is only present when signing.
func CommitArgs(msg string, sign bool) []string {
	args := []string{"git", "commit"}
	if sign {
		args = append(args, "-S")
	}
	return append(args, "-am", msg)
}

// RefSpec maps the local master branch onto the documentation branch.
func RefSpec(branch string) string {
	return "master:" + branch
}
