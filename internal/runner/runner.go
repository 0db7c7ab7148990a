// Package runner executes external commands on behalf of the publish pipeline.
//
// Every side effect of cargo-gh-pages goes through a Runner. In dry-run mode the
// Runner prints the shell form of the command instead of spawning it, so a
// preview of the whole pipeline can be produced without touching the disk or
// the network.
package runner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ErrEmptyCommand is returned when no program remains after dropping empty
// tokens.
var ErrEmptyCommand = errors.New("empty command")

// Error reports a failure to start a process or to wait for it.
type Error struct {
	Op      string
	Command string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to %s %q: %v", e.Op, e.Command, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ExitError reports a captured command that ran but exited non-zero.
type ExitError struct {
	Command string
	Code    int
	Stderr  string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%q exited with status %d", e.Command, e.Code)
	}
	return fmt.Sprintf("%q exited with status %d: %s", e.Command, e.Code, e.Stderr)
}

// Runner spawns commands with the given writers attached. The zero value
// writes to the process's own stdout and stderr.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// New returns a Runner attached to stdout and stderr. A nil writer falls
// back to the matching process stream.
func New(stdout, stderr io.Writer) *Runner {
	return &Runner{Stdout: stdout, Stderr: stderr}
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}

// Filter returns tokens without the empty strings.
func Filter(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Render returns the shell form of a command as printed in dry-run mode:
// an optional "cd <dir>" line, the command line, and an optional "cd -" line.
func Render(tokens []string, dir string) string {
	var b strings.Builder
	if dir != "" {
		fmt.Fprintf(&b, "cd %s\n", dir)
	}
	b.WriteString(strings.Join(Filter(tokens), " "))
	b.WriteByte('\n')
	if dir != "" {
		b.WriteString("cd -\n")
	}
	return b.String()
}

// Run executes tokens[0] with the remaining non-empty tokens as arguments,
// inside dir when dir is not empty. It reports whether the process exited
// successfully. A non-zero exit status is not an error; failing to spawn or
// wait for the process is.
//
// With dryRun set nothing is executed: the rendered command is written to
// the Runner's stdout and Run reports success.
func (r *Runner) Run(tokens []string, dir string, dryRun bool) (bool, error) {
	args := Filter(tokens)
	if len(args) == 0 {
		return false, ErrEmptyCommand
	}

	entry := log.WithFields(log.Fields{
		"cmd":     strings.Join(args, " "),
		"dir":     dir,
		"dry_run": dryRun,
	})

	if dryRun {
		if _, err := io.WriteString(r.stdout(), Render(args, dir)); err != nil {
			return false, fmt.Errorf("failed to print command: %w", err)
		}
		entry.Debug("Printed command")
		return true, nil
	}

	cmd := exec.Command(args[0], args[1:]...)
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Stdout = r.stdout()
	cmd.Stderr = r.stderr()

	if err := cmd.Start(); err != nil {
		return false, &Error{Op: "spawn", Command: strings.Join(args, " "), Err: err}
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			entry.WithField("exit_code", exitErr.ExitCode()).Debug("Command failed")
			return false, nil
		}
		return false, &Error{Op: "wait", Command: strings.Join(args, " "), Err: err}
	}

	entry.Debug("Command succeeded")
	return true, nil
}

// Output executes the command and returns its captured stdout. It never
// honors dry-run: it is meant for read-only queries whose answer the
// pipeline needs in both modes.
func (r *Runner) Output(tokens []string, dir string) ([]byte, error) {
	args := Filter(tokens)
	if len(args) == 0 {
		return nil, ErrEmptyCommand
	}

	cmd := exec.Command(args[0], args[1:]...)
	if dir != "" {
		cmd.Dir = dir
	}

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ExitError{
				Command: strings.Join(args, " "),
				Code:    exitErr.ExitCode(),
				Stderr:  strings.TrimSpace(string(exitErr.Stderr)),
			}
		}
		return nil, &Error{Op: "spawn", Command: strings.Join(args, " "), Err: err}
	}

	log.WithFields(log.Fields{
		"cmd": strings.Join(args, " "),
		"dir": dir,
	}).Debug("Captured command output")
	return output, nil
}
