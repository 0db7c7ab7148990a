package runner

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_WithDir(t *testing.T) {
	out := Render([]string{"git", "add", "."}, "target/doc/")
	assert.Equal(t, "cd target/doc/\ngit add .\ncd -\n", out)
}

func TestRender_WithoutDir(t *testing.T) {
	out := Render([]string{"cargo", "doc"}, "")
	assert.Equal(t, "cargo doc\n", out)
}

func TestRender_DropsEmptyTokens(t *testing.T) {
	out := Render([]string{"git", "commit", "", "-am", "msg"}, "")
	assert.Equal(t, "git commit -am msg\n", out)
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   []string
	}{
		{"no empty", []string{"git", "init"}, []string{"git", "init"}},
		{"empty middle", []string{"git", "", "init"}, []string{"git", "init"}},
		{"all empty", []string{"", ""}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filter(tt.tokens))
		})
	}
}

func TestNew_AttachesWriters(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := New(&stdout, &stderr)
	assert.Same(t, &stdout, r.stdout())
	assert.Same(t, &stderr, r.stderr())

	ok, err := r.Run([]string{"git", "init"}, "docs", true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cd docs\ngit init\ncd -\n", stdout.String())
}

func TestNew_NilWritersFallBackToProcessStreams(t *testing.T) {
	r := New(nil, nil)
	assert.Equal(t, os.Stdout, r.stdout())
	assert.Equal(t, os.Stderr, r.stderr())
}

func TestRun_DryRunPrintsThreeLines(t *testing.T) {
	var stdout bytes.Buffer
	r := &Runner{Stdout: &stdout}

	ok, err := r.Run([]string{"git", "add", "."}, "target/doc/", true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cd target/doc/\ngit add .\ncd -\n", stdout.String())
}

func TestRun_DryRunHasNoSideEffects(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "marker")

	var stdout bytes.Buffer
	r := &Runner{Stdout: &stdout}

	ok, err := r.Run([]string{"touch", marker}, dir, true)
	require.NoError(t, err)
	assert.True(t, ok)

	_, statErr := os.Stat(marker)
	assert.True(t, os.IsNotExist(statErr), "dry-run must not create files")
}

func TestRun_DryRunSucceedsForMissingProgram(t *testing.T) {
	var stdout bytes.Buffer
	r := &Runner{Stdout: &stdout}

	ok, err := r.Run([]string{"definitely-not-a-real-program-xyz"}, "", true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "definitely-not-a-real-program-xyz\n", stdout.String())
}

func TestRun_OmitsEmptyArguments(t *testing.T) {
	var stdout bytes.Buffer
	r := &Runner{Stdout: &stdout}

	ok, err := r.Run([]string{"sh", "-c", `printf %s "$#"`, "argv0", "", "one", "", "two"}, "", false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", stdout.String())
}

func TestRun_UsesWorkingDir(t *testing.T) {
	dir := t.TempDir()
	r := &Runner{Stdout: &bytes.Buffer{}}

	ok, err := r.Run([]string{"touch", "created"}, dir, false)
	require.NoError(t, err)
	assert.True(t, ok)

	_, statErr := os.Stat(filepath.Join(dir, "created"))
	assert.NoError(t, statErr)
}

func TestRun_NonZeroExitIsNotAnError(t *testing.T) {
	r := &Runner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}

	ok, err := r.Run([]string{"sh", "-c", "exit 3"}, "", false)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRun_SpawnFailure(t *testing.T) {
	r := &Runner{Stdout: &bytes.Buffer{}}

	ok, err := r.Run([]string{"definitely-not-a-real-program-xyz"}, "", false)
	require.Error(t, err)
	assert.False(t, ok)

	var runErr *Error
	require.True(t, errors.As(err, &runErr))
	assert.Equal(t, "spawn", runErr.Op)
}

func TestRun_EmptyCommand(t *testing.T) {
	r := &Runner{}

	_, err := r.Run([]string{"", ""}, "", true)
	assert.ErrorIs(t, err, ErrEmptyCommand)
}

func TestOutput_CapturesStdout(t *testing.T) {
	r := &Runner{}

	out, err := r.Output([]string{"sh", "-c", "echo hello"}, "")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))
}

func TestOutput_NonZeroExit(t *testing.T) {
	r := &Runner{}

	_, err := r.Output([]string{"sh", "-c", "echo boom >&2; exit 2"}, "")
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.Code)
	assert.Equal(t, "boom", exitErr.Stderr)
}
