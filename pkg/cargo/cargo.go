// Package cargo invokes the cargo toolchain to build documentation.
package cargo

import (
	"os"

	"ghpages/internal/runner"
)

// DocDir is where `cargo doc` writes its output, relative to the crate root.
const DocDir = "target/doc/"

// Builder runs cargo inside a crate root.
type Builder struct {
	runner    *runner.Runner
	crateRoot string
}

func NewBuilder(r *runner.Runner) *Builder {
	crateRoot, _ := os.Getwd()
	return &Builder{runner: r, crateRoot: crateRoot}
}

func NewBuilderWithRoot(r *runner.Runner, crateRoot string) *Builder {
	return &Builder{runner: r, crateRoot: crateRoot}
}

// Doc runs `cargo doc`. In dry-run mode the command is only printed.
func (b *Builder) Doc(dryRun bool) (bool, error) {
	dir := b.crateRoot
	if dryRun {
		dir = ""
	}
	return b.runner.Run([]string{"cargo", "doc"}, dir, dryRun)
}
