// Package config resolves the effective publish settings.
//
// Settings come from three layers: command-line flags, the
// [package.metadata.gh-pages] table of the crate's Cargo.toml, and
// hard-coded defaults. The table may only contain the keys sign-commit,
// push-remote, doc-branch and doc-commit-message; anything else is rejected
// before the pipeline runs.
package config
