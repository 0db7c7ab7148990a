// Package publish runs the documentation publishing pipeline.
//
// A run validates the gh-pages metadata, checks that the working tree is
// clean, builds the docs, commits them into a fresh repository inside the
// documentation directory and force-pushes that history to the documentation
// branch of the configured remote. The first failing step ends the run;
// nothing is rolled back or retried.
package publish

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"ghpages/pkg/cargo"
	"ghpages/pkg/config"
	"ghpages/pkg/git"

	log "github.com/sirupsen/logrus"
)

// VCS is the set of git operations the pipeline needs.
type VCS interface {
	StatusClean() (bool, error)
	RemoteURL(remote string) (string, error)
	Init(dir string, dryRun bool) (bool, error)
	AddAll(dir string, dryRun bool) (bool, error)
	CommitAll(dir, msg string, sign, dryRun bool) (bool, error)
	ForcePush(dir, remote, refspec string, dryRun bool) (bool, error)
}

// DocBuilder generates the documentation into the documentation directory.
type DocBuilder interface {
	Doc(dryRun bool) (bool, error)
}

// Loader returns the raw gh-pages metadata table.
type Loader func() (config.Document, error)

// StepError reports a command that ran but exited unsuccessfully.
type StepError struct {
	Step string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed", e.Step)
}

// Result describes how far a run got and what it pushed.
type Result struct {
	Outcome   Outcome
	Reached   State
	Settings  config.Settings
	RemoteURL string
	RefSpec   string
}

type Publisher struct {
	vcs    VCS
	docs   DocBuilder
	load   Loader
	out    io.Writer
	docDir string
}

// NewPublisher wires a pipeline. User-facing messages are written to out,
// or to stdout when out is nil.
func NewPublisher(vcs VCS, docs DocBuilder, load Loader, out io.Writer) *Publisher {
	if out == nil {
		out = os.Stdout
	}
	return &Publisher{
		vcs:    vcs,
		docs:   docs,
		load:   load,
		out:    out,
		docDir: cargo.DocDir,
	}
}

// Run executes the pipeline. A non-nil error always comes with
// OutcomeFatal; unknown config keys and a dirty tree are reported through
// the outcome instead.
func (p *Publisher) Run(flags config.Flags) (Result, error) {
	res := Result{Reached: StateStart}

	settings, outcome, err := p.Resolve(flags)
	if err != nil {
		return p.fatal(res, err)
	}
	if outcome != OutcomeSuccess {
		res.Outcome = outcome
		return res, nil
	}
	res.Settings = settings
	p.advance(&res, StateConfigValidated)

	clean, err := p.vcs.StatusClean()
	if err != nil {
		return p.fatal(res, err)
	}
	if !clean {
		fmt.Fprintln(p.out, "Uncommitted changes detected, please commit before release")
		if !settings.DryRun {
			res.Outcome = OutcomeDirtyTree
			return res, nil
		}
	}
	p.advance(&res, StateCleanlinessChecked)

	fmt.Fprintln(p.out, "Building and exporting docs.")
	if err := step("cargo doc", func() (bool, error) { return p.docs.Doc(settings.DryRun) }); err != nil {
		return p.fatal(res, err)
	}
	p.advance(&res, StateDocsBuilt)

	if err := step("git init", func() (bool, error) { return p.vcs.Init(p.docDir, settings.DryRun) }); err != nil {
		return p.fatal(res, err)
	}
	p.advance(&res, StateRepoInitialized)

	if err := step("git add", func() (bool, error) { return p.vcs.AddAll(p.docDir, settings.DryRun) }); err != nil {
		return p.fatal(res, err)
	}
	p.advance(&res, StateStaged)

	if err := step("git commit", func() (bool, error) {
		return p.vcs.CommitAll(p.docDir, settings.DocCommitMessage, settings.SignCommit, settings.DryRun)
	}); err != nil {
		return p.fatal(res, err)
	}
	p.advance(&res, StateCommitted)

	url, err := p.vcs.RemoteURL(settings.PushRemote)
	if err != nil {
		return p.fatal(res, err)
	}
	res.RemoteURL = strings.TrimSpace(url)
	res.RefSpec = git.RefSpec(settings.DocBranch)
	p.advance(&res, StateRemoteResolved)

	if err := step("git push", func() (bool, error) {
		return p.vcs.ForcePush(p.docDir, res.RemoteURL, res.RefSpec, settings.DryRun)
	}); err != nil {
		return p.fatal(res, err)
	}
	p.advance(&res, StatePushed)

	res.Outcome = OutcomeSuccess
	return res, nil
}

// Resolve loads and validates the metadata table and merges it with flags.
// It runs no command. An unrecognized key is printed and reported as
// OutcomeUnknownConfigKey.
func (p *Publisher) Resolve(flags config.Flags) (config.Settings, Outcome, error) {
	doc, err := p.load()
	if err != nil {
		return config.Settings{}, OutcomeFatal, err
	}

	if err := config.Validate(doc); err != nil {
		var unknown *config.UnknownKeyError
		if errors.As(err, &unknown) {
			fmt.Fprintln(p.out, unknown.Error())
			return config.Settings{}, OutcomeUnknownConfigKey, nil
		}
		return config.Settings{}, OutcomeFatal, err
	}

	settings, err := config.Resolve(flags, doc)
	if err != nil {
		return config.Settings{}, OutcomeFatal, err
	}
	return settings, OutcomeSuccess, nil
}

func step(name string, fn func() (bool, error)) error {
	ok, err := fn()
	if err != nil {
		return err
	}
	if !ok {
		return &StepError{Step: name}
	}
	return nil
}

func (p *Publisher) advance(res *Result, next State) {
	log.WithFields(log.Fields{
		"from": res.Reached.String(),
		"to":   next.String(),
	}).Debug("Pipeline advanced")
	res.Reached = next
}

func (p *Publisher) fatal(res Result, err error) (Result, error) {
	log.WithError(err).WithField("state", res.Reached.String()).Debug("Pipeline failed")
	res.Outcome = OutcomeFatal
	return res, err
}
