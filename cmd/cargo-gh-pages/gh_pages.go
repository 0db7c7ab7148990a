package main

import (
	"fmt"

	"ghpages/internal/runner"
	"ghpages/pkg/cargo"
	"ghpages/pkg/config"
	"ghpages/pkg/git"
	"ghpages/pkg/publish"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	ghPagesDryRun        bool
	ghPagesSign          bool
	ghPagesCommitMessage string
	ghPagesPushRemote    string
	ghPagesDocBranch     string
	ghPagesManifestPath  string
	ghPagesShowConfig    bool
)

var ghPagesCmd = &cobra.Command{
	Use:   "gh-pages",
	Short: "Generate and publish rustdoc to GitHub Pages",
	Long: `Build the crate documentation with cargo doc, commit target/doc/ into a
fresh git history and force-push it to the documentation branch.

Settings are read from flags, then from [package.metadata.gh-pages] in
Cargo.toml, then from defaults.

Examples:
  cargo gh-pages --dry-run
  cargo gh-pages --push-remote upstream --doc-branch release-docs
  cargo gh-pages --sign --doc-commit-message "Publish docs"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := flagsFromCommand(cmd)
		out := cmd.OutOrStdout()

		r := runner.New(out, cmd.ErrOrStderr())
		loader := func() (config.Document, error) {
			return config.LoadDocument(ghPagesManifestPath)
		}
		p := publish.NewPublisher(git.NewRepo(r), cargo.NewBuilder(r), loader, out)

		if ghPagesShowConfig {
			settings, outcome, err := p.Resolve(flags)
			if err != nil {
				return reportFatal(cmd, err)
			}
			if outcome != publish.OutcomeSuccess {
				exitCode = outcome.ExitCode()
				return nil
			}
			data, err := settings.YAML()
			if err != nil {
				return reportFatal(cmd, err)
			}
			fmt.Fprint(out, string(data))
			return nil
		}

		res, err := p.Run(flags)
		if err != nil {
			return reportFatal(cmd, err)
		}
		log.WithFields(log.Fields{
			"outcome": res.Outcome.String(),
			"remote":  res.RemoteURL,
			"refspec": res.RefSpec,
		}).Info("Publish finished")
		exitCode = res.Outcome.ExitCode()
		return nil
	},
}

func flagsFromCommand(cmd *cobra.Command) config.Flags {
	f := cmd.Flags()
	return config.Flags{
		DryRun:              ghPagesDryRun,
		Sign:                ghPagesSign,
		PushRemote:          ghPagesPushRemote,
		PushRemoteSet:       f.Changed("push-remote"),
		DocBranch:           ghPagesDocBranch,
		DocBranchSet:        f.Changed("doc-branch"),
		DocCommitMessage:    ghPagesCommitMessage,
		DocCommitMessageSet: f.Changed("doc-commit-message"),
	}
}

func reportFatal(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.OutOrStdout(), "Fatal: %v\n", err)
	exitCode = publish.ExitFatal
	return nil
}

func init() {
	ghPagesCmd.Flags().BoolVar(&ghPagesDryRun, "dry-run", false, "Print commands to execute instead of running")
	ghPagesCmd.Flags().BoolVar(&ghPagesSign, "sign", false, "Sign git commit")
	ghPagesCmd.Flags().StringVar(&ghPagesCommitMessage, "doc-commit-message", "", "Git commit message to use")
	ghPagesCmd.Flags().StringVar(&ghPagesPushRemote, "push-remote", "", "Git remote for push")
	ghPagesCmd.Flags().StringVar(&ghPagesDocBranch, "doc-branch", "", "Git branch to push documentation on")
	ghPagesCmd.Flags().StringVar(&ghPagesManifestPath, "manifest-path", config.DefaultManifestPath, "Path to Cargo.toml")
	ghPagesCmd.Flags().BoolVar(&ghPagesShowConfig, "show-config", false, "Print the effective settings as YAML and exit")

	rootCmd.AddCommand(ghPagesCmd)
}
