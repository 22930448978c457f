// Package main provides the entry point for the commitmsg CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gorewood/commitmsg/internal/output"
	"github.com/gorewood/commitmsg/internal/prompt"
)

// Build info set via ldflags at build time by goreleaser.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// rootFlags holds the values of the root command's flags.
type rootFlags struct {
	use      bool
	amend    bool
	json     bool
	model    string
	provider string
	template string
	timeout  int
	color    string
	logLevel string
}

// app is the state shared by the root command and its subcommands.
type app struct {
	deps   *deps
	flags  rootFlags
	logger *log.Logger
}

// newRootCmd creates the root command for the commitmsg CLI.
func newRootCmd() *cobra.Command {
	return newRootCmdInternal(defaultDeps())
}

// newRootCmdInternal creates the root command with injected dependencies.
func newRootCmdInternal(d *deps) *cobra.Command {
	a := &app{deps: d, logger: log.New(io.Discard)}

	cmd := &cobra.Command{
		Use:   "commitmsg",
		Short: "Suggest a commit message for your staged changes",
		Long: `commitmsg reads the staged diff, asks a hosted language model for a
conventional-commit message, and prints it with a ready-to-run git command.

Examples:
  # Suggest a message for what is staged
  git add -p && commitmsg

  # Rewrite the last commit's message instead of printing a command
  commitmsg --amend

  # Check the token cost of a typical request against your quota
  COMMITMSG_TOKEN_LIMIT=100000 commitmsg --use

  # Use Claude instead of Gemini
  commitmsg --model haiku

Environment variables:
  GEMINI_API_KEY         Required for Google models (default)
  ANTHROPIC_API_KEY      Required for Anthropic models
  COMMITMSG_MODEL        Model name or alias (default: gemini-flash)
  COMMITMSG_PROVIDER     google or anthropic (inferred from the model if empty)
  COMMITMSG_TOKEN_LIMIT  Token quota used by --use
  COMMITMSG_TIMEOUT      Request timeout, e.g. 90 or 2m

Variables are also read from .env.local, .env, and the env file in the
config directory. Values already in the environment win.`,
		Version:       buildVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runRoot(cmd)
		},
	}

	cmd.Flags().BoolVar(&a.flags.use, "use", false, "Report token usage against COMMITMSG_TOKEN_LIMIT and exit")
	cmd.Flags().BoolVar(&a.flags.amend, "amend", false, "Amend the last commit with the generated message")

	cmd.PersistentFlags().BoolVar(&a.flags.json, "json", false, "Output in JSON format")
	cmd.PersistentFlags().StringVarP(&a.flags.template, "template", "t", prompt.CommitTemplate, "Prompt template for generation (see 'commitmsg templates')")
	cmd.PersistentFlags().StringVarP(&a.flags.model, "model", "m", "", "Model name or alias (default: gemini-flash)")
	cmd.PersistentFlags().StringVarP(&a.flags.provider, "provider", "p", "", "Provider (google, anthropic) - inferred if omitted")
	cmd.PersistentFlags().IntVar(&a.flags.timeout, "timeout", 0, "Request timeout in seconds (default 120)")
	cmd.PersistentFlags().StringVar(&a.flags.color, "color", "auto", "Color output: auto, always, never")
	cmd.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	// Configure lipgloss for TTY detection
	lipgloss.SetHasDarkBackground(true)

	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newTemplatesCmd(a))
	cmd.AddCommand(newHookCmd(a))

	return cmd
}

// setup validates global flags, configures logging, and loads env files.
func (a *app) setup(cmd *cobra.Command) error {
	if err := output.ValidateColorMode(a.flags.color); err != nil {
		a.printer(cmd).Error(err)
		return err
	}
	if a.flags.timeout < 0 {
		err := output.NewUserError(fmt.Sprintf("timeout must be positive, got %d", a.flags.timeout))
		a.printer(cmd).Error(err)
		return err
	}

	level, err := log.ParseLevel(strings.ToLower(a.flags.logLevel))
	if err != nil {
		userErr := output.NewUserErrorWithCause("invalid --log-level "+a.flags.logLevel, err)
		a.printer(cmd).Error(userErr)
		return userErr
	}
	a.logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Level:  level,
		Prefix: "commitmsg",
	})

	loaded, err := a.deps.loadEnv()
	if err != nil {
		a.logger.Warn("env file", "err", err)
	}
	if loaded > 0 {
		a.logger.Debug("loaded env files", "variables", loaded)
	}
	return nil
}

// printer builds an output.Printer honoring --json and --color.
func (a *app) printer(cmd *cobra.Command) *output.Printer {
	isTTY := output.ResolveColorMode(a.flags.color, output.IsTTY(cmd.OutOrStdout()))
	return output.NewPrinter(cmd.OutOrStdout(), a.flags.json, isTTY).WithStderr(cmd.ErrOrStderr())
}

// runRoot dispatches to usage mode or the generate flow.
func (a *app) runRoot(cmd *cobra.Command) error {
	printer := a.printer(cmd)

	sess, err := a.newSession()
	if err != nil {
		printer.Error(err)
		return err
	}

	if a.flags.use {
		return runUsage(cmd, printer, sess, a.flags)
	}
	return runSuggest(cmd, printer, sess, a.flags)
}
