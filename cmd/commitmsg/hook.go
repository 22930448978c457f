package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/commitmsg/internal/commitmsg"
	"github.com/gorewood/commitmsg/internal/hook"
	"github.com/gorewood/commitmsg/internal/output"
	"github.com/gorewood/commitmsg/internal/prompt"
)

// newHookCmd creates the hook parent command with subcommands.
func newHookCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Manage the prepare-commit-msg git hook",
		Long: `Manage a prepare-commit-msg hook that pre-fills the commit editor.

With the hook installed, a plain "git commit" opens the editor with a
suggested message already in place. Commits made with -m, -F, --amend,
merges and squashes are left alone. The hook never blocks a commit.

Examples:
  commitmsg hook status            # Show hook status
  commitmsg hook install           # Install the hook
  commitmsg hook install --chain   # Install and keep running an existing hook
  commitmsg hook uninstall         # Remove the hook, restore any backup`,
		Args: cobra.NoArgs,
	}

	cmd.AddCommand(newHookStatusCmd(a))
	cmd.AddCommand(newHookInstallCmd(a))
	cmd.AddCommand(newHookUninstallCmd(a))
	cmd.AddCommand(newHookRunCmd(a))
	return cmd
}

// hookPath locates the hook script in the current repository.
func (a *app) hookPath(cmd *cobra.Command) (string, error) {
	dir, err := a.deps.hooksDir(cmd.Context(), a.logger)
	if err != nil {
		return "", output.NewUserErrorWithCause("not in a git repository: "+err.Error(), err)
	}
	return hook.Path(dir), nil
}

func newHookStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the hook is installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := a.printer(cmd)

			hookPath, err := a.hookPath(cmd)
			if err != nil {
				printer.Error(err)
				return err
			}
			status := hook.Check(hookPath)

			if printer.IsJSON() {
				return printer.Success(map[string]any{
					"hook":      hook.Name,
					"path":      hookPath,
					"installed": status.Installed,
					"chained":   status.Chained,
				})
			}

			state := "not installed"
			if status.Installed {
				state = "installed"
				if status.Chained {
					state += " (chained)"
				}
			}
			printer.Section("Git Hook")
			printer.KeyValue(hook.Name, state)
			printer.KeyValue("Path", hookPath)
			return nil
		},
	}
}

func newHookInstallCmd(a *app) *cobra.Command {
	var chain, force, dryRun bool

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the prepare-commit-msg hook",
		Long: `Install the prepare-commit-msg hook into the repository's hooks directory.

Use --chain to preserve an existing hook (it runs first).
Use --force to overwrite an existing hook without backup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := a.printer(cmd)

			hookPath, err := a.hookPath(cmd)
			if err != nil {
				printer.Error(err)
				return err
			}

			if dryRun {
				existing := hook.Foreign(hookPath)
				if printer.IsJSON() {
					return printer.Success(map[string]any{
						"status":          "dry_run",
						"hook":            hook.Name,
						"exists":          existing,
						"would_chain":     chain && existing,
						"would_overwrite": force && existing,
					})
				}
				printer.Section("Dry Run")
				printer.KeyValue("Hook", hook.Name)
				printer.KeyValue("Path", hookPath)
				printer.KeyValue("Action", hook.DescribeInstallAction(hookPath, chain, force))
				return nil
			}

			chained, err := hook.Install(hookPath, chain, force)
			if err != nil {
				printer.Error(err)
				return err
			}

			if printer.IsJSON() {
				return printer.Success(map[string]any{"status": "ok", "hook": hook.Name, "chained": chained})
			}
			msg := "Installed " + hook.Name + " hook"
			if chained {
				msg += " (existing hook backed up and chained)"
			}
			return printer.Success(map[string]any{"message": msg})
		},
	}

	cmd.Flags().BoolVar(&chain, "chain", false, "Preserve an existing hook, run it first")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing hook without backup")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without doing it")
	return cmd
}

func newHookUninstallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the hook and restore any backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := a.printer(cmd)

			hookPath, err := a.hookPath(cmd)
			if err != nil {
				printer.Error(err)
				return err
			}

			removed, restored, err := hook.Uninstall(hookPath)
			if err != nil {
				printer.Error(err)
				return err
			}

			if printer.IsJSON() {
				return printer.Success(map[string]any{"status": "ok", "removed": removed, "restored": restored})
			}
			switch {
			case !removed:
				return printer.Success(map[string]any{"message": "No commitmsg hook installed"})
			case restored:
				return printer.Success(map[string]any{"message": "Removed " + hook.Name + " hook and restored original"})
			default:
				return printer.Success(map[string]any{"message": "Removed " + hook.Name + " hook"})
			}
		},
	}
}

// newHookRunCmd creates the command the installed script calls. Git passes
// the message file, the commit source, and sometimes a commit SHA.
func newHookRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:    "run <message-file> [source] [sha]",
		Short:  "Fill the commit message file (called by the hook)",
		Hidden: true,
		Args:   cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := ""
			if len(args) > 1 {
				source = args[1]
			}
			if !hook.ShouldFill(source) {
				return nil
			}
			a.fillMessageFile(cmd, args[0])
			return nil
		},
	}
}

// fillMessageFile generates a message for the staged changes and writes it
// into path. Every failure is a warning so the commit goes ahead.
func (a *app) fillMessageFile(cmd *cobra.Command, path string) {
	printer := a.printer(cmd)

	sess, err := a.newSession()
	if err != nil {
		printer.Warn("%v", err)
		return
	}
	tmpl, err := prompt.LoadTemplate(a.flags.template)
	if err != nil {
		printer.Warn("%v", err)
		return
	}

	diff, err := sess.git.StagedDiff(cmd.Context())
	if err != nil {
		printer.Warn("%v", err)
		return
	}
	if strings.TrimSpace(diff) == "" {
		return
	}

	message, err := generate(cmd, printer, sess, a.flags, tmpl, diff, commitmsg.WithSanitize())
	if err != nil {
		printer.Warn("%v", err)
		return
	}
	if err := hook.WriteMessage(path, message); err != nil {
		printer.Warn("%v", err)
	}
}
