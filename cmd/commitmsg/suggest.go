package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/commitmsg/internal/commitmsg"
	"github.com/gorewood/commitmsg/internal/output"
	"github.com/gorewood/commitmsg/internal/prompt"
)

// noStagedChanges is printed when there is nothing to describe.
const noStagedChanges = "No staged changes to commit."

// suggestResult is the --json output of the generate flow.
type suggestResult struct {
	Staged   bool     `json:"staged"`
	Message  string   `json:"message,omitempty"`
	Command  string   `json:"command,omitempty"`
	Amended  bool     `json:"amended"`
	Warnings []string `json:"warnings,omitempty"`
}

// runSuggest collects the staged diff, generates a message, and prints it
// or amends the last commit with it. Git and API failures are reported as
// warnings and end the run successfully.
func runSuggest(cmd *cobra.Command, printer *output.Printer, sess *session, flags rootFlags) error {
	tmpl, err := prompt.LoadTemplate(flags.template)
	if err != nil {
		printer.Error(err)
		return err
	}
	sess.logger.Debug("prompt template", "name", flags.template, "source", tmpl.Source)

	notes := newNotices(printer, sess.cfg.Warnings)
	result := suggestResult{}
	ctx := cmd.Context()

	diff, err := sess.git.StagedDiff(ctx)
	if err != nil {
		notes.add("%v", err)
		diff = ""
	}
	if strings.TrimSpace(diff) == "" {
		if printer.IsJSON() {
			result.Warnings = notes.list
			return printer.WriteJSON(result)
		}
		printer.Println(noStagedChanges)
		return nil
	}
	result.Staged = true

	if !printer.IsJSON() {
		if stat, statErr := sess.git.StagedStat(ctx); statErr == nil && stat.Files > 0 {
			printer.Stderr("%s\n", formatStat(stat))
		}
	}

	message, err := generate(cmd, printer, sess, flags, tmpl, diff)
	if err != nil {
		notes.add("%v", err)
		if printer.IsJSON() {
			result.Warnings = notes.list
			return printer.WriteJSON(result)
		}
		return nil
	}
	result.Message = message

	for _, advisory := range commitmsg.Check(message) {
		notes.add("%s", advisory)
	}

	if flags.amend {
		if err := sess.git.AmendCommit(ctx, message); err != nil {
			notes.add("%v", err)
		} else {
			result.Amended = true
		}
	} else {
		result.Command = commitmsg.CommitCommand(message)
	}

	if printer.IsJSON() {
		result.Warnings = notes.list
		return printer.WriteJSON(result)
	}

	switch {
	case result.Amended:
		return printer.Success(map[string]any{"message": "Amended last commit with: " + message})
	case result.Command != "":
		printSuggestion(printer, message, result.Command)
	}
	return nil
}

// generate runs the API call under the configured timeout with a spinner.
func generate(cmd *cobra.Command, printer *output.Printer, sess *session, flags rootFlags,
	tmpl *prompt.Template, diff string, opts ...commitmsg.Option,
) (string, error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), sess.cfg.Timeout)
	defer cancel()

	stop := startSpinner(printer, flags.color, "Generating commit message...")
	defer stop()

	return commitmsg.NewGenerator(sess.client, tmpl, opts...).Generate(ctx, diff)
}

// printSuggestion prints the message and the command that would commit it.
func printSuggestion(printer *output.Printer, message, command string) {
	printer.Println()
	printer.Message("Suggested Commit Message:", message)
	printer.Println()
	printer.Println("To use it, run:")
	printer.Println()
	printer.Command(command)
}
