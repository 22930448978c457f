package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gorewood/commitmsg/internal/commitmsg"
	"github.com/gorewood/commitmsg/internal/output"
	"github.com/gorewood/commitmsg/internal/prompt"
)

// usageResult is the --json output of --use. Remaining and Percentage are
// omitted when no quota is configured.
type usageResult struct {
	Model      string   `json:"model"`
	Used       int      `json:"used"`
	Limit      int      `json:"limit,omitempty"`
	Remaining  *int     `json:"remaining,omitempty"`
	Percentage *float64 `json:"percentage,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// runUsage measures the token cost of the sample prompt against the quota.
// An API failure is a warning, not an error.
func runUsage(cmd *cobra.Command, printer *output.Printer, sess *session, flags rootFlags) error {
	sample, err := prompt.LoadTemplate(prompt.UsageSampleTemplate)
	if err != nil {
		printer.Error(err)
		return err
	}

	notes := newNotices(printer, sess.cfg.Warnings)
	result := usageResult{Model: sess.cfg.Model}

	usage, err := measure(cmd, printer, sess, flags, sample.Content)
	if err != nil {
		notes.add("%v", err)
		if printer.IsJSON() {
			result.Warnings = notes.list
			return printer.WriteJSON(result)
		}
		return nil
	}

	result.Used = usage.Used
	if usage.Configured {
		result.Limit = usage.Limit
		result.Remaining = &usage.Remaining
		result.Percentage = &usage.Percentage
	} else {
		notes.add("%s", commitmsg.NoQuotaWarning)
	}

	if printer.IsJSON() {
		result.Warnings = notes.list
		return printer.WriteJSON(result)
	}

	printer.Section("Token Usage")
	printer.KeyValue("Model", sess.cfg.Model)
	printer.KeyValue("Used", strconv.Itoa(usage.Used))
	if usage.Configured {
		printer.KeyValue("Limit", strconv.Itoa(usage.Limit))
		printer.KeyValue("Remaining", strconv.Itoa(usage.Remaining))
		printer.KeyValue("Percentage", usage.PercentageString())
	}
	return nil
}

// measure runs the token count under the configured timeout with a spinner.
func measure(cmd *cobra.Command, printer *output.Printer, sess *session, flags rootFlags,
	sample string,
) (commitmsg.Usage, error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), sess.cfg.Timeout)
	defer cancel()

	stop := startSpinner(printer, flags.color, "Counting tokens...")
	defer stop()

	return commitmsg.NewReporter(sess.client, sample, sess.cfg.TokenLimit).Report(ctx)
}
