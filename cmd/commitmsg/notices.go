package main

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"

	"github.com/gorewood/commitmsg/internal/git"
	"github.com/gorewood/commitmsg/internal/output"
)

// notices reports recoverable problems. In human mode each one is printed
// to stderr as it happens; in JSON mode they are collected for the result.
type notices struct {
	printer *output.Printer
	list    []string
}

func newNotices(printer *output.Printer, initial []string) *notices {
	n := &notices{printer: printer}
	for _, msg := range initial {
		n.add("%s", msg)
	}
	return n
}

func (n *notices) add(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	n.list = append(n.list, msg)
	if !n.printer.IsJSON() {
		n.printer.Warn("%s", msg)
	}
}

// startSpinner shows progress on the printer's stderr while an API call
// runs. It returns the function that stops it; when disabled both are no-ops.
func startSpinner(printer *output.Printer, colorMode, suffix string) func() {
	if !spinnerEnabled(printer, colorMode) {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(printer.ErrWriter()))
	s.Suffix = " " + suffix
	s.Start()
	return s.Stop
}

// spinnerEnabled reports whether progress should be drawn on stderr.
func spinnerEnabled(printer *output.Printer, colorMode string) bool {
	return !printer.IsJSON() && colorMode != "never" && output.IsTTY(printer.ErrWriter())
}

// formatStat renders a diffstat as "3 files staged (+45 -12)".
func formatStat(stat git.Diffstat) string {
	noun := "files"
	if stat.Files == 1 {
		noun = "file"
	}
	return fmt.Sprintf("%d %s staged (+%d -%d)", stat.Files, noun, stat.Insertions, stat.Deletions)
}
