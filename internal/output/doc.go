// Package output provides structured output handling for the commitmsg CLI.
//
// Every command result can be rendered for a human at a terminal or as a
// single JSON object for scripts and editor integrations.
//
// # Printer
//
// The Printer is the primary interface for command output:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonMode, output.IsTTY(cmd.OutOrStdout()))
//
//	printer.Success(map[string]any{"message": "Amended last commit"})
//	printer.Warn("commit message is %d characters", 80)
//	printer.Error(err)
//
// Warnings and errors go to the writer set with WithStderr in human mode, so
// the suggested message on stdout stays pipeable.
//
// # JSON Mode
//
// With --json, results and errors are structured:
//
//	// Success: {"message": "...", "command": "...", ...}
//	// Error:   {"error": "message", "code": N}
//
// # Exit Codes
//
//	output.ExitSuccess     // 0: success, including recovered sub-step failures
//	output.ExitUserError   // 1: configuration or usage error (missing API key)
//	output.ExitSystemError // 2: git or API failure that could not be recovered
package output
