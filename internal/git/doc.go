// Package git provides Git operations via exec for the commitmsg CLI.
//
// This package wraps git commands by shelling out to the git executable,
// capturing stdout/stderr and translating failures to *output.ExitError.
//
// # Running Git Commands
//
// Exec carries a working directory and an optional debug logger. The zero
// value runs in the process working directory. It implements Ops, the
// interface the CLI and MCP server depend on:
//
//	ops := git.Exec{Logger: logger}
//	diff, err := ops.StagedDiff(ctx)
//	stat, err := ops.StagedStat(ctx)   // 3 files, +45 -12
//	err = ops.AmendCommit(ctx, "fix: handle empty input")
//
// # Error Handling
//
// All functions return errors wrapped with appropriate exit codes:
//   - ExitUserError (1) for user errors like an empty commit message
//   - ExitSystemError (2) for system errors like git not found
//
// The stderr of a failed git invocation is part of the error message.
package git
