// Package git provides Git operations via exec for the commitmsg CLI.
package git

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gorewood/commitmsg/internal/output"
)

// Exec runs git as a subprocess. The zero value runs in the current
// directory without logging.
type Exec struct {
	Dir    string      // working directory; empty means the process cwd
	Logger *log.Logger // nil disables debug traces
}

// Run executes a git command with the given arguments.
// It captures stdout and returns it as a trimmed string.
// Returns an *output.ExitError on failure with appropriate exit code.
func (e Exec) Run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = e.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	err := cmd.Run()
	if e.Logger != nil {
		e.Logger.Debug("git", "args", strings.Join(redactArgs(args), " "), "elapsed", time.Since(started), "ok", err == nil)
	}
	if err != nil {
		// Check if git is not found
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", output.NewSystemError("git not found: ensure git is installed and in PATH")
		}

		// Git command failed - include stderr in message
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = err.Error()
		}
		return "", output.NewSystemErrorWithCause("git command failed: "+errMsg, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// HooksDir returns the directory git runs hooks from. It honors
// core.hooksPath and linked worktrees.
func (e Exec) HooksDir(ctx context.Context) (string, error) {
	out, err := e.Run(ctx, "rev-parse", "--git-path", "hooks")
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(out) && e.Dir != "" {
		out = filepath.Join(e.Dir, out)
	}
	return out, nil
}

// redactArgs hides the value following -m so commit messages stay out of logs.
func redactArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for idx := 0; idx < len(out)-1; idx++ {
		if out[idx] == "-m" {
			out[idx+1] = "<message>"
		}
	}
	return out
}
