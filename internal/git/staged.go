package git

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/gorewood/commitmsg/internal/output"
)

// Ops defines the git operations the CLI and MCP server depend on.
// Exec implements it; tests substitute their own.
type Ops interface {
	StagedDiff(ctx context.Context) (string, error)
	StagedFiles(ctx context.Context) ([]string, error)
	StagedStat(ctx context.Context) (Diffstat, error)
	AmendCommit(ctx context.Context, message string) error
}

var _ Ops = Exec{}

// Diffstat represents the change statistics of the staged changes.
type Diffstat struct {
	Files      int // Number of files changed
	Insertions int // Number of lines inserted
	Deletions  int // Number of lines deleted
}

// StagedDiff returns the diff between the index and HEAD, trimmed.
// External diff drivers are disabled so the text is always a unified diff.
// An empty string means nothing is staged.
func (e Exec) StagedDiff(ctx context.Context) (string, error) {
	out, err := e.Run(ctx, "diff", "--staged", "--no-ext-diff")
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to read staged changes: "+err.Error(), err)
	}
	return out, nil
}

// StagedFiles returns the paths of all staged files.
func (e Exec) StagedFiles(ctx context.Context) ([]string, error) {
	out, err := e.Run(ctx, "diff", "--staged", "--name-only")
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to list staged files: "+err.Error(), err)
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// StagedStat returns file, insertion, and deletion counts for the staged changes.
func (e Exec) StagedStat(ctx context.Context) (Diffstat, error) {
	out, err := e.Run(ctx, "diff", "--staged", "--shortstat")
	if err != nil {
		return Diffstat{}, output.NewSystemErrorWithCause("failed to get staged diffstat: "+err.Error(), err)
	}
	return parseDiffstat(out), nil
}

// AmendCommit replaces the message of the last commit. Staged changes are
// folded into the amended commit, as with a plain git commit --amend.
func (e Exec) AmendCommit(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		return output.NewUserError("commit message is empty")
	}
	if _, err := e.Run(ctx, "commit", "--amend", "-m", message); err != nil {
		return output.NewSystemErrorWithCause("failed to amend commit: "+err.Error(), err)
	}
	return nil
}

// diffstatLineRegex matches the summary line of git diff --shortstat
// Example: " 3 files changed, 45 insertions(+), 12 deletions(-)"
var diffstatLineRegex = regexp.MustCompile(`(\d+)\s+files?\s+changed(?:,\s+(\d+)\s+insertions?\(\+\))?(?:,\s+(\d+)\s+deletions?\(-\))?`)

// parseDiffstat extracts file, insertion, and deletion counts from git diff --shortstat output.
func parseDiffstat(out string) Diffstat {
	summaryLine := findSummaryLine(out)
	if summaryLine == "" {
		return Diffstat{}
	}

	matches := diffstatLineRegex.FindStringSubmatch(summaryLine)
	if matches == nil {
		return Diffstat{}
	}

	return Diffstat{
		Files:      parseMatchInt(matches, 1),
		Insertions: parseMatchInt(matches, 2),
		Deletions:  parseMatchInt(matches, 3),
	}
}

// findSummaryLine finds the last non-empty line in the diff stat output.
func findSummaryLine(out string) string {
	lines := strings.Split(out, "\n")
	for idx := len(lines) - 1; idx >= 0; idx-- {
		line := strings.TrimSpace(lines[idx])
		if line != "" {
			return line
		}
	}
	return ""
}

// parseMatchInt extracts an int from a regex match group, returning 0 on error.
func parseMatchInt(matches []string, idx int) int {
	if idx >= len(matches) || matches[idx] == "" {
		return 0
	}
	val, err := strconv.Atoi(matches[idx])
	if err != nil {
		return 0
	}
	return val
}
