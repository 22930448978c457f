// Package hook manages the prepare-commit-msg git hook that fills the
// commit message editor with a generated suggestion.
//
// The installed script calls "commitmsg hook run" and never blocks a
// commit: if commitmsg is missing or fails, git proceeds with an empty
// message as usual.
package hook

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorewood/commitmsg/internal/output"
)

// Name is the git hook commitmsg installs.
const Name = "prepare-commit-msg"

// marker identifies a script written by Install.
const marker = "commitmsg hook run"

// Status represents the installation state of the hook.
type Status struct {
	Installed bool `json:"installed"`
	Chained   bool `json:"chained"`
}

// Path returns the hook script path inside hooksDir.
func Path(hooksDir string) string {
	return filepath.Join(hooksDir, Name)
}

// backupPath is where an existing hook is kept when chaining.
func backupPath(hookPath string) string {
	return hookPath + ".backup"
}

// Exists checks if a file exists at the given path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Check reports whether the hook at hookPath was written by commitmsg and
// whether it chains to a backed-up original.
func Check(hookPath string) Status {
	content, err := os.ReadFile(hookPath)
	if err != nil {
		return Status{}
	}

	text := string(content)
	if !strings.Contains(text, marker) {
		return Status{}
	}
	return Status{Installed: true, Chained: strings.Contains(text, ".backup")}
}

// Script generates the hook script. If withChain is true, the original
// hook, moved to <hook>.backup, runs first with the same arguments.
func Script(withChain bool) string {
	script := `#!/bin/sh
# commitmsg prepare-commit-msg hook
# Suggests a commit message for plain "git commit" (non-blocking)
`

	if withChain {
		script += `
hook_dir=$(dirname "$0")
if [ -x "$hook_dir/` + Name + `.backup" ]; then
  "$hook_dir/` + Name + `.backup" "$@" || exit $?
fi
`
	}

	script += `
if command -v commitmsg >/dev/null 2>&1; then
  ` + marker + ` "$@" || true
fi
`
	return script
}

// Foreign reports whether a hook not written by commitmsg exists at hookPath.
func Foreign(hookPath string) bool {
	return Exists(hookPath) && !Check(hookPath).Installed
}

// DescribeInstallAction returns a human-readable description of what
// Install would do to hookPath.
func DescribeInstallAction(hookPath string, chain, force bool) string {
	if !Foreign(hookPath) {
		return "would install"
	}
	switch {
	case force:
		return "would overwrite existing hook"
	case chain && Exists(backupPath(hookPath)):
		return "would fail (" + backupPath(hookPath) + " already exists)"
	case chain:
		return "would backup and chain existing hook"
	default:
		return "would fail (hook exists, use --chain or --force)"
	}
}

// Install writes the hook script to hookPath. An existing foreign hook is
// an error unless chain (back it up and run it first) or force (overwrite)
// is set. Chaining never replaces an existing backup. A hook previously written by commitmsg is always replaced.
// Returns whether the new script chains to a backup.
func Install(hookPath string, chain, force bool) (bool, error) {
	existing := Exists(hookPath)
	status := Check(hookPath)
	chained := status.Chained

	if existing && !status.Installed && !force {
		if !chain {
			return false, output.NewUserError("hook already exists at " + hookPath + "; use --chain to preserve or --force to overwrite")
		}
		if Exists(backupPath(hookPath)) {
			return false, output.NewUserError("backup already exists at " + backupPath(hookPath) +
				"; move it aside or use --force to overwrite the hook")
		}
		if err := os.Rename(hookPath, backupPath(hookPath)); err != nil {
			return false, output.NewSystemErrorWithCause("failed to backup existing hook: "+err.Error(), err)
		}
		chained = true
	}

	if err := os.MkdirAll(filepath.Dir(hookPath), 0o755); err != nil {
		return false, output.NewSystemErrorWithCause("failed to create hooks directory: "+err.Error(), err)
	}
	// #nosec G306 -- hook needs execute permission
	if err := os.WriteFile(hookPath, []byte(Script(chained)), 0o755); err != nil {
		return false, output.NewSystemErrorWithCause("failed to write hook: "+err.Error(), err)
	}
	return chained, nil
}

// Uninstall removes a hook written by commitmsg and restores the backup if
// one exists. A missing or foreign hook is left alone and reported as not
// removed.
func Uninstall(hookPath string) (removed, restored bool, err error) {
	if !Check(hookPath).Installed {
		return false, false, nil
	}

	if err := os.Remove(hookPath); err != nil {
		return false, false, output.NewSystemErrorWithCause("failed to remove hook: "+err.Error(), err)
	}

	backup := backupPath(hookPath)
	if !Exists(backup) {
		return true, false, nil
	}
	if err := os.Rename(backup, hookPath); err != nil {
		return true, false, output.NewSystemErrorWithCause("failed to restore backup: "+err.Error(), err)
	}
	return true, true, nil
}

// ShouldFill reports whether the hook should write a suggestion for the
// given commit source. Git passes no source for a plain "git commit"; every
// other source (message, template, merge, squash, commit) already has a
// message the user chose.
func ShouldFill(source string) bool {
	return source == ""
}

// WriteMessage puts message at the top of the commit message file, above
// the comment lines git wrote there.
func WriteMessage(path, message string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return output.NewSystemErrorWithCause("failed to read commit message file: "+err.Error(), err)
	}

	content := message + "\n"
	if rest := strings.TrimLeft(string(existing), "\n"); rest != "" {
		content += "\n" + rest
	}

	// #nosec G306 -- git reads the file back with the user's permissions
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return output.NewSystemErrorWithCause("failed to write commit message file: "+err.Error(), err)
	}
	return nil
}
