package hook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorewood/commitmsg/internal/output"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestScript(t *testing.T) {
	t.Run("without chain", func(t *testing.T) {
		got := Script(false)
		if !strings.HasPrefix(got, "#!/bin/sh") {
			t.Error("expected shebang")
		}
		if !strings.Contains(got, `commitmsg hook run "$@" || true`) {
			t.Error("expected non-blocking commitmsg hook command")
		}
		if strings.Contains(got, ".backup") {
			t.Error("should not contain backup chain")
		}
	})

	t.Run("with chain", func(t *testing.T) {
		got := Script(true)
		if !strings.Contains(got, "prepare-commit-msg.backup") {
			t.Error("expected backup chain section")
		}
		if strings.Index(got, ".backup") > strings.Index(got, marker) {
			t.Error("original hook should run before commitmsg")
		}
	})
}

func TestDescribeInstallAction(t *testing.T) {
	tests := []struct {
		name         string
		existingHook bool
		backup       bool
		chain        bool
		force        bool
		want         string
	}{
		{"no existing hook", false, false, false, false, "would install"},
		{"existing with force", true, false, false, true, "would overwrite"},
		{"existing with chain", true, false, true, false, "would backup and chain"},
		{"existing with chain and backup", true, true, true, false, "already exists"},
		{"existing no flags", true, false, false, false, "would fail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hookPath := Path(t.TempDir())
			if tt.existingHook {
				writeFile(t, hookPath, "#!/bin/sh\necho mine\n")
			}
			if tt.backup {
				writeFile(t, hookPath+".backup", "#!/bin/sh\necho older\n")
			}

			got := DescribeInstallAction(hookPath, tt.chain, tt.force)
			if !strings.Contains(got, tt.want) {
				t.Errorf("DescribeInstallAction(chain=%v, force=%v) = %q, want to contain %q",
					tt.chain, tt.force, got, tt.want)
			}
		})
	}
}

func TestInstall(t *testing.T) {
	t.Run("fresh install creates hooks dir", func(t *testing.T) {
		hookPath := Path(filepath.Join(t.TempDir(), "hooks"))

		chained, err := Install(hookPath, false, false)
		if err != nil {
			t.Fatalf("Install() error = %v", err)
		}
		if chained {
			t.Error("chained = true, want false")
		}
		if status := Check(hookPath); status != (Status{Installed: true}) {
			t.Errorf("Check() = %+v, want installed", status)
		}
		info, err := os.Stat(hookPath)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm()&0o100 == 0 {
			t.Errorf("hook mode = %v, want executable", info.Mode())
		}
	})

	t.Run("existing hook without flags", func(t *testing.T) {
		hookPath := Path(t.TempDir())
		writeFile(t, hookPath, "#!/bin/sh\necho mine\n")

		_, err := Install(hookPath, false, false)
		if output.GetExitCode(err) != output.ExitUserError {
			t.Fatalf("Install() error = %v, want user error", err)
		}
		if got := readFile(t, hookPath); got != "#!/bin/sh\necho mine\n" {
			t.Error("existing hook should be untouched")
		}
	})

	t.Run("chain backs up existing hook", func(t *testing.T) {
		hookPath := Path(t.TempDir())
		writeFile(t, hookPath, "#!/bin/sh\necho mine\n")

		chained, err := Install(hookPath, true, false)
		if err != nil {
			t.Fatalf("Install() error = %v", err)
		}
		if !chained {
			t.Error("chained = false, want true")
		}
		if got := readFile(t, hookPath+".backup"); got != "#!/bin/sh\necho mine\n" {
			t.Errorf("backup = %q", got)
		}
		if status := Check(hookPath); status != (Status{Installed: true, Chained: true}) {
			t.Errorf("Check() = %+v", status)
		}
	})

	t.Run("chain refuses to replace an existing backup", func(t *testing.T) {
		hookPath := Path(t.TempDir())
		writeFile(t, hookPath, "#!/bin/sh\necho mine\n")
		writeFile(t, hookPath+".backup", "#!/bin/sh\necho older\n")

		_, err := Install(hookPath, true, false)
		if output.GetExitCode(err) != output.ExitUserError {
			t.Fatalf("Install() error = %v, want user error", err)
		}
		if got := readFile(t, hookPath+".backup"); got != "#!/bin/sh\necho older\n" {
			t.Errorf("backup = %q, want it untouched", got)
		}
		if got := readFile(t, hookPath); got != "#!/bin/sh\necho mine\n" {
			t.Errorf("hook = %q, want it untouched", got)
		}
	})

	t.Run("force overwrites without backup", func(t *testing.T) {
		hookPath := Path(t.TempDir())
		writeFile(t, hookPath, "#!/bin/sh\necho mine\n")

		if _, err := Install(hookPath, false, true); err != nil {
			t.Fatalf("Install() error = %v", err)
		}
		if Exists(hookPath + ".backup") {
			t.Error("force should not create a backup")
		}
		if !Check(hookPath).Installed {
			t.Error("hook not installed")
		}
	})

	t.Run("reinstall keeps chain", func(t *testing.T) {
		hookPath := Path(t.TempDir())
		writeFile(t, hookPath, "#!/bin/sh\necho mine\n")
		if _, err := Install(hookPath, true, false); err != nil {
			t.Fatal(err)
		}

		chained, err := Install(hookPath, false, false)
		if err != nil {
			t.Fatalf("reinstall error = %v", err)
		}
		if !chained || !Check(hookPath).Chained {
			t.Error("reinstall should keep chaining to the backup")
		}
	})
}

func TestUninstall(t *testing.T) {
	t.Run("not installed", func(t *testing.T) {
		removed, restored, err := Uninstall(Path(t.TempDir()))
		if err != nil || removed || restored {
			t.Errorf("Uninstall() = %v, %v, %v; want false, false, nil", removed, restored, err)
		}
	})

	t.Run("foreign hook left alone", func(t *testing.T) {
		hookPath := Path(t.TempDir())
		writeFile(t, hookPath, "#!/bin/sh\necho mine\n")

		removed, _, err := Uninstall(hookPath)
		if err != nil || removed {
			t.Errorf("Uninstall() removed = %v, err = %v", removed, err)
		}
		if !Exists(hookPath) {
			t.Error("foreign hook should not be removed")
		}
	})

	t.Run("removes and restores backup", func(t *testing.T) {
		hookPath := Path(t.TempDir())
		writeFile(t, hookPath, "#!/bin/sh\necho mine\n")
		if _, err := Install(hookPath, true, false); err != nil {
			t.Fatal(err)
		}

		removed, restored, err := Uninstall(hookPath)
		if err != nil {
			t.Fatalf("Uninstall() error = %v", err)
		}
		if !removed || !restored {
			t.Errorf("removed, restored = %v, %v; want true, true", removed, restored)
		}
		if got := readFile(t, hookPath); got != "#!/bin/sh\necho mine\n" {
			t.Errorf("restored hook = %q", got)
		}
		if Exists(hookPath + ".backup") {
			t.Error("backup should be gone after restore")
		}
	})
}

func TestShouldFill(t *testing.T) {
	tests := map[string]bool{
		"":         true,
		"message":  false,
		"template": false,
		"merge":    false,
		"squash":   false,
		"commit":   false,
	}
	for source, want := range tests {
		if got := ShouldFill(source); got != want {
			t.Errorf("ShouldFill(%q) = %v, want %v", source, got, want)
		}
	}
}

func TestWriteMessage(t *testing.T) {
	tests := []struct {
		name     string
		existing *string
		want     string
	}{
		{name: "missing file", existing: nil, want: "feat: x\n"},
		{name: "empty file", existing: ptr(""), want: "feat: x\n"},
		{
			name:     "keeps git comments",
			existing: ptr("\n# Please enter the commit message for your changes.\n"),
			want:     "feat: x\n\n# Please enter the commit message for your changes.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "COMMIT_EDITMSG")
			if tt.existing != nil {
				writeFile(t, path, *tt.existing)
			}

			if err := WriteMessage(path, "feat: x"); err != nil {
				t.Fatalf("WriteMessage() error = %v", err)
			}
			if got := readFile(t, path); got != tt.want {
				t.Errorf("file = %q, want %q", got, tt.want)
			}
		})
	}
}

func ptr(s string) *string {
	return &s
}
