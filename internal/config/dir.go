// Package config resolves commitmsg settings from the environment and an
// optional config file in the user's configuration directory.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the commitmsg configuration directory.
//
// Resolution:
//   - $COMMITMSG_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/commitmsg if set (respects XDG on any platform)
//   - %AppData%/commitmsg on Windows
//   - ~/.config/commitmsg on macOS and Linux
func Dir() string {
	if dir := os.Getenv("COMMITMSG_CONFIG_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "commitmsg")
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "commitmsg")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "commitmsg")
}
