package output

import (
	"io"
	"os"
	"slices"
)

// ColorModes lists the accepted values of the --color flag.
var ColorModes = []string{"auto", "always", "never"}

// ValidateColorMode returns a user error for values outside ColorModes.
// The empty string is treated as "auto".
func ValidateColorMode(colorMode string) error {
	if colorMode == "" || slices.Contains(ColorModes, colorMode) {
		return nil
	}
	return NewUserError("--color must be one of auto, always, never; got " + colorMode)
}

// ResolveColorMode determines the effective isTTY value from the --color
// flag and actual TTY detection:
//   - "never":  always disable colors (returns false)
//   - "always": always enable colors (returns true)
//   - "auto":   use the detected isTTY value
func ResolveColorMode(colorMode string, isTTY bool) bool {
	switch colorMode {
	case "never":
		return false
	case "always":
		return true
	default:
		return isTTY
	}
}

// IsTTY checks if a writer is a terminal.
// Returns true only for an *os.File that is a character device.
func IsTTY(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}

	stat, err := file.Stat()
	if err != nil {
		return false
	}

	return (stat.Mode() & os.ModeCharDevice) != 0
}
