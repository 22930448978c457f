package commitmsg

import "strings"

// shellEscaper escapes the characters that stay special inside a
// double-quoted POSIX shell word.
var shellEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")

// CommitCommand returns a copy-pasteable git commit invocation for message.
func CommitCommand(message string) string {
	return `git commit -m "` + shellEscaper.Replace(message) + `"`
}
