package prompt

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.md
var builtinFS embed.FS

// builtinTemplates exposes the embedded templates directory as a flat FS.
func builtinTemplates() fs.FS {
	sub, err := fs.Sub(builtinFS, "templates")
	if err != nil {
		return nil
	}
	return sub
}
