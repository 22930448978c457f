// Package prompt loads the prompt templates sent to the text-generation API.
//
// Templates are markdown files with optional YAML frontmatter. A template is
// looked up by name in the project (.commitmsg/templates), then in the user
// configuration directory, then among the built-ins compiled into the binary.
package prompt

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/commitmsg/internal/config"
	"github.com/gorewood/commitmsg/internal/output"
)

// Names of the built-in templates.
const (
	CommitTemplate      = "commit"
	UsageSampleTemplate = "usage-sample"
)

// Template sources, in resolution order.
const (
	SourceProject = "project"
	SourceGlobal  = "global"
	SourceBuiltin = "built-in"
)

// Template represents a prompt template with metadata and content.
type Template struct {
	// Metadata from frontmatter
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Version     int    `yaml:"version,omitempty"`

	// Template content (after frontmatter)
	Content string `yaml:"-"`

	// Source location for display
	Source string `yaml:"-"`
}

// TemplateInfo provides template metadata for listing.
type TemplateInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Overrides   string `json:"overrides,omitempty"` // source shadowed by this template
}

// templateSource is one place templates can come from.
type templateSource struct {
	name string
	dir  string // empty for built-ins
	fsys fs.FS  // nil when the location is unavailable
}

func sources() []templateSource {
	project, global := projectTemplatesDir(), globalTemplatesDir()
	return []templateSource{
		{SourceProject, project, dirFS(project)},
		{SourceGlobal, global, dirFS(global)},
		{SourceBuiltin, "", builtinTemplates()},
	}
}

// LoadTemplate finds and loads a template by name.
// Resolution order: project-local → user global → built-in
// A template that exists but cannot be read or parsed is a user error; it
// does not fall through to a lower-priority source.
func LoadTemplate(name string) (*Template, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, output.NewUserError(fmt.Sprintf("invalid template name %q", name))
	}

	for _, src := range sources() {
		tmpl, err := loadFromFS(src.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			file := filepath.Join(src.dir, name+".md")
			return nil, output.NewUserErrorWithCause(
				fmt.Sprintf("invalid %s template %s: %v", src.name, file, err), err)
		}
		tmpl.Source = src.name
		if tmpl.Name == "" {
			tmpl.Name = name
		}
		return tmpl, nil
	}

	return nil, output.NewUserError(fmt.Sprintf("template %q not found", name))
}

// ListTemplates returns every resolvable template. A name defined in more
// than one source is listed once, from the source that wins.
func ListTemplates() []TemplateInfo {
	winner := make(map[string]int) // name -> index in templates
	var templates []TemplateInfo

	for _, src := range sources() {
		for _, info := range listFS(src.fsys, src.name) {
			if idx, seen := winner[info.Name]; seen {
				if templates[idx].Overrides == "" {
					templates[idx].Overrides = info.Source
				}
				continue
			}
			winner[info.Name] = len(templates)
			templates = append(templates, info)
		}
	}

	return templates
}

// Render substitutes {{key}} placeholders in the template content. Values are
// inserted verbatim and never rescanned, so a diff containing "{{types}}" is
// left alone. Unknown placeholders are kept as written.
func Render(tmpl *Template, vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, key := range keys {
		pairs = append(pairs, "{{"+key+"}}", vars[key])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl.Content)
}

// projectTemplatesDir returns the project-local templates directory.
func projectTemplatesDir() string {
	return filepath.Join(".commitmsg", "templates")
}

// globalTemplatesDir returns the user's global templates directory.
func globalTemplatesDir() string {
	dir := config.Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "templates")
}

func dirFS(dir string) fs.FS {
	if dir == "" {
		return nil
	}
	return os.DirFS(dir)
}

// loadFromFS reads and parses <name>.md from fsys.
func loadFromFS(fsys fs.FS, name string) (*Template, error) {
	if fsys == nil {
		return nil, fs.ErrNotExist
	}

	data, err := fs.ReadFile(fsys, name+".md")
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", name, err)
	}

	return parseTemplate(string(data))
}

// listFS lists the parseable templates in fsys. Unreadable locations yield nothing.
func listFS(fsys fs.FS, source string) []TemplateInfo {
	if fsys == nil {
		return nil
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil
	}

	var templates []TemplateInfo
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".md" {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".md")
		tmpl, err := loadFromFS(fsys, name)
		if err != nil {
			continue
		}

		templates = append(templates, TemplateInfo{
			Name:        name,
			Description: tmpl.Description,
			Source:      source,
		})
	}

	return templates
}

// parseTemplate parses a template from raw content with YAML frontmatter.
func parseTemplate(raw string) (*Template, error) {
	frontmatter, content := splitFrontmatter(raw)

	var tmpl Template
	if frontmatter != "" {
		if err := yaml.Unmarshal([]byte(frontmatter), &tmpl); err != nil {
			return nil, fmt.Errorf("invalid frontmatter: %w", err)
		}
	}

	tmpl.Content = strings.TrimSpace(content)
	return &tmpl, nil
}

// splitFrontmatter separates YAML frontmatter from content.
// Frontmatter is delimited by --- at the start and end.
func splitFrontmatter(raw string) (frontmatter, content string) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "---") {
		return "", raw
	}

	rest := raw[3:] // skip opening ---
	before, after, ok := strings.Cut(rest, "\n---")
	if !ok {
		return "", raw
	}

	return strings.TrimSpace(before), strings.TrimSpace(after)
}
