package commitmsg

import (
	"context"
	"strconv"
	"strings"

	"github.com/gorewood/commitmsg/internal/llm"
	"github.com/gorewood/commitmsg/internal/output"
	"github.com/gorewood/commitmsg/internal/prompt"
)

// Generator produces commit messages from diffs.
type Generator struct {
	completer Completer
	template  *prompt.Template
	clean     func(string) string
}

// Option configures a Generator.
type Option func(*Generator)

// WithSanitize makes Generate pass responses through Sanitize rather than
// only trimming them. For callers that commit the message unreviewed.
func WithSanitize() Option {
	return func(g *Generator) {
		g.clean = Sanitize
	}
}

// NewGenerator returns a Generator that renders tmpl for each diff.
func NewGenerator(completer Completer, tmpl *prompt.Template, opts ...Option) *Generator {
	g := &Generator{completer: completer, template: tmpl, clean: strings.TrimSpace}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// BuildPrompt renders tmpl for diff. The template receives {{diff}},
// {{types}} and {{max_length}}.
func BuildPrompt(tmpl *prompt.Template, diff string) string {
	return prompt.Render(tmpl, map[string]string{
		"diff":       diff,
		"types":      strings.Join(Types, ", "),
		"max_length": strconv.Itoa(MaxLength),
	})
}

// Generate asks the API for a commit message describing diff.
//
// A blank diff returns ErrEmptyDiff without calling the API. An API failure
// is returned as a system error and no message. The response text is
// trimmed (or sanitized, see WithSanitize); when nothing is left the result
// is Placeholder.
func (g *Generator) Generate(ctx context.Context, diff string) (string, error) {
	if strings.TrimSpace(diff) == "" {
		return "", ErrEmptyDiff
	}

	resp, err := g.completer.Complete(ctx, llm.Request{Prompt: BuildPrompt(g.template, diff)})
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to generate commit message: "+err.Error(), err)
	}

	message := ""
	if resp != nil {
		message = g.clean(resp.Content)
	}
	if message == "" {
		return Placeholder, nil
	}
	return message, nil
}
