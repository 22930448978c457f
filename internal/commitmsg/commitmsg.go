// Package commitmsg turns a staged diff into a suggested commit message and
// reports token usage of the text-generation API.
//
// The package holds no I/O of its own: the API is reached through the
// Completer and TokenCounter interfaces and the diff is supplied by the
// caller. Failures are returned as values so the CLI decides how to present
// them.
package commitmsg

import (
	"context"
	"errors"

	"github.com/gorewood/commitmsg/internal/llm"
)

// Types are the recognized conventional-commit type prefixes.
var Types = []string{"feat", "fix", "chore", "docs", "style", "refactor", "test", "build", "ci"}

// MaxLength is the advisory upper bound on message length, in characters.
const MaxLength = 72

// Placeholder is returned when the API answers without any text.
const Placeholder = "Auto-generated commit message."

// ErrEmptyDiff is returned by Generate when there is nothing staged.
var ErrEmptyDiff = errors.New("no staged changes")

// Completer generates text for a prompt.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// TokenCounter reports how many input tokens a text consumes.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
